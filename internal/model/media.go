package model

import "errors"

// UploadResult is returned after a server-side upload to object storage.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// PresignProjectImageRequest is the request body for POST /media/projects/presign.
type PresignProjectImageRequest struct {
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size"`
}

// PresignProjectImageResponse carries a presigned PUT URL for direct upload.
type PresignProjectImageResponse struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"` // Seconds until the presigned URL expires
}

// Media constraints
const (
	MaxAvatarSizeBytes  = 5 * 1024 * 1024
	MaxProjectImageSize = 10 * 1024 * 1024
	AvatarWidth         = 256
	AvatarHeight        = 256
	AvatarFolder        = "avatars"
	ProjectImageFolder  = "projects"
	AvatarExt           = ".jpg"
	ContentTypeJPEG     = "image/jpeg"
	AvatarCacheControl  = "public, max-age=31536000"
)

// allowedImageTypes are the content types accepted for uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// IsAllowedImageType reports whether the content type may be uploaded.
func IsAllowedImageType(contentType string) bool {
	return allowedImageTypes[contentType]
}

// Media errors
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
)
