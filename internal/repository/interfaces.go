package repository

import (
	"context"
	"time"

	"devconnect/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Search matches name OR bio case-insensitively; empty query returns all users.
	Search(ctx context.Context, query string) ([]model.User, error)
	// UpdateProfile merges the non-nil whitelisted fields and returns the updated row.
	UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.User, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, userID int64, req model.CreateProjectRequest) (*model.Project, error)
	GetByID(ctx context.Context, projectID int64) (*model.Project, error)
	// List returns owner-joined projects newest-first, filtered per f.
	List(ctx context.Context, f model.ProjectFilter) ([]model.Project, error)
	// Update merges the non-nil whitelisted fields. Ownership is checked by the service.
	Update(ctx context.Context, projectID int64, req model.UpdateProjectRequest) (*model.Project, error)
	Delete(ctx context.Context, projectID int64) error
	Exists(ctx context.Context, projectID int64) (bool, error)
	GetLikers(ctx context.Context, projectID int64) ([]model.Liker, error)
	// ToggleLike adds the user to the likes set if absent, removes it otherwise.
	// Runs as a single store transaction; returns true when the result is a like.
	ToggleLike(ctx context.Context, projectID, userID int64) (bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, projectID, userID int64, content string) (*model.Comment, error)
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	// ListByProject returns author-joined comments newest-first. An unknown
	// project yields an empty slice, not an error.
	ListByProject(ctx context.Context, projectID int64) ([]model.Comment, error)
	Update(ctx context.Context, commentID int64, content string) (*model.Comment, error)
	Delete(ctx context.Context, commentID int64) error
	GetLikers(ctx context.Context, commentID int64) ([]model.Liker, error)
	ToggleLike(ctx context.Context, commentID, userID int64) (bool, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}
