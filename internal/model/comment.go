package model

import (
	"errors"
	"time"
)

// Comment represents a comment on a project.
type Comment struct {
	ID        int64     `db:"id" json:"id"`
	ProjectID int64     `db:"project_id" json:"project_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Joined fields
	Author *UserSummary `json:"user,omitempty"`
	Likes  []Liker      `json:"likes"`
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	ProjectID int64  `json:"project_id"`
	Content   string `json:"content"`
}

// UpdateCommentRequest is the request body for updating a comment.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// Comment errors
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the owner of this comment")
	ErrContentRequired = errors.New("comment content is required")
)
