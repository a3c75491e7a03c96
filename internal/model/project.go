package model

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

// Project represents a published portfolio project.
// UserID is set at creation and never reassigned; Likes is a set of user
// references even though it serializes as an ordered list.
type Project struct {
	ID           int64          `db:"id" json:"id"`
	UserID       int64          `db:"user_id" json:"user_id"`
	Title        string         `db:"title" json:"title"`
	Description  string         `db:"description" json:"description"`
	GithubLink   string         `db:"github_link" json:"github_link"`
	LiveLink     string         `db:"live_link" json:"live_link"`
	DemoLink     string         `db:"demo_link" json:"demo_link"`
	Technologies pq.StringArray `db:"technologies" json:"technologies"`
	Image        string         `db:"image" json:"image"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`

	// Joined fields (not columns of the projects table)
	Owner *UserSummary `json:"user,omitempty"`
	Likes []Liker      `json:"likes"`
}

// Liker is a user reference inside a likes list.
type Liker struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ProjectFilter narrows List results. Both fields combine with logical AND.
type ProjectFilter struct {
	Search  string // full-text over title + description, delegated to the store
	OwnerID *int64
	Limit   int // passed through unchanged; 0 means no limit
	Offset  int
}

// CreateProjectRequest is the request body for creating a project.
type CreateProjectRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	GithubLink   string   `json:"github_link"`
	LiveLink     string   `json:"live_link"`
	DemoLink     string   `json:"demo_link"`
	Technologies []string `json:"technologies"`
	Image        string   `json:"image"`
}

// UpdateProjectRequest whitelists the mutable project fields. Owner and likes
// are not represented here and cannot be written through an update.
type UpdateProjectRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	GithubLink   *string   `json:"github_link"`
	LiveLink     *string   `json:"live_link"`
	DemoLink     *string   `json:"demo_link"`
	Technologies *[]string `json:"technologies"`
	Image        *string   `json:"image"`
}

// Project errors
var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrNotProjectOwner     = errors.New("not the owner of this project")
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
)
