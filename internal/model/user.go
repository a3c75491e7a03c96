package model

import (
	"errors"
	"time"
)

// User represents a member of the platform.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	Bio            *string   `db:"bio" json:"bio"`
	Location       *string   `db:"location" json:"location"`
	Website        *string   `db:"website" json:"website"`
	Github         *string   `db:"github" json:"github"`
	Linkedin       *string   `db:"linkedin" json:"linkedin"`
	Avatar         *string   `db:"avatar" json:"avatar"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the public subset of a user embedded in other payloads.
type UserSummary struct {
	ID     int64   `db:"id" json:"id"`
	Name   string  `db:"name" json:"name"`
	Avatar *string `db:"avatar" json:"avatar"`
	Bio    *string `db:"bio" json:"bio,omitempty"`
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the whitelisted mutable profile fields.
// Absent (nil) fields keep their stored values.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
	Website  *string `json:"website"`
	Github   *string `json:"github"`
	Linkedin *string `json:"linkedin"`
	Avatar   *string `json:"avatar"`
}

// UserWithProjects is the GET /users/:id payload.
type UserWithProjects struct {
	User     *User     `json:"user"`
	Projects []Project `json:"projects"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned when attempting to register with a taken email
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNameRequired is returned when registering without a name
	ErrNameRequired = errors.New("name is required")
)
