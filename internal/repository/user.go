package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"devconnect/internal/model"
)

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (name, email, password_hashed, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query, u.Name, u.Email, u.PasswordHashed)

	err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, name, email, password_hashed, bio, location, website, github, linkedin, avatar,
		       created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByEmail retrieves a user by their email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, name, email, password_hashed, bio, location, website, github, linkedin, avatar,
		       created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}

// ExistsByEmail checks if an email is already registered
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// Search matches name OR bio case-insensitively. The substring match is
// delegated to the store (ILIKE); an empty query returns every user.
func (r *userRepository) Search(ctx context.Context, query string) ([]model.User, error) {
	baseSelect := `
		SELECT id, name, email, password_hashed, bio, location, website, github, linkedin, avatar,
		       created_at, updated_at
		FROM users
	`

	var users []model.User
	var err error
	if query == "" {
		err = r.db.SelectContext(ctx, &users, baseSelect+` ORDER BY created_at DESC`)
	} else {
		pattern := "%" + query + "%"
		err = r.db.SelectContext(ctx, &users, baseSelect+`
			WHERE name ILIKE $1 OR bio ILIKE $1
			ORDER BY created_at DESC
		`, pattern)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// UpdateProfile merges the non-nil fields into the user row. COALESCE keeps
// the stored value for absent fields, so a partial update touches only what
// the request names.
func (r *userRepository) UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.User, error) {
	query := `
		UPDATE users SET
			name     = COALESCE($1, name),
			bio      = COALESCE($2, bio),
			location = COALESCE($3, location),
			website  = COALESCE($4, website),
			github   = COALESCE($5, github),
			linkedin = COALESCE($6, linkedin),
			avatar   = COALESCE($7, avatar),
			updated_at = NOW()
		WHERE id = $8
		RETURNING id, name, email, password_hashed, bio, location, website, github, linkedin, avatar,
		          created_at, updated_at
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query,
		req.Name, req.Bio, req.Location, req.Website, req.Github, req.Linkedin, req.Avatar,
		userID,
	)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &u, nil
}
