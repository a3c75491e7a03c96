package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"devconnect/internal/model"
	"devconnect/internal/repository"
)

// UserService handles business logic for user operations
type UserService struct {
	repo        repository.UserRepository
	projectRepo repository.ProjectRepository
}

func NewUserService(repo repository.UserRepository, projectRepo repository.ProjectRepository) *UserService {
	return &UserService{
		repo:        repo,
		projectRepo: projectRepo,
	}
}

// Register creates a new user account.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, model.ErrNameRequired
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("email is required")
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, fmt.Errorf("password is required")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		PasswordHashed: string(hashedPassword),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user with email and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		// Don't reveal whether the email is registered
		return nil, model.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password))
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Search finds users by a case-insensitive substring of name or bio.
// The password hash never serializes; an empty query lists everyone.
func (s *UserService) Search(ctx context.Context, query string) ([]model.User, error) {
	users, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetWithProjects returns the public user record together with all of the
// user's projects, owner-joined.
func (s *UserService) GetWithProjects(ctx context.Context, userID int64) (*model.UserWithProjects, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.List(ctx, model.ProjectFilter{OwnerID: &userID})
	if err != nil {
		return nil, fmt.Errorf("list user projects: %w", err)
	}
	if projects == nil {
		projects = []model.Project{}
	}

	return &model.UserWithProjects{User: user, Projects: projects}, nil
}

// UpdateProfile merges the whitelisted profile fields into the requester's
// own record. There is no target id: a user can only edit themself.
func (s *UserService) UpdateProfile(ctx context.Context, requesterID int64, req model.UpdateProfileRequest) (*model.User, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, model.ErrNameRequired
	}

	user, err := s.repo.UpdateProfile(ctx, requesterID, req)
	if err != nil {
		return nil, err
	}
	return user, nil
}
