package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"devconnect/internal/cache"
	"devconnect/internal/model"
	"devconnect/internal/repository"
)

// ProjectService enforces ownership and validation rules on projects and
// implements the like-toggle.
type ProjectService struct {
	projectRepo  repository.ProjectRepository
	userRepo     repository.UserRepository
	projectCache cache.ProjectCache
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	projectCache cache.ProjectCache,
) *ProjectService {
	return &ProjectService{
		projectRepo:  projectRepo,
		userRepo:     userRepo,
		projectCache: projectCache,
	}
}

// List returns owner-joined projects matching the filter, newest-first.
// An empty result is an empty slice, never an error.
func (s *ProjectService) List(ctx context.Context, f model.ProjectFilter) ([]model.Project, error) {
	projects, err := s.projectRepo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return projects, nil
}

// GetByID returns a project joined with its owner's public fields and the
// likers list. Serves from the cache when possible.
func (s *ProjectService) GetByID(ctx context.Context, projectID int64) (*model.Project, error) {
	if s.projectCache != nil {
		if cached, found, err := s.projectCache.Get(ctx, projectID); err == nil && found {
			return cached, nil
		} else if err != nil {
			log.Printf("[ProjectService] cache get failed: project=%d err=%v", projectID, err)
		}
	}

	project, err := s.fetchJoined(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if s.projectCache != nil {
		if err := s.projectCache.Set(ctx, project); err != nil {
			log.Printf("[ProjectService] cache set failed: project=%d err=%v", projectID, err)
		}
	}

	return project, nil
}

// Create validates required fields and stores a new project owned by userID.
func (s *ProjectService) Create(ctx context.Context, userID int64, req model.CreateProjectRequest) (*model.Project, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" {
		return nil, model.ErrTitleRequired
	}
	if req.Description == "" {
		return nil, model.ErrDescriptionRequired
	}
	if req.Technologies == nil {
		req.Technologies = []string{}
	}

	project, err := s.projectRepo.Create(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.attachOwner(ctx, project)

	log.Printf("[ProjectService] User %d created project %d", userID, project.ID)
	return project, nil
}

// Update applies a whitelisted partial merge. Only the owner may update;
// the owner reference and the likes set are not mutable through here.
func (s *ProjectService) Update(ctx context.Context, requesterID, projectID int64, req model.UpdateProjectRequest) (*model.Project, error) {
	existing, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != requesterID {
		return nil, model.ErrNotProjectOwner
	}

	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			return nil, model.ErrTitleRequired
		}
		req.Title = &trimmed
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		return nil, model.ErrDescriptionRequired
	}

	project, err := s.projectRepo.Update(ctx, projectID, req)
	if err != nil {
		return nil, err
	}

	s.attachOwner(ctx, project)
	likers, err := s.projectRepo.GetLikers(ctx, projectID)
	if err == nil {
		project.Likes = likers
	}

	s.invalidate(ctx, projectID)
	return project, nil
}

// Delete removes a project. Only the owner may delete; the store cascades
// the project's comments.
func (s *ProjectService) Delete(ctx context.Context, requesterID, projectID int64) error {
	existing, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if existing.UserID != requesterID {
		return model.ErrNotProjectOwner
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return err
	}

	s.invalidate(ctx, projectID)
	log.Printf("[ProjectService] User %d deleted project %d", requesterID, projectID)
	return nil
}

// ToggleLike flips the requester's membership in the project's likes set and
// returns the full updated project. Any authenticated user may toggle,
// including the owner.
func (s *ProjectService) ToggleLike(ctx context.Context, requesterID, projectID int64) (*model.Project, error) {
	exists, err := s.projectRepo.Exists(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("check project exists: %w", err)
	}
	if !exists {
		return nil, model.ErrProjectNotFound
	}

	liked, err := s.projectRepo.ToggleLike(ctx, projectID, requesterID)
	if err != nil {
		return nil, err
	}

	if liked {
		log.Printf("[ProjectService] User %d liked project %d", requesterID, projectID)
	} else {
		log.Printf("[ProjectService] User %d unliked project %d", requesterID, projectID)
	}

	s.invalidate(ctx, projectID)
	return s.fetchJoined(ctx, projectID)
}

// fetchJoined loads a project with owner public fields and likers.
func (s *ProjectService) fetchJoined(ctx context.Context, projectID int64) (*model.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if owner, err := s.userRepo.GetByID(ctx, project.UserID); err == nil {
		project.Owner = &model.UserSummary{
			ID:     owner.ID,
			Name:   owner.Name,
			Avatar: owner.Avatar,
			Bio:    owner.Bio,
		}
	}

	likers, err := s.projectRepo.GetLikers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get likers: %w", err)
	}
	project.Likes = likers

	return project, nil
}

// attachOwner adds the owner's public fields, best-effort.
func (s *ProjectService) attachOwner(ctx context.Context, project *model.Project) {
	owner, err := s.userRepo.GetByID(ctx, project.UserID)
	if err != nil {
		log.Printf("[ProjectService] Failed to fetch owner: user=%d err=%v", project.UserID, err)
		return
	}
	project.Owner = &model.UserSummary{
		ID:     owner.ID,
		Name:   owner.Name,
		Avatar: owner.Avatar,
	}
}

func (s *ProjectService) invalidate(ctx context.Context, projectID int64) {
	if s.projectCache == nil {
		return
	}
	if err := s.projectCache.Invalidate(ctx, projectID); err != nil {
		log.Printf("[ProjectService] cache invalidate failed: project=%d err=%v", projectID, err)
	}
}
