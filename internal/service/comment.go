package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"devconnect/internal/model"
	"devconnect/internal/repository"
)

// CommentService enforces ownership rules on the comment lifecycle.
type CommentService struct {
	commentRepo repository.CommentRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// ListByProject returns a project's comments newest-first, author-joined.
// An unknown project yields an empty slice, not an error.
func (s *CommentService) ListByProject(ctx context.Context, projectID int64) ([]model.Comment, error) {
	comments, err := s.commentRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, nil
}

// Create adds a comment to an existing project.
func (s *CommentService) Create(ctx context.Context, userID int64, req model.CreateCommentRequest) (*model.Comment, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, model.ErrContentRequired
	}

	exists, err := s.projectRepo.Exists(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("check project exists: %w", err)
	}
	if !exists {
		return nil, model.ErrProjectNotFound
	}

	comment, err := s.commentRepo.Create(ctx, req.ProjectID, userID, req.Content)
	if err != nil {
		return nil, err
	}

	s.attachAuthor(ctx, comment)

	log.Printf("[CommentService] User %d commented on project %d", userID, req.ProjectID)
	return comment, nil
}

// Update replaces a comment's content. Only the owner may update.
func (s *CommentService) Update(ctx context.Context, requesterID, commentID int64, req model.UpdateCommentRequest) (*model.Comment, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, model.ErrContentRequired
	}

	existing, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if existing.UserID != requesterID {
		return nil, model.ErrNotCommentOwner
	}

	comment, err := s.commentRepo.Update(ctx, commentID, req.Content)
	if err != nil {
		return nil, err
	}

	s.attachAuthor(ctx, comment)
	if likers, err := s.commentRepo.GetLikers(ctx, commentID); err == nil {
		comment.Likes = likers
	}

	log.Printf("[CommentService] User %d updated comment %d", requesterID, commentID)
	return comment, nil
}

// Delete removes a comment. Only the owner may delete.
func (s *CommentService) Delete(ctx context.Context, requesterID, commentID int64) error {
	existing, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if existing.UserID != requesterID {
		return model.ErrNotCommentOwner
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	log.Printf("[CommentService] User %d deleted comment %d", requesterID, commentID)
	return nil
}

// ToggleLike flips the requester's membership in the comment's likes set and
// returns the updated, author-joined comment.
func (s *CommentService) ToggleLike(ctx context.Context, requesterID, commentID int64) (*model.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}

	liked, err := s.commentRepo.ToggleLike(ctx, commentID, requesterID)
	if err != nil {
		return nil, err
	}

	if liked {
		log.Printf("[CommentService] User %d liked comment %d", requesterID, commentID)
	} else {
		log.Printf("[CommentService] User %d unliked comment %d", requesterID, commentID)
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	s.attachAuthor(ctx, comment)
	likers, err := s.commentRepo.GetLikers(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("get likers: %w", err)
	}
	comment.Likes = likers

	return comment, nil
}

// attachAuthor adds the commenter's public fields, best-effort.
func (s *CommentService) attachAuthor(ctx context.Context, comment *model.Comment) {
	author, err := s.userRepo.GetByID(ctx, comment.UserID)
	if err != nil {
		log.Printf("[CommentService] Failed to fetch author: user=%d err=%v", comment.UserID, err)
		return
	}
	comment.Author = &model.UserSummary{
		ID:     author.ID,
		Name:   author.Name,
		Avatar: author.Avatar,
	}
}
