package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"devconnect/internal/model"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts a new comment with an empty likes set.
func (r *commentRepository) Create(ctx context.Context, projectID, userID int64, content string) (*model.Comment, error) {
	query := `
		INSERT INTO comments (project_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, project_id, user_id, content, created_at, updated_at
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, projectID, userID, content)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	comment.Likes = []model.Liker{}
	return &comment, nil
}

// GetByID retrieves a single comment row.
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	query := `
		SELECT id, project_id, user_id, content, created_at, updated_at
		FROM comments
		WHERE id = $1
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// ListByProject returns author-joined comments for a project, newest-first.
// An unknown project simply matches nothing.
func (r *commentRepository) ListByProject(ctx context.Context, projectID int64) ([]model.Comment, error) {
	query := `
		SELECT c.id, c.project_id, c.user_id, c.content, c.created_at, c.updated_at,
		       u.id as "author.id", u.name as "author.name", u.avatar as "author.avatar"
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.project_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`

	type commentRow struct {
		ID           int64     `db:"id"`
		ProjectID    int64     `db:"project_id"`
		UserID       int64     `db:"user_id"`
		Content      string    `db:"content"`
		CreatedAt    time.Time `db:"created_at"`
		UpdatedAt    time.Time `db:"updated_at"`
		AuthorID     int64     `db:"author.id"`
		AuthorName   string    `db:"author.name"`
		AuthorAvatar *string   `db:"author.avatar"`
	}

	var rows []commentRow
	err := r.db.SelectContext(ctx, &rows, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("get comments: %w", err)
	}

	comments := make([]model.Comment, len(rows))
	commentIDs := make([]int64, len(rows))
	for i, row := range rows {
		comments[i] = model.Comment{
			ID:        row.ID,
			ProjectID: row.ProjectID,
			UserID:    row.UserID,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			Author: &model.UserSummary{
				ID:     row.AuthorID,
				Name:   row.AuthorName,
				Avatar: row.AuthorAvatar,
			},
			Likes: []model.Liker{},
		}
		commentIDs[i] = row.ID
	}

	likerMap, err := r.getLikersByComment(ctx, commentIDs)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if likers, ok := likerMap[comments[i].ID]; ok {
			comments[i].Likes = likers
		}
	}

	return comments, nil
}

// Update replaces a comment's content. Ownership is checked by the service.
func (r *commentRepository) Update(ctx context.Context, commentID int64, content string) (*model.Comment, error) {
	query := `
		UPDATE comments
		SET content = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, project_id, user_id, content, created_at, updated_at
	`
	var comment model.Comment
	err := r.db.GetContext(ctx, &comment, query, content, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return &comment, nil
}

// Delete removes a comment.
func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// GetLikers returns the users in the comment's likes set, oldest like first.
func (r *commentRepository) GetLikers(ctx context.Context, commentID int64) ([]model.Liker, error) {
	likerMap, err := r.getLikersByComment(ctx, []int64{commentID})
	if err != nil {
		return nil, err
	}
	likers := likerMap[commentID]
	if likers == nil {
		likers = []model.Liker{}
	}
	return likers, nil
}

// ToggleLike flips the requester's membership in the comment's likes set.
// Same single-transaction scheme as the project toggle.
func (r *commentRepository) ToggleLike(ctx context.Context, commentID, userID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO comment_likes (comment_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (comment_id, user_id) DO NOTHING
	`, commentID, userID)
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	liked := inserted > 0
	if !liked {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2
		`, commentID, userID); err != nil {
			return false, fmt.Errorf("delete like: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return liked, nil
}

// Helper: fetch likers for multiple comments in one query.
func (r *commentRepository) getLikersByComment(ctx context.Context, commentIDs []int64) (map[int64][]model.Liker, error) {
	if len(commentIDs) == 0 {
		return map[int64][]model.Liker{}, nil
	}

	query := `
		SELECT cl.comment_id, u.id, u.name
		FROM comment_likes cl
		JOIN users u ON u.id = cl.user_id
		WHERE cl.comment_id = ANY($1)
		ORDER BY cl.created_at, cl.user_id
	`

	type likerRow struct {
		CommentID int64  `db:"comment_id"`
		ID        int64  `db:"id"`
		Name      string `db:"name"`
	}

	var rows []likerRow
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(commentIDs))
	if err != nil {
		return nil, fmt.Errorf("get comment likers: %w", err)
	}

	result := make(map[int64][]model.Liker)
	for _, row := range rows {
		result[row.CommentID] = append(result[row.CommentID], model.Liker{ID: row.ID, Name: row.Name})
	}
	return result, nil
}
