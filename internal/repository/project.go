package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"devconnect/internal/model"
)

type projectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create inserts a new project owned by userID with an empty likes set.
func (r *projectRepository) Create(ctx context.Context, userID int64, req model.CreateProjectRequest) (*model.Project, error) {
	query := `
		INSERT INTO projects (user_id, title, description, github_link, live_link, demo_link, technologies, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, user_id, title, description, github_link, live_link, demo_link, technologies, image,
		          created_at, updated_at
	`

	var project model.Project
	err := r.db.GetContext(ctx, &project, query,
		userID, req.Title, req.Description,
		req.GithubLink, req.LiveLink, req.DemoLink,
		pq.Array(req.Technologies), req.Image,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	project.Likes = []model.Liker{}
	return &project, nil
}

// GetByID retrieves a single project row without joins.
func (r *projectRepository) GetByID(ctx context.Context, projectID int64) (*model.Project, error) {
	query := `
		SELECT id, user_id, title, description, github_link, live_link, demo_link, technologies, image,
		       created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	var project model.Project
	err := r.db.GetContext(ctx, &project, query, projectID)
	if err == sql.ErrNoRows {
		return nil, model.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &project, nil
}

// List returns owner-joined projects newest-first. Search is delegated to the
// store's text index; search and owner filters combine with AND.
func (r *projectRepository) List(ctx context.Context, f model.ProjectFilter) ([]model.Project, error) {
	conditions := []string{}
	args := []interface{}{}

	if f.Search != "" {
		args = append(args, f.Search)
		conditions = append(conditions, fmt.Sprintf(
			"to_tsvector('english', p.title || ' ' || p.description) @@ plainto_tsquery('english', $%d)", len(args)))
	}
	if f.OwnerID != nil {
		args = append(args, *f.OwnerID)
		conditions = append(conditions, fmt.Sprintf("p.user_id = $%d", len(args)))
	}

	query := `
		SELECT p.id, p.user_id, p.title, p.description, p.github_link, p.live_link, p.demo_link,
		       p.technologies, p.image, p.created_at, p.updated_at,
		       u.id as "owner.id", u.name as "owner.name", u.avatar as "owner.avatar"
		FROM projects p
		JOIN users u ON u.id = p.user_id
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.created_at DESC, p.id DESC"

	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	type projectRow struct {
		ID           int64          `db:"id"`
		UserID       int64          `db:"user_id"`
		Title        string         `db:"title"`
		Description  string         `db:"description"`
		GithubLink   string         `db:"github_link"`
		LiveLink     string         `db:"live_link"`
		DemoLink     string         `db:"demo_link"`
		Technologies pq.StringArray `db:"technologies"`
		Image        string         `db:"image"`
		CreatedAt    time.Time      `db:"created_at"`
		UpdatedAt    time.Time      `db:"updated_at"`
		OwnerID      int64          `db:"owner.id"`
		OwnerName    string         `db:"owner.name"`
		OwnerAvatar  *string        `db:"owner.avatar"`
	}

	var rows []projectRow
	err := r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	projects := make([]model.Project, len(rows))
	projectIDs := make([]int64, len(rows))
	for i, row := range rows {
		projects[i] = model.Project{
			ID:           row.ID,
			UserID:       row.UserID,
			Title:        row.Title,
			Description:  row.Description,
			GithubLink:   row.GithubLink,
			LiveLink:     row.LiveLink,
			DemoLink:     row.DemoLink,
			Technologies: row.Technologies,
			Image:        row.Image,
			CreatedAt:    row.CreatedAt,
			UpdatedAt:    row.UpdatedAt,
			Owner: &model.UserSummary{
				ID:     row.OwnerID,
				Name:   row.OwnerName,
				Avatar: row.OwnerAvatar,
			},
			Likes: []model.Liker{},
		}
		projectIDs[i] = row.ID
	}

	// Batch-fetch likers to avoid one query per project.
	likerMap, err := r.getLikersByProject(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if likers, ok := likerMap[projects[i].ID]; ok {
			projects[i].Likes = likers
		}
	}

	return projects, nil
}

// Update merges the non-nil whitelisted fields. COALESCE keeps stored values
// for absent fields; user_id and likes are not reachable from here.
func (r *projectRepository) Update(ctx context.Context, projectID int64, req model.UpdateProjectRequest) (*model.Project, error) {
	var technologies interface{}
	if req.Technologies != nil {
		technologies = pq.Array(*req.Technologies)
	}

	query := `
		UPDATE projects SET
			title        = COALESCE($1, title),
			description  = COALESCE($2, description),
			github_link  = COALESCE($3, github_link),
			live_link    = COALESCE($4, live_link),
			demo_link    = COALESCE($5, demo_link),
			technologies = COALESCE($6, technologies),
			image        = COALESCE($7, image),
			updated_at   = NOW()
		WHERE id = $8
		RETURNING id, user_id, title, description, github_link, live_link, demo_link, technologies, image,
		          created_at, updated_at
	`

	var project model.Project
	err := r.db.GetContext(ctx, &project, query,
		req.Title, req.Description, req.GithubLink, req.LiveLink, req.DemoLink,
		technologies, req.Image,
		projectID,
	)
	if err == sql.ErrNoRows {
		return nil, model.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	return &project, nil
}

// Delete removes a project. Comments cascade at the store layer.
func (r *projectRepository) Delete(ctx context.Context, projectID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrProjectNotFound
	}
	return nil
}

// Exists checks if a project exists.
func (r *projectRepository) Exists(ctx context.Context, projectID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, projectID)
	if err != nil {
		return false, fmt.Errorf("check project exists: %w", err)
	}
	return exists, nil
}

// GetLikers returns the users in the project's likes set, oldest like first.
func (r *projectRepository) GetLikers(ctx context.Context, projectID int64) ([]model.Liker, error) {
	likerMap, err := r.getLikersByProject(ctx, []int64{projectID})
	if err != nil {
		return nil, err
	}
	likers := likerMap[projectID]
	if likers == nil {
		likers = []model.Liker{}
	}
	return likers, nil
}

// ToggleLike flips the requester's membership in the likes set inside a single
// transaction. The unique constraint on (project_id, user_id) guarantees set
// semantics; concurrent toggles serialize on the row at the store layer.
func (r *projectRepository) ToggleLike(ctx context.Context, projectID, userID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO project_likes (project_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (project_id, user_id) DO NOTHING
	`, projectID, userID)
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	liked := inserted > 0
	if !liked {
		// Already a member: this toggle is an unlike.
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM project_likes WHERE project_id = $1 AND user_id = $2
		`, projectID, userID); err != nil {
			return false, fmt.Errorf("delete like: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return liked, nil
}

// Helper: fetch likers for multiple projects in one query.
func (r *projectRepository) getLikersByProject(ctx context.Context, projectIDs []int64) (map[int64][]model.Liker, error) {
	if len(projectIDs) == 0 {
		return map[int64][]model.Liker{}, nil
	}

	query := `
		SELECT pl.project_id, u.id, u.name
		FROM project_likes pl
		JOIN users u ON u.id = pl.user_id
		WHERE pl.project_id = ANY($1)
		ORDER BY pl.created_at, pl.user_id
	`

	type likerRow struct {
		ProjectID int64  `db:"project_id"`
		ID        int64  `db:"id"`
		Name      string `db:"name"`
	}

	var rows []likerRow
	err := r.db.SelectContext(ctx, &rows, query, pq.Array(projectIDs))
	if err != nil {
		return nil, fmt.Errorf("get project likers: %w", err)
	}

	result := make(map[int64][]model.Liker)
	for _, row := range rows {
		result[row.ProjectID] = append(result[row.ProjectID], model.Liker{ID: row.ID, Name: row.Name})
	}
	return result, nil
}
