package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"devconnect/internal/model"
)

// ============================================================================
// In-memory fakes shared by the service tests
// ============================================================================

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: map[int64]*model.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Search(ctx context.Context, query string) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []model.User
	for _, u := range r.users {
		if q == "" || strings.Contains(strings.ToLower(u.Name), q) ||
			(u.Bio != nil && strings.Contains(strings.ToLower(*u.Bio), q)) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Bio != nil {
		u.Bio = req.Bio
	}
	if req.Location != nil {
		u.Location = req.Location
	}
	if req.Website != nil {
		u.Website = req.Website
	}
	if req.Github != nil {
		u.Github = req.Github
	}
	if req.Linkedin != nil {
		u.Linkedin = req.Linkedin
	}
	if req.Avatar != nil {
		u.Avatar = req.Avatar
	}
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	nextID   int64
	projects map[int64]*model.Project
	likes    map[int64][]int64 // projectID -> liker user IDs in like order
	users    *fakeUserRepo
}

func newFakeProjectRepo(users *fakeUserRepo) *fakeProjectRepo {
	return &fakeProjectRepo{
		nextID:   1,
		projects: map[int64]*model.Project{},
		likes:    map[int64][]int64{},
		users:    users,
	}
}

func (r *fakeProjectRepo) Create(ctx context.Context, userID int64, req model.CreateProjectRequest) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &model.Project{
		ID:           r.nextID,
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		GithubLink:   req.GithubLink,
		LiveLink:     req.LiveLink,
		DemoLink:     req.DemoLink,
		Technologies: req.Technologies,
		Image:        req.Image,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.nextID++
	r.projects[p.ID] = p
	cp := *p
	cp.Likes = []model.Liker{}
	return &cp, nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, projectID int64) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[projectID]
	if !ok {
		return nil, model.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) List(ctx context.Context, f model.ProjectFilter) ([]model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Project
	for _, p := range r.projects {
		if f.OwnerID != nil && p.UserID != *f.OwnerID {
			continue
		}
		if f.Search != "" {
			text := strings.ToLower(p.Title + " " + p.Description)
			if !strings.Contains(text, strings.ToLower(f.Search)) {
				continue
			}
		}
		out = append(out, *p)
	}
	// Newest first; IDs are monotonic in the fake.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, projectID int64, req model.UpdateProjectRequest) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[projectID]
	if !ok {
		return nil, model.ErrProjectNotFound
	}
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.GithubLink != nil {
		p.GithubLink = *req.GithubLink
	}
	if req.LiveLink != nil {
		p.LiveLink = *req.LiveLink
	}
	if req.DemoLink != nil {
		p.DemoLink = *req.DemoLink
	}
	if req.Technologies != nil {
		p.Technologies = *req.Technologies
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, projectID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[projectID]; !ok {
		return model.ErrProjectNotFound
	}
	delete(r.projects, projectID)
	delete(r.likes, projectID)
	return nil
}

func (r *fakeProjectRepo) Exists(ctx context.Context, projectID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.projects[projectID]
	return ok, nil
}

func (r *fakeProjectRepo) GetLikers(ctx context.Context, projectID int64) ([]model.Liker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.likersLocked(projectID), nil
}

func (r *fakeProjectRepo) likersLocked(projectID int64) []model.Liker {
	out := []model.Liker{}
	for _, uid := range r.likes[projectID] {
		name := ""
		if r.users != nil {
			if u, ok := r.users.users[uid]; ok {
				name = u.Name
			}
		}
		out = append(out, model.Liker{ID: uid, Name: name})
	}
	return out
}

func (r *fakeProjectRepo) ToggleLike(ctx context.Context, projectID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[projectID]; !ok {
		return false, model.ErrProjectNotFound
	}
	likers := r.likes[projectID]
	for i, uid := range likers {
		if uid == userID {
			r.likes[projectID] = append(likers[:i], likers[i+1:]...)
			return false, nil
		}
	}
	r.likes[projectID] = append(likers, userID)
	return true, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   int64
	comments map[int64]*model.Comment
	likes    map[int64][]int64
	users    *fakeUserRepo
}

func newFakeCommentRepo(users *fakeUserRepo) *fakeCommentRepo {
	return &fakeCommentRepo{
		nextID:   1,
		comments: map[int64]*model.Comment{},
		likes:    map[int64][]int64{},
		users:    users,
	}
}

func (r *fakeCommentRepo) Create(ctx context.Context, projectID, userID int64, content string) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &model.Comment{
		ID:        r.nextID,
		ProjectID: projectID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.nextID++
	r.comments[c.ID] = c
	cp := *c
	cp.Likes = []model.Liker{}
	return &cp, nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, commentID int64) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok {
		return nil, model.ErrCommentNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) ListByProject(ctx context.Context, projectID int64) ([]model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Comment
	for _, c := range r.comments {
		if c.ProjectID == projectID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeCommentRepo) Update(ctx context.Context, commentID int64, content string) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[commentID]
	if !ok {
		return nil, model.ErrCommentNotFound
	}
	c.Content = content
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, commentID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[commentID]; !ok {
		return model.ErrCommentNotFound
	}
	delete(r.comments, commentID)
	delete(r.likes, commentID)
	return nil
}

func (r *fakeCommentRepo) GetLikers(ctx context.Context, commentID int64) ([]model.Liker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Liker{}
	for _, uid := range r.likes[commentID] {
		name := ""
		if r.users != nil {
			if u, ok := r.users.users[uid]; ok {
				name = u.Name
			}
		}
		out = append(out, model.Liker{ID: uid, Name: name})
	}
	return out, nil
}

func (r *fakeCommentRepo) ToggleLike(ctx context.Context, commentID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[commentID]; !ok {
		return false, model.ErrCommentNotFound
	}
	likers := r.likes[commentID]
	for i, uid := range likers {
		if uid == userID {
			r.likes[commentID] = append(likers[:i], likers[i+1:]...)
			return false, nil
		}
	}
	r.likes[commentID] = append(likers, userID)
	return true, nil
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	nextID int
	tokens map[string]*model.RefreshToken // keyed by token hash
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: map[string]*model.RefreshToken{}}
}

func (r *fakeRefreshTokenRepo) Create(ctx context.Context, token *model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	token.ID = "token-" + strconv.Itoa(r.nextID)
	token.CreatedAt = time.Now()
	cp := *token
	r.tokens[token.TokenHash] = &cp
	return nil
}

func (r *fakeRefreshTokenRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[tokenHash]
	if !ok {
		return nil, model.ErrRefreshTokenNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeRefreshTokenRepo) Revoke(ctx context.Context, id string, replacedBy *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.ID == id {
			now := time.Now()
			t.RevokedAt = &now
			t.ReplacedBy = replacedBy
			return nil
		}
	}
	return model.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepo) RevokeAllForUser(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-olderThan)
	var n int64
	for hash, t := range r.tokens {
		if t.ExpiresAt.Before(cutoff) {
			delete(r.tokens, hash)
			n++
		}
	}
	return n, nil
}

// memoryProjectCache records cache traffic so tests can assert invalidation.
type memoryProjectCache struct {
	mu          sync.Mutex
	entries     map[int64]*model.Project
	invalidated []int64
}

func newMemoryProjectCache() *memoryProjectCache {
	return &memoryProjectCache{entries: map[int64]*model.Project{}}
}

func (c *memoryProjectCache) Get(ctx context.Context, projectID int64) (*model.Project, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[projectID]
	if !ok {
		return nil, false, nil
	}
	cp := *p
	return &cp, true, nil
}

func (c *memoryProjectCache) Set(ctx context.Context, project *model.Project) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *project
	c.entries[project.ID] = &cp
	return nil
}

func (c *memoryProjectCache) Invalidate(ctx context.Context, projectID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, projectID)
	c.invalidated = append(c.invalidated, projectID)
	return nil
}

// ============================================================================
// Test fixture helpers
// ============================================================================

func seedUser(repo *fakeUserRepo, name, email string) *model.User {
	u := &model.User{Name: name, Email: email, PasswordHashed: "x"}
	repo.Create(context.Background(), u)
	return u
}

func seedProject(repo *fakeProjectRepo, ownerID int64, title string) *model.Project {
	p, _ := repo.Create(context.Background(), ownerID, model.CreateProjectRequest{
		Title:        title,
		Description:  "A description of " + title,
		Technologies: []string{"go"},
	})
	return p
}
