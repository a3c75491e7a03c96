package service

import (
	"context"
	"errors"
	"testing"

	"devconnect/internal/model"
)

func newProjectFixture() (*ProjectService, *fakeUserRepo, *fakeProjectRepo, *memoryProjectCache) {
	users := newFakeUserRepo()
	projects := newFakeProjectRepo(users)
	cache := newMemoryProjectCache()
	svc := NewProjectService(projects, users, cache)
	return svc, users, projects, cache
}

func TestCreateProjectValidation(t *testing.T) {
	svc, users, _, _ := newProjectFixture()
	owner := seedUser(users, "Alice", "alice@example.com")

	tests := []struct {
		name    string
		req     model.CreateProjectRequest
		wantErr error
	}{
		{"missing title", model.CreateProjectRequest{Description: "desc"}, model.ErrTitleRequired},
		{"whitespace title", model.CreateProjectRequest{Title: "   ", Description: "desc"}, model.ErrTitleRequired},
		{"missing description", model.CreateProjectRequest{Title: "Title"}, model.ErrDescriptionRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), owner.ID, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateProjectDefaults(t *testing.T) {
	svc, users, _, _ := newProjectFixture()
	owner := seedUser(users, "Alice", "alice@example.com")

	p, err := svc.Create(context.Background(), owner.ID, model.CreateProjectRequest{
		Title:       "Portfolio Site",
		Description: "My personal site",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.UserID != owner.ID {
		t.Errorf("expected owner %d, got %d", owner.ID, p.UserID)
	}
	if p.Technologies == nil || len(p.Technologies) != 0 {
		t.Errorf("expected empty technologies, got %v", p.Technologies)
	}
	if p.Likes == nil || len(p.Likes) != 0 {
		t.Errorf("expected empty likes, got %v", p.Likes)
	}
	if p.Owner == nil || p.Owner.Name != "Alice" {
		t.Errorf("expected joined owner Alice, got %+v", p.Owner)
	}
}

func TestUpdateProjectPartialMerge(t *testing.T) {
	svc, users, projects, _ := newProjectFixture()
	owner := seedUser(users, "Alice", "alice@example.com")
	p := seedProject(projects, owner.ID, "Original Title")

	newTitle := "New Title"
	updated, err := svc.Update(context.Background(), owner.ID, p.ID, model.UpdateProjectRequest{
		Title: &newTitle,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Title != newTitle {
		t.Errorf("expected title %q, got %q", newTitle, updated.Title)
	}
	// Absent fields keep their values.
	if updated.Description != p.Description {
		t.Errorf("description changed: %q -> %q", p.Description, updated.Description)
	}
	if len(updated.Technologies) != len(p.Technologies) {
		t.Errorf("technologies changed: %v -> %v", p.Technologies, updated.Technologies)
	}
	if updated.UserID != owner.ID {
		t.Errorf("owner changed: %d -> %d", owner.ID, updated.UserID)
	}
}

func TestUpdateProjectNotOwner(t *testing.T) {
	svc, users, projects, _ := newProjectFixture()
	owner := seedUser(users, "Alice", "alice@example.com")
	other := seedUser(users, "Bob", "bob@example.com")
	p := seedProject(projects, owner.ID, "Alice's Project")

	hijack := "Hijacked"
	_, err := svc.Update(context.Background(), other.ID, p.ID, model.UpdateProjectRequest{Title: &hijack})
	if !errors.Is(err, model.ErrNotProjectOwner) {
		t.Fatalf("expected ErrNotProjectOwner, got %v", err)
	}

	// The failed attempt must leave the project unchanged.
	got, err := projects.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Alice's Project" {
		t.Errorf("project mutated by rejected update: %q", got.Title)
	}
}

func TestUpdateProjectMissing(t *testing.T) {
	svc, users, _, _ := newProjectFixture()
	owner := seedUser(users, "Alice", "alice@example.com")

	title := "x"
	_, err := svc.Update(context.Background(), owner.ID, 9999, model.UpdateProjectRequest{Title: &title})
	if !errors.Is(err, model.ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestDeleteProjectOwnership(t *testing.T) {
	svc, users, projects, _ := newProjectFixture()
	owner := seedUser(users, "Alice", "alice@example.com")
	other := seedUser(users, "Bob", "bob@example.com")
	p := seedProject(projects, owner.ID, "Keep Me")

	if err := svc.Delete(context.Background(), other.ID, p.ID); !errors.Is(err, model.ErrNotProjectOwner) {
		t.Fatalf("expected ErrNotProjectOwner, got %v", err)
	}

	// Still retrievable after the rejected delete.
	if _, err := svc.GetByID(context.Background(), p.ID); err != nil {
		t.Fatalf("project gone after rejected delete: %v", err)
	}

	if err := svc.Delete(context.Background(), owner.ID, p.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), p.ID); !errors.Is(err, model.ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound after delete, got %v", err)
	}
}

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	svc, users, projects, _ := newProjectFixture()
	owner := seedUser(users, "Alice", "alice@example.com")
	liker := seedUser(users, "Bob", "bob@example.com")
	p := seedProject(projects, owner.ID, "Likeable")

	after1, err := svc.ToggleLike(context.Background(), liker.ID, p.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if len(after1.Likes) != 1 || after1.Likes[0].ID != liker.ID {
		t.Fatalf("expected Bob as sole liker, got %+v", after1.Likes)
	}

	after2, err := svc.ToggleLike(context.Background(), liker.ID, p.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if len(after2.Likes) != 0 {
		t.Errorf("expected empty likes after double toggle, got %+v", after2.Likes)
	}
}

func TestToggleLikeIndependentUsers(t *testing.T) {
	svc, users, projects, _ := newProjectFixture()
	owner := seedUser(users, "Alice", "alice@example.com")
	bob := seedUser(users, "Bob", "bob@example.com")
	carol := seedUser(users, "Carol", "carol@example.com")
	p := seedProject(projects, owner.ID, "Popular")

	if _, err := svc.ToggleLike(context.Background(), bob.ID, p.ID); err != nil {
		t.Fatalf("bob like: %v", err)
	}
	if _, err := svc.ToggleLike(context.Background(), carol.ID, p.ID); err != nil {
		t.Fatalf("carol like: %v", err)
	}

	// Bob unlikes; Carol's like stays.
	after, err := svc.ToggleLike(context.Background(), bob.ID, p.ID)
	if err != nil {
		t.Fatalf("bob unlike: %v", err)
	}
	if len(after.Likes) != 1 || after.Likes[0].ID != carol.ID {
		t.Errorf("expected Carol as sole liker, got %+v", after.Likes)
	}
}

func TestToggleLikeMissingProject(t *testing.T) {
	svc, users, _, _ := newProjectFixture()
	liker := seedUser(users, "Bob", "bob@example.com")

	_, err := svc.ToggleLike(context.Background(), liker.ID, 4242)
	if !errors.Is(err, model.ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestOwnerCanLikeOwnProject(t *testing.T) {
	svc, users, projects, _ := newProjectFixture()
	owner := seedUser(users, "Alice", "alice@example.com")
	p := seedProject(projects, owner.ID, "Self Like")

	after, err := svc.ToggleLike(context.Background(), owner.ID, p.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(after.Likes) != 1 || after.Likes[0].ID != owner.ID {
		t.Errorf("expected owner in likes, got %+v", after.Likes)
	}
}

func TestGetByIDServesAndFillsCache(t *testing.T) {
	svc, users, projects, cache := newProjectFixture()
	owner := seedUser(users, "Alice", "alice@example.com")
	p := seedProject(projects, owner.ID, "Cached")

	got, err := svc.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Owner == nil || got.Owner.ID != owner.ID {
		t.Errorf("expected joined owner, got %+v", got.Owner)
	}
	if _, found, _ := cache.Get(context.Background(), p.ID); !found {
		t.Error("expected cache entry after read")
	}

	// Second read is served from the cache even after a direct store change.
	projects.mu.Lock()
	projects.projects[p.ID].Title = "Changed Behind Cache"
	projects.mu.Unlock()

	cached, err := svc.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if cached.Title != "Cached" {
		t.Errorf("expected cached title, got %q", cached.Title)
	}
}

func TestMutationsInvalidateCache(t *testing.T) {
	svc, users, projects, cache := newProjectFixture()
	owner := seedUser(users, "Alice", "alice@example.com")
	p := seedProject(projects, owner.ID, "Invalidate Me")

	// Warm the cache.
	if _, err := svc.GetByID(context.Background(), p.ID); err != nil {
		t.Fatalf("warm: %v", err)
	}

	newTitle := "Fresh Title"
	if _, err := svc.Update(context.Background(), owner.ID, p.ID, model.UpdateProjectRequest{Title: &newTitle}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.Title != newTitle {
		t.Errorf("stale cache after update: got %q", got.Title)
	}

	if len(cache.invalidated) == 0 {
		t.Error("expected at least one cache invalidation")
	}
}

func TestListProjectsFilters(t *testing.T) {
	svc, users, projects, _ := newProjectFixture()
	alice := seedUser(users, "Alice", "alice@example.com")
	bob := seedUser(users, "Bob", "bob@example.com")
	seedProject(projects, alice.ID, "Go Chat Server")
	seedProject(projects, alice.ID, "React Dashboard")
	seedProject(projects, bob.ID, "Go CLI Tool")

	all, err := svc.List(context.Background(), model.ProjectFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(all))
	}
	// Newest first.
	if all[0].Title != "Go CLI Tool" {
		t.Errorf("expected newest first, got %q", all[0].Title)
	}

	byOwner, err := svc.List(context.Background(), model.ProjectFilter{OwnerID: &alice.ID})
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(byOwner) != 2 {
		t.Errorf("expected 2 projects for Alice, got %d", len(byOwner))
	}

	empty, err := svc.List(context.Background(), model.ProjectFilter{Search: "nonexistent"})
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty slice, got %v", empty)
	}
}
