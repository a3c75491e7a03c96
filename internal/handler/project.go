package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"devconnect/internal/httputil"
	"devconnect/internal/model"
	"devconnect/internal/service"
	"devconnect/internal/transport/http/middleware"
)

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List handles GET /projects?search=&user=&limit=&skip=
// Returns owner-joined projects newest-first; no match means an empty array.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.ProjectFilter{Search: q.Get("search")}

	if userParam := q.Get("user"); userParam != "" {
		ownerID, err := strconv.ParseInt(userParam, 10, 64)
		if err != nil {
			httputil.WriteBadRequest(w, "Invalid user ID")
			return
		}
		filter.OwnerID = &ownerID
	}
	if l := q.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			filter.Limit = parsed
		}
	}
	if s := q.Get("skip"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 {
			filter.Offset = parsed
		}
	}

	projects, err := h.projectService.List(r.Context(), filter)
	if err != nil {
		log.Printf("[ERROR] List projects handler: err=%v", err)
		httputil.WriteInternalError(w, "Server error")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, projects)
}

// Get handles GET /projects/:id
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseID(w, r, "id", "Invalid project ID")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, model.ErrProjectNotFound) {
			httputil.WriteNotFound(w, "Project not found")
			return
		}
		log.Printf("[ERROR] Get project handler: project=%d err=%v", projectID, err)
		httputil.WriteInternalError(w, "Server error")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, project)
}

// Create handles POST /projects
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	project, err := h.projectService.Create(r.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTitleRequired):
			httputil.WriteBadRequest(w, "Title is required")
		case errors.Is(err, model.ErrDescriptionRequired):
			httputil.WriteBadRequest(w, "Description is required")
		default:
			log.Printf("[ERROR] Create project handler: user=%d err=%v", userID, err)
			httputil.WriteInternalError(w, "Server error")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, project)
}

// Update handles PUT /projects/:id
// Owner-only partial merge of the mutable fields.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	projectID, ok := parseID(w, r, "id", "Invalid project ID")
	if !ok {
		return
	}

	var req model.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	project, err := h.projectService.Update(r.Context(), userID, projectID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProjectNotFound):
			httputil.WriteNotFound(w, "Project not found")
		case errors.Is(err, model.ErrNotProjectOwner):
			httputil.WriteUnauthorized(w, "Not authorized")
		case errors.Is(err, model.ErrTitleRequired):
			httputil.WriteBadRequest(w, "Title is required")
		case errors.Is(err, model.ErrDescriptionRequired):
			httputil.WriteBadRequest(w, "Description is required")
		default:
			log.Printf("[ERROR] Update project handler: user=%d project=%d err=%v", userID, projectID, err)
			httputil.WriteInternalError(w, "Server error")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, project)
}

// Delete handles DELETE /projects/:id
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	projectID, ok := parseID(w, r, "id", "Invalid project ID")
	if !ok {
		return
	}

	err := h.projectService.Delete(r.Context(), userID, projectID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProjectNotFound):
			httputil.WriteNotFound(w, "Project not found")
		case errors.Is(err, model.ErrNotProjectOwner):
			httputil.WriteUnauthorized(w, "Not authorized")
		default:
			log.Printf("[ERROR] Delete project handler: user=%d project=%d err=%v", userID, projectID, err)
			httputil.WriteInternalError(w, "Server error")
		}
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Project removed")
}

// ToggleLike handles PUT /projects/:id/like
// Any authenticated user may toggle; returns the full updated project.
func (h *ProjectHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	projectID, ok := parseID(w, r, "id", "Invalid project ID")
	if !ok {
		return
	}

	project, err := h.projectService.ToggleLike(r.Context(), userID, projectID)
	if err != nil {
		if errors.Is(err, model.ErrProjectNotFound) {
			httputil.WriteNotFound(w, "Project not found")
			return
		}
		log.Printf("[ERROR] Toggle project like handler: user=%d project=%d err=%v", userID, projectID, err)
		httputil.WriteInternalError(w, "Server error")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, project)
}

// parseID reads a chi URL parameter as an int64, writing a 400 on failure.
func parseID(w http.ResponseWriter, r *http.Request, param, message string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, message)
		return 0, false
	}
	return id, true
}
