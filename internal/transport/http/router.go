package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"devconnect/internal/config"
	"devconnect/internal/handler"
	"devconnect/internal/httputil"
	"devconnect/internal/transport/http/middleware"
)

// NewRouter builds the HTTP routing tree. Public reads need no token;
// everything that mutates state sits behind AuthMiddleware.
func NewRouter(
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	projectHandler *handler.ProjectHandler,
	commentHandler *handler.CommentHandler,
	mediaHandler *handler.MediaHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public routes
	r.Group(func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)

		r.Get("/projects", projectHandler.List)
		r.Get("/projects/{id}", projectHandler.Get)

		r.Get("/comments/project/{projectId}", commentHandler.ListByProject)

		r.Get("/users", userHandler.List)
		r.Get("/users/{id}", userHandler.Get)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.JWTSecret))

		r.Get("/me", authHandler.Me)
		r.Post("/auth/logout", authHandler.Logout)
		r.Post("/auth/logout-all", authHandler.LogoutAll)

		r.Post("/projects", projectHandler.Create)
		r.Put("/projects/{id}", projectHandler.Update)
		r.Delete("/projects/{id}", projectHandler.Delete)
		r.Put("/projects/{id}/like", projectHandler.ToggleLike)

		r.Post("/comments", commentHandler.Create)
		r.Put("/comments/{id}", commentHandler.Update)
		r.Delete("/comments/{id}", commentHandler.Delete)
		r.Put("/comments/{id}/like", commentHandler.ToggleLike)

		r.Put("/users/profile", userHandler.UpdateProfile)

		if mediaHandler != nil {
			r.Post("/media/avatar", mediaHandler.UploadAvatar)
			r.Post("/media/projects/presign", mediaHandler.PresignProjectImage)
		}
	})

	return r
}
