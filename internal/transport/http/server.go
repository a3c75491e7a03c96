package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"devconnect/internal/cache"
	"devconnect/internal/config"
	"devconnect/internal/database"
	"devconnect/internal/handler"
	"devconnect/internal/redis"
	"devconnect/internal/repository"
	"devconnect/internal/service"
)

// Run wires the full application and starts the HTTP server.
func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Redis is optional: without it the project detail cache is skipped and
	// every read goes to Postgres.
	var projectCache cache.ProjectCache
	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Printf("[Server] Redis disabled: %v", err)
	} else if err := redisClient.Ping(context.Background()); err != nil {
		log.Printf("[Server] Redis disabled: %v", err)
		redisClient.Close()
	} else {
		defer redisClient.Close()
		projectCache = cache.NewProjectCache(redisClient.Client)
		log.Println("Connected to Redis successfully")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Services
	userService := service.NewUserService(userRepo, projectRepo)
	projectService := service.NewProjectService(projectRepo, userRepo, projectCache)
	commentService := service.NewCommentService(commentRepo, projectRepo, userRepo)
	authService := service.NewAuthService(refreshTokenRepo, cfg)

	// Media is optional too: without R2 credentials the upload routes are
	// simply not mounted.
	var mediaHandler *handler.MediaHandler
	mediaService, err := service.NewMediaService(context.Background(), cfg)
	if err != nil {
		log.Printf("[Server] Media uploads disabled: %v", err)
	} else {
		mediaHandler = handler.NewMediaHandler(mediaService)
	}

	// Handlers
	authHandler := handler.NewAuthHandler(userService, authService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	commentHandler := handler.NewCommentHandler(commentService)

	// Periodically purge refresh tokens that expired over 30 days ago.
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			n, err := refreshTokenRepo.DeleteExpired(context.Background(), 30*24*time.Hour)
			if err != nil {
				log.Printf("[Server] refresh token cleanup failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[Server] purged %d expired refresh tokens", n)
			}
		}
	}()

	router := NewRouter(cfg, authHandler, userHandler, projectHandler, commentHandler, mediaHandler)

	addr := ":" + cfg.ServerPort
	log.Printf("Server listening on %s", addr)
	return http.ListenAndServe(addr, router)
}
