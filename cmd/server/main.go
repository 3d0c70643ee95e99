package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/yukikurage/board-api/internal/config"
	"github.com/yukikurage/board-api/internal/database"
	"github.com/yukikurage/board-api/internal/handlers"
	"github.com/yukikurage/board-api/internal/mail"
	"github.com/yukikurage/board-api/internal/metrics"
	"github.com/yukikurage/board-api/internal/repository"
	"github.com/yukikurage/board-api/internal/services"
	"github.com/yukikurage/board-api/internal/storage"
	"github.com/yukikurage/board-api/internal/story"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	metrics.Register(prometheus.DefaultRegisterer)

	store, err := storage.NewLocalStore(cfg.StorageDir)
	if err != nil {
		log.Fatalf("Failed to prepare document storage: %v", err)
	}

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.SMTPConfigured() {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	} else {
		log.Println("SMTP is not configured; reset emails will be logged")
	}

	// Initialize AI service
	var drafter services.TaskDrafter
	if cfg.OpenAIAPIKey != "" {
		drafter = services.NewAIService(cfg.OpenAIAPIKey)
	}

	alloc := story.NewAllocator(cfg.StoryPrefix, cfg.StoryBase)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db, alloc)
	columnRepo := repository.NewColumnRepository(db)
	taskRepo := repository.NewTaskRepository(db, alloc)
	featureRepo := repository.NewFeatureRepository(db)
	hubRepo := repository.NewHubSectionRepository(db)
	docRepo := repository.NewDocumentRepository(db)

	authService := services.NewAuthService(
		userRepo,
		services.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL),
		mailer,
		services.AuthOptions{ResetTokenTTL: cfg.ResetTokenTTL, FrontendURL: cfg.FrontendURL},
	)
	projectService := services.NewProjectService(projectRepo, store)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), metrics.Middleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Board API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterRoutes(r.Group("/api/v1"), handlers.Services{
		Auth:     authService,
		Project:  projectService,
		Column:   services.NewColumnService(projectRepo, columnRepo),
		Task:     services.NewTaskService(projectRepo, columnRepo, taskRepo, featureRepo),
		Feature:  services.NewFeatureService(projectRepo, featureRepo, drafter),
		Hub:      services.NewHubService(projectRepo, hubRepo, userRepo),
		Document: services.NewDocumentService(projectRepo, docRepo, store, cfg.MaxUploadBytes),
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Let queued reset emails finish
	authService.Wait()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server exited")
}
