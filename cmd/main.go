package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/draftwell/grantdocs/internal/db"
	"github.com/draftwell/grantdocs/internal/docgen"
	"github.com/draftwell/grantdocs/internal/gdocs"
	"github.com/draftwell/grantdocs/internal/handlers"
	"github.com/draftwell/grantdocs/internal/logger"
	"github.com/draftwell/grantdocs/internal/middleware"
	"github.com/draftwell/grantdocs/internal/observability"
	"github.com/draftwell/grantdocs/internal/repos"
	"github.com/draftwell/grantdocs/internal/server"
	"github.com/draftwell/grantdocs/internal/services"
	"github.com/draftwell/grantdocs/internal/templates"
	"github.com/draftwell/grantdocs/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	templateDir := utils.GetEnv("TEMPLATE_DIR", "", log)
	buildWorkers := utils.GetEnvAsInt("BUILD_WORKERS", 2, log)
	allowOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "grantdocs",
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "", log),
	})
	if otelShutdown != nil {
		defer func() {
			if err := otelShutdown(context.Background()); err != nil {
				log.Warn("otel shutdown failed", "error", err)
			}
		}()
	}

	// Database
	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = dbService.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := dbService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	documentBuildRepo := repos.NewDocumentBuildRepo(theDB, log)

	// Templates
	log.Info("Setting up template registry from main...")
	registry, err := templates.NewRegistry(log)
	if err != nil {
		log.Error("Could not init template registry", "error", err)
		os.Exit(1)
	}
	if templateDir != "" {
		if err := registry.LoadDir(templateDir); err != nil {
			log.Error("Could not load template dir", "dir", templateDir, "error", err)
			os.Exit(1)
		}
	}

	// Services
	log.Info("Setting up Services from main...")
	googleService, err := gdocs.NewGoogleService(ctx, log)
	if err != nil {
		log.Error("Could not init GoogleService", "error", err)
		os.Exit(1)
	}
	documentService := services.NewDocumentService(theDB, log, registry, googleService, documentBuildRepo, docgen.DefaultStyles())
	buildWorker := services.NewBuildWorker(log, documentService, documentBuildRepo, buildWorkers)
	buildWorker.Start(ctx)

	// Handlers
	log.Info("Setting up handlers from main...")
	documentHandler := handlers.NewDocumentHandler(log, documentService, buildWorker)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	log.Info("Setting up router from main...")
	var origins []string
	if allowOrigins != "" {
		origins = strings.Split(allowOrigins, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		DocumentHandler: documentHandler,
		AuthMiddleware:  authMiddleware,
		AllowOrigins:    origins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
