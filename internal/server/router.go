package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/draftwell/grantdocs/internal/handlers"
	"github.com/draftwell/grantdocs/internal/middleware"
)

type RouterConfig struct {
	DocumentHandler *handlers.DocumentHandler
	AuthMiddleware  *middleware.AuthMiddleware
	AllowOrigins    []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("grantdocs"))

	// Cors
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	// Documents
	api.POST("/documents", cfg.DocumentHandler.CreateDocument)
	api.GET("/documents/:id", cfg.DocumentHandler.GetDocument)
	api.POST("/documents/:id/resume", cfg.DocumentHandler.ResumeDocument)

	return router
}
