package api

import (
	"github.com/gin-gonic/gin"

	"github.com/timmy/memegen/internal/api/handler"
	"github.com/timmy/memegen/internal/api/middleware"
	"github.com/timmy/memegen/internal/config"
	"github.com/timmy/memegen/internal/service"
	"github.com/timmy/memegen/internal/tool"
)

// Deps carries the constructed services the router wires into handlers.
type Deps struct {
	Generator handler.Generator
	Templates handler.TemplateLister
	AI        *service.AIService
	Adapter   *tool.Adapter
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps Deps, cfg *config.Config) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler(deps.AI != nil && deps.AI.IsConfigured())
	memeHandler := handler.NewMemeHandler(deps.Generator, deps.Templates)
	aiHandler := handler.NewAIHandler(deps.AI, deps.Adapter)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/meme/generate", memeHandler.Generate)
		v1.GET("/meme/templates", memeHandler.ListTemplates)
		v1.POST("/meme/generate-with-ai", aiHandler.GenerateWithAI)
	}

	// Rendered memes are served straight off the local output directory;
	// an S3 backend serves them from its own public URL instead.
	if cfg.Output.Backend == "" || cfg.Output.Backend == "local" {
		r.Static(cfg.Output.PublicBaseURL, cfg.Output.Dir)
	}

	return r
}
