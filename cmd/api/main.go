package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/timmy/memegen/internal/api"
	"github.com/timmy/memegen/internal/catalog"
	"github.com/timmy/memegen/internal/config"
	"github.com/timmy/memegen/internal/domain"
	"github.com/timmy/memegen/internal/logger"
	"github.com/timmy/memegen/internal/render"
	"github.com/timmy/memegen/internal/service"
	"github.com/timmy/memegen/internal/storage"
	"github.com/timmy/memegen/internal/tool"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}

	// Initialize logger
	logger.SetDefaultLogger(logger.NewDefault())
	defer logger.Sync()

	// Load the template catalog. A bad template file is fatal: the process
	// must not serve with a partially loaded catalog.
	cat, err := catalog.Load(cfg.Templates.Dir, catalog.Options{
		MaxDimension: cfg.Templates.MaxDimension,
	})
	if err != nil {
		logger.Fatal("Failed to load template catalog: %v", err)
	}
	if cat.Len() == 0 {
		logger.Warn("Template catalog is empty, generation requests will fail")
	}

	// Load fonts
	fonts, err := render.LoadFonts(cfg.Font.Path)
	if err != nil {
		logger.Fatal("Failed to load fonts: %v", err)
	}

	// Initialize output store (local filesystem or S3-compatible)
	store, err := storage.NewStore(&storage.Config{
		Backend:       cfg.Output.Backend,
		Dir:           cfg.Output.Dir,
		PublicBaseURL: cfg.Output.PublicBaseURL,
		S3: storage.S3Config{
			Endpoint:  cfg.Output.S3.Endpoint,
			AccessKey: cfg.Output.S3.AccessKey,
			SecretKey: cfg.Output.S3.SecretKey,
			UseSSL:    cfg.Output.S3.UseSSL,
			Bucket:    cfg.Output.S3.Bucket,
			Region:    cfg.Output.S3.Region,
			PublicURL: cfg.Output.S3.PublicURL,
		},
	})
	if err != nil {
		logger.Fatal("Failed to initialize output store: %v", err)
	}
	if s3store, ok := store.(*storage.S3Store); ok {
		if err := s3store.EnsureBucket(context.Background()); err != nil {
			logger.Fatal("Failed to ensure storage bucket: %v", err)
		}
	}

	// Wire the render pipeline
	defaults := domain.StyleDefaults{
		FontSize:    cfg.Font.DefaultSize,
		FontColor:   cfg.Font.DefaultColor,
		StrokeColor: cfg.Font.DefaultStrokeColor,
		StrokeWidth: cfg.Font.DefaultStrokeWidth,
	}
	engine := render.NewEngine(fonts, render.EngineConfig{
		MinFontSize:  cfg.Font.MinSize,
		FontSizeStep: cfg.Font.SizeStep,
	})
	compositor := render.NewCompositor(cat, engine, fonts, store, render.CompositorConfig{
		Defaults:      defaults,
		MaxTextBlocks: cfg.Font.MaxTextBlocks,
	})

	// Function-call surface
	adapter := tool.NewAdapter(compositor, cat, defaults)
	aiService := service.NewAIService(&service.AIServiceConfig{
		Enabled: cfg.AI.Enabled,
		Model:   cfg.AI.Model,
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
	})
	if aiService.IsConfigured() {
		logger.Info("AI generation enabled (model=%s)", aiService.GetModel())
	} else {
		logger.Info("AI generation disabled")
	}

	// Setup router
	router := api.SetupRouter(api.Deps{
		Generator: compositor,
		Templates: cat,
		AI:        aiService,
		Adapter:   adapter,
	}, cfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.With(logger.Fields{logger.FieldCount: cat.Len()}).
			Info(nil, "Starting API server on port %d (mode=%s)", cfg.Server.Port, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
