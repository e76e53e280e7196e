package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jakeswenson/bear-query/internal/config"
	"github.com/jakeswenson/bear-query/internal/controller"
	"github.com/jakeswenson/bear-query/internal/database"
	"github.com/jakeswenson/bear-query/internal/middleware"
	"github.com/jakeswenson/bear-query/internal/security"
	"github.com/jakeswenson/bear-query/internal/service"
	"github.com/jakeswenson/bear-query/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize metrics
	middleware.InitMetrics()

	// Open the note database read-only
	db, err := database.OpenConfig(cfg.StoreConfig())
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	// Discover the schema and build the store
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := store.New(ctx, db)
	cancel()
	if err != nil {
		log.Fatal("Failed to initialize store:", err)
	}

	md := st.Metadata()
	log.Printf("Schema discovered: junction table %s (%s, %s)", md.JunctionTable, md.EntityColumn, md.LabelColumn)

	// Initialize security
	jwtManager := security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTExpiration)
	authMiddleware := security.NewAuthMiddleware(jwtManager)

	// Initialize rate limiting
	rateLimitConfig := middleware.RateLimiterConfig{
		RPM:             cfg.Security.RateLimitPerMinute,
		Burst:           cfg.Security.RateLimitBurst,
		CleanupInterval: 5 * time.Minute,
	}
	rateLimiter := middleware.NewRateLimiter(rateLimitConfig)

	// Initialize services
	queryService := service.NewQueryService(st, cfg.Query.MaxQueryLength)

	// Initialize controllers
	queryController := controller.NewQueryController(queryService)
	notesController := controller.NewNotesController(st)
	tagsController := controller.NewTagsController(st)
	healthController := controller.NewHealthController(st)

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.Cors())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.PrometheusMiddleware())

	// Add rate limiting if enabled
	if cfg.Security.EnableRateLimit {
		router.Use(rateLimiter.RateLimit())
	}

	// Health check endpoint (always available)
	router.GET("/health", healthController.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 group
	api := router.Group("/api/v1")

	// Public endpoints (no authentication required)
	public := api.Group("")
	{
		public.GET("/health", healthController.HealthCheck)
	}

	// Auth endpoints (authentication required when enabled)
	auth := api.Group("")
	if cfg.Security.EnableAuth {
		auth.Use(authMiddleware.RequireAuth())
	}
	{
		// Query endpoints
		query := auth.Group("/query")
		{
			query.POST("", queryController.ExecuteQuery)
			query.POST("/validate", queryController.ValidateQuery)
			query.GET("/stats", queryController.GetQueryStats)
		}

		// Note endpoints
		notes := auth.Group("/notes")
		{
			notes.GET("", notesController.ListNotes)
			notes.GET("/search", notesController.SearchNotes)
			notes.GET("/:id", notesController.GetNote)
			notes.GET("/:id/links", notesController.GetNoteLinks)
			notes.GET("/:id/tags", notesController.GetNoteTags)
		}

		// Tag endpoints
		auth.GET("/tags", tagsController.ListTags)
	}

	// Start server
	log.Printf("Starting server on port %s", cfg.Server.Port)
	log.Printf("Health check available at: http://localhost:%s/health", cfg.Server.Port)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
