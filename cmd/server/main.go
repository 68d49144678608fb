package main

import (
	"log"

	"github.com/confhub/conference-api/internal/config"
	"github.com/confhub/conference-api/internal/database"
	"github.com/confhub/conference-api/internal/handlers"
	"github.com/confhub/conference-api/internal/middleware"
	"github.com/confhub/conference-api/internal/notifications"
	"github.com/confhub/conference-api/internal/repository"
	"github.com/confhub/conference-api/internal/services"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.MigrateDatabase(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions("conference_session", store))

	// Initialize repositories
	db := database.GetDB()
	confRepo := repository.NewConferenceRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	userRepo := repository.NewUserRepository(db)
	talkRepo := repository.NewTalkRepository(db)

	// Issue notifications are optional: without a broker the API still
	// runs, reports just aren't mailed.
	var publisher notifications.Publisher
	if cfg.RabbitURL != "" {
		rabbit, err := notifications.NewRabbitPublisher(cfg.RabbitURL, cfg.IssueQueue)
		if err != nil {
			log.Printf("Issue notifications disabled: %v", err)
		} else {
			defer rabbit.Close()
			publisher = rabbit
		}
	}

	// Initialize services
	authService := services.NewAuthService(userRepo)
	socialService := services.NewSocialService(userRepo, services.NewOAuthFetcher(cfg))
	conferenceService := services.NewConferenceService(confRepo)
	listingService := services.NewListingService(confRepo)
	engagementService := services.NewEngagementService(confRepo)
	issueService := services.NewIssueService(issueRepo, confRepo, publisher)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	socialHandler := handlers.NewSocialHandler(socialService)
	conferenceHandler := handlers.NewConferenceHandler(conferenceService, listingService, engagementService, talkRepo)
	issueHandler := handlers.NewIssueHandler(issueService)
	dashboardHandler := handlers.NewDashboardHandler(confRepo, talkRepo)
	homeHandler := handlers.NewHomeHandler(confRepo, userRepo)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Conference API is running",
		})
	})

	// Social login entry points (browser-facing)
	r.GET("/login/:service", middleware.OptionalAuth(), socialHandler.Redirect)
	r.GET("/login/:service/callback", socialHandler.Callback)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Public landing data
		api.GET("/home", homeHandler.GetHome)

		// Conference routes (listing and search are public)
		conferences := api.Group("/conferences")
		{
			conferences.GET("", middleware.OptionalAuth(), conferenceHandler.ListConferences)
			conferences.GET("/search", conferenceHandler.SearchConferences)
			conferences.GET("/:id", middleware.OptionalAuth(), conferenceHandler.GetConference)
			conferences.POST("", middleware.RequireAuth(), conferenceHandler.CreateConference)
			conferences.PUT("/:id", middleware.RequireAuth(), middleware.RequireConferenceOwner(), conferenceHandler.UpdateConference)
			conferences.DELETE("/:id", middleware.RequireAuth(), middleware.RequireConferenceOwner(), conferenceHandler.DeleteConference)
			conferences.POST("/:id/favorite", middleware.RequireAuth(), conferenceHandler.ToggleFavorite)
			conferences.POST("/:id/dismiss", middleware.RequireAuth(), conferenceHandler.ToggleDismissed)
			conferences.POST("/:id/issues", middleware.RequireAuth(), issueHandler.ReportIssue)
			conferences.GET("/pending", middleware.RequireAuth(), middleware.RequireAdmin(), conferenceHandler.ListPendingConferences)
			conferences.POST("/:id/approve", middleware.RequireAuth(), middleware.RequireAdmin(), conferenceHandler.ApproveConference)
			conferences.POST("/:id/reject", middleware.RequireAuth(), middleware.RequireAdmin(), conferenceHandler.RejectConference)
			conferences.POST("/:id/restore", middleware.RequireAuth(), middleware.RequireAdmin(), conferenceHandler.RestoreConference)
		}

		// Issue moderation (admin only)
		issues := api.Group("/issues")
		issues.Use(middleware.RequireAuth(), middleware.RequireAdmin())
		{
			issues.GET("", issueHandler.ListOpenIssues)
			issues.POST("/:id/close", issueHandler.CloseIssue)
		}

		// Dashboard (protected)
		api.GET("/dashboard", middleware.RequireAuth(), dashboardHandler.GetDashboard)
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
