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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/platera-api/internal/config"
	"github.com/yourusername/platera-api/internal/handler"
	"github.com/yourusername/platera-api/internal/identity"
	"github.com/yourusername/platera-api/internal/middleware"
	pgRepo "github.com/yourusername/platera-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/platera-api/internal/repository/redis"
	"github.com/yourusername/platera-api/internal/service"
	"github.com/yourusername/platera-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Loading configuration from %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Repositories
	userRepo := pgRepo.NewUserRepo(db)
	recipeRepo := pgRepo.NewRecipeRepo(db)
	reviewRepo := pgRepo.NewReviewRepo(db)
	commentRepo := pgRepo.NewCommentRepo(db)
	savedRepo := pgRepo.NewSavedRecipeRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Identity provider client
	identityClient, err := identity.NewClient(identity.Config{
		SecretKey:         cfg.Identity.SecretKey,
		APIURL:            cfg.Identity.APIURL,
		JWKSURL:           cfg.Identity.JWKSURL,
		AuthorizedParties: cfg.Identity.AuthorizedParties,
		WebhookSecret:     cfg.Identity.WebhookSecret,
	})
	if err != nil {
		log.Printf("Failed to initialize identity client: %v", err)
		os.Exit(1)
	}

	// Transactional email
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
		log.Println("Transactional email enabled")
	}

	// Services
	accountService := service.NewAccountService(userRepo, identityClient, emailService)
	recipeService := service.NewRecipeService(recipeRepo, reviewRepo, commentRepo, cacheRepo)
	reviewService := service.NewReviewService(reviewRepo, recipeRepo)
	commentService := service.NewCommentService(commentRepo, recipeRepo)
	savedService := service.NewSavedRecipeService(savedRepo, recipeRepo)
	uploadService := service.NewUploadService(cfg.Media)

	// Handlers
	recipeHandler := handler.NewRecipeHandler(recipeService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	commentHandler := handler.NewCommentHandler(commentService)
	savedHandler := handler.NewSavedRecipeHandler(savedService)
	userHandler := handler.NewUserHandler(recipeService, savedService)
	uploadHandler := handler.NewUploadHandler(uploadService)
	webhookHandler := handler.NewWebhookHandler(identityClient, accountService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(identityClient, accountService)
	rateLimiter := middleware.NewRateLimiter(redisClient)
	writeLimit := rateLimiter.Limit(middleware.DefaultWriteRateLimitConfig())
	uploadLimit := rateLimiter.Limit(middleware.UploadRateLimitConfig())

	isProduction := gin.Mode() == gin.ReleaseMode

	router := gin.Default()

	// Trusted proxies matter for c.ClientIP(), the rate limiter keys on it.
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	allowOrigins := cfg.Server.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		api.GET("/health", healthHandler.Check)

		// Identity provider webhooks authenticate with their own signature,
		// never with a session.
		api.POST("/webhooks/identity", webhookHandler.HandleIdentityEvent)

		recipes := api.Group("/recipes")
		{
			recipes.GET("", recipeHandler.ListRecipes)
			recipes.POST("", authMiddleware.RequireAuth(), writeLimit, recipeHandler.CreateRecipe)

			recipeWithID := recipes.Group("/:id")
			recipeWithID.Use(middleware.ExtractUintParam("id", "recipeID"))
			{
				recipeWithID.GET("", recipeHandler.GetRecipe)
				recipeWithID.GET("/comments", commentHandler.ListComments)

				authed := recipeWithID.Group("")
				authed.Use(authMiddleware.RequireAuth())
				{
					authed.PUT("", writeLimit, recipeHandler.UpdateRecipe)
					authed.DELETE("", recipeHandler.DeleteRecipe)

					authed.POST("/comments", writeLimit, commentHandler.AddComment)

					authed.GET("/review", reviewHandler.GetOwnReview)
					authed.POST("/review", writeLimit, reviewHandler.SubmitReview)
					authed.DELETE("/review", reviewHandler.DeleteReview)

					authed.POST("/save", savedHandler.SaveRecipe)
					authed.DELETE("/save", savedHandler.UnsaveRecipe)
				}
			}
		}

		comments := api.Group("/comments/:id")
		comments.Use(middleware.ExtractUintParam("id", "commentID"), authMiddleware.RequireAuth())
		{
			comments.DELETE("", commentHandler.DeleteComment)
		}

		authed := api.Group("")
		authed.Use(authMiddleware.RequireAuth())
		{
			authed.GET("/users/me", userHandler.GetMe)
			authed.GET("/saved", savedHandler.ListSaved)
			authed.GET("/dashboard", userHandler.Dashboard)
			authed.GET("/dashboard/export", userHandler.ExportDashboard)
			authed.POST("/upload/signature", uploadLimit, uploadHandler.CreateSignature)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
