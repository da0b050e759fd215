package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cvtheque-backend/config"
	_ "cvtheque-backend/docs" // Important for Swagger
	v1 "cvtheque-backend/internal/delivery/http/v1"
	"cvtheque-backend/internal/repository/postgres"
	"cvtheque-backend/internal/usecase"
	"cvtheque-backend/pkg/auth"
	"cvtheque-backend/pkg/database"
	"cvtheque-backend/pkg/email"
	"cvtheque-backend/pkg/logger"
	"cvtheque-backend/pkg/parser"
	"cvtheque-backend/pkg/redis"
	"cvtheque-backend/pkg/storage"
	"cvtheque-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// @title           CVtheque Backend API
// @version         1.0
// @description     Candidate profile validation and job posting lifecycle backend.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting cvtheque backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (rate limiting)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting falls back to in-memory", "error", err)
	}
	defer redis.Close()

	// 5. Setup Repositories
	profileRepo := postgres.NewProfileRepository(dbPool)
	postingRepo := postgres.NewPostingRepository(dbPool)

	// 6. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - decision notifications disabled")
	}

	// 7. External collaborators (CV parser, document storage)
	var parserClient *parser.Client
	if cfg.ParserServiceURL != "" {
		parserClient = parser.NewClient(cfg.ParserServiceURL)
	} else {
		logger.Log.Warn("Parser service not configured - drafts start empty")
	}
	var storageClient *storage.Client
	if cfg.StorageServiceURL != "" {
		storageClient = storage.NewClient(cfg.StorageServiceURL)
	}

	// 8. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)

	profileUC := usecase.NewProfileUsecase(profileRepo, parserClient, storageClient, emailService, validate)
	postingUC := usecase.NewPostingUsecase(postingRepo, validate)
	listingUC := usecase.NewListingUsecase(profileRepo, postingRepo)

	// 9. Setup Auth Provider (JWKS)
	jwksURL := cfg.AuthIssuerURL + "/.well-known/jwks.json"
	jwksProvider := auth.NewProvider(jwksURL)

	// 10. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ProfileUC:    profileUC,
		PostingUC:    postingUC,
		ListingUC:    listingUC,
		JWKSProvider: jwksProvider,
		Config:       cfg,
	})

	// 11. Background expiry sweep for published postings
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	sweeper := usecase.NewExpirySweeper(postingRepo, time.Duration(cfg.ExpirySweepMinutes)*time.Minute)
	go sweeper.Run(sweepCtx)

	// 12. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
