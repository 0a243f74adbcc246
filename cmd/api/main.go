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

	"portfolio-cms-backend/config"
	_ "portfolio-cms-backend/docs" // Important for Swagger
	v1 "portfolio-cms-backend/internal/delivery/http/v1"
	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/internal/repository/postgres"
	"portfolio-cms-backend/internal/usecase"
	"portfolio-cms-backend/migrations"
	"portfolio-cms-backend/pkg/auth"
	"portfolio-cms-backend/pkg/database"
	"portfolio-cms-backend/pkg/email"
	"portfolio-cms-backend/pkg/logger"
	"portfolio-cms-backend/pkg/redis"
	"portfolio-cms-backend/pkg/security"
	"portfolio-cms-backend/pkg/storage"
	"portfolio-cms-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Portfolio CMS API
// @version         1.0
// @description     Multi-user portfolio platform: profiles, projects, blog posts and discovery.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting portfolio backend", "port", cfg.Port, "storage", cfg.StorageDriver)

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, cfg.DBMaxConns)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, dbPool, migrations.FS); err != nil {
			logger.Log.Error("Failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	// 4. Setup Redis (optional)
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, falling back to in-memory rate limiting", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// 5. Setup Security Logger
	environment := "development"
	if cfg.IsProduction() {
		environment = "production"
	}
	secLog := security.NewSecurityLogger("portfolio-cms-backend", environment)
	defer secLog.Sync()
	if cfg.SecurityLogToDB {
		secLog.SetPersistFunc(security.NewSecurityEventRepository(dbPool).PersistEvent)
	}

	// 6. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	profileRepo := postgres.NewProfileRepository(dbPool)
	socialLinkRepo := postgres.NewSocialLinkRepository(dbPool)
	projectRepo := postgres.NewProjectRepository(dbPool)
	blogPostRepo := postgres.NewBlogPostRepository(dbPool)

	// 7. Setup File Storage and Email
	files, uploadDir, err := newFileStorage(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to initialise file storage", "error", err)
		os.Exit(1)
	}

	mailer := email.NewSender(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFromEmail,
	})
	if !mailer.IsConfigured() || cfg.ContactRecipient == "" {
		logger.Log.Warn("Email service not fully configured - contact form will be unavailable")
	}

	// 8. Setup UseCases
	validate := validation.New()
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	authUC := usecase.NewAuthUsecase(userRepo, profileRepo, hasher, tokens, validate)
	profileUC := usecase.NewProfileUsecase(userRepo, profileRepo, socialLinkRepo, projectRepo, blogPostRepo, files, validate)
	socialLinkUC := usecase.NewSocialLinkUsecase(profileRepo, socialLinkRepo, validate)
	projectUC := usecase.NewProjectUsecase(projectRepo, validate)
	blogPostUC := usecase.NewBlogPostUsecase(blogPostRepo, validate)
	contactUC := usecase.NewContactUsecase(mailer, cfg.ContactRecipient, validate)
	exportUC := usecase.NewPortfolioExportUsecase(profileUC)

	var redisPinger usecase.Pinger
	if redisClient != nil {
		redisPinger = usecase.PingFunc(func(ctx context.Context) error {
			return redis.HealthCheck(ctx, redisClient)
		})
	}
	healthUC := usecase.NewHealthUsecase(map[string]usecase.Pinger{
		"database": usecase.PingFunc(dbPool.Ping),
		"redis":    redisPinger,
	})

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:       authUC,
		ProfileUC:    profileUC,
		SocialLinkUC: socialLinkUC,
		ExportUC:     exportUC,
		ProjectUC:    projectUC,
		BlogPostUC:   blogPostUC,
		ContactUC:    contactUC,
		HealthUC:     healthUC,
		Tokens:       tokens,
		Redis:        redisClient,
		SecLog:       secLog,
		LoginTracker: security.NewLoginTracker(redisClient, security.LoginTrackerConfig{
			MaxAttempts:   cfg.FailedLoginMaxAttempts,
			AttemptWindow: 15 * time.Minute,
			BlockDuration: time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute,
		}, secLog),
		Uploads:   security.NewUploadLimiter(redisClient, cfg.UploadsPerDay),
		UploadDir: uploadDir,
		Config:    cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// newFileStorage builds the configured attachment backend. The returned
// directory is non-empty only for the local driver and is served on /uploads.
func newFileStorage(ctx context.Context, cfg *config.Config) (domain.FileStorage, string, error) {
	options := storage.Options{
		MaxBytes:           cfg.MaxUploadBytes,
		AvatarMaxDimension: cfg.AvatarMaxDimension,
	}

	if cfg.StorageDriver == config.StorageDriverS3 {
		client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			return nil, "", err
		}
		return storage.NewS3Storage(client, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBaseURL, options), "", nil
	}

	local, err := storage.NewLocalStorage(cfg.UploadDir, cfg.APIBaseURL, options)
	if err != nil {
		return nil, "", err
	}
	return local, local.Dir(), nil
}
