package v1

import (
	"net/http"
	"time"

	"portfolio-cms-backend/config"
	"portfolio-cms-backend/internal/delivery/http/middleware"
	"portfolio-cms-backend/internal/delivery/http/response"
	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/internal/usecase"
	"portfolio-cms-backend/pkg/apperror"
	"portfolio-cms-backend/pkg/auth"
	"portfolio-cms-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC       domain.AuthUsecase
	ProfileUC    domain.ProfileUsecase
	SocialLinkUC domain.SocialLinkUsecase
	ExportUC     domain.PortfolioExportUsecase
	ProjectUC    domain.ProjectUsecase
	BlogPostUC   domain.BlogPostUsecase
	ContactUC    domain.ContactUsecase
	HealthUC     usecase.HealthUsecase
	Tokens       auth.Verifier
	Redis        *goredis.Client // nil selects the in-memory rate limiter
	SecLog       *security.SecurityLogger
	LoginTracker *security.LoginTracker
	Uploads      *security.UploadLimiter
	// UploadDir is served on /uploads when files are kept on local disk
	UploadDir string
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins, cfg.IsProduction())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	r.Use(middleware.ErrorHandler(deps.SecLog))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if deps.UploadDir != "" {
		r.Static("/uploads", deps.UploadDir)
	}

	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	limiter := middleware.NewRateLimiter(deps.Redis, deps.SecLog)
	strict := limiter.Middleware(middleware.AuthRateLimitConfig(cfg.RateLimitAuthThreshold, window))

	api := r.Group("/api")
	api.Use(limiter.Middleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))

	NewHealthHandler(api, deps.HealthUC)
	NewContactHandler(api, strict, deps.ContactUC)

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Reads accept an optional token so owners see their drafts
	public := api.Group("")
	public.Use(middleware.OptionalAuth(deps.Tokens))

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.RequireAuth(deps.Tokens))

	NewAuthHandler(api, protected, strict, deps.AuthUC, deps.LoginTracker, deps.SecLog)
	NewProfileHandler(public, protected, ProfileHandlerDeps{
		ProfileUC:      deps.ProfileUC,
		SocialLinkUC:   deps.SocialLinkUC,
		ExportUC:       deps.ExportUC,
		Uploads:        deps.Uploads,
		SecLog:         deps.SecLog,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	NewProjectHandler(public, protected, deps.ProjectUC)
	NewBlogPostHandler(public, protected, deps.BlogPostUC)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Route not found", &response.ErrorBody{Kind: apperror.KindNotFound})
	})

	return r
}
