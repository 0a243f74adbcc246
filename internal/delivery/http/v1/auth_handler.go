package v1

import (
	"net/http"

	"portfolio-cms-backend/internal/delivery/http/middleware"
	"portfolio-cms-backend/internal/delivery/http/response"
	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"
	"portfolio-cms-backend/pkg/logger"
	"portfolio-cms-backend/pkg/metrics"
	"portfolio-cms-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC  domain.AuthUsecase
	tracker *security.LoginTracker
	secLog  *security.SecurityLogger
}

func NewAuthHandler(public, protected *gin.RouterGroup, strict gin.HandlerFunc, authUC domain.AuthUsecase, tracker *security.LoginTracker, secLog *security.SecurityLogger) {
	handler := &AuthHandler{
		authUC:  authUC,
		tracker: tracker,
		secLog:  secLog,
	}

	// Public Routes
	publicAuth := public.Group("/auth", strict)
	{
		publicAuth.POST("/register", handler.Register)
		publicAuth.POST("/login", handler.Login)
	}

	// Protected Routes
	protected.GET("/auth/me", handler.Me)
}

// Register godoc
// @Summary      User Registration
// @Description  Create an account and its default draft profile, and return an access token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      domain.RegisterInput  true  "Registration Details"
// @Success      201       {object}  response.Response{data=domain.AuthResult}
// @Failure      400       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Failure      429       {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	result, err := h.authUC.Register(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	metrics.AuthEventsTotal.WithLabelValues("register").Inc()
	h.secLog.LogAccountEvent(c.Request.Context(), security.EventRegistered, result.User.ID, middleware.RequestMeta(c))
	response.Success(c, http.StatusCreated, "User registered successfully", result)
}

// Login godoc
// @Summary      User Login
// @Description  Exchange email and password for an access token. Repeated failures lock the account temporarily.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      domain.LoginInput  true  "Login Credentials"
// @Success      200    {object}  response.Response{data=domain.AuthResult}
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	ctx := c.Request.Context()
	meta := middleware.RequestMeta(c)

	blocked, err := h.tracker.IsBlocked(ctx, req.Email)
	if err != nil {
		// Fail open: a Redis outage must not lock everyone out
		logger.Log.Warn("Login block check failed", "error", err)
	}
	if blocked {
		metrics.AuthEventsTotal.WithLabelValues("login_blocked").Inc()
		h.secLog.LogLoginBlocked(ctx, req.Email, meta)
		middleware.MarkAudited(c)
		c.Error(apperror.TooManyRequests("Too many failed login attempts. Please try again later."))
		return
	}

	result, err := h.authUC.Login(ctx, &req)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindUnauthenticated {
			metrics.AuthEventsTotal.WithLabelValues("login_failed").Inc()
			if _, trackErr := h.tracker.RecordFailedAttempt(ctx, req.Email, meta); trackErr != nil {
				logger.Log.Warn("Failed to record login attempt", "error", trackErr)
			}
			middleware.MarkAudited(c)
		}
		c.Error(err)
		return
	}

	if err := h.tracker.ClearAttempts(ctx, req.Email); err != nil {
		logger.Log.Warn("Failed to clear login attempts", "error", err)
	}
	metrics.AuthEventsTotal.WithLabelValues("login_success").Inc()
	h.secLog.LogLoginSuccess(ctx, result.User.ID, meta)

	response.Success(c, http.StatusOK, "Login successful", result)
}

// Me godoc
// @Summary      Current user
// @Description  Return the authenticated user and their profile.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.AuthResult}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	result, err := h.authUC.Me(c.Request.Context(), middleware.CallerID(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User retrieved successfully", result)
}
