package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio-cms-backend/internal/delivery/http/response"
	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"
	"portfolio-cms-backend/pkg/auth"
	"portfolio-cms-backend/pkg/security"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(secLog *security.SecurityLogger) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(secLog))
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandler(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newEngine(security.NewSecurityLoggerWith(zap.New(core), "test", "test"))

	r.GET("/validation", func(c *gin.Context) {
		c.Error(apperror.Validation("Validation failed", map[string]string{"title": "title is required"}))
	})
	r.GET("/forbidden", func(c *gin.Context) {
		c.Error(apperror.Forbidden("You can only edit your own projects"))
	})
	r.GET("/boom", func(c *gin.Context) {
		c.Error(errors.New("pq: relation does not exist"))
	})

	t.Run("renders kind and fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/validation", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.False(t, body.Success)
		require.NotNil(t, body.Error)
		assert.Equal(t, apperror.KindValidation, body.Error.Kind)
		assert.Equal(t, "title is required", body.Error.Fields["title"])
		assert.NotEmpty(t, body.RequestID)
	})

	t.Run("forbidden is audited", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/forbidden", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, 1, logs.FilterMessage(string(security.EventForbidden)).Len())
	})

	t.Run("unknown errors are hidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "relation")
		assert.Equal(t, apperror.KindInternal, decode(t, w).Error.Kind)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	token, err := tokens.Sign(auth.Identity{ID: "user-1", Username: "ada", Role: "user"})
	require.NoError(t, err)

	r := newEngine(security.NopSecurityLogger())
	r.GET("/optional", OptionalAuth(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, CallerID(c))
	})
	r.GET("/required", RequireAuth(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(string(domain.KeyUsername)))
	})

	request := func(path, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("optional auth attaches a valid caller", func(t *testing.T) {
		w := request("/optional", "Bearer "+token)
		assert.Equal(t, "user-1", w.Body.String())
	})

	t.Run("optional auth treats a bad token as anonymous", func(t *testing.T) {
		w := request("/optional", "Bearer not-a-jwt")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("required auth accepts a valid token", func(t *testing.T) {
		w := request("/required", "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ada", w.Body.String())
	})

	t.Run("required auth rejects missing and invalid tokens", func(t *testing.T) {
		for _, header := range []string{"", "Bearer not-a-jwt", "Basic abc"} {
			w := request("/required", header)
			assert.Equal(t, http.StatusUnauthorized, w.Code, header)
			assert.Equal(t, apperror.KindUnauthenticated, decode(t, w).Error.Kind)
		}
	})
}

func TestRateLimiter(t *testing.T) {
	serve := func(r *gin.Engine) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("in-memory fallback", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		limiter := NewRateLimiter(nil, security.NewSecurityLoggerWith(zap.New(core), "test", "test"))
		r := newEngine(security.NopSecurityLogger())
		r.GET("/", limiter.Middleware(GlobalRateLimitConfig(2, time.Minute)), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		assert.Equal(t, http.StatusOK, serve(r))
		assert.Equal(t, http.StatusOK, serve(r))
		assert.Equal(t, http.StatusTooManyRequests, serve(r))
		assert.Equal(t, 1, logs.FilterMessage(string(security.EventRateLimitTriggered)).Len())
	})

	t.Run("in-memory window resets", func(t *testing.T) {
		limiter := NewRateLimiter(nil, security.NopSecurityLogger())
		now := time.Now()
		limiter.now = func() time.Time { return now }
		r := newEngine(security.NopSecurityLogger())
		r.GET("/", limiter.Middleware(GlobalRateLimitConfig(1, time.Minute)), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		assert.Equal(t, http.StatusOK, serve(r))
		assert.Equal(t, http.StatusTooManyRequests, serve(r))

		now = now.Add(2 * time.Minute)
		limiter.sweep()
		assert.Equal(t, http.StatusOK, serve(r))
	})

	t.Run("redis backed", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		limiter := NewRateLimiter(client, security.NopSecurityLogger())
		r := newEngine(security.NopSecurityLogger())
		r.GET("/", limiter.Middleware(AuthRateLimitConfig(1, time.Minute)), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		assert.Equal(t, http.StatusOK, serve(r))
		assert.Equal(t, http.StatusTooManyRequests, serve(r))
		assert.True(t, mr.Exists("rl:auth:192.0.2.10"))
	})

	t.Run("strict limit fails closed without redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		mr.Close()

		limiter := NewRateLimiter(client, security.NopSecurityLogger())
		r := newEngine(security.NopSecurityLogger())
		r.GET("/", limiter.Middleware(AuthRateLimitConfig(5, time.Minute)), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		assert.Equal(t, http.StatusServiceUnavailable, serve(r))
	})
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://portfolio.example.com"}, true))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := preflight("https://portfolio.example.com")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://portfolio.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight("http://localhost:3000")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDAndHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), SecurityHeadersMiddleware(true))
	r.GET("/", func(c *gin.Context) { response.Success(c, http.StatusOK, "ok", nil) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc-123", decode(t, w).RequestID)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}
