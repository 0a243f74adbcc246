package middleware

import (
	"errors"
	"net/http"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"
	"portfolio-cms-backend/pkg/auth"

	"github.com/gin-gonic/gin"
)

// OptionalAuth attaches the caller when a valid bearer token is present. A
// missing, malformed or expired token leaves the request anonymous.
func OptionalAuth(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := auth.TryAuthenticate(verifier, c.GetHeader("Authorization")); ok {
			setIdentity(c, id)
		}
		c.Next()
	}
}

// RequireAuth rejects the request with 401 unless a valid bearer token is present.
func RequireAuth(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := auth.RequireAuthenticate(verifier, c.GetHeader("Authorization"))
		if err != nil {
			msg := "Invalid or expired token"
			if errors.Is(err, auth.ErrMissingToken) {
				msg = "Authorization header required"
			}
			c.Error(apperror.New(http.StatusUnauthorized, msg, err))
			c.Abort()
			return
		}
		setIdentity(c, id)
		c.Next()
	}
}

func setIdentity(c *gin.Context, id auth.Identity) {
	c.Set(string(domain.KeyUserID), id.ID)
	c.Set(string(domain.KeyUsername), id.Username)
	c.Set(string(domain.KeyUserEmail), id.Email)
	c.Set(string(domain.KeyUserRole), id.Role)
}

// CallerID returns the authenticated user id, or "" for anonymous requests.
func CallerID(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserID))
}
