// Package middleware – authentication.
//
// This file implements the bearer-token gate for the API. RequireAuth
// rejects requests without a valid access token; OptionalAuth resolves
// the user when a token is present and lets anonymous requests through,
// which the public feed and idea reads rely on for viewer flags.
//
// Tier expiry is enforced here: every authenticated request re-resolves
// the user's tier, so a lapsed subscription downgrades on the next call
// regardless of what the token still claims.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Abroon25/ideax/internal/auth"
	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/repo"
	"github.com/Abroon25/ideax/internal/services"
	"gorm.io/gorm"
)

const (
	ctxUserIDKey = "userID"
	ctxUserKey   = "user"
)

// AuthOptions configures the token gate.
type AuthOptions struct {
	Secret []byte
	DB     *gorm.DB
	Tiers  *services.TierService
}

// RequireAuth validates the Authorization bearer token, loads the
// account, applies lazy tier expiry, and stores the user in the Gin
// context. Requests without a valid token are rejected with 401.
func RequireAuth(opts AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := resolveUser(c, opts)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "missing or invalid access token",
			})
			return
		}
		c.Set(ctxUserIDKey, u.ID)
		c.Set(ctxUserKey, u)
		c.Next()
	}
}

// OptionalAuth resolves the user when a valid token is present and
// continues anonymously otherwise.
func OptionalAuth(opts AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u, ok := resolveUser(c, opts); ok {
			c.Set(ctxUserIDKey, u.ID)
			c.Set(ctxUserKey, u)
		}
		c.Next()
	}
}

// UserFrom returns the authenticated user stored by RequireAuth or
// OptionalAuth, or nil for anonymous requests.
func UserFrom(c *gin.Context) *domain.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}

func resolveUser(c *gin.Context, opts AuthOptions) (*domain.User, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return nil, false
	}

	claims, err := auth.Parse(opts.Secret, token)
	if err != nil {
		return nil, false
	}
	u, err := repo.GetUser(c.Request.Context(), opts.DB, claims.Subject)
	if err != nil {
		return nil, false
	}
	if u, err = opts.Tiers.Resolve(c.Request.Context(), u); err != nil {
		return nil, false
	}
	return u, true
}
