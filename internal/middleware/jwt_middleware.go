package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/cruzaro/hpcollect/internal/cache"
	"github.com/cruzaro/hpcollect/internal/models"
	"github.com/cruzaro/hpcollect/internal/utils"
)

// JWTMiddleware validates session tokens and enforces out-of-band
// revocation: a token that verifies cryptographically is still rejected once
// the identity's sessions have been terminated.
type JWTMiddleware struct {
	sessions *cache.SessionStore
}

// NewJWTMiddleware constructs a JWTMiddleware backed by the revocation store.
func NewJWTMiddleware(sessions *cache.SessionStore) *JWTMiddleware {
	return &JWTMiddleware{sessions: sessions}
}

// Handle authenticates the request and loads the identity into context.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		revoked, err := m.sessions.IsRevoked(c.Request.Context(), claims.Subject)
		if err != nil {
			// Redis unavailable: log and let the request through rather
			// than locking every session out.
			log.Error().Err(err).Str("profile_id", claims.Subject).Msg("revocation check failed")
		}
		if revoked {
			utils.Error(c, 401, "ACCESS_REVOKED", "Session has been terminated")
			c.Abort()
			return
		}

		c.Set("profile_id", claims.Subject)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("name", claims.Name)
		c.Next()
	}
}

// RequireRole gates a route group to one role. Runs after Handle.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != string(role) {
			utils.Error(c, 403, "FORBIDDEN", "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ProfileID returns the authenticated identity id from context.
func ProfileID(c *gin.Context) string {
	return c.GetString("profile_id")
}
