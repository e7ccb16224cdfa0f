package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"travelbooking/pkg/apperror"
)

const identityKey = "auth.identity"

// Middleware rejects requests without a valid bearer token and stores the
// caller's identity in the gin context.
func Middleware(m *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			apperror.Render(c, apperror.Unauthorized("missing bearer token"))
			c.Abort()
			return
		}

		claims, err := m.ValidateToken(strings.TrimSpace(raw))
		if err != nil {
			apperror.Render(c, apperror.Unauthorized("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(identityKey, claims.Identity())
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// WithIdentity is used by tests and internal callers that authenticate by
// other means.
func WithIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}
