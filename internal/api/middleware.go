package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maeulhub/maeul/internal/auth"
	"github.com/maeulhub/maeul/internal/service"
)

// identityKey is the gin context key carrying the verified identity.
const identityKey = "identity"

// RequireAuth rejects requests without a valid bearer token and stores the
// verified identity in the request context.
func RequireAuth(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := bearerIdentity(c, tokens)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing bearer token"})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth stores the identity when a valid bearer token is present and
// lets the request through either way.
func OptionalAuth(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, ok := bearerIdentity(c, tokens); ok {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

func bearerIdentity(c *gin.Context, tokens *auth.Manager) (service.Identity, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return service.Identity{}, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return service.Identity{}, false
	}
	parsed, err := tokens.Parse(parts[1])
	if err != nil {
		return service.Identity{}, false
	}
	return service.Identity{UserID: parsed.UserID, Role: parsed.Role}, true
}

// callerIdentity returns the identity stored by RequireAuth/OptionalAuth.
func callerIdentity(c *gin.Context) (service.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return service.Identity{}, false
	}
	identity, ok := v.(service.Identity)
	return identity, ok
}

// RequestLogger logs each request with latency and status.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
