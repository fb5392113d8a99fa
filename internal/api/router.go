// Package api exposes the content core over a REST surface consumed by the
// web frontend. Handlers validate the wire payload, pull the authenticated
// identity from the middleware and delegate to the service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maeulhub/maeul/internal/auth"
	"github.com/maeulhub/maeul/internal/service"
	"github.com/maeulhub/maeul/pkg/logging"
)

// HealthChecker reports whether a backing dependency is reachable. The
// database and, when enabled, the Redis cache implement it.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Router sets up API routes
type Router struct {
	svc    *service.Service
	tokens *auth.Manager
	checks []HealthChecker
	logger *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(svc *service.Service, tokens *auth.Manager, checks ...HealthChecker) *Router {
	return &Router{
		svc:    svc,
		tokens: tokens,
		checks: checks,
		logger: logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	v1 := engine.Group("/api/v1")
	v1.Use(RequestLogger(r.logger))

	v1.POST("/auth/register", r.register)
	v1.POST("/auth/login", r.login)

	v1.GET("/posts/:slug", r.getPost)
	v1.GET("/posts/:slug/comments", r.listComments)

	authed := v1.Group("")
	authed.Use(RequireAuth(r.tokens))
	{
		authed.POST("/posts", r.createPost)
		authed.PUT("/posts/:id", r.updatePost)
		authed.DELETE("/posts/:id", r.deletePost)

		authed.POST("/comments", r.createComment)
		authed.PUT("/comments/:id", r.updateComment)
		authed.DELETE("/comments/:id", r.deleteComment)

		authed.POST("/reactions", r.toggleReaction)

		authed.GET("/users/me", r.me)
	}

	// Stats work anonymously; a bearer token adds the caller's reaction.
	v1.GET("/stats/:type/:id", OptionalAuth(r.tokens), r.getStats)
}

func (r *Router) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	for _, check := range r.checks {
		if err := check.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
