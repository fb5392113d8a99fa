// Package service implements the content core: post identity (two-phase
// slug assignment), the reaction toggle coordinator, the comment tree with
// its deletion policy, and counter/stats reads. The HTTP layer calls these
// operations with an authenticated identity; persistence goes through the
// store interfaces.
package service

import (
	"go.uber.org/zap"

	"github.com/maeulhub/maeul/internal/cache"
	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/internal/store"
	"github.com/maeulhub/maeul/pkg/logging"
)

// Identity is the authenticated caller, supplied by the auth middleware.
type Identity struct {
	UserID int64
	Role   models.Role
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// Service is the content core facade.
type Service struct {
	store  store.Store
	cache  *cache.Cache
	locks  keyMutex
	logger *zap.Logger
}

// New creates the service. The cache may be nil (disabled).
func New(st store.Store, c *cache.Cache) *Service {
	return &Service{
		store:  st,
		cache:  c,
		logger: logging.GetLogger().With(zap.String("component", "service")),
	}
}

// canModify applies the author-or-admin rule.
func (i Identity) canModify(authorID int64) bool {
	return i.UserID == authorID || i.IsAdmin()
}
