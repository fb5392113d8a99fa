package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/maeulhub/maeul/internal/models"
	"github.com/maeulhub/maeul/internal/store"
)

// statsTTL bounds how stale a cached counter snapshot may get; toggles and
// comment mutations invalidate eagerly, the TTL covers everything else.
const statsTTL = 30 * time.Second

// StatsResult carries a target's counters plus, for authenticated callers,
// their own reaction state.
type StatsResult struct {
	Counters     models.Counters `json:"counters"`
	UserReaction *ReactionView   `json:"user_reaction,omitempty"`
}

func statsCacheKey(target models.Target) string {
	return "stats:" + string(target.Type) + ":" + strconv.FormatInt(target.ID, 10)
}

// GetStats returns the counter snapshot for a target. When viewerID is
// non-nil the viewer's own reaction state rides along. Counters are shared
// across viewers and served through the cache; the per-viewer reaction is
// always read fresh.
func (s *Service) GetStats(ctx context.Context, target models.Target, viewerID *int64) (*StatsResult, error) {
	counters, ok := s.cachedCounters(ctx, target)
	if !ok {
		var err error
		counters, err = s.store.Counters().Get(ctx, target)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		s.storeCachedCounters(ctx, target, counters)
	}

	result := &StatsResult{Counters: counters}
	if viewerID != nil {
		reaction, err := s.store.Reactions().Get(ctx, *viewerID, target)
		switch {
		case errors.Is(err, store.ErrNotFound):
			result.UserReaction = &ReactionView{}
		case err != nil:
			return nil, err
		default:
			result.UserReaction = &ReactionView{
				Liked:      reaction.Liked,
				Disliked:   reaction.Disliked,
				Bookmarked: reaction.Bookmarked,
			}
		}
	}
	return result, nil
}

func (s *Service) cachedCounters(ctx context.Context, target models.Target) (models.Counters, bool) {
	var counters models.Counters
	if s.cache == nil {
		return counters, false
	}
	raw, err := s.cache.Get(ctx, statsCacheKey(target))
	if err != nil {
		return counters, false
	}
	if err := json.Unmarshal([]byte(raw), &counters); err != nil {
		return counters, false
	}
	return counters, true
}

func (s *Service) storeCachedCounters(ctx context.Context, target models.Target, counters models.Counters) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(counters)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statsCacheKey(target), string(raw), statsTTL); err != nil {
		s.logger.Debug("stats cache write failed", zap.Error(err))
	}
}

// invalidateStats drops the cached counter snapshot after a mutation.
func (s *Service) invalidateStats(ctx context.Context, target models.Target) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey(target)); err != nil {
		s.logger.Debug("stats cache invalidation failed", zap.Error(err))
	}
}
