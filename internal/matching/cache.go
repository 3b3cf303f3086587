// internal/matching/cache.go
package matching

import (
	"context"
	"encoding/json"
	"time"

	"buddy-matching/internal/common/logger"
	"buddy-matching/internal/common/metrics"
	"buddy-matching/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	compatibilityKeyPrefix = "buddy:compatibility:"
	preferencesKeyPrefix   = "buddy:preferences:"
)

// ScoreCache is the cache-aside layer over compatibility breakdowns and
// preference records. Every operation fails open: a Redis error is logged
// and reported as a miss so the caller recomputes and skips caching.
type ScoreCache struct {
	client    *redis.Client
	compatTTL time.Duration
	prefsTTL  time.Duration
	logger    logger.Logger
}

func NewScoreCache(client *redis.Client, compatTTL, prefsTTL time.Duration, log logger.Logger) *ScoreCache {
	return &ScoreCache{
		client:    client,
		compatTTL: compatTTL,
		prefsTTL:  prefsTTL,
		logger:    log.WithFields(map[string]interface{}{"component": "score-cache"}),
	}
}

// compatibilityKey canonicalizes the pair by sorting so (a,b) and (b,a)
// share one entry.
func compatibilityKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return compatibilityKeyPrefix + a + ":" + b
}

func preferencesKey(userID string) string {
	return preferencesKeyPrefix + userID
}

// GetBreakdown returns the cached breakdown for a pair, or (nil, false) on
// miss or cache error.
func (c *ScoreCache) GetBreakdown(ctx context.Context, a, b string) (*models.CompatibilityBreakdown, bool) {
	val, err := c.client.Get(ctx, compatibilityKey(a, b)).Result()
	if err != nil {
		if err != redis.Nil {
			metrics.CompatibilityCacheOps.WithLabelValues("error").Inc()
			c.logger.WithError(err).Warn("compatibility cache read failed", nil)
		} else {
			metrics.CompatibilityCacheOps.WithLabelValues("miss").Inc()
		}
		return nil, false
	}

	var breakdown models.CompatibilityBreakdown
	if err := json.Unmarshal([]byte(val), &breakdown); err != nil {
		metrics.CompatibilityCacheOps.WithLabelValues("error").Inc()
		return nil, false
	}

	metrics.CompatibilityCacheOps.WithLabelValues("hit").Inc()
	return &breakdown, true
}

// SetBreakdown stores a breakdown under the canonical pair key, best effort.
func (c *ScoreCache) SetBreakdown(ctx context.Context, a, b string, breakdown *models.CompatibilityBreakdown) {
	data, err := json.Marshal(breakdown)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, compatibilityKey(a, b), data, c.compatTTL).Err(); err != nil {
		c.logger.WithError(err).Warn("compatibility cache write failed", nil)
	}
}

// GetPreferences returns the cached preferences for a user, or (nil, false).
func (c *ScoreCache) GetPreferences(ctx context.Context, userID string) (*models.MatchingPreferences, bool) {
	val, err := c.client.Get(ctx, preferencesKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Warn("preference cache read failed", map[string]interface{}{"userId": userID})
		}
		return nil, false
	}

	var prefs models.MatchingPreferences
	if err := json.Unmarshal([]byte(val), &prefs); err != nil {
		return nil, false
	}
	return &prefs, true
}

// SetPreferences stores a preference record, best effort.
func (c *ScoreCache) SetPreferences(ctx context.Context, prefs *models.MatchingPreferences) {
	data, err := json.Marshal(prefs)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, preferencesKey(prefs.UserID), data, c.prefsTTL).Err(); err != nil {
		c.logger.WithError(err).Warn("preference cache write failed", map[string]interface{}{"userId": prefs.UserID})
	}
}

// EvictUser removes the user's preference entry and every compatibility
// entry involving the user. Runs before a preference write is acknowledged:
// a stale compatibility read after a preference change is a correctness bug.
func (c *ScoreCache) EvictUser(ctx context.Context, userID string) error {
	keys := []string{preferencesKey(userID)}

	// Pair keys are sorted, so the user id appears either first or last.
	patterns := []string{
		compatibilityKeyPrefix + userID + ":*",
		compatibilityKeyPrefix + "*:" + userID,
	}
	for _, pattern := range patterns {
		matched, err := c.client.Keys(ctx, pattern).Result()
		if err != nil {
			c.logger.WithError(err).Warn("compatibility cache scan failed", map[string]interface{}{"userId": userID})
			return err
		}
		keys = append(keys, matched...)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WithError(err).Warn("compatibility cache eviction failed", map[string]interface{}{"userId": userID})
		return err
	}
	return nil
}

// CachedPreferences decorates a PreferenceStore with the cache-aside
// pattern: read through on miss, write through on save.
type CachedPreferences struct {
	store PreferenceStore
	cache *ScoreCache
}

func NewCachedPreferences(store PreferenceStore, cache *ScoreCache) *CachedPreferences {
	return &CachedPreferences{store: store, cache: cache}
}

func (p *CachedPreferences) FindByUserID(ctx context.Context, userID string) (*models.MatchingPreferences, error) {
	if prefs, ok := p.cache.GetPreferences(ctx, userID); ok {
		return prefs, nil
	}

	prefs, err := p.store.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs != nil {
		p.cache.SetPreferences(ctx, prefs)
	}
	return prefs, nil
}

// Save writes to the backing store, refreshes the preference entry and then
// evicts the user's compatibility entries. The eviction is sequenced before
// returning so no caller can observe a stale pair score after the write.
func (p *CachedPreferences) Save(ctx context.Context, prefs *models.MatchingPreferences) (*models.MatchingPreferences, error) {
	saved, err := p.store.Save(ctx, prefs)
	if err != nil {
		return nil, err
	}

	if err := p.cache.EvictUser(ctx, saved.UserID); err == nil {
		p.cache.SetPreferences(ctx, saved)
	}
	return saved, nil
}
