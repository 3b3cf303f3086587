// internal/matching/cache_test.go
package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buddy-matching/internal/common/logger"
	"buddy-matching/internal/models"
)

func newTestCache(t *testing.T) *ScoreCache {
	_, client := setupTestRedis(t)
	return NewScoreCache(client, time.Hour, 30*time.Minute, logger.NewNoOpLogger())
}

func TestScoreCache_BreakdownRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	breakdown := &models.CompatibilityBreakdown{
		OverallScore:  0.6575,
		TimezoneScore: 1.0,
		InterestScore: 0.5,
		Explanation:   "Good compatibility.",
	}

	_, ok := cache.GetBreakdown(ctx, "u1", "u2")
	assert.False(t, ok)

	cache.SetBreakdown(ctx, "u1", "u2", breakdown)

	got, ok := cache.GetBreakdown(ctx, "u1", "u2")
	require.True(t, ok)
	assert.Equal(t, breakdown, got)
}

func TestScoreCache_PairKeyIsCanonical(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	breakdown := &models.CompatibilityBreakdown{OverallScore: 0.42}
	cache.SetBreakdown(ctx, "u2", "u1", breakdown)

	// Reversed argument order hits the same entry.
	got, ok := cache.GetBreakdown(ctx, "u1", "u2")
	require.True(t, ok)
	assert.Equal(t, 0.42, got.OverallScore)
}

func TestScoreCache_PreferencesRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	prefs := testPrefs("u1", "UTC", models.CommunicationModerate)

	_, ok := cache.GetPreferences(ctx, "u1")
	assert.False(t, ok)

	cache.SetPreferences(ctx, prefs)

	got, ok := cache.GetPreferences(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, prefs.UserID, got.UserID)
	assert.Equal(t, prefs.PreferredTimezone, got.PreferredTimezone)
}

func TestScoreCache_EvictUserRemovesAllEntries(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	cache.SetPreferences(ctx, testPrefs("u2", "UTC", models.CommunicationModerate))
	cache.SetBreakdown(ctx, "u1", "u2", &models.CompatibilityBreakdown{OverallScore: 0.5})
	cache.SetBreakdown(ctx, "u2", "u3", &models.CompatibilityBreakdown{OverallScore: 0.6})
	cache.SetBreakdown(ctx, "u1", "u3", &models.CompatibilityBreakdown{OverallScore: 0.7})

	require.NoError(t, cache.EvictUser(ctx, "u2"))

	_, ok := cache.GetPreferences(ctx, "u2")
	assert.False(t, ok)
	_, ok = cache.GetBreakdown(ctx, "u1", "u2")
	assert.False(t, ok)
	_, ok = cache.GetBreakdown(ctx, "u2", "u3")
	assert.False(t, ok)

	// Pairs not involving u2 survive.
	got, ok := cache.GetBreakdown(ctx, "u1", "u3")
	require.True(t, ok)
	assert.Equal(t, 0.7, got.OverallScore)
}

func TestScoreCache_ReadFailsOpen(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewScoreCache(client, time.Hour, 30*time.Minute, logger.NewNoOpLogger())

	mock.ExpectGet(compatibilityKey("u1", "u2")).SetErr(errors.New("connection refused"))

	_, ok := cache.GetBreakdown(context.Background(), "u1", "u2")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScoreCache_CorruptEntryIsAMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewScoreCache(client, time.Hour, 30*time.Minute, logger.NewNoOpLogger())

	mock.ExpectGet(compatibilityKey("u1", "u2")).SetVal("{not json")

	_, ok := cache.GetBreakdown(context.Background(), "u1", "u2")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// CachedPreferences Tests
// ==========================

type countingPrefStore struct {
	prefs map[string]*models.MatchingPreferences
	finds int
	saves int
}

func newCountingPrefStore() *countingPrefStore {
	return &countingPrefStore{prefs: make(map[string]*models.MatchingPreferences)}
}

func (s *countingPrefStore) FindByUserID(_ context.Context, userID string) (*models.MatchingPreferences, error) {
	s.finds++
	return s.prefs[userID], nil
}

func (s *countingPrefStore) Save(_ context.Context, prefs *models.MatchingPreferences) (*models.MatchingPreferences, error) {
	s.saves++
	s.prefs[prefs.UserID] = prefs
	return prefs, nil
}

func TestCachedPreferences_ReadThrough(t *testing.T) {
	cache := newTestCache(t)
	backing := newCountingPrefStore()
	backing.prefs["u1"] = testPrefs("u1", "UTC", models.CommunicationModerate)

	cached := NewCachedPreferences(backing, cache)
	ctx := context.Background()

	first, err := cached.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := cached.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, second)

	// Second read is served from the cache.
	assert.Equal(t, 1, backing.finds)
	assert.Equal(t, first.UserID, second.UserID)
}

func TestCachedPreferences_AbsentRecordIsNotCached(t *testing.T) {
	cache := newTestCache(t)
	backing := newCountingPrefStore()
	cached := NewCachedPreferences(backing, cache)
	ctx := context.Background()

	prefs, err := cached.FindByUserID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, prefs)

	_, err = cached.FindByUserID(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, 2, backing.finds)
}

func TestCachedPreferences_SaveEvictsPairScores(t *testing.T) {
	cache := newTestCache(t)
	backing := newCountingPrefStore()
	cached := NewCachedPreferences(backing, cache)
	ctx := context.Background()

	cache.SetBreakdown(ctx, "u1", "u2", &models.CompatibilityBreakdown{OverallScore: 0.9})

	updated := testPrefs("u2", "Etc/GMT-5", models.CommunicationMinimal)
	_, err := cached.Save(ctx, updated)
	require.NoError(t, err)

	// The pair score involving u2 is gone.
	_, ok := cache.GetBreakdown(ctx, "u1", "u2")
	assert.False(t, ok)

	// The fresh preferences are immediately readable without a store hit.
	got, err := cached.FindByUserID(ctx, "u2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Etc/GMT-5", got.PreferredTimezone)
	assert.Equal(t, 0, backing.finds)
}
