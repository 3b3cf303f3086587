// internal/matching/service.go
package matching

import (
	"context"
	"strings"
	"time"

	apperrors "buddy-matching/internal/common/errors"
	"buddy-matching/internal/common/logger"
	"buddy-matching/internal/common/metrics"
	"buddy-matching/internal/models"
)

// Service is the entry point of the matching core. It owns the candidate
// pool, the compatibility scorer, the eligibility filter, the ranker and
// the score cache, and exposes the operations the request-handling layer
// calls.
//
// Error policy: validation and requester-identity errors propagate;
// unavailable dependencies (cache, pool, stores while reading candidates)
// degrade to neutral behavior so matching stays available during partial
// outages.
type Service struct {
	pool         Pool
	preferences  PreferenceStore
	users        UserStore
	partnerships PartnershipStore
	cache        *ScoreCache
	scorer       *Scorer
	filter       *EligibilityFilter
	ranker       *Ranker
	history      *HistoryRecorder
	logger       logger.Logger
}

// NewService wires the matching components. cache and history may be nil;
// the service then computes everything directly and skips analytics.
func NewService(
	pool Pool,
	preferences PreferenceStore,
	users UserStore,
	partnerships PartnershipStore,
	cache *ScoreCache,
	history *HistoryRecorder,
	scoreWorkers int,
	log logger.Logger,
) *Service {
	if cache != nil {
		preferences = NewCachedPreferences(preferences, cache)
	}

	s := &Service{
		pool:         pool,
		preferences:  preferences,
		users:        users,
		partnerships: partnerships,
		cache:        cache,
		scorer:       NewScorer(),
		history:      history,
		logger:       log.WithFields(map[string]interface{}{"component": "matching-service"}),
	}

	s.filter = NewEligibilityFilter(pool, preferences, users, partnerships, s.scorer, log)
	s.ranker = NewRanker(s.compatibility, preferences, users, s.scorer, scoreWorkers, log)

	return s
}

// FindMatches returns up to limit candidates ranked by compatibility, with
// no score threshold applied.
func (s *Service) FindMatches(ctx context.Context, requesterID string, limit int) ([]models.PotentialMatch, error) {
	return s.FindMatchesWithThreshold(ctx, requesterID, limit, 0.0)
}

// FindMatchesWithThreshold is the explicit-threshold variant.
func (s *Service) FindMatchesWithThreshold(ctx context.Context, requesterID string, limit int, threshold float64) ([]models.PotentialMatch, error) {
	if err := validateUserID(requesterID); err != nil {
		return nil, err
	}
	if err := ValidateLimit(limit); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		metrics.MatchRequestDuration.WithLabelValues("find_matches").Observe(time.Since(start).Seconds())
	}()

	candidates, err := s.filter.EligibleCandidates(ctx, requesterID)
	if err != nil {
		if apperrors.Propagates(err) {
			metrics.MatchRequests.WithLabelValues("error").Inc()
			return nil, err
		}
		// Store outage: degrade to an empty result instead of failing the
		// request.
		s.logger.WithError(err).Warn("candidate filtering degraded", map[string]interface{}{"requesterId": requesterID})
		metrics.MatchRequests.WithLabelValues("degraded").Inc()
		return []models.PotentialMatch{}, nil
	}

	matches, err := s.ranker.Rank(ctx, requesterID, candidates, limit, threshold)
	if err != nil {
		if apperrors.Propagates(err) {
			metrics.MatchRequests.WithLabelValues("error").Inc()
			return nil, err
		}
		s.logger.WithError(err).Warn("ranking degraded", map[string]interface{}{"requesterId": requesterID})
		metrics.MatchRequests.WithLabelValues("degraded").Inc()
		return []models.PotentialMatch{}, nil
	}

	metrics.MatchRequests.WithLabelValues("ok").Inc()
	s.history.Record(ctx, requesterID, threshold, matches)
	return matches, nil
}

// FindMatchesForUsers runs FindMatches for a batch of users. A failure for
// one user yields an empty slice for that user and never aborts the batch.
func (s *Service) FindMatchesForUsers(ctx context.Context, userIDs []string, limit int) (map[string][]models.PotentialMatch, error) {
	if err := ValidateLimit(limit); err != nil {
		return nil, err
	}

	results := make(map[string][]models.PotentialMatch, len(userIDs))
	for _, userID := range userIDs {
		if strings.TrimSpace(userID) == "" {
			continue
		}
		matches, err := s.FindMatches(ctx, userID, limit)
		if err != nil {
			s.logger.WithError(err).Warn("batch match lookup failed for user", map[string]interface{}{"userId": userID})
			results[userID] = []models.PotentialMatch{}
			continue
		}
		results[userID] = matches
	}
	return results, nil
}

// GetCompatibility returns the compatibility breakdown for a user pair.
// Symmetric: the pair is canonicalized, so argument order never matters.
// Comparing a user with themselves scores 0.0 with an explanatory note.
func (s *Service) GetCompatibility(ctx context.Context, userA, userB string) (*models.CompatibilityBreakdown, error) {
	if err := validateUserID(userA); err != nil {
		return nil, err
	}
	if err := validateUserID(userB); err != nil {
		return nil, err
	}

	if userA == userB {
		return s.scorer.SelfBreakdown(), nil
	}

	return s.compatibility(ctx, userA, userB)
}

// compatibility is the cache-aside breakdown computation shared by
// GetCompatibility and the ranker.
func (s *Service) compatibility(ctx context.Context, userA, userB string) (*models.CompatibilityBreakdown, error) {
	if s.cache != nil {
		if breakdown, ok := s.cache.GetBreakdown(ctx, userA, userB); ok {
			return breakdown, nil
		}
	}

	prefsA, errA := s.preferences.FindByUserID(ctx, userA)
	prefsB, errB := s.preferences.FindByUserID(ctx, userB)
	profileA, errC := s.users.FindByID(ctx, userA)
	profileB, errD := s.users.FindByID(ctx, userB)

	for _, err := range []error{errA, errB, errC, errD} {
		if err != nil {
			// Degrade rather than fail; do not cache the degraded result.
			s.logger.WithError(err).Warn("compatibility data load failed", map[string]interface{}{
				"userA": userA, "userB": userB,
			})
			return s.scorer.MissingDataBreakdown(), nil
		}
	}

	if prefsA == nil || prefsB == nil || profileA == nil || profileB == nil {
		return s.scorer.MissingDataBreakdown(), nil
	}

	breakdown := s.scorer.Breakdown(prefsA, prefsB, profileA, profileB)

	if s.cache != nil {
		s.cache.SetBreakdown(ctx, userA, userB, breakdown)
	}
	return breakdown, nil
}

// --- Candidate pool operations ---

// AddToPool puts a user in the market. Returns whether the pool changed;
// pool outages degrade to false.
func (s *Service) AddToPool(ctx context.Context, userID string) (bool, error) {
	if err := validateUserID(userID); err != nil {
		return false, err
	}
	added, err := s.pool.Add(ctx, userID)
	if err != nil {
		return false, nil
	}
	return added, nil
}

// RemoveFromPool takes a user out of the market. Removing a non-member is a
// no-op returning false.
func (s *Service) RemoveFromPool(ctx context.Context, userID string) (bool, error) {
	if err := validateUserID(userID); err != nil {
		return false, err
	}
	removed, err := s.pool.Remove(ctx, userID)
	if err != nil {
		return false, nil
	}
	return removed, nil
}

// PoolMembers snapshots the candidate pool; empty on pool outage.
func (s *Service) PoolMembers(ctx context.Context) []string {
	members, err := s.pool.Members(ctx)
	if err != nil {
		return []string{}
	}
	return members
}

// IsInPool reports pool membership; false on pool outage.
func (s *Service) IsInPool(ctx context.Context, userID string) bool {
	ok, err := s.pool.Contains(ctx, userID)
	return err == nil && ok
}

// AddBatchToPool inserts only the users currently eligible for matching.
// Ineligible users are silently skipped.
func (s *Service) AddBatchToPool(ctx context.Context, userIDs []string) {
	for _, userID := range userIDs {
		if strings.TrimSpace(userID) == "" {
			continue
		}
		if !s.IsEligibleForMatching(ctx, userID) {
			continue
		}
		if _, err := s.pool.Add(ctx, userID); err != nil {
			return // pool down, the rest will fail too
		}
	}
}

// IsEligibleForMatching reports whether a user may enter the pool:
// preferences exist, matching is enabled, and the partner limit is not
// reached.
func (s *Service) IsEligibleForMatching(ctx context.Context, userID string) bool {
	prefs, err := s.preferences.FindByUserID(ctx, userID)
	if err != nil || prefs == nil || !prefs.MatchingEnabled {
		return false
	}

	active, err := s.partnerships.CountActivePartnerships(ctx, userID)
	if err != nil {
		return false
	}
	return active < prefs.MaxPartners
}

// --- Partnership lifecycle hooks ---

// OnPartnershipApproved removes both new partners from the pool.
func (s *Service) OnPartnershipApproved(ctx context.Context, userA, userB string) {
	s.RemoveFromPool(ctx, userA)
	s.RemoveFromPool(ctx, userB)
	s.logger.Info("partners left the matching pool", map[string]interface{}{
		"userA": userA, "userB": userB,
	})
}

// OnPartnershipEnded re-adds both users to the pool if the partnership
// ended on good terms and they are still eligible.
func (s *Service) OnPartnershipEnded(ctx context.Context, userA, userB string, successful bool) {
	if !successful {
		return
	}
	s.AddBatchToPool(ctx, []string{userA, userB})
}

// --- Preferences ---

// UpsertPreferences creates or merges a user's matching preferences. On
// first write the record starts from defaults; on later writes only the
// fields set in upd change. The user's cached compatibility entries are
// evicted before the call returns.
func (s *Service) UpsertPreferences(ctx context.Context, upd *models.PreferencesUpdate) (*models.MatchingPreferences, error) {
	if upd == nil || strings.TrimSpace(upd.UserID) == "" {
		return nil, apperrors.NewValidationError("preferences and userId cannot be empty")
	}

	prefs, err := s.preferences.FindByUserID(ctx, upd.UserID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		prefs = models.DefaultPreferences(upd.UserID)
	}

	prefs.Merge(upd)
	if prefs.MaxPartners < 1 {
		return nil, apperrors.NewValidationError("maxPartners must be at least 1")
	}

	return s.preferences.Save(ctx, prefs)
}

// GetPreferences returns a user's matching preferences. A user who never
// wrote any gets a PreferencesNotFoundError.
func (s *Service) GetPreferences(ctx context.Context, userID string) (*models.MatchingPreferences, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	prefs, err := s.preferences.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return nil, apperrors.NewPreferencesNotFoundError(userID)
	}
	return prefs, nil
}

// GetOrCreatePreferences returns existing preferences or creates the
// default record on first access.
func (s *Service) GetOrCreatePreferences(ctx context.Context, userID string) (*models.MatchingPreferences, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	prefs, err := s.preferences.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs != nil {
		return prefs, nil
	}

	return s.UpsertPreferences(ctx, &models.PreferencesUpdate{UserID: userID})
}

func validateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperrors.NewValidationError("user ID cannot be empty")
	}
	return nil
}
