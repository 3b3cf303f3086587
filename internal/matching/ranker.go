// internal/matching/ranker.go
package matching

import (
	"context"
	"sort"
	"sync"

	apperrors "buddy-matching/internal/common/errors"
	"buddy-matching/internal/common/logger"
	"buddy-matching/internal/common/metrics"
	"buddy-matching/internal/models"
)

const (
	minLimit = 1
	maxLimit = 100
)

// BreakdownFunc produces a compatibility breakdown for a user pair,
// consulting the cache where possible.
type BreakdownFunc func(ctx context.Context, a, b string) (*models.CompatibilityBreakdown, error)

// Ranker turns a set of eligible candidates into an ordered, size-bounded
// list of potential matches.
type Ranker struct {
	breakdown   BreakdownFunc
	preferences PreferenceStore
	users       UserStore
	scorer      *Scorer
	workers     int
	logger      logger.Logger
}

func NewRanker(
	breakdown BreakdownFunc,
	preferences PreferenceStore,
	users UserStore,
	scorer *Scorer,
	workers int,
	log logger.Logger,
) *Ranker {
	if workers < 1 {
		workers = 1
	}
	return &Ranker{
		breakdown:   breakdown,
		preferences: preferences,
		users:       users,
		scorer:      scorer,
		workers:     workers,
		logger:      log.WithFields(map[string]interface{}{"component": "match-ranker"}),
	}
}

// ValidateLimit rejects result limits outside [1, 100].
func ValidateLimit(limit int) error {
	if limit < minLimit || limit > maxLimit {
		return apperrors.NewValidationError("limit must be between 1 and 100")
	}
	return nil
}

// Rank scores every candidate against the requester, drops matches below
// threshold, sorts by score descending (ties broken by candidate id so
// results are reproducible) and truncates to limit. Candidates that fail to
// score are skipped, never fatal.
func (r *Ranker) Rank(ctx context.Context, requesterID string, candidates []string, limit int, threshold float64) ([]models.PotentialMatch, error) {
	if err := ValidateLimit(limit); err != nil {
		return nil, err
	}

	requester, err := r.users.FindByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	var requesterInterests []string
	if requester != nil {
		requesterInterests = requester.Interests
	}

	// Scoring independent candidates is embarrassingly parallel; only the
	// sort and truncation below are serialized.
	results := make([]*models.PotentialMatch, len(candidates))
	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup

	for i, candidateID := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, id string) {
			defer wg.Done()
			defer func() { <-sem }()

			match, err := r.buildMatch(ctx, requesterID, requesterInterests, id)
			if err != nil {
				r.logger.WithError(err).Warn("skipping candidate", map[string]interface{}{
					"requesterId": requesterID,
					"candidateId": id,
				})
				return
			}
			results[idx] = match
		}(i, candidateID)
	}
	wg.Wait()

	matches := make([]models.PotentialMatch, 0, len(results))
	for _, match := range results {
		if match == nil || match.CompatibilityScore < threshold {
			continue
		}
		matches = append(matches, *match)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CompatibilityScore != matches[j].CompatibilityScore {
			return matches[i].CompatibilityScore > matches[j].CompatibilityScore
		}
		return matches[i].UserID < matches[j].UserID
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (r *Ranker) buildMatch(ctx context.Context, requesterID string, requesterInterests []string, candidateID string) (*models.PotentialMatch, error) {
	breakdown, err := r.breakdown(ctx, requesterID, candidateID)
	if err != nil {
		return nil, err
	}
	metrics.CandidatesScored.Inc()

	candidate, err := r.users.FindByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	match := &models.PotentialMatch{
		UserID:             candidateID,
		CompatibilityScore: breakdown.OverallScore,
		ReasonForMatch:     breakdown.Explanation,
	}

	if candidate != nil {
		match.DisplayName = candidate.DisplayName
		match.Timezone = candidate.Timezone
		match.ExperienceLevel = candidate.ExperienceLevel
		match.CommunicationStyle = candidate.CommunicationStyle
		match.PersonalityType = candidate.PersonalityType
		match.CommonInterests = commonInterests(requesterInterests, candidate.Interests)

		if offset, ok := r.scorer.OffsetHours(candidate.Timezone); ok {
			match.TimezoneOffsetHours = &offset
		}
	}

	if candidatePrefs, err := r.preferences.FindByUserID(ctx, candidateID); err == nil && candidatePrefs != nil {
		match.FocusAreas = candidatePrefs.FocusAreas
	}

	return match, nil
}

// commonInterests preserves the requester's interest order.
func commonInterests(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	setB := toSet(b)
	var shared []string
	for _, interest := range a {
		if _, ok := setB[interest]; ok {
			shared = append(shared, interest)
		}
	}
	return shared
}
