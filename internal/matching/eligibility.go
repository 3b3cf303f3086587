// internal/matching/eligibility.go
package matching

import (
	"context"

	apperrors "buddy-matching/internal/common/errors"
	"buddy-matching/internal/common/logger"
)

// EligibilityFilter narrows the candidate pool down to the candidates a
// specific requester may legitimately be matched with. It performs no
// scoring.
type EligibilityFilter struct {
	pool         Pool
	preferences  PreferenceStore
	users        UserStore
	partnerships PartnershipStore
	scorer       *Scorer
	logger       logger.Logger
}

func NewEligibilityFilter(
	pool Pool,
	preferences PreferenceStore,
	users UserStore,
	partnerships PartnershipStore,
	scorer *Scorer,
	log logger.Logger,
) *EligibilityFilter {
	return &EligibilityFilter{
		pool:         pool,
		preferences:  preferences,
		users:        users,
		partnerships: partnerships,
		scorer:       scorer,
		logger:       log.WithFields(map[string]interface{}{"component": "eligibility-filter"}),
	}
}

// EligibleCandidates returns the unordered list of pool members the
// requester may be matched with. A requester without preferences, or one
// that has reached their partner limit, gets an empty list rather than an
// error. An unknown requester is an error.
func (f *EligibilityFilter) EligibleCandidates(ctx context.Context, requesterID string) ([]string, error) {
	requester, err := f.users.FindByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, apperrors.NewUserNotFoundError(requesterID)
	}

	prefs, err := f.preferences.FindByUserID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		f.logger.Debug("requester has no matching preferences", map[string]interface{}{"userId": requesterID})
		return []string{}, nil
	}

	active, err := f.partnerships.CountActivePartnerships(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if active >= prefs.MaxPartners {
		return []string{}, nil
	}

	// Pool failures degrade matching to an empty result, they never block.
	members, err := f.pool.Members(ctx)
	if err != nil {
		f.logger.WithError(err).Warn("candidate pool unreachable, returning no candidates", nil)
		return []string{}, nil
	}

	eligible := make([]string, 0, len(members))
	for _, candidateID := range members {
		if candidateID == requesterID {
			continue
		}

		partnered, err := f.partnerships.ExistsActivePartnershipBetween(ctx, requesterID, candidateID)
		if err != nil {
			return nil, err
		}
		if partnered {
			continue
		}

		if !f.matchesLanguage(ctx, prefs.Language, candidateID) {
			continue
		}
		if !f.withinTimezoneFlexibility(ctx, prefs.TimezoneFlexibility, prefs.PreferredTimezone, candidateID) {
			continue
		}

		eligible = append(eligible, candidateID)
	}

	return eligible, nil
}

// matchesLanguage excludes candidates with a conflicting declared language.
// Either side lacking a language preference passes the filter.
func (f *EligibilityFilter) matchesLanguage(ctx context.Context, requesterLanguage, candidateID string) bool {
	if requesterLanguage == "" {
		return true
	}

	candidatePrefs, err := f.preferences.FindByUserID(ctx, candidateID)
	if err != nil || candidatePrefs == nil || candidatePrefs.Language == "" {
		return true
	}

	return requesterLanguage == candidatePrefs.Language
}

// withinTimezoneFlexibility excludes candidates whose current UTC offset
// differs from the requester's by more than the declared flexibility in
// whole hours. A flexibility of 0 disables the filter, as does missing
// timezone data on either side.
func (f *EligibilityFilter) withinTimezoneFlexibility(ctx context.Context, flexibility int, requesterTz, candidateID string) bool {
	if flexibility <= 0 || requesterTz == "" {
		return true
	}

	candidate, err := f.users.FindByID(ctx, candidateID)
	if err != nil || candidate == nil || candidate.Timezone == "" {
		return true
	}

	requesterOffset, okA := f.scorer.OffsetHours(requesterTz)
	candidateOffset, okB := f.scorer.OffsetHours(candidate.Timezone)
	if !okA || !okB {
		return true
	}

	diff := requesterOffset - candidateOffset
	if diff < 0 {
		diff = -diff
	}
	return diff <= flexibility
}
