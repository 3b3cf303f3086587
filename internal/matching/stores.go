// internal/matching/stores.go
package matching

import (
	"context"

	"buddy-matching/internal/models"
)

// The matching core depends on three external stores. Absent records are
// (nil, nil) / zero values, not errors; only transport failures surface as
// errors and callers decide whether to degrade or propagate.

type PreferenceStore interface {
	FindByUserID(ctx context.Context, userID string) (*models.MatchingPreferences, error)
	Save(ctx context.Context, prefs *models.MatchingPreferences) (*models.MatchingPreferences, error)
}

type UserStore interface {
	FindByID(ctx context.Context, userID string) (*models.UserProfile, error)
}

type PartnershipStore interface {
	CountActivePartnerships(ctx context.Context, userID string) (int, error)
	ExistsActivePartnershipBetween(ctx context.Context, a, b string) (bool, error)
}
