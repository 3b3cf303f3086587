// internal/store/users.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"buddy-matching/internal/models"
)

// UserStore reads user profiles from Postgres.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByID returns a user profile, or (nil, nil) if the user does not exist.
func (s *UserStore) FindByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := `
		SELECT id, display_name, timezone, interests, communication_style, personality_type, experience_level
		FROM users WHERE id = $1`

	var profile models.UserProfile
	var tz, style, personality, experience sql.NullString
	var interests []byte

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID, &profile.DisplayName, &tz, &interests,
		&style, &personality, &experience,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	profile.Timezone = tz.String
	profile.CommunicationStyle = models.CommunicationStyle(style.String)
	profile.PersonalityType = personality.String
	profile.ExperienceLevel = experience.String

	if len(interests) > 0 {
		if err := json.Unmarshal(interests, &profile.Interests); err != nil {
			profile.Interests = nil
		}
	}

	return &profile, nil
}
