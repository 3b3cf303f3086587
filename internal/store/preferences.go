// internal/store/preferences.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"buddy-matching/internal/models"

	"github.com/google/uuid"
)

// PreferenceStore persists matching preferences in Postgres.
type PreferenceStore struct {
	db *sql.DB
}

func NewPreferenceStore(db *sql.DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

const preferenceColumns = `user_id, preferred_timezone, preferred_work_hours, focus_areas, goals,
	communication_style, personality_type, matching_enabled, timezone_flexibility,
	min_commitment_hours, max_partners, language, created_at, updated_at`

// FindByUserID returns the preferences for a user, or (nil, nil) if the user
// has never written any.
func (s *PreferenceStore) FindByUserID(ctx context.Context, userID string) (*models.MatchingPreferences, error) {
	query := `SELECT ` + preferenceColumns + ` FROM matching_preferences WHERE user_id = $1`
	row := s.db.QueryRowContext(ctx, query, userID)

	prefs, err := scanPreferences(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	return prefs, nil
}

// Save upserts a full preferences record and returns the stored row.
func (s *PreferenceStore) Save(ctx context.Context, prefs *models.MatchingPreferences) (*models.MatchingPreferences, error) {
	workHours, err := json.Marshal(prefs.PreferredWorkHours)
	if err != nil {
		return nil, fmt.Errorf("marshal work hours: %w", err)
	}
	focusAreas, err := json.Marshal(prefs.FocusAreas)
	if err != nil {
		return nil, fmt.Errorf("marshal focus areas: %w", err)
	}
	goals, err := json.Marshal(prefs.Goals)
	if err != nil {
		return nil, fmt.Errorf("marshal goals: %w", err)
	}

	now := time.Now().UTC()
	prefs.UpdatedAt = now
	if prefs.CreatedAt.IsZero() {
		prefs.CreatedAt = now
	}

	query := `
		INSERT INTO matching_preferences (
			id, user_id, preferred_timezone, preferred_work_hours, focus_areas, goals,
			communication_style, personality_type, matching_enabled, timezone_flexibility,
			min_commitment_hours, max_partners, language, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (user_id) DO UPDATE SET
			preferred_timezone = EXCLUDED.preferred_timezone,
			preferred_work_hours = EXCLUDED.preferred_work_hours,
			focus_areas = EXCLUDED.focus_areas,
			goals = EXCLUDED.goals,
			communication_style = EXCLUDED.communication_style,
			personality_type = EXCLUDED.personality_type,
			matching_enabled = EXCLUDED.matching_enabled,
			timezone_flexibility = EXCLUDED.timezone_flexibility,
			min_commitment_hours = EXCLUDED.min_commitment_hours,
			max_partners = EXCLUDED.max_partners,
			language = EXCLUDED.language,
			updated_at = EXCLUDED.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		uuid.NewString(), prefs.UserID,
		nullString(prefs.PreferredTimezone), workHours, focusAreas, goals,
		nullString(string(prefs.CommunicationStyle)), nullString(prefs.PersonalityType),
		prefs.MatchingEnabled, prefs.TimezoneFlexibility,
		prefs.MinCommitmentHours, prefs.MaxPartners,
		nullString(prefs.Language), prefs.CreatedAt, prefs.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}

	return prefs, nil
}

func scanPreferences(row *sql.Row) (*models.MatchingPreferences, error) {
	var prefs models.MatchingPreferences
	var tz, style, personality, language sql.NullString
	var workHours, focusAreas, goals []byte

	err := row.Scan(
		&prefs.UserID, &tz, &workHours, &focusAreas, &goals,
		&style, &personality, &prefs.MatchingEnabled, &prefs.TimezoneFlexibility,
		&prefs.MinCommitmentHours, &prefs.MaxPartners, &language,
		&prefs.CreatedAt, &prefs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	prefs.PreferredTimezone = tz.String
	prefs.CommunicationStyle = models.CommunicationStyle(style.String)
	prefs.PersonalityType = personality.String
	prefs.Language = language.String

	if len(workHours) > 0 {
		if err := json.Unmarshal(workHours, &prefs.PreferredWorkHours); err != nil {
			prefs.PreferredWorkHours = nil
		}
	}
	if len(focusAreas) > 0 {
		if err := json.Unmarshal(focusAreas, &prefs.FocusAreas); err != nil {
			prefs.FocusAreas = nil
		}
	}
	if len(goals) > 0 {
		if err := json.Unmarshal(goals, &prefs.Goals); err != nil {
			prefs.Goals = nil
		}
	}

	return &prefs, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
