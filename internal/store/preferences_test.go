// internal/store/preferences_test.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buddy-matching/internal/models"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var preferenceTestColumns = []string{
	"user_id", "preferred_timezone", "preferred_work_hours", "focus_areas", "goals",
	"communication_style", "personality_type", "matching_enabled", "timezone_flexibility",
	"min_commitment_hours", "max_partners", "language", "created_at", "updated_at",
}

func TestPreferenceStore_FindByUserID(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPreferenceStore(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(preferenceTestColumns).AddRow(
		"u1", "Europe/Berlin",
		[]byte(`{"monday":{"startHour":9,"endHour":17}}`),
		[]byte(`["deep-work"]`), []byte(`["ship-side-project"]`),
		"MODERATE", "INTJ", true, 2, 10, 3, "en", now, now,
	)
	mock.ExpectQuery(`SELECT (.+) FROM matching_preferences WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(rows)

	prefs, err := store.FindByUserID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, prefs)

	assert.Equal(t, "u1", prefs.UserID)
	assert.Equal(t, "Europe/Berlin", prefs.PreferredTimezone)
	assert.Equal(t, models.CommunicationModerate, prefs.CommunicationStyle)
	assert.Equal(t, "INTJ", prefs.PersonalityType)
	assert.True(t, prefs.MatchingEnabled)
	assert.Equal(t, 2, prefs.TimezoneFlexibility)
	assert.Equal(t, []string{"deep-work"}, prefs.FocusAreas)
	assert.Equal(t, []string{"ship-side-project"}, prefs.Goals)
	require.Contains(t, prefs.PreferredWorkHours, models.Monday)
	assert.Equal(t, 9, prefs.PreferredWorkHours[models.Monday].StartHour)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceStore_FindByUserID_NullableColumns(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPreferenceStore(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(preferenceTestColumns).AddRow(
		"u1", nil, nil, nil, nil, nil, nil, true, 2, 10, 3, nil, now, now,
	)
	mock.ExpectQuery(`SELECT (.+) FROM matching_preferences WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(rows)

	prefs, err := store.FindByUserID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, prefs)

	assert.Empty(t, prefs.PreferredTimezone)
	assert.Empty(t, prefs.CommunicationStyle)
	assert.Nil(t, prefs.PreferredWorkHours)
	assert.Nil(t, prefs.Goals)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceStore_FindByUserID_Absent(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPreferenceStore(db)

	mock.ExpectQuery(`SELECT (.+) FROM matching_preferences WHERE user_id = \$1`).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	prefs, err := store.FindByUserID(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, prefs)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceStore_FindByUserID_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPreferenceStore(db)

	mock.ExpectQuery(`SELECT (.+) FROM matching_preferences WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnError(errors.New("connection reset"))

	_, err := store.FindByUserID(context.Background(), "u1")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceStore_Save_Upserts(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPreferenceStore(db)

	mock.ExpectExec(`INSERT INTO matching_preferences`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	prefs := models.DefaultPreferences("u1")
	prefs.CreatedAt = time.Time{}
	prefs.Goals = []string{"ship-side-project"}

	saved, err := store.Save(context.Background(), prefs)
	require.NoError(t, err)

	assert.False(t, saved.CreatedAt.IsZero())
	assert.False(t, saved.UpdatedAt.IsZero())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferenceStore_Save_ExecError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewPreferenceStore(db)

	mock.ExpectExec(`INSERT INTO matching_preferences`).
		WillReturnError(errors.New("deadlock detected"))

	_, err := store.Save(context.Background(), models.DefaultPreferences("u1"))
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
