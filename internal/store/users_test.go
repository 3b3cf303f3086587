// internal/store/users_test.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buddy-matching/internal/models"
)

var userTestColumns = []string{
	"id", "display_name", "timezone", "interests",
	"communication_style", "personality_type", "experience_level",
}

func TestUserStore_FindByID(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewUserStore(db)

	rows := sqlmock.NewRows(userTestColumns).AddRow(
		"u1", "Alex", "Europe/Berlin", []byte(`["go","distributed-systems"]`),
		"FREQUENT", "ENFP", "SENIOR",
	)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs("u1").
		WillReturnRows(rows)

	profile, err := store.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, profile)

	assert.Equal(t, "u1", profile.ID)
	assert.Equal(t, "Alex", profile.DisplayName)
	assert.Equal(t, "Europe/Berlin", profile.Timezone)
	assert.Equal(t, []string{"go", "distributed-systems"}, profile.Interests)
	assert.Equal(t, models.CommunicationFrequent, profile.CommunicationStyle)
	assert.Equal(t, "ENFP", profile.PersonalityType)
	assert.Equal(t, "SENIOR", profile.ExperienceLevel)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_FindByID_NullableColumns(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewUserStore(db)

	rows := sqlmock.NewRows(userTestColumns).AddRow(
		"u1", "Alex", nil, nil, nil, nil, nil,
	)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs("u1").
		WillReturnRows(rows)

	profile, err := store.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, profile)

	assert.Empty(t, profile.Timezone)
	assert.Nil(t, profile.Interests)
	assert.Empty(t, profile.ExperienceLevel)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_FindByID_Absent(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewUserStore(db)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	profile, err := store.FindByID(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, profile)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStore_FindByID_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewUserStore(db)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs("u1").
		WillReturnError(errors.New("connection reset"))

	_, err := store.FindByID(context.Background(), "u1")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
