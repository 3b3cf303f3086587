// internal/store/partnerships.go
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// PartnershipStore answers the two partnership questions the matcher asks:
// how many active partnerships a user holds, and whether two users already
// hold one together.
type PartnershipStore struct {
	db *sql.DB
}

func NewPartnershipStore(db *sql.DB) *PartnershipStore {
	return &PartnershipStore{db: db}
}

// CountActivePartnerships returns the number of ACTIVE partnerships userID
// participates in, on either side.
func (s *PartnershipStore) CountActivePartnerships(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM buddy_partnerships
		WHERE (user1_id = $1 OR user2_id = $1) AND status = 'ACTIVE'`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active partnerships: %w", err)
	}
	return count, nil
}

// ExistsActivePartnershipBetween reports whether a and b currently share an
// ACTIVE partnership, regardless of which side each occupies.
func (s *PartnershipStore) ExistsActivePartnershipBetween(ctx context.Context, a, b string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM buddy_partnerships
			WHERE status = 'ACTIVE'
			  AND ((user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1))
		)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, a, b).Scan(&exists); err != nil {
		return false, fmt.Errorf("check active partnership: %w", err)
	}
	return exists, nil
}
