// internal/matching/fakes_test.go
package matching

import (
	"context"
	"errors"
	"sync"

	"buddy-matching/internal/models"
)

var errStoreDown = errors.New("store unavailable")

// fakePrefStore is an in-memory PreferenceStore for tests.
type fakePrefStore struct {
	mu      sync.Mutex
	prefs   map[string]*models.MatchingPreferences
	findErr error
	saveErr error
}

func newFakePrefStore() *fakePrefStore {
	return &fakePrefStore{prefs: make(map[string]*models.MatchingPreferences)}
}

func (s *fakePrefStore) put(prefs *models.MatchingPreferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[prefs.UserID] = prefs
}

func (s *fakePrefStore) FindByUserID(_ context.Context, userID string) (*models.MatchingPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.prefs[userID], nil
}

func (s *fakePrefStore) Save(_ context.Context, prefs *models.MatchingPreferences) (*models.MatchingPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	s.prefs[prefs.UserID] = prefs
	return prefs, nil
}

// fakeUserStore is an in-memory UserStore for tests.
type fakeUserStore struct {
	mu      sync.Mutex
	users   map[string]*models.UserProfile
	findErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.UserProfile)}
}

func (s *fakeUserStore) put(profile *models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[profile.ID] = profile
}

func (s *fakeUserStore) FindByID(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.users[userID], nil
}

// fakePartnershipStore tracks active partnership counts and pairs.
type fakePartnershipStore struct {
	mu       sync.Mutex
	counts   map[string]int
	pairs    map[[2]string]bool
	countErr error
}

func newFakePartnershipStore() *fakePartnershipStore {
	return &fakePartnershipStore{
		counts: make(map[string]int),
		pairs:  make(map[[2]string]bool),
	}
}

func (s *fakePartnershipStore) addPartnership(a, b string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairs[pairKey(a, b)] = true
	s.counts[a]++
	s.counts[b]++
}

func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

func (s *fakePartnershipStore) CountActivePartnerships(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	return s.counts[userID], nil
}

func (s *fakePartnershipStore) ExistsActivePartnershipBetween(_ context.Context, a, b string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pairs[pairKey(a, b)], nil
}

// failingPool errors on every operation, modeling an unreachable Redis.
type failingPool struct{}

func (failingPool) Add(context.Context, string) (bool, error)    { return false, errStoreDown }
func (failingPool) Remove(context.Context, string) (bool, error) { return false, errStoreDown }
func (failingPool) Members(context.Context) ([]string, error)    { return nil, errStoreDown }
func (failingPool) Contains(context.Context, string) (bool, error) {
	return false, errStoreDown
}
