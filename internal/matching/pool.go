// internal/matching/pool.go
package matching

import (
	"context"
	"sort"
	"sync"

	"buddy-matching/internal/common/logger"
	"buddy-matching/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

const matchingQueueKey = "buddy:matching:queue"

// Pool tracks which users are currently in the market for matching. All
// operations are idempotent and atomic with respect to each other. A
// Members snapshot may be stale the instant after it is read; matching is
// advisory, not transactional.
type Pool interface {
	// Add inserts a user and reports whether the set changed.
	Add(ctx context.Context, userID string) (bool, error)
	// Remove deletes a user and reports whether the set changed.
	Remove(ctx context.Context, userID string) (bool, error)
	// Members returns a snapshot of the pool with no ordering guarantee.
	Members(ctx context.Context) ([]string, error)
	// Contains reports membership.
	Contains(ctx context.Context, userID string) (bool, error)
}

// RedisPool keeps the pool in a shared Redis set so every instance of the
// service sees the same market.
type RedisPool struct {
	client *redis.Client
	logger logger.Logger
}

func NewRedisPool(client *redis.Client, log logger.Logger) *RedisPool {
	return &RedisPool{
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": "candidate-pool"}),
	}
}

func (p *RedisPool) Add(ctx context.Context, userID string) (bool, error) {
	added, err := p.client.SAdd(ctx, matchingQueueKey, userID).Result()
	if err != nil {
		p.logger.WithError(err).Warn("pool add failed", map[string]interface{}{"userId": userID})
		return false, err
	}
	p.trackSize(ctx)
	return added > 0, nil
}

func (p *RedisPool) Remove(ctx context.Context, userID string) (bool, error) {
	removed, err := p.client.SRem(ctx, matchingQueueKey, userID).Result()
	if err != nil {
		p.logger.WithError(err).Warn("pool remove failed", map[string]interface{}{"userId": userID})
		return false, err
	}
	p.trackSize(ctx)
	return removed > 0, nil
}

func (p *RedisPool) Members(ctx context.Context) ([]string, error) {
	members, err := p.client.SMembers(ctx, matchingQueueKey).Result()
	if err != nil {
		p.logger.WithError(err).Warn("pool members read failed", nil)
		return nil, err
	}
	return members, nil
}

func (p *RedisPool) Contains(ctx context.Context, userID string) (bool, error) {
	ok, err := p.client.SIsMember(ctx, matchingQueueKey, userID).Result()
	if err != nil {
		p.logger.WithError(err).Warn("pool membership check failed", map[string]interface{}{"userId": userID})
		return false, err
	}
	return ok, nil
}

func (p *RedisPool) trackSize(ctx context.Context) {
	if size, err := p.client.SCard(ctx, matchingQueueKey).Result(); err == nil {
		metrics.CandidatePoolSize.Set(float64(size))
	}
}

// MemoryPool is a mutex-guarded in-process pool. It backs tests and
// single-instance deployments without Redis.
type MemoryPool struct {
	mu      sync.Mutex
	members map[string]struct{}
}

func NewMemoryPool() *MemoryPool {
	return &MemoryPool{members: make(map[string]struct{})}
}

func (p *MemoryPool) Add(_ context.Context, userID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.members[userID]; ok {
		return false, nil
	}
	p.members[userID] = struct{}{}
	return true, nil
}

func (p *MemoryPool) Remove(_ context.Context, userID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.members[userID]; !ok {
		return false, nil
	}
	delete(p.members, userID)
	return true, nil
}

func (p *MemoryPool) Members(_ context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.members))
	for id := range p.members {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (p *MemoryPool) Contains(_ context.Context, userID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.members[userID]
	return ok, nil
}
