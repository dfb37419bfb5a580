package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"mahjong-quiz-service/internal/domain"

	"golang.org/x/sync/singleflight"
)

// Verifier is the slow verdict source behind the cache (e.g., the remote oracle).
type Verifier interface {
	Verify(ctx context.Context, q domain.Quiz, answer domain.AnswerSubmission) (bool, error)
}

// VerdictCache caches verdicts with TTL to avoid repeated oracle calls.
// Failed verifications are not cached.
type VerdictCache struct {
	next  Verifier
	ttl   time.Duration
	clock func() time.Time
	sf    singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedVerdict
}

type cachedVerdict struct {
	correct   bool
	expiresAt time.Time
}

func NewVerdictCache(next Verifier, ttl time.Duration) *VerdictCache {
	return &VerdictCache{
		next:  next,
		ttl:   ttl,
		clock: time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		cache: make(map[string]cachedVerdict),
	}
}

func (c *VerdictCache) Verify(ctx context.Context, q domain.Quiz, answer domain.AnswerSubmission) (bool, error) {
	key := domain.VerdictKey(q, answer)
	if correct, ok := c.lookup(key); ok {
		return correct, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if correct, ok := c.lookup(key); ok {
			return correct, nil
		}

		correct, err := c.next.Verify(ctx, q, answer)
		if err != nil {
			return false, err
		}

		c.mu.Lock()
		c.cache[key] = cachedVerdict{
			correct:   correct,
			expiresAt: c.clock().Add(c.ttlWithJitterLocked()),
		}
		c.mu.Unlock()
		return correct, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

func (c *VerdictCache) lookup(key string) (bool, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		return entry.correct, true
	}
	return false, false
}

func (c *VerdictCache) ttlWithJitterLocked() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
