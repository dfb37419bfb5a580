package redis

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"mahjong-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Verifier is the slow verdict source behind the cache (e.g., the remote oracle).
type Verifier interface {
	Verify(ctx context.Context, q domain.Quiz, answer domain.AnswerSubmission) (bool, error)
}

// VerdictCache shares oracle verdicts between instances.
// Verdicts are stored as: SET mahjong:verdict:{dealer}:{draw}:{fu}:{han}:{start}:{other} 1|0
type VerdictCache struct {
	client *redis.Client
	next   Verifier
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewVerdictCache(client *redis.Client, next Verifier, ttl time.Duration) *VerdictCache {
	return &VerdictCache{
		client: client,
		next:   next,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *VerdictCache) Verify(ctx context.Context, q domain.Quiz, answer domain.AnswerSubmission) (bool, error) {
	key := c.key(q, answer)

	correct, found, cacheErr := c.lookup(ctx, key)
	if found {
		return correct, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if correct, found, _ := c.lookup(ctx, key); found {
			return correct, nil
		}

		correct, err := c.next.Verify(ctx, q, answer)
		if err != nil {
			return false, err
		}
		// Skip the write when Redis already failed to answer the read.
		if cacheErr == nil {
			value := "0"
			if correct {
				value = "1"
			}
			_ = c.client.Set(ctx, key, value, c.ttlWithJitter()).Err()
		}
		return correct, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

func (c *VerdictCache) lookup(ctx context.Context, key string) (correct bool, found bool, err error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return value == "1", true, nil
}

func (c *VerdictCache) key(q domain.Quiz, answer domain.AnswerSubmission) string {
	return "mahjong:verdict:" + domain.VerdictKey(q, answer)
}

func (c *VerdictCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
