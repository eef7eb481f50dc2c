package enrich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LabelCache is the §4.4 ambient-stack addition: an optional best-effort
// Redis cache in front of the labels HTTP client, keyed by
// "labels:{qid}:{lang}". A nil *LabelCache (no Redis address configured) is
// valid and behaves as a permanent miss on every call.
type LabelCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewLabelCache dials addr and pings it with the same construction shape as
// the rest of this codebase's Redis clients: short connect timeout, a zap
// log line on success. addr == "" disables the cache (returns nil, nil).
func NewLabelCache(ctx context.Context, addr string, ttl time.Duration, log *zap.Logger) (*LabelCache, error) {
	if addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("enrich: connect label cache at %s: %w", addr, err)
	}

	if log != nil {
		log.Info("label cache connected", zap.String("addr", addr))
	}
	return &LabelCache{client: client, ttl: ttl, log: log}, nil
}

func cacheKey(qid, lang string) string {
	return "labels:" + qid + ":" + lang
}

// Get returns the cached label for (qid, lang). A cache error is logged and
// treated as a miss, never a fatal error (§4.4).
func (c *LabelCache) Get(ctx context.Context, qid, lang string) (string, bool) {
	if c == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, cacheKey(qid, lang)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		if c.log != nil {
			c.log.Warn("label cache get failed", zap.String("qid", qid), zap.Error(err))
		}
		return "", false
	}
	return val, true
}

// Set stores value for (qid, lang) with the cache's configured TTL.
func (c *LabelCache) Set(ctx context.Context, qid, lang, value string) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(qid, lang), value, c.ttl).Err(); err != nil && c.log != nil {
		c.log.Warn("label cache set failed", zap.String("qid", qid), zap.Error(err))
	}
}

// Close releases the underlying connection pool. A no-op on a nil cache.
func (c *LabelCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
