package compliance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"nachweis/internal/catalog"
	"nachweis/pkg/platform/sentinel"
)

// Cache holds computed summaries. A lost or stale entry is never a
// correctness problem: the service recomputes on miss and every requirement
// mutation invalidates, so implementations may evict freely.
type Cache interface {
	Get(ctx context.Context, subID uuid.UUID) (Summary, error)
	Set(ctx context.Context, subID uuid.UUID, sum Summary) error
	Delete(ctx context.Context, subID uuid.UUID) error
}

// RedisCache stores summaries under a short TTL so even a missed
// invalidation heals quickly.
type RedisCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewRedisCache(client *goredis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(subID uuid.UUID) string {
	return fmt.Sprintf("nachweis:compliance:%s", subID)
}

func (c *RedisCache) Get(ctx context.Context, subID uuid.UUID) (Summary, error) {
	raw, err := c.client.Get(ctx, cacheKey(subID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return Summary{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Summary{}, fmt.Errorf("cache get: %w", err)
	}
	var sum summaryPayload
	if err := json.Unmarshal(raw, &sum); err != nil {
		return Summary{}, fmt.Errorf("cache decode: %w", err)
	}
	return sum.toSummary(), nil
}

func (c *RedisCache) Set(ctx context.Context, subID uuid.UUID, sum Summary) error {
	raw, err := json.Marshal(fromSummary(sum))
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(subID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, subID uuid.UUID) error {
	if err := c.client.Del(ctx, cacheKey(subID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// summaryPayload is the stored JSON shape, kept separate from Summary so the
// wire format does not leak enum ints.
type summaryPayload struct {
	Status       string    `json:"status"`
	Missing      []string  `json:"missing,omitempty"`
	Expiring     []string  `json:"expiring,omitempty"`
	OptionalOpen int       `json:"optional_open"`
	ComputedAt   time.Time `json:"computed_at"`
}

func fromSummary(sum Summary) summaryPayload {
	p := summaryPayload{
		Status:       sum.Status.String(),
		OptionalOpen: sum.OptionalOpen,
		ComputedAt:   sum.ComputedAt,
	}
	for _, id := range sum.Missing {
		p.Missing = append(p.Missing, string(id))
	}
	for _, id := range sum.Expiring {
		p.Expiring = append(p.Expiring, string(id))
	}
	return p
}

func (p summaryPayload) toSummary() Summary {
	sum := Summary{
		Status:       parseStatus(p.Status),
		OptionalOpen: p.OptionalOpen,
		ComputedAt:   p.ComputedAt,
	}
	for _, id := range p.Missing {
		sum.Missing = append(sum.Missing, catalog.TypeID(id))
	}
	for _, id := range p.Expiring {
		sum.Expiring = append(sum.Expiring, catalog.TypeID(id))
	}
	return sum
}

func parseStatus(s string) Status {
	switch s {
	case "compliant":
		return Compliant
	case "expiring_soon":
		return ExpiringSoon
	default:
		return NonCompliant
	}
}
