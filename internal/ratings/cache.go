package ratings

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const cacheTTL = 10 * time.Minute

type Aggregate struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// Cache keeps the skill aggregate in redis for hot reads. Every method is
// nil-safe and degrades to the database on any error; the cache is never
// a source of truth.
type Cache struct {
	rdb *redis.Client
}

// NewCache returns a disabled cache when addr is empty.
func NewCache(addr string) *Cache {
	if addr == "" {
		return &Cache{}
	}
	return &Cache{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func key(skillID uint) string {
	return fmt.Sprintf("skill:ratings:%d", skillID)
}

func (c *Cache) Get(ctx context.Context, skillID uint) (*Aggregate, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key(skillID)).Bytes()
	if err != nil {
		return nil, false
	}

	var agg Aggregate
	if err := json.Unmarshal(raw, &agg); err != nil {
		return nil, false
	}
	return &agg, true
}

func (c *Cache) Put(ctx context.Context, skillID uint, average float64, count int) {
	if c == nil || c.rdb == nil {
		return
	}

	raw, err := json.Marshal(Aggregate{AverageRating: average, ReviewCount: count})
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, key(skillID), raw, cacheTTL).Err(); err != nil {
		log.Printf("ratings cache set failed: %v", err)
	}
}
