package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/metrics"
)

const (
	feedVersionKey = "availability:version"
	feedKeyPrefix  = "availability:feed"
)

// FeedCache caches availability feeds per date range. Every calendar change
// bumps a version counter, which orphans all previously cached ranges.
type FeedCache struct {
	store   Store
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewFeedCache(store Store, ttl time.Duration, m *metrics.Metrics) *FeedCache {
	return &FeedCache{store: store, ttl: ttl, metrics: m}
}

func (c *FeedCache) key(ctx context.Context, fromDay, toDay string) (string, error) {
	v, err := Version(ctx, c.store, feedVersionKey)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:%s:%s", feedKeyPrefix, v, fromDay, toDay), nil
}

// Load returns the cached feed and the key it was looked up under. On a miss
// the key is what Save expects, so a feed built after the lookup lands under
// the version that was current before the build. The key is empty when the
// version could not be read.
func (c *FeedCache) Load(ctx context.Context, fromDay, toDay string) (*calendar.Feed, string, bool) {
	key, err := c.key(ctx, fromDay, toDay)
	if err != nil {
		log.Printf("availability cache: %v", err)
		return nil, "", false
	}

	b, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			log.Printf("availability cache get: %v", err)
		}
		c.metrics.CacheLookup("availability", false)
		return nil, key, false
	}

	var feed calendar.Feed
	if err := json.Unmarshal(b, &feed); err != nil {
		c.metrics.CacheLookup("availability", false)
		return nil, key, false
	}

	c.metrics.CacheLookup("availability", true)
	return &feed, key, true
}

// Save stores feed under a key returned by Load.
func (c *FeedCache) Save(ctx context.Context, key string, feed *calendar.Feed) {
	if key == "" {
		return
	}

	b, err := json.Marshal(feed)
	if err != nil {
		return
	}

	if err := c.store.Set(ctx, key, b, c.ttl); err != nil {
		log.Printf("availability cache set: %v", err)
	}
}

func (c *FeedCache) Invalidate(ctx context.Context) error {
	_, err := c.store.Incr(ctx, feedVersionKey)
	return err
}

// CalendarChanged implements calendar.Notifier.
func (c *FeedCache) CalendarChanged(ctx context.Context, change calendar.Change) {
	if err := c.Invalidate(ctx); err != nil {
		log.Printf("availability cache invalidate (%s): %v", change.Kind, err)
	}
}

var _ calendar.Notifier = (*FeedCache)(nil)
