package settings

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/cache"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/metrics"
)

const (
	cacheVersionKey = "settings:version"
	cacheKeyPrefix  = "settings:shop"
)

// Source is the authoritative settings storage behind CachedProvider.
type Source interface {
	Provider
	Updater
}

// CachedProvider is a read-through cache over Source. Invalidation bumps a
// version counter, so a read that raced a write caches under a dead key.
type CachedProvider struct {
	source  Source
	store   cache.Store
	ttl     time.Duration
	metrics *metrics.Metrics
}

func NewCachedProvider(source Source, store cache.Store, ttl time.Duration, m *metrics.Metrics) *CachedProvider {
	return &CachedProvider{
		source:  source,
		store:   store,
		ttl:     ttl,
		metrics: m,
	}
}

func (p *CachedProvider) Get(ctx context.Context) (*Settings, error) {
	v, err := cache.Version(ctx, p.store, cacheVersionKey)
	if err != nil {
		log.Printf("settings cache version: %v", err)
		return p.source.Get(ctx)
	}
	key := cacheKeyPrefix + ":" + v

	b, err := p.store.Get(ctx, key)
	if err == nil {
		var s Settings
		if jsonErr := json.Unmarshal(b, &s); jsonErr == nil {
			p.metrics.CacheLookup("settings", true)
			return &s, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("settings cache get: %v", err)
	}
	p.metrics.CacheLookup("settings", false)

	s, err := p.source.Get(ctx)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(s); err == nil {
		if err := p.store.Set(ctx, key, b, p.ttl); err != nil {
			log.Printf("settings cache set: %v", err)
		}
	}
	return s, nil
}

func (p *CachedProvider) Update(ctx context.Context, in Settings) (*Settings, error) {
	s, err := p.source.Update(ctx, in)
	if err != nil {
		return nil, err
	}
	p.Invalidate(ctx)
	return s, nil
}

func (p *CachedProvider) Invalidate(ctx context.Context) {
	if _, err := p.store.Incr(ctx, cacheVersionKey); err != nil {
		log.Printf("settings cache invalidate: %v", err)
	}
}

// CalendarChanged drops the cached settings on settings changes made elsewhere.
func (p *CachedProvider) CalendarChanged(ctx context.Context, change calendar.Change) {
	if change.Kind == calendar.ChangeSettings {
		p.Invalidate(ctx)
	}
}

var (
	_ Provider          = (*CachedProvider)(nil)
	_ Updater           = (*CachedProvider)(nil)
	_ calendar.Notifier = (*CachedProvider)(nil)
)
