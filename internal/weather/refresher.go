package weather

import (
	"context"
	"log"
	"time"

	"meteobot/internal/store"
)

// Refresher periodically walks all known cities and runs them through the
// cache manager so stale forecasts are refreshed off the request path. Fresh
// cities are no-ops.
type Refresher struct {
	store    *store.Store
	cache    *CacheManager
	interval time.Duration
}

func NewRefresher(st *store.Store, cache *CacheManager, interval time.Duration) *Refresher {
	return &Refresher{store: st, cache: cache, interval: interval}
}

func (r *Refresher) Run(ctx context.Context) {
	r.refreshAll(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("refresher: shutting down")
			return
		case <-ticker.C:
			r.refreshAll(ctx)
		}
	}
}

func (r *Refresher) refreshAll(ctx context.Context) {
	cities, err := r.store.ListCities()
	if err != nil {
		log.Printf("refresher: list cities: %v", err)
		return
	}

	for _, city := range cities {
		if ctx.Err() != nil {
			return
		}
		if _, err := r.cache.CachedForecast(ctx, city.ID, city.Latitude, city.Longitude); err != nil {
			log.Printf("refresher: city %q: %v", city.Name, err)
		}
	}
}
