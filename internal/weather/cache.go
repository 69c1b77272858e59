package weather

import (
	"context"
	"fmt"
	"log"
	"time"

	"meteobot/internal/metrics"
	"meteobot/internal/store"
)

// FreshnessWindow is how long a captured forecast stays servable without a
// provider refetch.
const FreshnessWindow = 12 * time.Hour

// ForecastDays is the fixed horizon requested from the provider.
const ForecastDays = 3

// ForecastFetcher fetches a raw hourly forecast payload from the weather
// provider.
type ForecastFetcher interface {
	FetchRaw(ctx context.Context, lat, lon float64, days int) ([]byte, error)
}

// CacheManager serves forecast payloads from the store while they are fresh
// and refetches on absence or staleness. Freshness is a hard gate: a stale
// payload is never served as a fallback when the provider fails.
//
// Concurrent refreshes of the same city are not serialized; both callers may
// fetch and both upsert, last writer wins. See the package tests.
type CacheManager struct {
	store   *store.Store
	fetcher ForecastFetcher
	window  time.Duration
}

func NewCacheManager(st *store.Store, fetcher ForecastFetcher) *CacheManager {
	return &CacheManager{store: st, fetcher: fetcher, window: FreshnessWindow}
}

// CachedForecast returns the raw hourly payload for a city, refetching and
// upserting when the stored copy is absent or older than the freshness
// window.
func (m *CacheManager) CachedForecast(ctx context.Context, cityID int64, lat, lon float64) ([]byte, error) {
	stored, err := m.store.FindForecastByCityID(cityID)
	if err != nil {
		return nil, fmt.Errorf("find forecast: %w", err)
	}

	switch {
	case stored == nil:
		metrics.ForecastCacheTotal.WithLabelValues("absent").Inc()
	case time.Since(stored.CapturedAt) <= m.window:
		metrics.ForecastCacheTotal.WithLabelValues("fresh").Inc()
		log.Printf("forecast cache: serving city %d from store (captured %s)", cityID, stored.CapturedAt.Format(time.RFC3339))
		return []byte(stored.Data), nil
	default:
		metrics.ForecastCacheTotal.WithLabelValues("stale").Inc()
	}

	raw, err := m.fetcher.FetchRaw(ctx, lat, lon, ForecastDays)
	if err != nil {
		log.Printf("forecast cache: refresh failed for city %d: %v", cityID, err)
		return nil, fmt.Errorf("%w: %v", ErrForecastUnavailable, err)
	}

	if err := m.store.UpsertForecast(cityID, string(raw), time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("upsert forecast: %w", err)
	}
	log.Printf("forecast cache: refreshed city %d (%d bytes)", cityID, len(raw))
	return raw, nil
}
