package weather

import (
	"context"
	"errors"
	"fmt"
	"log"

	"meteobot/internal/geocode"
	"meteobot/internal/metrics"
	"meteobot/internal/models"
	"meteobot/internal/store"
)

var (
	// ErrLocationNotFound covers every geocode failure: unknown name,
	// provider outage, or malformed provider payload.
	ErrLocationNotFound = errors.New("location not found")
	// ErrForecastUnavailable indicates the weather provider failed while a
	// cache refresh was required.
	ErrForecastUnavailable = errors.New("forecast unavailable")
)

// Geocoder resolves a place name to coordinates via an external service.
type Geocoder interface {
	Search(ctx context.Context, name string) (*geocode.Result, error)
}

// Resolver turns a place name into a City, consulting the store's coordinate
// cache before going to the external geocoder. The cache is write-once: a
// first successful external lookup creates the row, later lookups hit it.
type Resolver struct {
	store    *store.Store
	geocoder Geocoder
}

func NewResolver(st *store.Store, geocoder Geocoder) *Resolver {
	return &Resolver{store: st, geocoder: geocoder}
}

// ResolveLocation returns the city for name, creating it from a geocoder
// lookup on first sight. userID is the store's user row that owns the newly
// created city; the lookup itself matches on name alone.
func (r *Resolver) ResolveLocation(ctx context.Context, userID int64, name string) (*models.City, error) {
	city, err := r.store.FindCityByName(name)
	if err != nil {
		return nil, fmt.Errorf("find city: %w", err)
	}
	if city != nil {
		metrics.GeocodeCacheTotal.WithLabelValues("hit").Inc()
		log.Printf("resolver: cache hit for %q (%.2f, %.2f)", name, city.Latitude, city.Longitude)
		return city, nil
	}
	metrics.GeocodeCacheTotal.WithLabelValues("miss").Inc()

	result, err := r.geocoder.Search(ctx, name)
	if err != nil {
		log.Printf("resolver: geocode failed for %q: %v", name, err)
		return nil, fmt.Errorf("%w: %q", ErrLocationNotFound, name)
	}
	if result.Lat < -90 || result.Lat > 90 || result.Lon < -180 || result.Lon > 180 {
		return nil, fmt.Errorf("%w: %q: coordinates out of range (%.2f, %.2f)", ErrLocationNotFound, name, result.Lat, result.Lon)
	}

	created, err := r.store.CreateCity(userID, name, result.Lat, result.Lon)
	if err != nil {
		return nil, fmt.Errorf("create city: %w", err)
	}
	log.Printf("resolver: created city %q as %q (%.2f, %.2f)", name, result.Address, result.Lat, result.Lon)
	return &created, nil
}
