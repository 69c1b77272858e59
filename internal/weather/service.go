package weather

import (
	"context"

	"meteobot/internal/forecast"
)

// Service is the end-to-end forecast pipeline: resolve the place name, get a
// fresh-enough raw payload, project it into daily snapshots. Each stage
// short-circuits on the first failure; nothing is retried here.
type Service struct {
	resolver *Resolver
	cache    *CacheManager
}

func NewService(resolver *Resolver, cache *CacheManager) *Service {
	return &Service{resolver: resolver, cache: cache}
}

// ForecastForCity returns one DaySnapshot per forecast day for the named
// location. userID is the store's user row owning any newly cached city.
func (s *Service) ForecastForCity(ctx context.Context, userID int64, name string) ([]forecast.DaySnapshot, error) {
	city, err := s.resolver.ResolveLocation(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	raw, err := s.cache.CachedForecast(ctx, city.ID, city.Latitude, city.Longitude)
	if err != nil {
		return nil, err
	}

	series, err := forecast.ParseSeries(raw)
	if err != nil {
		return nil, err
	}
	return forecast.Project(series, ForecastDays)
}
