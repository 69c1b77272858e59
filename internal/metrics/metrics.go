package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meteobot_provider_calls_total",
			Help: "Total external provider API calls",
		},
		[]string{"provider", "status"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meteobot_provider_latency_seconds",
			Help:    "External provider call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	GeocodeCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meteobot_geocode_cache_total",
			Help: "Coordinate cache lookups by result",
		},
		[]string{"result"},
	)

	ForecastCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meteobot_forecast_cache_total",
			Help: "Forecast cache lookups by freshness state",
		},
		[]string{"state"},
	)

	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meteobot_commands_total",
			Help: "Chat commands processed by outcome",
		},
		[]string{"command", "status"},
	)
)
