// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BuildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "waypost_build_info",
			Help: "Build identity; constant 1, labeled by version and environment.",
		},
		[]string{"version", "environment"})

	ConfigLoadedTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "waypost_config_loaded_timestamp_seconds",
			Help: "Unix time at which the settings snapshot was resolved.",
		})

	ConfigCORSOrigins = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "waypost_config_cors_origins",
			Help: "Number of origins in the effective CORS allow-list.",
		})
)

func init() {
	prometheus.MustRegister(
		BuildInfo,
		ConfigLoadedTimestamp,
		ConfigCORSOrigins,
	)
}
