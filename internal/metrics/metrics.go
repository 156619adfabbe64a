package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GeocodeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loch_geocode_requests_total",
		Help: "Total geocoder provider requests",
	}, []string{"provider"})
	GeocodeSuccessTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loch_geocode_success_total",
		Help: "Total geocoder provider successes",
	}, []string{"provider"})
	GeocodeFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loch_geocode_fail_total",
		Help: "Total geocoder provider failures (error, timeout or empty result)",
	}, []string{"provider"})
	GeocodeDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "loch_geocode_duration_ms",
		Help:    "Geocoder call duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000, 10000},
	}, []string{"provider"})
	GeocodeHeartbeatTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loch_geocode_heartbeat_total",
		Help: "Geocoder provider heartbeat count by status",
	}, []string{"provider", "status"})
	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loch_geocode_cache_hits_total",
		Help: "Geocode cache hits by tier",
	}, []string{"tier"})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loch_geocode_cache_misses_total",
		Help: "Geocode cache misses across all tiers",
	})
	TermsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loch_terms_created_total",
		Help: "Terms created by level",
	}, []string{"level"})
	ParentsRepairedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loch_terms_parent_repaired_total",
		Help: "Existing terms whose parent link was corrected",
	})
	ChainsAbortedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loch_chains_aborted_total",
		Help: "Chains aborted because of a term store failure",
	})
	ResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loch_resolutions_total",
		Help: "Hierarchy resolutions by outcome",
	}, []string{"outcome"})
	RendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "loch_renders_total",
		Help: "Hierarchy renders by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(GeocodeRequestsTotal)
	prometheus.MustRegister(GeocodeSuccessTotal)
	prometheus.MustRegister(GeocodeFailTotal)
	prometheus.MustRegister(GeocodeDurationMs)
	prometheus.MustRegister(GeocodeHeartbeatTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(TermsCreatedTotal)
	prometheus.MustRegister(ParentsRepairedTotal)
	prometheus.MustRegister(ChainsAbortedTotal)
	prometheus.MustRegister(ResolutionsTotal)
	prometheus.MustRegister(RendersTotal)
}

// Handler：Prometheus 抓取入口，挂载在 {API_BASE}/metrics
func Handler() http.Handler { return promhttp.Handler() }
