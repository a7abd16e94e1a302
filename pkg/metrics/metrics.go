// Package metrics はカタログAPI呼び出しと初期データ投入のPrometheusメトリクスを提供する。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 呼び出し結果の分類。
const (
	OutcomeOK           = "ok"
	OutcomeRejected     = "rejected"
	OutcomeNetworkError = "network_error"
)

// Registry はcatalogfrontのメトリクス一式。
type Registry struct {
	registry *prometheus.Registry

	// UpstreamRequests はカタログAPI呼び出し回数（operation, outcome別）。
	UpstreamRequests *prometheus.CounterVec
	// UpstreamLatency はカタログAPI呼び出しの所要時間。
	UpstreamLatency *prometheus.HistogramVec
	// SeedRecords は初期データ投入の結果（kind, outcome別）。
	SeedRecords *prometheus.CounterVec
	// Logins はログイン試行の結果。
	Logins *prometheus.CounterVec
}

// New は新しいメトリクスレジストリを生成する。
func New() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.UpstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogfront_upstream_requests_total",
		Help: "Total requests sent to the catalog API",
	}, []string{"operation", "outcome"})

	r.UpstreamLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalogfront_upstream_request_duration_seconds",
		Help:    "Latency of requests sent to the catalog API",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	r.SeedRecords = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogfront_seed_records_total",
		Help: "Default records posted at startup",
	}, []string{"kind", "outcome"})

	r.Logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalogfront_logins_total",
		Help: "Login attempts forwarded to the catalog API",
	}, []string{"outcome"})

	r.registry.MustRegister(
		r.UpstreamRequests,
		r.UpstreamLatency,
		r.SeedRecords,
		r.Logins,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveUpstream はカタログAPI呼び出し1回の結果を記録する。
func (r *Registry) ObserveUpstream(operation, outcome string, elapsed time.Duration) {
	r.UpstreamRequests.WithLabelValues(operation, outcome).Inc()
	r.UpstreamLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler は /metrics 用のHTTPハンドラを返す。
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer は登録済みメトリクスの収集元を返す。テストで値を確認するために使う。
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
