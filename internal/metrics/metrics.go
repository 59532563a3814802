// Package metrics exposes Prometheus counters for completed sales and HTTP
// traffic. Each Recorder owns its registry so tests can build as many as
// they like.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "depot"

// Sale modes used as the "mode" label.
const (
	ModeSingle = "single"
	ModeBulk   = "bulk"
)

// Recorder records domain and HTTP metrics. A nil Recorder is a no-op.
type Recorder struct {
	registry   *prometheus.Registry
	sales      *prometheus.CounterVec
	revenue    prometheus.Counter
	payouts    prometheus.Counter
	requests   *prometheus.CounterVec
	reqLatency *prometheus.HistogramVec
}

// NewRecorder registers the collectors on a fresh registry, together with
// the Go runtime and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		sales: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_total",
			Help:      "Completed sale transactions.",
		}, []string{"mode"}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_revenue_total",
			Help:      "Sum of sale prices of completed transactions.",
		}),
		payouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seller_payouts_total",
			Help:      "Sum of amounts credited to sellers.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		reqLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		r.sales, r.revenue, r.payouts, r.requests, r.reqLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RecordSale counts one completed sale.
func (r *Recorder) RecordSale(mode string, salePrice, payout decimal.Decimal) {
	if r == nil {
		return
	}
	r.sales.WithLabelValues(mode).Inc()
	if f := salePrice.InexactFloat64(); f > 0 {
		r.revenue.Add(f)
	}
	if f := payout.InexactFloat64(); f > 0 {
		r.payouts.Add(f)
	}
}

// RecordHTTPRequest tracks one served request. route is the registered
// path pattern, not the raw URL, to keep label cardinality bounded.
func (r *Recorder) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.reqLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
