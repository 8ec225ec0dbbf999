// Package metrics exposes the service's prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gotube/internal/common"
	"gotube/internal/lifecycle"
)

type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	orphanedAssetsTotal *prometheus.CounterVec
	cascadeStepsTotal   *prometheus.CounterVec
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gotube_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		}, []string{"route", "method", "status"}),

		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gotube_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route", "method"}),

		orphanedAssetsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gotube_orphaned_assets_total",
			Help: "External assets left behind after a failed cleanup",
		}, []string{"kind"}),

		cascadeStepsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gotube_cascade_steps_total",
			Help: "Lifecycle workflow steps by workflow, step and status",
		}, []string{"workflow", "step", "status"}),
	}
}

// OrphanedAsset implements common.OrphanRecorder.
func (c *Collector) OrphanedAsset(kind common.AssetKind) {
	c.orphanedAssetsTotal.WithLabelValues(kind.String()).Inc()
}

// StepFinished implements lifecycle.Observer.
func (c *Collector) StepFinished(workflow, step string, status lifecycle.Status) {
	c.cascadeStepsTotal.WithLabelValues(workflow, step, string(status)).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Middleware records request counts and latency labelled by the matched
// route template, so ids do not explode label cardinality.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if m := mux.CurrentRoute(r); m != nil {
			if tpl, err := m.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		c.httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		c.httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
