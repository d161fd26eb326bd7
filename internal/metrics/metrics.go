// Package metrics implements the observability hooks on Prometheus.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/arcforge/pkg/observability"
)

const namespace = "arcforge"

// Metrics holds the collectors. It implements every hook interface of
// pkg/observability.
type Metrics struct {
	gatherer prometheus.Gatherer

	buildsTotal    *prometheus.CounterVec
	buildDuration  prometheus.Histogram
	graphNodes     prometheus.Histogram
	faultsTotal    *prometheus.CounterVec
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	enginesActive  *prometheus.GaugeVec
	engineAcquires *prometheus.CounterVec
	engineLifetime *prometheus.HistogramVec
	cacheTotal     *prometheus.CounterVec
	cacheBytes     prometheus.Counter
	httpTotal      *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

var (
	_ observability.GraphHooks  = (*Metrics)(nil)
	_ observability.RenderHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewWith(reg, reg)
}

// NewWith registers the collectors on reg and serves them from g.
func NewWith(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: g,
		buildsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_builds_total",
			Help:      "Crafting graph constructions by outcome.",
		}, []string{"outcome"}),
		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_build_duration_seconds",
			Help:      "Time to extract a neighborhood and build its graph.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		graphNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Node count of built graphs.",
			Buckets:   prometheus.LinearBuckets(1, 4, 8),
		}),
		faultsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_faults_total",
			Help:      "Data faults found during graph construction.",
		}, []string{"code"}),
		rendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Rendered artifacts by format and outcome.",
		}, []string{"format", "outcome"}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Artifact render time.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}, []string{"format"}),
		enginesActive: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "engines_active",
			Help:      "Rendering engine handles currently held.",
		}, []string{"engine"}),
		engineAcquires: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_acquires_total",
			Help:      "Rendering engine acquisitions by outcome.",
		}, []string{"engine", "outcome"}),
		engineLifetime: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "engine_lifetime_seconds",
			Help:      "Time between engine acquisition and release.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 4, 8),
		}, []string{"engine"}),
		cacheTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}),
		httpTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
	}
}

// Register installs m as the process-wide observability hooks.
func (m *Metrics) Register() {
	observability.SetGraphHooks(m)
	observability.SetRenderHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the collected metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnBuild implements observability.GraphHooks.
func (m *Metrics) OnBuild(_ context.Context, _ string, nodeCount, _ int, duration time.Duration, err error) {
	m.buildsTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return
	}
	m.buildDuration.Observe(duration.Seconds())
	m.graphNodes.Observe(float64(nodeCount))
}

// OnFault implements observability.GraphHooks.
func (m *Metrics) OnFault(_ context.Context, _, code string) {
	m.faultsTotal.WithLabelValues(code).Inc()
}

// OnRender implements observability.RenderHooks.
func (m *Metrics) OnRender(_ context.Context, format string, duration time.Duration, err error) {
	m.rendersTotal.WithLabelValues(format, outcome(err)).Inc()
	m.renderDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// OnEngineAcquire implements observability.RenderHooks.
func (m *Metrics) OnEngineAcquire(_ context.Context, engine string, err error) {
	m.engineAcquires.WithLabelValues(engine, outcome(err)).Inc()
	if err == nil {
		m.enginesActive.WithLabelValues(engine).Inc()
	}
}

// OnEngineRelease implements observability.RenderHooks.
func (m *Metrics) OnEngineRelease(_ context.Context, engine string, lifetime time.Duration) {
	m.enginesActive.WithLabelValues(engine).Dec()
	m.engineLifetime.WithLabelValues(engine).Observe(lifetime.Seconds())
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheTotal.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheTotal.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheTotal.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

// OnRequest implements observability.HTTPHooks.
func (m *Metrics) OnRequest(_ context.Context, method, route string, status int, duration time.Duration) {
	m.httpTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
