package server

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/causemap/causemap/pkg/observability"
)

var (
	graphsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "causemap_graphs_generated_total",
		Help: "Total number of dependency maps synthesized, labelled by outcome.",
	}, []string{"status"})

	analysesRun = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "causemap_analyses_total",
		Help: "Total number of root-cause analyses, labelled by outcome.",
	}, []string{"status"})

	rendersProduced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "causemap_renders_total",
		Help: "Total number of rendered artifacts, labelled by format and outcome.",
	}, []string{"format", "status"})

	renderCacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "causemap_render_cache_events_total",
		Help: "Render cache hits and misses, labelled by format.",
	}, []string{"format", "event"})

	sessionOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "causemap_session_ops_total",
		Help: "Session store operations, labelled by backend and operation.",
	}, []string{"backend", "op"})

	synthesisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "causemap_synthesis_duration_seconds",
		Help:    "Wall time spent synthesizing dependency maps.",
		Buckets: prometheus.DefBuckets,
	})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "causemap_analysis_duration_seconds",
		Help:    "Wall time spent enumerating and filtering root-cause paths.",
		Buckets: prometheus.DefBuckets,
	})

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "causemap_render_duration_seconds",
		Help:    "Wall time spent rendering artifacts through Graphviz.",
		Buckets: prometheus.DefBuckets,
	})
)

// promHooks exports pipeline and store events as Prometheus metrics.
// Installed once at server startup via observability.Set*Hooks.
type promHooks struct{}

func (promHooks) OnSynthesizeStart(context.Context, int, int) {}

func (promHooks) OnSynthesizeComplete(_ context.Context, _, _, _ int, d time.Duration, err error) {
	graphsGenerated.WithLabelValues(statusLabel(err)).Inc()
	if err == nil {
		synthesisDuration.Observe(d.Seconds())
	}
}

func (promHooks) OnAnalyzeStart(context.Context, int) {}

func (promHooks) OnAnalyzeComplete(_ context.Context, _, _ int, d time.Duration, err error) {
	analysesRun.WithLabelValues(statusLabel(err)).Inc()
	if err == nil {
		analysisDuration.Observe(d.Seconds())
	}
}

func (promHooks) OnRenderStart(context.Context, string) {}

func (promHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	rendersProduced.WithLabelValues(format, statusLabel(err)).Inc()
	if err == nil {
		renderDuration.Observe(d.Seconds())
	}
}

func (promHooks) OnCacheHit(_ context.Context, format string) {
	renderCacheEvents.WithLabelValues(format, "hit").Inc()
}

func (promHooks) OnCacheMiss(_ context.Context, format string) {
	renderCacheEvents.WithLabelValues(format, "miss").Inc()
}

func (promHooks) OnSessionSave(_ context.Context, backend string) {
	sessionOps.WithLabelValues(backend, "save").Inc()
}

func (promHooks) OnSessionLoad(_ context.Context, backend string, _ bool) {
	sessionOps.WithLabelValues(backend, "load").Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// installMetrics registers the Prometheus-backed hooks.
func installMetrics() {
	observability.SetPipelineHooks(promHooks{})
	observability.SetStoreHooks(promHooks{})
}
