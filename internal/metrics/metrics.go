package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"weeklyschedule/internal/fetch"
)

const namespace = "weeklyschedule"

// Recorder holds the collectors for one build run.
type Recorder struct {
	registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	excluded      *prometheus.CounterVec
	resolved      *prometheus.CounterVec
	unresolved    prometheus.Counter
	metas         prometheus.Gauge
	videos        prometheus.Gauge
	duration      prometheus.Gauge
	lastSuccess   prometheus.Gauge
	windowedEmpty prometheus.Counter
}

var _ fetch.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Upstream fetches by host and outcome.",
		}, []string{"upstream", "outcome"}),
		excluded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shows_excluded_total",
			Help:      "Shows dropped by the content filter, by rule.",
		}, []string{"reason"}),
		resolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shows_resolved_total",
			Help:      "Shows given a canonical identifier, by resolution step.",
		}, []string{"source"}),
		unresolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shows_unresolved_total",
			Help:      "Shows dropped because no identifier could be resolved.",
		}),
		windowedEmpty: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shows_outside_window_total",
			Help:      "Shows dropped because no episode fell inside the recency window.",
		}),
		metas: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_metas",
			Help:      "Series written to the catalog.",
		}),
		videos: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_videos",
			Help:      "Episode entries written to the catalog.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Wall time of the last build.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_last_success_timestamp_seconds",
			Help:      "Unix time the last successful build finished.",
		}),
	}
	r.registry.MustRegister(
		r.fetches,
		r.excluded,
		r.resolved,
		r.unresolved,
		r.windowedEmpty,
		r.metas,
		r.videos,
		r.duration,
		r.lastSuccess,
	)
	return r
}

// Registry exposes the underlying gatherer.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveFetch implements fetch.Observer.
func (r *Recorder) ObserveFetch(upstream string, kind fetch.Kind) {
	r.fetches.WithLabelValues(upstream, kind.String()).Inc()
}

// ShowsExcluded adds n exclusions for reason.
func (r *Recorder) ShowsExcluded(reason string, n int) {
	r.excluded.WithLabelValues(reason).Add(float64(n))
}

// ShowResolved counts one identifier resolved by source.
func (r *Recorder) ShowResolved(source string) {
	r.resolved.WithLabelValues(source).Inc()
}

// ShowUnresolved counts one show dropped for lack of an identifier.
func (r *Recorder) ShowUnresolved() {
	r.unresolved.Inc()
}

// ShowOutsideWindow counts one show dropped for lack of recent episodes.
func (r *Recorder) ShowOutsideWindow() {
	r.windowedEmpty.Inc()
}

// CatalogWritten records the size of the published catalog.
func (r *Recorder) CatalogWritten(metas, videos int) {
	r.metas.Set(float64(metas))
	r.videos.Set(float64(videos))
}

// BuildFinished records the run duration and, on success, the finish time.
func (r *Recorder) BuildFinished(elapsed time.Duration, finished time.Time, success bool) {
	r.duration.Set(elapsed.Seconds())
	if success {
		r.lastSuccess.Set(float64(finished.Unix()))
	}
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
