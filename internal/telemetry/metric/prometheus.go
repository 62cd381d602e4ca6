package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "stellar"
	subsystem = "save"
)

// Result label values.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// Registry holds all engine metrics. A nil *Registry records nothing.
type Registry struct {
	registry *prometheus.Registry

	SavesTotal        *prometheus.CounterVec
	LoadsTotal        *prometheus.CounterVec
	CandidateFailures *prometheus.CounterVec
	Fallbacks         prometheus.Counter
	RotationSteps     *prometheus.CounterVec
	Duration          *prometheus.HistogramVec
	FileSize          prometheus.Histogram
	WatchEvents       *prometheus.CounterVec
}

// NewRegistry creates and registers all metrics on a fresh registry.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.SavesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "saves_total",
		Help:      "Save attempts by result",
	}, []string{"result"})

	r.LoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "loads_total",
		Help:      "Load attempts by the source that answered and result",
	}, []string{"source", "result"})

	r.CandidateFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "candidate_failures_total",
		Help:      "Files that failed to load, by error code",
	}, []string{"code"})

	r.Fallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "backup_fallbacks_total",
		Help:      "Loads answered by a backup instead of the primary save",
	})

	r.RotationSteps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rotation_steps_total",
		Help:      "Backup rotation file operations by kind",
	}, []string{"op"})

	r.Duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "operation_duration_seconds",
		Help:      "Duration of engine operations",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"op"})

	r.FileSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "file_size_bytes",
		Help:      "Size of written save files",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
	})

	r.WatchEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "watch_events_total",
		Help:      "Saves verified by the directory monitor, by result",
	}, []string{"result"})

	r.registry.MustRegister(
		r.SavesTotal,
		r.LoadsTotal,
		r.CandidateFailures,
		r.Fallbacks,
		r.RotationSteps,
		r.Duration,
		r.FileSize,
		r.WatchEvents,
	)
	return r
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// ObserveSave records one save attempt.
func (r *Registry) ObserveSave(err error, size int, took time.Duration) {
	if r == nil {
		return
	}
	r.SavesTotal.WithLabelValues(result(err)).Inc()
	r.Duration.WithLabelValues("save").Observe(took.Seconds())
	if err == nil {
		r.FileSize.Observe(float64(size))
	}
}

// ObserveLoad records one load. source is the candidate that answered, or
// "none" when every candidate failed.
func (r *Registry) ObserveLoad(source string, err error, took time.Duration) {
	if r == nil {
		return
	}
	r.LoadsTotal.WithLabelValues(source, result(err)).Inc()
	r.Duration.WithLabelValues("load").Observe(took.Seconds())
}

// CandidateFailed records a file that could not be loaded.
func (r *Registry) CandidateFailed(code string) {
	if r == nil {
		return
	}
	if code == "" {
		code = "unknown"
	}
	r.CandidateFailures.WithLabelValues(code).Inc()
}

// Fallback records a load answered by a backup.
func (r *Registry) Fallback() {
	if r == nil {
		return
	}
	r.Fallbacks.Inc()
}

// RotationStep records one backup rotation file operation.
func (r *Registry) RotationStep(op string) {
	if r == nil {
		return
	}
	r.RotationSteps.WithLabelValues(op).Inc()
}

// WatchEvent records a save verified by the directory monitor.
func (r *Registry) WatchEvent(err error) {
	if r == nil {
		return
	}
	r.WatchEvents.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return ResultFailed
	}
	return ResultOK
}
