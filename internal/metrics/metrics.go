// Package metrics records operational metrics from the dashboard service
// behind a small backend-agnostic interface.
//
// A process-wide backend defaults to a no-op implementation, so the helpers
// are always safe to call. Concrete systems (Prometheus Pushgateway, Datadog)
// live in subpackages and are installed once at startup with SetBackend.
package metrics

import "time"

// Metric names emitted by the helpers below.
const (
	StepTotal       = "dashboard_step_total"
	StepDuration    = "dashboard_step_duration_seconds"
	RecordsTotal    = "dashboard_records_total"
	ReloadsTotal    = "dashboard_reloads_total"
	DefaultJobLabel = "storedashboard"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
// It must be called before the service starts handling requests.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep counts one execution of a service step ("load", "run", ...) and
// observes its duration, labelled with success or failure.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}
	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow adds delta to the record counter of the given kind. Kinds used by
// the service:
//   - "loaded": raw rows in a freshly loaded sheet
//   - "in_scope": records left after the customer filter
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordReload counts a sheet reload by origin ("source", "upload").
func RecordReload(job, origin string) {
	backend.IncCounter(ReloadsTotal, 1, Labels{
		"job":    job,
		"origin": origin,
	})
}
