// Package metrics records generation statistics in a private prometheus
// registry and exports them as a node exporter textfile.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/frescopa/demogen/pkg/generator"
	"github.com/frescopa/demogen/pkg/validate"
)

const namespace = "demogen"

// tableStages maps the stages that produce a table to that table.
var tableStages = map[generator.Stage]string{
	generator.StageCatalog:    "products",
	generator.StageAttributes: "recipients",
	generator.StagePurchases:  "purchases",
	generator.StageWishlist:   "wishlist",
	generator.StageAbandoned:  "abandoned",
	generator.StageSegments:   "segments",
}

// Recorder is a generator.Observer backed by prometheus collectors.
type Recorder struct {
	registry   *prometheus.Registry
	rows       *prometheus.GaugeVec
	durations  *prometheus.GaugeVec
	violations prometheus.Gauge
	failures   *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_generated",
			Help:      "Rows produced per table by the last run.",
		}, []string{"table"}),
		durations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each pipeline stage.",
		}, []string{"stage"}),
		violations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "integrity_violations",
			Help:      "Integrity violations found by the last validation.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_failures_total",
			Help:      "Stages that returned an error.",
		}, []string{"stage"}),
	}
	r.registry.MustRegister(r.rows, r.durations, r.violations, r.failures)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// StageStarted implements generator.Observer.
func (r *Recorder) StageStarted(generator.Stage) {}

// StageFinished implements generator.Observer.
func (r *Recorder) StageFinished(e generator.Event) {
	r.durations.WithLabelValues(string(e.Stage)).Set(e.Elapsed.Seconds())
	if e.Err != nil {
		r.failures.WithLabelValues(string(e.Stage)).Inc()
	}
	if table, ok := tableStages[e.Stage]; ok && e.Err == nil {
		r.rows.WithLabelValues(table).Set(float64(e.Rows))
	}
	if e.Stage == generator.StageValidate {
		var ie *validate.IntegrityError
		if errors.As(e.Err, &ie) {
			r.violations.Set(float64(len(ie.Violations)))
		} else if e.Err == nil {
			r.violations.Set(0)
		}
	}
}

// WriteTextfile writes every metric to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

var _ generator.Observer = (*Recorder)(nil)
