// Package metrics exposes pipeline counters as prometheus metrics.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "heritage"

// ErrWriteTextfile is returned when the metrics file cannot be written.
var ErrWriteTextfile = errors.New("failed to write metrics textfile")

// Recorder collects per-record pipeline events into its own registry.
type Recorder struct {
	registry    *prometheus.Registry
	processed   prometheus.Counter
	transformed prometheus.Counter
	enriched    prometheus.Counter
	errors      *prometheus.CounterVec
	quality     prometheus.Histogram
	runDuration prometheus.Gauge
}

// NewRecorder creates a recorder with all pipeline metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.processed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_processed_total",
		Help:      "Raw records seen by the pipeline",
	})
	r.transformed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_transformed_total",
		Help:      "Records that passed every stage",
	})
	r.enriched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_enriched_total",
		Help:      "Records that completed the enrichment stage",
	})
	r.errors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "record_errors_total",
		Help:      "Records dropped, by reason",
	}, []string{"reason"})
	r.quality = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "quality_score",
		Help:      "Data quality score of transformed records",
		Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
	})
	r.runDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last pipeline run",
	})

	r.registry.MustRegister(r.processed, r.transformed, r.enriched, r.errors, r.quality, r.runDuration)

	return r
}

// RecordProcessed counts one raw record.
func (r *Recorder) RecordProcessed() { r.processed.Inc() }

// RecordEnriched counts one enriched record.
func (r *Recorder) RecordEnriched() { r.enriched.Inc() }

// RecordTransformed counts one finished record and observes its score.
func (r *Recorder) RecordTransformed(score float64) {
	r.transformed.Inc()
	r.quality.Observe(score)
}

// RecordError counts one dropped record.
func (r *Recorder) RecordError(reason string) {
	r.errors.WithLabelValues(reason).Inc()
}

// ObserveRun records the duration of a run.
func (r *Recorder) ObserveRun(d time.Duration) {
	r.runDuration.Set(d.Seconds())
}

// WriteTextfile writes the metrics in text exposition format for the node
// exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}

	return nil
}
