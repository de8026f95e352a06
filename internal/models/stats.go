package models

import (
	"slices"
	"time"
)

// RunStats accumulates counters for one pipeline run. It is owned by a single
// processor and is not safe for concurrent use.
type RunStats struct {
	StartedAt     time.Time
	FinishedAt    time.Time
	RunID         string
	QualityScores []float64
	Processed     int
	Transformed   int
	Enriched      int
	Errors        int
}

// RunStatsSnapshot is a read-only copy of RunStats with derived values.
type RunStatsSnapshot struct {
	StartedAt           time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt          time.Time `json:"finished_at" yaml:"finished_at"`
	RunID               string    `json:"run_id" yaml:"run_id"`
	QualityScores       []float64 `json:"quality_scores" yaml:"quality_scores"`
	Processed           int       `json:"processed" yaml:"processed"`
	Transformed         int       `json:"transformed" yaml:"transformed"`
	Enriched            int       `json:"enriched" yaml:"enriched"`
	Errors              int       `json:"errors" yaml:"errors"`
	AverageQualityScore float64   `json:"average_quality_score" yaml:"average_quality_score"`
}

// Snapshot returns a copy of the counters.
func (s *RunStats) Snapshot() RunStatsSnapshot {
	return RunStatsSnapshot{
		StartedAt:           s.StartedAt,
		FinishedAt:          s.FinishedAt,
		RunID:               s.RunID,
		QualityScores:       slices.Clone(s.QualityScores),
		Processed:           s.Processed,
		Transformed:         s.Transformed,
		Enriched:            s.Enriched,
		Errors:              s.Errors,
		AverageQualityScore: Average(s.QualityScores),
	}
}

// Average returns the arithmetic mean of values, or 0 for an empty slice.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}
