package normalizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"heritage/internal/logger"
	"heritage/internal/models"
	"heritage/internal/reference"
)

// Processing errors.
var (
	ErrStagePanic  = errors.New("pipeline stage panicked")
	ErrInvalidSite = errors.New("transformed site is inconsistent")
)

// Error reasons reported to the metrics recorder.
const (
	ReasonValidation = "validation"
	ReasonTransform  = "transform"
)

// MetricsRecorder receives per-record pipeline events.
type MetricsRecorder interface {
	RecordProcessed()
	RecordEnriched()
	RecordTransformed(score float64)
	RecordError(reason string)
	ObserveRun(d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordProcessed()          {}
func (nopRecorder) RecordEnriched()           {}
func (nopRecorder) RecordTransformed(float64) {}
func (nopRecorder) RecordError(string)        {}
func (nopRecorder) ObserveRun(time.Duration)  {}

// Processor runs records through clean, validate, standardize, enrich, score
// and tag, and keeps the run statistics. A Processor is not safe for
// concurrent use; Run parallelizes internally when configured with workers.
type Processor struct {
	cleaner     *Cleaner
	validator   *Validator
	transformer *Transformer
	enricher    *Enricher
	scorer      *Scorer
	tagger      *Tagger
	log         *logger.Logger
	metrics     MetricsRecorder
	now         func() time.Time
	stats       models.RunStats
	transOpts   []TransformerOption
	workers     int
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the processor logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(p *Processor) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithWorkers sets the number of records transformed in parallel.
func WithWorkers(n int) Option {
	return func(p *Processor) {
		p.workers = max(n, 1)
	}
}

// WithTransformerOptions passes options through to the standardizer.
func WithTransformerOptions(opts ...TransformerOption) Option {
	return func(p *Processor) {
		p.transOpts = append(p.transOpts, opts...)
	}
}

// NewProcessor creates a new processor instance.
func NewProcessor(tables *reference.Tables, opts ...Option) *Processor {
	p := &Processor{
		log:     logger.Discard(),
		metrics: nopRecorder{},
		now:     time.Now,
		workers: 1,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.cleaner = NewCleaner()
	p.validator = NewValidator()
	p.transformer = NewTransformer(tables, p.transOpts...)
	p.enricher = NewEnricher(tables)
	p.scorer = NewScorer()
	p.tagger = NewTagger(tables)
	p.stats.RunID = uuid.New().String()

	return p
}

type outcome struct {
	err      error
	reason   string
	site     models.Site
	score    float64
	enriched bool
	scored   bool
	done     bool
}

// Process transforms one raw record into a site without touching the run
// statistics.
func (p *Processor) Process(raw models.RawRecord) (models.Site, error) {
	out := p.process(raw)
	if out.err != nil {
		return models.Site{}, out.err
	}

	return out.site, nil
}

// TransformOne transforms one raw record and records it in the run
// statistics. The boolean is false when the record was dropped.
func (p *Processor) TransformOne(raw models.RawRecord) (models.Site, bool) {
	p.begin()

	out := p.process(raw)
	p.record(0, raw, out)

	if out.err != nil {
		return models.Site{}, false
	}

	return out.site, true
}

// Run transforms raws in input order, dropping records that fail validation or
// transformation. The error is non-nil only when ctx is cancelled; the sites
// finished before cancellation are still returned.
func (p *Processor) Run(ctx context.Context, raws []models.RawRecord) ([]models.Site, error) {
	p.begin()
	started := p.now()

	p.log.Info("Starting transformation", "run_id", p.stats.RunID, "records", len(raws), "workers", p.workers)

	outcomes := make([]outcome, len(raws))

	var runErr error
	if p.workers > 1 {
		runErr = p.runParallel(ctx, raws, outcomes)
	} else {
		runErr = p.runSequential(ctx, raws, outcomes)
	}

	sites := make([]models.Site, 0, len(raws))

	for i, out := range outcomes {
		if !out.done {
			continue
		}

		p.record(i, raws[i], out)

		if out.err == nil {
			sites = append(sites, out.site)
		}
	}

	p.stats.FinishedAt = p.now()
	p.metrics.ObserveRun(p.stats.FinishedAt.Sub(started))

	if runErr != nil {
		p.log.Warn("Transformation cancelled", "run_id", p.stats.RunID, "completed", len(sites), "error", runErr)
		return sites, runErr
	}

	p.log.Info("Transformation complete",
		"run_id", p.stats.RunID,
		"processed", p.stats.Processed,
		"transformed", p.stats.Transformed,
		"errors", p.stats.Errors,
		"average_quality_score", models.Average(p.stats.QualityScores),
	)

	return sites, nil
}

// Stats returns a snapshot of the accumulated run statistics.
func (p *Processor) Stats() models.RunStatsSnapshot {
	return p.stats.Snapshot()
}

func (p *Processor) runSequential(ctx context.Context, raws []models.RawRecord, outcomes []outcome) error {
	for i, raw := range raws {
		if err := ctx.Err(); err != nil {
			return err
		}

		outcomes[i] = p.process(raw)
	}

	return nil
}

func (p *Processor) runParallel(ctx context.Context, raws []models.RawRecord, outcomes []outcome) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, raw := range raws {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			outcomes[i] = p.process(raw)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

func (p *Processor) begin() {
	if p.stats.StartedAt.IsZero() {
		p.stats.StartedAt = p.now()
	}
}

// process runs every stage for one record. Stages only read shared state, so
// it is safe to call from several goroutines.
func (p *Processor) process(raw models.RawRecord) (out outcome) {
	out.done = true

	defer func() {
		if r := recover(); r != nil {
			out.err = fmt.Errorf("transformation failed: %w: %v", ErrStagePanic, r)
			out.reason = ReasonTransform
		}
	}()

	cleaned := p.cleaner.Clean(raw)
	if err := p.validator.Validate(cleaned); err != nil {
		out.err = fmt.Errorf("validation failed: %w", err)
		out.reason = ReasonValidation

		return out
	}

	site := p.transformer.Standardize(cleaned)

	site = p.enricher.Enrich(site)
	out.enriched = true

	site.DataQualityScore = p.scorer.Score(site)
	out.score = site.DataQualityScore
	out.scored = true

	site.Tags = p.tagger.Tags(site)

	if err := checkSite(site); err != nil {
		out.err = fmt.Errorf("transformation failed: %w", err)
		out.reason = ReasonTransform

		return out
	}

	out.site = site

	return out
}

func (p *Processor) record(index int, raw models.RawRecord, out outcome) {
	p.stats.Processed++
	p.metrics.RecordProcessed()

	if out.enriched {
		p.stats.Enriched++
		p.metrics.RecordEnriched()
	}

	if out.scored {
		p.stats.QualityScores = append(p.stats.QualityScores, out.score)
	}

	if out.err != nil {
		p.stats.Errors++
		p.metrics.RecordError(out.reason)

		if out.reason == ReasonValidation {
			p.log.Warn("Dropping invalid record", "index", index, "name", raw.Label(), "error", out.err)
		} else {
			p.log.Error("Failed to transform record", "index", index, "name", raw.Label(), "stage", out.reason, "error", out.err)
		}

		return
	}

	p.stats.Transformed++
	p.metrics.RecordTransformed(out.score)
}

func checkSite(site models.Site) error {
	switch {
	case site.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidSite)
	case site.DataQualityScore < 0 || site.DataQualityScore > 1:
		return fmt.Errorf("%w: score %v out of range", ErrInvalidSite, site.DataQualityScore)
	case !site.CriteriaType.Valid():
		return fmt.Errorf("%w: criteria type %q", ErrInvalidSite, site.CriteriaType)
	default:
		return nil
	}
}
