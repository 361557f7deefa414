// Package pipeline orchestrates a batch catalog run: enumerate sample
// contexts, build records concurrently, and aggregate the results. Samples
// are independent, so the run is embarrassingly parallel; outcome collection
// is the only synchronized step.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aeriscope/cloudcatalog/internal/domain"
	"github.com/aeriscope/cloudcatalog/internal/observability"
)

// ContextLister enumerates the sample contexts for one run.
type ContextLister interface {
	List(ctx context.Context) ([]domain.SampleContext, error)
}

// RecordBuilder constructs the catalog record for one sample.
type RecordBuilder interface {
	Build(ctx context.Context, sc domain.SampleContext) domain.BuildOutcome
}

// RecordSink receives successfully built records as they complete, before
// the run result is assembled. Optional; used for streaming publication.
type RecordSink interface {
	Publish(ctx context.Context, rec domain.CatalogRecord) error
}

// Pipeline runs the enumerate-build-aggregate cycle.
type Pipeline struct {
	lister    ContextLister
	builder   RecordBuilder
	sink      RecordSink // nil disables streaming publication
	enricher  domain.ElevationProvider
	logger    *slog.Logger
	metrics   *observability.Metrics
	policy    domain.FailurePolicy
	workers   int
	ready     atomic.Bool
	completed atomic.Int64
}

// New creates a Pipeline. workers bounds build concurrency; values below 1
// are clamped to 1. sink and enricher may be nil.
func New(lister ContextLister, builder RecordBuilder, sink RecordSink, enricher domain.ElevationProvider,
	logger *slog.Logger, metrics *observability.Metrics, policy domain.FailurePolicy, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{
		lister:   lister,
		builder:  builder,
		sink:     sink,
		enricher: enricher,
		logger:   logger,
		metrics:  metrics,
		policy:   policy,
		workers:  workers,
	}
}

// CheckReadiness returns nil once the pipeline has completed at least one
// build, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not built any records yet")
	}
	return nil
}

// Completed returns the number of contexts processed so far, for progress
// reporting while a run is in flight.
func (p *Pipeline) Completed() int64 { return p.completed.Load() }

// Run executes one batch run to completion. Under PolicyAbort the first hard
// failure cancels outstanding builds and is returned; under PolicySkip hard
// failures are collected into the result instead.
func (p *Pipeline) Run(ctx context.Context) (domain.RunResult, error) {
	p.logger.Info("catalog run started", "workers", p.workers, "failure_policy", p.policy)
	p.metrics.RunRunning.Set(1)
	defer p.metrics.RunRunning.Set(0)

	contexts, err := p.lister.List(ctx)
	if err != nil {
		return domain.RunResult{}, fmt.Errorf("enumerate contexts: %w", err)
	}
	p.metrics.ContextsEnumerated.Add(float64(len(contexts)))

	result := domain.RunResult{Total: len(contexts)}
	if len(contexts) == 0 {
		p.logger.Warn("no sample contexts enumerated")
		p.ready.Store(true)
		return result, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for _, sc := range contexts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome := p.buildOne(gctx, sc)
			p.completed.Add(1)

			switch {
			case outcome.Err() != nil:
				p.metrics.RecordsFailed.Inc()
				if p.policy == domain.PolicyAbort {
					return outcome.Err()
				}
				p.logger.Warn("sample failed, continuing",
					"sample", sc.ID, "error", outcome.Err())
				mu.Lock()
				result.Failed = append(result.Failed, domain.SampleFailure{
					ID:     sc.ID,
					Reason: outcome.Err().Error(),
				})
				mu.Unlock()

			case outcome.Skipped() != nil:
				p.metrics.RecordsDropped.Inc()
				mu.Lock()
				result.Dropped = append(result.Dropped, *outcome.Skipped())
				mu.Unlock()

			default:
				rec := *outcome.Record()
				p.metrics.RecordsBuilt.Inc()
				p.ready.Store(true)
				if err := p.publish(gctx, rec); err != nil {
					return err
				}
				mu.Lock()
				result.Records = append(result.Records, rec)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.RunResult{}, err
	}

	p.logger.Info("catalog run finished",
		"total", result.Total,
		"built", len(result.Records),
		"dropped", len(result.Dropped),
		"failed", len(result.Failed),
	)
	return result, nil
}

func (p *Pipeline) buildOne(ctx context.Context, sc domain.SampleContext) domain.BuildOutcome {
	start := time.Now()
	outcome := p.builder.Build(ctx, sc)
	p.metrics.BuildDuration.Observe(time.Since(start).Seconds())

	if rec := outcome.Record(); rec != nil && p.enricher != nil {
		enriched := domain.EnrichWithElevation(ctx, *rec, p.enricher, p.logger)
		return domain.SuccessOutcome(enriched)
	}
	return outcome
}

// publish streams a record to the sink. Sink failures abort the run
// regardless of the failure policy: the policy governs per-sample build
// problems, not downstream transport.
func (p *Pipeline) publish(ctx context.Context, rec domain.CatalogRecord) error {
	if p.sink == nil {
		return nil
	}
	if err := p.sink.Publish(ctx, rec); err != nil {
		return fmt.Errorf("publish record %s: %w", rec.ID, err)
	}
	p.metrics.RecordsPublished.Inc()
	return nil
}
