// Package pipeline wires the provider fetchers, the normalizer, the industry
// table and the valuation engine into a per-ticker run, with optional
// persistence of the resulting report.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"stock_valuation/pkg/core/fetch"
	"stock_valuation/pkg/core/industry"
	"stock_valuation/pkg/core/normalize"
	"stock_valuation/pkg/core/store"
	"stock_valuation/pkg/core/valuation"
	"stock_valuation/pkg/models"
)

// defaultBatchLimit bounds concurrent fetches in RunBatch.
const defaultBatchLimit = 4

// Orchestrator manages the flow fetch -> normalize -> valuate -> store.
type Orchestrator struct {
	fetcher    fetch.RatioFetcher
	industries *industry.Table
	engine     *valuation.Engine
	repo       store.ReportRepository
	batchLimit int
	log        zerolog.Logger
}

// NewOrchestrator creates an orchestrator. Persistence is off until
// SetRepository is called.
func NewOrchestrator(fetcher fetch.RatioFetcher, industries *industry.Table, engine *valuation.Engine, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		fetcher:    fetcher,
		industries: industries,
		engine:     engine,
		batchLimit: defaultBatchLimit,
		log:        log.With().Str("component", "pipeline").Logger(),
	}
}

// SetRepository enables saving each successful report.
func (o *Orchestrator) SetRepository(repo store.ReportRepository) {
	o.repo = repo
}

// SetBatchLimit overrides the bounded parallelism of RunBatch.
func (o *Orchestrator) SetBatchLimit(n int) {
	if n > 0 {
		o.batchLimit = n
	}
}

// RunForTicker executes the full flow for one ticker and returns the report.
//
// The two recoverable core errors pass through untouched so the caller can
// present them: *normalize.IncompleteDataError when the latest year lacks
// EPS/P-E, *valuation.NoApplicableMethodError when nothing can be computed.
func (o *Orchestrator) RunForTicker(ctx context.Context, ticker string) (*models.ValuationReport, error) {
	runID := uuid.NewString()
	log := o.log.With().Str("run_id", runID).Str("ticker", ticker).Logger()
	start := time.Now()

	raws, err := o.fetcher.FetchYearly(ctx, ticker)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("years", len(raws)).Msg("fetched raw ratio records")

	schema := o.fetcher.Schema()

	// Records arrive most-recent-first; the first one is the valuation
	// target and must normalize cleanly.
	latest, err := normalize.Normalize(raws[0], schema)
	if err != nil {
		return nil, err
	}

	// Older years feed only the history statistics, so a year that fails
	// normalization is skipped rather than fatal.
	series := []models.FinancialMetrics{latest}
	for _, raw := range raws[1:] {
		if m, nerr := normalize.Normalize(raw, schema); nerr == nil {
			series = append(series, m)
		}
	}

	ref := o.industries.Lookup(latest.Ticker)
	report, err := o.engine.Valuate(latest, ref)
	if err != nil {
		return nil, err
	}

	report.ID = runID
	report.GeneratedAt = time.Now().UTC()
	report.History = valuation.ComputeHistory(series)

	if o.repo != nil {
		if serr := o.repo.Save(ctx, report); serr != nil {
			// The report is still valid; persistence is best-effort.
			log.Warn().Err(serr).Msg("failed to persist report")
		}
	}

	log.Info().
		Str("recommendation", string(report.Recommendation)).
		Float64("premium_pct", report.Consensus.PremiumPct).
		Dur("elapsed", time.Since(start)).
		Msg("valuation complete")

	return report, nil
}

// BatchResult collects the per-ticker outcomes of a bulk run.
type BatchResult struct {
	Reports map[string]*models.ValuationReport
	Errors  map[string]error
}

// RunBatch valuates many tickers with bounded parallelism. One ticker's
// failure never aborts the others; cancelling the context stops issuing new
// fetches while already-computed reports remain in the result.
func (o *Orchestrator) RunBatch(ctx context.Context, tickers []string) BatchResult {
	result := BatchResult{
		Reports: make(map[string]*models.ValuationReport, len(tickers)),
		Errors:  make(map[string]error),
	}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(o.batchLimit)

	for _, ticker := range tickers {
		ticker := ticker
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			report, err := o.RunForTicker(ctx, ticker)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors[ticker] = err
			} else {
				result.Reports[ticker] = report
			}
			return nil
		})
	}
	g.Wait()

	return result
}
