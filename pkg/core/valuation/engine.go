// Package valuation computes fair-value estimates from normalized financial
// metrics, blends them into a weighted consensus and classifies the result
// into a recommendation. Everything here is pure, synchronous and safe for
// concurrent use.
package valuation

import (
	"fmt"

	"stock_valuation/pkg/models"
)

// Method identifiers, one per fair-value formula.
const (
	MethodPEIndustry = "pe_industry"
	MethodPBIndustry = "pb_industry"
	MethodPSIndustry = "ps_industry"
	MethodPEG        = "peg"
	MethodROE        = "roe_based"
)

// Weights maps a method identifier to its share of the consensus. Weights of
// inapplicable methods are dropped and the rest renormalized to sum to 1.
type Weights map[string]float64

// DefaultWeights favors the industry P/E multiple, the most broadly
// applicable method.
var DefaultWeights = Weights{
	MethodPEIndustry: 0.35,
	MethodPBIndustry: 0.25,
	MethodPEG:        0.15,
	MethodROE:        0.15,
	MethodPSIndustry: 0.10,
}

// NoApplicableMethodError reports that the metrics were valid but no valuation
// method's preconditions held, so no consensus could be produced. Recoverable:
// the caller shows "cannot value this ticker with available data".
type NoApplicableMethodError struct {
	Ticker string
}

func (e *NoApplicableMethodError) Error() string {
	return fmt.Sprintf("no applicable valuation method for %s with available data", e.Ticker)
}

// Engine holds the consensus weight table. The zero value is not usable; use
// NewEngine.
type Engine struct {
	weights Weights
}

// NewEngine creates an engine with DefaultWeights.
func NewEngine() *Engine {
	return NewEngineWithWeights(DefaultWeights)
}

// NewEngineWithWeights creates an engine with a custom weight table. Missing
// methods simply never contribute; the table is copied so later mutation by
// the caller has no effect.
func NewEngineWithWeights(w Weights) *Engine {
	own := make(Weights, len(w))
	for k, v := range w {
		own[k] = v
	}
	return &Engine{weights: own}
}

// Valuate computes the per-method fair-value table, the weighted consensus
// and the recommendation for one company-year.
//
// The current price is proxied as P/E x EPS because the ratio providers used
// in this flow do not expose a live quote; every premium in the report is
// relative to that approximation.
func (e *Engine) Valuate(m models.FinancialMetrics, ref models.IndustryReference) (*models.ValuationReport, error) {
	if m.EarningsPerShare <= 0 || m.PriceToEarnings <= 0 {
		return nil, fmt.Errorf("metrics for %s: EPS and P/E must be strictly positive", m.Ticker)
	}

	price := m.PriceToEarnings * m.EarningsPerShare
	methods := e.applicableMethods(m, ref, price)
	if len(methods) == 0 {
		return nil, &NoApplicableMethodError{Ticker: m.Ticker}
	}

	consensus := e.consensus(methods, price)
	rec := Classify(consensus.PremiumPct)

	return &models.ValuationReport{
		Ticker:         m.Ticker,
		FiscalYear:     m.FiscalYear,
		Industry:       ref.Industry,
		CurrentPrice:   price,
		Methods:        methods,
		Consensus:      consensus,
		Recommendation: rec,
		Reasons:        buildReasons(m, consensus, rec),
	}, nil
}

// applicableMethods evaluates each formula's precondition and returns one
// result row per method that holds. Inapplicable methods are omitted, never
// treated as errors.
func (e *Engine) applicableMethods(m models.FinancialMetrics, ref models.IndustryReference, price float64) []models.MethodResult {
	var out []models.MethodResult

	add := func(method string, fairValue float64) {
		out = append(out, models.MethodResult{
			Method:     method,
			FairValue:  fairValue,
			PremiumPct: premiumPct(fairValue, price),
		})
	}

	if ref.ReferencePE > 0 {
		add(MethodPEIndustry, m.EarningsPerShare*ref.ReferencePE)
	}
	if m.BookValuePerShare > 0 && ref.ReferencePB > 0 {
		add(MethodPBIndustry, m.BookValuePerShare*ref.ReferencePB)
	}
	if m.PriceToSales > 0 && ref.ReferencePS > 0 {
		add(MethodPSIndustry, price/m.PriceToSales*ref.ReferencePS)
	}
	if m.EPSGrowthRate > 0 && m.EPSGrowthRate < 100 {
		// Target P/E equal to the growth rate, i.e. PEG ~ 1.
		add(MethodPEG, m.EarningsPerShare*m.EPSGrowthRate)
	}
	if m.ReturnOnEquity > 5 && m.ReturnOnEquity < 50 {
		add(MethodROE, m.EarningsPerShare*roeTargetPE(m.ReturnOnEquity))
	}

	return out
}

// roeTargetPE maps return on equity to a justified P/E multiple. Above 15%
// ROE the premium is granted at half rate to stay conservative.
func roeTargetPE(roe float64) float64 {
	if roe > 15 {
		return 15 + (roe-15)*0.5
	}
	return roe * 1.2
}

// consensus blends the applicable methods' fair values with the engine's
// weight table, renormalized over only the methods present.
func (e *Engine) consensus(methods []models.MethodResult, price float64) models.Consensus {
	var weightSum, weighted float64
	for _, r := range methods {
		w := e.weights[r.Method]
		weightSum += w
		weighted += w * r.FairValue
	}

	var fair float64
	if weightSum > 0 {
		fair = weighted / weightSum
	} else {
		// Every applicable method carries zero weight; fall back to the
		// unweighted mean rather than dividing by zero.
		for _, r := range methods {
			fair += r.FairValue
		}
		fair /= float64(len(methods))
	}

	return models.Consensus{
		FairValue:  fair,
		PremiumPct: premiumPct(fair, price),
	}
}

func premiumPct(fairValue, price float64) float64 {
	return (fairValue - price) / price * 100
}
