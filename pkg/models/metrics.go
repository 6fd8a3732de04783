// Package models defines the canonical data types shared by the normalizer,
// the valuation engine and the serving layers.
package models

import "time"

// FinancialMetrics is one normalized ratio snapshot for a ticker and fiscal
// year. Monetary fields (EPS, BVPS) are in the reporting currency's smallest
// stated unit. Optional fields use zero as "not reported"; EarningsPerShare
// and PriceToEarnings are mandatory and must be strictly positive for the
// record to be usable.
type FinancialMetrics struct {
	Ticker     string `json:"ticker"`
	FiscalYear int    `json:"fiscal_year"`

	PriceToEarnings float64 `json:"price_to_earnings"`
	PriceToBook     float64 `json:"price_to_book,omitempty"`
	PriceToSales    float64 `json:"price_to_sales,omitempty"`

	EarningsPerShare  float64 `json:"earnings_per_share"`
	BookValuePerShare float64 `json:"book_value_per_share,omitempty"`

	// Profitability percentages on a 0-100 scale, not fractions.
	ReturnOnEquity float64 `json:"return_on_equity,omitempty"`
	ReturnOnAssets float64 `json:"return_on_assets,omitempty"`
	GrossMargin    float64 `json:"gross_margin,omitempty"`
	NetMargin      float64 `json:"net_margin,omitempty"`

	CurrentRatio float64 `json:"current_ratio,omitempty"`
	DebtToEquity float64 `json:"debt_to_equity,omitempty"`

	// Year-over-year EPS growth in percent. Zero when the provider did not
	// report it; growth of exactly zero and "missing" are equivalent for
	// every consumer in this module.
	EPSGrowthRate float64 `json:"eps_growth_rate,omitempty"`
}

// IndustryReference holds the "fair" multiples for one industry. The table of
// references is read-only and process-wide; see pkg/core/industry.
type IndustryReference struct {
	Industry    string  `json:"industry"`
	ReferencePE float64 `json:"reference_pe"`
	ReferencePB float64 `json:"reference_pb,omitempty"`
	ReferencePS float64 `json:"reference_ps,omitempty"`
}

// Recommendation is the discrete action label derived from the consensus
// premium.
type Recommendation string

const (
	StrongBuy Recommendation = "STRONG_BUY"
	Buy       Recommendation = "BUY"
	Hold      Recommendation = "HOLD"
	Reduce    Recommendation = "REDUCE"
	Sell      Recommendation = "SELL"
)

// MethodResult is one row of the fair-value table: a single method's estimate
// and its premium over the current price proxy.
type MethodResult struct {
	Method     string  `json:"method"`
	FairValue  float64 `json:"fair_value"`
	PremiumPct float64 `json:"premium_pct"`
}

// Consensus is the weighted blend of all applicable method results.
type Consensus struct {
	FairValue  float64 `json:"fair_value"`
	PremiumPct float64 `json:"premium_pct"`
}

// Trend describes the direction of one ratio series across the analyzed years.
type Trend struct {
	Status     string  `json:"status"` // "rising", "falling" or "stable"
	GrowthRate float64 `json:"growth_rate"` // average %/year
}

// HistoryStats summarizes the multi-year P/E and EPS series that backed the
// valuation, when the provider returned more than one year.
type HistoryStats struct {
	YearsAnalyzed int     `json:"years_analyzed"`
	PEAverage     float64 `json:"pe_avg"`
	PEMin         float64 `json:"pe_min"`
	PEMax         float64 `json:"pe_max"`
	PETrend       Trend   `json:"pe_trend"`
	EPSTrend      Trend   `json:"eps_trend"`
}

// ValuationReport is the engine's single output artifact. It is constructed
// fresh on every valuation call and immutable once returned; persistence is a
// caller concern.
type ValuationReport struct {
	ID          string    `json:"id"`
	Ticker      string    `json:"ticker"`
	FiscalYear  int       `json:"fiscal_year"`
	Industry    string    `json:"industry,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	// CurrentPrice is the P/E x EPS proxy, not a live trade price. The data
	// source used in this flow does not expose a quote, so every premium in
	// the report is relative to this approximation.
	CurrentPrice float64 `json:"current_price"`

	Methods        []MethodResult `json:"methods"`
	Consensus      Consensus      `json:"consensus"`
	Recommendation Recommendation `json:"recommendation"`
	Reasons        []string       `json:"reasons,omitempty"`

	History *HistoryStats `json:"history,omitempty"`
}
