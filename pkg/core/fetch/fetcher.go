// Package fetch implements the provider clients that retrieve raw per-year
// financial ratios. Everything here is boundary plumbing: requests are
// context-aware and paced to respect provider rate limits, and the records
// come back in whatever shape the provider uses; pkg/core/normalize owns
// turning them into canonical metrics.
package fetch

import (
	"context"
	"errors"

	"stock_valuation/pkg/core/normalize"
)

// RawRecord is one provider-shaped ratio record for a single fiscal year.
// Keys and value types are provider-defined.
type RawRecord map[string]any

// ErrTickerNotFound reports that the provider has no data for the symbol.
var ErrTickerNotFound = errors.New("ticker not found")

// RatioFetcher retrieves the yearly ratio records for a ticker,
// most-recent-first. Implementations also expose the ProviderSchema the
// normalizer needs for their records.
type RatioFetcher interface {
	FetchYearly(ctx context.Context, ticker string) ([]RawRecord, error)
	Schema() normalize.ProviderSchema
}
