package normalize

import (
	"fmt"
	"strings"

	"stock_valuation/pkg/models"
)

// IncompleteDataError reports that the mandatory inputs for valuation (EPS and
// P/E) were missing or non-positive in the raw record. It is recoverable: the
// caller shows "insufficient data" and moves on.
type IncompleteDataError struct {
	Ticker string
	Fields []string
}

func (e *IncompleteDataError) Error() string {
	return fmt.Sprintf("incomplete data for %s: required field(s) missing or non-positive: %s",
		e.Ticker, strings.Join(e.Fields, ", "))
}

// Normalize maps one raw per-year record into a FinancialMetrics snapshot, or
// rejects it. For each logical field the schema's alias list is tried in
// order and the first present, parseable, non-null value wins; a single bad
// optional field never aborts normalization. Pure: the input map is not
// mutated.
func Normalize(raw map[string]any, schema ProviderSchema) (models.FinancialMetrics, error) {
	m := models.FinancialMetrics{}

	if s, ok := lookupString(raw, schema.aliases(FieldTicker)); ok {
		m.Ticker = strings.ToUpper(strings.TrimSpace(s))
	}
	if y, ok := lookup(raw, schema.aliases(FieldYear)); ok {
		m.FiscalYear = int(y)
	}

	scale := schema.scaleFactor()
	pct := schema.percentScale()

	if v, ok := lookup(raw, schema.aliases(FieldPE)); ok {
		m.PriceToEarnings = v
	}
	if v, ok := lookup(raw, schema.aliases(FieldPB)); ok {
		m.PriceToBook = v
	}
	if v, ok := lookup(raw, schema.aliases(FieldPS)); ok {
		m.PriceToSales = v
	}
	if v, ok := lookup(raw, schema.aliases(FieldEPS)); ok {
		m.EarningsPerShare = v * scale
	}
	if v, ok := lookup(raw, schema.aliases(FieldBVPS)); ok {
		m.BookValuePerShare = v * scale
	}
	if v, ok := lookup(raw, schema.aliases(FieldROE)); ok {
		m.ReturnOnEquity = v * pct
	}
	if v, ok := lookup(raw, schema.aliases(FieldROA)); ok {
		m.ReturnOnAssets = v * pct
	}
	if v, ok := lookup(raw, schema.aliases(FieldGrossMargin)); ok {
		m.GrossMargin = v * pct
	}
	if v, ok := lookup(raw, schema.aliases(FieldNetMargin)); ok {
		m.NetMargin = v * pct
	}
	if v, ok := lookup(raw, schema.aliases(FieldCurrentRatio)); ok {
		m.CurrentRatio = v
	}
	if v, ok := lookup(raw, schema.aliases(FieldDebtToEquity)); ok {
		m.DebtToEquity = v
	}
	if v, ok := lookup(raw, schema.aliases(FieldEPSGrowth)); ok {
		m.EPSGrowthRate = v * pct
	}

	var bad []string
	if m.EarningsPerShare <= 0 {
		bad = append(bad, string(FieldEPS))
	}
	if m.PriceToEarnings <= 0 {
		bad = append(bad, string(FieldPE))
	}
	if len(bad) > 0 {
		return models.FinancialMetrics{}, &IncompleteDataError{Ticker: m.Ticker, Fields: bad}
	}

	return m, nil
}

// lookup returns the first alias whose value parses as a number.
func lookup(raw map[string]any, aliases []string) (float64, bool) {
	for _, name := range aliases {
		v, present := raw[name]
		if !present {
			continue
		}
		if f, ok := ParseNumber(v); ok {
			return f, true
		}
	}
	return 0, false
}

// lookupString returns the first alias holding a non-empty string.
func lookupString(raw map[string]any, aliases []string) (string, bool) {
	for _, name := range aliases {
		if v, present := raw[name]; present {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s, true
			}
		}
	}
	return "", false
}
