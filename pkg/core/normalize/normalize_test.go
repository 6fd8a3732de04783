package normalize

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestNormalizeAPIRecord(t *testing.T) {
	raw := map[string]any{
		"ticker":            "fpt",
		"year":              2023.0,
		"priceToEarning":    12.0,
		"priceToBook":       2.4,
		"earningPerShare":   5000.0,
		"bookValuePerShare": 25000.0,
		"roe":               0.18, // fraction; APISchema scales by 100
		"roa":               0.09,
		"grossProfitMargin": 0.39,
		"postTaxMargin":     0.15,
		"currentPayment":    1.2,
		"debtOnEquity":      0.8,
		"epsChange":         0.12,
	}

	m, err := Normalize(raw, APISchema)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if m.Ticker != "FPT" {
		t.Errorf("Ticker = %q, want FPT", m.Ticker)
	}
	if m.FiscalYear != 2023 {
		t.Errorf("FiscalYear = %d, want 2023", m.FiscalYear)
	}
	if m.EarningsPerShare != 5000 {
		t.Errorf("EPS = %v, want 5000", m.EarningsPerShare)
	}
	if math.Abs(m.ReturnOnEquity-18) > 1e-9 {
		t.Errorf("ROE = %v, want 18 (fraction scaled to percent)", m.ReturnOnEquity)
	}
	if math.Abs(m.EPSGrowthRate-12) > 1e-9 {
		t.Errorf("EPSGrowthRate = %v, want 12", m.EPSGrowthRate)
	}
}

func TestNormalizeScrapeRecord(t *testing.T) {
	// Scraper rows are strings with mixed separators; EPS/BVPS arrive in
	// thousands and get scaled by the schema constant.
	raw := map[string]any{
		"Ticker":     "VNM",
		"Year":       "2023",
		"P/E":        "15,2",
		"P/B":        "3.1",
		"EPS":        "4,5", // 4.5 thousand -> 4500
		"BVPS":       "22,1",
		"ROE (%)":    "24.5",
		"EPS Growth": "8,2",
	}

	m, err := Normalize(raw, ScrapeSchema)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if math.Abs(m.PriceToEarnings-15.2) > 1e-9 {
		t.Errorf("P/E = %v, want 15.2", m.PriceToEarnings)
	}
	if math.Abs(m.EarningsPerShare-4500) > 1e-9 {
		t.Errorf("EPS = %v, want 4500 after x1000 scaling", m.EarningsPerShare)
	}
	if math.Abs(m.BookValuePerShare-22100) > 1e-9 {
		t.Errorf("BVPS = %v, want 22100 after x1000 scaling", m.BookValuePerShare)
	}
	if math.Abs(m.ReturnOnEquity-24.5) > 1e-9 {
		t.Errorf("ROE = %v, want 24.5 (already percent)", m.ReturnOnEquity)
	}
}

func TestNormalizeAliasOrder(t *testing.T) {
	// First present, parseable alias wins; a null-like value falls through
	// to the next alias.
	raw := map[string]any{
		"priceToEarning":  "-", // null sentinel
		"pe":              10.0,
		"earningPerShare": 1000.0,
		"ticker":          "AAA",
	}

	m, err := Normalize(raw, APISchema)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if m.PriceToEarnings != 10 {
		t.Errorf("P/E = %v, want fallthrough value 10", m.PriceToEarnings)
	}
}

func TestNormalizeRejectsZeroEPS(t *testing.T) {
	raw := map[string]any{
		"ticker":          "XXX",
		"priceToEarning":  12.0,
		"earningPerShare": 0.0,
	}

	_, err := Normalize(raw, APISchema)
	if err == nil {
		t.Fatal("expected IncompleteDataError for zero EPS")
	}

	var incomplete *IncompleteDataError
	if !errors.As(err, &incomplete) {
		t.Fatalf("error type = %T, want *IncompleteDataError", err)
	}
	if len(incomplete.Fields) != 1 || incomplete.Fields[0] != string(FieldEPS) {
		t.Errorf("Fields = %v, want [%s]", incomplete.Fields, FieldEPS)
	}
}

func TestNormalizeNamesAllMissingFields(t *testing.T) {
	_, err := Normalize(map[string]any{"ticker": "YYY"}, APISchema)

	var incomplete *IncompleteDataError
	if !errors.As(err, &incomplete) {
		t.Fatalf("error type = %T, want *IncompleteDataError", err)
	}
	if len(incomplete.Fields) != 2 {
		t.Errorf("Fields = %v, want both EPS and P/E named", incomplete.Fields)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	raw := map[string]any{
		"ticker":          "fpt",
		"priceToEarning":  12.0,
		"earningPerShare": "5,000",
	}
	snapshot := map[string]any{
		"ticker":          "fpt",
		"priceToEarning":  12.0,
		"earningPerShare": "5,000",
	}

	if _, err := Normalize(raw, APISchema); err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !reflect.DeepEqual(raw, snapshot) {
		t.Errorf("input map mutated: %v", raw)
	}
}
