package valuation

import (
	"errors"
	"math"
	"testing"

	"stock_valuation/pkg/models"
)

func TestPEIndustryMethod(t *testing.T) {
	// EPS 5000 at P/E 12 -> price 60000. Industry P/E 15 -> fair 75000,
	// premium +25% -> BUY.
	m := models.FinancialMetrics{
		Ticker:           "FPT",
		EarningsPerShare: 5000,
		PriceToEarnings:  12,
	}
	ref := models.IndustryReference{Industry: "technology", ReferencePE: 15}

	rep, err := NewEngine().Valuate(m, ref)
	if err != nil {
		t.Fatalf("Valuate failed: %v", err)
	}

	if rep.CurrentPrice != 60000 {
		t.Errorf("CurrentPrice = %v, want 60000", rep.CurrentPrice)
	}
	if len(rep.Methods) != 1 || rep.Methods[0].Method != MethodPEIndustry {
		t.Fatalf("Methods = %+v, want single pe_industry row", rep.Methods)
	}
	if rep.Methods[0].FairValue != 75000 {
		t.Errorf("pe_industry fair value = %v, want 75000", rep.Methods[0].FairValue)
	}
	if math.Abs(rep.Consensus.PremiumPct-25) > 1e-9 {
		t.Errorf("consensus premium = %v, want +25", rep.Consensus.PremiumPct)
	}
	if rep.Recommendation != models.Buy {
		t.Errorf("recommendation = %s, want BUY", rep.Recommendation)
	}
}

func TestPBIndustryMethod(t *testing.T) {
	// Price 40000, BVPS 10000 at reference P/B 1.2 -> fair 12000,
	// premium -70% -> SELL.
	m := models.FinancialMetrics{
		Ticker:            "XYZ",
		EarningsPerShare:  2000,
		PriceToEarnings:   20,
		BookValuePerShare: 10000,
	}
	ref := models.IndustryReference{Industry: "other", ReferencePB: 1.2}

	rep, err := NewEngine().Valuate(m, ref)
	if err != nil {
		t.Fatalf("Valuate failed: %v", err)
	}

	if len(rep.Methods) != 1 || rep.Methods[0].Method != MethodPBIndustry {
		t.Fatalf("Methods = %+v, want single pb_industry row", rep.Methods)
	}
	if rep.Methods[0].FairValue != 12000 {
		t.Errorf("pb_industry fair value = %v, want 12000", rep.Methods[0].FairValue)
	}
	if math.Abs(rep.Consensus.PremiumPct+70) > 1e-9 {
		t.Errorf("consensus premium = %v, want -70", rep.Consensus.PremiumPct)
	}
	if rep.Recommendation != models.Sell {
		t.Errorf("recommendation = %s, want SELL", rep.Recommendation)
	}
}

func TestROEMethod(t *testing.T) {
	// ROE 18 -> target P/E = 15 + (18-15)*0.5 = 16.5. EPS 1000 at P/E 10
	// -> price 10000, fair 16500, premium +65% -> STRONG_BUY.
	m := models.FinancialMetrics{
		Ticker:           "ABC",
		EarningsPerShare: 1000,
		PriceToEarnings:  10,
		ReturnOnEquity:   18,
	}

	rep, err := NewEngine().Valuate(m, models.IndustryReference{})
	if err != nil {
		t.Fatalf("Valuate failed: %v", err)
	}

	if len(rep.Methods) != 1 || rep.Methods[0].Method != MethodROE {
		t.Fatalf("Methods = %+v, want single roe_based row", rep.Methods)
	}
	if math.Abs(rep.Methods[0].FairValue-16500) > 1e-9 {
		t.Errorf("roe_based fair value = %v, want 16500", rep.Methods[0].FairValue)
	}
	if rep.Recommendation != models.StrongBuy {
		t.Errorf("recommendation = %s, want STRONG_BUY", rep.Recommendation)
	}
}

func TestROETargetPEBelowThreshold(t *testing.T) {
	// ROE 10 -> target P/E = 10 * 1.2 = 12.
	if got := roeTargetPE(10); math.Abs(got-12) > 1e-9 {
		t.Errorf("roeTargetPE(10) = %v, want 12", got)
	}
	if got := roeTargetPE(18); math.Abs(got-16.5) > 1e-9 {
		t.Errorf("roeTargetPE(18) = %v, want 16.5", got)
	}
}

func TestPEGMethodPreconditions(t *testing.T) {
	base := models.FinancialMetrics{
		Ticker:           "GGG",
		EarningsPerShare: 1000,
		PriceToEarnings:  10,
	}

	for _, c := range []struct {
		growth     float64
		applicable bool
	}{
		{25, true},
		{0, false},
		{-10, false},
		{100, false},
		{150, false},
	} {
		m := base
		m.EPSGrowthRate = c.growth
		rep, err := NewEngine().Valuate(m, models.IndustryReference{})
		if c.applicable {
			if err != nil {
				t.Errorf("growth %v: unexpected error %v", c.growth, err)
				continue
			}
			want := m.EarningsPerShare * c.growth
			if rep.Methods[0].FairValue != want {
				t.Errorf("growth %v: fair value = %v, want %v", c.growth, rep.Methods[0].FairValue, want)
			}
		} else if err == nil {
			t.Errorf("growth %v: expected NoApplicableMethodError, got report", c.growth)
		}
	}
}

func TestNoApplicableMethod(t *testing.T) {
	// Valid metrics but no BVPS, no growth, no usable ROE and an unknown
	// industry reference: nothing applies.
	m := models.FinancialMetrics{
		Ticker:           "ZZZ",
		EarningsPerShare: 3000,
		PriceToEarnings:  14,
	}

	_, err := NewEngine().Valuate(m, models.IndustryReference{})
	if err == nil {
		t.Fatal("expected NoApplicableMethodError")
	}
	var noMethod *NoApplicableMethodError
	if !errors.As(err, &noMethod) {
		t.Fatalf("error type = %T, want *NoApplicableMethodError", err)
	}
	if noMethod.Ticker != "ZZZ" {
		t.Errorf("Ticker = %q, want ZZZ", noMethod.Ticker)
	}
}

func TestConsensusRenormalization(t *testing.T) {
	// Two applicable methods (pe_industry 0.35, pb_industry 0.25); the
	// consensus must weight them 0.35/0.60 and 0.25/0.60.
	m := models.FinancialMetrics{
		Ticker:            "MIX",
		EarningsPerShare:  1000,
		PriceToEarnings:   10,
		BookValuePerShare: 8000,
	}
	ref := models.IndustryReference{Industry: "other", ReferencePE: 14, ReferencePB: 1.5}

	rep, err := NewEngine().Valuate(m, ref)
	if err != nil {
		t.Fatalf("Valuate failed: %v", err)
	}
	if len(rep.Methods) != 2 {
		t.Fatalf("expected 2 applicable methods, got %d", len(rep.Methods))
	}

	peFair := 1000.0 * 14  // 14000
	pbFair := 8000.0 * 1.5 // 12000
	want := (0.35*peFair + 0.25*pbFair) / 0.60

	if math.Abs(rep.Consensus.FairValue-want) > 1e-9 {
		t.Errorf("consensus fair value = %v, want %v", rep.Consensus.FairValue, want)
	}
}

func TestPremiumSignMatchesOrdering(t *testing.T) {
	m := models.FinancialMetrics{
		Ticker:            "SGN",
		EarningsPerShare:  1000,
		PriceToEarnings:   10,
		BookValuePerShare: 5000,
		ReturnOnEquity:    20,
		EPSGrowthRate:     30,
	}
	ref := models.IndustryReference{Industry: "other", ReferencePE: 14, ReferencePB: 1.5}

	rep, err := NewEngine().Valuate(m, ref)
	if err != nil {
		t.Fatalf("Valuate failed: %v", err)
	}
	for _, r := range rep.Methods {
		if (r.FairValue > rep.CurrentPrice) != (r.PremiumPct > 0) {
			t.Errorf("%s: premium sign %v inconsistent with fair value %v vs price %v",
				r.Method, r.PremiumPct, r.FairValue, rep.CurrentPrice)
		}
	}
}

func TestValuateRejectsInvalidMetrics(t *testing.T) {
	_, err := NewEngine().Valuate(models.FinancialMetrics{Ticker: "BAD"}, models.IndustryReference{ReferencePE: 15})
	if err == nil {
		t.Fatal("expected error for non-positive EPS and P/E")
	}
}
