package valuation

import (
	"fmt"

	"stock_valuation/pkg/models"
)

// Classify maps a consensus premium percentage to a recommendation label.
// Ranges are left-open/right-closed: exactly 15 is HOLD, exactly -5 is
// REDUCE, exactly -20 is SELL.
func Classify(premiumPct float64) models.Recommendation {
	switch {
	case premiumPct > 30:
		return models.StrongBuy
	case premiumPct > 15:
		return models.Buy
	case premiumPct > -5:
		return models.Hold
	case premiumPct > -20:
		return models.Reduce
	default:
		return models.Sell
	}
}

// buildReasons produces the short explanatory lines shown under the
// recommendation.
func buildReasons(m models.FinancialMetrics, c models.Consensus, rec models.Recommendation) []string {
	var reasons []string

	switch rec {
	case models.StrongBuy, models.Buy:
		reasons = append(reasons, fmt.Sprintf("Consensus fair value is %.1f%% above the current price", c.PremiumPct))
	case models.Hold:
		reasons = append(reasons, fmt.Sprintf("Price is within %.1f%% of consensus fair value", c.PremiumPct))
	default:
		reasons = append(reasons, fmt.Sprintf("Consensus fair value is %.1f%% below the current price", -c.PremiumPct))
	}

	if m.ReturnOnEquity > 15 {
		reasons = append(reasons, fmt.Sprintf("ROE of %.1f%% supports a premium multiple", m.ReturnOnEquity))
	} else if m.ReturnOnEquity > 0 && m.ReturnOnEquity <= 5 {
		reasons = append(reasons, fmt.Sprintf("ROE of %.1f%% is too low to justify the market multiple", m.ReturnOnEquity))
	}

	if m.EPSGrowthRate >= 15 {
		reasons = append(reasons, fmt.Sprintf("EPS growth of %.1f%%/year underpins the growth-based estimate", m.EPSGrowthRate))
	} else if m.EPSGrowthRate < 0 {
		reasons = append(reasons, fmt.Sprintf("EPS is shrinking (%.1f%%/year); growth-based methods were skipped", m.EPSGrowthRate))
	}

	if m.DebtToEquity > 2 {
		reasons = append(reasons, fmt.Sprintf("Leverage is elevated (D/E %.1f)", m.DebtToEquity))
	}

	return reasons
}
