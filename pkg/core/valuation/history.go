package valuation

import (
	"math"
	"sort"

	"stock_valuation/pkg/models"
)

// trend classification cutoffs, in average percent per year.
const (
	trendRisingAbove  = 5.0
	trendFallingBelow = -5.0
)

// maxHistoryYears bounds the window the statistics cover.
const maxHistoryYears = 5

// ComputeHistory summarizes the P/E and EPS series across the analyzed years.
// It needs at least two yearly records; otherwise it returns nil. The input
// slice is not reordered.
func ComputeHistory(series []models.FinancialMetrics) *models.HistoryStats {
	byYear := make([]models.FinancialMetrics, len(series))
	copy(byYear, series)
	sort.Slice(byYear, func(i, j int) bool { return byYear[i].FiscalYear < byYear[j].FiscalYear })

	if len(byYear) > maxHistoryYears {
		byYear = byYear[len(byYear)-maxHistoryYears:]
	}
	if len(byYear) < 2 {
		return nil
	}

	var peSeries, epsSeries []float64
	for _, m := range byYear {
		peSeries = append(peSeries, m.PriceToEarnings)
		epsSeries = append(epsSeries, m.EarningsPerShare)
	}

	stats := &models.HistoryStats{
		YearsAnalyzed: len(byYear),
		PEAverage:     mean(peSeries),
		PEMin:         minOf(peSeries),
		PEMax:         maxOf(peSeries),
		PETrend:       trendOf(peSeries),
		EPSTrend:      trendOf(epsSeries),
	}
	return stats
}

// trendOf computes the average year-over-year growth of a series and labels
// its direction.
func trendOf(series []float64) models.Trend {
	var growthSum float64
	var n int
	for i := 1; i < len(series); i++ {
		prev := series[i-1]
		if prev == 0 {
			continue
		}
		growthSum += (series[i] - prev) / math.Abs(prev) * 100
		n++
	}
	if n == 0 {
		return models.Trend{Status: "stable"}
	}

	rate := growthSum / float64(n)
	status := "stable"
	switch {
	case rate > trendRisingAbove:
		status = "rising"
	case rate < trendFallingBelow:
		status = "falling"
	}
	return models.Trend{Status: status, GrowthRate: rate}
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
