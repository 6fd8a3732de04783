// Package report renders a ValuationReport for humans: plain text for the
// CLI, markdown for export, and goldmark-converted HTML for the API.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"stock_valuation/pkg/models"
)

// md renders the markdown report; GFM for the method table.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// methodLabels maps method identifiers to display names.
var methodLabels = map[string]string{
	"pe_industry": "Industry P/E",
	"pb_industry": "Industry P/B",
	"ps_industry": "Industry P/S",
	"peg":         "Growth (PEG~1)",
	"roe_based":   "ROE-justified P/E",
}

func methodLabel(method string) string {
	if l, ok := methodLabels[method]; ok {
		return l
	}
	return method
}

// Text renders the CLI report.
func Text(r *models.ValuationReport) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintf(&b, "%s\nSTOCK VALUATION: %s (FY%d, %s)\n%s\n\n", rule, r.Ticker, r.FiscalYear, r.Industry, rule)
	fmt.Fprintf(&b, "Current price (P/E x EPS proxy): %.0f\n\n", r.CurrentPrice)

	if h := r.History; h != nil {
		fmt.Fprintf(&b, "P/E statistics (%d years):\n", h.YearsAnalyzed)
		fmt.Fprintf(&b, "  average %.2fx, min %.2fx, max %.2fx\n", h.PEAverage, h.PEMin, h.PEMax)
		fmt.Fprintf(&b, "  P/E trend:  %s (%+.1f%%/year)\n", h.PETrend.Status, h.PETrend.GrowthRate)
		fmt.Fprintf(&b, "  EPS trend:  %s (%+.1f%%/year)\n\n", h.EPSTrend.Status, h.EPSTrend.GrowthRate)
	}

	b.WriteString("Fair value estimates:\n")
	for _, m := range r.Methods {
		fmt.Fprintf(&b, "  %-20s %12.0f  (%+.1f%%)\n", methodLabel(m.Method), m.FairValue, m.PremiumPct)
	}
	fmt.Fprintf(&b, "  %-20s %12.0f  (%+.1f%%)\n\n", "Consensus", r.Consensus.FairValue, r.Consensus.PremiumPct)

	fmt.Fprintf(&b, "Recommendation: %s\n", r.Recommendation)
	for i, reason := range r.Reasons {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, reason)
	}
	fmt.Fprintf(&b, "\n%s\n", rule)

	return b.String()
}

// Markdown renders the report as a markdown document.
func Markdown(r *models.ValuationReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s fair value report\n\n", r.Ticker)
	fmt.Fprintf(&b, "Fiscal year %d, industry `%s`. ", r.FiscalYear, r.Industry)
	fmt.Fprintf(&b, "Current price proxy (P/E x EPS): **%.0f**.\n\n", r.CurrentPrice)

	b.WriteString("| Method | Fair value | Premium |\n|---|---:|---:|\n")
	for _, m := range r.Methods {
		fmt.Fprintf(&b, "| %s | %.0f | %+.1f%% |\n", methodLabel(m.Method), m.FairValue, m.PremiumPct)
	}
	fmt.Fprintf(&b, "| **Consensus** | **%.0f** | **%+.1f%%** |\n\n", r.Consensus.FairValue, r.Consensus.PremiumPct)

	fmt.Fprintf(&b, "## Recommendation: %s\n\n", r.Recommendation)
	for _, reason := range r.Reasons {
		fmt.Fprintf(&b, "- %s\n", reason)
	}

	if h := r.History; h != nil {
		fmt.Fprintf(&b, "\n## History (%d years)\n\n", h.YearsAnalyzed)
		fmt.Fprintf(&b, "- P/E average %.2fx (min %.2fx, max %.2fx)\n", h.PEAverage, h.PEMin, h.PEMax)
		fmt.Fprintf(&b, "- P/E trend %s (%+.1f%%/year)\n", h.PETrend.Status, h.PETrend.GrowthRate)
		fmt.Fprintf(&b, "- EPS trend %s (%+.1f%%/year)\n", h.EPSTrend.Status, h.EPSTrend.GrowthRate)
	}

	return b.String()
}

// HTML converts the markdown rendering to HTML.
func HTML(r *models.ValuationReport) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(r)), &buf); err != nil {
		return "", fmt.Errorf("failed to render report HTML: %w", err)
	}
	return buf.String(), nil
}
