// Package normalize converts raw, provider-shaped ratio records into the
// canonical models.FinancialMetrics form. It is the single seam between the
// external providers' schemas and the valuation engine.
package normalize

// Field names one logical metric inside a raw provider record.
type Field string

const (
	FieldTicker       Field = "ticker"
	FieldYear         Field = "fiscal_year"
	FieldPE           Field = "price_to_earnings"
	FieldPB           Field = "price_to_book"
	FieldPS           Field = "price_to_sales"
	FieldEPS          Field = "earnings_per_share"
	FieldBVPS         Field = "book_value_per_share"
	FieldROE          Field = "return_on_equity"
	FieldROA          Field = "return_on_assets"
	FieldGrossMargin  Field = "gross_margin"
	FieldNetMargin    Field = "net_margin"
	FieldCurrentRatio Field = "current_ratio"
	FieldDebtToEquity Field = "debt_to_equity"
	FieldEPSGrowth    Field = "eps_growth_rate"
)

// ProviderSchema declares how one provider spells its fields and which unit
// conversions apply. Alias lists are ordered: the first present, parseable,
// non-null value wins. The scale constants are documented per provider and
// never inferred from the data itself.
type ProviderSchema struct {
	Name string

	// ScaleFactor multiplies EPS and BVPS. Some providers report per-share
	// monetary values in thousandths of the display currency.
	ScaleFactor float64

	// PercentScale multiplies the profitability/growth percentage fields.
	// Providers that report ROE as 0.18 instead of 18 set this to 100.
	PercentScale float64

	Aliases map[Field][]string
}

func (s ProviderSchema) aliases(f Field) []string {
	return s.Aliases[f]
}

// scaleFactor returns the EPS/BVPS multiplier, defaulting to 1.
func (s ProviderSchema) scaleFactor() float64 {
	if s.ScaleFactor == 0 {
		return 1
	}
	return s.ScaleFactor
}

// percentScale returns the percentage multiplier, defaulting to 1.
func (s ProviderSchema) percentScale() float64 {
	if s.PercentScale == 0 {
		return 1
	}
	return s.PercentScale
}

// APISchema matches the flat camelCase records returned by the JSON ratio
// endpoint. ROE/ROA/margins arrive as fractions, so PercentScale is 100.
var APISchema = ProviderSchema{
	Name:         "api",
	ScaleFactor:  1,
	PercentScale: 100,
	Aliases: map[Field][]string{
		FieldTicker:       {"ticker", "symbol"},
		FieldYear:         {"year", "yearReport", "fiscalYear"},
		FieldPE:           {"priceToEarning", "pe", "peRatio"},
		FieldPB:           {"priceToBook", "pb", "pbRatio"},
		FieldPS:           {"priceToSale", "ps", "psRatio"},
		FieldEPS:          {"earningPerShare", "eps", "basicEps"},
		FieldBVPS:         {"bookValuePerShare", "bvps"},
		FieldROE:          {"roe", "returnOnEquity"},
		FieldROA:          {"roa", "returnOnAssets"},
		FieldGrossMargin:  {"grossProfitMargin", "grossMargin"},
		FieldNetMargin:    {"postTaxMargin", "netProfitMargin", "netMargin"},
		FieldCurrentRatio: {"currentPayment", "currentRatio"},
		FieldDebtToEquity: {"debtOnEquity", "debtToEquity", "de"},
		FieldEPSGrowth:    {"epsChange", "epsGrowth", "epsGrowthRate"},
	},
}

// ScrapeSchema matches the human-readable row labels produced by the HTML
// ratio-table scraper. Percentages already arrive on the 0-100 scale.
var ScrapeSchema = ProviderSchema{
	Name:         "scrape",
	ScaleFactor:  1000, // page shows EPS/BVPS in thousands of the currency
	PercentScale: 1,
	Aliases: map[Field][]string{
		FieldTicker:       {"Ticker", "Symbol"},
		FieldYear:         {"Year", "Fiscal Year"},
		FieldPE:           {"P/E", "P/E Ratio", "PE Ratio", "Price to Earnings"},
		FieldPB:           {"P/B", "P/B Ratio", "PB Ratio", "Price to Book"},
		FieldPS:           {"P/S", "P/S Ratio", "PS Ratio", "Price to Sales"},
		FieldEPS:          {"EPS", "EPS (000s)", "Earnings Per Share"},
		FieldBVPS:         {"BVPS", "BVPS (000s)", "Book Value Per Share"},
		FieldROE:          {"ROE", "ROE (%)", "Return on Equity"},
		FieldROA:          {"ROA", "ROA (%)", "Return on Assets"},
		FieldGrossMargin:  {"Gross Margin", "Gross Margin (%)"},
		FieldNetMargin:    {"Net Margin", "Net Margin (%)", "Profit Margin"},
		FieldCurrentRatio: {"Current Ratio"},
		FieldDebtToEquity: {"Debt/Equity", "Debt to Equity", "D/E"},
		FieldEPSGrowth:    {"EPS Growth", "EPS Growth (%)", "EPS Growth (YoY)"},
	},
}
