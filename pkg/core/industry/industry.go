// Package industry provides the read-only table of per-industry reference
// multiples and the ticker classification used to pick one. The table is
// loaded once at startup and never mutated afterwards, so lookups are safe
// from any goroutine.
package industry

import (
	"fmt"
	"os"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"

	"stock_valuation/pkg/models"
)

// OtherIndustry is the classification applied to tickers the table does not
// know.
const OtherIndustry = "other"

// Table maps industries to reference multiples and tickers to industries.
type Table struct {
	refs    map[string]models.IndustryReference
	tickers map[string]string
}

// Default returns the compiled-in table. It is the fallback when no resource
// file is configured.
func Default() *Table {
	return &Table{refs: defaultRefs(), tickers: defaultTickers()}
}

// fileFormat is the on-disk HJSON shape. HJSON so the hand-maintained table
// can carry comments and skip quoting.
type fileFormat struct {
	Industries map[string]struct {
		PE float64 `json:"pe"`
		PB float64 `json:"pb"`
		PS float64 `json:"ps"`
	} `json:"industries"`
	Tickers map[string]string `json:"tickers"`
}

// LoadFile reads an HJSON resource and merges it over the compiled-in
// defaults: file entries win, everything else survives.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read industry table: %w", err)
	}

	var ff fileFormat
	if err := hjson.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("failed to parse industry table %s: %w", path, err)
	}

	t := Default()
	for name, ref := range ff.Industries {
		name = strings.ToLower(name)
		t.refs[name] = models.IndustryReference{
			Industry:    name,
			ReferencePE: ref.PE,
			ReferencePB: ref.PB,
			ReferencePS: ref.PS,
		}
	}
	for ticker, ind := range ff.Tickers {
		t.tickers[strings.ToUpper(ticker)] = strings.ToLower(ind)
	}
	return t, nil
}

// Lookup returns the reference multiples for a ticker's industry, falling
// back to the "other" reference for unclassified tickers.
func (t *Table) Lookup(ticker string) models.IndustryReference {
	ind, ok := t.tickers[strings.ToUpper(ticker)]
	if !ok {
		ind = OtherIndustry
	}
	if ref, ok := t.refs[ind]; ok {
		return ref
	}
	return t.refs[OtherIndustry]
}

// Reference returns the multiples for an industry name directly.
func (t *Table) Reference(industryName string) (models.IndustryReference, bool) {
	ref, ok := t.refs[strings.ToLower(industryName)]
	return ref, ok
}

// Industry returns the classification for a ticker.
func (t *Table) Industry(ticker string) string {
	if ind, ok := t.tickers[strings.ToUpper(ticker)]; ok {
		return ind
	}
	return OtherIndustry
}

func defaultRefs() map[string]models.IndustryReference {
	mk := func(name string, pe, pb, ps float64) models.IndustryReference {
		return models.IndustryReference{Industry: name, ReferencePE: pe, ReferencePB: pb, ReferencePS: ps}
	}
	return map[string]models.IndustryReference{
		"banking":     mk("banking", 10, 1.5, 0),
		"technology":  mk("technology", 18, 3.0, 2.5),
		"consumer":    mk("consumer", 16, 2.5, 1.5),
		"real_estate": mk("real_estate", 12, 1.8, 2.0),
		"utilities":   mk("utilities", 13, 1.6, 1.2),
		"industrials": mk("industrials", 12, 1.5, 0.8),
		"energy":      mk("energy", 11, 1.4, 0.9),
		OtherIndustry: mk(OtherIndustry, 14, 1.8, 1.2),
	}
}

func defaultTickers() map[string]string {
	return map[string]string{
		"FPT": "technology",
		"CMG": "technology",
		"VNM": "consumer",
		"MSN": "consumer",
		"MWG": "consumer",
		"SAB": "consumer",
		"VCB": "banking",
		"BID": "banking",
		"CTG": "banking",
		"TCB": "banking",
		"ACB": "banking",
		"VIC": "real_estate",
		"VHM": "real_estate",
		"NVL": "real_estate",
		"KDH": "real_estate",
		"GAS": "energy",
		"PLX": "energy",
		"POW": "utilities",
		"REE": "utilities",
		"HPG": "industrials",
		"HSG": "industrials",
	}
}
