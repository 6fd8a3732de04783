package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"stock_valuation/pkg/core/normalize"
)

// scrapeRequestInterval is deliberately slower than the API pace; scraping a
// page is heavier on the provider than hitting its JSON endpoint.
const scrapeRequestInterval = time.Second

// ScrapeFetcher extracts yearly ratios from the provider's HTML ratio table.
// It is the fallback for tickers the JSON endpoint does not cover. The table
// layout is label rows x year columns:
//
//	| Metric  | 2023 | 2022 | ... |
//	| P/E     | 12.5 | 10.1 | ... |
//	| EPS     | 5,2  | 4,8  | ... |
type ScrapeFetcher struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewScrapeFetcher creates a scraper for the given site base URL.
func NewScrapeFetcher(baseURL string, log zerolog.Logger) *ScrapeFetcher {
	return &ScrapeFetcher{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(scrapeRequestInterval), 1),
		log:        log.With().Str("component", "scrape_fetcher").Logger(),
	}
}

// Schema implements RatioFetcher.
func (f *ScrapeFetcher) Schema() normalize.ProviderSchema {
	return normalize.ScrapeSchema
}

// FetchYearly implements RatioFetcher.
func (f *ScrapeFetcher) FetchYearly(ctx context.Context, ticker string) ([]RawRecord, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/stocks/%s/ratios", f.baseURL, url.PathEscape(strings.ToLower(ticker)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("ratio page returned status %d for %s", resp.StatusCode, ticker)
	}

	records, err := ParseRatioTable(io.LimitReader(resp.Body, maxResponseBytes), ticker)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}
	return records, nil
}

// ParseRatioTable reads the first ratio table in the document and pivots it
// into one RawRecord per year column. Exported so tests can feed fixture
// HTML directly.
func ParseRatioTable(r io.Reader, ticker string) ([]RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ratio page: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no ratio table found for %s", ticker)
	}

	// Header: first cell is the metric label column, the rest are years.
	var years []int
	table.Find("thead th, tr:first-child th").Each(func(i int, s *goquery.Selection) {
		if i == 0 {
			return
		}
		if y, ok := normalize.ParseNumber(strings.TrimSpace(s.Text())); ok {
			years = append(years, int(y))
		} else {
			years = append(years, 0)
		}
	})
	if len(years) == 0 {
		return nil, fmt.Errorf("ratio table for %s has no year columns", ticker)
	}

	records := make([]RawRecord, len(years))
	for i, y := range years {
		records[i] = RawRecord{"Ticker": ticker, "Year": y}
	}

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		label := strings.TrimSpace(cells.First().Text())
		if label == "" {
			return
		}
		cells.Each(func(i int, cell *goquery.Selection) {
			if i == 0 || i > len(records) {
				return
			}
			records[i-1][label] = strings.TrimSpace(cell.Text())
		})
	})

	// Drop columns whose year header did not parse.
	var out []RawRecord
	for i, rec := range records {
		if years[i] > 0 {
			out = append(out, rec)
		}
	}
	return out, nil
}
