package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"stock_valuation/pkg/core/normalize"
)

const (
	// UserAgent identifies this client to the ratio endpoint.
	UserAgent = "stock-valuation/1.0"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 4 << 20

	// apiRequestInterval paces requests to stay under the provider's limit.
	apiRequestInterval = 250 * time.Millisecond
)

// APIClient fetches yearly ratio records from the JSON ratio endpoint.
// Requests are paced with a shared rate limiter; a payload cache, when
// configured, serves stale data if the endpoint is unreachable.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *PayloadCache
	log        zerolog.Logger
}

// NewAPIClient creates a client for the given endpoint base URL.
func NewAPIClient(baseURL string, log zerolog.Logger) *APIClient {
	return &APIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(apiRequestInterval), 1),
		log:        log.With().Str("component", "api_client").Logger(),
	}
}

// WithCache attaches a payload cache and returns the client.
func (c *APIClient) WithCache(cache *PayloadCache) *APIClient {
	c.cache = cache
	return c
}

// Schema implements RatioFetcher.
func (c *APIClient) Schema() normalize.ProviderSchema {
	return normalize.APISchema
}

// FetchYearly implements RatioFetcher. The endpoint returns the yearly ratio
// rows most-recent-first already; the order is preserved.
func (c *APIClient) FetchYearly(ctx context.Context, ticker string) ([]RawRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/stock/%s/financial-ratios?period=yearly", c.baseURL, url.PathEscape(ticker))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		if cached := c.cachedPayload(ticker); cached != nil {
			c.log.Warn().Str("ticker", ticker).Err(err).Msg("endpoint unreachable, serving cached payload")
			body = cached
		} else {
			return nil, err
		}
	} else if c.cache != nil {
		if cerr := c.cache.Set(c.Schema().Name, ticker, body); cerr != nil {
			c.log.Warn().Str("ticker", ticker).Err(cerr).Msg("failed to cache payload")
		}
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ratio payload for %s: %w", ticker, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	// Stamp the symbol so the normalizer always has it, whatever the
	// endpoint's field naming.
	for _, r := range records {
		if _, ok := r["ticker"]; !ok {
			r["ticker"] = ticker
		}
	}
	return records, nil
}

func (c *APIClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, endpoint)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("ratio endpoint returned status %d for %s", resp.StatusCode, endpoint)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
}

func (c *APIClient) cachedPayload(ticker string) []byte {
	if c.cache == nil {
		return nil
	}
	return c.cache.Get(c.Schema().Name, ticker)
}

// decodeRecords parses the payload as a bare array or a {"data": [...]}
// wrapper. The legacy endpoint occasionally emits sloppy JSON (unquoted keys,
// trailing commas), so a strict-parse failure gets one repair pass before
// giving up.
func decodeRecords(body []byte) ([]RawRecord, error) {
	records, err := decodeStrict(body)
	if err == nil {
		return records, nil
	}

	repaired, rerr := jsonrepair.RepairJSON(string(body))
	if rerr != nil {
		return nil, err
	}
	return decodeStrict([]byte(repaired))
}

func decodeStrict(body []byte) ([]RawRecord, error) {
	var records []RawRecord
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var wrapper struct {
		Data []RawRecord `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Data, nil
}
