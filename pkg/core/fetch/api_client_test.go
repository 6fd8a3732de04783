package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *APIClient {
	return NewAPIClient(url, zerolog.Nop())
}

func TestFetchYearlyArrayPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/FPT/financial-ratios", r.URL.Path)
		assert.Equal(t, "yearly", r.URL.Query().Get("period"))
		w.Write([]byte(`[
			{"year": 2023, "priceToEarning": 12.0, "earningPerShare": 5000},
			{"year": 2022, "priceToEarning": 10.5, "earningPerShare": 4600}
		]`))
	}))
	defer srv.Close()

	records, err := newTestClient(srv.URL).FetchYearly(context.Background(), "FPT")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2023.0, records[0]["year"])
	// The client stamps the symbol when the payload lacks it.
	assert.Equal(t, "FPT", records[0]["ticker"])
}

func TestFetchYearlyWrapperPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"year": 2023, "priceToEarning": 9.9, "earningPerShare": 3000}]}`))
	}))
	defer srv.Close()

	records, err := newTestClient(srv.URL).FetchYearly(context.Background(), "VNM")
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestFetchYearlyRepairsSloppyJSON(t *testing.T) {
	// Unquoted keys and a trailing comma: strict decoding fails, the repair
	// pass recovers it.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{year: 2023, priceToEarning: 8.8, earningPerShare: 2500,}]`))
	}))
	defer srv.Close()

	records, err := newTestClient(srv.URL).FetchYearly(context.Background(), "HPG")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2023.0, records[0]["year"])
}

func TestFetchYearlyNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchYearly(context.Background(), "NOPE")
	assert.True(t, errors.Is(err, ErrTickerNotFound))
}

func TestFetchYearlyEmptyPayloadIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchYearly(context.Background(), "EMPTY")
	assert.True(t, errors.Is(err, ErrTickerNotFound))
}

func TestFetchYearlyFallsBackToCache(t *testing.T) {
	cache := NewPayloadCache(t.TempDir())

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`[{"year": 2023, "priceToEarning": 12.0, "earningPerShare": 5000}]`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL).WithCache(cache)

	// First fetch populates the cache.
	_, err := client.FetchYearly(context.Background(), "FPT")
	require.NoError(t, err)

	// Endpoint now failing: the cached payload still serves the request.
	records, err := client.FetchYearly(context.Background(), "FPT")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 12.0, records[0]["priceToEarning"])
}
