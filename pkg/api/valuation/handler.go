// Package valuation exposes the valuation pipeline over HTTP.
package valuation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"stock_valuation/pkg/core/fetch"
	"stock_valuation/pkg/core/normalize"
	"stock_valuation/pkg/core/pipeline"
	"stock_valuation/pkg/core/report"
	corevaluation "stock_valuation/pkg/core/valuation"
)

var orchestrator *pipeline.Orchestrator

// exampleTickers is shown in "insufficient data" responses so the user has
// something known-good to try.
const exampleTickers = "FPT, VNM, VCB"

// InitHandler wires the handlers to a pipeline orchestrator.
func InitHandler(o *pipeline.Orchestrator) {
	orchestrator = o
}

type ReportRequest struct {
	Ticker string `json:"ticker"`
}

// HandleValuationReport serves POST /api/valuation/report.
func HandleValuationReport(w http.ResponseWriter, r *http.Request) {
	// CORS
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		http.Error(w, "ticker is required", http.StatusBadRequest)
		return
	}

	rep, err := orchestrator.RunForTicker(r.Context(), ticker)
	if err != nil {
		writeRunError(w, ticker, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep)
}

// HandleValuationReportHTML serves GET /api/valuation/report/html?ticker=X.
func HandleValuationReportHTML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ticker := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("ticker")))
	if ticker == "" {
		http.Error(w, "ticker query parameter is required", http.StatusBadRequest)
		return
	}

	rep, err := orchestrator.RunForTicker(r.Context(), ticker)
	if err != nil {
		writeRunError(w, ticker, err)
		return
	}

	html, err := report.HTML(rep)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

// writeRunError maps pipeline errors to HTTP statuses. The two recoverable
// core errors become 422 with an explanatory message; a partially computed
// result is never shown.
func writeRunError(w http.ResponseWriter, ticker string, err error) {
	var incomplete *normalize.IncompleteDataError
	var noMethod *corevaluation.NoApplicableMethodError

	switch {
	case errors.Is(err, fetch.ErrTickerNotFound):
		http.Error(w, fmt.Sprintf("Ticker not found: %s", ticker), http.StatusNotFound)
	case errors.As(err, &incomplete):
		http.Error(w, fmt.Sprintf("Insufficient data for %s (%s). Try a ticker with full ratio coverage, e.g. %s",
			ticker, strings.Join(incomplete.Fields, ", "), exampleTickers), http.StatusUnprocessableEntity)
	case errors.As(err, &noMethod):
		http.Error(w, fmt.Sprintf("Cannot value %s with available data: no valuation method applies. Try e.g. %s",
			ticker, exampleTickers), http.StatusUnprocessableEntity)
	default:
		http.Error(w, fmt.Sprintf("Valuation failed for %s: %v", ticker, err), http.StatusBadGateway)
	}
}
