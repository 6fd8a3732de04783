package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"stock_valuation/pkg/models"
)

// ReportRepository is the persistence seam the pipeline depends on, so tests
// can substitute an in-memory implementation.
type ReportRepository interface {
	Save(ctx context.Context, report *models.ValuationReport) error
	Load(ctx context.Context, ticker string) (*models.ValuationReport, error)
}

// ReportRepo stores one valuation report per ticker, newest wins.
//
// Schema:
//
//	CREATE TABLE IF NOT EXISTS valuation_reports (
//	  ticker      TEXT PRIMARY KEY,
//	  fiscal_year INT,
//	  report_json JSONB,
//	  updated_at  TIMESTAMPTZ
//	);
type ReportRepo struct{}

// NewReportRepo creates a repository instance.
func NewReportRepo() *ReportRepo {
	return &ReportRepo{}
}

// Save upserts the report by ticker.
func (r *ReportRepo) Save(ctx context.Context, report *models.ValuationReport) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO valuation_reports (ticker, fiscal_year, report_json, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticker)
		DO UPDATE SET
			fiscal_year = EXCLUDED.fiscal_year,
			report_json = EXCLUDED.report_json,
			updated_at  = EXCLUDED.updated_at;
	`

	_, err = pool.Exec(ctx, query, report.Ticker, report.FiscalYear, jsonData, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// Load retrieves the latest stored report for a ticker.
func (r *ReportRepo) Load(ctx context.Context, ticker string) (*models.ValuationReport, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT report_json FROM valuation_reports WHERE ticker = $1`

	var jsonData []byte
	err := pool.QueryRow(ctx, query, ticker).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no report found for ticker %s", ticker)
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var report models.ValuationReport
	if err := json.Unmarshal(jsonData, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}
