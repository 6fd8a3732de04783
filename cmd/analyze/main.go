// Command analyze values one or more tickers from the command line.
//
// Usage:
//
//	analyze FPT
//	analyze VNM --json
//	analyze FPT VNM VIC
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"stock_valuation/pkg/config"
	"stock_valuation/pkg/core/fetch"
	"stock_valuation/pkg/core/industry"
	"stock_valuation/pkg/core/normalize"
	"stock_valuation/pkg/core/pipeline"
	"stock_valuation/pkg/core/report"
	"stock_valuation/pkg/core/valuation"
)

const usage = `Stock fair-value analyzer

Usage:
  analyze <TICKER> [<TICKER>...] [--json]

Examples:
  analyze FPT
  analyze VNM --json
  analyze FPT VNM VIC

Computes fair-value estimates from the last five years of financial ratios,
blends them into a weighted consensus and prints a recommendation.`

func main() {
	godotenv.Load()

	var tickers []string
	outputJSON := false
	for _, arg := range os.Args[1:] {
		if arg == "--json" {
			outputJSON = true
			continue
		}
		tickers = append(tickers, strings.ToUpper(arg))
	}
	if len(tickers) == 0 {
		fmt.Println(usage)
		os.Exit(1)
	}

	// Keep CLI output clean; only warnings and errors reach stderr.
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/valuation.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	industries := industry.Default()
	if cfg.IndustryTable != "" {
		if t, err := industry.LoadFile(cfg.IndustryTable); err == nil {
			industries = t
		}
	}

	engine := valuation.NewEngine()
	if len(cfg.Weights) > 0 {
		engine = valuation.NewEngineWithWeights(valuation.Weights(cfg.Weights))
	}

	var fetcher fetch.RatioFetcher
	if cfg.Provider.Kind == "scrape" {
		fetcher = fetch.NewScrapeFetcher(cfg.Provider.ScrapeBaseURL, log)
	} else {
		client := fetch.NewAPIClient(cfg.Provider.APIBaseURL, log)
		if cfg.Provider.CacheDir != "" {
			client.WithCache(fetch.NewPayloadCache(cfg.Provider.CacheDir))
		}
		fetcher = client
	}

	orch := pipeline.NewOrchestrator(fetcher, industries, engine, log)

	ctx := context.Background()
	exitCode := 0
	for _, ticker := range tickers {
		rep, err := orch.RunForTicker(ctx, ticker)
		if err != nil {
			printRunError(ticker, err)
			exitCode = 1
			continue
		}

		if outputJSON {
			data, _ := json.MarshalIndent(rep, "", "  ")
			fmt.Println(string(data))
		} else {
			fmt.Println(report.Text(rep))
		}
	}
	os.Exit(exitCode)
}

func printRunError(ticker string, err error) {
	var incomplete *normalize.IncompleteDataError
	var noMethod *valuation.NoApplicableMethodError

	switch {
	case errors.Is(err, fetch.ErrTickerNotFound):
		fmt.Fprintf(os.Stderr, "%s: ticker not found. Try e.g. FPT, VNM, VCB.\n", ticker)
	case errors.As(err, &incomplete):
		fmt.Fprintf(os.Stderr, "%s: insufficient data (%s missing or non-positive). Try e.g. FPT, VNM, VCB.\n",
			ticker, strings.Join(incomplete.Fields, ", "))
	case errors.As(err, &noMethod):
		fmt.Fprintf(os.Stderr, "%s: cannot value with available data, no valuation method applies. Try e.g. FPT, VNM, VCB.\n", ticker)
	default:
		fmt.Fprintf(os.Stderr, "%s: %v\n", ticker, err)
	}
}
