package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	apivaluation "stock_valuation/pkg/api/valuation"
	"stock_valuation/pkg/config"
	"stock_valuation/pkg/core/fetch"
	"stock_valuation/pkg/core/industry"
	"stock_valuation/pkg/core/pipeline"
	"stock_valuation/pkg/core/store"
	"stock_valuation/pkg/core/valuation"
)

func main() {
	godotenv.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/valuation.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	industries := loadIndustries(cfg, log)
	engine := buildEngine(cfg)
	fetcher := buildFetcher(cfg, log)

	orch := pipeline.NewOrchestrator(fetcher, industries, engine, log)
	orch.SetBatchLimit(cfg.Pipeline.BatchLimit)

	if cfg.Pipeline.Persist {
		if err := store.InitDB(context.Background()); err != nil {
			log.Warn().Err(err).Msg("database unavailable, reports will not be persisted")
		} else {
			defer store.Close()
			orch.SetRepository(store.NewReportRepo())
		}
	}

	apivaluation.InitHandler(orch)
	http.HandleFunc("/api/valuation/report", apivaluation.HandleValuationReport)
	http.HandleFunc("/api/valuation/report/html", apivaluation.HandleValuationReportHTML)

	log.Info().Str("addr", cfg.Server.Addr).Str("provider", cfg.Provider.Kind).Msg("API server starting")
	if err := http.ListenAndServe(cfg.Server.Addr, nil); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func loadIndustries(cfg *config.Config, log zerolog.Logger) *industry.Table {
	if cfg.IndustryTable == "" {
		return industry.Default()
	}
	t, err := industry.LoadFile(cfg.IndustryTable)
	if err != nil {
		log.Warn().Err(err).Msg("falling back to built-in industry table")
		return industry.Default()
	}
	return t
}

func buildEngine(cfg *config.Config) *valuation.Engine {
	if len(cfg.Weights) == 0 {
		return valuation.NewEngine()
	}
	return valuation.NewEngineWithWeights(valuation.Weights(cfg.Weights))
}

func buildFetcher(cfg *config.Config, log zerolog.Logger) fetch.RatioFetcher {
	if cfg.Provider.Kind == "scrape" {
		return fetch.NewScrapeFetcher(cfg.Provider.ScrapeBaseURL, log)
	}
	client := fetch.NewAPIClient(cfg.Provider.APIBaseURL, log)
	if cfg.Provider.CacheDir != "" {
		client.WithCache(fetch.NewPayloadCache(cfg.Provider.CacheDir))
	}
	return client
}
