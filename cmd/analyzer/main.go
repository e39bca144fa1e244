// Package main is the entry point for the portfolio analyzer.
// It loads returns (from CSV or synthesised), reports risk on the current
// weights, optimises the allocation and exports the monthly client summary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-analyzer/internal/config"
	"github.com/aristath/portfolio-analyzer/internal/modules/analysis"
	"github.com/aristath/portfolio-analyzer/internal/modules/marketdata"
	"github.com/aristath/portfolio-analyzer/internal/modules/reporting"
	"github.com/aristath/portfolio-analyzer/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("analytics", cfg.Analytics.String()).Msg("Starting portfolio analyzer")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	universe, err := loadUniverse(cfg, log)
	if err != nil {
		return err
	}

	if cfg.PortfolioValue < cfg.MinPortfolioValue {
		log.Warn().
			Float64("portfolio_value", cfg.PortfolioValue).
			Float64("min_portfolio_value", cfg.MinPortfolioValue).
			Msg("Portfolio value below advisory minimum")
	}

	pipeline := analysis.NewPipeline(cfg.Analytics, log)
	result, err := pipeline.Run(ctx, analysis.Input{
		Returns:  universe.Returns,
		Weights:  universe.Weights,
		Classes:  universe.Classes,
		Notional: cfg.PortfolioValue,
	})
	if err != nil {
		return err
	}

	summary := reporting.NewSummary(reporting.Meta{
		RunID:             result.RunID,
		ClientName:        cfg.ClientName,
		PortfolioValue:    cfg.PortfolioValue,
		MinPortfolioValue: cfg.MinPortfolioValue,
		GeneratedAt:       time.Now(),
	}, result.Risk, &result.OptimizedRisk, result.Optimizations()...)

	fmt.Print(summary.Text())

	paths, err := reporting.NewExporter(cfg.OutputDir, log).Export(summary)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Printf("Report: %s\n", p)
	}
	return nil
}

func loadUniverse(cfg *config.Config, log zerolog.Logger) (*marketdata.Universe, error) {
	if cfg.ReturnsCSV != "" {
		log.Info().Str("path", cfg.ReturnsCSV).Msg("Loading returns")
		return marketdata.NewLoader(log).LoadCSV(cfg.ReturnsCSV)
	}

	log.Info().
		Uint64("seed", cfg.SyntheticSeed).
		Int("periods", cfg.SyntheticPeriods).
		Msg("Generating synthetic returns")
	return marketdata.Synthesize(marketdata.SyntheticOptions{
		Assets:  marketdata.DefaultUniverse(),
		Periods: cfg.SyntheticPeriods,
		Seed:    cfg.SyntheticSeed,
	})
}
