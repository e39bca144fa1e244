// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	LogLevel  string
	LogPretty bool

	ClientName        string
	PortfolioValue    float64
	MinPortfolioValue float64 // Below this notional the analyzer warns

	ReturnsCSV       string // Empty = synthesise returns
	SyntheticSeed    uint64
	SyntheticPeriods int

	ScenariosFile string // Empty = built-in stress catalog
	OutputDir     string // Always absolute

	Analytics Analytics
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	outputDir, err := filepath.Abs(getEnv("OUTPUT_DIR", "outputs/reports"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory path: %w", err)
	}

	analytics := DefaultAnalytics()
	analytics.ConfidenceLevel = getEnvAsFloat("CONFIDENCE_LEVEL", analytics.ConfidenceLevel)
	analytics.RiskFreeRate = getEnvAsFloat("RISK_FREE_RATE", analytics.RiskFreeRate)
	analytics.PeriodsPerYear = getEnvAsInt("TRADING_DAYS", analytics.PeriodsPerYear)
	analytics.MinWeight = getEnvAsFloat("MIN_WEIGHT", analytics.MinWeight)
	analytics.MaxWeight = getEnvAsFloat("MAX_WEIGHT", analytics.MaxWeight)
	analytics.Solver.MaxIterations = getEnvAsInt("SOLVER_MAX_ITERATIONS", analytics.Solver.MaxIterations)
	analytics.Solver.Tolerance = getEnvAsFloat("SOLVER_TOLERANCE", analytics.Solver.Tolerance)

	cfg := &Config{
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogPretty:         getEnvAsBool("LOG_PRETTY", true),
		ClientName:        getEnv("CLIENT_NAME", "Client StoneInvest"),
		PortfolioValue:    getEnvAsFloat("PORTFOLIO_VALUE", 2_500_000),
		MinPortfolioValue: getEnvAsFloat("MIN_PORTFOLIO_VALUE", 2_000_000),
		ReturnsCSV:        getEnv("RETURNS_CSV", ""),
		SyntheticSeed:     uint64(getEnvAsInt("SYNTHETIC_SEED", 42)),
		SyntheticPeriods:  getEnvAsInt("SYNTHETIC_PERIODS", 1513),
		ScenariosFile:     getEnv("STRESS_SCENARIOS_FILE", ""),
		OutputDir:         outputDir,
		Analytics:         analytics,
	}

	if cfg.ScenariosFile != "" {
		scenarios, err := LoadScenarios(cfg.ScenariosFile)
		if err != nil {
			return nil, err
		}
		cfg.Analytics.Scenarios = scenarios
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.PortfolioValue <= 0 {
		return fmt.Errorf("PORTFOLIO_VALUE must be positive, got %v", c.PortfolioValue)
	}
	if c.SyntheticPeriods < 2 {
		return fmt.Errorf("SYNTHETIC_PERIODS must be at least 2, got %d", c.SyntheticPeriods)
	}
	return c.Analytics.Validate()
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
