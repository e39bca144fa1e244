// Package reporting turns risk and optimization results into the monthly
// client summary and exports it.
package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// Rounding applied to presented figures.
const (
	percentPlaces = 2
	ratioPlaces   = 4
	amountPlaces  = 2
)

// MonthLayout formats the report month.
const MonthLayout = "2006-01"

// Meta identifies one report.
type Meta struct {
	RunID          string
	ClientName     string
	PortfolioValue float64
	// MinPortfolioValue is the advisory threshold; zero disables the check.
	MinPortfolioValue float64
	GeneratedAt       time.Time
}

// Summary is the monthly client summary. Figures are rounded for
// presentation; unrounded values stay with the caller.
type Summary struct {
	RunID          string                      `json:"run_id" msgpack:"run_id"`
	ClientName     string                      `json:"client_name" msgpack:"client_name"`
	PortfolioValue float64                     `json:"portfolio_value" msgpack:"portfolio_value"`
	ReportMonth    string                      `json:"report_month" msgpack:"report_month"`
	GeneratedAt    time.Time                   `json:"generated_at" msgpack:"generated_at"`
	BelowMinimum   bool                        `json:"below_minimum" msgpack:"below_minimum"`
	Risk           domain.RiskReport           `json:"risk" msgpack:"risk"`
	Optimizations  []domain.OptimizationResult `json:"optimizations" msgpack:"optimizations"`
	// OptimizedRisk is the risk report of the first optimization's weights, when computed.
	OptimizedRisk *domain.RiskReport `json:"optimized_risk,omitempty" msgpack:"optimized_risk,omitempty"`
}

// NewSummary assembles a rounded summary. The first optimization result is
// the recommended allocation.
func NewSummary(meta Meta, risk domain.RiskReport, optimizedRisk *domain.RiskReport, results ...domain.OptimizationResult) *Summary {
	generated := meta.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	s := &Summary{
		RunID:          meta.RunID,
		ClientName:     meta.ClientName,
		PortfolioValue: round(meta.PortfolioValue, amountPlaces),
		ReportMonth:    generated.Format(MonthLayout),
		GeneratedAt:    generated,
		BelowMinimum:   meta.MinPortfolioValue > 0 && meta.PortfolioValue < meta.MinPortfolioValue,
		Risk:           roundRisk(risk),
		Optimizations:  make([]domain.OptimizationResult, len(results)),
	}
	for i, r := range results {
		s.Optimizations[i] = roundOptimization(r)
	}
	if optimizedRisk != nil {
		rounded := roundRisk(*optimizedRisk)
		s.OptimizedRisk = &rounded
	}
	return s
}

// WriteJSON writes the summary as indented JSON.
func (s *Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode summary as JSON: %w", err)
	}
	return nil
}

// WriteMsgpack writes the summary as MessagePack.
func (s *Summary) WriteMsgpack(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("failed to encode summary as msgpack: %w", err)
	}
	return nil
}

// Text renders the summary as a plain-text sheet.
func (s *Summary) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Monthly Report: %s\n", s.ClientName)
	fmt.Fprintf(&b, "Value: %s EUR | %s\n", formatAmount(s.PortfolioValue), s.ReportMonth)
	if s.BelowMinimum {
		b.WriteString("Warning: portfolio value below the advisory minimum\n")
	}

	b.WriteString("\nRISK METRICS\n")
	writeRisk(&b, s.Risk)

	for _, opt := range s.Optimizations {
		fmt.Fprintf(&b, "\nOPTIMIZED ALLOCATION (%s)\n", opt.Strategy)
		fmt.Fprintf(&b, "  %-22s %10.2f%%\n", "Expected return", opt.ReturnPct)
		fmt.Fprintf(&b, "  %-22s %10.2f%%\n", "Volatility", opt.VolatilityPct)
		fmt.Fprintf(&b, "  %-22s %10.4f\n", "Sharpe ratio", opt.SharpeRatio)
		for _, a := range opt.Allocations {
			fmt.Fprintf(&b, "  %-22s %10.2f%%\n", a.Asset, a.WeightPct)
		}
	}

	if s.OptimizedRisk != nil {
		b.WriteString("\nRISK METRICS (OPTIMIZED)\n")
		writeRisk(&b, *s.OptimizedRisk)
	}

	return b.String()
}

func writeRisk(b *strings.Builder, r domain.RiskReport) {
	fmt.Fprintf(b, "  %-22s %10.2f%%\n", "Volatility", r.VolatilityPct)
	fmt.Fprintf(b, "  %-22s %10.4f\n", "Sharpe ratio", r.SharpeRatio)
	fmt.Fprintf(b, "  %-22s %10.2f%%\n", "Max drawdown", r.MaxDrawdownPct)
	fmt.Fprintf(b, "  %-22s %10.2f%% %16s\n", "VaR (parametric)", r.ParametricVaRPct, formatAmount(r.ParametricVaRAmount))
	fmt.Fprintf(b, "  %-22s %10.2f%% %16s\n", "VaR (historical)", r.HistoricalVaRPct, formatAmount(r.HistoricalVaRAmount))
	fmt.Fprintf(b, "  %-22s %10.2f%% %16s\n", "CVaR", r.CVaRPct, formatAmount(r.CVaRAmount))

	if len(r.StressTests) == 0 {
		return
	}
	b.WriteString("\n  STRESS TESTS\n")
	for _, st := range r.StressTests {
		fmt.Fprintf(b, "  %-22s %16s %16s %8.2f%%\n", st.Scenario, formatAmount(st.StressedValue), formatAmount(st.Loss), st.LossPct)
	}
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func roundRisk(r domain.RiskReport) domain.RiskReport {
	out := domain.RiskReport{
		VolatilityPct:       round(r.VolatilityPct, percentPlaces),
		SharpeRatio:         round(r.SharpeRatio, ratioPlaces),
		MaxDrawdownPct:      round(r.MaxDrawdownPct, percentPlaces),
		ParametricVaRPct:    round(r.ParametricVaRPct, percentPlaces),
		ParametricVaRAmount: round(r.ParametricVaRAmount, amountPlaces),
		HistoricalVaRPct:    round(r.HistoricalVaRPct, percentPlaces),
		HistoricalVaRAmount: round(r.HistoricalVaRAmount, amountPlaces),
		CVaRPct:             round(r.CVaRPct, percentPlaces),
		CVaRAmount:          round(r.CVaRAmount, amountPlaces),
		StressTests:         make([]domain.StressResult, len(r.StressTests)),
	}
	for i, st := range r.StressTests {
		out.StressTests[i] = domain.StressResult{
			Scenario:      st.Scenario,
			StressedValue: round(st.StressedValue, amountPlaces),
			Loss:          round(st.Loss, amountPlaces),
			LossPct:       round(st.LossPct, percentPlaces),
		}
	}
	return out
}

func roundOptimization(r domain.OptimizationResult) domain.OptimizationResult {
	out := domain.OptimizationResult{
		Strategy:      r.Strategy,
		ReturnPct:     round(r.ReturnPct, percentPlaces),
		VolatilityPct: round(r.VolatilityPct, percentPlaces),
		SharpeRatio:   round(r.SharpeRatio, ratioPlaces),
		Allocations:   make([]domain.Allocation, len(r.Allocations)),
	}
	for i, a := range r.Allocations {
		out.Allocations[i] = domain.Allocation{Asset: a.Asset, WeightPct: round(a.WeightPct, percentPlaces)}
	}
	return out
}

// formatAmount renders a currency amount with thousands separators and no decimals.
func formatAmount(v float64) string {
	s := decimal.NewFromFloat(v).Round(0).Abs().String()
	var b strings.Builder
	if v < 0 && s != "0" {
		b.WriteByte('-')
	}
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
