package reporting

import (
	"fmt"

	charts "github.com/vicanso/go-charts/v2"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

const (
	chartWidth  = 800
	chartHeight = 600
)

// RenderAllocationChart draws the allocation of one optimization result as a PNG pie.
func RenderAllocationChart(result domain.OptimizationResult) ([]byte, error) {
	if len(result.Allocations) == 0 {
		return nil, fmt.Errorf("no allocations to chart")
	}

	values := make([]float64, len(result.Allocations))
	labels := make([]string, len(result.Allocations))
	for i, a := range result.Allocations {
		values[i] = a.WeightPct
		labels[i] = fmt.Sprintf("%s (%.1f%%)", a.Asset, a.WeightPct)
	}

	p, err := charts.PieRender(
		values,
		charts.TitleTextOptionFunc(fmt.Sprintf("Allocation: %s", result.Strategy)),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: labels,
			Top:  charts.PositionBottom,
		}),
		charts.PNGTypeOption(),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render allocation chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode allocation chart: %w", err)
	}
	return buf, nil
}

// RenderStressChart draws the loss of each stress scenario, in percent of
// the portfolio, as a PNG bar chart. Losses plot upward.
func RenderStressChart(results []domain.StressResult) ([]byte, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("no stress results to chart")
	}

	losses := make([]float64, len(results))
	names := make([]string, len(results))
	for i, r := range results {
		losses[i] = -r.LossPct
		names[i] = r.Scenario
	}

	p, err := charts.BarRender(
		[][]float64{losses},
		charts.TitleTextOptionFunc("Stress tests", "loss in % of portfolio"),
		charts.XAxisDataOptionFunc(names),
		charts.PNGTypeOption(),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(chartWidth),
		charts.HeightOptionFunc(chartHeight),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render stress chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode stress chart: %w", err)
	}
	return buf, nil
}
