package risk

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/portfolio-analyzer/internal/config"
	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// wavyReturns builds a deterministic, non-trivial return matrix.
func wavyReturns(t *testing.T, periods int) *domain.ReturnMatrix {
	t.Helper()
	rows := make([][]float64, periods)
	for i := range rows {
		x := float64(i)
		rows[i] = []float64{
			0.0008 + 0.012*math.Sin(x*0.7),
			0.0002 + 0.006*math.Cos(x*1.3),
			0.0010 + 0.008*math.Sin(x*0.31+1),
		}
	}
	m, err := domain.NewReturnMatrix([]string{"EQ", "BD", "RE"}, rows)
	require.NoError(t, err)
	return m
}

func singleAsset(t *testing.T, series ...float64) *domain.ReturnMatrix {
	t.Helper()
	rows := make([][]float64, len(series))
	for i, r := range series {
		rows[i] = []float64{r}
	}
	m, err := domain.NewReturnMatrix([]string{"A"}, rows)
	require.NoError(t, err)
	return m
}

func newEngine(t *testing.T, m *domain.ReturnMatrix, weights []float64, notional float64) *Engine {
	t.Helper()
	e, err := NewEngine(m, weights, notional, config.DefaultAnalytics(), zerolog.Nop())
	require.NoError(t, err)
	return e
}

func TestNewEngine_PortfolioReturnsAreDotProducts(t *testing.T) {
	m, err := domain.NewReturnMatrix([]string{"A", "B"}, [][]float64{
		{0.01, 0.03},
		{-0.02, 0.01},
	})
	require.NoError(t, err)

	e := newEngine(t, m, []float64{0.6, 0.4}, 1_000_000)
	assert.InDeltaSlice(t, []float64{0.018, -0.008}, e.PortfolioReturns(), 1e-15)
}

func TestNewEngine_InvalidInput(t *testing.T) {
	m := wavyReturns(t, 10)

	tests := []struct {
		name     string
		returns  *domain.ReturnMatrix
		weights  []float64
		notional float64
		cfg      func(*config.Analytics)
	}{
		{"nil matrix", nil, []float64{1}, 1, nil},
		{"weight count mismatch", m, []float64{0.5, 0.5}, 1, nil},
		{"non-finite weight", m, []float64{0.5, math.NaN(), 0.5}, 1, nil},
		{"zero notional", m, []float64{0.3, 0.3, 0.4}, 0, nil},
		{"infinite notional", m, []float64{0.3, 0.3, 0.4}, math.Inf(1), nil},
		{"bad confidence", m, []float64{0.3, 0.3, 0.4}, 1, func(a *config.Analytics) { a.ConfidenceLevel = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultAnalytics()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}
			_, err := NewEngine(tt.returns, tt.weights, tt.notional, cfg, zerolog.Nop())
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestVolatility(t *testing.T) {
	e := newEngine(t, wavyReturns(t, 300), []float64{0.5, 0.3, 0.2}, 1_000_000)
	series := e.PortfolioReturns()

	daily, err := e.Volatility(false)
	require.NoError(t, err)
	assert.InDelta(t, stat.StdDev(series, nil), daily, 1e-15)

	annual, err := e.Volatility(true)
	require.NoError(t, err)
	assert.InDelta(t, daily*math.Sqrt(252), annual, 1e-12)
}

func TestVolatility_RequiresTwoObservations(t *testing.T) {
	e := newEngine(t, singleAsset(t, 0.01), []float64{1}, 1)

	_, err := e.Volatility(true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.ValueAtRisk(0.95)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDegenerateVolatility(t *testing.T) {
	e := newEngine(t, singleAsset(t, 0.002, 0.002, 0.002, 0.002, 0.002), []float64{1}, 1_000_000)

	vol, err := e.Volatility(true)
	require.NoError(t, err)
	assert.Equal(t, 0.0, vol)

	_, err = e.SharpeRatio(0.035)
	assert.ErrorIs(t, err, domain.ErrZeroVolatility)
	assert.ErrorIs(t, err, domain.ErrNumericalFailure)

	_, err = e.FullReport(nil)
	assert.ErrorIs(t, err, domain.ErrNumericalFailure)
}

func TestSharpeRatio_MatchesIndependentStatistics(t *testing.T) {
	e := newEngine(t, wavyReturns(t, 500), []float64{0.4, 0.4, 0.2}, 1_000_000)
	series := e.PortfolioReturns()

	mean, std := stat.MeanStdDev(series, nil)
	annualMean := mean * 252
	annualVol := std * math.Sqrt(252)

	sharpe, err := e.SharpeRatio(0.035)
	require.NoError(t, err)
	assert.InDelta(t, (annualMean-0.035)/annualVol, sharpe, 1e-10)
}

func TestValueAtRisk_Historical(t *testing.T) {
	e := newEngine(t, singleAsset(t, 0.03, -0.05, 0.04, -0.02, 0.01), []float64{1}, 2_000_000)

	v, err := e.ValueAtRisk(0.75)
	require.NoError(t, err)
	assert.InDelta(t, -0.02, v.Historical, 1e-12)
	assert.InDelta(t, -40_000, v.HistoricalAmount, 1e-6)

	c, err := e.ConditionalVaR(0.75)
	require.NoError(t, err)
	assert.Equal(t, 2, c.TailSize)
	assert.InDelta(t, -0.035, c.CVaR, 1e-12)
	assert.InDelta(t, -70_000, c.Amount, 1e-6)
}

func TestValueAtRisk_Parametric(t *testing.T) {
	e := newEngine(t, wavyReturns(t, 250), []float64{0.2, 0.5, 0.3}, 1_000_000)
	series := e.PortfolioReturns()
	mean, std := stat.MeanStdDev(series, nil)

	v, err := e.ValueAtRisk(0.95)
	require.NoError(t, err)
	assert.InDelta(t, mean-1.6448536269514722*std, v.Parametric, 1e-9)
	assert.InDelta(t, v.Parametric*1_000_000, v.ParametricAmount, 1e-6)
	assert.Less(t, v.Parametric, 0.0)
}

func TestValueAtRisk_RejectsConfidenceOutsideUnitInterval(t *testing.T) {
	e := newEngine(t, wavyReturns(t, 20), []float64{0.3, 0.3, 0.4}, 1)

	for _, cl := range []float64{0, 1, -0.5, 1.5, math.NaN()} {
		_, err := e.ValueAtRisk(cl)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = e.ConditionalVaR(cl)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestConditionalVaR_NeverAboveHistoricalVaR(t *testing.T) {
	e := newEngine(t, wavyReturns(t, 400), []float64{0.5, 0.25, 0.25}, 1_000_000)

	for _, cl := range []float64{0.5, 0.9, 0.95, 0.99, 0.999} {
		v, err := e.ValueAtRisk(cl)
		require.NoError(t, err)
		c, err := e.ConditionalVaR(cl)
		require.NoError(t, err)
		assert.LessOrEqual(t, c.CVaR, v.Historical, "confidence %v", cl)
		assert.GreaterOrEqual(t, c.TailSize, 1)
	}
}

func TestMaxDrawdown_Bounds(t *testing.T) {
	e := newEngine(t, wavyReturns(t, 400), []float64{0.5, 0.25, 0.25}, 1_000_000)
	dd := e.MaxDrawdown()
	assert.LessOrEqual(t, dd, 0.0)
	assert.GreaterOrEqual(t, dd, -1.0)

	e = newEngine(t, singleAsset(t, 0.10, -0.50, 0.20), []float64{1}, 1)
	assert.InDelta(t, -0.5, e.MaxDrawdown(), 1e-12)
}
