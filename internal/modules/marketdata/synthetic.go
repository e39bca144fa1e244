// Package marketdata produces return matrices for the analyzer, either
// synthesised from seeded normal draws or loaded from a CSV file.
package marketdata

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// AssetProfile describes the daily return distribution of one synthetic asset.
type AssetProfile struct {
	ID     string
	Class  domain.AssetClass
	Mean   float64
	StdDev float64
	Weight float64 // default portfolio weight
}

// DefaultUniverse is the five-asset demo portfolio.
func DefaultUniverse() []AssetProfile {
	return []AssetProfile{
		{ID: "ETF_SP500", Class: domain.AssetClassEquity, Mean: 0.0008, StdDev: 0.012, Weight: 0.25},
		{ID: "ETF_EuroStoxx", Class: domain.AssetClassEquity, Mean: 0.0006, StdDev: 0.014, Weight: 0.20},
		{ID: "ETF_Oblig_IG", Class: domain.AssetClassBonds, Mean: 0.0002, StdDev: 0.006, Weight: 0.15},
		{ID: "SCPI_Corum", Class: domain.AssetClassRealEstate, Mean: 0.0045, StdDev: 0.008, Weight: 0.30},
		{ID: "CapitalProtect", Class: domain.AssetClassStructured, Mean: 0.002, StdDev: 0.003, Weight: 0.10},
	}
}

// DefaultStart is the first date of the synthetic calendar.
var DefaultStart = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

// SyntheticOptions control Synthesize.
type SyntheticOptions struct {
	Assets  []AssetProfile
	Periods int
	Seed    uint64
	Start   time.Time // zero = DefaultStart
}

// Universe is a return matrix with its asset-class tags and default weights.
type Universe struct {
	Returns *domain.ReturnMatrix
	Classes domain.AssetClassMap
	Weights []float64
}

// Synthesize draws Periods daily returns per asset, one calendar day apart.
// Each asset's column is drawn in full before the next, so the same seed
// always yields the same matrix.
func Synthesize(opts SyntheticOptions) (*Universe, error) {
	if len(opts.Assets) == 0 {
		return nil, domain.InvalidInputf("no synthetic assets")
	}
	if opts.Periods < 1 {
		return nil, domain.InvalidInputf("synthetic periods must be positive, got %d", opts.Periods)
	}
	start := opts.Start
	if start.IsZero() {
		start = DefaultStart
	}

	src := rand.NewPCG(opts.Seed, opts.Seed)
	n := len(opts.Assets)
	assets := make([]string, n)
	classes := make(domain.AssetClassMap, n)
	weights := make([]float64, n)

	rows := make([][]float64, opts.Periods)
	for i := range rows {
		rows[i] = make([]float64, n)
	}

	for j, a := range opts.Assets {
		if a.StdDev < 0 {
			return nil, domain.InvalidInputf("asset %s: negative standard deviation", a.ID)
		}
		assets[j] = a.ID
		classes[a.ID] = a.Class
		weights[j] = a.Weight

		dist := distuv.Normal{Mu: a.Mean, Sigma: a.StdDev, Src: src}
		for i := range rows {
			rows[i][j] = dist.Rand()
		}
	}

	dates := make([]time.Time, opts.Periods)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}

	returns, err := domain.NewDatedReturnMatrix(assets, dates, rows)
	if err != nil {
		return nil, err
	}

	return &Universe{Returns: returns, Classes: classes, Weights: weights}, nil
}
