package marketdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

// DateLayout is the layout of the first CSV column.
const DateLayout = "2006-01-02"

// Loader reads return panels laid out as date,asset1,asset2,... with one header row.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a CSV loader.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		log: log.With().Str("component", "marketdata").Logger(),
	}
}

// LoadCSV reads a return panel from path.
func (l *Loader) LoadCSV(path string) (*Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open returns file: %w", err)
	}
	defer f.Close()

	return l.ReadCSV(f)
}

// ReadCSV parses a return panel. Empty, NA and NaN cells mark missing
// observations; rows containing any are dropped before validation.
// Assets known to DefaultUniverse keep their class; the rest default to
// equity. Weights are the default weights, renormalised, when every asset is
// known, and equal weights otherwise.
func (l *Loader) ReadCSV(r io.Reader) (*Universe, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.InvalidInputf("returns file is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, domain.InvalidInputf("header needs a date column and at least one asset")
	}
	assets := make([]string, len(header)-1)
	for i, h := range header[1:] {
		assets[i] = strings.TrimSpace(h)
	}

	var dates []time.Time
	var rows [][]float64
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		date, err := time.Parse(DateLayout, strings.TrimSpace(record[0]))
		if err != nil {
			return nil, domain.InvalidInputf("line %d: bad date %q", line, record[0])
		}

		row := make([]float64, len(assets))
		for j, cell := range record[1:] {
			row[j], err = parseCell(cell)
			if err != nil {
				return nil, domain.InvalidInputf("line %d, asset %s: %v", line, assets[j], err)
			}
		}

		dates = append(dates, date)
		rows = append(rows, row)
	}

	keptDates, keptRows := domain.DropMissing(dates, rows)
	if dropped := len(rows) - len(keptRows); dropped > 0 {
		l.log.Warn().Int("dropped", dropped).Int("kept", len(keptRows)).Msg("Dropped rows with missing returns")
	}

	returns, err := domain.NewDatedReturnMatrix(assets, keptDates, keptRows)
	if err != nil {
		return nil, err
	}

	l.log.Debug().Int("assets", len(assets)).Int("periods", returns.NumPeriods()).Msg("Loaded returns")

	classes, weights := classify(assets)
	return &Universe{Returns: returns, Classes: classes, Weights: weights}, nil
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	switch strings.ToLower(cell) {
	case "", "na", "nan", "null":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("bad value %q", cell)
	}
	return v, nil
}

func classify(assets []string) (domain.AssetClassMap, []float64) {
	profiles := make(map[string]AssetProfile)
	for _, p := range DefaultUniverse() {
		profiles[p.ID] = p
	}

	classes := make(domain.AssetClassMap, len(assets))
	weights := make([]float64, len(assets))
	allKnown := true
	var total float64
	for i, a := range assets {
		p, ok := profiles[a]
		if !ok {
			allKnown = false
			continue
		}
		classes[a] = p.Class
		weights[i] = p.Weight
		total += p.Weight
	}

	if !allKnown || total == 0 {
		for i := range weights {
			weights[i] = 1 / float64(len(assets))
		}
		return classes, weights
	}
	for i := range weights {
		weights[i] /= total
	}
	return classes, weights
}
