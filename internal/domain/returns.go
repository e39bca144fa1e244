package domain

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

// ReturnMatrix is an ascending time series of periodic returns, one column per asset.
// It is immutable once built; accessors hand out copies.
type ReturnMatrix struct {
	assets []string
	dates  []time.Time
	rows   [][]float64
}

// NewReturnMatrix validates and builds a return matrix.
// Every row must have one finite value per asset; asset identifiers must be unique.
func NewReturnMatrix(assets []string, rows [][]float64) (*ReturnMatrix, error) {
	return NewDatedReturnMatrix(assets, nil, rows)
}

// NewDatedReturnMatrix is NewReturnMatrix with one timestamp per row.
// Dates may be nil; when present they must be strictly ascending.
func NewDatedReturnMatrix(assets []string, dates []time.Time, rows [][]float64) (*ReturnMatrix, error) {
	if len(assets) == 0 {
		return nil, InvalidInputf("return matrix has no assets")
	}
	if len(rows) == 0 {
		return nil, InvalidInputf("return matrix has no rows")
	}

	seen := make(map[string]struct{}, len(assets))
	for _, a := range assets {
		if a == "" {
			return nil, InvalidInputf("empty asset identifier")
		}
		if _, dup := seen[a]; dup {
			return nil, InvalidInputf("duplicate asset identifier %q", a)
		}
		seen[a] = struct{}{}
	}

	if dates != nil {
		if len(dates) != len(rows) {
			return nil, InvalidInputf("%d dates for %d rows", len(dates), len(rows))
		}
		for i := 1; i < len(dates); i++ {
			if !dates[i].After(dates[i-1]) {
				return nil, InvalidInputf("dates not strictly ascending at row %d", i)
			}
		}
	}

	copied := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(assets) {
			return nil, InvalidInputf("row %d has %d values, expected %d", i, len(row), len(assets))
		}
		for j, v := range row {
			if !isFinite(v) {
				return nil, InvalidInputf("non-finite return %v for %s at row %d", v, assets[j], i)
			}
		}
		copied[i] = append([]float64(nil), row...)
	}

	m := &ReturnMatrix{
		assets: append([]string(nil), assets...),
		rows:   copied,
	}
	if dates != nil {
		m.dates = append([]time.Time(nil), dates...)
	}
	return m, nil
}

// DropMissing removes rows containing NaN, keeping dates aligned.
// Dates may be nil.
func DropMissing(dates []time.Time, rows [][]float64) ([]time.Time, [][]float64) {
	var keptDates []time.Time
	kept := make([][]float64, 0, len(rows))
	for i, row := range rows {
		missing := false
		for _, v := range row {
			if math.IsNaN(v) {
				missing = true
				break
			}
		}
		if missing {
			continue
		}
		kept = append(kept, row)
		if dates != nil {
			keptDates = append(keptDates, dates[i])
		}
	}
	return keptDates, kept
}

// Assets returns the asset identifiers in column order.
func (m *ReturnMatrix) Assets() []string {
	return append([]string(nil), m.assets...)
}

// Dates returns the row timestamps, nil when the matrix is undated.
func (m *ReturnMatrix) Dates() []time.Time {
	if m.dates == nil {
		return nil
	}
	return append([]time.Time(nil), m.dates...)
}

// NumAssets returns the column count.
func (m *ReturnMatrix) NumAssets() int { return len(m.assets) }

// NumPeriods returns the row count.
func (m *ReturnMatrix) NumPeriods() int { return len(m.rows) }

// Row returns a copy of row i.
func (m *ReturnMatrix) Row(i int) []float64 {
	return append([]float64(nil), m.rows[i]...)
}

// Column returns the return series of asset j.
func (m *ReturnMatrix) Column(j int) []float64 {
	col := make([]float64, len(m.rows))
	for i, row := range m.rows {
		col[i] = row[j]
	}
	return col
}

// Dense returns the matrix as a periods x assets gonum matrix.
func (m *ReturnMatrix) Dense() *mat.Dense {
	d := mat.NewDense(len(m.rows), len(m.assets), nil)
	for i, row := range m.rows {
		d.SetRow(i, row)
	}
	return d
}

// ValidateWeights checks a weight vector against the matrix columns.
func (m *ReturnMatrix) ValidateWeights(weights []float64) error {
	if len(weights) != len(m.assets) {
		return InvalidInputf("%d weights for %d assets", len(weights), len(m.assets))
	}
	for i, w := range weights {
		if !isFinite(w) {
			return InvalidInputf("non-finite weight %v for %s", w, m.assets[i])
		}
	}
	return nil
}
