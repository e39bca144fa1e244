package optimization

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/portfolio-analyzer/internal/domain"
)

func TestBounds_Validate(t *testing.T) {
	tests := []struct {
		name    string
		bounds  Bounds
		n       int
		wantErr bool
	}{
		{"default box five assets", Bounds{Min: 0.02, Max: 0.40}, 5, false},
		{"single asset full range", Bounds{Min: 0, Max: 1}, 1, false},
		{"min exactly one over n", Bounds{Min: 0.25, Max: 0.5}, 4, false},
		{"no assets", Bounds{Min: 0, Max: 1}, 0, true},
		{"min above max", Bounds{Min: 0.5, Max: 0.4}, 2, true},
		{"negative min", Bounds{Min: -0.1, Max: 0.5}, 3, true},
		{"max above one", Bounds{Min: 0, Max: 1.5}, 3, true},
		{"mins exceed one", Bounds{Min: 0.3, Max: 0.5}, 4, true},
		{"maxes cannot reach one", Bounds{Min: 0, Max: 0.2}, 3, true},
		{"default box two assets", Bounds{Min: 0.02, Max: 0.40}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bounds.Validate(tt.n)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBounds_Check(t *testing.T) {
	b := Bounds{Min: 0.1, Max: 0.6}

	assert.NoError(t, b.Check([]float64{0.4, 0.6}))
	assert.NoError(t, b.Check([]float64{0.4 + 5e-7, 0.6 - 5e-7}))

	err := b.Check([]float64{0.05, 0.95})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNumericalFailure))

	err = b.Check([]float64{0.3, 0.3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNumericalFailure))
}

func TestProjectToBounds_FeasiblePointIsFixed(t *testing.T) {
	x := []float64{0.2, 0.3, 0.5}
	w, free := projectToBounds(x, Bounds{Min: 0, Max: 1})

	assert.InDeltaSlice(t, x, w, 1e-12)
	assert.Equal(t, []bool{true, true, true}, free)
}

func TestProjectToBounds_ClipsAndRedistributes(t *testing.T) {
	w, free := projectToBounds([]float64{5, 0, 0}, Bounds{Min: 0.02, Max: 0.4})

	assert.InDeltaSlice(t, []float64{0.4, 0.3, 0.3}, w, 1e-12)
	assert.Equal(t, []bool{false, true, true}, free)
}

func TestProjectToBounds_ShiftInvariant(t *testing.T) {
	b := Bounds{Min: 0.02, Max: 0.4}
	x := []float64{0.1, 0.5, -0.2, 0.3, 0.05}
	shifted := make([]float64, len(x))
	for i := range x {
		shifted[i] = x[i] + 3.7
	}

	w1, _ := projectToBounds(x, b)
	w2, _ := projectToBounds(shifted, b)

	assert.InDeltaSlice(t, w1, w2, 1e-12)
	assert.NoError(t, b.Check(w1))
}

func TestProjectToBounds_TightBox(t *testing.T) {
	// n·Min = 1 leaves a single feasible point.
	w, _ := projectToBounds([]float64{0.9, -3, 0.1, 2}, Bounds{Min: 0.25, Max: 0.5})

	assert.InDeltaSlice(t, []float64{0.25, 0.25, 0.25, 0.25}, w, 1e-9)
}

func TestProjectGradient(t *testing.T) {
	out := projectGradient([]float64{1, 2, 3}, []bool{true, true, false})
	assert.InDeltaSlice(t, []float64{-0.5, 0.5, 0}, out, 1e-15)

	out = projectGradient([]float64{1, 2}, []bool{false, false})
	assert.Equal(t, []float64{0, 0}, out)
}
