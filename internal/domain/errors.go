package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the analytics core. Callers distinguish them with errors.Is.
var (
	// ErrInvalidInput covers dimension mismatches, too-short series,
	// non-finite values, out-of-range parameters and infeasible bounds.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNumericalFailure covers solver non-convergence, constraint violations
	// beyond tolerance and degenerate covariance or volatility.
	ErrNumericalFailure = errors.New("numerical failure")

	// ErrEmptyTail is returned when no observation falls at or below the VaR threshold.
	ErrEmptyTail = errors.New("empty tail")

	// ErrZeroVolatility is a numerical failure: ratios over volatility are undefined.
	ErrZeroVolatility = fmt.Errorf("%w: zero volatility", ErrNumericalFailure)
)

// InvalidInputf wraps ErrInvalidInput with a formatted message.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NumericalFailuref wraps ErrNumericalFailure with a formatted message.
func NumericalFailuref(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNumericalFailure, fmt.Sprintf(format, args...))
}
