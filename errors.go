package qsynth

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks invalid input detected before any sampling happens.
	ErrConfiguration = errors.New("configuration error")

	// ErrNumericalInvariant marks amplitude normalization drift. It indicates a bug in
	// gate construction or application, never bad user input.
	ErrNumericalInvariant = errors.New("numerical invariant violation")

	// ErrDegenerateDistribution is returned when a measurement finds (near) zero total
	// probability mass.
	ErrDegenerateDistribution = errors.New("sampling degenerate distribution")
)

func configError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

func invariantError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNumericalInvariant, fmt.Sprintf(format, args...))
}
