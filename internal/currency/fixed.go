package currency

import (
	"context"
	"fmt"
	"time"
)

// FixedSource serves rates from an in-memory table that does not change
// over time. Inverse rates are derived when only one direction is known.
type FixedSource map[string]float64

// Rate implements Source.
func (f FixedSource) Rate(_ context.Context, from, to string, _ time.Time) (float64, error) {
	if from == to {
		return 1, nil
	}
	if rate, ok := f[from+">"+to]; ok {
		return rate, nil
	}
	if rate, ok := f[to+">"+from]; ok && rate != 0 {
		return 1 / rate, nil
	}
	return 0, fmt.Errorf("%w: no fixed rate for %s to %s", ErrUnavailable, from, to)
}
