package calculator

import (
	"fmt"
)

// SplitEvenly divides amount equally among participants and returns each
// participant's share.
//
// The participant set must be non-empty and free of duplicates.
func SplitEvenly(amount float64, participants []string) (map[string]float64, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: must have at least one participant", ErrInvalidExpense)
	}

	share := amount / float64(len(participants))
	shares := make(map[string]float64, len(participants))
	for _, p := range participants {
		if _, dup := shares[p]; dup {
			return nil, fmt.Errorf("%w: participant %s listed twice", ErrInvalidExpense, p)
		}
		shares[p] = share
	}

	return shares, nil
}
