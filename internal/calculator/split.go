package calculator

import (
	"fmt"
	"math"
)

// EqualShares computes how much each member owes for a single expense.
// The amount is split equally between every entry of splitBetween; a member
// listed twice carries two shares.
func EqualShares(amount float64, splitBetween []string) (map[string]float64, error) {
	if !validAmount(amount) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	if len(splitBetween) == 0 {
		return nil, fmt.Errorf("%w: must be split between at least one member", ErrInvalidExpense)
	}

	share := amount / float64(len(splitBetween))
	shares := make(map[string]float64, len(splitBetween))
	for _, id := range splitBetween {
		shares[id] += share
	}
	return shares, nil
}

func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0)
}
