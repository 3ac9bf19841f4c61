package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// Suggestion is a proposed transfer from a debtor to a creditor.
// It is never persisted; callers may turn it into a real settlement.
type Suggestion struct {
	From   Member
	To     Member
	Amount float64 // Rounded to cents
}

// GenerateSettlementSuggestions matches debtors with creditors greedily.
//
// Debtors (balance < 0) and creditors (balance > 0) keep their order in members;
// members at exactly zero or missing from balances are skipped. Each debtor pays
// creditors in order until its debt is cleared. Output is debtor-major,
// creditor-minor and has at most len(debtors)*len(creditors) entries.
//
// This is not a minimum-transaction solver. The caller's balances are not modified.
func GenerateSettlementSuggestions(members []Member, balances Balances) []Suggestion {
	suggestions := []Suggestion{}

	var debtors, creditors []Member
	for _, m := range members {
		if b := balances[m.ID]; b < 0 {
			debtors = append(debtors, m)
		} else if b > 0 {
			creditors = append(creditors, m)
		}
	}

	working := make(Balances, len(balances))
	for id, b := range balances {
		working[id] = b
	}

	for _, debtor := range debtors {
		debt := math.Abs(working[debtor.ID])
		if debt <= 0 {
			continue
		}

		for _, creditor := range creditors {
			credit := working[creditor.ID]
			if credit <= 0 {
				continue
			}

			amount := math.Min(debt, credit)
			if amount > 0 {
				suggestions = append(suggestions, Suggestion{
					From:   debtor,
					To:     creditor,
					Amount: RoundCents(amount),
				})
				debt -= amount
				working[debtor.ID] += amount
				working[creditor.ID] -= amount
			}

			if debt <= 0 {
				break
			}
		}
	}

	return suggestions
}

// Residual returns the largest absolute balance left among the suggested members
// after applying the rounded suggestions to balances. For balances that sum to
// zero it is bounded by 0.01 * len(suggestions).
func Residual(balances Balances, suggestions []Suggestion) float64 {
	after := make(Balances, len(balances))
	for id, b := range balances {
		after[id] = b
	}
	for _, s := range suggestions {
		after[s.From.ID] += s.Amount
		after[s.To.ID] -= s.Amount
	}

	var residual float64
	for _, s := range suggestions {
		residual = math.Max(residual, math.Abs(after[s.From.ID]))
		residual = math.Max(residual, math.Abs(after[s.To.ID]))
	}
	return residual
}

// RoundCents rounds x to 2 decimal places, half away from zero.
// Non-finite values are returned unchanged.
func RoundCents(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}
