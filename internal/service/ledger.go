package service

import (
	"context"
	"fmt"

	"github.com/mmynk/splitmate/internal/calculator"
	"github.com/mmynk/splitmate/internal/models"
	"github.com/mmynk/splitmate/internal/storage"
)

// ledger is everything recorded for one group.
type ledger struct {
	group       *models.Group
	expenses    []*models.Expense    // most recent first
	settlements []*models.Settlement // most recent first
}

// loadLedger reads a group with its expenses and settlements.
func loadLedger(ctx context.Context, reader storage.LedgerReader, groupID string) (*ledger, error) {
	group, err := reader.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := reader.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	settlements, err := reader.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	return &ledger{group: group, expenses: expenses, settlements: settlements}, nil
}

func (l *ledger) members() []calculator.Member {
	members := make([]calculator.Member, len(l.group.Members))
	for i, m := range l.group.Members {
		members[i] = calculator.Member{ID: m.ID, Name: m.Name}
	}
	return members
}

func (l *ledger) expensesForBalance() []calculator.ExpenseForBalance {
	out := make([]calculator.ExpenseForBalance, len(l.expenses))
	for i, e := range l.expenses {
		out[i] = calculator.ExpenseForBalance{
			ID:           e.ID,
			Amount:       e.Amount,
			PaidBy:       e.PaidBy,
			SplitBetween: e.SplitBetween,
		}
	}
	return out
}

func (l *ledger) settlementsForBalance() []calculator.SettlementForBalance {
	out := make([]calculator.SettlementForBalance, len(l.settlements))
	for i, s := range l.settlements {
		out[i] = calculator.SettlementForBalance{
			ID:         s.ID,
			FromUserID: s.FromUserID,
			ToUserID:   s.ToUserID,
			Amount:     s.Amount,
		}
	}
	return out
}

// balanceReport is the computed state of a ledger.
type balanceReport struct {
	members     []calculator.MemberBalance
	suggestions []calculator.Suggestion
	summary     calculator.Summary
	residual    float64
}

// computeReport runs the balance engine over the ledger. Errors are engine
// input errors (see calculator.IsInputError).
func (l *ledger) computeReport() (*balanceReport, error) {
	members := l.members()
	memberBalances, err := calculator.ComputeMemberBalances(members, l.expensesForBalance(), l.settlementsForBalance())
	if err != nil {
		return nil, err
	}

	balances := make(calculator.Balances, len(memberBalances))
	for _, mb := range memberBalances {
		balances[mb.Member.ID] = mb.NetBalance
	}
	suggestions := payable(calculator.GenerateSettlementSuggestions(members, balances))

	return &balanceReport{
		members:     memberBalances,
		suggestions: suggestions,
		summary:     calculator.Summarize(balances),
		residual:    calculator.Residual(balances, suggestions),
	}, nil
}

// payable drops suggestions that round to 0.00. They come from float residue
// and ask nobody to pay anything.
func payable(suggestions []calculator.Suggestion) []calculator.Suggestion {
	out := suggestions[:0]
	for _, s := range suggestions {
		if s.Amount != 0 {
			out = append(out, s)
		}
	}
	return out
}
