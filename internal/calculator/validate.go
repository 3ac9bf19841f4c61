package calculator

import (
	"errors"
	"fmt"
)

// Input errors returned by ComputeBalances and ComputeMemberBalances.
var (
	ErrInvalidMember     = errors.New("invalid member")
	ErrDuplicateMember   = errors.New("duplicate member")
	ErrUnknownMember     = errors.New("unknown member")
	ErrInvalidExpense    = errors.New("invalid expense")
	ErrInvalidSettlement = errors.New("invalid settlement")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// IsInputError reports whether err was caused by malformed calculation input.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrInvalidMember, ErrDuplicateMember, ErrUnknownMember,
		ErrInvalidExpense, ErrInvalidSettlement, ErrInvalidAmount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// validate rejects anything that would break the zero-sum invariant:
// unknown member references, empty splits and non-positive or non-finite amounts.
func validate(members []Member, expenses []ExpenseForBalance, settlements []SettlementForBalance) error {
	known := make(map[string]struct{}, len(members))
	for i, m := range members {
		if m.ID == "" {
			return fmt.Errorf("member at index %d: %w: empty id", i, ErrInvalidMember)
		}
		if _, dup := known[m.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateMember, m.ID)
		}
		known[m.ID] = struct{}{}
	}

	isKnown := func(id string) bool {
		_, ok := known[id]
		return ok
	}

	for _, e := range expenses {
		if !validAmount(e.Amount) {
			return fmt.Errorf("expense %s: %w: %v", e.ID, ErrInvalidAmount, e.Amount)
		}
		if len(e.SplitBetween) == 0 {
			return fmt.Errorf("expense %s: %w: split_between is empty", e.ID, ErrInvalidExpense)
		}
		if !isKnown(e.PaidBy) {
			return fmt.Errorf("expense %s: paid_by: %w %q", e.ID, ErrUnknownMember, e.PaidBy)
		}
		for _, id := range e.SplitBetween {
			if !isKnown(id) {
				return fmt.Errorf("expense %s: split_between: %w %q", e.ID, ErrUnknownMember, id)
			}
		}
	}

	for _, s := range settlements {
		if s.FromUserID == "" || s.ToUserID == "" {
			return fmt.Errorf("settlement %s: %w: from and to are required", s.ID, ErrInvalidSettlement)
		}
		if !validAmount(s.Amount) {
			return fmt.Errorf("settlement %s: %w: %v", s.ID, ErrInvalidAmount, s.Amount)
		}
		if !isKnown(s.FromUserID) {
			return fmt.Errorf("settlement %s: from: %w %q", s.ID, ErrUnknownMember, s.FromUserID)
		}
		if !isKnown(s.ToUserID) {
			return fmt.Errorf("settlement %s: to: %w %q", s.ID, ErrUnknownMember, s.ToUserID)
		}
	}

	return nil
}
