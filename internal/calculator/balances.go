package calculator

// Member is a group member as seen by the balance calculation.
type Member struct {
	ID   string
	Name string
}

// ExpenseForBalance represents an expense with the minimal information needed for balance calculations.
type ExpenseForBalance struct {
	ID           string
	Amount       float64
	PaidBy       string   // Member ID of the payer
	SplitBetween []string // Member IDs sharing the expense equally, payer included if they share
}

// SettlementForBalance represents a settlement with the minimal information needed for balance calculations.
type SettlementForBalance struct {
	ID         string
	FromUserID string // Who paid (debtor settling up)
	ToUserID   string // Who received (creditor being paid)
	Amount     float64
}

// Balances maps member ID to net balance.
// Positive = is owed money (net creditor), Negative = owes money (net debtor).
type Balances map[string]float64

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	Member     Member
	NetBalance float64 // Positive = owed money, Negative = owes money
	TotalPaid  float64 // Total amount paid for expenses
	TotalShare float64 // Total of this member's shares across expenses
	SettledOut float64 // Total paid to others through settlements
	SettledIn  float64 // Total received from others through settlements
}

// ComputeMemberBalances computes each member's net balance from expenses and settlements,
// together with the totals that make it up. Results are in members order.
//
// Algorithm:
//   - For each expense: payer gets +amount
//   - For each expense: every entry in SplitBetween gets -amount/len(SplitBetween)
//   - For each settlement: FromUserID gets +amount, ToUserID gets -amount
//
// Settlement signs follow the positive = net creditor convention: a payment
// moves the sender up toward zero and the receiver down toward zero. Writing
// it as from -= amount, to += amount would double the debt it settles.
//
// Input is validated up front; on error nothing is computed.
func ComputeMemberBalances(members []Member, expenses []ExpenseForBalance, settlements []SettlementForBalance) ([]MemberBalance, error) {
	if err := validate(members, expenses, settlements); err != nil {
		return nil, err
	}

	result := make([]MemberBalance, len(members))
	byID := make(map[string]*MemberBalance, len(members))
	for i, m := range members {
		result[i] = MemberBalance{Member: m}
		byID[m.ID] = &result[i]
	}

	// Payer fronted the full amount
	for _, e := range expenses {
		payer := byID[e.PaidBy]
		payer.NetBalance += e.Amount
		payer.TotalPaid += e.Amount
	}

	// Every sharer owes an equal share, including the payer
	for _, e := range expenses {
		share := e.Amount / float64(len(e.SplitBetween))
		for _, id := range e.SplitBetween {
			mb := byID[id]
			mb.NetBalance -= share
			mb.TotalShare += share
		}
	}

	for _, s := range settlements {
		from, to := byID[s.FromUserID], byID[s.ToUserID]
		from.NetBalance += s.Amount
		from.SettledOut += s.Amount
		to.NetBalance -= s.Amount
		to.SettledIn += s.Amount
	}

	return result, nil
}

// ComputeBalances computes the net balance of every member.
// The sum of all balances is zero up to floating point error; it is not corrected.
func ComputeBalances(members []Member, expenses []ExpenseForBalance, settlements []SettlementForBalance) (Balances, error) {
	mbs, err := ComputeMemberBalances(members, expenses, settlements)
	if err != nil {
		return nil, err
	}

	balances := make(Balances, len(mbs))
	for _, mb := range mbs {
		balances[mb.Member.ID] = mb.NetBalance
	}
	return balances, nil
}

// Summary aggregates a set of balances.
type Summary struct {
	TotalOwed      float64 // Sum of all debts (absolute)
	TotalToReceive float64 // Sum of all credits
	IsSettled      bool    // Both totals round to zero cents
}

// Summarize totals the debts and credits in balances.
func Summarize(balances Balances) Summary {
	var s Summary
	for _, amount := range balances {
		if amount < 0 {
			s.TotalOwed -= amount
		} else if amount > 0 {
			s.TotalToReceive += amount
		}
	}
	s.IsSettled = RoundCents(s.TotalOwed) == 0 && RoundCents(s.TotalToReceive) == 0
	return s
}

// Standing is the display direction of a balance, derived from the sign convention above.
type Standing int

const (
	Settled Standing = iota
	Owed             // net creditor
	Owes             // net debtor
)

func (s Standing) String() string {
	switch s {
	case Owed:
		return "is_owed"
	case Owes:
		return "owes"
	default:
		return "settled"
	}
}

// StandingOf returns the display standing of a net balance, at cent granularity.
func StandingOf(amount float64) Standing {
	switch r := RoundCents(amount); {
	case r > 0:
		return Owed
	case r < 0:
		return Owes
	default:
		return Settled
	}
}
