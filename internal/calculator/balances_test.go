package calculator

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

var (
	alice   = Member{ID: "a", Name: "Alice"}
	bob     = Member{ID: "b", Name: "Bob"}
	charlie = Member{ID: "c", Name: "Charlie"}
	diana   = Member{ID: "d", Name: "Diana"}
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func sum(balances Balances) float64 {
	var total float64
	for _, b := range balances {
		total += b
	}
	return total
}

func TestComputeBalances(t *testing.T) {
	tests := []struct {
		name        string
		members     []Member
		expenses    []ExpenseForBalance
		settlements []SettlementForBalance
		want        Balances
	}{
		{
			name:    "three-way split paid by one member",
			members: []Member{alice, bob, charlie},
			expenses: []ExpenseForBalance{
				{ID: "e1", Amount: 900, PaidBy: "a", SplitBetween: []string{"a", "b", "c"}},
			},
			want: Balances{"a": 600, "b": -300, "c": -300},
		},
		{
			name:    "settlement clears outstanding debt",
			members: []Member{alice, bob},
			expenses: []ExpenseForBalance{
				{ID: "e1", Amount: 100, PaidBy: "a", SplitBetween: []string{"a", "b"}},
			},
			settlements: []SettlementForBalance{
				{ID: "s1", FromUserID: "b", ToUserID: "a", Amount: 50},
			},
			want: Balances{"a": 0, "b": 0},
		},
		{
			name:    "payer not among sharers",
			members: []Member{alice, bob, charlie},
			expenses: []ExpenseForBalance{
				{ID: "e1", Amount: 60, PaidBy: "a", SplitBetween: []string{"b", "c"}},
			},
			want: Balances{"a": 60, "b": -30, "c": -30},
		},
		{
			name:    "duplicate sharer carries two shares",
			members: []Member{alice, bob},
			expenses: []ExpenseForBalance{
				{ID: "e1", Amount: 90, PaidBy: "a", SplitBetween: []string{"a", "b", "b"}},
			},
			want: Balances{"a": 60, "b": -60},
		},
		{
			name:    "member without activity stays at zero",
			members: []Member{alice, bob, charlie},
			expenses: []ExpenseForBalance{
				{ID: "e1", Amount: 40, PaidBy: "b", SplitBetween: []string{"a", "b"}},
			},
			want: Balances{"a": -20, "b": 20, "c": 0},
		},
		{
			name:    "multiple expenses and partial settlement",
			members: []Member{alice, bob, charlie},
			expenses: []ExpenseForBalance{
				{ID: "e1", Amount: 4500, PaidBy: "a", SplitBetween: []string{"a", "b", "c"}},
				{ID: "e2", Amount: 1200, PaidBy: "b", SplitBetween: []string{"a", "b", "c"}},
				{ID: "e3", Amount: 800, PaidBy: "c", SplitBetween: []string{"a", "b", "c"}},
			},
			settlements: []SettlementForBalance{
				{ID: "s1", FromUserID: "b", ToUserID: "a", Amount: 1500},
			},
			// Each share: 1500 + 400 + 266.67 = 2166.67
			want: Balances{
				"a": 4500 - 6500.0/3 - 1500,
				"b": 1200 - 6500.0/3 + 1500,
				"c": 800 - 6500.0/3,
			},
		},
		{
			name:    "no expenses",
			members: []Member{alice, bob},
			want:    Balances{"a": 0, "b": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBalances(tt.members, tt.expenses, tt.settlements)
			if err != nil {
				t.Fatalf("ComputeBalances() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d balances, want %d", len(got), len(tt.want))
			}
			for id, want := range tt.want {
				if !approxEqual(got[id], want) {
					t.Errorf("balance[%s] = %v, want %v", id, got[id], want)
				}
			}
			if s := sum(got); math.Abs(s) > 1e-9 {
				t.Errorf("balances sum to %v, want 0", s)
			}
		})
	}
}

func TestComputeBalances_PayerSelfShare(t *testing.T) {
	for n := 1; n <= 7; n++ {
		members := make([]Member, n)
		split := make([]string, n)
		for i := range members {
			members[i] = Member{ID: string(rune('a' + i))}
			split[i] = members[i].ID
		}
		amount := 123.45

		balances, err := ComputeBalances(members, []ExpenseForBalance{
			{ID: "e", Amount: amount, PaidBy: "a", SplitBetween: split},
		}, nil)
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}

		if want := amount * float64(n-1) / float64(n); !approxEqual(balances["a"], want) {
			t.Errorf("n=%d: payer balance = %v, want %v", n, balances["a"], want)
		}
		for _, m := range members[1:] {
			if want := -amount / float64(n); !approxEqual(balances[m.ID], want) {
				t.Errorf("n=%d: balance[%s] = %v, want %v", n, m.ID, balances[m.ID], want)
			}
		}
	}
}

func TestComputeBalances_SettlementEffect(t *testing.T) {
	members := []Member{alice, bob, charlie}
	expenses := []ExpenseForBalance{
		{ID: "e1", Amount: 300, PaidBy: "a", SplitBetween: []string{"a", "b", "c"}},
		{ID: "e2", Amount: 75, PaidBy: "c", SplitBetween: []string{"b", "c"}},
	}

	before, err := ComputeBalances(members, expenses, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const k = 42.5
	after, err := ComputeBalances(members, expenses, []SettlementForBalance{
		{ID: "s1", FromUserID: "b", ToUserID: "a", Amount: k},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The payer's debt shrinks and the payee's credit shrinks.
	if !approxEqual(after["b"], before["b"]+k) {
		t.Errorf("payer balance = %v, want %v", after["b"], before["b"]+k)
	}
	if !approxEqual(after["a"], before["a"]-k) {
		t.Errorf("payee balance = %v, want %v", after["a"], before["a"]-k)
	}
	if !approxEqual(after["c"], before["c"]) {
		t.Errorf("uninvolved balance changed: %v -> %v", before["c"], after["c"])
	}
}

func TestComputeBalances_Conservation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	members := []Member{alice, bob, charlie, diana}

	for round := 0; round < 200; round++ {
		var expenses []ExpenseForBalance
		numExpenses := rng.Intn(10)
		for i := 0; i < numExpenses; i++ {
			split := []string{}
			for _, m := range members {
				if rng.Intn(2) == 0 {
					split = append(split, m.ID)
				}
			}
			if len(split) == 0 {
				split = append(split, members[rng.Intn(len(members))].ID)
			}
			expenses = append(expenses, ExpenseForBalance{
				ID:           "e",
				Amount:       float64(rng.Intn(100000)+1) / 100,
				PaidBy:       members[rng.Intn(len(members))].ID,
				SplitBetween: split,
			})
		}
		var settlements []SettlementForBalance
		numSettlements := rng.Intn(4)
		for i := 0; i < numSettlements; i++ {
			settlements = append(settlements, SettlementForBalance{
				ID:         "s",
				FromUserID: members[rng.Intn(len(members))].ID,
				ToUserID:   members[rng.Intn(len(members))].ID,
				Amount:     float64(rng.Intn(50000)+1) / 100,
			})
		}

		balances, err := ComputeBalances(members, expenses, settlements)
		if err != nil {
			t.Fatalf("round %d: unexpected error: %v", round, err)
		}
		if s := sum(balances); math.Abs(s) > 1e-6 {
			t.Fatalf("round %d: balances sum to %v, want 0", round, s)
		}
	}
}

func TestComputeBalances_InvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		members     []Member
		expenses    []ExpenseForBalance
		settlements []SettlementForBalance
		wantErr     error
	}{
		{
			name:     "empty split",
			members:  []Member{alice, bob},
			expenses: []ExpenseForBalance{{ID: "e1", Amount: 10, PaidBy: "a"}},
			wantErr:  ErrInvalidExpense,
		},
		{
			name:     "unknown payer",
			members:  []Member{alice, bob},
			expenses: []ExpenseForBalance{{ID: "e1", Amount: 10, PaidBy: "z", SplitBetween: []string{"a"}}},
			wantErr:  ErrUnknownMember,
		},
		{
			name:     "unknown sharer",
			members:  []Member{alice, bob},
			expenses: []ExpenseForBalance{{ID: "e1", Amount: 10, PaidBy: "a", SplitBetween: []string{"a", "z"}}},
			wantErr:  ErrUnknownMember,
		},
		{
			name:     "zero amount",
			members:  []Member{alice},
			expenses: []ExpenseForBalance{{ID: "e1", Amount: 0, PaidBy: "a", SplitBetween: []string{"a"}}},
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "negative amount",
			members:  []Member{alice},
			expenses: []ExpenseForBalance{{ID: "e1", Amount: -5, PaidBy: "a", SplitBetween: []string{"a"}}},
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "NaN amount",
			members:  []Member{alice},
			expenses: []ExpenseForBalance{{ID: "e1", Amount: math.NaN(), PaidBy: "a", SplitBetween: []string{"a"}}},
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "infinite amount",
			members:  []Member{alice},
			expenses: []ExpenseForBalance{{ID: "e1", Amount: math.Inf(1), PaidBy: "a", SplitBetween: []string{"a"}}},
			wantErr:  ErrInvalidAmount,
		},
		{
			name:        "settlement from unknown member",
			members:     []Member{alice, bob},
			settlements: []SettlementForBalance{{ID: "s1", FromUserID: "z", ToUserID: "a", Amount: 5}},
			wantErr:     ErrUnknownMember,
		},
		{
			name:        "settlement to unknown member",
			members:     []Member{alice, bob},
			settlements: []SettlementForBalance{{ID: "s1", FromUserID: "a", ToUserID: "z", Amount: 5}},
			wantErr:     ErrUnknownMember,
		},
		{
			name:        "settlement missing counterparty",
			members:     []Member{alice, bob},
			settlements: []SettlementForBalance{{ID: "s1", FromUserID: "a", Amount: 5}},
			wantErr:     ErrInvalidSettlement,
		},
		{
			name:        "settlement with negative amount",
			members:     []Member{alice, bob},
			settlements: []SettlementForBalance{{ID: "s1", FromUserID: "a", ToUserID: "b", Amount: -1}},
			wantErr:     ErrInvalidAmount,
		},
		{
			name:    "duplicate member",
			members: []Member{alice, alice},
			wantErr: ErrDuplicateMember,
		},
		{
			name:    "member without id",
			members: []Member{{Name: "Nobody"}},
			wantErr: ErrInvalidMember,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBalances(tt.members, tt.expenses, tt.settlements)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ComputeBalances() error = %v, want %v", err, tt.wantErr)
			}
			if !IsInputError(err) {
				t.Errorf("IsInputError(%v) = false, want true", err)
			}
			if got != nil {
				t.Errorf("expected no result on error, got %v", got)
			}
		})
	}
}

func TestComputeMemberBalances_Totals(t *testing.T) {
	mbs, err := ComputeMemberBalances(
		[]Member{alice, bob},
		[]ExpenseForBalance{
			{ID: "e1", Amount: 100, PaidBy: "a", SplitBetween: []string{"a", "b"}},
			{ID: "e2", Amount: 30, PaidBy: "b", SplitBetween: []string{"a", "b"}},
		},
		[]SettlementForBalance{{ID: "s1", FromUserID: "b", ToUserID: "a", Amount: 20}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mbs[0].Member != alice || mbs[1].Member != bob {
		t.Fatalf("results not in members order: %+v", mbs)
	}

	a := mbs[0]
	if a.TotalPaid != 100 || a.TotalShare != 65 || a.SettledIn != 20 || a.SettledOut != 0 {
		t.Errorf("alice totals = %+v", a)
	}
	if !approxEqual(a.NetBalance, 100-65-20) {
		t.Errorf("alice net = %v, want 15", a.NetBalance)
	}

	b := mbs[1]
	if b.TotalPaid != 30 || b.TotalShare != 65 || b.SettledOut != 20 || b.SettledIn != 0 {
		t.Errorf("bob totals = %+v", b)
	}
	if !approxEqual(b.NetBalance, 30-65+20) {
		t.Errorf("bob net = %v, want -15", b.NetBalance)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		balances Balances
		want     Summary
	}{
		{
			name:     "outstanding balances",
			balances: Balances{"a": 600, "b": -300, "c": -300},
			want:     Summary{TotalOwed: 600, TotalToReceive: 600, IsSettled: false},
		},
		{
			name:     "all zero",
			balances: Balances{"a": 0, "b": 0},
			want:     Summary{IsSettled: true},
		},
		{
			name:     "float residue counts as settled",
			balances: Balances{"a": 1e-12, "b": -1e-12},
			want:     Summary{TotalOwed: 1e-12, TotalToReceive: 1e-12, IsSettled: true},
		},
		{
			name:     "empty",
			balances: Balances{},
			want:     Summary{IsSettled: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.balances)
			if !approxEqual(got.TotalOwed, tt.want.TotalOwed) ||
				!approxEqual(got.TotalToReceive, tt.want.TotalToReceive) ||
				got.IsSettled != tt.want.IsSettled {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStandingOf(t *testing.T) {
	tests := []struct {
		amount float64
		want   Standing
	}{
		{600, Owed},
		{0.01, Owed},
		{0.004, Settled},
		{0, Settled},
		{-0.004, Settled},
		{-0.01, Owes},
		{-300, Owes},
	}

	for _, tt := range tests {
		if got := StandingOf(tt.amount); got != tt.want {
			t.Errorf("StandingOf(%v) = %v, want %v", tt.amount, got, tt.want)
		}
	}

	if Owed.String() != "is_owed" || Owes.String() != "owes" || Settled.String() != "settled" {
		t.Errorf("unexpected standing names: %s %s %s", Owed, Owes, Settled)
	}
}
