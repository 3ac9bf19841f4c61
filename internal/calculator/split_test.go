package calculator

import (
	"errors"
	"math"
	"testing"
)

func TestEqualShares(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		splitBetween []string
		wantErr      error
		validateFunc func(t *testing.T, shares map[string]float64)
	}{
		{
			name:         "three-way split",
			amount:       900,
			splitBetween: []string{"Alice", "Bob", "Charlie"},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				for _, person := range []string{"Alice", "Bob", "Charlie"} {
					if math.Abs(shares[person]-300) > 0.01 {
						t.Errorf("%s share = %v, want 300", person, shares[person])
					}
				}
			},
		},
		{
			name:         "uneven division keeps full precision",
			amount:       100,
			splitBetween: []string{"Alice", "Bob", "Charlie"},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				var total float64
				for _, s := range shares {
					total += s
				}
				if math.Abs(total-100) > 1e-9 {
					t.Errorf("shares sum to %v, want 100", total)
				}
			},
		},
		{
			name:         "duplicate entry doubles the share",
			amount:       90,
			splitBetween: []string{"Alice", "Bob", "Bob"},
			validateFunc: func(t *testing.T, shares map[string]float64) {
				if math.Abs(shares["Alice"]-30) > 0.01 {
					t.Errorf("Alice share = %v, want 30", shares["Alice"])
				}
				if math.Abs(shares["Bob"]-60) > 0.01 {
					t.Errorf("Bob share = %v, want 60", shares["Bob"])
				}
			},
		},
		{
			name:         "empty split should error",
			amount:       10,
			splitBetween: []string{},
			wantErr:      ErrInvalidExpense,
		},
		{
			name:         "zero amount should error",
			amount:       0,
			splitBetween: []string{"Alice"},
			wantErr:      ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := EqualShares(tt.amount, tt.splitBetween)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("EqualShares() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr == nil && tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}
