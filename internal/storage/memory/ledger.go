package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitmate/internal/models"
	"github.com/mmynk/splitmate/internal/storage"
)

func (s *Store) CreateExpense(_ context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date == 0 {
		expense.Date = expense.CreatedAt
	}
	if expense.Category == "" {
		expense.Category = models.CategoryOther
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[expense.GroupID]; !ok {
		return notFound("group", expense.GroupID)
	}
	if _, ok := s.expenses[expense.ID]; ok {
		return fmt.Errorf("failed to insert expense: duplicate id %s", expense.ID)
	}
	named := append([]string{expense.PaidBy}, expense.SplitBetween...)
	if err := s.requireUsers(named...); err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	if err := s.requireMembers(expense.GroupID, named...); err != nil {
		return err
	}

	stored := *expense
	stored.SplitBetween = slices.Clone(expense.SplitBetween)
	s.expenses[expense.ID] = stored
	return nil
}

func copyExpense(e models.Expense) *models.Expense {
	e.SplitBetween = slices.Clone(e.SplitBetween)
	return &e
}

func (s *Store) GetExpense(_ context.Context, expenseID string) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.expenses[expenseID]
	if !ok {
		return nil, notFound("expense", expenseID)
	}
	return copyExpense(e), nil
}

func (s *Store) ListExpensesByGroup(_ context.Context, groupID string) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var expenses []*models.Expense
	for _, e := range s.expenses {
		if e.GroupID == groupID {
			expenses = append(expenses, copyExpense(e))
		}
	}
	sort.Slice(expenses, func(i, j int) bool {
		a, b := expenses[i], expenses[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt > b.CreatedAt
		}
		return a.ID < b.ID
	})
	return expenses, nil
}

func (s *Store) DeleteExpense(_ context.Context, expenseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[expenseID]; !ok {
		return notFound("expense", expenseID)
	}
	delete(s.expenses, expenseID)
	return nil
}

func (s *Store) CreateSettlement(_ context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[settlement.GroupID]; !ok {
		return notFound("group", settlement.GroupID)
	}
	if _, ok := s.settlements[settlement.ID]; ok {
		return fmt.Errorf("failed to insert settlement: duplicate id %s", settlement.ID)
	}
	if err := s.requireUsers(settlement.FromUserID, settlement.ToUserID); err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	if err := s.requireMembers(settlement.GroupID, settlement.FromUserID, settlement.ToUserID); err != nil {
		return err
	}
	s.settlements[settlement.ID] = *settlement
	return nil
}

func (s *Store) GetSettlement(_ context.Context, settlementID string) (*models.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.settlements[settlementID]
	if !ok {
		return nil, notFound("settlement", settlementID)
	}
	return &st, nil
}

func (s *Store) ListSettlementsByGroup(_ context.Context, groupID string) ([]*models.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var settlements []*models.Settlement
	for _, st := range s.settlements {
		if st.GroupID == groupID {
			st := st
			settlements = append(settlements, &st)
		}
	}
	sort.Slice(settlements, func(i, j int) bool {
		if settlements[i].CreatedAt != settlements[j].CreatedAt {
			return settlements[i].CreatedAt > settlements[j].CreatedAt
		}
		return settlements[i].ID < settlements[j].ID
	})
	return settlements, nil
}

func (s *Store) DeleteSettlement(_ context.Context, settlementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.settlements[settlementID]; !ok {
		return notFound("settlement", settlementID)
	}
	delete(s.settlements, settlementID)
	return nil
}

// requireMembers checks that every user belongs to the group. Callers hold mu.
func (s *Store) requireMembers(groupID string, userIDs ...string) error {
	g := s.groups[groupID]
	for _, id := range userIDs {
		if !slices.Contains(g.memberIDs, id) {
			return fmt.Errorf("user %s: %w", id, storage.ErrNotMember)
		}
	}
	return nil
}

// referenced reports whether any expense or settlement of the group names
// userID. Callers hold mu.
func (s *Store) referenced(groupID, userID string) bool {
	for _, e := range s.expenses {
		if e.GroupID == groupID && (e.PaidBy == userID || slices.Contains(e.SplitBetween, userID)) {
			return true
		}
	}
	for _, st := range s.settlements {
		if st.GroupID == groupID && (st.FromUserID == userID || st.ToUserID == userID) {
			return true
		}
	}
	return false
}
