// Package storagetest holds behaviour checks shared by every storage.Store
// backend. Each backend's tests call Run with a constructor for a fresh store.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/splitmate/internal/models"
	"github.com/mmynk/splitmate/internal/storage"
)

// Run exercises store against the storage.Store contract.
// newStore must return an empty store; it is called once per subtest group.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		store := newStore(t)

		alice := &models.User{Name: "Alice", Email: "alice@example.com"}
		if err := store.CreateUser(ctx, alice); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if alice.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if alice.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetUser(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.Name != "Alice" || got.Email != "alice@example.com" {
			t.Errorf("GetUser = %+v, want Alice", got)
		}

		if err := store.CreateUser(ctx, &models.User{Name: "Bob"}); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		users, err := store.ListUsers(ctx)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 2 || users[0].Name != "Alice" || users[1].Name != "Bob" {
			t.Errorf("ListUsers returned %d users, want Alice then Bob", len(users))
		}

		_, err = store.GetUser(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetUser(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("groups", func(t *testing.T) {
		store := newStore(t)
		a, b, c := createUsers(t, store, "Ann", "Ben", "Cat")

		group := &models.Group{Name: "Flat", Description: "Shared flat", Members: []models.User{*b, *a}}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Fatal("Expected group ID to be generated")
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		assertMembers(t, got, b.ID, a.ID)
		if got.Members[0].Name != "Ben" {
			t.Errorf("Expected member details to be loaded, got %+v", got.Members[0])
		}

		if err := store.AddGroupMember(ctx, group.ID, c.ID); err != nil {
			t.Fatalf("AddGroupMember failed: %v", err)
		}
		if err := store.AddGroupMember(ctx, group.ID, a.ID); err != nil {
			t.Fatalf("AddGroupMember(existing) failed: %v", err)
		}
		got, _ = store.GetGroup(ctx, group.ID)
		assertMembers(t, got, b.ID, a.ID, c.ID)

		if err := store.RemoveGroupMember(ctx, group.ID, a.ID); err != nil {
			t.Fatalf("RemoveGroupMember failed: %v", err)
		}
		got, _ = store.GetGroup(ctx, group.ID)
		assertMembers(t, got, b.ID, c.ID)

		if err := store.RemoveGroupMember(ctx, group.ID, a.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("RemoveGroupMember(non-member) error = %v, want ErrNotFound", err)
		}
		if err := store.AddGroupMember(ctx, "missing", a.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("AddGroupMember(missing group) error = %v, want ErrNotFound", err)
		}
		if err := store.AddGroupMember(ctx, group.ID, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("AddGroupMember(missing user) error = %v, want ErrNotFound", err)
		}

		got.Name = "Flat 2B"
		got.Description = "Renamed"
		if err := store.UpdateGroup(ctx, got); err != nil {
			t.Fatalf("UpdateGroup failed: %v", err)
		}
		got, _ = store.GetGroup(ctx, group.ID)
		if got.Name != "Flat 2B" || got.Description != "Renamed" {
			t.Errorf("UpdateGroup did not persist, got %+v", got)
		}
		assertMembers(t, got, b.ID, c.ID)

		if err := store.UpdateGroup(ctx, &models.Group{ID: "missing", Name: "x"}); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("UpdateGroup(missing) error = %v, want ErrNotFound", err)
		}

		groups, err := store.ListGroups(ctx)
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}
		if len(groups) != 1 || len(groups[0].Members) != 2 {
			t.Errorf("ListGroups = %d groups, want 1 with 2 members", len(groups))
		}
	})

	t.Run("expenses", func(t *testing.T) {
		store := newStore(t)
		a, b, _ := createUsers(t, store, "Ann", "Ben", "Cat")
		group := createGroup(t, store, a, b)

		older := &models.Expense{
			GroupID:      group.ID,
			Title:        "Groceries",
			Amount:       60,
			PaidBy:       a.ID,
			SplitBetween: []string{b.ID, a.ID, b.ID},
			Category:     models.CategoryFood,
			Date:         1700000000,
			Notes:        "weekly shop",
		}
		if err := store.CreateExpense(ctx, older); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		newer := &models.Expense{
			GroupID:      group.ID,
			Title:        "Cinema",
			Amount:       24,
			PaidBy:       b.ID,
			SplitBetween: []string{a.ID, b.ID},
			Date:         1700100000,
		}
		if err := store.CreateExpense(ctx, newer); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if newer.Category != models.CategoryOther {
			t.Errorf("Expected empty category to default to other, got %q", newer.Category)
		}

		got, err := store.GetExpense(ctx, older.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Title != "Groceries" || got.Amount != 60 || got.PaidBy != a.ID || got.Notes != "weekly shop" {
			t.Errorf("GetExpense = %+v", got)
		}
		if got.Category != models.CategoryFood || got.Date != 1700000000 {
			t.Errorf("GetExpense category/date = %q/%d", got.Category, got.Date)
		}
		wantSplit := []string{b.ID, a.ID, b.ID}
		if len(got.SplitBetween) != len(wantSplit) {
			t.Fatalf("Expected %d split entries, got %d", len(wantSplit), len(got.SplitBetween))
		}
		for i := range wantSplit {
			if got.SplitBetween[i] != wantSplit[i] {
				t.Errorf("SplitBetween[%d] = %s, want %s", i, got.SplitBetween[i], wantSplit[i])
			}
		}

		list, err := store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("Expected 2 expenses, got %d", len(list))
		}
		if list[0].ID != newer.ID || list[1].ID != older.ID {
			t.Error("Expected expenses ordered most recent first")
		}
		if len(list[1].SplitBetween) != 3 {
			t.Errorf("Expected listed expense to carry its splits, got %v", list[1].SplitBetween)
		}

		err = store.CreateExpense(ctx, &models.Expense{GroupID: "missing", Title: "x", Amount: 1, PaidBy: a.ID, SplitBetween: []string{a.ID}})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("CreateExpense(missing group) error = %v, want ErrNotFound", err)
		}

		if err := store.DeleteExpense(ctx, older.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, older.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetExpense(deleted) error = %v, want ErrNotFound", err)
		}
		if err := store.DeleteExpense(ctx, older.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteExpense(deleted) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("settlements", func(t *testing.T) {
		store := newStore(t)
		a, b, _ := createUsers(t, store, "Ann", "Ben", "Cat")
		group := createGroup(t, store, a, b)

		first := &models.Settlement{GroupID: group.ID, FromUserID: b.ID, ToUserID: a.ID, Amount: 10, CreatedAt: 1700000000}
		second := &models.Settlement{GroupID: group.ID, FromUserID: a.ID, ToUserID: b.ID, Amount: 2.5, Note: "change", CreatedAt: 1700000500}
		for _, s := range []*models.Settlement{first, second} {
			if err := store.CreateSettlement(ctx, s); err != nil {
				t.Fatalf("CreateSettlement failed: %v", err)
			}
		}

		got, err := store.GetSettlement(ctx, second.ID)
		if err != nil {
			t.Fatalf("GetSettlement failed: %v", err)
		}
		if got.FromUserID != a.ID || got.ToUserID != b.ID || got.Amount != 2.5 || got.Note != "change" {
			t.Errorf("GetSettlement = %+v", got)
		}

		list, err := store.ListSettlementsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListSettlementsByGroup failed: %v", err)
		}
		if len(list) != 2 || list[0].ID != second.ID {
			t.Errorf("Expected 2 settlements with most recent first, got %d", len(list))
		}
		if list[1].Note != "" {
			t.Errorf("Expected empty note, got %q", list[1].Note)
		}

		if err := store.DeleteSettlement(ctx, first.ID); err != nil {
			t.Fatalf("DeleteSettlement failed: %v", err)
		}
		if err := store.DeleteSettlement(ctx, first.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteSettlement(deleted) error = %v, want ErrNotFound", err)
		}
		if _, err := store.GetSettlement(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetSettlement(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete group cascades", func(t *testing.T) {
		store := newStore(t)
		a, b, _ := createUsers(t, store, "Ann", "Ben", "Cat")
		group := createGroup(t, store, a, b)

		expense := &models.Expense{GroupID: group.ID, Title: "Taxi", Amount: 30, PaidBy: a.ID, SplitBetween: []string{a.ID, b.ID}}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		settlement := &models.Settlement{GroupID: group.ID, FromUserID: b.ID, ToUserID: a.ID, Amount: 15}
		if err := store.CreateSettlement(ctx, settlement); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}

		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetGroup(deleted) error = %v, want ErrNotFound", err)
		}
		if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetExpense after group delete error = %v, want ErrNotFound", err)
		}
		if _, err := store.GetSettlement(ctx, settlement.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetSettlement after group delete error = %v, want ErrNotFound", err)
		}
		if err := store.DeleteGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteGroup(deleted) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ledger writes require membership", func(t *testing.T) {
		store := newStore(t)
		a, b, c := createUsers(t, store, "Ann", "Ben", "Cat")
		group := createGroup(t, store, a, b)

		err := store.CreateExpense(ctx, &models.Expense{GroupID: group.ID, Title: "x", Amount: 9, PaidBy: a.ID, SplitBetween: []string{a.ID, c.ID}})
		if !errors.Is(err, storage.ErrNotMember) {
			t.Errorf("CreateExpense(outside sharer) error = %v, want ErrNotMember", err)
		}
		err = store.CreateExpense(ctx, &models.Expense{GroupID: group.ID, Title: "x", Amount: 9, PaidBy: c.ID, SplitBetween: []string{a.ID}})
		if !errors.Is(err, storage.ErrNotMember) {
			t.Errorf("CreateExpense(outside payer) error = %v, want ErrNotMember", err)
		}
		err = store.CreateSettlement(ctx, &models.Settlement{GroupID: group.ID, FromUserID: c.ID, ToUserID: a.ID, Amount: 1})
		if !errors.Is(err, storage.ErrNotMember) {
			t.Errorf("CreateSettlement(outside payer) error = %v, want ErrNotMember", err)
		}
		if list, _ := store.ListExpensesByGroup(ctx, group.ID); len(list) != 0 {
			t.Errorf("Expected rejected expenses not to be stored, got %d", len(list))
		}

		// b is only a sharer, c only receives a settlement.
		if err := store.AddGroupMember(ctx, group.ID, c.ID); err != nil {
			t.Fatalf("AddGroupMember failed: %v", err)
		}
		if err := store.CreateExpense(ctx, &models.Expense{GroupID: group.ID, Title: "Tea", Amount: 4, PaidBy: a.ID, SplitBetween: []string{a.ID, b.ID}}); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if err := store.CreateSettlement(ctx, &models.Settlement{GroupID: group.ID, FromUserID: a.ID, ToUserID: c.ID, Amount: 1}); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}
		for _, u := range []*models.User{a, b, c} {
			if err := store.RemoveGroupMember(ctx, group.ID, u.ID); !errors.Is(err, storage.ErrMemberInUse) {
				t.Errorf("RemoveGroupMember(%s) error = %v, want ErrMemberInUse", u.Name, err)
			}
		}
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		assertMembers(t, got, a.ID, b.ID, c.ID)

		// Once nothing names c any more, c can leave.
		settlements, _ := store.ListSettlementsByGroup(ctx, group.ID)
		for _, s := range settlements {
			if err := store.DeleteSettlement(ctx, s.ID); err != nil {
				t.Fatalf("DeleteSettlement failed: %v", err)
			}
		}
		if err := store.RemoveGroupMember(ctx, group.ID, c.ID); err != nil {
			t.Fatalf("RemoveGroupMember failed: %v", err)
		}
		got, err = store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		assertMembers(t, got, a.ID, b.ID)
	})

	t.Run("sample data", func(t *testing.T) {
		store := newStore(t)
		groups, seeded, err := storage.SeedIfEmpty(ctx, store)
		if err != nil {
			t.Fatalf("SeedIfEmpty failed: %v", err)
		}
		if !seeded || len(groups) != 2 {
			t.Fatalf("Expected 2 seeded groups, got %d (seeded=%v)", len(groups), seeded)
		}

		// A second start over the same data writes nothing.
		again, seeded, err := storage.SeedIfEmpty(ctx, store)
		if err != nil {
			t.Fatalf("SeedIfEmpty (again) failed: %v", err)
		}
		if seeded || len(again) != 0 {
			t.Errorf("Expected seeding to be skipped, got %d groups (seeded=%v)", len(again), seeded)
		}
		if users, _ := store.ListUsers(ctx); len(users) != 4 {
			t.Errorf("Expected 4 users after reseeding, got %d", len(users))
		}
		if all, _ := store.ListGroups(ctx); len(all) != 2 {
			t.Errorf("Expected 2 groups after reseeding, got %d", len(all))
		}

		trip, err := store.GetGroup(ctx, groups[0].ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if trip.Name != "Trip to Manali" || len(trip.Members) != 3 {
			t.Errorf("Unexpected trip group %+v", trip)
		}
		expenses, _ := store.ListExpensesByGroup(ctx, trip.ID)
		settlements, _ := store.ListSettlementsByGroup(ctx, trip.ID)
		if len(expenses) != 3 || len(settlements) != 1 {
			t.Fatalf("Expected 3 expenses and 1 settlement, got %d and %d", len(expenses), len(settlements))
		}
		if expenses[0].Title != "Taxi to Airport" {
			t.Errorf("Expected most recent expense first, got %q", expenses[0].Title)
		}
	})
}

func createUsers(t *testing.T, store storage.Store, names ...string) (*models.User, *models.User, *models.User) {
	t.Helper()
	users := make([]*models.User, len(names))
	for i, name := range names {
		users[i] = &models.User{Name: name}
		if err := store.CreateUser(context.Background(), users[i]); err != nil {
			t.Fatalf("CreateUser(%s) failed: %v", name, err)
		}
	}
	return users[0], users[1], users[2]
}

func createGroup(t *testing.T, store storage.Store, members ...*models.User) *models.Group {
	t.Helper()
	group := &models.Group{Name: "Test Group"}
	for _, m := range members {
		group.Members = append(group.Members, *m)
	}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}

func assertMembers(t *testing.T, group *models.Group, want ...string) {
	t.Helper()
	got := group.MemberIDs()
	if len(got) != len(want) {
		t.Fatalf("Expected %d members, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Member[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
