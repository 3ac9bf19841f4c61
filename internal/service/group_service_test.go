package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitmate/internal/models"
	"github.com/mmynk/splitmate/internal/storage"
	"github.com/mmynk/splitmate/pkg/api"
)

func TestUserService(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		created, err := c.users.CreateUser(ctx, connect.NewRequest(&api.CreateUserRequest{
			Name:  "  Alice ",
			Email: "alice@example.com",
		}))
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if created.Msg.User.ID == "" {
			t.Error("expected non-empty user ID")
		}
		if created.Msg.User.Name != "Alice" {
			t.Errorf("name: expected 'Alice', got '%s'", created.Msg.User.Name)
		}

		got, err := c.users.GetUser(ctx, connect.NewRequest(&api.GetUserRequest{UserID: created.Msg.User.ID}))
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.Msg.User.Email != "alice@example.com" {
			t.Errorf("email: expected 'alice@example.com', got '%s'", got.Msg.User.Email)
		}
	})

	t.Run("list is ordered by name", func(t *testing.T) {
		c.createUser(t, "Charlie")
		c.createUser(t, "Bob")

		resp, err := c.users.ListUsers(ctx, connect.NewRequest(&api.ListUsersRequest{}))
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		var names []string
		for _, u := range resp.Msg.Users {
			names = append(names, u.Name)
		}
		want := []string{"Alice", "Bob", "Charlie"}
		if len(names) != len(want) {
			t.Fatalf("users: expected %v, got %v", want, names)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("users[%d]: expected %s, got %s", i, want[i], names[i])
			}
		}
	})

	t.Run("errors", func(t *testing.T) {
		_, err := c.users.CreateUser(ctx, connect.NewRequest(&api.CreateUserRequest{Name: "   "}))
		assertCode(t, err, connect.CodeInvalidArgument)

		_, err = c.users.GetUser(ctx, connect.NewRequest(&api.GetUserRequest{UserID: "missing"}))
		assertCode(t, err, connect.CodeNotFound)
	})
}

func TestCreateGroup(t *testing.T) {
	c := setupTestServer(t)

	group, users := c.createGroup(t, "Roommates", "Alice", "Bob", "Charlie")

	if group.ID == "" {
		t.Error("expected non-empty group ID")
	}
	if group.Name != "Roommates" {
		t.Errorf("name: expected 'Roommates', got '%s'", group.Name)
	}
	if len(group.Members) != 3 {
		t.Fatalf("members: expected 3, got %d", len(group.Members))
	}
	for i, u := range users {
		if group.Members[i].ID != u.ID {
			t.Errorf("members[%d]: expected %s, got %s", i, u.Name, group.Members[i].Name)
		}
	}
	if group.CreatedAt == 0 {
		t.Error("expected non-zero CreatedAt")
	}
}

func TestCreateGroupValidation(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	alice := c.createUser(t, "Alice")

	tests := []struct {
		name string
		req  *api.CreateGroupRequest
	}{
		{"missing name", &api.CreateGroupRequest{MemberIDs: []string{alice.ID}}},
		{"unknown member", &api.CreateGroupRequest{Name: "Trip", MemberIDs: []string{alice.ID, "ghost"}}},
		{"duplicate member", &api.CreateGroupRequest{Name: "Trip", MemberIDs: []string{alice.ID, alice.ID}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.groups.CreateGroup(ctx, connect.NewRequest(tt.req))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestGetGroup(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	group, _ := c.createGroup(t, "Work Lunch", "Diana", "Eve")

	resp, err := c.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if resp.Msg.Group.Name != "Work Lunch" {
		t.Errorf("name: expected 'Work Lunch', got '%s'", resp.Msg.Group.Name)
	}
	if len(resp.Msg.Group.Members) != 2 {
		t.Errorf("members: expected 2, got %d", len(resp.Msg.Group.Members))
	}

	_, err = c.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: "non-existent-id"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = c.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestListAndUpdateGroups(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	empty, err := c.groups.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(empty.Msg.Groups) != 0 {
		t.Errorf("expected no groups, got %d", len(empty.Msg.Groups))
	}

	group, _ := c.createGroup(t, "Old Name", "Alice")

	updated, err := c.groups.UpdateGroup(ctx, connect.NewRequest(&api.UpdateGroupRequest{
		GroupID:     group.ID,
		Name:        "New Name",
		Description: "weekend trip",
	}))
	if err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}
	if updated.Msg.Group.Name != "New Name" || updated.Msg.Group.Description != "weekend trip" {
		t.Errorf("unexpected updated group: %+v", updated.Msg.Group)
	}
	if len(updated.Msg.Group.Members) != 1 {
		t.Errorf("members: expected 1 after update, got %d", len(updated.Msg.Group.Members))
	}

	list, err := c.groups.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(list.Msg.Groups) != 1 || list.Msg.Groups[0].Name != "New Name" {
		t.Errorf("unexpected group list: %+v", list.Msg.Groups)
	}

	_, err = c.groups.UpdateGroup(ctx, connect.NewRequest(&api.UpdateGroupRequest{GroupID: "missing", Name: "x"}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestDeleteGroup(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	group, users := c.createGroup(t, "Trip", "Alice", "Bob")
	expense := c.addExpense(t, group.ID, "Dinner", 100, users[0].ID, users[0].ID, users[1].ID)

	if _, err := c.groups.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{GroupID: group.ID})); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	_, err := c.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: group.ID}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = c.expenses.GetExpense(ctx, connect.NewRequest(&api.GetExpenseRequest{ExpenseID: expense.ID}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = c.groups.DeleteGroup(ctx, connect.NewRequest(&api.DeleteGroupRequest{GroupID: group.ID}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestMembers(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	group, users := c.createGroup(t, "Flat", "Alice", "Bob")
	carol := c.createUser(t, "Carol")

	t.Run("add appends in order", func(t *testing.T) {
		resp, err := c.groups.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupID: group.ID, UserID: carol.ID}))
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		members := resp.Msg.Group.Members
		if len(members) != 3 || members[2].ID != carol.ID {
			t.Fatalf("expected Carol appended last, got %+v", members)
		}

		again, err := c.groups.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupID: group.ID, UserID: carol.ID}))
		if err != nil {
			t.Fatalf("AddMember (again) failed: %v", err)
		}
		if len(again.Msg.Group.Members) != 3 {
			t.Errorf("expected adding an existing member to be a no-op, got %d members", len(again.Msg.Group.Members))
		}
	})

	t.Run("add unknown user", func(t *testing.T) {
		_, err := c.groups.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupID: group.ID, UserID: "ghost"}))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("remove member with ledger entries", func(t *testing.T) {
		c.addExpense(t, group.ID, "Groceries", 60, users[0].ID, users[0].ID, users[1].ID)

		_, err := c.groups.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{GroupID: group.ID, UserID: users[1].ID}))
		assertCode(t, err, connect.CodeFailedPrecondition)
	})

	t.Run("remove idle member", func(t *testing.T) {
		resp, err := c.groups.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{GroupID: group.ID, UserID: carol.ID}))
		if err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		if len(resp.Msg.Group.Members) != 2 {
			t.Errorf("members: expected 2, got %d", len(resp.Msg.Group.Members))
		}

		_, err = c.groups.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{GroupID: group.ID, UserID: carol.ID}))
		assertCode(t, err, connect.CodeNotFound)
	})
}

// memberRemover removes leaving from the group right before the next ledger
// write reaches the store, after the service has checked membership.
type memberRemover struct {
	storage.Store
	leaving string
}

func (s *memberRemover) removeLeaving(ctx context.Context, groupID string) error {
	if s.leaving == "" {
		return nil
	}
	leaving := s.leaving
	s.leaving = ""
	return s.Store.RemoveGroupMember(ctx, groupID, leaving)
}

func (s *memberRemover) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if err := s.removeLeaving(ctx, expense.GroupID); err != nil {
		return err
	}
	return s.Store.CreateExpense(ctx, expense)
}

func (s *memberRemover) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if err := s.removeLeaving(ctx, settlement.GroupID); err != nil {
		return err
	}
	return s.Store.CreateSettlement(ctx, settlement)
}

func TestRemoveMemberDuringLedgerWrite(t *testing.T) {
	var remover *memberRemover
	c := setupTestServerWithStore(t, func(s storage.Store) storage.Store {
		remover = &memberRemover{Store: s}
		return remover
	})
	ctx := context.Background()
	group, users := c.createGroup(t, "Flat", "A", "B", "C")
	a, b, cc := users[0], users[1], users[2]

	remover.leaving = b.ID
	_, err := c.expenses.CreateExpense(ctx, connect.NewRequest(&api.CreateExpenseRequest{
		GroupID:      group.ID,
		Title:        "Dinner",
		Amount:       30,
		PaidBy:       a.ID,
		SplitBetween: []string{a.ID, b.ID},
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	remover.leaving = cc.ID
	_, err = c.settlements.CreateSettlement(ctx, connect.NewRequest(&api.CreateSettlementRequest{
		GroupID:    group.ID,
		FromUserID: cc.ID,
		ToUserID:   a.ID,
		Amount:     5,
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	resp, err := c.balances.GetGroupBalances(ctx, connect.NewRequest(&api.GetGroupBalancesRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroupBalances after rejected writes failed: %v", err)
	}
	if len(resp.Msg.Balances) != 1 || resp.Msg.Balances[0].UserID != a.ID {
		t.Errorf("balances: expected only A, got %+v", resp.Msg.Balances)
	}
	if !resp.Msg.Summary.IsSettled || len(resp.Msg.Suggestions) != 0 {
		t.Errorf("expected a settled, empty ledger, got %+v and %d suggestions", resp.Msg.Summary, len(resp.Msg.Suggestions))
	}
}
