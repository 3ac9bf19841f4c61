// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitmate/internal/models"
)

// ErrNotFound is wrapped by every store when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrNotMember is wrapped when an expense or settlement names a user who is
// not a member of its group.
var ErrNotMember = errors.New("not a member of the group")

// ErrMemberInUse is wrapped when removing a member who is still referenced by
// an expense or settlement of the group.
var ErrMemberInUse = errors.New("member has expenses or settlements in the group")

// LedgerReader is the read side needed to compute a group's balances.
// Expenses and settlements are always scoped to one group.
type LedgerReader interface {
	// GetGroup retrieves a group by its ID, including its ordered members.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListExpensesByGroup retrieves all expenses of a group, most recent first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ListSettlementsByGroup retrieves all settlements of a group, most recent first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)
}

// Store defines the interface for SplitMate storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, in-memory)
// without changing the service layer.
//
// Create methods populate an empty ID and CreatedAt on the passed model.
type Store interface {
	LedgerReader

	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateGroup persists a group and its members in the given order.
	// Every member must reference an existing user.
	CreateGroup(ctx context.Context, group *models.Group) error
	ListGroups(ctx context.Context) ([]*models.Group, error)
	// UpdateGroup changes the name and description. Members are left alone.
	UpdateGroup(ctx context.Context, group *models.Group) error
	// DeleteGroup removes a group with all its expenses and settlements.
	DeleteGroup(ctx context.Context, groupID string) error
	// AddGroupMember appends a user to the end of the member list.
	// Adding an existing member is a no-op.
	AddGroupMember(ctx context.Context, groupID, userID string) error
	// RemoveGroupMember fails with ErrMemberInUse while any expense or
	// settlement of the group names the user.
	RemoveGroupMember(ctx context.Context, groupID, userID string) error

	// CreateExpense and CreateSettlement fail with ErrNotMember unless every
	// user they name is a member of the group at the time of the write.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string) error

	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)
	DeleteSettlement(ctx context.Context, settlementID string) error

	// Close releases any resources held by the store.
	Close() error
}
