package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitmate/internal/calculator"
	"github.com/mmynk/splitmate/internal/models"
	"github.com/mmynk/splitmate/internal/storage"
	"github.com/mmynk/splitmate/pkg/api"
	"github.com/mmynk/splitmate/pkg/api/apiconnect"
)

const expenseScope = "expense"

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	apiconnect.UnimplementedExpenseServiceHandler
	store storage.Store
	opts  options
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, opts ...Option) *ExpenseService {
	return &ExpenseService{store: store, opts: newOptions(opts)}
}

// CreateExpense records an expense paid by one member and split equally
// between the members in splitBetween.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"title", req.Msg.Title,
		"amount", req.Msg.Amount,
		"split_count", len(req.Msg.SplitBetween),
	)

	title := strings.TrimSpace(req.Msg.Title)
	if title == "" {
		return nil, invalidArgument("title is required")
	}
	category, err := models.ParseExpenseCategory(req.Msg.Category)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}
	shares, err := calculator.EqualShares(req.Msg.Amount, req.Msg.SplitBetween)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}

	group, err := requireGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		slog.Error("CreateExpense failed - group lookup", "group_id", req.Msg.GroupID, "error", err)
		return nil, err
	}
	if !group.HasMember(req.Msg.PaidBy) {
		return nil, invalidArgument("paidBy %q is not a member of the group", req.Msg.PaidBy)
	}
	for _, id := range req.Msg.SplitBetween {
		if !group.HasMember(id) {
			return nil, invalidArgument("splitBetween entry %q is not a member of the group", id)
		}
	}

	c, err := s.opts.claimResource(expenseScope, req.Header(), req.Msg)
	if err != nil {
		slog.Error("CreateExpense failed - idempotency claim", "error", err)
		return nil, err
	}
	if c.replayed {
		existing, err := s.store.GetExpense(ctx, c.resourceID)
		if err != nil {
			return nil, replayLookupError(err)
		}
		return connect.NewResponse(&api.CreateExpenseResponse{
			Expense:  expenseToAPI(existing),
			Shares:   roundShares(shares),
			Replayed: true,
		}), nil
	}

	expense := &models.Expense{
		ID:           c.resourceID,
		GroupID:      group.ID,
		Title:        title,
		Amount:       req.Msg.Amount,
		PaidBy:       req.Msg.PaidBy,
		SplitBetween: req.Msg.SplitBetween,
		Category:     category,
		Date:         req.Msg.Date,
		Notes:        strings.TrimSpace(req.Msg.Notes),
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		c.release()
		slog.Error("CreateExpense failed", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Expense created", "expense_id", expense.ID, "group_id", expense.GroupID)

	return connect.NewResponse(&api.CreateExpenseResponse{
		Expense: expenseToAPI(expense),
		Shares:  roundShares(shares),
	}), nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	slog.Info("GetExpense request received", "expense_id", req.Msg.ExpenseID)

	if req.Msg.ExpenseID == "" {
		return nil, invalidArgument("expenseId is required")
	}
	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("GetExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storeError(err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// ListExpenses retrieves the expenses of a group, most recent first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID)

	if _, err := requireGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("ListExpenses successful", "group_id", req.Msg.GroupID, "count", len(expenses))

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: expensesToAPI(expenses)}), nil
}

// DeleteExpense deletes an expense by ID.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if req.Msg.ExpenseID == "" {
		return nil, invalidArgument("expenseId is required")
	}
	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Expense deleted", "expense_id", req.Msg.ExpenseID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

func roundShares(shares map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(shares))
	for id, amount := range shares {
		out[id] = calculator.RoundCents(amount)
	}
	return out
}
