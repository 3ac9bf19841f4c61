package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitmate/internal/calculator"
	"github.com/mmynk/splitmate/internal/storage"
	"github.com/mmynk/splitmate/pkg/api"
	"github.com/mmynk/splitmate/pkg/api/apiconnect"
)

// recentLimit is how many expenses and settlements GetGroupSummary returns.
const recentLimit = 5

var errInconsistentLedger = errors.New("group ledger is inconsistent and cannot be balanced")

// BalanceService implements the Connect BalanceService. It only reads.
type BalanceService struct {
	apiconnect.UnimplementedBalanceServiceHandler
	reader storage.LedgerReader
	opts   options
}

// NewBalanceService creates a new BalanceService reading from reader.
func NewBalanceService(reader storage.LedgerReader, opts ...Option) *BalanceService {
	return &BalanceService{reader: reader, opts: newOptions(opts)}
}

// GetGroupBalances computes every member's net balance and the transfers
// that would settle the group.
func (s *BalanceService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	slog.Info("GetGroupBalances request received", "group_id", req.Msg.GroupID)

	l, report, err := s.report(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	slog.Info("GetGroupBalances successful",
		"group_id", l.group.ID,
		"members_count", len(report.members),
		"suggestions_count", len(report.suggestions),
		"is_settled", report.summary.IsSettled,
	)

	return connect.NewResponse(&api.GetGroupBalancesResponse{
		GroupID:     l.group.ID,
		Balances:    memberBalancesToAPI(report.members),
		Suggestions: suggestionsToAPI(report.suggestions),
		Summary:     summaryToAPI(report.summary),
		Residual:    calculator.RoundCents(report.residual),
	}), nil
}

// GetGroupSummary returns a group with its balances, total spending and
// most recent activity.
func (s *BalanceService) GetGroupSummary(ctx context.Context, req *connect.Request[api.GetGroupSummaryRequest]) (*connect.Response[api.GetGroupSummaryResponse], error) {
	slog.Info("GetGroupSummary request received", "group_id", req.Msg.GroupID)

	l, report, err := s.report(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, e := range l.expenses {
		total += e.Amount
	}

	return connect.NewResponse(&api.GetGroupSummaryResponse{
		Group:             groupToAPI(l.group),
		TotalExpenses:     calculator.RoundCents(total),
		Balances:          memberBalancesToAPI(report.members),
		Summary:           summaryToAPI(report.summary),
		RecentExpenses:    expensesToAPI(l.expenses[:min(recentLimit, len(l.expenses))]),
		RecentSettlements: settlementsToAPI(l.settlements[:min(recentLimit, len(l.settlements))]),
	}), nil
}

// report loads a group's ledger and runs the balance engine over it.
func (s *BalanceService) report(ctx context.Context, groupID string) (*ledger, *balanceReport, error) {
	if groupID == "" {
		return nil, nil, invalidArgument("groupId is required")
	}

	l, err := loadLedger(ctx, s.reader, groupID)
	if err != nil {
		slog.Error("Failed to load group ledger", "group_id", groupID, "error", err)
		return nil, nil, storeError(err)
	}

	report, err := l.computeReport()
	if err != nil {
		if calculator.IsInputError(err) {
			slog.Error("Balance computation rejected stored ledger", "group_id", groupID, "error", err)
			s.opts.metrics.ObserveBalance("invalid_input", 0, 0)
			return nil, nil, connect.NewError(connect.CodeFailedPrecondition, errInconsistentLedger)
		}
		slog.Error("Balance computation failed", "group_id", groupID, "error", err)
		s.opts.metrics.ObserveBalance("error", 0, 0)
		return nil, nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to compute balances: %w", err))
	}

	s.opts.metrics.ObserveBalance("ok", len(report.suggestions), report.residual)
	return l, report, nil
}
