package service

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitmate/internal/models"
	"github.com/mmynk/splitmate/internal/storage"
	"github.com/mmynk/splitmate/pkg/api"
	"github.com/mmynk/splitmate/pkg/api/apiconnect"
)

const settlementScope = "settlement"

// SettlementService implements the Connect SettlementService.
type SettlementService struct {
	apiconnect.UnimplementedSettlementServiceHandler
	store storage.Store
	opts  options
}

// NewSettlementService creates a new SettlementService with the given storage backend.
func NewSettlementService(store storage.Store, opts ...Option) *SettlementService {
	return &SettlementService{store: store, opts: newOptions(opts)}
}

// CreateSettlement records a payment from one member to another.
func (s *SettlementService) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	slog.Info("CreateSettlement request received",
		"group_id", req.Msg.GroupID,
		"from_user_id", req.Msg.FromUserID,
		"to_user_id", req.Msg.ToUserID,
		"amount", req.Msg.Amount,
	)

	if req.Msg.FromUserID == "" || req.Msg.ToUserID == "" {
		return nil, invalidArgument("fromUserId and toUserId are required")
	}
	if req.Msg.FromUserID == req.Msg.ToUserID {
		return nil, invalidArgument("a member cannot settle with themselves")
	}
	if !(req.Msg.Amount > 0) || math.IsInf(req.Msg.Amount, 0) {
		return nil, invalidArgument("amount must be a positive number, got %v", req.Msg.Amount)
	}

	group, err := requireGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		slog.Error("CreateSettlement failed - group lookup", "group_id", req.Msg.GroupID, "error", err)
		return nil, err
	}
	for _, id := range []string{req.Msg.FromUserID, req.Msg.ToUserID} {
		if !group.HasMember(id) {
			return nil, invalidArgument("user %q is not a member of the group", id)
		}
	}

	c, err := s.opts.claimResource(settlementScope, req.Header(), req.Msg)
	if err != nil {
		slog.Error("CreateSettlement failed - idempotency claim", "error", err)
		return nil, err
	}
	if c.replayed {
		existing, err := s.store.GetSettlement(ctx, c.resourceID)
		if err != nil {
			return nil, replayLookupError(err)
		}
		return connect.NewResponse(&api.CreateSettlementResponse{
			Settlement: settlementToAPI(existing),
			Replayed:   true,
		}), nil
	}

	settlement := &models.Settlement{
		ID:         c.resourceID,
		GroupID:    group.ID,
		FromUserID: req.Msg.FromUserID,
		ToUserID:   req.Msg.ToUserID,
		Amount:     req.Msg.Amount,
		Note:       strings.TrimSpace(req.Msg.Note),
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		c.release()
		slog.Error("CreateSettlement failed", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Settlement created", "settlement_id", settlement.ID, "group_id", settlement.GroupID)

	return connect.NewResponse(&api.CreateSettlementResponse{Settlement: settlementToAPI(settlement)}), nil
}

// ListSettlements retrieves the settlements of a group, most recent first.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	slog.Info("ListSettlements request received", "group_id", req.Msg.GroupID)

	if _, err := requireGroup(ctx, s.store, req.Msg.GroupID); err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: settlementsToAPI(settlements)}), nil
}

// DeleteSettlement deletes a settlement by ID.
func (s *SettlementService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	slog.Info("DeleteSettlement request received", "settlement_id", req.Msg.SettlementID)

	if req.Msg.SettlementID == "" {
		return nil, invalidArgument("settlementId is required")
	}
	if err := s.store.DeleteSettlement(ctx, req.Msg.SettlementID); err != nil {
		slog.Error("DeleteSettlement failed", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Settlement deleted", "settlement_id", req.Msg.SettlementID)

	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}
