package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitmate/internal/models"
	"github.com/mmynk/splitmate/internal/storage"
	"github.com/mmynk/splitmate/pkg/api"
	"github.com/mmynk/splitmate/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a new group. Members keep the order of req.MemberIDs.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberIDs),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name is required")
	}

	members := make([]models.User, 0, len(req.Msg.MemberIDs))
	seen := make(map[string]bool, len(req.Msg.MemberIDs))
	for _, id := range req.Msg.MemberIDs {
		if seen[id] {
			return nil, invalidArgument("member %q listed twice", id)
		}
		seen[id] = true

		user, err := s.store.GetUser(ctx, id)
		if err != nil {
			slog.Error("CreateGroup failed - unknown member", "user_id", id, "error", err)
			if errors.Is(err, storage.ErrNotFound) {
				return nil, invalidArgument("unknown member %q", id)
			}
			return nil, storeError(err)
		}
		members = append(members, *user)
	}

	group := &models.Group{
		Name:        name,
		Description: strings.TrimSpace(req.Msg.Description),
		Members:     members,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: groupToAPI(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := requireGroup(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, err
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)

	return connect.NewResponse(&api.GetGroupResponse{Group: groupToAPI(group)}), nil
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, storeError(err)
	}

	out := make([]*api.Group, len(groups))
	for i, group := range groups {
		out[i] = groupToAPI(group)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// UpdateGroup renames a group or changes its description.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	slog.Info("UpdateGroup request received",
		"group_id", req.Msg.GroupID,
		"name", req.Msg.Name,
	)

	if req.Msg.GroupID == "" {
		return nil, invalidArgument("groupId is required")
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name is required")
	}

	group := &models.Group{
		ID:          req.Msg.GroupID,
		Name:        name,
		Description: strings.TrimSpace(req.Msg.Description),
	}
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "error", err)
		return nil, storeError(err)
	}

	// Fetch updated group to get members and CreatedAt
	updated, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		slog.Error("Failed to fetch updated group", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Group updated", "group_id", group.ID)

	return connect.NewResponse(&api.UpdateGroupResponse{Group: groupToAPI(updated)}), nil
}

// DeleteGroup deletes a group together with its expenses and settlements.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if req.Msg.GroupID == "" {
		return nil, invalidArgument("groupId is required")
	}
	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddMember appends a user to a group. Adding an existing member is a no-op.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	slog.Info("AddMember request received", "group_id", req.Msg.GroupID, "user_id", req.Msg.UserID)

	if req.Msg.GroupID == "" || req.Msg.UserID == "" {
		return nil, invalidArgument("groupId and userId are required")
	}
	if err := s.store.AddGroupMember(ctx, req.Msg.GroupID, req.Msg.UserID); err != nil {
		slog.Error("AddMember failed", "group_id", req.Msg.GroupID, "user_id", req.Msg.UserID, "error", err)
		return nil, storeError(err)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, storeError(err)
	}

	slog.Info("Member added", "group_id", group.ID, "user_id", req.Msg.UserID, "members_count", len(group.Members))

	return connect.NewResponse(&api.AddMemberResponse{Group: groupToAPI(group)}), nil
}

// RemoveMember removes a user from a group. Members referenced by any
// expense or settlement of the group stay (FailedPrecondition).
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "group_id", req.Msg.GroupID, "user_id", req.Msg.UserID)

	if req.Msg.GroupID == "" || req.Msg.UserID == "" {
		return nil, invalidArgument("groupId and userId are required")
	}

	// The store refuses removal while the member's expenses or settlements remain.
	if err := s.store.RemoveGroupMember(ctx, req.Msg.GroupID, req.Msg.UserID); err != nil {
		if errors.Is(err, storage.ErrMemberInUse) {
			slog.Warn("RemoveMember refused - member has ledger entries", "group_id", req.Msg.GroupID, "user_id", req.Msg.UserID)
		} else {
			slog.Error("RemoveMember failed", "group_id", req.Msg.GroupID, "user_id", req.Msg.UserID, "error", err)
		}
		return nil, storeError(err)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, storeError(err)
	}

	slog.Info("Member removed", "group_id", group.ID, "user_id", req.Msg.UserID)

	return connect.NewResponse(&api.RemoveMemberResponse{Group: groupToAPI(group)}), nil
}
