package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitmate/internal/models"
	"github.com/mmynk/splitmate/internal/storage"
	"github.com/mmynk/splitmate/pkg/api"
	"github.com/mmynk/splitmate/pkg/api/apiconnect"
)

// UserService implements the Connect UserService.
type UserService struct {
	apiconnect.UnimplementedUserServiceHandler
	store storage.Store
}

// NewUserService creates a new UserService with the given storage backend.
func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// CreateUser registers a new user.
func (s *UserService) CreateUser(ctx context.Context, req *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error) {
	slog.Info("CreateUser request received", "name", req.Msg.Name)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("name is required")
	}

	user := &models.User{
		Name:   name,
		Email:  strings.TrimSpace(req.Msg.Email),
		Avatar: req.Msg.Avatar,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		slog.Error("CreateUser failed", "error", err)
		return nil, storeError(err)
	}

	slog.Info("User created", "user_id", user.ID)

	return connect.NewResponse(&api.CreateUserResponse{User: userToAPI(user)}), nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	slog.Info("GetUser request received", "user_id", req.Msg.UserID)

	if req.Msg.UserID == "" {
		return nil, invalidArgument("userId is required")
	}

	user, err := s.store.GetUser(ctx, req.Msg.UserID)
	if err != nil {
		slog.Error("GetUser failed", "user_id", req.Msg.UserID, "error", err)
		return nil, storeError(err)
	}

	return connect.NewResponse(&api.GetUserResponse{User: userToAPI(user)}), nil
}

// ListUsers retrieves all users ordered by name.
func (s *UserService) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	slog.Info("ListUsers request received")

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		slog.Error("ListUsers failed", "error", err)
		return nil, storeError(err)
	}

	out := make([]*api.User, len(users))
	for i, u := range users {
		out[i] = userToAPI(u)
	}

	slog.Info("ListUsers successful", "count", len(users))

	return connect.NewResponse(&api.ListUsersResponse{Users: out}), nil
}
