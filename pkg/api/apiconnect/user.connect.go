package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitmate/pkg/api"
)

// UserServiceName is the fully-qualified name of the UserService service.
const UserServiceName = "splitmate.v1.UserService"

const (
	UserServiceCreateUserProcedure = "/splitmate.v1.UserService/CreateUser"
	UserServiceGetUserProcedure    = "/splitmate.v1.UserService/GetUser"
	UserServiceListUsersProcedure  = "/splitmate.v1.UserService/ListUsers"
)

// UserServiceClient is a client for the splitmate.v1.UserService service.
type UserServiceClient interface {
	CreateUser(context.Context, *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error)
	GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
}

// NewUserServiceClient constructs a client for the splitmate.v1.UserService service.
// The URL supplied should be the base URL of the server (for example, http://localhost:8080).
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) UserServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &userServiceClient{
		createUser: connect.NewClient[api.CreateUserRequest, api.CreateUserResponse](
			httpClient, baseURL+UserServiceCreateUserProcedure, clientOptions(opts)),
		getUser: connect.NewClient[api.GetUserRequest, api.GetUserResponse](
			httpClient, baseURL+UserServiceGetUserProcedure, clientOptions(opts)),
		listUsers: connect.NewClient[api.ListUsersRequest, api.ListUsersResponse](
			httpClient, baseURL+UserServiceListUsersProcedure, clientOptions(opts)),
	}
}

type userServiceClient struct {
	createUser *connect.Client[api.CreateUserRequest, api.CreateUserResponse]
	getUser    *connect.Client[api.GetUserRequest, api.GetUserResponse]
	listUsers  *connect.Client[api.ListUsersRequest, api.ListUsersResponse]
}

func (c *userServiceClient) CreateUser(ctx context.Context, req *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

func (c *userServiceClient) GetUser(ctx context.Context, req *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	return c.getUser.CallUnary(ctx, req)
}

func (c *userServiceClient) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

// UserServiceHandler is an implementation of the splitmate.v1.UserService service.
type UserServiceHandler interface {
	CreateUser(context.Context, *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error)
	GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
}

// NewUserServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	createUser := connect.NewUnaryHandler(UserServiceCreateUserProcedure, svc.CreateUser, handlerOptions(opts))
	getUser := connect.NewUnaryHandler(UserServiceGetUserProcedure, svc.GetUser, handlerOptions(opts))
	listUsers := connect.NewUnaryHandler(UserServiceListUsersProcedure, svc.ListUsers, handlerOptions(opts))
	return "/splitmate.v1.UserService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case UserServiceCreateUserProcedure:
			createUser.ServeHTTP(w, r)
		case UserServiceGetUserProcedure:
			getUser.ServeHTTP(w, r)
		case UserServiceListUsersProcedure:
			listUsers.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedUserServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedUserServiceHandler struct{}

func (UnimplementedUserServiceHandler) CreateUser(context.Context, *connect.Request[api.CreateUserRequest]) (*connect.Response[api.CreateUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitmate.v1.UserService.CreateUser is not implemented"))
}

func (UnimplementedUserServiceHandler) GetUser(context.Context, *connect.Request[api.GetUserRequest]) (*connect.Response[api.GetUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitmate.v1.UserService.GetUser is not implemented"))
}

func (UnimplementedUserServiceHandler) ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitmate.v1.UserService.ListUsers is not implemented"))
}
