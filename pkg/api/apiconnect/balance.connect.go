package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitmate/pkg/api"
)

// BalanceServiceName is the fully-qualified name of the BalanceService service.
const BalanceServiceName = "splitmate.v1.BalanceService"

const (
	BalanceServiceGetGroupBalancesProcedure = "/splitmate.v1.BalanceService/GetGroupBalances"
	BalanceServiceGetGroupSummaryProcedure  = "/splitmate.v1.BalanceService/GetGroupSummary"
)

// BalanceServiceClient is a client for the splitmate.v1.BalanceService service.
type BalanceServiceClient interface {
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	GetGroupSummary(context.Context, *connect.Request[api.GetGroupSummaryRequest]) (*connect.Response[api.GetGroupSummaryResponse], error)
}

// NewBalanceServiceClient constructs a client for the splitmate.v1.BalanceService service.
func NewBalanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BalanceServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &balanceServiceClient{
		getGroupBalances: connect.NewClient[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](
			httpClient, baseURL+BalanceServiceGetGroupBalancesProcedure, clientOptions(opts)),
		getGroupSummary: connect.NewClient[api.GetGroupSummaryRequest, api.GetGroupSummaryResponse](
			httpClient, baseURL+BalanceServiceGetGroupSummaryProcedure, clientOptions(opts)),
	}
}

type balanceServiceClient struct {
	getGroupBalances *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
	getGroupSummary  *connect.Client[api.GetGroupSummaryRequest, api.GetGroupSummaryResponse]
}

func (c *balanceServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

func (c *balanceServiceClient) GetGroupSummary(ctx context.Context, req *connect.Request[api.GetGroupSummaryRequest]) (*connect.Response[api.GetGroupSummaryResponse], error) {
	return c.getGroupSummary.CallUnary(ctx, req)
}

// BalanceServiceHandler is an implementation of the splitmate.v1.BalanceService service.
type BalanceServiceHandler interface {
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	GetGroupSummary(context.Context, *connect.Request[api.GetGroupSummaryRequest]) (*connect.Response[api.GetGroupSummaryResponse], error)
}

// NewBalanceServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewBalanceServiceHandler(svc BalanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	getGroupBalances := connect.NewUnaryHandler(BalanceServiceGetGroupBalancesProcedure, svc.GetGroupBalances, handlerOptions(opts))
	getGroupSummary := connect.NewUnaryHandler(BalanceServiceGetGroupSummaryProcedure, svc.GetGroupSummary, handlerOptions(opts))
	return "/splitmate.v1.BalanceService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BalanceServiceGetGroupBalancesProcedure:
			getGroupBalances.ServeHTTP(w, r)
		case BalanceServiceGetGroupSummaryProcedure:
			getGroupSummary.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedBalanceServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedBalanceServiceHandler struct{}

func (UnimplementedBalanceServiceHandler) GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitmate.v1.BalanceService.GetGroupBalances is not implemented"))
}

func (UnimplementedBalanceServiceHandler) GetGroupSummary(context.Context, *connect.Request[api.GetGroupSummaryRequest]) (*connect.Response[api.GetGroupSummaryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitmate.v1.BalanceService.GetGroupSummary is not implemented"))
}
