package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitmate/internal/idempotency"
	"github.com/mmynk/splitmate/internal/metrics"
	"github.com/mmynk/splitmate/internal/middleware"
	"github.com/mmynk/splitmate/internal/storage"
	"github.com/mmynk/splitmate/internal/storage/sqlite"
	"github.com/mmynk/splitmate/pkg/api"
	"github.com/mmynk/splitmate/pkg/api/apiconnect"
)

// testClients holds a client for every service, all talking to one test server.
type testClients struct {
	users       apiconnect.UserServiceClient
	groups      apiconnect.GroupServiceClient
	expenses    apiconnect.ExpenseServiceClient
	settlements apiconnect.SettlementServiceClient
	balances    apiconnect.BalanceServiceClient
	metrics     *metrics.Metrics
}

// setupTestServer wires every service over a temporary SQLite database and
// idempotency store, with the same interceptors the server uses.
func setupTestServer(t *testing.T) *testClients {
	t.Helper()
	return setupTestServerWithStore(t, nil)
}

// setupTestServerWithStore is setupTestServer with the services seeing
// wrap(store) instead of the SQLite store itself. A nil wrap leaves it as is.
func setupTestServerWithStore(t *testing.T, wrap func(storage.Store) storage.Store) *testClients {
	t.Helper()

	dir := t.TempDir()
	sqliteStore, err := sqlite.New(filepath.Join(dir, "splitmate.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })

	var store storage.Store = sqliteStore
	if wrap != nil {
		store = wrap(store)
	}

	claims, err := idempotency.Open(filepath.Join(dir, "idempotency.db"))
	if err != nil {
		t.Fatalf("failed to open idempotency store: %v", err)
	}
	t.Cleanup(func() { claims.Close() })

	m := metrics.New()
	opts := []Option{WithIdempotency(claims), WithMetrics(m)}
	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(m),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewUserServiceHandler(NewUserService(store), interceptors))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, opts...), interceptors))
	mux.Handle(apiconnect.NewSettlementServiceHandler(NewSettlementService(store, opts...), interceptors))
	mux.Handle(apiconnect.NewBalanceServiceHandler(NewBalanceService(store, opts...), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testClients{
		users:       apiconnect.NewUserServiceClient(http.DefaultClient, server.URL),
		groups:      apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses:    apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		settlements: apiconnect.NewSettlementServiceClient(http.DefaultClient, server.URL),
		balances:    apiconnect.NewBalanceServiceClient(http.DefaultClient, server.URL),
		metrics:     m,
	}
}

func (c *testClients) createUser(t *testing.T, name string) *api.User {
	t.Helper()
	resp, err := c.users.CreateUser(context.Background(), connect.NewRequest(&api.CreateUserRequest{Name: name}))
	if err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return resp.Msg.User
}

// createGroup creates a user per name and a group holding them in order.
func (c *testClients) createGroup(t *testing.T, name string, members ...string) (*api.Group, []*api.User) {
	t.Helper()
	users := make([]*api.User, len(members))
	ids := make([]string, len(members))
	for i, m := range members {
		users[i] = c.createUser(t, m)
		ids[i] = users[i].ID
	}
	resp, err := c.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:      name,
		MemberIDs: ids,
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group, users
}

func (c *testClients) addExpense(t *testing.T, groupID, title string, amount float64, paidBy string, splitBetween ...string) *api.Expense {
	t.Helper()
	resp, err := c.expenses.CreateExpense(context.Background(), connect.NewRequest(&api.CreateExpenseRequest{
		GroupID:      groupID,
		Title:        title,
		Amount:       amount,
		PaidBy:       paidBy,
		SplitBetween: splitBetween,
	}))
	if err != nil {
		t.Fatalf("CreateExpense(%s) failed: %v", title, err)
	}
	return resp.Msg.Expense
}

func (c *testClients) addSettlement(t *testing.T, groupID, from, to string, amount float64) *api.Settlement {
	t.Helper()
	resp, err := c.settlements.CreateSettlement(context.Background(), connect.NewRequest(&api.CreateSettlementRequest{
		GroupID:    groupID,
		FromUserID: from,
		ToUserID:   to,
		Amount:     amount,
	}))
	if err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}
	return resp.Msg.Settlement
}

// assertCode fails the test unless err is a Connect error with the given code.
func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %T: %v", err, err)
	}
	if connectErr.Code() != want {
		t.Errorf("code: expected %v, got %v (%v)", want, connectErr.Code(), err)
	}
}
