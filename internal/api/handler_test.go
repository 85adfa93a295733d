package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
)

type testServer struct {
	url     string
	metrics *metrics.Metrics
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	m := metrics.New(prometheus.NewRegistry())
	svc := service.NewLedgerService(store, service.WithMetrics(m))

	mux := http.NewServeMux()
	path, handler := NewLedgerServiceHandler(NewLedgerHandler(svc),
		connect.WithInterceptors(middleware.LoggingInterceptor(m)))
	mux.Handle(path, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return &testServer{url: server.URL, metrics: m}
}

func call[Req, Res any](t *testing.T, s *testServer, procedure string, req *Req) (*Res, error) {
	t.Helper()
	client := NewClient[Req, Res](http.DefaultClient, s.url, procedure)
	resp, err := client.CallUnary(context.Background(), connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func mustCall[Req, Res any](t *testing.T, s *testServer, procedure string, req *Req) *Res {
	t.Helper()
	res, err := call[Req, Res](t, s, procedure, req)
	require.NoError(t, err, procedure)
	return res
}

func requireCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, connect.CodeOf(err), "error: %v", err)
}

func (s *testServer) createUser(t *testing.T, name string) string {
	t.Helper()
	res := mustCall[CreateUserRequest, CreateUserResponse](t, s, CreateUserProcedure,
		&CreateUserRequest{Name: name, Email: name + "@example.com"})
	return res.User.ID
}

func TestLedgerFlow(t *testing.T) {
	s := setupTestServer(t)
	a, b, c := s.createUser(t, "a"), s.createUser(t, "b"), s.createUser(t, "c")

	group := mustCall[CreateGroupRequest, CreateGroupResponse](t, s, CreateGroupProcedure,
		&CreateGroupRequest{Name: "Trip", Members: []string{a, b, c}}).Group
	assert.Equal(t, []string{a, b, c}, group.Members)

	expense := mustCall[CreateExpenseRequest, CreateExpenseResponse](t, s, CreateExpenseProcedure,
		&CreateExpenseRequest{
			GroupID: group.ID, Description: "Hotel", Amount: decimal.NewFromInt(90),
			PaidBy: a, SplitType: "equal",
		}).Expense
	assert.Equal(t, "90.00", expense.Amount)
	require.Len(t, expense.Splits, 3)
	assert.Equal(t, "30.00", expense.Splits[0].Amount)

	settlement := mustCall[CreateSettlementRequest, CreateSettlementResponse](t, s, CreateSettlementProcedure,
		&CreateSettlementRequest{GroupID: group.ID, FromUserID: b, ToUserID: a, Amount: decimal.NewFromInt(30)}).Settlement
	assert.Equal(t, "30.00", settlement.Amount)

	balances := mustCall[GetGroupBalancesRequest, GetGroupBalancesResponse](t, s, GetGroupBalancesProcedure,
		&GetGroupBalancesRequest{GroupID: group.ID}).Balances
	require.Len(t, balances, 3)

	assert.Equal(t, "30.00", balances[0].NetBalance)
	require.Len(t, balances[0].OwedBy, 1)
	assert.Equal(t, c, balances[0].OwedBy[0].UserID)
	assert.Equal(t, "30.00", balances[0].OwedBy[0].Amount)

	assert.Equal(t, "0.00", balances[1].NetBalance)
	assert.Empty(t, balances[1].OwesTo)

	assert.Equal(t, "-30.00", balances[2].NetBalance)
	require.Len(t, balances[2].OwesTo, 1)
	assert.Equal(t, a, balances[2].OwesTo[0].UserID)
	assert.Equal(t, "c", balances[2].UserName)

	plan := mustCall[GetSettleUpPlanRequest, GetSettleUpPlanResponse](t, s, GetSettleUpPlanProcedure,
		&GetSettleUpPlanRequest{GroupID: group.ID}).Transfers
	require.Len(t, plan, 1)
	assert.Equal(t, c, plan[0].FromUserID)
	assert.Equal(t, a, plan[0].ToUserID)

	detail := mustCall[GetGroupRequest, GetGroupResponse](t, s, GetGroupProcedure,
		&GetGroupRequest{GroupID: group.ID}).Group
	assert.Equal(t, "90.00", detail.TotalExpenses)

	userBalances := mustCall[GetUserBalancesRequest, GetUserBalancesResponse](t, s, GetUserBalancesProcedure,
		&GetUserBalancesRequest{UserID: c}).Balances
	require.Len(t, userBalances, 1)
	assert.Equal(t, "-30.00", userBalances[0].NetBalance)

	_, err := call[DeleteGroupRequest, DeleteGroupResponse](t, s, DeleteGroupProcedure, &DeleteGroupRequest{GroupID: group.ID})
	requireCode(t, err, connect.CodeFailedPrecondition)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.RPCRequests.WithLabelValues(CreateExpenseProcedure, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.RPCRequests.WithLabelValues(DeleteGroupProcedure, "failed_precondition")))
}

func TestCreateExpensePercentage(t *testing.T) {
	s := setupTestServer(t)
	a, b := s.createUser(t, "a"), s.createUser(t, "b")
	group := mustCall[CreateGroupRequest, CreateGroupResponse](t, s, CreateGroupProcedure,
		&CreateGroupRequest{Name: "Flat", Members: []string{a, b}}).Group

	req := &CreateExpenseRequest{
		GroupID: group.ID, Description: "Rent", Amount: decimal.RequireFromString("150"),
		PaidBy: b, SplitType: "percentage",
		Splits: []SplitInput{
			{UserID: a, Percentage: decimal.NewNullDecimal(decimal.NewFromInt(60))},
			{UserID: b, Percentage: decimal.NewNullDecimal(decimal.NewFromInt(40))},
		},
	}

	preview := mustCall[CreateExpenseRequest, PreviewExpenseResponse](t, s, PreviewExpenseProcedure, req).Expense
	assert.Empty(t, preview.ID)
	assert.Equal(t, "90.00", preview.Splits[0].Amount)
	assert.Equal(t, "60", preview.Splits[0].Percentage)

	created := mustCall[CreateExpenseRequest, CreateExpenseResponse](t, s, CreateExpenseProcedure, req).Expense
	assert.NotEmpty(t, created.ID)

	listed := mustCall[ListExpensesRequest, ListExpensesResponse](t, s, ListExpensesProcedure,
		&ListExpensesRequest{GroupID: group.ID}).Expenses
	require.Len(t, listed, 1)
	assert.Equal(t, "60.00", listed[0].Splits[1].Amount)

	req.Splits[1].Percentage = decimal.NewNullDecimal(decimal.NewFromInt(50))
	_, err := call[CreateExpenseRequest, CreateExpenseResponse](t, s, CreateExpenseProcedure, req)
	requireCode(t, err, connect.CodeInvalidArgument)
}

func TestErrorCodes(t *testing.T) {
	s := setupTestServer(t)
	a, b := s.createUser(t, "a"), s.createUser(t, "b")
	group := mustCall[CreateGroupRequest, CreateGroupResponse](t, s, CreateGroupProcedure,
		&CreateGroupRequest{Name: "Flat", Members: []string{a, b}}).Group

	t.Run("missing group", func(t *testing.T) {
		_, err := call[GetGroupRequest, GetGroupResponse](t, s, GetGroupProcedure, &GetGroupRequest{GroupID: "missing"})
		requireCode(t, err, connect.CodeNotFound)
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := call[GetGroupRequest, GetGroupResponse](t, s, GetGroupProcedure, &GetGroupRequest{})
		requireCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := call[CreateUserRequest, CreateUserResponse](t, s, CreateUserProcedure,
			&CreateUserRequest{Name: "x", Email: "nope"})
		requireCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := call[CreateUserRequest, CreateUserResponse](t, s, CreateUserProcedure,
			&CreateUserRequest{Name: "a2", Email: "a@example.com"})
		requireCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := call[CreateSettlementRequest, CreateSettlementResponse](t, s, CreateSettlementProcedure,
			&CreateSettlementRequest{GroupID: group.ID, FromUserID: a, ToUserID: b, Amount: decimal.Zero})
		requireCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("settle with self", func(t *testing.T) {
		_, err := call[CreateSettlementRequest, CreateSettlementResponse](t, s, CreateSettlementProcedure,
			&CreateSettlementRequest{GroupID: group.ID, FromUserID: a, ToUserID: a, Amount: decimal.NewFromInt(1)})
		requireCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("unknown split type", func(t *testing.T) {
		_, err := call[CreateExpenseRequest, CreateExpenseResponse](t, s, CreateExpenseProcedure,
			&CreateExpenseRequest{GroupID: group.ID, Description: "x", Amount: decimal.NewFromInt(1), PaidBy: a, SplitType: "shares"})
		requireCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestGroupMembership(t *testing.T) {
	s := setupTestServer(t)
	a, b, c := s.createUser(t, "a"), s.createUser(t, "b"), s.createUser(t, "c")
	group := mustCall[CreateGroupRequest, CreateGroupResponse](t, s, CreateGroupProcedure,
		&CreateGroupRequest{Name: "Flat", Members: []string{a}}).Group

	group = mustCall[AddMembersRequest, AddMembersResponse](t, s, AddMembersProcedure,
		&AddMembersRequest{GroupID: group.ID, UserIDs: []string{b, c}}).Group
	assert.Equal(t, []string{a, b, c}, group.Members)

	mustCall[RemoveMemberRequest, RemoveMemberResponse](t, s, RemoveMemberProcedure,
		&RemoveMemberRequest{GroupID: group.ID, UserID: c})

	groups := mustCall[ListGroupsRequest, ListGroupsResponse](t, s, ListGroupsProcedure,
		&ListGroupsRequest{UserID: c}).Groups
	assert.Empty(t, groups)

	group = mustCall[UpdateGroupRequest, UpdateGroupResponse](t, s, UpdateGroupProcedure,
		&UpdateGroupRequest{GroupID: group.ID, Name: "Flat 2"}).Group
	assert.Equal(t, "Flat 2", group.Name)
	assert.Equal(t, []string{a, b}, group.Members)

	users := mustCall[ListUsersRequest, ListUsersResponse](t, s, ListUsersProcedure, &ListUsersRequest{}).Users
	assert.Len(t, users, 3)

	mustCall[DeleteUserRequest, DeleteUserResponse](t, s, DeleteUserProcedure, &DeleteUserRequest{UserID: c})
	_, err := call[GetUserRequest, GetUserResponse](t, s, GetUserProcedure, &GetUserRequest{UserID: c})
	requireCode(t, err, connect.CodeNotFound)

	mustCall[DeleteGroupRequest, DeleteGroupResponse](t, s, DeleteGroupProcedure, &DeleteGroupRequest{GroupID: group.ID})
}
