// Package api exposes the ledger service over Connect, using JSON-encoded
// Go structs in place of generated protobuf messages.
package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/service"
)

// LedgerServiceName is the fully-qualified name of the ledger service.
const LedgerServiceName = "splitledger.v1.LedgerService"

// Procedure paths, one per RPC.
const (
	CreateUserProcedure       = "/" + LedgerServiceName + "/CreateUser"
	GetUserProcedure          = "/" + LedgerServiceName + "/GetUser"
	ListUsersProcedure        = "/" + LedgerServiceName + "/ListUsers"
	UpdateUserProcedure       = "/" + LedgerServiceName + "/UpdateUser"
	DeleteUserProcedure       = "/" + LedgerServiceName + "/DeleteUser"
	CreateGroupProcedure      = "/" + LedgerServiceName + "/CreateGroup"
	GetGroupProcedure         = "/" + LedgerServiceName + "/GetGroup"
	ListGroupsProcedure       = "/" + LedgerServiceName + "/ListGroups"
	UpdateGroupProcedure      = "/" + LedgerServiceName + "/UpdateGroup"
	AddMembersProcedure       = "/" + LedgerServiceName + "/AddMembers"
	RemoveMemberProcedure     = "/" + LedgerServiceName + "/RemoveMember"
	DeleteGroupProcedure      = "/" + LedgerServiceName + "/DeleteGroup"
	CreateExpenseProcedure    = "/" + LedgerServiceName + "/CreateExpense"
	PreviewExpenseProcedure   = "/" + LedgerServiceName + "/PreviewExpense"
	ListExpensesProcedure     = "/" + LedgerServiceName + "/ListExpenses"
	CreateSettlementProcedure = "/" + LedgerServiceName + "/CreateSettlement"
	ListSettlementsProcedure  = "/" + LedgerServiceName + "/ListSettlements"
	GetGroupBalancesProcedure = "/" + LedgerServiceName + "/GetGroupBalances"
	GetUserBalancesProcedure  = "/" + LedgerServiceName + "/GetUserBalances"
	GetSettleUpPlanProcedure  = "/" + LedgerServiceName + "/GetSettleUpPlan"
)

// LedgerHandler implements the Connect ledger service on top of service.LedgerService.
type LedgerHandler struct {
	svc *service.LedgerService
}

// NewLedgerHandler creates a LedgerHandler.
func NewLedgerHandler(svc *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

// NewLedgerServiceHandler builds an HTTP handler serving every ledger RPC.
// It returns the path prefix to mount the handler on.
func NewLedgerServiceHandler(h *LedgerHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	handle(mux, CreateUserProcedure, h.CreateUser, opts)
	handle(mux, GetUserProcedure, h.GetUser, opts)
	handle(mux, ListUsersProcedure, h.ListUsers, opts)
	handle(mux, UpdateUserProcedure, h.UpdateUser, opts)
	handle(mux, DeleteUserProcedure, h.DeleteUser, opts)
	handle(mux, CreateGroupProcedure, h.CreateGroup, opts)
	handle(mux, GetGroupProcedure, h.GetGroup, opts)
	handle(mux, ListGroupsProcedure, h.ListGroups, opts)
	handle(mux, UpdateGroupProcedure, h.UpdateGroup, opts)
	handle(mux, AddMembersProcedure, h.AddMembers, opts)
	handle(mux, RemoveMemberProcedure, h.RemoveMember, opts)
	handle(mux, DeleteGroupProcedure, h.DeleteGroup, opts)
	handle(mux, CreateExpenseProcedure, h.CreateExpense, opts)
	handle(mux, PreviewExpenseProcedure, h.PreviewExpense, opts)
	handle(mux, ListExpensesProcedure, h.ListExpenses, opts)
	handle(mux, CreateSettlementProcedure, h.CreateSettlement, opts)
	handle(mux, ListSettlementsProcedure, h.ListSettlements, opts)
	handle(mux, GetGroupBalancesProcedure, h.GetGroupBalances, opts)
	handle(mux, GetUserBalancesProcedure, h.GetUserBalances, opts)
	handle(mux, GetSettleUpPlanProcedure, h.GetSettleUpPlan, opts)

	return "/" + LedgerServiceName + "/", mux
}

func handle[Req, Res any](mux *http.ServeMux, procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

// NewClient returns a Connect client for one ledger procedure, speaking the
// same JSON encoding as the handler.
func NewClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts ...connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return connect.NewClient[Req, Res](httpClient, baseURL+procedure, opts...)
}
