package api

import (
	"context"

	"connectrpc.com/connect"
)

// CreateExpense validates and splits an expense, then records it. Split
// inconsistencies surface as InvalidArgument and nothing is stored.
func (h *LedgerHandler) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	expense, err := h.svc.CreateExpense(ctx, expenseInput(req.Msg))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CreateExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// PreviewExpense returns the splits CreateExpense would record, without storing them.
func (h *LedgerHandler) PreviewExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[PreviewExpenseResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	expense, err := h.svc.PreviewExpense(ctx, expenseInput(req.Msg))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&PreviewExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

func (h *LedgerHandler) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	expenses, err := h.svc.ListExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToAPI(e)
	}
	return connect.NewResponse(&ListExpensesResponse{Expenses: out}), nil
}

func (h *LedgerHandler) CreateSettlement(ctx context.Context, req *connect.Request[CreateSettlementRequest]) (*connect.Response[CreateSettlementResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	settlement, err := h.svc.CreateSettlement(ctx, settlementInput(req.Msg))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CreateSettlementResponse{Settlement: settlementToAPI(settlement)}), nil
}

func (h *LedgerHandler) ListSettlements(ctx context.Context, req *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	settlements, err := h.svc.ListSettlements(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*Settlement, len(settlements))
	for i, s := range settlements {
		out[i] = settlementToAPI(s)
	}
	return connect.NewResponse(&ListSettlementsResponse{Settlements: out}), nil
}
