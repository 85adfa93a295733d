package api

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/models"
)

func (h *LedgerHandler) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	group, err := h.svc.CreateGroup(ctx, req.Msg.Name, req.Msg.Description, req.Msg.Members)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CreateGroupResponse{Group: groupToAPI(group)}), nil
}

// GetGroup returns the group together with the sum of its expenses.
func (h *LedgerHandler) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	detail, err := h.svc.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	group := groupToAPI(detail.Group)
	group.TotalExpenses = money(detail.TotalExpenses)
	return connect.NewResponse(&GetGroupResponse{Group: group}), nil
}

func (h *LedgerHandler) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	var (
		groups []*models.Group
		err    error
	)
	if req.Msg.UserID != "" {
		groups, err = h.svc.ListUserGroups(ctx, req.Msg.UserID)
	} else {
		groups, err = h.svc.ListGroups(ctx)
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*Group, len(groups))
	for i, g := range groups {
		out[i] = groupToAPI(g)
	}
	return connect.NewResponse(&ListGroupsResponse{Groups: out}), nil
}

func (h *LedgerHandler) UpdateGroup(ctx context.Context, req *connect.Request[UpdateGroupRequest]) (*connect.Response[UpdateGroupResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	group, err := h.svc.UpdateGroup(ctx, req.Msg.GroupID, req.Msg.Name, req.Msg.Description, req.Msg.Members)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&UpdateGroupResponse{Group: groupToAPI(group)}), nil
}

func (h *LedgerHandler) AddMembers(ctx context.Context, req *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	group, err := h.svc.AddMembers(ctx, req.Msg.GroupID, req.Msg.UserIDs)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&AddMembersResponse{Group: groupToAPI(group)}), nil
}

func (h *LedgerHandler) RemoveMember(ctx context.Context, req *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	if err := h.svc.RemoveMember(ctx, req.Msg.GroupID, req.Msg.UserID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RemoveMemberResponse{}), nil
}

func (h *LedgerHandler) DeleteGroup(ctx context.Context, req *connect.Request[DeleteGroupRequest]) (*connect.Response[DeleteGroupResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	if err := h.svc.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DeleteGroupResponse{}), nil
}

// GetGroupBalances returns each member's net balance with at most one
// suggested counterparty in each direction.
func (h *LedgerHandler) GetGroupBalances(ctx context.Context, req *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	balances, err := h.svc.GroupBalances(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetGroupBalancesResponse{Balances: balancesToAPI(balances)}), nil
}

func (h *LedgerHandler) GetUserBalances(ctx context.Context, req *connect.Request[GetUserBalancesRequest]) (*connect.Response[GetUserBalancesResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	balances, err := h.svc.UserBalances(ctx, req.Msg.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetUserBalancesResponse{Balances: balancesToAPI(balances)}), nil
}

func (h *LedgerHandler) GetSettleUpPlan(ctx context.Context, req *connect.Request[GetSettleUpPlanRequest]) (*connect.Response[GetSettleUpPlanResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	plan, err := h.svc.SettleUpPlan(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*Transfer, len(plan))
	for i, t := range plan {
		out[i] = &Transfer{
			FromUserID:   t.FromUserID,
			FromUserName: t.FromUserName,
			ToUserID:     t.ToUserID,
			ToUserName:   t.ToUserName,
			Amount:       money(t.Amount),
		}
	}
	return connect.NewResponse(&GetSettleUpPlanResponse{Transfers: out}), nil
}
