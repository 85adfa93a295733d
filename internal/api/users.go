package api

import (
	"context"

	"connectrpc.com/connect"
)

func (h *LedgerHandler) CreateUser(ctx context.Context, req *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	user, err := h.svc.CreateUser(ctx, req.Msg.Name, req.Msg.Email)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CreateUserResponse{User: userToAPI(user)}), nil
}

func (h *LedgerHandler) GetUser(ctx context.Context, req *connect.Request[GetUserRequest]) (*connect.Response[GetUserResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	user, err := h.svc.GetUser(ctx, req.Msg.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetUserResponse{User: userToAPI(user)}), nil
}

func (h *LedgerHandler) ListUsers(ctx context.Context, req *connect.Request[ListUsersRequest]) (*connect.Response[ListUsersResponse], error) {
	users, err := h.svc.ListUsers(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	out := make([]*User, len(users))
	for i, u := range users {
		out[i] = userToAPI(u)
	}
	return connect.NewResponse(&ListUsersResponse{Users: out}), nil
}

func (h *LedgerHandler) UpdateUser(ctx context.Context, req *connect.Request[UpdateUserRequest]) (*connect.Response[UpdateUserResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	user, err := h.svc.UpdateUser(ctx, req.Msg.UserID, req.Msg.Name, req.Msg.Email)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&UpdateUserResponse{User: userToAPI(user)}), nil
}

// DeleteUser fails with FailedPrecondition while the user has an unsettled balance.
func (h *LedgerHandler) DeleteUser(ctx context.Context, req *connect.Request[DeleteUserRequest]) (*connect.Response[DeleteUserResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(err)
	}
	if err := h.svc.DeleteUser(ctx, req.Msg.UserID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&DeleteUserResponse{}), nil
}
