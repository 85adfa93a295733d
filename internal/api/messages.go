package api

import "github.com/shopspring/decimal"

// Amounts in responses are strings with exactly two decimal places.
// Amounts in requests accept either a JSON number or a decimal string.

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"createdAt"`
}

type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
	CreatedAt   int64    `json:"createdAt"`
	// Only set by GetGroup.
	TotalExpenses string `json:"totalExpenses,omitempty"`
}

type Split struct {
	UserID     string `json:"userId"`
	Amount     string `json:"amount"`
	Percentage string `json:"percentage,omitempty"`
}

type Expense struct {
	ID          string  `json:"id,omitempty"`
	GroupID     string  `json:"groupId"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	PaidBy      string  `json:"paidBy"`
	SplitType   string  `json:"splitType"`
	Splits      []Split `json:"splits"`
	CreatedAt   int64   `json:"createdAt,omitempty"`
}

type Settlement struct {
	ID          string `json:"id"`
	GroupID     string `json:"groupId"`
	FromUserID  string `json:"fromUserId"`
	ToUserID    string `json:"toUserId"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	CreatedAt   int64  `json:"createdAt"`
}

type Debt struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Amount   string `json:"amount"`
}

type Balance struct {
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	GroupID    string `json:"groupId"`
	GroupName  string `json:"groupName"`
	NetBalance string `json:"netBalance"`
	OwesTo     []Debt `json:"owesTo"`
	OwedBy     []Debt `json:"owedBy"`
}

type Transfer struct {
	FromUserID   string `json:"fromUserId"`
	FromUserName string `json:"fromUserName"`
	ToUserID     string `json:"toUserId"`
	ToUserName   string `json:"toUserName"`
	Amount       string `json:"amount"`
}

// Users

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type CreateUserResponse struct {
	User *User `json:"user"`
}

type GetUserRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type GetUserResponse struct {
	User *User `json:"user"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

type UpdateUserRequest struct {
	UserID string `json:"userId" validate:"required"`
	Name   string `json:"name"`
	Email  string `json:"email" validate:"omitempty,email"`
}

type UpdateUserResponse struct {
	User *User `json:"user"`
}

type DeleteUserRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type DeleteUserResponse struct{}

// Groups

type CreateGroupRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Members     []string `json:"members" validate:"dive,required"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

// ListGroupsRequest lists every group, or only UserID's groups when set.
type ListGroupsRequest struct {
	UserID string `json:"userId,omitempty"`
}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

// UpdateGroupRequest replaces the member list only when Members is present.
type UpdateGroupRequest struct {
	GroupID     string   `json:"groupId" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Members     []string `json:"members,omitempty" validate:"omitempty,dive,required"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type AddMembersRequest struct {
	GroupID string   `json:"groupId" validate:"required"`
	UserIDs []string `json:"userIds" validate:"required,min=1,dive,required"`
}

type AddMembersResponse struct {
	Group *Group `json:"group"`
}

type RemoveMemberRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	UserID  string `json:"userId" validate:"required"`
}

type RemoveMemberResponse struct{}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type DeleteGroupResponse struct{}

// Expenses

// SplitInput names a participant and, for percentage splits, their share.
// Amount is derived from the total; sending one is rejected.
type SplitInput struct {
	UserID     string              `json:"userId" validate:"required"`
	Amount     decimal.NullDecimal `json:"amount"`
	Percentage decimal.NullDecimal `json:"percentage"`
}

type CreateExpenseRequest struct {
	GroupID     string          `json:"groupId" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"positive_decimal"`
	PaidBy      string          `json:"paidBy" validate:"required"`
	SplitType   string          `json:"splitType" validate:"required"`
	Splits      []SplitInput    `json:"splits" validate:"dive"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type PreviewExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// Settlements

type CreateSettlementRequest struct {
	GroupID     string          `json:"groupId" validate:"required"`
	FromUserID  string          `json:"fromUserId" validate:"required"`
	ToUserID    string          `json:"toUserId" validate:"required,nefield=FromUserID"`
	Amount      decimal.Decimal `json:"amount" validate:"positive_decimal"`
	Description string          `json:"description"`
}

type CreateSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

// Balances

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetGroupBalancesResponse struct {
	Balances []*Balance `json:"balances"`
}

type GetUserBalancesRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type GetUserBalancesResponse struct {
	Balances []*Balance `json:"balances"`
}

type GetSettleUpPlanRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetSettleUpPlanResponse struct {
	Transfers []*Transfer `json:"transfers"`
}
