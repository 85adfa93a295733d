package api

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/service"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(calculator.Places)
}

func userToAPI(u *models.User) *User {
	return &User{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

func groupToAPI(g *models.Group) *Group {
	return &Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Members:     g.Members,
		CreatedAt:   g.CreatedAt,
	}
}

func expenseToAPI(e *models.Expense) *Expense {
	splits := make([]Split, len(e.Splits))
	for i, sp := range e.Splits {
		splits[i] = Split{UserID: sp.UserID, Amount: money(sp.Amount)}
		if sp.Percentage.Valid {
			splits[i].Percentage = sp.Percentage.Decimal.String()
		}
	}
	return &Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      money(e.Amount),
		PaidBy:      e.PaidBy,
		SplitType:   e.SplitType,
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
	}
}

func settlementToAPI(s *models.Settlement) *Settlement {
	return &Settlement{
		ID:          s.ID,
		GroupID:     s.GroupID,
		FromUserID:  s.FromUserID,
		ToUserID:    s.ToUserID,
		Amount:      money(s.Amount),
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
	}
}

func debtsToAPI(debts []service.Debt) []Debt {
	out := make([]Debt, len(debts))
	for i, d := range debts {
		out[i] = Debt{UserID: d.UserID, UserName: d.UserName, Amount: money(d.Amount)}
	}
	return out
}

func balancesToAPI(balances []service.MemberBalance) []*Balance {
	out := make([]*Balance, len(balances))
	for i, b := range balances {
		out[i] = &Balance{
			UserID:     b.UserID,
			UserName:   b.UserName,
			GroupID:    b.GroupID,
			GroupName:  b.GroupName,
			NetBalance: money(b.NetBalance),
			OwesTo:     debtsToAPI(b.OwesTo),
			OwedBy:     debtsToAPI(b.OwedBy),
		}
	}
	return out
}

func expenseInput(req *CreateExpenseRequest) service.CreateExpenseInput {
	splits := make([]service.SplitInput, len(req.Splits))
	for i, sp := range req.Splits {
		splits[i] = service.SplitInput{UserID: sp.UserID, Amount: sp.Amount, Percentage: sp.Percentage}
	}
	return service.CreateExpenseInput{
		GroupID:     req.GroupID,
		Description: req.Description,
		Amount:      req.Amount,
		PaidBy:      req.PaidBy,
		SplitType:   req.SplitType,
		Splits:      splits,
	}
}

func settlementInput(req *CreateSettlementRequest) service.CreateSettlementInput {
	return service.CreateSettlementInput{
		GroupID:     req.GroupID,
		FromUserID:  req.FromUserID,
		ToUserID:    req.ToUserID,
		Amount:      req.Amount,
		Description: req.Description,
	}
}
