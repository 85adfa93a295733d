package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Debt names a counterparty and an amount.
type Debt struct {
	UserID   string
	UserName string
	Amount   decimal.Decimal
}

// MemberBalance is one member's position in one group.
// OwesTo and OwedBy hold at most one suggestion each.
type MemberBalance struct {
	UserID     string
	UserName   string
	GroupID    string
	GroupName  string
	NetBalance decimal.Decimal // Positive = owed money, Negative = owes money
	OwesTo     []Debt
	OwedBy     []Debt
}

// Transfer is one payment in a settle-up plan.
type Transfer struct {
	FromUserID   string
	FromUserName string
	ToUserID     string
	ToUserName   string
	Amount       decimal.Decimal
}

// GroupBalances computes every member's net balance with a suggested counterparty.
func (s *LedgerService) GroupBalances(ctx context.Context, groupID string) ([]MemberBalance, error) {
	ledger, net, err := s.replay(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("group balances: %w", err)
	}
	names, err := s.userNames(ctx, ledger.Group.Members)
	if err != nil {
		return nil, fmt.Errorf("group balances: %w", err)
	}

	resolved := s.resolver.Resolve(ledger.Group.Members, net)
	balances := make([]MemberBalance, len(resolved))
	for i, b := range resolved {
		mb := MemberBalance{
			UserID:     b.MemberID,
			UserName:   names[b.MemberID],
			GroupID:    ledger.Group.ID,
			GroupName:  ledger.Group.Name,
			NetBalance: b.NetBalance,
		}
		if b.OwesTo != nil {
			mb.OwesTo = []Debt{{UserID: b.OwesTo.MemberID, UserName: names[b.OwesTo.MemberID], Amount: b.OwesTo.Amount}}
		}
		if b.OwedBy != nil {
			mb.OwedBy = []Debt{{UserID: b.OwedBy.MemberID, UserName: names[b.OwedBy.MemberID], Amount: b.OwedBy.Amount}}
		}
		balances[i] = mb
	}
	return balances, nil
}

// UserBalances returns the user's balance in every group they belong to.
func (s *LedgerService) UserBalances(ctx context.Context, userID string) ([]MemberBalance, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("user balances: %w", err)
	}
	groups, err := s.store.ListGroupsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user balances: %w", err)
	}

	var out []MemberBalance
	for _, g := range groups {
		balances, err := s.GroupBalances(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		for _, b := range balances {
			if b.UserID == userID {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

// SettleUpPlan returns a list of payments that clears every balance in the group.
func (s *LedgerService) SettleUpPlan(ctx context.Context, groupID string) ([]Transfer, error) {
	ledger, net, err := s.replay(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("settle up plan: %w", err)
	}
	names, err := s.userNames(ctx, ledger.Group.Members)
	if err != nil {
		return nil, fmt.Errorf("settle up plan: %w", err)
	}

	edges := calculator.SimplifyDebts(ledger.Group.Members, net)
	transfers := make([]Transfer, len(edges))
	for i, e := range edges {
		transfers[i] = Transfer{
			FromUserID:   e.From,
			FromUserName: names[e.From],
			ToUserID:     e.To,
			ToUserName:   names[e.To],
			Amount:       e.Amount,
		}
	}
	return transfers, nil
}

// replay reads a consistent ledger snapshot and folds it into net balances.
func (s *LedgerService) replay(ctx context.Context, groupID string) (*storage.Ledger, map[string]decimal.Decimal, error) {
	ledger, err := s.store.LedgerSnapshot(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	net, err := s.netBalances(ledger)
	if err != nil {
		return nil, nil, err
	}
	return ledger, net, nil
}

// netBalances folds an already-read ledger into net balances.
func (s *LedgerService) netBalances(ledger *storage.Ledger) (map[string]decimal.Decimal, error) {
	groupID := ledger.Group.ID
	start := time.Now()
	net, err := calculator.CalculateGroupBalances(
		ledger.Group.Members,
		expensesForBalance(ledger.Expenses),
		settlementsForBalance(ledger.Settlements),
	)
	s.metrics.ObserveBalance(start)
	if err != nil {
		slog.Error("Balance computation failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Debug("Balances computed",
		"group_id", groupID,
		"expenses", len(ledger.Expenses),
		"settlements", len(ledger.Settlements),
		"members", len(ledger.Group.Members),
	)
	return net, nil
}

func (s *LedgerService) userNames(ctx context.Context, ids []string) (map[string]string, error) {
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for id, u := range users {
		names[id] = u.Name
	}
	return names, nil
}

func expensesForBalance(expenses []*models.Expense) []calculator.ExpenseForBalance {
	out := make([]calculator.ExpenseForBalance, len(expenses))
	for i, e := range expenses {
		splits := make([]calculator.SplitEntry, len(e.Splits))
		for j, sp := range e.Splits {
			splits[j] = calculator.SplitEntry{MemberID: sp.UserID, Amount: sp.Amount}
		}
		out[i] = calculator.ExpenseForBalance{ID: e.ID, Amount: e.Amount, PayerID: e.PaidBy, Splits: splits}
	}
	return out
}

func settlementsForBalance(settlements []*models.Settlement) []calculator.SettlementForBalance {
	out := make([]calculator.SettlementForBalance, len(settlements))
	for i, st := range settlements {
		out[i] = calculator.SettlementForBalance{
			FromMemberID: st.FromUserID,
			ToMemberID:   st.ToUserID,
			Amount:       st.Amount,
		}
	}
	return out
}
