package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ExpenseForBalance represents an expense with the minimal information needed for balance calculations.
type ExpenseForBalance struct {
	ID      string
	Amount  decimal.Decimal
	PayerID string
	Splits  []SplitEntry
}

// SettlementForBalance represents a settlement with the minimal information needed for balance calculations.
type SettlementForBalance struct {
	FromMemberID string // Who paid (debtor settling up)
	ToMemberID   string // Who received (creditor being paid)
	Amount       decimal.Decimal
}

// LedgerEvent is a ledger record that moves value between members.
type LedgerEvent interface {
	apply(acc map[string]decimal.Decimal)
}

func (e ExpenseForBalance) apply(acc map[string]decimal.Decimal) {
	acc[e.PayerID] = acc[e.PayerID].Add(e.Amount)
	for _, s := range e.Splits {
		acc[s.MemberID] = acc[s.MemberID].Sub(s.Amount)
	}
}

func (s SettlementForBalance) apply(acc map[string]decimal.Decimal) {
	// Paying reduces what the payer owes; receiving reduces what the receiver is owed.
	acc[s.FromMemberID] = acc[s.FromMemberID].Add(s.Amount)
	acc[s.ToMemberID] = acc[s.ToMemberID].Sub(s.Amount)
}

// CalculateGroupBalances replays a group's expenses and settlements into a net
// balance per member. Positive means the member is owed money, negative means
// they owe money. Every listed member appears in the result, rounded to two
// places, with near-zero values snapped to exactly zero.
func CalculateGroupBalances(members []string, expenses []ExpenseForBalance, settlements []SettlementForBalance) (map[string]decimal.Decimal, error) {
	events := make([]LedgerEvent, 0, len(expenses)+len(settlements))
	for _, e := range expenses {
		events = append(events, e)
	}
	for _, s := range settlements {
		events = append(events, s)
	}
	return Replay(members, events)
}

// Replay folds ledger events into net balances. It holds no state between
// calls, so identical inputs always give identical outputs.
//
// Records may reference people who are no longer members (for example someone
// removed after settling up). Their contributions are tracked but not reported;
// if such a person still carries a non-near-zero balance the group would no
// longer sum to zero, and ErrUnknownMember is returned.
func Replay(members []string, events []LedgerEvent) (map[string]decimal.Decimal, error) {
	acc := accumulate(members, events)

	known := make(map[string]struct{}, len(members))
	net := make(map[string]decimal.Decimal, len(members))
	for _, m := range members {
		known[m] = struct{}{}
		net[m] = snap(acc[m])
	}

	var strays []string
	for id, v := range acc {
		if _, ok := known[id]; ok {
			continue
		}
		if !IsNearZero(v) {
			strays = append(strays, id)
		}
	}
	if len(strays) > 0 {
		sort.Strings(strays)
		return nil, fmt.Errorf("%w: %v", ErrUnknownMember, strays)
	}

	return net, nil
}

// accumulate returns the raw, unrounded totals for members and strays alike.
func accumulate(members []string, events []LedgerEvent) map[string]decimal.Decimal {
	acc := make(map[string]decimal.Decimal, len(members))
	for _, m := range members {
		acc[m] = decimal.Zero
	}
	for _, ev := range events {
		ev.apply(acc)
	}
	return acc
}

// snap rounds v, returning exactly zero when v is within ZeroTolerance.
// The tolerance is checked before rounding so 0.015 settles instead of
// rounding up to 0.02.
func snap(v decimal.Decimal) decimal.Decimal {
	if IsNearZero(v) {
		return decimal.Zero
	}
	return Round(v)
}
