package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Counterparty is a suggested payment partner.
type Counterparty struct {
	MemberID string
	Amount   decimal.Decimal
}

// Balance is a member's net position plus at most one suggested payment.
type Balance struct {
	MemberID   string
	NetBalance decimal.Decimal // Positive = owed money, Negative = owes money
	OwesTo     *Counterparty
	OwedBy     *Counterparty
}

// DebtResolver turns net balances into per-member payment suggestions.
type DebtResolver interface {
	Resolve(members []string, net map[string]decimal.Decimal) []Balance
}

// GreedySuggester points every debtor at the largest creditor and every
// creditor at the largest debtor. The suggested amount is the member's own
// balance, uncapped by the counterparty's. It is a display aid: executing
// every suggestion does not zero the group when more than two members are
// unbalanced. Use SimplifyDebts for an actual settle-up plan.
type GreedySuggester struct{}

var _ DebtResolver = GreedySuggester{}

// Resolve returns one Balance per member, in member order.
func (GreedySuggester) Resolve(members []string, net map[string]decimal.Decimal) []Balance {
	balances := make([]Balance, 0, len(members))
	for _, m := range members {
		b := Balance{MemberID: m, NetBalance: net[m]}

		switch {
		case b.NetBalance.IsNegative():
			if id, ok := extreme(members, net, decimal.Decimal.IsPositive, decimal.Decimal.GreaterThan); ok {
				b.OwesTo = &Counterparty{MemberID: id, Amount: b.NetBalance.Abs()}
			}
		case b.NetBalance.IsPositive():
			if id, ok := extreme(members, net, decimal.Decimal.IsNegative, decimal.Decimal.LessThan); ok {
				b.OwedBy = &Counterparty{MemberID: id, Amount: b.NetBalance}
			}
		}
		balances = append(balances, b)
	}
	return balances
}

// extreme returns the first member (in enumeration order) whose balance
// satisfies want and is not beaten by any later one under better.
func extreme(members []string, net map[string]decimal.Decimal,
	want func(decimal.Decimal) bool, better func(decimal.Decimal, decimal.Decimal) bool) (string, bool) {
	var (
		best  string
		bestV decimal.Decimal
		found bool
	)
	for _, m := range members {
		v := net[m]
		if !want(v) {
			continue
		}
		if !found || better(v, bestV) {
			best, bestV, found = m, v, true
		}
	}
	return best, found
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// SimplifyDebts matches the largest debts with the largest credits until one
// side runs out, producing a payment plan that zeroes every balance it covers.
// Ties keep member order.
func SimplifyDebts(members []string, net map[string]decimal.Decimal) []DebtEdge {
	type entry struct {
		id     string
		amount decimal.Decimal // always positive
	}

	var debtors, creditors []entry
	for _, m := range members {
		v := net[m]
		if v.IsNegative() {
			debtors = append(debtors, entry{m, v.Neg()})
		} else if v.IsPositive() {
			creditors = append(creditors, entry{m, v})
		}
	}
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount.GreaterThan(debtors[j].amount) })
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount.GreaterThan(creditors[j].amount) })

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d, c := &debtors[i], &creditors[j]

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := decimal.Min(d.amount, c.amount)
		if amount.IsPositive() {
			edges = append(edges, DebtEdge{From: d.id, To: c.id, Amount: amount})
		}

		d.amount = d.amount.Sub(amount)
		c.amount = c.amount.Sub(amount)
		if !d.amount.IsPositive() {
			i++
		}
		if !c.amount.IsPositive() {
			j++
		}
	}
	return edges
}
