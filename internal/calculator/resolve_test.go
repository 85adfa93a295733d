package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func netOf(pairs ...string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out[pairs[i]] = dec(pairs[i+1])
	}
	return out
}

func TestGreedySuggesterEndToEnd(t *testing.T) {
	group := []string{"A", "B", "C"}
	net, err := CalculateGroupBalances(group,
		[]ExpenseForBalance{equalExpense(t, "e1", "A", "90.00", group...)},
		[]SettlementForBalance{settlement("B", "A", "30.00")})
	require.NoError(t, err)

	balances := GreedySuggester{}.Resolve(group, net)
	require.Len(t, balances, 3)

	a, b, c := balances[0], balances[1], balances[2]
	assert.Equal(t, "A", a.MemberID)
	assert.Nil(t, a.OwesTo)
	require.NotNil(t, a.OwedBy)
	assert.Equal(t, "C", a.OwedBy.MemberID)
	assertMoney(t, "30.00", a.OwedBy.Amount)

	assert.True(t, b.NetBalance.IsZero())
	assert.Nil(t, b.OwesTo)
	assert.Nil(t, b.OwedBy)

	require.NotNil(t, c.OwesTo)
	assert.Nil(t, c.OwedBy)
	assert.Equal(t, "A", c.OwesTo.MemberID)
	assertMoney(t, "30.00", c.OwesTo.Amount)
}

func TestGreedySuggester(t *testing.T) {
	t.Run("debtor points at largest creditor with full debt", func(t *testing.T) {
		members := []string{"A", "B", "C"}
		balances := GreedySuggester{}.Resolve(members, netOf("A", "10", "B", "40", "C", "-50"))

		require.NotNil(t, balances[2].OwesTo)
		assert.Equal(t, "B", balances[2].OwesTo.MemberID)
		// not capped at B's 40
		assertMoney(t, "50", balances[2].OwesTo.Amount)

		require.NotNil(t, balances[0].OwedBy)
		assert.Equal(t, "C", balances[0].OwedBy.MemberID)
		assertMoney(t, "10", balances[0].OwedBy.Amount)
	})

	t.Run("ties go to the first enumerated member", func(t *testing.T) {
		members := []string{"D", "A", "B", "C"}
		balances := GreedySuggester{}.Resolve(members, netOf("D", "-40", "A", "20", "B", "20", "C", "0"))

		require.NotNil(t, balances[0].OwesTo)
		assert.Equal(t, "A", balances[0].OwesTo.MemberID)
		assert.Nil(t, balances[3].OwesTo)
		assert.Nil(t, balances[3].OwedBy)
	})

	t.Run("no counterparty available", func(t *testing.T) {
		balances := GreedySuggester{}.Resolve([]string{"A"}, netOf("A", "-5"))
		assert.Nil(t, balances[0].OwesTo)
		assert.Nil(t, balances[0].OwedBy)
	})
}

func TestSimplifyDebts(t *testing.T) {
	tests := []struct {
		name    string
		members []string
		net     map[string]decimal.Decimal
		want    []DebtEdge
	}{
		{
			name:    "two people",
			members: []string{"A", "B"},
			net:     netOf("A", "25", "B", "-25"),
			want:    []DebtEdge{{From: "B", To: "A", Amount: dec("25")}},
		},
		{
			name:    "one creditor many debtors",
			members: []string{"A", "B", "C"},
			net:     netOf("A", "60", "B", "-30", "C", "-30"),
			want: []DebtEdge{
				{From: "B", To: "A", Amount: dec("30")},
				{From: "C", To: "A", Amount: dec("30")},
			},
		},
		{
			name:    "largest debts matched first",
			members: []string{"A", "B", "C", "D"},
			net:     netOf("A", "10", "B", "40", "C", "-45", "D", "-5"),
			want: []DebtEdge{
				{From: "C", To: "B", Amount: dec("40")},
				{From: "C", To: "A", Amount: dec("5")},
				{From: "D", To: "A", Amount: dec("5")},
			},
		},
		{
			name:    "all settled",
			members: []string{"A", "B"},
			net:     netOf("A", "0", "B", "0"),
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SimplifyDebts(tt.members, tt.net)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.Equal(t, tt.want[i].From, got[i].From)
				assert.Equal(t, tt.want[i].To, got[i].To)
				assert.True(t, tt.want[i].Amount.Equal(got[i].Amount), "edge %d: %s", i, got[i].Amount)
			}
		})
	}
}

func TestSimplifyDebtsClearsLedger(t *testing.T) {
	members := []string{"A", "B", "C", "D"}
	net := netOf("A", "70.50", "B", "-20.25", "C", "-40.25", "D", "-10")

	for _, e := range SimplifyDebts(members, net) {
		net[e.From] = net[e.From].Add(e.Amount)
		net[e.To] = net[e.To].Sub(e.Amount)
	}
	for _, m := range members {
		assert.True(t, net[m].IsZero(), "%s left with %s", m, net[m])
	}
}
