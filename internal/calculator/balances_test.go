package calculator

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func equalExpense(t *testing.T, id, payer, total string, among ...string) ExpenseForBalance {
	t.Helper()
	splits, err := GenerateSplits(dec(total), SplitModeEqual, members(among...))
	require.NoError(t, err)
	return ExpenseForBalance{ID: id, Amount: dec(total), PayerID: payer, Splits: splits}
}

func settlement(from, to, amount string) SettlementForBalance {
	return SettlementForBalance{FromMemberID: from, ToMemberID: to, Amount: dec(amount)}
}

func sumOf(net map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range net {
		total = total.Add(v)
	}
	return total
}

func TestCalculateGroupBalances(t *testing.T) {
	group := []string{"A", "B", "C"}

	t.Run("payer is credited and participants debited", func(t *testing.T) {
		net, err := CalculateGroupBalances(group,
			[]ExpenseForBalance{equalExpense(t, "e1", "A", "90.00", group...)}, nil)
		require.NoError(t, err)

		assertMoney(t, "60.00", net["A"])
		assertMoney(t, "-30.00", net["B"])
		assertMoney(t, "-30.00", net["C"])
		assertMoney(t, "0", sumOf(net))
	})

	t.Run("settlement moves value from receiver to payer", func(t *testing.T) {
		net, err := CalculateGroupBalances(group,
			[]ExpenseForBalance{equalExpense(t, "e1", "A", "90.00", group...)},
			[]SettlementForBalance{settlement("B", "A", "30.00")})
		require.NoError(t, err)

		assertMoney(t, "30.00", net["A"])
		assertMoney(t, "0", net["B"])
		assertMoney(t, "-30.00", net["C"])
	})

	t.Run("members without records report zero", func(t *testing.T) {
		net, err := CalculateGroupBalances([]string{"A", "B", "D"},
			[]ExpenseForBalance{equalExpense(t, "e1", "A", "10.00", "A", "B")}, nil)
		require.NoError(t, err)

		require.Contains(t, net, "D")
		assertMoney(t, "0", net["D"])
	})

	t.Run("near zero balances snap to zero", func(t *testing.T) {
		expense := ExpenseForBalance{
			ID: "e1", Amount: dec("0.03"), PayerID: "A",
			Splits: []SplitEntry{{MemberID: "A", Amount: dec("0.015")}, {MemberID: "B", Amount: dec("0.015")}},
		}
		net, err := CalculateGroupBalances([]string{"A", "B"}, []ExpenseForBalance{expense}, nil)
		require.NoError(t, err)

		assert.True(t, net["A"].IsZero(), "got %s", net["A"])
		assert.True(t, net["B"].IsZero(), "got %s", net["B"])
	})

	t.Run("settled former member is ignored", func(t *testing.T) {
		net, err := CalculateGroupBalances([]string{"A", "B"},
			[]ExpenseForBalance{equalExpense(t, "e1", "A", "30.00", "A", "B", "X")},
			[]SettlementForBalance{settlement("X", "A", "10.00")})
		require.NoError(t, err)

		assertMoney(t, "10.00", net["A"])
		assertMoney(t, "-10.00", net["B"])
	})

	t.Run("unsettled unknown member is rejected", func(t *testing.T) {
		_, err := CalculateGroupBalances([]string{"A", "B"},
			[]ExpenseForBalance{equalExpense(t, "e1", "A", "30.00", "A", "B", "X")}, nil)
		require.ErrorIs(t, err, ErrUnknownMember)
		assert.Contains(t, err.Error(), "X")
	})
}

func TestCalculateGroupBalancesIdempotent(t *testing.T) {
	group := []string{"A", "B", "C", "D"}
	expenses := []ExpenseForBalance{
		equalExpense(t, "e1", "A", "100.00", group...),
		equalExpense(t, "e2", "C", "47.11", "B", "C", "D"),
	}
	settlements := []SettlementForBalance{settlement("B", "A", "12.34")}

	first, err := CalculateGroupBalances(group, expenses, settlements)
	require.NoError(t, err)
	second, err := CalculateGroupBalances(group, expenses, settlements)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for id, v := range first {
		assert.Equal(t, v.String(), second[id].String(), id)
	}
}

func TestReplayZeroSum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	group := []string{"A", "B", "C", "D", "E"}

	for round := 0; round < 200; round++ {
		var events []LedgerEvent
		expenses, settlements := 1+rng.Intn(10), rng.Intn(4)
		for i := 0; i < expenses; i++ {
			total := decimal.New(int64(1+rng.Intn(100000)), -Places)
			among := group[:1+rng.Intn(len(group))]
			payer := group[rng.Intn(len(group))]

			var splits []SplitEntry
			var err error
			if rng.Intn(2) == 0 {
				splits, err = GenerateSplits(total, SplitModeEqual, members(among...))
			} else {
				splits, err = GenerateSplits(total, SplitModePercentage,
					withPercentages([]string{"A", "B", "C", "D"}, "12.5", "37.5", "30", "20"))
				// percentage splits may drift; book exactly what was split
				total = Sum(amounts(splits)...)
			}
			require.NoError(t, err)
			events = append(events, ExpenseForBalance{Amount: total, PayerID: payer, Splits: splits})
		}
		for i := 0; i < settlements; i++ {
			from, to := group[rng.Intn(len(group))], group[rng.Intn(len(group))]
			events = append(events, SettlementForBalance{
				FromMemberID: from, ToMemberID: to, Amount: decimal.New(int64(rng.Intn(5000)), -Places),
			})
		}

		raw := accumulate(group, events)
		require.True(t, sumOf(raw).IsZero(), "raw ledger must sum to zero, got %s", sumOf(raw))

		net, err := Replay(group, events)
		require.NoError(t, err)
		for _, m := range group {
			assert.True(t, net[m].Sub(raw[m]).Abs().LessThan(ZeroTolerance),
				"%s reported %s for raw %s", m, net[m], raw[m])
		}
	}
}
