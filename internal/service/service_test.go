package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
)

type fixture struct {
	svc     *LedgerService
	store   storage.Store
	metrics *metrics.Metrics
	users   map[string]string // name -> id
	group   *models.Group
}

// newFixture creates a service over a fresh SQLite store with one group
// whose members are the given names, in order.
func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	m := metrics.New(prometheus.NewRegistry())
	svc := NewLedgerService(store, WithMetrics(m))
	ctx := context.Background()

	f := &fixture{svc: svc, store: store, metrics: m, users: make(map[string]string)}
	ids := make([]string, len(names))
	for i, name := range names {
		u, err := svc.CreateUser(ctx, name, name+"@example.com")
		require.NoError(t, err)
		f.users[name] = u.ID
		ids[i] = u.ID
	}

	f.group, err = svc.CreateGroup(ctx, "Trip", "", ids)
	require.NoError(t, err)
	return f
}

func (f *fixture) id(name string) string { return f.users[name] }

func (f *fixture) equalExpense(t *testing.T, payer, amount string) *models.Expense {
	t.Helper()
	e, err := f.svc.CreateExpense(context.Background(), CreateExpenseInput{
		GroupID:     f.group.ID,
		Description: "Shared",
		Amount:      dec(amount),
		PaidBy:      f.id(payer),
		SplitType:   "equal",
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) settle(t *testing.T, from, to, amount string) {
	t.Helper()
	_, err := f.svc.CreateSettlement(context.Background(), CreateSettlementInput{
		GroupID:    f.group.ID,
		FromUserID: f.id(from),
		ToUserID:   f.id(to),
		Amount:     dec(amount),
	})
	require.NoError(t, err)
}

func (f *fixture) balanceOf(t *testing.T, name string) MemberBalance {
	t.Helper()
	balances, err := f.svc.GroupBalances(context.Background(), f.group.ID)
	require.NoError(t, err)
	for _, b := range balances {
		if b.UserID == f.id(name) {
			return b
		}
	}
	t.Fatalf("no balance for %s", name)
	return MemberBalance{}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pct(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func amt(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}
