// Package service implements the ledger use cases on top of a storage.Store:
// recording expenses and settlements, reporting balances, and guarding
// destructive operations against unsettled debts.
package service

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/storage"
)

var (
	// ErrInvalidArgument marks requests rejected before touching the ledger.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutstandingBalance blocks deleting or removing someone who has not settled up.
	ErrOutstandingBalance = errors.New("outstanding balance")
)

// LedgerService implements the ledger use cases.
type LedgerService struct {
	store    storage.Store
	splitter *calculator.Splitter
	resolver calculator.DebtResolver
	metrics  *metrics.Metrics
}

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithRemainderPolicy sets how equal-split remainders are distributed.
func WithRemainderPolicy(policy calculator.RemainderPolicy) Option {
	return func(s *LedgerService) { s.splitter = calculator.NewSplitter(policy) }
}

// WithResolver replaces the per-member payment suggestion strategy.
func WithResolver(r calculator.DebtResolver) Option {
	return func(s *LedgerService) { s.resolver = r }
}

// WithMetrics records service activity in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *LedgerService) { s.metrics = m }
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:    store,
		splitter: calculator.NewSplitter(calculator.FirstMemberAbsorbs),
		resolver: calculator.GreedySuggester{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func isMember(userID string, members []string) bool {
	return slices.Contains(members, userID)
}
