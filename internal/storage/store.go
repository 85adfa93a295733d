// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned (wrapped) when a write would break a uniqueness rule,
	// such as two users sharing an email.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotMember is returned (wrapped) when a ledger record names someone who
	// is not a member of the group at write time.
	ErrNotMember = errors.New("not a group member")
)

// LedgerCheck inspects a group's ledger inside the write transaction of a
// guarded change. A non-nil error aborts the change and is returned as is.
type LedgerCheck func(*Ledger) error

// Ledger is a consistent snapshot of everything needed to compute a group's balances.
type Ledger struct {
	Group       *models.Group
	Expenses    []*models.Expense
	Settlements []*models.Settlement
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. ID and CreatedAt are populated by the store.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	// GetUsersByIDs returns the users that exist, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	// DeleteUser removes the user and their group memberships. Ledger records
	// that mention the user are kept. check, if non-nil, receives the ledger of
	// every group the user belongs to, read in the same write transaction.
	DeleteUser(ctx context.Context, userID string, check func([]*Ledger) error) error

	// CreateGroup persists a new group with its members in the given order.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)
	// UpdateGroup updates name and description, and replaces the member list
	// when group.Members is non-nil. check, if non-nil, sees the ledger as it
	// was before the update, in the same write transaction.
	UpdateGroup(ctx context.Context, group *models.Group, check LedgerCheck) error
	// DeleteGroup removes the group together with its expenses and settlements.
	DeleteGroup(ctx context.Context, groupID string, check LedgerCheck) error
	// AddGroupMembers appends members not already present, keeping join order.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error
	RemoveGroupMember(ctx context.Context, groupID, userID string, check LedgerCheck) error

	// CreateExpense persists an expense and its splits atomically. It fails
	// with ErrNotMember if the payer or a split user has left the group.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// CreateSettlement fails with ErrNotMember if either party has left the group.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// LedgerSnapshot reads the group, its expenses and its settlements in a
	// single read transaction.
	LedgerSnapshot(ctx context.Context, groupID string) (*Ledger, error)

	// Close releases any resources held by the store.
	Close() error
}
