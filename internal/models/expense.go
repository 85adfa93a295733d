package models

import "github.com/shopspring/decimal"

// Expense represents one payment made by a group member on behalf of others.
// Expenses are immutable once stored.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is what the money was spent on.
	Description string

	// Amount is the total paid, rounded to two decimal places.
	Amount decimal.Decimal

	// PaidBy is the user ID of the member who paid.
	PaidBy string

	// SplitType is "equal" or "percentage".
	SplitType string

	// Splits are the per-member shares, in the order they were generated.
	// Their amounts sum to Amount.
	Splits []ExpenseSplit

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ExpenseSplit is one member's share of an expense.
type ExpenseSplit struct {
	// UserID is the member who owes this share.
	UserID string

	// Amount is the share, rounded to two decimal places.
	Amount decimal.Decimal

	// Percentage is set only for percentage splits.
	Percentage decimal.NullDecimal
}
