package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// SplitInput is one requested share. Share amounts are always derived from the
// total, so Amount must be left unset; a supplied Amount is rejected with
// ErrInvalidArgument rather than overwritten.
type SplitInput struct {
	UserID     string
	Amount     decimal.NullDecimal
	Percentage decimal.NullDecimal
}

// CreateExpenseInput describes a new expense.
type CreateExpenseInput struct {
	GroupID     string
	Description string
	Amount      decimal.Decimal
	PaidBy      string
	SplitType   string
	// Splits may be empty for an equal split across the whole group.
	Splits []SplitInput
}

// CreateExpense validates, splits and records a new expense.
func (s *LedgerService) CreateExpense(ctx context.Context, in CreateExpenseInput) (*models.Expense, error) {
	expense, err := s.buildExpense(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "group_id", in.GroupID, "error", err)
		return nil, fmt.Errorf("create expense: %w", err)
	}

	s.metrics.ExpenseCreated(expense.SplitType)
	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"amount", expense.Amount.StringFixed(calculator.Places),
		"split_type", expense.SplitType,
		"splits", len(expense.Splits),
	)
	return expense, nil
}

// PreviewExpense runs the same validation and split as CreateExpense without
// storing anything.
func (s *LedgerService) PreviewExpense(ctx context.Context, in CreateExpenseInput) (*models.Expense, error) {
	return s.buildExpense(ctx, in)
}

// ListExpenses returns a group's expenses in the order they were recorded.
func (s *LedgerService) ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

func (s *LedgerService) buildExpense(ctx context.Context, in CreateExpenseInput) (*models.Expense, error) {
	mode, err := calculator.ParseSplitMode(in.SplitType)
	if err != nil {
		return nil, s.rejectExpense(in, err)
	}

	amount := calculator.Round(in.Amount)
	if !amount.IsPositive() {
		return nil, invalid("amount must be greater than zero")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, invalid("description is required")
	}

	group, err := s.store.GetGroup(ctx, in.GroupID)
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	if !isMember(in.PaidBy, group.Members) {
		return nil, invalid("payer %q is not a member of group %s", in.PaidBy, group.ID)
	}

	seen := make(map[string]bool, len(in.Splits))
	for _, sp := range in.Splits {
		if !isMember(sp.UserID, group.Members) {
			return nil, invalid("split user %q is not a member of group %s", sp.UserID, group.ID)
		}
		if seen[sp.UserID] {
			return nil, invalid("user %q appears in more than one split", sp.UserID)
		}
		if sp.Amount.Valid {
			return nil, invalid("split amount for user %q is derived from the total and cannot be supplied", sp.UserID)
		}
		seen[sp.UserID] = true
	}

	if err := checkSplitShape(mode, in.Splits); err != nil {
		return nil, s.rejectExpense(in, err)
	}
	if err := calculator.ValidateSplits(amount, validationEntries(in.Splits)); err != nil {
		return nil, s.rejectExpense(in, err)
	}

	participants := make([]calculator.Participant, 0, len(in.Splits))
	for _, sp := range in.Splits {
		participants = append(participants, calculator.Participant{
			MemberID:   sp.UserID,
			Percentage: sp.Percentage.Decimal,
		})
	}
	if mode == calculator.SplitModeEqual && len(participants) == 0 {
		for _, m := range group.Members {
			participants = append(participants, calculator.Participant{MemberID: m})
		}
	}

	entries, err := s.splitter.Generate(amount, mode, participants)
	if err != nil {
		return nil, s.rejectExpense(in, err)
	}

	splits := make([]models.ExpenseSplit, len(entries))
	for i, e := range entries {
		splits[i] = models.ExpenseSplit{UserID: e.MemberID, Amount: e.Amount}
		if e.Percentage != nil {
			splits[i].Percentage = decimal.NewNullDecimal(*e.Percentage)
		}
	}

	return &models.Expense{
		GroupID:     group.ID,
		Description: strings.TrimSpace(in.Description),
		Amount:      amount,
		PaidBy:      in.PaidBy,
		SplitType:   string(mode),
		Splits:      splits,
	}, nil
}

// checkSplitShape enforces what each mode needs from the requested splits.
func checkSplitShape(mode calculator.SplitMode, splits []SplitInput) error {
	if mode != calculator.SplitModePercentage {
		return nil
	}
	if len(splits) == 0 {
		return fmt.Errorf("%w: percentage split needs at least one participant", calculator.ErrPercentageSumMismatch)
	}
	for _, sp := range splits {
		if !sp.Percentage.Valid {
			return fmt.Errorf("%w: user %q has no percentage", calculator.ErrPercentageSumMismatch, sp.UserID)
		}
	}
	return nil
}

// validationEntries converts requested splits into the entries ValidateSplits
// checks. Splits without percentages only name participants, so there is
// nothing to validate.
func validationEntries(splits []SplitInput) []calculator.SplitEntry {
	hasPct := false
	for _, sp := range splits {
		hasPct = hasPct || sp.Percentage.Valid
	}
	if !hasPct {
		return nil
	}

	entries := make([]calculator.SplitEntry, len(splits))
	for i, sp := range splits {
		entries[i] = calculator.SplitEntry{MemberID: sp.UserID}
		if sp.Percentage.Valid {
			pct := sp.Percentage.Decimal
			entries[i].Percentage = &pct
		}
	}
	return entries
}

func (s *LedgerService) rejectExpense(in CreateExpenseInput, err error) error {
	reason := "other"
	switch {
	case errors.Is(err, calculator.ErrSplitSumMismatch):
		reason = "split_sum_mismatch"
	case errors.Is(err, calculator.ErrPercentageSumMismatch):
		reason = "percentage_sum_mismatch"
	case errors.Is(err, calculator.ErrUnknownSplitMode):
		reason = "unknown_split_mode"
	case errors.Is(err, calculator.ErrEmptyGroupDivision):
		reason = "empty_group_division"
	}
	s.metrics.ExpenseRejected(reason)
	slog.Warn("Expense rejected", "group_id", in.GroupID, "reason", reason, "error", err)
	return fmt.Errorf("create expense: %w", err)
}
