package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// CreateSettlementInput describes a direct payment between two group members.
type CreateSettlementInput struct {
	GroupID     string
	FromUserID  string
	ToUserID    string
	Amount      decimal.Decimal
	Description string
}

// CreateSettlement records a payment from one member to another.
func (s *LedgerService) CreateSettlement(ctx context.Context, in CreateSettlementInput) (*models.Settlement, error) {
	amount := calculator.Round(in.Amount)
	if !amount.IsPositive() {
		return nil, invalid("amount must be greater than zero")
	}
	if in.FromUserID == in.ToUserID {
		return nil, invalid("cannot settle with yourself")
	}

	group, err := s.store.GetGroup(ctx, in.GroupID)
	if err != nil {
		return nil, fmt.Errorf("create settlement: %w", err)
	}
	for _, id := range []string{in.FromUserID, in.ToUserID} {
		if !isMember(id, group.Members) {
			return nil, invalid("user %q is not a member of group %s", id, group.ID)
		}
	}

	settlement := &models.Settlement{
		GroupID:     group.ID,
		FromUserID:  in.FromUserID,
		ToUserID:    in.ToUserID,
		Amount:      amount,
		Description: in.Description,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("CreateSettlement failed", "group_id", in.GroupID, "error", err)
		return nil, fmt.Errorf("create settlement: %w", err)
	}

	s.metrics.SettlementCreated()
	slog.Info("Settlement created",
		"settlement_id", settlement.ID,
		"group_id", settlement.GroupID,
		"from", settlement.FromUserID,
		"to", settlement.ToUserID,
		"amount", amount.StringFixed(calculator.Places),
	)
	return settlement, nil
}

// ListSettlements returns a group's settlements in the order they were recorded.
func (s *LedgerService) ListSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	return settlements, nil
}
