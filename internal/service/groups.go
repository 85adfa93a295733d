package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// GroupDetail is a group plus the sum of all its expenses.
type GroupDetail struct {
	*models.Group
	TotalExpenses decimal.Decimal
}

// CreateGroup creates a group with the given members, in order.
func (s *LedgerService) CreateGroup(ctx context.Context, name, description string, memberIDs []string) (*models.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalid("group name is required")
	}
	if err := s.requireUsers(ctx, memberIDs); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	group := &models.Group{Name: strings.TrimSpace(name), Description: description, Members: memberIDs}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, fmt.Errorf("create group: %w", err)
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(memberIDs))
	return s.store.GetGroup(ctx, group.ID)
}

// GetGroup returns a group with its expense total.
func (s *LedgerService) GetGroup(ctx context.Context, groupID string) (*GroupDetail, error) {
	ledger, err := s.store.LedgerSnapshot(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}

	total := decimal.Zero
	for _, e := range ledger.Expenses {
		total = total.Add(e.Amount)
	}
	return &GroupDetail{Group: ledger.Group, TotalExpenses: calculator.Round(total)}, nil
}

// ListGroups returns every group.
func (s *LedgerService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// ListUserGroups returns the groups userID belongs to.
func (s *LedgerService) ListUserGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	groups, err := s.store.ListGroupsByUser(ctx, userID)
	if err != nil {
		slog.Error("ListUserGroups failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// UpdateGroup renames a group and, when memberIDs is non-nil, replaces its
// members. Members being dropped must be settled up.
func (s *LedgerService) UpdateGroup(ctx context.Context, groupID, name, description string, memberIDs []string) (*models.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalid("group name is required")
	}

	var check storage.LedgerCheck
	if memberIDs != nil {
		if err := s.requireUsers(ctx, memberIDs); err != nil {
			return nil, fmt.Errorf("update group: %w", err)
		}
		check = func(ledger *storage.Ledger) error {
			var dropped []string
			for _, m := range ledger.Group.Members {
				if !isMember(m, memberIDs) {
					dropped = append(dropped, m)
				}
			}
			return s.requireSettled(ledger, "update_group", dropped...)
		}
	}

	group := &models.Group{ID: groupID, Name: strings.TrimSpace(name), Description: description, Members: memberIDs}
	if err := s.store.UpdateGroup(ctx, group, check); err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}

	slog.Info("Group updated", "group_id", groupID)
	return s.store.GetGroup(ctx, groupID)
}

// AddMembers appends users to a group; existing members are ignored.
func (s *LedgerService) AddMembers(ctx context.Context, groupID string, userIDs []string) (*models.Group, error) {
	if len(userIDs) == 0 {
		return nil, invalid("no users to add")
	}
	if err := s.requireUsers(ctx, userIDs); err != nil {
		return nil, fmt.Errorf("add members: %w", err)
	}
	if err := s.store.AddGroupMembers(ctx, groupID, userIDs); err != nil {
		return nil, fmt.Errorf("add members: %w", err)
	}

	slog.Info("Members added", "group_id", groupID, "user_ids", userIDs)
	return s.store.GetGroup(ctx, groupID)
}

// RemoveMember removes a settled-up member from a group. The balance check and
// the removal happen in one write transaction.
func (s *LedgerService) RemoveMember(ctx context.Context, groupID, userID string) error {
	err := s.store.RemoveGroupMember(ctx, groupID, userID, func(ledger *storage.Ledger) error {
		if !isMember(userID, ledger.Group.Members) {
			return invalid("user %q is not a member of group %s", userID, groupID)
		}
		return s.requireSettled(ledger, "remove_member", userID)
	})
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	slog.Info("Member removed", "group_id", groupID, "user_id", userID)
	return nil
}

// DeleteGroup deletes a group and its ledger once every member is settled up.
func (s *LedgerService) DeleteGroup(ctx context.Context, groupID string) error {
	err := s.store.DeleteGroup(ctx, groupID, func(ledger *storage.Ledger) error {
		return s.requireSettled(ledger, "delete_group", ledger.Group.Members...)
	})
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	slog.Info("Group deleted", "group_id", groupID)
	return nil
}

// requireSettled replays ledger and fails with ErrOutstandingBalance if any of
// userIDs has a balance that is not near zero. operation labels the metric.
func (s *LedgerService) requireSettled(ledger *storage.Ledger, operation string, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	net, err := s.netBalances(ledger)
	if err != nil {
		return err
	}
	for _, id := range userIDs {
		if !calculator.IsNearZero(net[id]) {
			s.metrics.GuardBlocked(operation)
			slog.Warn("Change blocked by outstanding balance",
				"operation", operation,
				"group_id", ledger.Group.ID,
				"user_id", id,
				"balance", net[id].String(),
			)
			return fmt.Errorf("user %s in group %s: %w", id, ledger.Group.ID, ErrOutstandingBalance)
		}
	}
	return nil
}

// requireUsers fails with ErrInvalidArgument if any ID is unknown.
func (s *LedgerService) requireUsers(ctx context.Context, ids []string) error {
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := users[id]; !ok {
			return invalid("unknown user %q", id)
		}
	}
	return nil
}
