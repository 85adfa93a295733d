package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// CreateUser registers a new user.
func (s *LedgerService) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" {
		return nil, invalid("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalid("invalid email %q", email)
	}

	user := &models.User{Name: name, Email: email}
	if err := s.store.CreateUser(ctx, user); err != nil {
		slog.Error("CreateUser failed", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}
	slog.Info("User created", "user_id", user.ID)
	return user, nil
}

// GetUser returns a user by ID.
func (s *LedgerService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns every user, ordered by name.
func (s *LedgerService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUser changes a user's name and/or email; empty values are left as they are.
func (s *LedgerService) UpdateUser(ctx context.Context, userID, name, email string) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if email = strings.TrimSpace(email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, invalid("invalid email %q", email)
		}
		user.Email = email
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	slog.Info("User updated", "user_id", userID)
	return user, nil
}

// DeleteUser deletes a user who is settled up in every group. The check and
// the deletion happen in one write transaction.
func (s *LedgerService) DeleteUser(ctx context.Context, userID string) error {
	err := s.store.DeleteUser(ctx, userID, func(ledgers []*storage.Ledger) error {
		for _, ledger := range ledgers {
			if err := s.requireSettled(ledger, "delete_user", userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	slog.Info("User deleted", "user_id", userID)
	return nil
}
