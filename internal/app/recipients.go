/**
 * @description
 * Recipient directory operations: list, create, update, and delete saved
 * payout contacts. The server is the source of truth; clients replace their
 * cached list wholesale on reload or patch it optimistically on mutation.
 */

package app

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/diaremit/remit-service/internal/domain"
)

var (
	ErrRecipientNameRequired = errors.New("recipient name is required")
	ErrEmailRequired         = errors.New("email is required")
)

// ListRecipients returns the user's recipients, newest first.
func (s *Service) ListRecipients(ctx context.Context, userID uuid.UUID) ([]domain.Recipient, error) {
	return s.repo.ListRecipientsByUserID(ctx, userID)
}

// AddRecipient validates and creates a recipient for the user.
func (s *Service) AddRecipient(ctx context.Context, userID uuid.UUID, input domain.RecipientInput) (*domain.Recipient, error) {
	if err := validateRecipientInput(input); err != nil {
		return nil, err
	}
	recipient := &domain.Recipient{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          strings.TrimSpace(input.Name),
		Phone:         strings.TrimSpace(input.Phone),
		Email:         strings.TrimSpace(input.Email),
		Country:       input.Country,
		Flag:          input.Flag,
		Bank:          input.Bank,
		AccountNumber: input.AccountNumber,
	}
	if err := s.repo.CreateRecipient(ctx, recipient); err != nil {
		return nil, err
	}
	return recipient, nil
}

// UpdateRecipient rewrites the editable fields of one of the user's
// recipients.
func (s *Service) UpdateRecipient(ctx context.Context, userID, recipientID uuid.UUID, input domain.RecipientInput) (*domain.Recipient, error) {
	if err := validateRecipientInput(input); err != nil {
		return nil, err
	}
	recipient := &domain.Recipient{
		ID:            recipientID,
		UserID:        userID,
		Name:          strings.TrimSpace(input.Name),
		Phone:         strings.TrimSpace(input.Phone),
		Email:         strings.TrimSpace(input.Email),
		Country:       input.Country,
		Flag:          input.Flag,
		Bank:          input.Bank,
		AccountNumber: input.AccountNumber,
	}
	if err := s.repo.UpdateRecipient(ctx, recipient); err != nil {
		return nil, err
	}
	return recipient, nil
}

// DeleteRecipient removes one of the user's recipients. Reports whether a
// row was actually deleted.
func (s *Service) DeleteRecipient(ctx context.Context, userID, recipientID uuid.UUID) (bool, error) {
	return s.repo.DeleteRecipient(ctx, recipientID, userID)
}

func validateRecipientInput(input domain.RecipientInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrRecipientNameRequired
	}
	if strings.TrimSpace(input.Email) == "" {
		return ErrEmailRequired
	}
	return nil
}
