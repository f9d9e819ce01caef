/**
 * @description
 * DisabledRepository is the Repository implementation selected at startup
 * when the database is not configured. Every data operation uniformly
 * returns ErrNotConfigured, which the API layer surfaces as a single
 * "backend not configured" failure per attempted operation. This keeps the
 * configuration check in one place instead of scattering it through call
 * sites, and lets the rate catalog, quoting, and assistant endpoints keep
 * working without a database.
 */

package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/diaremit/remit-service/internal/domain"
)

// DisabledRepository fails every operation with ErrNotConfigured.
type DisabledRepository struct{}

// NewDisabledRepository creates the stub repository.
func NewDisabledRepository() *DisabledRepository {
	return &DisabledRepository{}
}

func (r *DisabledRepository) LookupUserIDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	return uuid.Nil, ErrNotConfigured
}

func (r *DisabledRepository) ListRecipientsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Recipient, error) {
	return nil, ErrNotConfigured
}

func (r *DisabledRepository) FindRecipientByID(ctx context.Context, recipientID, userID uuid.UUID) (*domain.Recipient, error) {
	return nil, ErrNotConfigured
}

func (r *DisabledRepository) CreateRecipient(ctx context.Context, recipient *domain.Recipient) error {
	return ErrNotConfigured
}

func (r *DisabledRepository) UpdateRecipient(ctx context.Context, recipient *domain.Recipient) error {
	return ErrNotConfigured
}

func (r *DisabledRepository) DeleteRecipient(ctx context.Context, recipientID, userID uuid.UUID) (bool, error) {
	return false, ErrNotConfigured
}

func (r *DisabledRepository) ListBalancesByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Balance, error) {
	return nil, ErrNotConfigured
}

func (r *DisabledRepository) GetBalance(ctx context.Context, userID uuid.UUID, currency string) (float64, error) {
	return 0, ErrNotConfigured
}

func (r *DisabledRepository) ListBalanceTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]domain.BalanceTransaction, error) {
	return nil, ErrNotConfigured
}

func (r *DisabledRepository) ProcessTransfer(ctx context.Context, transfer *domain.Transfer) error {
	return ErrNotConfigured
}

func (r *DisabledRepository) FindTransferByID(ctx context.Context, transferID uuid.UUID) (*domain.Transfer, error) {
	return nil, ErrNotConfigured
}

func (r *DisabledRepository) ListTransfersBySenderID(ctx context.Context, senderID uuid.UUID, limit int) ([]domain.Transfer, error) {
	return nil, ErrNotConfigured
}

func (r *DisabledRepository) AdvanceTransferStatus(ctx context.Context, transferID uuid.UUID, from, to string) (bool, error) {
	return false, ErrNotConfigured
}

func (r *DisabledRepository) CreateScheduledTransfer(ctx context.Context, st *domain.ScheduledTransfer) error {
	return ErrNotConfigured
}

func (r *DisabledRepository) ListScheduledTransfersByUserID(ctx context.Context, userID uuid.UUID) ([]domain.ScheduledTransfer, error) {
	return nil, ErrNotConfigured
}

func (r *DisabledRepository) CancelScheduledTransfer(ctx context.Context, scheduleID, userID uuid.UUID) (bool, error) {
	return false, ErrNotConfigured
}

func (r *DisabledRepository) FindDueScheduledTransfers(ctx context.Context, now time.Time) ([]domain.ScheduledTransfer, error) {
	return nil, ErrNotConfigured
}

func (r *DisabledRepository) MarkScheduledTransferExecuted(ctx context.Context, scheduleID, transferID uuid.UUID) error {
	return ErrNotConfigured
}

func (r *DisabledRepository) UpsertExchangeRates(ctx context.Context, snapshot []domain.ExchangeRate) error {
	return ErrNotConfigured
}
