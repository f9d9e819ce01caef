/**
 * @description
 * This file defines the `Repository` interface, the contract for all data
 * access the remit-service performs. The interface decouples the business
 * logic from the PostgreSQL implementation and lets tests substitute stubs.
 *
 * Two implementations exist: `PostgresRepository` (the real one) and
 * `DisabledRepository`, selected at startup when the database is not
 * configured so every data operation fails uniformly instead of branching
 * on configuration at each call site.
 *
 * @dependencies
 * - context, time: Standard Go libraries.
 * - github.com/google/uuid: For id handling.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/diaremit/remit-service/internal/domain"
)

var (
	// ErrNotConfigured is returned by every DisabledRepository method.
	ErrNotConfigured = errors.New("backend not configured")

	ErrProfileNotFound           = errors.New("profile not found")
	ErrRecipientNotFound         = errors.New("recipient not found")
	ErrTransferNotFound          = errors.New("transfer not found")
	ErrScheduledTransferNotFound = errors.New("scheduled transfer not found")
	ErrInsufficientFunds         = errors.New("insufficient funds")
)

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// Profile methods
	// LookupUserIDByEmail resolves a registered user's id from their email,
	// mirroring the lookup_user_by_email backend procedure.
	LookupUserIDByEmail(ctx context.Context, email string) (uuid.UUID, error)

	// Recipient methods
	ListRecipientsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Recipient, error)
	FindRecipientByID(ctx context.Context, recipientID, userID uuid.UUID) (*domain.Recipient, error)
	CreateRecipient(ctx context.Context, recipient *domain.Recipient) error
	UpdateRecipient(ctx context.Context, recipient *domain.Recipient) error
	DeleteRecipient(ctx context.Context, recipientID, userID uuid.UUID) (bool, error)

	// Balance methods (read-only outside ProcessTransfer)
	ListBalancesByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Balance, error)
	GetBalance(ctx context.Context, userID uuid.UUID, currency string) (float64, error)
	ListBalanceTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]domain.BalanceTransaction, error)

	// Transfer methods
	// ProcessTransfer atomically inserts the pending transfer row, debits the
	// sender's source-currency balance by amount+fee, and records a ledger
	// row. Either all three succeed or none do.
	ProcessTransfer(ctx context.Context, transfer *domain.Transfer) error
	FindTransferByID(ctx context.Context, transferID uuid.UUID) (*domain.Transfer, error)
	ListTransfersBySenderID(ctx context.Context, senderID uuid.UUID, limit int) ([]domain.Transfer, error)
	// AdvanceTransferStatus performs a guarded status transition and reports
	// whether the row actually moved. A false return means the transfer was
	// not in the expected `from` status, which makes replays no-ops.
	AdvanceTransferStatus(ctx context.Context, transferID uuid.UUID, from, to string) (bool, error)

	// Scheduled transfer methods
	CreateScheduledTransfer(ctx context.Context, st *domain.ScheduledTransfer) error
	ListScheduledTransfersByUserID(ctx context.Context, userID uuid.UUID) ([]domain.ScheduledTransfer, error)
	CancelScheduledTransfer(ctx context.Context, scheduleID, userID uuid.UUID) (bool, error)
	FindDueScheduledTransfers(ctx context.Context, now time.Time) ([]domain.ScheduledTransfer, error)
	MarkScheduledTransferExecuted(ctx context.Context, scheduleID, transferID uuid.UUID) error

	// Rate snapshot seeding
	UpsertExchangeRates(ctx context.Context, snapshot []domain.ExchangeRate) error
}
