/**
 * @description
 * PostgreSQL implementation of the `Repository` interface. Contains all SQL
 * against the `profiles`, `recipients`, `transfers`, `balances`,
 * `balance_transactions`, `scheduled_transfers`, and `exchange_rates`
 * tables consumed by the remit-service.
 *
 * @dependencies
 * - context, errors, time: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver.
 * - internal/domain: Domain models.
 */

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diaremit/remit-service/internal/domain"
)

// PostgresRepository is the concrete Repository backed by a pgx pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// LookupUserIDByEmail resolves a registered user's id from their email.
// Emails are matched case-insensitively after trimming, the same way the
// lookup_user_by_email procedure behaves.
func (r *PostgresRepository) LookupUserIDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	var id uuid.UUID
	query := `SELECT id FROM profiles WHERE lower(btrim(email)) = lower(btrim($1))`
	err := r.db.QueryRow(ctx, query, email).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return uuid.Nil, ErrProfileNotFound
		}
		return uuid.Nil, err
	}
	return id, nil
}

// ListRecipientsByUserID returns the user's recipients, newest first.
func (r *PostgresRepository) ListRecipientsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Recipient, error) {
	query := `
		SELECT id, user_id, name, phone, email, country, flag, bank, account_number, created_at, updated_at
		FROM recipients
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipients := []domain.Recipient{}
	for rows.Next() {
		var rec domain.Recipient
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Phone, &rec.Email, &rec.Country, &rec.Flag, &rec.Bank, &rec.AccountNumber, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	return recipients, rows.Err()
}

// FindRecipientByID fetches one recipient scoped to its owning user.
func (r *PostgresRepository) FindRecipientByID(ctx context.Context, recipientID, userID uuid.UUID) (*domain.Recipient, error) {
	var rec domain.Recipient
	query := `
		SELECT id, user_id, name, phone, email, country, flag, bank, account_number, created_at, updated_at
		FROM recipients
		WHERE id = $1 AND user_id = $2`
	err := r.db.QueryRow(ctx, query, recipientID, userID).Scan(
		&rec.ID, &rec.UserID, &rec.Name, &rec.Phone, &rec.Email, &rec.Country, &rec.Flag, &rec.Bank, &rec.AccountNumber, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// CreateRecipient inserts a recipient and backfills the generated timestamps.
func (r *PostgresRepository) CreateRecipient(ctx context.Context, recipient *domain.Recipient) error {
	query := `
		INSERT INTO recipients (id, user_id, name, phone, email, country, flag, bank, account_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		recipient.ID, recipient.UserID, recipient.Name, recipient.Phone, recipient.Email,
		recipient.Country, recipient.Flag, recipient.Bank, recipient.AccountNumber,
	).Scan(&recipient.CreatedAt, &recipient.UpdatedAt)
}

// UpdateRecipient rewrites the user-editable fields of a recipient.
func (r *PostgresRepository) UpdateRecipient(ctx context.Context, recipient *domain.Recipient) error {
	query := `
		UPDATE recipients
		SET name = $3, phone = $4, email = $5, country = $6, flag = $7, bank = $8, account_number = $9, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		recipient.ID, recipient.UserID, recipient.Name, recipient.Phone, recipient.Email,
		recipient.Country, recipient.Flag, recipient.Bank, recipient.AccountNumber,
	).Scan(&recipient.CreatedAt, &recipient.UpdatedAt)
	if err == pgx.ErrNoRows {
		return ErrRecipientNotFound
	}
	return err
}

// DeleteRecipient removes a recipient scoped to its owner. Returns false when
// no row matched.
func (r *PostgresRepository) DeleteRecipient(ctx context.Context, recipientID, userID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM recipients WHERE id = $1 AND user_id = $2`, recipientID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListBalancesByUserID returns every balance row for the user.
func (r *PostgresRepository) ListBalancesByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Balance, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, currency, amount, updated_at FROM balances WHERE user_id = $1 ORDER BY currency`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := []domain.Balance{}
	for rows.Next() {
		var b domain.Balance
		if err := rows.Scan(&b.UserID, &b.Currency, &b.Amount, &b.UpdatedAt); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// GetBalance returns the user's balance in one currency. A missing row reads
// as zero, matching how the client treats absent balances.
func (r *PostgresRepository) GetBalance(ctx context.Context, userID uuid.UUID, currency string) (float64, error) {
	var amount float64
	err := r.db.QueryRow(ctx,
		`SELECT amount FROM balances WHERE user_id = $1 AND currency = $2`, userID, currency).Scan(&amount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return amount, nil
}

// ListBalanceTransactions returns the user's newest ledger rows.
func (r *PostgresRepository) ListBalanceTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]domain.BalanceTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, user_id, currency, amount, type, transfer_id, description, created_at
		FROM balance_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.BalanceTransaction{}
	for rows.Next() {
		var bt domain.BalanceTransaction
		if err := rows.Scan(&bt.ID, &bt.UserID, &bt.Currency, &bt.Amount, &bt.Type, &bt.TransferID, &bt.Description, &bt.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, bt)
	}
	return items, rows.Err()
}

// ProcessTransfer is the atomic creation + debit operation. The sender's
// balance row is locked, checked, and debited in the same transaction that
// inserts the transfer and its ledger row, so either everything commits or
// nothing does.
func (r *PostgresRepository) ProcessTransfer(ctx context.Context, transfer *domain.Transfer) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	total := transfer.Amount + transfer.Fee

	var balance float64
	err = tx.QueryRow(ctx,
		`SELECT amount FROM balances WHERE user_id = $1 AND currency = $2 FOR UPDATE`,
		transfer.SenderID, transfer.SourceCurrency).Scan(&balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrInsufficientFunds
		}
		return err
	}
	if balance < total {
		return ErrInsufficientFunds
	}

	if _, err := tx.Exec(ctx,
		`UPDATE balances SET amount = amount - $3, updated_at = now() WHERE user_id = $1 AND currency = $2`,
		transfer.SenderID, transfer.SourceCurrency, total); err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}

	insertTransfer := `
		INSERT INTO transfers (
			id, sender_id, recipient_id, recipient_user_id, recipient_name,
			amount, fee, source_currency, target_currency, exchange_rate,
			status, payment_method, transfer_time, institution_name, institution_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`
	err = tx.QueryRow(ctx, insertTransfer,
		transfer.ID, transfer.SenderID, transfer.RecipientID, transfer.RecipientUserID, transfer.RecipientName,
		transfer.Amount, transfer.Fee, transfer.SourceCurrency, transfer.TargetCurrency, transfer.ExchangeRate,
		transfer.Status, transfer.PaymentMethod, transfer.TransferTime, transfer.InstitutionName, transfer.InstitutionID,
	).Scan(&transfer.CreatedAt, &transfer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}

	description := fmt.Sprintf("Transfer to %s", transfer.RecipientName)
	if _, err := tx.Exec(ctx,
		`INSERT INTO balance_transactions (id, user_id, currency, amount, type, transfer_id, description)
		 VALUES ($1, $2, $3, $4, 'transfer_debit', $5, $6)`,
		uuid.New(), transfer.SenderID, transfer.SourceCurrency, -total, transfer.ID, description); err != nil {
		return fmt.Errorf("failed to record balance transaction: %w", err)
	}

	return tx.Commit(ctx)
}

const transferColumns = `
	id, sender_id, recipient_id, recipient_user_id, recipient_name,
	amount, fee, source_currency, target_currency, exchange_rate,
	status, payment_method, transfer_time, institution_name, institution_id,
	created_at, updated_at`

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var t domain.Transfer
	err := row.Scan(
		&t.ID, &t.SenderID, &t.RecipientID, &t.RecipientUserID, &t.RecipientName,
		&t.Amount, &t.Fee, &t.SourceCurrency, &t.TargetCurrency, &t.ExchangeRate,
		&t.Status, &t.PaymentMethod, &t.TransferTime, &t.InstitutionName, &t.InstitutionID,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FindTransferByID fetches one transfer.
func (r *PostgresRepository) FindTransferByID(ctx context.Context, transferID uuid.UUID) (*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	t, err := scanTransfer(r.db.QueryRow(ctx, query, transferID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrTransferNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListTransfersBySenderID returns the sender's newest transfers.
func (r *PostgresRepository) ListTransfersBySenderID(ctx context.Context, senderID uuid.UUID, limit int) ([]domain.Transfer, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE sender_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.Query(ctx, query, senderID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transfers := []domain.Transfer{}
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, *t)
	}
	return transfers, rows.Err()
}

// AdvanceTransferStatus moves a transfer from one status to the next. The
// WHERE clause on the current status makes the transition idempotent and
// prevents skipping states.
func (r *PostgresRepository) AdvanceTransferStatus(ctx context.Context, transferID uuid.UUID, from, to string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE transfers SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`,
		transferID, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CreateScheduledTransfer inserts a scheduled transfer with its rate
// snapshot and optional analysis payload (stored as jsonb).
func (r *PostgresRepository) CreateScheduledTransfer(ctx context.Context, st *domain.ScheduledTransfer) error {
	var analysis []byte
	if st.Analysis != nil {
		encoded, err := json.Marshal(st.Analysis)
		if err != nil {
			return fmt.Errorf("failed to encode analysis: %w", err)
		}
		analysis = encoded
	}
	query := `
		INSERT INTO scheduled_transfers (
			id, user_id, recipient_id, amount, source_currency, target_currency,
			country, rate, institution_id, payment_method, scheduled_date, status, ai_analysis
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		st.ID, st.UserID, st.RecipientID, st.Amount, st.SourceCurrency, st.TargetCurrency,
		st.Country, st.Rate, st.InstitutionID, st.PaymentMethod, st.ScheduledDate, st.Status, analysis,
	).Scan(&st.CreatedAt, &st.UpdatedAt)
}

const scheduledColumns = `
	id, user_id, recipient_id, amount, source_currency, target_currency,
	country, rate, institution_id, payment_method, scheduled_date, status,
	ai_analysis, transfer_id, created_at, updated_at`

func scanScheduledTransfer(row pgx.Row) (*domain.ScheduledTransfer, error) {
	var st domain.ScheduledTransfer
	var analysis []byte
	err := row.Scan(
		&st.ID, &st.UserID, &st.RecipientID, &st.Amount, &st.SourceCurrency, &st.TargetCurrency,
		&st.Country, &st.Rate, &st.InstitutionID, &st.PaymentMethod, &st.ScheduledDate, &st.Status,
		&analysis, &st.TransferID, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(analysis) > 0 {
		var a domain.RateAnalysis
		if err := json.Unmarshal(analysis, &a); err == nil {
			st.Analysis = &a
		}
	}
	return &st, nil
}

// ListScheduledTransfersByUserID returns the user's scheduled transfers,
// soonest first.
func (r *PostgresRepository) ListScheduledTransfersByUserID(ctx context.Context, userID uuid.UUID) ([]domain.ScheduledTransfer, error) {
	query := `SELECT ` + scheduledColumns + ` FROM scheduled_transfers WHERE user_id = $1 ORDER BY scheduled_date ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.ScheduledTransfer{}
	for rows.Next() {
		st, err := scanScheduledTransfer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *st)
	}
	return items, rows.Err()
}

// CancelScheduledTransfer flips a still-scheduled row to cancelled. Returns
// false when the row is missing or already executed/cancelled.
func (r *PostgresRepository) CancelScheduledTransfer(ctx context.Context, scheduleID, userID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE scheduled_transfers SET status = 'cancelled', updated_at = now()
		 WHERE id = $1 AND user_id = $2 AND status = 'scheduled'`,
		scheduleID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// FindDueScheduledTransfers returns scheduled rows whose date has arrived.
func (r *PostgresRepository) FindDueScheduledTransfers(ctx context.Context, now time.Time) ([]domain.ScheduledTransfer, error) {
	query := `SELECT ` + scheduledColumns + ` FROM scheduled_transfers WHERE status = 'scheduled' AND scheduled_date <= $1 ORDER BY scheduled_date ASC`
	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.ScheduledTransfer{}
	for rows.Next() {
		st, err := scanScheduledTransfer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *st)
	}
	return items, rows.Err()
}

// MarkScheduledTransferExecuted records the executed transition and links
// the transfer that execution created.
func (r *PostgresRepository) MarkScheduledTransferExecuted(ctx context.Context, scheduleID, transferID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE scheduled_transfers SET status = 'executed', transfer_id = $2, updated_at = now()
		 WHERE id = $1 AND status = 'scheduled'`,
		scheduleID, transferID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrScheduledTransferNotFound
	}
	return nil
}

// UpsertExchangeRates writes the process-start rate snapshot into the
// exchange_rates table so other consumers see the same numbers.
func (r *PostgresRepository) UpsertExchangeRates(ctx context.Context, snapshot []domain.ExchangeRate) error {
	batch := &pgx.Batch{}
	for _, rate := range snapshot {
		batch.Queue(`
			INSERT INTO exchange_rates (country, flag, currency, rate, source, confidence, last_updated)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (currency) DO UPDATE
			SET country = EXCLUDED.country, flag = EXCLUDED.flag, rate = EXCLUDED.rate,
			    source = EXCLUDED.source, confidence = EXCLUDED.confidence, last_updated = EXCLUDED.last_updated`,
			rate.Country, rate.Flag, rate.Currency, rate.Rate, rate.Source, rate.Confidence, rate.LastUpdated)
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for range snapshot {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert exchange rate: %w", err)
		}
	}
	return nil
}
