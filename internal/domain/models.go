/**
 * @description
 * This file defines the core domain models for the remit-service. These structs
 * represent the main entities and data transfer objects (DTOs) used throughout
 * the service's business logic, database interactions, and API layers.
 *
 * @notes
 * - Monetary amounts are float64 values in whole currency units with two-decimal
 *   display rounding, matching the arithmetic of the mobile client and the
 *   `transfers`/`balances` table definitions this service consumes.
 * - A Transfer is immutable after creation except for its status column.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transfer statuses. The only progression this service ever drives is
// pending -> processing -> completed; failed and cancelled exist in the
// model but are never produced automatically.
const (
	TransferStatusPending    = "pending"
	TransferStatusProcessing = "processing"
	TransferStatusCompleted  = "completed"
	TransferStatusFailed     = "failed"
	TransferStatusCancelled  = "cancelled"
)

// Scheduled transfer statuses.
const (
	ScheduleStatusScheduled = "scheduled"
	ScheduleStatusExecuted  = "executed"
	ScheduleStatusCancelled = "cancelled"
)

// Recipient is a saved payout contact owned by a single user. It maps
// directly to the `recipients` table.
type Recipient struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Country       string    `json:"country"`
	Flag          string    `json:"flag"`
	Bank          *string   `json:"bank,omitempty"`
	AccountNumber *string   `json:"account_number,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RecipientInput carries the user-editable fields of a recipient.
type RecipientInput struct {
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email"`
	Country       string  `json:"country"`
	Flag          string  `json:"flag"`
	Bank          *string `json:"bank,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
}

// Transfer is the central money-movement record. It maps directly to the
// `transfers` table. Amount, fee, currencies, and the exchange-rate snapshot
// are fixed at creation time; only Status changes afterwards.
type Transfer struct {
	ID              uuid.UUID  `json:"id"`
	SenderID        uuid.UUID  `json:"sender_id"`
	RecipientID     uuid.UUID  `json:"recipient_id"`
	RecipientUserID *uuid.UUID `json:"recipient_user_id,omitempty"`
	RecipientName   string     `json:"recipient_name"`
	Amount          float64    `json:"amount"`
	Fee             float64    `json:"fee"`
	SourceCurrency  string     `json:"source_currency"`
	TargetCurrency  string     `json:"target_currency"`
	ExchangeRate    float64    `json:"exchange_rate"`
	Status          string     `json:"status"`
	PaymentMethod   *string    `json:"payment_method,omitempty"`
	TransferTime    *string    `json:"transfer_time,omitempty"`
	InstitutionName *string    `json:"institution_name,omitempty"`
	InstitutionID   *string    `json:"institution_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TransferRequest is the DTO for transfer initiation API requests.
type TransferRequest struct {
	RecipientID    uuid.UUID `json:"recipient_id"`
	Amount         float64   `json:"amount"`
	SourceCurrency string    `json:"source_currency"`
	Country        string    `json:"country"`
	PaymentMethod  string    `json:"payment_method"`
	InstitutionID  string    `json:"institution_id,omitempty"`
}

// ExchangeRate is one destination-country rate snapshot, USD-denominated.
type ExchangeRate struct {
	Country     string    `json:"country"`
	Flag        string    `json:"flag"`
	Currency    string    `json:"currency"`
	Rate        float64   `json:"rate"`
	Source      string    `json:"source"`
	Confidence  float64   `json:"confidence"`
	LastUpdated time.Time `json:"last_updated"`
}

// InstitutionRate is one competing institution's offer within a country.
type InstitutionRate struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Rate         float64   `json:"rate"`
	Fee          float64   `json:"fee"`
	TransferTime string    `json:"transfer_time"`
	Rating       float64   `json:"rating"`
	Features     []string  `json:"features"`
	LastUpdated  time.Time `json:"last_updated"`
}

// LiveRateComparison groups the competing institutions serving a country.
type LiveRateComparison struct {
	Country             string            `json:"country"`
	Flag                string            `json:"flag"`
	Currency            string            `json:"currency"`
	Institutions        []InstitutionRate `json:"institutions"`
	BestRateInstitution string            `json:"best_rate_institution"`
	AverageRate         float64           `json:"average_rate"`
}

// PaymentMethod is one supported funding option.
type PaymentMethod struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TransferTime string `json:"transfer_time"`
	Description  string `json:"description"`
}

// RateAnalysis is the advisory payload attached to a scheduled transfer.
type RateAnalysis struct {
	Recommendation string  `json:"recommendation"`
	MarketTrend    string  `json:"market_trend"`
	Confidence     float64 `json:"confidence"`
}

// ScheduledTransfer is a transfer deferred to a future date. It maps to the
// `scheduled_transfers` table and carries the rate snapshot chosen at
// scheduling time so execution uses the agreed rate, not the current one.
type ScheduledTransfer struct {
	ID             uuid.UUID     `json:"id"`
	UserID         uuid.UUID     `json:"user_id"`
	RecipientID    uuid.UUID     `json:"recipient_id"`
	Amount         float64       `json:"amount"`
	SourceCurrency string        `json:"source_currency"`
	TargetCurrency string        `json:"target_currency"`
	Country        string        `json:"country"`
	Rate           float64       `json:"rate"`
	InstitutionID  *string       `json:"institution_id,omitempty"`
	PaymentMethod  string        `json:"payment_method"`
	ScheduledDate  time.Time     `json:"scheduled_date"`
	Status         string        `json:"status"`
	Analysis       *RateAnalysis `json:"ai_analysis,omitempty"`
	TransferID     *uuid.UUID    `json:"transfer_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// ScheduleRequest is the DTO for scheduling a deferred transfer.
type ScheduleRequest struct {
	RecipientID    uuid.UUID `json:"recipient_id"`
	Amount         float64   `json:"amount"`
	SourceCurrency string    `json:"source_currency"`
	Country        string    `json:"country"`
	PaymentMethod  string    `json:"payment_method"`
	InstitutionID  string    `json:"institution_id,omitempty"`
	ScheduledDate  string    `json:"scheduled_date"` // YYYY-MM-DD
}

// Balance is a per-user, per-currency amount. The service only reads this
// table; the single write path is inside the atomic process-transfer
// transaction.
type Balance struct {
	UserID    uuid.UUID `json:"user_id"`
	Currency  string    `json:"currency"`
	Amount    float64   `json:"amount"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BalanceTransaction is one ledger row describing a balance mutation.
type BalanceTransaction struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Currency    string     `json:"currency"`
	Amount      float64    `json:"amount"` // signed; debits are negative
	Type        string     `json:"type"`   // e.g. 'transfer_debit'
	TransferID  *uuid.UUID `json:"transfer_id,omitempty"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Preferences are the user's locally-persisted app settings.
type Preferences struct {
	PaymentMethod string `json:"payment_method"`
	Language      string `json:"language"`
	Theme         string `json:"theme"`
}

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"` // 'system', 'user', or 'assistant'
	Content string `json:"content"`
}

// BalanceEvent is published to the events exchange whenever a balance row
// changes, so clients reload instead of applying deltas locally.
type BalanceEvent struct {
	UserID    uuid.UUID `json:"user_id"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
}

// TransferStatusEvent is published on every transfer status change.
type TransferStatusEvent struct {
	TransferID uuid.UUID `json:"transfer_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}
