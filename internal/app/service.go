/**
 * @description
 * This file contains the core business logic for the remit-service. The
 * `Service` struct orchestrates transfer initiation, coordinating the
 * database repository, the rate catalog, the preferences store, the
 * completion client, and the event producer.
 *
 * Key features:
 * - Enforces the pre-flight sufficient-funds check before any creation call.
 * - Resolves recipients to registered users by email before money moves.
 * - Delegates creation + balance debit to one atomic repository operation.
 * - Hands successfully created transfers to the progression worker, which
 *   drives pending -> processing -> completed.
 *
 * @dependencies
 * - context, errors, fmt, log, strings: Standard Go libraries.
 * - github.com/google/uuid: For UUID generation.
 * - internal/currency, internal/domain, internal/prefs, internal/rates,
 *   internal/store: Domain logic and data access.
 * - pkg/aiclient, pkg/rabbitmq: External service communication.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/diaremit/remit-service/internal/currency"
	"github.com/diaremit/remit-service/internal/domain"
	"github.com/diaremit/remit-service/internal/prefs"
	"github.com/diaremit/remit-service/internal/rates"
	"github.com/diaremit/remit-service/internal/store"
	"github.com/diaremit/remit-service/pkg/aiclient"
	"github.com/diaremit/remit-service/pkg/rabbitmq"
)

var (
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrUnknownCountry         = errors.New("unknown destination country")
	ErrUnknownInstitution     = errors.New("unknown institution")
	ErrRecipientEmailRequired = errors.New("recipient email is required for transfers")
	ErrRecipientNotRegistered = errors.New("recipient is not a registered user")
	ErrInvalidScheduleDate    = errors.New("scheduled date must be a future date")
)

// InsufficientFundsError carries the figures needed for the user-facing
// insufficient-balance message.
type InsufficientFundsError struct {
	Balance  float64
	Required float64
	Currency string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient balance: you have %.2f %s but need %.2f %s (including fee)",
		e.Balance, e.Currency, e.Required, e.Currency)
}

func (e *InsufficientFundsError) Unwrap() error {
	return store.ErrInsufficientFunds
}

// RecipientNotRegisteredError identifies which email failed the lookup.
type RecipientNotRegisteredError struct {
	Email string
}

func (e *RecipientNotRegisteredError) Error() string {
	return fmt.Sprintf("the recipient with email %q is not a registered user; ensure they have signed up before sending money", e.Email)
}

func (e *RecipientNotRegisteredError) Unwrap() error {
	return ErrRecipientNotRegistered
}

// CompletionClient is the contract the assistant needs from the completion
// endpoint client.
type CompletionClient interface {
	Complete(ctx context.Context, messages []aiclient.Message) (string, error)
}

// Service provides the core business logic for the remit-service.
type Service struct {
	repo        store.Repository
	catalog     *rates.Catalog
	prefs       prefs.Store
	completions CompletionClient
	producer    rabbitmq.Publisher
	progression *Progression
}

// NewService creates a new service instance.
func NewService(repo store.Repository, catalog *rates.Catalog, prefsStore prefs.Store, completions CompletionClient, producer rabbitmq.Publisher, progression *Progression) *Service {
	return &Service{
		repo:        repo,
		catalog:     catalog,
		prefs:       prefsStore,
		completions: completions,
		producer:    producer,
		progression: progression,
	}
}

// Catalog exposes the rate catalog for the API layer.
func (s *Service) Catalog() *rates.Catalog {
	return s.catalog
}

// InitiateTransfer handles the full transfer initiation flow: validation,
// recipient resolution, the pre-flight balance check, the atomic creation +
// debit, and handing the new transfer to the progression worker.
func (s *Service) InitiateTransfer(ctx context.Context, senderID uuid.UUID, req domain.TransferRequest) (*domain.Transfer, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	rate, ok := s.catalog.RateForCountry(req.Country)
	if !ok {
		return nil, ErrUnknownCountry
	}
	return s.createTransfer(ctx, senderID, createTransferParams{
		recipientID:    req.RecipientID,
		amount:         req.Amount,
		sourceCurrency: req.SourceCurrency,
		targetCurrency: rate.Currency,
		exchangeRate:   rate.Rate,
		country:        req.Country,
		paymentMethod:  req.PaymentMethod,
		institutionID:  req.InstitutionID,
	})
}

type createTransferParams struct {
	recipientID    uuid.UUID
	amount         float64
	sourceCurrency string
	targetCurrency string
	exchangeRate   float64
	country        string
	paymentMethod  string
	institutionID  string
}

// createTransfer is shared by direct initiation and scheduled execution,
// which supplies its own rate snapshot instead of the catalog's.
func (s *Service) createTransfer(ctx context.Context, senderID uuid.UUID, p createTransferParams) (*domain.Transfer, error) {
	recipient, err := s.repo.FindRecipientByID(ctx, p.recipientID, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find recipient: %w", err)
	}

	// Recipients must resolve to a registered user before anything is
	// created. A missing email or a failed lookup fails closed.
	email := strings.TrimSpace(recipient.Email)
	if email == "" {
		return nil, ErrRecipientEmailRequired
	}
	recipientUserID, err := s.repo.LookupUserIDByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			return nil, &RecipientNotRegisteredError{Email: recipient.Email}
		}
		return nil, fmt.Errorf("unable to verify recipient: %w", err)
	}

	fee := currency.Round2(currency.Fee(p.sourceCurrency))
	total := p.amount + fee

	// Pre-flight check against the cached balance. An insufficient balance
	// must reject the transfer before the creation call is ever made.
	balance, err := s.repo.GetBalance(ctx, senderID, p.sourceCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	if balance < total {
		return nil, &InsufficientFundsError{Balance: balance, Required: total, Currency: p.sourceCurrency}
	}

	transfer := &domain.Transfer{
		ID:              uuid.New(),
		SenderID:        senderID,
		RecipientID:     recipient.ID,
		RecipientUserID: &recipientUserID,
		RecipientName:   recipient.Name,
		Amount:          p.amount,
		Fee:             fee,
		SourceCurrency:  p.sourceCurrency,
		TargetCurrency:  p.targetCurrency,
		ExchangeRate:    p.exchangeRate,
		Status:          domain.TransferStatusPending,
	}
	s.applyMethodMetadata(transfer, p.country, p.paymentMethod, p.institutionID)

	if err := s.repo.ProcessTransfer(ctx, transfer); err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			// The atomic operation re-checks under lock; the cached read can
			// be stale.
			return nil, &InsufficientFundsError{Balance: balance, Required: total, Currency: p.sourceCurrency}
		}
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}

	log.Printf("level=info component=app msg=\"transfer created\" transfer_id=%s sender_id=%s amount=%.2f fee=%.2f currency=%s",
		transfer.ID, senderID, transfer.Amount, transfer.Fee, transfer.SourceCurrency)

	s.publishBalanceEvent(ctx, senderID, p.sourceCurrency)
	s.publishStatusEvent(ctx, transfer.ID, senderID, transfer.Status)

	if s.progression != nil {
		s.progression.Track(transfer.ID, senderID)
	}
	return transfer, nil
}

// applyMethodMetadata resolves the payment-method and institution snapshot
// stored on the transfer row. An institution selection takes precedence for
// the name/time metadata; unknown method ids fall back to bank transfer.
func (s *Service) applyMethodMetadata(transfer *domain.Transfer, country, methodID, institutionID string) {
	name := "Bank Transfer"
	transferTime := "1-2 business days"
	id := "bank_transfer"
	if method, ok := s.catalog.PaymentMethod(methodID); ok {
		name = method.Name
		transferTime = method.TransferTime
		id = method.ID
	}
	if institutionID != "" {
		if inst, ok := s.catalog.Institution(country, institutionID); ok {
			name = inst.Name
			transferTime = inst.TransferTime
			id = inst.ID
		}
	}
	transfer.PaymentMethod = &name
	transfer.TransferTime = &transferTime
	transfer.InstitutionName = &name
	transfer.InstitutionID = &id
}

// GetTransfer fetches one of the sender's transfers.
func (s *Service) GetTransfer(ctx context.Context, senderID, transferID uuid.UUID) (*domain.Transfer, error) {
	transfer, err := s.repo.FindTransferByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer.SenderID != senderID {
		return nil, store.ErrTransferNotFound
	}
	return transfer, nil
}

// ListTransfers returns the sender's recent transfers, newest first.
func (s *Service) ListTransfers(ctx context.Context, senderID uuid.UUID) ([]domain.Transfer, error) {
	return s.repo.ListTransfersBySenderID(ctx, senderID, 50)
}

// ListBalances returns the user's balances across currencies.
func (s *Service) ListBalances(ctx context.Context, userID uuid.UUID) ([]domain.Balance, error) {
	return s.repo.ListBalancesByUserID(ctx, userID)
}

// ListBalanceTransactions returns the user's recent ledger rows.
func (s *Service) ListBalanceTransactions(ctx context.Context, userID uuid.UUID) ([]domain.BalanceTransaction, error) {
	return s.repo.ListBalanceTransactions(ctx, userID, 50)
}

// SeedExchangeRates writes the catalog snapshot into the exchange_rates
// table. Called once at startup when the store is configured.
func (s *Service) SeedExchangeRates(ctx context.Context) error {
	return s.repo.UpsertExchangeRates(ctx, s.catalog.ExchangeRates())
}

func (s *Service) publishBalanceEvent(ctx context.Context, userID uuid.UUID, currencyCode string) {
	if s.producer == nil {
		return
	}
	event := domain.BalanceEvent{UserID: userID, Currency: currencyCode, Timestamp: time.Now().UTC()}
	if err := s.producer.Publish(ctx, rabbitmq.EventsExchange, "balance.updated", event); err != nil {
		log.Printf("level=warn component=app msg=\"balance event publish failed\" user_id=%s err=%v", userID, err)
	}
}

func (s *Service) publishStatusEvent(ctx context.Context, transferID, senderID uuid.UUID, status string) {
	if s.producer == nil {
		return
	}
	event := domain.TransferStatusEvent{TransferID: transferID, SenderID: senderID, Status: status, Timestamp: time.Now().UTC()}
	if err := s.producer.Publish(ctx, rabbitmq.EventsExchange, "transfer.status."+status, event); err != nil {
		log.Printf("level=warn component=app msg=\"status event publish failed\" transfer_id=%s status=%s err=%v", transferID, status, err)
	}
}
