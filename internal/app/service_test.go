package app

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/diaremit/remit-service/internal/domain"
	"github.com/diaremit/remit-service/internal/prefs"
	"github.com/diaremit/remit-service/internal/rates"
	"github.com/diaremit/remit-service/internal/store"
)

type publisherStub struct {
	mu     sync.Mutex
	events []string
}

func (p *publisherStub) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, routingKey)
	return nil
}

func (p *publisherStub) Close() {}

func (p *publisherStub) routingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	copy(out, p.events)
	return out
}

type transferRepoStub struct {
	store.Repository

	recipient       *domain.Recipient
	recipientUserID uuid.UUID
	lookupErr       error
	balance         float64
	balanceErr      error

	processCalled   bool
	processErr      error
	processedRecord *domain.Transfer
}

func (s *transferRepoStub) FindRecipientByID(ctx context.Context, recipientID, userID uuid.UUID) (*domain.Recipient, error) {
	if s.recipient == nil {
		return nil, store.ErrRecipientNotFound
	}
	return s.recipient, nil
}

func (s *transferRepoStub) LookupUserIDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	if s.lookupErr != nil {
		return uuid.Nil, s.lookupErr
	}
	return s.recipientUserID, nil
}

func (s *transferRepoStub) GetBalance(ctx context.Context, userID uuid.UUID, currency string) (float64, error) {
	if s.balanceErr != nil {
		return 0, s.balanceErr
	}
	return s.balance, nil
}

func (s *transferRepoStub) ProcessTransfer(ctx context.Context, transfer *domain.Transfer) error {
	s.processCalled = true
	if s.processErr != nil {
		return s.processErr
	}
	s.processedRecord = transfer
	return nil
}

func newTestService(repo store.Repository, producer *publisherStub) *Service {
	catalog := rates.NewCatalog(time.Now().UTC())
	// A typed nil must not reach the interface field; publish calls are
	// skipped only when the field itself is nil.
	if producer == nil {
		return NewService(repo, catalog, prefs.NewMemoryStore(), nil, nil, nil)
	}
	return NewService(repo, catalog, prefs.NewMemoryStore(), nil, producer, nil)
}

func validRecipient(userID uuid.UUID) *domain.Recipient {
	return &domain.Recipient{
		ID:      uuid.New(),
		UserID:  userID,
		Name:    "Kwame Asante",
		Email:   "kwame@example.com",
		Country: "Ghana",
	}
}

func TestInitiateTransfer_RejectsNonPositiveAmount(t *testing.T) {
	senderID := uuid.New()
	repo := &transferRepoStub{}
	service := newTestService(repo, nil)

	for _, amount := range []float64{0, -25} {
		_, err := service.InitiateTransfer(context.Background(), senderID, domain.TransferRequest{
			RecipientID:    uuid.New(),
			Amount:         amount,
			SourceCurrency: "USD",
			Country:        "Ghana",
		})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount=%v: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	if repo.processCalled {
		t.Fatal("expected no transfer creation for invalid amounts")
	}
}

func TestInitiateTransfer_RejectsUnknownCountry(t *testing.T) {
	senderID := uuid.New()
	repo := &transferRepoStub{recipient: validRecipient(senderID), balance: 1000}
	service := newTestService(repo, nil)

	_, err := service.InitiateTransfer(context.Background(), senderID, domain.TransferRequest{
		RecipientID:    repo.recipient.ID,
		Amount:         100,
		SourceCurrency: "USD",
		Country:        "Atlantis",
	})
	if !errors.Is(err, ErrUnknownCountry) {
		t.Fatalf("expected ErrUnknownCountry, got %v", err)
	}
}

func TestInitiateTransfer_InsufficientBalanceRejectsBeforeCreation(t *testing.T) {
	senderID := uuid.New()
	repo := &transferRepoStub{
		recipient:       validRecipient(senderID),
		recipientUserID: uuid.New(),
		balance:         50,
	}
	service := newTestService(repo, nil)

	// 57.01 + 2.99 fee = 60 total against a 50 balance.
	_, err := service.InitiateTransfer(context.Background(), senderID, domain.TransferRequest{
		RecipientID:    repo.recipient.ID,
		Amount:         57.01,
		SourceCurrency: "USD",
		Country:        "Ghana",
	})

	var insufficient *InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFundsError, got %v", err)
	}
	if insufficient.Balance != 50 || math.Abs(insufficient.Required-60) > 1e-9 {
		t.Fatalf("unexpected figures: balance=%v required=%v", insufficient.Balance, insufficient.Required)
	}
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Fatal("expected the error to unwrap to store.ErrInsufficientFunds")
	}
	if repo.processCalled {
		t.Fatal("expected ProcessTransfer to never be called when the pre-flight check fails")
	}
}

func TestInitiateTransfer_UnregisteredRecipientCreatesNothing(t *testing.T) {
	senderID := uuid.New()
	repo := &transferRepoStub{
		recipient: validRecipient(senderID),
		lookupErr: store.ErrProfileNotFound,
		balance:   1000,
	}
	service := newTestService(repo, nil)

	_, err := service.InitiateTransfer(context.Background(), senderID, domain.TransferRequest{
		RecipientID:    repo.recipient.ID,
		Amount:         100,
		SourceCurrency: "USD",
		Country:        "Ghana",
	})

	var notRegistered *RecipientNotRegisteredError
	if !errors.As(err, &notRegistered) {
		t.Fatalf("expected RecipientNotRegisteredError, got %v", err)
	}
	if notRegistered.Email != "kwame@example.com" {
		t.Fatalf("expected the recipient email in the error, got %q", notRegistered.Email)
	}
	if repo.processCalled {
		t.Fatal("expected no creation for an unregistered recipient")
	}
}

func TestInitiateTransfer_MissingRecipientEmailRejected(t *testing.T) {
	senderID := uuid.New()
	recipient := validRecipient(senderID)
	recipient.Email = "   "
	repo := &transferRepoStub{recipient: recipient, balance: 1000}
	service := newTestService(repo, nil)

	_, err := service.InitiateTransfer(context.Background(), senderID, domain.TransferRequest{
		RecipientID:    recipient.ID,
		Amount:         100,
		SourceCurrency: "USD",
		Country:        "Ghana",
	})
	if !errors.Is(err, ErrRecipientEmailRequired) {
		t.Fatalf("expected ErrRecipientEmailRequired, got %v", err)
	}
}

func TestInitiateTransfer_CreatesPendingTransferAndPublishesEvents(t *testing.T) {
	senderID := uuid.New()
	recipientUserID := uuid.New()
	repo := &transferRepoStub{
		recipient:       validRecipient(senderID),
		recipientUserID: recipientUserID,
		balance:         1000,
	}
	producer := &publisherStub{}
	service := newTestService(repo, producer)

	transfer, err := service.InitiateTransfer(context.Background(), senderID, domain.TransferRequest{
		RecipientID:    repo.recipient.ID,
		Amount:         100,
		SourceCurrency: "USD",
		Country:        "Ghana",
		PaymentMethod:  "bank_transfer",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if transfer.Status != domain.TransferStatusPending {
		t.Fatalf("expected pending status, got %q", transfer.Status)
	}
	if transfer.Fee != 2.99 {
		t.Fatalf("expected USD fee of 2.99, got %v", transfer.Fee)
	}
	if transfer.TargetCurrency != "GHS" || transfer.ExchangeRate != 12.5 {
		t.Fatalf("expected the Ghana catalog snapshot, got %s/%v", transfer.TargetCurrency, transfer.ExchangeRate)
	}
	if transfer.RecipientUserID == nil || *transfer.RecipientUserID != recipientUserID {
		t.Fatal("expected the resolved recipient user id on the transfer")
	}
	if !repo.processCalled || repo.processedRecord == nil {
		t.Fatal("expected the atomic creation to run")
	}

	keys := producer.routingKeys()
	if len(keys) != 2 || keys[0] != "balance.updated" || keys[1] != "transfer.status.pending" {
		t.Fatalf("unexpected published events: %v", keys)
	}
}

func TestInitiateTransfer_StaleBalanceRaceSurfacesInsufficientFunds(t *testing.T) {
	senderID := uuid.New()
	repo := &transferRepoStub{
		recipient:       validRecipient(senderID),
		recipientUserID: uuid.New(),
		balance:         1000,
		processErr:      store.ErrInsufficientFunds,
	}
	service := newTestService(repo, nil)

	_, err := service.InitiateTransfer(context.Background(), senderID, domain.TransferRequest{
		RecipientID:    repo.recipient.ID,
		Amount:         100,
		SourceCurrency: "USD",
		Country:        "Ghana",
	})

	var insufficient *InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFundsError from the locked re-check, got %v", err)
	}
}

func TestGetTransfer_ScopedToSender(t *testing.T) {
	ownerID := uuid.New()
	transferID := uuid.New()
	repo := &scopedTransferRepoStub{
		transfer: &domain.Transfer{ID: transferID, SenderID: ownerID},
	}
	service := newTestService(repo, nil)

	if _, err := service.GetTransfer(context.Background(), ownerID, transferID); err != nil {
		t.Fatalf("expected the owner to read the transfer, got %v", err)
	}

	_, err := service.GetTransfer(context.Background(), uuid.New(), transferID)
	if !errors.Is(err, store.ErrTransferNotFound) {
		t.Fatalf("expected not-found for a non-owner, got %v", err)
	}
}

type scopedTransferRepoStub struct {
	store.Repository

	transfer *domain.Transfer
}

func (s *scopedTransferRepoStub) FindTransferByID(ctx context.Context, transferID uuid.UUID) (*domain.Transfer, error) {
	if s.transfer == nil || s.transfer.ID != transferID {
		return nil, store.ErrTransferNotFound
	}
	return s.transfer, nil
}
