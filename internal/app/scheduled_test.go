package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/diaremit/remit-service/internal/domain"
	"github.com/diaremit/remit-service/internal/store"
)

type scheduledRepoStub struct {
	transferRepoStub

	created        *domain.ScheduledTransfer
	createErr      error
	markedSchedule uuid.UUID
	markedTransfer uuid.UUID
}

func (s *scheduledRepoStub) CreateScheduledTransfer(ctx context.Context, st *domain.ScheduledTransfer) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = st
	return nil
}

func (s *scheduledRepoStub) MarkScheduledTransferExecuted(ctx context.Context, scheduleID, transferID uuid.UUID) error {
	s.markedSchedule = scheduleID
	s.markedTransfer = transferID
	return nil
}

func futureDate() string {
	return time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
}

func TestScheduleTransfer_RejectsPastAndMalformedDates(t *testing.T) {
	userID := uuid.New()
	repo := &scheduledRepoStub{}
	repo.recipient = validRecipient(userID)
	service := newTestService(repo, nil)

	for _, date := range []string{
		"not-a-date",
		"2020-01-15",
		time.Now().UTC().Format("2006-01-02"), // today is not a future date
	} {
		_, err := service.ScheduleTransfer(context.Background(), userID, domain.ScheduleRequest{
			RecipientID:    repo.recipient.ID,
			Amount:         100,
			SourceCurrency: "USD",
			Country:        "Ghana",
			ScheduledDate:  date,
		})
		if !errors.Is(err, ErrInvalidScheduleDate) {
			t.Fatalf("date=%q: expected ErrInvalidScheduleDate, got %v", date, err)
		}
	}
	if repo.created != nil {
		t.Fatal("expected nothing persisted for invalid dates")
	}
}

func TestScheduleTransfer_PersistsCatalogSnapshotAndAnalysis(t *testing.T) {
	userID := uuid.New()
	repo := &scheduledRepoStub{}
	repo.recipient = validRecipient(userID)
	service := newTestService(repo, nil)

	scheduled, err := service.ScheduleTransfer(context.Background(), userID, domain.ScheduleRequest{
		RecipientID:    repo.recipient.ID,
		Amount:         250,
		SourceCurrency: "USD",
		Country:        "Kenya",
		PaymentMethod:  "bank_transfer",
		ScheduledDate:  futureDate(),
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if scheduled.Status != domain.ScheduleStatusScheduled {
		t.Fatalf("expected scheduled status, got %q", scheduled.Status)
	}
	if scheduled.TargetCurrency != "KES" || scheduled.Rate != 153.2 {
		t.Fatalf("expected the Kenya catalog snapshot, got %s/%v", scheduled.TargetCurrency, scheduled.Rate)
	}
	if scheduled.Analysis == nil || scheduled.Analysis.MarketTrend != "stable" {
		t.Fatalf("expected the default analysis payload, got %+v", scheduled.Analysis)
	}
	if repo.created == nil {
		t.Fatal("expected the schedule to be persisted")
	}
}

func TestScheduleTransfer_InstitutionSnapshotOverridesCatalogRate(t *testing.T) {
	userID := uuid.New()
	repo := &scheduledRepoStub{}
	repo.recipient = validRecipient(userID)
	service := newTestService(repo, nil)

	scheduled, err := service.ScheduleTransfer(context.Background(), userID, domain.ScheduleRequest{
		RecipientID:    repo.recipient.ID,
		Amount:         100,
		SourceCurrency: "USD",
		Country:        "Ghana",
		InstitutionID:  "institution_a",
		ScheduledDate:  futureDate(),
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if scheduled.Rate != 12.65 {
		t.Fatalf("expected the institution rate snapshot, got %v", scheduled.Rate)
	}
	if scheduled.InstitutionID == nil || *scheduled.InstitutionID != "institution_a" {
		t.Fatalf("expected the institution id to be stored, got %v", scheduled.InstitutionID)
	}

	_, err = service.ScheduleTransfer(context.Background(), userID, domain.ScheduleRequest{
		RecipientID:    repo.recipient.ID,
		Amount:         100,
		SourceCurrency: "USD",
		Country:        "Ghana",
		InstitutionID:  "institution_z",
		ScheduledDate:  futureDate(),
	})
	if !errors.Is(err, ErrUnknownInstitution) {
		t.Fatalf("expected ErrUnknownInstitution, got %v", err)
	}
}

func TestExecuteScheduledTransfer_UsesStoredSnapshotAndMarksExecuted(t *testing.T) {
	userID := uuid.New()
	repo := &scheduledRepoStub{}
	repo.recipient = validRecipient(userID)
	repo.recipientUserID = uuid.New()
	repo.balance = 1000
	service := newTestService(repo, nil)

	scheduleID := uuid.New()
	transfer, err := service.ExecuteScheduledTransfer(context.Background(), domain.ScheduledTransfer{
		ID:             scheduleID,
		UserID:         userID,
		RecipientID:    repo.recipient.ID,
		Amount:         100,
		SourceCurrency: "USD",
		TargetCurrency: "GHS",
		Country:        "Ghana",
		Rate:           11.9, // the agreed snapshot, not the current catalog rate
		Status:         domain.ScheduleStatusScheduled,
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if transfer.ExchangeRate != 11.9 {
		t.Fatalf("expected the stored snapshot rate on the transfer, got %v", transfer.ExchangeRate)
	}
	if repo.markedSchedule != scheduleID || repo.markedTransfer != transfer.ID {
		t.Fatal("expected the schedule to be marked executed with the new transfer id")
	}
}

func TestExecuteScheduledTransfer_FailureLeavesScheduleUntouched(t *testing.T) {
	userID := uuid.New()
	repo := &scheduledRepoStub{}
	repo.recipient = validRecipient(userID)
	repo.recipientUserID = uuid.New()
	repo.balance = 10 // not enough for 100 + fee
	service := newTestService(repo, nil)

	_, err := service.ExecuteScheduledTransfer(context.Background(), domain.ScheduledTransfer{
		ID:             uuid.New(),
		UserID:         userID,
		RecipientID:    repo.recipient.ID,
		Amount:         100,
		SourceCurrency: "USD",
		TargetCurrency: "GHS",
		Country:        "Ghana",
		Rate:           12.5,
		Status:         domain.ScheduleStatusScheduled,
	})
	if !errors.Is(err, store.ErrInsufficientFunds) {
		t.Fatalf("expected an insufficient funds failure, got %v", err)
	}
	if repo.markedSchedule != uuid.Nil {
		t.Fatal("expected a failed execution to never mark the schedule executed")
	}
}
