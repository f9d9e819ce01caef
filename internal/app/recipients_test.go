package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/diaremit/remit-service/internal/domain"
	"github.com/diaremit/remit-service/internal/store"
)

type recipientRepoStub struct {
	store.Repository

	created *domain.Recipient
	updated *domain.Recipient
}

func (s *recipientRepoStub) CreateRecipient(ctx context.Context, recipient *domain.Recipient) error {
	s.created = recipient
	return nil
}

func (s *recipientRepoStub) UpdateRecipient(ctx context.Context, recipient *domain.Recipient) error {
	if s.updated != nil {
		return store.ErrRecipientNotFound
	}
	s.updated = recipient
	return nil
}

func TestAddRecipient_TrimsAndPersists(t *testing.T) {
	repo := &recipientRepoStub{}
	service := newTestService(repo, nil)
	userID := uuid.New()

	recipient, err := service.AddRecipient(context.Background(), userID, domain.RecipientInput{
		Name:    "  Ama Mensah  ",
		Phone:   " +233201234567 ",
		Email:   " ama@example.com ",
		Country: "Ghana",
		Flag:    "🇬🇭",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if recipient.Name != "Ama Mensah" || recipient.Email != "ama@example.com" || recipient.Phone != "+233201234567" {
		t.Fatalf("expected trimmed fields, got %+v", recipient)
	}
	if recipient.UserID != userID {
		t.Fatal("expected the recipient to belong to the caller")
	}
	if repo.created == nil {
		t.Fatal("expected the recipient to be persisted")
	}
}

func TestAddRecipient_ValidatesNameAndEmail(t *testing.T) {
	repo := &recipientRepoStub{}
	service := newTestService(repo, nil)
	userID := uuid.New()

	_, err := service.AddRecipient(context.Background(), userID, domain.RecipientInput{
		Name:  "   ",
		Email: "ama@example.com",
	})
	if !errors.Is(err, ErrRecipientNameRequired) {
		t.Fatalf("expected ErrRecipientNameRequired, got %v", err)
	}

	_, err = service.AddRecipient(context.Background(), userID, domain.RecipientInput{
		Name:  "Ama Mensah",
		Email: "",
	})
	if !errors.Is(err, ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}

	if repo.created != nil {
		t.Fatal("expected nothing persisted for invalid input")
	}
}

func TestUpdateRecipient_KeepsIdentityAndOwnership(t *testing.T) {
	repo := &recipientRepoStub{}
	service := newTestService(repo, nil)
	userID := uuid.New()
	recipientID := uuid.New()

	recipient, err := service.UpdateRecipient(context.Background(), userID, recipientID, domain.RecipientInput{
		Name:    "Ama Mensah",
		Email:   "ama@new-mail.com",
		Country: "Ghana",
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if recipient.ID != recipientID || recipient.UserID != userID {
		t.Fatalf("expected identity and ownership preserved, got %+v", recipient)
	}
	if repo.updated == nil || repo.updated.Email != "ama@new-mail.com" {
		t.Fatal("expected the update to be persisted")
	}
}
