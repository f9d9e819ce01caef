package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestQuoteTransfer_ComputesFeeTotalAndReceivingAmount(t *testing.T) {
	service := newTestService(&transferRepoStub{}, nil)

	quote, err := service.QuoteTransfer(100, "USD", "Ghana")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if quote.Fee != 2.99 {
		t.Fatalf("expected USD fee 2.99, got %v", quote.Fee)
	}
	if quote.Total != 102.99 {
		t.Fatalf("expected total 102.99, got %v", quote.Total)
	}
	// 100 USD -> GHS at the catalog rate of 12.5.
	if quote.ReceivingAmount != 1250 {
		t.Fatalf("expected receiving amount 1250, got %v", quote.ReceivingAmount)
	}
	if quote.TargetCurrency != "GHS" || quote.ExchangeRate != 12.5 {
		t.Fatalf("unexpected snapshot: %s/%v", quote.TargetCurrency, quote.ExchangeRate)
	}
}

func TestQuoteTransfer_EuroConversionRoutesThroughUSD(t *testing.T) {
	service := newTestService(&transferRepoStub{}, nil)

	quote, err := service.QuoteTransfer(100, "EUR", "Ghana")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	// 100 EUR -> 108 USD -> 1350 GHS.
	if quote.ReceivingAmount != 1350 {
		t.Fatalf("expected receiving amount 1350, got %v", quote.ReceivingAmount)
	}
}

func TestQuoteTransfer_RejectsNegativeAmountAndUnknownCountry(t *testing.T) {
	service := newTestService(&transferRepoStub{}, nil)

	if _, err := service.QuoteTransfer(-1, "USD", "Ghana"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := service.QuoteTransfer(100, "USD", "Wakanda"); !errors.Is(err, ErrUnknownCountry) {
		t.Fatalf("expected ErrUnknownCountry, got %v", err)
	}
}

func TestToggleInstitution_SecondToggleClearsSelection(t *testing.T) {
	service := newTestService(&transferRepoStub{}, nil)
	userID := uuid.New()
	ctx := context.Background()

	selected, err := service.ToggleInstitution(ctx, userID, "Ghana", "institution_a")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if selected != "institution_a" {
		t.Fatalf("expected institution_a selected, got %q", selected)
	}

	inst, err := service.SelectedInstitution(ctx, userID, "Ghana")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if inst == nil || inst.ID != "institution_a" {
		t.Fatalf("expected the selection to resolve to institution_a, got %+v", inst)
	}

	// Selecting the same institution again clears the selection.
	selected, err = service.ToggleInstitution(ctx, userID, "Ghana", "institution_a")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if selected != "" {
		t.Fatalf("expected the selection to be cleared, got %q", selected)
	}

	inst, err = service.SelectedInstitution(ctx, userID, "Ghana")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if inst != nil {
		t.Fatalf("expected no selection after clearing, got %+v", inst)
	}
}

func TestToggleInstitution_SwitchReplacesSelection(t *testing.T) {
	service := newTestService(&transferRepoStub{}, nil)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := service.ToggleInstitution(ctx, userID, "Ghana", "institution_a"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	selected, err := service.ToggleInstitution(ctx, userID, "Ghana", "institution_b")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if selected != "institution_b" {
		t.Fatalf("expected institution_b selected, got %q", selected)
	}
}

func TestToggleInstitution_ValidatesCountryAndInstitution(t *testing.T) {
	service := newTestService(&transferRepoStub{}, nil)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := service.ToggleInstitution(ctx, userID, "Wakanda", "institution_a"); !errors.Is(err, ErrUnknownCountry) {
		t.Fatalf("expected ErrUnknownCountry, got %v", err)
	}
	if _, err := service.ToggleInstitution(ctx, userID, "Ghana", "institution_z"); !errors.Is(err, ErrUnknownInstitution) {
		t.Fatalf("expected ErrUnknownInstitution, got %v", err)
	}
}
