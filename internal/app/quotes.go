/**
 * @description
 * Quoting and rate-selection operations: fee/total/receiving-amount quotes
 * through the fixed conversion tables, and the per-country preferred
 * institution selection with toggle semantics.
 */

package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/diaremit/remit-service/internal/currency"
	"github.com/diaremit/remit-service/internal/domain"
)

// Quote summarizes the cost of a prospective transfer.
type Quote struct {
	Amount          float64 `json:"amount"`
	SourceCurrency  string  `json:"source_currency"`
	Country         string  `json:"country"`
	TargetCurrency  string  `json:"target_currency"`
	ExchangeRate    float64 `json:"exchange_rate"`
	Fee             float64 `json:"fee"`
	Total           float64 `json:"total"`
	ReceivingAmount float64 `json:"receiving_amount"`
}

// QuoteTransfer computes the fee, total to pay, and receiving amount for an
// amount in a source currency going to a destination country.
func (s *Service) QuoteTransfer(amount float64, sourceCurrency, country string) (*Quote, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}
	rate, ok := s.catalog.RateForCountry(country)
	if !ok {
		return nil, ErrUnknownCountry
	}
	fee := currency.Round2(currency.Fee(sourceCurrency))
	return &Quote{
		Amount:          amount,
		SourceCurrency:  sourceCurrency,
		Country:         country,
		TargetCurrency:  rate.Currency,
		ExchangeRate:    rate.Rate,
		Fee:             fee,
		Total:           amount + fee,
		ReceivingAmount: currency.Round2(currency.ReceivingAmount(amount, sourceCurrency, rate.Rate)),
	}, nil
}

// ToggleInstitution selects the preferred institution for a country, or
// clears the selection when the currently selected institution is chosen
// again. Returns the resulting selection ("" when cleared).
func (s *Service) ToggleInstitution(ctx context.Context, userID uuid.UUID, country, institutionID string) (string, error) {
	if _, ok := s.catalog.LiveRatesForCountry(country); !ok {
		return "", ErrUnknownCountry
	}
	selections, err := s.prefs.GetInstitutionSelections(ctx, userID)
	if err != nil {
		return "", err
	}
	if selections[country] == institutionID {
		// Selecting the selected institution again clears it.
		if err := s.prefs.SetInstitutionSelection(ctx, userID, country, ""); err != nil {
			return "", err
		}
		return "", nil
	}
	if _, ok := s.catalog.Institution(country, institutionID); !ok {
		return "", ErrUnknownInstitution
	}
	if err := s.prefs.SetInstitutionSelection(ctx, userID, country, institutionID); err != nil {
		return "", err
	}
	return institutionID, nil
}

// InstitutionSelections returns the user's per-country selections.
func (s *Service) InstitutionSelections(ctx context.Context, userID uuid.UUID) (map[string]string, error) {
	return s.prefs.GetInstitutionSelections(ctx, userID)
}

// SelectedInstitution resolves the user's selection for a country to the
// full institution entry, or nil when nothing is selected.
func (s *Service) SelectedInstitution(ctx context.Context, userID uuid.UUID, country string) (*domain.InstitutionRate, error) {
	selections, err := s.prefs.GetInstitutionSelections(ctx, userID)
	if err != nil {
		return nil, err
	}
	selectedID := selections[country]
	if selectedID == "" {
		return nil, nil
	}
	inst, ok := s.catalog.Institution(country, selectedID)
	if !ok {
		return nil, nil
	}
	return &inst, nil
}

// GetPreferences returns the user's persisted app settings.
func (s *Service) GetPreferences(ctx context.Context, userID uuid.UUID) (domain.Preferences, error) {
	return s.prefs.GetPreferences(ctx, userID)
}

// SetPreferences stores the user's app settings.
func (s *Service) SetPreferences(ctx context.Context, userID uuid.UUID, p domain.Preferences) error {
	return s.prefs.SetPreferences(ctx, userID, p)
}
