/**
 * @description
 * HTTP handlers for the exchange-rate endpoints: the static country catalog,
 * the per-institution live rate comparisons, transfer quotes, and the user's
 * preferred-institution selections.
 */

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diaremit/remit-service/internal/app"
)

// ListRatesHandler returns the catalog of destination-country exchange rates.
func (h *Handlers) ListRatesHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Catalog().ExchangeRates())
}

// ListLiveRatesHandler returns institution-level rate comparisons for every
// country that has them.
func (h *Handlers) ListLiveRatesHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Catalog().LiveRates())
}

// GetLiveRatesForCountryHandler returns the institution comparison for one
// destination country.
func (h *Handlers) GetLiveRatesForCountryHandler(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	comparison, ok := h.service.Catalog().LiveRatesForCountry(country)
	if !ok {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("No live rates for country %q", country))
		return
	}
	h.writeJSON(w, http.StatusOK, comparison)
}

// GetBestRateHandler returns the single best institution rate for a country.
func (h *Handlers) GetBestRateHandler(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	best, ok := h.service.Catalog().BestRateForCountry(country)
	if !ok {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("No live rates for country %q", country))
		return
	}
	h.writeJSON(w, http.StatusOK, best)
}

// ListPaymentMethodsHandler returns the supported funding methods.
func (h *Handlers) ListPaymentMethodsHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Catalog().PaymentMethods())
}

// QuoteHandler computes the fee, total, and receiving amount for a prospective
// transfer without creating anything.
func (h *Handlers) QuoteHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount         float64 `json:"amount"`
		SourceCurrency string  `json:"source_currency"`
		Country        string  `json:"country"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	quote, err := h.service.QuoteTransfer(req.Amount, req.SourceCurrency, req.Country)
	if err != nil {
		if errors.Is(err, app.ErrInvalidAmount) || errors.Is(err, app.ErrUnknownCountry) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, quote)
}

// ListSelectionsHandler returns the authenticated user's preferred
// institution per country.
func (h *Handlers) ListSelectionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetAuthUserID(r.Context())
	if !ok {
		http.Error(w, "Could not get user ID from context", http.StatusInternalServerError)
		return
	}

	selections, err := h.service.InstitutionSelections(r.Context(), userID)
	if err != nil {
		log.Printf("level=error component=api endpoint=list_selections outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if selections == nil {
		selections = map[string]string{}
	}

	h.writeJSON(w, http.StatusOK, selections)
}

// ToggleSelectionHandler sets or clears the preferred institution for a
// country. Selecting the already selected institution clears the selection.
func (h *Handlers) ToggleSelectionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetAuthUserID(r.Context())
	if !ok {
		http.Error(w, "Could not get user ID from context", http.StatusInternalServerError)
		return
	}

	var req struct {
		Country       string `json:"country"`
		InstitutionID string `json:"institution_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	selected, err := h.service.ToggleInstitution(r.Context(), userID, req.Country, req.InstitutionID)
	if err != nil {
		if errors.Is(err, app.ErrUnknownCountry) || errors.Is(err, app.ErrUnknownInstitution) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("level=error component=api endpoint=toggle_selection outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"country":        req.Country,
		"institution_id": selected,
	})
}
