/**
 * @description
 * This file contains the HTTP handlers for the remit-service's transfer and
 * balance endpoints. Handlers are responsible for parsing incoming requests,
 * calling the appropriate methods on the application service, and writing the
 * HTTP response. They act as the bridge between the web layer and the
 * business logic layer.
 *
 * @dependencies
 * - encoding/json, log, net/http: Standard Go libraries.
 * - internal/app, internal/domain, internal/store: For service logic, models, and custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/diaremit/remit-service/internal/app"
	"github.com/diaremit/remit-service/internal/currency"
	"github.com/diaremit/remit-service/internal/domain"
	"github.com/diaremit/remit-service/internal/store"
)

// Handlers holds the application service that handlers will use.
type Handlers struct {
	service *app.Service
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(service *app.Service) *Handlers {
	return &Handlers{service: service}
}

// transferInitiationResponse is sent back to the mobile client immediately
// after a transfer request has been accepted. It mirrors the structure the
// app's transfer confirmation screen reads, so the client can show the
// tracking ID and fee breakdown without a follow-up fetch.
type transferInitiationResponse struct {
	TransferID      string  `json:"transfer_id"`
	Status          string  `json:"status"`
	Message         string  `json:"message"`
	Amount          float64 `json:"amount"`
	Fee             float64 `json:"fee"`
	Total           float64 `json:"total"`
	SourceCurrency  string  `json:"source_currency"`
	TargetCurrency  string  `json:"target_currency"`
	ExchangeRate    float64 `json:"exchange_rate"`
	ReceivingAmount float64 `json:"receiving_amount"`
}

func buildTransferInitiationResponse(t *domain.Transfer, message string) transferInitiationResponse {
	return transferInitiationResponse{
		TransferID:      t.ID.String(),
		Status:          t.Status,
		Message:         message,
		Amount:          t.Amount,
		Fee:             t.Fee,
		Total:           t.Amount + t.Fee,
		SourceCurrency:  t.SourceCurrency,
		TargetCurrency:  t.TargetCurrency,
		ExchangeRate:    t.ExchangeRate,
		ReceivingAmount: currency.Round2(currency.ReceivingAmount(t.Amount, t.SourceCurrency, t.ExchangeRate)),
	}
}

// InitiateTransferHandler handles requests to send money to a recipient.
func (h *Handlers) InitiateTransferHandler(w http.ResponseWriter, r *http.Request) {
	senderID, ok := GetAuthUserID(r.Context())
	if !ok {
		http.Error(w, "Could not get user ID from context", http.StatusInternalServerError)
		return
	}

	var req domain.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("level=warn component=api endpoint=initiate_transfer outcome=reject reason=invalid_json err=%v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	log.Printf("level=info component=api endpoint=initiate_transfer outcome=accepted sender_id=%s recipient_id=%s amount=%.2f currency=%s country=%q",
		senderID, req.RecipientID, req.Amount, req.SourceCurrency, req.Country)

	transfer, err := h.service.InitiateTransfer(r.Context(), senderID, req)
	if err != nil {
		h.writeTransferError(w, senderID, "initiate_transfer", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, buildTransferInitiationResponse(transfer, "Transfer initiated"))
}

// writeTransferError translates service-layer transfer failures into HTTP
// responses. Shared by the direct and scheduled transfer endpoints.
func (h *Handlers) writeTransferError(w http.ResponseWriter, senderID uuid.UUID, endpoint string, err error) {
	log.Printf("level=warn component=api endpoint=%s outcome=failed sender_id=%s err=%v", endpoint, senderID, err)

	var insufficient *app.InsufficientFundsError
	if errors.As(err, &insufficient) {
		h.writeError(w, http.StatusPaymentRequired, insufficient.Error())
		return
	}
	var notRegistered *app.RecipientNotRegisteredError
	if errors.As(err, &notRegistered) {
		h.writeError(w, http.StatusUnprocessableEntity, notRegistered.Error())
		return
	}
	switch {
	case errors.Is(err, store.ErrRecipientNotFound):
		h.writeError(w, http.StatusNotFound, "Recipient not found")
	case errors.Is(err, store.ErrNotConfigured):
		h.writeError(w, http.StatusServiceUnavailable, "Transfers are unavailable until a database is configured")
	case errors.Is(err, app.ErrInvalidAmount),
		errors.Is(err, app.ErrUnknownCountry),
		errors.Is(err, app.ErrUnknownInstitution),
		errors.Is(err, app.ErrRecipientEmailRequired),
		errors.Is(err, app.ErrInvalidScheduleDate):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// ListTransfersHandler returns the authenticated user's recent transfers,
// newest first.
func (h *Handlers) ListTransfersHandler(w http.ResponseWriter, r *http.Request) {
	senderID, ok := GetAuthUserID(r.Context())
	if !ok {
		http.Error(w, "Could not get user ID from context", http.StatusInternalServerError)
		return
	}

	transfers, err := h.service.ListTransfers(r.Context(), senderID)
	if err != nil {
		if errors.Is(err, store.ErrNotConfigured) {
			h.writeJSON(w, http.StatusOK, []domain.Transfer{})
			return
		}
		log.Printf("level=error component=api endpoint=list_transfers outcome=failed user_id=%s err=%v", senderID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if transfers == nil {
		transfers = []domain.Transfer{}
	}

	h.writeJSON(w, http.StatusOK, transfers)
}

// GetTransferHandler returns a single transfer owned by the authenticated user.
func (h *Handlers) GetTransferHandler(w http.ResponseWriter, r *http.Request) {
	senderID, ok := GetAuthUserID(r.Context())
	if !ok {
		http.Error(w, "Could not get user ID from context", http.StatusInternalServerError)
		return
	}

	transferID, err := uuid.Parse(chi.URLParam(r, "transferID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid transfer ID format")
		return
	}

	transfer, err := h.service.GetTransfer(r.Context(), senderID, transferID)
	if err != nil {
		if errors.Is(err, store.ErrTransferNotFound) {
			h.writeError(w, http.StatusNotFound, "Transfer not found")
			return
		}
		if errors.Is(err, store.ErrNotConfigured) {
			h.writeError(w, http.StatusServiceUnavailable, "Transfers are unavailable until a database is configured")
			return
		}
		log.Printf("level=error component=api endpoint=get_transfer outcome=failed transfer_id=%s user_id=%s err=%v", transferID, senderID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, transfer)
}

// ListBalancesHandler returns the authenticated user's per-currency balances.
func (h *Handlers) ListBalancesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetAuthUserID(r.Context())
	if !ok {
		http.Error(w, "Could not get user ID from context", http.StatusInternalServerError)
		return
	}

	balances, err := h.service.ListBalances(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotConfigured) {
			h.writeJSON(w, http.StatusOK, []domain.Balance{})
			return
		}
		log.Printf("level=error component=api endpoint=list_balances outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if balances == nil {
		balances = []domain.Balance{}
	}

	h.writeJSON(w, http.StatusOK, balances)
}

// ListBalanceTransactionsHandler returns the ledger entries behind the
// authenticated user's balances, newest first.
func (h *Handlers) ListBalanceTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetAuthUserID(r.Context())
	if !ok {
		http.Error(w, "Could not get user ID from context", http.StatusInternalServerError)
		return
	}

	transactions, err := h.service.ListBalanceTransactions(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotConfigured) {
			h.writeJSON(w, http.StatusOK, []domain.BalanceTransaction{})
			return
		}
		log.Printf("level=error component=api endpoint=list_balance_transactions outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if transactions == nil {
		transactions = []domain.BalanceTransaction{}
	}

	h.writeJSON(w, http.StatusOK, transactions)
}

// writeJSON is a helper for writing JSON responses.
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing JSON error responses.
func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
