/**
 * @description
 * HTTP handlers for the recipient directory endpoints. Recipients are the
 * saved contacts a user sends money to; all endpoints are scoped to the
 * authenticated owner.
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
	"github.com/diaremit/remit-service/internal/domain"
	"github.com/diaremit/remit-service/internal/store"
)

// ListRecipientsHandler returns the authenticated user's saved recipients.
func (h *Handlers) ListRecipientsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetAuthUserID(r.Context())
	if !ok {
		http.Error(w, "Could not get user ID from context", http.StatusInternalServerError)
		return
	}

	recipients, err := h.service.ListRecipients(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotConfigured) {
			h.writeJSON(w, http.StatusOK, []domain.Recipient{})
			return
		}
		log.Printf("level=error component=api endpoint=list_recipients outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if recipients == nil {
		recipients = []domain.Recipient{}
	}

	h.writeJSON(w, http.StatusOK, recipients)
}

// AddRecipientHandler creates a new saved recipient for the authenticated user.
func (h *Handlers) AddRecipientHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetAuthUserID(r.Context())
	if !ok {
		http.Error(w, "Could not get user ID from context", http.StatusInternalServerError)
		return
	}

	var input domain.RecipientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	recipient, err := h.service.AddRecipient(r.Context(), userID, input)
	if err != nil {
		h.writeRecipientError(w, userID, "add_recipient", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, recipient)
}

// UpdateRecipientHandler replaces an existing recipient's details.
func (h *Handlers) UpdateRecipientHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetAuthUserID(r.Context())
	if !ok {
		http.Error(w, "Could not get user ID from context", http.StatusInternalServerError)
		return
	}

	recipientID, err := uuid.Parse(chi.URLParam(r, "recipientID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid recipient ID format")
		return
	}

	var input domain.RecipientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	recipient, err := h.service.UpdateRecipient(r.Context(), userID, recipientID, input)
	if err != nil {
		h.writeRecipientError(w, userID, "update_recipient", err)
		return
	}

	h.writeJSON(w, http.StatusOK, recipient)
}

// DeleteRecipientHandler removes a saved recipient.
func (h *Handlers) DeleteRecipientHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetAuthUserID(r.Context())
	if !ok {
		http.Error(w, "Could not get user ID from context", http.StatusInternalServerError)
		return
	}

	recipientID, err := uuid.Parse(chi.URLParam(r, "recipientID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid recipient ID format")
		return
	}

	deleted, err := h.service.DeleteRecipient(r.Context(), userID, recipientID)
	if err != nil {
		h.writeRecipientError(w, userID, "delete_recipient", err)
		return
	}
	if !deleted {
		h.writeError(w, http.StatusNotFound, "Recipient not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeRecipientError(w http.ResponseWriter, userID uuid.UUID, endpoint string, err error) {
	switch {
	case errors.Is(err, store.ErrRecipientNotFound):
		h.writeError(w, http.StatusNotFound, "Recipient not found")
	case errors.Is(err, store.ErrNotConfigured):
		h.writeError(w, http.StatusServiceUnavailable, "Recipients are unavailable until a database is configured")
	case errors.Is(err, app.ErrRecipientNameRequired), errors.Is(err, app.ErrEmailRequired):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("level=error component=api endpoint=%s outcome=failed user_id=%s err=%v", endpoint, userID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
