/**
 * @description
 * HTTP handlers for scheduled transfers. A scheduled transfer records the
 * full pricing snapshot at scheduling time and is executed by the background
 * scheduler once its date arrives.
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

	"github.com/diaremit/remit-service/internal/domain"
	"github.com/diaremit/remit-service/internal/store"
)

// ScheduleTransferHandler creates a scheduled transfer for a future date.
func (h *Handlers) ScheduleTransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetAuthUserID(r.Context())
	if !ok {
		http.Error(w, "Could not get user ID from context", http.StatusInternalServerError)
		return
	}

	var req domain.ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	scheduled, err := h.service.ScheduleTransfer(r.Context(), userID, req)
	if err != nil {
		h.writeTransferError(w, userID, "schedule_transfer", err)
		return
	}

	log.Printf("level=info component=api endpoint=schedule_transfer outcome=accepted user_id=%s schedule_id=%s date=%s",
		userID, scheduled.ID, scheduled.ScheduledDate)
	h.writeJSON(w, http.StatusCreated, scheduled)
}

// ListScheduledTransfersHandler returns the authenticated user's scheduled
// transfers, soonest first.
func (h *Handlers) ListScheduledTransfersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetAuthUserID(r.Context())
	if !ok {
		http.Error(w, "Could not get user ID from context", http.StatusInternalServerError)
		return
	}

	scheduled, err := h.service.ListScheduledTransfers(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotConfigured) {
			h.writeJSON(w, http.StatusOK, []domain.ScheduledTransfer{})
			return
		}
		log.Printf("level=error component=api endpoint=list_scheduled_transfers outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if scheduled == nil {
		scheduled = []domain.ScheduledTransfer{}
	}

	h.writeJSON(w, http.StatusOK, scheduled)
}

// CancelScheduledTransferHandler cancels a pending scheduled transfer.
// Executed or already cancelled schedules cannot be cancelled again.
func (h *Handlers) CancelScheduledTransferHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetAuthUserID(r.Context())
	if !ok {
		http.Error(w, "Could not get user ID from context", http.StatusInternalServerError)
		return
	}

	scheduleID, err := uuid.Parse(chi.URLParam(r, "scheduleID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid scheduled transfer ID format")
		return
	}

	cancelled, err := h.service.CancelScheduledTransfer(r.Context(), userID, scheduleID)
	if err != nil {
		if errors.Is(err, store.ErrNotConfigured) {
			h.writeError(w, http.StatusServiceUnavailable, "Scheduled transfers are unavailable until a database is configured")
			return
		}
		log.Printf("level=error component=api endpoint=cancel_scheduled_transfer outcome=failed user_id=%s schedule_id=%s err=%v", userID, scheduleID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !cancelled {
		h.writeError(w, http.StatusNotFound, "Scheduled transfer not found or not cancellable")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
