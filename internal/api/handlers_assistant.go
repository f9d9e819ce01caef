/**
 * @description
 * HTTP handlers for the AI rate assistant chat endpoint and the user's
 * app preferences.
 */

package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/diaremit/remit-service/internal/domain"
)

// AssistantChatHandler relays a conversation to the completion endpoint and
// returns the assistant's reply. This endpoint never fails outright; upstream
// trouble degrades to a canned support message.
func (h *Handlers) AssistantChatHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []domain.ChatMessage `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	reply := h.service.Ask(r.Context(), req.Messages)
	h.writeJSON(w, http.StatusOK, map[string]string{"completion": reply})
}

// GetPreferencesHandler returns the authenticated user's app preferences,
// filled with defaults for anything never set.
func (h *Handlers) GetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetAuthUserID(r.Context())
	if !ok {
		http.Error(w, "Could not get user ID from context", http.StatusInternalServerError)
		return
	}

	prefs, err := h.service.GetPreferences(r.Context(), userID)
	if err != nil {
		log.Printf("level=error component=api endpoint=get_preferences outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, prefs)
}

// UpdatePreferencesHandler replaces the authenticated user's app preferences.
func (h *Handlers) UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetAuthUserID(r.Context())
	if !ok {
		http.Error(w, "Could not get user ID from context", http.StatusInternalServerError)
		return
	}

	var prefs domain.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if err := h.service.SetPreferences(r.Context(), userID, prefs); err != nil {
		log.Printf("level=error component=api endpoint=update_preferences outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	updated, err := h.service.GetPreferences(r.Context(), userID)
	if err != nil {
		log.Printf("level=error component=api endpoint=update_preferences outcome=failed user_id=%s err=%v", userID, err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, updated)
}
