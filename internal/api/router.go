/**
 * @description
 * This file sets up the HTTP router for the remit-service. It defines the API
 * endpoints, associates them with their corresponding handlers, and applies any
 * necessary middleware, such as for authentication.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware for browser clients.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes creates and returns the router for the remit service.
func Routes(h *Handlers, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Public catalog endpoints. Rates and payment methods are the same for
	// every user, so no authentication is required to read them.
	r.Get("/rates", h.ListRatesHandler)
	r.Get("/rates/live", h.ListLiveRatesHandler)
	r.Get("/rates/live/{country}/best", h.GetBestRateHandler)
	r.Get("/rates/live/{country}", h.GetLiveRatesForCountryHandler)
	r.Post("/rates/quote", h.QuoteHandler)
	r.Get("/payment-methods", h.ListPaymentMethodsHandler)

	// Group routes that require authentication.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(jwtSecret))

		// Transfer endpoints
		r.Post("/transfers", h.InitiateTransferHandler)
		r.Get("/transfers", h.ListTransfersHandler)
		r.Get("/transfers/{transferID}", h.GetTransferHandler)

		// Recipient directory endpoints
		r.Get("/recipients", h.ListRecipientsHandler)
		r.Post("/recipients", h.AddRecipientHandler)
		r.Put("/recipients/{recipientID}", h.UpdateRecipientHandler)
		r.Delete("/recipients/{recipientID}", h.DeleteRecipientHandler)

		// Scheduled transfer endpoints
		r.Post("/scheduled-transfers", h.ScheduleTransferHandler)
		r.Get("/scheduled-transfers", h.ListScheduledTransfersHandler)
		r.Delete("/scheduled-transfers/{scheduleID}", h.CancelScheduledTransferHandler)

		// Balance endpoints
		r.Get("/balances", h.ListBalancesHandler)
		r.Get("/balances/transactions", h.ListBalanceTransactionsHandler)

		// Preferred-institution selections
		r.Get("/rates/selections", h.ListSelectionsHandler)
		r.Put("/rates/selections", h.ToggleSelectionHandler)

		// App preferences
		r.Get("/preferences", h.GetPreferencesHandler)
		r.Put("/preferences", h.UpdatePreferencesHandler)

		// AI rate assistant
		r.Post("/assistant/chat", h.AssistantChatHandler)
	})

	return r
}
