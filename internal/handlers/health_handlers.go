package handlers

import (
	"io"
	"net/http"
	"time"
)

// Health reports process liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// DBHealth pings the database pool.
func (h *Handlers) DBHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Database unreachable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  "ok",
	})
}

// DBTest runs a round-trip query and reports the database clock.
func (h *Handlers) DBTest(w http.ResponseWriter, r *http.Request) {
	var now time.Time
	if err := h.db.QueryRow(r.Context(), `SELECT now()`).Scan(&now); err != nil {
		writeError(w, http.StatusInternalServerError, "Database query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"dbTime":  now.Format(time.RFC3339),
	})
}

// PaymentWebhook receives payment provider notifications. The body is
// verified against the webhook signature before anything is trusted.
func (h *Handlers) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<16))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := h.paymentService.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		writeError(w, http.StatusBadRequest, "Webhook rejected")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
