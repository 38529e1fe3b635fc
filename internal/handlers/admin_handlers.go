package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Ram-82/Ragam-Elyssia-b/internal/domain"
)

// AdminListConsultations returns every consultation in creation order.
func (h *Handlers) AdminListConsultations(w http.ResponseWriter, r *http.Request) {
	consultations, err := h.bookingService.ListConsultations(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"consultations": consultations,
	})
}

// AdminListContacts returns every contact inquiry in creation order.
func (h *Handlers) AdminListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.bookingService.ListContacts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"contacts": contacts,
	})
}

// AdminUpdateConsultation applies status/schedule/comment changes.
func (h *Handlers) AdminUpdateConsultation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid consultation ID")
		return
	}

	var patch domain.AdminConsultationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	consultation, err := h.bookingService.AdminUpdateConsultation(r.Context(), id, &patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"consultation": consultation,
	})
}

// AdminUpdateContact applies status/comment changes.
func (h *Handlers) AdminUpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid contact ID")
		return
	}

	var patch domain.AdminContactPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	contact, err := h.bookingService.AdminUpdateContact(r.Context(), id, &patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"contact": contact,
	})
}

// CreatePaymentIntent opens a deposit payment intent for a consultation.
func (h *Handlers) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid consultation ID")
		return
	}

	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	result, err := h.paymentService.CreateConsultationIntent(r.Context(), id, req.Amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"consultation": result.Consultation,
		"clientSecret": result.ClientSecret,
	})
}
