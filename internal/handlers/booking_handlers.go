package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Ram-82/Ragam-Elyssia-b/internal/domain"
)

// CreateConsultation accepts a consultation request. Authenticated customers
// get the record associated with their account; anonymous submissions are
// allowed and stay unowned until signup links them.
func (h *Handlers) CreateConsultation(w http.ResponseWriter, r *http.Request) {
	var req domain.ConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	var ownerID *int64
	if claims := claimsFrom(r); claims != nil && !claims.IsAdmin {
		ownerID = &claims.Sub
	}

	consultation, err := h.bookingService.CreateConsultation(r.Context(), &req, ownerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"bookingId":    consultation.BookingID,
		"consultation": consultation,
	})
}

// CreateContact accepts a contact-form message.
func (h *Handlers) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	var ownerID *int64
	if claims := claimsFrom(r); claims != nil && !claims.IsAdmin {
		ownerID = &claims.Sub
	}

	contact, err := h.bookingService.CreateContact(r.Context(), &req, ownerID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"contact": contact,
	})
}

// ListMyConsultations returns the caller's own consultations.
func (h *Handlers) ListMyConsultations(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	consultations, err := h.bookingService.ListUserConsultations(r.Context(), claims.Sub)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"consultations": consultations,
	})
}

// UpdateMyConsultation lets the owner edit the descriptive fields of their
// consultation. Non-owners get 403 and the record stays unchanged.
func (h *Handlers) UpdateMyConsultation(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid consultation ID")
		return
	}

	var patch domain.OwnerConsultationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	consultation, err := h.bookingService.OwnerUpdateConsultation(r.Context(), id, claims.Sub, &patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"consultation": consultation,
	})
}

// ListMyContacts returns the caller's own contact inquiries.
func (h *Handlers) ListMyContacts(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	contacts, err := h.bookingService.ListUserContacts(r.Context(), claims.Sub)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"contacts": contacts,
	})
}
