package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MishalQamar/appointment-booking-system/internal/application/services"
)

// AppointmentHandler handles appointment booking and cancellation
type AppointmentHandler struct {
	booking *services.BookingService
	now     func() time.Time
}

// NewAppointmentHandler creates a new appointment handler. Pass time.Now as
// the clock in production.
func NewAppointmentHandler(booking *services.BookingService, now func() time.Time) *AppointmentHandler {
	return &AppointmentHandler{
		booking: booking,
		now:     now,
	}
}

// BookAppointment handles POST /api/appointments
func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req services.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	appointment, err := h.booking.CreateAppointment(r.Context(), req, h.now())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, appointment)
}

// GetAppointment handles GET /api/appointments/{id}
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "appointment ID is required")
		return
	}

	appointment, err := h.booking.GetAppointment(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// CancelAppointment handles DELETE /api/appointments/{id}
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "appointment ID is required")
		return
	}

	appointment, err := h.booking.CancelAppointment(r.Context(), id, h.now())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}
