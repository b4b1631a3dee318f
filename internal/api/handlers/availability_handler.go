package handlers

import (
	"net/http"
	"time"

	"github.com/MishalQamar/appointment-booking-system/internal/application/services"
	"github.com/MishalQamar/appointment-booking-system/internal/domain/repositories"
)

// AvailabilityHandler serves computed slot availability
type AvailabilityHandler struct {
	availability *services.AvailabilityService
	employees    repositories.EmployeeRepository
	services     repositories.ServiceRepository
	now          func() time.Time
}

// NewAvailabilityHandler creates a new availability handler. The clock is
// injected so availability is computed against a controllable "now"; pass
// time.Now in production.
func NewAvailabilityHandler(
	availability *services.AvailabilityService,
	employees repositories.EmployeeRepository,
	serviceRepo repositories.ServiceRepository,
	now func() time.Time,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability: availability,
		employees:    employees,
		services:     serviceRepo,
		now:          now,
	}
}

// GetAvailability handles GET /api/availability?serviceId=...&from=...&to=...
// Dates accept either RFC3339 or plain YYYY-MM-DD.
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	serviceID := r.URL.Query().Get("serviceId")
	if serviceID == "" {
		respondWithError(w, http.StatusBadRequest, "serviceId query parameter is required")
		return
	}

	from, to, ok := parseDateRange(w, r)
	if !ok {
		return
	}

	service, err := h.services.GetByID(r.Context(), serviceID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	employees, err := h.employees.ListWithRelations(r.Context(), from, to)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	dates, err := h.availability.CalculateServiceSlotAvailability(employees, service, from, to, h.now())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"service": service,
		"dates":   dates.Dates,
	})
}

// parseDateRange reads the from/to query parameters. Plain dates are
// interpreted as the whole day: from at 00:00, to at the end of that day.
func parseDateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr == "" || toStr == "" {
		respondWithError(w, http.StatusBadRequest, "from and to query parameters are required")
		return time.Time{}, time.Time{}, false
	}

	from, err := parseDateParam(fromStr, false)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid from date format (use RFC3339 or YYYY-MM-DD)")
		return time.Time{}, time.Time{}, false
	}

	to, err := parseDateParam(toStr, true)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid to date format (use RFC3339 or YYYY-MM-DD)")
		return time.Time{}, time.Time{}, false
	}

	return from, to, true
}

func parseDateParam(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
