package handlers

import (
	"net/http"

	"github.com/MishalQamar/appointment-booking-system/internal/domain/repositories"
)

// ServiceHandler serves the bookable service catalog
type ServiceHandler struct {
	services repositories.ServiceRepository
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(services repositories.ServiceRepository) *ServiceHandler {
	return &ServiceHandler{
		services: services,
	}
}

// ListServices handles GET /api/services
func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.services.List(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"services": services,
		"count":    len(services),
	})
}

// GetService handles GET /api/services/{id}
func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "service ID is required")
		return
	}

	service, err := h.services.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, service)
}
