package handlers

import (
	"net/http"

	"github.com/MishalQamar/appointment-booking-system/internal/domain/repositories"
)

// EmployeeHandler serves the employee directory
type EmployeeHandler struct {
	employees repositories.EmployeeRepository
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employees repositories.EmployeeRepository) *EmployeeHandler {
	return &EmployeeHandler{
		employees: employees,
	}
}

// ListEmployees handles GET /api/employees
func (h *EmployeeHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employees.List(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"employees": employees,
		"count":     len(employees),
	})
}

// GetEmployee handles GET /api/employees/{id}
func (h *EmployeeHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "employee ID is required")
		return
	}

	employee, err := h.employees.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, employee)
}
