package repositories

import (
	"context"
	"time"

	"github.com/MishalQamar/appointment-booking-system/internal/domain/entities"
)

// EmployeeRepository defines the interface for employee data operations.
// Listing variants that load relations return employees with schedules,
// exclusions and appointments fully materialized, since the availability core
// never re-fetches data mid-computation.
type EmployeeRepository interface {
	// GetByID retrieves an employee by ID, without relations
	GetByID(ctx context.Context, id string) (*entities.Employee, error)

	// List retrieves all employees, without relations
	List(ctx context.Context) ([]*entities.Employee, error)

	// ListWithRelations retrieves all employees with their schedules,
	// exclusions and appointments overlapping [from, to] loaded
	ListWithRelations(ctx context.Context, from, to time.Time) ([]*entities.Employee, error)

	// GetWithRelations retrieves one employee with relations loaded
	GetWithRelations(ctx context.Context, id string, from, to time.Time) (*entities.Employee, error)
}
