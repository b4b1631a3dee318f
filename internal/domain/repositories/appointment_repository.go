package repositories

import (
	"context"
	"time"

	"github.com/MishalQamar/appointment-booking-system/internal/domain/entities"
)

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	// Create creates a new appointment
	Create(ctx context.Context, appointment *entities.Appointment) error

	// GetByID retrieves an appointment by ID
	GetByID(ctx context.Context, id string) (*entities.Appointment, error)

	// Cancel marks an appointment as cancelled
	Cancel(ctx context.Context, id string, at time.Time) error

	// ListByEmployee retrieves non-cancelled appointments for an employee
	// overlapping [from, to]
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]*entities.Appointment, error)

	// CountOverlapping counts non-cancelled appointments for an employee that
	// overlap the half-open interval [startsAt, endsAt). This is the
	// authoritative collision check performed at booking time.
	CountOverlapping(ctx context.Context, employeeID string, startsAt, endsAt time.Time) (int, error)
}
