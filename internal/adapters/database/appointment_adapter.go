package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/MishalQamar/appointment-booking-system/internal/domain/entities"
	"github.com/MishalQamar/appointment-booking-system/internal/domain/repositories"
	"github.com/MishalQamar/appointment-booking-system/internal/infrastructure/clients/postgres"
	apperrors "github.com/MishalQamar/appointment-booking-system/pkg/errors"
)

var appointmentColumns = []interface{}{
	"id", "employee_id", "service_id", "name", "email",
	"date", "starts_at", "ends_at", "cancelled_at",
	"created_at", "updated_at",
}

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new appointment
func (a *AppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"id":           appointment.ID,
		"employee_id":  appointment.EmployeeID,
		"service_id":   appointment.ServiceID,
		"name":         appointment.Name,
		"email":        appointment.Email,
		"date":         appointment.Date,
		"starts_at":    appointment.StartsAt,
		"ends_at":      appointment.EndsAt,
		"cancelled_at": appointment.CancelledAt,
		"created_at":   appointment.CreatedAt,
		"updated_at":   appointment.UpdatedAt,
	}

	query, args, err := a.db.Insert("appointments").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create appointment", err)
	}

	return nil
}

// GetByID retrieves an appointment by ID
func (a *AppointmentAdapter) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	appointment, err := scanAppointment(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment", err)
	}

	return appointment, nil
}

// Cancel marks an appointment as cancelled at the given time
func (a *AppointmentAdapter) Cancel(ctx context.Context, id string, at time.Time) error {
	query, args, err := a.db.Update("appointments").
		Set(goqu.Record{
			"cancelled_at": at,
			"updated_at":   at,
		}).
		Where(goqu.Ex{"id": id, "cancelled_at": nil}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build cancel query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to cancel appointment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found or already cancelled", id))
	}

	return nil
}

// ListByEmployee retrieves non-cancelled appointments for an employee that
// overlap [from, to]
func (a *AppointmentAdapter) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]*entities.Appointment, error) {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(
			goqu.Ex{"employee_id": employeeID, "cancelled_at": nil},
			goqu.C("starts_at").Lte(to),
			goqu.C("ends_at").Gte(from),
		).
		Order(goqu.C("starts_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	var appointments []*entities.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment", err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate appointments", err)
	}

	return appointments, nil
}

// CountOverlapping counts non-cancelled appointments for an employee that
// overlap the half-open interval [startsAt, endsAt)
func (a *AppointmentAdapter) CountOverlapping(ctx context.Context, employeeID string, startsAt, endsAt time.Time) (int, error) {
	query, args, err := a.db.Select(goqu.COUNT("*")).
		From("appointments").
		Where(
			goqu.Ex{"employee_id": employeeID, "cancelled_at": nil},
			goqu.C("starts_at").Lt(endsAt),
			goqu.C("ends_at").Gt(startsAt),
		).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count overlapping appointments", err)
	}

	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	var cancelledAt sql.NullTime

	err := row.Scan(
		&appointment.ID,
		&appointment.EmployeeID,
		&appointment.ServiceID,
		&appointment.Name,
		&appointment.Email,
		&appointment.Date,
		&appointment.StartsAt,
		&appointment.EndsAt,
		&cancelledAt,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cancelledAt.Valid {
		appointment.CancelledAt = &cancelledAt.Time
	}

	return appointment, nil
}
