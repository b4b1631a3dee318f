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

var employeeColumns = []interface{}{
	"id", "name", "profile_picture_url", "created_at", "updated_at",
}

// EmployeeAdapter implements the EmployeeRepository interface
type EmployeeAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewEmployeeAdapter creates a new employee adapter
func NewEmployeeAdapter(client *postgres.Client) repositories.EmployeeRepository {
	return &EmployeeAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves an employee by ID, without relations
func (a *EmployeeAdapter) GetByID(ctx context.Context, id string) (*entities.Employee, error) {
	query, args, err := a.db.Select(employeeColumns...).
		From("employees").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	employee, err := scanEmployee(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("employee with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get employee", err)
	}

	return employee, nil
}

// List retrieves all employees ordered by name, without relations
func (a *EmployeeAdapter) List(ctx context.Context) ([]*entities.Employee, error) {
	query, args, err := a.db.Select(employeeColumns...).
		From("employees").
		Order(goqu.C("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list employees", err)
	}
	defer rows.Close()

	var employees []*entities.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan employee", err)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate employees", err)
	}

	return employees, nil
}

// ListWithRelations retrieves all employees with schedules, exclusions and
// appointments overlapping [from, to] attached. Availability is computed
// entirely in memory afterwards, so everything is loaded up front.
func (a *EmployeeAdapter) ListWithRelations(ctx context.Context, from, to time.Time) ([]*entities.Employee, error) {
	employees, err := a.List(ctx)
	if err != nil {
		return nil, err
	}

	if err := a.attachRelations(ctx, employees, from, to); err != nil {
		return nil, err
	}

	return employees, nil
}

// GetWithRelations retrieves one employee with relations loaded
func (a *EmployeeAdapter) GetWithRelations(ctx context.Context, id string, from, to time.Time) (*entities.Employee, error) {
	employee, err := a.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := a.attachRelations(ctx, []*entities.Employee{employee}, from, to); err != nil {
		return nil, err
	}

	return employee, nil
}

func (a *EmployeeAdapter) attachRelations(ctx context.Context, employees []*entities.Employee, from, to time.Time) error {
	if len(employees) == 0 {
		return nil
	}

	ids := make([]string, len(employees))
	byID := make(map[string]*entities.Employee, len(employees))
	for i, employee := range employees {
		ids[i] = employee.ID
		byID[employee.ID] = employee
	}

	if err := a.attachSchedules(ctx, byID, ids); err != nil {
		return err
	}
	if err := a.attachExclusions(ctx, byID, ids, from, to); err != nil {
		return err
	}
	return a.attachAppointments(ctx, byID, ids, from, to)
}

func (a *EmployeeAdapter) attachSchedules(ctx context.Context, byID map[string]*entities.Employee, ids []string) error {
	query, args, err := a.db.Select(
		"id", "employee_id", "start_date", "end_date",
		"sunday_starts_at", "sunday_ends_at",
		"monday_starts_at", "monday_ends_at",
		"tuesday_starts_at", "tuesday_ends_at",
		"wednesday_starts_at", "wednesday_ends_at",
		"thursday_starts_at", "thursday_ends_at",
		"friday_starts_at", "friday_ends_at",
		"saturday_starts_at", "saturday_ends_at",
	).From("working_schedules").
		Where(goqu.C("employee_id").In(ids)).
		Order(goqu.C("start_date").Asc()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build schedules query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to load schedules", err)
	}
	defer rows.Close()

	for rows.Next() {
		schedule := entities.WorkingSchedule{}
		err := rows.Scan(
			&schedule.ID,
			&schedule.EmployeeID,
			&schedule.StartDate,
			&schedule.EndDate,
			&schedule.SundayStartsAt, &schedule.SundayEndsAt,
			&schedule.MondayStartsAt, &schedule.MondayEndsAt,
			&schedule.TuesdayStartsAt, &schedule.TuesdayEndsAt,
			&schedule.WednesdayStartsAt, &schedule.WednesdayEndsAt,
			&schedule.ThursdayStartsAt, &schedule.ThursdayEndsAt,
			&schedule.FridayStartsAt, &schedule.FridayEndsAt,
			&schedule.SaturdayStartsAt, &schedule.SaturdayEndsAt,
		)
		if err != nil {
			return apperrors.NewInternalError("failed to scan schedule", err)
		}

		if employee, ok := byID[schedule.EmployeeID]; ok {
			employee.Schedules = append(employee.Schedules, schedule)
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewInternalError("failed to iterate schedules", err)
	}

	return nil
}

func (a *EmployeeAdapter) attachExclusions(ctx context.Context, byID map[string]*entities.Employee, ids []string, from, to time.Time) error {
	query, args, err := a.db.Select(
		"id", "employee_id", "starts_at", "ends_at", "reason",
	).From("schedule_exclusions").
		Where(
			goqu.C("employee_id").In(ids),
			goqu.C("starts_at").Lte(to),
			goqu.C("ends_at").Gte(from),
		).
		Order(goqu.C("starts_at").Asc()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build exclusions query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to load exclusions", err)
	}
	defer rows.Close()

	for rows.Next() {
		exclusion := entities.ScheduleExclusion{}
		var reason sql.NullString
		err := rows.Scan(
			&exclusion.ID,
			&exclusion.EmployeeID,
			&exclusion.StartsAt,
			&exclusion.EndsAt,
			&reason,
		)
		if err != nil {
			return apperrors.NewInternalError("failed to scan exclusion", err)
		}
		exclusion.Reason = reason.String

		if employee, ok := byID[exclusion.EmployeeID]; ok {
			employee.Exclusions = append(employee.Exclusions, exclusion)
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewInternalError("failed to iterate exclusions", err)
	}

	return nil
}

// attachAppointments loads all appointments overlapping the range, cancelled
// ones included. Cancellations are filtered in the domain, see
// Employee.ActiveAppointments.
func (a *EmployeeAdapter) attachAppointments(ctx context.Context, byID map[string]*entities.Employee, ids []string, from, to time.Time) error {
	query, args, err := a.db.Select(appointmentColumns...).
		From("appointments").
		Where(
			goqu.C("employee_id").In(ids),
			goqu.C("starts_at").Lte(to),
			goqu.C("ends_at").Gte(from),
		).
		Order(goqu.C("starts_at").Asc()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build appointments query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to load appointments", err)
	}
	defer rows.Close()

	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return apperrors.NewInternalError("failed to scan appointment", err)
		}

		if employee, ok := byID[appointment.EmployeeID]; ok {
			employee.Appointments = append(employee.Appointments, *appointment)
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewInternalError("failed to iterate appointments", err)
	}

	return nil
}

func scanEmployee(row rowScanner) (*entities.Employee, error) {
	employee := &entities.Employee{}
	var profilePicture sql.NullString

	err := row.Scan(
		&employee.ID,
		&employee.Name,
		&profilePicture,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	employee.ProfilePictureURL = profilePicture.String
	return employee, nil
}
