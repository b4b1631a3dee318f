package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MishalQamar/appointment-booking-system/internal/domain/entities"
	"github.com/MishalQamar/appointment-booking-system/internal/domain/providers"
	"github.com/MishalQamar/appointment-booking-system/internal/domain/repositories"
	apperrors "github.com/MishalQamar/appointment-booking-system/pkg/errors"
)

// BookingService handles appointment creation and cancellation. Availability
// shown to the user is advisory only; the overlap re-check here, against the
// database, is what actually protects an employee's calendar.
type BookingService struct {
	appointments repositories.AppointmentRepository
	services     repositories.ServiceRepository
	employees    repositories.EmployeeRepository
	bus          providers.EventBus
}

// NewBookingService creates a new booking service
func NewBookingService(
	appointments repositories.AppointmentRepository,
	services repositories.ServiceRepository,
	employees repositories.EmployeeRepository,
	bus providers.EventBus,
) *BookingService {
	return &BookingService{
		appointments: appointments,
		services:     services,
		employees:    employees,
		bus:          bus,
	}
}

// BookingRequest is the input for creating an appointment
type BookingRequest struct {
	EmployeeID string    `json:"employee_id"`
	ServiceID  string    `json:"service_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Slot       time.Time `json:"slot"`
}

// CreateAppointment books the given slot for an employee. The slot must be in
// the future, and must not overlap any existing non-cancelled appointment.
func (s *BookingService) CreateAppointment(ctx context.Context, req BookingRequest, now time.Time) (*entities.Appointment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if req.Slot.Before(now) {
		return nil, apperrors.NewValidationError("cannot book an appointment in the past")
	}

	employee, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	service, err := s.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	startsAt := req.Slot
	endsAt := startsAt.Add(service.Duration())

	// Authoritative collision check: the computed availability the client
	// picked from may be stale by the time this runs.
	overlapping, err := s.appointments.CountOverlapping(ctx, employee.ID, startsAt, endsAt)
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, apperrors.NewConflictError("slot is no longer available")
	}

	appointment := &entities.Appointment{
		ID:         uuid.New().String(),
		EmployeeID: employee.ID,
		ServiceID:  service.ID,
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Date:       startOfDay(startsAt),
		StartsAt:   startsAt,
		EndsAt:     endsAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.publish(ctx, entities.AppointmentEventCreated, appointment, now)

	return appointment, nil
}

// CancelAppointment marks an appointment as cancelled, freeing its time for
// new bookings.
func (s *BookingService) CancelAppointment(ctx context.Context, id string, now time.Time) (*entities.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.IsCancelled() {
		return nil, apperrors.NewConflictError("appointment is already cancelled")
	}

	if err := s.appointments.Cancel(ctx, id, now); err != nil {
		return nil, err
	}
	appointment.CancelledAt = &now

	s.publish(ctx, entities.AppointmentEventCancelled, appointment, now)

	return appointment, nil
}

// GetAppointment retrieves a single appointment
func (s *BookingService) GetAppointment(ctx context.Context, id string) (*entities.Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

// publish emits an appointment event; delivery is best effort and never
// fails the booking itself.
func (s *BookingService) publish(ctx context.Context, eventType entities.AppointmentEventType, appointment *entities.Appointment, now time.Time) {
	if s.bus == nil {
		return
	}

	event := &entities.AppointmentEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		OccurredAt:  now,
		Appointment: appointment,
	}
	if err := s.bus.Publish(ctx, providers.EventChannelAppointments, event); err != nil {
		log.Error().Err(err).
			Str("appointment_id", appointment.ID).
			Str("event_type", string(eventType)).
			Msg("failed to publish appointment event")
	}
}

func (r BookingRequest) validate() error {
	if r.EmployeeID == "" {
		return apperrors.NewValidationError("employee_id is required")
	}
	if r.ServiceID == "" {
		return apperrors.NewValidationError("service_id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return apperrors.NewValidationError("name is required")
	}
	email := strings.TrimSpace(r.Email)
	if email == "" || !strings.Contains(email, "@") {
		return apperrors.NewValidationError("a valid email is required")
	}
	if r.Slot.IsZero() {
		return apperrors.NewValidationError("slot is required")
	}
	return nil
}
