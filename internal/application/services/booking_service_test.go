package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MishalQamar/appointment-booking-system/internal/application/services"
	"github.com/MishalQamar/appointment-booking-system/internal/domain/entities"
	apperrors "github.com/MishalQamar/appointment-booking-system/pkg/errors"
)

type fakeAppointmentRepo struct {
	created      []*entities.Appointment
	byID         map[string]*entities.Appointment
	overlapCount int
	cancelledIDs []string
}

func (f *fakeAppointmentRepo) Create(_ context.Context, appointment *entities.Appointment) error {
	f.created = append(f.created, appointment)
	return nil
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id string) (*entities.Appointment, error) {
	if appointment, ok := f.byID[id]; ok {
		return appointment, nil
	}
	return nil, apperrors.NewNotFoundError("appointment not found")
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, id string, _ time.Time) error {
	f.cancelledIDs = append(f.cancelledIDs, id)
	return nil
}

func (f *fakeAppointmentRepo) ListByEmployee(_ context.Context, _ string, _, _ time.Time) ([]*entities.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentRepo) CountOverlapping(_ context.Context, _ string, _, _ time.Time) (int, error) {
	return f.overlapCount, nil
}

type fakeServiceRepo struct {
	services map[string]*entities.Service
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id string) (*entities.Service, error) {
	if service, ok := f.services[id]; ok {
		return service, nil
	}
	return nil, apperrors.NewNotFoundError("service not found")
}

func (f *fakeServiceRepo) List(_ context.Context) ([]*entities.Service, error) {
	return nil, nil
}

type fakeEmployeeRepo struct {
	employees map[string]*entities.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*entities.Employee, error) {
	if employee, ok := f.employees[id]; ok {
		return employee, nil
	}
	return nil, apperrors.NewNotFoundError("employee not found")
}

func (f *fakeEmployeeRepo) List(_ context.Context) ([]*entities.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) ListWithRelations(_ context.Context, _, _ time.Time) ([]*entities.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepo) GetWithRelations(_ context.Context, id string, _, _ time.Time) (*entities.Employee, error) {
	return f.GetByID(context.Background(), id)
}

type fakeEventBus struct {
	published []*entities.AppointmentEvent
}

func (f *fakeEventBus) Publish(_ context.Context, _ string, event *entities.AppointmentEvent) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeEventBus) Subscribe(_ context.Context, _ string) (<-chan *entities.AppointmentEvent, error) {
	return nil, nil
}

func (f *fakeEventBus) Unsubscribe(_ context.Context, _ string) error { return nil }
func (f *fakeEventBus) Close() error                                  { return nil }

func newBookingFixture() (*services.BookingService, *fakeAppointmentRepo, *fakeEventBus) {
	appointments := &fakeAppointmentRepo{byID: map[string]*entities.Appointment{}}
	bus := &fakeEventBus{}
	svc := services.NewBookingService(
		appointments,
		&fakeServiceRepo{services: map[string]*entities.Service{
			"svc-haircut": {ID: "svc-haircut", Title: "Hair Cut", PriceCents: 2500, DurationMinutes: 30},
		}},
		&fakeEmployeeRepo{employees: map[string]*entities.Employee{
			"emp-1": {ID: "emp-1", Name: "Alice Johnson"},
		}},
		bus,
	)
	return svc, appointments, bus
}

func validBookingRequest(slot time.Time) services.BookingRequest {
	return services.BookingRequest{
		EmployeeID: "emp-1",
		ServiceID:  "svc-haircut",
		Name:       "Carol Customer",
		Email:      "carol@example.com",
		Slot:       slot,
	}
}

func TestBookingService_CreateAppointment(t *testing.T) {
	ctx := context.Background()
	svc, appointments, bus := newBookingFixture()

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	slot := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	appointment, err := svc.CreateAppointment(ctx, validBookingRequest(slot), now)

	require.NoError(t, err)
	require.NotNil(t, appointment)
	assert.NotEmpty(t, appointment.ID)
	assert.Equal(t, slot, appointment.StartsAt)
	assert.Equal(t, slot.Add(30*time.Minute), appointment.EndsAt)
	assert.Equal(t, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), appointment.Date)
	assert.Nil(t, appointment.CancelledAt)

	require.Len(t, appointments.created, 1)

	require.Len(t, bus.published, 1)
	assert.Equal(t, entities.AppointmentEventCreated, bus.published[0].Type)
	assert.Equal(t, appointment.ID, bus.published[0].Appointment.ID)
}

func TestBookingService_CreateAppointment_RejectsPastSlot(t *testing.T) {
	ctx := context.Background()
	svc, appointments, _ := newBookingFixture()

	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	slot := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	_, err := svc.CreateAppointment(ctx, validBookingRequest(slot), now)

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.Empty(t, appointments.created)
}

func TestBookingService_CreateAppointment_RejectsOverlap(t *testing.T) {
	ctx := context.Background()
	svc, appointments, bus := newBookingFixture()
	appointments.overlapCount = 1

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	slot := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	_, err := svc.CreateAppointment(ctx, validBookingRequest(slot), now)

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
	assert.Empty(t, appointments.created)
	assert.Empty(t, bus.published)
}

func TestBookingService_CreateAppointment_ValidatesRequest(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newBookingFixture()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	slot := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		mutate func(*services.BookingRequest)
	}{
		{"missing employee", func(r *services.BookingRequest) { r.EmployeeID = "" }},
		{"missing service", func(r *services.BookingRequest) { r.ServiceID = "" }},
		{"missing name", func(r *services.BookingRequest) { r.Name = "   " }},
		{"invalid email", func(r *services.BookingRequest) { r.Email = "not-an-email" }},
		{"missing slot", func(r *services.BookingRequest) { r.Slot = time.Time{} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validBookingRequest(slot)
			tc.mutate(&req)

			_, err := svc.CreateAppointment(ctx, req, now)

			require.Error(t, err)
			appErr, ok := err.(*apperrors.AppError)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
		})
	}
}

func TestBookingService_CancelAppointment(t *testing.T) {
	ctx := context.Background()
	svc, appointments, bus := newBookingFixture()
	appointments.byID["appt-1"] = &entities.Appointment{
		ID:         "appt-1",
		EmployeeID: "emp-1",
		ServiceID:  "svc-haircut",
	}

	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	appointment, err := svc.CancelAppointment(ctx, "appt-1", now)

	require.NoError(t, err)
	require.NotNil(t, appointment.CancelledAt)
	assert.Equal(t, now, *appointment.CancelledAt)
	assert.Equal(t, []string{"appt-1"}, appointments.cancelledIDs)

	require.Len(t, bus.published, 1)
	assert.Equal(t, entities.AppointmentEventCancelled, bus.published[0].Type)

	// A second cancel is a conflict.
	_, err = svc.CancelAppointment(ctx, "appt-1", now)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
}
