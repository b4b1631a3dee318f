package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MishalQamar/appointment-booking-system/internal/application/services"
	"github.com/MishalQamar/appointment-booking-system/internal/domain/entities"
	"github.com/MishalQamar/appointment-booking-system/pkg/config"
	apperrors "github.com/MishalQamar/appointment-booking-system/pkg/errors"
)

var (
	scheduleFrom = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	scheduleTo   = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// 2025-06-11 is a Wednesday, 2025-06-08 a Sunday.
	wednesday = time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	sunday    = time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	// A fixed "now" well before the queried days.
	queryNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
)

func newAvailabilityService() *services.AvailabilityService {
	return services.NewAvailabilityService(config.BookingConfig{BufferMinutes: 15})
}

// nineToFiveMonSat is the standard salon schedule: Mon-Sat 09:00-17:00,
// Sundays off.
func nineToFiveMonSat(employeeID string) entities.WorkingSchedule {
	opens, closes := "09:00", "17:00"
	return entities.WorkingSchedule{
		ID:                "sched-" + employeeID,
		EmployeeID:        employeeID,
		StartDate:         scheduleFrom,
		EndDate:           scheduleTo,
		MondayStartsAt:    &opens,
		MondayEndsAt:      &closes,
		TuesdayStartsAt:   &opens,
		TuesdayEndsAt:     &closes,
		WednesdayStartsAt: &opens,
		WednesdayEndsAt:   &closes,
		ThursdayStartsAt:  &opens,
		ThursdayEndsAt:    &closes,
		FridayStartsAt:    &opens,
		FridayEndsAt:      &closes,
		SaturdayStartsAt:  &opens,
		SaturdayEndsAt:    &closes,
	}
}

func salonEmployee(id, name string) *entities.Employee {
	return &entities.Employee{
		ID:        id,
		Name:      name,
		Schedules: []entities.WorkingSchedule{nineToFiveMonSat(id)},
	}
}

func haircut() *entities.Service {
	return &entities.Service{ID: "svc-haircut", Title: "Hair Cut", PriceCents: 2500, DurationMinutes: 30}
}

func colouring() *entities.Service {
	return &entities.Service{ID: "svc-colour", Title: "Colouring", PriceCents: 6000, DurationMinutes: 60}
}

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

func slotTimes(date *entities.DateWithSlots) []string {
	times := make([]string, 0, len(date.Slots))
	for _, slot := range date.Slots {
		times = append(times, slot.Time.Format("15:04"))
	}
	return times
}

func TestCalculateServiceSlotAvailability_ThirtyMinuteService(t *testing.T) {
	svc := newAvailabilityService()
	employee := salonEmployee("emp-1", "Alice Johnson")

	collection, err := svc.CalculateServiceSlotAvailability(
		[]*entities.Employee{employee}, haircut(), wednesday, wednesday, queryNow)

	require.NoError(t, err)
	require.Len(t, collection.Dates, 1)

	date := collection.Dates[0]
	assert.Equal(t, 16, date.SlotCount())
	assert.Equal(t, "09:00", date.Slots[0].Time.Format("15:04"))
	assert.Equal(t, "16:30", date.Slots[len(date.Slots)-1].Time.Format("15:04"))

	for _, slot := range date.Slots {
		require.Equal(t, 1, slot.EmployeeCount())
		assert.Equal(t, "emp-1", slot.Employees[0].ID)
	}
}

func TestCalculateServiceSlotAvailability_SixtyMinuteService(t *testing.T) {
	svc := newAvailabilityService()
	employee := salonEmployee("emp-1", "Alice Johnson")

	collection, err := svc.CalculateServiceSlotAvailability(
		[]*entities.Employee{employee}, colouring(), wednesday, wednesday, queryNow)

	require.NoError(t, err)
	require.Len(t, collection.Dates, 1)

	date := collection.Dates[0]
	assert.Equal(t, 8, date.SlotCount())
	assert.Equal(t, "09:00", date.Slots[0].Time.Format("15:04"))
	assert.Equal(t, "16:00", date.Slots[len(date.Slots)-1].Time.Format("15:04"))
}

func TestCalculateServiceSlotAvailability_ExclusionRemovesCoveredStarts(t *testing.T) {
	svc := newAvailabilityService()
	employee := salonEmployee("emp-1", "Alice Johnson")
	employee.Exclusions = []entities.ScheduleExclusion{{
		ID:         "excl-1",
		EmployeeID: employee.ID,
		StartsAt:   at(wednesday, 12, 0),
		EndsAt:     at(wednesday, 13, 0),
		Reason:     "lunch training",
	}}

	collection, err := svc.CalculateServiceSlotAvailability(
		[]*entities.Employee{employee}, haircut(), wednesday, wednesday, queryNow)

	require.NoError(t, err)
	require.Len(t, collection.Dates, 1)

	date := collection.Dates[0]
	assert.Equal(t, 14, date.SlotCount())
	assert.False(t, date.ContainsSlot("12:00"))
	assert.False(t, date.ContainsSlot("12:30"))
	assert.True(t, date.ContainsSlot("11:30"))
	assert.True(t, date.ContainsSlot("13:00"))
}

func TestCalculateServiceSlotAvailability_DayOffYieldsNoSlots(t *testing.T) {
	svc := newAvailabilityService()
	employee := salonEmployee("emp-1", "Alice Johnson")

	collection, err := svc.CalculateServiceSlotAvailability(
		[]*entities.Employee{employee}, haircut(), sunday, sunday, queryNow)

	require.NoError(t, err)
	assert.Empty(t, collection.Dates)
}

func TestCalculateServiceSlotAvailability_AppointmentWithBuffer(t *testing.T) {
	svc := newAvailabilityService()
	employee := salonEmployee("emp-1", "Alice Johnson")
	employee.Appointments = []entities.Appointment{{
		ID:         "appt-1",
		EmployeeID: employee.ID,
		StartsAt:   at(wednesday, 10, 0),
		EndsAt:     at(wednesday, 10, 30),
	}}

	collection, err := svc.CalculateServiceSlotAvailability(
		[]*entities.Employee{employee}, haircut(), wednesday, wednesday, queryNow)

	require.NoError(t, err)
	require.Len(t, collection.Dates, 1)

	date := collection.Dates[0]
	// The 15 minute buffer blocks starts from 09:45, so 09:30 survives and
	// 10:00 does not; a start exactly at the appointment end is bookable.
	assert.True(t, date.ContainsSlot("09:30"))
	assert.False(t, date.ContainsSlot("10:00"))
	assert.True(t, date.ContainsSlot("10:30"))
	assert.Equal(t, 15, date.SlotCount())
}

func TestCalculateServiceSlotAvailability_CancelledAppointmentIgnored(t *testing.T) {
	svc := newAvailabilityService()
	cancelledAt := at(wednesday, 8, 0)
	employee := salonEmployee("emp-1", "Alice Johnson")
	employee.Appointments = []entities.Appointment{{
		ID:          "appt-1",
		EmployeeID:  employee.ID,
		StartsAt:    at(wednesday, 10, 0),
		EndsAt:      at(wednesday, 10, 30),
		CancelledAt: &cancelledAt,
	}}

	collection, err := svc.CalculateServiceSlotAvailability(
		[]*entities.Employee{employee}, haircut(), wednesday, wednesday, queryNow)

	require.NoError(t, err)
	require.Len(t, collection.Dates, 1)
	assert.Equal(t, 16, collection.Dates[0].SlotCount())
	assert.True(t, collection.Dates[0].ContainsSlot("10:00"))
}

func TestCalculateServiceSlotAvailability_MultiEmployeeAggregation(t *testing.T) {
	svc := newAvailabilityService()
	alice := salonEmployee("emp-a", "Alice Johnson")
	bob := salonEmployee("emp-b", "Bob Smith")
	bob.Appointments = []entities.Appointment{{
		ID:         "appt-1",
		EmployeeID: bob.ID,
		StartsAt:   at(wednesday, 10, 0),
		EndsAt:     at(wednesday, 10, 30),
	}}

	collection, err := svc.CalculateServiceSlotAvailability(
		[]*entities.Employee{alice, bob}, colouring(), wednesday, wednesday, queryNow)

	require.NoError(t, err)
	require.Len(t, collection.Dates, 1)
	date := collection.Dates[0]

	byTime := map[string]*entities.Slot{}
	for _, slot := range date.Slots {
		byTime[slot.Time.Format("15:04")] = slot
	}

	// Bob's booking (plus buffer) blocks his 10:00 start; Alice still takes it.
	require.NotNil(t, byTime["10:00"])
	require.Equal(t, 1, byTime["10:00"].EmployeeCount())
	assert.Equal(t, "emp-a", byTime["10:00"].Employees[0].ID)

	// Where both are free, employees appear in input order.
	require.NotNil(t, byTime["11:00"])
	require.Equal(t, 2, byTime["11:00"].EmployeeCount())
	assert.Equal(t, "emp-a", byTime["11:00"].Employees[0].ID)
	assert.Equal(t, "emp-b", byTime["11:00"].Employees[1].ID)
}

func TestCalculateServiceSlotAvailability_SlotsWithoutEmployeesArePruned(t *testing.T) {
	svc := newAvailabilityService()
	alice := salonEmployee("emp-a", "Alice Johnson")
	bob := salonEmployee("emp-b", "Bob Smith")
	for _, employee := range []*entities.Employee{alice, bob} {
		employee.Exclusions = []entities.ScheduleExclusion{{
			ID:         "excl-" + employee.ID,
			EmployeeID: employee.ID,
			StartsAt:   at(wednesday, 0, 0),
			EndsAt:     at(wednesday, 23, 59),
		}}
	}

	collection, err := svc.CalculateServiceSlotAvailability(
		[]*entities.Employee{alice, bob}, haircut(), wednesday, wednesday, queryNow)

	require.NoError(t, err)
	assert.Empty(t, collection.Dates)
}

func TestCalculateServiceSlotAvailability_EmptyEmployeeList(t *testing.T) {
	svc := newAvailabilityService()

	collection, err := svc.CalculateServiceSlotAvailability(
		nil, haircut(), wednesday, wednesday, queryNow)

	require.NoError(t, err)
	assert.Empty(t, collection.Dates)
}

func TestCalculateServiceSlotAvailability_ServiceLongerThanWorkingDay(t *testing.T) {
	svc := newAvailabilityService()
	employee := salonEmployee("emp-1", "Alice Johnson")
	allDay := &entities.Service{ID: "svc-retreat", Title: "Full Day Retreat", DurationMinutes: 600}

	collection, err := svc.CalculateServiceSlotAvailability(
		[]*entities.Employee{employee}, allDay, wednesday, wednesday, queryNow)

	require.NoError(t, err)
	assert.Empty(t, collection.Dates)
}

func TestCalculateServiceSlotAvailability_ValidatesInput(t *testing.T) {
	svc := newAvailabilityService()
	employee := salonEmployee("emp-1", "Alice Johnson")

	_, err := svc.CalculateServiceSlotAvailability(
		[]*entities.Employee{employee},
		&entities.Service{ID: "svc-bad", DurationMinutes: 0},
		wednesday, wednesday, queryNow)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)

	_, err = svc.CalculateServiceSlotAvailability(
		[]*entities.Employee{employee}, haircut(), wednesday, wednesday.AddDate(0, 0, -1), queryNow)
	require.Error(t, err)
}

func TestCalculateScheduleAvailability_PastDaysYieldNoPeriods(t *testing.T) {
	svc := newAvailabilityService()
	employee := salonEmployee("emp-1", "Alice Johnson")
	lateNow := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)

	periods, err := svc.CalculateScheduleAvailability(
		employee, haircut(), wednesday, wednesday.AddDate(0, 0, 3), lateNow)

	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestCalculateScheduleAvailability_ScheduleBoundaryDaysExcluded(t *testing.T) {
	// The effective-range comparison is strict on both ends, so an employee
	// has no availability on the schedule's own start and end dates. This
	// test pins the behavior down.
	svc := newAvailabilityService()
	employee := salonEmployee("emp-1", "Alice Johnson")
	employee.Schedules[0].StartDate = wednesday

	periods, err := svc.CalculateScheduleAvailability(
		employee, haircut(), wednesday, wednesday, queryNow)

	require.NoError(t, err)
	assert.Empty(t, periods)

	employee.Schedules[0].StartDate = scheduleFrom
	employee.Schedules[0].EndDate = wednesday

	periods, err = svc.CalculateScheduleAvailability(
		employee, haircut(), wednesday, wednesday, queryNow)

	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestCalculateScheduleAvailability_PeriodBounds(t *testing.T) {
	svc := newAvailabilityService()
	employee := salonEmployee("emp-1", "Alice Johnson")

	periods, err := svc.CalculateScheduleAvailability(
		employee, colouring(), wednesday, wednesday, queryNow)

	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, at(wednesday, 9, 0), periods[0].Start)
	// Last possible start leaves room for the full 60 minute service.
	assert.Equal(t, at(wednesday, 16, 0), periods[0].End)
}

func TestCalculateScheduleAvailability_ExclusionSplitsPeriod(t *testing.T) {
	svc := newAvailabilityService()
	employee := salonEmployee("emp-1", "Alice Johnson")
	employee.Exclusions = []entities.ScheduleExclusion{{
		ID:         "excl-1",
		EmployeeID: employee.ID,
		StartsAt:   at(wednesday, 12, 0),
		EndsAt:     at(wednesday, 13, 0),
	}}

	periods, err := svc.CalculateScheduleAvailability(
		employee, haircut(), wednesday, wednesday, queryNow)

	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, at(wednesday, 9, 0), periods[0].Start)
	assert.Equal(t, at(wednesday, 12, 0).Add(-time.Nanosecond), periods[0].End)
	assert.Equal(t, at(wednesday, 13, 0), periods[1].Start)
	assert.Equal(t, at(wednesday, 16, 30), periods[1].End)
}

func TestCalculateScheduleAvailability_ExclusionConsumesPeriod(t *testing.T) {
	svc := newAvailabilityService()
	employee := salonEmployee("emp-1", "Alice Johnson")
	employee.Exclusions = []entities.ScheduleExclusion{{
		ID:         "excl-1",
		EmployeeID: employee.ID,
		StartsAt:   at(wednesday, 8, 0),
		EndsAt:     at(wednesday, 18, 0),
	}}

	periods, err := svc.CalculateScheduleAvailability(
		employee, haircut(), wednesday, wednesday, queryNow)

	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestCalculateScheduleAvailability_Idempotent(t *testing.T) {
	svc := newAvailabilityService()
	employee := salonEmployee("emp-1", "Alice Johnson")
	employee.Exclusions = []entities.ScheduleExclusion{{
		ID:         "excl-1",
		EmployeeID: employee.ID,
		StartsAt:   at(wednesday, 12, 0),
		EndsAt:     at(wednesday, 13, 0),
	}}

	first, err := svc.CalculateScheduleAvailability(
		employee, haircut(), wednesday, wednesday.AddDate(0, 0, 2), queryNow)
	require.NoError(t, err)

	second, err := svc.CalculateScheduleAvailability(
		employee, haircut(), wednesday, wednesday.AddDate(0, 0, 2), queryNow)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Inputs were not mutated along the way.
	assert.Len(t, employee.Schedules, 1)
	assert.Len(t, employee.Exclusions, 1)
	assert.Equal(t, at(wednesday, 12, 0), employee.Exclusions[0].StartsAt)
}

func TestCalculateScheduleAvailability_SameDayStartedPeriodIsDropped(t *testing.T) {
	svc := newAvailabilityService()
	employee := salonEmployee("emp-1", "Alice Johnson")
	// Midday on the queried day itself: the 09:00 period start has passed,
	// so the whole period goes, even though the afternoon is free.
	midday := at(wednesday, 12, 30)

	periods, err := svc.CalculateScheduleAvailability(
		employee, haircut(), wednesday, wednesday, midday)

	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestCalculateScheduleAvailability_SameDayFuturePeriodIsKept(t *testing.T) {
	svc := newAvailabilityService()
	opens, closes := "15:00", "17:00"
	employee := &entities.Employee{
		ID:   "emp-1",
		Name: "Alice Johnson",
		Schedules: []entities.WorkingSchedule{{
			ID:                "sched-1",
			EmployeeID:        "emp-1",
			StartDate:         scheduleFrom,
			EndDate:           scheduleTo,
			WednesdayStartsAt: &opens,
			WednesdayEndsAt:   &closes,
		}},
	}
	midday := at(wednesday, 12, 30)

	periods, err := svc.CalculateScheduleAvailability(
		employee, haircut(), wednesday, wednesday, midday)

	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, at(wednesday, 15, 0), periods[0].Start)
}

func TestRemoveAppointments_BufferPrecedesStartOnly(t *testing.T) {
	svc := newAvailabilityService()
	employee := salonEmployee("emp-1", "Alice Johnson")
	employee.Appointments = []entities.Appointment{{
		ID:         "appt-1",
		EmployeeID: employee.ID,
		StartsAt:   at(wednesday, 10, 0),
		EndsAt:     at(wednesday, 10, 30),
	}}
	periods := []entities.Period{{Start: at(wednesday, 9, 0), End: at(wednesday, 16, 30)}}

	free := svc.RemoveAppointments(periods, employee)

	require.Len(t, free, 2)
	// Blocked window is [09:45, 10:30): 09:45 itself is no longer a valid
	// start, 10:30 is.
	assert.Equal(t, at(wednesday, 9, 0), free[0].Start)
	assert.Equal(t, at(wednesday, 9, 45).Add(-time.Nanosecond), free[0].End)
	assert.Equal(t, at(wednesday, 10, 30), free[1].Start)
	assert.Equal(t, at(wednesday, 16, 30), free[1].End)
}

func TestRemoveAppointments_AccumulatesAcrossAppointments(t *testing.T) {
	svc := newAvailabilityService()
	employee := salonEmployee("emp-1", "Alice Johnson")
	employee.Appointments = []entities.Appointment{
		{ID: "appt-1", StartsAt: at(wednesday, 10, 0), EndsAt: at(wednesday, 10, 30)},
		{ID: "appt-2", StartsAt: at(wednesday, 14, 0), EndsAt: at(wednesday, 15, 0)},
	}
	periods := []entities.Period{{Start: at(wednesday, 9, 0), End: at(wednesday, 16, 30)}}

	free := svc.RemoveAppointments(periods, employee)

	require.Len(t, free, 3)
	assert.Equal(t, at(wednesday, 10, 30), free[1].Start)
	assert.Equal(t, at(wednesday, 13, 45).Add(-time.Nanosecond), free[1].End)
	assert.Equal(t, at(wednesday, 15, 0), free[2].Start)
}

func TestGenerateSlotRange_Skeleton(t *testing.T) {
	svc := newAvailabilityService()

	collection := svc.GenerateSlotRange(wednesday, wednesday.AddDate(0, 0, 1), 30)

	require.Len(t, collection.Dates, 2)
	date := collection.Dates[0]
	assert.Equal(t, 48, date.SlotCount())
	assert.Equal(t, "00:00", date.Slots[0].Time.Format("15:04"))
	assert.Equal(t, "23:30", date.Slots[47].Time.Format("15:04"))

	for _, slot := range date.Slots {
		assert.False(t, slot.HasEmployees())
	}
	for i := 1; i < len(date.Slots); i++ {
		assert.True(t, date.Slots[i].Time.After(date.Slots[i-1].Time))
	}
}

func TestGenerateSlotRange_Deterministic(t *testing.T) {
	svc := newAvailabilityService()

	first := svc.GenerateSlotRange(wednesday, wednesday, 45)
	second := svc.GenerateSlotRange(wednesday, wednesday, 45)

	require.Len(t, first.Dates, 1)
	assert.Equal(t, slotTimes(first.Dates[0]), slotTimes(second.Dates[0]))
}
