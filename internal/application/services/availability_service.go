package services

import (
	"fmt"
	"time"

	"github.com/MishalQamar/appointment-booking-system/internal/domain/entities"
	"github.com/MishalQamar/appointment-booking-system/pkg/config"
	apperrors "github.com/MishalQamar/appointment-booking-system/pkg/errors"
)

// AvailabilityService computes bookable time slots from working schedules,
// exclusions and existing appointments. All computation is pure and
// synchronous: callers pass fully materialized employees and an explicit
// "now", so results are deterministic and testable without clock mocking.
// time.Now() belongs at the outermost entry point (the HTTP handler), not here.
type AvailabilityService struct {
	bufferMinutes int
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(cfg config.BookingConfig) *AvailabilityService {
	return &AvailabilityService{
		bufferMinutes: cfg.BufferMinutes,
	}
}

// CalculateScheduleAvailability returns the open working-time periods during
// which an appointment of the service's duration could start, for one
// employee over [rangeStart, rangeEnd] (inclusive by calendar day). Working
// hours are resolved per day from the employee's effective schedule, then
// schedule exclusions are subtracted, then periods that have already passed
// today are dropped.
func (s *AvailabilityService) CalculateScheduleAvailability(
	employee *entities.Employee,
	service *entities.Service,
	rangeStart, rangeEnd time.Time,
	now time.Time,
) ([]entities.Period, error) {
	if err := validateQuery(service, rangeStart, rangeEnd); err != nil {
		return nil, err
	}

	periods := []entities.Period{}

	lastDay := startOfDay(rangeEnd)
	for day := startOfDay(rangeStart); !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		period, ok, err := s.periodForDay(employee, service, day, now)
		if err != nil {
			return nil, err
		}
		if ok {
			periods = append(periods, period)
		}
	}

	for _, exclusion := range employee.Exclusions {
		periods = subtractWindow(periods, exclusion.StartsAt, exclusion.EndsAt)
	}

	return s.dropPassedToday(periods, now), nil
}

// periodForDay derives the single period of possible start times for one
// calendar day, or ok=false when the employee has no availability that day.
func (s *AvailabilityService) periodForDay(
	employee *entities.Employee,
	service *entities.Service,
	day time.Time,
	now time.Time,
) (entities.Period, bool, error) {
	// Never produce availability for days already in the past.
	if day.Before(startOfDay(now)) {
		return entities.Period{}, false, nil
	}

	var schedule *entities.WorkingSchedule
	for i := range employee.Schedules {
		if employee.Schedules[i].CoversDate(day) {
			schedule = &employee.Schedules[i]
			break
		}
	}
	if schedule == nil {
		return entities.Period{}, false, nil
	}

	hours, ok := schedule.HoursFor(day.Weekday())
	if !ok {
		return entities.Period{}, false, nil
	}

	periodStart, err := atTimeOfDay(day, hours.StartsAt)
	if err != nil {
		return entities.Period{}, false, apperrors.NewValidationError(
			fmt.Sprintf("schedule %s has malformed start time %q", schedule.ID, hours.StartsAt))
	}
	closesAt, err := atTimeOfDay(day, hours.EndsAt)
	if err != nil {
		return entities.Period{}, false, apperrors.NewValidationError(
			fmt.Sprintf("schedule %s has malformed end time %q", schedule.ID, hours.EndsAt))
	}

	// The period bounds possible start times: a slot starting at the period
	// end still finishes by closing time. A degenerate (negative) period is
	// kept so exclusion subtraction sees it; it yields no slots.
	return entities.Period{
		Start: periodStart,
		End:   closesAt.Add(-service.Duration()),
	}, true, nil
}

// RemoveAppointments subtracts the employee's non-cancelled appointments from
// the given periods. Each appointment blocks [StartsAt - buffer, EndsAt]: the
// buffer is turnaround time before a booking, so no margin is added after it
// ends.
func (s *AvailabilityService) RemoveAppointments(periods []entities.Period, employee *entities.Employee) []entities.Period {
	buffer := time.Duration(s.bufferMinutes) * time.Minute

	result := periods
	for _, appointment := range employee.ActiveAppointments() {
		result = subtractWindow(result, appointment.StartsAt.Add(-buffer), appointment.EndsAt)
	}
	return result
}

// GenerateSlotRange builds the empty calendar skeleton for a date range: one
// entry per calendar day, holding a slot for every multiple of stepMinutes
// from the start of the day, with no employees attached. The skeleton is
// independent of any employee or schedule.
func (s *AvailabilityService) GenerateSlotRange(rangeStart, rangeEnd time.Time, stepMinutes int) *entities.DateCollection {
	collection := entities.NewDateCollection()
	if stepMinutes <= 0 {
		return collection
	}
	step := time.Duration(stepMinutes) * time.Minute

	lastDay := startOfDay(rangeEnd)
	for day := startOfDay(rangeStart); !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		date := entities.NewDateWithSlots(day)
		dayEnd := endOfDay(day)
		for t := day; !t.After(dayEnd); t = t.Add(step) {
			date.AddSlot(entities.NewSlot(t))
		}
		collection.Add(date)
	}
	return collection
}

// CalculateServiceSlotAvailability computes the bookable slots for a service
// across all given employees. Each employee's free periods are intersected
// against the slot skeleton; slots nobody can take, and days without any
// slot, are pruned from the result. Employees appear within a slot in input
// order.
func (s *AvailabilityService) CalculateServiceSlotAvailability(
	employees []*entities.Employee,
	service *entities.Service,
	rangeStart, rangeEnd time.Time,
	now time.Time,
) (*entities.DateCollection, error) {
	if err := validateQuery(service, rangeStart, rangeEnd); err != nil {
		return nil, err
	}

	skeleton := s.GenerateSlotRange(rangeStart, rangeEnd, service.DurationMinutes)

	// Fold employee availability into a slot-time keyed map instead of
	// mutating the shared skeleton while iterating; the final collection is
	// materialized in a single pass afterwards.
	available := make(map[int64][]*entities.Employee)

	for _, employee := range employees {
		periods, err := s.CalculateScheduleAvailability(employee, service, rangeStart, rangeEnd, now)
		if err != nil {
			return nil, err
		}
		free := s.RemoveAppointments(periods, employee)

		for _, period := range free {
			skeleton.Each(func(date *entities.DateWithSlots) {
				for _, slot := range date.Slots {
					if !period.Contains(slot.Time) {
						continue
					}
					key := slot.Time.UnixNano()
					attached := available[key]
					// One membership per employee per slot, even if
					// periods were to touch the same instant.
					if n := len(attached); n > 0 && attached[n-1] == employee {
						continue
					}
					available[key] = append(attached, employee)
				}
			})
		}
	}

	result := entities.NewDateCollection()
	skeleton.Each(func(date *entities.DateWithSlots) {
		day := entities.NewDateWithSlots(date.Date)
		for _, slot := range date.Slots {
			if attached := available[slot.Time.UnixNano()]; len(attached) > 0 {
				day.AddSlot(&entities.Slot{Time: slot.Time, Employees: attached})
			}
		}
		if day.HasSlots() {
			result.Add(day)
		}
	})
	return result, nil
}

// subtractWindow removes the blocked window from every period in the list.
// A start time t is blocked iff windowStart <= t < windowEnd, so the part
// before the window ends one nanosecond short of windowStart (the last
// representable instant that is still free) while a start exactly at
// windowEnd remains bookable. Periods untouched by the window are kept
// unchanged; overlapped ones are trimmed, split in two, or consumed entirely.
func subtractWindow(periods []entities.Period, windowStart, windowEnd time.Time) []entities.Period {
	result := make([]entities.Period, 0, len(periods))
	for _, period := range periods {
		if period.End.Before(windowStart) || period.Start.After(windowEnd) {
			result = append(result, period)
			continue
		}
		if period.Start.Before(windowStart) {
			result = append(result, entities.Period{
				Start: period.Start,
				End:   windowStart.Add(-time.Nanosecond),
			})
		}
		if period.End.After(windowEnd) {
			result = append(result, entities.Period{
				Start: windowEnd,
				End:   period.End,
			})
		}
	}
	return result
}

// dropPassedToday removes periods whose start has already passed today.
// The cutoff is coarse on purpose: a period starting earlier in the current
// hour is dropped wholesale rather than trimmed, which acts as a small
// lead-time buffer for same-day bookings.
func (s *AvailabilityService) dropPassedToday(periods []entities.Period, now time.Time) []entities.Period {
	today := entities.Period{Start: startOfDay(now), End: endOfHour(now)}

	result := make([]entities.Period, 0, len(periods))
	for _, period := range periods {
		if !today.Contains(period.Start) || period.Start.After(now) {
			result = append(result, period)
		}
	}
	return result
}

func validateQuery(service *entities.Service, rangeStart, rangeEnd time.Time) error {
	if service == nil {
		return apperrors.NewValidationError("service is required")
	}
	if service.DurationMinutes <= 0 {
		return apperrors.NewValidationError(
			fmt.Sprintf("service duration must be positive, got %d", service.DurationMinutes))
	}
	if rangeEnd.Before(rangeStart) {
		return apperrors.NewValidationError("range end must not precede range start")
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func endOfHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location()).
		Add(time.Hour - time.Nanosecond)
}

// atTimeOfDay places an "HH:MM" wall-clock time onto the given calendar day
func atTimeOfDay(day time.Time, hhmm string) (time.Time, error) {
	clock, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location()), nil
}
