package entities

import (
	"time"
)

// WorkingSchedule represents an employee's recurring weekly working hours,
// effective for the date range [StartDate, EndDate). Times of day are naive
// local wall-clock strings in "HH:MM" format; a nil pair means the employee
// does not work that weekday.
type WorkingSchedule struct {
	ID         string    `json:"id" db:"id"`
	EmployeeID string    `json:"employee_id" db:"employee_id"`
	StartDate  time.Time `json:"start_date" db:"start_date"`
	EndDate    time.Time `json:"end_date" db:"end_date"`

	SundayStartsAt    *string `json:"sunday_starts_at" db:"sunday_starts_at"`
	SundayEndsAt      *string `json:"sunday_ends_at" db:"sunday_ends_at"`
	MondayStartsAt    *string `json:"monday_starts_at" db:"monday_starts_at"`
	MondayEndsAt      *string `json:"monday_ends_at" db:"monday_ends_at"`
	TuesdayStartsAt   *string `json:"tuesday_starts_at" db:"tuesday_starts_at"`
	TuesdayEndsAt     *string `json:"tuesday_ends_at" db:"tuesday_ends_at"`
	WednesdayStartsAt *string `json:"wednesday_starts_at" db:"wednesday_starts_at"`
	WednesdayEndsAt   *string `json:"wednesday_ends_at" db:"wednesday_ends_at"`
	ThursdayStartsAt  *string `json:"thursday_starts_at" db:"thursday_starts_at"`
	ThursdayEndsAt    *string `json:"thursday_ends_at" db:"thursday_ends_at"`
	FridayStartsAt    *string `json:"friday_starts_at" db:"friday_starts_at"`
	FridayEndsAt      *string `json:"friday_ends_at" db:"friday_ends_at"`
	SaturdayStartsAt  *string `json:"saturday_starts_at" db:"saturday_starts_at"`
	SaturdayEndsAt    *string `json:"saturday_ends_at" db:"saturday_ends_at"`
}

// WorkingHours is a start/end wall-clock pair for one weekday.
type WorkingHours struct {
	StartsAt string
	EndsAt   string
}

// HoursFor returns the working hours for the given weekday, or false if the
// employee does not work that day under this schedule.
func (s *WorkingSchedule) HoursFor(day time.Weekday) (WorkingHours, bool) {
	var starts, ends *string

	switch day {
	case time.Sunday:
		starts, ends = s.SundayStartsAt, s.SundayEndsAt
	case time.Monday:
		starts, ends = s.MondayStartsAt, s.MondayEndsAt
	case time.Tuesday:
		starts, ends = s.TuesdayStartsAt, s.TuesdayEndsAt
	case time.Wednesday:
		starts, ends = s.WednesdayStartsAt, s.WednesdayEndsAt
	case time.Thursday:
		starts, ends = s.ThursdayStartsAt, s.ThursdayEndsAt
	case time.Friday:
		starts, ends = s.FridayStartsAt, s.FridayEndsAt
	case time.Saturday:
		starts, ends = s.SaturdayStartsAt, s.SaturdayEndsAt
	}

	if starts == nil || ends == nil {
		return WorkingHours{}, false
	}
	return WorkingHours{StartsAt: *starts, EndsAt: *ends}, true
}

// CoversDate reports whether this schedule is effective for the given date.
// The comparison is deliberately strict on both boundaries: a schedule is not
// considered active on its own StartDate or EndDate.
func (s *WorkingSchedule) CoversDate(date time.Time) bool {
	return date.After(s.StartDate) && date.Before(s.EndDate)
}

// ScheduleExclusion represents a concrete interval [StartsAt, EndsAt] during
// which the employee is unavailable regardless of their working schedule,
// e.g. vacation or training.
type ScheduleExclusion struct {
	ID         string    `json:"id" db:"id"`
	EmployeeID string    `json:"employee_id" db:"employee_id"`
	StartsAt   time.Time `json:"starts_at" db:"starts_at"`
	EndsAt     time.Time `json:"ends_at" db:"ends_at"`
	Reason     string    `json:"reason" db:"reason"`
}
