package entities

import (
	"time"
)

// Employee represents a bookable staff member
type Employee struct {
	ID                string    `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	ProfilePictureURL string    `json:"profile_picture_url" db:"profile_picture_url"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`

	// Relations, loaded eagerly by the persistence layer before the
	// availability core is invoked.
	Schedules    []WorkingSchedule   `json:"schedules,omitempty" db:"-"`
	Exclusions   []ScheduleExclusion `json:"exclusions,omitempty" db:"-"`
	Appointments []Appointment       `json:"appointments,omitempty" db:"-"`
}

// ActiveAppointments returns the appointments that still occupy time,
// i.e. those that have not been cancelled.
func (e *Employee) ActiveAppointments() []Appointment {
	active := make([]Appointment, 0, len(e.Appointments))
	for _, appointment := range e.Appointments {
		if appointment.CancelledAt == nil {
			active = append(active, appointment)
		}
	}
	return active
}
