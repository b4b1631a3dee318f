package entities

import (
	"time"
)

// Appointment represents a booked appointment for one employee and one service
type Appointment struct {
	ID          string     `json:"id" db:"id"`
	EmployeeID  string     `json:"employee_id" db:"employee_id"`
	ServiceID   string     `json:"service_id" db:"service_id"`
	Name        string     `json:"name" db:"name"`
	Email       string     `json:"email" db:"email"`
	Date        time.Time  `json:"date" db:"date"`
	StartsAt    time.Time  `json:"starts_at" db:"starts_at"`
	EndsAt      time.Time  `json:"ends_at" db:"ends_at"`
	CancelledAt *time.Time `json:"cancelled_at" db:"cancelled_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// IsCancelled reports whether the appointment has been cancelled and no
// longer occupies the employee's time.
func (a *Appointment) IsCancelled() bool {
	return a.CancelledAt != nil
}
