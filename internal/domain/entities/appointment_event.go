package entities

import (
	"time"
)

// AppointmentEventType identifies what happened to an appointment
type AppointmentEventType string

const (
	// AppointmentEventCreated is emitted after a booking is persisted
	AppointmentEventCreated AppointmentEventType = "appointment.created"

	// AppointmentEventCancelled is emitted after a cancellation
	AppointmentEventCancelled AppointmentEventType = "appointment.cancelled"
)

// AppointmentEvent is published on the event bus whenever an appointment
// changes; the notification worker consumes these to send confirmation emails.
type AppointmentEvent struct {
	ID          string               `json:"id"`
	Type        AppointmentEventType `json:"type"`
	OccurredAt  time.Time            `json:"occurred_at"`
	Appointment *Appointment         `json:"appointment"`
}
