package services

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/rs/zerolog/log"

	"github.com/MishalQamar/appointment-booking-system/internal/domain/entities"
	"github.com/MishalQamar/appointment-booking-system/internal/domain/repositories"
)

// EmailSender delivers a rendered message to a recipient
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NotificationService renders and sends appointment emails. It consumes
// appointment events from the bus so bookings never wait on email delivery.
type NotificationService struct {
	sender    EmailSender
	employees repositories.EmployeeRepository
	services  repositories.ServiceRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	sender EmailSender,
	employees repositories.EmployeeRepository,
	services repositories.ServiceRepository,
) *NotificationService {
	return &NotificationService{
		sender:    sender,
		employees: employees,
		services:  services,
	}
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(
	`Hi {{.Name}},

Your appointment is confirmed.

  Service:  {{.ServiceTitle}} ({{.Price}})
  With:     {{.EmployeeName}}
  When:     {{.Date}} at {{.Time}}

We look forward to seeing you. If you need to reschedule, please cancel at
least an hour in advance so the slot opens up for someone else.
`))

type confirmationData struct {
	Name         string
	ServiceTitle string
	Price        string
	EmployeeName string
	Date         string
	Time         string
}

// SendAppointmentConfirmation emails the customer their booking details
func (n *NotificationService) SendAppointmentConfirmation(ctx context.Context, appointment *entities.Appointment) error {
	employee, err := n.employees.GetByID(ctx, appointment.EmployeeID)
	if err != nil {
		return fmt.Errorf("failed to load employee for confirmation: %w", err)
	}
	service, err := n.services.GetByID(ctx, appointment.ServiceID)
	if err != nil {
		return fmt.Errorf("failed to load service for confirmation: %w", err)
	}

	data := confirmationData{
		Name:         appointment.Name,
		ServiceTitle: service.Title,
		Price:        formatPrice(service.PriceCents),
		EmployeeName: employee.Name,
		Date:         appointment.StartsAt.Format("Monday, January 2, 2006"),
		Time:         appointment.StartsAt.Format("3:04 PM"),
	}

	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	subject := fmt.Sprintf("Appointment confirmed: %s on %s", service.Title, data.Date)
	return n.sender.Send(ctx, appointment.Email, subject, body.String())
}

// ConsumeAppointmentEvents processes events until the channel closes or the
// context is cancelled. Intended to run in its own goroutine.
func (n *NotificationService) ConsumeAppointmentEvents(ctx context.Context, events <-chan *entities.AppointmentEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event == nil || event.Appointment == nil {
				continue
			}
			if event.Type != entities.AppointmentEventCreated {
				continue
			}
			if err := n.SendAppointmentConfirmation(ctx, event.Appointment); err != nil {
				log.Error().Err(err).
					Str("appointment_id", event.Appointment.ID).
					Msg("failed to send appointment confirmation")
			}
		}
	}
}

// formatPrice renders a cent amount as dollars, e.g. 2500 -> "$25.00"
func formatPrice(cents int) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
