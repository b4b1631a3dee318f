package entities

import (
	"time"
)

// Service represents a bookable service offering
type Service struct {
	ID              string    `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	PriceCents      int       `json:"price_cents" db:"price_cents"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Duration returns the service duration as a time.Duration
func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
