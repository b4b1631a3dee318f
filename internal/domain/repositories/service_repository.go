package repositories

import (
	"context"

	"github.com/MishalQamar/appointment-booking-system/internal/domain/entities"
)

// ServiceRepository defines the interface for service data operations
type ServiceRepository interface {
	// GetByID retrieves a service by ID
	GetByID(ctx context.Context, id string) (*entities.Service, error)

	// List retrieves all services
	List(ctx context.Context) ([]*entities.Service, error)
}
