package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/MishalQamar/appointment-booking-system/internal/domain/entities"
	"github.com/MishalQamar/appointment-booking-system/internal/domain/repositories"
	"github.com/MishalQamar/appointment-booking-system/internal/infrastructure/clients/postgres"
	apperrors "github.com/MishalQamar/appointment-booking-system/pkg/errors"
)

var serviceColumns = []interface{}{
	"id", "title", "price_cents", "duration_minutes", "created_at", "updated_at",
}

// ServiceAdapter implements the ServiceRepository interface
type ServiceAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewServiceAdapter creates a new service adapter
func NewServiceAdapter(client *postgres.Client) repositories.ServiceRepository {
	return &ServiceAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByID retrieves a service by ID
func (a *ServiceAdapter) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	query, args, err := a.db.Select(serviceColumns...).
		From("services").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	service := &entities.Service{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.Title,
		&service.PriceCents,
		&service.DurationMinutes,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("service with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get service", err)
	}

	return service, nil
}

// List retrieves all services ordered by title
func (a *ServiceAdapter) List(ctx context.Context) ([]*entities.Service, error) {
	query, args, err := a.db.Select(serviceColumns...).
		From("services").
		Order(goqu.C("title").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list services", err)
	}
	defer rows.Close()

	var services []*entities.Service
	for rows.Next() {
		service := &entities.Service{}
		err := rows.Scan(
			&service.ID,
			&service.Title,
			&service.PriceCents,
			&service.DurationMinutes,
			&service.CreatedAt,
			&service.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan service", err)
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate services", err)
	}

	return services, nil
}
