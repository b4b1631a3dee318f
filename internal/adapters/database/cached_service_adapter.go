package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/MishalQamar/appointment-booking-system/internal/domain/entities"
	"github.com/MishalQamar/appointment-booking-system/internal/domain/providers"
	"github.com/MishalQamar/appointment-booking-system/internal/domain/repositories"
)

// CachedServiceAdapter wraps ServiceAdapter with caching. The service catalog
// changes rarely, so it is the best cache candidate in the system.
type CachedServiceAdapter struct {
	adapter repositories.ServiceRepository
	cache   providers.CacheProvider
}

// NewCachedServiceAdapter creates a new cached service adapter
func NewCachedServiceAdapter(adapter repositories.ServiceRepository, cache providers.CacheProvider) repositories.ServiceRepository {
	return &CachedServiceAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	serviceByIDTTL  = 300 // 5 minutes for single service
	servicesListTTL = 180 // 3 minutes for the catalog list
)

func serviceCacheKey(id string) string {
	return fmt.Sprintf("service:%s", id)
}

const servicesListCacheKey = "services:list"

// GetByID retrieves a service by ID with caching
func (a *CachedServiceAdapter) GetByID(ctx context.Context, id string) (*entities.Service, error) {
	cacheKey := serviceCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var service entities.Service
		if err := json.Unmarshal(cached, &service); err == nil {
			return &service, nil
		}
		log.Printf("Failed to unmarshal cached service %s: %v", id, err)
	}

	service, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Update cache asynchronously to avoid blocking the response
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(service); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, serviceByIDTTL); err != nil {
				log.Printf("Failed to cache service %s: %v", id, err)
			}
		}
	}()

	return service, nil
}

// List retrieves all services with caching
func (a *CachedServiceAdapter) List(ctx context.Context) ([]*entities.Service, error) {
	if cached, err := a.cache.Get(ctx, servicesListCacheKey); err == nil {
		var services []*entities.Service
		if err := json.Unmarshal(cached, &services); err == nil {
			return services, nil
		}
		log.Printf("Failed to unmarshal cached services list: %v", err)
	}

	services, err := a.adapter.List(ctx)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(services); err == nil {
			if err := a.cache.Set(bgCtx, servicesListCacheKey, data, servicesListTTL); err != nil {
				log.Printf("Failed to cache services list: %v", err)
			}
		}
	}()

	return services, nil
}
