package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MishalQamar/appointment-booking-system/internal/adapters/cache"
	"github.com/MishalQamar/appointment-booking-system/internal/adapters/database"
	"github.com/MishalQamar/appointment-booking-system/internal/adapters/events"
	"github.com/MishalQamar/appointment-booking-system/internal/api/handlers"
	"github.com/MishalQamar/appointment-booking-system/internal/api/middleware"
	"github.com/MishalQamar/appointment-booking-system/internal/api/routes"
	"github.com/MishalQamar/appointment-booking-system/internal/application/services"
	"github.com/MishalQamar/appointment-booking-system/internal/domain/providers"
	"github.com/MishalQamar/appointment-booking-system/internal/domain/repositories"
	"github.com/MishalQamar/appointment-booking-system/internal/infrastructure/clients/postgres"
	"github.com/MishalQamar/appointment-booking-system/internal/infrastructure/clients/redis"
	"github.com/MishalQamar/appointment-booking-system/internal/infrastructure/notifications"
	"github.com/MishalQamar/appointment-booking-system/internal/infrastructure/observability"
	"github.com/MishalQamar/appointment-booking-system/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}
	observability.InitLogger(cfg.OTEL.ServiceName, env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client; the application works without it, just
	// without caching and confirmation emails.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for appointment notifications
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Println("Event bus initialized successfully")
	} else {
		log.Println("Event bus disabled (Redis not available)")
	}

	// Initialize adapters
	employeeAdapter := database.NewEmployeeAdapter(pgClient)
	appointmentAdapter := database.NewAppointmentAdapter(pgClient)
	baseServiceAdapter := database.NewServiceAdapter(pgClient)

	// Wrap the service catalog with caching if Redis is available
	var serviceAdapter repositories.ServiceRepository
	if cacheProvider != nil {
		serviceAdapter = database.NewCachedServiceAdapter(baseServiceAdapter, cacheProvider)
		log.Println("Service adapter wrapped with caching layer")
	} else {
		serviceAdapter = baseServiceAdapter
		log.Println("Service adapter running without cache (Redis unavailable)")
	}

	// Initialize services
	availabilityService := services.NewAvailabilityService(cfg.Booking)
	bookingService := services.NewBookingService(appointmentAdapter, serviceAdapter, employeeAdapter, eventBus)

	// Start the confirmation email worker when the bus is available
	if eventBus != nil {
		sender := notifications.NewSMTPSender(cfg.SMTP)
		notificationService := services.NewNotificationService(sender, employeeAdapter, serviceAdapter)

		eventChan, err := eventBus.Subscribe(ctx, providers.EventChannelAppointments)
		if err != nil {
			log.Printf("Warning: Failed to subscribe to appointment events: %v", err)
		} else {
			go notificationService.ConsumeAppointmentEvents(ctx, eventChan)
			log.Println("Notification worker started")
		}
	}

	// Initialize handlers
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService, employeeAdapter, serviceAdapter, time.Now)
	appointmentHandler := handlers.NewAppointmentHandler(bookingService, time.Now)
	employeeHandler := handlers.NewEmployeeHandler(employeeAdapter)
	serviceHandler := handlers.NewServiceHandler(serviceAdapter)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, cfg.Booking.AvailabilityCacheTTLSeconds)
		log.Println("Cache middleware initialized successfully")
	}

	// Set up router
	router := routes.NewRouter(
		availabilityHandler,
		appointmentHandler,
		employeeHandler,
		serviceHandler,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Printf("Error closing event bus: %v", err)
		}
	}

	log.Println("Server stopped")
}
