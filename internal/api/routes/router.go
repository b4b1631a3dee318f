package routes

import (
	"net/http"

	"github.com/MishalQamar/appointment-booking-system/internal/api/handlers"
	"github.com/MishalQamar/appointment-booking-system/internal/api/middleware"
	"github.com/MishalQamar/appointment-booking-system/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	availabilityHandler *handlers.AvailabilityHandler
	appointmentHandler  *handlers.AppointmentHandler
	employeeHandler     *handlers.EmployeeHandler
	serviceHandler      *handlers.ServiceHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	availabilityHandler *handlers.AvailabilityHandler,
	appointmentHandler *handlers.AppointmentHandler,
	employeeHandler *handlers.EmployeeHandler,
	serviceHandler *handlers.ServiceHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		availabilityHandler: availabilityHandler,
		appointmentHandler:  appointmentHandler,
		employeeHandler:     employeeHandler,
		serviceHandler:      serviceHandler,
		cacheMiddleware:     cacheMiddleware,
		metrics:             metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Availability endpoint
	r.mux.HandleFunc("GET /api/availability", r.availabilityHandler.GetAvailability)

	// Appointment endpoints
	r.mux.HandleFunc("POST /api/appointments", r.appointmentHandler.BookAppointment)
	r.mux.HandleFunc("GET /api/appointments/{id}", r.appointmentHandler.GetAppointment)
	r.mux.HandleFunc("DELETE /api/appointments/{id}", r.appointmentHandler.CancelAppointment)

	// Employee endpoints
	r.mux.HandleFunc("GET /api/employees", r.employeeHandler.ListEmployees)
	r.mux.HandleFunc("GET /api/employees/{id}", r.employeeHandler.GetEmployee)

	// Service catalog endpoints
	r.mux.HandleFunc("GET /api/services", r.serviceHandler.ListServices)
	r.mux.HandleFunc("GET /api/services/{id}", r.serviceHandler.GetService)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
