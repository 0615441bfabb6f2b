/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RequestLog: zap access log (method, path, status, duration, request id)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for frontend
  5. Rate limit: Per-IP requests per second (httprate)

ROUTE GROUPS:
  /api/health                      Liveness
  /api/providers                   Providers with bookings
  /api/providers/{providerID}/*    Bookings and calendar views
  /api/bookings/{id}               Booking details
  /api/scenarios/*                 Demo scenarios

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// RouterConfig holds the cross-cutting HTTP settings.
type RouterConfig struct {
	AllowedOrigins     []string
	RateLimitPerSecond int
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerSecond, time.Second))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Get("/providers", h.ListProviders)

		r.Route("/providers/{providerID}", func(r chi.Router) {
			r.Get("/bookings", h.ListBookings)
			r.Post("/bookings", h.CreateBooking)

			r.Get("/calendar", h.GetCalendar)
			r.Get("/calendar/navigate", h.NavigateCalendar)
			r.Get("/calendar/open/{bookingID}", h.OpenBooking)
			r.Get("/calendar.svg", h.CalendarSVG)
			r.Get("/calendar.ics", h.CalendarICS)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/{id}", h.GetBooking)
			r.Delete("/{id}", h.DeleteBooking)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}

// RequestLogger writes one zap entry per request.
func RequestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote", r.RemoteAddr),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
