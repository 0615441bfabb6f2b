/*
handlers.go - HTTP API handlers for the booking calendar

PURPOSE:
  Exposes the timeline engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the calendar pipeline.

ENDPOINTS:
  Bookings:
    GET    /api/providers/{providerID}/bookings   Raw booking records
    POST   /api/providers/{providerID}/bookings   Create booking
    GET    /api/bookings/{id}                     Booking details
    DELETE /api/bookings/{id}                     Delete booking

  Calendar:
    GET /api/providers/{providerID}/calendar                     Rendered view (JSON)
    GET /api/providers/{providerID}/calendar/navigate            prev/next/today
    GET /api/providers/{providerID}/calendar/open/{bookingID}    Click-through
    GET /api/providers/{providerID}/calendar.svg                 SVG rendering
    GET /api/providers/{providerID}/calendar.ics                 iCalendar feed

  Scenarios:
    GET    /api/scenarios        List demo scenarios
    POST   /api/scenarios/load   Load a demo scenario
    POST   /api/scenarios/reset  Clear all data

VIEW STATE:
  The server keeps no navigation state. Every calendar request carries
  ?view=day|week|month&date=YYYY-MM-DD; missing values mean today's day
  view. Responses echo the resolved state so clients can follow it.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Booking not found / not clickable
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/booking-timeline/ics"
	"github.com/warp/booking-timeline/render"
	"github.com/warp/booking-timeline/timeline"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   timeline.Store
	Logger  *zap.Logger
	Options timeline.Options
	Clock   timeline.Clock

	// Domain is the UID suffix of exported calendar events.
	Domain string

	validate *validator.Validate

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store timeline.Store, logger *zap.Logger, opts timeline.Options) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:    store,
		Logger:   logger,
		Options:  opts.Normalize(),
		Clock:    time.Now,
		Domain:   "booking-timeline.local",
		validate: validator.New(),
	}
}

func (h *Handler) now() time.Time {
	return h.Clock().In(h.Options.Location)
}

// =============================================================================
// HEALTH
// =============================================================================

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Time: h.now().Format(time.RFC3339)})
}

// =============================================================================
// BOOKING HANDLERS
// =============================================================================

// ListProviders returns the providers that have bookings.
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.Store.ListProviders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list providers", err)
		return
	}

	writeJSON(w, http.StatusOK, providers)
}

// ListBookings returns the raw records of a provider.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")

	records, err := h.Store.ListBookings(r.Context(), providerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bookings", err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// CreateBooking stores a booking for a provider. Dates, times and
// durations are not checked here; a malformed record is stored and simply
// left out of rendered calendars.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	providerID := chi.URLParam(r, "providerID")

	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.normalize()
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", validationDetails(err))
		return
	}
	if req.Recurrence != "" {
		if _, err := timeline.ParseRecurrence(req.Recurrence); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid recurrence rule", err)
			return
		}
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	rec := req.toRecord(id, providerID)

	if err := h.Store.SaveBooking(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create booking", err)
		return
	}

	if _, err := timeline.NewProjector(h.Options.Location, nil).ProjectOne(rec); err != nil {
		h.Logger.Info("stored booking will not render",
			zap.String("booking_id", rec.ID),
			zap.Error(err),
		)
	}

	writeJSON(w, http.StatusCreated, rec)
}

// GetBooking returns a booking's details.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetBooking(r.Context(), id)
	if timeline.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Booking not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get booking", err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// DeleteBooking removes a booking.
func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.Store.DeleteBooking(r.Context(), id)
	if timeline.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Booking not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete booking", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// GetCalendar renders the requested view as JSON.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	cal, records, ok := h.prepareCalendar(w, r, nil)
	if !ok {
		return
	}

	state := cal.Navigator().State()
	writeJSON(w, http.StatusOK, CalendarResponse{
		ProviderID: chi.URLParam(r, "providerID"),
		State:      toViewStateDTO(state),
		Today:      timeline.FormatDate(h.now()),
		Dropped:    h.countDropped(records),
		View:       cal.Render(records),
	})
}

// NavigateCalendar applies dir=prev|next|today to the requested state and
// returns the new state.
func (h *Handler) NavigateCalendar(w http.ResponseWriter, r *http.Request) {
	cal, err := h.calendarFromQuery(r, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	nav := cal.Navigator()
	var state timeline.ViewState
	switch strings.ToLower(r.URL.Query().Get("dir")) {
	case "prev", "previous":
		state = nav.Previous()
	case "next":
		state = nav.Next()
	case "today":
		state = nav.Today()
	default:
		writeError(w, http.StatusBadRequest, "dir must be prev, next or today", nil)
		return
	}

	writeJSON(w, http.StatusOK, toViewStateDTO(state))
}

// OpenBooking is the click-through: it returns a booking only when the
// requested view renders it as a clickable block.
func (h *Handler) OpenBooking(w http.ResponseWriter, r *http.Request) {
	var opened *timeline.BookingRecord
	onViewDetails := func(rec timeline.BookingRecord) { opened = &rec }

	cal, records, ok := h.prepareCalendar(w, r, onViewDetails)
	if !ok {
		return
	}

	bookingID := chi.URLParam(r, "bookingID")
	if !cal.Open(cal.Render(records), bookingID) || opened == nil {
		writeError(w, http.StatusNotFound, "Booking is not shown in this view", nil)
		return
	}

	writeJSON(w, http.StatusOK, OpenBookingResponse{
		State:   toViewStateDTO(cal.Navigator().State()),
		Booking: *opened,
	})
}

// CalendarSVG renders the requested view as an SVG image.
func (h *Handler) CalendarSVG(w http.ResponseWriter, r *http.Request) {
	cal, records, ok := h.prepareCalendar(w, r, nil)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(render.SVG(cal.Render(records), render.DefaultOptions())))
}

// CalendarICS exports the bookings of the requested period as iCalendar.
func (h *Handler) CalendarICS(w http.ResponseWriter, r *http.Request) {
	cal, records, ok := h.prepareCalendar(w, r, nil)
	if !ok {
		return
	}

	providerID := chi.URLParam(r, "providerID")
	state := cal.Navigator().State()
	intervals := state.Period().Filter(cal.Intervals(records))
	body := ics.Export("Bookings "+providerID, h.Domain, intervals, h.now())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", providerID+".ics"))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// prepareCalendar resolves the view state and loads the provider's records.
// It writes the error response itself and returns ok=false on failure.
func (h *Handler) prepareCalendar(w http.ResponseWriter, r *http.Request, onViewDetails timeline.DetailsFunc) (*timeline.Calendar, []timeline.BookingRecord, bool) {
	cal, err := h.calendarFromQuery(r, onViewDetails)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return nil, nil, false
	}

	records, err := h.Store.ListBookings(r.Context(), chi.URLParam(r, "providerID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bookings", err)
		return nil, nil, false
	}
	return cal, records, true
}

// calendarFromQuery builds a calendar shell positioned at ?view=&date=.
func (h *Handler) calendarFromQuery(r *http.Request, onViewDetails timeline.DetailsFunc) (*timeline.Calendar, error) {
	q := r.URL.Query()
	cal := timeline.NewCalendar(h.Options, h.Logger, h.Clock, onViewDetails)

	state := timeline.ViewState{Granularity: timeline.ParseGranularity(q.Get("view"))}
	if raw := q.Get("date"); raw != "" {
		anchor, err := timeline.ParseDate(raw, h.Options.Location)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", raw, err)
		}
		state.Anchor = anchor
	}
	cal.Navigator().Restore(state)
	return cal, nil
}

// countDropped reports how many stored records cannot be drawn at all.
func (h *Handler) countDropped(records []timeline.BookingRecord) int {
	p := timeline.NewProjector(h.Options.Location, nil)
	dropped := 0
	for _, rec := range records {
		if _, err := p.ProjectOne(rec); err != nil {
			dropped++
		}
	}
	return dropped
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error codes carried in ErrorResponse.Code.
const (
	codeBadRequest = "bad_request"
	codeValidation = "validation"
	codeMalformed  = "malformed_booking"
	codeNotFound   = "not_found"
	codeInternal   = "internal"
)

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message, Code: errorCode(status, err)}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func errorCode(status int, err error) string {
	var verr *validationError
	switch {
	case errors.As(err, &verr):
		return codeValidation
	case timeline.IsMalformed(err):
		return codeMalformed
	case status == http.StatusNotFound || timeline.IsNotFound(err):
		return codeNotFound
	case status >= http.StatusInternalServerError:
		return codeInternal
	default:
		return codeBadRequest
	}
}

// validationError is a flattened validator.ValidationErrors.
type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

// validationDetails flattens validator errors into "field: tag" messages.
func validationDetails(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
	}
	return &validationError{msg: strings.Join(msgs, "; ")}
}
