/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Rendered grids are
  returned as the engine's own types (timeline.View); everything around
  them (view state, labels, requests) lives here.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Request bodies carry go-playground/validator tags. Only presence and
  enum checks happen here; dates, times and durations are stored as
  received and judged by the calendar at render time.

SEE ALSO:
  - handlers.go: Uses these types
  - timeline/types.go: BookingRecord
*/
package api

import (
	"strings"

	"github.com/warp/booking-timeline/timeline"
)

// =============================================================================
// BOOKINGS
// =============================================================================

// CreateBookingRequest is the body of POST /api/providers/{providerID}/bookings.
type CreateBookingRequest struct {
	ID            string           `json:"id" validate:"omitempty,max=128"`
	Date          string           `json:"date" validate:"required"`
	Time          string           `json:"time" validate:"required"`
	Services      []ServiceRequest `json:"services" validate:"required,min=1,dive"`
	Status        string           `json:"status" validate:"omitempty,oneof=pending confirmed completed cancelled canceled no-show no_show noshow"`
	PaymentStatus string           `json:"payment_status" validate:"omitempty,oneof=paid partial pending"`
	Customer      CustomerDTO      `json:"customer"`
	Recurrence    string           `json:"recurrence" validate:"omitempty,max=512"`
}

// ServiceRequest is one booked service. Duration accepts a number or a
// numeric string; anything else is kept as an invalid duration.
type ServiceRequest struct {
	Name     string           `json:"name" validate:"required"`
	Duration timeline.Minutes `json:"duration"`
}

// CustomerDTO is display-only customer data.
type CustomerDTO struct {
	FirstName    string `json:"first_name" validate:"max=128"`
	LastName     string `json:"last_name" validate:"max=128"`
	BusinessName string `json:"business_name,omitempty" validate:"max=256"`
}

// normalize lowercases the enum fields before validation.
func (r *CreateBookingRequest) normalize() {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.PaymentStatus = strings.ToLower(strings.TrimSpace(r.PaymentStatus))
	r.Recurrence = strings.TrimSpace(r.Recurrence)
}

// toRecord builds the stored record.
func (r CreateBookingRequest) toRecord(id, providerID string) timeline.BookingRecord {
	rec := timeline.BookingRecord{
		ID:            id,
		ProviderID:    providerID,
		Date:          r.Date,
		Time:          r.Time,
		Status:        timeline.ParseStatus(r.Status),
		PaymentStatus: timeline.ParsePaymentStatus(r.PaymentStatus),
		Customer: timeline.Customer{
			FirstName:    r.Customer.FirstName,
			LastName:     r.Customer.LastName,
			BusinessName: r.Customer.BusinessName,
		},
		Recurrence: r.Recurrence,
		Services:   make([]timeline.Service, len(r.Services)),
	}
	for i, s := range r.Services {
		rec.Services[i] = timeline.Service{Name: s.Name, Duration: s.Duration}
	}
	return rec
}

// =============================================================================
// CALENDAR
// =============================================================================

// PeriodDTO is an inclusive date range.
type PeriodDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ViewStateDTO is the navigation state as sent to clients. Date is the
// anchor as YYYY-MM-DD; clients echo view and date back on the next request.
type ViewStateDTO struct {
	View   string    `json:"view"`
	Date   string    `json:"date"`
	Label  string    `json:"label"`
	Period PeriodDTO `json:"period"`
}

func toViewStateDTO(s timeline.ViewState) ViewStateDTO {
	p := s.Period()
	return ViewStateDTO{
		View:   string(s.Granularity),
		Date:   timeline.FormatDate(s.Anchor),
		Label:  s.Label(),
		Period: PeriodDTO{Start: timeline.FormatDate(p.Start), End: timeline.FormatDate(p.End)},
	}
}

// CalendarResponse is a rendered view plus its navigation state.
type CalendarResponse struct {
	ProviderID string        `json:"provider_id"`
	State      ViewStateDTO  `json:"state"`
	Today      string        `json:"today"`
	Dropped    int           `json:"dropped"`
	View       timeline.View `json:"view"`
}

// OpenBookingResponse is the result of clicking a rendered block.
type OpenBookingResponse struct {
	State   ViewStateDTO           `json:"state"`
	Booking timeline.BookingRecord `json:"booking"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo data set.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ProviderID  string `json:"provider_id"`
}

// LoadScenarioRequest is the body of POST /api/scenarios/load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// =============================================================================
// COMMON
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
