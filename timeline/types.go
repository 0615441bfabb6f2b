/*
Package timeline provides the booking timeline engine.

PURPOSE:
  Turns a flat list of booking records (date string, time string, services
  with durations, status) into calendar layouts at three granularities:
  day, week and month. Everything here is a pure derivation from the
  records and the current view state; nothing is cached between renders.

KEY CONCEPTS IN THIS FILE (types.go):
  - BookingRecord: External booking as delivered by the host API layer
  - Service: One booked service and its duration in minutes
  - Minutes: Decimal duration that tolerates non-numeric input
  - Status / PaymentStatus: Closed enums with an explicit unknown variant
  - Interval: A projected [Start, End) instant pair with a back-reference

PIPELINE:
  records -> Projector -> []Interval -> Render(granularity) -> View
  View boxes carry the booking back to the caller via DetailsFunc.

SEE ALSO:
  - projector.go: Record -> Interval projection
  - day.go, week.go, month.go: Layout engines
  - dispatch.go: Granularity routing
  - navigation.go: View state and period labels
*/
package timeline

import (
	"bytes"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// =============================================================================
// BOOKING RECORD - External input, never mutated by the engine
// =============================================================================

// BookingRecord is a booking as stored by the host application.
// Date and Time are kept as raw strings; the Projector decides whether they
// are usable.
type BookingRecord struct {
	ID            string        `json:"id"`
	ProviderID    string        `json:"provider_id,omitempty"`
	Date          string        `json:"date"`
	Time          string        `json:"time"`
	Services      []Service     `json:"services"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Customer      Customer      `json:"customer"`

	// Recurrence is an optional RRULE body (e.g. "FREQ=WEEKLY;COUNT=4").
	// Empty means a one-off booking.
	Recurrence string `json:"recurrence,omitempty"`
}

// TotalMinutes sums every service duration. Invalid durations count as 0.
func (b BookingRecord) TotalMinutes() decimal.Decimal {
	total := decimal.Zero
	for _, s := range b.Services {
		total = total.Add(s.Duration.Value())
	}
	return total
}

// ServiceNames returns the service names joined with ", ".
func (b BookingRecord) ServiceNames() string {
	names := make([]string, 0, len(b.Services))
	for _, s := range b.Services {
		if s.Name != "" {
			names = append(names, s.Name)
		}
	}
	return strings.Join(names, ", ")
}

// Service is a single booked service.
type Service struct {
	Name     string  `json:"name"`
	Duration Minutes `json:"duration"`
}

// Customer is display-only data.
type Customer struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	BusinessName string `json:"business_name,omitempty"`
}

// DisplayName prefers the business name, then "First Last".
func (c Customer) DisplayName() string {
	if c.BusinessName != "" {
		return c.BusinessName
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// =============================================================================
// MINUTES - Decimal duration with a validity flag
// =============================================================================

// Minutes is a service duration. A value that was missing or could not be
// read as a number is invalid and contributes zero to any total.
type Minutes struct {
	value decimal.Decimal
	valid bool
}

// NewMinutes returns a valid duration of n minutes.
func NewMinutes(n float64) Minutes {
	return Minutes{value: decimal.NewFromFloat(n), valid: true}
}

// MinutesFromDecimal returns a valid duration.
func MinutesFromDecimal(d decimal.Decimal) Minutes {
	return Minutes{value: d, valid: true}
}

// InvalidMinutes returns a duration that contributes nothing.
func InvalidMinutes() Minutes { return Minutes{} }

// ParseMinutes reads a decimal string. Unparsable input yields an invalid value.
func ParseMinutes(s string) Minutes {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Minutes{}
	}
	return Minutes{value: d, valid: true}
}

func (m Minutes) Valid() bool { return m.valid }

// Value returns the duration, or zero when invalid.
func (m Minutes) Value() decimal.Decimal {
	if !m.valid {
		return decimal.Zero
	}
	return m.value
}

func (m Minutes) String() string {
	if !m.valid {
		return ""
	}
	return m.value.String()
}

// MarshalJSON writes a number, or null when invalid.
func (m Minutes) MarshalJSON() ([]byte, error) {
	if !m.valid {
		return []byte("null"), nil
	}
	return []byte(m.value.String()), nil
}

// UnmarshalJSON accepts a number or a numeric string. Anything else leaves
// the value invalid rather than failing the whole record.
func (m *Minutes) UnmarshalJSON(data []byte) error {
	*m = Minutes{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*m = ParseMinutes(s)
		return nil
	}
	*m = ParseMinutes(string(data))
	return nil
}

// =============================================================================
// STATUS - Closed enums with an explicit unknown variant
// =============================================================================

type Status uint8

const (
	StatusUnknown Status = iota
	StatusPending
	StatusConfirmed
	StatusCompleted
	StatusCancelled
	StatusNoShow
)

var statusNames = map[Status]string{
	StatusUnknown:   "unknown",
	StatusPending:   "pending",
	StatusConfirmed: "confirmed",
	StatusCompleted: "completed",
	StatusCancelled: "cancelled",
	StatusNoShow:    "no-show",
}

// ParseStatus maps a loose status string onto the enum.
// Unrecognised values become StatusUnknown.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending
	case "confirmed":
		return StatusConfirmed
	case "completed":
		return StatusCompleted
	case "cancelled", "canceled":
		return StatusCancelled
	case "no-show", "no_show", "noshow":
		return StatusNoShow
	default:
		return StatusUnknown
	}
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Status) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = StatusUnknown
		return nil
	}
	*s = ParseStatus(raw)
	return nil
}

type PaymentStatus uint8

const (
	PaymentUnknown PaymentStatus = iota
	PaymentPaid
	PaymentPartial
	PaymentPending
)

// ParsePaymentStatus maps a loose payment string onto the enum.
func ParsePaymentStatus(s string) PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid":
		return PaymentPaid
	case "partial":
		return PaymentPartial
	case "pending":
		return PaymentPending
	default:
		return PaymentUnknown
	}
}

func (p PaymentStatus) String() string {
	switch p {
	case PaymentPaid:
		return "paid"
	case PaymentPartial:
		return "partial"
	case PaymentPending:
		return "pending"
	default:
		return "unknown"
	}
}

func (p PaymentStatus) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }

func (p *PaymentStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*p = PaymentUnknown
		return nil
	}
	*p = ParsePaymentStatus(raw)
	return nil
}

// =============================================================================
// INTERVAL - Derived on every render, never persisted
// =============================================================================

// Interval is a projected booking. End is strictly after Start.
type Interval struct {
	Start   time.Time
	End     time.Time
	Booking *BookingRecord
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration { return iv.End.Sub(iv.Start) }

// BookingID returns the id of the originating record, if any.
func (iv Interval) BookingID() string {
	if iv.Booking == nil {
		return ""
	}
	return iv.Booking.ID
}

// Title is the display text for a rendered block.
func (iv Interval) Title() string {
	if iv.Booking == nil {
		return ""
	}
	return iv.Booking.Customer.DisplayName()
}
