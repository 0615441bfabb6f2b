/*
errors.go - Centralized error types for the timeline engine

PURPOSE:
  All error types in one place. None of these ever escape a render: the
  projector logs them and drops the record. They are exported so callers
  validating input up front (API, store) can use errors.Is().

ERROR CATEGORIES:
  1. Projection errors - A record cannot become an interval
  2. Lookup errors - Store and view lookups

SEE ALSO:
  - projector.go: Produces ProjectionError
  - store.go: Uses ErrBookingNotFound
*/
package timeline

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMalformedDate is returned when a record's date cannot be parsed.
	ErrMalformedDate = errors.New("malformed booking date")

	// ErrMalformedTime is returned when a record's time is not HH:MM.
	ErrMalformedTime = errors.New("malformed booking time")

	// ErrNonPositiveDuration is returned when the summed service durations
	// do not move the end past the start.
	ErrNonPositiveDuration = errors.New("booking has no positive duration")

	// ErrDurationOutOfRange is returned when the summed durations do not fit
	// in a time.Duration.
	ErrDurationOutOfRange = errors.New("booking duration out of range")

	// ErrBookingNotFound is returned when a booking id has no record.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidRecurrence is returned when an RRULE cannot be parsed.
	ErrInvalidRecurrence = errors.New("invalid recurrence rule")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ProjectionError explains why a record was dropped.
type ProjectionError struct {
	BookingID string
	Field     string // "date", "time", "services" or "recurrence"
	Value     string
	Err       error
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("booking %q: %s %q: %v", e.BookingID, e.Field, e.Value, e.Err)
}

func (e *ProjectionError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsMalformed returns true if the error describes unusable booking data.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedDate) ||
		errors.Is(err, ErrMalformedTime) ||
		errors.Is(err, ErrNonPositiveDuration) ||
		errors.Is(err, ErrDurationOutOfRange) ||
		errors.Is(err, ErrInvalidRecurrence)
}

// IsNotFound returns true if the error indicates a missing booking.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBookingNotFound)
}
