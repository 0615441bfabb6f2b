/*
store.go - Persistence interface for booking records

PURPOSE:
  Defines the interface between the HTTP layer and the database. The
  engine itself never touches storage: handlers load records through a
  Store and hand the resolved slice to the pipeline.

KEY INTERFACES:
  Store: Save, get, list and delete booking records; list providers

STORAGE CONTRACT:
  - Records are stored as received. Malformed dates/times are kept so the
    calendar can demonstrate dropping them; validation of required fields
    happens at the API boundary.
  - ListBookings returns records in insertion order. Month cells show the
    first entries of a day in this order.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - timeline/store/memory.go: In-memory for testing

SEE ALSO:
  - api/handlers.go: Uses Store
*/
package timeline

import "context"

// Store handles persistence of booking records.
type Store interface {
	// SaveBooking inserts or replaces a record.
	SaveBooking(ctx context.Context, rec BookingRecord) error

	// GetBooking returns ErrBookingNotFound when id is unknown.
	GetBooking(ctx context.Context, id string) (BookingRecord, error)

	// ListBookings returns every record for a provider in insertion order.
	ListBookings(ctx context.Context, providerID string) ([]BookingRecord, error)

	// DeleteBooking returns ErrBookingNotFound when id is unknown.
	DeleteBooking(ctx context.Context, id string) error

	// ListProviders returns the distinct provider ids, sorted.
	ListProviders(ctx context.Context) ([]string, error)

	// Reset removes every record.
	Reset(ctx context.Context) error
}
