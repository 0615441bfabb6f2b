/*
Package sqlite provides a SQLite-backed implementation of timeline.Store.

PURPOSE:
  Persists booking records exactly as received from the host application,
  including malformed dates, times and durations. Nothing is validated or
  normalized here: the calendar pipeline decides what is renderable.

KEY TABLES:
  bookings:         One row per booking record
  booking_services: Services of a booking, ordered by position

DURATIONS:
  Service durations are stored as decimal TEXT. An invalid duration is
  stored as NULL and read back as timeline.InvalidMinutes().

ORDERING:
  ListBookings returns records in insertion order (rowid). Replacing a
  record with SaveBooking keeps its position.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode.

USAGE:
  store, err := sqlite.New("./data/bookings.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - timeline/store.go: Interface definition
  - timeline/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/booking-timeline/timeline"
)

var _ timeline.Store = (*Store)(nil)

// Store implements timeline.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		provider_id TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		status TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		business_name TEXT,
		recurrence TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bookings_provider
		ON bookings(provider_id);

	CREATE TABLE IF NOT EXISTS booking_services (
		booking_id TEXT NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		duration TEXT,
		PRIMARY KEY (booking_id, position)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// BOOKINGS (timeline.Store interface)
// =============================================================================

// SaveBooking inserts or replaces a booking and its services.
func (s *Store) SaveBooking(ctx context.Context, rec timeline.BookingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO bookings (
			id, provider_id, date, time, status, payment_status,
			first_name, last_name, business_name, recurrence, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			provider_id = excluded.provider_id,
			date = excluded.date,
			time = excluded.time,
			status = excluded.status,
			payment_status = excluded.payment_status,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			business_name = excluded.business_name,
			recurrence = excluded.recurrence,
			updated_at = excluded.updated_at
	`
	_, err = sqlTx.ExecContext(ctx, query,
		rec.ID, rec.ProviderID, rec.Date, rec.Time,
		rec.Status.String(), rec.PaymentStatus.String(),
		rec.Customer.FirstName, rec.Customer.LastName,
		nullString(rec.Customer.BusinessName), nullString(rec.Recurrence),
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save booking %s: %w", rec.ID, err)
	}

	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM booking_services WHERE booking_id = ?", rec.ID); err != nil {
		return fmt.Errorf("failed to clear services of %s: %w", rec.ID, err)
	}
	for i, svc := range rec.Services {
		_, err := sqlTx.ExecContext(ctx,
			"INSERT INTO booking_services (booking_id, position, name, duration) VALUES (?, ?, ?, ?)",
			rec.ID, i, svc.Name, nullString(svc.Duration.String()),
		)
		if err != nil {
			return fmt.Errorf("failed to save service %d of %s: %w", i, rec.ID, err)
		}
	}

	return sqlTx.Commit()
}

// GetBooking retrieves a booking by ID.
func (s *Store) GetBooking(ctx context.Context, id string) (timeline.BookingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectBookings+" WHERE id = ?", id)
	if err != nil {
		return timeline.BookingRecord{}, err
	}
	records, err := scanBookings(rows)
	if err != nil {
		return timeline.BookingRecord{}, err
	}
	if len(records) == 0 {
		return timeline.BookingRecord{}, timeline.ErrBookingNotFound
	}

	if err := s.loadServices(ctx, records); err != nil {
		return timeline.BookingRecord{}, err
	}
	return records[0], nil
}

// ListBookings returns every booking of a provider in insertion order.
func (s *Store) ListBookings(ctx context.Context, providerID string) ([]timeline.BookingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, selectBookings+" WHERE provider_id = ? ORDER BY rowid", providerID)
	if err != nil {
		return nil, err
	}
	records, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if err := s.loadServices(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteBooking removes a booking and its services.
func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return timeline.ErrBookingNotFound
	}
	return nil
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"booking_services", "bookings"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// ListProviders returns every provider that has at least one booking.
func (s *Store) ListProviders(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT provider_id FROM bookings ORDER BY provider_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	providers := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		providers = append(providers, id)
	}
	return providers, rows.Err()
}

// =============================================================================
// SCANNING
// =============================================================================

const selectBookings = `
	SELECT id, provider_id, date, time, status, payment_status,
		first_name, last_name, business_name, recurrence
	FROM bookings`

func scanBookings(rows *sql.Rows) ([]timeline.BookingRecord, error) {
	defer rows.Close()

	records := []timeline.BookingRecord{}
	for rows.Next() {
		var rec timeline.BookingRecord
		var status, payment string
		var business, recurrence sql.NullString
		if err := rows.Scan(
			&rec.ID, &rec.ProviderID, &rec.Date, &rec.Time, &status, &payment,
			&rec.Customer.FirstName, &rec.Customer.LastName, &business, &recurrence,
		); err != nil {
			return nil, err
		}
		rec.Status = timeline.ParseStatus(status)
		rec.PaymentStatus = timeline.ParsePaymentStatus(payment)
		rec.Customer.BusinessName = business.String
		rec.Recurrence = recurrence.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// loadServices fills Services for each record, in position order.
func (s *Store) loadServices(ctx context.Context, records []timeline.BookingRecord) error {
	for i := range records {
		rows, err := s.db.QueryContext(ctx,
			"SELECT name, duration FROM booking_services WHERE booking_id = ? ORDER BY position",
			records[i].ID,
		)
		if err != nil {
			return fmt.Errorf("failed to load services of %s: %w", records[i].ID, err)
		}

		services := []timeline.Service{}
		for rows.Next() {
			var svc timeline.Service
			var duration sql.NullString
			if err := rows.Scan(&svc.Name, &duration); err != nil {
				rows.Close()
				return err
			}
			svc.Duration = timeline.InvalidMinutes()
			if duration.Valid {
				svc.Duration = timeline.ParseMinutes(duration.String)
			}
			services = append(services, svc)
		}
		err = errors.Join(rows.Err(), rows.Close())
		if err != nil {
			return err
		}
		records[i].Services = services
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
