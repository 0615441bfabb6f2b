// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/booking-timeline/timeline"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	bookings map[string]timeline.BookingRecord
	order    []string
}

func NewMemory() *Memory {
	return &Memory{bookings: make(map[string]timeline.BookingRecord)}
}

// SaveBooking inserts or replaces a record. Replacing keeps the original
// insertion position.
func (m *Memory) SaveBooking(_ context.Context, rec timeline.BookingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bookings[rec.ID]; !exists {
		m.order = append(m.order, rec.ID)
	}
	m.bookings[rec.ID] = cloneRecord(rec)
	return nil
}

func (m *Memory) GetBooking(_ context.Context, id string) (timeline.BookingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.bookings[id]
	if !ok {
		return timeline.BookingRecord{}, timeline.ErrBookingNotFound
	}
	return cloneRecord(rec), nil
}

func (m *Memory) ListBookings(_ context.Context, providerID string) ([]timeline.BookingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []timeline.BookingRecord{}
	for _, id := range m.order {
		rec := m.bookings[id]
		if rec.ProviderID == providerID {
			result = append(result, cloneRecord(rec))
		}
	}
	return result, nil
}

func (m *Memory) DeleteBooking(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bookings[id]; !ok {
		return timeline.ErrBookingNotFound
	}
	delete(m.bookings, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) ListProviders(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	providers := []string{}
	for _, rec := range m.bookings {
		if !seen[rec.ProviderID] {
			seen[rec.ProviderID] = true
			providers = append(providers, rec.ProviderID)
		}
	}
	sort.Strings(providers)
	return providers, nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bookings = make(map[string]timeline.BookingRecord)
	m.order = nil
	return nil
}

func cloneRecord(rec timeline.BookingRecord) timeline.BookingRecord {
	rec.Services = append([]timeline.Service(nil), rec.Services...)
	return rec
}
