/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	bookings for demos. Every scenario is anchored on the current week so
	the calendar opens on populated data.

AVAILABLE SCENARIOS:

	busy-week:       A salon week: every status, overlaps, a crowded day
	messy-data:      Valid bookings mixed with ones the calendar must drop
	standing-clients: Weekly and fortnightly recurring appointments

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Save the scenario's booking records for its provider

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "busy-week"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description, provider
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Booking and calendar handlers
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/warp/booking-timeline/timeline"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

const demoProvider = "stylist-1"

var scenarios = []ScenarioDTO{
	{
		ID:          "busy-week",
		Name:        "Busy Week",
		Description: "Every booking status, overlapping appointments and a day with more bookings than a month cell shows",
		ProviderID:  demoProvider,
	},
	{
		ID:          "messy-data",
		Name:        "Messy Data",
		Description: "Bookings with bad dates, times and durations that the calendar leaves out",
		ProviderID:  demoProvider,
	},
	{
		ID:          "standing-clients",
		Name:        "Standing Clients",
		Description: "Weekly and fortnightly recurring appointments",
		ProviderID:  demoProvider,
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", validationDetails(err))
		return
	}

	var load func(context.Context) error
	switch req.ScenarioID {
	case "busy-week":
		load = h.loadBusyWeekScenario
	case "messy-data":
		load = h.loadMessyDataScenario
	case "standing-clients":
		load = h.loadStandingClientsScenario
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()
	h.mu.Lock()
	defer h.mu.Unlock()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	if err := load(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	h.currentScenario = req.ScenarioID

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// demoWeek returns the Monday of the current week.
func (h *Handler) demoWeek() time.Time {
	return timeline.StartOfWeek(h.now())
}

func (h *Handler) loadBusyWeekScenario(ctx context.Context) error {
	mon := h.demoWeek()
	wed := mon.AddDate(0, 0, 2)
	fri := mon.AddDate(0, 0, 4)

	records := []timeline.BookingRecord{
		demoBooking("bw-001", mon, "09:00", timeline.StatusCompleted, timeline.PaymentPaid, "Maya", "Patel", svc("Cut", 45)),
		demoBooking("bw-002", mon, "10:30", timeline.StatusConfirmed, timeline.PaymentPaid, "Leo", "Garcia", svc("Cut", 30), svc("Beard trim", 15)),
		demoBooking("bw-003", mon, "14:00", timeline.StatusCancelled, timeline.PaymentUnknown, "Ana", "Silva", svc("Colour", 90)),
		demoBooking("bw-004", mon.AddDate(0, 0, 1), "11:00", timeline.StatusNoShow, timeline.PaymentPending, "Tom", "Becker", svc("Cut", 30)),
		// Overlapping pair: stacked, not packed.
		demoBooking("bw-005", wed, "13:00", timeline.StatusConfirmed, timeline.PaymentPartial, "Iris", "Novak", svc("Highlights", 120)),
		demoBooking("bw-006", wed, "14:00", timeline.StatusPending, timeline.PaymentPending, "Sam", "Okafor", svc("Cut", 30)),
		// Early start: partly above the week view's 06:00 axis.
		demoBooking("bw-007", mon.AddDate(0, 0, 3), "05:30", timeline.StatusConfirmed, timeline.PaymentPaid, "Nora", "Lind", svc("Bridal prep", 90)),
	}

	// Crowded Friday: more bookings than a month cell shows.
	for i, first := range []string{"Ella", "Finn", "Gus", "Hana", "Ivan"} {
		clock := fmt.Sprintf("%02d:00", 9+i*2)
		records = append(records, demoBooking(fmt.Sprintf("bw-1%02d", i), fri, clock,
			timeline.StatusConfirmed, timeline.PaymentPaid, first, "Moss", svc("Blow-dry", 40)))
	}

	salon := demoBooking("bw-200", mon.AddDate(0, 0, 5), "10:00", timeline.StatusPending, timeline.PaymentPending, "", "", svc("Team styling", 180))
	salon.Customer.BusinessName = "Riverside Theatre"
	records = append(records, salon)

	return h.saveAll(ctx, records)
}

func (h *Handler) loadMessyDataScenario(ctx context.Context) error {
	mon := h.demoWeek()
	tue := mon.AddDate(0, 0, 1)

	good := demoBooking("md-001", tue, "09:00", timeline.StatusConfirmed, timeline.PaymentPaid, "Ada", "Lovelace", svc("Cut", 30))

	stringDuration := demoBooking("md-002", tue, "10:00", timeline.StatusConfirmed, timeline.PaymentPaid, "Alan", "Turing", svc("Cut", 30))
	stringDuration.Services = append(stringDuration.Services, timeline.Service{Name: "Consultation", Duration: timeline.ParseMinutes("15")})

	timestampDate := demoBooking("md-003", tue, "11:00", timeline.StatusPending, timeline.PaymentPending, "Grace", "Hopper", svc("Wash", 20))
	timestampDate.Date = timeline.FormatDate(tue) + "T00:00:00.000Z"

	badTime := demoBooking("md-101", tue, "12:00", timeline.StatusConfirmed, timeline.PaymentPaid, "Bad", "Time", svc("Cut", 30))
	badTime.Time = "noonish"

	badDate := demoBooking("md-102", tue, "13:00", timeline.StatusConfirmed, timeline.PaymentPaid, "Bad", "Date", svc("Cut", 30))
	badDate.Date = "next tuesday"

	noDuration := demoBooking("md-103", tue, "14:00", timeline.StatusConfirmed, timeline.PaymentPaid, "No", "Duration")
	noDuration.Services = []timeline.Service{{Name: "Mystery", Duration: timeline.InvalidMinutes()}}

	outOfRange := demoBooking("md-104", tue, "15:00", timeline.StatusConfirmed, timeline.PaymentPaid, "Late", "Clock", svc("Cut", 30))
	outOfRange.Time = "25:00"

	return h.saveAll(ctx, []timeline.BookingRecord{good, stringDuration, timestampDate, badTime, badDate, noDuration, outOfRange})
}

func (h *Handler) loadStandingClientsScenario(ctx context.Context) error {
	mon := h.demoWeek()

	weekly := demoBooking("sc-001", mon, "08:30", timeline.StatusConfirmed, timeline.PaymentPaid, "Ruth", "Baker", svc("Wash & set", 45))
	weekly.Recurrence = "FREQ=WEEKLY;COUNT=12"

	fortnightly := demoBooking("sc-002", mon.AddDate(0, 0, 3), "17:00", timeline.StatusConfirmed, timeline.PaymentPartial, "Omar", "Haddad", svc("Skin fade", 40))
	fortnightly.Recurrence = "FREQ=WEEKLY;INTERVAL=2;COUNT=6"

	monthly := demoBooking("sc-003", mon.AddDate(0, 0, 2), "12:00", timeline.StatusPending, timeline.PaymentPending, "Lena", "Vogt", svc("Colour refresh", 75))
	monthly.Recurrence = "RRULE:FREQ=MONTHLY;COUNT=4"

	oneOff := demoBooking("sc-100", mon.AddDate(0, 0, 1), "15:00", timeline.StatusConfirmed, timeline.PaymentPaid, "Kai", "Berg", svc("Cut", 30))

	return h.saveAll(ctx, []timeline.BookingRecord{weekly, fortnightly, monthly, oneOff})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) saveAll(ctx context.Context, records []timeline.BookingRecord) error {
	for _, rec := range records {
		if err := h.Store.SaveBooking(ctx, rec); err != nil {
			return fmt.Errorf("save %s: %w", rec.ID, err)
		}
	}
	return nil
}

func svc(name string, minutes float64) timeline.Service {
	return timeline.Service{Name: name, Duration: timeline.NewMinutes(minutes)}
}

func demoBooking(id string, day time.Time, clock string, status timeline.Status, payment timeline.PaymentStatus, first, last string, services ...timeline.Service) timeline.BookingRecord {
	return timeline.BookingRecord{
		ID:            id,
		ProviderID:    demoProvider,
		Date:          timeline.FormatDate(day),
		Time:          clock,
		Services:      services,
		Status:        status,
		PaymentStatus: payment,
		Customer:      timeline.Customer{FirstName: first, LastName: last},
	}
}
