package timeline_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/warp/booking-timeline/timeline"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func booking(id, date, clock string, minutes ...float64) timeline.BookingRecord {
	rec := timeline.BookingRecord{
		ID:       id,
		Date:     date,
		Time:     clock,
		Status:   timeline.StatusConfirmed,
		Customer: timeline.Customer{FirstName: "Ada", LastName: "Lovelace"},
	}
	for i, m := range minutes {
		rec.Services = append(rec.Services, timeline.Service{
			Name:     []string{"Cut", "Colour", "Wash", "Style"}[i%4],
			Duration: timeline.NewMinutes(m),
		})
	}
	return rec
}

func utcOptions() timeline.Options {
	opts := timeline.DefaultOptions()
	opts.Location = time.UTC
	return opts
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newProjector() *timeline.Projector {
	return timeline.NewProjector(time.UTC, zap.NewNop())
}

// =============================================================================
// PROJECTION TESTS
// =============================================================================

func TestProjectOne_ComposesStartAndSumsServices(t *testing.T) {
	// GIVEN: A booking at 14:30 with 30 + 15 minutes of services
	rec := booking("b1", "2024-06-10", "14:30", 30, 15)

	// WHEN: Projecting it
	iv, err := newProjector().ProjectOne(rec)

	// THEN: The interval runs 14:30 -> 15:15
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 14, 30, 0, 0, time.UTC), iv.Start)
	assert.Equal(t, time.Date(2024, 6, 10, 15, 15, 0, 0, time.UTC), iv.End)
	assert.Equal(t, 45*time.Minute, iv.Duration())
	assert.Equal(t, "b1", iv.BookingID())
	assert.Equal(t, "Ada Lovelace", iv.Title())
}

func TestProjectOne_DurationEqualsSumOfServices(t *testing.T) {
	cases := [][]float64{{60}, {30, 15}, {10, 20, 30}, {7.5, 7.5}}
	for _, minutes := range cases {
		rec := booking("b", "2024-06-10", "09:00", minutes...)

		iv, err := newProjector().ProjectOne(rec)
		require.NoError(t, err)

		var sum float64
		for _, m := range minutes {
			sum += m
		}
		assert.Equal(t, time.Duration(sum*float64(time.Minute)), iv.End.Sub(iv.Start), "minutes=%v", minutes)
	}
}

func TestProjectOne_AcceptsTimestampDates(t *testing.T) {
	// GIVEN: A date delivered as a full timestamp
	rec := booking("b1", "2024-06-10T00:00:00.000Z", "09:00", 60)

	// WHEN/THEN: Only the calendar-date part is used
	iv, err := newProjector().ProjectOne(rec)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC), iv.Start)
}

func TestProjectOne_AcceptsSeconds(t *testing.T) {
	iv, err := newProjector().ProjectOne(booking("b1", "2024-06-10", "09:15:30", 30))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 9, 15, 0, 0, time.UTC), iv.Start)
}

func TestProjectOne_RejectsUnusableRecords(t *testing.T) {
	cases := []struct {
		name  string
		rec   timeline.BookingRecord
		field string
		want  error
	}{
		{"empty date", booking("b", "", "09:00", 30), "date", timeline.ErrMalformedDate},
		{"garbage date", booking("b", "next tuesday", "09:00", 30), "date", timeline.ErrMalformedDate},
		{"garbage time", booking("b", "2024-06-10", "ab:cd", 30), "time", timeline.ErrMalformedTime},
		{"hour out of range", booking("b", "2024-06-10", "25:00", 30), "time", timeline.ErrMalformedTime},
		{"minute out of range", booking("b", "2024-06-10", "10:75", 30), "time", timeline.ErrMalformedTime},
		{"no colon", booking("b", "2024-06-10", "1430", 30), "time", timeline.ErrMalformedTime},
		{"no services", booking("b", "2024-06-10", "09:00"), "services", timeline.ErrNonPositiveDuration},
		{"zero duration", booking("b", "2024-06-10", "09:00", 0), "services", timeline.ErrNonPositiveDuration},
		{"duration overflows", booking("b", "2024-06-10", "09:00", 1e13), "services", timeline.ErrDurationOutOfRange},
		{"summed duration overflows", booking("b", "2024-06-10", "09:00", 1e8, 1e8), "services", timeline.ErrDurationOutOfRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newProjector().ProjectOne(tc.rec)
			require.Error(t, err)

			var perr *timeline.ProjectionError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tc.field, perr.Field)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, timeline.IsMalformed(err))
		})
	}
}

func TestProjectOne_LongestRepresentableDuration(t *testing.T) {
	// GIVEN: A duration right at the time.Duration limit
	limit := float64(int64(time.Duration(math.MaxInt64) / time.Minute))

	// WHEN: Projecting it
	iv, err := newProjector().ProjectOne(booking("b", "2024-06-10", "09:00", limit))

	// THEN: It survives with the exact duration
	require.NoError(t, err)
	assert.Equal(t, time.Duration(limit)*time.Minute, iv.Duration())
}

func TestProjectOne_InvalidDurationCountsAsZero(t *testing.T) {
	// GIVEN: One readable and one unreadable duration
	rec := booking("b1", "2024-06-10", "09:00", 30)
	rec.Services = append(rec.Services, timeline.Service{Name: "Extra", Duration: timeline.ParseMinutes("abc")})

	// WHEN/THEN: Only the readable one contributes
	iv, err := newProjector().ProjectOne(rec)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, iv.Duration())
}

func TestProject_DropsBadRecordsAndKeepsOrder(t *testing.T) {
	// GIVEN: A malformed record between two good ones
	core, logs := observer.New(zap.WarnLevel)
	p := timeline.NewProjector(time.UTC, zap.New(core))

	records := []timeline.BookingRecord{
		booking("late", "2024-06-10", "16:00", 30),
		booking("bad", "2024-06-10", "ab:cd", 30),
		booking("early", "2024-06-10", "08:00", 30),
	}

	// WHEN: Projecting the batch
	var intervals []timeline.Interval
	require.NotPanics(t, func() { intervals = p.Project(records) })

	// THEN: The bad record is gone, the rest keep input order, and the drop is logged
	require.Len(t, intervals, 2)
	assert.Equal(t, "late", intervals[0].BookingID())
	assert.Equal(t, "early", intervals[1].BookingID())

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "dropping booking from calendar", entry.Message)
	assert.Equal(t, "bad", entry.ContextMap()["booking_id"])
}

func TestProject_DoesNotAliasInput(t *testing.T) {
	records := []timeline.BookingRecord{booking("b1", "2024-06-10", "09:00", 30)}

	intervals := newProjector().Project(records)
	records[0].ID = "changed"

	require.Len(t, intervals, 1)
	assert.Equal(t, "b1", intervals[0].BookingID())
}
