package timeline_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/warp/booking-timeline/timeline"
)

func TestExpander_WeeklyWithinWeek(t *testing.T) {
	// GIVEN: A weekly standing appointment starting June 3
	rec := booking("std", "2024-06-03", "10:00", 30)
	rec.Recurrence = "RRULE:FREQ=WEEKLY;COUNT=4"
	e := timeline.NewExpander(time.UTC, zap.NewNop())

	// WHEN: Expanding over the week of June 10
	out := e.Expand([]timeline.BookingRecord{rec}, timeline.PeriodFor(timeline.GranularityWeek, date(2024, 6, 12)))

	// THEN: One concrete occurrence on the 10th
	require.Len(t, out, 1)
	assert.Equal(t, "std@2024-06-10", out[0].ID)
	assert.Equal(t, "2024-06-10", out[0].Date)
	assert.Equal(t, "10:00", out[0].Time)
	assert.Empty(t, out[0].Recurrence)
	assert.Equal(t, rec.Services, out[0].Services)
}

func TestExpander_RespectsCount(t *testing.T) {
	rec := booking("std", "2024-06-03", "10:00", 30)
	rec.Recurrence = "FREQ=DAILY;COUNT=3"
	e := timeline.NewExpander(time.UTC, zap.NewNop())

	out, err := e.Occurrences(rec, timeline.PeriodFor(timeline.GranularityMonth, date(2024, 6, 1)))

	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "2024-06-05", out[2].Date)
}

func TestExpander_CapsOccurrences(t *testing.T) {
	rec := booking("std", "2024-06-01", "10:00", 30)
	rec.Recurrence = "FREQ=DAILY"
	e := timeline.NewExpander(time.UTC, zap.NewNop())
	e.MaxOccurrences = 5

	out, err := e.Occurrences(rec, timeline.PeriodFor(timeline.GranularityMonth, date(2024, 6, 1)))

	require.NoError(t, err)
	assert.Len(t, out, 5)
}

func TestExpander_PassesThroughOneOffs(t *testing.T) {
	rec := booking("once", "2024-06-03", "10:00", 30)
	e := timeline.NewExpander(time.UTC, zap.NewNop())

	out := e.Expand([]timeline.BookingRecord{rec}, timeline.PeriodFor(timeline.GranularityDay, date(2024, 7, 1)))

	require.Len(t, out, 1)
	assert.Equal(t, "once", out[0].ID)
}

func TestExpander_BadRuleKeepsRecordAndLogs(t *testing.T) {
	// GIVEN: An unparsable rule
	core, logs := observer.New(zap.WarnLevel)
	rec := booking("odd", "2024-06-03", "10:00", 30)
	rec.Recurrence = "FREQ=SOMETIMES"
	e := timeline.NewExpander(time.UTC, zap.New(core))

	// WHEN: Expanding
	out := e.Expand([]timeline.BookingRecord{rec}, timeline.PeriodFor(timeline.GranularityMonth, date(2024, 6, 1)))

	// THEN: The record survives unchanged and the failure is logged
	require.Len(t, out, 1)
	assert.Equal(t, rec, out[0])
	assert.Equal(t, 1, logs.FilterMessage("recurrence not expanded").Len())

	_, err := e.Occurrences(rec, timeline.PeriodFor(timeline.GranularityMonth, date(2024, 6, 1)))
	assert.ErrorIs(t, err, timeline.ErrInvalidRecurrence)
}
