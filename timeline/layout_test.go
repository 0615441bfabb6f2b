package timeline_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/booking-timeline/timeline"
)

func project(t *testing.T, records ...timeline.BookingRecord) []timeline.Interval {
	t.Helper()
	return newProjector().Project(records)
}

// =============================================================================
// DAY VIEW TESTS
// =============================================================================

func TestLayoutDay_PositionsByMinutes(t *testing.T) {
	// GIVEN: A 45-minute booking at 14:30, 60px hours
	intervals := project(t, booking("b1", "2024-06-10", "14:30", 45))

	// WHEN: Laying out that day
	grid := timeline.LayoutDay(date(2024, 6, 10), intervals, utcOptions(), date(2024, 6, 10))

	// THEN: Top is 870px and height 45px, full width
	require.Len(t, grid.Boxes, 1)
	box := grid.Boxes[0]
	assert.Equal(t, 870.0, box.Top)
	assert.Equal(t, 45.0, box.Height)
	assert.Equal(t, 0.0, box.Left)
	assert.Equal(t, 100.0, box.Width)
	assert.Equal(t, "14:30 – 15:15", box.TimeRange)
	assert.Equal(t, timeline.ColorGreen, box.Color)
	assert.Equal(t, "bg-green-100 border-green-500 text-green-800", box.Class)
	assert.True(t, grid.IsToday)
	assert.Equal(t, 1440.0, grid.Height)
	assert.Len(t, grid.Hours, 24)
	assert.Equal(t, "00:00", grid.Hours[0].Label)
	assert.Equal(t, "23:00", grid.Hours[23].Label)
}

func TestLayoutDay_OnlyIncludesThatDay(t *testing.T) {
	intervals := project(t,
		booking("mon", "2024-06-10", "09:00", 30),
		booking("tue", "2024-06-11", "09:00", 30),
	)

	grid := timeline.LayoutDay(date(2024, 6, 11), intervals, utcOptions(), date(2024, 6, 10))

	require.Len(t, grid.Boxes, 1)
	assert.Equal(t, "tue", grid.Boxes[0].BookingID)
	assert.False(t, grid.IsToday)
}

func TestLayoutDay_OverlapsStackWithoutPacking(t *testing.T) {
	intervals := project(t,
		booking("a", "2024-06-10", "10:00", 60),
		booking("b", "2024-06-10", "10:30", 60),
	)

	grid := timeline.LayoutDay(date(2024, 6, 10), intervals, utcOptions(), date(2024, 6, 10))

	require.Len(t, grid.Boxes, 2)
	for _, b := range grid.Boxes {
		assert.Equal(t, 0.0, b.Left)
		assert.Equal(t, 100.0, b.Width)
	}
}

func TestLayoutDay_SkipsBookingsCrossingMidnight(t *testing.T) {
	intervals := project(t, booking("late", "2024-06-10", "23:30", 60))

	grid := timeline.LayoutDay(date(2024, 6, 10), intervals, utcOptions(), date(2024, 6, 10))

	assert.Empty(t, grid.Boxes)
}

func TestLayoutDay_HourHeightScales(t *testing.T) {
	opts := utcOptions()
	opts.HourHeight = 100
	intervals := project(t, booking("b1", "2024-06-10", "09:30", 30))

	grid := timeline.LayoutDay(date(2024, 6, 10), intervals, opts, date(2024, 6, 10))

	require.Len(t, grid.Boxes, 1)
	assert.Equal(t, 950.0, grid.Boxes[0].Top)
	assert.Equal(t, 50.0, grid.Boxes[0].Height)
}

// =============================================================================
// WEEK VIEW TESTS
// =============================================================================

func TestLayoutWeek_MondayFirstColumns(t *testing.T) {
	// GIVEN: An anchor on Wednesday 2024-06-12
	// WHEN: Laying out the week
	grid := timeline.LayoutWeek(date(2024, 6, 12), nil, utcOptions(), date(2024, 6, 12))

	// THEN: Seven columns Mon 10 .. Sun 16, Wednesday marked today
	require.Len(t, grid.Columns, 7)
	assert.Equal(t, date(2024, 6, 10), grid.Start)
	assert.Equal(t, date(2024, 6, 16), grid.End)
	assert.Equal(t, "Mon", grid.Columns[0].Weekday)
	assert.Equal(t, "Sun", grid.Columns[6].Weekday)
	assert.True(t, grid.Columns[2].IsToday)
	assert.InDelta(t, 100.0/7, grid.ColumnWidth, 1e-9)
	assert.Equal(t, 6, grid.MinHour)
	assert.Equal(t, 24, grid.MaxHour)
	assert.Equal(t, 18*60.0, grid.Height)
	assert.Len(t, grid.Hours, 18)
	assert.Equal(t, "06:00", grid.Hours[0].Label)
}

func TestLayoutWeek_BucketsByStartDate(t *testing.T) {
	// GIVEN: Bookings on Wednesday and Sunday, and one the following Monday
	intervals := project(t,
		booking("wed", "2024-06-12", "14:30", 45),
		booking("sun", "2024-06-16", "10:00", 30),
		booking("next", "2024-06-17", "10:00", 30),
	)

	// WHEN: Laying out the week of June 10
	grid := timeline.LayoutWeek(date(2024, 6, 10), intervals, utcOptions(), date(2024, 6, 10))

	// THEN: Each lands in its own column, the next-week one is absent
	require.Len(t, grid.Columns[2].Boxes, 1)
	wed := grid.Columns[2].Boxes[0]
	assert.Equal(t, "wed", wed.BookingID)
	assert.Equal(t, 510.0, wed.Top)
	assert.Equal(t, 45.0, wed.Height)
	assert.InDelta(t, 2*100.0/7, wed.Left, 1e-9)

	require.Len(t, grid.Columns[6].Boxes, 1)
	assert.Equal(t, "sun", grid.Columns[6].Boxes[0].BookingID)

	total := 0
	for _, col := range grid.Columns {
		total += len(col.Boxes)
	}
	assert.Equal(t, 2, total)
}

func TestLayoutWeek_KeepsBookingsOutsideVisibleWindow(t *testing.T) {
	// GIVEN: One booking entirely before 06:00, one straddling it and one past midnight
	intervals := project(t,
		booking("hidden", "2024-06-10", "04:00", 60),
		booking("straddle", "2024-06-11", "05:00", 120),
		booking("late", "2024-06-12", "23:00", 120),
	)

	// WHEN: Laying out the week of June 10
	grid := timeline.LayoutWeek(date(2024, 6, 10), intervals, utcOptions(), date(2024, 6, 10))

	// THEN: Each sits in its start-date column at its true offset from 06:00
	require.Len(t, grid.Columns[0].Boxes, 1)
	hidden := grid.Columns[0].Boxes[0]
	assert.Equal(t, "hidden", hidden.BookingID)
	assert.Equal(t, -120.0, hidden.Top)
	assert.Equal(t, 60.0, hidden.Height)

	require.Len(t, grid.Columns[1].Boxes, 1)
	straddle := grid.Columns[1].Boxes[0]
	assert.Equal(t, "straddle", straddle.BookingID)
	assert.Equal(t, -60.0, straddle.Top)
	assert.Equal(t, 120.0, straddle.Height)

	// AND: Only the end is capped at the bottom of the day
	require.Len(t, grid.Columns[2].Boxes, 1)
	late := grid.Columns[2].Boxes[0]
	assert.Equal(t, 1020.0, late.Top)
	assert.Equal(t, 60.0, late.Height)
	assert.Equal(t, grid.Height, late.Top+late.Height)
}

func TestLayoutWeek_EveryIntervalInExactlyOneColumn(t *testing.T) {
	var records []timeline.BookingRecord
	for i, clock := range []string{"00:00", "03:15", "05:59", "06:00", "12:30", "23:45"} {
		records = append(records, booking(clock, fmt.Sprintf("2024-06-%02d", 10+i), clock, 30))
	}
	intervals := project(t, records...)

	grid := timeline.LayoutWeek(date(2024, 6, 12), intervals, utcOptions(), date(2024, 6, 12))

	seen := map[string]int{}
	for _, col := range grid.Columns {
		for _, b := range col.Boxes {
			seen[b.BookingID]++
			assert.True(t, timeline.SameDay(col.Date, b.Interval().Start), b.BookingID)
		}
	}
	for _, iv := range intervals {
		assert.Equal(t, 1, seen[iv.BookingID()], iv.BookingID())
	}
}

// =============================================================================
// MONTH VIEW TESTS
// =============================================================================

func TestLayoutMonth_SundayFirstPadding(t *testing.T) {
	// GIVEN: June 2024, which starts on a Saturday
	grid := timeline.LayoutMonth(date(2024, 6, 15), nil, utcOptions(), date(2024, 6, 15))

	// THEN: Six leading padding cells, 30 day cells, padded to 42
	require.Len(t, grid.Cells, 42)
	assert.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, grid.Weekdays)
	for i := 0; i < 6; i++ {
		assert.True(t, grid.Cells[i].Padding, "cell %d", i)
	}
	assert.False(t, grid.Cells[6].Padding)
	assert.Equal(t, 1, grid.Cells[6].Day)
	assert.Equal(t, 30, grid.Cells[35].Day)
	for i := 36; i < 42; i++ {
		assert.True(t, grid.Cells[i].Padding, "cell %d", i)
	}
	assert.True(t, grid.Cells[6+14].IsToday)
	assert.Len(t, grid.Weeks(), 6)

	// AND: Padding cells carry no date, day cells carry their own
	assert.Nil(t, grid.Cells[0].Date)
	assert.Nil(t, grid.Cells[41].Date)
	require.NotNil(t, grid.Cells[6].Date)
	assert.Equal(t, date(2024, 6, 1), *grid.Cells[6].Date)
	require.NotNil(t, grid.Cells[35].Date)
	assert.Equal(t, date(2024, 6, 30), *grid.Cells[35].Date)
}

func TestMonthCell_PaddingSerializesWithoutDate(t *testing.T) {
	grid := timeline.LayoutMonth(date(2024, 6, 15), nil, utcOptions(), date(2024, 6, 15))

	padding, err := json.Marshal(grid.Cells[0])
	require.NoError(t, err)
	assert.NotContains(t, string(padding), `"date"`)

	first, err := json.Marshal(grid.Cells[6])
	require.NoError(t, err)
	assert.Contains(t, string(first), `"date":"2024-06-01T00:00:00Z"`)
}

func TestLayoutMonth_OverflowLabel(t *testing.T) {
	// GIVEN: Five bookings on June 12
	var records []timeline.BookingRecord
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		records = append(records, booking(id, "2024-06-12", "10:00", 30))
	}
	intervals := project(t, records...)

	// WHEN: Laying out June
	grid := timeline.LayoutMonth(date(2024, 6, 1), intervals, utcOptions(), date(2024, 6, 1))

	// THEN: The cell shows the first three in order and "+2 more"
	cell := grid.Cells[6+11]
	require.Equal(t, 12, cell.Day)
	require.Len(t, cell.Entries, 3)
	assert.Equal(t, "a", cell.Entries[0].BookingID)
	assert.Equal(t, "c", cell.Entries[2].BookingID)
	assert.Equal(t, "10:00", cell.Entries[0].Time)
	assert.Equal(t, 5, cell.Total)
	assert.Equal(t, 2, cell.Overflow)
	assert.Equal(t, "+2 more", cell.OverflowLabel)
}

func TestLayoutMonth_ExactlyLimitHasNoOverflow(t *testing.T) {
	intervals := project(t,
		booking("a", "2024-06-12", "10:00", 30),
		booking("b", "2024-06-12", "11:00", 30),
		booking("c", "2024-06-12", "12:00", 30),
	)

	grid := timeline.LayoutMonth(date(2024, 6, 1), intervals, utcOptions(), date(2024, 6, 1))

	cell := grid.Cells[6+11]
	assert.Len(t, cell.Entries, 3)
	assert.Equal(t, 0, cell.Overflow)
	assert.Empty(t, cell.OverflowLabel)
}

func TestLayoutMonth_IgnoresOtherMonths(t *testing.T) {
	intervals := project(t,
		booking("may", "2024-05-31", "10:00", 30),
		booking("jul", "2024-07-01", "10:00", 30),
	)

	grid := timeline.LayoutMonth(date(2024, 6, 1), intervals, utcOptions(), date(2024, 6, 1))

	for _, cell := range grid.Cells {
		assert.Empty(t, cell.Entries)
	}
}

// =============================================================================
// DISPATCH TESTS
// =============================================================================

func TestParseGranularity(t *testing.T) {
	assert.Equal(t, timeline.GranularityDay, timeline.ParseGranularity("day"))
	assert.Equal(t, timeline.GranularityWeek, timeline.ParseGranularity(" Week "))
	assert.Equal(t, timeline.GranularityMonth, timeline.ParseGranularity("MONTH"))
	assert.Equal(t, timeline.GranularityDay, timeline.ParseGranularity("year"))
	assert.Equal(t, timeline.GranularityDay, timeline.ParseGranularity(""))
	assert.False(t, timeline.Granularity("year").Valid())
}

func TestRender_RoutesToOneEngine(t *testing.T) {
	intervals := project(t, booking("b1", "2024-06-12", "10:00", 30))
	today := date(2024, 6, 12)

	day := timeline.Render(timeline.GranularityDay, today, intervals, utcOptions(), today)
	require.NotNil(t, day.Day)
	assert.Nil(t, day.Week)
	assert.Nil(t, day.Month)

	week := timeline.Render(timeline.GranularityWeek, today, intervals, utcOptions(), today)
	require.NotNil(t, week.Week)
	assert.Nil(t, week.Day)

	month := timeline.Render(timeline.GranularityMonth, today, intervals, utcOptions(), today)
	require.NotNil(t, month.Month)
	assert.Nil(t, month.Week)

	unknown := timeline.Render(timeline.Granularity("year"), today, intervals, utcOptions(), today)
	assert.Equal(t, timeline.GranularityDay, unknown.Granularity)
	require.NotNil(t, unknown.Day)
}

func TestRender_DroppedRecordsNeverAppear(t *testing.T) {
	// GIVEN: One good and one malformed record on the same day
	intervals := project(t,
		booking("good", "2024-06-12", "10:00", 30),
		booking("bad", "2024-06-12", "ab:cd", 30),
	)
	today := date(2024, 6, 12)

	// WHEN/THEN: No granularity shows the malformed one
	for _, g := range []timeline.Granularity{timeline.GranularityDay, timeline.GranularityWeek, timeline.GranularityMonth} {
		view := timeline.Render(g, today, intervals, utcOptions(), today)
		ids := []string{}
		for _, iv := range view.Intervals() {
			ids = append(ids, iv.BookingID())
		}
		assert.Equal(t, []string{"good"}, ids, "granularity=%s", g)
	}
}

func TestView_OpenInvokesCallbackOnce(t *testing.T) {
	intervals := project(t, booking("b1", "2024-06-12", "10:00", 30))
	today := date(2024, 6, 12)
	view := timeline.Render(timeline.GranularityWeek, today, intervals, utcOptions(), today)

	var opened []string
	ok := view.Open("b1", func(rec timeline.BookingRecord) { opened = append(opened, rec.ID) })

	assert.True(t, ok)
	assert.Equal(t, []string{"b1"}, opened)
	assert.False(t, view.Open("missing", func(timeline.BookingRecord) { t.Fatal("should not be called") }))
	assert.False(t, view.Open("b1", nil))
}

func TestView_OverflowEntriesAreNotClickable(t *testing.T) {
	var records []timeline.BookingRecord
	for _, id := range []string{"a", "b", "c", "d"} {
		records = append(records, booking(id, "2024-06-12", "10:00", 30))
	}
	today := date(2024, 6, 12)
	view := timeline.Render(timeline.GranularityMonth, today, project(t, records...), utcOptions(), today)

	assert.True(t, view.Open("c", func(timeline.BookingRecord) {}))
	assert.False(t, view.Open("d", func(timeline.BookingRecord) {}))
}

// =============================================================================
// COLOR TESTS
// =============================================================================

func TestColorFor(t *testing.T) {
	assert.Equal(t, timeline.ColorGreen, timeline.ColorFor(timeline.StatusConfirmed))
	assert.Equal(t, timeline.ColorBlue, timeline.ColorFor(timeline.StatusCompleted))
	assert.Equal(t, timeline.ColorAmber, timeline.ColorFor(timeline.StatusPending))
	assert.Equal(t, timeline.ColorRed, timeline.ColorFor(timeline.StatusCancelled))
	assert.Equal(t, timeline.ColorPurple, timeline.ColorFor(timeline.StatusNoShow))
	assert.Equal(t, timeline.ColorPurple, timeline.ColorFor(timeline.StatusUnknown))
}

func TestOptionsNormalize(t *testing.T) {
	opts := timeline.Options{VisibleStartHour: 20, VisibleEndHour: 8}.Normalize()

	assert.Equal(t, timeline.DefaultHourHeight, opts.HourHeight)
	assert.Equal(t, 20, opts.VisibleStartHour)
	assert.Equal(t, timeline.DefaultVisibleEndHour, opts.VisibleEndHour)
	assert.Equal(t, timeline.DefaultMonthCellLimit, opts.MonthCellLimit)
	assert.Equal(t, time.Local, opts.Location)
}
