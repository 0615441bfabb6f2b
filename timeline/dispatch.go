package timeline

import (
	"strings"
	"time"
)

// =============================================================================
// GRANULARITY DISPATCHER
// =============================================================================

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// ParseGranularity reads a view mode. Anything unrecognised is the day view.
func ParseGranularity(s string) Granularity {
	switch Granularity(strings.ToLower(strings.TrimSpace(s))) {
	case GranularityWeek:
		return GranularityWeek
	case GranularityMonth:
		return GranularityMonth
	default:
		return GranularityDay
	}
}

// Valid reports whether g is one of the three view modes.
func (g Granularity) Valid() bool {
	return g == GranularityDay || g == GranularityWeek || g == GranularityMonth
}

// View is a rendered grid. Exactly one of Day, Week, Month is set, matching
// Granularity.
type View struct {
	Granularity Granularity `json:"granularity"`
	Date        time.Time   `json:"date"`
	Day         *DayGrid    `json:"day,omitempty"`
	Week        *WeekGrid   `json:"week,omitempty"`
	Month       *MonthGrid  `json:"month,omitempty"`
}

// Render routes to the layout engine for g. Unknown values render the day view.
func Render(g Granularity, date time.Time, intervals []Interval, opts Options, today time.Time) View {
	switch g {
	case GranularityWeek:
		grid := LayoutWeek(date, intervals, opts, today)
		return View{Granularity: GranularityWeek, Date: date, Week: &grid}
	case GranularityMonth:
		grid := LayoutMonth(date, intervals, opts, today)
		return View{Granularity: GranularityMonth, Date: date, Month: &grid}
	default:
		grid := LayoutDay(date, intervals, opts, today)
		return View{Granularity: GranularityDay, Date: date, Day: &grid}
	}
}

// Intervals returns every interval the view renders as a clickable block,
// in render order.
func (v View) Intervals() []Interval {
	var out []Interval
	switch {
	case v.Day != nil:
		for _, b := range v.Day.Boxes {
			out = append(out, b.interval)
		}
	case v.Week != nil:
		for _, col := range v.Week.Columns {
			for _, b := range col.Boxes {
				out = append(out, b.interval)
			}
		}
	case v.Month != nil:
		for _, cell := range v.Month.Cells {
			for _, e := range cell.Entries {
				out = append(out, e.interval)
			}
		}
	}
	return out
}

// Open finds the rendered block for bookingID and invokes fn with its
// booking. Bookings hidden behind a month "+N more" label are not
// clickable and return false.
func (v View) Open(bookingID string, fn DetailsFunc) bool {
	for _, iv := range v.Intervals() {
		if iv.BookingID() == bookingID {
			return openInterval(iv, fn)
		}
	}
	return false
}
