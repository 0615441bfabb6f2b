package timeline

import (
	"fmt"
	"time"
)

// =============================================================================
// MONTH LAYOUT ENGINE - Sunday-first 7-column day grid
// =============================================================================

// MonthEntry is one visible booking inside a month cell.
type MonthEntry struct {
	BookingID string    `json:"booking_id"`
	Title     string    `json:"title"`
	Time      string    `json:"time"`
	Status    Status    `json:"status"`
	Color     Color     `json:"color"`
	Class     string    `json:"class"`
	Start     time.Time `json:"start"`

	interval Interval
}

// Open invokes fn once with the entry's booking.
func (e MonthEntry) Open(fn DetailsFunc) bool {
	return openInterval(e.interval, fn)
}

// Interval returns the projected interval behind the entry.
func (e MonthEntry) Interval() Interval { return e.interval }

// MonthCell is one square of the month grid. Padding cells before the 1st
// and after the last day have no date and no entries.
type MonthCell struct {
	Date          *time.Time   `json:"date,omitempty"`
	Padding       bool         `json:"padding"`
	Day           int          `json:"day,omitempty"`
	IsToday       bool         `json:"is_today"`
	Entries       []MonthEntry `json:"entries"`
	Total         int          `json:"total"`
	Overflow      int          `json:"overflow"`
	OverflowLabel string       `json:"overflow_label,omitempty"`
}

// MonthGrid is the month view. Cells is row-major, len(Cells) % 7 == 0.
type MonthGrid struct {
	Month    time.Time   `json:"month"`
	Weekdays []string    `json:"weekdays"`
	Cells    []MonthCell `json:"cells"`
}

// Weeks splits the cells into rows of seven.
func (g MonthGrid) Weeks() [][]MonthCell {
	var rows [][]MonthCell
	for i := 0; i+7 <= len(g.Cells); i += 7 {
		rows = append(rows, g.Cells[i:i+7])
	}
	return rows
}

var sundayFirst = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// LayoutMonth buckets intervals into the days of anchor's month.
// Each cell shows at most opts.MonthCellLimit entries; the remainder is
// summarised as "+N more" and cannot be opened.
func LayoutMonth(anchor time.Time, intervals []Interval, opts Options, today time.Time) MonthGrid {
	opts = opts.Normalize()
	loc := opts.Location
	period := PeriodFor(GranularityMonth, anchor.In(loc))
	limit := opts.MonthCellLimit

	buckets := make(map[string][]Interval)
	for _, iv := range intervals {
		start := iv.Start.In(loc)
		if !period.Contains(start) {
			continue
		}
		key := FormatDate(start)
		buckets[key] = append(buckets[key], iv)
	}

	grid := MonthGrid{
		Month:    period.Start,
		Weekdays: append([]string(nil), sundayFirst...),
	}

	leading := int(period.Start.Weekday())
	for i := 0; i < leading; i++ {
		grid.Cells = append(grid.Cells, MonthCell{Padding: true, Entries: []MonthEntry{}})
	}

	for _, day := range period.Days() {
		day := day
		items := buckets[FormatDate(day)]
		cell := MonthCell{
			Date:    &day,
			Day:     day.Day(),
			IsToday: SameDay(day, today),
			Total:   len(items),
			Entries: []MonthEntry{},
		}
		for i, iv := range items {
			if i >= limit {
				break
			}
			cell.Entries = append(cell.Entries, newMonthEntry(iv, loc))
		}
		if len(items) > limit {
			cell.Overflow = len(items) - limit
			cell.OverflowLabel = fmt.Sprintf("+%d more", cell.Overflow)
		}
		grid.Cells = append(grid.Cells, cell)
	}

	for len(grid.Cells)%7 != 0 {
		grid.Cells = append(grid.Cells, MonthCell{Padding: true, Entries: []MonthEntry{}})
	}
	return grid
}

func newMonthEntry(iv Interval, loc *time.Location) MonthEntry {
	status := StatusUnknown
	if iv.Booking != nil {
		status = iv.Booking.Status
	}
	color := ColorFor(status)
	start := iv.Start.In(loc)
	return MonthEntry{
		BookingID: iv.BookingID(),
		Title:     iv.Title(),
		Time:      start.Format("15:04"),
		Status:    status,
		Color:     color,
		Class:     color.Class(),
		Start:     start,
		interval:  iv,
	}
}
