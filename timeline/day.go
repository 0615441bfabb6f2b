package timeline

import (
	"fmt"
	"time"
)

// =============================================================================
// RENDER PRIMITIVES - Shared by the day and week engines
// =============================================================================

// DetailsFunc receives the booking behind a clicked block.
type DetailsFunc func(BookingRecord)

// Box is one absolutely positioned booking block.
// Top and Height are pixels; Left and Width are percentages of the grid.
type Box struct {
	BookingID string    `json:"booking_id"`
	Title     string    `json:"title"`
	Services  string    `json:"services"`
	TimeRange string    `json:"time_range"`
	Status    Status    `json:"status"`
	Color     Color     `json:"color"`
	Class     string    `json:"class"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Top       float64   `json:"top"`
	Height    float64   `json:"height"`
	Left      float64   `json:"left"`
	Width     float64   `json:"width"`

	interval Interval
}

// Interval returns the projected interval behind the box.
func (b Box) Interval() Interval { return b.interval }

// Open invokes fn once with the box's booking. It returns false when there
// is nothing to report (no callback or no booking).
func (b Box) Open(fn DetailsFunc) bool {
	return openInterval(b.interval, fn)
}

func openInterval(iv Interval, fn DetailsFunc) bool {
	if fn == nil || iv.Booking == nil {
		return false
	}
	fn(*iv.Booking)
	return true
}

func newBox(iv Interval, loc *time.Location) Box {
	start, end := iv.Start.In(loc), iv.End.In(loc)
	status := StatusUnknown
	services := ""
	if iv.Booking != nil {
		status = iv.Booking.Status
		services = iv.Booking.ServiceNames()
	}
	color := ColorFor(status)
	return Box{
		BookingID: iv.BookingID(),
		Title:     iv.Title(),
		Services:  services,
		TimeRange: start.Format("15:04") + " – " + end.Format("15:04"),
		Status:    status,
		Color:     color,
		Class:     color.Class(),
		Start:     start,
		End:       end,
		interval:  iv,
	}
}

// HourLabel is one row of the time axis.
type HourLabel struct {
	Hour  int     `json:"hour"`
	Label string  `json:"label"`
	Top   float64 `json:"top"`
}

func hourLabels(from, to int, hourHeight float64) []HourLabel {
	labels := make([]HourLabel, 0, to-from)
	for h := from; h < to; h++ {
		labels = append(labels, HourLabel{
			Hour:  h,
			Label: fmt.Sprintf("%02d:00", h),
			Top:   float64(h-from) * hourHeight,
		})
	}
	return labels
}

// =============================================================================
// DAY LAYOUT ENGINE - One 24-hour column
// =============================================================================

// DayGrid is the day view: a 24-hour axis and full-width boxes.
// Overlapping bookings are not packed into sub-columns; they stack.
type DayGrid struct {
	Date    time.Time   `json:"date"`
	IsToday bool        `json:"is_today"`
	Height  float64     `json:"height"`
	Hours   []HourLabel `json:"hours"`
	Boxes   []Box       `json:"boxes"`
}

// LayoutDay positions the intervals starting on date.
func LayoutDay(date time.Time, intervals []Interval, opts Options, today time.Time) DayGrid {
	opts = opts.Normalize()
	loc := opts.Location
	day := StartOfDay(date.In(loc))
	h := opts.HourHeight

	grid := DayGrid{
		Date:    day,
		IsToday: SameDay(day, today),
		Height:  24 * h,
		Hours:   hourLabels(0, 24, h),
		Boxes:   []Box{},
	}

	for _, iv := range intervals {
		start := iv.Start.In(loc)
		if !SameDay(day, start) {
			continue
		}
		startMin := MinutesSinceMidnight(start)
		endMin := MinutesSinceMidnight(iv.End.In(loc))
		height := (endMin - startMin) / 60 * h
		if height <= 0 {
			// Crosses midnight or is degenerate.
			continue
		}

		box := newBox(iv, loc)
		box.Top = startMin / 60 * h
		box.Height = height
		box.Left = 0
		box.Width = 100
		grid.Boxes = append(grid.Boxes, box)
	}
	return grid
}
