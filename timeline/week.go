package timeline

import (
	"math"
	"time"
)

// =============================================================================
// WEEK LAYOUT ENGINE - Seven Monday-first day columns
// =============================================================================

// A box never runs past the end of its start day.
const hoursPerDay = 24.0

// DayColumn is one day of the week view.
type DayColumn struct {
	Date    time.Time `json:"date"`
	Weekday string    `json:"weekday"`
	Day     int       `json:"day"`
	IsToday bool      `json:"is_today"`
	Left    float64   `json:"left"`
	Width   float64   `json:"width"`
	Boxes   []Box     `json:"boxes"`
}

// WeekGrid is the week view. The time axis covers [MinHour, MaxHour).
// Boxes keep their true position relative to MinHour, so a booking before
// the axis has a negative Top; hiding it is up to the viewport.
type WeekGrid struct {
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	MinHour     int         `json:"min_hour"`
	MaxHour     int         `json:"max_hour"`
	Height      float64     `json:"height"`
	ColumnWidth float64     `json:"column_width"`
	Hours       []HourLabel `json:"hours"`
	Columns     []DayColumn `json:"columns"`
}

// LayoutWeek lays out the Monday-start week containing anchor.
func LayoutWeek(anchor time.Time, intervals []Interval, opts Options, today time.Time) WeekGrid {
	opts = opts.Normalize()
	loc := opts.Location
	period := PeriodFor(GranularityWeek, anchor.In(loc))
	days := period.Days()
	h := opts.HourHeight
	minHour, maxHour := float64(opts.VisibleStartHour), float64(opts.VisibleEndHour)
	width := 100.0 / float64(len(days))

	grid := WeekGrid{
		Start:       period.Start,
		End:         period.End,
		MinHour:     opts.VisibleStartHour,
		MaxHour:     opts.VisibleEndHour,
		Height:      (maxHour - minHour) * h,
		ColumnWidth: width,
		Hours:       hourLabels(opts.VisibleStartHour, opts.VisibleEndHour, h),
		Columns:     make([]DayColumn, 0, len(days)),
	}

	for i, day := range days {
		col := DayColumn{
			Date:    day,
			Weekday: day.Format("Mon"),
			Day:     day.Day(),
			IsToday: SameDay(day, today),
			Left:    float64(i) * width,
			Width:   width,
			Boxes:   []Box{},
		}

		for _, iv := range intervals {
			start := iv.Start.In(loc)
			if !SameDay(day, start) {
				continue
			}
			from := HourOfDay(start)
			to := math.Min(from+iv.Duration().Hours(), hoursPerDay)

			box := newBox(iv, loc)
			box.Top = (from - minHour) * h
			box.Height = (to - from) * h
			box.Left = col.Left
			box.Width = width
			col.Boxes = append(col.Boxes, box)
		}
		grid.Columns = append(grid.Columns, col)
	}
	return grid
}
