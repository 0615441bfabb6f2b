package timeline

import "time"

// =============================================================================
// LAYOUT OPTIONS
// =============================================================================

const (
	DefaultHourHeight       = 60.0
	DefaultVisibleStartHour = 6
	DefaultVisibleEndHour   = 24
	DefaultMonthCellLimit   = 3
)

// Options controls layout geometry. Zero values are replaced by defaults
// in Normalize.
type Options struct {
	// HourHeight is the pixel height of one hour row.
	HourHeight float64

	// VisibleStartHour / VisibleEndHour bound the week view's time axis.
	VisibleStartHour int
	VisibleEndHour   int

	// MonthCellLimit caps the entries shown in one month cell.
	MonthCellLimit int

	// Location is used for "today" and calendar-day comparisons.
	Location *time.Location
}

// DefaultOptions returns the standard geometry (60px hours, 06:00-24:00
// week window, 3 entries per month cell).
func DefaultOptions() Options {
	return Options{
		HourHeight:       DefaultHourHeight,
		VisibleStartHour: DefaultVisibleStartHour,
		VisibleEndHour:   DefaultVisibleEndHour,
		MonthCellLimit:   DefaultMonthCellLimit,
		Location:         time.Local,
	}
}

// Normalize fills zero or out-of-range values with defaults.
func (o Options) Normalize() Options {
	if o.HourHeight <= 0 {
		o.HourHeight = DefaultHourHeight
	}
	if o.VisibleStartHour < 0 || o.VisibleStartHour > 23 {
		o.VisibleStartHour = DefaultVisibleStartHour
	}
	if o.VisibleEndHour <= o.VisibleStartHour || o.VisibleEndHour > 24 {
		o.VisibleEndHour = DefaultVisibleEndHour
	}
	if o.MonthCellLimit <= 0 {
		o.MonthCellLimit = DefaultMonthCellLimit
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// =============================================================================
// STATUS COLORS
// =============================================================================

// Color is the color family of a rendered booking.
type Color string

const (
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorAmber  Color = "amber"
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
)

// ColorFor maps a status onto its fixed color family.
func ColorFor(s Status) Color {
	switch s {
	case StatusConfirmed:
		return ColorGreen
	case StatusCompleted:
		return ColorBlue
	case StatusPending:
		return ColorAmber
	case StatusCancelled:
		return ColorRed
	default:
		return ColorPurple
	}
}

// Class returns the CSS utility classes for a color family.
func (c Color) Class() string {
	return "bg-" + string(c) + "-100 border-" + string(c) + "-500 text-" + string(c) + "-800"
}

// Hex returns the fill used by the SVG renderer.
func (c Color) Hex() string {
	switch c {
	case ColorGreen:
		return "#22c55e"
	case ColorBlue:
		return "#3b82f6"
	case ColorAmber:
		return "#f59e0b"
	case ColorRed:
		return "#ef4444"
	default:
		return "#a855f7"
	}
}
