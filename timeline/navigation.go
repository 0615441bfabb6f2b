package timeline

import (
	"fmt"
	"time"
)

// =============================================================================
// VIEW STATE - Anchor date + granularity, single writer
// =============================================================================

// ViewState is what the calendar is currently looking at.
type ViewState struct {
	Anchor      time.Time   `json:"anchor"`
	Granularity Granularity `json:"granularity"`
}

// Shift moves the anchor by steps periods: days for the day view, 7-day
// weeks for the week view, calendar months for the month view.
func (s ViewState) Shift(steps int) ViewState {
	switch s.Granularity {
	case GranularityWeek:
		s.Anchor = s.Anchor.AddDate(0, 0, 7*steps)
	case GranularityMonth:
		s.Anchor = AddMonths(s.Anchor, steps)
	default:
		s.Anchor = s.Anchor.AddDate(0, 0, steps)
	}
	return s
}

// Period returns the days the state covers.
func (s ViewState) Period() Period { return PeriodFor(s.Granularity, s.Anchor) }

// Label returns the human readable period label.
func (s ViewState) Label() string { return PeriodLabel(s) }

// PeriodLabel formats the visible period:
//
//	day:   Monday, June 10, 2024
//	week:  June 10 – 16, 2024 | June 30 – July 6, 2024 | December 30, 2024 – January 5, 2025
//	month: June 2024
func PeriodLabel(s ViewState) string {
	switch s.Granularity {
	case GranularityWeek:
		start := StartOfWeek(s.Anchor)
		end := start.AddDate(0, 0, 6)
		switch {
		case start.Year() != end.Year():
			return start.Format("January 2, 2006") + " – " + end.Format("January 2, 2006")
		case start.Month() != end.Month():
			return fmt.Sprintf("%s %d – %s %d, %d", start.Month(), start.Day(), end.Month(), end.Day(), end.Year())
		default:
			return fmt.Sprintf("%s %d – %d, %d", start.Month(), start.Day(), end.Day(), end.Year())
		}
	case GranularityMonth:
		return s.Anchor.Format("January 2006")
	default:
		return s.Anchor.Format("Monday, January 2, 2006")
	}
}

// =============================================================================
// NAVIGATOR - Owns the ViewState
// =============================================================================

// Clock returns the current instant. Tests pass a fixed clock.
type Clock func() time.Time

// Navigator owns a ViewState and applies prev/next/today/granularity
// changes to it. It is not safe for concurrent use; each shell owns one.
type Navigator struct {
	state ViewState
	clock Clock
	loc   *time.Location
}

// NewNavigator starts on today's date in the day view.
func NewNavigator(clock Clock, loc *time.Location) *Navigator {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	n := &Navigator{clock: clock, loc: loc}
	n.state = ViewState{Anchor: n.today(), Granularity: GranularityDay}
	return n
}

// Restore replaces the state, e.g. from request parameters.
// Unknown granularities become the day view.
func (n *Navigator) Restore(s ViewState) {
	if !s.Granularity.Valid() {
		s.Granularity = GranularityDay
	}
	if s.Anchor.IsZero() {
		s.Anchor = n.today()
	}
	s.Anchor = StartOfDay(s.Anchor.In(n.loc))
	n.state = s
}

func (n *Navigator) State() ViewState { return n.state }

func (n *Navigator) Previous() ViewState {
	n.state = n.state.Shift(-1)
	return n.state
}

func (n *Navigator) Next() ViewState {
	n.state = n.state.Shift(1)
	return n.state
}

// Today resets the anchor to the current date, keeping the granularity.
func (n *Navigator) Today() ViewState {
	n.state.Anchor = n.today()
	return n.state
}

// SetGranularity switches views without moving the anchor.
func (n *Navigator) SetGranularity(g Granularity) ViewState {
	if !g.Valid() {
		g = GranularityDay
	}
	n.state.Granularity = g
	return n.state
}

func (n *Navigator) Label() string { return PeriodLabel(n.state) }

// Now returns the navigator clock's current instant in its location.
func (n *Navigator) Now() time.Time { return n.clock().In(n.loc) }

func (n *Navigator) today() time.Time { return StartOfDay(n.Now()) }
