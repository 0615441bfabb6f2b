package timeline

import "time"

// =============================================================================
// PERIOD - Inclusive run of calendar days shown by a view
// =============================================================================

// Period is an inclusive range of calendar days [Start, End].
// Both ends are midnight-normalized.
//
// Examples:
//   - Day view:   Jun 10 - Jun 10
//   - Week view:  Mon Jun 10 - Sun Jun 16
//   - Month view: Jun 1 - Jun 30
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains returns true if t's calendar date is within [Start, End].
func (p Period) Contains(t time.Time) bool {
	d := StartOfDay(t.In(p.Start.Location()))
	return !d.Before(p.Start) && !d.After(p.End)
}

// Days returns every date in the period.
func (p Period) Days() []time.Time {
	var days []time.Time
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Bounds returns the half-open instant range [Start, End+1 day).
func (p Period) Bounds() (time.Time, time.Time) {
	return p.Start, p.End.AddDate(0, 0, 1)
}

func (p Period) String() string {
	return "[" + FormatDate(p.Start) + ", " + FormatDate(p.End) + "]"
}

// PeriodFor returns the days a granularity shows around anchor.
// Unrecognised granularities fall back to a single day.
func PeriodFor(g Granularity, anchor time.Time) Period {
	switch g {
	case GranularityWeek:
		start := StartOfWeek(anchor)
		return Period{Start: start, End: start.AddDate(0, 0, 6)}
	case GranularityMonth:
		return Period{Start: StartOfMonth(anchor), End: EndOfMonth(anchor)}
	default:
		d := StartOfDay(anchor)
		return Period{Start: d, End: d}
	}
}

// Filter keeps intervals whose start date falls within the period.
func (p Period) Filter(intervals []Interval) []Interval {
	var out []Interval
	for _, iv := range intervals {
		if p.Contains(iv.Start) {
			out = append(out, iv)
		}
	}
	return out
}
