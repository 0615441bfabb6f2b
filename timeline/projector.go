package timeline

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// =============================================================================
// EVENT PROJECTOR - BookingRecord -> Interval
// =============================================================================

var (
	nanosPerMinute = decimal.NewFromInt(int64(time.Minute))
	maxMinutes     = decimal.NewFromInt(int64(time.Duration(math.MaxInt64) / time.Minute))
)

// Projector turns raw booking records into intervals. It never fails on bad
// data: unusable records are logged and left out.
type Projector struct {
	Location *time.Location
	Logger   *zap.Logger
}

// NewProjector returns a projector composing instants in loc.
// A nil loc means time.Local; a nil logger discards diagnostics.
func NewProjector(loc *time.Location, logger *zap.Logger) *Projector {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{Location: loc, Logger: logger}
}

// Project converts every usable record. Output order follows input order.
func (p *Projector) Project(records []BookingRecord) []Interval {
	out := make([]Interval, 0, len(records))
	for i := range records {
		iv, err := p.ProjectOne(records[i])
		if err != nil {
			p.logger().Warn("dropping booking from calendar",
				zap.String("booking_id", records[i].ID),
				zap.Error(err),
			)
			continue
		}
		out = append(out, iv)
	}
	return out
}

// ProjectOne converts a single record. The returned error is always a
// *ProjectionError.
func (p *Projector) ProjectOne(rec BookingRecord) (Interval, error) {
	day, err := ParseDate(rec.Date, p.location())
	if err != nil {
		return Interval{}, &ProjectionError{BookingID: rec.ID, Field: "date", Value: rec.Date, Err: err}
	}

	hour, minute, err := ParseClock(rec.Time)
	if err != nil {
		return Interval{}, &ProjectionError{BookingID: rec.ID, Field: "time", Value: rec.Time, Err: err}
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, p.location())
	total := rec.TotalMinutes()
	if total.GreaterThan(maxMinutes) {
		return Interval{}, &ProjectionError{BookingID: rec.ID, Field: "services", Value: total.String(), Err: ErrDurationOutOfRange}
	}
	end := start.Add(time.Duration(total.Mul(nanosPerMinute).IntPart()))

	if !end.After(start) {
		return Interval{}, &ProjectionError{BookingID: rec.ID, Field: "services", Value: total.String(), Err: ErrNonPositiveDuration}
	}

	booking := rec
	return Interval{Start: start, End: end, Booking: &booking}, nil
}

func (p *Projector) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

func (p *Projector) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
