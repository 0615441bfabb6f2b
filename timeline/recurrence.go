package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"
)

// =============================================================================
// RECURRENCE EXPANSION - Standing appointments -> concrete records
// =============================================================================

const defaultMaxOccurrences = 500

// Expander turns records carrying an RRULE into one record per occurrence
// inside a period. One-off records pass through untouched.
type Expander struct {
	Location *time.Location
	Logger   *zap.Logger

	// MaxOccurrences caps the expansion of a single record. Zero means
	// defaultMaxOccurrences.
	MaxOccurrences int
}

// NewExpander returns an expander composing instants in loc.
func NewExpander(loc *time.Location, logger *zap.Logger) *Expander {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Expander{Location: loc, Logger: logger}
}

// Expand returns the records with every recurring one replaced by its
// occurrences starting within p. A record whose rule or base date/time
// cannot be read is passed through unchanged; the projector decides its fate.
func (e *Expander) Expand(records []BookingRecord, p Period) []BookingRecord {
	out := make([]BookingRecord, 0, len(records))
	for _, rec := range records {
		if strings.TrimSpace(rec.Recurrence) == "" {
			out = append(out, rec)
			continue
		}
		occurrences, err := e.Occurrences(rec, p)
		if err != nil {
			e.logger().Warn("recurrence not expanded",
				zap.String("booking_id", rec.ID),
				zap.String("rrule", rec.Recurrence),
				zap.Error(err),
			)
			out = append(out, rec)
			continue
		}
		out = append(out, occurrences...)
	}
	return out
}

// Occurrences expands a single recurring record within p.
// Each occurrence gets the id "<base id>@YYYY-MM-DD".
func (e *Expander) Occurrences(rec BookingRecord, p Period) ([]BookingRecord, error) {
	loc := e.location()
	day, err := ParseDate(rec.Date, loc)
	if err != nil {
		return nil, err
	}
	hour, minute, err := ParseClock(rec.Time)
	if err != nil {
		return nil, err
	}

	rule, err := ParseRecurrence(rec.Recurrence)
	if err != nil {
		return nil, &ProjectionError{BookingID: rec.ID, Field: "recurrence", Value: rec.Recurrence, Err: err}
	}
	rule.DTStart(time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc))

	from, to := p.Bounds()
	from, to = from.In(loc), to.In(loc)

	limit := e.MaxOccurrences
	if limit <= 0 {
		limit = defaultMaxOccurrences
	}

	var out []BookingRecord
	for _, at := range rule.Between(from, to, true) {
		at = at.In(loc)
		if !at.Before(to) {
			continue
		}
		if len(out) >= limit {
			e.logger().Warn("recurrence truncated",
				zap.String("booking_id", rec.ID),
				zap.Int("cap", limit),
			)
			break
		}
		occ := rec
		occ.ID = rec.ID + "@" + FormatDate(at)
		occ.Date = FormatDate(at)
		occ.Time = at.Format("15:04")
		occ.Recurrence = ""
		out = append(out, occ)
	}
	return out, nil
}

// ParseRecurrence reads an RRULE body, with or without the "RRULE:" prefix.
func ParseRecurrence(s string) (*rrule.RRule, error) {
	body := strings.TrimPrefix(strings.TrimSpace(s), "RRULE:")
	rule, err := rrule.StrToRRule(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
	}
	return rule, nil
}

func (e *Expander) location() *time.Location {
	if e.Location == nil {
		return time.Local
	}
	return e.Location
}

func (e *Expander) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
