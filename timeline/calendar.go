package timeline

import (
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// CALENDAR - The interactive shell
// =============================================================================

// Calendar ties the pipeline together for one viewer: it owns the
// navigation state and the details callback, and re-derives everything
// from the records on each Render.
type Calendar struct {
	projector *Projector
	expander  *Expander
	nav       *Navigator
	opts      Options

	onViewDetails DetailsFunc
}

// NewCalendar builds a shell starting on today's day view.
func NewCalendar(opts Options, logger *zap.Logger, clock Clock, onViewDetails DetailsFunc) *Calendar {
	opts = opts.Normalize()
	return &Calendar{
		projector:     NewProjector(opts.Location, logger),
		expander:      NewExpander(opts.Location, logger),
		nav:           NewNavigator(clock, opts.Location),
		opts:          opts,
		onViewDetails: onViewDetails,
	}
}

// Navigator exposes prev/next/today/granularity controls.
func (c *Calendar) Navigator() *Navigator { return c.nav }

func (c *Calendar) Options() Options { return c.opts }

// Intervals projects the records visible in the current period.
func (c *Calendar) Intervals(records []BookingRecord) []Interval {
	state := c.nav.State()
	expanded := c.expander.Expand(records, state.Period())
	return c.projector.Project(expanded)
}

// Render lays out records for the current view state.
func (c *Calendar) Render(records []BookingRecord) View {
	state := c.nav.State()
	return Render(state.Granularity, state.Anchor, c.Intervals(records), c.opts, c.today())
}

// Open forwards a click on bookingID in v to the details callback.
func (c *Calendar) Open(v View, bookingID string) bool {
	return v.Open(bookingID, c.onViewDetails)
}

func (c *Calendar) today() time.Time { return c.nav.Now() }
