// Package ics exports projected bookings as an iCalendar (RFC 5545) feed.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/warp/booking-timeline/timeline"
)

const productID = "-//booking-timeline//calendar export//EN"

// Export writes one VEVENT per interval. UIDs are "<booking id>@<domain>"
// so re-exports update rather than duplicate events in subscribers.
func Export(name, domain string, intervals []timeline.Interval, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetName(name)
		cal.SetXWRCalName(name)
	}

	for _, iv := range intervals {
		ev := cal.AddEvent(fmt.Sprintf("%s@%s", iv.BookingID(), domain))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(iv.Start)
		ev.SetEndAt(iv.End)
		ev.SetSummary(summary(iv))
		if iv.Booking != nil {
			if services := iv.Booking.ServiceNames(); services != "" {
				ev.SetDescription(services)
			}
			ev.SetStatus(statusFor(iv.Booking.Status))
		}
	}

	return cal.Serialize()
}

func summary(iv timeline.Interval) string {
	if title := iv.Title(); title != "" {
		return title
	}
	return "Booking " + iv.BookingID()
}

func statusFor(s timeline.Status) ical.ObjectStatus {
	switch s {
	case timeline.StatusConfirmed:
		return ical.ObjectStatusConfirmed
	case timeline.StatusCompleted:
		return ical.ObjectStatusCompleted
	case timeline.StatusCancelled:
		return ical.ObjectStatusCancelled
	default:
		return ical.ObjectStatusTentative
	}
}
