package booking

import (
	"github.com/mindwell/mindwell/internal/domain/directory"
	"github.com/mindwell/mindwell/pkg/civil"
)

// GenerateSlots enumerates the free start times for one provider day. It is a
// pure function of its inputs: the provider's weekly schedule, the target
// date, and that date's active bookings. Results are ascending. A weekday that
// is absent or marked unavailable yields an empty sequence; that is a normal
// answer, not an error.
func GenerateSlots(schedule directory.WeeklySchedule, date civil.Date, active []*Booking, slotMinutes int) []civil.TimeOfDay {
	if slotMinutes <= 0 {
		slotMinutes = DefaultDuration
	}

	avail, ok := schedule.ForDate(date)
	if !ok || !avail.Available {
		return nil
	}

	var out []civil.TimeOfDay
	for start := avail.Start; start.Add(slotMinutes) <= avail.End; start = start.Add(slotMinutes) {
		if overlapsAny(start, start.Add(slotMinutes), active) {
			continue
		}
		out = append(out, start)
	}
	return out
}

// overlapsAny tests a candidate [start, end) window against every active
// booking on the same date. The half-open comparison covers a candidate
// inside a booking, partial overlap on either edge, and a candidate that
// contains a booking outright.
func overlapsAny(start, end civil.TimeOfDay, active []*Booking) bool {
	for _, b := range active {
		if !b.Active() {
			continue
		}
		if start < b.End() && end > b.Start {
			return true
		}
	}
	return false
}

// AvailableDates returns the dates in [from, from+horizonDays) whose weekday
// is marked available. This is a coarse pre-filter: a returned date may still
// yield zero slots once bookings are counted.
func AvailableDates(schedule directory.WeeklySchedule, from civil.Date, horizonDays int) []civil.Date {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	var out []civil.Date
	for i := 0; i < horizonDays; i++ {
		d := from.AddDays(i)
		if avail, ok := schedule.ForDate(d); ok && avail.Available {
			out = append(out, d)
		}
	}
	return out
}
