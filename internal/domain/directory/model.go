package directory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mindwell/mindwell/pkg/civil"
)

// Provider maps to the provider table.
type Provider struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	UserID    string         `db:"user_id" json:"user_id"`
	Name      string         `db:"name" json:"name"`
	Specialty *string        `db:"specialty" json:"specialty,omitempty"`
	Bio       *string        `db:"bio" json:"bio,omitempty"`
	Approved  bool           `db:"approved" json:"approved"`
	Schedule  WeeklySchedule `db:"schedule" json:"schedule,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// DayAvailability is one weekday's working window. Start and End are only
// meaningful when Available is true.
type DayAvailability struct {
	Available bool            `json:"available"`
	Start     civil.TimeOfDay `json:"start,omitempty"`
	End       civil.TimeOfDay `json:"end,omitempty"`
}

// WeeklySchedule maps canonical lowercase weekday names ("monday" .. "sunday")
// to that day's availability. Keys are normalized once when the schedule is
// saved; readers can rely on canonical form.
type WeeklySchedule map[string]DayAvailability

var weekdayNames = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// NormalizeWeekday lowercases and trims a weekday name and reports whether it
// names a real weekday.
func NormalizeWeekday(name string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	return n, weekdayNames[n]
}

// Normalize returns a copy of the schedule with canonical weekday keys.
// Unknown day names are an error; days not mentioned are treated as
// unavailable by readers.
func (ws WeeklySchedule) Normalize() (WeeklySchedule, error) {
	out := make(WeeklySchedule, len(ws))
	for day, avail := range ws {
		canonical, ok := NormalizeWeekday(day)
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", day)
		}
		if _, dup := out[canonical]; dup {
			return nil, fmt.Errorf("duplicate weekday %q", day)
		}
		out[canonical] = avail
	}
	return out, nil
}

// Validate checks that every available day has a well-formed window.
func (ws WeeklySchedule) Validate() error {
	for day, avail := range ws {
		if !weekdayNames[day] {
			return fmt.Errorf("unknown weekday %q", day)
		}
		if !avail.Available {
			continue
		}
		if avail.Start < 0 || avail.End > 24*60 {
			return fmt.Errorf("%s: window out of range", day)
		}
		if avail.Start >= avail.End {
			return fmt.Errorf("%s: start %s must be before end %s", day, avail.Start, avail.End)
		}
	}
	return nil
}

// ForDate returns the availability for the date's weekday. The second return
// is false when the weekday is absent from the schedule.
func (ws WeeklySchedule) ForDate(d civil.Date) (DayAvailability, bool) {
	name := strings.ToLower(d.Weekday().String())
	avail, ok := ws[name]
	return avail, ok
}
