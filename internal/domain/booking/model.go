package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/mindwell/mindwell/pkg/civil"
)

// Booking statuses. Scheduled is the only active status; the rest are
// terminal. Bookings are never deleted, only transitioned.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// DefaultDuration is the slot granularity in minutes.
const DefaultDuration = 30

// DefaultHorizonDays is the forward window for date-level availability.
const DefaultHorizonDays = 30

// Booking maps to the booking table.
type Booking struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	ProviderID  uuid.UUID       `db:"provider_id" json:"provider_id"`
	ClientID    string          `db:"client_id" json:"client_id"`
	Date        civil.Date      `db:"booking_date" json:"date"`
	Start       civil.TimeOfDay `db:"start_minutes" json:"start_time"`
	Duration    int             `db:"duration_minutes" json:"duration_minutes"`
	Status      string          `db:"status" json:"status"`
	Reason      *string         `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CancelledBy *string         `db:"cancelled_by" json:"cancelled_by,omitempty"`
	Notes       *string         `db:"notes" json:"notes,omitempty"`
	MeetingMode *string         `db:"meeting_mode" json:"meeting_mode,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// End returns the booking's exclusive end time.
func (b *Booking) End() civil.TimeOfDay {
	d := b.Duration
	if d <= 0 {
		d = DefaultDuration
	}
	return b.Start.Add(d)
}

// Active reports whether the booking counts toward conflict detection.
func (b *Booking) Active() bool {
	return b.Status == StatusScheduled
}

// Slot is an ephemeral bookable window. Slots are always derived from the
// schedule and current bookings, never persisted.
type Slot struct {
	Date     civil.Date      `json:"date"`
	Start    civil.TimeOfDay `json:"start_time"`
	Duration int             `json:"duration_minutes"`
}

// terminal statuses admit no further transitions.
var terminal = map[string]bool{
	StatusCompleted: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

var validStatuses = map[string]bool{
	StatusScheduled: true,
	StatusCompleted: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

// CanTransition reports whether a booking may move from one status to
// another. Only scheduled bookings transition; terminal statuses are
// immutable.
func CanTransition(from, to string) bool {
	if !validStatuses[from] || !validStatuses[to] {
		return false
	}
	if terminal[from] {
		return false
	}
	return from == StatusScheduled && terminal[to]
}

// Actor identifies the caller of a lifecycle operation.
type Actor struct {
	ID   string
	Role string
}
