package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mindwell/mindwell/internal/domain/directory"
	"github.com/mindwell/mindwell/internal/platform/auth"
	"github.com/mindwell/mindwell/pkg/civil"
)

// Service is the booking engine: it derives availability from schedules and
// the active ledger, arbitrates concurrent booking attempts, and drives the
// appointment lifecycle.
type Service struct {
	bookings    Repository
	providers   ProviderDirectory
	slotMinutes int
	horizonDays int
	now         func() time.Time
}

func NewService(bookings Repository, providers ProviderDirectory, slotMinutes, horizonDays int) *Service {
	if slotMinutes <= 0 {
		slotMinutes = DefaultDuration
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	return &Service{
		bookings:    bookings,
		providers:   providers,
		slotMinutes: slotMinutes,
		horizonDays: horizonDays,
		now:         time.Now,
	}
}

func (s *Service) today() civil.Date {
	return civil.DateOf(s.now())
}

// checkProvider verifies the provider exists and is approved for booking.
func (s *Service) checkProvider(ctx context.Context, providerID uuid.UUID) error {
	exists, err := s.providers.Exists(ctx, providerID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrProviderNotFound
	}
	approved, err := s.providers.IsApproved(ctx, providerID)
	if err != nil {
		return err
	}
	if !approved {
		return ErrProviderUnapproved
	}
	return nil
}

// AvailableDates returns the provider's bookable dates over the configured
// horizon, starting today.
func (s *Service) AvailableDates(ctx context.Context, providerID uuid.UUID) ([]civil.Date, error) {
	if err := s.checkProvider(ctx, providerID); err != nil {
		return nil, err
	}
	schedule, err := s.providers.WeeklySchedule(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return AvailableDates(schedule, s.today(), s.horizonDays), nil
}

// ListSlots returns the free start times for one provider day. Past dates
// are rejected rather than answered with an empty list, so callers can tell
// an out-of-range query from a fully booked day.
func (s *Service) ListSlots(ctx context.Context, providerID uuid.UUID, date civil.Date) ([]Slot, error) {
	if err := s.checkProvider(ctx, providerID); err != nil {
		return nil, err
	}
	if date.Before(s.today()) {
		return nil, ErrPastDate
	}
	schedule, err := s.providers.WeeklySchedule(ctx, providerID)
	if err != nil {
		return nil, err
	}
	active, err := s.bookings.ListActiveByProviderDate(ctx, providerID, date)
	if err != nil {
		return nil, err
	}
	starts := GenerateSlots(schedule, date, active, s.slotMinutes)
	slots := make([]Slot, 0, len(starts))
	for _, start := range starts {
		slots = append(slots, Slot{Date: date, Start: start, Duration: s.slotMinutes})
	}
	return slots, nil
}

// BookInput is the client's booking request. ClientID comes from the
// authenticated context, never from the request body. Duration defaults to
// the slot granularity when zero.
type BookInput struct {
	ProviderID  uuid.UUID
	ClientID    string
	Date        civil.Date
	Start       civil.TimeOfDay
	Duration    int
	Notes       *string
	MeetingMode *string
}

// Book claims a slot. Validation runs against a current read of the ledger;
// the database's active-window exclusion guard is the final arbiter, so a
// concurrent winner surfaces here as ErrSlotConflict regardless of what the
// read showed.
func (s *Service) Book(ctx context.Context, in BookInput) (*Booking, error) {
	if in.ClientID == "" {
		return nil, fmt.Errorf("%w: client id is required", ErrValidation)
	}
	if in.ProviderID == uuid.Nil {
		return nil, fmt.Errorf("%w: provider id is required", ErrValidation)
	}
	duration := in.Duration
	if duration == 0 {
		duration = s.slotMinutes
	}
	if duration < 0 || duration%s.slotMinutes != 0 {
		return nil, fmt.Errorf("%w: duration must be a positive multiple of %d minutes", ErrValidation, s.slotMinutes)
	}
	if err := s.checkProvider(ctx, in.ProviderID); err != nil {
		return nil, err
	}
	if in.Date.Before(s.today()) {
		return nil, ErrPastDate
	}

	schedule, err := s.providers.WeeklySchedule(ctx, in.ProviderID)
	if err != nil {
		return nil, err
	}
	active, err := s.bookings.ListActiveByProviderDate(ctx, in.ProviderID, in.Date)
	if err != nil {
		return nil, err
	}
	if !slotFits(schedule, in.Date, active, in.Start, duration, s.slotMinutes) {
		return nil, ErrSlotUnavailable
	}

	b := &Booking{
		ProviderID:  in.ProviderID,
		ClientID:    in.ClientID,
		Date:        in.Date,
		Start:       in.Start,
		Duration:    duration,
		Status:      StatusScheduled,
		Notes:       in.Notes,
		MeetingMode: in.MeetingMode,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	return s.bookings.GetByID(ctx, b.ID)
}

// slotFits reports whether a booking of the given duration starting at start
// would be offered for this date: the start must be an offered slot and the
// full requested window must stay inside the day's availability without
// touching an active booking.
func slotFits(schedule directory.WeeklySchedule, date civil.Date, active []*Booking, start civil.TimeOfDay, duration, slotMinutes int) bool {
	offered := false
	for _, slot := range GenerateSlots(schedule, date, active, slotMinutes) {
		if slot == start {
			offered = true
			break
		}
	}
	if !offered {
		return false
	}
	if duration == slotMinutes {
		return true
	}
	avail, ok := schedule.ForDate(date)
	if !ok || start.Add(duration) > avail.End {
		return false
	}
	return !overlapsAny(start, start.Add(duration), active)
}

// CanModify reports whether the actor may view or operate on the booking.
// Admins always may; clients only on their own bookings; providers only on
// bookings against their own provider record.
func (s *Service) CanModify(ctx context.Context, actor Actor, b *Booking) (bool, error) {
	switch actor.Role {
	case auth.RoleAdmin:
		return true, nil
	case auth.RoleClient:
		return actor.ID == b.ClientID, nil
	case auth.RoleProvider:
		owner, err := s.providers.OwnerUserID(ctx, b.ProviderID)
		if err != nil {
			return false, err
		}
		return actor.ID == owner, nil
	}
	return false, nil
}

// Get fetches a booking the actor is allowed to see.
func (s *Service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.CanModify(ctx, actor, b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}
	return b, nil
}

// ListForActor returns bookings scoped to the actor's role: clients see
// their own, providers see their provider's, admins see everything.
func (s *Service) ListForActor(ctx context.Context, actor Actor, providerID uuid.UUID, f ListFilter, limit, offset int) ([]*Booking, int, error) {
	if f.Status != "" && !validStatuses[f.Status] {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	switch actor.Role {
	case auth.RoleClient:
		return s.bookings.ListByClient(ctx, actor.ID, f, limit, offset)
	case auth.RoleProvider:
		// Providers always see their own ledger, whatever was asked for.
		own, err := s.providers.ProviderIDForUser(ctx, actor.ID)
		if err != nil {
			return nil, 0, err
		}
		return s.bookings.ListByProvider(ctx, own, f, limit, offset)
	case auth.RoleAdmin:
		if providerID != uuid.Nil {
			return s.bookings.ListByProvider(ctx, providerID, f, limit, offset)
		}
		return s.bookings.List(ctx, f, limit, offset)
	}
	return nil, 0, ErrUnauthorized
}

// transition moves a scheduled booking to a terminal status.
func (s *Service) transition(ctx context.Context, actor Actor, id uuid.UUID, to string, mutate func(*Booking)) (*Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.CanModify(ctx, actor, b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}
	if !CanTransition(b.Status, to) {
		return nil, ErrInvalidTransition
	}
	b.Status = to
	if mutate != nil {
		mutate(b)
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Cancel transitions a scheduled booking to cancelled. A reason is required
// and is recorded alongside who cancelled.
func (s *Service) Cancel(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: cancellation reason is required", ErrValidation)
	}
	return s.transition(ctx, actor, id, StatusCancelled, func(b *Booking) {
		b.Reason = &reason
		by := actor.ID
		b.CancelledBy = &by
	})
}

// Complete marks a scheduled booking as held.
func (s *Service) Complete(ctx context.Context, actor Actor, id uuid.UUID) (*Booking, error) {
	return s.transition(ctx, actor, id, StatusCompleted, nil)
}

// MarkNoShow records that the client did not attend.
func (s *Service) MarkNoShow(ctx context.Context, actor Actor, id uuid.UUID) (*Booking, error) {
	return s.transition(ctx, actor, id, StatusNoShow, nil)
}

// Reschedule moves a scheduled booking to a new date and start, keeping its
// identity and history. The new slot is validated like a fresh booking,
// except the booking's own claim is ignored so moving within the same day
// works. The exclusion guard still arbitrates the commit.
func (s *Service) Reschedule(ctx context.Context, actor Actor, id uuid.UUID, date civil.Date, start civil.TimeOfDay) (*Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.CanModify(ctx, actor, b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}
	if b.Status != StatusScheduled {
		return nil, ErrInvalidTransition
	}
	if date.Before(s.today()) {
		return nil, ErrPastDate
	}

	schedule, err := s.providers.WeeklySchedule(ctx, b.ProviderID)
	if err != nil {
		return nil, err
	}
	active, err := s.bookings.ListActiveByProviderDate(ctx, b.ProviderID, date)
	if err != nil {
		return nil, err
	}
	others := active[:0:0]
	for _, a := range active {
		if a.ID != b.ID {
			others = append(others, a)
		}
	}
	duration := b.Duration
	if duration <= 0 {
		duration = s.slotMinutes
	}
	if !slotFits(schedule, date, others, start, duration, s.slotMinutes) {
		return nil, ErrSlotUnavailable
	}

	b.Date = date
	b.Start = start
	b.Duration = duration
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
