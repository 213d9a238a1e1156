package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/mindwell/mindwell/internal/domain/directory"
	"github.com/mindwell/mindwell/pkg/civil"
)

// ListFilter narrows booking listings. Zero values mean unbounded.
type ListFilter struct {
	Status string
	From   civil.Date
	To     civil.Date
}

// Repository is the booking ledger. Create and Update must surface
// ErrSlotConflict when the active-window exclusion guard rejects a write.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	Update(ctx context.Context, b *Booking) error
	ListActiveByProviderDate(ctx context.Context, providerID uuid.UUID, date civil.Date) ([]*Booking, error)
	ListByClient(ctx context.Context, clientID string, f ListFilter, limit, offset int) ([]*Booking, int, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, f ListFilter, limit, offset int) ([]*Booking, int, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Booking, int, error)
}

// ProviderDirectory is the slice of the provider directory the booking engine
// depends on. The concrete adapter lives in the composition root to keep this
// package free of a service dependency cycle.
type ProviderDirectory interface {
	Exists(ctx context.Context, providerID uuid.UUID) (bool, error)
	IsApproved(ctx context.Context, providerID uuid.UUID) (bool, error)
	WeeklySchedule(ctx context.Context, providerID uuid.UUID) (directory.WeeklySchedule, error)
	OwnerUserID(ctx context.Context, providerID uuid.UUID) (string, error)
	ProviderIDForUser(ctx context.Context, userID string) (uuid.UUID, error)
}
