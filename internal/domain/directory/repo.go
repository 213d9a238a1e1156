package directory

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Provider) error
	GetByID(ctx context.Context, id uuid.UUID) (*Provider, error)
	GetByUserID(ctx context.Context, userID string) (*Provider, error)
	Update(ctx context.Context, p *Provider) error
	UpdateSchedule(ctx context.Context, id uuid.UUID, schedule WeeklySchedule) error
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error
	List(ctx context.Context, approvedOnly bool, limit, offset int) ([]*Provider, int, error)
}
