package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	providers Repository
}

func NewService(providers Repository) *Service {
	return &Service{providers: providers}
}

func (s *Service) CreateProvider(ctx context.Context, p *Provider) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if p.UserID == "" {
		return fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	if p.Schedule != nil {
		normalized, err := p.Schedule.Normalize()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if err := normalized.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		p.Schedule = normalized
	}
	return s.providers.Create(ctx, p)
}

func (s *Service) GetProvider(ctx context.Context, id uuid.UUID) (*Provider, error) {
	return s.providers.GetByID(ctx, id)
}

func (s *Service) GetProviderByUserID(ctx context.Context, userID string) (*Provider, error) {
	return s.providers.GetByUserID(ctx, userID)
}

func (s *Service) UpdateProvider(ctx context.Context, p *Provider) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return s.providers.Update(ctx, p)
}

// SetSchedule normalizes and validates a weekly schedule, then persists it.
// Malformed schedules are rejected here so readers never see them.
func (s *Service) SetSchedule(ctx context.Context, id uuid.UUID, schedule WeeklySchedule) (WeeklySchedule, error) {
	normalized, err := schedule.Normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := normalized.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.providers.UpdateSchedule(ctx, id, normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

func (s *Service) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	return s.providers.SetApproved(ctx, id, approved)
}

func (s *Service) ListProviders(ctx context.Context, approvedOnly bool, limit, offset int) ([]*Provider, int, error) {
	return s.providers.List(ctx, approvedOnly, limit, offset)
}
