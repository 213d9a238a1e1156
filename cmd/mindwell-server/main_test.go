package main

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mindwell/mindwell/internal/domain/booking"
	"github.com/mindwell/mindwell/internal/domain/directory"
)

type memProviderRepo struct {
	items map[uuid.UUID]*directory.Provider
}

func (m *memProviderRepo) Create(_ context.Context, p *directory.Provider) error {
	p.ID = uuid.New()
	m.items[p.ID] = p
	return nil
}

func (m *memProviderRepo) GetByID(_ context.Context, id uuid.UUID) (*directory.Provider, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, directory.ErrNotFound
	}
	return p, nil
}

func (m *memProviderRepo) GetByUserID(_ context.Context, userID string) (*directory.Provider, error) {
	for _, p := range m.items {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, directory.ErrNotFound
}

func (m *memProviderRepo) Update(_ context.Context, p *directory.Provider) error {
	if _, ok := m.items[p.ID]; !ok {
		return directory.ErrNotFound
	}
	m.items[p.ID] = p
	return nil
}

func (m *memProviderRepo) UpdateSchedule(_ context.Context, id uuid.UUID, schedule directory.WeeklySchedule) error {
	p, ok := m.items[id]
	if !ok {
		return directory.ErrNotFound
	}
	p.Schedule = schedule
	return nil
}

func (m *memProviderRepo) SetApproved(_ context.Context, id uuid.UUID, approved bool) error {
	p, ok := m.items[id]
	if !ok {
		return directory.ErrNotFound
	}
	p.Approved = approved
	return nil
}

func (m *memProviderRepo) List(_ context.Context, approvedOnly bool, limit, offset int) ([]*directory.Provider, int, error) {
	var out []*directory.Provider
	for _, p := range m.items {
		if approvedOnly && !p.Approved {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func newAdapter(t *testing.T) (*directoryAdapter, uuid.UUID) {
	t.Helper()
	repo := &memProviderRepo{items: map[uuid.UUID]*directory.Provider{}}
	id := uuid.New()
	repo.items[id] = &directory.Provider{
		ID:       id,
		UserID:   "user-1",
		Name:     "Dr. Example",
		Approved: true,
	}
	return &directoryAdapter{svc: directory.NewService(repo)}, id
}

func TestDirectoryAdapterExists(t *testing.T) {
	adapter, id := newAdapter(t)
	ctx := context.Background()

	ok, err := adapter.Exists(ctx, id)
	if err != nil || !ok {
		t.Errorf("Exists(known) = %v, %v; want true, nil", ok, err)
	}

	// An unknown provider is a negative answer, not an error.
	ok, err = adapter.Exists(ctx, uuid.New())
	if err != nil || ok {
		t.Errorf("Exists(unknown) = %v, %v; want false, nil", ok, err)
	}
}

func TestDirectoryAdapterApprovalAndOwner(t *testing.T) {
	adapter, id := newAdapter(t)
	ctx := context.Background()

	approved, err := adapter.IsApproved(ctx, id)
	if err != nil || !approved {
		t.Errorf("IsApproved = %v, %v; want true, nil", approved, err)
	}

	owner, err := adapter.OwnerUserID(ctx, id)
	if err != nil || owner != "user-1" {
		t.Errorf("OwnerUserID = %q, %v; want %q, nil", owner, err, "user-1")
	}
}

func TestDirectoryAdapterProviderIDForUser(t *testing.T) {
	adapter, id := newAdapter(t)
	ctx := context.Background()

	got, err := adapter.ProviderIDForUser(ctx, "user-1")
	if err != nil || got != id {
		t.Errorf("ProviderIDForUser = %s, %v; want %s, nil", got, err, id)
	}

	// Directory misses translate to the booking domain's sentinel.
	if _, err := adapter.ProviderIDForUser(ctx, "nobody"); !errors.Is(err, booking.ErrProviderNotFound) {
		t.Errorf("ProviderIDForUser(unknown) error = %v, want %v", err, booking.ErrProviderNotFound)
	}
}
