package handler

import (
	"context"
	"sync"

	"github.com/google/uuid"

	bookingDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/booking"
	guideDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/guide"
	placeDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/place"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/reconcile"
	userDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/user"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
)

// In-memory stores backing the services mounted in handler tests. Only the
// methods the routes under test reach do real work.

type memBookings struct {
	mu       sync.Mutex
	items    map[uuid.UUID]*bookingDomain.Booking
	versions map[uuid.UUID]int64
}

func (r *memBookings) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func (r *memBookings) FindByGuideID(context.Context, uuid.UUID) ([]*bookingDomain.Booking, error) {
	return nil, nil
}

func (r *memBookings) FindByTouristID(context.Context, uuid.UUID) ([]*bookingDomain.Booking, error) {
	return nil, nil
}

func (r *memBookings) FindUpcoming(context.Context, *uuid.UUID, *uuid.UUID, string) ([]*bookingDomain.Booking, error) {
	return nil, nil
}

func (r *memBookings) List(context.Context, bookingDomain.ListFilter) ([]*bookingDomain.Booking, int64, error) {
	return nil, 0, nil
}

func (r *memBookings) CountByStatus(context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (r *memBookings) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[bk.ID()] = bk
	r.versions[bk.ID()] = bk.Version()
	return nil
}

func (r *memBookings) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.versions[bk.ID()] != bk.Version()-1 {
		return domain.NewConflictError("booking was modified by another request")
	}
	r.items[bk.ID()] = bk
	r.versions[bk.ID()] = bk.Version()
	return nil
}

type memGuides struct {
	mu    sync.Mutex
	items map[uuid.UUID]*guideDomain.Guide
}

func (r *memGuides) FindByID(_ context.Context, id uuid.UUID) (*guideDomain.Guide, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("Guide", id.String())
	}
	return g, nil
}

func (r *memGuides) FindAll(context.Context) ([]*guideDomain.Guide, error) { return nil, nil }

func (r *memGuides) FindByPlaceID(context.Context, uuid.UUID) ([]*guideDomain.Guide, error) {
	return nil, nil
}

func (r *memGuides) CountByPlace(context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (r *memGuides) CountByStatus(context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (r *memGuides) Save(_ context.Context, g *guideDomain.Guide) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[g.ID()] = g
	return nil
}

func (r *memGuides) Update(ctx context.Context, g *guideDomain.Guide) error { return r.Save(ctx, g) }

func (r *memGuides) ClearPlace(context.Context, uuid.UUID) error { return nil }

func (r *memGuides) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.NewNotFoundError("Guide", id.String())
	}
	delete(r.items, id)
	return nil
}

type memUsers struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*userDomain.User
	deleteErr error
}

func (r *memUsers) FindByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id.String())
	}
	return u, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*userDomain.User, error) {
	return nil, domain.NewNotFoundError("User", email)
}

func (r *memUsers) List(context.Context, userDomain.ListFilter) ([]*userDomain.User, int64, error) {
	return nil, 0, nil
}

func (r *memUsers) CountByRole(context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (r *memUsers) Save(_ context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[u.ID()] = u
	return nil
}

func (r *memUsers) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.items[id]; !ok {
		return domain.NewNotFoundError("User", id.String())
	}
	delete(r.items, id)
	return nil
}

type memPlaces struct{}

func (memPlaces) FindByID(_ context.Context, id uuid.UUID) (*placeDomain.Place, error) {
	return nil, domain.NewNotFoundError("Place", id.String())
}

func (memPlaces) FindAll(context.Context) ([]*placeDomain.Place, error) { return nil, nil }

func (memPlaces) Save(context.Context, *placeDomain.Place) error { return nil }

func (memPlaces) Update(context.Context, *placeDomain.Place) error { return nil }

func (memPlaces) Delete(context.Context, uuid.UUID) error { return nil }

func (memPlaces) Count(context.Context) (int64, error) { return 0, nil }

type memTasks struct {
	mu    sync.Mutex
	tasks []*reconcile.Task
}

func (r *memTasks) Save(_ context.Context, t *reconcile.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, t)
	return nil
}

func (r *memTasks) Update(context.Context, *reconcile.Task) error { return nil }

func (r *memTasks) FindPending(context.Context, int) ([]*reconcile.Task, error) { return nil, nil }

func (r *memTasks) List(context.Context, reconcile.Status, int, int) ([]*reconcile.Task, int64, error) {
	return nil, 0, nil
}
