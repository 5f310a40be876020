package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/access"
	bookingDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/booking"
	guideDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/guide"
	placeDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/place"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/reconcile"
	userDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/user"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/notification"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/kafka"
)

var errStoreDown = errors.New("store unavailable")

// --- bookings ---

type fakeBookingRepo struct {
	mu       sync.Mutex
	order    []uuid.UUID
	items    map[uuid.UUID]*bookingDomain.Booking
	versions map[uuid.UUID]int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{items: map[uuid.UUID]*bookingDomain.Booking{}, versions: map[uuid.UUID]int64{}}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return copyBooking(bk), nil
}

func (r *fakeBookingRepo) filter(keep func(*bookingDomain.Booking) bool) []*bookingDomain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*bookingDomain.Booking{}
	for _, id := range r.order {
		if bk := r.items[id]; keep(bk) {
			out = append(out, copyBooking(bk))
		}
	}
	return out
}

func (r *fakeBookingRepo) FindByGuideID(_ context.Context, id uuid.UUID) ([]*bookingDomain.Booking, error) {
	return r.filter(func(b *bookingDomain.Booking) bool { return b.GuideID() == id }), nil
}

func (r *fakeBookingRepo) FindByTouristID(_ context.Context, id uuid.UUID) ([]*bookingDomain.Booking, error) {
	return r.filter(func(b *bookingDomain.Booking) bool { return b.TouristID() == id }), nil
}

func (r *fakeBookingRepo) FindUpcoming(_ context.Context, guideID, touristID *uuid.UUID, from string) ([]*bookingDomain.Booking, error) {
	out := r.filter(func(b *bookingDomain.Booking) bool {
		if b.Visit().Date < from {
			return false
		}
		if guideID != nil && b.GuideID() != *guideID {
			return false
		}
		return touristID == nil || b.TouristID() == *touristID
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Slot() < out[j].Slot() })
	return out, nil
}

func (r *fakeBookingRepo) List(_ context.Context, f bookingDomain.ListFilter) ([]*bookingDomain.Booking, int64, error) {
	out := r.filter(func(b *bookingDomain.Booking) bool {
		if f.Status != "" && b.Status() != f.Status {
			return false
		}
		return f.Search == "" || strings.Contains(strings.ToLower(b.Guide().Name+b.Tourist().Name), strings.ToLower(f.Search))
	})
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) CountByStatus(context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, b := range r.filter(func(*bookingDomain.Booking) bool { return true }) {
		counts[string(b.Status())]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, bk.ID())
	r.items[bk.ID()] = copyBooking(bk)
	r.versions[bk.ID()] = bk.Version()
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.versions[bk.ID()] != bk.Version()-1 {
		return domain.NewConflictError("booking was modified by another request")
	}
	r.items[bk.ID()] = copyBooking(bk)
	r.versions[bk.ID()] = bk.Version()
	return nil
}

func copyBooking(b *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(b.ID(), b.Reference(), b.Tourist(), b.Guide(), b.Place(), b.Visit(),
		b.Status(), b.DecidedAt(), b.Version(), b.CreatedAt(), b.UpdatedAt())
}

// --- guides ---

type fakeGuideRepo struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*guideDomain.Guide
	saveErr   error
	deleteErr error
}

func newFakeGuideRepo() *fakeGuideRepo {
	return &fakeGuideRepo{items: map[uuid.UUID]*guideDomain.Guide{}}
}

func (r *fakeGuideRepo) FindByID(_ context.Context, id uuid.UUID) (*guideDomain.Guide, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("Guide", id.String())
	}
	return copyGuide(g), nil
}

func (r *fakeGuideRepo) all() []*guideDomain.Guide {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*guideDomain.Guide, 0, len(r.items))
	for _, g := range r.items {
		out = append(out, copyGuide(g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func (r *fakeGuideRepo) FindAll(context.Context) ([]*guideDomain.Guide, error) { return r.all(), nil }

func (r *fakeGuideRepo) FindByPlaceID(_ context.Context, placeID uuid.UUID) ([]*guideDomain.Guide, error) {
	out := []*guideDomain.Guide{}
	for _, g := range r.all() {
		if g.PlaceID() != nil && *g.PlaceID() == placeID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGuideRepo) CountByPlace(context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, g := range r.all() {
		key := ""
		if g.PlaceID() != nil {
			key = g.PlaceID().String()
		}
		counts[key]++
	}
	return counts, nil
}

func (r *fakeGuideRepo) CountByStatus(context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, g := range r.all() {
		counts[string(g.Status())]++
	}
	return counts, nil
}

func (r *fakeGuideRepo) Save(_ context.Context, g *guideDomain.Guide) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.items[g.ID()] = copyGuide(g)
	return nil
}

func (r *fakeGuideRepo) Update(_ context.Context, g *guideDomain.Guide) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[g.ID()]
	if !ok || cur.Version() != g.Version()-1 {
		return domain.NewConflictError("guide was modified by another request")
	}
	r.items[g.ID()] = copyGuide(g)
	return nil
}

func (r *fakeGuideRepo) ClearPlace(_ context.Context, placeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, g := range r.items {
		if g.PlaceID() != nil && *g.PlaceID() == placeID {
			c := copyGuide(g)
			c.AssignPlace(nil, "")
			c.IncrementVersion()
			r.items[id] = c
		}
	}
	return nil
}

func (r *fakeGuideRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.items[id]; !ok {
		return domain.NewNotFoundError("Guide", id.String())
	}
	delete(r.items, id)
	return nil
}

func (r *fakeGuideRepo) has(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[id]
	return ok
}

func copyGuide(g *guideDomain.Guide) *guideDomain.Guide {
	return guideDomain.Reconstruct(g.ID(), g.Name(), g.Email(), g.Phone(),
		append([]string{}, g.Languages()...), g.Experience(), g.Bio(), g.Image(),
		g.PlaceID(), g.PlaceName(), g.Status(), g.Version(), g.CreatedAt(), g.UpdatedAt())
}

// --- places ---

type fakePlaceRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*placeDomain.Place
}

func newFakePlaceRepo() *fakePlaceRepo {
	return &fakePlaceRepo{items: map[uuid.UUID]*placeDomain.Place{}}
}

func (r *fakePlaceRepo) FindByID(_ context.Context, id uuid.UUID) (*placeDomain.Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("Place", id.String())
	}
	return placeDomain.Reconstruct(p.ID(), p.Details(), append([]string{}, p.Gallery()...), p.CreatedAt(), p.UpdatedAt()), nil
}

func (r *fakePlaceRepo) FindAll(context.Context) ([]*placeDomain.Place, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*placeDomain.Place, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func (r *fakePlaceRepo) Save(_ context.Context, p *placeDomain.Place) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID()] = p
	return nil
}

func (r *fakePlaceRepo) Update(ctx context.Context, p *placeDomain.Place) error {
	return r.Save(ctx, p)
}

func (r *fakePlaceRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.NewNotFoundError("Place", id.String())
	}
	delete(r.items, id)
	return nil
}

func (r *fakePlaceRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

// --- users ---

type fakeUserRepo struct {
	mu          sync.Mutex
	items       map[uuid.UUID]*userDomain.User
	deleteErr   error
	deleteCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{items: map[uuid.UUID]*userDomain.User{}}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id.String())
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = userDomain.NormalizeEmail(email)
	for _, u := range r.items {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError("User", email)
}

func (r *fakeUserRepo) List(_ context.Context, f userDomain.ListFilter) ([]*userDomain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*userDomain.User{}
	for _, u := range r.items {
		if f.Role != "" && u.Role() != f.Role {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(u.Name()+" "+u.Email()), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) CountByRole(context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, u := range r.items {
		counts[string(u.Role())]++
	}
	return counts, nil
}

func (r *fakeUserRepo) Save(_ context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Email() == u.Email() {
			return domain.NewConflictError("email is already registered")
		}
	}
	r.items[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteCalls++
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.items[id]; !ok {
		return domain.NewNotFoundError("User", id.String())
	}
	delete(r.items, id)
	return nil
}

func (r *fakeUserRepo) has(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[id]
	return ok
}

// --- reconciliation tasks ---

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks []*reconcile.Task
}

func (r *fakeTaskRepo) Save(_ context.Context, t *reconcile.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, t)
	return nil
}

func (r *fakeTaskRepo) Update(context.Context, *reconcile.Task) error { return nil }

func (r *fakeTaskRepo) FindPending(_ context.Context, limit int) ([]*reconcile.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*reconcile.Task{}
	for _, t := range r.tasks {
		if t.Status == reconcile.StatusPending && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) List(_ context.Context, status reconcile.Status, _, _ int) ([]*reconcile.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*reconcile.Task{}
	for _, t := range r.tasks {
		if status == "" || t.Status == status {
			out = append(out, t)
		}
	}
	return out, int64(len(out)), nil
}

// --- collaborators ---

type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []notification.ApprovalEmail
}

func (n *fakeNotifier) SendApprovalEmail(_ context.Context, email notification.ApprovalEmail) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, email)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, _ string, ce kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ce)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fakeCache struct {
	payload     []byte
	gets        int
	invalidated int
}

func (c *fakeCache) Get(context.Context) ([]byte, bool, error) {
	c.gets++
	return c.payload, c.payload != nil, nil
}

func (c *fakeCache) Set(_ context.Context, b []byte) error {
	c.payload = b
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.invalidated++
	c.payload = nil
	return nil
}

type fakeSessions struct {
	revoked map[string]time.Time
}

func (s *fakeSessions) Revoke(_ context.Context, id string, until time.Time) error {
	if s.revoked == nil {
		s.revoked = map[string]time.Time{}
	}
	s.revoked[id] = until
	return nil
}

func (s *fakeSessions) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := s.revoked[id]
	return ok, nil
}

// --- fixtures ---

type fixture struct {
	bookings  *fakeBookingRepo
	guides    *fakeGuideRepo
	places    *fakePlaceRepo
	users     *fakeUserRepo
	tasks     *fakeTaskRepo
	notifier  *fakeNotifier
	publisher *fakePublisher
	cache     *fakeCache
	sessions  *fakeSessions
	logger    *zap.Logger
}

func newFixture() *fixture {
	return &fixture{
		bookings:  newFakeBookingRepo(),
		guides:    newFakeGuideRepo(),
		places:    newFakePlaceRepo(),
		users:     newFakeUserRepo(),
		tasks:     &fakeTaskRepo{},
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
		cache:     &fakeCache{},
		sessions:  &fakeSessions{},
		logger:    zap.NewNop(),
	}
}

func (f *fixture) bookingService() *BookingService {
	return NewBookingService(f.bookings, f.users, f.guides, f.places, f.tasks, f.notifier, f.publisher, f.logger)
}

func (f *fixture) addPlace(name string) *placeDomain.Place {
	p, err := placeDomain.NewPlace(placeDomain.Details{Name: name, Description: name + " in Wayanad"})
	if err != nil {
		panic(err)
	}
	_ = f.places.Save(context.Background(), p)
	return p
}

// addGuide stores a guide profile and its account, optionally at place.
func (f *fixture) addGuide(name string, place *placeDomain.Place) *access.Principal {
	u, err := userDomain.NewUser(name, strings.ToLower(name)+"@guides.test", "hash", access.RoleGuide)
	if err != nil {
		panic(err)
	}
	_ = f.users.Save(context.Background(), u)

	g, err := guideDomain.NewGuide(u.ID(), name, u.Email(), guideDomain.StatusVerified)
	if err != nil {
		panic(err)
	}
	if place != nil {
		id := place.ID()
		g.AssignPlace(&id, place.Name())
	}
	_ = f.guides.Save(context.Background(), g)

	p := u.Principal()
	return &p
}

func (f *fixture) addUser(name string, role access.Role) *access.Principal {
	u, err := userDomain.NewUser(name, strings.ToLower(name)+"@users.test", "hash", role)
	if err != nil {
		panic(err)
	}
	_ = f.users.Save(context.Background(), u)
	p := u.Principal()
	return &p
}
