package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/contracts"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/access"
	bookingDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/booking"
	guideDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/guide"
	placeDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/place"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/reconcile"
	userDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/user"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/notification"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/validation"
)

// CreateBookingRequest holds the data needed to request a guide. Any status
// sent by the client is ignored; new bookings are always pending.
type CreateBookingRequest struct {
	GuideID      uuid.UUID  `json:"guide_id" binding:"required"`
	PlaceID      *uuid.UUID `json:"place_id"`
	Date         string     `json:"date" binding:"required,isodate"`
	Time         string     `json:"time" binding:"required,clocktime"`
	Guests       int        `json:"guests" binding:"required,min=1,max=50"`
	Phone        string     `json:"phone" binding:"required,phone"`
	Requests     string     `json:"requests" binding:"max=1000"`
	TouristEmail string     `json:"tourist_email" binding:"omitempty,email"`
}

// UpdateStatusRequest carries a guide's decision.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed rejected"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID           uuid.UUID  `json:"id"`
	Reference    string     `json:"reference"`
	TouristID    uuid.UUID  `json:"tourist_id"`
	TouristName  string     `json:"tourist_name"`
	TouristEmail string     `json:"tourist_email,omitempty"`
	Phone        string     `json:"phone"`
	GuideID      uuid.UUID  `json:"guide_id"`
	GuideName    string     `json:"guide_name"`
	PlaceID      *uuid.UUID `json:"place_id,omitempty"`
	PlaceName    string     `json:"place_name,omitempty"`
	Date         string     `json:"date"`
	Time         string     `json:"time"`
	Guests       int        `json:"guests"`
	Requests     string     `json:"requests,omitempty"`
	Status       string     `json:"status"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
	Version      int64      `json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TransitionResult is returned after a guide decides a booking.
// NotificationSent is only set on confirmation.
type TransitionResult struct {
	Booking          BookingDTO `json:"booking"`
	NotificationSent *bool      `json:"notification_sent,omitempty"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo      bookingDomain.BookingRepository
	users     userDomain.UserRepository
	guides    guideDomain.GuideRepository
	places    placeDomain.PlaceRepository
	tasks     reconcile.Repository
	notifier  notification.Notifier
	publisher EventPublisher
	logger    *zap.Logger
	now       Clock
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	users userDomain.UserRepository,
	guides guideDomain.GuideRepository,
	places placeDomain.PlaceRepository,
	tasks reconcile.Repository,
	notifier notification.Notifier,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		users:     users,
		guides:    guides,
		places:    places,
		tasks:     tasks,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the clock used to decide which bookings are upcoming.
func (s *BookingService) WithClock(now Clock) *BookingService {
	s.now = now
	return s
}

// CreateBooking records a pending request from a tourist to a guide.
func (s *BookingService) CreateBooking(ctx context.Context, p *access.Principal, req CreateBookingRequest) (*BookingDTO, error) {
	if !p.Is(access.RoleTourist) {
		return nil, domain.NewForbiddenError("only tourists can book a guide")
	}
	if err := s.requireAccount(ctx, p); err != nil {
		return nil, err
	}

	g, err := s.guides.FindByID(ctx, req.GuideID)
	if err != nil {
		return nil, err
	}

	place := bookingDomain.PlaceRef{ID: g.PlaceID(), Name: g.PlaceName()}
	if req.PlaceID != nil {
		pl, err := s.places.FindByID(ctx, *req.PlaceID)
		if err != nil {
			return nil, err
		}
		id := pl.ID()
		place = bookingDomain.PlaceRef{ID: &id, Name: pl.Name()}
	}

	email := req.TouristEmail
	if email == "" {
		email = p.Email
	}

	bk, err := bookingDomain.NewBooking(
		bookingDomain.Party{ID: p.ID, Name: p.DisplayName, Email: email},
		bookingDomain.Party{ID: g.ID(), Name: g.Name(), Email: g.Email()},
		place,
		bookingDomain.Visit{
			Date:     req.Date,
			Time:     req.Time,
			Guests:   req.Guests,
			Phone:    req.Phone,
			Requests: req.Requests,
		},
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.logger.Info("booking requested",
		zap.String("booking_id", bk.ID().String()),
		zap.String("guide_id", g.ID().String()),
		zap.String("tourist_id", p.ID.String()),
	)

	visit := bk.Visit()
	evt := contracts.BookingRequestedEvent{
		BookingID:  bk.ID(),
		Reference:  bk.Reference(),
		TouristID:  bk.TouristID(),
		GuideID:    bk.GuideID(),
		PlaceID:    bk.Place().ID,
		Date:       visit.Date,
		Time:       visit.Time,
		Guests:     visit.Guests,
		OccurredAt: time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, contracts.TopicBookingEvents, contracts.BookingRequested, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// ListBookingsForGuide returns every booking addressed to guideID. A guide may
// only list their own; admins may list any guide's.
func (s *BookingService) ListBookingsForGuide(ctx context.Context, p *access.Principal, guideID uuid.UUID) ([]BookingDTO, error) {
	if !p.Is(access.RoleAdmin) && !(p.Is(access.RoleGuide) && p.ID == guideID) {
		return nil, domain.NewForbiddenError("cannot list another guide's bookings")
	}
	bookings, err := s.repo.FindByGuideID(ctx, guideID)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// ListBookingsForTourist returns every booking made by touristID.
func (s *BookingService) ListBookingsForTourist(ctx context.Context, p *access.Principal, touristID uuid.UUID) ([]BookingDTO, error) {
	if p == nil || (!p.Is(access.RoleAdmin) && p.ID != touristID) {
		return nil, domain.NewForbiddenError("cannot list another user's bookings")
	}
	bookings, err := s.repo.FindByTouristID(ctx, touristID)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// ListUpcoming returns the caller's bookings dated today or later, soonest first.
func (s *BookingService) ListUpcoming(ctx context.Context, p *access.Principal) ([]BookingDTO, error) {
	if p == nil {
		return nil, domain.NewUnauthorizedError("sign in required")
	}

	var guideID, touristID *uuid.UUID
	switch p.Role {
	case access.RoleGuide:
		guideID = &p.ID
	case access.RoleTourist:
		touristID = &p.ID
	}

	today := s.now().Format(validation.DateLayout)
	bookings, err := s.repo.FindUpcoming(ctx, guideID, touristID, today)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bookings), nil
}

// GetBooking returns a booking visible to the caller.
func (s *BookingService) GetBooking(ctx context.Context, p *access.Principal, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.VisibleTo(p) {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// TransitionStatus lets the booking's guide confirm or reject it. A confirmed
// booking triggers an approval email; a failed email never undoes the
// confirmation and is queued for reconciliation instead.
func (s *BookingService) TransitionStatus(ctx context.Context, p *access.Principal, bookingID uuid.UUID, status string) (*TransitionResult, error) {
	target, err := bookingDomain.ParseBookingStatus(status)
	if err != nil {
		return nil, err
	}

	if err := s.requireAccount(ctx, p); err != nil {
		return nil, err
	}

	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Decide(p, target); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking decided",
		zap.String("booking_id", bk.ID().String()),
		zap.String("status", string(target)),
	)

	eventType := contracts.BookingRejected
	if target == bookingDomain.StatusConfirmed {
		eventType = contracts.BookingConfirmed
	}
	evt := contracts.BookingDecidedEvent{
		BookingID:  bk.ID(),
		Reference:  bk.Reference(),
		TouristID:  bk.TouristID(),
		GuideID:    bk.GuideID(),
		Status:     string(target),
		DecidedAt:  *bk.DecidedAt(),
		OccurredAt: time.Now().UTC(),
	}
	publishEvent(ctx, s.publisher, s.logger, contracts.TopicBookingEvents, eventType, bk.ID().String(), evt)

	result := &TransitionResult{Booking: toBookingDTO(bk)}
	if target == bookingDomain.StatusConfirmed {
		sent := s.sendApproval(ctx, bk)
		result.NotificationSent = &sent
	}
	return result, nil
}

// requireAccount rejects a caller whose account, or guide profile, was
// deleted after the token was issued.
func (s *BookingService) requireAccount(ctx context.Context, p *access.Principal) error {
	if p == nil {
		return domain.NewUnauthorizedError("sign in required")
	}
	gone := domain.NewUnauthorizedError("account no longer exists")

	u, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		if domain.IsNotFound(err) {
			return gone
		}
		return err
	}
	if !u.IsActive() {
		return domain.NewUnauthorizedError("account is inactive")
	}

	if p.Is(access.RoleGuide) {
		if _, err := s.guides.FindByID(ctx, p.ID); err != nil {
			if domain.IsNotFound(err) {
				return gone
			}
			return err
		}
	}
	return nil
}

func (s *BookingService) sendApproval(ctx context.Context, bk *bookingDomain.Booking) bool {
	email := approvalEmailFor(bk)
	if email.TouristEmail == "" {
		s.logger.Warn("booking has no tourist email, approval not sent",
			zap.String("booking_id", bk.ID().String()),
		)
		return false
	}

	err := s.notifier.SendApprovalEmail(ctx, email)
	if err == nil {
		return true
	}

	s.logger.Error("failed to send approval email",
		zap.String("booking_id", bk.ID().String()),
		zap.Error(err),
	)
	task, terr := reconcile.NewTask(reconcile.KindApprovalEmail, bk.ID(), email, err)
	if terr == nil {
		terr = s.tasks.Save(ctx, task)
	}
	if terr != nil {
		s.logger.Error("failed to record approval email task",
			zap.String("booking_id", bk.ID().String()),
			zap.Error(errors.Join(err, terr)),
		)
	}
	return false
}

func approvalEmailFor(bk *bookingDomain.Booking) notification.ApprovalEmail {
	tourist, visit := bk.Tourist(), bk.Visit()
	return notification.ApprovalEmail{
		BookingID:    bk.ID(),
		Reference:    bk.Reference(),
		TouristName:  tourist.Name,
		TouristEmail: tourist.Email,
		GuideName:    bk.Guide().Name,
		PlaceName:    bk.Place().Name,
		Date:         visit.Date,
		Time:         visit.Time,
		Guests:       visit.Guests,
	}
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	tourist, guide, place, visit := bk.Tourist(), bk.Guide(), bk.Place(), bk.Visit()
	return BookingDTO{
		ID:           bk.ID(),
		Reference:    bk.Reference(),
		TouristID:    tourist.ID,
		TouristName:  tourist.Name,
		TouristEmail: tourist.Email,
		Phone:        visit.Phone,
		GuideID:      guide.ID,
		GuideName:    guide.Name,
		PlaceID:      place.ID,
		PlaceName:    place.Name,
		Date:         visit.Date,
		Time:         visit.Time,
		Guests:       visit.Guests,
		Requests:     visit.Requests,
		Status:       string(bk.Status()),
		DecidedAt:    bk.DecidedAt(),
		Version:      bk.Version(),
		CreatedAt:    bk.CreatedAt(),
		UpdatedAt:    bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}
