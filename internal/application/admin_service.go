package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/access"
	bookingDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/booking"
	guideDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/guide"
	placeDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/place"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/reconcile"
	userDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/user"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
)

// deleteAttempts is how many times the account delete of the saga is tried.
const deleteAttempts = 3

// reportLimit caps the number of bookings in one PDF export.
const reportLimit = 1000

// CreateGuideRequest is used by admins to onboard a verified guide.
type CreateGuideRequest struct {
	Name     string     `json:"name" binding:"required,min=3"`
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=6"`
	PlaceID  *uuid.UUID `json:"place_id"`
}

// StatsDTO holds the admin dashboard counters.
type StatsDTO struct {
	UsersByRole      map[string]int64 `json:"users_by_role"`
	GuidesByStatus   map[string]int64 `json:"guides_by_status"`
	Places           int64            `json:"places"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	TotalBookings    int64            `json:"total_bookings"`
}

// AdminService backs the admin console.
type AdminService struct {
	users    userDomain.UserRepository
	guides   guideDomain.GuideRepository
	places   placeDomain.PlaceRepository
	bookings bookingDomain.BookingRepository
	tasks    reconcile.Repository
	accounts *AuthService
	cache    DirectoryCache
	logger   *zap.Logger

	newBackOff func() backoff.BackOff
	now        Clock
}

// NewAdminService creates a new AdminService. cache may be nil.
func NewAdminService(
	users userDomain.UserRepository,
	guides guideDomain.GuideRepository,
	places placeDomain.PlaceRepository,
	bookings bookingDomain.BookingRepository,
	tasks reconcile.Repository,
	accounts *AuthService,
	cache DirectoryCache,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		users:    users,
		guides:   guides,
		places:   places,
		bookings: bookings,
		tasks:    tasks,
		accounts: accounts,
		cache:    cache,
		logger:   logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxElapsedTime = 5 * time.Second
			return b
		},
		now: time.Now,
	}
}

// WithBackOff overrides the retry policy of the account delete step.
func (s *AdminService) WithBackOff(newBackOff func() backoff.BackOff) *AdminService {
	s.newBackOff = newBackOff
	return s
}

// --- Guides ---

// ListGuides returns every guide profile.
func (s *AdminService) ListGuides(ctx context.Context) ([]GuideDTO, error) {
	guides, err := s.guides.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toGuideDTOs(guides), nil
}

// CreateGuide creates a verified guide account together with its profile.
func (s *AdminService) CreateGuide(ctx context.Context, req CreateGuideRequest) (*GuideDTO, error) {
	var place *placeDomain.Place
	if req.PlaceID != nil {
		pl, err := s.places.FindByID(ctx, *req.PlaceID)
		if err != nil {
			return nil, err
		}
		place = pl
	}

	u, err := s.accounts.createAccount(ctx, req.Name, req.Email, req.Password, access.RoleGuide, guideDomain.StatusVerified)
	if err != nil {
		return nil, err
	}

	g, err := s.guides.FindByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if place != nil {
		id := place.ID()
		g.AssignPlace(&id, place.Name())
		g.IncrementVersion()
		if err := s.guides.Update(ctx, g); err != nil {
			return nil, err
		}
		invalidateDirectory(ctx, s.cache, s.logger)
	}

	result := toGuideDTO(g)
	return &result, nil
}

// ToggleGuideStatus flips a guide between pending and verified.
func (s *AdminService) ToggleGuideStatus(ctx context.Context, id uuid.UUID) (*GuideDTO, error) {
	g, err := s.guides.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	g.ToggleStatus()
	g.IncrementVersion()
	if err := s.guides.Update(ctx, g); err != nil {
		return nil, err
	}
	invalidateDirectory(ctx, s.cache, s.logger)

	s.logger.Info("guide status changed",
		zap.String("guide_id", id.String()),
		zap.String("status", string(g.Status())),
	)
	result := toGuideDTO(g)
	return &result, nil
}

// DeleteGuide removes the guide profile, then the account with the same id.
// If the profile delete fails nothing has changed. If the account delete
// still fails after retrying, a reconciliation task is recorded and a
// PartialFailureError is returned. A leftover account whose profile is
// already gone is completed.
func (s *AdminService) DeleteGuide(ctx context.Context, id uuid.UUID) error {
	err := s.guides.Delete(ctx, id)
	switch {
	case err == nil:
		invalidateDirectory(ctx, s.cache, s.logger)
	case domain.IsNotFound(err):
		u, uerr := s.users.FindByID(ctx, id)
		if uerr != nil {
			if domain.IsNotFound(uerr) {
				return domain.NewNotFoundError("Guide", id.String())
			}
			return uerr
		}
		if u.Role() != access.RoleGuide {
			return domain.NewNotFoundError("Guide", id.String())
		}
	default:
		return fmt.Errorf("failed to delete guide: %w", err)
	}

	s.revokeSessions(ctx, id)
	return s.deleteAccount(ctx, id)
}

// DeleteUser removes an account. Guide accounts go through DeleteGuide;
// admin accounts cannot be deleted.
func (s *AdminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if !domain.IsNotFound(err) {
			return err
		}
		// A guide profile may outlive its account after a partial delete.
		gerr := s.guides.Delete(ctx, id)
		if domain.IsNotFound(gerr) {
			return domain.NewNotFoundError("User", id.String())
		}
		s.revokeSessions(ctx, id)
		if gerr != nil {
			s.logger.Error("orphaned guide profile delete failed, recording reconciliation task",
				zap.String("guide_id", id.String()),
				zap.Error(gerr),
			)
			return s.recordPartialFailure(ctx, reconcile.KindDeleteGuide, id, gerr,
				"account already deleted but guide profile delete failed")
		}
		invalidateDirectory(ctx, s.cache, s.logger)
		return nil
	}

	switch u.Role() {
	case access.RoleAdmin:
		return domain.NewForbiddenError("admin accounts cannot be deleted")
	case access.RoleGuide:
		return s.DeleteGuide(ctx, id)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.revokeSessions(ctx, id)
	s.logger.Info("user deleted", zap.String("user_id", id.String()))
	return nil
}

// PurgeAccount removes any guide profile and account for id. Missing
// records are not an error.
func (s *AdminService) PurgeAccount(ctx context.Context, id uuid.UUID) error {
	if err := s.guides.Delete(ctx, id); err != nil && !domain.IsNotFound(err) {
		return fmt.Errorf("failed to delete guide: %w", err)
	}
	invalidateDirectory(ctx, s.cache, s.logger)
	s.revokeSessions(ctx, id)
	return s.deleteAccount(ctx, id)
}

// deleteAccount is the retried second step of the guide deletion saga. An
// account that is already gone counts as deleted.
func (s *AdminService) deleteAccount(ctx context.Context, id uuid.UUID) error {
	op := func() error {
		err := s.users.Delete(ctx, id)
		if domain.IsNotFound(err) {
			return nil
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), deleteAttempts-1), ctx)
	err := backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		s.logger.Warn("account delete failed, retrying",
			zap.String("user_id", id.String()),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	})
	if err == nil {
		s.logger.Info("guide and account deleted", zap.String("user_id", id.String()))
		return nil
	}

	s.logger.Error("account delete failed after retries, recording reconciliation task",
		zap.String("user_id", id.String()),
		zap.Error(err),
	)
	return s.recordPartialFailure(ctx, reconcile.KindDeleteUser, id, err,
		"guide profile deleted but account delete failed")
}

// recordPartialFailure stores a reconciliation task for the unfinished step
// and returns the PartialFailureError reported to the caller.
func (s *AdminService) recordPartialFailure(ctx context.Context, kind reconcile.Kind, id uuid.UUID, cause error, message string) error {
	task, terr := reconcile.NewTask(kind, id, nil, cause)
	if terr == nil {
		terr = s.tasks.Save(ctx, task)
	}
	if terr != nil {
		return domain.NewPartialFailureError(message+" and could not be recorded", "", errors.Join(cause, terr))
	}
	return domain.NewPartialFailureError(message+"; scheduled for retry", task.ID.String(), cause)
}

// revokeSessions ends the deleted account's sessions. Writes re-check the
// account, so a failure here is only logged.
func (s *AdminService) revokeSessions(ctx context.Context, id uuid.UUID) {
	if s.accounts == nil {
		return
	}
	if err := s.accounts.RevokeAccount(ctx, id); err != nil {
		s.logger.Warn("failed to revoke sessions of deleted account",
			zap.String("user_id", id.String()),
			zap.Error(err),
		)
	}
}

// --- Users ---

// ListUsers returns a filtered page of accounts.
func (s *AdminService) ListUsers(ctx context.Context, role, search string, page, limit int) (*domain.PaginatedResult[UserDTO], error) {
	filter := userDomain.ListFilter{Search: search, Page: page, Limit: limit}
	if role != "" {
		r, err := access.ParseRole(role)
		if err != nil {
			return nil, domain.NewFieldValidationError(map[string]string{"role": "must be tourist, guide or admin"})
		}
		filter.Role = r
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// --- Bookings ---

// ListBookings returns a filtered page of all bookings, newest first.
func (s *AdminService) ListBookings(ctx context.Context, status, search string, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	filter, err := bookingFilter(status, search, page, limit)
	if err != nil {
		return nil, err
	}
	bookings, total, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// ExportBookingsPDF renders the filtered bookings as a PDF table.
func (s *AdminService) ExportBookingsPDF(ctx context.Context, status, search string) ([]byte, error) {
	filter, err := bookingFilter(status, search, 1, reportLimit)
	if err != nil {
		return nil, err
	}
	bookings, _, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return buildBookingReport(toBookingDTOs(bookings), s.now())
}

func bookingFilter(status, search string, page, limit int) (bookingDomain.ListFilter, error) {
	filter := bookingDomain.ListFilter{Search: search, Page: page, Limit: limit}
	if status != "" && status != "all" {
		st, err := bookingDomain.ParseBookingStatus(status)
		if err != nil {
			return filter, err
		}
		filter.Status = st
	}
	return filter, nil
}

// --- Stats & tasks ---

// Stats returns the dashboard counters.
func (s *AdminService) Stats(ctx context.Context) (*StatsDTO, error) {
	users, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	guides, err := s.guides.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	places, err := s.places.Count(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, n := range bookings {
		total += n
	}
	return &StatsDTO{
		UsersByRole:      users,
		GuidesByStatus:   guides,
		Places:           places,
		BookingsByStatus: bookings,
		TotalBookings:    total,
	}, nil
}

// ListTasks returns reconciliation tasks, optionally filtered by status.
func (s *AdminService) ListTasks(ctx context.Context, status string, page, limit int) (*domain.PaginatedResult[reconcile.Task], error) {
	st := reconcile.Status(status)
	switch st {
	case "", reconcile.StatusPending, reconcile.StatusDone, reconcile.StatusFailed:
	default:
		return nil, domain.NewFieldValidationError(map[string]string{"status": "must be pending, done or failed"})
	}

	tasks, total, err := s.tasks.List(ctx, st, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]reconcile.Task, len(tasks))
	for i, t := range tasks {
		items[i] = *t
	}
	result := domain.NewPaginatedResult(items, total, page, limit)
	return &result, nil
}
