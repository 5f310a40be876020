package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/booking"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Reference    string     `gorm:"uniqueIndex;not null;size:20"`
	TouristID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	TouristName  string     `gorm:"not null;size:120"`
	TouristEmail string     `gorm:"size:255"`
	Phone        string     `gorm:"not null;size:20"`
	GuideID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	GuideName    string     `gorm:"not null;size:120"`
	PlaceID      *uuid.UUID `gorm:"type:uuid;index"`
	PlaceName    string     `gorm:"size:200"`
	Date         string     `gorm:"not null;size:10;index"`
	Time         string     `gorm:"not null;size:5"`
	Guests       int        `gorm:"not null"`
	Requests     string     `gorm:"size:1000"`
	Status       string     `gorm:"not null;size:20;index"`
	DecidedAt    *time.Time `gorm:""`
	Version      int64      `gorm:"not null;default:1"`
	CreatedAt    time.Time  `gorm:"not null;index"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByGuideID returns the guide's bookings in creation order.
func (r *GormBookingRepository) FindByGuideID(ctx context.Context, guideID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("guide_id = ?", guideID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find guide bookings: %w", err)
	}
	return toDomainBookings(models)
}

// FindByTouristID returns the tourist's bookings in creation order.
func (r *GormBookingRepository) FindByTouristID(ctx context.Context, touristID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("tourist_id = ?", touristID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find tourist bookings: %w", err)
	}
	return toDomainBookings(models)
}

// FindUpcoming returns bookings dated fromDate or later for the given party,
// soonest first.
func (r *GormBookingRepository) FindUpcoming(ctx context.Context, guideID, touristID *uuid.UUID, fromDate string) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).Where("date >= ?", fromDate)
	if guideID != nil {
		q = q.Where("guide_id = ?", *guideID)
	}
	if touristID != nil {
		q = q.Where("tourist_id = ?", *touristID)
	}

	var models []BookingModel
	if err := q.Order("date ASC").Order("time ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find upcoming bookings: %w", err)
	}
	return toDomainBookings(models)
}

// List retrieves a filtered page of all bookings (admin).
func (r *GormBookingRepository) List(ctx context.Context, filter bookingDomain.ListFilter) ([]*bookingDomain.Booking, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			db = db.Where("status = ?", string(filter.Status))
		}
		if s := strings.TrimSpace(filter.Search); s != "" {
			like := containsPattern(s)
			db = db.Where(`LOWER(reference) LIKE ? ESCAPE '\' OR LOWER(tourist_name) LIKE ? ESCAPE '\' OR `+
				`LOWER(guide_name) LIKE ? ESCAPE '\' OR LOWER(place_name) LIKE ? ESCAPE '\'`,
				like, like, like, like)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	if err := r.db.WithContext(ctx).Scopes(scope).Order("created_at DESC").
		Offset(domain.Offset(filter.Page, filter.Limit)).
		Limit(filter.Limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	if err := r.db.WithContext(ctx).Create(toBookingModel(bk)).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists a status decision with optimistic locking. Only the status
// columns are mutable; everything else is fixed at creation.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", bk.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"status":     string(bk.Status()),
			"decided_at": bk.DecidedAt(),
			"version":    bk.Version(),
			"updated_at": bk.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another request")
	}
	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	tourist, guide, place, visit := bk.Tourist(), bk.Guide(), bk.Place(), bk.Visit()
	return &BookingModel{
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

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.Reference,
		bookingDomain.Party{ID: m.TouristID, Name: m.TouristName, Email: m.TouristEmail},
		bookingDomain.Party{ID: m.GuideID, Name: m.GuideName},
		bookingDomain.PlaceRef{ID: m.PlaceID, Name: m.PlaceName},
		bookingDomain.Visit{Date: m.Date, Time: m.Time, Guests: m.Guests, Phone: m.Phone, Requests: m.Requests},
		status,
		m.DecidedAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive substring pattern for LIKE ... ESCAPE '\'.
// Wildcards in the search term match literally.
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
}
