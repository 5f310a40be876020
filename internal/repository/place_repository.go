package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	placeDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/place"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
)

// PlaceModel is the GORM model for the places table.
type PlaceModel struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Name        string                      `gorm:"not null;size:200"`
	Description string                      `gorm:"type:text;not null"`
	History     string                      `gorm:"type:text"`
	Image       string                      `gorm:"type:text"`
	Gallery     datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"`
	TicketPrice int64                       `gorm:"not null;default:0"`
	OpenTime    string                      `gorm:"size:5"`
	CloseTime   string                      `gorm:"size:5"`
	LocationURL string                      `gorm:"size:500"`
	CreatedAt   time.Time                   `gorm:"not null"`
	UpdatedAt   time.Time                   `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PlaceModel) TableName() string {
	return "places"
}

// GormPlaceRepository implements PlaceRepository using GORM.
type GormPlaceRepository struct {
	db *gorm.DB
}

// NewGormPlaceRepository creates a new GormPlaceRepository.
func NewGormPlaceRepository(db *gorm.DB) *GormPlaceRepository {
	return &GormPlaceRepository{db: db}
}

func (r *GormPlaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*placeDomain.Place, error) {
	var model PlaceModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Place", id.String())
		}
		return nil, fmt.Errorf("failed to find place: %w", err)
	}
	return toDomainPlace(&model), nil
}

func (r *GormPlaceRepository) FindAll(ctx context.Context) ([]*placeDomain.Place, error) {
	var models []PlaceModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	places := make([]*placeDomain.Place, len(models))
	for i := range models {
		places[i] = toDomainPlace(&models[i])
	}
	return places, nil
}

func (r *GormPlaceRepository) Save(ctx context.Context, p *placeDomain.Place) error {
	if err := r.db.WithContext(ctx).Create(toPlaceModel(p)).Error; err != nil {
		return fmt.Errorf("failed to save place: %w", err)
	}
	return nil
}

func (r *GormPlaceRepository) Update(ctx context.Context, p *placeDomain.Place) error {
	m := toPlaceModel(p)
	result := r.db.WithContext(ctx).Model(&PlaceModel{}).Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"name":         m.Name,
			"description":  m.Description,
			"history":      m.History,
			"image":        m.Image,
			"gallery":      m.Gallery,
			"ticket_price": m.TicketPrice,
			"open_time":    m.OpenTime,
			"close_time":   m.CloseTime,
			"location_url": m.LocationURL,
			"updated_at":   m.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update place: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Place", m.ID.String())
	}
	return nil
}

func (r *GormPlaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&PlaceModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete place: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Place", id.String())
	}
	return nil
}

func (r *GormPlaceRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&PlaceModel{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count places: %w", err)
	}
	return n, nil
}

func toPlaceModel(p *placeDomain.Place) *PlaceModel {
	d := p.Details()
	return &PlaceModel{
		ID:          p.ID(),
		Name:        d.Name,
		Description: d.Description,
		History:     d.History,
		Image:       d.Image,
		Gallery:     datatypes.JSONSlice[string](p.Gallery()),
		TicketPrice: d.TicketPrice,
		OpenTime:    d.OpenTime,
		CloseTime:   d.CloseTime,
		LocationURL: d.LocationURL,
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

func toDomainPlace(m *PlaceModel) *placeDomain.Place {
	return placeDomain.Reconstruct(m.ID, placeDomain.Details{
		Name:        m.Name,
		Description: m.Description,
		History:     m.History,
		Image:       m.Image,
		TicketPrice: m.TicketPrice,
		OpenTime:    m.OpenTime,
		CloseTime:   m.CloseTime,
		LocationURL: m.LocationURL,
	}, []string(m.Gallery), m.CreatedAt, m.UpdatedAt)
}
