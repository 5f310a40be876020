package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	guideDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/guide"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
)

// GuideModel is the GORM model for the guides table.
type GuideModel struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Name       string                      `gorm:"not null;size:120"`
	Email      string                      `gorm:"size:255;index"`
	Phone      string                      `gorm:"size:20"`
	Languages  datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"`
	Experience int                         `gorm:"not null;default:0"`
	Bio        string                      `gorm:"type:text"`
	Image      string                      `gorm:"type:text"`
	PlaceID    *uuid.UUID                  `gorm:"type:uuid;index"`
	PlaceName  string                      `gorm:"size:200"`
	Status     string                      `gorm:"not null;size:20;index"`
	Version    int64                       `gorm:"not null;default:1"`
	CreatedAt  time.Time                   `gorm:"not null"`
	UpdatedAt  time.Time                   `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (GuideModel) TableName() string {
	return "guides"
}

// GormGuideRepository implements GuideRepository using GORM.
type GormGuideRepository struct {
	db *gorm.DB
}

// NewGormGuideRepository creates a new GormGuideRepository.
func NewGormGuideRepository(db *gorm.DB) *GormGuideRepository {
	return &GormGuideRepository{db: db}
}

func (r *GormGuideRepository) FindByID(ctx context.Context, id uuid.UUID) (*guideDomain.Guide, error) {
	var model GuideModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Guide", id.String())
		}
		return nil, fmt.Errorf("failed to find guide: %w", err)
	}
	return toDomainGuide(&model), nil
}

func (r *GormGuideRepository) FindAll(ctx context.Context) ([]*guideDomain.Guide, error) {
	var models []GuideModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list guides: %w", err)
	}
	return toDomainGuides(models), nil
}

func (r *GormGuideRepository) FindByPlaceID(ctx context.Context, placeID uuid.UUID) ([]*guideDomain.Guide, error) {
	var models []GuideModel
	if err := r.db.WithContext(ctx).Where("place_id = ?", placeID).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find guides by place: %w", err)
	}
	return toDomainGuides(models), nil
}

func (r *GormGuideRepository) CountByPlace(ctx context.Context) (map[string]int64, error) {
	type placeCount struct {
		PlaceID *uuid.UUID
		Count   int64
	}
	var results []placeCount
	if err := r.db.WithContext(ctx).Model(&GuideModel{}).
		Select("place_id, count(*) as count").
		Group("place_id").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count guides by place: %w", err)
	}

	counts := make(map[string]int64, len(results))
	for _, pc := range results {
		key := ""
		if pc.PlaceID != nil {
			key = pc.PlaceID.String()
		}
		counts[key] += pc.Count
	}
	return counts, nil
}

func (r *GormGuideRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&GuideModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count guides by status: %w", err)
	}

	counts := make(map[string]int64, len(results))
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

func (r *GormGuideRepository) Save(ctx context.Context, g *guideDomain.Guide) error {
	if err := r.db.WithContext(ctx).Create(toGuideModel(g)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("guide profile already exists")
		}
		return fmt.Errorf("failed to save guide: %w", err)
	}
	return nil
}

// Update persists profile changes with optimistic locking.
func (r *GormGuideRepository) Update(ctx context.Context, g *guideDomain.Guide) error {
	m := toGuideModel(g)
	result := r.db.WithContext(ctx).
		Model(&GuideModel{}).
		Where("id = ? AND version = ?", g.ID(), g.Version()-1).
		Updates(map[string]interface{}{
			"name":       m.Name,
			"phone":      m.Phone,
			"languages":  m.Languages,
			"experience": m.Experience,
			"bio":        m.Bio,
			"image":      m.Image,
			"place_id":   m.PlaceID,
			"place_name": m.PlaceName,
			"status":     m.Status,
			"version":    m.Version,
			"updated_at": m.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update guide: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("guide was modified by another request")
	}
	return nil
}

func (r *GormGuideRepository) ClearPlace(ctx context.Context, placeID uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&GuideModel{}).
		Where("place_id = ?", placeID).
		Updates(map[string]interface{}{
			"place_id":   nil,
			"place_name": "",
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to clear guide place: %w", err)
	}
	return nil
}

// Delete removes the guide row. A missing row yields NotFoundError.
func (r *GormGuideRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&GuideModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete guide: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Guide", id.String())
	}
	return nil
}

func toGuideModel(g *guideDomain.Guide) *GuideModel {
	return &GuideModel{
		ID:         g.ID(),
		Name:       g.Name(),
		Email:      g.Email(),
		Phone:      g.Phone(),
		Languages:  datatypes.JSONSlice[string](g.Languages()),
		Experience: g.Experience(),
		Bio:        g.Bio(),
		Image:      g.Image(),
		PlaceID:    g.PlaceID(),
		PlaceName:  g.PlaceName(),
		Status:     string(g.Status()),
		Version:    g.Version(),
		CreatedAt:  g.CreatedAt(),
		UpdatedAt:  g.UpdatedAt(),
	}
}

func toDomainGuide(m *GuideModel) *guideDomain.Guide {
	languages := []string(m.Languages)
	if languages == nil {
		languages = []string{}
	}
	return guideDomain.Reconstruct(
		m.ID, m.Name, m.Email, m.Phone,
		languages, m.Experience, m.Bio, m.Image,
		m.PlaceID, m.PlaceName,
		guideDomain.GuideStatus(m.Status),
		m.Version, m.CreatedAt, m.UpdatedAt,
	)
}

func toDomainGuides(models []GuideModel) []*guideDomain.Guide {
	guides := make([]*guideDomain.Guide, len(models))
	for i := range models {
		guides[i] = toDomainGuide(&models[i])
	}
	return guides
}
