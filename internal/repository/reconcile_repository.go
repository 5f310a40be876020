package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/reconcile"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
)

// ReconciliationTaskModel is the GORM model for the reconciliation_tasks table.
type ReconciliationTaskModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Kind      string         `gorm:"not null;size:30"`
	SubjectID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	Status    string         `gorm:"not null;size:20;index"`
	Attempts  int            `gorm:"not null;default:0"`
	LastError string         `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ReconciliationTaskModel) TableName() string {
	return "reconciliation_tasks"
}

// GormReconcileRepository implements reconcile.Repository using GORM.
type GormReconcileRepository struct {
	db *gorm.DB
}

// NewGormReconcileRepository creates a new GormReconcileRepository.
func NewGormReconcileRepository(db *gorm.DB) *GormReconcileRepository {
	return &GormReconcileRepository{db: db}
}

func (r *GormReconcileRepository) Save(ctx context.Context, t *reconcile.Task) error {
	if err := r.db.WithContext(ctx).Create(toTaskModel(t)).Error; err != nil {
		return fmt.Errorf("failed to save reconciliation task: %w", err)
	}
	return nil
}

func (r *GormReconcileRepository) Update(ctx context.Context, t *reconcile.Task) error {
	result := r.db.WithContext(ctx).Model(&ReconciliationTaskModel{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"status":     string(t.Status),
			"attempts":   t.Attempts,
			"last_error": t.LastError,
			"updated_at": t.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update reconciliation task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("ReconciliationTask", t.ID.String())
	}
	return nil
}

// FindPending returns the oldest pending tasks.
func (r *GormReconcileRepository) FindPending(ctx context.Context, limit int) ([]*reconcile.Task, error) {
	var models []ReconciliationTaskModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(reconcile.StatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find pending tasks: %w", err)
	}
	return toDomainTasks(models), nil
}

func (r *GormReconcileRepository) List(ctx context.Context, status reconcile.Status, page, limit int) ([]*reconcile.Task, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if status != "" {
			return db.Where("status = ?", string(status))
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&ReconciliationTaskModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	var models []ReconciliationTaskModel
	if err := r.db.WithContext(ctx).Scopes(scope).
		Order("created_at DESC").
		Offset(domain.Offset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return toDomainTasks(models), total, nil
}

func toTaskModel(t *reconcile.Task) *ReconciliationTaskModel {
	return &ReconciliationTaskModel{
		ID:        t.ID,
		Kind:      string(t.Kind),
		SubjectID: t.SubjectID,
		Payload:   datatypes.JSON(t.Payload),
		Status:    string(t.Status),
		Attempts:  t.Attempts,
		LastError: t.LastError,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toDomainTasks(models []ReconciliationTaskModel) []*reconcile.Task {
	tasks := make([]*reconcile.Task, len(models))
	for i, m := range models {
		tasks[i] = &reconcile.Task{
			ID:        m.ID,
			Kind:      reconcile.Kind(m.Kind),
			SubjectID: m.SubjectID,
			Payload:   json.RawMessage(m.Payload),
			Status:    reconcile.Status(m.Status),
			Attempts:  m.Attempts,
			LastError: m.LastError,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		}
	}
	return tasks
}
