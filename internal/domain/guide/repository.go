package guide

import (
	"context"

	"github.com/google/uuid"
)

// GuideRepository defines persistence operations for guide profiles.
type GuideRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Guide, error)
	FindAll(ctx context.Context) ([]*Guide, error)
	FindByPlaceID(ctx context.Context, placeID uuid.UUID) ([]*Guide, error)
	// CountByPlace returns guide counts keyed by place id; the empty key
	// counts guides without a place.
	CountByPlace(ctx context.Context) (map[string]int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	Save(ctx context.Context, guide *Guide) error
	Update(ctx context.Context, guide *Guide) error
	// ClearPlace unassigns every guide from a deleted place.
	ClearPlace(ctx context.Context, placeID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
