package place

import (
	"context"

	"github.com/google/uuid"
)

// PlaceRepository defines persistence operations for places.
type PlaceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Place, error)
	FindAll(ctx context.Context) ([]*Place, error)
	Save(ctx context.Context, place *Place) error
	Update(ctx context.Context, place *Place) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
