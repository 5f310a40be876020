package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	guideDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/guide"
	placeDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/place"
)

// PlaceRequest holds the admin-editable fields of a place.
type PlaceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	History     string `json:"history"`
	Image       string `json:"image" binding:"omitempty,image"`
	TicketPrice int64  `json:"ticket_price" binding:"min=0"`
	OpenTime    string `json:"open_time" binding:"omitempty,clocktime"`
	CloseTime   string `json:"close_time" binding:"omitempty,clocktime"`
	LocationURL string `json:"location_url" binding:"omitempty,url"`
}

// GalleryImageRequest appends one image to a place gallery.
type GalleryImageRequest struct {
	Image string `json:"image" binding:"required,image"`
}

// PlaceDTO is the response representation of a place.
type PlaceDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	History     string    `json:"history,omitempty"`
	Image       string    `json:"image,omitempty"`
	Gallery     []string  `json:"gallery"`
	TicketPrice int64     `json:"ticket_price"`
	OpenTime    string    `json:"open_time,omitempty"`
	CloseTime   string    `json:"close_time,omitempty"`
	LocationURL string    `json:"location_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlaceService manages destinations (admin) and serves them to everyone.
type PlaceService struct {
	places placeDomain.PlaceRepository
	guides guideDomain.GuideRepository
	cache  DirectoryCache
	logger *zap.Logger
}

// NewPlaceService creates a new PlaceService. cache may be nil.
func NewPlaceService(
	places placeDomain.PlaceRepository,
	guides guideDomain.GuideRepository,
	cache DirectoryCache,
	logger *zap.Logger,
) *PlaceService {
	return &PlaceService{places: places, guides: guides, cache: cache, logger: logger}
}

// GetPlace returns a single place.
func (s *PlaceService) GetPlace(ctx context.Context, id uuid.UUID) (*PlaceDTO, error) {
	pl, err := s.places.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toPlaceDTO(pl)
	return &result, nil
}

// ListPlaces returns every place ordered by name.
func (s *PlaceService) ListPlaces(ctx context.Context) ([]PlaceDTO, error) {
	places, err := s.places.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toPlaceDTOs(places), nil
}

// CreatePlace adds a destination.
func (s *PlaceService) CreatePlace(ctx context.Context, req PlaceRequest) (*PlaceDTO, error) {
	pl, err := placeDomain.NewPlace(req.details())
	if err != nil {
		return nil, err
	}
	if err := s.places.Save(ctx, pl); err != nil {
		return nil, err
	}
	invalidateDirectory(ctx, s.cache, s.logger)

	s.logger.Info("place created", zap.String("place_id", pl.ID().String()))
	result := toPlaceDTO(pl)
	return &result, nil
}

// UpdatePlace replaces a destination's details.
func (s *PlaceService) UpdatePlace(ctx context.Context, id uuid.UUID, req PlaceRequest) (*PlaceDTO, error) {
	pl, err := s.places.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := pl.Update(req.details()); err != nil {
		return nil, err
	}
	if err := s.places.Update(ctx, pl); err != nil {
		return nil, err
	}
	invalidateDirectory(ctx, s.cache, s.logger)

	result := toPlaceDTO(pl)
	return &result, nil
}

// DeletePlace removes a destination and unassigns its guides. Bookings keep
// their denormalized place name.
func (s *PlaceService) DeletePlace(ctx context.Context, id uuid.UUID) error {
	if _, err := s.places.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.guides.ClearPlace(ctx, id); err != nil {
		return fmt.Errorf("failed to unassign guides: %w", err)
	}
	if err := s.places.Delete(ctx, id); err != nil {
		return err
	}
	invalidateDirectory(ctx, s.cache, s.logger)

	s.logger.Info("place deleted", zap.String("place_id", id.String()))
	return nil
}

// AddGalleryImage appends an image to a place gallery.
func (s *PlaceService) AddGalleryImage(ctx context.Context, id uuid.UUID, image string) (*PlaceDTO, error) {
	pl, err := s.places.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := pl.AddGalleryImage(image); err != nil {
		return nil, err
	}
	if err := s.places.Update(ctx, pl); err != nil {
		return nil, err
	}
	invalidateDirectory(ctx, s.cache, s.logger)

	result := toPlaceDTO(pl)
	return &result, nil
}

// RemoveGalleryImage drops the gallery image at index.
func (s *PlaceService) RemoveGalleryImage(ctx context.Context, id uuid.UUID, index int) (*PlaceDTO, error) {
	pl, err := s.places.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := pl.RemoveGalleryImage(index); err != nil {
		return nil, err
	}
	if err := s.places.Update(ctx, pl); err != nil {
		return nil, err
	}
	invalidateDirectory(ctx, s.cache, s.logger)

	result := toPlaceDTO(pl)
	return &result, nil
}

func (r PlaceRequest) details() placeDomain.Details {
	return placeDomain.Details{
		Name:        r.Name,
		Description: r.Description,
		History:     r.History,
		Image:       r.Image,
		TicketPrice: r.TicketPrice,
		OpenTime:    r.OpenTime,
		CloseTime:   r.CloseTime,
		LocationURL: r.LocationURL,
	}
}

func toPlaceDTO(pl *placeDomain.Place) PlaceDTO {
	d := pl.Details()
	gallery := pl.Gallery()
	if gallery == nil {
		gallery = []string{}
	}
	return PlaceDTO{
		ID:          pl.ID(),
		Name:        d.Name,
		Description: d.Description,
		History:     d.History,
		Image:       d.Image,
		Gallery:     gallery,
		TicketPrice: d.TicketPrice,
		OpenTime:    d.OpenTime,
		CloseTime:   d.CloseTime,
		LocationURL: d.LocationURL,
		CreatedAt:   pl.CreatedAt(),
		UpdatedAt:   pl.UpdatedAt(),
	}
}

func toPlaceDTOs(places []*placeDomain.Place) []PlaceDTO {
	dtos := make([]PlaceDTO, len(places))
	for i, pl := range places {
		dtos[i] = toPlaceDTO(pl)
	}
	return dtos
}
