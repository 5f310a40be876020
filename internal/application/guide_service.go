package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/access"
	guideDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/guide"
	placeDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/place"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
)

// UpdateProfileRequest holds the fields a guide edits on their own profile.
// A nil PlaceID leaves the assigned place unchanged.
type UpdateProfileRequest struct {
	Name       string     `json:"name" binding:"required,min=3"`
	Phone      string     `json:"phone" binding:"required,phone"`
	Languages  []string   `json:"languages" binding:"required,min=1,dive,required"`
	Experience int        `json:"experience" binding:"min=0,max=60"`
	Bio        string     `json:"bio" binding:"required,min=20"`
	Image      string     `json:"image" binding:"omitempty,image"`
	PlaceID    *uuid.UUID `json:"place_id"`
}

// AssignPlaceRequest sets or clears (null) a guide's place.
type AssignPlaceRequest struct {
	PlaceID *uuid.UUID `json:"place_id"`
}

// GuideDTO is the response representation of a guide profile.
type GuideDTO struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Languages  []string   `json:"languages"`
	Experience int        `json:"experience"`
	Bio        string     `json:"bio,omitempty"`
	Image      string     `json:"image,omitempty"`
	PlaceID    *uuid.UUID `json:"place_id,omitempty"`
	PlaceName  string     `json:"place_name,omitempty"`
	Status     string     `json:"status"`
	Version    int64      `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// GuideService manages a guide's own profile.
type GuideService struct {
	guides guideDomain.GuideRepository
	places placeDomain.PlaceRepository
	cache  DirectoryCache
	logger *zap.Logger
}

// NewGuideService creates a new GuideService. cache may be nil.
func NewGuideService(
	guides guideDomain.GuideRepository,
	places placeDomain.PlaceRepository,
	cache DirectoryCache,
	logger *zap.Logger,
) *GuideService {
	return &GuideService{guides: guides, places: places, cache: cache, logger: logger}
}

// GetMyProfile returns the caller's guide profile.
func (s *GuideService) GetMyProfile(ctx context.Context, p *access.Principal) (*GuideDTO, error) {
	if !p.Is(access.RoleGuide) {
		return nil, domain.NewForbiddenError("only guides have a profile")
	}
	g, err := s.guides.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	result := toGuideDTO(g)
	return &result, nil
}

// UpdateMyProfile validates and saves the caller's profile.
func (s *GuideService) UpdateMyProfile(ctx context.Context, p *access.Principal, req UpdateProfileRequest) (*GuideDTO, error) {
	if !p.Is(access.RoleGuide) {
		return nil, domain.NewForbiddenError("only guides have a profile")
	}
	g, err := s.guides.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if !g.IsOwnedBy(p.ID) {
		return nil, domain.NewForbiddenError("profile does not belong to this user")
	}

	if err := g.ApplyProfile(guideDomain.Profile{
		Name:       req.Name,
		Phone:      req.Phone,
		Languages:  req.Languages,
		Experience: req.Experience,
		Bio:        req.Bio,
		Image:      req.Image,
	}); err != nil {
		return nil, err
	}

	if req.PlaceID != nil {
		pl, err := s.places.FindByID(ctx, *req.PlaceID)
		if err != nil {
			return nil, err
		}
		id := pl.ID()
		g.AssignPlace(&id, pl.Name())
	}

	if err := s.save(ctx, g); err != nil {
		return nil, err
	}

	s.logger.Info("guide profile updated", zap.String("guide_id", g.ID().String()))
	result := toGuideDTO(g)
	return &result, nil
}

// AssignPlace sets or clears the place of guideID. Admins may assign any
// guide; a guide only themselves.
func (s *GuideService) AssignPlace(ctx context.Context, p *access.Principal, guideID uuid.UUID, placeID *uuid.UUID) (*GuideDTO, error) {
	if !p.Is(access.RoleAdmin) && !(p.Is(access.RoleGuide) && p.ID == guideID) {
		return nil, domain.NewForbiddenError("cannot change another guide's place")
	}
	g, err := s.guides.FindByID(ctx, guideID)
	if err != nil {
		return nil, err
	}

	if placeID == nil {
		g.AssignPlace(nil, "")
	} else {
		pl, err := s.places.FindByID(ctx, *placeID)
		if err != nil {
			return nil, err
		}
		id := pl.ID()
		g.AssignPlace(&id, pl.Name())
	}

	if err := s.save(ctx, g); err != nil {
		return nil, err
	}
	result := toGuideDTO(g)
	return &result, nil
}

func (s *GuideService) save(ctx context.Context, g *guideDomain.Guide) error {
	g.IncrementVersion()
	if err := s.guides.Update(ctx, g); err != nil {
		return err
	}
	invalidateDirectory(ctx, s.cache, s.logger)
	return nil
}

func toGuideDTO(g *guideDomain.Guide) GuideDTO {
	languages := g.Languages()
	if languages == nil {
		languages = []string{}
	}
	return GuideDTO{
		ID:         g.ID(),
		Name:       g.Name(),
		Email:      g.Email(),
		Phone:      g.Phone(),
		Languages:  languages,
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

func toGuideDTOs(guides []*guideDomain.Guide) []GuideDTO {
	dtos := make([]GuideDTO, len(guides))
	for i, g := range guides {
		dtos[i] = toGuideDTO(g)
	}
	return dtos
}
