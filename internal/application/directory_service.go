package application

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	guideDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/guide"
	placeDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/place"
)

// DirectoryOverview is the read model behind the explore and admin pages.
// GuideCounts is keyed by place id; Unassigned counts guides without a place.
type DirectoryOverview struct {
	Guides      []GuideDTO       `json:"guides"`
	Places      []PlaceDTO       `json:"places"`
	GuideCounts map[string]int64 `json:"guide_counts"`
	Unassigned  int64            `json:"unassigned"`
}

// DirectoryService serves the read-only guide directory.
type DirectoryService struct {
	guides guideDomain.GuideRepository
	places placeDomain.PlaceRepository
	cache  DirectoryCache
	logger *zap.Logger
}

// NewDirectoryService creates a new DirectoryService. cache may be nil.
func NewDirectoryService(
	guides guideDomain.GuideRepository,
	places placeDomain.PlaceRepository,
	cache DirectoryCache,
	logger *zap.Logger,
) *DirectoryService {
	return &DirectoryService{guides: guides, places: places, cache: cache, logger: logger}
}

// Overview returns all guides, all places and guide counts per place. Cache
// failures fall through to the store.
func (s *DirectoryService) Overview(ctx context.Context) (*DirectoryOverview, error) {
	if s.cache != nil {
		raw, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			s.logger.Warn("directory cache read failed", zap.Error(err))
		case ok:
			var cached DirectoryOverview
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
			s.logger.Warn("discarding malformed directory cache entry")
		}
	}

	overview, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(overview); err == nil {
			if err := s.cache.Set(ctx, raw); err != nil {
				s.logger.Warn("directory cache write failed", zap.Error(err))
			}
		}
	}
	return overview, nil
}

func (s *DirectoryService) load(ctx context.Context) (*DirectoryOverview, error) {
	guides, err := s.guides.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	places, err := s.places.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.guides.CountByPlace(ctx)
	if err != nil {
		return nil, err
	}

	unassigned := counts[""]
	byPlace := make(map[string]int64, len(places))
	for _, pl := range places {
		byPlace[pl.ID().String()] = counts[pl.ID().String()]
	}

	return &DirectoryOverview{
		Guides:      toGuideDTOs(guides),
		Places:      toPlaceDTOs(places),
		GuideCounts: byPlace,
		Unassigned:  unassigned,
	}, nil
}

// GuidesForPlace returns the guides assigned to placeID.
func (s *DirectoryService) GuidesForPlace(ctx context.Context, placeID uuid.UUID) ([]GuideDTO, error) {
	if _, err := s.places.FindByID(ctx, placeID); err != nil {
		return nil, err
	}
	guides, err := s.guides.FindByPlaceID(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return toGuideDTOs(guides), nil
}

// GetGuide returns one guide's public profile.
func (s *DirectoryService) GetGuide(ctx context.Context, id uuid.UUID) (*GuideDTO, error) {
	g, err := s.guides.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toGuideDTO(g)
	return &result, nil
}
