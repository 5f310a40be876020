// Package place models a tourist destination guides can be assigned to.
package place

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/validation"
)

// Details holds the admin-editable fields of a place.
type Details struct {
	Name        string
	Description string
	History     string
	Image       string
	TicketPrice int64
	OpenTime    string
	CloseTime   string
	LocationURL string
}

// Validate checks the details against the shared rules.
func (d Details) Validate() error {
	v := validation.New()
	v.Required("name", d.Name)
	v.Required("description", d.Description)
	v.Image("image", d.Image)
	v.Check(d.TicketPrice >= 0, "ticket_price", "must not be negative")
	if d.OpenTime != "" {
		v.ClockTime("open_time", d.OpenTime)
	}
	if d.CloseTime != "" {
		v.ClockTime("close_time", d.CloseTime)
	}
	if d.OpenTime != "" && d.CloseTime != "" && validation.IsClockTime(d.OpenTime) && validation.IsClockTime(d.CloseTime) {
		v.Check(d.OpenTime < d.CloseTime, "close_time", "must be after open_time")
	}
	if d.LocationURL != "" {
		v.Check(strings.HasPrefix(d.LocationURL, "http://") || strings.HasPrefix(d.LocationURL, "https://"),
			"location_url", "must be an http(s) URL")
	}
	return v.Err()
}

// Place is the aggregate root for a destination.
type Place struct {
	id        uuid.UUID
	details   Details
	gallery   []string
	createdAt time.Time
	updatedAt time.Time
}

// NewPlace creates a validated place.
func NewPlace(d Details) (*Place, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Place{
		id:        uuid.New(),
		details:   trim(d),
		gallery:   []string{},
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Place from persistence.
func Reconstruct(id uuid.UUID, d Details, gallery []string, createdAt, updatedAt time.Time) *Place {
	if gallery == nil {
		gallery = []string{}
	}
	return &Place{id: id, details: d, gallery: gallery, createdAt: createdAt, updatedAt: updatedAt}
}

// Getters.
func (p *Place) ID() uuid.UUID        { return p.id }
func (p *Place) Name() string         { return p.details.Name }
func (p *Place) Details() Details     { return p.details }
func (p *Place) Gallery() []string    { return p.gallery }
func (p *Place) CreatedAt() time.Time { return p.createdAt }
func (p *Place) UpdatedAt() time.Time { return p.updatedAt }

// Update replaces the details after validation.
func (p *Place) Update(d Details) error {
	if err := d.Validate(); err != nil {
		return err
	}
	p.details = trim(d)
	p.updatedAt = time.Now().UTC()
	return nil
}

// AddGalleryImage appends an image, keeping at most MaxGalleryItems.
func (p *Place) AddGalleryImage(image string) error {
	if err := validation.CheckImage(image); err != nil {
		return domain.NewFieldValidationError(map[string]string{"image": err.Error()})
	}
	if len(p.gallery) >= validation.MaxGalleryItems {
		return domain.NewValidationError(fmt.Sprintf("gallery already holds %d images", validation.MaxGalleryItems))
	}
	p.gallery = append(p.gallery, image)
	p.updatedAt = time.Now().UTC()
	return nil
}

// RemoveGalleryImage drops the image at index.
func (p *Place) RemoveGalleryImage(index int) error {
	if index < 0 || index >= len(p.gallery) {
		return domain.NewNotFoundError("GalleryImage", fmt.Sprint(index))
	}
	p.gallery = append(p.gallery[:index:index], p.gallery[index+1:]...)
	p.updatedAt = time.Now().UTC()
	return nil
}

func trim(d Details) Details {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.History = strings.TrimSpace(d.History)
	return d
}
