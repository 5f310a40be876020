// Package guide models a local guide's public profile. A guide shares its id
// with the user account that owns it.
package guide

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/validation"
)

// GuideStatus represents whether an admin has verified the guide.
type GuideStatus string

const (
	StatusPending  GuideStatus = "pending"
	StatusVerified GuideStatus = "verified"
)

// IsValid returns true for known statuses.
func (s GuideStatus) IsValid() bool {
	return s == StatusPending || s == StatusVerified
}

// Profile holds the fields a guide edits on their own profile.
type Profile struct {
	Name       string
	Phone      string
	Languages  []string
	Experience int
	Bio        string
	Image      string
}

// Validate checks the profile against the shared rules.
func (p Profile) Validate() error {
	v := validation.New()
	v.Required("name", p.Name)
	v.MinLength("name", p.Name, validation.MinNameLen)
	v.Phone("phone", p.Phone)
	v.Between("experience", p.Experience, 0, validation.MaxExperience)
	v.MinLength("bio", p.Bio, validation.MinBioLen)
	v.Image("image", p.Image)
	v.Check(len(cleanLanguages(p.Languages)) > 0, "languages", "at least one language is required")
	return v.Err()
}

// Guide is the aggregate root for a guide profile.
type Guide struct {
	id         uuid.UUID
	name       string
	email      string
	phone      string
	languages  []string
	experience int
	bio        string
	image      string
	placeID    *uuid.UUID
	placeName  string
	status     GuideStatus
	version    int64
	createdAt  time.Time
	updatedAt  time.Time
}

// NewGuide creates a guide profile for the user account id. Profile details
// are filled in later by the guide.
func NewGuide(id uuid.UUID, name, email string, status GuideStatus) (*Guide, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("guide ID is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("guide name is required")
	}
	if !status.IsValid() {
		return nil, domain.NewValidationError("invalid guide status: " + string(status))
	}

	now := time.Now().UTC()
	return &Guide{
		id:        id,
		name:      strings.TrimSpace(name),
		email:     strings.ToLower(strings.TrimSpace(email)),
		languages: []string{},
		status:    status,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Guide from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	name, email, phone string,
	languages []string,
	experience int,
	bio, image string,
	placeID *uuid.UUID,
	placeName string,
	status GuideStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Guide {
	return &Guide{
		id:         id,
		name:       name,
		email:      email,
		phone:      phone,
		languages:  languages,
		experience: experience,
		bio:        bio,
		image:      image,
		placeID:    placeID,
		placeName:  placeName,
		status:     status,
		version:    version,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// --- Getters ---

func (g *Guide) ID() uuid.UUID          { return g.id }
func (g *Guide) Name() string           { return g.name }
func (g *Guide) Email() string          { return g.email }
func (g *Guide) Phone() string          { return g.phone }
func (g *Guide) Languages() []string    { return g.languages }
func (g *Guide) Experience() int        { return g.experience }
func (g *Guide) Bio() string            { return g.bio }
func (g *Guide) Image() string          { return g.image }
func (g *Guide) PlaceID() *uuid.UUID    { return g.placeID }
func (g *Guide) PlaceName() string      { return g.placeName }
func (g *Guide) Status() GuideStatus    { return g.status }
func (g *Guide) Version() int64         { return g.version }
func (g *Guide) CreatedAt() time.Time   { return g.createdAt }
func (g *Guide) UpdatedAt() time.Time   { return g.updatedAt }

// --- Behavior ---

// IsOwnedBy checks if the profile belongs to the given user.
func (g *Guide) IsOwnedBy(userID uuid.UUID) bool {
	return g.id == userID
}

// IsVerified returns true once an admin approved the guide.
func (g *Guide) IsVerified() bool {
	return g.status == StatusVerified
}

// Profile returns the editable profile fields.
func (g *Guide) Profile() Profile {
	return Profile{
		Name:       g.name,
		Phone:      g.phone,
		Languages:  g.languages,
		Experience: g.experience,
		Bio:        g.bio,
		Image:      g.image,
	}
}

// ApplyProfile validates and replaces the editable profile fields.
func (g *Guide) ApplyProfile(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	g.name = strings.TrimSpace(p.Name)
	g.phone = validation.NormalizePhone(p.Phone)
	g.languages = cleanLanguages(p.Languages)
	g.experience = p.Experience
	g.bio = strings.TrimSpace(p.Bio)
	g.image = p.Image
	g.touch()
	return nil
}

// AssignPlace sets or clears (nil id) the place the guide works at.
func (g *Guide) AssignPlace(placeID *uuid.UUID, placeName string) {
	g.placeID = placeID
	g.placeName = placeName
	if placeID == nil {
		g.placeName = ""
	}
	g.touch()
}

// ToggleStatus flips between pending and verified.
func (g *Guide) ToggleStatus() {
	if g.status == StatusVerified {
		g.status = StatusPending
	} else {
		g.status = StatusVerified
	}
	g.touch()
}

// IncrementVersion bumps the version for optimistic locking.
func (g *Guide) IncrementVersion() {
	g.version++
	g.touch()
}

func (g *Guide) touch() {
	g.updatedAt = time.Now().UTC()
}

func cleanLanguages(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, l := range in {
		l = strings.TrimSpace(l)
		key := strings.ToLower(l)
		if l == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}
