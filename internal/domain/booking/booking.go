package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/access"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/validation"
)

const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Party is a denormalized reference to a user taking part in a booking.
type Party struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// PlaceRef is a denormalized reference to the place being visited.
type PlaceRef struct {
	ID   *uuid.UUID
	Name string
}

// Visit describes when and how many people are visiting.
type Visit struct {
	Date     string
	Time     string
	Guests   int
	Phone    string
	Requests string
}

// Booking is the aggregate root for a tourist's request to hire a guide.
type Booking struct {
	id        uuid.UUID
	reference string
	tourist   Party
	guide     Party
	place     PlaceRef
	visit     Visit
	status    BookingStatus
	decidedAt *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateReference creates a reference in the format "TG-XXXXXX".
func generateReference() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking reference: %w", err)
		}
		result[i] = referenceChars[n.Int64()]
	}
	return "TG-" + string(result), nil
}

// NewBooking creates a pending booking. The status is always pending no
// matter what the caller asked for.
func NewBooking(tourist, guide Party, place PlaceRef, visit Visit) (*Booking, error) {
	v := validation.New()
	v.Check(tourist.ID != uuid.Nil, "tourist_id", "is required")
	v.Check(guide.ID != uuid.Nil, "guide_id", "is required")
	v.Date("date", visit.Date)
	v.ClockTime("time", visit.Time)
	v.Between("guests", visit.Guests, 1, validation.MaxGuests)
	v.Phone("phone", visit.Phone)
	if tourist.Email != "" {
		v.Email("tourist_email", tourist.Email)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	reference, err := generateReference()
	if err != nil {
		return nil, err
	}

	visit.Requests = strings.TrimSpace(visit.Requests)
	visit.Phone = validation.NormalizePhone(visit.Phone)
	now := time.Now().UTC()
	return &Booking{
		id:        uuid.New(),
		reference: reference,
		tourist:   tourist,
		guide:     guide,
		place:     place,
		visit:     visit,
		status:    StatusPending,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	reference string,
	tourist, guide Party,
	place PlaceRef,
	visit Visit,
	status BookingStatus,
	decidedAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		reference: reference,
		tourist:   tourist,
		guide:     guide,
		place:     place,
		visit:     visit,
		status:    status,
		decidedAt: decidedAt,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// Reference returns the human-readable booking reference.
func (b *Booking) Reference() string { return b.reference }

// Tourist returns the requesting tourist.
func (b *Booking) Tourist() Party { return b.tourist }

// Guide returns the requested guide.
func (b *Booking) Guide() Party { return b.guide }

// TouristID returns the requesting tourist's id.
func (b *Booking) TouristID() uuid.UUID { return b.tourist.ID }

// GuideID returns the requested guide's id.
func (b *Booking) GuideID() uuid.UUID { return b.guide.ID }

// Place returns the place being visited.
func (b *Booking) Place() PlaceRef { return b.place }

// Visit returns the visit details.
func (b *Booking) Visit() Visit { return b.visit }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// DecidedAt returns when the guide confirmed or rejected the booking.
func (b *Booking) DecidedAt() *time.Time { return b.decidedAt }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// VisibleTo reports whether p may read this booking.
func (b *Booking) VisibleTo(p *access.Principal) bool {
	switch {
	case p == nil:
		return false
	case p.Role == access.RoleAdmin:
		return true
	case p.Role == access.RoleTourist:
		return p.ID == b.tourist.ID
	case p.Role == access.RoleGuide:
		return p.ID == b.guide.ID
	}
	return false
}

// Decide moves a pending booking to confirmed or rejected. Only the guide the
// booking was addressed to may decide it.
func (b *Booking) Decide(p *access.Principal, target BookingStatus) error {
	if !target.IsDecision() {
		return domain.NewValidationError(fmt.Sprintf("status must be confirmed or rejected, got %q", target))
	}
	if !p.Is(access.RoleGuide) || p.ID != b.guide.ID {
		return domain.NewForbiddenError("only the assigned guide may decide this booking")
	}
	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}

	now := time.Now().UTC()
	b.status = target
	b.decidedAt = &now
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}

// Slot returns the visit date and time as a sortable key.
func (b *Booking) Slot() string {
	return b.visit.Date + " " + b.visit.Time
}
