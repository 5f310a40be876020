package booking

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows the admin booking list.
type ListFilter struct {
	Status BookingStatus
	Search string
	Page   int
	Limit  int
}

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByGuideID returns every booking addressed to the guide in creation order.
	FindByGuideID(ctx context.Context, guideID uuid.UUID) ([]*Booking, error)

	// FindByTouristID returns every booking the tourist made in creation order.
	FindByTouristID(ctx context.Context, touristID uuid.UUID) ([]*Booking, error)

	// FindUpcoming returns bookings on or after fromDate for the guide or
	// tourist, ordered by date then time.
	FindUpcoming(ctx context.Context, guideID, touristID *uuid.UUID, fromDate string) ([]*Booking, error)

	// List returns a filtered page of all bookings, newest first (admin).
	List(ctx context.Context, filter ListFilter) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}
