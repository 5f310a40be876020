// Package contracts defines the Kafka topics, event types and payloads the
// service produces and consumes.
package contracts

import (
	"time"

	"github.com/google/uuid"
)

// Topics.
const (
	TopicBookingEvents  = "booking.events"
	TopicIdentityEvents = "identity.events"
)

// Booking event types.
const (
	BookingRequested = "booking.requested"
	BookingConfirmed = "booking.confirmed"
	BookingRejected  = "booking.rejected"
)

// Identity event types.
const (
	IdentityAccountDeleted = "identity.account.deleted"
)

// EventSource is the CloudEvent source of everything this service publishes.
const EventSource = "service-tourguide"

// BookingRequestedEvent is published when a tourist submits a booking.
type BookingRequestedEvent struct {
	BookingID  uuid.UUID  `json:"booking_id"`
	Reference  string     `json:"reference"`
	TouristID  uuid.UUID  `json:"tourist_id"`
	GuideID    uuid.UUID  `json:"guide_id"`
	PlaceID    *uuid.UUID `json:"place_id,omitempty"`
	Date       string     `json:"date"`
	Time       string     `json:"time"`
	Guests     int        `json:"guests"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// BookingDecidedEvent is published when the guide confirms or rejects.
type BookingDecidedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	Reference  string    `json:"reference"`
	TouristID  uuid.UUID `json:"tourist_id"`
	GuideID    uuid.UUID `json:"guide_id"`
	Status     string    `json:"status"`
	DecidedAt  time.Time `json:"decided_at"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AccountDeletedEvent asks the service to purge an account and its guide profile.
type AccountDeletedEvent struct {
	AccountID  uuid.UUID `json:"account_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
