//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/application"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/contracts"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/access"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/repository"
)

// TestConfirmBooking_PublishesEvent books a guide against Postgres, lets the
// guide confirm it and expects booking.confirmed on booking.events.
func TestConfirmBooking_PublishesEvent(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupTourStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	ctx := context.Background()
	guide := signup(t, stack.Auth, "ravi", access.RoleGuide)
	tourist := signup(t, stack.Auth, "asha", access.RoleTourist)

	booking, err := stack.Bookings.CreateBooking(ctx, tourist, application.CreateBookingRequest{
		GuideID: guide.ID,
		Date:    "2026-12-01",
		Time:    "09:30",
		Guests:  2,
		Phone:   "9876543210",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", booking.Status)

	result, err := stack.Bookings.TransitionStatus(ctx, guide, booking.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", result.Booking.Status)
	require.NotNil(t, result.NotificationSent)
	assert.True(t, *result.NotificationSent)

	_, err = stack.Bookings.TransitionStatus(ctx, guide, booking.ID, "rejected")
	var invalid *domain.InvalidStateError
	assert.ErrorAs(t, err, &invalid)

	ce := consumeOneEvent(t, infra.KafkaBrokers, contracts.TopicBookingEvents,
		contracts.BookingConfirmed, 15*time.Second)

	var decided contracts.BookingDecidedEvent
	require.NoError(t, ce.ParseData(&decided))
	assert.Equal(t, booking.ID, decided.BookingID)
	assert.Equal(t, guide.ID, decided.GuideID)
	assert.Equal(t, "confirmed", decided.Status)
}

// TestAccountDeleted_PurgesGuide publishes identity.account.deleted and
// expects both the guide profile and the account to disappear.
func TestAccountDeleted_PurgesGuide(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupTourStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	guide := signup(t, stack.Auth, "meera", access.RoleGuide)
	guides, err := rowCount(infra.DB, &repository.GuideModel{}, guide.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), guides)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	publishTestEvent(t, infra.KafkaBrokers, contracts.TopicIdentityEvents, "service-identity",
		contracts.IdentityAccountDeleted, contracts.AccountDeletedEvent{
			AccountID:  guide.ID,
			OccurredAt: time.Now().UTC(),
		})

	require.Eventually(t, func() bool {
		guides, err := rowCount(infra.DB, &repository.GuideModel{}, guide.ID)
		if err != nil {
			return false
		}
		users, err := rowCount(infra.DB, &repository.UserModel{}, guide.ID)
		return err == nil && guides == 0 && users == 0
	}, 15*time.Second, 200*time.Millisecond, "guide and account were not purged")
}
