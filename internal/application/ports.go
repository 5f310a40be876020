package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/contracts"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/kafka"
)

// EventPublisher publishes CloudEvents to a topic.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, ce kafka.CloudEvent) error
}

// SessionStore revokes session tokens until they expire.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// DirectoryCache holds the serialized directory overview.
type DirectoryCache interface {
	Get(ctx context.Context) ([]byte, bool, error)
	Set(ctx context.Context, payload []byte) error
	Invalidate(ctx context.Context) error
}

// Clock returns the current time.
type Clock func() time.Time

// publishEvent wraps data in a CloudEvent and publishes it. Failures are
// logged and otherwise ignored.
func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, topic, eventType, subject string, data interface{}) {
	if publisher == nil {
		return
	}
	ce, err := kafka.NewCloudEvent(contracts.EventSource, eventType, data)
	if err != nil {
		logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	ce.Subject = subject

	if err := publisher.PublishEvent(ctx, topic, ce); err != nil {
		logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// invalidateDirectory drops the cached overview after a guide or place write.
func invalidateDirectory(ctx context.Context, cache DirectoryCache, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logger.Warn("failed to invalidate directory cache", zap.Error(err))
	}
}
