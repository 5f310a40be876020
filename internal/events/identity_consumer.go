package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/contracts"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/kafka"
)

// AccountPurger removes an account and any guide profile it owns.
type AccountPurger interface {
	PurgeAccount(ctx context.Context, id uuid.UUID) error
}

// IdentityEventConsumer listens to identity events and purges deleted accounts.
type IdentityEventConsumer struct {
	consumer *kafka.Consumer
	purger   AccountPurger
	logger   *zap.Logger
}

// NewIdentityEventConsumer creates a new IdentityEventConsumer.
func NewIdentityEventConsumer(
	brokers []string,
	groupID string,
	purger AccountPurger,
	logger *zap.Logger,
) *IdentityEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, contracts.TopicIdentityEvents, logger)
	return &IdentityEventConsumer{
		consumer: consumer,
		purger:   purger,
		logger:   logger,
	}
}

// Start begins consuming identity events. This blocks until the context is cancelled.
func (c *IdentityEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *IdentityEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *IdentityEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from identity topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case contracts.IdentityAccountDeleted:
		return c.handleAccountDeleted(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled identity event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *IdentityEventConsumer) handleAccountDeleted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt contracts.AccountDeletedEvent
	if err := cloudEvent.ParseData(&evt); err != nil || evt.AccountID == uuid.Nil {
		c.logger.Error("failed to parse AccountDeletedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	err := c.purger.PurgeAccount(ctx, evt.AccountID)
	var partial *domain.PartialFailureError
	switch {
	case err == nil, domain.IsNotFound(err):
		c.logger.Info("account purged after identity deletion",
			zap.String("account_id", evt.AccountID.String()),
		)
		return nil
	case errors.As(err, &partial):
		// The reconciler owns the remainder.
		c.logger.Warn("account purge left a reconciliation task",
			zap.String("account_id", evt.AccountID.String()),
			zap.String("task_id", partial.TaskID),
		)
		return nil
	default:
		c.logger.Error("failed to purge account",
			zap.String("account_id", evt.AccountID.String()),
			zap.Error(err),
		)
		return err
	}
}
