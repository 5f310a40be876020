// Package notification dispatches emails to tourists.
package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/rabbitmq"
)

// ApprovalEmail tells a tourist their guide accepted the booking.
type ApprovalEmail struct {
	BookingID    uuid.UUID `json:"booking_id"`
	Reference    string    `json:"reference"`
	TouristName  string    `json:"tourist_name"`
	TouristEmail string    `json:"tourist_email"`
	GuideName    string    `json:"guide_name"`
	PlaceName    string    `json:"place_name"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Guests       int       `json:"guests"`
}

// Notifier sends booking emails.
type Notifier interface {
	SendApprovalEmail(ctx context.Context, email ApprovalEmail) error
}

// QueueNotifier hands emails to the mail worker through RabbitMQ.
type QueueNotifier struct {
	publisher *rabbitmq.Publisher
	queue     string
	logger    *zap.Logger
}

// NewQueueNotifier creates a QueueNotifier publishing to queue.
func NewQueueNotifier(publisher *rabbitmq.Publisher, queue string, logger *zap.Logger) *QueueNotifier {
	return &QueueNotifier{publisher: publisher, queue: queue, logger: logger}
}

func (n *QueueNotifier) SendApprovalEmail(ctx context.Context, email ApprovalEmail) error {
	msg := struct {
		Template string        `json:"template"`
		To       string        `json:"to"`
		Data     ApprovalEmail `json:"data"`
	}{
		Template: "booking_approved",
		To:       email.TouristEmail,
		Data:     email,
	}
	if err := n.publisher.PublishJSON(ctx, n.queue, msg); err != nil {
		return err
	}
	n.logger.Info("approval email queued",
		zap.String("booking_id", email.BookingID.String()),
		zap.String("queue", n.queue),
	)
	return nil
}

// LogNotifier writes emails to the log. Used when no broker is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendApprovalEmail(_ context.Context, email ApprovalEmail) error {
	n.logger.Info("approval email",
		zap.String("booking_id", email.BookingID.String()),
		zap.String("reference", email.Reference),
		zap.String("to", email.TouristEmail),
		zap.String("guide", email.GuideName),
		zap.String("date", email.Date),
		zap.String("time", email.Time),
	)
	return nil
}
