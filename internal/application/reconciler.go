package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	guideDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/guide"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/reconcile"
	userDomain "github.com/ShahadThayyil/wayanad-tour-guide/internal/domain/user"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/notification"
	"github.com/ShahadThayyil/wayanad-tour-guide/internal/platform/domain"
)

// Reconciler replays pending reconciliation tasks on an interval.
type Reconciler struct {
	tasks       reconcile.Repository
	users       userDomain.UserRepository
	guides      guideDomain.GuideRepository
	notifier    notification.Notifier
	interval    time.Duration
	maxAttempts int
	batchSize   int
	logger      *zap.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(
	tasks reconcile.Repository,
	users userDomain.UserRepository,
	guides guideDomain.GuideRepository,
	notifier notification.Notifier,
	interval time.Duration,
	maxAttempts, batchSize int,
	logger *zap.Logger,
) *Reconciler {
	return &Reconciler{
		tasks:       tasks,
		users:       users,
		guides:      guides,
		notifier:    notifier,
		interval:    interval,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
		logger:      logger,
	}
}

// Run replays tasks until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", zap.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				r.logger.Error("reconciliation pass failed", zap.Error(err))
			}
		}
	}
}

// RunOnce replays one batch of pending tasks and returns how many completed.
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	pending, err := r.tasks.FindPending(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, task := range pending {
		replayErr := r.replay(ctx, task)
		task.RecordAttempt(replayErr, r.maxAttempts)
		if err := r.tasks.Update(ctx, task); err != nil {
			r.logger.Error("failed to update reconciliation task",
				zap.String("task_id", task.ID.String()),
				zap.Error(err),
			)
			continue
		}

		switch task.Status {
		case reconcile.StatusDone:
			done++
			r.logger.Info("reconciliation task completed",
				zap.String("task_id", task.ID.String()),
				zap.String("kind", string(task.Kind)),
			)
		case reconcile.StatusFailed:
			r.logger.Error("reconciliation task gave up",
				zap.String("task_id", task.ID.String()),
				zap.String("kind", string(task.Kind)),
				zap.Int("attempts", task.Attempts),
				zap.String("last_error", task.LastError),
			)
		}
	}
	return done, nil
}

func (r *Reconciler) replay(ctx context.Context, task *reconcile.Task) error {
	switch task.Kind {
	case reconcile.KindDeleteUser:
		return ignoreNotFound(r.users.Delete(ctx, task.SubjectID))
	case reconcile.KindDeleteGuide:
		return ignoreNotFound(r.guides.Delete(ctx, task.SubjectID))
	case reconcile.KindApprovalEmail:
		var email notification.ApprovalEmail
		if err := json.Unmarshal(task.Payload, &email); err != nil {
			return fmt.Errorf("invalid approval email payload: %w", err)
		}
		return r.notifier.SendApprovalEmail(ctx, email)
	}
	return fmt.Errorf("unknown task kind %q", task.Kind)
}

func ignoreNotFound(err error) error {
	if domain.IsNotFound(err) {
		return nil
	}
	return err
}
