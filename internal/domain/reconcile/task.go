// Package reconcile models follow-up work recorded when a multi-step write
// only partly succeeded. A background worker replays pending tasks.
package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind names the operation a task replays.
type Kind string

const (
	KindDeleteUser    Kind = "delete_user"
	KindDeleteGuide   Kind = "delete_guide"
	KindApprovalEmail Kind = "approval_email"
)

// Status of a task.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Task is one recorded follow-up.
type Task struct {
	ID        uuid.UUID       `json:"id"`
	Kind      Kind            `json:"kind"`
	SubjectID uuid.UUID       `json:"subject_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Status    Status          `json:"status"`
	Attempts  int             `json:"attempts"`
	LastError string          `json:"last_error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewTask creates a pending task. payload may be nil.
func NewTask(kind Kind, subjectID uuid.UUID, payload interface{}, cause error) (*Task, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal task payload: %w", err)
		}
		raw = b
	}
	now := time.Now().UTC()
	t := &Task{
		ID:        uuid.New(),
		Kind:      kind,
		SubjectID: subjectID,
		Payload:   raw,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if cause != nil {
		t.LastError = cause.Error()
	}
	return t, nil
}

// RecordAttempt counts one replay. A nil err marks the task done; otherwise
// it stays pending until maxAttempts is reached and then fails.
func (t *Task) RecordAttempt(err error, maxAttempts int) {
	t.Attempts++
	t.UpdatedAt = time.Now().UTC()
	if err == nil {
		t.Status = StatusDone
		t.LastError = ""
		return
	}
	t.LastError = err.Error()
	if t.Attempts >= maxAttempts {
		t.Status = StatusFailed
	}
}

// Repository persists tasks.
type Repository interface {
	Save(ctx context.Context, task *Task) error
	Update(ctx context.Context, task *Task) error
	FindPending(ctx context.Context, limit int) ([]*Task, error)
	List(ctx context.Context, status Status, page, limit int) ([]*Task, int64, error)
}
