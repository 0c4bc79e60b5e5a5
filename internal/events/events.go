package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeJobCreated  Type = "job.created"
	TypeJobApproved Type = "job.approved"
	TypeJobDeleted  Type = "job.deleted"
)

// JobEvent announces a completed mutation of one job posting.
type JobEvent struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	JobID      int64     `json:"job_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewJobEvent(t Type, jobID int64, now time.Time) JobEvent {
	return JobEvent{
		ID:         uuid.NewString(),
		Type:       t,
		JobID:      jobID,
		OccurredAt: now.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, evt JobEvent) error
}

type Nop struct{}

func (Nop) Publish(context.Context, JobEvent) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, evt JobEvent) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
