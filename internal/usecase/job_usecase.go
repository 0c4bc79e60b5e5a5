package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"job-board/internal/domain/job"
	"job-board/internal/events"
	"job-board/internal/pkg/apperror"
	"job-board/internal/validation"

	"go.uber.org/zap"
)

const (
	MessageJobNotFound     = "Job not found"
	MessageInvalidJobInput = "invalid job payload"
	MessageInvalidApproval = "invalid approval payload"
	ParameterJobID         = "Job ID"
)

type JobUsecase interface {
	List(ctx context.Context) ([]job.Job, error)
	Get(ctx context.Context, idParam string) (job.Job, error)
	Create(ctx context.Context, body []byte) error
	Approve(ctx context.Context, idParam string, body []byte) (job.Job, error)
	Delete(ctx context.Context, idParam string) error
}

type Jobs struct {
	repo      job.Repository
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewJobUsecase(repo job.Repository, publisher events.Publisher, logger *zap.Logger) *Jobs {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Jobs{repo: repo, publisher: publisher, logger: logger, now: time.Now}
}

func (u *Jobs) List(ctx context.Context) ([]job.Job, error) {
	items, err := u.repo.List(ctx)
	if err != nil {
		u.logger.Error("list jobs failed", zap.Error(err))
		return nil, apperror.Store(err)
	}
	if items == nil {
		items = []job.Job{}
	}
	return items, nil
}

// Get reports every failure, store outages included, as not found.
func (u *Jobs) Get(ctx context.Context, idParam string) (job.Job, error) {
	id, err := parseID(idParam)
	if err != nil {
		return job.Job{}, apperror.NotFound(MessageJobNotFound, err)
	}

	j, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, job.ErrNotFound) {
			u.logger.Warn("get job failed", zap.Int64("job_id", id), zap.Error(err))
		}
		return job.Job{}, apperror.NotFound(MessageJobNotFound, err)
	}
	return j, nil
}

func (u *Jobs) Create(ctx context.Context, body []byte) error {
	in, err := validation.ValidateCreateJob(body)
	if err != nil {
		return validationError(MessageInvalidJobInput, err)
	}

	id, err := u.repo.Create(ctx, in.ToNewJob())
	if err != nil {
		u.logger.Error("create job failed", zap.String("slug", in.Slug), zap.Error(err))
		return apperror.Store(err)
	}

	u.publish(ctx, events.TypeJobCreated, id)
	return nil
}

// Approve re-reads the posting and writes only approved and updated_at.
// The read and the write are separate statements; concurrent approvals
// of the same id are last-write-wins, which is harmless since both
// write true.
func (u *Jobs) Approve(ctx context.Context, idParam string, body []byte) (job.Job, error) {
	if strings.TrimSpace(idParam) == "" {
		return job.Job{}, apperror.MissingParameter(ParameterJobID)
	}

	if _, err := validation.ValidateApproval(body); err != nil {
		return job.Job{}, validationError(MessageInvalidApproval, err)
	}

	id, err := parseID(idParam)
	if err != nil {
		return job.Job{}, apperror.NotFound(MessageJobNotFound, err)
	}

	existing, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, job.ErrNotFound) {
			u.logger.Warn("approve lookup failed", zap.Int64("job_id", id), zap.Error(err))
		}
		return job.Job{}, apperror.NotFound(MessageJobNotFound, err)
	}

	view := existing.WithApproval(u.now().UTC().Truncate(time.Microsecond))
	if err := u.repo.UpdateApproval(ctx, id, true, view.UpdatedAt); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, apperror.NotFound(MessageJobNotFound, err)
		}
		u.logger.Error("approve job failed", zap.Int64("job_id", id), zap.Error(err))
		return job.Job{}, apperror.Store(err)
	}

	u.publish(ctx, events.TypeJobApproved, id)
	return view, nil
}

// Delete does not read first. Any store failure is reported as not
// found; it is logged at error level so outages stay visible.
func (u *Jobs) Delete(ctx context.Context, idParam string) error {
	id, err := parseID(idParam)
	if err != nil {
		return apperror.NotFound(MessageJobNotFound, err)
	}

	if err := u.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, job.ErrNotFound) {
			u.logger.Error("delete job failed", zap.Int64("job_id", id), zap.Error(err))
		}
		return apperror.NotFound(MessageJobNotFound, err)
	}

	u.publish(ctx, events.TypeJobDeleted, id)
	return nil
}

func (u *Jobs) publish(ctx context.Context, t events.Type, id int64) {
	evt := events.NewJobEvent(t, id, u.now())
	if err := u.publisher.Publish(ctx, evt); err != nil {
		u.logger.Warn("publish job event failed",
			zap.String("event_type", string(t)),
			zap.Int64("job_id", id),
			zap.Error(err),
		)
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, job.ErrNotFound
	}
	return id, nil
}

func validationError(msg string, err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return apperror.Validation(msg, verr.Violations, err)
	}
	return apperror.Validation(msg, nil, err)
}
