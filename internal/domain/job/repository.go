package job

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("job not found")

type Repository interface {
	List(ctx context.Context) ([]Job, error)
	GetByID(ctx context.Context, id int64) (Job, error)
	Create(ctx context.Context, in NewJob) (int64, error)
	UpdateApproval(ctx context.Context, id int64, approved bool, updatedAt time.Time) error
	Delete(ctx context.Context, id int64) error
}
