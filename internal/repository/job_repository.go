package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"job-board/internal/database"
	"job-board/internal/domain/job"
	"job-board/internal/telemetry"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = telemetry.GetTracer("job-board/repository")

const JobsTable = "jobs"

// JobColumns lists the columns every job query selects, in scan order.
var JobColumns = []string{
	"id", "slug", "title", "type", "location_type", "location", "description",
	"salary", "company_name", "application_email", "application_url",
	"company_logo_url", "approved", "created_at", "updated_at",
}

const selectJobColumns = `id, slug, title, type, location_type, location, description,
	salary, company_name, application_email, application_url,
	company_logo_url, approved, created_at, updated_at`

type PostgresJobRepository struct {
	db database.DB
}

var _ job.Repository = (*PostgresJobRepository)(nil)

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) List(ctx context.Context) ([]job.Job, error) {
	ctx, span := startSpan(ctx, "jobs.List")
	defer span.End()

	rows, err := r.db.Query(ctx, `SELECT `+selectJobColumns+` FROM jobs ORDER BY id`)
	if err != nil {
		return nil, recordErr(span, err)
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, recordErr(span, err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, recordErr(span, err)
	}

	span.SetAttributes(telemetry.Int("db.rows", len(out)))
	return out, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id int64) (job.Job, error) {
	ctx, span := startSpan(ctx, "jobs.GetByID")
	defer span.End()
	span.SetAttributes(telemetry.Int64("job.id", id))

	row := r.db.QueryRow(ctx, `SELECT `+selectJobColumns+` FROM jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err != nil {
		if isNoRows(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, recordErr(span, err)
	}
	return j, nil
}

func (r *PostgresJobRepository) Create(ctx context.Context, in job.NewJob) (int64, error) {
	ctx, span := startSpan(ctx, "jobs.Create")
	defer span.End()

	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (
			slug, title, type, location_type, location, description, salary,
			company_name, application_email, application_url, company_logo_url,
			approved, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			COALESCE($13::timestamptz, now()), COALESCE($14::timestamptz, now())
		)
		RETURNING id`,
		in.Slug, in.Title, in.Type, in.LocationType, in.Location, in.Description, in.Salary,
		in.CompanyName, in.ApplicationEmail, in.ApplicationURL, in.CompanyLogoURL,
		in.Approved, in.CreatedAt, in.UpdatedAt,
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, recordErr(span, err)
	}
	span.SetAttributes(telemetry.Int64("job.id", id))
	return id, nil
}

func (r *PostgresJobRepository) UpdateApproval(ctx context.Context, id int64, approved bool, updatedAt time.Time) error {
	ctx, span := startSpan(ctx, "jobs.UpdateApproval")
	defer span.End()
	span.SetAttributes(telemetry.Int64("job.id", id))

	n, err := r.db.Exec(ctx,
		`UPDATE jobs SET approved = $2, updated_at = $3 WHERE id = $1`,
		id, approved, updatedAt,
	)
	if err != nil {
		return recordErr(span, err)
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := startSpan(ctx, "jobs.Delete")
	defer span.End()
	span.SetAttributes(telemetry.Int64("job.id", id))

	n, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return recordErr(span, err)
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

type jobRow interface {
	Scan(dest ...any) error
}

func scanJob(row jobRow) (job.Job, error) {
	var j job.Job
	err := row.Scan(
		&j.ID, &j.Slug, &j.Title, &j.Type, &j.LocationType, &j.Location, &j.Description,
		&j.Salary, &j.CompanyName, &j.ApplicationEmail, &j.ApplicationURL,
		&j.CompanyLogoURL, &j.Approved, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return job.Job{}, err
	}
	j.CreatedAt = j.CreatedAt.UTC()
	j.UpdatedAt = j.UpdatedAt.UTC()
	return j, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, name)
	span.SetAttributes(telemetry.String("db.system", "postgresql"), telemetry.String("db.sql.table", "jobs"))
	return ctx, span
}

func recordErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
