package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/job-board/internal/domain"
)

// JobFilter captures listing parameters for postings.
type JobFilter struct {
	Status          *domain.JobStatus
	PostedBy        *string
	Category        *string
	JobType         *domain.JobType
	ExperienceLevel *domain.ExperienceLevel
	Location        *string
	SearchTerm      *string
	IsRemote        *bool
	Page
}

// JobRepository encapsulates job persistence.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	Update(ctx context.Context, job *domain.Job) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Job, error)
	IncrementViews(ctx context.Context, id string) error
	List(ctx context.Context, filter JobFilter) ([]domain.Job, int, error)
	ListMissingSlug(ctx context.Context) ([]domain.Job, error)
	SetSlug(ctx context.Context, id, slug string) error
}

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository instantiates repository.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

const jobColumns = `id, title, description, requirements, company, location, job_type, category, experience_level,
               salary_min, salary_max, salary_currency, skills, benefits, tags, is_remote, application_deadline,
               posted_by, status, applications_count, views, COALESCE(slug, ''), created_at, updated_at`

// Create assigns the id and slug on first save.
func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	job.EnsureSlug()

	const query = `
        INSERT INTO jobs (id, title, description, requirements, company, location, job_type, category, experience_level,
            salary_min, salary_max, salary_currency, skills, benefits, tags, is_remote, application_deadline,
            posted_by, status, slug)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,NULLIF($20, ''))
        RETURNING applications_count, views, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		job.ID,
		job.Title,
		job.Description,
		job.Requirements,
		job.Company,
		job.Location,
		job.JobType,
		job.Category,
		job.ExperienceLevel,
		job.Salary.Min,
		job.Salary.Max,
		job.Salary.Currency,
		nonNil(job.Skills),
		nonNil(job.Benefits),
		nonNil(job.Tags),
		job.IsRemote,
		job.ApplicationDeadline,
		job.PostedBy,
		job.Status,
		job.Slug,
	).Scan(&job.ApplicationsCount, &job.Views, &job.CreatedAt, &job.UpdatedAt)
	return translateWriteError(err)
}

// Update never touches slug, applications_count or views; those have their own writers.
func (r *jobRepository) Update(ctx context.Context, job *domain.Job) error {
	const query = `
        UPDATE jobs SET title=$1, description=$2, requirements=$3, company=$4, location=$5, job_type=$6,
            category=$7, experience_level=$8, salary_min=$9, salary_max=$10, salary_currency=$11, skills=$12,
            benefits=$13, tags=$14, is_remote=$15, application_deadline=$16, status=$17, updated_at=NOW()
        WHERE id=$18
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		job.Title,
		job.Description,
		job.Requirements,
		job.Company,
		job.Location,
		job.JobType,
		job.Category,
		job.ExperienceLevel,
		job.Salary.Min,
		job.Salary.Max,
		job.Salary.Currency,
		nonNil(job.Skills),
		nonNil(job.Benefits),
		nonNil(job.Tags),
		job.IsRemote,
		job.ApplicationDeadline,
		job.Status,
		job.ID,
	).Scan(&job.UpdatedAt)
}

func (r *jobRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	return scanJob(r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id=$1`, id))
}

func (r *jobRepository) GetBySlug(ctx context.Context, slug string) (*domain.Job, error) {
	return scanJob(r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE slug=$1`, slug))
}

func (r *jobRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE jobs SET views = views + 1 WHERE id=$1`, id)
	return err
}

func (r *jobRepository) List(ctx context.Context, filter JobFilter) ([]domain.Job, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.PostedBy != nil {
		args = append(args, *filter.PostedBy)
		clauses = append(clauses, fmt.Sprintf("posted_by=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.JobType != nil {
		args = append(args, *filter.JobType)
		clauses = append(clauses, fmt.Sprintf("job_type=$%d", len(args)))
	}
	if filter.ExperienceLevel != nil {
		args = append(args, *filter.ExperienceLevel)
		clauses = append(clauses, fmt.Sprintf("experience_level=$%d", len(args)))
	}
	if filter.IsRemote != nil {
		args = append(args, *filter.IsRemote)
		clauses = append(clauses, fmt.Sprintf("is_remote=$%d", len(args)))
	}
	if filter.Location != nil && strings.TrimSpace(*filter.Location) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.Location))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(location) LIKE $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.SearchTerm))+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s OR LOWER(company) LIKE %s)",
			placeholder, placeholder, placeholder))
	}
	where := strings.Join(clauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page.normalized()
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		jobColumns, where, page.Limit, page.Offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	jobs, err := scanJobs(rows)
	return jobs, total, err
}

func (r *jobRepository) ListMissingSlug(ctx context.Context) ([]domain.Job, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE slug IS NULL OR slug = '' ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

// SetSlug only fills an empty slug so a concurrent writer cannot overwrite one.
func (r *jobRepository) SetSlug(ctx context.Context, id, slug string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE jobs SET slug=$1 WHERE id=$2 AND (slug IS NULL OR slug = '')`, slug, id)
	if err != nil {
		return translateWriteError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	if err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Requirements,
		&job.Company,
		&job.Location,
		&job.JobType,
		&job.Category,
		&job.ExperienceLevel,
		&job.Salary.Min,
		&job.Salary.Max,
		&job.Salary.Currency,
		&job.Skills,
		&job.Benefits,
		&job.Tags,
		&job.IsRemote,
		&job.ApplicationDeadline,
		&job.PostedBy,
		&job.Status,
		&job.ApplicationsCount,
		&job.Views,
		&job.Slug,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &job, nil
}

func scanJobs(rows pgx.Rows) ([]domain.Job, error) {
	var result []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *job)
	}
	return result, rows.Err()
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
