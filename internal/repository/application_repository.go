package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/job-board/internal/domain"
)

// ApplicationFilter captures listing parameters for applications.
type ApplicationFilter struct {
	ApplicantID *string
	JobID       *string
	Status      *domain.ApplicationStatus
	Page
}

// ApplicationRepository encapsulates application persistence.
//
// Submit and Withdraw are the only writers of jobs.applications_count; each
// runs the application write and the counter update in one transaction.
type ApplicationRepository interface {
	Submit(ctx context.Context, app *domain.Application) error
	Withdraw(ctx context.Context, app *domain.Application) error
	UpdateReview(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	GetDetail(ctx context.Context, id string) (*domain.ApplicationDetail, error)
	FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*domain.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]domain.ApplicationDetail, int, error)
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository instantiates repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

const applicationColumns = `id, job_id, applicant_id, cover_letter, resume, status, applied_at, reviewed_at, reviewed_by, notes`

const applicationDetailQuery = `
        SELECT a.id, a.job_id, a.applicant_id, a.cover_letter, a.resume, a.status, a.applied_at,
               a.reviewed_at, a.reviewed_by, a.notes,
               j.title, j.company, j.location, j.requirements, j.salary_min, j.salary_max, j.salary_currency,
               j.status, j.application_deadline, j.posted_by,
               u.name, u.email, u.phone, u.profile,
               r.name
        FROM applications a
        JOIN jobs j ON j.id = a.job_id
        JOIN users u ON u.id = a.applicant_id
        LEFT JOIN users r ON r.id = a.reviewed_by`

func (r *applicationRepository) Submit(ctx context.Context, app *domain.Application) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const insert = `
            INSERT INTO applications (job_id, applicant_id, cover_letter, resume, status)
            VALUES ($1,$2,$3,$4,$5)
            RETURNING id, applied_at`
		if err := tx.QueryRow(ctx, insert,
			app.JobID,
			app.ApplicantID,
			app.CoverLetter,
			app.Resume,
			app.Status,
		).Scan(&app.ID, &app.AppliedAt); err != nil {
			return translateWriteError(err)
		}

		cmd, err := tx.Exec(ctx, `UPDATE jobs SET applications_count = applications_count + 1 WHERE id=$1`, app.JobID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *applicationRepository) Withdraw(ctx context.Context, app *domain.Application) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var jobID string
		if err := tx.QueryRow(ctx, `DELETE FROM applications WHERE id=$1 RETURNING job_id`, app.ID).Scan(&jobID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`UPDATE jobs SET applications_count = GREATEST(applications_count - 1, 0) WHERE id=$1`, jobID)
		return err
	})
}

func (r *applicationRepository) UpdateReview(ctx context.Context, app *domain.Application) error {
	const query = `
        UPDATE applications SET status=$1, reviewed_at=$2, reviewed_by=$3, notes=$4
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query, app.Status, app.ReviewedAt, app.ReviewedBy, app.Notes, app.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	return scanApplication(r.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id=$1`, id))
}

func (r *applicationRepository) FindByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id=$1 AND applicant_id=$2`
	return scanApplication(r.pool.QueryRow(ctx, query, jobID, applicantID))
}

func (r *applicationRepository) GetDetail(ctx context.Context, id string) (*domain.ApplicationDetail, error) {
	return scanApplicationDetail(r.pool.QueryRow(ctx, applicationDetailQuery+` WHERE a.id=$1`, id))
}

func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]domain.ApplicationDetail, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.ApplicantID != nil {
		args = append(args, *filter.ApplicantID)
		clauses = append(clauses, fmt.Sprintf("a.applicant_id=$%d", len(args)))
	}
	if filter.JobID != nil {
		args = append(args, *filter.JobID)
		clauses = append(clauses, fmt.Sprintf("a.job_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("a.status=$%d", len(args)))
	}
	where := strings.Join(clauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications a WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := filter.Page.normalized()
	query := fmt.Sprintf(`%s WHERE %s ORDER BY a.applied_at DESC LIMIT %d OFFSET %d`,
		applicationDetailQuery, where, page.Limit, page.Offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.ApplicationDetail
	for rows.Next() {
		detail, err := scanApplicationDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *detail)
	}
	return result, total, rows.Err()
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	if err := row.Scan(
		&app.ID,
		&app.JobID,
		&app.ApplicantID,
		&app.CoverLetter,
		&app.Resume,
		&app.Status,
		&app.AppliedAt,
		&app.ReviewedAt,
		&app.ReviewedBy,
		&app.Notes,
	); err != nil {
		return nil, err
	}
	return &app, nil
}

func scanApplicationDetail(row pgx.Row) (*domain.ApplicationDetail, error) {
	var (
		detail       domain.ApplicationDetail
		reviewerName *string
	)
	if err := row.Scan(
		&detail.ID,
		&detail.JobID,
		&detail.ApplicantID,
		&detail.CoverLetter,
		&detail.Resume,
		&detail.Status,
		&detail.AppliedAt,
		&detail.ReviewedAt,
		&detail.ReviewedBy,
		&detail.Notes,
		&detail.Job.Title,
		&detail.Job.Company,
		&detail.Job.Location,
		&detail.Job.Requirements,
		&detail.Job.Salary.Min,
		&detail.Job.Salary.Max,
		&detail.Job.Salary.Currency,
		&detail.Job.Status,
		&detail.Job.ApplicationDeadline,
		&detail.Job.PostedBy,
		&detail.Applicant.Name,
		&detail.Applicant.Email,
		&detail.Applicant.Phone,
		&detail.Applicant.Profile,
		&reviewerName,
	); err != nil {
		return nil, err
	}
	detail.Job.ID = detail.JobID
	detail.Applicant.ID = detail.ApplicantID
	if detail.ReviewedBy != nil && reviewerName != nil {
		detail.Reviewer = &domain.ReviewerSummary{ID: *detail.ReviewedBy, Name: *reviewerName}
	}
	return &detail, nil
}
