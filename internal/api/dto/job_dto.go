package dto

import (
	"time"

	"github.com/spec-kit/job-board/internal/domain"
)

// SalaryRequest is the advertised pay range.
type SalaryRequest struct {
	Min      float64 `json:"min" validate:"gte=0"`
	Max      float64 `json:"max" validate:"gte=0,gtefield=Min"`
	Currency string  `json:"currency" validate:"omitempty,len=3"`
}

// CreateJobRequest payload.
type CreateJobRequest struct {
	Title               string                 `json:"title" validate:"required,max=100"`
	Description         string                 `json:"description" validate:"required,max=2000"`
	Requirements        string                 `json:"requirements" validate:"required"`
	Company             string                 `json:"company" validate:"required,max=100"`
	Location            string                 `json:"location" validate:"required,max=100"`
	JobType             domain.JobType         `json:"jobType" validate:"required,oneof=full-time part-time contract internship remote"`
	Category            string                 `json:"category" validate:"required,jobcategory"`
	ExperienceLevel     domain.ExperienceLevel `json:"experienceLevel" validate:"required,oneof=entry-level mid-level senior-level executive"`
	Salary              SalaryRequest          `json:"salary"`
	Skills              []string               `json:"skills" validate:"omitempty,dive,max=50"`
	Benefits            []string               `json:"benefits" validate:"omitempty,dive,max=100"`
	Tags                []string               `json:"tags" validate:"omitempty,dive,max=30"`
	IsRemote            bool                   `json:"isRemote"`
	ApplicationDeadline *time.Time             `json:"applicationDeadline"`
	Status              domain.JobStatus       `json:"status" validate:"omitempty,oneof=active closed draft"`
}

// UpdateJobRequest is a partial update; nil fields are left alone.
type UpdateJobRequest struct {
	Title               *string                 `json:"title" validate:"omitempty,min=1,max=100"`
	Description         *string                 `json:"description" validate:"omitempty,min=1,max=2000"`
	Requirements        *string                 `json:"requirements" validate:"omitempty,min=1"`
	Company             *string                 `json:"company" validate:"omitempty,min=1,max=100"`
	Location            *string                 `json:"location" validate:"omitempty,min=1,max=100"`
	JobType             *domain.JobType         `json:"jobType" validate:"omitempty,oneof=full-time part-time contract internship remote"`
	Category            *string                 `json:"category" validate:"omitempty,jobcategory"`
	ExperienceLevel     *domain.ExperienceLevel `json:"experienceLevel" validate:"omitempty,oneof=entry-level mid-level senior-level executive"`
	Salary              *SalaryRequest          `json:"salary"`
	Skills              []string                `json:"skills" validate:"omitempty,dive,max=50"`
	Benefits            []string                `json:"benefits" validate:"omitempty,dive,max=100"`
	Tags                []string                `json:"tags" validate:"omitempty,dive,max=30"`
	IsRemote            *bool                   `json:"isRemote"`
	ApplicationDeadline *time.Time              `json:"applicationDeadline"`
	Status              *domain.JobStatus       `json:"status" validate:"omitempty,oneof=active closed draft"`
}

// JobResponse is a posting as returned to clients.
type JobResponse struct {
	ID                  string                 `json:"id"`
	Title               string                 `json:"title"`
	Slug                string                 `json:"slug"`
	Description         string                 `json:"description"`
	Requirements        string                 `json:"requirements"`
	Company             string                 `json:"company"`
	Location            string                 `json:"location"`
	JobType             domain.JobType         `json:"jobType"`
	Category            string                 `json:"category"`
	ExperienceLevel     domain.ExperienceLevel `json:"experienceLevel"`
	Salary              domain.Salary          `json:"salary"`
	Skills              []string               `json:"skills"`
	Benefits            []string               `json:"benefits"`
	Tags                []string               `json:"tags"`
	IsRemote            bool                   `json:"isRemote"`
	ApplicationDeadline *time.Time             `json:"applicationDeadline,omitempty"`
	PostedBy            string                 `json:"postedBy"`
	Status              domain.JobStatus       `json:"status"`
	ApplicationsCount   int                    `json:"applicationsCount"`
	Views               int                    `json:"views"`
	CreatedAt           time.Time              `json:"createdAt"`
	UpdatedAt           time.Time              `json:"updatedAt"`
}

// NewJobResponse converts a domain job.
func NewJobResponse(j *domain.Job) JobResponse {
	return JobResponse{
		ID:                  j.ID,
		Title:               j.Title,
		Slug:                j.Slug,
		Description:         j.Description,
		Requirements:        j.Requirements,
		Company:             j.Company,
		Location:            j.Location,
		JobType:             j.JobType,
		Category:            j.Category,
		ExperienceLevel:     j.ExperienceLevel,
		Salary:              j.Salary,
		Skills:              orEmpty(j.Skills),
		Benefits:            orEmpty(j.Benefits),
		Tags:                orEmpty(j.Tags),
		IsRemote:            j.IsRemote,
		ApplicationDeadline: j.ApplicationDeadline,
		PostedBy:            j.PostedBy,
		Status:              j.Status,
		ApplicationsCount:   j.ApplicationsCount,
		Views:               j.Views,
		CreatedAt:           j.CreatedAt,
		UpdatedAt:           j.UpdatedAt,
	}
}

// NewJobResponses converts a page of jobs.
func NewJobResponses(jobs []domain.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for i := range jobs {
		out = append(out, NewJobResponse(&jobs[i]))
	}
	return out
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
