package dto

import (
	"time"

	"github.com/spec-kit/job-board/internal/domain"
)

// ApplyRequest carries the text part of an application; the resume arrives as a multipart file.
type ApplyRequest struct {
	CoverLetter string `json:"coverLetter" form:"coverLetter" validate:"max=5000"`
}

// UpdateApplicationStatusRequest payload. Status is checked by the service.
type UpdateApplicationStatusRequest struct {
	Status domain.ApplicationStatus `json:"status"`
	Notes  *string                  `json:"notes" validate:"omitempty,max=2000"`
}

// ApplicationJobResponse is the job summary embedded in an application.
type ApplicationJobResponse struct {
	ID                  string           `json:"id"`
	Title               string           `json:"title"`
	Company             string           `json:"company"`
	Location            string           `json:"location"`
	Requirements        string           `json:"requirements,omitempty"`
	Salary              domain.Salary    `json:"salary"`
	Status              domain.JobStatus `json:"status"`
	ApplicationDeadline *time.Time       `json:"applicationDeadline,omitempty"`
	PostedBy            string           `json:"postedBy"`
}

// ApplicantResponse is the applicant summary embedded in an application.
type ApplicantResponse struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Phone   string         `json:"phone,omitempty"`
	Profile domain.Profile `json:"profile"`
}

// ReviewerResponse names who last changed the status.
type ReviewerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ApplicationResponse is an application with its references resolved.
type ApplicationResponse struct {
	ID          string                   `json:"id"`
	Job         ApplicationJobResponse   `json:"job"`
	Applicant   ApplicantResponse        `json:"applicant"`
	CoverLetter string                   `json:"coverLetter"`
	Resume      string                   `json:"resume"`
	Status      domain.ApplicationStatus `json:"status"`
	AppliedAt   time.Time                `json:"appliedAt"`
	ReviewedAt  *time.Time               `json:"reviewedAt,omitempty"`
	ReviewedBy  *ReviewerResponse        `json:"reviewedBy,omitempty"`
	Notes       string                   `json:"notes,omitempty"`
}

// NewApplicationResponse converts a joined application.
func NewApplicationResponse(d *domain.ApplicationDetail) ApplicationResponse {
	resp := ApplicationResponse{
		ID: d.ID,
		Job: ApplicationJobResponse{
			ID:                  d.Job.ID,
			Title:               d.Job.Title,
			Company:             d.Job.Company,
			Location:            d.Job.Location,
			Requirements:        d.Job.Requirements,
			Salary:              d.Job.Salary,
			Status:              d.Job.Status,
			ApplicationDeadline: d.Job.ApplicationDeadline,
			PostedBy:            d.Job.PostedBy,
		},
		Applicant: ApplicantResponse{
			ID:      d.Applicant.ID,
			Name:    d.Applicant.Name,
			Email:   d.Applicant.Email,
			Phone:   d.Applicant.Phone,
			Profile: d.Applicant.Profile,
		},
		CoverLetter: d.CoverLetter,
		Resume:      d.Resume,
		Status:      d.Status,
		AppliedAt:   d.AppliedAt,
		ReviewedAt:  d.ReviewedAt,
		Notes:       d.Notes,
	}
	if d.Reviewer != nil {
		resp.ReviewedBy = &ReviewerResponse{ID: d.Reviewer.ID, Name: d.Reviewer.Name}
	}
	return resp
}

// NewApplicationResponses converts a page of applications.
func NewApplicationResponses(details []domain.ApplicationDetail) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(details))
	for i := range details {
		out = append(out, NewApplicationResponse(&details[i]))
	}
	return out
}
