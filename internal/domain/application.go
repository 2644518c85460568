package domain

import "time"

// ApplicationStatus enumerates review states of an application.
type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationReviewed    ApplicationStatus = "reviewed"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationInterviewed ApplicationStatus = "interviewed"
	ApplicationHired       ApplicationStatus = "hired"
	ApplicationRejected    ApplicationStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationReviewed, ApplicationShortlisted,
		ApplicationInterviewed, ApplicationHired, ApplicationRejected:
		return true
	}
	return false
}

// Final reports whether the decision on the application has been made.
func (s ApplicationStatus) Final() bool {
	return s == ApplicationHired || s == ApplicationRejected
}

// Application links an applicant to a job.
type Application struct {
	ID          string
	JobID       string
	ApplicantID string
	CoverLetter string
	Resume      string
	Status      ApplicationStatus
	AppliedAt   time.Time
	ReviewedAt  *time.Time
	ReviewedBy  *string
	Notes       string
}

// JobSummary is the subset of a job joined onto an application.
type JobSummary struct {
	ID                  string
	Title               string
	Company             string
	Location            string
	Requirements        string
	Salary              Salary
	Status              JobStatus
	ApplicationDeadline *time.Time
	PostedBy            string
}

// ApplicantSummary is the subset of a user joined onto an application.
type ApplicantSummary struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Profile Profile
}

// ReviewerSummary names whoever last reviewed an application.
type ReviewerSummary struct {
	ID   string
	Name string
}

// ApplicationDetail is an application with its references resolved.
type ApplicationDetail struct {
	Application
	Job       JobSummary
	Applicant ApplicantSummary
	Reviewer  *ReviewerSummary
}
