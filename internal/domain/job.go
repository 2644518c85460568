package domain

import "time"

// JobStatus enumerates posting lifecycle states.
type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
	JobStatusDraft  JobStatus = "draft"
)

// JobType enumerates employment arrangements.
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeRemote     JobType = "remote"
)

// ExperienceLevel enumerates seniority bands.
type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "entry-level"
	ExperienceMid       ExperienceLevel = "mid-level"
	ExperienceSenior    ExperienceLevel = "senior-level"
	ExperienceExecutive ExperienceLevel = "executive"
)

// JobCategories lists the accepted posting categories.
var JobCategories = []string{
	"Technology",
	"Finance",
	"Healthcare",
	"Education",
	"Marketing",
	"Sales",
	"Human Resources",
	"Operations",
	"Customer Service",
	"Legal",
	"Other",
}

// DefaultCurrency applies when a posting omits salary currency.
const DefaultCurrency = "USD"

// Salary is the advertised pay range.
type Salary struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// Job is a posting owned by an employer.
type Job struct {
	ID                  string
	Title               string
	Description         string
	Requirements        string
	Company             string
	Location            string
	JobType             JobType
	Category            string
	ExperienceLevel     ExperienceLevel
	Salary              Salary
	Skills              []string
	Benefits            []string
	Tags                []string
	IsRemote            bool
	ApplicationDeadline *time.Time
	PostedBy            string
	Status              JobStatus
	ApplicationsCount   int
	Views               int
	Slug                string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EnsureSlug assigns the slug once; an existing slug is never recomputed.
func (j *Job) EnsureSlug() {
	if j.Slug != "" || j.Title == "" {
		return
	}
	j.Slug = BuildSlug(j.Title, j.ID)
}

// DeadlinePassed reports whether applications are closed at now.
func (j *Job) DeadlinePassed(now time.Time) bool {
	return j.ApplicationDeadline != nil && now.After(*j.ApplicationDeadline)
}
