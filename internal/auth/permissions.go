package auth

import "github.com/spec-kit/job-board/internal/domain"

// Actor is the identity a permission check is evaluated for.
type Actor struct {
	ID   string
	Role domain.Role
}

// IsAdmin reports whether the actor has board-wide rights.
func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}

// CanManageJob covers editing, deleting and reviewing applications of a posting.
func CanManageJob(actor Actor, postedBy string) bool {
	return actor.IsAdmin() || (actor.ID != "" && actor.ID == postedBy)
}

// CanViewJobApplications gates the per-job application listing.
func CanViewJobApplications(actor Actor, job *domain.Job) bool {
	return job != nil && CanManageJob(actor, job.PostedBy)
}

// CanReviewApplication gates status changes on an application.
func CanReviewApplication(actor Actor, jobPostedBy string) bool {
	return CanManageJob(actor, jobPostedBy)
}

// CanWithdrawApplication is reserved to the applicant; admins do not withdraw on someone's behalf.
func CanWithdrawApplication(actor Actor, app *domain.Application) bool {
	return app != nil && actor.ID != "" && actor.ID == app.ApplicantID
}

// CanViewApplication allows the applicant, the job poster and admins.
func CanViewApplication(actor Actor, app *domain.Application, jobPostedBy string) bool {
	if app == nil {
		return false
	}
	return actor.ID == app.ApplicantID || CanManageJob(actor, jobPostedBy)
}

// CanManageUsers gates the admin user-management endpoints.
func CanManageUsers(actor Actor) bool {
	return actor.IsAdmin()
}
