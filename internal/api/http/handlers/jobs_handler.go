package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/api/dto"
	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/service"
	"github.com/spec-kit/job-board/internal/validation"
)

// JobsHandler manages posting endpoints.
type JobsHandler struct {
	jobs      *service.JobService
	validator *validation.Validator
}

// NewJobsHandler constructs handler.
func NewJobsHandler(jobService *service.JobService, v *validation.Validator) *JobsHandler {
	return &JobsHandler{jobs: jobService, validator: v}
}

// List GET /jobs.
func (h *JobsHandler) List(c *fiber.Ctx) error {
	query := service.JobQuery{
		Category:        c.Query("category"),
		JobType:         domain.JobType(c.Query("jobType")),
		ExperienceLevel: domain.ExperienceLevel(c.Query("experienceLevel")),
		Location:        c.Query("location"),
		Search:          c.Query("search"),
		IsRemote:        optionalBool(c, "isRemote"),
		Pagination:      paginationFrom(c),
	}
	page, err := h.jobs.List(c.UserContext(), query)
	if err != nil {
		return err
	}
	return c.JSON(pageEnvelope(page, "jobs", dto.NewJobResponses(page.Items)))
}

// Get GET /jobs/:idOrSlug.
func (h *JobsHandler) Get(c *fiber.Ctx) error {
	job, err := h.jobs.Get(c.UserContext(), c.Params("idOrSlug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "job": dto.NewJobResponse(job)})
}

// Mine GET /jobs/employer/mine.
func (h *JobsHandler) Mine(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := h.jobs.ListMine(c.UserContext(), actor, paginationFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(pageEnvelope(page, "jobs", dto.NewJobResponses(page.Items)))
}

// Create POST /jobs.
func (h *JobsHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateJobRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}

	job, err := h.jobs.Create(c.UserContext(), actor, service.JobInput{
		Title:               req.Title,
		Description:         req.Description,
		Requirements:        req.Requirements,
		Company:             req.Company,
		Location:            req.Location,
		JobType:             req.JobType,
		Category:            req.Category,
		ExperienceLevel:     req.ExperienceLevel,
		Salary:              domain.Salary(req.Salary),
		Skills:              req.Skills,
		Benefits:            req.Benefits,
		Tags:                req.Tags,
		IsRemote:            req.IsRemote,
		ApplicationDeadline: req.ApplicationDeadline,
		Status:              req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Job created successfully",
		"job":     dto.NewJobResponse(job),
	})
}

// Update PUT /jobs/:id.
func (h *JobsHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateJobRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}

	patch := service.JobPatch{
		Title:               req.Title,
		Description:         req.Description,
		Requirements:        req.Requirements,
		Company:             req.Company,
		Location:            req.Location,
		JobType:             req.JobType,
		Category:            req.Category,
		ExperienceLevel:     req.ExperienceLevel,
		Skills:              req.Skills,
		Benefits:            req.Benefits,
		Tags:                req.Tags,
		IsRemote:            req.IsRemote,
		ApplicationDeadline: req.ApplicationDeadline,
		Status:              req.Status,
	}
	if req.Salary != nil {
		salary := domain.Salary(*req.Salary)
		patch.Salary = &salary
	}

	job, err := h.jobs.Update(c.UserContext(), actor, c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Job updated successfully",
		"job":     dto.NewJobResponse(job),
	})
}

// Delete DELETE /jobs/:id.
func (h *JobsHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.jobs.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Job deleted successfully"})
}
