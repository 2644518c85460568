package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/api/dto"
	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/service"
	"github.com/spec-kit/job-board/internal/validation"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

// ApplicationsHandler manages the application lifecycle endpoints.
type ApplicationsHandler struct {
	applications *service.ApplicationService
	validator    *validation.Validator
}

// NewApplicationsHandler constructs handler.
func NewApplicationsHandler(applicationService *service.ApplicationService, v *validation.Validator) *ApplicationsHandler {
	return &ApplicationsHandler{applications: applicationService, validator: v}
}

// Apply POST /jobs/:jobId/apply. Accepts JSON or multipart with an optional resume file.
func (h *ApplicationsHandler) Apply(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req dto.ApplyRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("Invalid request body", nil)
		}
		if err := h.validator.Struct(&req); err != nil {
			return err
		}
	}

	resume, closeResume, err := resumeFrom(c)
	if err != nil {
		return err
	}
	defer closeResume()

	detail, err := h.applications.Apply(c.UserContext(), actor, service.ApplyInput{
		JobID:       c.Params("jobId"),
		CoverLetter: req.CoverLetter,
		Resume:      resume,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"message":     "Application submitted successfully",
		"application": dto.NewApplicationResponse(detail),
	})
}

// Mine GET /applications/me.
func (h *ApplicationsHandler) Mine(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := h.applications.ListMine(c.UserContext(), actor, applicationQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(pageEnvelope(page, "applications", dto.NewApplicationResponses(page.Items)))
}

// ForJob GET /applications/job/:jobId.
func (h *ApplicationsHandler) ForJob(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := h.applications.ListForJob(c.UserContext(), actor, c.Params("jobId"), applicationQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(pageEnvelope(page, "applications", dto.NewApplicationResponses(page.Items)))
}

// UpdateStatus PATCH /applications/:id/status.
func (h *ApplicationsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateApplicationStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid status provided", nil)
	}
	if err := h.validator.Struct(&req); err != nil {
		return err
	}

	detail, err := h.applications.UpdateStatus(c.UserContext(), actor, c.Params("id"), service.StatusUpdate{
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Application status updated successfully",
		"application": dto.NewApplicationResponse(detail),
	})
}

// Withdraw DELETE /applications/:id.
func (h *ApplicationsHandler) Withdraw(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.applications.Withdraw(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Application withdrawn successfully"})
}

// Get GET /applications/:id.
func (h *ApplicationsHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	detail, err := h.applications.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "application": dto.NewApplicationResponse(detail)})
}

func applicationQuery(c *fiber.Ctx) service.ApplicationQuery {
	return service.ApplicationQuery{
		Status:     domain.ApplicationStatus(c.Query("status")),
		Pagination: paginationFrom(c),
	}
}
