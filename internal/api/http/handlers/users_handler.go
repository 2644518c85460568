package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/api/dto"
	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/service"
	"github.com/spec-kit/job-board/internal/validation"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

// UsersHandler exposes self-service profile endpoints and admin account management.
type UsersHandler struct {
	users     *service.UserService
	validator *validation.Validator
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, v *validation.Validator) *UsersHandler {
	return &UsersHandler{users: userService, validator: v}
}

// UpdateProfile PUT /users/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.UserContext(), actor, service.ProfileUpdate{
		Name:       req.Name,
		Phone:      req.Phone,
		Bio:        req.Bio,
		Location:   req.Location,
		Skills:     req.Skills,
		Experience: req.Experience,
		Education:  req.Education,
		Website:    req.Website,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    dto.NewUserResponse(user),
	})
}

// UploadResume POST /users/resume.
func (h *UsersHandler) UploadResume(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	resume, closeResume, err := resumeFrom(c)
	if err != nil {
		return err
	}
	defer closeResume()
	if resume == nil {
		return apperrors.NewValidationError("Please upload a resume file", nil)
	}

	user, err := h.users.UploadResume(c.UserContext(), actor, resume)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Resume uploaded successfully",
		"user":    dto.NewUserResponse(user),
	})
}

// List GET /admin/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	page, err := h.users.List(c.UserContext(), actor, service.UserQuery{
		Role:       domain.Role(c.Query("role")),
		IsActive:   optionalBool(c, "isActive"),
		Pagination: paginationFrom(c),
	})
	if err != nil {
		return err
	}
	users := make([]dto.UserResponse, 0, len(page.Items))
	for i := range page.Items {
		users = append(users, dto.NewUserResponse(&page.Items[i]))
	}
	return c.JSON(pageEnvelope(page, "users", users))
}

// SetStatus PATCH /admin/users/:id/status.
func (h *UsersHandler) SetStatus(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.SetUserStatusRequest
	if err := bindJSON(c, h.validator, &req); err != nil {
		return err
	}

	user, err := h.users.SetActive(c.UserContext(), actor, c.Params("id"), *req.IsActive)
	if err != nil {
		return err
	}
	message := "User deactivated successfully"
	if user.IsActive {
		message = "User activated successfully"
	}
	return c.JSON(fiber.Map{"success": true, "message": message, "user": dto.NewUserResponse(user)})
}
