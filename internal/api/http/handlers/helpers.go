package handlers

import (
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/auth"
	"github.com/spec-kit/job-board/internal/service"
	"github.com/spec-kit/job-board/internal/validation"
	apperrors "github.com/spec-kit/job-board/pkg/util"
)

func actorFrom(c *fiber.Ctx) (auth.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.ID == "" {
		return auth.Actor{}, apperrors.NewUnauthorized("Not authorized to access this route")
	}
	return principal.Actor(), nil
}

func bindJSON(c *fiber.Ctx, v *validation.Validator, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}
	return v.Struct(out)
}

func paginationFrom(c *fiber.Ctx) service.Pagination {
	return service.NewPagination(c.QueryInt("page", 0), c.QueryInt("limit", 0))
}

func optionalBool(c *fiber.Ctx, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

func pageEnvelope[T any](page service.PageResult[T], key string, items any) fiber.Map {
	return fiber.Map{
		"success":     true,
		"count":       len(page.Items),
		"total":       page.Total,
		"totalPages":  page.TotalPages,
		"currentPage": page.CurrentPage,
		key:           items,
	}
}

// resumeFrom returns the multipart "resume" file, or nil when none was sent.
// The returned closer must be called once the upload has been consumed.
func resumeFrom(c *fiber.Ctx) (*service.ResumeUpload, func(), error) {
	noop := func() {}
	if !isMultipart(c) {
		return nil, noop, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, noop, apperrors.NewValidationError("Invalid multipart body", nil)
	}
	files := form.File["resume"]
	if len(files) == 0 {
		return nil, noop, nil
	}
	header := files[0]
	file, err := header.Open()
	if err != nil {
		return nil, noop, apperrors.NewInternalError(err)
	}
	return uploadOf(header, file), func() { _ = file.Close() }, nil
}

func uploadOf(header *multipart.FileHeader, file multipart.File) *service.ResumeUpload {
	return &service.ResumeUpload{FileName: header.Filename, Size: header.Size, Content: file}
}

func isMultipart(c *fiber.Ctx) bool {
	return len(c.Request().Header.MultipartFormBoundary()) > 0
}
