package validation

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/job-board/pkg/util"
)

type sample struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Category string `json:"category" validate:"required,jobcategory"`
}

func TestStructReportsFieldsByJSONName(t *testing.T) {
	err := New().Struct(sample{Name: "a", Email: "nope", Category: "Astrology"})
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
	assert.Equal(t, "Must be at least 2 characters long", domainErr.Details["name"])
	assert.Equal(t, "Must be a valid email address", domainErr.Details["email"])
	assert.Contains(t, domainErr.Details["category"], "Human Resources")
}

func TestStructAcceptsValidInput(t *testing.T) {
	assert.NoError(t, New().Struct(sample{Name: "Ada", Email: "ada@example.com", Category: "Human Resources"}))
}
