package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/campus-grievance/grievance-service/pkg/util"
)

type signup struct {
	Name  string `json:"name" validate:"required,notblank"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,role"`
}

func TestStructValid(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(signup{Name: "Ann", Email: "ann@campus.edu", Role: "Faculty"}))
}

func TestStructReportsFieldsByJSONName(t *testing.T) {
	v := New()
	err := v.Struct(signup{Name: "   ", Email: "nope", Role: "Dean"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	details := apperrors.ToDomainError(err).Details
	assert.Equal(t, "name must not be blank", details["name"])
	assert.Equal(t, "role must be one of Student, Faculty, Admin", details["role"])
	assert.Contains(t, details, "email")
}
