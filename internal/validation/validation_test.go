package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
	Role  string `json:"role" validate:"omitempty,oneof=student alumni"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(sample{Email: "a@x.edu", Code: "123456"}))

	err := Struct(sample{Code: "123456"})
	require.Error(t, err)
	assert.Equal(t, "field 'email' is required", err.Error())

	err = Struct(sample{Email: "a@x.edu", Code: "12345"})
	require.Error(t, err)
	assert.Equal(t, "field 'code' must be exactly 6 characters long", err.Error())

	err = Struct(sample{Email: "a@x.edu", Code: "123456", Role: "admin"})
	require.Error(t, err)
	assert.Equal(t, "field 'role' must be one of [student alumni]", err.Error())
}
