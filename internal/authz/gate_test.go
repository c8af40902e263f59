package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dropDatabas3/mentorlink/internal/domain/types"
)

func TestRolePredicates(t *testing.T) {
	admin := Principal{ID: "a", Role: types.RoleAdmin}
	alumni := Principal{ID: "b", Role: types.RoleAlumni}
	student := Principal{ID: "c", Role: types.RoleStudent}

	assert.True(t, IsAdmin(admin))
	assert.False(t, IsAdmin(alumni))
	assert.True(t, IsAlumni(alumni))
	assert.False(t, IsAlumni(student))
	assert.True(t, IsStudent(student))
	assert.False(t, IsStudent(admin))

	assert.NoError(t, RequireAdmin(admin))
	assert.ErrorIs(t, RequireAdmin(student), ErrForbidden)
	assert.ErrorIs(t, RequireAlumni(admin), ErrForbidden)
	assert.ErrorIs(t, RequireStudent(alumni), ErrForbidden)

	assert.NoError(t, RequireAnyRole(alumni, types.RoleAdmin, types.RoleAlumni))
	assert.ErrorIs(t, RequireAnyRole(student, types.RoleAdmin, types.RoleAlumni), ErrForbidden)
	assert.ErrorIs(t, RequireAnyRole(student), ErrForbidden)
}

func TestOwnsResource(t *testing.T) {
	assert.True(t, OwnsResource("x", "x"))
	assert.False(t, OwnsResource("x", "y"))
	assert.False(t, OwnsResource("", ""))

	assert.NoError(t, RequireOwner("x", "x"))
	// Mismo error que un rol inválido.
	assert.Equal(t, RequireAdmin(Principal{}), RequireOwner("x", "y"))
}
