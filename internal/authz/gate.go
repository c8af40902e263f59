// Package authz contiene los predicados de autorización por rol.
// Son funciones puras sobre el Principal extraído del token; no tocan storage.
package authz

import (
	"errors"

	"github.com/dropDatabas3/mentorlink/internal/domain/types"
)

// ErrForbidden es el único error que emite el gate.
// No distingue "rol equivocado" de "no es el dueño".
var ErrForbidden = errors.New("forbidden")

// Principal es la identidad autenticada de un request.
type Principal struct {
	ID    string
	Email string
	Role  types.Role
}

func IsAdmin(p Principal) bool   { return p.Role == types.RoleAdmin }
func IsAlumni(p Principal) bool  { return p.Role == types.RoleAlumni }
func IsStudent(p Principal) bool { return p.Role == types.RoleStudent }

// OwnsResource es true si el caller es el dueño del recurso.
// IDs vacíos nunca son dueños.
func OwnsResource(callerID, ownerID string) bool {
	return callerID != "" && callerID == ownerID
}

// HasAnyRole es true si el rol del principal está en roles.
func HasAnyRole(p Principal, roles ...types.Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

func RequireAdmin(p Principal) error   { return require(IsAdmin(p)) }
func RequireAlumni(p Principal) error  { return require(IsAlumni(p)) }
func RequireStudent(p Principal) error { return require(IsStudent(p)) }

func RequireOwner(callerID, ownerID string) error {
	return require(OwnsResource(callerID, ownerID))
}

func RequireAnyRole(p Principal, roles ...types.Role) error {
	return require(HasAnyRole(p, roles...))
}

func require(ok bool) error {
	if !ok {
		return ErrForbidden
	}
	return nil
}
