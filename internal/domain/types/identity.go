// Package types define tipos de dominio compartidos entre paquetes.
package types

import "strings"

// Role es el rol de una identidad dentro de la plataforma.
type Role string

const (
	RoleStudent Role = "student"
	RoleAlumni  Role = "alumni"
	RoleAdmin   Role = "admin"
)

// IsValid retorna true si el rol es conocido.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleAlumni, RoleAdmin:
		return true
	}
	return false
}

// SelfRegistrable indica si el rol puede registrarse por el flujo abierto.
// Los admins solo nacen por invitación o bootstrap.
func (r Role) SelfRegistrable() bool {
	return r == RoleStudent || r == RoleAlumni
}

// ParseRole normaliza un string a Role. Retorna "" si no es válido.
func ParseRole(s string) Role {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return ""
	}
	return r
}

// ApprovalStatus es el estado de vetting de una identidad.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// IsValid retorna true si el estado es conocido.
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// CodePurpose distingue los dos usos de un código de verificación.
type CodePurpose string

const (
	PurposeEmailVerification CodePurpose = "EMAIL_VERIFICATION"
	PurposePasswordReset     CodePurpose = "PASSWORD_RESET"
)

// IsValid retorna true si el propósito es conocido.
func (p CodePurpose) IsValid() bool {
	return p == PurposeEmailVerification || p == PurposePasswordReset
}

// MatchStatus es el estado de un match estudiante-mentor.
// "declined" no existe: un decline borra el match.
type MatchStatus string

const (
	MatchConfirmed MatchStatus = "confirmed"
	MatchAccepted  MatchStatus = "accepted"
)

// NormalizeEmail aplica lower-case + trim. Se usa antes de cualquier lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
