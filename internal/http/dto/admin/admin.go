// Package admin contiene los DTOs del onboarding y la consola de admin.
package admin

import (
	"strings"
	"time"

	"github.com/dropDatabas3/mentorlink/internal/domain/types"
	authdto "github.com/dropDatabas3/mentorlink/internal/http/dto/auth"
)

// RegisterAdminRequest es el body de POST /v1/admin/register.
type RegisterAdminRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email,max=254"`
	Password   string `json:"password" validate:"required,max=256"`
	InviteCode string `json:"invite_code" validate:"required,max=128"`
}

// Normalize limpia email y nombre antes de validar.
func (r *RegisterAdminRequest) Normalize() {
	r.Email = types.NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

// CreateInviteRequest es el body de POST /v1/admin/invites.
// Code vacío genera uno aleatorio; TTL vacío usa el default de config.
type CreateInviteRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Code  string `json:"code,omitempty" validate:"omitempty,min=6,max=128"`
	TTL   string `json:"ttl,omitempty"`
}

// Normalize limpia el email antes de validar.
func (r *CreateInviteRequest) Normalize() { r.Email = types.NormalizeEmail(r.Email) }

// InviteResult es lo que devuelve el service. Code sólo viaja en la respuesta
// de creación; en storage queda el hash.
type InviteResult struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ApprovalRequest es el body de POST /v1/admin/identities/{identityID}/approval.
type ApprovalRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

// ListPendingResponse lista identidades pendientes de aprobación.
type ListPendingResponse struct {
	Items  []authdto.IdentityResponse `json:"items"`
	Total  int                        `json:"total"`
	Limit  int                        `json:"limit"`
	Offset int                        `json:"offset"`
}

// ConfirmMatchRequest es el body de POST /v1/admin/matches.
type ConfirmMatchRequest struct {
	StudentID string             `json:"student_id" validate:"required,uuid"`
	AlumniID  string             `json:"alumni_id" validate:"required,uuid"`
	Score     float64            `json:"score" validate:"gte=0,lte=1"`
	Reasons   types.MatchReasons `json:"reasons"`
}

// StatsResponse son los conteos simples de la plataforma.
type StatsResponse struct {
	Identities map[string]map[string]int `json:"identities"`
	Matches    map[string]int            `json:"matches"`
}
