// Package match contiene los DTOs del ciclo de vida de matches.
package match

import (
	"time"

	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
)

// MatchResponse es la vista de un match.
type MatchResponse struct {
	ID          string             `json:"id"`
	StudentID   string             `json:"student_id"`
	AlumniID    string             `json:"alumni_id"`
	Status      string             `json:"status"`
	Score       float64            `json:"score"`
	Reasons     types.MatchReasons `json:"reasons"`
	ConfirmedAt time.Time          `json:"confirmed_at"`
	AcceptedAt  *time.Time         `json:"accepted_at,omitempty"`
}

// ListResponse envuelve listados de matches.
type ListResponse struct {
	Items []MatchResponse `json:"items"`
}

// FromMatch arma la vista de un match.
func FromMatch(m *repository.Match) MatchResponse {
	return MatchResponse{
		ID:          m.ID,
		StudentID:   m.StudentID,
		AlumniID:    m.AlumniID,
		Status:      string(m.Status),
		Score:       m.Score,
		Reasons:     m.Reasons,
		ConfirmedAt: m.ConfirmedAt,
		AcceptedAt:  m.AcceptedAt,
	}
}

// FromMatches arma la lista; nunca devuelve nil para que el JSON sea [].
func FromMatches(ms []repository.Match) ListResponse {
	out := ListResponse{Items: make([]MatchResponse, 0, len(ms))}
	for i := range ms {
		out.Items = append(out.Items, FromMatch(&ms[i]))
	}
	return out
}
