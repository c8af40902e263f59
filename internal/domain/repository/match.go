package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/mentorlink/internal/domain/types"
)

// Match relaciona un estudiante con un mentor.
type Match struct {
	ID          string
	StudentID   string
	AlumniID    string
	Status      types.MatchStatus
	Score       float64
	Reasons     types.MatchReasons
	CreatedAt   time.Time
	ConfirmedAt time.Time
	AcceptedAt  *time.Time
}

// CreateMatchInput contiene los datos de un match confirmado por un admin.
type CreateMatchInput struct {
	StudentID   string
	AlumniID    string
	Score       float64
	Reasons     types.MatchReasons
	ConfirmedAt time.Time
}

// MatchRepository define operaciones sobre matches.
type MatchRepository interface {
	// Create inserta un match en estado confirmed.
	// Retorna ErrConflict si ya existe el par (student, alumni).
	Create(ctx context.Context, input CreateMatchInput) (*Match, error)

	// GetByID retorna el match. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*Match, error)

	// Accept pasa confirmed -> accepted. confirmed_at no se toca.
	// Retorna ErrConflict si el match no está (o ya no está) en confirmed.
	Accept(ctx context.Context, id string, at time.Time) error

	// DeleteConfirmed borra el match sólo si sigue en confirmed.
	// Retorna ErrConflict si no se borró nada.
	DeleteConfirmed(ctx context.Context, id string) error

	// ListByAlumni retorna los matches del mentor en el estado dado.
	ListByAlumni(ctx context.Context, alumniID string, status types.MatchStatus) ([]Match, error)

	// ListByStudent retorna todos los matches del estudiante.
	ListByStudent(ctx context.Context, studentID string) ([]Match, error)

	// CountByStatus cuenta matches por estado.
	CountByStatus(ctx context.Context) (map[types.MatchStatus]int, error)
}
