package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
)

type matchRepo struct{ q querier }

const matchColumns = `id, student_id, alumni_id, status, score, reasons, created_at, confirmed_at, accepted_at`

func scanMatch(row pgx.Row) (*repository.Match, error) {
	var m repository.Match
	var status string
	if err := row.Scan(&m.ID, &m.StudentID, &m.AlumniID, &status, &m.Score, &m.Reasons,
		&m.CreatedAt, &m.ConfirmedAt, &m.AcceptedAt); err != nil {
		return nil, err
	}
	m.Status = types.MatchStatus(status)
	return &m, nil
}

func (r *matchRepo) Create(ctx context.Context, input repository.CreateMatchInput) (*repository.Match, error) {
	m, err := scanMatch(r.q.QueryRow(ctx, `
		INSERT INTO mentor_match (id, student_id, alumni_id, status, score, reasons, created_at, confirmed_at)
		VALUES ($1, $2, $3, 'confirmed', $4, $5, $6, $6)
		RETURNING `+matchColumns,
		uuid.NewString(), input.StudentID, input.AlumniID, input.Score, input.Reasons, input.ConfirmedAt))
	if isUniqueViolation(err) {
		return nil, repository.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("pg: create match: %w", err)
	}
	return m, nil
}

func (r *matchRepo) GetByID(ctx context.Context, id string) (*repository.Match, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	m, err := scanMatch(r.q.QueryRow(ctx, `SELECT `+matchColumns+` FROM mentor_match WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pg: get match: %w", err)
	}
	return m, nil
}

func (r *matchRepo) Accept(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE mentor_match SET status = 'accepted', accepted_at = $2
		WHERE id = $1 AND status = 'confirmed'`, id, at)
	if err != nil {
		return fmt.Errorf("pg: accept match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrConflict
	}
	return nil
}

func (r *matchRepo) DeleteConfirmed(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM mentor_match WHERE id = $1 AND status = 'confirmed'`, id)
	if err != nil {
		return fmt.Errorf("pg: delete match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrConflict
	}
	return nil
}

func (r *matchRepo) ListByAlumni(ctx context.Context, alumniID string, status types.MatchStatus) ([]repository.Match, error) {
	return r.list(ctx, `SELECT `+matchColumns+` FROM mentor_match
		WHERE alumni_id = $1 AND status = $2 ORDER BY confirmed_at, id`, alumniID, string(status))
}

func (r *matchRepo) ListByStudent(ctx context.Context, studentID string) ([]repository.Match, error) {
	return r.list(ctx, `SELECT `+matchColumns+` FROM mentor_match
		WHERE student_id = $1 ORDER BY confirmed_at, id`, studentID)
}

func (r *matchRepo) list(ctx context.Context, query string, args ...any) ([]repository.Match, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pg: list matches: %w", err)
	}
	defer rows.Close()

	var out []repository.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("pg: scan match: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *matchRepo) CountByStatus(ctx context.Context) (map[types.MatchStatus]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM mentor_match GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("pg: count matches: %w", err)
	}
	defer rows.Close()

	out := map[types.MatchStatus]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[types.MatchStatus(status)] = n
	}
	return out, rows.Err()
}
