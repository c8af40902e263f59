package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/mentorlink/internal/domain/repository"
	"github.com/dropDatabas3/mentorlink/internal/domain/types"
)

// ─── Identities ───

type identityRepo struct{ v *view }

func (r *identityRepo) Create(ctx context.Context, input repository.CreateIdentityInput) (*repository.Identity, error) {
	defer r.v.lock()()
	d := r.v.access()

	if _, exists := d.byEmail[input.Email]; exists {
		return nil, repository.ErrConflict
	}
	now := input.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	i := repository.Identity{
		ID:                 uuid.NewString(),
		Email:              input.Email,
		Name:               input.Name,
		PasswordHash:       input.PasswordHash,
		Role:               input.Role,
		ApprovalStatus:     input.ApprovalStatus,
		Profile:            input.Profile,
		EmailVerified:      input.EmailVerified,
		MustChangePassword: input.MustChangePassword,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	d.identities[i.ID] = i
	d.byEmail[i.Email] = i.ID
	return &i, nil
}

func (r *identityRepo) GetByID(ctx context.Context, id string) (*repository.Identity, error) {
	defer r.v.lock()()
	i, ok := r.v.access().identities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &i, nil
}

func (r *identityRepo) GetByEmail(ctx context.Context, email string) (*repository.Identity, error) {
	defer r.v.lock()()
	d := r.v.access()
	id, ok := d.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	i := d.identities[id]
	return &i, nil
}

func (r *identityRepo) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	defer r.v.lock()()
	d := r.v.access()
	i, ok := d.identities[id]
	if !ok {
		return repository.ErrNotFound
	}
	at := changedAt
	i.PasswordHash = passwordHash
	i.PasswordChangedAt = &at
	i.MustChangePassword = false
	i.UpdatedAt = changedAt
	d.identities[id] = i
	return nil
}

func (r *identityRepo) SetApproval(ctx context.Context, id string, status types.ApprovalStatus, by string, at time.Time) (*repository.Identity, error) {
	defer r.v.lock()()
	d := r.v.access()
	i, ok := d.identities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	approvedBy, approvedAt := by, at
	i.ApprovalStatus = status
	i.ApprovedBy = &approvedBy
	i.ApprovedAt = &approvedAt
	i.UpdatedAt = at
	d.identities[id] = i
	return &i, nil
}

func (r *identityRepo) MarkEmailVerified(ctx context.Context, email string, at time.Time) error {
	defer r.v.lock()()
	d := r.v.access()
	id, ok := d.byEmail[email]
	if !ok {
		return repository.ErrNotFound
	}
	i := d.identities[id]
	i.EmailVerified = true
	i.UpdatedAt = at
	d.identities[id] = i
	return nil
}

func (r *identityRepo) UpdateProfile(ctx context.Context, id string, profile types.Profile, at time.Time) (*repository.Identity, error) {
	defer r.v.lock()()
	d := r.v.access()
	i, ok := d.identities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	i.Profile = profile
	i.UpdatedAt = at
	d.identities[id] = i
	return &i, nil
}

func (r *identityRepo) filtered(filter repository.IdentityFilter) []repository.Identity {
	var out []repository.Identity
	for _, i := range r.v.access().identities {
		if filter.Role != "" && i.Role != filter.Role {
			continue
		}
		if filter.Status != "" && i.ApprovalStatus != filter.Status {
			continue
		}
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID < out[b].ID
		}
		return out[a].CreatedAt.Before(out[b].CreatedAt)
	})
	return out
}

func (r *identityRepo) List(ctx context.Context, filter repository.IdentityFilter) ([]repository.Identity, error) {
	defer r.v.lock()()
	out := r.filtered(filter)
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *identityRepo) Count(ctx context.Context, filter repository.IdentityFilter) (int, error) {
	defer r.v.lock()()
	return len(r.filtered(filter)), nil
}

// ─── Verification codes ───

type codeRepo struct{ v *view }

func (r *codeRepo) Upsert(ctx context.Context, input repository.UpsertCodeInput) (*repository.VerificationCode, error) {
	defer r.v.lock()()
	d := r.v.access()
	k := codeKey{input.Email, input.Purpose}

	if cur, ok := d.codes[k]; ok && !input.ReplaceLive && cur.IsLive(input.IssuedAt) {
		return nil, repository.ErrConflict
	}
	c := repository.VerificationCode{
		Email:     input.Email,
		Purpose:   input.Purpose,
		Code:      input.Code,
		IssuedAt:  input.IssuedAt,
		ExpiresAt: input.ExpiresAt,
	}
	d.codes[k] = c
	return &c, nil
}

func (r *codeRepo) Get(ctx context.Context, email string, purpose types.CodePurpose) (*repository.VerificationCode, error) {
	defer r.v.lock()()
	c, ok := r.v.access().codes[codeKey{email, purpose}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *codeRepo) Consume(ctx context.Context, email string, purpose types.CodePurpose, code string, at time.Time) error {
	defer r.v.lock()()
	d := r.v.access()
	k := codeKey{email, purpose}
	c, ok := d.codes[k]
	if !ok || c.Code != code || !c.IsLive(at) {
		return repository.ErrConflict
	}
	usedAt := at
	c.UsedAt = &usedAt
	d.codes[k] = c
	return nil
}

// ─── Admin invites ───

type inviteRepo struct{ v *view }

func (r *inviteRepo) Put(ctx context.Context, input repository.CreateInviteInput) (*repository.AdminInvite, error) {
	defer r.v.lock()()
	d := r.v.access()
	if cur, ok := d.invites[input.Email]; ok && cur.UsedAt != nil {
		return nil, repository.ErrConflict
	}
	inv := repository.AdminInvite{
		Email:     input.Email,
		CodeHash:  input.CodeHash,
		Code:      input.Code,
		ExpiresAt: input.ExpiresAt,
		CreatedBy: input.CreatedBy,
		CreatedAt: input.CreatedAt,
	}
	d.invites[input.Email] = inv
	return &inv, nil
}

func (r *inviteRepo) GetByEmail(ctx context.Context, email string) (*repository.AdminInvite, error) {
	defer r.v.lock()()
	inv, ok := r.v.access().invites[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &inv, nil
}

func (r *inviteRepo) MarkUsed(ctx context.Context, email string, at time.Time) error {
	defer r.v.lock()()
	d := r.v.access()
	inv, ok := d.invites[email]
	if !ok || inv.UsedAt != nil {
		return repository.ErrConflict
	}
	usedAt := at
	inv.UsedAt = &usedAt
	d.invites[email] = inv
	return nil
}

// ─── Matches ───

type matchRepo struct{ v *view }

func (r *matchRepo) Create(ctx context.Context, input repository.CreateMatchInput) (*repository.Match, error) {
	defer r.v.lock()()
	d := r.v.access()
	for _, m := range d.matches {
		if m.StudentID == input.StudentID && m.AlumniID == input.AlumniID {
			return nil, repository.ErrConflict
		}
	}
	m := repository.Match{
		ID:          uuid.NewString(),
		StudentID:   input.StudentID,
		AlumniID:    input.AlumniID,
		Status:      types.MatchConfirmed,
		Score:       input.Score,
		Reasons:     input.Reasons,
		CreatedAt:   input.ConfirmedAt,
		ConfirmedAt: input.ConfirmedAt,
	}
	d.matches[m.ID] = m
	return &m, nil
}

func (r *matchRepo) GetByID(ctx context.Context, id string) (*repository.Match, error) {
	defer r.v.lock()()
	m, ok := r.v.access().matches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r *matchRepo) Accept(ctx context.Context, id string, at time.Time) error {
	defer r.v.lock()()
	d := r.v.access()
	m, ok := d.matches[id]
	if !ok || m.Status != types.MatchConfirmed {
		return repository.ErrConflict
	}
	acceptedAt := at
	m.Status = types.MatchAccepted
	m.AcceptedAt = &acceptedAt
	d.matches[id] = m
	return nil
}

func (r *matchRepo) DeleteConfirmed(ctx context.Context, id string) error {
	defer r.v.lock()()
	d := r.v.access()
	m, ok := d.matches[id]
	if !ok || m.Status != types.MatchConfirmed {
		return repository.ErrConflict
	}
	delete(d.matches, id)
	return nil
}

func (r *matchRepo) ListByAlumni(ctx context.Context, alumniID string, status types.MatchStatus) ([]repository.Match, error) {
	defer r.v.lock()()
	return r.collect(func(m repository.Match) bool {
		return m.AlumniID == alumniID && m.Status == status
	}), nil
}

func (r *matchRepo) ListByStudent(ctx context.Context, studentID string) ([]repository.Match, error) {
	defer r.v.lock()()
	return r.collect(func(m repository.Match) bool {
		return m.StudentID == studentID
	}), nil
}

func (r *matchRepo) collect(keep func(repository.Match) bool) []repository.Match {
	var out []repository.Match
	for _, m := range r.v.access().matches {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].ConfirmedAt.Equal(out[b].ConfirmedAt) {
			return out[a].ID < out[b].ID
		}
		return out[a].ConfirmedAt.Before(out[b].ConfirmedAt)
	})
	return out
}

func (r *matchRepo) CountByStatus(ctx context.Context) (map[types.MatchStatus]int, error) {
	defer r.v.lock()()
	out := map[types.MatchStatus]int{}
	for _, m := range r.v.access().matches {
		out[m.Status]++
	}
	return out, nil
}
