package repository

import (
	"context"
	"database/sql"
	"errors"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/match"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchExists         = errors.New("active match already exists")
	ErrMatchStatusConflict = errors.New("match status changed concurrently")
)

type MatchListFilter struct {
	UserID uuid.UUID
	Status match.Status
	Limit  int
	Offset int
}

type MatchRepository interface {
	Create(ctx context.Context, m match.Match) (match.Match, error)
	GetByID(ctx context.Context, id uuid.UUID) (match.Match, error)
	// FindActiveBetween looks for a pending or accepted match in either direction.
	FindActiveBetween(ctx context.Context, a, b uuid.UUID) (match.Match, bool, error)
	// UpdateStatus moves id from one status to another, failing with
	// ErrMatchStatusConflict when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to match.Status) (match.Match, error)
	ListByUser(ctx context.Context, f MatchListFilter) ([]match.Match, int, error)
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

const matchColumns = `id, user_a, user_b, skill_offered_by_a, skill_offered_by_b,
	compatibility_score, status, initiated_by, created_at, updated_at`

func (r *PostgresMatchRepository) Create(ctx context.Context, m match.Match) (match.Match, error) {
	if r == nil || r.db == nil {
		return match.Match{}, errors.New("nil db")
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO matches (id, user_a, user_b, skill_offered_by_a, skill_offered_by_b, compatibility_score, status, initiated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+matchColumns,
		m.ID, m.UserA, m.UserB, m.SkillOfferedByA, m.SkillOfferedByB, m.CompatibilityScore, string(m.Status), m.InitiatedBy,
	)

	out, err := scanMatch(row)
	if err != nil {
		if isUniqueViolation(err) {
			return match.Match{}, ErrMatchExists
		}
		return match.Match{}, err
	}
	return out, nil
}

func (r *PostgresMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (match.Match, error) {
	if r == nil || r.db == nil {
		return match.Match{}, errors.New("nil db")
	}

	row := r.db.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	m, err := scanMatch(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return match.Match{}, ErrMatchNotFound
		}
		return match.Match{}, err
	}
	return m, nil
}

func (r *PostgresMatchRepository) FindActiveBetween(ctx context.Context, a, b uuid.UUID) (match.Match, bool, error) {
	if r == nil || r.db == nil {
		return match.Match{}, false, errors.New("nil db")
	}

	row := r.db.QueryRow(ctx,
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE ((user_a = $1 AND user_b = $2) OR (user_a = $2 AND user_b = $1))
		   AND status IN ('pending', 'accepted')
		 ORDER BY created_at DESC
		 LIMIT 1`,
		a, b,
	)
	m, err := scanMatch(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, err
	}
	return m, true, nil
}

func (r *PostgresMatchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to match.Status) (match.Match, error) {
	if r == nil || r.db == nil {
		return match.Match{}, errors.New("nil db")
	}

	row := r.db.QueryRow(ctx,
		`UPDATE matches
		 SET status = $3, updated_at = now()
		 WHERE id = $1 AND status = $2
		 RETURNING `+matchColumns,
		id, string(from), string(to),
	)
	m, err := scanMatch(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return match.Match{}, ErrMatchStatusConflict
		}
		return match.Match{}, err
	}
	return m, nil
}

func (r *PostgresMatchRepository) ListByUser(ctx context.Context, f MatchListFilter) ([]match.Match, int, error) {
	if r == nil || r.db == nil {
		return nil, 0, errors.New("nil db")
	}

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM matches
		 WHERE (user_a = $1 OR user_b = $1)
		   AND ($2 = '' OR status = $2)`,
		f.UserID, string(f.Status),
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE (user_a = $1 OR user_b = $1)
		   AND ($2 = '' OR status = $2)
		 ORDER BY created_at DESC, id ASC
		 LIMIT $3 OFFSET $4`,
		f.UserID, string(f.Status), f.Limit, f.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]match.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func scanMatch(row database.Row) (match.Match, error) {
	var m match.Match
	var status string
	if err := row.Scan(
		&m.ID,
		&m.UserA,
		&m.UserB,
		&m.SkillOfferedByA,
		&m.SkillOfferedByB,
		&m.CompatibilityScore,
		&status,
		&m.InitiatedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return match.Match{}, err
	}
	m.Status = match.Status(status)
	return m, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
