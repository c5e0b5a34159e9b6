package repository

import (
	"context"
	"database/sql"
	"errors"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error)
	// ListCandidates returns non-banned profiles other than userID that offer
	// one of wanted or want one of offered. Either direction of overlap
	// qualifies, so one-sided partners are kept and simply score lower than
	// mutual ones. Skill names must be normalized.
	ListCandidates(ctx context.Context, userID uuid.UUID, offered, wanted []string) ([]profile.Profile, error)
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

const profileColumns = `p.id, p.display_name, p.photo_url, p.bio, p.rating::float8, p.is_banned,
	COALESCE(array_agg(ps.name ORDER BY ps.name) FILTER (WHERE ps.kind = 'offered'), '{}'::text[]),
	COALESCE(array_agg(ps.name ORDER BY ps.name) FILTER (WHERE ps.kind = 'wanted'), '{}'::text[])`

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	if r == nil || r.db == nil {
		return profile.Profile{}, errors.New("nil db")
	}

	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles p
		 LEFT JOIN profile_skills ps ON ps.profile_id = p.id
		 WHERE p.id = $1
		 GROUP BY p.id`,
		id,
	)

	p, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, err
	}
	return p, nil
}

func (r *PostgresProfileRepository) ListCandidates(ctx context.Context, userID uuid.UUID, offered, wanted []string) ([]profile.Profile, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("nil db")
	}
	if len(offered) == 0 && len(wanted) == 0 {
		return []profile.Profile{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles p
		 JOIN profile_skills ps ON ps.profile_id = p.id
		 WHERE p.id <> $1
		   AND NOT p.is_banned
		   AND EXISTS (
			SELECT 1 FROM profile_skills c
			WHERE c.profile_id = p.id
			  AND ((c.kind = 'offered' AND c.name = ANY($2::text[]))
			    OR (c.kind = 'wanted' AND c.name = ANY($3::text[])))
		   )
		 GROUP BY p.id`,
		userID, wanted, offered,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanProfile(row database.Row) (profile.Profile, error) {
	var p profile.Profile
	if err := row.Scan(
		&p.ID,
		&p.DisplayName,
		&p.PhotoURL,
		&p.Bio,
		&p.Rating,
		&p.IsBanned,
		&p.SkillsOffered,
		&p.SkillsWanted,
	); err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}
