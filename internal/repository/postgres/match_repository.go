package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const matchColumns = `id, tenant_id, event_id, attendee_1_id, attendee_2_id, match_score,
	status, attendee_1_status, attendee_2_status, icebreakers, created_at, updated_at`

type matchRepository struct {
	q sqlx.ExtContext
}

func NewMatchRepository(q sqlx.ExtContext) repository.MatchRepository {
	return &matchRepository{q: q}
}

func (r *matchRepository) Create(ctx context.Context, match *domain.Match) error {
	query := `
		INSERT INTO networking_matches (
			event_id, attendee_1_id, attendee_2_id, match_score,
			status, attendee_1_status, attendee_2_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, tenant_id, created_at, updated_at
	`
	return r.q.QueryRowxContext(
		ctx, query,
		match.EventID, match.Attendee1ID, match.Attendee2ID, match.Score,
		match.Status, match.Attendee1Status, match.Attendee2Status,
	).Scan(&match.ID, &match.TenantID, &match.CreatedAt, &match.UpdatedAt)
}

func (r *matchRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	var match domain.Match
	query := `SELECT ` + matchColumns + ` FROM networking_matches WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.q, &match, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) GetByPair(ctx context.Context, eventID, a, b uuid.UUID) (*domain.Match, error) {
	var match domain.Match
	query := `
		SELECT ` + matchColumns + ` FROM networking_matches
		WHERE event_id = $1
		  AND ((attendee_1_id = $2 AND attendee_2_id = $3) OR (attendee_1_id = $3 AND attendee_2_id = $2))
		LIMIT 1
	`
	if err := sqlx.GetContext(ctx, r.q, &match, query, eventID, a, b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) LockPair(ctx context.Context, eventID, a, b uuid.UUID) error {
	_, err := r.q.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, pairKey(eventID, a, b))
	return err
}

// pairKey is the same for (a, b) and (b, a).
func pairKey(eventID, a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if x > y {
		x, y = y, x
	}
	return "match:" + eventID.String() + ":" + x + ":" + y
}

func (r *matchRepository) Update(ctx context.Context, match *domain.Match) error {
	query := `
		UPDATE networking_matches
		SET status = $1, attendee_1_status = $2, attendee_2_status = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING updated_at
	`
	err := r.q.QueryRowxContext(ctx, query, match.Status, match.Attendee1Status, match.Attendee2Status, match.ID).
		Scan(&match.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrMatchNotFound
	}
	return err
}

func (r *matchRepository) ListForAttendee(ctx context.Context, eventID, attendeeID uuid.UUID) ([]*domain.Match, error) {
	var matches []*domain.Match
	query := `
		SELECT ` + matchColumns + ` FROM networking_matches
		WHERE event_id = $1 AND (attendee_1_id = $2 OR attendee_2_id = $2)
		ORDER BY created_at DESC
	`
	err := sqlx.SelectContext(ctx, r.q, &matches, query, eventID, attendeeID)
	return matches, err
}

func (r *matchRepository) ListByStatus(ctx context.Context, eventID, attendeeID uuid.UUID, statuses ...domain.MatchStatus) ([]*domain.Match, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}

	var matches []*domain.Match
	query := `
		SELECT ` + matchColumns + ` FROM networking_matches
		WHERE event_id = $1 AND (attendee_1_id = $2 OR attendee_2_id = $2) AND status = ANY($3)
		ORDER BY updated_at DESC
	`
	err := sqlx.SelectContext(ctx, r.q, &matches, query, eventID, attendeeID, pq.Array(values))
	return matches, err
}

func (r *matchRepository) Stats(ctx context.Context, eventID, attendeeID uuid.UUID) (*domain.NetworkingStats, error) {
	var stats domain.NetworkingStats
	query := `
		SELECT
			count(*) FILTER (WHERE status = 'accepted') AS total_matches,
			count(*) FILTER (WHERE status = 'met') AS people_met,
			count(*) FILTER (WHERE status = 'pending' AND attendee_2_id = $2 AND attendee_1_status = 'liked') AS pending_likes
		FROM networking_matches
		WHERE event_id = $1 AND (attendee_1_id = $2 OR attendee_2_id = $2)
	`
	if err := sqlx.GetContext(ctx, r.q, &stats, query, eventID, attendeeID); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *matchRepository) SetIcebreakers(ctx context.Context, id uuid.UUID, icebreakers []string) error {
	query := `UPDATE networking_matches SET icebreakers = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	result, err := r.q.ExecContext(ctx, query, pq.Array(icebreakers), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}
