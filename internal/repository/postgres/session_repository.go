package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const sessionColumns = `id, tenant_id, event_id, title, description, start_time, end_time,
	room, track, capacity, type, created_at, updated_at`

type sessionRepository struct {
	q sqlx.ExtContext
}

func NewSessionRepository(q sqlx.ExtContext) repository.SessionRepository {
	return &sessionRepository{q: q}
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (event_id, title, description, start_time, end_time, room, track, capacity, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, tenant_id, created_at, updated_at
	`
	return r.q.QueryRowxContext(
		ctx, query,
		s.EventID, s.Title, s.Description, s.StartTime, s.EndTime, s.Room, s.Track, s.Capacity, s.Type,
	).Scan(&s.ID, &s.TenantID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	var session domain.Session
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.q, &session, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Session, error) {
	var sessions []*domain.Session
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE event_id = $1 ORDER BY start_time, id`
	err := sqlx.SelectContext(ctx, r.q, &sessions, query, eventID)
	return sessions, err
}

type sessionSpeakerRow struct {
	SessionID uuid.UUID `db:"session_id"`
	domain.Speaker
}

func (r *sessionRepository) SpeakersFor(ctx context.Context, sessionIDs []uuid.UUID) (map[uuid.UUID][]*domain.Speaker, error) {
	result := make(map[uuid.UUID][]*domain.Speaker, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return result, nil
	}

	ids := make([]string, 0, len(sessionIDs))
	for _, id := range sessionIDs {
		ids = append(ids, id.String())
	}

	var rows []sessionSpeakerRow
	query := `
		SELECT ss.session_id, sp.id, sp.event_id, sp.name, sp.bio, sp.title, sp.company, sp.linkedin
		FROM session_speakers ss
		JOIN speakers sp ON sp.id = ss.speaker_id
		WHERE ss.session_id = ANY($1::uuid[])
		ORDER BY sp.name
	`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, pq.Array(ids)); err != nil {
		return nil, err
	}
	for i := range rows {
		speaker := rows[i].Speaker
		result[rows[i].SessionID] = append(result[rows[i].SessionID], &speaker)
	}
	return result, nil
}

func (r *sessionRepository) CurrentInRoom(ctx context.Context, eventID uuid.UUID, room string, at time.Time) (*domain.Session, error) {
	var session domain.Session
	query := `
		SELECT ` + sessionColumns + ` FROM sessions
		WHERE event_id = $1 AND room = $2 AND start_time <= $3 AND end_time > $3
		ORDER BY start_time
		LIMIT 1
	`
	if err := sqlx.GetContext(ctx, r.q, &session, query, eventID, room, at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

type agendaRepository struct {
	q sqlx.ExtContext
}

func NewAgendaRepository(q sqlx.ExtContext) repository.AgendaRepository {
	return &agendaRepository{q: q}
}

func (r *agendaRepository) Add(ctx context.Context, entry *domain.AgendaEntry) error {
	query := `
		INSERT INTO attendee_sessions (attendee_id, session_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.q.QueryRowxContext(ctx, query, entry.AttendeeID, entry.SessionID, entry.Status).
		Scan(&entry.ID, &entry.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyInAgenda
	}
	return err
}

func (r *agendaRepository) Remove(ctx context.Context, attendeeID, sessionID uuid.UUID) error {
	query := `DELETE FROM attendee_sessions WHERE attendee_id = $1 AND session_id = $2`
	result, err := r.q.ExecContext(ctx, query, attendeeID, sessionID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAgendaEntryNotFound
	}
	return nil
}

type personalSessionRow struct {
	domain.Session
	AgendaStatus domain.AgendaStatus `db:"agenda_status"`
}

func (r *agendaRepository) Personal(ctx context.Context, attendeeID uuid.UUID) ([]*domain.PersonalSession, error) {
	var rows []personalSessionRow
	query := `
		SELECT s.id, s.tenant_id, s.event_id, s.title, s.description, s.start_time, s.end_time,
		       s.room, s.track, s.capacity, s.type, s.created_at, s.updated_at,
		       a.status AS agenda_status
		FROM attendee_sessions a
		JOIN sessions s ON s.id = a.session_id
		WHERE a.attendee_id = $1
		ORDER BY s.start_time, s.id
	`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, attendeeID); err != nil {
		return nil, err
	}

	out := make([]*domain.PersonalSession, 0, len(rows))
	for i := range rows {
		session := rows[i].Session
		out = append(out, &domain.PersonalSession{Session: &session, Status: rows[i].AgendaStatus})
	}
	return out, nil
}

func (r *agendaRepository) LockAttendee(ctx context.Context, attendeeID uuid.UUID) error {
	_, err := r.q.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "agenda:"+attendeeID.String())
	return err
}

func (r *agendaRepository) SetStatus(ctx context.Context, attendeeID, sessionID uuid.UUID, status domain.AgendaStatus) error {
	query := `UPDATE attendee_sessions SET status = $1 WHERE attendee_id = $2 AND session_id = $3`
	result, err := r.q.ExecContext(ctx, query, status, attendeeID, sessionID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrAgendaEntryNotFound
	}
	return nil
}
