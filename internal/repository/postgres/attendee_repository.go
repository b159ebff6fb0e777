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

const attendeeColumns = `id, tenant_id, event_id, user_id, email, name, company, title, phone,
	ticket_type, status, checked_in_at, qr_code, bio, interests, linkedin,
	looking_for, offering, created_at, updated_at`

type attendeeRepository struct {
	q sqlx.ExtContext
}

func NewAttendeeRepository(q sqlx.ExtContext) repository.AttendeeRepository {
	return &attendeeRepository{q: q}
}

func (r *attendeeRepository) Create(ctx context.Context, a *domain.Attendee) error {
	query := `
		INSERT INTO attendees (
			event_id, user_id, email, name, company, title, phone,
			ticket_type, status, qr_code, bio, interests, linkedin, looking_for, offering
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, tenant_id, created_at, updated_at
	`
	err := r.q.QueryRowxContext(
		ctx, query,
		a.EventID, a.UserID, a.Email, a.Name, a.Company, a.Title, a.Phone,
		a.TicketType, a.Status, a.QRCode, a.Bio, a.Interests, a.LinkedIn, a.LookingFor, a.Offering,
	).Scan(&a.ID, &a.TenantID, &a.CreatedAt, &a.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrAttendeeExists
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *attendeeRepository) get(ctx context.Context, where string, args ...any) (*domain.Attendee, error) {
	return r.query(ctx, `SELECT `+attendeeColumns+` FROM attendees WHERE `+where+` LIMIT 1`, args...)
}

func (r *attendeeRepository) query(ctx context.Context, query string, args ...any) (*domain.Attendee, error) {
	var attendee domain.Attendee
	if err := sqlx.GetContext(ctx, r.q, &attendee, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAttendeeNotFound
		}
		return nil, err
	}
	return &attendee, nil
}

func (r *attendeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attendee, error) {
	return r.get(ctx, `id = $1`, id)
}

func (r *attendeeRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Attendee, error) {
	return r.query(ctx, `SELECT `+attendeeColumns+` FROM attendees WHERE id = $1 FOR UPDATE`, id)
}

func (r *attendeeRepository) GetByQRCode(ctx context.Context, qrCode string) (*domain.Attendee, error) {
	return r.get(ctx, `qr_code = $1`, qrCode)
}

func (r *attendeeRepository) GetByEmail(ctx context.Context, eventID uuid.UUID, email string) (*domain.Attendee, error) {
	return r.get(ctx, `event_id = $1 AND lower(email) = lower($2)`, eventID, email)
}

func (r *attendeeRepository) ListActive(ctx context.Context, eventID uuid.UUID) ([]*domain.Attendee, error) {
	var attendees []*domain.Attendee
	query := `
		SELECT ` + attendeeColumns + ` FROM attendees
		WHERE event_id = $1 AND status <> 'cancelled'
		ORDER BY created_at
	`
	err := sqlx.SelectContext(ctx, r.q, &attendees, query, eventID)
	return attendees, err
}

func (r *attendeeRepository) CountActive(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int
	query := `SELECT count(*) FROM attendees WHERE event_id = $1 AND status <> 'cancelled'`
	err := sqlx.GetContext(ctx, r.q, &count, query, eventID)
	return count, err
}

func (r *attendeeRepository) UpdateProfile(ctx context.Context, a *domain.Attendee) error {
	query := `
		UPDATE attendees
		SET name = $1, company = $2, title = $3, phone = $4, bio = $5,
		    interests = $6, linkedin = $7, looking_for = $8, offering = $9,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $10
		RETURNING updated_at
	`
	err := r.q.QueryRowxContext(
		ctx, query,
		a.Name, a.Company, a.Title, a.Phone, a.Bio,
		a.Interests, a.LinkedIn, a.LookingFor, a.Offering,
		a.ID,
	).Scan(&a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrAttendeeNotFound
	}
	return err
}

func (r *attendeeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AttendeeStatus) (*domain.Attendee, error) {
	var attendee domain.Attendee
	query := `
		UPDATE attendees
		SET status = $1,
		    checked_in_at = CASE WHEN $1 = 'checked_in' THEN CURRENT_TIMESTAMP ELSE checked_in_at END,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING ` + attendeeColumns
	if err := sqlx.GetContext(ctx, r.q, &attendee, query, status, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAttendeeNotFound
		}
		return nil, err
	}
	return &attendee, nil
}

func (r *attendeeRepository) Stats(ctx context.Context, eventID uuid.UUID) (*domain.RegistrationStats, error) {
	stats := &domain.RegistrationStats{}
	query := `
		SELECT
			count(*) AS total,
			count(*) FILTER (WHERE status = 'checked_in') AS checked_in
		FROM attendees WHERE event_id = $1
	`
	if err := r.q.QueryRowxContext(ctx, query, eventID).Scan(&stats.Total, &stats.CheckedIn); err != nil {
		return nil, err
	}

	byType := `
		SELECT ticket_type, count(*) AS count
		FROM attendees WHERE event_id = $1
		GROUP BY ticket_type ORDER BY ticket_type
	`
	if err := sqlx.SelectContext(ctx, r.q, &stats.ByType, byType, eventID); err != nil {
		return nil, err
	}
	return stats, nil
}

type eventRepository struct {
	q sqlx.ExtContext
}

func NewEventRepository(q sqlx.ExtContext) repository.EventRepository {
	return &eventRepository{q: q}
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	var event domain.Event
	query := `
		SELECT id, tenant_id, name, slug, start_date, end_date, COALESCE(timezone, '') AS timezone,
		       venue, city, capacity, status, created_at
		FROM events WHERE id = $1
	`
	if err := sqlx.GetContext(ctx, r.q, &event, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

type pointsRepository struct {
	q sqlx.ExtContext
}

func NewPointsRepository(q sqlx.ExtContext) repository.PointsRepository {
	return &pointsRepository{q: q}
}

func (r *pointsRepository) Award(ctx context.Context, entry *domain.PointsEntry) error {
	query := `
		INSERT INTO attendee_points (attendee_id, event_id, points, action)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.q.QueryRowxContext(ctx, query, entry.AttendeeID, entry.EventID, entry.Points, entry.Action).
		Scan(&entry.ID, &entry.CreatedAt)
}
