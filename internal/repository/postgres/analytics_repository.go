package postgres

import (
	"context"
	"math"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type analyticsRepository struct {
	q sqlx.ExtContext
}

func NewAnalyticsRepository(q sqlx.ExtContext) repository.AnalyticsRepository {
	return &analyticsRepository{q: q}
}

type metricsRow struct {
	Registrations int     `db:"total_registrations"`
	Checkins      int     `db:"total_checkins"`
	Matches       int     `db:"total_matches"`
	Sessions      int     `db:"total_sessions"`
	AvgSessions   float64 `db:"avg_sessions"`
	Points        int     `db:"total_points"`
}

// Metrics returns raw counts; CheckinRate is left for the caller.
func (r *analyticsRepository) Metrics(ctx context.Context, eventID uuid.UUID) (*domain.EventMetrics, error) {
	var row metricsRow
	query := `
		SELECT
			(SELECT count(*) FROM attendees WHERE event_id = $1 AND status <> 'cancelled') AS total_registrations,
			(SELECT count(*) FROM attendees WHERE event_id = $1 AND status = 'checked_in') AS total_checkins,
			(SELECT count(*) FROM networking_matches WHERE event_id = $1 AND status = 'accepted') AS total_matches,
			(SELECT count(*) FROM sessions WHERE event_id = $1) AS total_sessions,
			(SELECT COALESCE(AVG(session_count), 0) FROM (
				SELECT count(*) AS session_count
				FROM attendee_sessions a JOIN sessions s ON s.id = a.session_id
				WHERE s.event_id = $1
				GROUP BY a.attendee_id
			) per_attendee) AS avg_sessions,
			(SELECT COALESCE(SUM(points), 0) FROM attendee_points WHERE event_id = $1) AS total_points
	`
	if err := sqlx.GetContext(ctx, r.q, &row, query, eventID); err != nil {
		return nil, err
	}
	return &domain.EventMetrics{
		TotalRegistrations:     row.Registrations,
		TotalCheckins:          row.Checkins,
		TotalMatches:           row.Matches,
		TotalSessions:          row.Sessions,
		AvgSessionsPerAttendee: int(math.Round(row.AvgSessions)),
		TotalPointsAwarded:     row.Points,
	}, nil
}

func (r *analyticsRepository) RegistrationsByDay(ctx context.Context, eventID uuid.UUID) ([]domain.DailyCount, error) {
	var out []domain.DailyCount
	query := `
		SELECT to_char(DATE(created_at), 'YYYY-MM-DD') AS date, count(*) AS count
		FROM attendees WHERE event_id = $1
		GROUP BY DATE(created_at) ORDER BY DATE(created_at)
	`
	err := sqlx.SelectContext(ctx, r.q, &out, query, eventID)
	return out, err
}

func (r *analyticsRepository) SessionAttendance(ctx context.Context, eventID uuid.UUID) ([]domain.SessionAttendance, error) {
	var out []domain.SessionAttendance
	query := `
		SELECT s.id::text AS session_id, s.title, s.room, s.capacity, count(a.id) AS registered_count
		FROM sessions s
		LEFT JOIN attendee_sessions a ON a.session_id = s.id
		WHERE s.event_id = $1
		GROUP BY s.id, s.title, s.room, s.capacity, s.start_time
		ORDER BY s.start_time
	`
	err := sqlx.SelectContext(ctx, r.q, &out, query, eventID)
	return out, err
}

func (r *analyticsRepository) TicketDistribution(ctx context.Context, eventID uuid.UUID) ([]domain.TicketCount, error) {
	var out []domain.TicketCount
	query := `
		SELECT ticket_type, count(*) AS count
		FROM attendees WHERE event_id = $1 AND status <> 'cancelled'
		GROUP BY ticket_type ORDER BY count DESC
	`
	err := sqlx.SelectContext(ctx, r.q, &out, query, eventID)
	return out, err
}

func (r *analyticsRepository) CheckinsByHour(ctx context.Context, eventID uuid.UUID) ([]domain.HourlyCount, error) {
	var out []domain.HourlyCount
	query := `
		SELECT EXTRACT(HOUR FROM checked_in_at)::int AS hour, count(*) AS count
		FROM attendees WHERE event_id = $1 AND checked_in_at IS NOT NULL
		GROUP BY 1 ORDER BY 1
	`
	err := sqlx.SelectContext(ctx, r.q, &out, query, eventID)
	return out, err
}

func (r *analyticsRepository) Leaderboard(ctx context.Context, eventID uuid.UUID, limit int) ([]domain.LeaderboardEntry, error) {
	var out []domain.LeaderboardEntry
	query := `
		SELECT p.attendee_id::text AS attendee_id, SUM(p.points) AS total_points,
		       a.name AS attendee_name, a.company AS attendee_company
		FROM attendee_points p
		JOIN attendees a ON a.id = p.attendee_id
		WHERE p.event_id = $1
		GROUP BY p.attendee_id, a.name, a.company
		ORDER BY SUM(p.points) DESC
		LIMIT $2
	`
	err := sqlx.SelectContext(ctx, r.q, &out, query, eventID, limit)
	return out, err
}

func (r *analyticsRepository) RecentActivity(ctx context.Context, eventID uuid.UUID, limit int) ([]domain.Activity, error) {
	var out []domain.Activity
	query := `
		(SELECT 'registration' AS type, name, created_at AS timestamp, ticket_type AS detail
		 FROM attendees WHERE event_id = $1
		 ORDER BY created_at DESC LIMIT $2)
		UNION ALL
		(SELECT 'checkin' AS type, name, checked_in_at AS timestamp, '' AS detail
		 FROM attendees WHERE event_id = $1 AND checked_in_at IS NOT NULL
		 ORDER BY checked_in_at DESC LIMIT $2)
		ORDER BY timestamp DESC
		LIMIT $2
	`
	err := sqlx.SelectContext(ctx, r.q, &out, query, eventID, limit)
	return out, err
}
