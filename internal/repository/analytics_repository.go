package repository

import (
	"context"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/google/uuid"
)

type AnalyticsRepository interface {
	Metrics(ctx context.Context, eventID uuid.UUID) (*domain.EventMetrics, error)
	RegistrationsByDay(ctx context.Context, eventID uuid.UUID) ([]domain.DailyCount, error)
	SessionAttendance(ctx context.Context, eventID uuid.UUID) ([]domain.SessionAttendance, error)
	TicketDistribution(ctx context.Context, eventID uuid.UUID) ([]domain.TicketCount, error)
	CheckinsByHour(ctx context.Context, eventID uuid.UUID) ([]domain.HourlyCount, error)
	Leaderboard(ctx context.Context, eventID uuid.UUID, limit int) ([]domain.LeaderboardEntry, error)
	RecentActivity(ctx context.Context, eventID uuid.UUID, limit int) ([]domain.Activity, error)
}

// UserRepository is not tenant scoped: it resolves logins before a tenant is known.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetMembership(ctx context.Context, userID uuid.UUID, tenantSlug string) (*domain.Membership, error)
}
