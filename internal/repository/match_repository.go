package repository

import (
	"context"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/google/uuid"
)

type MatchRepository interface {
	Create(ctx context.Context, match *domain.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error)
	// GetByPair finds the row for an unordered pair in an event, in either direction.
	GetByPair(ctx context.Context, eventID, a, b uuid.UUID) (*domain.Match, error)
	// LockPair serializes transitions on a pair until the transaction ends.
	LockPair(ctx context.Context, eventID, a, b uuid.UUID) error
	Update(ctx context.Context, match *domain.Match) error
	ListForAttendee(ctx context.Context, eventID, attendeeID uuid.UUID) ([]*domain.Match, error)
	ListByStatus(ctx context.Context, eventID, attendeeID uuid.UUID, statuses ...domain.MatchStatus) ([]*domain.Match, error)
	Stats(ctx context.Context, eventID, attendeeID uuid.UUID) (*domain.NetworkingStats, error)
	SetIcebreakers(ctx context.Context, id uuid.UUID, icebreakers []string) error
}
