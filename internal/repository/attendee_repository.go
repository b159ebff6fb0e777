package repository

import (
	"context"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/google/uuid"
)

type EventRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
}

type AttendeeRepository interface {
	Create(ctx context.Context, attendee *domain.Attendee) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Attendee, error)
	// GetByIDForUpdate reads the attendee and holds its row lock until the
	// transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Attendee, error)
	GetByQRCode(ctx context.Context, qrCode string) (*domain.Attendee, error)
	GetByEmail(ctx context.Context, eventID uuid.UUID, email string) (*domain.Attendee, error)
	// ListActive returns the event's attendees that have not cancelled.
	ListActive(ctx context.Context, eventID uuid.UUID) ([]*domain.Attendee, error)
	CountActive(ctx context.Context, eventID uuid.UUID) (int, error)
	UpdateProfile(ctx context.Context, attendee *domain.Attendee) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AttendeeStatus) (*domain.Attendee, error)
	Stats(ctx context.Context, eventID uuid.UUID) (*domain.RegistrationStats, error)
}

type PointsRepository interface {
	Award(ctx context.Context, entry *domain.PointsEntry) error
}
