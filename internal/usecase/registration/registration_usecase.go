package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/infrastructure/events"
	"github.com/gdugdh24/confhub-backend/internal/logging"
	"github.com/gdugdh24/confhub-backend/internal/repository"
	"github.com/google/uuid"
	nanoid "github.com/matoous/go-nanoid/v2"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	qrPrefix   = "EVT-"
	qrAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	qrLength   = 8

	// BadgeSize is the side of the QR badge image in pixels.
	BadgeSize = 256
)

// RegisterRequest is the registration form with its networking profile.
type RegisterRequest struct {
	Email      string   `json:"email" validate:"required,email,max=255"`
	Name       string   `json:"name" validate:"required,min=2,max=100"`
	Company    *string  `json:"company" validate:"omitempty,max=200"`
	Title      *string  `json:"title" validate:"omitempty,max=200"`
	Phone      *string  `json:"phone" validate:"omitempty,max=50"`
	TicketType string   `json:"ticket_type" validate:"omitempty,oneof=general vip speaker sponsor"`
	Bio        *string  `json:"bio" validate:"omitempty,max=500"`
	Interests  []string `json:"interests" validate:"max=5,dive,required,max=100"`
	LinkedIn   *string  `json:"linkedin" validate:"omitempty,url"`
	LookingFor *string  `json:"looking_for" validate:"omitempty,max=200"`
	Offering   *string  `json:"offering" validate:"omitempty,max=200"`
}

// ProfileUpdate changes the networking profile. Nil fields are left as is.
type ProfileUpdate struct {
	Name       *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Company    *string  `json:"company" validate:"omitempty,max=200"`
	Title      *string  `json:"title" validate:"omitempty,max=200"`
	Phone      *string  `json:"phone" validate:"omitempty,max=50"`
	Bio        *string  `json:"bio" validate:"omitempty,max=500"`
	Interests  []string `json:"interests" validate:"omitempty,max=5,dive,required,max=100"`
	LinkedIn   *string  `json:"linkedin" validate:"omitempty,url"`
	LookingFor *string  `json:"looking_for" validate:"omitempty,max=200"`
	Offering   *string  `json:"offering" validate:"omitempty,max=200"`
}

type RegistrationUseCase struct {
	tx        repository.TxManager
	publisher events.Publisher
	logger    *slog.Logger
}

func NewRegistrationUseCase(tx repository.TxManager, publisher events.Publisher, logger *slog.Logger) *RegistrationUseCase {
	if publisher == nil {
		publisher = &events.NoopPublisher{}
	}
	return &RegistrationUseCase{tx: tx, publisher: publisher, logger: logger}
}

// Register creates an attendee with a fresh QR code. Full events and emails
// already registered for the event are rejected.
func (uc *RegistrationUseCase) Register(ctx context.Context, tenantID, eventID uuid.UUID, req *RegisterRequest) (*domain.Attendee, error) {
	normalizeRegister(req)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	logger := logging.Component(ctx, uc.logger, "registration", "register", "event_id", eventID)

	code, err := newQRCode()
	if err != nil {
		return nil, err
	}
	attendee := &domain.Attendee{
		EventID:    eventID,
		Email:      req.Email,
		Name:       req.Name,
		Company:    req.Company,
		Title:      req.Title,
		Phone:      req.Phone,
		TicketType: req.TicketType,
		Status:     domain.AttendeeRegistered,
		QRCode:     code,
		Bio:        req.Bio,
		Interests:  req.Interests,
		LinkedIn:   req.LinkedIn,
		LookingFor: req.LookingFor,
		Offering:   req.Offering,
	}

	err = uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		event, err := store.Events().GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event.Capacity != nil {
			count, err := store.Attendees().CountActive(ctx, eventID)
			if err != nil {
				return fmt.Errorf("count attendees: %w", err)
			}
			if count >= *event.Capacity {
				return domain.ErrEventFull
			}
		}

		_, err = store.Attendees().GetByEmail(ctx, eventID, req.Email)
		switch {
		case err == nil:
			return domain.ErrAttendeeExists
		case !errors.Is(err, domain.ErrAttendeeNotFound):
			return fmt.Errorf("check email: %w", err)
		}
		return store.Attendees().Create(ctx, attendee)
	})
	if err != nil {
		logger.Info("registration rejected", "error", err, "kind", domain.ErrorKind(err))
		return nil, err
	}

	logger.Info("attendee registered", "attendee_id", attendee.ID, "ticket_type", attendee.TicketType)
	uc.publish(ctx, logger, events.TopicAttendeeRegistered, events.AttendeeRegistered{
		TenantID:   tenantID,
		EventID:    eventID,
		AttendeeID: attendee.ID,
		TicketType: attendee.TicketType,
	})
	return attendee, nil
}

func normalizeRegister(req *RegisterRequest) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.TicketType == "" {
		req.TicketType = domain.TicketGeneral
	}
	req.Interests = cleanInterests(req.Interests)
	req.LinkedIn = emptyToNil(req.LinkedIn)
}

func cleanInterests(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func newQRCode() (string, error) {
	id, err := nanoid.Generate(qrAlphabet, qrLength)
	if err != nil {
		return "", fmt.Errorf("generate qr code: %w", err)
	}
	return qrPrefix + id, nil
}

func (uc *RegistrationUseCase) AttendeeByQR(ctx context.Context, tenantID uuid.UUID, code string) (*domain.Attendee, error) {
	var attendee *domain.Attendee
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		attendee, err = store.Attendees().GetByQRCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
		return err
	})
	return attendee, err
}

func (uc *RegistrationUseCase) Attendee(ctx context.Context, tenantID, attendeeID uuid.UUID) (*domain.Attendee, error) {
	var attendee *domain.Attendee
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		attendee, err = store.Attendees().GetByID(ctx, attendeeID)
		return err
	})
	return attendee, err
}

// CheckIn marks the attendee as present and awards check-in points. A second
// check-in returns the attendee unchanged.
func (uc *RegistrationUseCase) CheckIn(ctx context.Context, tenantID, attendeeID uuid.UUID) (*domain.Attendee, error) {
	logger := logging.Component(ctx, uc.logger, "registration", "check_in", "attendee_id", attendeeID)

	var attendee *domain.Attendee
	var changed bool
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		current, err := store.Attendees().GetByIDForUpdate(ctx, attendeeID)
		if err != nil {
			return err
		}
		switch current.Status {
		case domain.AttendeeCancelled:
			return domain.ErrAttendeeCancelled
		case domain.AttendeeCheckedIn:
			attendee = current
			return nil
		}

		attendee, err = store.Attendees().UpdateStatus(ctx, attendeeID, domain.AttendeeCheckedIn)
		if err != nil {
			return err
		}
		points := &domain.PointsEntry{
			AttendeeID: attendeeID,
			EventID:    attendee.EventID,
			Points:     domain.ActionPoints[domain.ActionCheckIn],
			Action:     domain.ActionCheckIn,
		}
		if err := store.Points().Award(ctx, points); err != nil {
			return fmt.Errorf("award points: %w", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		logger.Warn("check-in failed", "error", err, "kind", domain.ErrorKind(err))
		return nil, err
	}
	if changed {
		logger.Info("attendee checked in")
		uc.publish(ctx, logger, events.TopicAttendeeCheckedIn, events.AttendeeCheckedIn{
			TenantID:   tenantID,
			EventID:    attendee.EventID,
			AttendeeID: attendeeID,
		})
	}
	return attendee, nil
}

// Cancel soft-deletes a registration. Cancelled attendees stop counting
// toward capacity and disappear from networking.
func (uc *RegistrationUseCase) Cancel(ctx context.Context, tenantID, attendeeID uuid.UUID) (*domain.Attendee, error) {
	var attendee *domain.Attendee
	var changed bool
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		current, err := store.Attendees().GetByIDForUpdate(ctx, attendeeID)
		if err != nil {
			return err
		}
		if current.Status == domain.AttendeeCancelled {
			attendee = current
			return nil
		}
		attendee, err = store.Attendees().UpdateStatus(ctx, attendeeID, domain.AttendeeCancelled)
		changed = err == nil
		return err
	})
	if err != nil {
		return nil, err
	}
	if changed {
		logger := logging.Component(ctx, uc.logger, "registration", "cancel", "attendee_id", attendeeID)
		logger.Info("registration cancelled")
		uc.publish(ctx, logger, events.TopicAttendeeCancelled, events.AttendeeCancelled{
			TenantID:   tenantID,
			EventID:    attendee.EventID,
			AttendeeID: attendeeID,
		})
	}
	return attendee, nil
}

func (uc *RegistrationUseCase) UpdateProfile(ctx context.Context, tenantID, attendeeID uuid.UUID, req *ProfileUpdate) (*domain.Attendee, error) {
	if req.Interests != nil {
		req.Interests = cleanInterests(req.Interests)
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var attendee *domain.Attendee
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		attendee, err = store.Attendees().GetByID(ctx, attendeeID)
		if err != nil {
			return err
		}
		if attendee.Status == domain.AttendeeCancelled {
			return domain.ErrAttendeeCancelled
		}
		applyProfile(attendee, req)
		return store.Attendees().UpdateProfile(ctx, attendee)
	})
	if err != nil {
		return nil, err
	}
	return attendee, nil
}

func applyProfile(a *domain.Attendee, req *ProfileUpdate) {
	if req.Name != nil {
		a.Name = strings.TrimSpace(*req.Name)
	}
	if req.Company != nil {
		a.Company = emptyToNil(req.Company)
	}
	if req.Title != nil {
		a.Title = emptyToNil(req.Title)
	}
	if req.Phone != nil {
		a.Phone = emptyToNil(req.Phone)
	}
	if req.Bio != nil {
		a.Bio = emptyToNil(req.Bio)
	}
	if req.Interests != nil {
		a.Interests = req.Interests
	}
	if req.LinkedIn != nil {
		a.LinkedIn = emptyToNil(req.LinkedIn)
	}
	if req.LookingFor != nil {
		a.LookingFor = emptyToNil(req.LookingFor)
	}
	if req.Offering != nil {
		a.Offering = emptyToNil(req.Offering)
	}
}

func (uc *RegistrationUseCase) Stats(ctx context.Context, tenantID, eventID uuid.UUID) (*domain.RegistrationStats, error) {
	var stats *domain.RegistrationStats
	err := uc.tx.WithTenant(ctx, tenantID, func(store repository.Store) error {
		var err error
		stats, err = store.Attendees().Stats(ctx, eventID)
		return err
	})
	return stats, err
}

// BadgePNG renders the attendee's QR code as a PNG image.
func (uc *RegistrationUseCase) BadgePNG(ctx context.Context, tenantID, attendeeID uuid.UUID) ([]byte, error) {
	attendee, err := uc.Attendee(ctx, tenantID, attendeeID)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(attendee.QRCode, qrcode.Medium, BadgeSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr badge: %w", err)
	}
	return png, nil
}

func (uc *RegistrationUseCase) publish(ctx context.Context, logger *slog.Logger, topic string, event any) {
	if err := uc.publisher.Publish(ctx, topic, event); err != nil {
		logger.Warn("publish event", "topic", topic, "error", err)
	}
}
