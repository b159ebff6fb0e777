package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

func TestAgendaAddDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAgendaRepository(db)

	mock.ExpectQuery("INSERT INTO attendee_sessions").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	err := repo.Add(context.Background(), &domain.AgendaEntry{
		AttendeeID: uuid.New(),
		SessionID:  uuid.New(),
		Status:     domain.AgendaInterested,
	})
	if !errors.Is(err, domain.ErrAlreadyInAgenda) {
		t.Fatalf("err = %v, want ErrAlreadyInAgenda", err)
	}
}

func TestAgendaRemoveMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAgendaRepository(db)

	mock.ExpectExec("DELETE FROM attendee_sessions").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Remove(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, domain.ErrAgendaEntryNotFound) {
		t.Fatalf("err = %v, want ErrAgendaEntryNotFound", err)
	}
}

func TestAgendaPersonal(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAgendaRepository(db)
	attendee, session := uuid.New(), uuid.New()
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM attendee_sessions a").
		WithArgs(attendee.String()).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "tenant_id", "event_id", "title", "description", "start_time", "end_time",
			"room", "track", "capacity", "type", "created_at", "updated_at", "agenda_status",
		}).AddRow(
			session.String(), uuid.NewString(), uuid.NewString(), "Keynote", nil, start, start.Add(time.Hour),
			"Main", nil, 100, "talk", start, start, "confirmed",
		))

	out, err := repo.Personal(context.Background(), attendee)
	if err != nil {
		t.Fatalf("Personal: %v", err)
	}
	if len(out) != 1 || out[0].Session.ID != session || out[0].Status != domain.AgendaConfirmed {
		t.Fatalf("unexpected agenda %+v", out)
	}
}

func TestSessionSpeakersForEmpty(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewSessionRepository(db)

	got, err := repo.SpeakersFor(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("SpeakersFor(nil) = %v, %v", got, err)
	}
}

func TestAttendeeCreateDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttendeeRepository(db)

	mock.ExpectQuery("INSERT INTO attendees").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &domain.Attendee{EventID: uuid.New(), Email: "a@b.c", Name: "A"})
	if !errors.Is(err, domain.ErrAttendeeExists) {
		t.Fatalf("err = %v, want ErrAttendeeExists", err)
	}
}
