package agenda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/infrastructure/events"
	"github.com/gdugdh24/confhub-backend/internal/repository"
	"github.com/gdugdh24/confhub-backend/internal/testfixtures"
	"github.com/google/uuid"
)

type agendaFixture struct {
	store    *testfixtures.Store
	uc       *AgendaUseCase
	tenant   uuid.UUID
	event    uuid.UUID
	attendee uuid.UUID
}

func newAgendaFixture(t *testing.T) *agendaFixture {
	t.Helper()
	store := testfixtures.NewStore(testfixtures.NewClock(time.Time{}))
	f := &agendaFixture{store: store, uc: NewAgendaUseCase(store, &events.NoopPublisher{}, nil), tenant: uuid.New()}
	f.event = store.AddEvent(domain.Event{TenantID: f.tenant, Name: "Summit", Timezone: "UTC"}).ID
	f.attendee = store.AddAttendee(domain.Attendee{
		TenantID:  f.tenant,
		EventID:   f.event,
		Name:      "Ana",
		Email:     "ana@example.com",
		Interests: []string{"IA", "Fintech"},
	}).ID
	return f
}

func (f *agendaFixture) session(title string, start, end time.Time) uuid.UUID {
	return f.store.AddSession(domain.Session{TenantID: f.tenant, EventID: f.event, Title: title, StartTime: start, EndTime: end}).ID
}

func TestAddToPersonalAgenda(t *testing.T) {
	f := newAgendaFixture(t)
	ctx := context.Background()
	keynote := f.session("Keynote", at(10, 0), at(11, 0))
	adjacent := f.session("Panel", at(11, 0), at(12, 0))
	clash := f.session("Taller", at(10, 30), at(11, 30))

	entry, err := f.uc.AddToPersonalAgenda(ctx, f.tenant, f.attendee, keynote)
	if err != nil {
		t.Fatalf("add keynote: %v", err)
	}
	if entry.Status != domain.AgendaConfirmed {
		t.Fatalf("status = %s, want confirmed", entry.Status)
	}
	if _, err := f.uc.AddToPersonalAgenda(ctx, f.tenant, f.attendee, adjacent); err != nil {
		t.Fatalf("back-to-back session rejected: %v", err)
	}

	_, err = f.uc.AddToPersonalAgenda(ctx, f.tenant, f.attendee, clash)
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) || !errors.Is(err, domain.ErrScheduleConflict) {
		t.Fatalf("err = %v, want ConflictError", err)
	}
	if conflict.With.ID != keynote {
		t.Fatalf("conflict with %s, want keynote", conflict.With.Title)
	}

	if _, err := f.uc.AddToPersonalAgenda(ctx, f.tenant, f.attendee, keynote); !errors.Is(err, domain.ErrAlreadyInAgenda) {
		t.Fatalf("duplicate add err = %v", err)
	}
	if _, err := f.uc.AddToPersonalAgenda(ctx, f.tenant, f.attendee, uuid.New()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("missing session err = %v", err)
	}
	if got := len(f.store.AgendaEntries(f.attendee)); got != 2 {
		t.Fatalf("entries = %d, want 2", got)
	}

	personal, err := f.uc.PersonalAgenda(ctx, f.tenant, f.attendee)
	if err != nil {
		t.Fatalf("PersonalAgenda: %v", err)
	}
	if len(personal) != 2 || personal[0].Session.ID != keynote {
		t.Fatalf("personal agenda out of order: %+v", personal)
	}
}

func TestRemoveFromPersonalAgenda(t *testing.T) {
	f := newAgendaFixture(t)
	ctx := context.Background()
	s := f.session("Keynote", at(10, 0), at(11, 0))

	if err := f.uc.RemoveFromPersonalAgenda(ctx, f.tenant, f.attendee, s); !errors.Is(err, domain.ErrAgendaEntryNotFound) {
		t.Fatalf("remove missing err = %v", err)
	}
	f.uc.AddToPersonalAgenda(ctx, f.tenant, f.attendee, s)
	if err := f.uc.RemoveFromPersonalAgenda(ctx, f.tenant, f.attendee, s); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(f.store.AgendaEntries(f.attendee)) != 0 {
		t.Fatal("entry still present")
	}
}

func TestEventAgendaGrouped(t *testing.T) {
	f := newAgendaFixture(t)
	day2 := at(9, 0).Add(24 * time.Hour)
	f.session("Cierre", day2, day2.Add(time.Hour))
	f.session("Tarde", at(15, 0), at(16, 0))
	f.session("Apertura", at(9, 0), at(10, 0))

	days, err := f.uc.EventAgendaGrouped(context.Background(), f.tenant, f.event)
	if err != nil {
		t.Fatalf("EventAgendaGrouped: %v", err)
	}
	if len(days) != 2 || days[0].Date != "2026-03-10" || days[1].Date != "2026-03-11" {
		t.Fatalf("days = %+v", days)
	}
	if days[0].Sessions[0].Title != "Apertura" || days[0].Sessions[1].Title != "Tarde" {
		t.Fatal("sessions within a day not ordered by start")
	}
}

func TestEventAgendaCarriesSpeakers(t *testing.T) {
	f := newAgendaFixture(t)
	f.store.AddSession(
		domain.Session{TenantID: f.tenant, EventID: f.event, Title: "Keynote", StartTime: at(9, 0), EndTime: at(10, 0)},
		&domain.Speaker{ID: uuid.New(), Name: "Dra. López"},
	)

	sessions, err := f.uc.EventAgenda(context.Background(), f.tenant, f.event)
	if err != nil {
		t.Fatalf("EventAgenda: %v", err)
	}
	if len(sessions) != 1 || len(sessions[0].Speakers) != 1 {
		t.Fatalf("sessions = %+v", sessions)
	}
}

func TestRecommendationsSkipPersonalAgenda(t *testing.T) {
	f := newAgendaFixture(t)
	ctx := context.Background()
	ia := f.session("Taller de IA para abogados", at(9, 0), at(10, 0))
	fin := f.session("Fintech en México", at(11, 0), at(12, 0))
	f.session("Networking libre", at(13, 0), at(14, 0))

	f.uc.AddToPersonalAgenda(ctx, f.tenant, f.attendee, ia)
	got, err := f.uc.Recommendations(ctx, f.tenant, f.event, f.attendee)
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	if len(got) != 1 || got[0].Session.ID != fin {
		t.Fatalf("recommendations = %+v", got)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	f := newAgendaFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateSession(ctx, f.tenant, f.event, &CreateSessionRequest{
		Title: "Mal", StartTime: at(11, 0), EndTime: at(10, 0), Type: "party",
	})
	var v *domain.ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if _, ok := v.Fields["end_time"]; !ok {
		t.Fatal("missing end_time error")
	}
	if _, ok := v.Fields["type"]; !ok {
		t.Fatal("missing type error")
	}

	s, err := f.uc.CreateSession(ctx, f.tenant, f.event, &CreateSessionRequest{
		Title: "  Keynote ", StartTime: at(9, 0), EndTime: at(10, 0),
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if s.Type != domain.SessionTalk || s.Title != "Keynote" || s.TenantID != f.tenant {
		t.Fatalf("session = %+v", s)
	}

	if _, err := f.uc.CreateSession(ctx, f.tenant, uuid.New(), &CreateSessionRequest{
		Title: "x", StartTime: at(9, 0), EndTime: at(10, 0),
	}); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("missing event err = %v", err)
	}
}

func TestMarkAttendedAwardsOnce(t *testing.T) {
	f := newAgendaFixture(t)
	ctx := context.Background()
	s := f.session("Keynote", at(9, 0), at(10, 0))

	if err := f.uc.MarkAttended(ctx, f.tenant, f.attendee, s); !errors.Is(err, domain.ErrAgendaEntryNotFound) {
		t.Fatalf("not in agenda err = %v", err)
	}
	f.uc.AddToPersonalAgenda(ctx, f.tenant, f.attendee, s)
	for i := 0; i < 2; i++ {
		if err := f.uc.MarkAttended(ctx, f.tenant, f.attendee, s); err != nil {
			t.Fatalf("MarkAttended #%d: %v", i, err)
		}
	}
	points := f.store.Points()
	if len(points) != 1 || points[0].Action != domain.ActionSessionAttend || points[0].Points != 5 {
		t.Fatalf("points = %+v", points)
	}
	if e := f.store.AgendaEntries(f.attendee); e[0].Status != domain.AgendaAttended {
		t.Fatalf("status = %s", e[0].Status)
	}
}

func TestMarkAttendedSeesAttendanceCommittedWhileWaitingForLock(t *testing.T) {
	f := newAgendaFixture(t)
	ctx := context.Background()
	s := f.session("Keynote", at(9, 0), at(10, 0))
	f.store.AddAgendaEntry(domain.AgendaEntry{AttendeeID: f.attendee, SessionID: s})

	var raced bool
	f.store.OnLockWait = func(tx repository.Store) {
		raced = true
		if err := tx.Agenda().SetStatus(ctx, f.attendee, s, domain.AgendaAttended); err != nil {
			t.Errorf("SetStatus: %v", err)
		}
		entry := &domain.PointsEntry{AttendeeID: f.attendee, EventID: f.event, Points: 5, Action: domain.ActionSessionAttend}
		if err := tx.Points().Award(ctx, entry); err != nil {
			t.Errorf("Award: %v", err)
		}
	}

	if err := f.uc.MarkAttended(ctx, f.tenant, f.attendee, s); err != nil {
		t.Fatalf("MarkAttended: %v", err)
	}
	if !raced {
		t.Fatal("MarkAttended did not take the attendee lock")
	}
	if points := f.store.Points(); len(points) != 1 {
		t.Fatalf("points = %+v, want one award", points)
	}
}

func TestRecommendationsRejectAttendeeOfAnotherEvent(t *testing.T) {
	f := newAgendaFixture(t)
	f.session("Taller de IA", at(9, 0), at(10, 0))
	other := f.store.AddEvent(domain.Event{TenantID: f.tenant, Name: "Otro", Timezone: "UTC"}).ID

	_, err := f.uc.Recommendations(context.Background(), f.tenant, other, f.attendee)
	if !errors.Is(err, domain.ErrAttendeeNotFound) {
		t.Fatalf("err = %v, want ErrAttendeeNotFound", err)
	}
}
