package testfixtures

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/google/uuid"
)

type eventRepo struct{ v *view }

func (r eventRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Event, error) {
	e, ok := r.v.s.events[id]
	if !ok || !r.v.visible(e.TenantID) {
		return nil, domain.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

type attendeeRepo struct{ v *view }

func (r attendeeRepo) Create(_ context.Context, a *domain.Attendee) error {
	for _, other := range r.v.s.attendees {
		if other.EventID == a.EventID && strings.EqualFold(other.Email, a.Email) {
			return domain.ErrAttendeeExists
		}
	}
	a.ID = uuid.New()
	a.TenantID = r.v.tenant
	a.CreatedAt = r.v.s.now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	r.v.s.attendees[a.ID] = &cp
	return nil
}

func (r attendeeRepo) find(match func(*domain.Attendee) bool) (*domain.Attendee, error) {
	for _, a := range r.v.s.attendees {
		if r.v.visible(a.TenantID) && match(a) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrAttendeeNotFound
}

func (r attendeeRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Attendee, error) {
	return r.find(func(a *domain.Attendee) bool { return a.ID == id })
}

func (r attendeeRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Attendee, error) {
	r.v.lockWait()
	return r.GetByID(ctx, id)
}

func (r attendeeRepo) GetByQRCode(_ context.Context, qrCode string) (*domain.Attendee, error) {
	return r.find(func(a *domain.Attendee) bool { return a.QRCode == qrCode })
}

func (r attendeeRepo) GetByEmail(_ context.Context, eventID uuid.UUID, email string) (*domain.Attendee, error) {
	return r.find(func(a *domain.Attendee) bool {
		return a.EventID == eventID && strings.EqualFold(a.Email, email)
	})
}

func (r attendeeRepo) ListActive(_ context.Context, eventID uuid.UUID) ([]*domain.Attendee, error) {
	var out []*domain.Attendee
	for _, a := range r.v.s.attendees {
		if r.v.visible(a.TenantID) && a.EventID == eventID && a.Status != domain.AttendeeCancelled {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r attendeeRepo) CountActive(ctx context.Context, eventID uuid.UUID) (int, error) {
	list, err := r.ListActive(ctx, eventID)
	return len(list), err
}

func (r attendeeRepo) UpdateProfile(_ context.Context, a *domain.Attendee) error {
	cur, ok := r.v.s.attendees[a.ID]
	if !ok || !r.v.visible(cur.TenantID) {
		return domain.ErrAttendeeNotFound
	}
	cur.Name, cur.Company, cur.Title, cur.Phone, cur.Bio = a.Name, a.Company, a.Title, a.Phone, a.Bio
	cur.Interests, cur.LinkedIn, cur.LookingFor, cur.Offering = a.Interests, a.LinkedIn, a.LookingFor, a.Offering
	cur.UpdatedAt = r.v.s.now()
	a.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r attendeeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.AttendeeStatus) (*domain.Attendee, error) {
	cur, ok := r.v.s.attendees[id]
	if !ok || !r.v.visible(cur.TenantID) {
		return nil, domain.ErrAttendeeNotFound
	}
	cur.Status = status
	if status == domain.AttendeeCheckedIn {
		now := r.v.s.now()
		cur.CheckedInAt = &now
	}
	cur.UpdatedAt = r.v.s.now()
	cp := *cur
	return &cp, nil
}

func (r attendeeRepo) Stats(_ context.Context, eventID uuid.UUID) (*domain.RegistrationStats, error) {
	stats := &domain.RegistrationStats{}
	byType := map[string]int{}
	for _, a := range r.v.s.attendees {
		if !r.v.visible(a.TenantID) || a.EventID != eventID {
			continue
		}
		stats.Total++
		if a.Status == domain.AttendeeCheckedIn {
			stats.CheckedIn++
		}
		byType[a.TicketType]++
	}
	for t, n := range byType {
		stats.ByType = append(stats.ByType, domain.TicketCount{TicketType: t, Count: n})
	}
	sort.Slice(stats.ByType, func(i, j int) bool { return stats.ByType[i].TicketType < stats.ByType[j].TicketType })
	return stats, nil
}

type sessionRepo struct{ v *view }

func (r sessionRepo) Create(_ context.Context, s *domain.Session) error {
	s.ID = uuid.New()
	s.TenantID = r.v.tenant
	s.CreatedAt = r.v.s.now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	r.v.s.sessions[s.ID] = &cp
	return nil
}

func (r sessionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	s, ok := r.v.s.sessions[id]
	if !ok || !r.v.visible(s.TenantID) {
		return nil, domain.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func sortSessions(out []*domain.Session) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
}

func (r sessionRepo) ListByEvent(_ context.Context, eventID uuid.UUID) ([]*domain.Session, error) {
	var out []*domain.Session
	for _, s := range r.v.s.sessions {
		if r.v.visible(s.TenantID) && s.EventID == eventID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sortSessions(out)
	return out, nil
}

func (r sessionRepo) SpeakersFor(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]*domain.Speaker, error) {
	out := make(map[uuid.UUID][]*domain.Speaker, len(ids))
	for _, id := range ids {
		if sp := r.v.s.speakers[id]; len(sp) > 0 {
			out[id] = sp
		}
	}
	return out, nil
}

func (r sessionRepo) CurrentInRoom(_ context.Context, eventID uuid.UUID, room string, at time.Time) (*domain.Session, error) {
	var found []*domain.Session
	for _, s := range r.v.s.sessions {
		if !r.v.visible(s.TenantID) || s.EventID != eventID || s.Room == nil || *s.Room != room {
			continue
		}
		if !s.StartTime.After(at) && s.EndTime.After(at) {
			cp := *s
			found = append(found, &cp)
		}
	}
	if len(found) == 0 {
		return nil, domain.ErrSessionNotFound
	}
	sortSessions(found)
	return found[0], nil
}

type agendaRepo struct{ v *view }

func (r agendaRepo) Add(_ context.Context, e *domain.AgendaEntry) error {
	for _, cur := range r.v.s.agenda {
		if cur.AttendeeID == e.AttendeeID && cur.SessionID == e.SessionID {
			return domain.ErrAlreadyInAgenda
		}
	}
	e.ID = uuid.New()
	e.CreatedAt = r.v.s.now()
	cp := *e
	r.v.s.agenda = append(r.v.s.agenda, &cp)
	return nil
}

func (r agendaRepo) Remove(_ context.Context, attendeeID, sessionID uuid.UUID) error {
	for i, cur := range r.v.s.agenda {
		if cur.AttendeeID == attendeeID && cur.SessionID == sessionID {
			r.v.s.agenda = append(r.v.s.agenda[:i], r.v.s.agenda[i+1:]...)
			return nil
		}
	}
	return domain.ErrAgendaEntryNotFound
}

func (r agendaRepo) Personal(_ context.Context, attendeeID uuid.UUID) ([]*domain.PersonalSession, error) {
	var out []*domain.PersonalSession
	for _, e := range r.v.s.agenda {
		if e.AttendeeID != attendeeID {
			continue
		}
		s, ok := r.v.s.sessions[e.SessionID]
		if !ok || !r.v.visible(s.TenantID) {
			continue
		}
		cp := *s
		out = append(out, &domain.PersonalSession{Session: &cp, Status: e.Status})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Session.StartTime.Before(out[j].Session.StartTime) })
	return out, nil
}

func (r agendaRepo) LockAttendee(context.Context, uuid.UUID) error {
	r.v.lockWait()
	return nil
}

func (r agendaRepo) SetStatus(_ context.Context, attendeeID, sessionID uuid.UUID, status domain.AgendaStatus) error {
	for _, cur := range r.v.s.agenda {
		if cur.AttendeeID == attendeeID && cur.SessionID == sessionID {
			cur.Status = status
			return nil
		}
	}
	return domain.ErrAgendaEntryNotFound
}

type matchRepo struct{ v *view }

func samePair(m *domain.Match, eventID, a, b uuid.UUID) bool {
	return m.EventID == eventID &&
		((m.Attendee1ID == a && m.Attendee2ID == b) || (m.Attendee1ID == b && m.Attendee2ID == a))
}

func (r matchRepo) Create(_ context.Context, m *domain.Match) error {
	for _, cur := range r.v.s.matches {
		if samePair(cur, m.EventID, m.Attendee1ID, m.Attendee2ID) {
			return ErrDuplicatePair
		}
	}
	m.ID = uuid.New()
	m.TenantID = r.v.tenant
	m.CreatedAt = r.v.s.now()
	m.UpdatedAt = m.CreatedAt
	cp := *m
	r.v.s.matches[m.ID] = &cp
	return nil
}

func (r matchRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Match, error) {
	m, ok := r.v.s.matches[id]
	if !ok || !r.v.visible(m.TenantID) {
		return nil, domain.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (r matchRepo) GetByPair(_ context.Context, eventID, a, b uuid.UUID) (*domain.Match, error) {
	for _, m := range r.v.s.matches {
		if r.v.visible(m.TenantID) && samePair(m, eventID, a, b) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.ErrMatchNotFound
}

func (r matchRepo) LockPair(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) error {
	r.v.lockWait()
	return nil
}

func (r matchRepo) Update(_ context.Context, m *domain.Match) error {
	cur, ok := r.v.s.matches[m.ID]
	if !ok {
		return domain.ErrMatchNotFound
	}
	cur.Status, cur.Attendee1Status, cur.Attendee2Status = m.Status, m.Attendee1Status, m.Attendee2Status
	cur.UpdatedAt = r.v.s.now()
	m.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r matchRepo) ListForAttendee(_ context.Context, eventID, attendeeID uuid.UUID) ([]*domain.Match, error) {
	var out []*domain.Match
	for _, m := range r.v.s.matches {
		if r.v.visible(m.TenantID) && m.EventID == eventID && m.HasAttendee(attendeeID) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r matchRepo) ListByStatus(ctx context.Context, eventID, attendeeID uuid.UUID, statuses ...domain.MatchStatus) ([]*domain.Match, error) {
	all, _ := r.ListForAttendee(ctx, eventID, attendeeID)
	var out []*domain.Match
	for _, m := range all {
		for _, st := range statuses {
			if m.Status == st {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

func (r matchRepo) Stats(ctx context.Context, eventID, attendeeID uuid.UUID) (*domain.NetworkingStats, error) {
	all, _ := r.ListForAttendee(ctx, eventID, attendeeID)
	stats := &domain.NetworkingStats{}
	for _, m := range all {
		switch {
		case m.Status == domain.MatchAccepted:
			stats.TotalMatches++
		case m.Status == domain.MatchMet:
			stats.PeopleMet++
		case m.Status == domain.MatchPending && m.Attendee2ID == attendeeID && m.Attendee1Status == domain.SideLiked:
			stats.PendingLikes++
		}
	}
	return stats, nil
}

func (r matchRepo) SetIcebreakers(_ context.Context, id uuid.UUID, icebreakers []string) error {
	m, ok := r.v.s.matches[id]
	if !ok {
		return domain.ErrMatchNotFound
	}
	m.Icebreakers = icebreakers
	return nil
}

type beaconRepo struct{ v *view }

func (r beaconRepo) ListByEvent(_ context.Context, eventID uuid.UUID) ([]*domain.Beacon, error) {
	var out []*domain.Beacon
	for _, b := range r.v.s.beacons {
		if r.v.visible(b.TenantID) && b.EventID == eventID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		fi, fj := floorOf(out[i]), floorOf(out[j])
		if fi != fj {
			return fi < fj
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func floorOf(b *domain.Beacon) int {
	if b.Floor == nil {
		return 0
	}
	return *b.Floor
}

func (r beaconRepo) ListByFloor(ctx context.Context, eventID uuid.UUID, floor int) ([]*domain.Beacon, error) {
	all, _ := r.ListByEvent(ctx, eventID)
	var out []*domain.Beacon
	for _, b := range all {
		if b.Floor != nil && *b.Floor == floor {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r beaconRepo) Create(_ context.Context, b *domain.Beacon) error {
	b.ID = uuid.New()
	b.TenantID = r.v.tenant
	b.CreatedAt = r.v.s.now()
	cp := *b
	r.v.s.beacons[b.ID] = &cp
	return nil
}

func (r beaconRepo) Update(_ context.Context, b *domain.Beacon) error {
	cur, ok := r.v.s.beacons[b.ID]
	if !ok || cur.EventID != b.EventID || !r.v.visible(cur.TenantID) {
		return domain.ErrBeaconNotFound
	}
	b.TenantID, b.CreatedAt = cur.TenantID, cur.CreatedAt
	cp := *b
	r.v.s.beacons[b.ID] = &cp
	return nil
}

type locationRepo struct{ v *view }

func (r locationRepo) Record(_ context.Context, l *domain.AttendeeLocation) error {
	l.ID = uuid.New()
	l.Timestamp = r.v.s.now()
	cp := *l
	r.v.s.locations = append(r.v.s.locations, &cp)
	return nil
}

func (r locationRepo) RecentByEvent(_ context.Context, eventID uuid.UUID, since time.Time) ([]*domain.AttendeeLocation, error) {
	var out []*domain.AttendeeLocation
	for _, l := range r.v.s.locations {
		if l.BeaconID == nil || !l.Timestamp.After(since) {
			continue
		}
		b, ok := r.v.s.beacons[*l.BeaconID]
		if !ok || b.EventID != eventID || !r.v.visible(b.TenantID) {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

type pointsRepo struct{ v *view }

func (r pointsRepo) Award(_ context.Context, e *domain.PointsEntry) error {
	e.ID = uuid.New()
	e.CreatedAt = r.v.s.now()
	cp := *e
	r.v.s.points = append(r.v.s.points, &cp)
	return nil
}
