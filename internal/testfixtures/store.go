package testfixtures

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/repository"
	"github.com/google/uuid"
)

// ErrDuplicatePair mirrors the unique index over an unordered networking pair.
var ErrDuplicatePair = errors.New("duplicate networking pair")

// Store is an in-memory repository.TxManager for use case tests. Each
// WithTenant call holds the store lock for its whole duration, so
// transactions are serialized, and reads only see rows of the active tenant.
// Writes are not rolled back when fn fails.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	events    map[uuid.UUID]*domain.Event
	attendees map[uuid.UUID]*domain.Attendee
	sessions  map[uuid.UUID]*domain.Session
	speakers  map[uuid.UUID][]*domain.Speaker
	agenda    []*domain.AgendaEntry
	matches   map[uuid.UUID]*domain.Match
	beacons   map[uuid.UUID]*domain.Beacon
	locations []*domain.AttendeeLocation
	points    []*domain.PointsEntry

	// Analytics is returned as is by Store.Analytics.
	Analytics repository.AnalyticsRepository

	// Calls counts WithTenant invocations.
	Calls int

	// OnLockWait, when set, runs once inside the next LockPair, LockAttendee
	// or GetByIDForUpdate call. It stands in for a competing transaction
	// that commits while the caller waits for that lock.
	OnLockWait func(repository.Store)
}

var _ repository.TxManager = (*Store)(nil)

func NewStore(clock *Clock) *Store {
	return &Store{
		now:       clock.NowFunc(),
		events:    make(map[uuid.UUID]*domain.Event),
		attendees: make(map[uuid.UUID]*domain.Attendee),
		sessions:  make(map[uuid.UUID]*domain.Session),
		speakers:  make(map[uuid.UUID][]*domain.Speaker),
		matches:   make(map[uuid.UUID]*domain.Match),
		beacons:   make(map[uuid.UUID]*domain.Beacon),
	}
}

func (s *Store) WithTenant(ctx context.Context, tenantID uuid.UUID, fn func(repository.Store) error) error {
	if tenantID == uuid.Nil {
		return domain.ErrTenantRequired
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	return fn(&view{s: s, tenant: tenantID})
}

// ----------------------------- seeding -----------------------------

func (s *Store) AddEvent(e domain.Event) *domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	s.events[e.ID] = &e
	cp := e
	return &cp
}

func (s *Store) AddAttendee(a domain.Attendee) *domain.Attendee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = domain.AttendeeRegistered
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	if a.QRCode == "" {
		a.QRCode = "EVT-" + strings.ToUpper(a.ID.String()[:8])
	}
	s.attendees[a.ID] = &a
	cp := a
	return &cp
}

func (s *Store) AddSession(sess domain.Session, speakers ...*domain.Speaker) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.ID == uuid.Nil {
		sess.ID = uuid.New()
	}
	if sess.Type == "" {
		sess.Type = domain.SessionTalk
	}
	s.sessions[sess.ID] = &sess
	s.speakers[sess.ID] = append(s.speakers[sess.ID], speakers...)
	cp := sess
	return &cp
}

func (s *Store) AddAgendaEntry(e domain.AgendaEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = domain.AgendaConfirmed
	}
	s.agenda = append(s.agenda, &e)
}

func (s *Store) AddMatch(m domain.Match) *domain.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.matches[m.ID] = &m
	cp := m
	return &cp
}

func (s *Store) AddBeacon(b domain.Beacon) *domain.Beacon {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	s.beacons[b.ID] = &b
	cp := b
	return &cp
}

func (s *Store) AddLocation(l domain.AttendeeLocation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	s.locations = append(s.locations, &l)
}

// ----------------------------- inspection -----------------------------

func (s *Store) Matches() []domain.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Match, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) Points() []domain.PointsEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.PointsEntry, 0, len(s.points))
	for _, p := range s.points {
		out = append(out, *p)
	}
	return out
}

func (s *Store) Attendee(id uuid.UUID) (domain.Attendee, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attendees[id]
	if !ok {
		return domain.Attendee{}, false
	}
	return *a, true
}

func (s *Store) AgendaEntries(attendeeID uuid.UUID) []domain.AgendaEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.AgendaEntry
	for _, e := range s.agenda {
		if e.AttendeeID == attendeeID {
			out = append(out, *e)
		}
	}
	return out
}

func (s *Store) Locations() []domain.AttendeeLocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AttendeeLocation, 0, len(s.locations))
	for _, l := range s.locations {
		out = append(out, *l)
	}
	return out
}

// view is the repository.Store handed to WithTenant callbacks. The store
// lock is already held.
type view struct {
	s      *Store
	tenant uuid.UUID
}

func (v *view) Events() repository.EventRepository       { return eventRepo{v} }
func (v *view) Attendees() repository.AttendeeRepository { return attendeeRepo{v} }
func (v *view) Sessions() repository.SessionRepository   { return sessionRepo{v} }
func (v *view) Agenda() repository.AgendaRepository      { return agendaRepo{v} }
func (v *view) Matches() repository.MatchRepository      { return matchRepo{v} }
func (v *view) Beacons() repository.BeaconRepository     { return beaconRepo{v} }
func (v *view) Locations() repository.LocationRepository { return locationRepo{v} }
func (v *view) Points() repository.PointsRepository      { return pointsRepo{v} }
func (v *view) Analytics() repository.AnalyticsRepository {
	return v.s.Analytics
}

func (v *view) lockWait() {
	if fn := v.s.OnLockWait; fn != nil {
		v.s.OnLockWait = nil
		fn(v)
	}
}

// visible applies the row-level security rule; rows seeded without a tenant
// are visible to every tenant.
func (v *view) visible(tenantID uuid.UUID) bool {
	return tenantID == uuid.Nil || tenantID == v.tenant
}
