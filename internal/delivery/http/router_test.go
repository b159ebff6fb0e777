package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/confhub-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/infrastructure/events"
	"github.com/gdugdh24/confhub-backend/internal/testfixtures"
	"github.com/gdugdh24/confhub-backend/internal/usecase/agenda"
	"github.com/gdugdh24/confhub-backend/internal/usecase/analytics"
	"github.com/gdugdh24/confhub-backend/internal/usecase/auth"
	"github.com/gdugdh24/confhub-backend/internal/usecase/navigation"
	"github.com/gdugdh24/confhub-backend/internal/usecase/networking"
	"github.com/gdugdh24/confhub-backend/internal/usecase/registration"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

type userRepoStub struct {
	users       map[string]*domain.User
	memberships map[uuid.UUID]*domain.Membership
}

func (s *userRepoStub) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *userRepoStub) GetMembership(_ context.Context, userID uuid.UUID, slug string) (*domain.Membership, error) {
	m, ok := s.memberships[userID]
	if !ok || slug != "acme" {
		return nil, domain.ErrForbidden
	}
	return m, nil
}

type apiFixture struct {
	t      *testing.T
	engine *gin.Engine
	store  *testfixtures.Store
	tenant uuid.UUID
	event  uuid.UUID

	organizerToken string
	memberToken    string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	clock := testfixtures.NewClock(time.Time{})
	store := testfixtures.NewStore(clock)
	tenant := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := &userRepoStub{users: map[string]*domain.User{}, memberships: map[uuid.UUID]*domain.Membership{}}
	for email, role := range map[string]string{"org@example.com": domain.RoleOrganizer, "ana@example.com": domain.RoleMember} {
		u := &domain.User{ID: uuid.New(), Email: email, PasswordHash: string(hash)}
		users.users[email] = u
		users.memberships[u.ID] = &domain.Membership{TenantID: tenant, UserID: u.ID, Role: role}
	}

	authUseCase := auth.NewAuthUseCase(users, testSecret, time.Hour, nil)
	publisher := &events.NoopPublisher{}
	router := NewRouter(
		Handlers{
			Auth:         handler.NewAuthHandler(authUseCase),
			Registration: handler.NewRegistrationHandler(registration.NewRegistrationUseCase(store, publisher, nil)),
			Agenda:       handler.NewAgendaHandler(agenda.NewAgendaUseCase(store, publisher, nil)),
			Networking:   handler.NewNetworkingHandler(networking.NewNetworkingUseCase(store, publisher, nil, nil)),
			Navigation:   handler.NewNavigationHandler(navigation.NewNavigationUseCase(store, clock.NowFunc(), nil)),
			Analytics:    handler.NewAnalyticsHandler(analytics.NewAnalyticsUseCase(store, nil, 0, nil)),
		},
		middleware.NewAuthMiddleware(authUseCase),
		middleware.NewRateLimiter(1, 1),
		nil,
	)

	f := &apiFixture{t: t, engine: router.Setup(), store: store, tenant: tenant}
	f.event = store.AddEvent(domain.Event{TenantID: tenant, Name: "Legal Tech Summit", Timezone: "UTC"}).ID
	f.organizerToken = f.login("org@example.com")
	f.memberToken = f.login("ana@example.com")
	return f
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func (f *apiFixture) do(method, path, token string, body any) (int, envelope) {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			f.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			f.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, env
}

func (f *apiFixture) login(email string) string {
	f.t.Helper()
	code, env := f.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "s3cret-pass", "tenant": "acme",
	})
	if code != http.StatusOK {
		f.t.Fatalf("login %s: status %d (%s)", email, code, env.Error)
	}
	var resp auth.AuthResponse
	decode(f.t, env, &resp)
	return resp.Token
}

func decode(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func (f *apiFixture) attendee(name string, interests ...string) uuid.UUID {
	return f.store.AddAttendee(domain.Attendee{
		TenantID:  f.tenant,
		EventID:   f.event,
		Name:      name,
		Email:     strings.ToLower(name) + "@example.com",
		Interests: interests,
		Status:    domain.AttendeeRegistered,
	}).ID
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)
	for _, method := range []string{http.MethodGet, http.MethodHead} {
		w := httptest.NewRecorder()
		f.engine.ServeHTTP(w, httptest.NewRequest(method, "/health", nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s /health = %d", method, w.Code)
		}
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	f := newAPIFixture(t)
	code, env := f.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "org@example.com", "password": "wrong-password", "tenant": "acme",
	})
	if code != http.StatusUnauthorized || env.Success {
		t.Fatalf("status = %d success = %v, want 401", code, env.Success)
	}
}

func TestAccessControl(t *testing.T) {
	f := newAPIFixture(t)
	agendaPath := "/events/" + f.event.String() + "/agenda"

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, agendaPath, "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, agendaPath, "not-a-jwt", http.StatusUnauthorized},
		{"member reads agenda", http.MethodGet, agendaPath, f.memberToken, http.StatusOK},
		{"member reads analytics", http.MethodGet, "/events/" + f.event.String() + "/analytics", f.memberToken, http.StatusForbidden},
		{"member reads heatmap", http.MethodGet, "/events/" + f.event.String() + "/heatmap", f.memberToken, http.StatusForbidden},
		{"organizer reads heatmap", http.MethodGet, "/events/" + f.event.String() + "/heatmap", f.organizerToken, http.StatusOK},
		{"malformed event id", http.MethodGet, "/events/nope/agenda", f.memberToken, http.StatusBadRequest},
		{"unknown attendee", http.MethodGet, "/attendees/" + uuid.NewString(), f.memberToken, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, env := f.do(tt.method, tt.path, tt.token, nil); code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", code, tt.want, env.Error)
			}
		})
	}
}

func TestRegisterFlow(t *testing.T) {
	f := newAPIFixture(t)
	path := "/events/" + f.event.String() + "/attendees"
	body := map[string]any{"email": "Luis@Example.com", "name": "Luis Pérez", "interests": []string{"IA"}}

	code, env := f.do(http.MethodPost, path, f.memberToken, body)
	if code != http.StatusCreated {
		t.Fatalf("register status = %d (%s)", code, env.Error)
	}
	var attendee domain.Attendee
	decode(t, env, &attendee)
	if !strings.HasPrefix(attendee.QRCode, "EVT-") || attendee.Email != "luis@example.com" {
		t.Fatalf("attendee = %+v", attendee)
	}

	if code, _ := f.do(http.MethodPost, path, f.memberToken, body); code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", code)
	}

	code, env = f.do(http.MethodPost, path, f.memberToken, map[string]any{"email": "bad", "name": "L"})
	if code != http.StatusBadRequest || env.Fields["email"] == "" || env.Fields["name"] == "" {
		t.Fatalf("invalid body: status = %d fields = %v", code, env.Fields)
	}

	// check-in is organizer only
	checkIn := "/attendees/" + attendee.ID.String() + "/check-in"
	if code, _ := f.do(http.MethodPost, checkIn, f.memberToken, nil); code != http.StatusForbidden {
		t.Fatalf("member check-in status = %d, want 403", code)
	}
	if code, env := f.do(http.MethodPost, checkIn, f.organizerToken, nil); code != http.StatusOK {
		t.Fatalf("check-in status = %d (%s)", code, env.Error)
	}

	code, env = f.do(http.MethodGet, "/qr/"+strings.ToLower(attendee.QRCode), f.organizerToken, nil)
	if code != http.StatusOK {
		t.Fatalf("qr lookup status = %d (%s)", code, env.Error)
	}
	var found domain.Attendee
	decode(t, env, &found)
	if found.ID != attendee.ID || found.Status != domain.AttendeeCheckedIn {
		t.Fatalf("qr lookup = %+v", found)
	}
}

func TestBadgeIsPNG(t *testing.T) {
	f := newAPIFixture(t)
	id := f.store.AddAttendee(domain.Attendee{TenantID: f.tenant, EventID: f.event, Name: "Ana", Email: "a@example.com", QRCode: "EVT-ABCD1234"}).ID

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendees/"+id.String()+"/badge", nil)
	req.Header.Set("Authorization", "Bearer "+f.memberToken)
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("status = %d content-type = %q", w.Code, w.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Fatal("body is not a PNG")
	}
}

func TestAgendaConflictReturns409(t *testing.T) {
	f := newAPIFixture(t)
	ref := testfixtures.ReferenceTime()
	keynote := f.store.AddSession(domain.Session{TenantID: f.tenant, EventID: f.event, Title: "Keynote", StartTime: ref.Add(time.Hour), EndTime: ref.Add(2 * time.Hour)})
	clash := f.store.AddSession(domain.Session{TenantID: f.tenant, EventID: f.event, Title: "Taller", StartTime: ref.Add(90 * time.Minute), EndTime: ref.Add(150 * time.Minute)})
	ana := f.attendee("Ana", "IA")
	path := "/attendees/" + ana.String() + "/agenda"

	if code, env := f.do(http.MethodPost, path, f.memberToken, map[string]any{"session_id": keynote.ID}); code != http.StatusCreated {
		t.Fatalf("add keynote status = %d (%s)", code, env.Error)
	}
	code, env := f.do(http.MethodPost, path, f.memberToken, map[string]any{"session_id": clash.ID})
	if code != http.StatusConflict || !strings.Contains(env.Error, "Keynote") {
		t.Fatalf("clash status = %d error = %q", code, env.Error)
	}

	code, env = f.do(http.MethodGet, path, f.memberToken, nil)
	if code != http.StatusOK {
		t.Fatalf("personal agenda status = %d", code)
	}
	var personal []domain.PersonalSession
	decode(t, env, &personal)
	if len(personal) != 1 {
		t.Fatalf("personal agenda has %d sessions, want 1", len(personal))
	}
}

func TestMutualLikeOverHTTP(t *testing.T) {
	f := newAPIFixture(t)
	ana := f.attendee("Ana", "IA")
	luis := f.attendee("Luis", "IA")
	base := "/events/" + f.event.String() + "/networking/"

	code, env := f.do(http.MethodPost, base+ana.String()+"/like", f.memberToken, map[string]any{"target_id": luis})
	if code != http.StatusOK {
		t.Fatalf("first like status = %d (%s)", code, env.Error)
	}
	var first networking.ActionResult
	decode(t, env, &first)
	if first.IsMutual {
		t.Fatal("first like reported as mutual")
	}

	code, env = f.do(http.MethodPost, base+luis.String()+"/like", f.memberToken, map[string]any{"target_id": ana})
	if code != http.StatusOK {
		t.Fatalf("second like status = %d (%s)", code, env.Error)
	}
	var second networking.ActionResult
	decode(t, env, &second)
	if !second.IsMutual || second.Match.Status != domain.MatchAccepted {
		t.Fatalf("second like = %+v", second)
	}

	met := "/attendees/" + ana.String() + "/matches/" + second.Match.ID.String() + "/met"
	if code, env := f.do(http.MethodPost, met, f.memberToken, nil); code != http.StatusOK {
		t.Fatalf("mark met status = %d (%s)", code, env.Error)
	}

	if code, _ := f.do(http.MethodPost, base+ana.String()+"/like", f.memberToken, map[string]any{}); code != http.StatusBadRequest {
		t.Fatalf("missing target status = %d, want 400", code)
	}
}

func TestRouteAcrossFloors(t *testing.T) {
	f := newAPIFixture(t)
	x, y, floor := 40.0, 30.0, 0
	f.store.AddBeacon(domain.Beacon{TenantID: f.tenant, EventID: f.event, Name: "Escalera Norte", UUID: "b1", X: &x, Y: &y, Floor: &floor})

	code, env := f.do(http.MethodPost, "/events/"+f.event.String()+"/route", f.memberToken, map[string]any{
		"from": domain.Point{X: 0, Y: 0, Floor: 0},
		"to":   domain.Point{X: 100, Y: 50, Floor: 1},
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d (%s)", code, env.Error)
	}
	var route navigation.Route
	decode(t, env, &route)
	if len(route.Path) != 4 {
		t.Fatalf("path has %d waypoints, want 4", len(route.Path))
	}
}

func TestLocationUpdatesAreRateLimited(t *testing.T) {
	f := newAPIFixture(t)
	ana := f.attendee("Ana")
	path := "/attendees/" + ana.String() + "/location"
	body := map[string]any{"x": 1, "y": 2, "floor": 0}

	if code, env := f.do(http.MethodPost, path, f.memberToken, body); code != http.StatusOK {
		t.Fatalf("first update status = %d (%s)", code, env.Error)
	}
	if code, _ := f.do(http.MethodPost, path, f.memberToken, body); code != http.StatusTooManyRequests {
		t.Fatalf("second update status = %d, want 429", code)
	}
}
