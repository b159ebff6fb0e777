package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/logging"
	"github.com/gdugdh24/confhub-backend/internal/usecase/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type parserStub map[string]*auth.Claims

func (p parserStub) ParseToken(token string) (*auth.Claims, error) {
	if c, ok := p[token]; ok {
		return c, nil
	}
	return nil, domain.ErrInvalidToken
}

func do(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tenant := uuid.New()
	m := NewAuthMiddleware(parserStub{
		"member":    {UserID: uuid.New(), TenantID: tenant, Role: domain.RoleMember},
		"organizer": {UserID: uuid.New(), TenantID: tenant, Role: domain.RoleOrganizer},
	})

	r := gin.New()
	r.GET("/me", m.RequireAuth(), func(c *gin.Context) {
		id, _ := TenantID(c)
		c.String(http.StatusOK, id.String())
	})
	r.GET("/admin", m.RequireAuth(), m.RequireOrganizer(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"not bearer", "/me", "Basic member", http.StatusUnauthorized},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"member", "/me", "Bearer member", http.StatusOK},
		{"member on organizer route", "/admin", "Bearer member", http.StatusForbidden},
		{"organizer", "/admin", "Bearer organizer", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := map[string]string{}
			if tt.header != "" {
				h["Authorization"] = tt.header
			}
			w := do(r, http.MethodGet, tt.path, h)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
			if tt.want == http.StatusOK && w.Body.String() != tenant.String() {
				t.Fatalf("tenant = %s", w.Body.String())
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/loc", rl.Limit(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	post := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/loc", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := post("10.0.0.1"); code != http.StatusNoContent {
			t.Fatalf("request %d: %d", i, code)
		}
	}
	if code := post("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("over burst: %d", code)
	}
	if code := post("10.0.0.2"); code != http.StatusNoContent {
		t.Fatalf("other ip: %d", code)
	}

	now = now.Add(time.Second)
	if code := post("10.0.0.1"); code != http.StatusNoContent {
		t.Fatalf("after refill: %d", code)
	}

	now = now.Add(visitorTTL + time.Minute)
	post("10.0.0.3")
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.visitors) != 1 {
		t.Fatalf("visitors = %d, want idle ones swept", len(rl.visitors))
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestLogger(base))
	r.GET("/ping", func(c *gin.Context) {
		if logging.FromContext(c.Request.Context()) == nil {
			t.Error("no logger in request context")
		}
		c.Status(http.StatusTeapot)
	})

	w := do(r, http.MethodGet, "/ping", map[string]string{requestIDHeader: "req-1"})
	if w.Header().Get(requestIDHeader) != "req-1" {
		t.Fatalf("request id header = %q", w.Header().Get(requestIDHeader))
	}
	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-1"`) || !strings.Contains(out, `"status":418`) {
		t.Fatalf("log = %s", out)
	}
}
