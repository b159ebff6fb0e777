package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type userRepoStub struct {
	users       map[string]*domain.User
	memberships map[string]*domain.Membership
}

func (s *userRepoStub) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *userRepoStub) GetMembership(_ context.Context, userID uuid.UUID, slug string) (*domain.Membership, error) {
	m, ok := s.memberships[slug]
	if !ok || m.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return m, nil
}

func newUseCase(t *testing.T) (*AuthUseCase, *domain.User, uuid.UUID) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &domain.User{ID: uuid.New(), Email: "org@example.com", PasswordHash: string(hash)}
	tenant := uuid.New()
	repo := &userRepoStub{
		users:       map[string]*domain.User{user.Email: user},
		memberships: map[string]*domain.Membership{"acme": {TenantID: tenant, UserID: user.ID, Role: domain.RoleOrganizer}},
	}
	return NewAuthUseCase(repo, testSecret, time.Hour, nil), user, tenant
}

func TestLoginAndParseRoundTrip(t *testing.T) {
	uc, user, tenant := newUseCase(t)

	resp, err := uc.Login(context.Background(), " org@example.com ", "s3cret-pass", "acme")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.TenantID != tenant || resp.Role != domain.RoleOrganizer {
		t.Fatalf("resp = %+v", resp)
	}

	claims, err := uc.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != user.ID || claims.TenantID != tenant || !claims.IsOrganizer() {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginFailures(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ctx := context.Background()

	tests := []struct {
		name, email, password, tenant string
		want                          error
	}{
		{"unknown email", "nobody@example.com", "s3cret-pass", "acme", domain.ErrInvalidCredentials},
		{"wrong password", "org@example.com", "nope", "acme", domain.ErrInvalidCredentials},
		{"not a member", "org@example.com", "s3cret-pass", "other", domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Login(ctx, tt.email, tt.password, tt.tenant); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseTokenRejects(t *testing.T) {
	uc, user, tenant := newUseCase(t)

	expired := *uc
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.issue(user.ID, tenant, domain.RoleMember)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewAuthUseCase(nil, "ffffffffffffffffffffffffffffffff", time.Hour, nil)
	forged, _, _ := other.issue(user.ID, tenant, domain.RoleAdmin)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: user.ID, TenantID: tenant}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, token := range map[string]string{
		"expired": old,
		"forged":  forged,
		"none":    none,
		"garbage": "not.a.token",
	} {
		if _, err := uc.ParseToken(token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("%s: err = %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestHashPassword(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v", err)
	}
	hash, err := HashPassword("long-enough")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("long-enough")) != nil {
		t.Fatal("hash does not verify")
	}
}
