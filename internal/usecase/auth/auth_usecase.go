package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gdugdh24/confhub-backend/internal/domain"
	"github.com/gdugdh24/confhub-backend/internal/logging"
	"github.com/gdugdh24/confhub-backend/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "confhub"

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Role     string    `json:"role"`
	jwt.RegisteredClaims
}

// IsOrganizer reports whether the role may manage events.
func (c *Claims) IsOrganizer() bool {
	return c.Role == domain.RoleAdmin || c.Role == domain.RoleOrganizer
}

type AuthUseCase struct {
	users     repository.UserRepository
	jwtSecret []byte
	expiry    time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

func NewAuthUseCase(users repository.UserRepository, jwtSecret string, expiry time.Duration, logger *slog.Logger) *AuthUseCase {
	return &AuthUseCase{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		expiry:    expiry,
		now:       time.Now,
		logger:    logger,
	}
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    uuid.UUID `json:"user_id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Role      string    `json:"role"`
}

// Login checks the password and the user's membership in the tenant and
// issues a token scoped to that tenant. Unknown emails and wrong passwords
// are indistinguishable to the caller.
func (uc *AuthUseCase) Login(ctx context.Context, email, password, tenantSlug string) (*AuthResponse, error) {
	logger := logging.Component(ctx, uc.logger, "auth", "login", "tenant", tenantSlug)

	user, err := uc.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		logger.Info("login rejected", "reason", "unknown email")
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Info("login rejected", "reason", "bad password", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	membership, err := uc.users.GetMembership(ctx, user.ID, tenantSlug)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := uc.issue(user.ID, membership.TenantID, membership.Role)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	logger.Info("login succeeded", "user_id", user.ID, "role", membership.Role)
	return &AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
		TenantID:  membership.TenantID,
		Role:      membership.Role,
	}, nil
}

func (uc *AuthUseCase) issue(userID, tenantID uuid.UUID, role string) (string, time.Time, error) {
	now := uc.now()
	expiresAt := now.Add(uc.expiry)
	claims := &Claims{
		UserID:   userID,
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken verifies signature, issuer and expiry and returns the claims.
func (uc *AuthUseCase) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return uc.jwtSecret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(uc.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.UserID == uuid.Nil || claims.TenantID == uuid.Nil {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// HashPassword returns the bcrypt hash stored for a user.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", fmt.Errorf("%w: password must have at least 8 characters", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
