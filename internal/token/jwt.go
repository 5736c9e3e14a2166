package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/Harry9021/kata-sweet-shop/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// AccessClaims is the payload of an access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID  `json:"user_id"`
	Role      model.Role `json:"role"`
	TokenType string     `json:"typ"`
}

// RefreshClaims is the payload of a refresh token. The ID (jti) is random so
// tokens minted within the same second never collide.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	TokenType string    `json:"typ"`
}

// Option configures JWT.
type Option func(*JWT)

// WithClock replaces the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

// JWT implements TokenManager with HS256 and separate secrets per token kind.
type JWT struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

var _ model.TokenManager = (*JWT)(nil)

// NewJWT creates a new JWT token manager.
func NewJWT(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, opts ...Option) *JWT {
	j := &JWT{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// IssueAccessToken creates a short-lived access token carrying the user's role.
func (j *JWT) IssueAccessToken(userID uuid.UUID, role model.Role) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTTL)),
		},
		UserID:    userID,
		Role:      role,
		TokenType: typeAccess,
	})

	tokenString, err := token.SignedString(j.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// IssueRefreshToken creates a long-lived refresh token.
func (j *JWT) IssueRefreshToken(userID uuid.UUID) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.refreshTTL)),
		},
		UserID:    userID,
		TokenType: typeRefresh,
	})

	tokenString, err := token.SignedString(j.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// VerifyAccessToken validates an access token and returns its identity.
func (j *JWT) VerifyAccessToken(tokenString string) (model.Identity, error) {
	claims := &AccessClaims{}
	if err := j.parse(tokenString, claims, j.accessSecret); err != nil {
		return model.Identity{}, err
	}
	if claims.TokenType != typeAccess || claims.UserID == uuid.Nil {
		return model.Identity{}, fmt.Errorf("%w: unexpected access claims", model.ErrTokenInvalid)
	}

	return model.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// VerifyRefreshToken validates a refresh token and returns the owning user ID.
func (j *JWT) VerifyRefreshToken(tokenString string) (uuid.UUID, error) {
	claims := &RefreshClaims{}
	if err := j.parse(tokenString, claims, j.refreshSecret); err != nil {
		return uuid.Nil, err
	}
	if claims.TokenType != typeRefresh || claims.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: unexpected refresh claims", model.ErrTokenInvalid)
	}

	return claims.UserID, nil
}

// ComputeRefreshExpiry returns the expiry a refresh token issued now would carry.
func (j *JWT) ComputeRefreshExpiry() time.Time {
	return j.now().Add(j.refreshTTL)
}

func (j *JWT) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err == nil {
		return nil
	}
	if errors.Is(err, jwt.ErrTokenExpired) {
		return fmt.Errorf("%w: %w", model.ErrTokenExpired, err)
	}

	return fmt.Errorf("%w: %w", model.ErrTokenInvalid, err)
}
