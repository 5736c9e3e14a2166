package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager signs and verifies access and refresh tokens.
type TokenManager interface {
	IssueAccessToken(userID uuid.UUID, role Role) (string, error)
	IssueRefreshToken(userID uuid.UUID) (string, error)
	VerifyAccessToken(token string) (Identity, error)
	VerifyRefreshToken(token string) (uuid.UUID, error)
	ComputeRefreshExpiry() time.Time
}

// Identity is the claim set carried by an access token.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	User   UserView  `json:"user"`
	Tokens TokenPair `json:"tokens"`
}
