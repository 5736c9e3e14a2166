package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Harry9021/kata-sweet-shop/internal/apierror"
	"github.com/Harry9021/kata-sweet-shop/internal/logger"
	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

const (
	kindAccess  = "access"
	kindRefresh = "refresh"
)

// TokenService provides high-level operations for issuing, redeeming,
// and revoking tokens. It composes the TokenManager and RefreshTokenStore.
type TokenService struct {
	manager model.TokenManager
	store   model.RefreshTokenStore
	logger  *logger.Logger
	now     func() time.Time
}

func NewTokenService(manager model.TokenManager, store model.RefreshTokenStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, store: store, logger: logger, now: time.Now}
}

// Issue mints an access and refresh token for the user and records the
// refresh token in the ledger.
func (s *TokenService) Issue(ctx context.Context, user model.User) (model.TokenPair, error) {
	access, err := s.manager.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error("Token service: failed to issue access token",
			"user_id", user.ID,
			"error", err.Error())
		return model.TokenPair{}, apierror.NewErrInternalServerError(err)
	}

	refresh, err := s.manager.IssueRefreshToken(user.ID)
	if err != nil {
		s.logger.Error("Token service: failed to issue refresh token",
			"user_id", user.ID,
			"error", err.Error())
		return model.TokenPair{}, apierror.NewErrInternalServerError(err)
	}

	rt := model.RefreshToken{
		ID:        uuid.New(),
		TokenHash: hashRefresh(refresh),
		UserID:    user.ID,
		ExpiresAt: s.manager.ComputeRefreshExpiry(),
	}

	if err := s.store.Create(ctx, rt); err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.TokenPair{}, apierror.NewErrDuplicateToken()
		}
		s.logger.Error("Token service: failed to persist refresh token",
			"user_id", user.ID,
			"error", err.Error())
		return model.TokenPair{}, apierror.NewErrInternalServerError(err)
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess mints a new access token for the user.
func (s *TokenService) IssueAccess(user model.User) (string, error) {
	access, err := s.manager.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error("Token service: failed to issue access token",
			"user_id", user.ID,
			"error", err.Error())
		return "", apierror.NewErrInternalServerError(err)
	}
	return access, nil
}

// Redeem checks a presented refresh token against the signer and the ledger
// and returns the owning user ID. An entry found past its expiry is removed.
func (s *TokenService) Redeem(ctx context.Context, presented string) (uuid.UUID, error) {
	userID, err := s.manager.VerifyRefreshToken(presented)
	if err != nil {
		return uuid.Nil, tokenError(kindRefresh, err)
	}

	rt, err := s.store.Find(ctx, hashRefresh(presented), userID)
	if errors.Is(err, model.ErrNotFound) {
		return uuid.Nil, apierror.NewErrInvalidToken(kindRefresh)
	}
	if err != nil {
		s.logger.Error("Token service: failed to find refresh token",
			"user_id", userID,
			"error", err.Error())
		return uuid.Nil, apierror.NewErrInternalServerError(err)
	}

	if rt.Expired(s.now()) {
		if err := s.store.DeleteByID(ctx, rt.ID); err != nil {
			s.logger.Warn("Token service: failed to delete expired refresh token",
				"token_id", rt.ID,
				"error", err.Error())
		}
		return uuid.Nil, apierror.NewErrExpiredToken(kindRefresh)
	}

	return userID, nil
}

// Revoke removes the refresh token from the ledger. Unknown tokens are not an error.
func (s *TokenService) Revoke(ctx context.Context, presented string) error {
	if err := s.store.DeleteByToken(ctx, hashRefresh(presented)); err != nil {
		s.logger.Error("Token service: failed to delete refresh token",
			"error", err.Error())
		return apierror.NewErrInternalServerError(err)
	}
	return nil
}

// Authenticate verifies an access token and returns its identity.
func (s *TokenService) Authenticate(token string) (model.Identity, error) {
	identity, err := s.manager.VerifyAccessToken(token)
	if err != nil {
		return model.Identity{}, tokenError(kindAccess, err)
	}
	return identity, nil
}

func tokenError(kind string, err error) error {
	if errors.Is(err, model.ErrTokenExpired) {
		return apierror.NewErrExpiredToken(kind)
	}
	return apierror.NewErrInvalidToken(kind)
}

func hashRefresh(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}
