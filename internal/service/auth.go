package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Harry9021/kata-sweet-shop/internal/apierror"
	"github.com/Harry9021/kata-sweet-shop/internal/logger"
	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// MaxPasswordBytes is the longest input bcrypt hashes.
const MaxPasswordBytes = 72

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Auth registers and logs in users and manages their sessions.
type Auth struct {
	userStore    model.UserStore
	tokenService *TokenService
	logger       *logger.Logger
	cost         int
	dummyHash    []byte
	now          func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	refreshTokenStore model.RefreshTokenStore,
	tokenManager model.TokenManager,
	logger *logger.Logger,
	bcryptCost int,
) (*Auth, error) {
	// Compared against when the email is unknown so both login failures cost the same.
	dummyHash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password hasher: %w", err)
	}

	return &Auth{
		userStore:    userStore,
		tokenService: NewTokenService(tokenManager, refreshTokenStore, logger),
		logger:       logger,
		cost:         bcryptCost,
		dummyHash:    dummyHash,
		now:          time.Now,
	}, nil
}

// Tokens exposes the token service used by the auth gate.
func (a *Auth) Tokens() *TokenService {
	return a.tokenService
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(email, password string, role model.Role) error {
	if !emailPattern.MatchString(email) {
		return apierror.NewErrValidation("Please provide a valid email")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return apierror.NewErrValidation(fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}
	if len(password) > MaxPasswordBytes {
		return apierror.NewErrValidation(fmt.Sprintf("Password must be at most %d bytes long", MaxPasswordBytes))
	}
	if !role.Valid() {
		return apierror.NewErrValidation("Role must be either user or admin")
	}
	return nil
}

// Register creates a user and opens a session for it. An empty role means RoleUser.
func (a *Auth) Register(ctx context.Context, email, password string, role model.Role) (model.AuthResult, error) {
	email = NormalizeEmail(email)
	if role == "" {
		role = model.RoleUser
	}

	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	if err := validateRegistration(email, password, role); err != nil {
		return model.AuthResult{}, err
	}

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return model.AuthResult{}, apierror.NewErrEmailIsTaken(email)
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.AuthResult{}, apierror.NewErrInternalServerError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"email", email,
			"error", err.Error())
		return model.AuthResult{}, apierror.NewErrInternalServerError(err)
	}

	now := a.now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return model.AuthResult{}, apierror.NewErrEmailIsTaken(email)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.AuthResult{}, apierror.NewErrInternalServerError(err)
	}

	tokens, err := a.tokenService.Issue(ctx, user)
	if err != nil {
		return model.AuthResult{}, err
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"email", email,
		"user_id", user.ID,
		"role", user.Role)

	return model.AuthResult{User: user.View(), Tokens: tokens}, nil
}

// Login checks credentials and opens a session. Unknown email and wrong
// password produce the same error.
func (a *Auth) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	email = NormalizeEmail(email)

	a.logger.Debug("Auth service: starting user login",
		"email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(password))
		a.logger.Info("Auth service: login rejected",
			"email", email)
		return model.AuthResult{}, apierror.NewErrInvalidCredentials()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.AuthResult{}, apierror.NewErrInternalServerError(err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		a.logger.Info("Auth service: login rejected",
			"email", email)
		return model.AuthResult{}, apierror.NewErrInvalidCredentials()
	}

	tokens, err := a.tokenService.Issue(ctx, user)
	if err != nil {
		return model.AuthResult{}, err
	}

	a.logger.Info("Auth service: login completed successfully",
		"email", email,
		"user_id", user.ID)

	return model.AuthResult{User: user.View(), Tokens: tokens}, nil
}

// Refresh exchanges a live refresh token for a new access token. The refresh
// token itself is not rotated.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := a.tokenService.Redeem(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	user, err := a.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return "", apierror.NewErrUserNotFound()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by id",
			"user_id", userID,
			"error", err.Error())
		return "", apierror.NewErrInternalServerError(err)
	}

	access, err := a.tokenService.IssueAccess(user)
	if err != nil {
		return "", err
	}

	a.logger.Debug("Auth service: access token refreshed",
		"user_id", userID)

	return access, nil
}

// Logout forgets the refresh token. Logging out twice is not an error.
func (a *Auth) Logout(ctx context.Context, refreshToken string) error {
	return a.tokenService.Revoke(ctx, refreshToken)
}
