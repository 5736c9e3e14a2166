package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Harry9021/kata-sweet-shop/internal/api/http/response"
	"github.com/Harry9021/kata-sweet-shop/internal/logger"
	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

// AuthService defines registration, login and session operations.
type AuthService interface {
	Register(ctx context.Context, email, password string, role model.Role) (model.AuthResult, error)
	Login(ctx context.Context, email, password string) (model.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
}

type registerRequest struct {
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,min=6,max=72"`
	Role     model.Role `json:"role" binding:"omitempty,oneof=user admin"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

var (
	registerMessages = fieldMessages{
		"email":        "Please provide a valid email",
		"password":     "Password must be at least 6 characters long",
		"password.max": "Password must be at most 72 bytes long",
		"role":         "Role must be either user or admin",
	}
	loginMessages = fieldMessages{
		"email":    "Please provide a valid email",
		"password": "Password is required",
	}
	refreshTokenMessages = fieldMessages{
		"refreshToken": "Refresh token is required",
	}
)

// Auth handles the /api/auth endpoints.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	useJSONNames()
	return &Auth{authService: authService, logger: logger}
}

// Register creates an account and returns the user with a token pair.
func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if err := bindJSON(c, &req, registerMessages); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	h.logger.Debug("Auth handler: processing registration request",
		"email", req.Email)

	result, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusCreated, "User registered successfully", result)
}

// Login checks credentials and returns the user with a token pair.
func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := bindJSON(c, &req, loginMessages); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	h.logger.Debug("Auth handler: processing login request",
		"email", req.Email)

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", result)
}

// Refresh exchanges a refresh token for a new access token.
func (h *Auth) Refresh(c *gin.Context) {
	var req refreshTokenRequest
	if err := bindJSON(c, &req, refreshTokenMessages); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	access, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, "Token refreshed successfully", refreshResponse{AccessToken: access})
}

// Logout revokes a refresh token.
func (h *Auth) Logout(c *gin.Context) {
	var req refreshTokenRequest
	if err := bindJSON(c, &req, refreshTokenMessages); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		response.Error(c, h.logger, err)
		return
	}

	response.Success(c, http.StatusOK, "Logout successful", nil)
}
