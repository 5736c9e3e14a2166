package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpctx "github.com/Harry9021/kata-sweet-shop/internal/api/http/context"
	"github.com/Harry9021/kata-sweet-shop/internal/model"
	"github.com/Harry9021/kata-sweet-shop/internal/service"
	"github.com/Harry9021/kata-sweet-shop/internal/testutil"
	"github.com/Harry9021/kata-sweet-shop/internal/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type healthStub struct{}

func (healthStub) Healthy() bool { return true }

type denyAll struct{}

func (denyAll) Allow(context.Context, string) bool { return false }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newEngine(t *testing.T, opts ...Option) *gin.Engine {
	t.Helper()
	lg := testutil.MakeNoopLogger()
	users := testutil.NewMemoryUserStore()
	ledger := testutil.NewMemoryRefreshTokenStore()
	shop := testutil.NewMemoryShop(users)
	signer := token.NewJWT("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	auth, err := service.NewAuth(users, ledger, signer, lg, bcrypt.MinCost)
	require.NoError(t, err)

	r := New(
		auth,
		service.NewSweet(shop, nil, lg),
		service.NewOrder(shop, lg),
		auth.Tokens(),
		healthStub{},
		httpctx.NewManager(),
		lg,
		opts...,
	)
	return r.Register()
}

func call(t *testing.T, r http.Handler, method, path, accessToken string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func register(t *testing.T, r http.Handler, email, role string) model.AuthResult {
	t.Helper()
	code, env := call(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "secret1",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var result model.AuthResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	return result
}

func TestRouter_ShopFlow(t *testing.T) {
	r := newEngine(t)

	admin := register(t, r, "admin@shop.io", "admin")
	customer := register(t, r, "customer@shop.io", "")
	assert.Equal(t, model.RoleUser, customer.User.Role)

	newSweet := map[string]any{"name": "Truffle", "category": "Chocolate", "price": 1.5, "quantity": 4}

	code, env := call(t, r, http.MethodPost, "/api/sweets", "", newSweet)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Access token is required", env.Message)

	code, env = call(t, r, http.MethodPost, "/api/sweets", customer.Tokens.AccessToken, newSweet)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Access denied. Admin privileges required", env.Message)

	code, env = call(t, r, http.MethodPost, "/api/sweets", admin.Tokens.AccessToken, newSweet)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var sweet model.Sweet
	require.NoError(t, json.Unmarshal(env.Data, &sweet))

	code, _ = call(t, r, http.MethodGet, "/api/sweets", customer.Tokens.AccessToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = call(t, r, http.MethodPost, "/api/sweets/"+sweet.ID.String()+"/purchase", customer.Tokens.AccessToken, map[string]int{"quantity": 3})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = call(t, r, http.MethodPost, "/api/sweets/"+sweet.ID.String()+"/purchase", customer.Tokens.AccessToken, map[string]int{"quantity": 3})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Insufficient quantity. Only 1 available", env.Message)

	code, _ = call(t, r, http.MethodPost, "/api/sweets/"+sweet.ID.String()+"/restock", customer.Tokens.AccessToken, map[string]int{"quantity": 3})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = call(t, r, http.MethodGet, "/api/orders/my-orders", customer.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	var mine []model.Order
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, 4.5, mine[0].TotalAmount)

	code, _ = call(t, r, http.MethodGet, "/api/orders/sales", customer.Tokens.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = call(t, r, http.MethodGet, "/api/orders/sales", admin.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	var report model.SalesReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 1, report.TotalOrders)
	assert.Equal(t, "customer@shop.io", report.Orders[0].UserEmail)
}

func TestRouter_SessionFlow(t *testing.T) {
	r := newEngine(t)

	reg := register(t, r, "a@x.io", "")

	code, env := call(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "a@x.io", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User with this email already exists", env.Message)

	code, env = call(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.io", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, code)
	wrongPassword := env.Message

	code, env = call(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "nobody@x.io", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, wrongPassword, env.Message)

	code, env = call(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.io", "password": "secret1"})
	require.Equal(t, http.StatusOK, code)
	var login model.AuthResult
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, reg.User.ID, login.User.ID)

	code, env = call(t, r, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": login.Tokens.RefreshToken})
	require.Equal(t, http.StatusOK, code)
	var refreshed struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &refreshed))

	code, _ = call(t, r, http.MethodGet, "/api/orders/my-orders", refreshed.AccessToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = call(t, r, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": login.Tokens.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid refresh token", env.Message)

	code, _ = call(t, r, http.MethodPost, "/api/auth/logout", "", map[string]string{"refreshToken": login.Tokens.RefreshToken})
	assert.Equal(t, http.StatusOK, code)

	code, env = call(t, r, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": login.Tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid refresh token", env.Message)

	code, _ = call(t, r, http.MethodPost, "/api/auth/logout", "", map[string]string{"refreshToken": login.Tokens.RefreshToken})
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_Health(t *testing.T) {
	r := newEngine(t)

	code, env := call(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, "Server is running", env.Message)
}

func TestRouter_NotFound(t *testing.T) {
	r := newEngine(t)

	code, env := call(t, r, http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Route not found: /api/unknown", env.Message)
}

func TestRouter_ImagesDisabled(t *testing.T) {
	r := newEngine(t)
	admin := register(t, r, "admin@shop.io", "admin")

	code, _ := call(t, r, http.MethodGet, "/api/sweets/"+admin.User.ID.String()+"/image", admin.Tokens.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_RateLimit(t *testing.T) {
	r := newEngine(t, WithRateLimiter(denyAll{}))

	code, env := call(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.io", "password": "secret1"})
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, "Too many requests, please try again later", env.Message)

	code, _ = call(t, r, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newEngine(t, WithCORSOrigins([]string{"http://shop.local"}))

	req := httptest.NewRequest(http.MethodOptions, "/api/sweets", nil)
	req.Header.Set("Origin", "http://shop.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://shop.local", w.Header().Get("Access-Control-Allow-Origin"))
}
