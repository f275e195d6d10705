package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/callcove/backoffice/internal/agents"
	"github.com/callcove/backoffice/internal/api/http/dto"
	"github.com/callcove/backoffice/internal/api/http/middleware"
	"github.com/callcove/backoffice/internal/auth"
	"github.com/callcove/backoffice/internal/revocation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDirectory struct {
	byID    map[int64]agents.Agent
	byEmail map[string]string // email -> bcrypt hash
}

func (d *fakeDirectory) GetByID(ctx context.Context, id int64) (agents.Agent, error) {
	agent, ok := d.byID[id]
	if !ok {
		return agents.Agent{}, agents.ErrAgentNotFound
	}
	return agent, nil
}

func (d *fakeDirectory) GetByEmail(ctx context.Context, email string) (agents.Agent, string, error) {
	for _, agent := range d.byID {
		if agent.Email == email {
			return agent, d.byEmail[email], nil
		}
	}
	return agents.Agent{}, "", agents.ErrAgentNotFound
}

// setupAuthRouter builds the gate pipeline around stand-in handlers so
// the auth flow is testable without a database: one open login/logout
// pair, one authenticated read, one admin-only delete.
func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()

	hash, err := agents.HashPassword("pw12345678")
	require.NoError(t, err)
	adminHash, err := agents.HashPassword("adminpw12345")
	require.NoError(t, err)

	dir := &fakeDirectory{
		byID: map[int64]agents.Agent{
			1: {ID: 1, Number: "101", FullName: "Ava Martin", Email: "a@x.com", Role: agents.RoleAgent, CreatedAt: time.Now()},
			2: {ID: 2, Number: "100", FullName: "Root Admin", Email: "admin@x.com", Role: agents.RoleAdmin, CreatedAt: time.Now()},
		},
		byEmail: map[string]string{
			"a@x.com":     hash,
			"admin@x.com": adminHash,
		},
	}

	tokenConfig := auth.TokenConfig{Secret: "test-secret", TTL: 100 * time.Minute}
	authService := auth.NewService(tokenConfig, revocation.NewMemoryRegistry(), dir)
	authHandler := NewAuthHandler(authService)

	r := gin.New()
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/logout", authHandler.Logout)

	authed := r.Group("", middleware.Authenticate(authService))
	authed.GET("/auth/me", authHandler.Me)

	admin := authed.Group("", middleware.RequireAdmin())
	admin.DELETE("/call-sessions/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return r
}

func doJSON(router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		buf = bytes.NewReader(b)
	} else {
		buf = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func login(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()
	rr := doJSON(router, "POST", "/auth/login", dto.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, "bearer", resp.TokenType)
	return resp.AccessToken
}

func TestLoginEndpoint(t *testing.T) {
	router := setupAuthRouter(t)

	t.Run("success", func(t *testing.T) {
		login(t, router, "a@x.com", "pw12345678")
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := doJSON(router, "POST", "/auth/login", dto.LoginRequest{Email: "a@x.com", Password: "nope"}, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown email indistinguishable", func(t *testing.T) {
		wrong := doJSON(router, "POST", "/auth/login", dto.LoginRequest{Email: "a@x.com", Password: "nope"}, "")
		unknown := doJSON(router, "POST", "/auth/login", dto.LoginRequest{Email: "ghost@x.com", Password: "nope"}, "")
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := doJSON(router, "POST", "/auth/login", map[string]string{"email": "not-an-email"}, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthenticatedRoutes(t *testing.T) {
	router := setupAuthRouter(t)
	token := login(t, router, "a@x.com", "pw12345678")

	t.Run("me", func(t *testing.T) {
		rr := doJSON(router, "GET", "/auth/me", nil, token)
		assert.Equal(t, http.StatusOK, rr.Code)

		var resp dto.AgentResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, "a@x.com", resp.Email)
		assert.Equal(t, "agent", resp.Role)
	})

	t.Run("missing header", func(t *testing.T) {
		rr := doJSON(router, "GET", "/auth/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/auth/me", nil)
		req.Header.Set("Authorization", "Token abc")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		rr := doJSON(router, "GET", "/auth/me", nil, "garbage")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRoleEnforcement(t *testing.T) {
	router := setupAuthRouter(t)

	t.Run("agent gets forbidden", func(t *testing.T) {
		token := login(t, router, "a@x.com", "pw12345678")
		rr := doJSON(router, "DELETE", "/call-sessions/1", nil, token)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admin succeeds", func(t *testing.T) {
		token := login(t, router, "admin@x.com", "adminpw12345")
		rr := doJSON(router, "DELETE", "/call-sessions/1", nil, token)
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("unauthenticated gets 401 never 403", func(t *testing.T) {
		rr := doJSON(router, "DELETE", "/call-sessions/1", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestLogoutFlow(t *testing.T) {
	router := setupAuthRouter(t)
	token := login(t, router, "a@x.com", "pw12345678")

	// Full lifecycle: read works, logout, same token is rejected as
	// revoked even though it has not expired.
	rr := doJSON(router, "GET", "/auth/me", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(router, "POST", "/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp dto.LogoutResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Message)

	rr = doJSON(router, "GET", "/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	t.Run("second logout still succeeds", func(t *testing.T) {
		rr := doJSON(router, "POST", "/auth/logout", nil, token)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("logout without header is 401", func(t *testing.T) {
		rr := doJSON(router, "POST", "/auth/logout", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
