package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/callcove/backoffice/internal/agents"
	"github.com/callcove/backoffice/internal/auth"
	"github.com/callcove/backoffice/internal/revocation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type singleAgentDirectory struct {
	agent agents.Agent
}

func (d *singleAgentDirectory) GetByID(ctx context.Context, id int64) (agents.Agent, error) {
	if id != d.agent.ID {
		return agents.Agent{}, agents.ErrAgentNotFound
	}
	return d.agent, nil
}

func (d *singleAgentDirectory) GetByEmail(ctx context.Context, email string) (agents.Agent, string, error) {
	return agents.Agent{}, "", agents.ErrAgentNotFound
}

func TestRequireAdminFailsClosedWithoutAuthenticate(t *testing.T) {
	// A route that mistakenly skips Authenticate must reject, not grant.
	r := gin.New()
	r.GET("/oops", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/oops", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthenticateDistinguishesRevokedTokens(t *testing.T) {
	tokenConfig := auth.TokenConfig{Secret: "test-secret", TTL: time.Hour}
	registry := revocation.NewMemoryRegistry()
	dir := &singleAgentDirectory{
		agent: agents.Agent{ID: 1, Email: "a@x.com", Role: agents.RoleAgent},
	}
	svc := auth.NewService(tokenConfig, registry, dir)

	r := gin.New()
	r.GET("/ping", Authenticate(svc), func(c *gin.Context) {
		agent, ok := CurrentAgent(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": agent.ID})
	})

	token, err := auth.IssueToken(tokenConfig, 1)
	require.NoError(t, err)

	get := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	require.Equal(t, http.StatusOK, get().Code)

	require.NoError(t, registry.Revoke(context.Background(), token, time.Hour))

	rr := get()
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	// Clients key on this message to prompt a fresh login instead of
	// retrying with the same token.
	assert.Contains(t, body["error"], "revoked")
}
