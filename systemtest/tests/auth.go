package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/callcove/backoffice/internal/api/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T, router *gin.Engine) {
	adminToken := loginAs(t, router, seedAdminEmail, seedAdminPassword)

	agent := createAgent(t, router, adminToken, dto.CreateAgentRequest{
		Number:   "201",
		FullName: "Lina Okafor",
		Email:    "lina@callcove.local",
		Password: "linapw123456",
	})
	require.Equal(t, "agent", agent.Role)

	t.Run("login and whoami", func(t *testing.T) {
		token := loginAs(t, router, "lina@callcove.local", "linapw123456")

		rr := doJSON(router, "GET", "/auth/me", nil, token)
		assert.Equal(t, http.StatusOK, rr.Code)

		var me dto.AgentResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
		assert.Equal(t, agent.ID, me.ID)
		assert.Equal(t, "lina@callcove.local", me.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := doJSON(router, "POST", "/auth/login", dto.LoginRequest{Email: "lina@callcove.local", Password: "wrong"}, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown email same response", func(t *testing.T) {
		wrong := doJSON(router, "POST", "/auth/login", dto.LoginRequest{Email: "lina@callcove.local", Password: "wrong"}, "")
		unknown := doJSON(router, "POST", "/auth/login", dto.LoginRequest{Email: "ghost@callcove.local", Password: "wrong"}, "")
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	})

	t.Run("logout revokes token", func(t *testing.T) {
		token := loginAs(t, router, "lina@callcove.local", "linapw123456")

		rr := doJSON(router, "GET", "/auth/me", nil, token)
		require.Equal(t, http.StatusOK, rr.Code)

		rr = doJSON(router, "POST", "/auth/logout", nil, token)
		require.Equal(t, http.StatusOK, rr.Code)

		rr = doJSON(router, "GET", "/auth/me", nil, token)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		// Logging out again is still a success.
		rr = doJSON(router, "POST", "/auth/logout", nil, token)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("agent role is forbidden from admin routes", func(t *testing.T) {
		token := loginAs(t, router, "lina@callcove.local", "linapw123456")

		rr := doJSON(router, "POST", "/agents", dto.CreateAgentRequest{
			Number:   "999",
			FullName: "Should Fail",
			Email:    "fail@callcove.local",
			Password: "failpw123456",
		}, token)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("no token is unauthorized not forbidden", func(t *testing.T) {
		rr := doJSON(router, "DELETE", "/call-sessions/1", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
