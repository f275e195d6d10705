package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/callcove/backoffice/internal/api/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgents(t *testing.T, router *gin.Engine) {
	adminToken := loginAs(t, router, seedAdminEmail, seedAdminPassword)

	agent := createAgent(t, router, adminToken, dto.CreateAgentRequest{
		Number:   "301",
		FullName: "Marc Dubois",
		Email:    "marc@callcove.local",
		Password: "marcpw123456",
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		rr := doJSON(router, "POST", "/agents", dto.CreateAgentRequest{
			Number:   "302",
			FullName: "Other Marc",
			Email:    "marc@callcove.local",
			Password: "otherpw123456",
		}, adminToken)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("get and list", func(t *testing.T) {
		rr := doJSON(router, "GET", fmt.Sprintf("/agents/%d", agent.ID), nil, adminToken)
		assert.Equal(t, http.StatusOK, rr.Code)

		var got dto.AgentResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "Marc Dubois", got.FullName)

		rr = doJSON(router, "GET", "/agents", nil, adminToken)
		assert.Equal(t, http.StatusOK, rr.Code)

		var list dto.ListAgentsResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		assert.GreaterOrEqual(t, list.Count, 2)
	})

	t.Run("partial update", func(t *testing.T) {
		number := "305"
		rr := doJSON(router, "PATCH", fmt.Sprintf("/agents/%d", agent.ID), dto.UpdateAgentRequest{Number: &number}, adminToken)
		assert.Equal(t, http.StatusOK, rr.Code)

		var got dto.AgentResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "305", got.Number)
		// Untouched fields survive.
		assert.Equal(t, "Marc Dubois", got.FullName)
		assert.Equal(t, "marc@callcove.local", got.Email)
	})

	t.Run("password update changes login", func(t *testing.T) {
		newPassword := "rotated123456"
		rr := doJSON(router, "PATCH", fmt.Sprintf("/agents/%d", agent.ID), dto.UpdateAgentRequest{Password: &newPassword}, adminToken)
		require.Equal(t, http.StatusOK, rr.Code)

		old := doJSON(router, "POST", "/auth/login", dto.LoginRequest{Email: "marc@callcove.local", Password: "marcpw123456"}, "")
		assert.Equal(t, http.StatusUnauthorized, old.Code)

		loginAs(t, router, "marc@callcove.local", "rotated123456")
	})

	t.Run("delete", func(t *testing.T) {
		victim := createAgent(t, router, adminToken, dto.CreateAgentRequest{
			Number:   "399",
			FullName: "Short Timer",
			Email:    "short@callcove.local",
			Password: "shortpw123456",
		})

		rr := doJSON(router, "DELETE", fmt.Sprintf("/agents/%d", victim.ID), nil, adminToken)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = doJSON(router, "GET", fmt.Sprintf("/agents/%d", victim.ID), nil, adminToken)
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = doJSON(router, "DELETE", fmt.Sprintf("/agents/%d", victim.ID), nil, adminToken)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("validation", func(t *testing.T) {
		rr := doJSON(router, "POST", "/agents", dto.CreateAgentRequest{
			Number:   "400",
			FullName: "Bad Email",
			Email:    "not-an-email",
			Password: "goodpw123456",
		}, adminToken)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = doJSON(router, "POST", "/agents", dto.CreateAgentRequest{
			Number:   "401",
			FullName: "Short Password",
			Email:    "shortpw@callcove.local",
			Password: "short",
		}, adminToken)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
