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

func TestCallSessions(t *testing.T, router *gin.Engine) {
	adminToken := loginAs(t, router, seedAdminEmail, seedAdminPassword)

	agent := createAgent(t, router, adminToken, dto.CreateAgentRequest{
		Number:   "501",
		FullName: "Nora Haddad",
		Email:    "nora@callcove.local",
		Password: "norapw123456",
	})
	agentToken := loginAs(t, router, "nora@callcove.local", "norapw123456")

	var created dto.SessionResponse

	t.Run("create binds to caller", func(t *testing.T) {
		rr := doJSON(router, "POST", "/call-sessions", dto.CreateSessionRequest{
			ClientType: "individual",
			Reason:     "billing question",
			AIQuery:    "how do I read an invoice line item",
		}, agentToken)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		assert.Equal(t, agent.ID, created.AgentID)
		assert.Nil(t, created.Result)
		assert.Nil(t, created.FinalStatus)
	})

	t.Run("any agent can read any session", func(t *testing.T) {
		rr := doJSON(router, "GET", fmt.Sprintf("/call-sessions/%d", created.ID), nil, adminToken)
		assert.Equal(t, http.StatusOK, rr.Code)

		rr = doJSON(router, "GET", "/call-sessions", nil, agentToken)
		assert.Equal(t, http.StatusOK, rr.Code)

		var list dto.ListSessionsResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		assert.GreaterOrEqual(t, list.Count, 1)
	})

	t.Run("filters", func(t *testing.T) {
		rr := doJSON(router, "POST", "/call-sessions", dto.CreateSessionRequest{
			ClientType: "company",
			Reason:     "contract renewal",
			AIQuery:    "current enterprise discount tiers",
		}, agentToken)
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = doJSON(router, "GET", "/call-sessions?client_type=company", nil, agentToken)
		require.Equal(t, http.StatusOK, rr.Code)

		var list dto.ListSessionsResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		for _, s := range list.Sessions {
			assert.Equal(t, "company", s.ClientType)
		}

		rr = doJSON(router, "GET", fmt.Sprintf("/call-sessions?agent_id=%d", agent.ID), nil, agentToken)
		require.Equal(t, http.StatusOK, rr.Code)
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		for _, s := range list.Sessions {
			assert.Equal(t, agent.ID, s.AgentID)
		}

		rr = doJSON(router, "GET", "/call-sessions?client_type=martian", nil, agentToken)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("update is admin only", func(t *testing.T) {
		result := "explained invoice layout"
		finalStatus := "satisfied"
		update := dto.CreateSessionRequest{
			ClientType:  "individual",
			Reason:      "billing question",
			AIQuery:     "how do I read an invoice line item",
			Result:      &result,
			FinalStatus: &finalStatus,
		}

		rr := doJSON(router, "PUT", fmt.Sprintf("/call-sessions/%d", created.ID), update, agentToken)
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = doJSON(router, "PUT", fmt.Sprintf("/call-sessions/%d", created.ID), update, adminToken)
		require.Equal(t, http.StatusOK, rr.Code)

		var got dto.SessionResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.NotNil(t, got.Result)
		assert.Equal(t, "explained invoice layout", *got.Result)
		require.NotNil(t, got.FinalStatus)
		assert.Equal(t, "satisfied", *got.FinalStatus)
	})

	t.Run("delete is admin only", func(t *testing.T) {
		rr := doJSON(router, "DELETE", fmt.Sprintf("/call-sessions/%d", created.ID), nil, agentToken)
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = doJSON(router, "DELETE", fmt.Sprintf("/call-sessions/%d", created.ID), nil, adminToken)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = doJSON(router, "GET", fmt.Sprintf("/call-sessions/%d", created.ID), nil, adminToken)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("missing session is 404", func(t *testing.T) {
		rr := doJSON(router, "GET", "/call-sessions/999999", nil, agentToken)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
