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

func TestKnowledgeBase(t *testing.T, router *gin.Engine) {
	adminToken := loginAs(t, router, seedAdminEmail, seedAdminPassword)

	createAgent(t, router, adminToken, dto.CreateAgentRequest{
		Number:   "601",
		FullName: "Tom Keller",
		Email:    "tom@callcove.local",
		Password: "tompw123456",
	})
	agentToken := loginAs(t, router, "tom@callcove.local", "tompw123456")

	category := "billing"
	var created dto.EntryResponse

	t.Run("create", func(t *testing.T) {
		rr := doJSON(router, "POST", "/kb/entries", dto.CreateEntryRequest{
			Question: "How are invoices numbered?",
			Answer:   "Sequentially per calendar year, prefixed with the year.",
			Category: &category,
		}, agentToken)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		require.NotNil(t, created.Category)
		assert.Equal(t, "billing", *created.Category)
	})

	t.Run("list with category filter", func(t *testing.T) {
		rr := doJSON(router, "POST", "/kb/entries", dto.CreateEntryRequest{
			Question: "What is the escalation path?",
			Answer:   "Supervisor, then the on-call duty manager.",
		}, agentToken)
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = doJSON(router, "GET", "/kb/entries?category=billing", nil, agentToken)
		require.Equal(t, http.StatusOK, rr.Code)

		var list dto.ListEntriesResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		require.GreaterOrEqual(t, list.Count, 1)
		for _, e := range list.Entries {
			require.NotNil(t, e.Category)
			assert.Equal(t, "billing", *e.Category)
		}
	})

	t.Run("get and update", func(t *testing.T) {
		rr := doJSON(router, "GET", fmt.Sprintf("/kb/entries/%d", created.ID), nil, agentToken)
		assert.Equal(t, http.StatusOK, rr.Code)

		answer := "Sequentially per calendar year; the prefix is the two-digit year."
		rr = doJSON(router, "PATCH", fmt.Sprintf("/kb/entries/%d", created.ID), dto.UpdateEntryRequest{Answer: &answer}, agentToken)
		require.Equal(t, http.StatusOK, rr.Code)

		var got dto.EntryResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, answer, got.Answer)
		// Question untouched by the partial update.
		assert.Equal(t, "How are invoices numbered?", got.Question)
	})

	t.Run("delete", func(t *testing.T) {
		rr := doJSON(router, "DELETE", fmt.Sprintf("/kb/entries/%d", created.ID), nil, agentToken)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = doJSON(router, "GET", fmt.Sprintf("/kb/entries/%d", created.ID), nil, agentToken)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		rr := doJSON(router, "GET", "/kb/entries", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
