package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/callcove/backoffice/internal/api/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The migrations seed this admin so a fresh deployment can create its
// first accounts over the API.
const (
	seedAdminEmail    = "admin@callcove.local"
	seedAdminPassword = "changeme"
)

func doJSON(router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var b []byte
	if body != nil {
		b, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func loginAs(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()
	rr := doJSON(router, "POST", "/auth/login", dto.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func createAgent(t *testing.T, router *gin.Engine, adminToken string, req dto.CreateAgentRequest) dto.AgentResponse {
	t.Helper()
	rr := doJSON(router, "POST", "/agents", req, adminToken)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp dto.AgentResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T, router *gin.Engine) {
	rr := doJSON(router, "GET", "/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp dto.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}
