package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/callcove/backoffice/internal/api/http/dto"
	"github.com/callcove/backoffice/internal/api/http/middleware"
	"github.com/callcove/backoffice/internal/sessions"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	repo *sessions.Repo
}

func NewSessionHandler(repo *sessions.Repo) *SessionHandler {
	return &SessionHandler{repo: repo}
}

func sessionResponse(s sessions.Session) dto.SessionResponse {
	var finalStatus *string
	if s.FinalStatus != nil {
		v := string(*s.FinalStatus)
		finalStatus = &v
	}
	return dto.SessionResponse{
		ID:          s.ID,
		AgentID:     s.AgentID,
		ClientType:  string(s.ClientType),
		Reason:      s.Reason,
		AIQuery:     s.AIQuery,
		Result:      s.Result,
		FinalStatus: finalStatus,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
	}
}

func sessionParams(req dto.CreateSessionRequest) sessions.CreateParams {
	var finalStatus *sessions.FinalStatus
	if req.FinalStatus != nil {
		v := sessions.FinalStatus(*req.FinalStatus)
		finalStatus = &v
	}
	return sessions.CreateParams{
		ClientType:  sessions.ClientType(req.ClientType),
		Reason:      req.Reason,
		AIQuery:     req.AIQuery,
		Result:      req.Result,
		FinalStatus: finalStatus,
	}
}

// CreateSession records a call for the authenticated agent. The agent
// id always comes from the resolved identity, never from the payload.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	agent, ok := middleware.CurrentAgent(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
		return
	}

	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.repo.Create(c.Request.Context(), agent.ID, sessionParams(req))
	if err != nil {
		slog.Error("Failed to create call session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, sessionResponse(session))
}

func (h *SessionHandler) ListSessions(c *gin.Context) {
	var filter sessions.Filter
	if v := c.Query("agent_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid agent_id"})
			return
		}
		filter.AgentID = &id
	}
	if v := c.Query("client_type"); v != "" {
		ct := sessions.ClientType(v)
		if !ct.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_type"})
			return
		}
		filter.ClientType = &ct
	}
	if v := c.Query("final_status"); v != "" {
		fs := sessions.FinalStatus(v)
		if !fs.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid final_status"})
			return
		}
		filter.FinalStatus = &fs
	}

	sessionList, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		slog.Error("Failed to list call sessions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]dto.SessionResponse, len(sessionList))
	for i, s := range sessionList {
		responses[i] = sessionResponse(s)
	}

	c.JSON(http.StatusOK, dto.ListSessionsResponse{
		Sessions: responses,
		Count:    len(responses),
	})
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	session, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "call session not found"})
			return
		}
		slog.Error("Failed to get call session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, sessionResponse(session))
}

func (h *SessionHandler) UpdateSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.repo.Update(c.Request.Context(), id, sessionParams(req))
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "call session not found"})
			return
		}
		slog.Error("Failed to update call session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, sessionResponse(session))
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "call session not found"})
			return
		}
		slog.Error("Failed to delete call session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}
