package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/callcove/backoffice/internal/agents"
	"github.com/callcove/backoffice/internal/api/http/dto"
	"github.com/gin-gonic/gin"
)

type AgentHandler struct {
	agentService *agents.Service
}

func NewAgentHandler(agentService *agents.Service) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

func agentResponse(a agents.Agent) dto.AgentResponse {
	return dto.AgentResponse{
		ID:        a.ID,
		Number:    a.Number,
		FullName:  a.FullName,
		Email:     a.Email,
		Role:      string(a.Role),
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *AgentHandler) CreateAgent(c *gin.Context) {
	var req dto.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agent, err := h.agentService.Create(c.Request.Context(), agents.CreateParams{
		Number:   req.Number,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     agents.Role(req.Role),
	})
	if err != nil {
		if errors.Is(err, agents.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
			return
		}
		slog.Error("Failed to create agent", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, agentResponse(agent))
}

func (h *AgentHandler) GetAgent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	agent, err := h.agentService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, agents.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
			return
		}
		slog.Error("Failed to get agent", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, agentResponse(agent))
}

func (h *AgentHandler) ListAgents(c *gin.Context) {
	agentList, err := h.agentService.List(c.Request.Context())
	if err != nil {
		slog.Error("Failed to list agents", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]dto.AgentResponse, len(agentList))
	for i, a := range agentList {
		responses[i] = agentResponse(a)
	}

	c.JSON(http.StatusOK, dto.ListAgentsResponse{
		Agents: responses,
		Count:  len(responses),
	})
}

func (h *AgentHandler) UpdateAgent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var role *agents.Role
	if req.Role != nil {
		r := agents.Role(*req.Role)
		role = &r
	}

	agent, err := h.agentService.Update(c.Request.Context(), id, agents.UpdateParams{
		Number:   req.Number,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		switch {
		case errors.Is(err, agents.ErrAgentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
		case errors.Is(err, agents.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
		default:
			slog.Error("Failed to update agent", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, agentResponse(agent))
}

func (h *AgentHandler) DeleteAgent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.agentService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, agents.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "agent not found"})
			return
		}
		slog.Error("Failed to delete agent", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}
