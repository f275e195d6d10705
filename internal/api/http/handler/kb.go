package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/callcove/backoffice/internal/api/http/dto"
	"github.com/callcove/backoffice/internal/kb"
	"github.com/gin-gonic/gin"
)

type KBHandler struct {
	repo *kb.Repo
}

func NewKBHandler(repo *kb.Repo) *KBHandler {
	return &KBHandler{repo: repo}
}

func entryResponse(e kb.Entry) dto.EntryResponse {
	return dto.EntryResponse{
		ID:        e.ID,
		Question:  e.Question,
		Answer:    e.Answer,
		Category:  e.Category,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

func (h *KBHandler) CreateEntry(c *gin.Context) {
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.repo.Create(c.Request.Context(), req.Question, req.Answer, req.Category)
	if err != nil {
		slog.Error("Failed to create kb entry", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, entryResponse(entry))
}

func (h *KBHandler) ListEntries(c *gin.Context) {
	var category *string
	if v := c.Query("category"); v != "" {
		category = &v
	}

	entries, err := h.repo.List(c.Request.Context(), category)
	if err != nil {
		slog.Error("Failed to list kb entries", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = entryResponse(e)
	}

	c.JSON(http.StatusOK, dto.ListEntriesResponse{
		Entries: responses,
		Count:   len(responses),
	})
}

func (h *KBHandler) GetEntry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	entry, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, kb.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
			return
		}
		slog.Error("Failed to get kb entry", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, entryResponse(entry))
}

func (h *KBHandler) UpdateEntry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.repo.Update(c.Request.Context(), id, kb.UpdateParams{
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
	})
	if err != nil {
		if errors.Is(err, kb.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
			return
		}
		slog.Error("Failed to update kb entry", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, entryResponse(entry))
}

func (h *KBHandler) DeleteEntry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, kb.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
			return
		}
		slog.Error("Failed to delete kb entry", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusNoContent)
}
