package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/callcove/backoffice/internal/api/http/dto"
	"github.com/callcove/backoffice/internal/api/http/middleware"
	"github.com/callcove/backoffice/internal/auth"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		slog.Error("Failed to log agent in", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	err := h.authService.Logout(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingCredential):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
		case errors.Is(err, auth.ErrMalformedCredential):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
		default:
			slog.Error("Failed to log agent out", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.LogoutResponse{Message: "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	agent, ok := middleware.CurrentAgent(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
		return
	}

	c.JSON(http.StatusOK, agentResponse(agent))
}
