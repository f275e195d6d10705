package http

import (
	"github.com/callcove/backoffice/internal/agents"
	"github.com/callcove/backoffice/internal/api/http/handler"
	"github.com/callcove/backoffice/internal/api/http/middleware"
	"github.com/callcove/backoffice/internal/auth"
	"github.com/callcove/backoffice/internal/kb"
	"github.com/callcove/backoffice/internal/sessions"
	"github.com/gin-gonic/gin"
)

type Config struct {
	Port uint
}

type Services struct {
	Auth     *auth.Service
	Agents   *agents.Service
	Sessions *sessions.Repo
	KB       *kb.Repo
}

// SetupRoute wires every route through the authentication and
// authorization gates here, and only here. Handlers never check
// credentials themselves; adding a route to the wrong group is the
// single mistake left to make.
func SetupRoute(engine *gin.Engine, srvs *Services) {
	engine.Use(middleware.RequestLogger())

	healthHandler := handler.NewHealthHandler()
	engine.GET("/health", healthHandler.Check)

	authHandler := handler.NewAuthHandler(srvs.Auth)
	agentHandler := handler.NewAgentHandler(srvs.Agents)
	sessionHandler := handler.NewSessionHandler(srvs.Sessions)
	kbHandler := handler.NewKBHandler(srvs.KB)

	// Login is the only route that mints credentials; logout only needs
	// a well-formed header, so neither sits behind the gate.
	engine.POST("/auth/login", authHandler.Login)
	engine.POST("/auth/logout", authHandler.Logout)

	authed := engine.Group("", middleware.Authenticate(srvs.Auth))
	{
		authed.GET("/auth/me", authHandler.Me)

		authed.GET("/agents", agentHandler.ListAgents)
		authed.GET("/agents/:id", agentHandler.GetAgent)

		authed.POST("/call-sessions", sessionHandler.CreateSession)
		authed.GET("/call-sessions", sessionHandler.ListSessions)
		authed.GET("/call-sessions/:id", sessionHandler.GetSession)

		authed.POST("/kb/entries", kbHandler.CreateEntry)
		authed.GET("/kb/entries", kbHandler.ListEntries)
		authed.GET("/kb/entries/:id", kbHandler.GetEntry)
		authed.PATCH("/kb/entries/:id", kbHandler.UpdateEntry)
		authed.DELETE("/kb/entries/:id", kbHandler.DeleteEntry)

		admin := authed.Group("", middleware.RequireAdmin())
		{
			admin.POST("/agents", agentHandler.CreateAgent)
			admin.PATCH("/agents/:id", agentHandler.UpdateAgent)
			admin.DELETE("/agents/:id", agentHandler.DeleteAgent)

			admin.PUT("/call-sessions/:id", sessionHandler.UpdateSession)
			admin.DELETE("/call-sessions/:id", sessionHandler.DeleteSession)
		}
	}
}
