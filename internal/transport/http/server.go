package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-roster/internal/config"
	"github.com/vovakirdan/wirechat-roster/internal/core"
)

// NewServer builds the HTTP server: health check, the bridge socket and
// the UI API.
func NewServer(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	h := NewRosterHandlers(hub, logger)
	api := router.Group("/api")
	{
		api.GET("/roster", h.ListRoster)
		api.GET("/roster/:nick", h.GetPlayer)
		api.GET("/roster/:nick/shared", h.SharedIdentity)
		api.GET("/roster/:nick/actions", h.Actions)
		api.GET("/link", h.ResolveLink)
		api.GET("/session", h.Session)
		api.GET("/chat", h.ChatHistory)
		api.PUT("/settings", h.UpdateSettings)

		players := api.Group("/players/:nick")
		players.POST("/friend", h.ToggleFriend)
		players.POST("/ignore", h.ToggleIgnore)
		players.POST("/ignore-identity", h.ToggleIgnoreIdentity)
		players.POST("/kick", h.Moderate)
		players.POST("/ban", h.Moderate)
		players.POST("/delegate", h.Moderate)
		players.POST("/follow", h.Moderate)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
