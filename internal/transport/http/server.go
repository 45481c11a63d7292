package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/courtserver/internal/auth"
	"github.com/vovakirdan/courtserver/internal/config"
	"github.com/vovakirdan/courtserver/internal/core"
)

// NewServer builds the HTTP server: health check, websocket endpoint, public
// area listing, staff login and the JWT protected staff API.
func NewServer(world *core.World, authService *auth.Service, cfg config.Config, logger *zerolog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	api := NewAPIHandlers(world, authService, logger)

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/ws", gin.WrapH(NewWSHandler(world, cfg.MaxFramesPerSecond, logger)))
	router.GET("/api/areas", api.ListAreas)
	router.POST("/api/login", api.Login)

	staff := router.Group("/api/staff")
	staff.Use(AuthMiddleware(authService, logger))
	{
		staff.GET("/clients", api.SearchClients)
		staff.GET("/muted", api.MutedClients)
		staff.POST("/announce", RequireRole(logger, auth.RoleModerator), api.Announce)
	}

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
