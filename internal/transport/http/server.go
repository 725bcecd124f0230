package http

import (
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-inbox/internal/attachment"
	"github.com/vovakirdan/wirechat-inbox/internal/config"
	"github.com/vovakirdan/wirechat-inbox/internal/core"
)

// NewServer builds the HTTP server exposing the session to the presentation layer.
func NewServer(hub *core.Hub, registry *attachment.Registry, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	limit, err := cfg.AttachmentLimit()
	if err != nil {
		logger.Warn().Err(err).Msg("invalid attachment limit, uploads are unlimited")
		limit = 0
	}

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	rooms := NewRoomHandlers(hub, registry, limit, cfg.UserID, time.Now, logger)
	media := NewMediaHandlers(registry, logger)

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, rooms.mapper, logger)))

	api := router.Group("/api")
	api.GET("/state", rooms.State)
	api.GET("/rooms", rooms.ListRooms)
	api.GET("/rooms/active", rooms.ActiveRoom)
	api.GET("/rooms/:id", rooms.GetRoom)
	api.POST("/rooms/:id/select", rooms.SelectRoom)
	api.POST("/rooms/:id/messages", rooms.SendMessage)

	if prefix := cfg.MediaPrefix; strings.HasPrefix(prefix, "/") {
		router.GET(strings.TrimSuffix(prefix, "/")+"/:handle", media.Serve)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
