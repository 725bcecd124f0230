package http

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-inbox/internal/attachment"
	"github.com/vovakirdan/wirechat-inbox/internal/proto"
)

// MediaHandlers serves the bytes behind attachment preview handles.
type MediaHandlers struct {
	registry *attachment.Registry
	log      *zerolog.Logger
}

// NewMediaHandlers creates a new media handlers instance.
func NewMediaHandlers(registry *attachment.Registry, logger *zerolog.Logger) *MediaHandlers {
	return &MediaHandlers{registry: registry, log: logger}
}

// Serve writes the preview bytes. The request path is the preview URL the
// registry issued. Released handles answer 410 Gone.
// GET /media/:handle
func (h *MediaHandlers) Serve(c *gin.Context) {
	handle, ok := h.registry.HandleFromURL(c.Request.URL.Path)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: proto.Error{Code: "not_found", Msg: "unknown preview"}})
		return
	}

	blob, err := h.registry.Open(handle)
	switch {
	case errors.Is(err, attachment.ErrReleased):
		c.JSON(http.StatusGone, ErrorResponse{Error: proto.Error{Code: "released", Msg: "preview was released"}})
		return
	case err != nil:
		c.JSON(http.StatusNotFound, ErrorResponse{Error: proto.Error{Code: "not_found", Msg: "unknown preview"}})
		return
	}

	contentType := blob.Type
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": blob.Name}))
	c.Data(http.StatusOK, contentType, blob.Data)
}
