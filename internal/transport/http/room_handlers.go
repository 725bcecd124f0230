package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-inbox/internal/attachment"
	"github.com/vovakirdan/wirechat-inbox/internal/core"
	"github.com/vovakirdan/wirechat-inbox/internal/proto"
)

// RoomHandlers provides HTTP handlers for the directory and timelines.
type RoomHandlers struct {
	hub      *core.Hub
	registry *attachment.Registry
	limit    int64
	mapper   mapper
	log      *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(hub *core.Hub, registry *attachment.Registry, limit int64, userID string, now func() time.Time, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		hub:      hub,
		registry: registry,
		limit:    limit,
		mapper:   mapper{userID: userID, now: now, log: logger},
		log:      logger,
	}
}

// SendRequest is the JSON body of a text-only send.
type SendRequest struct {
	Text string `json:"text"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error proto.Error `json:"error"`
}

// State reports the lifecycle phase and current user.
// GET /api/state
func (h *RoomHandlers) State(c *gin.Context) {
	res, err := h.hub.Submit(c.Request.Context(), &core.Command{Kind: core.CommandState})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.mapper.state(res))
}

// ListRooms returns the filtered directory.
// GET /api/rooms?search=&kind=all|group|single
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	kind, err := core.ParseKindFilter(c.Query("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: proto.Error{Code: core.ErrCodeBadRequest, Msg: err.Error()}})
		return
	}

	res, err := h.hub.Submit(c.Request.Context(), &core.Command{
		Kind:  core.CommandView,
		Query: core.Query{Search: c.Query("search"), Kind: kind},
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	rooms := make([]proto.Room, 0, len(res.Conversations))
	for _, conv := range res.Conversations {
		rooms = append(rooms, h.mapper.room(conv.Room, res.HasActive && res.ActiveID == conv.Room.ID))
	}
	c.JSON(http.StatusOK, proto.Rooms{Results: rooms})
}

// ActiveRoom returns the selected conversation.
// GET /api/rooms/active
func (h *RoomHandlers) ActiveRoom(c *gin.Context) {
	res, err := h.hub.Submit(c.Request.Context(), &core.Command{Kind: core.CommandActive})
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !res.Found {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: proto.Error{Code: core.ErrCodeNotFound, Msg: "no conversation selected"}})
		return
	}
	c.JSON(http.StatusOK, h.mapper.conversation(res.Conversation, true))
}

// GetRoom returns one conversation with its timeline.
// GET /api/rooms/:id
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	roomID, ok := h.roomID(c)
	if !ok {
		return
	}

	res, err := h.hub.Submit(c.Request.Context(), &core.Command{Kind: core.CommandResolve, RoomID: roomID})
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !res.Found {
		h.writeError(c, core.ErrRoomNotFound)
		return
	}
	c.JSON(http.StatusOK, h.mapper.conversation(res.Conversation, res.HasActive && res.ActiveID == roomID))
}

// SelectRoom changes the active conversation. Unknown ids clear the selection.
// POST /api/rooms/:id/select
func (h *RoomHandlers) SelectRoom(c *gin.Context) {
	roomID, ok := h.roomID(c)
	if !ok {
		return
	}

	res, err := h.hub.Submit(c.Request.Context(), &core.Command{Kind: core.CommandSelect, RoomID: roomID})
	if err == nil {
		err = res.Err
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, proto.Selection{RoomID: roomID, Found: res.Found})
}

// SendMessage composes and appends a message. Accepts JSON {"text": ...} or
// a multipart form with a "text" field and an optional "file".
// POST /api/rooms/:id/messages
func (h *RoomHandlers) SendMessage(c *gin.Context) {
	roomID, ok := h.roomID(c)
	if !ok {
		return
	}

	text, draft, err := h.readCompose(c)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, attachment.ErrTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.log.Debug().Err(err).Msg("invalid send request")
		c.JSON(status, ErrorResponse{Error: proto.Error{Code: core.ErrCodeBadRequest, Msg: err.Error()}})
		return
	}

	// The reply must be awaited even if the client goes away, otherwise the
	// draft could be discarded after the hub took ownership of it.
	res, err := h.hub.Submit(context.WithoutCancel(c.Request.Context()), &core.Command{
		Kind:   core.CommandSend,
		RoomID: roomID,
		Text:   text,
		Draft:  draft,
	})
	if err == nil {
		err = res.Err
	}
	if err != nil {
		if draft != nil && !draft.Spent() {
			if discardErr := draft.Discard(); discardErr != nil {
				h.log.Warn().Err(discardErr).Msg("failed to release abandoned attachment")
			}
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, proto.Appended{
		Room:    h.mapper.room(res.Conversation.Room, false),
		Message: h.mapper.message(res.Conversation, res.Message),
	})
}

func (h *RoomHandlers) readCompose(c *gin.Context) (string, *core.Draft, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var req SendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return "", nil, errors.New("invalid request body")
		}
		return req.Text, nil, nil
	}

	text := c.PostForm("text")
	header, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return text, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	if h.limit > 0 && header.Size > h.limit {
		return "", nil, attachment.ErrTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	blob, err := attachment.ReadBlob(header.Filename, header.Header.Get("Content-Type"), f, h.limit)
	if err != nil {
		return "", nil, err
	}
	if blob.Type == "" || blob.Type == "application/octet-stream" {
		blob.Type = mimetype.Detect(blob.Data).String()
	}
	draft, err := core.NewDraft(h.registry, blob)
	if err != nil {
		return "", nil, err
	}
	return text, draft, nil
}

func (h *RoomHandlers) roomID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: proto.Error{Code: core.ErrCodeBadRequest, Msg: "invalid room id"}})
		return 0, false
	}
	return id, true
}

func (h *RoomHandlers) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrInvalidCompose):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrDraftSpent):
		status = http.StatusConflict
	case errors.Is(err, core.ErrNotReady), errors.Is(err, core.ErrHubStopped):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("request failed")
	}

	ce := core.ToCoreError(err)
	c.JSON(status, ErrorResponse{Error: proto.Error{Code: ce.Code, Msg: ce.Message}})
}
