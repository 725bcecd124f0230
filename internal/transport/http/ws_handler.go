package http

import (
	"context"
	"errors"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-inbox/internal/core"
	"github.com/vovakirdan/wirechat-inbox/internal/proto"
	"github.com/vovakirdan/wirechat-inbox/internal/utils"
)

// WSHandler upgrades HTTP connections and streams session events to them.
// The stream is one-way; actions go through the REST endpoints.
type WSHandler struct {
	hub    *core.Hub
	mapper mapper
	log    *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, m mapper, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, mapper: m, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	// CloseRead discards inbound frames and cancels ctx once the peer goes away.
	ctx := conn.CloseRead(r.Context())

	client := core.NewClient(utils.NewID())
	h.hub.RegisterClient(client)
	defer h.hub.UnregisterClient(client)

	res, err := h.hub.Submit(ctx, &core.Command{Kind: core.CommandState})
	if err != nil {
		h.closeWith(conn, err)
		return
	}
	if err := wsjson.Write(ctx, conn, proto.Outbound{
		Type:  proto.OutboundTypeEvent,
		Event: proto.EventStateChanged,
		Data:  h.mapper.state(res),
	}); err != nil {
		h.closeWith(conn, err)
		return
	}

	h.closeWith(conn, h.writeLoop(ctx, conn, client))
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, h.mapper.outbound(event)); err != nil {
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) closeWith(conn *websocket.Conn, err error) {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		conn.Close(websocket.StatusNormalClosure, "closing")
	case errors.Is(err, core.ErrHubStopped):
		conn.Close(websocket.StatusGoingAway, "shutting down")
	default:
		status := websocket.CloseStatus(err)
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			conn.Close(status, "closing")
			return
		}
		h.log.Warn().Err(err).Msg("ws connection closed with error")
		conn.Close(websocket.StatusInternalError, "internal error")
	}
}
