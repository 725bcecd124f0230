package core

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-inbox/internal/store"
)

// ErrHubStopped is returned when a command is submitted after Run returned.
var ErrHubStopped = errors.New("hub stopped")

// Hub owns a Session and applies commands to it one at a time from a single
// goroutine, so state changes happen in the order the user acted.
type Hub struct {
	session    *Session
	commands   chan *Command
	register   chan *Client
	unregister chan *Client
	clients    map[*Client]struct{}
	done       chan struct{}
	log        *zerolog.Logger
}

// NewHub creates a hub around session.
func NewHub(session *Session, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		session:    session,
		commands:   make(chan *Command, 32),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
		log:        logger,
	}
}

// Run processes commands until ctx is cancelled, then closes the session,
// releasing the previews it owns.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.Events)
			}
		case cmd := <-h.commands:
			res := h.handle(cmd)
			if cmd.reply != nil {
				cmd.reply <- res
			}
		}
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	for c := range h.clients {
		close(c.Events)
		delete(h.clients, c)
	}
	if err := h.session.Close(); err != nil {
		h.log.Warn().Err(err).Msg("session close")
	}
}

// RegisterClient subscribes c to session events.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.Events)
	}
}

// UnregisterClient removes c and closes its event channel.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Submit queues cmd and waits for its result.
func (h *Hub) Submit(ctx context.Context, cmd *Command) (Result, error) {
	cmd.reply = make(chan Result, 1)

	select {
	case h.commands <- cmd:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-h.done:
		return Result{}, ErrHubStopped
	}

	select {
	case res := <-cmd.reply:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-h.done:
		return Result{}, ErrHubStopped
	}
}

// Load performs the one-shot startup fetch outside the hub loop and hands the
// outcome to the session. Commands submitted meanwhile see StateLoading.
func (h *Hub) Load(ctx context.Context, src store.Source) error {
	snap, fetchErr := src.Snapshot(ctx)
	res, err := h.Submit(ctx, &Command{Kind: CommandLoaded, Snapshot: snap, Err: fetchErr})
	if err != nil {
		return err
	}
	return res.Err
}

func (h *Hub) handle(cmd *Command) Result {
	s := h.session

	switch cmd.Kind {
	case CommandLoaded:
		var err error
		if cmd.Err != nil {
			err = s.Fail(cmd.Err)
		} else {
			err = s.Load(cmd.Snapshot)
		}
		if err != nil {
			return Result{State: s.State(), Err: err}
		}
		h.broadcast(&Event{Kind: EventStateChanged, State: s.State()})
		if id, ok := s.ActiveID(); ok {
			h.broadcast(&Event{Kind: EventSelectionChanged, RoomID: id, Found: true})
		}
		return Result{State: s.State(), User: s.User(), Err: s.LoadErr()}

	case CommandState:
		return Result{State: s.State(), User: s.User(), Err: s.LoadErr()}

	case CommandView:
		id, ok := s.ActiveID()
		return Result{State: s.State(), Conversations: s.View(cmd.Query), ActiveID: id, HasActive: ok}

	case CommandResolve:
		conv, err := s.Resolve(cmd.RoomID)
		if err != nil {
			h.log.Warn().Err(err).Int64("room_id", cmd.RoomID).Msg("resolve unknown room")
			return Result{State: s.State()}
		}
		id, ok := s.ActiveID()
		return Result{State: s.State(), Conversation: conv, Found: true, ActiveID: id, HasActive: ok}

	case CommandActive:
		conv, ok := s.Active()
		return Result{State: s.State(), Conversation: conv, Found: ok, ActiveID: conv.Room.ID, HasActive: ok}

	case CommandSelect:
		if err := s.Select(cmd.RoomID); err != nil {
			return Result{State: s.State(), Err: err}
		}
		conv, ok := s.Active()
		h.broadcast(&Event{Kind: EventSelectionChanged, RoomID: cmd.RoomID, Found: ok})
		return Result{State: s.State(), Conversation: conv, Found: ok}

	case CommandSend:
		msg, err := s.Send(cmd.RoomID, cmd.Text, cmd.Draft)
		if err != nil {
			return Result{State: s.State(), Err: err}
		}
		conv, _ := s.Resolve(cmd.RoomID)
		h.broadcast(&Event{Kind: EventMessageAppended, RoomID: cmd.RoomID, Room: conv.Room, Message: msg})
		return Result{State: s.State(), Conversation: conv, Found: true, Message: msg}

	default:
		return Result{State: s.State(), Err: coreError(ErrCodeBadRequest, "unknown command")}
	}
}

// broadcast sends an event to every subscriber, dropping it for slow ones.
func (h *Hub) broadcast(ev *Event) {
	for c := range h.clients {
		select {
		case c.Events <- ev:
		default:
			h.log.Debug().Str("client_id", c.ID).Str("event", ev.Kind.String()).Msg("dropping event for slow client")
		}
	}
}
