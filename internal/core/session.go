package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-inbox/internal/attachment"
	"github.com/vovakirdan/wirechat-inbox/internal/store"
)

// State is the lifecycle phase of a session.
type State int

const (
	// StateLoading means the startup snapshot has not arrived yet.
	StateLoading State = iota
	// StateReady means the directory is populated.
	StateReady
	// StateFailed means the snapshot could not be read; the directory is empty.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "failed"
	}
}

// Identity is the fixed current user.
type Identity struct {
	ID   string
	Name string
}

// Clock returns the current time.
type Clock func() time.Time

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the session clock.
func WithClock(c Clock) Option {
	return func(s *Session) { s.now = c }
}

// Session ties the directory, the active selection and outgoing messages
// together. It is not safe for concurrent use; Hub serializes access.
type Session struct {
	user    Identity
	dir     *Directory
	state   State
	loadErr error

	active    int64
	hasActive bool

	lastID int64
	owned  []*attachment.Preview

	now Clock
	log *zerolog.Logger
}

// NewSession creates a session in the Loading state.
func NewSession(user Identity, logger *zerolog.Logger, opts ...Option) *Session {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	s := &Session{
		user:  user,
		dir:   NewDirectory(nil),
		state: StateLoading,
		now:   time.Now,
		log:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the lifecycle phase.
func (s *Session) State() State { return s.state }

// LoadErr returns the error that moved the session to Failed.
func (s *Session) LoadErr() error { return s.loadErr }

// User returns the current user identity.
func (s *Session) User() Identity { return s.user }

// Load populates the directory from the startup snapshot and selects the
// first conversation. It may only be called once, while Loading.
func (s *Session) Load(snap *store.Snapshot) error {
	if s.state != StateLoading {
		return ErrAlreadyLoaded
	}

	convs, maxID := conversationsFromSnapshot(snap, s.log)
	dir := NewDirectory(convs)
	for _, c := range dir.convs {
		if last, ok := c.Last(); ok {
			if err := dir.updateSummary(c.Room.ID, last.Body, last.CreatedAt); err != nil {
				s.log.Warn().Err(err).Int64("room_id", c.Room.ID).Msg("refresh room summary")
			}
		}
	}

	s.dir = dir
	s.lastID = maxID
	s.state = StateReady

	if dir.Len() > 0 {
		first := dir.convs[0]
		if me, ok := first.Room.Participant(s.user.ID); ok && me.Name != "" {
			s.user.Name = me.Name
		}
		s.active = first.Room.ID
		s.hasActive = true
	}

	s.log.Info().Int("rooms", dir.Len()).Msg("directory loaded")
	return nil
}

// Fail records a startup fetch error. The directory stays empty and no
// retry is attempted.
func (s *Session) Fail(err error) error {
	if s.state != StateLoading {
		return ErrAlreadyLoaded
	}
	s.state = StateFailed
	s.loadErr = fmt.Errorf("%w: %w", ErrLoadFailure, err)
	s.log.Error().Err(err).Msg("failed to load directory")
	return nil
}

// View returns the filtered directory. It is empty until the session is Ready.
func (s *Session) View(q Query) []Conversation {
	return s.dir.View(q)
}

// Resolve looks up one conversation.
func (s *Session) Resolve(roomID int64) (Conversation, error) {
	return s.dir.Resolve(roomID)
}

// Select makes roomID the active conversation. An unknown id clears the
// selection without failing.
func (s *Session) Select(roomID int64) error {
	if s.state == StateLoading {
		return ErrNotReady
	}
	if _, err := s.dir.Resolve(roomID); err != nil {
		s.log.Warn().Err(err).Int64("room_id", roomID).Msg("select unknown room")
		s.active, s.hasActive = 0, false
		return nil
	}
	s.active, s.hasActive = roomID, true
	return nil
}

// Active returns the selected conversation, if any.
func (s *Session) Active() (Conversation, bool) {
	if !s.hasActive {
		return Conversation{}, false
	}
	conv, err := s.dir.Resolve(s.active)
	if err != nil {
		return Conversation{}, false
	}
	return conv, true
}

// ActiveID returns the selected room id.
func (s *Session) ActiveID() (int64, bool) {
	return s.active, s.hasActive
}

// SendActive sends to the selected conversation.
func (s *Session) SendActive(text string, draft *Draft) (Message, error) {
	if s.state == StateLoading {
		return Message{}, ErrNotReady
	}
	if !s.hasActive {
		return Message{}, fmt.Errorf("send: no active room: %w", ErrRoomNotFound)
	}
	return s.Send(s.active, text, draft)
}

// Send composes a message from text and an optional attachment draft and
// appends it to roomID. Text-only messages keep the text as typed; an
// attachment caption is trimmed and falls back to the filename. On success
// the draft's preview is owned by the session and released on Close; on
// failure the draft is left to the caller.
func (s *Session) Send(roomID int64, text string, draft *Draft) (Message, error) {
	if s.state == StateLoading {
		return Message{}, ErrNotReady
	}

	caption := strings.TrimSpace(text)
	if caption == "" && draft == nil {
		return Message{}, ErrInvalidCompose
	}
	if draft != nil && draft.Spent() {
		return Message{}, ErrDraftSpent
	}
	if _, err := s.dir.Resolve(roomID); err != nil {
		s.log.Error().Err(err).Int64("room_id", roomID).Msg("send to unknown room")
		return Message{}, err
	}

	now := s.now()
	msg := Message{
		ID:        s.nextID(now),
		Body:      text,
		SenderID:  s.user.ID,
		CreatedAt: now,
		Content:   Text{},
	}
	if draft != nil {
		msg.Content = draft.content()
		msg.Body = caption
		if msg.Body == "" {
			msg.Body = draft.Descriptor().Filename
		}
	}

	if _, err := s.dir.Append(roomID, msg); err != nil {
		return Message{}, err
	}
	if draft != nil {
		s.owned = append(s.owned, draft.take())
	}

	s.lastID = msg.ID
	s.log.Debug().Int64("room_id", roomID).Int64("message_id", msg.ID).Str("kind", string(msg.Kind())).Msg("message sent")
	return msg, nil
}

// Close ends the session and releases every preview owned by sent messages.
func (s *Session) Close() error {
	var errs []error
	for _, p := range s.owned {
		if err := p.Release(); err != nil {
			errs = append(errs, err)
		}
	}
	released := len(s.owned)
	s.owned = nil
	if released > 0 {
		s.log.Info().Int("previews", released).Msg("released attachment previews")
	}
	return errors.Join(errs...)
}

// nextID derives an id from the creation time, bumped past the last id so
// ids stay unique when the clock stalls or goes backwards.
func (s *Session) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	return id
}
