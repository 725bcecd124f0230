package core

import "github.com/vovakirdan/wirechat-inbox/internal/store"

// CommandKind describes what the presentation layer wants to do.
type CommandKind int

const (
	// CommandLoaded delivers the outcome of the startup fetch.
	CommandLoaded CommandKind = iota
	// CommandState asks for the lifecycle phase and current user.
	CommandState
	// CommandView asks for a filtered directory view.
	CommandView
	// CommandResolve asks for a single conversation.
	CommandResolve
	// CommandActive asks for the selected conversation.
	CommandActive
	// CommandSelect changes the selected conversation.
	CommandSelect
	// CommandSend composes and appends a message.
	CommandSend
)

// Command represents an action requested by a client.
type Command struct {
	Kind     CommandKind
	RoomID   int64
	Query    Query
	Text     string
	Draft    *Draft
	Snapshot *store.Snapshot
	Err      error

	reply chan Result
}

// Result is the hub's answer to a command.
type Result struct {
	State         State
	User          Identity
	Conversations []Conversation
	Conversation  Conversation
	Found         bool
	ActiveID      int64
	HasActive     bool
	Message       Message
	Err           error
}
