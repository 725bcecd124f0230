package core

// EventKind is a notification the core emits to subscribers.
type EventKind int

const (
	// EventStateChanged notifies that loading finished or failed.
	EventStateChanged EventKind = iota
	// EventSelectionChanged notifies that the active conversation changed.
	EventSelectionChanged
	// EventMessageAppended notifies that a message was added to a timeline.
	EventMessageAppended
)

func (k EventKind) String() string {
	switch k {
	case EventStateChanged:
		return "state_changed"
	case EventSelectionChanged:
		return "selection_changed"
	default:
		return "message_appended"
	}
}

// Event describes what happened in the session.
type Event struct {
	Kind    EventKind
	State   State
	RoomID  int64
	Found   bool
	Room    Room    // summary after EventMessageAppended
	Message Message // for EventMessageAppended
}
