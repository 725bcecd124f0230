package proto

const (
	ProtocolVersion = 1

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventStateChanged     = "state_changed"
	EventSelectionChanged = "selection_changed"
	EventMessageAppended  = "message_appended"
)

// Outbound is the envelope for messages pushed to the presentation layer.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Error describes an error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// User is the current user identity.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// State reports the session lifecycle phase.
type State struct {
	State    string `json:"state"`
	User     User   `json:"user"`
	Protocol int    `json:"protocol"`
	Error    *Error `json:"error,omitempty"`
}

// Participant is a room member.
type Participant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      int    `json:"role"`
	RoleLabel string `json:"role_label"`
}

// Room is a directory entry.
type Room struct {
	ID                   int64         `json:"id"`
	Name                 string        `json:"name"`
	Type                 string        `json:"type"`
	ImageURL             string        `json:"image_url"`
	LastMessage          string        `json:"lastMessage"`
	LastMessageTime      string        `json:"lastMessageTime,omitempty"`
	LastMessageTimeLabel string        `json:"lastMessageTimeLabel,omitempty"`
	UnreadCount          int           `json:"unreadCount"`
	MemberCount          int           `json:"memberCount"`
	Participants         []Participant `json:"participant"`
	Active               bool          `json:"active"`
}

// Media is the attachment of a non-text message.
type Media struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	SizeLabel string `json:"size_label"`
	Duration  *int   `json:"duration,omitempty"`
	Pages     *int   `json:"pages,omitempty"`
}

// Message is one timeline entry with its resolved sender.
type Message struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Message     string `json:"message"`
	Sender      string `json:"sender"`
	SenderName  string `json:"sender_name"`
	SenderRole  string `json:"sender_role"`
	SenderKnown bool   `json:"sender_known"`
	Mine        bool   `json:"mine"`
	Timestamp   string `json:"timestamp,omitempty"`
	TimeLabel   string `json:"time_label,omitempty"`
	Media       *Media `json:"media,omitempty"`
}

// DateSeparator marks where a new calendar day starts in the timeline.
type DateSeparator struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// Gallery groups the media of a conversation for the details panel.
type Gallery struct {
	Media []Message `json:"media"`
	Files []Message `json:"files"`
}

// Conversation is a room with its full timeline.
type Conversation struct {
	Room           Room            `json:"room"`
	Comments       []Message       `json:"comments"`
	DateSeparators []DateSeparator `json:"date_separators"`
	Gallery        Gallery         `json:"gallery"`
}

// Rooms is the directory view response.
type Rooms struct {
	Results []Room `json:"results"`
}

// Selection reports the active conversation after a selection change.
type Selection struct {
	RoomID int64 `json:"room_id"`
	Found  bool  `json:"found"`
}

// Appended notifies that a message was added to a room.
type Appended struct {
	Room    Room    `json:"room"`
	Message Message `json:"message"`
}
