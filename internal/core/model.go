package core

import (
	"time"

	"github.com/vovakirdan/wirechat-inbox/internal/attachment"
)

// Role is the integer-coded tier of a participant. Lower values rank higher.
type Role int

const (
	RoleAdmin Role = iota
	RoleAgent
	RoleMember
)

// RoleLowest is assigned to placeholder participants.
const RoleLowest = RoleMember

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleAgent:
		return "Agent"
	default:
		return "Member"
	}
}

// Participant is a member of a room. Immutable once loaded.
type Participant struct {
	ID   string
	Name string
	Role Role
}

// RoomKind distinguishes group rooms from one-to-one rooms.
type RoomKind string

const (
	RoomGroup  RoomKind = "group"
	RoomSingle RoomKind = "single"
)

// Room is the directory entry of a conversation. LastMessage and
// LastMessageTime are a cached summary of the timeline's final entry and can
// only change through Directory.Append.
type Room struct {
	ID           int64
	Name         string
	Kind         RoomKind
	ImageURL     string
	Participants []Participant
	UnreadCount  int

	lastMessage     string
	lastMessageTime time.Time
}

// LastMessage returns the body of the most recent message.
func (r Room) LastMessage() string { return r.lastMessage }

// LastMessageTime returns when the most recent message was created.
func (r Room) LastMessageTime() time.Time { return r.lastMessageTime }

// MemberCount returns the number of participants.
func (r Room) MemberCount() int { return len(r.Participants) }

// Participant looks up a member by id.
func (r Room) Participant(id string) (Participant, bool) {
	for _, p := range r.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// Media describes the attachment of a non-text message.
type Media struct {
	URL             string
	Thumbnail       string
	Filename        string
	SizeBytes       int64
	Pages           *int
	DurationSeconds *int
}

// Kind is the content kind of a message.
type Kind string

const (
	KindText     Kind = "text"
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
)

// Content is the payload of a message: Text, Image, Video or Document.
// The set is closed; only this package can add variants.
type Content interface {
	Kind() Kind
	sealed()
}

// Text is the payload of a plain text message.
type Text struct{}

// Image is the payload of an image message.
type Image struct{ Media Media }

// Video is the payload of a video message.
type Video struct{ Media Media }

// Document is the payload of any other attachment.
type Document struct{ Media Media }

func (Text) Kind() Kind     { return KindText }
func (Image) Kind() Kind    { return KindImage }
func (Video) Kind() Kind    { return KindVideo }
func (Document) Kind() Kind { return KindDocument }

func (Text) sealed()     {}
func (Image) sealed()    {}
func (Video) sealed()    {}
func (Document) sealed() {}

// attachmentContent builds the payload for an attachment of the given kind.
func attachmentContent(kind attachment.Kind, media Media) Content {
	switch kind {
	case attachment.KindImage:
		return Image{Media: media}
	case attachment.KindVideo:
		return Video{Media: media}
	default:
		return Document{Media: media}
	}
}

// Message is one immutable timeline entry.
type Message struct {
	ID        int64
	Body      string
	SenderID  string
	CreatedAt time.Time
	Content   Content
}

// Kind returns the content kind; a message without content is text.
func (m Message) Kind() Kind {
	if m.Content == nil {
		return KindText
	}
	return m.Content.Kind()
}

// Media returns the attachment, present iff the message is not text.
func (m Message) Media() (Media, bool) {
	switch c := m.Content.(type) {
	case Image:
		return c.Media, true
	case Video:
		return c.Media, true
	case Document:
		return c.Media, true
	default:
		return Media{}, false
	}
}

// Conversation is a room plus its ordered timeline.
type Conversation struct {
	Room     Room
	Timeline []Message
}

// Last returns the final timeline entry.
func (c Conversation) Last() (Message, bool) {
	if len(c.Timeline) == 0 {
		return Message{}, false
	}
	return c.Timeline[len(c.Timeline)-1], true
}
