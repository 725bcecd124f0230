package core

import (
	"fmt"
	"strings"
	"time"
)

// KindFilter narrows a directory view to one room kind.
type KindFilter string

const (
	FilterAll    KindFilter = "all"
	FilterGroup  KindFilter = "group"
	FilterSingle KindFilter = "single"
)

// ParseKindFilter accepts "all", "group", "single" and the UI alias
// "contact". An empty string means all.
func ParseKindFilter(raw string) (KindFilter, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return FilterAll, nil
	case "group":
		return FilterGroup, nil
	case "single", "contact":
		return FilterSingle, nil
	default:
		return "", fmt.Errorf("unknown kind filter %q", raw)
	}
}

func (f KindFilter) matches(kind RoomKind) bool {
	switch f {
	case FilterGroup:
		return kind == RoomGroup
	case FilterSingle:
		return kind == RoomSingle
	default:
		return true
	}
}

// Query selects a subset of the directory.
type Query struct {
	Search string
	Kind   KindFilter
}

// Directory owns every conversation of the session, keyed by room id and
// kept in snapshot order.
type Directory struct {
	convs []Conversation
	index map[int64]int
}

// NewDirectory builds a directory. Later duplicates of a room id are ignored.
func NewDirectory(convs []Conversation) *Directory {
	d := &Directory{
		convs: make([]Conversation, 0, len(convs)),
		index: make(map[int64]int, len(convs)),
	}
	for _, c := range convs {
		if _, dup := d.index[c.Room.ID]; dup {
			continue
		}
		d.index[c.Room.ID] = len(d.convs)
		d.convs = append(d.convs, c)
	}
	return d
}

// Len returns the number of conversations.
func (d *Directory) Len() int {
	return len(d.convs)
}

// View returns the conversations whose name contains q.Search
// (case-insensitive) and whose kind matches q.Kind, in directory order.
func (d *Directory) View(q Query) []Conversation {
	needle := strings.ToLower(q.Search)
	out := make([]Conversation, 0, len(d.convs))
	for _, c := range d.convs {
		if !q.Kind.matches(c.Room.Kind) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(c.Room.Name), needle) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Resolve looks up a conversation by room id.
func (d *Directory) Resolve(roomID int64) (Conversation, error) {
	i, ok := d.index[roomID]
	if !ok {
		return Conversation{}, fmt.Errorf("resolve %d: %w", roomID, ErrRoomNotFound)
	}
	return d.convs[i], nil
}

// Append adds msg to the end of the room's timeline and refreshes the room
// summary in the same step. Nothing changes when the room does not exist.
func (d *Directory) Append(roomID int64, msg Message) (Conversation, error) {
	i, ok := d.index[roomID]
	if !ok {
		return Conversation{}, fmt.Errorf("append to %d: %w", roomID, ErrRoomNotFound)
	}
	next := Append(d.convs[i], msg)
	next.Room = withSummary(next.Room, msg.Body, msg.CreatedAt)
	d.convs[i] = next
	return next, nil
}

// updateSummary overwrites the cached summary of one room.
func (d *Directory) updateSummary(roomID int64, lastMessage string, lastMessageTime time.Time) error {
	i, ok := d.index[roomID]
	if !ok {
		return fmt.Errorf("update summary of %d: %w", roomID, ErrRoomNotFound)
	}
	d.convs[i].Room = withSummary(d.convs[i].Room, lastMessage, lastMessageTime)
	return nil
}

func withSummary(r Room, lastMessage string, lastMessageTime time.Time) Room {
	r.lastMessage = lastMessage
	r.lastMessageTime = lastMessageTime
	return r
}
