package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Participant is a room member as it appears in the startup snapshot.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role int    `json:"role"`
}

// Room is the directory entry of a conversation in the snapshot.
type Room struct {
	ID              int64         `json:"id"`
	Name            string        `json:"name"`
	Type            string        `json:"type"` // "group" or "single"
	ImageURL        string        `json:"image_url"`
	LastMessage     string        `json:"lastMessage"`
	LastMessageTime string        `json:"lastMessageTime"`
	UnreadCount     int           `json:"unreadCount"`
	Participants    []Participant `json:"participant"`
}

// Media holds the attachment fields of a non-text comment.
type Media struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	Duration  *int   `json:"duration,omitempty"`
	Pages     *int   `json:"pages,omitempty"`
}

// Comment is a single timeline entry in the snapshot.
type Comment struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"` // "text", "image", "video", "pdf"/"document"
	Message   string `json:"message"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	Media     *Media `json:"media,omitempty"`
}

// ChatData pairs a room with its comments.
type ChatData struct {
	Room     Room      `json:"room"`
	Comments []Comment `json:"comments"`
}

// Snapshot is the one-shot directory payload read at session start.
type Snapshot struct {
	Results []ChatData `json:"results"`
}

// Source yields the startup snapshot.
type Source interface {
	// Snapshot reads the full directory. It may block arbitrarily long.
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Decode parses a JSON snapshot. A document without results decodes to an
// empty snapshot rather than an error.
func Decode(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		if err == io.EOF {
			return &Snapshot{}, nil
		}
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
