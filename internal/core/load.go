package core

import (
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-inbox/internal/store"
	"github.com/vovakirdan/wirechat-inbox/internal/timefmt"
)

// conversationsFromSnapshot maps snapshot records to domain conversations and
// returns the highest message id seen. Records that would break the model
// invariants are repaired and logged.
func conversationsFromSnapshot(snap *store.Snapshot, logger *zerolog.Logger) ([]Conversation, int64) {
	if snap == nil {
		return nil, 0
	}

	var maxID int64
	convs := make([]Conversation, 0, len(snap.Results))
	for _, data := range snap.Results {
		room := roomFromRecord(data.Room, logger)
		timeline := make([]Message, 0, len(data.Comments))
		for _, c := range data.Comments {
			msg := messageFromRecord(room.ID, c, logger)
			if msg.ID > maxID {
				maxID = msg.ID
			}
			timeline = append(timeline, msg)
		}
		convs = append(convs, Conversation{Room: room, Timeline: timeline})
	}
	return convs, maxID
}

func roomFromRecord(r store.Room, logger *zerolog.Logger) Room {
	kind := RoomKind(r.Type)
	if kind != RoomGroup && kind != RoomSingle {
		logger.Warn().Int64("room_id", r.ID).Str("type", r.Type).Msg("unknown room type, treating as single")
		kind = RoomSingle
	}

	participants := make([]Participant, 0, len(r.Participants))
	for _, p := range r.Participants {
		participants = append(participants, Participant{ID: p.ID, Name: p.Name, Role: Role(p.Role)})
	}

	unread := r.UnreadCount
	if unread < 0 {
		unread = 0
	}

	room := Room{
		ID:           r.ID,
		Name:         r.Name,
		Kind:         kind,
		ImageURL:     r.ImageURL,
		Participants: participants,
		UnreadCount:  unread,
	}
	return withSummary(room, r.LastMessage, timefmt.Parse(r.LastMessageTime))
}

func messageFromRecord(roomID int64, c store.Comment, logger *zerolog.Logger) Message {
	msg := Message{
		ID:        c.ID,
		Body:      c.Message,
		SenderID:  c.Sender,
		CreatedAt: timefmt.Parse(c.Timestamp),
		Content:   Text{},
	}

	if c.Type == "text" || c.Type == "" {
		if c.Media != nil {
			logger.Warn().Int64("room_id", roomID).Int64("message_id", c.ID).Msg("dropping media on text message")
		}
		return msg
	}
	if c.Media == nil {
		logger.Warn().Int64("room_id", roomID).Int64("message_id", c.ID).Str("type", c.Type).Msg("media message without media, treating as text")
		return msg
	}

	media := Media{
		URL:             c.Media.URL,
		Thumbnail:       c.Media.Thumbnail,
		Filename:        c.Media.Filename,
		SizeBytes:       c.Media.Size,
		Pages:           c.Media.Pages,
		DurationSeconds: c.Media.Duration,
	}
	switch c.Type {
	case "image":
		msg.Content = Image{Media: media}
	case "video":
		msg.Content = Video{Media: media}
	default:
		msg.Content = Document{Media: media}
	}
	return msg
}
