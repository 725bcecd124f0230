package http

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-inbox/internal/attachment"
	"github.com/vovakirdan/wirechat-inbox/internal/core"
	"github.com/vovakirdan/wirechat-inbox/internal/proto"
	"github.com/vovakirdan/wirechat-inbox/internal/timefmt"
)

// mapper renders core values as wire types. Labels are relative to now.
type mapper struct {
	userID string
	now    func() time.Time
	log    *zerolog.Logger
}

func (m mapper) room(r core.Room, active bool) proto.Room {
	participants := make([]proto.Participant, 0, len(r.Participants))
	for _, p := range r.Participants {
		participants = append(participants, proto.Participant{
			ID:        p.ID,
			Name:      p.Name,
			Role:      int(p.Role),
			RoleLabel: p.Role.String(),
		})
	}

	out := proto.Room{
		ID:           r.ID,
		Name:         r.Name,
		Type:         string(r.Kind),
		ImageURL:     r.ImageURL,
		LastMessage:  r.LastMessage(),
		UnreadCount:  r.UnreadCount,
		MemberCount:  r.MemberCount(),
		Participants: participants,
		Active:       active,
	}
	if ts := r.LastMessageTime(); !ts.IsZero() {
		out.LastMessageTime = ts.Format(time.RFC3339Nano)
		out.LastMessageTimeLabel = timefmt.FormatChatTime(ts, m.now())
	}
	return out
}

func (m mapper) message(conv core.Conversation, msg core.Message) proto.Message {
	sender := core.ResolveSender(conv, msg.SenderID)
	if !sender.Known {
		m.log.Debug().Int64("room_id", conv.Room.ID).Str("sender", msg.SenderID).Msg("sender not in participant list")
	}

	out := proto.Message{
		ID:          msg.ID,
		Type:        string(msg.Kind()),
		Message:     msg.Body,
		Sender:      msg.SenderID,
		SenderName:  sender.Name,
		SenderRole:  sender.Role.String(),
		SenderKnown: sender.Known,
		Mine:        msg.SenderID == m.userID,
		TimeLabel:   timefmt.FormatClock(msg.CreatedAt),
	}
	if !msg.CreatedAt.IsZero() {
		out.Timestamp = msg.CreatedAt.Format(time.RFC3339Nano)
	}
	if media, ok := msg.Media(); ok {
		out.Media = &proto.Media{
			URL:       media.URL,
			Thumbnail: media.Thumbnail,
			Filename:  media.Filename,
			Size:      media.SizeBytes,
			SizeLabel: attachment.FormatSize(media.SizeBytes),
			Duration:  media.DurationSeconds,
			Pages:     media.Pages,
		}
	}
	return out
}

func (m mapper) messages(conv core.Conversation, msgs []core.Message) []proto.Message {
	out := make([]proto.Message, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, m.message(conv, msg))
	}
	return out
}

func (m mapper) conversation(conv core.Conversation, active bool) proto.Conversation {
	now := m.now()
	positions := core.DateSeparatorPositions(conv.Timeline)
	separators := make([]proto.DateSeparator, 0, len(positions))
	for _, i := range positions {
		separators = append(separators, proto.DateSeparator{
			Index: i,
			Label: timefmt.FormatDate(conv.Timeline[i].CreatedAt, now),
		})
	}

	visual, files := core.MediaGallery(conv.Timeline)
	return proto.Conversation{
		Room:           m.room(conv.Room, active),
		Comments:       m.messages(conv, conv.Timeline),
		DateSeparators: separators,
		Gallery: proto.Gallery{
			Media: m.messages(conv, visual),
			Files: m.messages(conv, files),
		},
	}
}

func (m mapper) state(res core.Result) proto.State {
	out := proto.State{
		State:    res.State.String(),
		User:     proto.User{ID: res.User.ID, Name: res.User.Name},
		Protocol: proto.ProtocolVersion,
	}
	if ce := core.ToCoreError(res.Err); ce != nil {
		out.Error = &proto.Error{Code: ce.Code, Msg: ce.Message}
	}
	return out
}

func (m mapper) outbound(ev *core.Event) proto.Outbound {
	switch ev.Kind {
	case core.EventStateChanged:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventStateChanged,
			Data:  proto.State{State: ev.State.String(), Protocol: proto.ProtocolVersion},
		}
	case core.EventSelectionChanged:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventSelectionChanged,
			Data:  proto.Selection{RoomID: ev.RoomID, Found: ev.Found},
		}
	case core.EventMessageAppended:
		conv := core.Conversation{Room: ev.Room}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventMessageAppended,
			Data: proto.Appended{
				Room:    m.room(ev.Room, false),
				Message: m.message(conv, ev.Message),
			},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
