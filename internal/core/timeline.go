package core

import (
	"slices"

	"github.com/vovakirdan/wirechat-inbox/internal/timefmt"
)

// Append returns conv with msg added at the end of its timeline. Order is
// insertion order; timestamps are never used to re-sort. The input
// conversation's timeline is left untouched.
func Append(conv Conversation, msg Message) Conversation {
	conv.Timeline = append(slices.Clip(conv.Timeline), msg)
	return conv
}

// Sender is the resolved author of a message. Known is false when the id was
// missing from the room and a placeholder was synthesized.
type Sender struct {
	Participant
	Known bool
}

// UnknownSenderName is shown for senders absent from the participant list.
const UnknownSenderName = "Unknown"

// ResolveSender finds senderID among the room's participants, falling back to
// a placeholder so there is always something to display.
func ResolveSender(conv Conversation, senderID string) Sender {
	if p, ok := conv.Room.Participant(senderID); ok {
		return Sender{Participant: p, Known: true}
	}
	return Sender{
		Participant: Participant{ID: senderID, Name: UnknownSenderName, Role: RoleLowest},
	}
}

// DateSeparatorPositions returns the indices that start a new calendar day:
// always 0 for a non-empty timeline, then every i whose message falls on a
// different day than message i-1.
func DateSeparatorPositions(timeline []Message) []int {
	if len(timeline) == 0 {
		return nil
	}
	positions := []int{0}
	for i := 1; i < len(timeline); i++ {
		if !timefmt.SameDay(timeline[i].CreatedAt, timeline[i-1].CreatedAt) {
			positions = append(positions, i)
		}
	}
	return positions
}

// MediaGallery splits the timeline into visual media (images first, then
// videos) and documents, each in timeline order.
func MediaGallery(timeline []Message) (visual, documents []Message) {
	var videos []Message
	for _, m := range timeline {
		switch m.Content.(type) {
		case Image:
			visual = append(visual, m)
		case Video:
			videos = append(videos, m)
		case Document:
			documents = append(documents, m)
		}
	}
	return append(visual, videos...), documents
}
