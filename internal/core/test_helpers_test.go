package core

import (
	"testing"
	"time"

	"github.com/vovakirdan/wirechat-inbox/internal/store"
)

const currentUser = "customer@mail.com"

var day1 = time.Date(2024, time.March, 14, 10, 0, 0, 0, time.Local)

func intPtr(v int) *int { return &v }

// testSnapshot has a group room 42, a single room 7 and a group room 9.
func testSnapshot() *store.Snapshot {
	return &store.Snapshot{Results: []store.ChatData{
		{
			Room: store.Room{
				ID:   42,
				Name: "Product A Launch",
				Type: "group",
				Participants: []store.Participant{
					{ID: "admin@mail.com", Name: "Admin", Role: 0},
					{ID: "agent@mail.com", Name: "Agent", Role: 1},
					{ID: currentUser, Name: "Tom", Role: 2},
				},
				LastMessage:     "stale",
				LastMessageTime: "2020-01-01T00:00:00Z",
				UnreadCount:     2,
			},
			Comments: []store.Comment{
				{ID: 1, Type: "text", Message: "hello", Sender: "admin@mail.com", Timestamp: day1.Format(time.RFC3339)},
				{ID: 2, Type: "pdf", Message: "spec", Sender: "agent@mail.com", Timestamp: day1.Add(time.Hour).Format(time.RFC3339),
					Media: &store.Media{URL: "https://example.com/spec.pdf", Filename: "spec.pdf", Size: 2048, Pages: intPtr(3)}},
			},
		},
		{
			Room: store.Room{
				ID:              7,
				Name:            "Support Desk",
				Type:            "single",
				Participants:    []store.Participant{{ID: "agent@mail.com", Name: "Agent", Role: 1}},
				LastMessage:     "no comments here",
				LastMessageTime: "2024-03-10T09:00:00Z",
			},
		},
		{
			Room: store.Room{ID: 9, Name: "product b", Type: "group"},
			Comments: []store.Comment{
				{ID: 3, Type: "image", Message: "broken", Sender: "ghost@mail.com", Timestamp: day1.Format(time.RFC3339)},
			},
		},
	}}
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newReadySession(t *testing.T) (*Session, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: day1.Add(24 * time.Hour)}
	s := NewSession(Identity{ID: currentUser, Name: "Thomas"}, nil, WithClock(clock.Now))
	if err := s.Load(testSnapshot()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s, clock
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}
