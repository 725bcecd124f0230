package core

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/wirechat-inbox/internal/attachment"
	"github.com/vovakirdan/wirechat-inbox/internal/store"
)

func TestLoadNormalizesSnapshot(t *testing.T) {
	s, _ := newReadySession(t)

	assert.Equal(t, StateReady, s.State())
	assert.Equal(t, "Tom", s.User().Name, "display name adopted from first room")

	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, int64(42), active.Room.ID)

	// Summary recomputed from the final timeline entry.
	assert.Equal(t, "spec", active.Room.LastMessage())
	assert.True(t, day1.Add(time.Hour).Equal(active.Room.LastMessageTime()))

	doc, ok := active.Timeline[1].Media()
	require.True(t, ok)
	assert.Equal(t, KindDocument, active.Timeline[1].Kind())
	require.NotNil(t, doc.Pages)
	assert.Equal(t, 3, *doc.Pages)

	// Empty timeline keeps the snapshot summary.
	support, err := s.Resolve(7)
	require.NoError(t, err)
	assert.Equal(t, "no comments here", support.Room.LastMessage())

	// Image without media is demoted to text.
	broken, err := s.Resolve(9)
	require.NoError(t, err)
	assert.Equal(t, KindText, broken.Timeline[0].Kind())
}

func TestLoadRefreshesSummariesWithoutWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	s := NewSession(Identity{ID: currentUser}, &logger)
	require.NoError(t, s.Load(testSnapshot()))

	conv, err := s.Resolve(42)
	require.NoError(t, err)
	assert.Equal(t, "spec", conv.Room.LastMessage())
	assert.NotContains(t, buf.String(), "refresh room summary")
}

func TestLoadEmptySnapshot(t *testing.T) {
	for name, snap := range map[string]*store.Snapshot{
		"nil":           nil,
		"empty results": {},
	} {
		t.Run(name, func(t *testing.T) {
			s := NewSession(Identity{ID: currentUser, Name: "Thomas"}, nil)
			require.NoError(t, s.Load(snap))

			assert.Equal(t, StateReady, s.State())
			assert.Empty(t, s.View(Query{}))
			_, ok := s.Active()
			assert.False(t, ok)
			assert.Equal(t, "Thomas", s.User().Name)
		})
	}
}

func TestLoadingRejectsSelectAndSend(t *testing.T) {
	s := NewSession(Identity{ID: currentUser}, nil)

	assert.Equal(t, StateLoading, s.State())
	assert.ErrorIs(t, s.Select(42), ErrNotReady)
	_, err := s.Send(42, "hi", nil)
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = s.SendActive("hi", nil)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Empty(t, s.View(Query{}))
}

func TestFailLeavesEmptyDirectory(t *testing.T) {
	s := NewSession(Identity{ID: currentUser}, nil)
	require.NoError(t, s.Fail(errors.New("connection refused")))

	assert.Equal(t, StateFailed, s.State())
	assert.ErrorIs(t, s.LoadErr(), ErrLoadFailure)
	assert.Empty(t, s.View(Query{}))

	assert.NoError(t, s.Select(42))
	_, err := s.Send(42, "hi", nil)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	assert.ErrorIs(t, s.Load(testSnapshot()), ErrAlreadyLoaded)
	assert.ErrorIs(t, s.Fail(errors.New("again")), ErrAlreadyLoaded)
}

func TestSelect(t *testing.T) {
	s, _ := newReadySession(t)

	require.NoError(t, s.Select(7))
	conv, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, int64(7), conv.Room.ID)

	require.NoError(t, s.Select(1000))
	_, ok = s.Active()
	assert.False(t, ok, "unknown room clears the selection")

	_, err := s.SendActive("hello", nil)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestSendTextRoundTrip(t *testing.T) {
	s, clock := newReadySession(t)

	msg, err := s.Send(42, "hello", nil)
	require.NoError(t, err)

	conv, err := s.Resolve(42)
	require.NoError(t, err)
	last, ok := conv.Last()
	require.True(t, ok)

	assert.Equal(t, msg, last)
	assert.Equal(t, KindText, last.Kind())
	assert.Equal(t, "hello", last.Body)
	assert.Equal(t, currentUser, last.SenderID)
	assert.True(t, clock.Now().Equal(last.CreatedAt))
	_, hasMedia := last.Media()
	assert.False(t, hasMedia)
}

func TestSendUpdatesOnlyTargetAndSummary(t *testing.T) {
	s, clock := newReadySession(t)
	before := map[int64]int{}
	for _, c := range s.View(Query{}) {
		before[c.Room.ID] = len(c.Timeline)
	}

	for i, text := range []string{"one", "  two  ", "three"} {
		clock.Advance(time.Minute)
		msg, err := s.Send(7, text, nil)
		require.NoError(t, err)

		for _, c := range s.View(Query{}) {
			want := before[c.Room.ID]
			if c.Room.ID == 7 {
				want += i + 1
			}
			assert.Len(t, c.Timeline, want, "room %d", c.Room.ID)
		}

		conv, err := s.Resolve(7)
		require.NoError(t, err)
		assert.Equal(t, msg.Body, conv.Room.LastMessage())
		assert.True(t, msg.CreatedAt.Equal(conv.Room.LastMessageTime()))
	}

	conv, _ := s.Resolve(7)
	assert.Equal(t, "  two  ", conv.Timeline[1].Body, "text-only body is kept as typed")
}

func TestSendEmptyIsRejectedWithoutMutation(t *testing.T) {
	s, _ := newReadySession(t)
	before := s.View(Query{})

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := s.Send(42, text, nil)
		assert.ErrorIs(t, err, ErrInvalidCompose)
	}
	assert.Equal(t, before, s.View(Query{}))
}

func TestSendUnknownRoom(t *testing.T) {
	s, _ := newReadySession(t)
	before := s.View(Query{})

	_, err := s.Send(1000, "hello", nil)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.Equal(t, before, s.View(Query{}))
}

func TestMessageIDsStrictlyIncrease(t *testing.T) {
	s, clock := newReadySession(t)

	first, err := s.Send(42, "a", nil)
	require.NoError(t, err)
	second, err := s.Send(42, "b", nil)
	require.NoError(t, err)

	clock.Advance(-time.Hour)
	third, err := s.Send(42, "c", nil)
	require.NoError(t, err)

	assert.Equal(t, clock.Now().Add(time.Hour).UnixMilli(), first.ID)
	assert.Greater(t, second.ID, first.ID)
	assert.Greater(t, third.ID, second.ID)
}

func TestSendAttachmentTransfersOwnership(t *testing.T) {
	s, _ := newReadySession(t)
	reg := attachment.NewRegistry("/media/")

	draft, err := NewDraft(reg, attachment.NewBlob("cat.png", "image/png", []byte("png")))
	require.NoError(t, err)

	msg, err := s.Send(42, "   ", draft)
	require.NoError(t, err)

	assert.Equal(t, KindImage, msg.Kind())
	assert.Equal(t, "cat.png", msg.Body, "empty caption falls back to the filename")
	media, ok := msg.Media()
	require.True(t, ok)
	assert.Equal(t, "cat.png", media.Filename)
	assert.Equal(t, int64(3), media.SizeBytes)
	assert.Equal(t, media.URL, media.Thumbnail)
	assert.Nil(t, media.Pages)
	assert.Nil(t, media.DurationSeconds)

	conv, _ := s.Resolve(42)
	assert.Equal(t, "cat.png", conv.Room.LastMessage())

	assert.True(t, draft.Spent())
	assert.ErrorIs(t, draft.Discard(), ErrDraftSpent)
	_, err = s.Send(42, "again", draft)
	assert.ErrorIs(t, err, ErrDraftSpent)
	assert.Equal(t, 1, reg.Live(), "preview stays alive while the message exists")

	require.NoError(t, s.Close())
	assert.Equal(t, 0, reg.Live())
	require.NoError(t, s.Close(), "second close has nothing left to release")
}

func TestSendAttachmentKeepsCaption(t *testing.T) {
	s, _ := newReadySession(t)
	reg := attachment.NewRegistry("")

	draft, err := NewDraft(reg, attachment.NewBlob("notes.bin", "application/octet-stream", []byte{0}))
	require.NoError(t, err)

	msg, err := s.Send(7, " see attached ", draft)
	require.NoError(t, err)
	assert.Equal(t, KindDocument, msg.Kind())
	assert.Equal(t, "see attached", msg.Body)

	media, _ := msg.Media()
	assert.Empty(t, media.Thumbnail)
}

func TestFailedSendLeavesDraftWithCaller(t *testing.T) {
	s, _ := newReadySession(t)
	reg := attachment.NewRegistry("")

	draft, err := NewDraft(reg, attachment.NewBlob("clip.mp4", "video/mp4", []byte{1}))
	require.NoError(t, err)

	_, err = s.Send(1000, "", draft)
	require.ErrorIs(t, err, ErrRoomNotFound)
	assert.False(t, draft.Spent())

	require.NoError(t, draft.Discard())
	assert.Equal(t, 0, reg.Live())
	assert.ErrorIs(t, draft.Discard(), ErrDraftSpent)
}

func TestToCoreError(t *testing.T) {
	assert.Nil(t, ToCoreError(nil))
	assert.Equal(t, ErrCodeRoomNotFound, ToCoreError(ErrRoomNotFound).Code)
	assert.Equal(t, ErrCodeInvalidCompose, ToCoreError(ErrInvalidCompose).Code)
	assert.Equal(t, ErrCodeNotReady, ToCoreError(ErrNotReady).Code)
	assert.Equal(t, ErrCodeInternal, ToCoreError(errors.New("boom")).Code)
}
