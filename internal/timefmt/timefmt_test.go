package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundaries(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		ts   time.Time
		want Bucket
	}{
		{"same instant", now, Today},
		{"just under a day", now.Add(-23*time.Hour - 59*time.Minute), Today},
		{"exactly one day", now.Add(-24 * time.Hour), Yesterday},
		{"two days", now.Add(-48 * time.Hour), ThisWeek},
		{"six days", now.Add(-6*24*time.Hour - time.Hour), ThisWeek},
		{"seven days", now.Add(-7 * 24 * time.Hour), Older},
		{"future skew", now.Add(2 * time.Hour), Today},
		{"zero time", time.Time{}, Older},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ts, now))
		})
	}
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2024, time.March, 15, 0, 5, 0, 0, time.Local)
	evening := time.Date(2024, time.March, 15, 23, 55, 0, 0, time.Local)
	next := time.Date(2024, time.March, 16, 0, 1, 0, 0, time.Local)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(evening, next))
	assert.False(t, SameDay(time.Time{}, morning))
	assert.False(t, SameDay(time.Time{}, time.Time{}))
}

func TestParseMalformed(t *testing.T) {
	assert.True(t, Parse("not a date").IsZero())
	assert.True(t, Parse("").IsZero())

	ts := Parse("2024-03-15T10:00:00Z")
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, Older, Classify(Parse("garbage"), time.Now()))
}

func TestFormatChatTime(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)

	assert.Equal(t, "09:30", FormatChatTime(time.Date(2024, time.March, 15, 9, 30, 0, 0, time.Local), now))
	assert.Equal(t, "Yesterday", FormatChatTime(now.Add(-30*time.Hour), now))
	assert.Equal(t, "Tue", FormatChatTime(time.Date(2024, time.March, 12, 9, 0, 0, 0, time.Local), now))
	assert.Equal(t, "1 Feb", FormatChatTime(time.Date(2024, time.February, 1, 9, 0, 0, 0, time.Local), now))
	assert.Equal(t, "", FormatChatTime(time.Time{}, now))
}

func TestFormatDate(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local)

	assert.Equal(t, "Today", FormatDate(now.Add(-time.Hour), now))
	assert.Equal(t, "Yesterday", FormatDate(time.Date(2024, time.March, 14, 8, 0, 0, 0, time.Local), now))
	assert.Equal(t, "Sunday, 10 March 2024", FormatDate(time.Date(2024, time.March, 10, 8, 0, 0, 0, time.Local), now))
}
