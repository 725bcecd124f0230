// Package timefmt classifies message timestamps into coarse relative buckets
// and renders them for the room directory and timeline date separators.
package timefmt

import (
	"math"
	"time"
)

const millisPerDay = 24 * 60 * 60 * 1000

// Bucket is a coarse relative-time classification of a timestamp.
type Bucket int

const (
	// Today covers timestamps less than one day old.
	Today Bucket = iota
	// Yesterday covers timestamps one day old.
	Yesterday
	// ThisWeek covers timestamps two to six days old.
	ThisWeek
	// Older covers everything else, including unparseable timestamps.
	Older
)

func (b Bucket) String() string {
	switch b {
	case Today:
		return "today"
	case Yesterday:
		return "yesterday"
	case ThisWeek:
		return "this_week"
	default:
		return "older"
	}
}

// DayDiff returns floor((now - ts) / 24h) measured in milliseconds.
func DayDiff(ts, now time.Time) int {
	delta := now.Sub(ts).Milliseconds()
	return int(math.Floor(float64(delta) / millisPerDay))
}

// Classify maps ts to a bucket relative to now. A zero timestamp is Older.
// Timestamps in the future (clock skew) are Today.
func Classify(ts, now time.Time) Bucket {
	if ts.IsZero() {
		return Older
	}
	switch days := DayDiff(ts, now); {
	case days <= 0:
		return Today
	case days == 1:
		return Yesterday
	case days < 7:
		return ThisWeek
	default:
		return Older
	}
}

// SameDay reports whether a and b fall on the same local calendar date.
// Zero timestamps never match.
func SameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// Parse reads an RFC 3339 timestamp. Malformed input yields the zero time,
// which every function in this package treats as Older / never-same-day.
func Parse(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}
