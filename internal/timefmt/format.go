package timefmt

import "time"

// FormatChatTime renders ts for a directory entry: clock time for today,
// "Yesterday", a short weekday within the week, otherwise day and month.
func FormatChatTime(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	local := ts.Local()
	switch Classify(ts, now) {
	case Today:
		return local.Format("15:04")
	case Yesterday:
		return "Yesterday"
	case ThisWeek:
		return local.Format("Mon")
	default:
		return local.Format("2 Jan")
	}
}

// FormatDate renders the label of a timeline date separator.
func FormatDate(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	if SameDay(ts, now) {
		return "Today"
	}
	if SameDay(ts, now.AddDate(0, 0, -1)) {
		return "Yesterday"
	}
	return ts.Local().Format("Monday, 2 January 2006")
}

// FormatClock renders the wall-clock time shown on a message bubble.
func FormatClock(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Local().Format("15:04")
}
