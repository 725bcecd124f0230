package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/vovakirdan/wirechat-inbox/internal/attachment"
	"github.com/vovakirdan/wirechat-inbox/internal/core"
	"github.com/vovakirdan/wirechat-inbox/internal/timefmt"
)

func renderDirectory(w io.Writer, convs []core.Conversation, active int64, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tKIND\tNAME\tMEMBERS\tUNREAD\tLAST")
	for _, c := range convs {
		marker := ""
		if c.Room.ID == active {
			marker = "*"
		}
		last := c.Room.LastMessage()
		if ts := c.Room.LastMessageTime(); !ts.IsZero() {
			last = timefmt.FormatChatTime(ts, now) + "  " + last
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\t%d\t%s\n",
			marker, c.Room.ID, c.Room.Kind, c.Room.Name, c.Room.MemberCount(), c.Room.UnreadCount, last)
	}
	return tw.Flush()
}

func renderConversation(w io.Writer, conv core.Conversation, userID string, now time.Time) error {
	if _, err := fmt.Fprintf(w, "%s (%s, %d members)\n", conv.Room.Name, conv.Room.Kind, conv.Room.MemberCount()); err != nil {
		return err
	}

	separators := make(map[int]struct{})
	for _, i := range core.DateSeparatorPositions(conv.Timeline) {
		separators[i] = struct{}{}
	}

	for i, msg := range conv.Timeline {
		if _, ok := separators[i]; ok {
			fmt.Fprintf(w, "\n-- %s --\n", timefmt.FormatDate(msg.CreatedAt, now))
		}

		sender := core.ResolveSender(conv, msg.SenderID)
		name := sender.Name
		if msg.SenderID == userID {
			name = "You"
		}
		clock := timefmt.FormatClock(msg.CreatedAt)
		if clock == "" {
			clock = "--:--"
		}

		line := fmt.Sprintf("[%s] %s (%s): %s", clock, name, sender.Role, msg.Body)
		if media, ok := msg.Media(); ok {
			line += fmt.Sprintf(" [%s %s %s]", msg.Kind(), media.Filename, attachment.FormatSize(media.SizeBytes))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
