package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wirechat-inbox/internal/attachment"
	"github.com/vovakirdan/wirechat-inbox/internal/core"
)

func newRoomsCmd(opts *rootOptions) *cobra.Command {
	var search, kind string

	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List conversations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := core.ParseKindFilter(kind)
			if err != nil {
				return err
			}
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			session, err := loadSession(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer session.Close()

			active, _ := session.ActiveID()
			return renderDirectory(cmd.OutOrStdout(), session.View(core.Query{Search: search, Kind: filter}), active, time.Now())
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name filter")
	cmd.Flags().StringVar(&kind, "kind", "all", "room kind: all, group or single")
	return cmd
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <room-id>",
		Short: "Print a conversation timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid room id %q", args[0])
			}
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			session, err := loadSession(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer session.Close()

			conv, err := session.Resolve(roomID)
			if err != nil {
				return err
			}
			return renderConversation(cmd.OutOrStdout(), conv, cfg.UserID, time.Now())
		},
	}
}

func newSendCmd(opts *rootOptions) *cobra.Command {
	var text, file string

	cmd := &cobra.Command{
		Use:   "send <room-id>",
		Short: "Compose a message against the snapshot and print the resulting timeline",
		Long: "Compose a message against the snapshot and print the resulting timeline.\n" +
			"The snapshot source is read-only, so nothing is written back.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid room id %q", args[0])
			}
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			limit, err := cfg.AttachmentLimit()
			if err != nil {
				return err
			}
			session, err := loadSession(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer session.Close()

			var draft *core.Draft
			if file != "" {
				blob, err := attachment.OpenFile(file, limit)
				if err != nil {
					return err
				}
				draft, err = core.NewDraft(attachment.NewRegistry(attachment.DefaultPrefix), blob)
				if err != nil {
					return err
				}
			}

			if _, err := session.Send(roomID, text, draft); err != nil {
				if draft != nil {
					_ = draft.Discard()
				}
				return err
			}
			conv, err := session.Resolve(roomID)
			if err != nil {
				return err
			}
			return renderConversation(cmd.OutOrStdout(), conv, cfg.UserID, time.Now())
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "message text")
	cmd.Flags().StringVar(&file, "file", "", "path of a file to attach")
	return cmd
}
