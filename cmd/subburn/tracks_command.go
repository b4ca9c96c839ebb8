package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"subburn/internal/services/ytdlp"
	"subburn/internal/transcript"
	"subburn/internal/videoid"
)

func newTracksCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tracks <url>",
		Short: "List the caption tracks a video offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if _, err := videoid.Parse(args[0]); err != nil {
				return err
			}

			client, err := ytdlp.New(cfg.Tools.YtDlp, 0)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			meta, err := client.Probe(ctx, args[0])
			if err != nil {
				return err
			}

			tracks := transcript.Tracks(meta)
			out := cmd.OutOrStdout()
			if len(tracks) == 0 {
				fmt.Fprintf(out, "%s has no caption tracks\n", meta.ID)
				return nil
			}

			rows := make([][]string, 0, len(tracks))
			for _, track := range tracks {
				rows = append(rows, []string{track.Language, string(track.Kind), track.Name})
			}
			fmt.Fprintf(out, "%s: %s\n", meta.ID, meta.Title)
			writeTable(out, []string{"Language", "Kind", "Name"}, rows)
			return nil
		},
	}
}
