package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"subburn/internal/history"
)

func newHistoryCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled; enable [history] in the configuration")
			}

			journal, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer journal.Close()

			records, err := journal.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				detail := record.OutputPath
				if record.State == history.StateFailed {
					detail = record.ErrorMessage
				}
				rows = append(rows, []string{
					record.CreatedAt.Local().Format("2006-01-02 15:04"),
					record.VideoID,
					record.TrackLanguage,
					strconv.Itoa(record.CueCount),
					record.State,
					detail,
				})
			}
			writeTable(out, []string{"When", "Video", "Lang", "Cues", "State", "Detail"}, rows, "Cues")
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	return cmd
}
