package main

import (
	"github.com/spf13/cobra"
)

const defaultOutputName = "output_with_captions.mp4"

func newRootCommand() *cobra.Command {
	var (
		configFlag    string
		languageFlag  string
		logLevelFlag  string
		logFormatFlag string
		outputFlag    string
		tempDirFlag   string
	)

	ctx := newCommandContext(&configFlag, &languageFlag, &logLevelFlag, &logFormatFlag)

	rootCmd := &cobra.Command{
		Use:           "subburn <url>",
		Short:         "Burn YouTube captions into the video",
		Long:          "subburn downloads a YouTube video, fetches its caption track, and renders the captions onto the picture. Videos without captions are saved unchanged.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runBurn(cmd, ctx, args[0], outputFlag, tempDirFlag)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&languageFlag, "language", "l", "", "Preferred caption language (BCP-47, e.g. en, pt-BR)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format (console, json)")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", defaultOutputName, "Output video path")
	rootCmd.Flags().StringVarP(&tempDirFlag, "temp-dir", "t", "", "Working directory for downloads (kept after the run)")

	rootCmd.AddCommand(newTracksCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newDepsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
