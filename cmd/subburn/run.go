package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"subburn/internal/deps"
	"subburn/internal/history"
	"subburn/internal/pipeline"
	"subburn/internal/services"
)

func runBurn(cmd *cobra.Command, cmdCtx *commandContext, url, outputPath, tempDir string) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := cmdCtx.newLogger()
	if err != nil {
		return err
	}

	statuses := deps.Check(deps.Defaults(cfg))
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, status := range missing {
			names = append(names, status.Name)
		}
		return services.Wrap(services.ErrConfiguration, "preflight", "check binaries",
			"missing required tools: "+strings.Join(names, ", ")+" (run `subburn deps` for details)", nil)
	}

	opts := []pipeline.Option{}
	if cfg.History.Enabled {
		journal, err := history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer journal.Close()
		opts = append(opts, pipeline.WithHistory(journal))
	}

	runner, err := pipeline.New(cfg, logger, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := runner.Run(ctx, pipeline.Request{
		URL:        url,
		OutputPath: outputPath,
		WorkDir:    tempDir,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.PlainCopy {
		fmt.Fprintf(out, "No captions available for %s; saved the video unchanged to %s\n", result.VideoID, result.OutputPath)
		return nil
	}
	fmt.Fprintf(out, "Burned %d captions (%s, %s) into %s\n",
		result.CueCount, result.Track.Language, result.Track.Kind, result.OutputPath)
	return nil
}
