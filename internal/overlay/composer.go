package overlay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"subburn/internal/fileutil"
	"subburn/internal/logging"
	"subburn/internal/transcript"
)

// Executor abstracts ffmpeg invocation for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

// Option configures the composer.
type Option func(*Composer)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(executor Executor) Option {
	return func(c *Composer) {
		if executor != nil {
			c.exec = executor
		}
	}
}

// Composer burns caption overlays into a video file with ffmpeg.
type Composer struct {
	binary string
	style  Style
	logger *slog.Logger
	exec   Executor
}

// NewComposer constructs a composer around the given ffmpeg binary.
func NewComposer(binary string, style Style, logger *slog.Logger, opts ...Option) (*Composer, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	composer := &Composer{
		binary: binary,
		style:  style,
		logger: logging.NewComponentLogger(logger, "overlay"),
		exec:   ffmpegExecutor{},
	}
	for _, opt := range opts {
		opt(composer)
	}
	return composer, nil
}

// Compose derives one overlay per cue and encodes the composite to
// outputPath (libx264, audio copied). The filter script is a temporary file
// released on every path. When clamping eliminates every overlay the input
// is copied through verified instead of re-encoded.
func (c *Composer) Compose(ctx context.Context, videoPath string, cues []transcript.Cue, videoDuration float64, outputPath string) error {
	if strings.TrimSpace(videoPath) == "" {
		return errors.New("video path required")
	}
	if strings.TrimSpace(outputPath) == "" {
		return errors.New("output path required")
	}

	overlays := BuildOverlays(cues, c.style, videoDuration)
	if len(overlays) == 0 {
		c.logger.Warn("no overlay fits the video window, copying source through",
			logging.Int("cues", len(cues)),
			logging.Float64("video_duration", videoDuration),
		)
		return fileutil.CopyFileVerified(videoPath, outputPath)
	}

	script, err := os.CreateTemp("", "subburn-filter-*.txt")
	if err != nil {
		return fmt.Errorf("create filter script: %w", err)
	}
	scriptPath := script.Name()
	defer os.Remove(scriptPath)

	if _, err := script.WriteString(buildFilterScript(overlays, c.style)); err != nil {
		_ = script.Close()
		return fmt.Errorf("write filter script: %w", err)
	}
	if err := script.Close(); err != nil {
		return fmt.Errorf("close filter script: %w", err)
	}

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-filter_complex_script", scriptPath,
		"-map", "[vout]",
		"-map", "0:a?",
		"-c:v", "libx264", "-preset", "fast", "-crf", "23", "-pix_fmt", "yuv420p",
		"-c:a", "copy",
		"-movflags", "+faststart",
		outputPath,
	}

	c.logger.Info("compositing captions",
		logging.Int("overlays", len(overlays)),
		logging.String("input", videoPath),
		logging.String("output", outputPath),
	)
	if err := c.exec.Run(ctx, c.binary, args); err != nil {
		return fmt.Errorf("ffmpeg compose: %w", err)
	}
	return nil
}

type ffmpegExecutor struct{}

func (ffmpegExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if len(detail) > 2048 {
			detail = detail[len(detail)-2048:]
		}
		if detail != "" {
			return fmt.Errorf("%w: %s", err, detail)
		}
		return err
	}
	return nil
}
