package config

import (
	"errors"
	"fmt"
)

var validAnchors = map[string]struct{}{
	"bottom-center": {},
	"bottom-left":   {},
	"bottom-right":  {},
	"top-center":    {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateTranscript(); err != nil {
		return err
	}
	if err := c.validateStyle(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTools() error {
	if c.Tools.YtDlp == "" {
		return errors.New("tools.yt_dlp must be set")
	}
	if c.Tools.FFmpeg == "" {
		return errors.New("tools.ffmpeg must be set")
	}
	if c.Tools.FFprobe == "" {
		return errors.New("tools.ffprobe must be set")
	}
	return nil
}

func (c *Config) validateTranscript() error {
	if c.Transcript.Language == "" {
		return errors.New("transcript.language must be set")
	}
	if c.Transcript.RequestTimeout <= 0 {
		return errors.New("transcript.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateStyle() error {
	if c.Style.FontSize <= 0 {
		return errors.New("style.font_size must be positive")
	}
	if c.Style.OutlineWidth < 0 {
		return errors.New("style.outline_width must not be negative")
	}
	if c.Style.DefaultCueSecs <= 0 {
		return errors.New("style.default_cue_seconds must be positive")
	}
	if c.Style.FontColor == "" || c.Style.BackgroundColor == "" || c.Style.OutlineColor == "" {
		return errors.New("style colors must not be empty")
	}
	if _, ok := validAnchors[c.Style.Anchor]; !ok {
		return fmt.Errorf("style.anchor: unsupported value %q", c.Style.Anchor)
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && c.History.Path == "" {
		return errors.New("history.path must be set when history is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
