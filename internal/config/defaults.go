package config

const (
	defaultWorkDir            = "~/.local/share/subburn/work"
	defaultLogDir             = "~/.local/share/subburn/logs"
	defaultHistoryPath        = "~/.local/share/subburn/history.db"
	defaultYtDlpBinary        = "yt-dlp"
	defaultFFmpegBinary       = "ffmpeg"
	defaultFFprobeBinary      = "ffprobe"
	defaultLanguage           = "en"
	defaultRequestTimeoutSecs = 30
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"

	// Historical overlay styling carried over from the first release.
	defaultFontSize        = 24
	defaultFontColor       = "white"
	defaultBackgroundColor = "black"
	defaultOutlineColor    = "black"
	defaultOutlineWidth    = 1.5
	defaultAnchor          = "bottom-center"
	defaultCueSeconds      = 5.0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Tools: Tools{
			YtDlp:   defaultYtDlpBinary,
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Transcript: Transcript{
			Language:       defaultLanguage,
			RequestTimeout: defaultRequestTimeoutSecs,
		},
		Style: Style{
			FontSize:        defaultFontSize,
			FontColor:       defaultFontColor,
			BackgroundColor: defaultBackgroundColor,
			OutlineColor:    defaultOutlineColor,
			OutlineWidth:    defaultOutlineWidth,
			Anchor:          defaultAnchor,
			DefaultCueSecs:  defaultCueSeconds,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
