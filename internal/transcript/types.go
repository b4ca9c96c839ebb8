package transcript

import "errors"

// Cue is one subtitle unit. Start and Duration are seconds from the start of
// the video; Duration stays zero when the source omits it, and the overlay
// layer substitutes the configured default.
type Cue struct {
	Text     string
	Start    float64
	Duration float64
}

// Kind distinguishes manually authored tracks from speech-recognition output.
type Kind string

const (
	KindManual    Kind = "manual"
	KindAutomatic Kind = "automatic"
)

// TrackInfo describes one selectable caption track.
type TrackInfo struct {
	Language string
	Name     string
	Kind     Kind
	URL      string
}

var (
	// ErrNoTranscript reports that the video carries no caption tracks at
	// all (disabled or never authored). Non-fatal for the pipeline.
	ErrNoTranscript = errors.New("no transcript available")

	// ErrLanguageUnavailable reports that the preferred language has no
	// track. Always recovered internally by falling back to any track.
	ErrLanguageUnavailable = errors.New("transcript language unavailable")
)
