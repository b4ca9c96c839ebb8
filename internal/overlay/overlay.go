package overlay

import "subburn/internal/transcript"

// Overlay is one timed text element. The temporal window is [Start, End).
type Overlay struct {
	Text  string
	Start float64
	End   float64
}

// BuildOverlays derives exactly one overlay per renderable cue. Cues without
// a duration get the style's default. When videoDuration is positive,
// windows are clamped to it and cues starting at or past the end are
// dropped; a zero videoDuration (probe unavailable) passes timing through
// unchanged.
func BuildOverlays(cues []transcript.Cue, style Style, videoDuration float64) []Overlay {
	overlays := make([]Overlay, 0, len(cues))
	for _, cue := range cues {
		if cue.Text == "" || cue.Start < 0 {
			continue
		}
		duration := cue.Duration
		if duration <= 0 {
			duration = style.DefaultCueSecs
		}
		start := cue.Start
		end := start + duration
		if videoDuration > 0 {
			if start >= videoDuration {
				continue
			}
			if end > videoDuration {
				end = videoDuration
			}
		}
		if end <= start {
			continue
		}
		overlays = append(overlays, Overlay{Text: cue.Text, Start: start, End: end})
	}
	return overlays
}
