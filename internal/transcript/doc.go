// Package transcript turns the caption track maps reported by yt-dlp into an
// ordered sequence of timed cues.
//
// Track selection prefers manually authored tracks over automatic ones and
// the configured language over any other, falling back to whatever the
// platform offers. Absence of any track is a distinguishable, non-fatal
// outcome (ErrNoTranscript); the pipeline answers it with a plain copy.
package transcript
