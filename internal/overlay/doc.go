// Package overlay maps caption cues onto timed drawtext overlays and burns
// them into the video through ffmpeg.
package overlay
