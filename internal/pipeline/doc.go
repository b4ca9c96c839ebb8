// Package pipeline orchestrates a caption burn-in run: identify the video,
// download it, fetch the best caption track, and composite the overlays into
// the output file. Videos without any captions are copied through unchanged.
package pipeline
