// Package ffprobe wraps ffprobe JSON inspection for the downloaded asset.
// The pipeline uses the reported duration to clamp overlay windows.
package ffprobe
