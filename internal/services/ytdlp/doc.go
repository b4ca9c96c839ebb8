// Package ytdlp wraps the yt-dlp CLI for metadata probing and progressive
// stream downloads. Command execution goes through an Executor so tests can
// substitute a fake.
package ytdlp
