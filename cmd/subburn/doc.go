// Command subburn downloads a YouTube video, fetches its caption track, and
// burns the captions into the picture with ffmpeg.
package main
