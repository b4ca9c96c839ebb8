package ytdlp

import (
	"strconv"
	"strings"
)

// ProgressUpdate captures a yt-dlp download progress line.
type ProgressUpdate struct {
	Percent float64
	Message string
}

// parseProgress extracts the percentage from lines shaped like
//
//	[download]  42.3% of 10.00MiB at 1.00MiB/s ETA 00:05
func parseProgress(line string) (ProgressUpdate, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[download]") {
		return ProgressUpdate{}, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "[download]"))
	fields := strings.Fields(rest)
	if len(fields) == 0 || !strings.HasSuffix(fields[0], "%") {
		return ProgressUpdate{}, false
	}
	percent, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "%"), 64)
	if err != nil || percent < 0 || percent > 100 {
		return ProgressUpdate{}, false
	}
	return ProgressUpdate{Percent: percent, Message: rest}, true
}
