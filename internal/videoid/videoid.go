// Package videoid extracts the canonical video identifier from the URL
// shapes YouTube hands out.
package videoid

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURL reports a URL that matches neither recognized shape.
var ErrInvalidURL = errors.New("invalid video URL")

const shortHostMarker = "youtu.be/"

// Parse returns the video identifier embedded in rawURL.
//
// Two shapes are recognized: the short form https://youtu.be/<id>, where the
// identifier runs to the next '?' or the end of the string, and the canonical
// form https://www.youtube.com/watch?v=<id>. Anything else fails with
// ErrInvalidURL. Pure string work, no network.
func Parse(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidURL)
	}

	if idx := strings.Index(trimmed, shortHostMarker); idx >= 0 {
		id := trimmed[idx+len(shortHostMarker):]
		if cut := strings.IndexByte(id, '?'); cut >= 0 {
			id = id[:cut]
		}
		id = strings.TrimSuffix(id, "/")
		if id == "" {
			return "", fmt.Errorf("%w: short form carries no identifier", ErrInvalidURL)
		}
		return id, nil
	}

	if strings.Contains(trimmed, "youtube.com/watch") {
		parsed, err := url.Parse(trimmed)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
		}
		id := parsed.Query().Get("v")
		if id == "" {
			return "", fmt.Errorf("%w: watch URL missing v parameter", ErrInvalidURL)
		}
		return id, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidURL, trimmed)
}
