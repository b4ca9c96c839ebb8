package transcript

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"subburn/internal/logging"
	"subburn/internal/services/ytdlp"
)

const maxTrackBytes = 32 << 20

// Fetcher retrieves and decodes the selected caption track.
type Fetcher struct {
	client    *http.Client
	preferred string
	logger    *slog.Logger
}

// NewFetcher builds a Fetcher with the given preferred language and per-request timeout.
func NewFetcher(preferred string, timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		preferred: preferred,
		logger:    logging.NewComponentLogger(logger, "transcript"),
	}
}

// Fetch selects a track from the probed metadata, downloads it, and parses
// it into cues. ErrNoTranscript passes through untouched so the caller can
// take the plain-copy path.
func (f *Fetcher) Fetch(ctx context.Context, meta *ytdlp.Metadata) ([]Cue, TrackInfo, error) {
	tracks := Tracks(meta)
	track, err := Select(tracks, f.preferred)
	if err != nil {
		return nil, TrackInfo{}, err
	}
	if track.Language != f.preferred {
		f.logger.Info("preferred caption language unavailable, using fallback",
			logging.String("preferred", f.preferred),
			logging.String("selected", track.Language),
			logging.String("kind", string(track.Kind)),
		)
	}

	payload, err := f.download(ctx, track.URL)
	if err != nil {
		return nil, TrackInfo{}, fmt.Errorf("fetch caption track %s: %w", track.Language, err)
	}

	cues, err := ParseJSON3(payload)
	if err != nil {
		return nil, TrackInfo{}, err
	}
	f.logger.Info("caption track fetched",
		logging.String("language", track.Language),
		logging.String("kind", string(track.Kind)),
		logging.Int("cues", len(cues)),
	)
	return cues, track, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTrackBytes))
	if err != nil {
		return nil, err
	}
	return body, nil
}
