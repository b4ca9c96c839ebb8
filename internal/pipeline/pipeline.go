package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"subburn/internal/config"
	"subburn/internal/fileutil"
	"subburn/internal/history"
	"subburn/internal/logging"
	"subburn/internal/media/ffprobe"
	"subburn/internal/overlay"
	"subburn/internal/services"
	"subburn/internal/services/ytdlp"
	"subburn/internal/transcript"
	"subburn/internal/videoid"
)

// Stage names used in error detail and structured logs.
const (
	stageIdentify   = "identify"
	stageFetch      = "fetch"
	stageTranscript = "transcript"
	stageCompose    = "compose"
)

// VideoFetcher probes and downloads the remote video.
type VideoFetcher interface {
	Probe(ctx context.Context, url string) (*ytdlp.Metadata, error)
	Download(ctx context.Context, url, destDir string, progress func(ytdlp.ProgressUpdate)) (string, error)
}

// TranscriptFetcher selects, downloads, and parses the caption track.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, meta *ytdlp.Metadata) ([]transcript.Cue, transcript.TrackInfo, error)
}

// Composer burns cues into the video.
type Composer interface {
	Compose(ctx context.Context, videoPath string, cues []transcript.Cue, videoDuration float64, outputPath string) error
}

// DurationProber measures the downloaded file. Failures are non-fatal; the
// pipeline logs them and composes without clamping.
type DurationProber func(ctx context.Context, path string) (float64, error)

// Request describes one run.
type Request struct {
	URL        string
	OutputPath string
	// WorkDir overrides the scratch directory. User-supplied directories
	// survive the run; an empty value selects an auto-removed temp dir.
	WorkDir string
}

// Result summarizes a finished run.
type Result struct {
	RunID      string
	VideoID    string
	Title      string
	State      State
	OutputPath string
	Track      transcript.TrackInfo
	CueCount   int
	// PlainCopy reports that the video was saved without overlays because
	// no caption track exists.
	PlainCopy bool
}

// Option configures the pipeline.
type Option func(*Pipeline)

// WithVideoFetcher replaces the yt-dlp client (primarily for tests).
func WithVideoFetcher(fetcher VideoFetcher) Option {
	return func(p *Pipeline) {
		if fetcher != nil {
			p.videos = fetcher
		}
	}
}

// WithTranscriptFetcher replaces the caption fetcher.
func WithTranscriptFetcher(fetcher TranscriptFetcher) Option {
	return func(p *Pipeline) {
		if fetcher != nil {
			p.transcripts = fetcher
		}
	}
}

// WithComposer replaces the ffmpeg composer.
func WithComposer(composer Composer) Option {
	return func(p *Pipeline) {
		if composer != nil {
			p.composer = composer
		}
	}
}

// WithDurationProber replaces the ffprobe measurement.
func WithDurationProber(prober DurationProber) Option {
	return func(p *Pipeline) {
		if prober != nil {
			p.probeDuration = prober
		}
	}
}

// WithHistory attaches a run journal. Nil disables recording.
func WithHistory(store *history.Store) Option {
	return func(p *Pipeline) {
		p.journal = store
	}
}

// Pipeline coordinates the stages of a caption burn-in run.
type Pipeline struct {
	cfg           *config.Config
	logger        *slog.Logger
	videos        VideoFetcher
	transcripts   TranscriptFetcher
	composer      Composer
	probeDuration DurationProber
	journal       *history.Store
}

// New wires the default collaborators from configuration. Options override
// individual collaborators.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	pipeline := &Pipeline{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
	for _, opt := range opts {
		opt(pipeline)
	}

	if pipeline.videos == nil {
		client, err := ytdlp.New(cfg.Tools.YtDlp, 0)
		if err != nil {
			return nil, fmt.Errorf("yt-dlp client: %w", err)
		}
		pipeline.videos = client
	}
	if pipeline.transcripts == nil {
		timeout := time.Duration(cfg.Transcript.RequestTimeout) * time.Second
		pipeline.transcripts = transcript.NewFetcher(cfg.Transcript.Language, timeout, logger)
	}
	if pipeline.composer == nil {
		composer, err := overlay.NewComposer(cfg.Tools.FFmpeg, overlay.StyleFromConfig(cfg.Style), logger)
		if err != nil {
			return nil, fmt.Errorf("overlay composer: %w", err)
		}
		pipeline.composer = composer
	}
	if pipeline.probeDuration == nil {
		binary := cfg.Tools.FFprobe
		pipeline.probeDuration = func(ctx context.Context, path string) (float64, error) {
			result, err := ffprobe.Inspect(ctx, binary, path)
			if err != nil {
				return 0, err
			}
			return result.DurationSeconds(), nil
		}
	}
	return pipeline, nil
}

// Run executes the pipeline for one URL. The returned Result is valid even
// on failure; its State is then StateFailed.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	result := Result{RunID: uuid.NewString(), State: StateInit}
	ctx = services.WithRequestID(ctx, result.RunID)

	if strings.TrimSpace(req.OutputPath) == "" {
		return p.fail(ctx, req, result, services.Wrap(services.ErrValidation, stageIdentify, "request", "output path required", nil))
	}

	id, err := videoid.Parse(req.URL)
	if err != nil {
		return p.fail(ctx, req, result, services.Wrap(services.ErrValidation, stageIdentify, "parse url", req.URL, err))
	}
	result.VideoID = id
	ctx = services.WithVideoID(ctx, id)
	p.transition(ctx, &result, StateIdentifierExtracted)

	workDir, cleanup, err := p.prepareWorkDir(req)
	if err != nil {
		return p.fail(ctx, req, result, err)
	}
	defer cleanup()

	lock := flock.New(filepath.Join(workDir, ".subburn.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return p.fail(ctx, req, result, services.Wrap(services.ErrTransient, stageFetch, "lock work dir", workDir, err))
	}
	if !locked {
		return p.fail(ctx, req, result, services.Wrap(services.ErrTransient, stageFetch, "lock work dir", "another run is using "+workDir, nil))
	}
	defer func() { _ = lock.Unlock() }()

	meta, err := p.videos.Probe(ctx, req.URL)
	if err != nil {
		return p.fail(ctx, req, result, services.Wrap(services.ErrExternalTool, stageFetch, "probe metadata", req.URL, err))
	}
	result.Title = meta.Title

	logger := logging.WithContext(ctx, p.logger)
	logger.Info("downloading video",
		logging.String("title", meta.Title),
		logging.Float64("duration", meta.DurationSeconds),
	)
	videoPath, err := p.videos.Download(ctx, req.URL, workDir, func(update ytdlp.ProgressUpdate) {
		logger.Debug("download progress", logging.Float64("percent", update.Percent))
	})
	if err != nil {
		return p.fail(ctx, req, result, services.Wrap(services.ErrExternalTool, stageFetch, "download", req.URL, err))
	}
	p.transition(ctx, &result, StateVideoFetched)

	cues, track, err := p.transcripts.Fetch(ctx, meta)
	switch {
	case errors.Is(err, transcript.ErrNoTranscript):
		logger.Warn("no captions available, copying video unchanged")
		return p.copyPlain(ctx, req, result, videoPath)
	case err != nil:
		return p.fail(ctx, req, result, services.Wrap(services.ErrTransient, stageTranscript, "fetch captions", "", err))
	}
	result.Track = track
	result.CueCount = len(cues)
	p.transition(ctx, &result, StateTranscriptFetched)

	if len(cues) == 0 {
		logger.Warn("caption track carries no usable cues, copying video unchanged",
			logging.String("track_language", track.Language))
		return p.copyPlain(ctx, req, result, videoPath)
	}

	duration, err := p.probeDuration(ctx, videoPath)
	if err != nil {
		logger.Warn("duration probe failed, overlays will not be clamped", logging.Error(err))
		duration = 0
	}

	if err := p.composer.Compose(ctx, videoPath, cues, duration, req.OutputPath); err != nil {
		return p.fail(ctx, req, result, services.Wrap(services.ErrExternalTool, stageCompose, "burn captions", req.OutputPath, err))
	}
	p.transition(ctx, &result, StateComposed)
	result.OutputPath = req.OutputPath
	p.transition(ctx, &result, StateDone)
	p.record(ctx, req, result, history.StateCompleted, "")
	return result, nil
}

// copyPlain finishes a run without overlays: the downloaded video is copied
// byte-for-byte to the output path.
func (p *Pipeline) copyPlain(ctx context.Context, req Request, result Result, videoPath string) (Result, error) {
	if err := fileutil.CopyFileVerified(videoPath, req.OutputPath); err != nil {
		return p.fail(ctx, req, result, services.Wrap(services.ErrTransient, stageCompose, "copy video", req.OutputPath, err))
	}
	p.transition(ctx, &result, StateCopiedPlain)
	result.OutputPath = req.OutputPath
	result.PlainCopy = true
	p.transition(ctx, &result, StateDone)
	p.record(ctx, req, result, history.StateCopied, "")
	return result, nil
}

// prepareWorkDir resolves the scratch directory. Auto-created directories
// come with a cleanup that removes them; user-supplied ones are kept.
func (p *Pipeline) prepareWorkDir(req Request) (string, func(), error) {
	if dir := strings.TrimSpace(req.WorkDir); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return "", nil, services.Wrap(services.ErrConfiguration, stageFetch, "expand work dir", dir, err)
		}
		if err := os.MkdirAll(expanded, 0o755); err != nil {
			return "", nil, services.Wrap(services.ErrConfiguration, stageFetch, "create work dir", expanded, err)
		}
		return expanded, func() {}, nil
	}

	base := p.cfg.Paths.WorkDir
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", nil, services.Wrap(services.ErrConfiguration, stageFetch, "create work dir", base, err)
	}
	dir, err := os.MkdirTemp(base, "run-*")
	if err != nil {
		return "", nil, services.Wrap(services.ErrConfiguration, stageFetch, "create temp dir", base, err)
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

func (p *Pipeline) transition(ctx context.Context, result *Result, next State) {
	result.State = next
	logging.WithContext(ctx, p.logger).Info("state transition",
		logging.String(logging.FieldEventType, "state_change"),
		logging.String("state", string(next)),
	)
}

func (p *Pipeline) fail(ctx context.Context, req Request, result Result, err error) (Result, error) {
	result.State = StateFailed
	logging.WithContext(ctx, p.logger).Error("run failed", logging.Error(err))
	p.record(ctx, req, result, history.StateFailed, err.Error())
	return result, err
}

func (p *Pipeline) record(ctx context.Context, req Request, result Result, state, errorMessage string) {
	if p.journal == nil {
		return
	}
	record := history.Record{
		ID:                result.RunID,
		URL:               req.URL,
		VideoID:           result.VideoID,
		Title:             result.Title,
		RequestedLanguage: p.cfg.Transcript.Language,
		TrackLanguage:     result.Track.Language,
		TrackKind:         string(result.Track.Kind),
		CueCount:          result.CueCount,
		OutputPath:        result.OutputPath,
		State:             state,
		ErrorMessage:      errorMessage,
		CompletedAt:       time.Now().UTC(),
	}
	if _, err := p.journal.Append(ctx, record); err != nil {
		logging.WithContext(ctx, p.logger).Warn("history append failed", logging.Error(err))
	}
}
