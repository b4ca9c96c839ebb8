package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subburn/internal/config"
	"subburn/internal/history"
	"subburn/internal/logging"
	"subburn/internal/services"
	"subburn/internal/services/ytdlp"
	"subburn/internal/transcript"
)

type fakeVideos struct {
	meta        *ytdlp.Metadata
	payload     []byte
	probeErr    error
	downloadErr error
}

func (f *fakeVideos) Probe(_ context.Context, _ string) (*ytdlp.Metadata, error) {
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	return f.meta, nil
}

func (f *fakeVideos) Download(_ context.Context, _ string, destDir string, _ func(ytdlp.ProgressUpdate)) (string, error) {
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	path := filepath.Join(destDir, f.meta.ID+".mp4")
	if err := os.WriteFile(path, f.payload, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type fakeTranscripts struct {
	cues  []transcript.Cue
	track transcript.TrackInfo
	err   error
}

func (f *fakeTranscripts) Fetch(_ context.Context, _ *ytdlp.Metadata) ([]transcript.Cue, transcript.TrackInfo, error) {
	if f.err != nil {
		return nil, transcript.TrackInfo{}, f.err
	}
	return f.cues, f.track, nil
}

type fakeComposer struct {
	calls    int
	duration float64
	err      error
}

func (f *fakeComposer) Compose(_ context.Context, _ string, _ []transcript.Cue, videoDuration float64, outputPath string) error {
	f.calls++
	f.duration = videoDuration
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outputPath, []byte("composed"), 0o644)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Paths.WorkDir = filepath.Join(dir, "work")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.History.Enabled = false
	return &cfg
}

func testPipeline(t *testing.T, cfg *config.Config, opts ...Option) *Pipeline {
	t.Helper()
	p, err := New(cfg, logging.NewNop(), opts...)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return p
}

func defaultMeta() *ytdlp.Metadata {
	return &ytdlp.Metadata{ID: "ABC123", Title: "Test Video", DurationSeconds: 42}
}

func TestRunComposesCaptionedVideo(t *testing.T) {
	cfg := testConfig(t)
	videos := &fakeVideos{meta: defaultMeta(), payload: []byte("video-bytes")}
	transcripts := &fakeTranscripts{
		cues:  []transcript.Cue{{Text: "Hello", Start: 1, Duration: 2}},
		track: transcript.TrackInfo{Language: "en", Kind: transcript.KindManual},
	}
	composer := &fakeComposer{}
	p := testPipeline(t, cfg,
		WithVideoFetcher(videos),
		WithTranscriptFetcher(transcripts),
		WithComposer(composer),
		WithDurationProber(func(context.Context, string) (float64, error) { return 42.5, nil }),
	)

	output := filepath.Join(t.TempDir(), "out.mp4")
	result, err := p.Run(context.Background(), Request{URL: "https://youtu.be/ABC123", OutputPath: output})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.State != StateDone {
		t.Fatalf("expected done, got %s", result.State)
	}
	if result.VideoID != "ABC123" || result.CueCount != 1 || result.Track.Language != "en" {
		t.Fatalf("unexpected result: %#v", result)
	}
	if composer.calls != 1 || composer.duration != 42.5 {
		t.Fatalf("unexpected composer state: %#v", composer)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
}

func TestRunCopiesPlainWhenNoTranscript(t *testing.T) {
	cfg := testConfig(t)
	payload := []byte("video-bytes")
	videos := &fakeVideos{meta: defaultMeta(), payload: payload}
	composer := &fakeComposer{}
	journal, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer journal.Close()

	p := testPipeline(t, cfg,
		WithVideoFetcher(videos),
		WithTranscriptFetcher(&fakeTranscripts{err: transcript.ErrNoTranscript}),
		WithComposer(composer),
		WithHistory(journal),
	)

	output := filepath.Join(t.TempDir(), "out.mp4")
	result, err := p.Run(context.Background(), Request{URL: "https://youtu.be/ABC123", OutputPath: output})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.State != StateDone {
		t.Fatalf("expected done, got %s", result.State)
	}
	if composer.calls != 0 {
		t.Fatal("composer must not run for captionless videos")
	}
	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("expected byte-identical copy of the download")
	}

	records, err := journal.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(records) != 1 || records[0].State != history.StateCopied {
		t.Fatalf("unexpected history: %#v", records)
	}
}

func TestRunCopiesPlainWhenTrackHasNoCues(t *testing.T) {
	cfg := testConfig(t)
	payload := []byte("video-bytes")
	composer := &fakeComposer{}
	p := testPipeline(t, cfg,
		WithVideoFetcher(&fakeVideos{meta: defaultMeta(), payload: payload}),
		WithTranscriptFetcher(&fakeTranscripts{track: transcript.TrackInfo{Language: "en", Kind: transcript.KindManual}}),
		WithComposer(composer),
	)

	output := filepath.Join(t.TempDir(), "out.mp4")
	result, err := p.Run(context.Background(), Request{URL: "https://youtu.be/ABC123", OutputPath: output})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !result.PlainCopy || composer.calls != 0 {
		t.Fatalf("expected plain copy without composing, got %#v calls=%d", result, composer.calls)
	}
	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("expected byte-identical copy of the download")
	}
}

func TestRunRejectsInvalidURL(t *testing.T) {
	cfg := testConfig(t)
	p := testPipeline(t, cfg,
		WithVideoFetcher(&fakeVideos{meta: defaultMeta()}),
		WithTranscriptFetcher(&fakeTranscripts{}),
		WithComposer(&fakeComposer{}),
	)

	result, err := p.Run(context.Background(), Request{
		URL:        "https://example.com/watch?v=nope",
		OutputPath: filepath.Join(t.TempDir(), "out.mp4"),
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if result.State != StateFailed {
		t.Fatalf("expected failed state, got %s", result.State)
	}
}

func TestRunRecordsDownloadFailure(t *testing.T) {
	cfg := testConfig(t)
	journal, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer journal.Close()

	p := testPipeline(t, cfg,
		WithVideoFetcher(&fakeVideos{meta: defaultMeta(), downloadErr: errors.New("network down")}),
		WithTranscriptFetcher(&fakeTranscripts{}),
		WithComposer(&fakeComposer{}),
		WithHistory(journal),
	)

	_, err = p.Run(context.Background(), Request{
		URL:        "https://youtu.be/ABC123",
		OutputPath: filepath.Join(t.TempDir(), "out.mp4"),
	})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}

	records, listErr := journal.List(context.Background(), 1)
	if listErr != nil {
		t.Fatalf("list history: %v", listErr)
	}
	if len(records) != 1 || records[0].State != history.StateFailed {
		t.Fatalf("unexpected history: %#v", records)
	}
	if !strings.Contains(records[0].ErrorMessage, "network down") {
		t.Fatalf("expected cause in error message, got %q", records[0].ErrorMessage)
	}
}

func TestRunToleratesDurationProbeFailure(t *testing.T) {
	cfg := testConfig(t)
	composer := &fakeComposer{}
	p := testPipeline(t, cfg,
		WithVideoFetcher(&fakeVideos{meta: defaultMeta(), payload: []byte("v")}),
		WithTranscriptFetcher(&fakeTranscripts{
			cues:  []transcript.Cue{{Text: "hi", Start: 0, Duration: 1}},
			track: transcript.TrackInfo{Language: "en", Kind: transcript.KindAutomatic},
		}),
		WithComposer(composer),
		WithDurationProber(func(context.Context, string) (float64, error) { return 0, errors.New("ffprobe missing") }),
	)

	result, err := p.Run(context.Background(), Request{
		URL:        "https://youtu.be/ABC123",
		OutputPath: filepath.Join(t.TempDir(), "out.mp4"),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.State != StateDone {
		t.Fatalf("expected done, got %s", result.State)
	}
	if composer.calls != 1 || composer.duration != 0 {
		t.Fatalf("expected compose with zero duration, got %#v", composer)
	}
}

func TestRunRemovesAutoWorkDirKeepsUserDir(t *testing.T) {
	cfg := testConfig(t)
	videos := &fakeVideos{meta: defaultMeta(), payload: []byte("v")}
	opts := []Option{
		WithVideoFetcher(videos),
		WithTranscriptFetcher(&fakeTranscripts{err: transcript.ErrNoTranscript}),
		WithComposer(&fakeComposer{}),
	}
	p := testPipeline(t, cfg, opts...)

	output := filepath.Join(t.TempDir(), "out.mp4")
	if _, err := p.Run(context.Background(), Request{URL: "https://youtu.be/ABC123", OutputPath: output}); err != nil {
		t.Fatalf("run: %v", err)
	}
	entries, err := os.ReadDir(cfg.Paths.WorkDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected auto temp dir to be removed, found %d entries", len(entries))
	}

	userDir := filepath.Join(t.TempDir(), "keep")
	if _, err := p.Run(context.Background(), Request{
		URL:        "https://youtu.be/ABC123",
		OutputPath: filepath.Join(t.TempDir(), "out2.mp4"),
		WorkDir:    userDir,
	}); err != nil {
		t.Fatalf("run with user dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(userDir, "ABC123.mp4")); err != nil {
		t.Fatalf("expected user work dir contents to survive: %v", err)
	}
}
