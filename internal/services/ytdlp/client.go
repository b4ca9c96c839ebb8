package ytdlp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Combined audio+video mp4 at the highest resolution, mirroring the
// historical progressive-stream selection. Plain "best" is the fallback when
// the platform offers no progressive mp4.
const progressiveFormat = "best[ext=mp4][vcodec!=none][acodec!=none]/best[vcodec!=none][acodec!=none]"

// Executor abstracts command execution for testability.
type Executor interface {
	// Run executes the binary, invoking onStdout once per stdout line.
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
	// Output executes the binary and returns its stdout.
	Output(ctx context.Context, binary string, args []string) ([]byte, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(executor Executor) Option {
	return func(c *Client) {
		if executor != nil {
			c.exec = executor
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// New constructs a yt-dlp client. timeoutSeconds bounds each invocation;
// zero disables the bound.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Probe runs a metadata-only extraction and decodes the result.
func (c *Client) Probe(ctx context.Context, url string) (*Metadata, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("url required")
	}
	probeCtx, cancel := c.boundedContext(ctx)
	defer cancel()

	output, err := c.exec.Output(probeCtx, c.binary, []string{"-J", "--no-playlist", "--", url})
	if err != nil {
		return nil, fmt.Errorf("yt-dlp probe: %w", err)
	}

	payload := extractJSONLine(output)
	if len(payload) == 0 {
		return nil, fmt.Errorf("yt-dlp probe: no JSON in output")
	}

	var meta Metadata
	if err := json.Unmarshal(payload, &meta); err != nil {
		return nil, fmt.Errorf("yt-dlp probe decode: %w", err)
	}
	return &meta, nil
}

// Download fetches the best progressive stream into destDir and returns the
// local file path. Progress callbacks fire as yt-dlp reports percentages.
func (c *Client) Download(ctx context.Context, url, destDir string, progress func(ProgressUpdate)) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", errors.New("url required")
	}
	if strings.TrimSpace(destDir) == "" {
		return "", errors.New("destination directory required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create destination: %w", err)
	}

	downloadCtx, cancel := c.boundedContext(ctx)
	defer cancel()

	args := []string{
		"--no-playlist",
		"--newline",
		"-f", progressiveFormat,
		"-o", filepath.Join(destDir, "%(id)s.%(ext)s"),
		"--", url,
	}
	if err := c.exec.Run(downloadCtx, c.binary, args, func(line string) {
		if progress == nil {
			return
		}
		if update, ok := parseProgress(line); ok {
			progress(update)
		}
	}); err != nil {
		return "", fmt.Errorf("yt-dlp download: %w", err)
	}

	path, err := newestDownload(destDir)
	if err != nil {
		return "", err
	}
	return path, nil
}

func (c *Client) boundedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// extractJSONLine picks the JSON document out of mixed yt-dlp output;
// warnings land on their own lines ahead of it.
func extractJSONLine(output []byte) []byte {
	for _, line := range strings.Split(string(output), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "{") {
			return []byte(trimmed)
		}
	}
	return nil
}

// newestDownload locates the completed download, ignoring partial files.
func newestDownload(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("inspect download outputs: %w", err)
	}
	type candidate struct {
		path    string
		modTime time.Time
	}
	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".part") || strings.HasSuffix(name, ".ytdl") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{path: filepath.Join(dir, name), modTime: info.ModTime()})
	}
	if len(candidates) == 0 {
		return "", errors.New("yt-dlp produced no output file")
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime.After(candidates[j].modTime)
	})
	return candidates[0].path, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return err
	}
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if onStdout != nil {
			onStdout(scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		_ = cmd.Wait()
		return err
	}
	if err := cmd.Wait(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("%w: %s", err, detail)
		}
		return err
	}
	return nil
}

func (commandExecutor) Output(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("%w: %s", err, detail)
		}
		return nil, err
	}
	return output, nil
}
