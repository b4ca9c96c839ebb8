package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; stale databases must be deleted rather than migrated in place.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const timeLayout = time.RFC3339

// Store manages run journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history database path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file backing this store.
func (s *Store) Path() string {
	return s.path
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Append records a run. A missing ID or CreatedAt is filled in; the assigned
// ID is returned.
func (s *Store) Append(ctx context.Context, record Record) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if record.State == "" {
		return "", errors.New("record state required")
	}

	completedAt := ""
	if !record.CompletedAt.IsZero() {
		completedAt = record.CompletedAt.UTC().Format(timeLayout)
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (
    id, url, video_id, title, requested_language, track_language, track_kind,
    cue_count, output_path, state, error_message, created_at, completed_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.URL,
		record.VideoID,
		record.Title,
		record.RequestedLanguage,
		record.TrackLanguage,
		record.TrackKind,
		record.CueCount,
		record.OutputPath,
		record.State,
		record.ErrorMessage,
		record.CreatedAt.UTC().Format(timeLayout),
		completedAt,
	)
	if err != nil {
		return "", fmt.Errorf("append run: %w", err)
	}
	return record.ID, nil
}

// List returns the most recent runs, newest first. A limit of zero or less
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	query := `
SELECT id, url, video_id, title, requested_language, track_language, track_kind,
       cue_count, output_path, state, error_message, created_at, completed_at
FROM runs
ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		record               Record
		createdAt, completed string
	)
	if err := rows.Scan(
		&record.ID,
		&record.URL,
		&record.VideoID,
		&record.Title,
		&record.RequestedLanguage,
		&record.TrackLanguage,
		&record.TrackKind,
		&record.CueCount,
		&record.OutputPath,
		&record.State,
		&record.ErrorMessage,
		&createdAt,
		&completed,
	); err != nil {
		return Record{}, fmt.Errorf("scan run: %w", err)
	}
	if createdAt != "" {
		parsed, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return Record{}, fmt.Errorf("parse created_at: %w", err)
		}
		record.CreatedAt = parsed
	}
	if completed != "" {
		parsed, err := time.Parse(timeLayout, completed)
		if err != nil {
			return Record{}, fmt.Errorf("parse completed_at: %w", err)
		}
		record.CompletedAt = parsed
	}
	return record, nil
}
