// Package logging builds the slog loggers used throughout subburn and the
// attribute helpers that keep field names consistent between the console and
// JSON formats.
package logging
