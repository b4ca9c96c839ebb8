// Package history persists a journal of completed and failed runs in a
// SQLite database so past downloads can be reviewed from the CLI.
package history
