package history

import "time"

// Run states recorded in the journal.
const (
	StateCompleted = "completed"
	StateCopied    = "copied"
	StateFailed    = "failed"
)

// Record captures one pipeline run.
type Record struct {
	ID                string
	URL               string
	VideoID           string
	Title             string
	RequestedLanguage string
	TrackLanguage     string
	TrackKind         string
	CueCount          int
	OutputPath        string
	State             string
	ErrorMessage      string
	CreatedAt         time.Time
	CompletedAt       time.Time
}
