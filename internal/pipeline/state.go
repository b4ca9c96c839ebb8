package pipeline

// State tracks a run through its lifecycle. Transitions are linear except
// for the two terminal branches: StateComposed leads to StateDone, while a
// captionless video short-circuits through StateCopiedPlain. Any stage can
// move the run to StateFailed.
type State string

const (
	StateInit                State = "init"
	StateIdentifierExtracted State = "identifier_extracted"
	StateVideoFetched        State = "video_fetched"
	StateTranscriptFetched   State = "transcript_fetched"
	StateComposed            State = "composed"
	StateCopiedPlain         State = "copied_plain"
	StateDone                State = "done"
	StateFailed              State = "failed"
)

// Terminal reports whether the state ends a run.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateFailed:
		return true
	}
	return false
}
