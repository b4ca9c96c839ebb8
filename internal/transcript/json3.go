package transcript

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Wire structures for YouTube's json3 timedtext format. Unknown fields are
// deliberately ignored; the payload carries plenty we never use.
type json3Document struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	TStartMs    int64          `json:"tStartMs"`
	DDurationMs *int64         `json:"dDurationMs,omitempty"`
	Segs        []json3Segment `json:"segs,omitempty"`
}

type json3Segment struct {
	UTF8 string `json:"utf8"`
}

// ParseJSON3 decodes a json3 caption payload into ordered cues. Events with
// no renderable text (empty or newline-only segments) are dropped; events
// without a duration produce cues with Duration zero.
func ParseJSON3(data []byte) ([]Cue, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("parse json3: empty payload")
	}
	var doc json3Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json3: %w", err)
	}

	cues := make([]Cue, 0, len(doc.Events))
	for _, event := range doc.Events {
		text := renderText(event.Segs)
		if text == "" {
			continue
		}
		cue := Cue{
			Text:  text,
			Start: float64(event.TStartMs) / 1000.0,
		}
		if event.DDurationMs != nil && *event.DDurationMs > 0 {
			cue.Duration = float64(*event.DDurationMs) / 1000.0
		}
		cues = append(cues, cue)
	}
	return cues, nil
}

func renderText(segs []json3Segment) string {
	var builder strings.Builder
	for _, seg := range segs {
		builder.WriteString(seg.UTF8)
	}
	// Captions frequently split lines with embedded newlines; a burned-in
	// cue renders as a single line.
	return strings.Join(strings.Fields(builder.String()), " ")
}
