package transcript

import (
	"testing"
)

const sampleJSON3 = `{
  "wireMagic": "pb3",
  "events": [
    {"tStartMs": 0, "dDurationMs": 2000, "segs": [{"utf8": "Hello"}, {"utf8": " world"}]},
    {"tStartMs": 2000, "segs": [{"utf8": "\n"}]},
    {"tStartMs": 2500, "segs": [{"utf8": "Second\nline"}]},
    {"tStartMs": 4000, "dDurationMs": 1500}
  ]
}`

func TestParseJSON3(t *testing.T) {
	cues, err := ParseJSON3([]byte(sampleJSON3))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues (newline-only and segless events dropped), got %#v", cues)
	}
	first := cues[0]
	if first.Text != "Hello world" || first.Start != 0 || first.Duration != 2.0 {
		t.Fatalf("unexpected first cue: %#v", first)
	}
	second := cues[1]
	if second.Text != "Second line" {
		t.Fatalf("expected newline collapsed to space, got %q", second.Text)
	}
	if second.Start != 2.5 {
		t.Fatalf("unexpected start: %f", second.Start)
	}
	if second.Duration != 0 {
		t.Fatalf("expected zero duration for missing dDurationMs, got %f", second.Duration)
	}
}

func TestParseJSON3Rejects(t *testing.T) {
	if _, err := ParseJSON3(nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
	if _, err := ParseJSON3([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
