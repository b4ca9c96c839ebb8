package transcript

import (
	"errors"
	"testing"

	"subburn/internal/services/ytdlp"
)

func metaWith(manual, auto map[string][]ytdlp.Track) *ytdlp.Metadata {
	return &ytdlp.Metadata{Subtitles: manual, AutomaticCaptions: auto}
}

func json3Track(url string) []ytdlp.Track {
	return []ytdlp.Track{
		{Ext: "vtt", URL: url + "&fmt=vtt"},
		{Ext: "json3", URL: url},
	}
}

func TestTracksFiltersFormatAndOrdersManualFirst(t *testing.T) {
	meta := metaWith(
		map[string][]ytdlp.Track{"fr": json3Track("https://x/fr")},
		map[string][]ytdlp.Track{
			"en-orig": json3Track("https://x/en-orig"),
			"de":      {{Ext: "vtt", URL: "https://x/de-vtt"}},
		},
	)
	tracks := Tracks(meta)
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks (de has no json3), got %#v", tracks)
	}
	if tracks[0].Kind != KindManual || tracks[0].Language != "fr" {
		t.Fatalf("expected manual fr first, got %#v", tracks[0])
	}
	if tracks[1].Kind != KindAutomatic || tracks[1].Language != "en-orig" {
		t.Fatalf("expected automatic en-orig second, got %#v", tracks[1])
	}
	if tracks[0].URL != "https://x/fr" {
		t.Fatalf("expected json3 URL, got %q", tracks[0].URL)
	}
}

func TestSelectPrefersManualPreferredLanguage(t *testing.T) {
	tracks := []TrackInfo{
		{Language: "fr", Kind: KindManual, URL: "fr"},
		{Language: "en", Kind: KindManual, URL: "en"},
		{Language: "en", Kind: KindAutomatic, URL: "en-auto"},
	}
	track, err := Select(tracks, "en")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if track.URL != "en" || track.Kind != KindManual {
		t.Fatalf("expected manual en, got %#v", track)
	}
}

func TestSelectMatchesRegionalAndOrigVariants(t *testing.T) {
	tracks := []TrackInfo{
		{Language: "en-US", Kind: KindManual, URL: "en-us"},
	}
	track, err := Select(tracks, "en")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if track.URL != "en-us" {
		t.Fatalf("expected en-US to satisfy en, got %#v", track)
	}

	tracks = []TrackInfo{
		{Language: "en-orig", Kind: KindAutomatic, URL: "en-orig"},
	}
	track, err = Select(tracks, "en")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if track.URL != "en-orig" {
		t.Fatalf("expected en-orig to satisfy en, got %#v", track)
	}
}

func TestSelectFallsBackAcrossLanguages(t *testing.T) {
	tracks := []TrackInfo{
		{Language: "ja", Kind: KindAutomatic, URL: "ja-auto"},
		{Language: "fr", Kind: KindManual, URL: "fr"},
	}
	track, err := Select(tracks, "en")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if track.URL != "fr" {
		t.Fatalf("expected manual fallback before automatic, got %#v", track)
	}
}

func TestSelectNoTracks(t *testing.T) {
	_, err := Select(nil, "en")
	if !errors.Is(err, ErrNoTranscript) {
		t.Fatalf("expected ErrNoTranscript, got %v", err)
	}
}

func TestMatchLanguageMiss(t *testing.T) {
	tracks := []TrackInfo{{Language: "ja", Kind: KindManual, URL: "ja"}}
	_, err := matchLanguage(tracks, "en")
	if !errors.Is(err, ErrLanguageUnavailable) {
		t.Fatalf("expected ErrLanguageUnavailable, got %v", err)
	}
}
