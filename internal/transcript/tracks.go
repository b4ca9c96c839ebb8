package transcript

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"subburn/internal/services/ytdlp"
)

// trackFormat is the only caption wire format we fetch. yt-dlp reports every
// YouTube track in several formats; json3 carries per-cue timing.
const trackFormat = "json3"

// Tracks flattens the probed metadata into selectable caption tracks,
// manual tracks first, each class ordered by language for determinism.
func Tracks(meta *ytdlp.Metadata) []TrackInfo {
	if meta == nil {
		return nil
	}
	manual := flatten(meta.Subtitles, KindManual)
	auto := flatten(meta.AutomaticCaptions, KindAutomatic)
	return append(manual, auto...)
}

func flatten(source map[string][]ytdlp.Track, kind Kind) []TrackInfo {
	langs := make([]string, 0, len(source))
	for lang := range source {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	var out []TrackInfo
	for _, lang := range langs {
		for _, track := range source[lang] {
			if !strings.EqualFold(strings.TrimSpace(track.Ext), trackFormat) {
				continue
			}
			if strings.TrimSpace(track.URL) == "" {
				continue
			}
			out = append(out, TrackInfo{
				Language: lang,
				Name:     track.Name,
				Kind:     kind,
				URL:      track.URL,
			})
			break
		}
	}
	return out
}

// Select picks the track to fetch. Preference order: manual track in the
// preferred language, automatic track in the preferred language, any manual
// track, any automatic track. A language miss never surfaces; only an
// entirely trackless video returns ErrNoTranscript.
func Select(tracks []TrackInfo, preferred string) (TrackInfo, error) {
	if len(tracks) == 0 {
		return TrackInfo{}, ErrNoTranscript
	}

	manual := filterKind(tracks, KindManual)
	auto := filterKind(tracks, KindAutomatic)

	for _, class := range [][]TrackInfo{manual, auto} {
		if track, err := matchLanguage(class, preferred); err == nil {
			return track, nil
		}
	}
	if len(manual) > 0 {
		return manual[0], nil
	}
	return auto[0], nil
}

func filterKind(tracks []TrackInfo, kind Kind) []TrackInfo {
	var out []TrackInfo
	for _, track := range tracks {
		if track.Kind == kind {
			out = append(out, track)
		}
	}
	return out
}

// matchLanguage resolves preferred against the track languages with BCP-47
// matching, so "en" finds "en-US" and YouTube's "en-orig" variant.
func matchLanguage(tracks []TrackInfo, preferred string) (TrackInfo, error) {
	if len(tracks) == 0 {
		return TrackInfo{}, ErrLanguageUnavailable
	}
	want, err := language.Parse(normalizeLang(preferred))
	if err != nil {
		return TrackInfo{}, fmt.Errorf("%w: cannot parse %q", ErrLanguageUnavailable, preferred)
	}

	tags := make([]language.Tag, 0, len(tracks))
	indexes := make([]int, 0, len(tracks))
	for i, track := range tracks {
		tag, err := language.Parse(normalizeLang(track.Language))
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		indexes = append(indexes, i)
	}
	if len(tags) == 0 {
		return TrackInfo{}, ErrLanguageUnavailable
	}

	matcher := language.NewMatcher(tags)
	_, idx, conf := matcher.Match(want)
	if conf < language.High {
		return TrackInfo{}, fmt.Errorf("%w: %q", ErrLanguageUnavailable, preferred)
	}
	return tracks[indexes[idx]], nil
}

// normalizeLang strips YouTube's "-orig" marker so the variant still matches
// its base language.
func normalizeLang(lang string) string {
	lang = strings.TrimSpace(lang)
	lang = strings.TrimSuffix(lang, "-orig")
	return lang
}
