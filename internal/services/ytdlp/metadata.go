package ytdlp

// Metadata is the slice of the yt-dlp JSON dump the pipeline consumes.
type Metadata struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Uploader          string             `json:"uploader"`
	DurationSeconds   float64            `json:"duration"`
	Subtitles         map[string][]Track `json:"subtitles"`
	AutomaticCaptions map[string][]Track `json:"automatic_captions"`
}

// Track is one caption track variant for a language. Ext names the wire
// format (json3, vtt, srv1, ...); URL is where the track body lives.
type Track struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}
