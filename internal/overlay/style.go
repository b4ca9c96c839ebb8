package overlay

import "subburn/internal/config"

// Style carries the rendering options for burned-in captions.
type Style struct {
	FontSize        int
	FontColor       string
	BackgroundColor string
	OutlineColor    string
	OutlineWidth    float64
	Anchor          string
	DefaultCueSecs  float64
}

// StyleFromConfig lifts the config section into the rendering style.
func StyleFromConfig(cfg config.Style) Style {
	return Style{
		FontSize:        cfg.FontSize,
		FontColor:       cfg.FontColor,
		BackgroundColor: cfg.BackgroundColor,
		OutlineColor:    cfg.OutlineColor,
		OutlineWidth:    cfg.OutlineWidth,
		Anchor:          cfg.Anchor,
		DefaultCueSecs:  cfg.DefaultCueSecs,
	}
}

// DefaultStyle returns the historical fixed styling.
func DefaultStyle() Style {
	return StyleFromConfig(config.Default().Style)
}
