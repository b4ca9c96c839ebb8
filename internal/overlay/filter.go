package overlay

import (
	"fmt"
	"strings"
)

const edgeMargin = 24

// anchorExpr maps a style anchor to drawtext x/y expressions.
func anchorExpr(anchor string) (string, string) {
	switch anchor {
	case "bottom-left":
		return fmt.Sprintf("%d", edgeMargin), fmt.Sprintf("h-text_h-%d", edgeMargin)
	case "bottom-right":
		return fmt.Sprintf("w-text_w-%d", edgeMargin), fmt.Sprintf("h-text_h-%d", edgeMargin)
	case "top-center":
		return "(w-text_w)/2", fmt.Sprintf("%d", edgeMargin)
	default: // bottom-center
		return "(w-text_w)/2", fmt.Sprintf("h-text_h-%d", edgeMargin)
	}
}

// escapeDrawtext applies ffmpeg's two escaping levels: the drawtext option
// value first, the filtergraph grammar second.
func escapeDrawtext(text string) string {
	optionLevel := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	).Replace(text)
	return strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`[`, `\[`,
		`]`, `\]`,
		`,`, `\,`,
		`;`, `\;`,
	).Replace(optionLevel)
}

// buildFilterScript renders the filtergraph burning every overlay onto the
// first input's video track, labelled [vout].
func buildFilterScript(overlays []Overlay, style Style) string {
	x, y := anchorExpr(style.Anchor)

	var builder strings.Builder
	builder.WriteString("[0:v]\n")
	for i, ov := range overlays {
		builder.WriteString("drawtext=text=")
		builder.WriteString(escapeDrawtext(ov.Text))
		fmt.Fprintf(&builder, ":fontsize=%d", style.FontSize)
		fmt.Fprintf(&builder, ":fontcolor=%s", style.FontColor)
		fmt.Fprintf(&builder, ":box=1:boxcolor=%s:boxborderw=6", style.BackgroundColor)
		if style.OutlineWidth > 0 {
			fmt.Fprintf(&builder, ":borderw=%g:bordercolor=%s", style.OutlineWidth, style.OutlineColor)
		}
		fmt.Fprintf(&builder, ":x=%s:y=%s", x, y)
		fmt.Fprintf(&builder, ":enable='between(t,%.3f,%.3f)'", ov.Start, ov.End)
		if i < len(overlays)-1 {
			builder.WriteString(",\n")
		}
	}
	builder.WriteString("\n[vout]")
	return builder.String()
}
