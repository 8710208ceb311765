package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// spliceOverlay paints overlay rows over view starting at column x, row y.
// Styling on both sides of the overlay survives because the cut is ANSI-aware.
func spliceOverlay(view string, overlay []string, x, y int) string {
	if len(overlay) == 0 {
		return view
	}
	rows := strings.Split(view, "\n")
	width := ansi.StringWidth(overlay[0])
	for i, line := range overlay {
		row := y + i
		if row < 0 || row >= len(rows) {
			continue
		}
		base := rows[row]
		baseWidth := ansi.StringWidth(base)

		var b strings.Builder
		if x > 0 {
			prefix := ansi.Truncate(base, x, "")
			b.WriteString(prefix)
			if pad := x - ansi.StringWidth(prefix); pad > 0 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		b.WriteString("\x1b[0m")
		b.WriteString(line)
		b.WriteString("\x1b[0m")
		if end := x + width; end < baseWidth {
			b.WriteString(ansi.TruncateLeft(base, end, ""))
		}
		rows[row] = b.String()
	}
	return strings.Join(rows, "\n")
}
