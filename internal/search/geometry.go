package search

import "github.com/clipperhouse/displaywidth"

// Rect is a highlight rectangle for one match, positioned against the
// rendered document: X is the measured width of the line text preceding
// the match, Y the cumulative height of all preceding lines.
type Rect struct {
	X, Y          int
	Width, Height int

	// Current marks the rectangle of the currently selected match, which
	// gets the visually distinct treatment.
	Current bool
}

// Measurer supplies text metrics for highlight geometry.
type Measurer interface {
	// TextWidth returns the rendered width of s.
	TextWidth(s string) int

	// LineHeight returns the rendered height of a line of text.
	LineHeight(line string) int
}

// MonoMeasurer measures text in fixed-size character cells, using display
// width so wide runes occupy two cells.
type MonoMeasurer struct {
	CellWidth  int
	CellHeight int
}

// NewMonoMeasurer returns a measurer with the given cell geometry.
func NewMonoMeasurer(cellWidth, cellHeight int) MonoMeasurer {
	return MonoMeasurer{CellWidth: cellWidth, CellHeight: cellHeight}
}

// TextWidth implements Measurer.
func (m MonoMeasurer) TextWidth(s string) int {
	return displaywidth.String(s) * m.CellWidth
}

// LineHeight implements Measurer.
func (m MonoMeasurer) LineHeight(string) int {
	return m.CellHeight
}

// HighlightRects computes a rectangle for every match. All rectangles are
// recomputed wholesale on each call: when the current index moves, both
// the prior and the new current rectangle need restyling anyway.
func HighlightRects(matches []Match, currentIndex int, lines []string, m Measurer) []Rect {
	if len(matches) == 0 {
		return nil
	}

	// Cumulative height of every line's predecessors.
	offsets := make([]int, len(lines)+1)
	for i, line := range lines {
		offsets[i+1] = offsets[i] + m.LineHeight(line)
	}

	rects := make([]Rect, len(matches))
	for i, match := range matches {
		lineIdx := match.Line - 1

		y := 0
		height := 0
		if lineIdx >= 0 && lineIdx < len(lines) {
			y = offsets[lineIdx]
			height = m.LineHeight(lines[lineIdx])
		}

		prefix := runePrefix(match.LineText, match.Column-1)
		rects[i] = Rect{
			X:       m.TextWidth(prefix),
			Y:       y,
			Width:   m.TextWidth(match.Text),
			Height:  height,
			Current: i == currentIndex,
		}
	}
	return rects
}

// runePrefix returns the first n runes of s.
func runePrefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
