package render

import "github.com/dshills/inkline/internal/engine/block"

// Request asks the render capability for one line's HTML. The snapshot in
// AllLines is a full immutable copy taken at dispatch time: block
// classification and adjacent-line context depend on neighboring lines.
type Request struct {
	// Text is the raw Markdown of the target line.
	Text string

	// LineIndex is the target line's position within AllLines.
	LineIndex int

	// AllLines is the document snapshot the line belongs to.
	AllLines []string

	// IsEditing selects the raw-leaning representation over the fully
	// resolved preview.
	IsEditing bool

	// Generation is the line's generation at dispatch time, carried
	// through so stale results can be detected and dropped.
	Generation uint64

	// Context is the line's precomputed block classification, valid
	// relative to AllLines. When nil the renderer classifies the line
	// against the snapshot itself.
	Context *block.Tag
}

// Result is the rendered HTML for one line.
type Result struct {
	LineIndex  int
	HTML       string
	Generation uint64

	// Fallback marks an escaped-literal substitute produced because the
	// render failed or returned nothing. Consumers holding previously
	// rendered HTML for the line should keep showing it instead.
	Fallback bool
}

// Renderer is the external render capability consumed by the dispatcher.
// Implementations must be safe for concurrent use: batch dispatch calls
// RenderLine from multiple goroutines.
type Renderer interface {
	RenderLine(req Request) (Result, error)
}
