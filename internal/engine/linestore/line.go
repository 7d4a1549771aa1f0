package linestore

import (
	"sync/atomic"

	"github.com/dshills/inkline/internal/engine/block"
)

// Line is a read-only copy of a single document line.
type Line struct {
	// Index is the zero-based position of the line in the document.
	Index int

	// Raw is the source Markdown text, without line ending.
	Raw string

	// Rendered is the cached rendered HTML for the line.
	Rendered string

	// RenderedValid reports whether Rendered reflects the current Raw.
	// It is false from the moment Raw changes until the next render
	// result for the current generation is committed.
	RenderedValid bool

	// Editing reports whether the caret is on this line. At most one
	// line in a document is editing at any time.
	Editing bool

	// Generation is bumped on every mutation of Raw. Render results
	// carry the generation of the text they rendered; mismatched
	// results are stale and must be dropped.
	Generation uint64

	// Block is the line's block context, valid relative to the snapshot
	// it was computed from.
	Block block.Tag
}

// line is the internal mutable representation.
type line struct {
	raw           string
	rendered      string
	renderedValid bool
	editing       bool
	generation    uint64
	blockTag      block.Tag
}

// generationCounter generates unique, monotonically increasing generations
// across all stores.
var generationCounter atomic.Uint64

func nextGeneration() uint64 {
	return generationCounter.Add(1)
}
