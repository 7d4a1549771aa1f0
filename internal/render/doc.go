// Package render dispatches line render requests to a render capability,
// sequentially for small batches and across a worker pool for large ones.
//
// Every request is self-contained: it carries its own immutable document
// snapshot, target line, editing flag, and generation. Workers share no
// state and may complete out of order; results are joined by line index,
// never by arrival order. A failing line never fails a batch: the
// dispatcher substitutes an HTML-escaped literal rendering for it.
package render
