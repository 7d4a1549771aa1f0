// Package linestore owns the ordered document of lines backing the editor.
//
// Each line holds its raw source text, a cached rendered HTML form, an
// editing flag, its block classification, and a generation counter. The
// generation is bumped on every mutation of the line's text; a rendered
// result is committed only when its generation still matches, so results
// from superseded render requests are dropped rather than applied.
package linestore
