// Package search implements content search over the raw line buffer:
// match location, current-match navigation with wrap-around, single and
// bulk replacement, and highlight rectangle geometry for the overlay.
//
// A Session is an explicit context object; nothing in this package is
// process-global, so multiple independent editors can search concurrently.
package search
