// Package caret captures and restores caret position across a line's
// content replacement.
//
// A position is modeled as a flattened-text offset: the count of characters
// preceding the caret in a depth-first walk of the line's rendered node
// tree. Because the model reasons only about character counts, never node
// identity, a capture survives arbitrary restructuring of the markup (a
// literal "### Title" and a rendered heading element flatten to comparable
// text).
package caret
