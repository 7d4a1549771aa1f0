// Package block classifies document lines into their enclosing multi-line
// block contexts: code fences, math blocks, list items, and blockquotes.
//
// Classification is a pure function over an immutable snapshot of the raw
// line texts. Lines inside an open fence or math block keep that context
// regardless of their literal content; block context always wins over
// line-local syntax.
package block
