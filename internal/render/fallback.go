package render

import "html"

// Fallback returns the HTML-escaped literal rendering of a request's raw
// text. It is the substitute for any line whose render fails.
func Fallback(req Request) Result {
	return Result{
		LineIndex:  req.LineIndex,
		HTML:       LiteralHTML(req.Text),
		Generation: req.Generation,
		Fallback:   true,
	}
}

// LiteralHTML wraps escaped raw text in a paragraph. An empty line renders
// as a visible empty paragraph so it still occupies a row.
func LiteralHTML(text string) string {
	if text == "" {
		return "<p><br></p>"
	}
	return "<p>" + html.EscapeString(text) + "</p>"
}
