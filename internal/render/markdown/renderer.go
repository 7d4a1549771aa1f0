// Package markdown implements the render capability: it turns one document
// line into HTML, honoring the line's block context within its snapshot.
//
// Editing mode exposes the underlying Markdown syntax with minimal
// decoration; preview mode resolves inline emphasis, links, images, and
// block structure, hiding fence and math delimiters.
package markdown

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/dshills/inkline/internal/engine/block"
	"github.com/dshills/inkline/internal/render"
)

// Renderer renders single lines of Markdown to HTML. It is stateless per
// call and safe for concurrent use by dispatcher workers.
type Renderer struct {
	md        goldmark.Markdown
	highlight bool
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// Option is a functional option for configuring a Renderer.
type Option func(*Renderer)

// WithHighlighting enables chroma syntax highlighting of fence content.
func WithHighlighting(enabled bool) Option {
	return func(r *Renderer) {
		r.highlight = enabled
	}
}

// WithChromaStyle selects the chroma style by name; unknown names keep the
// fallback style.
func WithChromaStyle(name string) Option {
	return func(r *Renderer) {
		if s := styles.Get(name); s != nil {
			r.style = s
		}
	}
}

// New creates a line renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM, // tables, strikethrough, autolinks, task lists
			),
			goldmark.WithRendererOptions(
				ghtml.WithUnsafe(), // raw HTML passes through in preview
			),
		),
		highlight: true,
		style:     styles.Fallback,
		formatter: chromahtml.New(
			chromahtml.PreventSurroundingPre(true),
			chromahtml.WithClasses(true),
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderLine implements render.Renderer.
func (r *Renderer) RenderLine(req render.Request) (render.Result, error) {
	tag := r.classify(req)

	var html string
	var err error
	if req.IsEditing {
		html = editingHTML(req.Text)
	} else {
		html, err = r.previewHTML(req.Text, tag)
		if err != nil {
			return render.Result{}, err
		}
	}

	return render.Result{
		LineIndex:  req.LineIndex,
		HTML:       html,
		Generation: req.Generation,
	}, nil
}

// classify resolves the line's block tag: a precomputed tag on the request
// wins, otherwise the snapshot is analyzed. A request without a usable
// snapshot classifies the line standalone.
func (r *Renderer) classify(req render.Request) block.Tag {
	if req.Context != nil {
		return *req.Context
	}
	if req.LineIndex >= 0 && req.LineIndex < len(req.AllLines) {
		return block.Analyze(req.AllLines)[req.LineIndex]
	}
	return block.Analyze([]string{req.Text})[0]
}

// editingHTML is the raw-leaning representation for direct text editing.
func editingHTML(text string) string {
	if text == "" {
		return `<p class="line editing"><br></p>`
	}
	return `<p class="line editing">` + stdhtml.EscapeString(text) + `</p>`
}

func (r *Renderer) previewHTML(text string, tag block.Tag) (string, error) {
	switch tag.Kind {
	case block.KindCodeFence:
		if tag.Delimiter() {
			// Delimiters are hidden in preview; an empty marker div keeps
			// the line addressable.
			return fmt.Sprintf(`<div class="fence-delimiter" data-fence="%s"></div>`,
				strings.Repeat(string(tag.FenceChar), tag.FenceLen)), nil
		}
		return r.codeLineHTML(text, tag.Info), nil

	case block.KindMathBlock:
		if tag.Delimiter() {
			return `<div class="math-delimiter"></div>`, nil
		}
		return `<div class="math-block">$$` + stdhtml.EscapeString(text) + `$$</div>`, nil

	default:
		return r.markdownHTML(text)
	}
}

// codeLineHTML renders one literal line of fence content, syntax
// highlighted when a language is known and highlighting is enabled.
func (r *Renderer) codeLineHTML(text, lang string) string {
	if text == "" {
		return `<pre class="code-line"><code><br></code></pre>`
	}

	body := stdhtml.EscapeString(text)
	if r.highlight {
		if highlighted, ok := r.highlightLine(text, lang); ok {
			body = highlighted
		}
	}
	return `<pre class="code-line"><code>` + body + `</code></pre>`
}

func (r *Renderer) highlightLine(text, lang string) (string, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return "", false
	}

	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, it); err != nil {
		return "", false
	}
	return strings.TrimSuffix(buf.String(), "\n"), true
}

// markdownHTML renders a single plain/list/quote/heading line through
// goldmark. Same text in, same HTML out.
func (r *Renderer) markdownHTML(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "<p><br></p>", nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("convert line: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Ensure Renderer implements the capability contract.
var _ render.Renderer = (*Renderer)(nil)
