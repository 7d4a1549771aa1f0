// Package editor ties the engine together: the line store, block
// classifier, render dispatcher, caret synchronizer, and search session,
// held by an explicit Document context object rather than process-wide
// state. All document mutation happens on a single logical thread; only
// rendering fans out.
package editor

import (
	"log/slog"

	"golang.org/x/net/html"

	"github.com/dshills/inkline/internal/engine/block"
	"github.com/dshills/inkline/internal/engine/caret"
	"github.com/dshills/inkline/internal/engine/linestore"
	"github.com/dshills/inkline/internal/event"
	"github.com/dshills/inkline/internal/render"
	"github.com/dshills/inkline/internal/search"
)

// RestoreResult is a resolved caret restoration for a re-rendered line.
type RestoreResult struct {
	// Line is the restored line index.
	Line int

	// Root is the parsed rendered tree the location points into.
	Root *html.Node

	// Location is the concrete caret position.
	Location caret.Location

	// Exact reports whether a text-bearing position was found; false
	// means the caret fell back to the container start.
	Exact bool
}

// pendingRestore records a capture awaiting the matching render commit.
type pendingRestore struct {
	line       int
	offset     caret.Offset
	generation uint64
}

// Document is the editing context for one open document.
type Document struct {
	store      *linestore.Store
	dispatcher *render.Dispatcher
	session    *search.Session
	bus        *event.Bus
	log        *slog.Logger

	pending     *pendingRestore
	lastRestore *RestoreResult
}

// Option is a functional option for configuring a Document.
type Option func(*Document)

// WithLogger sets the document's logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Document) {
		if log != nil {
			d.log = log
		}
	}
}

// WithBus sets the event bus used for change notification.
func WithBus(bus *event.Bus) Option {
	return func(d *Document) {
		if bus != nil {
			d.bus = bus
		}
	}
}

// Open creates a document from its text, classifies every line, and
// leaves rendering to the caller (RefreshAll for a full preview).
func Open(text string, dispatcher *render.Dispatcher, opts ...Option) *Document {
	d := &Document{
		store:      linestore.NewFromString(text),
		dispatcher: dispatcher,
		session:    search.NewSession(),
		bus:        event.NewBus(),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.reclassify()
	return d
}

// Store returns the underlying line store.
func (d *Document) Store() *linestore.Store { return d.store }

// Session returns the document's search session.
func (d *Document) Session() *search.Session { return d.session }

// Bus returns the document's event bus.
func (d *Document) Bus() *event.Bus { return d.bus }

// reclassify runs the pure block pass over the current snapshot and
// stores the tags. Cheap enough to run document-wide on every mutation.
func (d *Document) reclassify() {
	if err := d.store.SetBlockTags(block.Analyze(d.store.Snapshot())); err != nil {
		d.log.Error("block reclassification failed", "error", err)
	}
}

// EditLine replaces a line's text as typed input: the line becomes the
// editing line, the caret offset captured by the caller is parked until
// the matching render commits, and a single-line render is dispatched.
func (d *Document) EditLine(index int, text string, offset caret.Offset) error {
	if err := d.store.SetEditing(index); err != nil {
		return err
	}
	if err := d.store.MutateLine(index, text); err != nil {
		return err
	}
	d.reclassify()

	gen, err := d.store.Generation(index)
	if err != nil {
		return err
	}
	d.pending = &pendingRestore{line: index, offset: offset, generation: gen}
	d.lastRestore = nil
	d.bus.Publish(event.Event{Type: event.TypeDocumentChanged, Line: index})

	return d.RefreshLine(index, true)
}

// InsertLines inserts texts before index at, reclassifies, and renders
// the inserted lines.
func (d *Document) InsertLines(at int, texts []string) error {
	if err := d.store.InsertLines(at, texts); err != nil {
		return err
	}
	d.reclassify()
	d.bus.Publish(event.Event{Type: event.TypeDocumentChanged, Line: at})

	for i := at; i < at+len(texts); i++ {
		if err := d.RefreshLine(i, false); err != nil {
			return err
		}
	}
	return nil
}

// DeleteLines removes count lines starting at from and reclassifies.
func (d *Document) DeleteLines(from, count int) error {
	if err := d.store.DeleteLines(from, count); err != nil {
		return err
	}
	d.reclassify()
	d.bus.Publish(event.Event{Type: event.TypeDocumentChanged, Line: from})
	return nil
}

// RefreshLine renders one line against a fresh snapshot and commits the
// result through the generation check. The single-line fast path applies
// immediately; it has no batch siblings to wait for.
func (d *Document) RefreshLine(index int, editing bool) error {
	line, err := d.store.Line(index)
	if err != nil {
		return err
	}

	tag := line.Block
	res := d.dispatcher.RenderOne(render.Request{
		Text:       line.Raw,
		LineIndex:  index,
		AllLines:   d.store.Snapshot(),
		IsEditing:  editing,
		Generation: line.Generation,
		Context:    &tag,
	})
	return d.commit(res)
}

// RefreshAll renders every line as one batch. Results are committed only
// after the whole batch returns, so no partially updated state is ever
// observable; stale generations are dropped line by line.
func (d *Document) RefreshAll() error {
	lines := d.store.Lines()

	snapshot := make([]string, len(lines))
	for i, l := range lines {
		snapshot[i] = l.Raw
	}

	reqs := make([]render.Request, len(lines))
	for i, l := range lines {
		tag := l.Block
		reqs[i] = render.Request{
			Text:       l.Raw,
			LineIndex:  i,
			AllLines:   snapshot,
			IsEditing:  l.Editing,
			Generation: l.Generation,
			Context:    &tag,
		}
	}

	for _, res := range d.dispatcher.RenderBatch(reqs) {
		if err := d.commit(res); err != nil {
			return err
		}
	}
	return nil
}

// commit applies one render result. Results whose generation no longer
// matches the line are dropped, never displayed. A fallback result never
// clobbers HTML already held for the line: a failed render keeps the
// previous rendering on screen, and the escaped literal is committed only
// when there is nothing to retain.
func (d *Document) commit(res render.Result) error {
	if res.Fallback {
		line, err := d.store.Line(res.LineIndex)
		if err != nil {
			return err
		}
		if line.Rendered != "" {
			d.log.Warn("render failed, retaining previous HTML",
				"line", res.LineIndex)
			return nil
		}
	}

	applied, err := d.store.ApplyRendered(res.LineIndex, res.HTML, res.Generation)
	if err != nil {
		return err
	}
	if !applied {
		d.log.Debug("dropped stale render result",
			"line", res.LineIndex, "generation", res.Generation)
		d.bus.Publish(event.Event{Type: event.TypeRenderDropped, Line: res.LineIndex})
		return nil
	}

	d.bus.Publish(event.Event{
		Type: event.TypeLineRendered,
		Line: res.LineIndex,
		Data: res.HTML,
	})
	d.resolveRestore(res.LineIndex, res.Generation)
	return nil
}

// resolveRestore completes a pending caret restore once the render for
// the captured generation has been committed. Restoration never throws:
// when no text-bearing position exists, the caret falls back to the
// container start.
func (d *Document) resolveRestore(index int, generation uint64) {
	if d.pending == nil || d.pending.line != index || d.pending.generation != generation {
		return
	}
	pending := d.pending
	d.pending = nil

	line, err := d.store.Line(index)
	if err != nil {
		return
	}
	root, err := caret.ParseLine(line.Rendered)
	if err != nil {
		d.log.Warn("caret restore parse failed", "line", index, "error", err)
		return
	}

	loc, exact := caret.Restore(root, pending.offset)
	d.lastRestore = &RestoreResult{
		Line:     index,
		Root:     root,
		Location: loc,
		Exact:    exact,
	}
	d.bus.Publish(event.Event{
		Type: event.TypeCaretRestored,
		Line: index,
		Data: *d.lastRestore,
	})
}

// TakeRestore returns the most recent resolved caret restoration and
// clears it. The UI applies it on its next rendering opportunity, after
// the replacement content has been committed.
func (d *Document) TakeRestore() (RestoreResult, bool) {
	if d.lastRestore == nil {
		return RestoreResult{}, false
	}
	res := *d.lastRestore
	d.lastRestore = nil
	return res, true
}

// Search runs a query over the raw buffer and publishes the result.
func (d *Document) Search(query string, opts search.Options) ([]search.Match, error) {
	matches, err := d.session.Search(query, d.store.Snapshot(), opts)
	if err != nil {
		return nil, err
	}
	d.bus.Publish(event.Event{
		Type: event.TypeSearchUpdated,
		Line: -1,
		Data: len(matches),
	})
	return matches, nil
}

// ReplaceCurrent replaces the current match and re-renders its line.
func (d *Document) ReplaceCurrent(replacement string) error {
	m, ok := d.session.Current()
	if !ok {
		return search.ErrNoCurrentMatch
	}
	if err := d.session.ReplaceCurrent(d.store, replacement); err != nil {
		return err
	}
	d.reclassify()
	d.bus.Publish(event.Event{Type: event.TypeDocumentChanged, Line: m.Line - 1})
	return d.RefreshLine(m.Line-1, false)
}

// ReplaceAll substitutes every match in one pass and re-renders the
// whole document.
func (d *Document) ReplaceAll(replacement string) (int, error) {
	replaced, err := d.session.ReplaceAll(d.store, replacement)
	if err != nil {
		return replaced, err
	}
	if replaced == 0 {
		return 0, nil
	}
	d.reclassify()
	d.bus.Publish(event.Event{Type: event.TypeDocumentChanged, Line: -1})
	return replaced, d.RefreshAll()
}

// Text returns the document joined with its original line ending, for
// the persistence collaborator to consume on save.
func (d *Document) Text() string {
	return d.store.Text()
}
