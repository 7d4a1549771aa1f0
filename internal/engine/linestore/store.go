package linestore

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/inkline/internal/engine/block"
)

// Errors returned by store operations.
var (
	ErrIndexOutOfRange  = errors.New("line index out of range")
	ErrInvalidCount     = errors.New("invalid line count")
	ErrTagCountMismatch = errors.New("block tag count does not match line count")
)

// LineEnding specifies the line ending style used when joining lines.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingLF:
		return "\n"
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// DetectLineEnding returns a LineEnding based on the most common line
// ending in the text. Returns LineEndingLF if none are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	i := 0
	for i < len(text) {
		if i+1 < len(text) && text[i] == '\r' && text[i+1] == '\n' {
			crlfCount++
			i += 2
		} else if text[i] == '\r' {
			crCount++
			i++
		} else if text[i] == '\n' {
			lfCount++
			i++
		} else {
			i++
		}
	}

	if crlfCount > 0 && crlfCount >= lfCount && crlfCount >= crCount {
		return LineEndingCRLF
	}
	if crCount > 0 && crCount >= lfCount && crCount >= crlfCount {
		return LineEndingCR
	}
	return LineEndingLF
}

// Store holds the ordered document of lines. All methods are thread-safe,
// though the editor mutates from a single logical thread.
type Store struct {
	mu         sync.RWMutex
	id         uuid.UUID
	lines      []line
	editing    int // index of the editing line, -1 if none
	lineEnding LineEnding
}

// Option is a functional option for configuring a Store.
type Option func(*Store)

// WithLineEnding sets the line ending style used by Text.
func WithLineEnding(le LineEnding) Option {
	return func(s *Store) {
		s.lineEnding = le
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		id:         uuid.New(),
		editing:    -1,
		lineEnding: LineEndingLF,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromString creates a store from document text. Line endings are
// detected, normalized away, and preserved for Text.
func NewFromString(text string, opts ...Option) *Store {
	s := New(opts...)
	s.lineEnding = DetectLineEnding(text)

	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	raws := strings.Split(normalized, "\n")
	s.lines = make([]line, len(raws))
	for i, raw := range raws {
		s.lines[i] = line{raw: raw, generation: nextGeneration()}
	}
	return s
}

// ID returns the store's unique identity.
func (s *Store) ID() uuid.UUID {
	return s.id
}

// Len returns the number of lines.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// LineEnding returns the line ending style used by Text.
func (s *Store) LineEnding() LineEnding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lineEnding
}

// Line returns a copy of the line at index.
func (s *Store) Line(index int) (Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.lines) {
		return Line{}, ErrIndexOutOfRange
	}
	return s.lineCopy(index), nil
}

func (s *Store) lineCopy(index int) Line {
	l := s.lines[index]
	return Line{
		Index:         index,
		Raw:           l.raw,
		Rendered:      l.rendered,
		RenderedValid: l.renderedValid,
		Editing:       l.editing,
		Generation:    l.generation,
		Block:         l.blockTag,
	}
}

// Lines returns copies of all lines in order.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Line, len(s.lines))
	for i := range s.lines {
		out[i] = s.lineCopy(i)
	}
	return out
}

// Snapshot returns an immutable copy of all raw line texts.
func (s *Store) Snapshot() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raws := make([]string, len(s.lines))
	for i := range s.lines {
		raws[i] = s.lines[i].raw
	}
	return raws
}

// Text returns the full document joined with the store's line ending.
func (s *Store) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raws := make([]string, len(s.lines))
	for i := range s.lines {
		raws[i] = s.lines[i].raw
	}
	return strings.Join(raws, s.lineEnding.Sequence())
}

// Generation returns the current generation of the line at index.
func (s *Store) Generation(index int) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.lines) {
		return 0, ErrIndexOutOfRange
	}
	return s.lines[index].generation, nil
}

// InsertLines inserts texts before index at. at == Len appends.
// Trailing lines are renumbered atomically with the insert.
func (s *Store) InsertLines(at int, texts []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if at < 0 || at > len(s.lines) {
		return ErrIndexOutOfRange
	}
	if len(texts) == 0 {
		return nil
	}

	inserted := make([]line, len(texts))
	for i, text := range texts {
		inserted[i] = line{raw: text, generation: nextGeneration()}
	}

	s.lines = append(s.lines[:at], append(inserted, s.lines[at:]...)...)

	if s.editing >= at {
		s.editing += len(texts)
	}
	return nil
}

// MutateLine replaces the raw text of a single line, bumping its
// generation and invalidating its cached rendered HTML. The previously
// rendered HTML is retained so the caller can keep showing it until a
// fresh render lands.
func (s *Store) MutateLine(index int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.lines) {
		return ErrIndexOutOfRange
	}

	l := &s.lines[index]
	l.raw = text
	l.generation = nextGeneration()
	l.renderedValid = false
	return nil
}

// DeleteLines removes count lines starting at from. Trailing lines are
// renumbered atomically with the delete.
func (s *Store) DeleteLines(from, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if count <= 0 {
		return ErrInvalidCount
	}
	if from < 0 || from+count > len(s.lines) {
		return ErrIndexOutOfRange
	}

	s.lines = append(s.lines[:from], s.lines[from+count:]...)

	switch {
	case s.editing >= from+count:
		s.editing -= count
	case s.editing >= from:
		s.editing = -1
	}
	return nil
}

// SetEditing marks the line at index as the editing line, clearing the
// flag elsewhere.
func (s *Store) SetEditing(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.lines) {
		return ErrIndexOutOfRange
	}

	if s.editing >= 0 && s.editing < len(s.lines) {
		s.lines[s.editing].editing = false
	}
	s.lines[index].editing = true
	s.editing = index
	return nil
}

// ClearEditing clears the editing flag on all lines.
func (s *Store) ClearEditing() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing >= 0 && s.editing < len(s.lines) {
		s.lines[s.editing].editing = false
	}
	s.editing = -1
}

// EditingLine returns the index of the editing line, if any.
func (s *Store) EditingLine() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editing, s.editing >= 0
}

// ApplyRendered commits rendered HTML for a line if and only if generation
// matches the line's current generation. It returns false when the result
// is stale and was dropped.
func (s *Store) ApplyRendered(index int, html string, generation uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.lines) {
		return false, ErrIndexOutOfRange
	}

	l := &s.lines[index]
	if l.generation != generation {
		return false, nil
	}
	l.rendered = html
	l.renderedValid = true
	return true, nil
}

// SetBlockTags stores a fresh classification for every line. The tag slice
// must match the current line count exactly.
func (s *Store) SetBlockTags(tags []block.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(tags) != len(s.lines) {
		return ErrTagCountMismatch
	}
	for i := range tags {
		s.lines[i].blockTag = tags[i]
	}
	return nil
}
