package search

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/dshills/inkline/internal/engine/linestore"
)

// Errors returned by search operations.
var (
	ErrInvalidQuery   = errors.New("invalid search query")
	ErrNoCurrentMatch = errors.New("no current match")
)

// Options controls how a query matches.
type Options struct {
	CaseSensitive bool
	WholeWord     bool
	Regex         bool
}

// Match is one occurrence of the query. Line and Column are 1-based;
// Column and Length are measured in runes.
type Match struct {
	Line     int
	Column   int
	Length   int
	Text     string
	LineText string
}

// State is the session state.
type State uint8

const (
	// StateIdle means no search is active.
	StateIdle State = iota

	// StateSearching means a query is active and matches are held.
	StateSearching
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	default:
		return "unknown"
	}
}

// CompileQuery compiles a search query into a regex pattern.
// Returns an error if the query is invalid.
func CompileQuery(query string, opts Options) (*regexp.Regexp, error) {
	pattern := query

	if !opts.Regex {
		pattern = regexp.QuoteMeta(pattern)
	}
	if opts.WholeWord {
		pattern = `\b` + pattern + `\b`
	}
	if !opts.CaseSensitive {
		pattern = "(?i)" + pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return re, nil
}

// Session holds an active search over a document.
type Session struct {
	state   State
	query   string
	opts    Options
	matches []Match
	current int // index into matches, -1 when none
}

// NewSession creates an idle session.
func NewSession() *Session {
	return &Session{state: StateIdle, current: -1}
}

// Search runs query against the document snapshot, fully replacing any
// prior matches and resetting the current index to the first match (or
// none). An empty query or empty document is a no-op returning no matches.
func (s *Session) Search(query string, lines []string, opts Options) ([]Match, error) {
	if query == "" || len(lines) == 0 {
		s.reset()
		return nil, nil
	}

	re, err := CompileQuery(query, opts)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for i, line := range lines {
		for _, m := range re.FindAllStringIndex(line, -1) {
			matches = append(matches, Match{
				Line:     i + 1,
				Column:   utf8.RuneCountInString(line[:m[0]]) + 1,
				Length:   utf8.RuneCountInString(line[m[0]:m[1]]),
				Text:     line[m[0]:m[1]],
				LineText: line,
			})
		}
	}

	s.state = StateSearching
	s.query = query
	s.opts = opts
	s.matches = matches
	if len(matches) > 0 {
		s.current = 0
	} else {
		s.current = -1
	}
	return s.Matches(), nil
}

func (s *Session) reset() {
	s.state = StateIdle
	s.query = ""
	s.matches = nil
	s.current = -1
}

// State returns the session state.
func (s *Session) State() State { return s.state }

// Query returns the active query.
func (s *Session) Query() string { return s.query }

// Matches returns a copy of the current matches.
func (s *Session) Matches() []Match {
	out := make([]Match, len(s.matches))
	copy(out, s.matches)
	return out
}

// CurrentIndex returns the current match index, -1 when none.
func (s *Session) CurrentIndex() int { return s.current }

// Current returns the current match.
func (s *Session) Current() (Match, bool) {
	if s.current < 0 || s.current >= len(s.matches) {
		return Match{}, false
	}
	return s.matches[s.current], true
}

// Next advances the current match, wrapping past the last back to the
// first.
func (s *Session) Next() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}
	s.current = (s.current + 1) % len(s.matches)
	return s.matches[s.current], true
}

// Previous steps the current match backwards, wrapping from the first to
// the last.
func (s *Session) Previous() (Match, bool) {
	if len(s.matches) == 0 {
		return Match{}, false
	}
	s.current = (s.current - 1 + len(s.matches)) % len(s.matches)
	return s.matches[s.current], true
}

// ReplaceCurrent replaces the current match's text in the raw buffer,
// then re-runs the search: the replacement shifts offsets of later
// matches on the same line, so held positions cannot be trusted.
func (s *Session) ReplaceCurrent(store *linestore.Store, replacement string) error {
	m, ok := s.Current()
	if !ok {
		return ErrNoCurrentMatch
	}

	line, err := store.Line(m.Line - 1)
	if err != nil {
		return err
	}

	start := byteIndexOfRune(line.Raw, m.Column-1)
	end := byteIndexOfRune(line.Raw, m.Column-1+m.Length)
	if err := store.MutateLine(m.Line-1, line.Raw[:start]+replacement+line.Raw[end:]); err != nil {
		return err
	}

	_, err = s.Search(s.query, store.Snapshot(), s.opts)
	return err
}

// ReplaceAll substitutes every occurrence of the active query across the
// whole buffer in a single pass and transitions to Idle. It returns the
// number of replacements made.
func (s *Session) ReplaceAll(store *linestore.Store, replacement string) (int, error) {
	if s.query == "" {
		s.reset()
		return 0, nil
	}

	re, err := CompileQuery(s.query, s.opts)
	if err != nil {
		return 0, err
	}

	replaced := 0
	for i, line := range store.Snapshot() {
		hits := re.FindAllStringIndex(line, -1)
		if len(hits) == 0 {
			continue
		}

		var newLine string
		if s.opts.Regex {
			newLine = re.ReplaceAllString(line, replacement)
		} else {
			newLine = re.ReplaceAllLiteralString(line, replacement)
		}
		if err := store.MutateLine(i, newLine); err != nil {
			return replaced, err
		}
		replaced += len(hits)
	}

	s.reset()
	return replaced, nil
}

// byteIndexOfRune returns the byte index of the rune at runeIndex,
// clamping to the end of the string.
func byteIndexOfRune(s string, runeIndex int) int {
	n := 0
	for i := range s {
		if n == runeIndex {
			return i
		}
		n++
	}
	return len(s)
}
