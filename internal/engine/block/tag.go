package block

// Kind identifies the block context of a line.
type Kind uint8

const (
	// KindPlain is a line outside any multi-line block.
	KindPlain Kind = iota

	// KindCodeFence is a line inside (or delimiting) a fenced code block.
	KindCodeFence

	// KindMathBlock is a line inside (or delimiting) a display-math block.
	KindMathBlock

	// KindListItem is a list item line or a continuation of one.
	KindListItem

	// KindBlockquote is a blockquote line.
	KindBlockquote
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindCodeFence:
		return "code-fence"
	case KindMathBlock:
		return "math-block"
	case KindListItem:
		return "list-item"
	case KindBlockquote:
		return "blockquote"
	default:
		return "unknown"
	}
}

// Tag describes the block context of a single line relative to a full
// document snapshot.
type Tag struct {
	Kind Kind

	// FenceChar is the fence delimiter character ('`' or '~').
	// Only meaningful for KindCodeFence.
	FenceChar byte

	// FenceLen is the delimiter run length of the enclosing fence.
	FenceLen int

	// Info is the info string of the opening fence line (typically a
	// language name), propagated to every line of the block.
	Info string

	// Ordered reports whether a list item uses an ordered marker.
	Ordered bool

	// Depth is the nesting depth: list nesting level (0-based) for
	// KindListItem, '>' count for KindBlockquote.
	Depth int

	// Opens marks the opening delimiter line of a fence or math block.
	Opens bool

	// Closes marks the closing delimiter line of a fence or math block.
	Closes bool
}

// Delimiter reports whether the line is an opening or closing delimiter.
func (t Tag) Delimiter() bool {
	return t.Opens || t.Closes
}
