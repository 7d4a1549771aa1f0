package caret

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Offset is a count of characters preceding the caret within the
// flattened text content of a line.
type Offset int

// Location is a concrete caret position: a node in the rendered tree and
// a character offset within it. For a text node the offset is measured in
// runes within the node's text; for an element node it is a child index.
type Location struct {
	Node   *html.Node
	Offset int
}

// Capture walks root depth-first, summing text lengths up to loc, and
// returns the flattened offset. An unknown or nil location captures as 0.
func Capture(root *html.Node, loc Location) Offset {
	if root == nil || loc.Node == nil {
		return 0
	}

	var sum int
	var found bool
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n == loc.Node {
			found = true
			switch n.Type {
			case html.TextNode:
				sum += clamp(loc.Offset, 0, runeLen(n.Data))
			default:
				// Element location: count the text of the children
				// preceding the child index.
				i := 0
				for c := n.FirstChild; c != nil && i < loc.Offset; c = c.NextSibling {
					sum += TextLength(c)
					i++
				}
			}
			return
		}
		if n.Type == html.TextNode {
			sum += runeLen(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
			if found {
				return
			}
		}
	}
	walk(root)

	if !found {
		return 0
	}
	return Offset(sum)
}

// Restore locates the text-bearing position whose cumulative preceding
// length equals off, clamped to the content length if the content shrank.
// If the tree holds no text at all, it returns the container start and
// false; placing the caret there never fails.
func Restore(root *html.Node, off Offset) (Location, bool) {
	if root == nil {
		return Location{}, false
	}
	if off < 0 {
		off = 0
	}

	var (
		acc      int
		lastText *html.Node
		result   Location
		found    bool
	)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found {
			return
		}
		if n.Type == html.TextNode {
			l := runeLen(n.Data)
			if acc+l >= int(off) {
				result = Location{Node: n, Offset: int(off) - acc}
				found = true
				return
			}
			acc += l
			lastText = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
			if found {
				return
			}
		}
	}
	walk(root)

	if found {
		return result, true
	}
	if lastText != nil {
		// Content shrank below the captured offset: land at end of text.
		return Location{Node: lastText, Offset: runeLen(lastText.Data)}, true
	}
	return Location{Node: root, Offset: 0}, false
}

// TextLength returns the flattened text length of a subtree, in runes.
func TextLength(root *html.Node) int {
	if root == nil {
		return 0
	}
	n := 0
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			n += runeLen(node.Data)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return n
}

// Flatten returns the concatenated text content of a subtree.
func Flatten(root *html.Node) string {
	if root == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return b.String()
}

// ParseLine parses a rendered line's HTML fragment and returns a container
// element holding the parsed nodes.
func ParseLine(fragment string) (*html.Node, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, err
	}

	container := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
