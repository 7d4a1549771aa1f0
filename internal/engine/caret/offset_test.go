package caret

import (
	"testing"

	"golang.org/x/net/html"
)

// firstTextNode returns the first text node in document order.
func firstTextNode(root *html.Node) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.TextNode {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

func mustParse(t *testing.T, fragment string) *html.Node {
	t.Helper()
	root, err := ParseLine(fragment)
	if err != nil {
		t.Fatalf("ParseLine(%q): %v", fragment, err)
	}
	return root
}

func TestCaptureSimpleText(t *testing.T) {
	root := mustParse(t, "<p>hello world</p>")
	text := firstTextNode(root)
	if text == nil {
		t.Fatal("no text node")
	}

	off := Capture(root, Location{Node: text, Offset: 5})
	if off != 5 {
		t.Errorf("Capture = %d, want 5", off)
	}
}

func TestCaptureAcrossInlineMarkup(t *testing.T) {
	// "abc" + "bold" + "def"; caret 2 runes into "def".
	root := mustParse(t, "<p>abc<strong>bold</strong>def</p>")

	var defNode *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode && n.Data == "def" {
			defNode = n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	if defNode == nil {
		t.Fatal("no def node")
	}

	off := Capture(root, Location{Node: defNode, Offset: 2})
	if off != 9 {
		t.Errorf("Capture = %d, want 9 (3+4+2)", off)
	}
}

func TestCaptureClampsIntraNodeOffset(t *testing.T) {
	root := mustParse(t, "<p>abc</p>")
	text := firstTextNode(root)

	off := Capture(root, Location{Node: text, Offset: 99})
	if off != 3 {
		t.Errorf("Capture = %d, want 3 (clamped)", off)
	}
}

func TestRoundTripAcrossRestructuredMarkup(t *testing.T) {
	// Offset captured on a literal editing representation must survive
	// restoration into completely different markup for the same text.
	before := mustParse(t, "<p>### Title</p>")
	text := firstTextNode(before)
	off := Capture(before, Location{Node: text, Offset: 6})
	if off != 6 {
		t.Fatalf("Capture = %d, want 6", off)
	}

	after := mustParse(t, "<h3>### Title</h3>")
	loc, ok := Restore(after, off)
	if !ok {
		t.Fatal("Restore failed")
	}
	if got := Capture(after, loc); got != 6 {
		t.Errorf("round-trip offset = %d, want 6", got)
	}
}

func TestRestoreClampsToContentLength(t *testing.T) {
	root := mustParse(t, "<p>hi</p>")
	loc, ok := Restore(root, 10)
	if !ok {
		t.Fatal("Restore failed")
	}
	if loc.Node == nil || loc.Node.Type != html.TextNode {
		t.Fatalf("Restore landed on %+v, want text node", loc)
	}
	if loc.Offset != 2 {
		t.Errorf("Offset = %d, want 2 (end of content)", loc.Offset)
	}
}

func TestRestoreEmptyContent(t *testing.T) {
	root := mustParse(t, "<p><br></p>")
	loc, ok := Restore(root, 3)
	if ok {
		t.Error("Restore ok = true for text-free tree")
	}
	if loc.Node != root || loc.Offset != 0 {
		t.Errorf("Restore = %+v, want container start", loc)
	}
}

func TestRestoreSpansMultipleTextNodes(t *testing.T) {
	root := mustParse(t, "<p>abc<em>de</em>fgh</p>")

	loc, ok := Restore(root, 4)
	if !ok {
		t.Fatal("Restore failed")
	}
	if loc.Node.Data != "de" || loc.Offset != 1 {
		t.Errorf("Restore = node %q offset %d, want de/1", loc.Node.Data, loc.Offset)
	}

	// Boundary lands at the end of the earlier node or start of the next;
	// either way the flattened position must agree.
	loc, ok = Restore(root, 3)
	if !ok {
		t.Fatal("Restore failed")
	}
	if got := Capture(root, loc); got != 3 {
		t.Errorf("boundary round-trip = %d, want 3", got)
	}
}

func TestRestoreMultibyteRunes(t *testing.T) {
	root := mustParse(t, "<p>héllo wörld</p>")
	loc, ok := Restore(root, 7)
	if !ok {
		t.Fatal("Restore failed")
	}
	if got := Capture(root, loc); got != 7 {
		t.Errorf("round-trip = %d, want 7", got)
	}
}

func TestFlattenAndTextLength(t *testing.T) {
	root := mustParse(t, "<p>a<strong>b</strong><em>c</em></p>")
	if got := Flatten(root); got != "abc" {
		t.Errorf("Flatten = %q, want abc", got)
	}
	if got := TextLength(root); got != 3 {
		t.Errorf("TextLength = %d, want 3", got)
	}
}

func TestCaptureElementLocation(t *testing.T) {
	root := mustParse(t, "<p>ab<em>cd</em>ef</p>")

	// Element location: the <p> with child index 2 means "after ab and cd".
	var p *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			p = n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	if p == nil {
		t.Fatal("no p element")
	}

	off := Capture(root, Location{Node: p, Offset: 2})
	if off != 4 {
		t.Errorf("Capture = %d, want 4", off)
	}
}

func TestCaptureNilInputs(t *testing.T) {
	if off := Capture(nil, Location{}); off != 0 {
		t.Errorf("Capture(nil) = %d, want 0", off)
	}
	root := mustParse(t, "<p>x</p>")
	if off := Capture(root, Location{}); off != 0 {
		t.Errorf("Capture with nil node = %d, want 0", off)
	}
	if _, ok := Restore(nil, 0); ok {
		t.Error("Restore(nil) ok = true")
	}
}
