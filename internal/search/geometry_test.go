package search

import "testing"

func TestHighlightRects(t *testing.T) {
	lines := []string{"foo bar foo", "second foo"}
	s := NewSession()
	matches, err := s.Search("foo", lines, Options{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("len(matches) = %d, want 3", len(matches))
	}

	m := NewMonoMeasurer(8, 20)
	rects := HighlightRects(matches, 0, lines, m)
	if len(rects) != 3 {
		t.Fatalf("len(rects) = %d, want 3", len(rects))
	}

	// "foo" at col 1, line 1: no preceding text, no preceding lines.
	if rects[0].X != 0 || rects[0].Y != 0 {
		t.Errorf("rects[0] = %+v, want origin", rects[0])
	}
	if rects[0].Width != 3*8 || rects[0].Height != 20 {
		t.Errorf("rects[0] = %+v, want 24x20", rects[0])
	}
	if !rects[0].Current {
		t.Error("rects[0].Current = false, want true")
	}

	// "foo" at col 9, line 1: 8 cells of preceding text.
	if rects[1].X != 8*8 || rects[1].Y != 0 {
		t.Errorf("rects[1] = %+v, want x=64 y=0", rects[1])
	}
	if rects[1].Current {
		t.Error("rects[1].Current = true, want false")
	}

	// "foo" on line 2: one full line of cumulative height above it.
	if rects[2].Y != 20 {
		t.Errorf("rects[2].Y = %d, want 20", rects[2].Y)
	}
	if rects[2].X != 7*8 {
		t.Errorf("rects[2].X = %d, want 56", rects[2].X)
	}
}

func TestHighlightRectsCurrentMoves(t *testing.T) {
	lines := []string{"a a a"}
	s := NewSession()
	matches, err := s.Search("a", lines, Options{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	m := NewMonoMeasurer(1, 1)
	for want := 0; want < 3; want++ {
		rects := HighlightRects(matches, want, lines, m)
		for i, r := range rects {
			if r.Current != (i == want) {
				t.Errorf("current=%d: rects[%d].Current = %v", want, i, r.Current)
			}
		}
	}
}

func TestHighlightRectsWideRunes(t *testing.T) {
	lines := []string{"日本 x"}
	s := NewSession()
	matches, err := s.Search("x", lines, Options{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("len = %d, want 1", len(matches))
	}

	m := NewMonoMeasurer(10, 16)
	rects := HighlightRects(matches, 0, lines, m)
	// Two wide runes (2 cells each) plus a space precede the match.
	if rects[0].X != 5*10 {
		t.Errorf("X = %d, want 50", rects[0].X)
	}
	if rects[0].Width != 10 {
		t.Errorf("Width = %d, want 10", rects[0].Width)
	}
}

func TestHighlightRectsEmpty(t *testing.T) {
	if got := HighlightRects(nil, -1, nil, NewMonoMeasurer(1, 1)); got != nil {
		t.Errorf("rects = %v, want nil", got)
	}
}
