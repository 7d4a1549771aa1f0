package block

import "testing"

func TestAnalyzeEmptyDocument(t *testing.T) {
	tags := Analyze(nil)
	if len(tags) != 0 {
		t.Errorf("len(tags) = %d, want 0", len(tags))
	}

	tags = Analyze([]string{""})
	if len(tags) != 1 {
		t.Fatalf("len(tags) = %d, want 1", len(tags))
	}
	if tags[0].Kind != KindPlain {
		t.Errorf("tags[0].Kind = %v, want plain", tags[0].Kind)
	}
}

func TestAnalyzeFencePairing(t *testing.T) {
	lines := []string{
		"intro",
		"more text",
		"",
		"```go",
		"func main() {}",
		"## not a heading",
		"- not a list",
		"```",
		"outro",
	}
	tags := Analyze(lines)

	if !tags[3].Opens || tags[3].Kind != KindCodeFence {
		t.Errorf("tags[3] = %+v, want opening code fence", tags[3])
	}
	if tags[3].FenceChar != '`' || tags[3].FenceLen != 3 {
		t.Errorf("tags[3] fence = %c x%d, want ` x3", tags[3].FenceChar, tags[3].FenceLen)
	}
	if tags[3].Info != "go" {
		t.Errorf("tags[3].Info = %q, want go", tags[3].Info)
	}

	// Lines 4-6 are content regardless of their literal syntax.
	for i := 4; i <= 6; i++ {
		if tags[i].Kind != KindCodeFence {
			t.Errorf("tags[%d].Kind = %v, want code-fence", i, tags[i].Kind)
		}
		if tags[i].Delimiter() {
			t.Errorf("tags[%d] should not be a delimiter", i)
		}
		if tags[i].Info != "go" {
			t.Errorf("tags[%d].Info = %q, want go", i, tags[i].Info)
		}
	}

	if !tags[7].Closes {
		t.Errorf("tags[7] = %+v, want closing fence", tags[7])
	}
	if tags[8].Kind != KindPlain {
		t.Errorf("tags[8].Kind = %v, want plain", tags[8].Kind)
	}
}

func TestAnalyzeShortCloserIsContent(t *testing.T) {
	lines := []string{
		"````",
		"```",
		"~~~",
		"````",
	}
	tags := Analyze(lines)

	if !tags[0].Opens {
		t.Fatalf("tags[0] = %+v, want opener", tags[0])
	}
	// Shorter run of the same char and any run of a different char are
	// literal content, not closers.
	if tags[1].Delimiter() || tags[1].Kind != KindCodeFence {
		t.Errorf("tags[1] = %+v, want fence content", tags[1])
	}
	if tags[2].Delimiter() || tags[2].Kind != KindCodeFence {
		t.Errorf("tags[2] = %+v, want fence content", tags[2])
	}
	if !tags[3].Closes {
		t.Errorf("tags[3] = %+v, want closer", tags[3])
	}
}

func TestAnalyzeLongerCloserCloses(t *testing.T) {
	tags := Analyze([]string{"```", "code", "`````"})
	if !tags[2].Closes {
		t.Errorf("tags[2] = %+v, want closer (run >= opening length)", tags[2])
	}
}

func TestAnalyzeUnterminatedFence(t *testing.T) {
	lines := []string{"text", "```", "still code", "also code"}
	tags := Analyze(lines)

	for i := 1; i < len(lines); i++ {
		if tags[i].Kind != KindCodeFence {
			t.Errorf("tags[%d].Kind = %v, want code-fence (open to EOF)", i, tags[i].Kind)
		}
	}
}

func TestAnalyzeFenceOnLastLine(t *testing.T) {
	tags := Analyze([]string{"text", "```"})
	if tags[1].Kind != KindCodeFence || !tags[1].Opens {
		t.Errorf("tags[1] = %+v, want opening code fence", tags[1])
	}
}

func TestAnalyzeMathBlock(t *testing.T) {
	lines := []string{"$$", `e^{i\pi} = -1`, "$$", "after"}
	tags := Analyze(lines)

	if !tags[0].Opens || tags[0].Kind != KindMathBlock {
		t.Errorf("tags[0] = %+v, want opening math block", tags[0])
	}
	if tags[1].Kind != KindMathBlock || tags[1].Delimiter() {
		t.Errorf("tags[1] = %+v, want math content", tags[1])
	}
	if !tags[2].Closes {
		t.Errorf("tags[2] = %+v, want closing math block", tags[2])
	}
	if tags[3].Kind != KindPlain {
		t.Errorf("tags[3].Kind = %v, want plain", tags[3].Kind)
	}
}

func TestAnalyzeUnterminatedMathRunsToEOF(t *testing.T) {
	tags := Analyze([]string{"$$", "x = 1", "y = 2"})
	for i := range tags {
		if tags[i].Kind != KindMathBlock {
			t.Errorf("tags[%d].Kind = %v, want math-block", i, tags[i].Kind)
		}
	}
}

func TestAnalyzeFenceSuppressesMathAndLists(t *testing.T) {
	lines := []string{"```", "$$", "- item", "> quote", "```"}
	tags := Analyze(lines)
	for i := 1; i <= 3; i++ {
		if tags[i].Kind != KindCodeFence {
			t.Errorf("tags[%d].Kind = %v, want code-fence", i, tags[i].Kind)
		}
	}
}

func TestAnalyzeListNesting(t *testing.T) {
	lines := []string{
		"- top",
		"  - nested",
		"    deeper continuation",
		"- top again",
		"1. ordered",
	}
	tags := Analyze(lines)

	want := []struct {
		depth   int
		ordered bool
	}{
		{0, false},
		{1, false},
		{1, false},
		{0, false},
		{0, true},
	}
	for i, w := range want {
		if tags[i].Kind != KindListItem {
			t.Errorf("tags[%d].Kind = %v, want list-item", i, tags[i].Kind)
			continue
		}
		if tags[i].Depth != w.depth {
			t.Errorf("tags[%d].Depth = %d, want %d", i, tags[i].Depth, w.depth)
		}
		if tags[i].Ordered != w.ordered {
			t.Errorf("tags[%d].Ordered = %v, want %v", i, tags[i].Ordered, w.ordered)
		}
	}
}

func TestAnalyzeBlankBreaksListWithoutIndent(t *testing.T) {
	lines := []string{"- item", "", "plain text"}
	tags := Analyze(lines)

	if tags[1].Kind != KindPlain {
		t.Errorf("tags[1].Kind = %v, want plain", tags[1].Kind)
	}
	if tags[2].Kind != KindPlain {
		t.Errorf("tags[2].Kind = %v, want plain (blank broke continuation)", tags[2].Kind)
	}
}

func TestAnalyzeBlankKeepsIndentedContinuation(t *testing.T) {
	lines := []string{"- item", "", "  continued"}
	tags := Analyze(lines)

	if tags[2].Kind != KindListItem {
		t.Errorf("tags[2].Kind = %v, want list-item (indented after blank)", tags[2].Kind)
	}
	if tags[2].Depth != 0 {
		t.Errorf("tags[2].Depth = %d, want 0", tags[2].Depth)
	}
}

func TestAnalyzeBlockquoteDepth(t *testing.T) {
	lines := []string{"> one", ">> two", "> > > three"}
	tags := Analyze(lines)

	want := []int{1, 2, 3}
	for i, d := range want {
		if tags[i].Kind != KindBlockquote {
			t.Errorf("tags[%d].Kind = %v, want blockquote", i, tags[i].Kind)
		}
		if tags[i].Depth != d {
			t.Errorf("tags[%d].Depth = %d, want %d", i, tags[i].Depth, d)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	lines := []string{"# h", "```py", "x", "```", "- a", "  - b", "$$", "m", "$$"}
	a := Analyze(lines)
	b := Analyze(lines)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tags[%d] differ between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestListMarker(t *testing.T) {
	tests := []struct {
		line    string
		ok      bool
		ordered bool
	}{
		{"- item", true, false},
		{"* item", true, false},
		{"+ item", true, false},
		{"-", true, false},
		{"-item", false, false},
		{"12. item", true, true},
		{"3) item", true, true},
		{"3)item", false, false},
		{"text", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		ordered, ok := listMarker(tt.line)
		if ok != tt.ok || ordered != tt.ordered {
			t.Errorf("listMarker(%q) = (%v, %v), want (%v, %v)",
				tt.line, ordered, ok, tt.ordered, tt.ok)
		}
	}
}
