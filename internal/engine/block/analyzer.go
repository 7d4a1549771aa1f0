package block

import "strings"

// maxFenceIndent is the maximum leading-space indent for a fence delimiter.
const maxFenceIndent = 3

// mathDelimiter is the display-math toggle line.
const mathDelimiter = "$$"

// Analyze classifies every line of a document snapshot in one forward pass.
// It is pure: the same snapshot always yields the same tags.
func Analyze(lines []string) []Tag {
	tags := make([]Tag, len(lines))

	var (
		inFence   bool
		fenceChar byte
		fenceLen  int
		fenceInfo string

		inMath bool

		// Indent stack of open list markers, innermost last.
		listIndents []int
		listOrdered bool
	)

	for i, line := range lines {
		switch {
		case inFence:
			if ch, n, rest, ok := fenceRun(line); ok && ch == fenceChar && n >= fenceLen && strings.TrimSpace(rest) == "" {
				tags[i] = Tag{Kind: KindCodeFence, FenceChar: fenceChar, FenceLen: fenceLen, Info: fenceInfo, Closes: true}
				inFence = false
			} else {
				tags[i] = Tag{Kind: KindCodeFence, FenceChar: fenceChar, FenceLen: fenceLen, Info: fenceInfo}
			}
			continue

		case inMath:
			if strings.TrimSpace(line) == mathDelimiter {
				tags[i] = Tag{Kind: KindMathBlock, Closes: true}
				inMath = false
			} else {
				tags[i] = Tag{Kind: KindMathBlock}
			}
			continue
		}

		if ch, n, rest, ok := fenceRun(line); ok {
			inFence = true
			fenceChar = ch
			fenceLen = n
			fenceInfo = strings.TrimSpace(rest)
			listIndents = nil
			tags[i] = Tag{Kind: KindCodeFence, FenceChar: ch, FenceLen: n, Info: fenceInfo, Opens: true}
			continue
		}

		if strings.TrimSpace(line) == mathDelimiter {
			inMath = true
			listIndents = nil
			tags[i] = Tag{Kind: KindMathBlock, Opens: true}
			continue
		}

		indent := leadingSpaces(line)

		if ordered, ok := listMarker(line); ok {
			// Pop markers this line is not nested under.
			for len(listIndents) > 0 && indent < listIndents[len(listIndents)-1] {
				listIndents = listIndents[:len(listIndents)-1]
			}
			if len(listIndents) == 0 || indent > listIndents[len(listIndents)-1] {
				listIndents = append(listIndents, indent)
			}
			listOrdered = ordered
			tags[i] = Tag{Kind: KindListItem, Ordered: ordered, Depth: len(listIndents) - 1}
			continue
		}

		if len(listIndents) > 0 {
			marker := listIndents[len(listIndents)-1]
			if isBlank(line) {
				// A blank breaks continuation only if the next line lacks
				// sufficient indentation.
				if i+1 >= len(lines) || leadingSpaces(lines[i+1]) < marker+2 {
					listIndents = nil
				}
				tags[i] = Tag{Kind: KindPlain}
				continue
			}
			if indent >= marker+2 {
				tags[i] = Tag{Kind: KindListItem, Ordered: listOrdered, Depth: len(listIndents) - 1}
				continue
			}
			listIndents = nil
		}

		if d := quoteDepth(line); d > 0 {
			tags[i] = Tag{Kind: KindBlockquote, Depth: d}
			continue
		}

		tags[i] = Tag{Kind: KindPlain}
	}

	return tags
}

// fenceRun reports whether a line is a fence delimiter candidate: at most
// three leading spaces, then a run of three or more backticks or tildes.
// rest is everything after the run (the info string on an opener).
func fenceRun(line string) (ch byte, n int, rest string, ok bool) {
	i := 0
	for i < len(line) && line[i] == ' ' {
		i++
	}
	if i > maxFenceIndent || i >= len(line) {
		return 0, 0, "", false
	}
	ch = line[i]
	if ch != '`' && ch != '~' {
		return 0, 0, "", false
	}
	start := i
	for i < len(line) && line[i] == ch {
		i++
	}
	n = i - start
	if n < 3 {
		return 0, 0, "", false
	}
	return ch, n, line[i:], true
}

// listMarker reports whether a line begins with a list marker after its
// indentation. Unordered markers are "-", "*", "+"; ordered markers are a
// digit run followed by "." or ")". The marker must be followed by a space
// or end the line.
func listMarker(line string) (ordered, ok bool) {
	s := strings.TrimLeft(line, " ")
	if s == "" {
		return false, false
	}

	switch s[0] {
	case '-', '*', '+':
		if len(s) == 1 || s[1] == ' ' {
			return false, true
		}
		return false, false
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) {
		return false, false
	}
	if s[i] != '.' && s[i] != ')' {
		return false, false
	}
	if i+1 == len(s) || s[i+1] == ' ' {
		return true, true
	}
	return false, false
}

// quoteDepth counts leading '>' markers, allowing a single space between
// them. Returns 0 for non-quote lines.
func quoteDepth(line string) int {
	s := strings.TrimLeft(line, " ")
	depth := 0
	for len(s) > 0 && s[0] == '>' {
		depth++
		s = s[1:]
		if len(s) > 0 && s[0] == ' ' {
			s = s[1:]
		}
	}
	return depth
}

func leadingSpaces(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
