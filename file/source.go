package file

import "strings"

// Source wraps the original input text and resolves byte offsets to
// 1-based line/column pairs for diagnostics.
type Source struct {
	raw   string
	lines []int // byte offset of the start of each line
}

// NewSource indexes the line breaks of input once, up front, so that
// repeated Position lookups during error reporting are O(log n).
func NewSource(input string) Source {
	lines := []int{0}
	for i, r := range input {
		if r == '\n' {
			lines = append(lines, i+1)
		}
	}
	return Source{raw: input, lines: lines}
}

func (s Source) String() string { return s.raw }

// Snippet returns the source text covered by loc, clamped to bounds.
func (s Source) Snippet(loc Location) string {
	from, to := loc.From, loc.To
	if from < 0 {
		from = 0
	}
	if to > len(s.raw) {
		to = len(s.raw)
	}
	if from > to {
		return ""
	}
	return s.raw[from:to]
}

// Position resolves a byte offset to a 1-based (line, column) pair.
func (s Source) Position(offset int) (line, column int) {
	// binary search for the last line start <= offset
	lo, hi := 0, len(s.lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.lines[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	lineStart := s.lines[lo]
	return lo + 1, offset - lineStart + 1
}

// LineText returns the full text of the line containing offset, without
// its trailing newline.
func (s Source) LineText(offset int) string {
	line, _ := s.Position(offset)
	start := s.lines[line-1]
	end := len(s.raw)
	if line < len(s.lines) {
		end = s.lines[line] - 1
	}
	return strings.TrimRight(s.raw[start:end], "\r")
}
