package coreterm

import (
	"regexp"
	"unicode/utf8"
)

// Match identifies one regexp match in the terminal's text, spanning from
// Start up to but not including End. Row follows the same convention as
// [Position]: non-negative rows are the visible screen, negative rows index
// into scrollback with -1 being the most recently scrolled-off line.
type Match struct {
	Start Position
	End   Position
}

// searchLine pairs a row identifier with its rendered text, used internally
// to walk the visible screen and scrollback as one ordered sequence.
type searchLine struct {
	row  int
	text string
}

// searchCorpus returns every line of scrollback followed by every line of
// the visible screen, oldest to newest, each paired with the row number a
// [Match] on that line should report.
func (t *Terminal) searchCorpus() []searchLine {
	t.mu.RLock()
	defer t.mu.RUnlock()

	scrollbackLen := t.primaryBuffer.ScrollbackLen()
	lines := make([]searchLine, 0, scrollbackLen+t.rows)

	for i := 0; i < scrollbackLen; i++ {
		cells := t.primaryBuffer.ScrollbackLine(i)
		if cells == nil {
			continue
		}
		lines = append(lines, searchLine{
			row:  -(scrollbackLen - i),
			text: cellsToText(cells),
		})
	}

	for row := 0; row < t.rows; row++ {
		lines = append(lines, searchLine{
			row:  row,
			text: t.activeBuffer.LineContent(row),
		})
	}

	return lines
}

func cellsToText(cells []Cell) string {
	runes := make([]rune, 0, len(cells))
	for _, cell := range cells {
		if cell.IsWideSpacer() {
			continue
		}
		if cell.Char == 0 {
			runes = append(runes, ' ')
		} else {
			runes = append(runes, cell.Char)
		}
	}
	return string(runes)
}

// byteToRuneCol converts a byte offset within s (as returned by regexp's
// FindAllStringIndex) to the rune-based column SearchAll/SearchForward/
// SearchBackward report.
func byteToRuneCol(s string, byteOffset int) int {
	return utf8.RuneCountInString(s[:byteOffset])
}

// SearchAll returns every match of re across scrollback and the visible
// screen, in top-to-bottom order, oldest scrollback line first.
func (t *Terminal) SearchAll(re *regexp.Regexp) []Match {
	if re == nil {
		return nil
	}

	var matches []Match
	for _, line := range t.searchCorpus() {
		for _, idx := range re.FindAllStringIndex(line.text, -1) {
			matches = append(matches, Match{
				Start: Position{Row: line.row, Col: byteToRuneCol(line.text, idx[0])},
				End:   Position{Row: line.row, Col: byteToRuneCol(line.text, idx[1])},
			})
		}
	}
	return matches
}

// SearchForward returns the first match of re at or after from, scanning
// scrollback-then-visible in reading order. It does not wrap around.
func (t *Terminal) SearchForward(re *regexp.Regexp, from Position) (Match, bool) {
	if re == nil {
		return Match{}, false
	}

	for _, line := range t.searchCorpus() {
		if lineBefore(line.row, from.Row) {
			continue
		}
		minCol := 0
		if line.row == from.Row {
			minCol = from.Col
		}
		for _, idx := range re.FindAllStringIndex(line.text, -1) {
			col := byteToRuneCol(line.text, idx[0])
			if col < minCol {
				continue
			}
			return Match{
				Start: Position{Row: line.row, Col: col},
				End:   Position{Row: line.row, Col: byteToRuneCol(line.text, idx[1])},
			}, true
		}
	}
	return Match{}, false
}

// SearchBackward returns the last match of re at or before from, scanning in
// reverse reading order. It does not wrap around.
func (t *Terminal) SearchBackward(re *regexp.Regexp, from Position) (Match, bool) {
	if re == nil {
		return Match{}, false
	}

	lines := t.searchCorpus()
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if lineBefore(from.Row, line.row) {
			continue
		}
		maxCol := len(line.text)
		if line.row == from.Row {
			maxCol = from.Col
		}

		var best *Match
		for _, idx := range re.FindAllStringIndex(line.text, -1) {
			col := byteToRuneCol(line.text, idx[0])
			if line.row == from.Row && col > maxCol {
				continue
			}
			m := Match{
				Start: Position{Row: line.row, Col: col},
				End:   Position{Row: line.row, Col: byteToRuneCol(line.text, idx[1])},
			}
			best = &m
		}
		if best != nil {
			return *best, true
		}
	}
	return Match{}, false
}

// lineBefore reports whether row a comes strictly before row b in reading
// order, using the scrollback-is-negative convention: more negative rows are
// older and sort first, then 0..N visible rows follow in order.
func lineBefore(a, b int) bool {
	return a < b
}

// SelectionKind controls what a selection expands to cover.
type SelectionKind int

const (
	// SelectionChar selects exactly the cells between Start and End.
	SelectionChar SelectionKind = iota
	// SelectionWord expands both endpoints to whole words.
	SelectionWord
	// SelectionLine expands both endpoints to whole lines.
	SelectionLine
	// SelectionBlock selects a rectangular region rather than following
	// reading order; Start/End column bounds apply to every row in range.
	SelectionBlock
)

// isWordRune reports whether r is part of a "word" for word-selection
// purposes: letters, digits, and underscore, matching common terminal
// double-click semantics.
func isWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	default:
		return false
	}
}

// SelectWord sets the selection to the word under pos, using the active
// buffer's current line content to find word boundaries.
func (t *Terminal) SelectWord(pos Position) {
	t.mu.RLock()
	line := t.activeBuffer.LineContent(pos.Row)
	t.mu.RUnlock()

	runes := []rune(line)
	if pos.Col < 0 || pos.Col >= len(runes) || !isWordRune(runes[pos.Col]) {
		t.SetSelection(pos, pos)
		return
	}

	start, end := pos.Col, pos.Col
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	for end < len(runes)-1 && isWordRune(runes[end+1]) {
		end++
	}

	t.SetSelection(Position{Row: pos.Row, Col: start}, Position{Row: pos.Row, Col: end})
}

// SelectLine sets the selection to the entirety of the given row.
func (t *Terminal) SelectLine(row int) {
	t.mu.RLock()
	cols := t.cols
	t.mu.RUnlock()
	t.SetSelection(Position{Row: row, Col: 0}, Position{Row: row, Col: cols - 1})
}
