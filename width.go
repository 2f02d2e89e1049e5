package coreterm

import "github.com/unilibs/uniwidth"

// runeWidth returns the display width: 2 for wide characters (CJK, emoji), 1 for normal, 0 for zero-width (combining marks, control chars).
func runeWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// isWideRune returns true if the rune occupies 2 columns (CJK ideographs, fullwidth forms, emoji).
func isWideRune(r rune) bool {
	return uniwidth.RuneWidth(r) == 2
}

// StringWidth returns the total display width of a string (sum of rune widths).
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}

// CellWidth returns the display width of a cell's base character. Combining
// marks attached via Cell.AddCombining are zero-width by construction (that's
// what makes them combining marks) and ride along with the base character's
// column, so this is just runeWidth(c.Char) — but it exists so callers stop
// reaching for c.Char directly and risk double-counting width if a combining
// mark is ever widened by a future Unicode table update.
func CellWidth(c *Cell) int {
	return runeWidth(c.Char)
}
