package coreterm

import "image/color"

// CursorStyle determines how the cursor is rendered.
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Cursor tracks the current position and rendering style (0-based coordinates).
type Cursor struct {
	Row     int
	Col     int
	Style   CursorStyle
	Visible bool
}

// NewCursor creates a cursor at (0, 0) with blinking block style, visible.
func NewCursor() *Cursor {
	return &Cursor{
		Row:     0,
		Col:     0,
		Style:   CursorStyleBlinkingBlock,
		Visible: true,
	}
}

// SavedCursor stores cursor position, cell attributes, and charset state for restoration.
// Used when switching between primary and alternate screens.
type SavedCursor struct {
	Row            int
	Col            int
	Attrs          CellTemplate
	OriginMode     bool
	CharsetIndex   int
	Charsets       [4]Charset
}

// CellTemplate defines default attributes applied to newly written characters.
// Modified by SGR (Select Graphic Rendition) escape sequences.
type CellTemplate struct {
	Cell
}

// NewCellTemplate creates a template with default attributes (default named colors, no flags).
func NewCellTemplate() CellTemplate {
	return CellTemplate{
		Cell: NewCell(),
	}
}

// Charset selects the character encoding variant.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// CharsetIndex selects one of four character set slots (G0-G3).
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)

// IsBlinking reports whether the style blinks (the odd-numbered DECSCUSR values).
func (s CursorStyle) IsBlinking() bool {
	switch s {
	case CursorStyleBlinkingBlock, CursorStyleBlinkingUnderline, CursorStyleBlinkingBar:
		return true
	default:
		return false
	}
}

// Shape strips the blink bit, collapsing a style to block, underline, or bar.
func (s CursorStyle) Shape() CursorStyle {
	switch s {
	case CursorStyleBlinkingBlock, CursorStyleSteadyBlock:
		return CursorStyleSteadyBlock
	case CursorStyleBlinkingUnderline, CursorStyleSteadyUnderline:
		return CursorStyleSteadyUnderline
	default:
		return CursorStyleSteadyBar
	}
}

// CursorColor returns the color an OSC 12 set-form sequence ([dispatchDynamicColor])
// has most recently assigned the cursor, falling back to [DefaultCursorColor].
func (t *Terminal) CursorColor() color.RGBA {
	t.mu.RLock()
	c, ok := t.colors[NamedColorCursor]
	t.mu.RUnlock()
	if !ok {
		return DefaultCursorColor
	}
	return ResolveDefaultColor(c, true)
}
