package coreterm

import (
	"testing"
)

func TestNewCell(t *testing.T) {
	cell := NewCell()

	if cell.Char != ' ' {
		t.Errorf("expected space, got '%c'", cell.Char)
	}
	if fg, ok := cell.Fg.(*NamedColor); !ok || fg.Name != NamedColorForeground {
		t.Error("expected default named foreground")
	}
	if bg, ok := cell.Bg.(*NamedColor); !ok || bg.Name != NamedColorBackground {
		t.Error("expected default named background")
	}
	if cell.Flags != 0 {
		t.Error("expected no flags")
	}
}

func TestCellReset(t *testing.T) {
	cell := NewCell()
	cell.Char = 'A'
	cell.SetFlag(CellFlagBold)

	cell.Reset()

	if cell.Char != ' ' {
		t.Errorf("expected space after reset, got '%c'", cell.Char)
	}
	if cell.HasFlag(CellFlagBold) {
		t.Error("expected no flags after reset")
	}
}

func TestCellFlags(t *testing.T) {
	cell := NewCell()

	cell.SetFlag(CellFlagBold)
	if !cell.HasFlag(CellFlagBold) {
		t.Error("expected bold flag")
	}

	cell.SetFlag(CellFlagItalic)
	if !cell.HasFlag(CellFlagBold) || !cell.HasFlag(CellFlagItalic) {
		t.Error("expected both flags")
	}

	cell.ClearFlag(CellFlagBold)
	if cell.HasFlag(CellFlagBold) {
		t.Error("expected bold flag to be cleared")
	}
	if !cell.HasFlag(CellFlagItalic) {
		t.Error("expected italic flag to remain")
	}
}

func TestCellDirty(t *testing.T) {
	cell := NewCell()

	if cell.IsDirty() {
		t.Error("expected cell not dirty initially")
	}

	cell.MarkDirty()
	if !cell.IsDirty() {
		t.Error("expected cell to be dirty")
	}

	cell.ClearDirty()
	if cell.IsDirty() {
		t.Error("expected cell not dirty after clear")
	}
}

func TestCellWide(t *testing.T) {
	cell := NewCell()

	cell.SetFlag(CellFlagWideChar)
	if !cell.IsWide() {
		t.Error("expected cell to be wide")
	}

	spacer := NewCell()
	spacer.SetFlag(CellFlagWideCharSpacer)
	if !spacer.IsWideSpacer() {
		t.Error("expected cell to be spacer")
	}
}

func TestCellCopy(t *testing.T) {
	cell := NewCell()
	cell.Char = 'X'
	cell.SetFlag(CellFlagBold | CellFlagItalic)

	copied := cell.Copy()

	if copied.Char != 'X' {
		t.Errorf("expected 'X', got '%c'", copied.Char)
	}
	if !copied.HasFlag(CellFlagBold) || !copied.HasFlag(CellFlagItalic) {
		t.Error("expected flags to be copied")
	}

	// Modify original, copy should be unchanged
	cell.Char = 'Y'
	if copied.Char != 'X' {
		t.Error("copy should be independent")
	}
}

func TestCellCombiningMarksAccumulateAndCap(t *testing.T) {
	cell := NewCell()
	cell.Char = 'e'
	for _, r := range []rune{0x0301, 0x0302, 0x0303, 0x0304, 0x0305} {
		cell.AddCombining(r)
	}

	if len(cell.Combining) != maxCombining {
		t.Fatalf("expected combining marks capped at %d, got %d", maxCombining, len(cell.Combining))
	}

	runes := cell.Runes()
	if runes[0] != 'e' {
		t.Errorf("expected base rune 'e' first, got %q", runes[0])
	}
	if len(runes) != 1+maxCombining {
		t.Errorf("expected %d runes total, got %d", 1+maxCombining, len(runes))
	}
}

func TestCellRunesWithNoCombiningReturnsJustBase(t *testing.T) {
	cell := NewCell()
	cell.Char = 'A'
	runes := cell.Runes()
	if len(runes) != 1 || runes[0] != 'A' {
		t.Errorf("expected [A], got %v", runes)
	}
}

func TestCellProtectedFlagSurvivesAcrossErase(t *testing.T) {
	cell := NewCell()
	cell.SetFlag(CellFlagProtected)
	if !cell.HasFlag(CellFlagProtected) {
		t.Error("expected protected flag set")
	}

	// Reset clears all state, including protection - DECSCA protection is
	// scoped to erase operations, not a permanent cell property.
	cell.Reset()
	if cell.HasFlag(CellFlagProtected) {
		t.Error("expected Reset to clear the protected flag like any other")
	}
}

func TestCellHyperlinkClearedOnReset(t *testing.T) {
	cell := NewCell()
	cell.Hyperlink = &Hyperlink{URI: "https://example.com"}

	cell.Reset()
	if cell.Hyperlink != nil {
		t.Error("expected Reset to clear hyperlink")
	}
}

func TestCellCopyDeepCopiesCombiningMarks(t *testing.T) {
	cell := NewCell()
	cell.Char = 'e'
	cell.AddCombining(0x0301)

	copied := cell.Copy()
	copied.Combining[0] = 0x0302

	if cell.Combining[0] != 0x0301 {
		t.Error("expected Copy to deep-copy the Combining slice, original was mutated")
	}
}
