package coreterm

import "testing"

func TestResolveDefaultColorNilFallsBackToDefaults(t *testing.T) {
	if got := ResolveDefaultColor(nil, true); got != DefaultForeground {
		t.Errorf("nil fg = %v, want %v", got, DefaultForeground)
	}
	if got := ResolveDefaultColor(nil, false); got != DefaultBackground {
		t.Errorf("nil bg = %v, want %v", got, DefaultBackground)
	}
}

func TestResolveDefaultColorIndexedLooksUpPalette(t *testing.T) {
	got := ResolveDefaultColor(&IndexedColor{Index: 1}, true)
	if got != DefaultPalette[1] {
		t.Errorf("indexed color 1 = %v, want %v", got, DefaultPalette[1])
	}
}

func TestResolveDefaultColorIndexedOutOfRangeFallsBack(t *testing.T) {
	got := ResolveDefaultColor(&IndexedColor{Index: 999}, true)
	if got != DefaultForeground {
		t.Errorf("out-of-range index = %v, want default foreground %v", got, DefaultForeground)
	}
}

func TestResolveDefaultColorNamedDimming(t *testing.T) {
	got := ResolveDefaultColor(&NamedColor{Name: NamedColorDimRed}, true)
	base := DefaultPalette[1]
	want := byte(float64(base.R) * 0.66)
	if got.R != want {
		t.Errorf("dim red R = %d, want %d", got.R, want)
	}
}

func TestResolveDefaultColorRGBAPassesThrough(t *testing.T) {
	rgba := DefaultPalette[3]
	got := ResolveDefaultColor(rgba, true)
	if got != rgba {
		t.Errorf("RGBA passthrough = %v, want %v", got, rgba)
	}
}
