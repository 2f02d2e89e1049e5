package inputenc

import (
	"bytes"
	"testing"

	"github.com/coreterm/coreterm"
)

func TestEncodeKeyArrowRespectsDECCKM(t *testing.T) {
	term := coreterm.New()
	enc := New(term)

	got := enc.EncodeKey(KeyEvent{Sym: KeyUp})
	want := []byte("\x1b[A")
	if !bytes.Equal(got, want) {
		t.Fatalf("normal mode Up: got %q, want %q", got, want)
	}

	term.SetMode(coreterm.ProtocolModeCursorKeys)
	got = enc.EncodeKey(KeyEvent{Sym: KeyUp})
	want = []byte("\x1bOA")
	if !bytes.Equal(got, want) {
		t.Fatalf("DECCKM Up: got %q, want %q", got, want)
	}
}

func TestEncodeKeyKittyDisambiguate(t *testing.T) {
	term := coreterm.New()
	term.PushKeyboardMode(coreterm.KeyboardModeDisambiguateEscapeCodes)
	enc := New(term)

	got := enc.EncodeRune('a', ModCtrl)
	want := []byte("\x1b[97;5u")
	if !bytes.Equal(got, want) {
		t.Fatalf("kitty Ctrl+a: got %q, want %q", got, want)
	}
}

func TestEncodeRuneCtrlLegacy(t *testing.T) {
	term := coreterm.New()
	enc := New(term)

	got := enc.EncodeRune('a', ModCtrl)
	want := []byte{0x01}
	if !bytes.Equal(got, want) {
		t.Fatalf("legacy Ctrl+a: got %q, want %q", got, want)
	}
}

func TestEncodePaste(t *testing.T) {
	enc := New(coreterm.New())
	got := enc.EncodePaste("hi", true)
	want := []byte("\x1b[200~hi\x1b[201~")
	if !bytes.Equal(got, want) {
		t.Fatalf("bracketed paste: got %q, want %q", got, want)
	}

	got = enc.EncodePaste("hi", false)
	if !bytes.Equal(got, []byte("hi")) {
		t.Fatalf("unbracketed paste: got %q", got)
	}
}

func TestEncodeMouseSGR(t *testing.T) {
	enc := New(coreterm.New())
	got := enc.EncodeMouse(MouseEvent{Button: MouseLeft, Kind: MousePress, Row: 5, Col: 10})
	want := []byte("\x1b[<0;10;5M")
	if !bytes.Equal(got, want) {
		t.Fatalf("mouse press: got %q, want %q", got, want)
	}

	got = enc.EncodeMouse(MouseEvent{Button: MouseLeft, Kind: MouseRelease, Row: 5, Col: 10})
	want = []byte("\x1b[<0;10;5m")
	if !bytes.Equal(got, want) {
		t.Fatalf("mouse release: got %q, want %q", got, want)
	}
}

func TestFocusReporting(t *testing.T) {
	term := coreterm.New()
	enc := New(term)
	if enc.FocusReportingEnabled() {
		t.Fatal("focus reporting should default off")
	}
	term.SetMode(coreterm.ProtocolModeReportFocusInOut)
	if !enc.FocusReportingEnabled() {
		t.Fatal("focus reporting should be on after SetMode")
	}
	if !bytes.Equal(EncodeFocus(true), []byte("\x1b[I")) {
		t.Fatal("focus-in sequence mismatch")
	}
	if !bytes.Equal(EncodeFocus(false), []byte("\x1b[O")) {
		t.Fatal("focus-out sequence mismatch")
	}
}
