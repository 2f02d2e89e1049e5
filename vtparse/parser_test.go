package vtparse

import (
	"reflect"
	"testing"
)

// recordingSink captures every Sink call it receives, in order, for
// assertions. This mirrors how dispatch.go's Terminal implementation
// consumes the same interface, without pulling in the coreterm package.
type recordingSink struct {
	printed  []rune
	executed []byte
	csi      []csiCall
	esc      []escCall
	osc      [][][]byte
	dcsHooks []csiCall
	dcsPut   []byte
	unhooks  int
	sosKind  []byte
	sosPut   []byte
	sosEnds  int
}

type csiCall struct {
	params  []int
	interms []byte
	ignore  bool
	final   byte
}

type escCall struct {
	interms []byte
	final   byte
}

func (s *recordingSink) Print(r rune)     { s.printed = append(s.printed, r) }
func (s *recordingSink) Execute(b byte)   { s.executed = append(s.executed, b) }
func (s *recordingSink) CsiDispatch(params []int, interms []byte, ignore bool, final byte) {
	s.csi = append(s.csi, csiCall{append([]int(nil), params...), append([]byte(nil), interms...), ignore, final})
}
func (s *recordingSink) EscDispatch(interms []byte, final byte) {
	s.esc = append(s.esc, escCall{append([]byte(nil), interms...), final})
}
func (s *recordingSink) OscDispatch(data [][]byte) {
	cp := make([][]byte, len(data))
	for i, d := range data {
		cp[i] = append([]byte(nil), d...)
	}
	s.osc = append(s.osc, cp)
}
func (s *recordingSink) DcsHook(params []int, interms []byte, ignore bool, final byte) {
	s.dcsHooks = append(s.dcsHooks, csiCall{append([]int(nil), params...), append([]byte(nil), interms...), ignore, final})
}
func (s *recordingSink) DcsPut(b byte)       { s.dcsPut = append(s.dcsPut, b) }
func (s *recordingSink) DcsUnhook()          { s.unhooks++ }
func (s *recordingSink) SosPmApcStart(k byte) { s.sosKind = append(s.sosKind, k) }
func (s *recordingSink) SosPmApcPut(b byte)   { s.sosPut = append(s.sosPut, b) }
func (s *recordingSink) SosPmApcEnd()         { s.sosEnds++ }

func TestPrintASCII(t *testing.T) {
	s := &recordingSink{}
	p := New(s)
	p.Advance([]byte("hi"))
	want := []rune{'h', 'i'}
	if !reflect.DeepEqual(s.printed, want) {
		t.Fatalf("got %v, want %v", s.printed, want)
	}
}

func TestPrintUTF8SingleCall(t *testing.T) {
	s := &recordingSink{}
	p := New(s)
	p.Advance([]byte("héllo 中文")) // includes a 2-byte and two 3-byte runes
	want := []rune("héllo 中文")
	if !reflect.DeepEqual(s.printed, want) {
		t.Fatalf("got %v, want %v", s.printed, want)
	}
}

func TestPrintUTF8SplitAcrossAdvance(t *testing.T) {
	s := &recordingSink{}
	p := New(s)
	full := []byte("中") // 3-byte UTF-8 sequence: 0xe4 0xb8 0xad
	if len(full) != 3 {
		t.Fatalf("test assumption broken: expected 3-byte rune, got %d bytes", len(full))
	}
	p.Advance(full[:1])
	p.Advance(full[1:2])
	p.Advance(full[2:3])

	want := []rune{'中'}
	if !reflect.DeepEqual(s.printed, want) {
		t.Fatalf("got %v, want %v", s.printed, want)
	}
}

func TestPrintInvalidUTF8ContinuationYieldsReplacement(t *testing.T) {
	s := &recordingSink{}
	p := New(s)
	// Lead byte of a 2-byte sequence followed by an ASCII byte (not a valid
	// continuation byte): should emit a replacement char then 'a' normally.
	p.Advance([]byte{0xc2, 'a'})

	want := []rune{0xfffd, 'a'}
	if !reflect.DeepEqual(s.printed, want) {
		t.Fatalf("got %v, want %v", s.printed, want)
	}
}

func TestCsiDispatchWithParams(t *testing.T) {
	s := &recordingSink{}
	p := New(s)
	p.Advance([]byte("\x1b[1;31m")) // SGR bold + red fg
	if len(s.csi) != 1 {
		t.Fatalf("expected 1 CSI dispatch, got %d", len(s.csi))
	}
	got := s.csi[0]
	if got.final != 'm' || !reflect.DeepEqual(got.params, []int{1, 31}) {
		t.Fatalf("got %+v", got)
	}
}

func TestCsiDispatchPrivateMarker(t *testing.T) {
	s := &recordingSink{}
	p := New(s)
	p.Advance([]byte("\x1b[?25h")) // DECSET show cursor
	if len(s.csi) != 1 {
		t.Fatalf("expected 1 CSI dispatch, got %d", len(s.csi))
	}
	got := s.csi[0]
	if got.final != 'h' || !reflect.DeepEqual(got.params, []int{25}) || !reflect.DeepEqual(got.interms, []byte{'?'}) {
		t.Fatalf("got %+v", got)
	}
}

func TestEscDispatch(t *testing.T) {
	s := &recordingSink{}
	p := New(s)
	p.Advance([]byte("\x1bc")) // RIS
	if len(s.esc) != 1 || s.esc[0].final != 'c' {
		t.Fatalf("got %+v", s.esc)
	}
}

func TestOscDispatchWithST(t *testing.T) {
	s := &recordingSink{}
	p := New(s)
	p.Advance([]byte("\x1b]0;window title\x1b\\"))
	if len(s.osc) != 1 {
		t.Fatalf("expected 1 OSC dispatch, got %d", len(s.osc))
	}
	want := [][]byte{[]byte("0"), []byte("window title")}
	if !reflect.DeepEqual(s.osc[0], want) {
		t.Fatalf("got %q, want %q", s.osc[0], want)
	}
}

func TestOscDispatchWithBEL(t *testing.T) {
	s := &recordingSink{}
	p := New(s)
	p.Advance([]byte("\x1b]0;bell-terminated\x07"))
	if len(s.osc) != 1 {
		t.Fatalf("expected 1 OSC dispatch, got %d", len(s.osc))
	}
	want := [][]byte{[]byte("0"), []byte("bell-terminated")}
	if !reflect.DeepEqual(s.osc[0], want) {
		t.Fatalf("got %q, want %q", s.osc[0], want)
	}
}

func TestDcsHookPutUnhookWithST(t *testing.T) {
	s := &recordingSink{}
	p := New(s)
	p.Advance([]byte("\x1bPq#0;2;0;0;0\x1b\\")) // Sixel-style DCS
	if len(s.dcsHooks) != 1 || s.dcsHooks[0].final != 'q' {
		t.Fatalf("got hooks %+v", s.dcsHooks)
	}
	if string(s.dcsPut) != "#0;2;0;0;0" {
		t.Fatalf("got put bytes %q", s.dcsPut)
	}
	if s.unhooks != 1 {
		t.Fatalf("expected 1 unhook, got %d", s.unhooks)
	}
}

func TestSosPmApcStartPutEndWithST(t *testing.T) {
	s := &recordingSink{}
	p := New(s)
	p.Advance([]byte("\x1b_hello\x1b\\")) // APC
	if len(s.sosKind) != 1 || s.sosKind[0] != '_' {
		t.Fatalf("got kind %v", s.sosKind)
	}
	if string(s.sosPut) != "hello" {
		t.Fatalf("got put bytes %q", s.sosPut)
	}
	if s.sosEnds != 1 {
		t.Fatalf("expected 1 end, got %d", s.sosEnds)
	}
}

// TestEscapeInsideOscAbandonsOldStringAndStartsNew exercises the
// stateStringEscape fallthrough: an ESC that isn't followed by '\\' must
// close out the interrupted OSC (without dispatching it) and begin a fresh
// escape sequence from that byte.
func TestEscapeInsideOscAbandonsOldStringAndStartsNew(t *testing.T) {
	s := &recordingSink{}
	p := New(s)
	// ESC inside the OSC string, followed by 'c' (RIS) instead of '\\'.
	p.Advance([]byte("\x1b]0;abandoned\x1bc"))

	if len(s.osc) != 0 {
		t.Fatalf("expected the interrupted OSC to be dropped, got %v", s.osc)
	}
	if len(s.esc) != 1 || s.esc[0].final != 'c' {
		t.Fatalf("expected ESC dispatch for 'c', got %+v", s.esc)
	}
}

// TestEscapeInsideDcsAbandonsAndUnhooks checks the same fallthrough for DCS
// passthrough: the abandoned DCS must still be unhooked so a Sink's state
// (e.g. an in-progress Sixel image) doesn't leak into the next sequence.
func TestEscapeInsideDcsAbandonsAndUnhooks(t *testing.T) {
	s := &recordingSink{}
	p := New(s)
	p.Advance([]byte("\x1bPq#0\x1b[31m")) // DCS hook, then an abandoned ESC that starts a CSI instead of ST

	if s.unhooks != 1 {
		t.Fatalf("expected abandoned DCS to still unhook, got %d", s.unhooks)
	}
	if len(s.csi) != 1 || s.csi[0].final != 'm' {
		t.Fatalf("expected the CSI after the abandoned ESC to dispatch, got %+v", s.csi)
	}
}

func TestExecuteC0Control(t *testing.T) {
	s := &recordingSink{}
	p := New(s)
	p.Advance([]byte{'a', 0x0a, 'b'}) // line feed between two printables
	if !reflect.DeepEqual(s.printed, []rune{'a', 'b'}) {
		t.Fatalf("printed: %v", s.printed)
	}
	if !reflect.DeepEqual(s.executed, []byte{0x0a}) {
		t.Fatalf("executed: %v", s.executed)
	}
}

func TestResetMidSequence(t *testing.T) {
	s := &recordingSink{}
	p := New(s)
	p.Advance([]byte("\x1b[1;2"))
	p.Reset()
	p.Advance([]byte("\x1b[5m"))

	if len(s.csi) != 1 {
		t.Fatalf("expected only the post-reset CSI to dispatch, got %+v", s.csi)
	}
	if !reflect.DeepEqual(s.csi[0].params, []int{5}) {
		t.Fatalf("got params %v", s.csi[0].params)
	}
}

func TestCanAbortsOscString(t *testing.T) {
	s := &recordingSink{}
	p := New(s)
	p.Advance([]byte("\x1b]0;never-finished\x18")) // CAN aborts
	p.Advance([]byte("X"))

	if len(s.osc) != 0 {
		t.Fatalf("expected aborted OSC to never dispatch, got %v", s.osc)
	}
	if !reflect.DeepEqual(s.printed, []rune{'X'}) {
		t.Fatalf("expected parser back in ground state after CAN, printed=%v", s.printed)
	}
}
