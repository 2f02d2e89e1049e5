package vtparse

// Sink receives the decoded actions of the byte stream. Terminal state
// (component E) implements Sink; Parser (component A/B) never touches
// terminal state directly.
type Sink interface {
	// Print is called once per fully decoded printable rune, including
	// wide CJK characters and combining marks. Invalid UTF-8 bytes are
	// reported as U+FFFD.
	Print(r rune)

	// Execute is called for a C0/C1 control byte that isn't part of a
	// recognized escape, CSI, DCS, OSC, or SOS/PM/APC sequence.
	Execute(b byte)

	// CsiDispatch is called when a complete CSI sequence is recognized.
	// params holds the numeric parameters (missing params default to 0,
	// except where final-byte semantics call for a different default,
	// which is the caller's responsibility). interms holds intermediate
	// bytes (0x20-0x2F) in order, including any leading private-marker
	// byte such as '?' or '>'. ignore is true if the sequence overflowed
	// the parser's parameter/intermediate budget and should be treated
	// as unrecognized.
	CsiDispatch(params []int, interms []byte, ignore bool, final byte)

	// EscDispatch is called for a complete escape sequence that is not a
	// CSI, DCS, OSC, or SOS/PM/APC introducer.
	EscDispatch(interms []byte, final byte)

	// OscDispatch is called when an OSC string is terminated (BEL or ST).
	// data holds the ';'-delimited raw segments, semicolons included in
	// the split but not in the segments themselves.
	OscDispatch(data [][]byte)

	// DcsHook begins a DCS sequence (e.g. Sixel, DECRQSS replies).
	DcsHook(params []int, interms []byte, ignore bool, final byte)
	// DcsPut delivers one payload byte of an active DCS sequence.
	DcsPut(b byte)
	// DcsUnhook is called when the DCS sequence is terminated.
	DcsUnhook()

	// SosPmApcStart begins a SOS ('X'), PM ('^'), or APC ('_') string.
	SosPmApcStart(kind byte)
	// SosPmApcPut delivers one payload byte of the active string.
	SosPmApcPut(b byte)
	// SosPmApcEnd is called when the string is terminated.
	SosPmApcEnd()
}
