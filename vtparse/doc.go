// Package vtparse implements the byte-level state machine that turns a raw
// PTY byte stream into a sequence of terminal actions, plus the UTF-8
// decoding needed to assemble multi-byte printable characters.
//
// The state machine follows the table Paul Williams documented for the
// DEC VT500 series and that most terminal emulators (xterm, alacritty,
// kitty) implement in some form: a small set of states (Ground, Escape,
// CsiEntry/Param/Intermediate/Ignore, DcsEntry/Param/Intermediate/
// Passthrough/Ignore, OscString, SosPmApcString) driven by one byte at a
// time, with the C0 control codes and CAN/SUB handled uniformly regardless
// of which state they interrupt.
//
// Parser never returns an error from Advance: malformed input (an
// unterminated CSI sequence, a truncated UTF-8 sequence cut off by a
// partial read, a stray control byte inside a string) is absorbed and the
// parser resynchronizes to Ground, matching how real terminals tolerate
// garbage from misbehaving or crashing child processes.
package vtparse
