package vtparse

import "unicode/utf8"

type state uint8

const (
	stateGround state = iota
	stateEscape
	stateEscapeIntermediate
	stateCsiEntry
	stateCsiParam
	stateCsiIntermediate
	stateCsiIgnore
	stateDcsEntry
	stateDcsParam
	stateDcsIntermediate
	stateDcsPassthrough
	stateDcsIgnore
	stateOscString
	stateSosPmApcString
	// stateStringEscape is entered when ESC interrupts an OSC, DCS
	// passthrough, DCS-ignore, or SOS/PM/APC string. A following '\\'
	// (forming the String Terminator) closes the string normally;
	// anything else abandons the string and is re-dispatched as the
	// start of a fresh escape sequence.
	stateStringEscape
)

const (
	maxParams     = 32
	maxIntermeds  = 8
	maxUTF8Buffer = 4
)

// stringKind records which multi-byte string type stateStringEscape is
// closing out, so the right Sink method fires on ST.
type stringKind uint8

const (
	stringKindNone stringKind = iota
	stringKindOsc
	stringKindDcs
	stringKindSosPmApc
)

// Parser drives a Sink from a raw PTY byte stream. It is not safe for
// concurrent use.
type Parser struct {
	sink Sink

	state      state
	pendingStr stringKind

	params    [maxParams]int
	paramUsed [maxParams]bool
	numParams int
	curParam  int

	interms    [maxIntermeds]byte
	numInterms int

	oscBuf   []byte
	oscParts [][]byte

	ignoring bool

	// utf8Buf holds the bytes of an in-progress multi-byte UTF-8 sequence
	// that may have been split across two calls to Advance.
	utf8Buf    [maxUTF8Buffer]byte
	utf8BufLen int
}

// New creates a parser that reports decoded actions to sink.
func New(sink Sink) *Parser {
	return &Parser{sink: sink}
}

// Advance feeds raw bytes through the state machine. It always consumes
// the entire slice and never returns an error: truncated escape sequences
// and invalid UTF-8 are absorbed, matching how a real terminal tolerates
// a misbehaving child process.
func (p *Parser) Advance(data []byte) {
	for _, b := range data {
		p.feed(b)
	}
}

// Reset returns the parser to the ground state, discarding any
// in-progress sequence. Used after RIS (ESC c) and on session recovery.
func (p *Parser) Reset() {
	p.state = stateGround
	p.numParams = 0
	p.curParam = 0
	p.numInterms = 0
	p.oscBuf = p.oscBuf[:0]
	p.oscParts = p.oscParts[:0]
	p.ignoring = false
	p.utf8BufLen = 0
	p.pendingStr = stringKindNone
}

func (p *Parser) feed(b byte) {
	if p.utf8BufLen > 0 {
		p.feedUTF8Continuation(b)
		return
	}

	if b == 0x1b {
		switch p.state {
		case stateOscString:
			p.pendingStr = stringKindOsc
			p.clearCollectors()
			p.state = stateStringEscape
			return
		case stateDcsPassthrough, stateDcsIgnore:
			p.pendingStr = stringKindDcs
			p.clearCollectors()
			p.state = stateStringEscape
			return
		case stateSosPmApcString:
			p.pendingStr = stringKindSosPmApc
			p.clearCollectors()
			p.state = stateStringEscape
			return
		default:
			p.pendingStr = stringKindNone
		}
		p.clearCollectors()
		p.state = stateEscape
		return
	}

	if b == 0x18 || b == 0x1a { // CAN, SUB: abort whatever is in progress
		p.sink.Execute(b)
		p.state = stateGround
		return
	}

	if b < 0x20 || b == 0x7f {
		if b == 0x07 && p.state == stateOscString {
			p.endOsc()
			p.state = stateGround
			return
		}
		if p.state == stateDcsPassthrough {
			// DCS payload bytes below 0x20 are passed through verbatim
			// except the ones already handled above.
			p.sink.DcsPut(b)
			return
		}
		if p.state == stateSosPmApcString {
			p.sink.SosPmApcPut(b)
			return
		}
		if p.state == stateGround || p.state == stateCsiEntry || p.state == stateCsiParam || p.state == stateCsiIntermediate {
			p.sink.Execute(b)
		}
		return
	}

	switch p.state {
	case stateGround:
		p.feedGround(b)
	case stateEscape:
		p.feedEscape(b)
	case stateEscapeIntermediate:
		p.feedEscapeIntermediate(b)
	case stateCsiEntry:
		p.feedCsiEntry(b)
	case stateCsiParam:
		p.feedCsiParam(b)
	case stateCsiIntermediate:
		p.feedCsiIntermediate(b)
	case stateCsiIgnore:
		p.feedCsiIgnore(b)
	case stateDcsEntry:
		p.feedDcsEntry(b)
	case stateDcsParam:
		p.feedDcsParam(b)
	case stateDcsIntermediate:
		p.feedDcsIntermediate(b)
	case stateDcsPassthrough:
		p.sink.DcsPut(b)
	case stateDcsIgnore:
		// discard until ST or CAN/SUB, handled above
	case stateOscString:
		p.feedOscString(b)
	case stateSosPmApcString:
		p.sink.SosPmApcPut(b)
	case stateStringEscape:
		p.feedStringEscape(b)
	}
}

func (p *Parser) feedStringEscape(b byte) {
	if b == '\\' {
		switch p.pendingStr {
		case stringKindOsc:
			p.endOsc()
		case stringKindDcs:
			p.sink.DcsUnhook()
		case stringKindSosPmApc:
			p.sink.SosPmApcEnd()
		}
		p.pendingStr = stringKindNone
		p.state = stateGround
		return
	}
	// Not a valid ST: the interrupted string is abandoned and this byte
	// begins a fresh escape sequence.
	switch p.pendingStr {
	case stringKindDcs:
		p.sink.DcsUnhook()
	case stringKindSosPmApc:
		p.sink.SosPmApcEnd()
	}
	p.pendingStr = stringKindNone
	p.state = stateEscape
	p.feedEscape(b)
}

func (p *Parser) feedUTF8Continuation(b byte) {
	if b < 0x80 || b > 0xbf {
		p.sink.Print(utf8.RuneError)
		p.utf8BufLen = 0
		p.feed(b)
		return
	}
	if p.utf8BufLen >= maxUTF8Buffer {
		p.sink.Print(utf8.RuneError)
		p.utf8BufLen = 0
		return
	}
	p.utf8Buf[p.utf8BufLen] = b
	p.utf8BufLen++

	r, size := utf8.DecodeRune(p.utf8Buf[:p.utf8BufLen])
	if r == utf8.RuneError && size <= 1 {
		// Still incomplete, or invalid outright.
		if utf8.RuneLen(r) < 0 && p.utf8BufLen < utf8SeqLen(p.utf8Buf[0]) {
			return
		}
		if p.utf8BufLen < utf8SeqLen(p.utf8Buf[0]) {
			return
		}
		p.sink.Print(utf8.RuneError)
		p.utf8BufLen = 0
		return
	}
	p.sink.Print(r)
	p.utf8BufLen = 0
}

// utf8SeqLen returns the expected total byte length of a UTF-8 sequence
// given its lead byte.
func utf8SeqLen(lead byte) int {
	switch {
	case lead&0xe0 == 0xc0:
		return 2
	case lead&0xf0 == 0xe0:
		return 3
	case lead&0xf8 == 0xf0:
		return 4
	default:
		return 1
	}
}

func (p *Parser) feedGround(b byte) {
	if b < 0x80 {
		p.sink.Print(rune(b))
		return
	}
	want := utf8SeqLen(b)
	if want == 1 {
		// Invalid lead byte (stray continuation byte or 0xF8-0xFF).
		p.sink.Print(utf8.RuneError)
		return
	}
	p.utf8Buf[0] = b
	p.utf8BufLen = 1
}

func (p *Parser) clearCollectors() {
	p.numParams = 0
	p.curParam = 0
	for i := range p.paramUsed {
		p.paramUsed[i] = false
		p.params[i] = 0
	}
	p.numInterms = 0
	p.ignoring = false
}

func (p *Parser) feedEscape(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.addInterm(b)
		p.state = stateEscapeIntermediate
	case b == '[':
		p.clearCollectors()
		p.state = stateCsiEntry
	case b == 'P':
		p.clearCollectors()
		p.state = stateDcsEntry
	case b == ']':
		p.oscBuf = p.oscBuf[:0]
		p.oscParts = p.oscParts[:0]
		p.state = stateOscString
	case b == 'X' || b == '^' || b == '_':
		p.sink.SosPmApcStart(b)
		p.state = stateSosPmApcString
	case b >= 0x30 && b <= 0x7e:
		p.sink.EscDispatch(p.interms[:p.numInterms], b)
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) feedEscapeIntermediate(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.addInterm(b)
	case b >= 0x30 && b <= 0x7e:
		p.sink.EscDispatch(p.interms[:p.numInterms], b)
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) addInterm(b byte) {
	if p.numInterms < maxIntermeds {
		p.interms[p.numInterms] = b
		p.numInterms++
	} else {
		p.ignoring = true
	}
}

func (p *Parser) addParamDigit(d byte) {
	if p.curParam >= maxParams {
		p.ignoring = true
		return
	}
	p.params[p.curParam] = p.params[p.curParam]*10 + int(d-'0')
	p.paramUsed[p.curParam] = true
	if p.numParams < p.curParam+1 {
		p.numParams = p.curParam + 1
	}
}

func (p *Parser) nextParam() {
	if p.curParam < maxParams-1 {
		p.curParam++
		if p.numParams < p.curParam+1 {
			p.numParams = p.curParam + 1
		}
	} else {
		p.ignoring = true
	}
}

func (p *Parser) finishedParams() []int {
	out := make([]int, p.numParams)
	copy(out, p.params[:p.numParams])
	return out
}

func (p *Parser) feedCsiEntry(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.addParamDigit(b)
		p.state = stateCsiParam
	case b == ';' || b == ':':
		p.nextParam()
		p.state = stateCsiParam
	case b == '?' || b == '>' || b == '=' || b == '<':
		p.addInterm(b)
		p.state = stateCsiParam
	case b >= 0x20 && b <= 0x2f:
		p.addInterm(b)
		p.state = stateCsiIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.sink.CsiDispatch(p.finishedParams(), p.interms[:p.numInterms], p.ignoring, b)
		p.state = stateGround
	default:
		p.state = stateCsiIgnore
	}
}

func (p *Parser) feedCsiParam(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.addParamDigit(b)
	case b == ';' || b == ':':
		p.nextParam()
	case b >= 0x20 && b <= 0x2f:
		p.addInterm(b)
		p.state = stateCsiIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.sink.CsiDispatch(p.finishedParams(), p.interms[:p.numInterms], p.ignoring, b)
		p.state = stateGround
	default:
		p.state = stateCsiIgnore
	}
}

func (p *Parser) feedCsiIntermediate(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.addInterm(b)
	case b >= 0x40 && b <= 0x7e:
		p.sink.CsiDispatch(p.finishedParams(), p.interms[:p.numInterms], p.ignoring, b)
		p.state = stateGround
	default:
		p.state = stateCsiIgnore
	}
}

func (p *Parser) feedCsiIgnore(b byte) {
	if b >= 0x40 && b <= 0x7e {
		p.state = stateGround
	}
}

func (p *Parser) feedDcsEntry(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.addParamDigit(b)
		p.state = stateDcsParam
	case b == ';':
		p.nextParam()
		p.state = stateDcsParam
	case b == '?' || b == '>' || b == '=' || b == '<':
		p.addInterm(b)
		p.state = stateDcsParam
	case b >= 0x20 && b <= 0x2f:
		p.addInterm(b)
		p.state = stateDcsIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.sink.DcsHook(p.finishedParams(), p.interms[:p.numInterms], p.ignoring, b)
		p.state = stateDcsPassthrough
	default:
		p.state = stateDcsIgnore
	}
}

func (p *Parser) feedDcsParam(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.addParamDigit(b)
	case b == ';':
		p.nextParam()
	case b >= 0x20 && b <= 0x2f:
		p.addInterm(b)
		p.state = stateDcsIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.sink.DcsHook(p.finishedParams(), p.interms[:p.numInterms], p.ignoring, b)
		p.state = stateDcsPassthrough
	default:
		p.state = stateDcsIgnore
	}
}

func (p *Parser) feedDcsIntermediate(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.addInterm(b)
	case b >= 0x40 && b <= 0x7e:
		p.sink.DcsHook(p.finishedParams(), p.interms[:p.numInterms], p.ignoring, b)
		p.state = stateDcsPassthrough
	default:
		p.state = stateDcsIgnore
	}
}

func (p *Parser) feedOscString(b byte) {
	if b == ';' {
		p.oscParts = append(p.oscParts, append([]byte(nil), p.oscBuf...))
		p.oscBuf = p.oscBuf[:0]
		return
	}
	p.oscBuf = append(p.oscBuf, b)
}

func (p *Parser) endOsc() {
	p.oscParts = append(p.oscParts, append([]byte(nil), p.oscBuf...))
	p.sink.OscDispatch(p.oscParts)
	p.oscBuf = p.oscBuf[:0]
	p.oscParts = p.oscParts[:0]
}
