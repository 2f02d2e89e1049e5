package coreterm

import (
	"encoding/base64"
	"image/color"
	"strconv"
	"strings"

	"github.com/coreterm/coreterm/vtparse"
)

// dispatch implements vtparse.Sink on *Terminal, translating the parser's
// decoded actions into calls on the handler methods in handler.go,
// shell_integration.go, notifications.go, and uservars.go. It is the only
// bridge between the byte-level state machine and terminal state; vtparse
// itself never touches a Terminal.
var _ vtparse.Sink = (*Terminal)(nil)

// Print implements vtparse.Sink.
func (t *Terminal) Print(r rune) {
	t.Input(r)
}

// Execute implements vtparse.Sink.
func (t *Terminal) Execute(b byte) {
	switch b {
	case '\a':
		t.Bell()
	case '\b':
		t.Backspace()
	case '\t':
		t.Tab(1)
	case '\n', '\v', '\f':
		t.LineFeed()
	case '\r':
		t.CarriageReturn()
	case 0x0e, 0x0f: // SO/SI: shift in/out G0/G1
		if b == 0x0e {
			t.SetActiveCharset(1)
		} else {
			t.SetActiveCharset(0)
		}
	}
}

func param(params []int, idx, def int) int {
	if idx >= len(params) || params[idx] == 0 {
		return def
	}
	return params[idx]
}

func paramRaw(params []int, idx, def int) int {
	if idx >= len(params) {
		return def
	}
	return params[idx]
}

func hasInterm(interms []byte, b byte) bool {
	for _, c := range interms {
		if c == b {
			return true
		}
	}
	return false
}

// CsiDispatch implements vtparse.Sink.
func (t *Terminal) CsiDispatch(params []int, interms []byte, ignore bool, final byte) {
	if ignore {
		return
	}
	private := hasInterm(interms, '?')

	switch final {
	case '@':
		t.InsertBlank(param(params, 0, 1))
	case 'A':
		t.MoveUp(param(params, 0, 1))
	case 'B':
		t.MoveDown(param(params, 0, 1))
	case 'C':
		t.MoveForward(param(params, 0, 1))
	case 'D':
		t.MoveBackward(param(params, 0, 1))
	case 'E':
		t.MoveDownCr(param(params, 0, 1))
	case 'F':
		t.MoveUpCr(param(params, 0, 1))
	case 'G', '`':
		t.GotoCol(param(params, 0, 1) - 1)
	case 'H', 'f':
		t.Goto(param(params, 0, 1)-1, param(params, 1, 1)-1)
	case 'I':
		t.MoveForwardTabs(param(params, 0, 1))
	case 'J':
		t.ClearScreen(ClearMode(paramRaw(params, 0, 0)))
	case 'K':
		t.ClearLine(LineClearMode(paramRaw(params, 0, 0)))
	case 'L':
		t.InsertBlankLines(param(params, 0, 1))
	case 'M':
		t.DeleteLines(param(params, 0, 1))
	case 'P':
		t.DeleteChars(param(params, 0, 1))
	case 'S':
		t.ScrollUp(param(params, 0, 1))
	case 'T':
		t.ScrollDown(param(params, 0, 1))
	case 'X':
		t.EraseChars(param(params, 0, 1))
	case 'Z':
		t.MoveBackwardTabs(param(params, 0, 1))
	case 'a':
		t.MoveForward(param(params, 0, 1))
	case 'd':
		t.GotoLine(param(params, 0, 1) - 1)
	case 'e':
		t.MoveDown(param(params, 0, 1))
	case 'g':
		t.ClearTabs(TabulationClearMode(paramRaw(params, 0, 0)))
	case 'h':
		t.dispatchSetMode(params, private, true)
	case 'l':
		t.dispatchSetMode(params, private, false)
	case 'm':
		t.dispatchSGR(params)
	case 'n':
		if private {
			return
		}
		t.DeviceStatus(param(params, 0, 0))
	case 'c':
		t.IdentifyTerminal(0)
	case 'r':
		t.SetScrollingRegion(param(params, 0, 1), paramRaw(params, 1, 0))
	case 's':
		t.SaveCursorPosition()
	case 'u':
		t.dispatchCsiU(params, interms)
	case 't':
		t.dispatchWindowOp(params)
	case 'q':
		switch {
		case hasInterm(interms, ' '):
			// DECSCUSR 0 and 1 are both blinking block; n > 0 maps to CursorStyle(n-1).
			n := paramRaw(params, 0, 0)
			if n > 0 {
				n--
			}
			t.SetCursorStyle(CursorStyle(n))
		case hasInterm(interms, '"'):
			t.SetCharacterProtection(paramRaw(params, 0, 0) == 1)
		}
	}
}

// decPrivateModes translates DEC private mode numbers (CSI ? Pm h/l) into
// ProtocolMode; numbers missing from it yield the zero value, which no mode uses.
var decPrivateModes = map[int]ProtocolMode{
	1: ProtocolModeCursorKeys, 3: ProtocolModeColumnMode, 6: ProtocolModeOrigin,
	7: ProtocolModeLineWrap, 12: ProtocolModeBlinkingCursor, 25: ProtocolModeShowCursor,
	1000: ProtocolModeReportMouseClicks, 1002: ProtocolModeReportCellMouseMotion,
	1003: ProtocolModeReportAllMouseMotion, 1004: ProtocolModeReportFocusInOut,
	1005: ProtocolModeUTF8Mouse, 1006: ProtocolModeSGRMouse, 1007: ProtocolModeAlternateScroll,
	1042: ProtocolModeUrgencyHints, 1049: ProtocolModeSwapScreenAndSetRestoreCursor,
	2004: ProtocolModeBracketedPaste, 2026: ProtocolModeSyncUpdate,
}

func (t *Terminal) dispatchSetMode(params []int, private, set bool) {
	if !private {
		return
	}
	for _, p := range params {
		if set {
			t.SetMode(decPrivateModes[p])
		} else {
			t.UnsetMode(decPrivateModes[p])
		}
	}
}

func (t *Terminal) dispatchCsiU(params []int, interms []byte) {
	switch {
	case hasInterm(interms, '>'):
		t.PushKeyboardMode(KeyboardMode(paramRaw(params, 0, 0)))
	case hasInterm(interms, '<'):
		t.PopKeyboardMode(param(params, 0, 1))
	case hasInterm(interms, '='):
		behavior := KeyboardModeBehaviorReplace
		switch paramRaw(params, 1, 1) {
		case 2:
			behavior = KeyboardModeBehaviorUnion
		case 3:
			behavior = KeyboardModeBehaviorDifference
		}
		t.SetKeyboardMode(KeyboardMode(paramRaw(params, 0, 0)), behavior)
	case hasInterm(interms, '?'):
		t.ReportKeyboardMode()
	default:
		t.RestoreCursorPosition()
	}
}

func (t *Terminal) dispatchWindowOp(params []int) {
	switch paramRaw(params, 0, 0) {
	case 14:
		t.TextAreaSizePixels()
	case 16:
		t.CellSizePixels()
	case 18:
		t.TextAreaSizeChars()
	case 22:
		t.PushTitle()
	case 23:
		t.PopTitle()
	}
}

// dispatchSGR walks the CSI m parameter list, building one
// TerminalCharAttribute per code and consuming the 2/5-style extended color
// parameters that follow 38, 48, and 58.
func (t *Terminal) dispatchSGR(params []int) {
	if len(params) == 0 {
		t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeReset})
		return
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch p {
		case 0:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeReset})
		case 1:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeBold})
		case 2:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeDim})
		case 3:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeItalic})
		case 4:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeUnderline})
		case 5:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeBlinkSlow})
		case 6:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeBlinkFast})
		case 7:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeReverse})
		case 8:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeHidden})
		case 9:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeStrike})
		case 21:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeDoubleUnderline})
		case 22:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCancelBoldDim})
		case 23:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCancelItalic})
		case 24:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCancelUnderline})
		case 25:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCancelBlink})
		case 27:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCancelReverse})
		case 28:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCancelHidden})
		case 29:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCancelStrike})
		case 39:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeForeground})
		case 49:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeBackground})
		case 59:
			t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeUnderlineColor})
		case 38, 48, 58:
			attr, consumed := parseExtendedColor(p, params[i+1:])
			t.SetTerminalCharAttribute(attr)
			i += consumed
		default:
			switch {
			case p >= 30 && p <= 37:
				n := p - 30
				t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeForeground, NamedColor: &n})
			case p >= 40 && p <= 47:
				n := p - 40
				t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeBackground, NamedColor: &n})
			case p >= 90 && p <= 97:
				n := p - 90 + 8
				t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeForeground, NamedColor: &n})
			case p >= 100 && p <= 107:
				n := p - 100 + 8
				t.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeBackground, NamedColor: &n})
			}
		}
	}
}

// parseExtendedColor consumes the ;5;n or ;2;r;g;b form following 38/48/58
// and returns how many additional parameters it consumed.
func parseExtendedColor(kind int, rest []int) (TerminalCharAttribute, int) {
	var attrKind CharAttributeKind
	switch kind {
	case 38:
		attrKind = CharAttributeForeground
	case 48:
		attrKind = CharAttributeBackground
	default:
		attrKind = CharAttributeUnderlineColor
	}
	if len(rest) == 0 {
		return TerminalCharAttribute{Attr: attrKind}, 0
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return TerminalCharAttribute{Attr: attrKind}, len(rest)
		}
		idx := uint8(rest[1])
		return TerminalCharAttribute{Attr: attrKind, IndexedColor: &indexedColorAttr{Index: idx}}, 2
	case 2:
		if len(rest) < 4 {
			return TerminalCharAttribute{Attr: attrKind}, len(rest)
		}
		c := &rgbColor{R: uint8(rest[1]), G: uint8(rest[2]), B: uint8(rest[3])}
		return TerminalCharAttribute{Attr: attrKind, RGBColor: c}, 4
	default:
		return TerminalCharAttribute{Attr: attrKind}, 1
	}
}

// EscDispatch implements vtparse.Sink.
func (t *Terminal) EscDispatch(interms []byte, final byte) {
	if len(interms) > 0 {
		switch interms[0] {
		case '(', ')', '*', '+':
			idx := map[byte]CharsetIndex{'(': CharsetIndexG0, ')': CharsetIndexG1, '*': CharsetIndexG2, '+': CharsetIndexG3}[interms[0]]
			cs := CharsetASCII
			if final == '0' {
				cs = CharsetLineDrawing
			}
			t.ConfigureCharset(idx, cs)
			return
		case '#':
			if final == '8' {
				t.Decaln()
			}
			return
		}
	}

	switch final {
	case 'c':
		t.ResetState()
	case '7':
		t.SaveCursorPosition()
	case '8':
		t.RestoreCursorPosition()
	case 'D':
		t.LineFeed()
	case 'M':
		t.ReverseIndex()
	case 'E':
		t.LineFeed()
		t.CarriageReturn()
	case 'H':
		t.HorizontalTabSet()
	case 'Z':
		t.IdentifyTerminal(0)
	}
}

// OscDispatch implements vtparse.Sink.
func (t *Terminal) OscDispatch(data [][]byte) {
	if len(data) == 0 {
		return
	}
	code, err := strconv.Atoi(string(data[0]))
	if err != nil {
		return
	}

	switch code {
	case 0, 1, 2:
		t.SetTitle(joinOscTail(data, 1))
	case 4:
		t.dispatchSetColor(data[1:])
	case 104:
		t.dispatchResetColor(data[1:])
	case 7:
		t.SetWorkingDirectory(joinOscTail(data, 1))
	case 8:
		t.dispatchHyperlink(data)
	case 10, 11, 12:
		t.dispatchDynamicColor(code, data[1:])
	case 52:
		t.dispatchClipboard(data)
	case 99:
		t.dispatchNotification(data)
	case 133:
		t.dispatchShellIntegration(data)
	case 1337:
		if len(data) > 1 {
			t.parseOSC1337(data[1])
		}
	}
}

func joinOscTail(data [][]byte, from int) string {
	parts := make([]string, 0, len(data)-from)
	for i := from; i < len(data); i++ {
		parts = append(parts, string(data[i]))
	}
	return strings.Join(parts, ";")
}

func dynamicColorIndex(code int) int {
	switch code {
	case 10:
		return NamedColorForeground
	case 11:
		return NamedColorBackground
	case 12:
		return NamedColorCursor
	default:
		return NamedColorForeground
	}
}

// dispatchDynamicColor handles OSC 10/11/12, both the query form ("?", which
// answers with the current rgb: value) and the set form (an rgb: spec that
// becomes the new foreground/background/cursor color).
func (t *Terminal) dispatchDynamicColor(code int, parts [][]byte) {
	if len(parts) == 0 {
		return
	}
	idx := dynamicColorIndex(code)
	if string(parts[0]) == "?" {
		t.SetDynamicColor(strconv.Itoa(code), idx, "\x07")
		return
	}
	if c := parseXColorSpec(string(parts[0])); c != nil {
		t.SetColor(idx, c)
	}
}

func (t *Terminal) dispatchSetColor(parts [][]byte) {
	for i := 0; i+1 < len(parts); i += 2 {
		idx, err := strconv.Atoi(string(parts[i]))
		if err != nil {
			continue
		}
		c := parseXColorSpec(string(parts[i+1]))
		if c != nil {
			t.SetColor(idx, c)
		}
	}
}

func (t *Terminal) dispatchResetColor(parts [][]byte) {
	if len(parts) == 0 {
		for i := 0; i < 256; i++ {
			t.ResetColor(i)
		}
		return
	}
	for _, p := range parts {
		idx, err := strconv.Atoi(string(p))
		if err == nil {
			t.ResetColor(idx)
		}
	}
}

// parseXColorSpec parses an X11-style "rgb:RR/GG/BB" color spec.
func parseXColorSpec(spec string) color.Color {
	if !strings.HasPrefix(spec, "rgb:") {
		return nil
	}
	fields := strings.Split(spec[len("rgb:"):], "/")
	if len(fields) != 3 {
		return nil
	}
	var vals [3]uint8
	for i, f := range fields {
		if len(f) > 2 {
			f = f[:2]
		}
		n, err := strconv.ParseUint(f, 16, 16)
		if err != nil {
			return nil
		}
		vals[i] = uint8(n)
	}
	return color.RGBA{R: vals[0], G: vals[1], B: vals[2], A: 255}
}

func (t *Terminal) dispatchHyperlink(data [][]byte) {
	if len(data) < 3 {
		if len(data) == 2 && len(data[1]) == 0 {
			t.SetHyperlink(nil)
		}
		return
	}
	params := string(data[1])
	uri := string(data[2])
	if uri == "" {
		t.SetHyperlink(nil)
		return
	}
	id := ""
	for _, kv := range strings.Split(params, ":") {
		if strings.HasPrefix(kv, "id=") {
			id = kv[len("id="):]
		}
	}
	t.SetHyperlink(&Hyperlink{ID: id, URI: uri})
}

func (t *Terminal) dispatchClipboard(data [][]byte) {
	if len(data) < 3 {
		return
	}
	clipboard := byte('c')
	if len(data[1]) > 0 {
		clipboard = data[1][0]
	}
	payload := string(data[2])
	if payload == "?" {
		t.ClipboardLoad(clipboard, "\x07")
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return
	}
	t.ClipboardStore(clipboard, decoded)
}

func (t *Terminal) dispatchNotification(data [][]byte) {
	if len(data) < 2 {
		return
	}
	payload := &NotificationPayload{Done: true}
	fields := strings.Split(string(data[1]), ":")
	for _, f := range fields {
		kv := strings.SplitN(f, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "i":
			payload.ID = kv[1]
		case "p":
			payload.PayloadType = kv[1]
		case "a":
			payload.Actions = strings.Split(kv[1], ",")
		case "e":
			payload.Encoding = kv[1]
		}
	}
	if len(data) > 2 {
		payload.Data = data[2]
	}
	t.DesktopNotification(payload)
}

func (t *Terminal) dispatchShellIntegration(data [][]byte) {
	if len(data) < 2 || len(data[1]) == 0 {
		return
	}
	exitCode := -1
	switch data[1][0] {
	case 'A':
		t.ShellIntegrationMark(PromptStart, exitCode)
	case 'B':
		t.ShellIntegrationMark(CommandStart, exitCode)
	case 'C':
		t.ShellIntegrationMark(CommandExecuted, exitCode)
	case 'D':
		if len(data) > 2 {
			if n, err := strconv.Atoi(string(data[2])); err == nil {
				exitCode = n
			}
		}
		t.ShellIntegrationMark(CommandFinished, exitCode)
	}
}

// DcsHook implements vtparse.Sink. Only Sixel (final byte 'q') is
// recognized; everything else is absorbed without a response.
func (t *Terminal) DcsHook(params []int, interms []byte, ignore bool, final byte) {
	if final == 'q' {
		t.dcsSixelParams = append([]int(nil), params...)
		t.dcsSixelActive = true
		t.dcsSixelBuf = t.dcsSixelBuf[:0]
	}
}

// DcsPut implements vtparse.Sink.
func (t *Terminal) DcsPut(b byte) {
	if t.dcsSixelActive {
		t.dcsSixelBuf = append(t.dcsSixelBuf, b)
	}
}

// DcsUnhook implements vtparse.Sink.
func (t *Terminal) DcsUnhook() {
	if t.dcsSixelActive {
		params := make([][]uint16, len(t.dcsSixelParams))
		for i, p := range t.dcsSixelParams {
			params[i] = []uint16{uint16(p)}
		}
		t.SixelReceived(params, t.dcsSixelBuf)
		t.dcsSixelActive = false
		t.dcsSixelBuf = nil
		t.dcsSixelParams = nil
	}
}

// SosPmApcStart implements vtparse.Sink.
func (t *Terminal) SosPmApcStart(kind byte) {
	t.sosPmApcKind = kind
	t.sosPmApcBuf = t.sosPmApcBuf[:0]
}

// SosPmApcPut implements vtparse.Sink.
func (t *Terminal) SosPmApcPut(b byte) {
	t.sosPmApcBuf = append(t.sosPmApcBuf, b)
}

// SosPmApcEnd implements vtparse.Sink.
func (t *Terminal) SosPmApcEnd() {
	switch t.sosPmApcKind {
	case 'X':
		t.StartOfStringReceived(t.sosPmApcBuf)
	case '^':
		t.PrivacyMessageReceived(t.sosPmApcBuf)
	case '_':
		t.ApplicationCommandReceived(t.sosPmApcBuf)
	}
	t.sosPmApcKind = 0
	t.sosPmApcBuf = nil
}
