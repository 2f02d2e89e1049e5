package coreterm

// This file defines the wire-protocol vocabulary that CSI/OSC dispatch hands
// to Terminal's handler methods. It replaces the vocabulary the teacher
// imported from its sibling ANSI decoder package; dispatch.go and the
// vtparse package are this repository's own byte-level parser and are the
// only producers of these values.

// ProtocolMode identifies a terminal mode switched by DECSET/DECRST
// (CSI ? h / CSI ? l). Its values are not the wire numbers: dispatch.go
// translates DEC private mode numbers into them. ANSI SM/RM (CSI h / CSI l
// without '?') are not dispatched to SetMode/UnsetMode.
type ProtocolMode int

const (
	ProtocolModeCursorKeys ProtocolMode = iota + 1
	ProtocolModeColumnMode
	ProtocolModeInsert
	ProtocolModeOrigin
	ProtocolModeLineWrap
	ProtocolModeBlinkingCursor
	ProtocolModeLineFeedNewLine
	ProtocolModeShowCursor
	ProtocolModeReportMouseClicks
	ProtocolModeReportCellMouseMotion
	ProtocolModeReportAllMouseMotion
	ProtocolModeReportFocusInOut
	ProtocolModeUTF8Mouse
	ProtocolModeSGRMouse
	ProtocolModeAlternateScroll
	ProtocolModeUrgencyHints
	ProtocolModeSwapScreenAndSetRestoreCursor
	ProtocolModeBracketedPaste
	ProtocolModeSyncUpdate
)

// CharAttributeKind identifies which SGR parameter a TerminalCharAttribute
// carries.
type CharAttributeKind int

const (
	CharAttributeReset CharAttributeKind = iota
	CharAttributeBold
	CharAttributeDim
	CharAttributeItalic
	CharAttributeUnderline
	CharAttributeDoubleUnderline
	CharAttributeCurlyUnderline
	CharAttributeDottedUnderline
	CharAttributeDashedUnderline
	CharAttributeBlinkSlow
	CharAttributeBlinkFast
	CharAttributeReverse
	CharAttributeHidden
	CharAttributeStrike
	CharAttributeCancelBold
	CharAttributeCancelBoldDim
	CharAttributeCancelItalic
	CharAttributeCancelUnderline
	CharAttributeCancelBlink
	CharAttributeCancelReverse
	CharAttributeCancelHidden
	CharAttributeCancelStrike
	CharAttributeForeground
	CharAttributeBackground
	CharAttributeUnderlineColor
)

// rgbColor and friends mirror the small value types the SGR dispatcher
// builds while walking CSI parameters (38/48/58 ; 2/5 ; ...).
type rgbColor struct{ R, G, B uint8 }
type indexedColorAttr struct{ Index uint8 }

// TerminalCharAttribute is a single decoded SGR instruction.
type TerminalCharAttribute struct {
	Attr         CharAttributeKind
	RGBColor     *rgbColor
	IndexedColor *indexedColorAttr
	NamedColor   *int
}

// ClearMode selects the range affected by Erase in Display (CSI J).
type ClearMode int

const (
	ClearModeBelow ClearMode = iota
	ClearModeAbove
	ClearModeAll
	ClearModeSaved
)

// LineClearMode selects the range affected by Erase in Line (CSI K).
type LineClearMode int

const (
	LineClearModeRight LineClearMode = iota
	LineClearModeLeft
	LineClearModeAll
)

// TabulationClearMode selects which tab stops CSI g clears.
type TabulationClearMode int

const (
	TabulationClearModeCurrent TabulationClearMode = iota
	TabulationClearModeAll
)

// KeyboardMode is a kitty keyboard protocol enhancement flag bitmask.
type KeyboardMode int

const (
	KeyboardModeNoMode                   KeyboardMode = 0
	KeyboardModeDisambiguateEscapeCodes  KeyboardMode = 1
	KeyboardModeReportEventTypes         KeyboardMode = 2
	KeyboardModeReportAlternateKeys      KeyboardMode = 4
	KeyboardModeReportAllKeysAsEscapes   KeyboardMode = 8
	KeyboardModeReportAssociatedText     KeyboardMode = 16
)

// KeyboardModeBehavior selects how CSI = u combines a new flag
// set with the mode currently on top of the stack.
type KeyboardModeBehavior int

const (
	KeyboardModeBehaviorReplace KeyboardModeBehavior = iota
	KeyboardModeBehaviorUnion
	KeyboardModeBehaviorDifference
)

// ModifyOtherKeys is xterm's modifyOtherKeys resource value (CSI > 4 ; n m).
type ModifyOtherKeys int

// ShellIntegrationMark identifies an OSC 133 shell-integration mark.
type ShellIntegrationMark int

const (
	PromptStart ShellIntegrationMark = iota
	CommandStart
	CommandExecuted
	CommandFinished
)
