package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
)

// IntentKind is the closed set of actions a key press can request.
type IntentKind int

const (
	IntentNoop IntentKind = iota
	IntentSubmitLine
	IntentTogglePicker
	IntentMoveSelection
	IntentConfirmSelection
	IntentClosePicker
	IntentQuit
)

// Intent is the result of decoding one event. Delta is only meaningful for
// IntentMoveSelection.
type Intent struct {
	Kind  IntentKind
	Delta int
}

var (
	Noop             = Intent{Kind: IntentNoop}
	SubmitLine       = Intent{Kind: IntentSubmitLine}
	TogglePicker     = Intent{Kind: IntentTogglePicker}
	ConfirmSelection = Intent{Kind: IntentConfirmSelection}
	ClosePicker      = Intent{Kind: IntentClosePicker}
	Quit             = Intent{Kind: IntentQuit}
)

// MoveSelection returns the intent that shifts the picker by delta rows.
func MoveSelection(delta int) Intent {
	return Intent{Kind: IntentMoveSelection, Delta: delta}
}

func (i Intent) String() string {
	switch i.Kind {
	case IntentSubmitLine:
		return "SubmitLine"
	case IntentTogglePicker:
		return "TogglePicker"
	case IntentMoveSelection:
		return fmt.Sprintf("MoveSelection(%+d)", i.Delta)
	case IntentConfirmSelection:
		return "ConfirmSelection"
	case IntentClosePicker:
		return "ClosePicker"
	case IntentQuit:
		return "Quit"
	default:
		return "Noop"
	}
}

// bufferEdit is a change to the input line that accompanies a Noop intent.
type bufferEdit int

const (
	editNone bufferEdit = iota
	editAppend
	editBackspace
)

type decoded struct {
	intent Intent
	edit   bufferEdit
	runes  []rune
}

// decode maps one event to exactly one intent plus an optional buffer edit.
// While the picker is visible only its four navigation keys do anything.
func decode(ev RawEvent, keys KeyMap, pickerVisible, bufferEmpty bool) decoded {
	if ev.Kind != KindPress {
		return decoded{intent: Noop}
	}
	if pickerVisible {
		switch {
		case key.Matches(ev, keys.Up):
			return decoded{intent: MoveSelection(-1)}
		case key.Matches(ev, keys.Down):
			return decoded{intent: MoveSelection(1)}
		case key.Matches(ev, keys.Confirm):
			return decoded{intent: ConfirmSelection}
		case key.Matches(ev, keys.Close):
			return decoded{intent: ClosePicker}
		}
		return decoded{intent: Noop}
	}
	switch {
	case key.Matches(ev, keys.Quit):
		return decoded{intent: Quit}
	case key.Matches(ev, keys.TogglePicker):
		return decoded{intent: TogglePicker}
	case key.Matches(ev, keys.Submit):
		if bufferEmpty {
			return decoded{intent: Noop}
		}
		return decoded{intent: SubmitLine}
	case key.Matches(ev, keys.Backspace):
		return decoded{intent: Noop, edit: editBackspace}
	case ev.Key == KeyChar && len(ev.Runes) > 0:
		return decoded{intent: Noop, edit: editAppend, runes: ev.Runes}
	}
	return decoded{intent: Noop}
}
