package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyCode classifies a key independently of the terminal library.
type KeyCode int

const (
	KeyOther KeyCode = iota
	KeyChar
	KeyEnter
	KeyBackspace
	KeyUp
	KeyDown
	KeyEsc
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModAlt
)

// EventKind distinguishes presses from repeats and releases. Terminals that
// cannot report releases only ever produce KindPress.
type EventKind int

const (
	KindPress EventKind = iota
	KindRepeat
	KindRelease
)

// RawEvent is one decoded keyboard event.
type RawEvent struct {
	Key   KeyCode
	Runes []rune
	Mods  Modifiers
	Kind  EventKind
}

// String renders the event the way key bindings name keys, e.g. "ctrl+c",
// "enter" or "a". It lets key.Matches work on RawEvent directly.
func (e RawEvent) String() string {
	var b strings.Builder
	if e.Mods&ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if e.Mods&ModAlt != 0 {
		b.WriteString("alt+")
	}
	switch e.Key {
	case KeyChar:
		if len(e.Runes) == 1 && e.Runes[0] == ' ' && e.Mods == 0 {
			return "space"
		}
		b.WriteString(string(e.Runes))
	case KeyEnter:
		b.WriteString("enter")
	case KeyBackspace:
		b.WriteString("backspace")
	case KeyUp:
		b.WriteString("up")
	case KeyDown:
		b.WriteString("down")
	case KeyEsc:
		b.WriteString("esc")
	default:
		return ""
	}
	return b.String()
}

// KeyMap holds the bindings the decoder recognises.
type KeyMap struct {
	Quit         key.Binding
	TogglePicker key.Binding
	Submit       key.Binding
	Backspace    key.Binding
	Up           key.Binding
	Down         key.Binding
	Confirm      key.Binding
	Close        key.Binding
}

// DefaultKeyMap returns the standard bindings. Terminals deliver ctrl+space
// as NUL, which Bubble Tea names ctrl+@.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:         key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		TogglePicker: key.NewBinding(key.WithKeys("ctrl+@", "ctrl+ "), key.WithHelp("ctrl+space", "connections")),
		Submit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Backspace:    key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete")),
		Up:           key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous")),
		Down:         key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next")),
		Confirm:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "connect")),
		Close:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// rawEventFromKey converts a Bubble Tea key message. Bubble Tea v1 only
// reports presses.
func rawEventFromKey(msg tea.KeyMsg) RawEvent {
	ev := RawEvent{Kind: KindPress}
	if msg.Alt {
		ev.Mods |= ModAlt
	}
	switch msg.Type {
	case tea.KeyRunes:
		ev.Key = KeyChar
		ev.Runes = append([]rune(nil), msg.Runes...)
	case tea.KeySpace:
		ev.Key = KeyChar
		ev.Runes = []rune{' '}
	case tea.KeyEnter:
		ev.Key = KeyEnter
	case tea.KeyBackspace, tea.KeyCtrlH:
		ev.Key = KeyBackspace
	case tea.KeyUp:
		ev.Key = KeyUp
	case tea.KeyDown:
		ev.Key = KeyDown
	case tea.KeyEsc:
		ev.Key = KeyEsc
	case tea.KeyCtrlAt:
		ev.Key = KeyChar
		ev.Mods |= ModCtrl
		ev.Runes = []rune{'@'}
	case tea.KeyTab:
		ev.Key = KeyOther
	default:
		if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
			ev.Key = KeyChar
			ev.Mods |= ModCtrl
			ev.Runes = []rune{rune('a' + int(msg.Type-tea.KeyCtrlA))}
		}
	}
	return ev
}
