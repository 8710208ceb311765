package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lovebrew/nestdbg/internal/logging/events"
	"github.com/lovebrew/nestdbg/internal/registry"
)

// reduce applies one intent to the model.
func (m *Model) reduce(intent Intent) tea.Cmd {
	switch intent.Kind {
	case IntentSubmitLine:
		m.submitLine()
	case IntentTogglePicker:
		m.pickerVisible = !m.pickerVisible
		events.Picker.Toggle(m.pickerVisible, m.registry.Len())
	case IntentMoveSelection:
		if m.picker.Move(intent.Delta, m.registry.Len()) {
			events.Picker.Move(intent.Delta, m.picker.Selected)
		}
	case IntentConfirmSelection:
		m.confirmSelection()
	case IntentClosePicker:
		m.pickerVisible = false
		events.Picker.Close()
	case IntentQuit:
		m.quitting = true
		events.Input.Quit()
		return tea.Quit
	}
	return nil
}

func (m *Model) submitLine() {
	line := string(m.input)
	m.input = m.input[:0]
	m.cursorDirty = true
	m.appendLog(LineEcho, line)

	sent := false
	if m.session.IsConnected() {
		if err := m.session.Send([]byte(line + "\n")); err != nil {
			m.appendLog(LineError, fmt.Sprintf("error: %v", err))
		} else {
			sent = true
		}
	}
	events.Input.Submit(line, sent)
}

// confirmSelection connects to the highlighted target. With nothing to
// select the picker stays open; otherwise it closes whether or not the
// connect was accepted.
func (m *Model) confirmSelection() {
	target, ok := m.registry.At(m.picker.Selected)
	if !ok {
		return
	}
	m.pickerVisible = false
	events.Picker.Confirm(m.picker.Selected, target.Name)
	m.connect(target)
}

func (m *Model) connect(target registry.Target) {
	if err := m.session.Connect(target, m.tick); err != nil {
		m.appendLog(LineError, fmt.Sprintf("error: %v", err))
	}
}
