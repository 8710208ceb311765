package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lovebrew/nestdbg/internal/backend"
	"github.com/lovebrew/nestdbg/internal/logging/events"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// applyBackendEvent swaps in a reloaded target list. The selection is kept
// in range so a shrinking list never leaves it dangling.
func (m *Model) applyBackendEvent(evt backend.Event) {
	if evt.Err != nil {
		events.UI.BackendError(evt.Err)
		m.appendLog(LineError, fmt.Sprintf("error: %v", evt.Err))
		return
	}
	if res := m.dispatcher.Handle(evt); res.RegistryUpdated {
		m.picker.Clamp(res.Count)
	}
}
