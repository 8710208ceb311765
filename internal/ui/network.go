package ui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lovebrew/nestdbg/internal/logging"
	"github.com/lovebrew/nestdbg/internal/registry"
	"github.com/lovebrew/nestdbg/internal/session"
)

// maxChunksPerTick bounds how much received data one iteration absorbs so a
// chatty target cannot starve key handling.
const maxChunksPerTick = 64

type tickMsg time.Time

type autoConnectMsg struct {
	target registry.Target
}

// tickCmd is the bounded wait: with no key press the loop still wakes every
// interval to poll the session and redraw.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) handleTickMsg(tea.Msg) tea.Cmd {
	m.drainSession()
	return tickCmd(m.pollInterval)
}

func (m *Model) handleAutoConnectMsg(msg tea.Msg) tea.Cmd {
	connect, ok := msg.(autoConnectMsg)
	if !ok {
		return nil
	}
	m.autoConnect = nil
	m.connect(connect.target)
	return nil
}

// drainSession applies a finished dial or a failed write and moves buffered
// bytes into the log.
// It never blocks.
func (m *Model) drainSession() {
	if tr, ok := m.session.Poll(); ok {
		switch tr.Kind {
		case session.TransitionConnected:
			m.appendLog(LineInfo, fmt.Sprintf("Connected to %s (%s)", tr.Target, tr.Peer))
		case session.TransitionFailed:
			m.appendLog(LineError, fmt.Sprintf("Connection to %s failed: %v", tr.Target, tr.Err))
		case session.TransitionLost:
			m.appendLog(LineError, fmt.Sprintf("error: %v", tr.Err))
		}
	}
	for i := 0; i < maxChunksPerTick && m.session.IsConnected(); i++ {
		data, err := m.session.Receive()
		if err != nil {
			if errors.Is(err, session.ErrClosed) {
				m.appendLog(LineInfo, "Connection closed by target")
			} else {
				m.appendLog(LineError, fmt.Sprintf("error: %v", err))
			}
			return
		}
		if len(data) == 0 {
			return
		}
		m.record(data)
		m.appendLog(LineReceived, decodeChunk(data))
	}
}

func (m *Model) record(data []byte) {
	if m.transcript == nil {
		return
	}
	if _, err := m.transcript.Write(data); err != nil {
		logging.Error(err)
	}
}
