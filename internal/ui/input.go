package ui

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
)

// LineKind tells the renderer where a log line came from.
type LineKind int

const (
	LineReceived LineKind = iota
	LineEcho
	LineInfo
	LineError
)

// LogLine is one log entry. Received chunks are stored verbatim and may
// span several screen lines.
type LogLine struct {
	Kind LineKind
	Text string
}

func (m *Model) updateInputCursor(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.inputCursor, cmd = m.inputCursor.Update(msg)
	return cmd
}

// applyEdit performs the buffer edit carried alongside a Noop intent.
func (m *Model) applyEdit(d decoded) {
	switch d.edit {
	case editAppend:
		for _, r := range d.runes {
			if unicode.IsControl(r) {
				continue
			}
			m.input = append(m.input, r)
		}
		m.cursorDirty = true
	case editBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
			m.cursorDirty = true
		}
	}
}

func (m *Model) appendLog(kind LineKind, text string) {
	m.log = append(m.log, LogLine{Kind: kind, Text: text})
}

// decodeChunk converts received bytes to text, replacing invalid UTF-8.
func decodeChunk(data []byte) string {
	return strings.ToValidUTF8(string(data), "\uFFFD")
}
