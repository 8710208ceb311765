package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Harness drives the UI model programmatically for integration tests. It
// delivers messages one at a time and hands back the returned command
// without running it, since the poll tick re-arms forever.
type Harness struct {
	model *Model
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	return &Harness{model: model}
}

// Send routes a message through the model.
func (h *Harness) Send(msg tea.Msg) tea.Cmd {
	if h.model == nil {
		return nil
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	return cmd
}

// Tick delivers one poll tick, as if the bounded wait had expired.
func (h *Harness) Tick() {
	h.Send(tickMsg(time.Now()))
}

// Type presses each rune of text in order.
func (h *Harness) Type(text string) {
	for _, r := range text {
		if r == ' ' {
			h.Press(tea.KeySpace)
			continue
		}
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// Press delivers a single non-rune key.
func (h *Harness) Press(kt tea.KeyType) {
	h.Send(tea.KeyMsg{Type: kt})
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
