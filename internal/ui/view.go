package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lovebrew/nestdbg/internal/registry"
	"github.com/lovebrew/nestdbg/internal/session"
	"github.com/muesli/reflow/truncate"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	logPaneFraction = 0.7
	minPickerWidth  = 30
	promptText      = "~> "
	emptyPickerText = "(no saved connections)"
)

// Frame is everything one render needs. Building it reads the model; painting
// it never touches the session.
type Frame struct {
	Width      int
	Height     int
	Status     string
	Connection string
	Log        []LogLine
	Input      string
	Caret      string
	Picker     *PickerFrame
}

// PickerFrame is the visible slice of the connection list. Selected indexes
// into Entries, or is -1 when the highlighted row is scrolled out.
type PickerFrame struct {
	Entries  []registry.Target
	Selected int
}

// View implements tea.Model.
func (m *Model) View() string {
	return m.surface.Render(m.Frame())
}

// Frame snapshots the state to draw for the current tick.
func (m *Model) Frame() Frame {
	width, height := m.size()
	f := Frame{
		Width:      width,
		Height:     height,
		Status:     m.session.StatusText(m.tick),
		Connection: session.Name(m.session.State()),
		Log:        m.log,
		Input:      string(m.input),
		Caret:      m.inputCursor.View(),
	}
	if m.pickerVisible {
		targets := m.registry.Targets()
		start, end := m.picker.Window(len(targets), pickerRows(height))
		selected := m.picker.Selected - start
		if selected < 0 || selected >= end-start {
			selected = -1
		}
		f.Picker = &PickerFrame{Entries: targets[start:end], Selected: selected}
	}
	return f
}

func (m *Model) size() (int, int) {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return width, height
}

func pickerRows(height int) int {
	if rows := height - 6; rows > 0 {
		return rows
	}
	return 1
}

// surface paints frames. It keeps the log viewport between renders and
// nothing else.
type surface struct {
	log viewport.Model
}

func newSurface() *surface {
	return &surface{log: viewport.New(0, 0)}
}

// Render lays out the status bar, the Log and Globals panes, the input line,
// and the picker overlay when one is open.
func (s *surface) Render(f Frame) string {
	width, height := f.Width, f.Height
	bodyHeight := height - 2
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	logWidth := int(float64(width) * logPaneFraction)
	globalsWidth := width - logWidth

	left := renderPane("Log", s.logRows(f.Log, logWidth-2, bodyHeight-2), logWidth, bodyHeight, styles.PaneBorder, styles.PaneTitle)
	right := renderPane("Globals", nil, globalsWidth, bodyHeight, styles.PaneBorder, styles.PaneTitle)
	body := lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(left, "\n"), strings.Join(right, "\n"))

	view := renderStatus(f.Status, f.Connection, width) + "\n" + body + "\n" + renderInput(f.Input, f.Caret, width)
	if f.Picker != nil {
		box := renderPicker(*f.Picker, width)
		x := (width - ansi.StringWidth(box[0])) / 2
		y := (bodyHeight + 2 - len(box)) / 2
		view = spliceOverlay(view, box, x, y)
	}
	return view
}

func renderStatus(status, connection string, width int) string {
	style := styles.StatusIdle
	switch connection {
	case "connecting":
		style = styles.StatusConnecting
	case "connected":
		style = styles.StatusConnected
	}
	text := truncateText("["+status+"]", width)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, paint(style, text))
}

// logRows expands log entries into screen lines and returns the tail that
// fits in height rows.
func (s *surface) logRows(lines []LogLine, width, height int) []string {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	display := make([]string, 0, len(lines))
	for _, line := range lines {
		style := logStyle(line.Kind)
		for _, part := range splitLogText(line) {
			display = append(display, paint(style, truncateText(part, width)))
		}
	}
	s.log.Width = width
	s.log.Height = height
	s.log.SetContent(strings.Join(display, "\n"))
	s.log.GotoBottom()
	return strings.Split(s.log.View(), "\n")
}

var logCleaner = strings.NewReplacer("\r\n", "\n", "\r", "", "\t", "    ")

// splitLogText breaks one entry into display lines. Terminal escapes from the
// target are stripped so they cannot repaint the screen.
func splitLogText(line LogLine) []string {
	text := logCleaner.Replace(ansi.Strip(line.Text))
	if line.Kind == LineReceived {
		text = strings.TrimSuffix(text, "\n")
	}
	return strings.Split(text, "\n")
}

func logStyle(kind LineKind) *lipgloss.Style {
	switch kind {
	case LineEcho:
		return styles.LogEcho
	case LineError:
		return styles.LogError
	default:
		return styles.LogLine
	}
}

func renderInput(input, caret string, width int) string {
	avail := width - ansi.StringWidth(promptText) - 1
	if avail < 0 {
		avail = 0
	}
	if w := ansi.StringWidth(input); w > avail {
		input = ansi.TruncateLeft(input, w-avail, "")
	}
	return paint(styles.Prompt, promptText) + paint(styles.Input, input) + caret
}

func renderPicker(p PickerFrame, screenWidth int) []string {
	width := screenWidth / 2
	if width < minPickerWidth {
		width = minPickerWidth
	}
	if width > screenWidth-2 {
		width = screenWidth - 2
	}
	if width < 4 {
		width = 4
	}
	innerW := width - 2
	rows := make([]string, 0, len(p.Entries)+1)
	if len(p.Entries) == 0 {
		rows = append(rows, paint(styles.PickerEmpty, truncateText(" "+emptyPickerText, innerW)))
	}
	for i, target := range p.Entries {
		rows = append(rows, pickerRow(target, innerW, i == p.Selected))
	}
	return renderPane("Connections", rows, width, len(rows)+2, styles.PickerBorder, styles.PickerTitle)
}

// pickerRow puts the name on the left and the address on the right.
func pickerRow(target registry.Target, width int, selected bool) string {
	name := " " + target.Name
	addr := target.Address + " "
	if room := width - ansi.StringWidth(addr) - 1; ansi.StringWidth(name) > room {
		name = truncateText(name, room)
	}
	gap := width - ansi.StringWidth(name) - ansi.StringWidth(addr)
	if gap < 1 {
		gap = 1
	}
	spacer := strings.Repeat(" ", gap)
	if selected {
		return paint(styles.PickerSelected, name+spacer+addr)
	}
	return paint(styles.PickerItem, name+spacer) + paint(styles.PickerAddress, addr)
}

// renderPane draws a rounded box with the title set into the top border.
// The result has exactly height rows, each width cells wide.
func renderPane(title string, content []string, width, height int, border, titleStyle *lipgloss.Style) []string {
	const (
		tlc = "╭"
		trc = "╮"
		blc = "╰"
		brc = "╯"
		hz  = "─"
		vt  = "│"
	)
	if width < 4 {
		width = 4
	}
	if height < 2 {
		height = 2
	}
	innerW := width - 2
	innerH := height - 2

	titleSeg := " " + title + " "
	dashes := width - 3 - ansi.StringWidth(titleSeg)
	if dashes < 0 {
		titleSeg = ""
		dashes = width - 3
	}
	rows := make([]string, 0, height)
	rows = append(rows, paint(border, tlc+hz)+paint(titleStyle, titleSeg)+paint(border, strings.Repeat(hz, dashes)+trc))
	for i := 0; i < innerH; i++ {
		var line string
		if i < len(content) {
			line = content[i]
		}
		rows = append(rows, paint(border, vt)+fitWidth(line, innerW)+paint(border, vt))
	}
	rows = append(rows, paint(border, blc+strings.Repeat(hz, innerW)+brc))
	return rows
}

func paint(style *lipgloss.Style, text string) string {
	if style == nil {
		return text
	}
	return style.Render(text)
}

// fitWidth truncates or pads s to exactly width cells.
func fitWidth(s string, width int) string {
	s = truncateText(s, width)
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func truncateText(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	if width == 1 {
		return truncate.String(s, 1)
	}
	return truncate.StringWithTail(s, uint(width), "…")
}
