package ui

import (
	"io"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lovebrew/nestdbg/internal/backend"
	"github.com/lovebrew/nestdbg/internal/data/dispatcher"
	"github.com/lovebrew/nestdbg/internal/logging/events"
	"github.com/lovebrew/nestdbg/internal/registry"
	"github.com/lovebrew/nestdbg/internal/session"
	"github.com/lovebrew/nestdbg/internal/theme"
	uistate "github.com/lovebrew/nestdbg/internal/ui/state"
)

const defaultPollInterval = 100 * time.Millisecond

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options wires the model to its collaborators. Session and Registry are
// required; the rest are optional.
type Options struct {
	Session      *session.Session
	Registry     *registry.Registry
	Watcher      *backend.Watcher
	Transcript   io.Writer
	PollInterval time.Duration
	// AutoConnect, when set, is dialed as soon as the program starts.
	AutoConnect *registry.Target
	// Notices are written to the log before anything else, e.g. a registry
	// that failed to load.
	Notices []string
	Keys    *KeyMap
	Width   int
	Height  int
}

// Model implements the Bubble Tea model for the debugger console.
type Model struct {
	session    *session.Session
	registry   *registry.Registry
	backend    *backend.Watcher
	dispatcher *dispatcher.Dispatcher
	transcript io.Writer
	keys       KeyMap

	input         []rune
	log           []LogLine
	pickerVisible bool
	picker        uistate.Picker
	tick          uint64
	quitting      bool

	pollInterval time.Duration
	autoConnect  *registry.Target

	width       int
	height      int
	surface     *surface
	inputCursor cursor.Model
	cursorDirty bool

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the initial state: empty log, empty input, picker hidden.
func NewModel(opts Options) *Model {
	sess := opts.Session
	if sess == nil {
		sess = session.New(session.Options{})
	}
	reg := opts.Registry
	if reg == nil {
		reg = registry.New("", nil)
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	m := &Model{
		session:      sess,
		registry:     reg,
		backend:      opts.Watcher,
		dispatcher:   dispatcher.New(reg),
		transcript:   opts.Transcript,
		keys:         keys,
		pollInterval: interval,
		autoConnect:  opts.AutoConnect,
		width:        opts.Width,
		height:       opts.Height,
		surface:      newSurface(),
	}
	for _, notice := range opts.Notices {
		m.appendLog(LineError, notice)
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Input != nil {
		c.TextStyle = styles.Input.Copy()
	}
	c.SetChar(" ")
	m.inputCursor = c
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollInterval)}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if m.autoConnect != nil {
		target := *m.autoConnect
		cmds = append(cmds, func() tea.Msg { return autoConnectMsg{target: target} })
	}
	if cmd := m.inputCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages. Every call is one loop iteration
// and advances the animation tick exactly once.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateInputCursor(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tickMsg{}):           m.handleTickMsg,
		reflect.TypeOf(autoConnectMsg{}):    m.handleAutoConnectMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	m.tick++
	if m.cursorDirty {
		m.cursorDirty = false
		m.inputCursor.Blink = false
		if cmd := m.inputCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	d := decode(rawEventFromKey(keyMsg), m.keys, m.pickerVisible, len(m.input) == 0)
	m.applyEdit(d)
	return m.reduce(d.intent)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	m.width = size.Width
	m.height = size.Height
	events.UI.Resize(size.Width, size.Height)
	return nil
}

// Tick returns the number of loop iterations so far.
func (m *Model) Tick() uint64 {
	return m.tick
}

// Input returns the pending input line.
func (m *Model) Input() string {
	return string(m.input)
}

// Log returns a copy of the log lines.
func (m *Model) Log() []string {
	out := make([]string, len(m.log))
	for i, entry := range m.log {
		out[i] = entry.Text
	}
	return out
}

func (m *Model) PickerVisible() bool {
	return m.pickerVisible
}

func (m *Model) SelectedIndex() int {
	return m.picker.Selected
}

// Quitting reports whether a Quit intent has been applied.
func (m *Model) Quitting() bool {
	return m.quitting
}

func (m *Model) Session() *session.Session {
	return m.session
}
