package app

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lovebrew/nestdbg/internal/backend"
	"github.com/lovebrew/nestdbg/internal/logging"
	"github.com/lovebrew/nestdbg/internal/logging/events"
	"github.com/lovebrew/nestdbg/internal/registry"
	"github.com/lovebrew/nestdbg/internal/session"
	"github.com/lovebrew/nestdbg/internal/transcript"
	"github.com/lovebrew/nestdbg/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	RegistryPath string
	Port         uint16
	DialTimeout  time.Duration
	WriteTimeout time.Duration
	PollInterval time.Duration
	// Connect is a saved name or IPv4 literal dialed at startup.
	Connect string
	// TranscriptPath receives a copy of every byte the target sends.
	TranscriptPath string
}

// Run bootstraps and executes the Bubble Tea program. The session, the
// registry watcher and the transcript are released on every return path.
func Run(cfg Config) error {
	env, err := Prepare(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	program := tea.NewProgram(env.Model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		events.App.Stop("killed")
		return nil
	}
	if err != nil {
		events.App.Stop(err.Error())
		return err
	}
	events.App.Stop("quit")
	return nil
}

// Environment is a fully wired model plus the resources it borrows.
type Environment struct {
	Model      *ui.Model
	Session    *session.Session
	Registry   *registry.Registry
	Watcher    *backend.Watcher
	Transcript *transcript.Writer
}

// Prepare loads the registry, resolves the startup target and builds the
// model. A registry that fails to parse does not stop startup; the error is
// shown in the log and the picker starts empty.
func Prepare(cfg Config) (*Environment, error) {
	var notices []string
	reg, err := registry.Load(cfg.RegistryPath)
	if err != nil {
		logging.Error(err)
		notices = append(notices, fmt.Sprintf("error: %v", err))
	}

	var autoConnect *registry.Target
	if cfg.Connect != "" {
		target, err := reg.Resolve(cfg.Connect)
		if err != nil {
			return nil, err
		}
		autoConnect = &target
	}

	tw, err := transcript.Open(cfg.TranscriptPath)
	if err != nil {
		return nil, err
	}

	env := &Environment{
		Registry:   reg,
		Transcript: tw,
		Session: session.New(session.Options{
			Port:         cfg.Port,
			DialTimeout:  cfg.DialTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}),
	}
	if w, err := backend.NewWatcher(cfg.RegistryPath, backend.DefaultDebounce); err != nil {
		logging.Error(err)
		notices = append(notices, fmt.Sprintf("error: %v", err))
	} else {
		env.Watcher = w
	}

	opts := ui.Options{
		Session:      env.Session,
		Registry:     reg,
		Watcher:      env.Watcher,
		PollInterval: cfg.PollInterval,
		AutoConnect:  autoConnect,
		Notices:      notices,
	}
	if tw.Enabled() {
		opts.Transcript = tw
	}
	env.Model = ui.NewModel(opts)
	return env, nil
}

// Close disconnects the session, stops the watcher and flushes the
// transcript. It is safe to call more than once.
func (e *Environment) Close() {
	if e == nil {
		return
	}
	if e.Session != nil {
		if err := e.Session.Disconnect(); err != nil {
			logging.Error(err)
		}
	}
	if e.Watcher != nil {
		e.Watcher.Stop()
		e.Watcher.Wait()
		e.Watcher = nil
	}
	if e.Transcript != nil {
		if err := e.Transcript.Close(); err != nil {
			logging.Error(err)
		}
		e.Transcript = nil
	}
}
