package main

import (
	"errors"
	"io/fs"
	"os"
	"runtime/debug"

	"github.com/lovebrew/nestdbg/internal/cli"
	"github.com/lovebrew/nestdbg/internal/config"
	"github.com/lovebrew/nestdbg/internal/logging"
	"github.com/lovebrew/nestdbg/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], cli.Options{OnStart: start}))
}

// start configures logging once flags are parsed.
func start(cfg config.Config) {
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	traceStartup(cfg)
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload records what this run will talk to and how, so a trace
// can be matched against the target it was captured from.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	return map[string]interface{}{
		"argv":     cfg.Args,
		"version":  buildVersion(),
		"registry": describeRegistry(cfg.App.RegistryPath),
		"target": targetDetails{
			Port:       cfg.App.Port,
			Connect:    cfg.App.Connect,
			Transcript: cfg.App.TranscriptPath,
		},
		"timing": timingDetails{
			Dial:  cfg.App.DialTimeout.String(),
			Write: cfg.App.WriteTimeout.String(),
			Poll:  cfg.App.PollInterval.String(),
		},
		"logging":  cfg.Logging,
		"terminal": describeTerminal(int(os.Stdin.Fd()), int(os.Stdout.Fd())),
	}
}

type registryDetails struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	Error  string `json:"error,omitempty"`
}

type targetDetails struct {
	Port       uint16 `json:"port"`
	Connect    string `json:"connect,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

type timingDetails struct {
	Dial  string `json:"dial"`
	Write string `json:"write"`
	Poll  string `json:"poll"`
}

type terminalDetails struct {
	Interactive bool   `json:"interactive"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Error       string `json:"error,omitempty"`
}

func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}

// describeRegistry reports whether the saved connections file is there yet. A
// missing file is normal on first run.
func describeRegistry(path string) registryDetails {
	details := registryDetails{Path: path}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		details.Exists = true
	case !errors.Is(err, fs.ErrNotExist):
		details.Error = err.Error()
	}
	return details
}

// describeTerminal reports whether the console can run interactively on the
// given descriptors and, if so, the size of the screen it will draw on.
func describeTerminal(in, out int) terminalDetails {
	details := terminalDetails{Interactive: term.IsTerminal(in) && term.IsTerminal(out)}
	if !details.Interactive {
		return details
	}
	width, height, err := term.GetSize(out)
	if err != nil {
		details.Error = err.Error()
		return details
	}
	details.Width = width
	details.Height = height
	return details
}
