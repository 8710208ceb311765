// Package cli builds the nestdbg command tree. With no subcommand the
// debugger console starts; the subcommands manage saved connections and
// resolve crash addresses.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/lovebrew/nestdbg/internal/app"
	"github.com/lovebrew/nestdbg/internal/config"
	"github.com/lovebrew/nestdbg/internal/symbols"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Options injects the side effects of the command tree.
type Options struct {
	// Run starts the console. Defaults to app.Run.
	Run func(app.Config) error
	// Open hands a file to the platform opener.
	Open func(path string) error
	// Interactive reports whether stdin and stdout are terminals.
	Interactive func() bool
	// OnStart runs once flags are parsed and validated, before any command.
	OnStart  func(config.Config)
	Resolver *symbols.Resolver
	Stdout   io.Writer
	Stderr   io.Writer
	Environ  []string
}

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

var errNotInteractive = errors.New("the console needs an interactive terminal")

func (o *Options) defaults() {
	if o.Run == nil {
		o.Run = app.Run
	}
	if o.Open == nil {
		o.Open = openWithSystem
	}
	if o.Interactive == nil {
		o.Interactive = isInteractive
	}
	if o.Resolver == nil {
		o.Resolver = symbols.NewResolver()
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Environ == nil {
		o.Environ = os.Environ()
	}
}

// NewRootCmd assembles the command tree.
func NewRootCmd(opts Options) *cobra.Command {
	opts.defaults()
	var cfg config.Config

	root := &cobra.Command{
		Use:           "nestdbg",
		Short:         "Remote debugging console for homebrew targets",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			return launch(opts, cfg.App)
		},
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	binding := config.RegisterFlags(root.PersistentFlags(), opts.Environ)
	root.PersistentPreRunE = func(*cobra.Command, []string) error {
		cfg = binding.Config(os.Args[1:])
		if err := config.Validate(cfg); err != nil {
			return &ExitError{Code: 2, Err: fmt.Errorf("configuration error: %w", err)}
		}
		if opts.OnStart != nil {
			opts.OnStart(cfg)
		}
		return nil
	}

	current := func() config.Config { return cfg }
	root.AddCommand(
		newAddCmd(current),
		newRemoveCmd(current),
		newListCmd(current),
		newOpenConfigCmd(current, opts),
		newConnectCmd(current, opts),
		newAddr2lineCmd(opts),
	)
	return root
}

// Execute runs the command tree over args and returns the process exit code.
func Execute(args []string, opts Options) int {
	root := NewRootCmd(opts)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

func launch(opts Options, cfg app.Config) error {
	if !opts.Interactive() {
		return &ExitError{Code: 2, Err: errNotInteractive}
	}
	return opts.Run(cfg)
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func openWithSystem(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return cmd.Process.Release()
}
