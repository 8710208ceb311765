// Package symbols turns raw crash addresses into source locations by running
// the addr2line that matches the toolchain a binary was built with.
package symbols

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/lovebrew/nestdbg/internal/logging/events"
)

var (
	ErrFileNotFound     = errors.New("file not found")
	ErrEmptyFile        = errors.New("file is empty")
	ErrUnknownToolchain = errors.New("no known toolchain marker in binary")
	ErrToolNotFound     = errors.New("addr2line tool not found on PATH")
)

// Toolchain is an addr2line flavour and the marker that identifies binaries
// linked with it.
type Toolchain struct {
	Marker string
	Tool   string
	Arch   string
}

// Toolchains are checked in order; the first marker present wins.
var Toolchains = []Toolchain{
	{Marker: "3dsx_crt0.o", Tool: "arm-none-eabi-addr2line", Arch: "arm"},
	{Marker: "switch_crt0.o", Tool: "aarch64-none-elf-addr2line"},
	{Marker: "crt0_rpx.o", Tool: "powerpc-eabi-addr2line"},
}

// ToolError reports a non-zero exit from addr2line.
type ToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *ToolError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Tool, e.ExitCode, msg)
}

// Result is the captured output of one addr2line run.
type Result struct {
	Tool   string
	Stdout string
	Stderr string
}

// Runner executes name with args and returns its captured output.
type Runner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// Resolver finds and runs addr2line. LookPath and Run default to the real
// PATH lookup and process execution.
type Resolver struct {
	LookPath func(file string) (string, error)
	Run      Runner
}

func NewResolver() *Resolver {
	return &Resolver{LookPath: exec.LookPath, Run: runCommand}
}

// Detect identifies the toolchain of the binary at path and locates its tool.
func (r *Resolver) Detect(path string) (Toolchain, string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.Mode().IsRegular()) {
		return Toolchain{}, "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return Toolchain{}, "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return Toolchain{}, "", fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Toolchain{}, "", fmt.Errorf("read %s: %w", path, err)
	}
	for _, tc := range Toolchains {
		if !bytes.Contains(data, []byte(tc.Marker)) {
			continue
		}
		toolPath, err := r.lookPath(tc.Tool)
		if err != nil {
			return tc, "", fmt.Errorf("%w: %s", ErrToolNotFound, tc.Tool)
		}
		return tc, toolPath, nil
	}
	return Toolchain{}, "", fmt.Errorf("%w: %s", ErrUnknownToolchain, path)
}

// Resolve runs addr2line over addresses for the binary at path.
func (r *Resolver) Resolve(ctx context.Context, path string, addresses []string) (Result, error) {
	tc, toolPath, err := r.Detect(path)
	if err != nil {
		return Result{}, err
	}
	args := Args(tc, path, addresses)
	events.Symbols.Resolve(path, tc.Tool, addresses)

	run := r.Run
	if run == nil {
		run = runCommand
	}
	stdout, stderr, err := run(ctx, toolPath, args...)
	res := Result{Tool: tc.Tool, Stdout: string(stdout), Stderr: string(stderr)}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return res, &ToolError{Tool: tc.Tool, ExitCode: exitErr.ExitCode(), Stderr: res.Stderr}
		}
		return res, fmt.Errorf("run %s: %w", tc.Tool, err)
	}
	return res, nil
}

// Args builds the addr2line argument vector: addresses, inlines, pretty
// printing, function names and demangling, then the executable.
func Args(tc Toolchain, path string, addresses []string) []string {
	args := []string{"-aipfCe"}
	if tc.Arch != "" {
		args = append(args, tc.Arch)
	}
	args = append(args, "-e", path)
	return append(args, addresses...)
}

func (r *Resolver) lookPath(tool string) (string, error) {
	if r.LookPath == nil {
		return exec.LookPath(tool)
	}
	return r.LookPath(tool)
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
