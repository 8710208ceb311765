package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lovebrew/nestdbg/internal/app"
	"github.com/lovebrew/nestdbg/internal/registry"
	"github.com/lovebrew/nestdbg/internal/symbols"
	"github.com/lovebrew/nestdbg/internal/testutil"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, opts Options, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	opts.Stdout = &stdout
	opts.Stderr = &stderr
	if opts.Environ == nil {
		opts.Environ = []string{}
	}
	if opts.Run == nil {
		opts.Run = func(app.Config) error {
			t.Fatalf("console should not start")
			return nil
		}
	}
	code := Execute(args, opts)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func configPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "nestdbg", "config.toml")
}

func TestAddListRemove(t *testing.T) {
	path := configPath(t)
	if r := run(t, Options{}, "--config", path, "add", "switch", "10.0.0.5"); r.code != 0 {
		t.Fatalf("add failed: %d %s", r.code, r.stderr)
	}
	if r := run(t, Options{}, "--config", path, "add", "3ds", "10.0.0.6"); r.code != 0 {
		t.Fatalf("add failed: %d %s", r.code, r.stderr)
	}
	r := run(t, Options{}, "--config", path, "list")
	want := "3ds     10.0.0.6\nswitch  10.0.0.5\n"
	if r.code != 0 || r.stdout != want {
		t.Fatalf("unexpected list output %q (code %d)", r.stdout, r.code)
	}
	if r := run(t, Options{}, "--config", path, "rm", "3ds"); r.code != 0 {
		t.Fatalf("rm failed: %d %s", r.code, r.stderr)
	}
	reg, err := registry.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if names := reg.Names(); len(names) != 1 || names[0] != "switch" {
		t.Fatalf("unexpected saved names %v", names)
	}
}

func TestListEmpty(t *testing.T) {
	r := run(t, Options{}, "--config", configPath(t), "list")
	if r.code != 0 || r.stdout != "No saved connections.\n" {
		t.Fatalf("unexpected output %q (code %d)", r.stdout, r.code)
	}
}

func TestAddRejectsDuplicateAndBadAddress(t *testing.T) {
	path := configPath(t)
	run(t, Options{}, "--config", path, "add", "switch", "10.0.0.5")
	if r := run(t, Options{}, "--config", path, "add", "switch", "10.0.0.9"); r.code != 1 || !strings.Contains(r.stderr, "already exists") {
		t.Fatalf("expected duplicate failure, got %d %q", r.code, r.stderr)
	}
	if r := run(t, Options{}, "--config", path, "add", "wiiu", "wiiu.local"); r.code != 1 {
		t.Fatalf("expected invalid address failure, got %d", r.code)
	}
	if r := run(t, Options{}, "--config", path, "add", "wiiu"); r.code != 1 {
		t.Fatalf("expected argument count failure, got %d", r.code)
	}
}

func TestRemoveUnknownSuggests(t *testing.T) {
	path := configPath(t)
	run(t, Options{}, "--config", path, "add", "switch", "10.0.0.5")
	r := run(t, Options{}, "--config", path, "delete", "swtch")
	if r.code != 1 || !strings.Contains(r.stderr, `did you mean "switch"`) {
		t.Fatalf("expected suggestion, got %d %q", r.code, r.stderr)
	}
}

func TestMalformedRegistryIsReported(t *testing.T) {
	path := testutil.WriteFile(t, "config.toml", "connections = [")
	r := run(t, Options{}, "--config", path, "list")
	if r.code != 1 || !strings.Contains(r.stderr, "parse") {
		t.Fatalf("expected parse error, got %d %q", r.code, r.stderr)
	}
}

func TestOpenConfigCreatesMissingFile(t *testing.T) {
	path := configPath(t)
	var opened string
	r := run(t, Options{Open: func(p string) error { opened = p; return nil }}, "--config", path, "open-config")
	if r.code != 0 {
		t.Fatalf("open-config failed: %s", r.stderr)
	}
	if opened != path {
		t.Fatalf("expected %s to be opened, got %q", path, opened)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
}

func TestRootLaunchesConsole(t *testing.T) {
	path := configPath(t)
	var got app.Config
	opts := Options{
		Interactive: func() bool { return true },
		Run:         func(cfg app.Config) error { got = cfg; return nil },
	}
	if r := run(t, opts, "--config", path, "--port", "4000"); r.code != 0 {
		t.Fatalf("root failed: %s", r.stderr)
	}
	if got.RegistryPath != path || got.Port != 4000 || got.Connect != "" {
		t.Fatalf("unexpected app config %+v", got)
	}
}

func TestRootRequiresTerminal(t *testing.T) {
	opts := Options{Interactive: func() bool { return false }}
	r := run(t, opts, "--config", configPath(t))
	if r.code != 2 || !strings.Contains(r.stderr, "interactive terminal") {
		t.Fatalf("expected terminal error, got %d %q", r.code, r.stderr)
	}
}

func TestInvalidFlagsExitWithTwo(t *testing.T) {
	r := run(t, Options{}, "--config", configPath(t), "--port", "0", "list")
	if r.code != 2 || !strings.Contains(r.stderr, "configuration error") {
		t.Fatalf("expected configuration error, got %d %q", r.code, r.stderr)
	}
}

func TestConnectResolvesTarget(t *testing.T) {
	path := configPath(t)
	run(t, Options{}, "--config", path, "add", "switch", "10.0.0.5")

	var got app.Config
	opts := Options{
		Interactive: func() bool { return true },
		Run:         func(cfg app.Config) error { got = cfg; return nil },
	}
	if r := run(t, opts, "--config", path, "connect", "switch", "--file", "out.log"); r.code != 0 {
		t.Fatalf("connect failed: %s", r.stderr)
	}
	if got.Connect != "switch" || got.TranscriptPath != "out.log" {
		t.Fatalf("unexpected app config %+v", got)
	}
	if r := run(t, opts, "--config", path, "connect", "192.168.1.50"); r.code != 0 {
		t.Fatalf("connect by address failed: %s", r.stderr)
	}
	r := run(t, Options{Interactive: func() bool { return true }}, "--config", path, "connect", "swich")
	if r.code != 1 || !strings.Contains(r.stderr, `did you mean "switch"`) {
		t.Fatalf("expected suggestion, got %d %q", r.code, r.stderr)
	}
}

func TestAddr2line(t *testing.T) {
	binary := testutil.WriteFile(t, "game.elf", "\x7fELF...switch_crt0.o...")
	var gotName string
	var gotArgs []string
	resolver := &symbols.Resolver{
		LookPath: func(file string) (string, error) { return "/opt/devkitpro/bin/" + file, nil },
		Run: func(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
			gotName, gotArgs = name, args
			return []byte("0x1000: main at main.c:12\n"), nil, nil
		},
	}
	r := run(t, Options{Resolver: resolver}, "--config", configPath(t), "addr2line", binary, "0x1000")
	if r.code != 0 {
		t.Fatalf("addr2line failed: %s", r.stderr)
	}
	if r.stdout != "0x1000: main at main.c:12\n" {
		t.Fatalf("unexpected output %q", r.stdout)
	}
	if gotName != "/opt/devkitpro/bin/aarch64-none-elf-addr2line" {
		t.Fatalf("unexpected tool %q", gotName)
	}
	if strings.Join(gotArgs, " ") != "-aipfCe -e "+binary+" 0x1000" {
		t.Fatalf("unexpected args %v", gotArgs)
	}
	if r := run(t, Options{Resolver: resolver}, "--config", configPath(t), "addr2line", binary); r.code != 1 {
		t.Fatalf("expected missing address to fail, got %d", r.code)
	}
}
