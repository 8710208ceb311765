package registry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	reg, err := Load(filepath.Join(t.TempDir(), "nope", "config.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d entries", reg.Len())
	}
}

func TestLoadSortsAndSkipsBlankEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[[connections]]
name = "switch"
address = "10.0.0.5"

[[connections]]
name = ""
address = "10.0.0.9"

[[connections]]
name = "3ds"
address = "10.0.0.7"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	reg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	names := reg.Names()
	if len(names) != 2 || names[0] != "3ds" || names[1] != "switch" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("connections = ["), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	reg, err := Load(path)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if reg == nil || reg.Len() != 0 {
		t.Fatalf("expected usable empty registry alongside the error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	reg := New(path, nil)
	if err := reg.Add(Target{Name: "switch", Address: "10.0.0.5"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := reg.Add(Target{Name: "3ds", Address: "10.0.0.7"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := reg.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "[[connections]]") {
		t.Fatalf("expected connections table array, got:\n%s", data)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := loaded.Names(); len(got) != 2 || got[0] != "3ds" || got[1] != "switch" {
		t.Fatalf("unexpected names after reload %v", got)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("expected temp file to be cleaned up, found %d entries", len(entries))
	}
}

func TestAddRejectsDuplicateAndInvalid(t *testing.T) {
	reg := New("", []Target{{Name: "switch", Address: "10.0.0.5"}})
	if err := reg.Add(Target{Name: "switch", Address: "10.0.0.6"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := reg.Add(Target{Name: "wiiu", Address: "not-an-ip"}); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
	if err := reg.Add(Target{Name: "wiiu", Address: "::1"}); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected IPv6 to be rejected, got %v", err)
	}
	if err := reg.Add(Target{Name: "  ", Address: "10.0.0.8"}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected rejected adds to leave registry untouched")
	}
}

func TestAddKeepsNameOrder(t *testing.T) {
	reg := New("", nil)
	for _, name := range []string{"wiiu", "3ds", "switch"} {
		if err := reg.Add(Target{Name: name, Address: "10.0.0.1"}); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}
	names := reg.Names()
	want := []string{"3ds", "switch", "wiiu"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestRemove(t *testing.T) {
	reg := New("", []Target{{Name: "switch", Address: "10.0.0.5"}, {Name: "3ds", Address: "10.0.0.7"}})
	if err := reg.Remove("switch"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := reg.Find("switch"); ok {
		t.Fatalf("expected switch to be gone")
	}
	err := reg.Remove("swtch")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAtBounds(t *testing.T) {
	reg := New("", []Target{{Name: "switch", Address: "10.0.0.5"}})
	if _, ok := reg.At(-1); ok {
		t.Fatalf("expected negative index to miss")
	}
	if _, ok := reg.At(1); ok {
		t.Fatalf("expected index past end to miss")
	}
	if got, ok := reg.At(0); !ok || got.Name != "switch" {
		t.Fatalf("unexpected At(0) result %+v %v", got, ok)
	}
}

func TestResolveNameOrAddress(t *testing.T) {
	reg := New("", []Target{{Name: "switch", Address: "10.0.0.5"}})
	got, err := reg.Resolve("switch")
	if err != nil || got.Address != "10.0.0.5" {
		t.Fatalf("resolve by name: %+v %v", got, err)
	}
	got, err = reg.Resolve("192.168.1.20")
	if err != nil {
		t.Fatalf("resolve by address: %v", err)
	}
	if got.Name != "192.168.1.20" || got.Address != "192.168.1.20" {
		t.Fatalf("unexpected literal target %+v", got)
	}
	_, err = reg.Resolve("swich")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), `did you mean "switch"`) {
		t.Fatalf("expected suggestion in %q", err.Error())
	}
}

func TestSuggestNothingClose(t *testing.T) {
	reg := New("", []Target{{Name: "switch", Address: "10.0.0.5"}})
	if got := reg.Suggest("zzz"); got != "" {
		t.Fatalf("expected no suggestion, got %q", got)
	}
	if got := New("", nil).Suggest("switch"); got != "" {
		t.Fatalf("expected no suggestion from empty registry, got %q", got)
	}
}

func TestEndpointUsesPort(t *testing.T) {
	target := Target{Name: "switch", Address: "10.0.0.5"}
	ep, err := target.Endpoint(0)
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	if ep.String() != "10.0.0.5:8000" {
		t.Fatalf("expected default port, got %s", ep)
	}
	ep, _ = target.Endpoint(9000)
	if ep.Port() != 9000 {
		t.Fatalf("expected port 9000, got %d", ep.Port())
	}
	if _, err := (Target{Address: "nope"}).Endpoint(0); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestNewKeepsCallerOrderAndSetTargetsSorts(t *testing.T) {
	reg := New("", []Target{{Name: "switch", Address: "10.0.0.5"}, {Name: "3ds", Address: "10.0.0.6"}})
	if got := reg.Names(); got[0] != "switch" || got[1] != "3ds" {
		t.Fatalf("expected caller order, got %v", got)
	}
	reg.SetTargets(reg.Targets())
	if got := reg.Names(); got[0] != "3ds" || got[1] != "switch" {
		t.Fatalf("expected sorted order after SetTargets, got %v", got)
	}
}
