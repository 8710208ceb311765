// Package registry persists the saved debug targets in a TOML file and keeps
// them ordered by name for the picker and the CLI.
package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lovebrew/nestdbg/internal/logging/events"
)

// DefaultPort is the TCP port the target's debug server listens on.
const DefaultPort uint16 = 8000

const (
	appDir   = "nestdbg"
	fileName = "config.toml"
)

var (
	ErrNotFound       = errors.New("unknown connection")
	ErrDuplicate      = errors.New("connection already exists")
	ErrInvalidAddress = errors.New("invalid IPv4 address")
	ErrInvalidName    = errors.New("connection name must not be empty")
)

// Target is one saved name/address pair.
type Target struct {
	Name    string `toml:"name"`
	Address string `toml:"address"`
}

// Endpoint returns the dialable address of the target on port.
func (t Target) Endpoint(port uint16) (netip.AddrPort, error) {
	addr, err := ParseAddress(t.Address)
	if err != nil {
		return netip.AddrPort{}, err
	}
	if port == 0 {
		port = DefaultPort
	}
	return netip.AddrPortFrom(addr, port), nil
}

// ParseAddress accepts IPv4 literals only.
func ParseAddress(raw string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil || !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%w: %q", ErrInvalidAddress, raw)
	}
	return addr, nil
}

type document struct {
	Connections []Target `toml:"connections"`
}

// Registry is the in-memory view of the saved targets. It is not safe for
// concurrent use; the UI and CLI each own their copy.
type Registry struct {
	path    string
	targets []Target
}

// DefaultPath returns the platform config location of the registry file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// New builds a registry over targets without touching disk. The caller's
// order is kept; only Load, SetTargets and Add sort.
func New(path string, targets []Target) *Registry {
	return &Registry{path: path, targets: cleanTargets(targets)}
}

// Load reads the registry at path. A missing file yields an empty registry.
func Load(path string) (*Registry, error) {
	r := &Registry{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		events.Registry.Load(path, 0)
		return r, nil
	}
	if err != nil {
		return r, fmt.Errorf("read registry: %w", err)
	}
	var doc document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return r, fmt.Errorf("parse %s: %w", path, err)
	}
	r.SetTargets(doc.Connections)
	events.Registry.Load(path, len(r.targets))
	return r, nil
}

// Save writes the registry back to its path, creating parent directories.
// The file is replaced through a rename so watchers never see a torn write.
func (r *Registry) Save() error {
	if r.path == "" {
		return errors.New("registry has no path")
	}
	var buf bytes.Buffer
	doc := document{Connections: r.Targets()}
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+fileName+".*")
	if err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("save registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	events.Registry.Save(r.path, len(r.targets))
	return nil
}

// Path returns the file backing the registry.
func (r *Registry) Path() string {
	return r.path
}

// SetTargets replaces the whole list, dropping blank entries and sorting by name.
func (r *Registry) SetTargets(targets []Target) {
	cleaned := cleanTargets(targets)
	sortTargets(cleaned)
	r.targets = cleaned
}

func cleanTargets(targets []Target) []Target {
	cleaned := make([]Target, 0, len(targets))
	for _, t := range targets {
		t.Name = strings.TrimSpace(t.Name)
		t.Address = strings.TrimSpace(t.Address)
		if t.Name == "" || t.Address == "" {
			continue
		}
		cleaned = append(cleaned, t)
	}
	return cleaned
}

// Add inserts a new target. Names are unique and addresses must be IPv4.
func (r *Registry) Add(t Target) error {
	t.Name = strings.TrimSpace(t.Name)
	t.Address = strings.TrimSpace(t.Address)
	if t.Name == "" {
		return ErrInvalidName
	}
	if _, err := ParseAddress(t.Address); err != nil {
		return err
	}
	if _, ok := r.Find(t.Name); ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, t.Name)
	}
	r.targets = append(r.targets, t)
	sortTargets(r.targets)
	events.Registry.Add(t.Name, t.Address)
	return nil
}

// Remove deletes the named target.
func (r *Registry) Remove(name string) error {
	name = strings.TrimSpace(name)
	for i, t := range r.targets {
		if t.Name == name {
			r.targets = append(r.targets[:i], r.targets[i+1:]...)
			events.Registry.Remove(name)
			return nil
		}
	}
	return r.notFound(name)
}

// Find looks a target up by exact name.
func (r *Registry) Find(name string) (Target, bool) {
	for _, t := range r.targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

// At returns the target at index i.
func (r *Registry) At(i int) (Target, bool) {
	if i < 0 || i >= len(r.targets) {
		return Target{}, false
	}
	return r.targets[i], true
}

func (r *Registry) Len() int {
	return len(r.targets)
}

// Targets returns a copy of the list.
func (r *Registry) Targets() []Target {
	out := make([]Target, len(r.targets))
	copy(out, r.targets)
	return out
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.targets))
	for i, t := range r.targets {
		names[i] = t.Name
	}
	return names
}

// Resolve maps a saved name or a bare IPv4 literal to a target.
func (r *Registry) Resolve(nameOrAddress string) (Target, error) {
	key := strings.TrimSpace(nameOrAddress)
	if t, ok := r.Find(key); ok {
		return t, nil
	}
	if addr, err := ParseAddress(key); err == nil {
		return Target{Name: addr.String(), Address: addr.String()}, nil
	}
	return Target{}, r.notFound(key)
}

func (r *Registry) notFound(name string) error {
	if suggestion := r.Suggest(name); suggestion != "" {
		return fmt.Errorf("%w %q (did you mean %q?)", ErrNotFound, name, suggestion)
	}
	return fmt.Errorf("%w %q", ErrNotFound, name)
}

func sortTargets(targets []Target) {
	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].Name < targets[j].Name
	})
}
