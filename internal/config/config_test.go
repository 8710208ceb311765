package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{"NESTDBG_CONFIG=/tmp/nestdbg/config.toml"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != 8000 {
		t.Fatalf("expected port 8000, got %d", cfg.App.Port)
	}
	if cfg.App.DialTimeout != 5*time.Second || cfg.App.WriteTimeout != 5*time.Second {
		t.Fatalf("unexpected timeouts %s / %s", cfg.App.DialTimeout, cfg.App.WriteTimeout)
	}
	if cfg.App.PollInterval != 100*time.Millisecond {
		t.Fatalf("unexpected poll interval %s", cfg.App.PollInterval)
	}
	if cfg.Logging.FilePath != "nestdbg.log" || cfg.Logging.Trace {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadArgsEnvironmentFallbacks(t *testing.T) {
	env := []string{
		"NESTDBG_CONFIG=/srv/targets.toml",
		"NESTDBG_PORT=9001",
		"NESTDBG_DIAL_TIMEOUT=2s",
		"NESTDBG_POLL_INTERVAL=50ms",
		"NESTDBG_TRACE=true",
		"NESTDBG_LOG_FILE=/var/log/nestdbg.log",
		"MALFORMED",
	}
	cfg, err := LoadArgs(nil, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.RegistryPath != "/srv/targets.toml" || cfg.App.Port != 9001 {
		t.Fatalf("unexpected app config %+v", cfg.App)
	}
	if cfg.App.DialTimeout != 2*time.Second || cfg.App.PollInterval != 50*time.Millisecond {
		t.Fatalf("unexpected durations %+v", cfg.App)
	}
	if !cfg.Logging.Trace || cfg.Logging.FilePath != "/var/log/nestdbg.log" {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	args := []string{"--port", "7000", "--config", "/etc/nestdbg.toml", "-t"}
	cfg, err := LoadArgs(args, []string{"NESTDBG_PORT=9001", "NESTDBG_TRACE=false"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != 7000 || cfg.App.RegistryPath != "/etc/nestdbg.toml" || !cfg.Logging.Trace {
		t.Fatalf("flags did not win: %+v %+v", cfg.App, cfg.Logging)
	}
	if len(cfg.Args) != len(args) {
		t.Fatalf("expected args to be recorded, got %v", cfg.Args)
	}
}

func TestInvalidEnvironmentFallsBackToDefault(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{"NESTDBG_PORT=99999", "NESTDBG_DIAL_TIMEOUT=soon"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != 8000 || cfg.App.DialTimeout != 5*time.Second {
		t.Fatalf("expected defaults, got %+v", cfg.App)
	}
}

func TestUnknownFlagIsError(t *testing.T) {
	if _, err := LoadArgs([]string{"--socket", "x"}, nil); err == nil {
		t.Fatalf("expected unknown flag error")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := LoadArgs([]string{
		"--config", "/tmp/c.toml",
		"--port", "0",
		"--dial-timeout", "0s",
		"--poll-interval", "2s",
	}, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	err = Validate(cfg)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"port", "dial-timeout", "poll-interval"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %q", want, err.Error())
		}
	}
}
