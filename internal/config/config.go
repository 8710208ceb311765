package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lovebrew/nestdbg/internal/app"
	"github.com/lovebrew/nestdbg/internal/registry"
	"github.com/lovebrew/nestdbg/internal/session"
	"github.com/spf13/pflag"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfig       = "NESTDBG_CONFIG"
	envPort         = "NESTDBG_PORT"
	envDialTimeout  = "NESTDBG_DIAL_TIMEOUT"
	envWriteTimeout = "NESTDBG_WRITE_TIMEOUT"
	envPollInterval = "NESTDBG_POLL_INTERVAL"
	envLogFile      = "NESTDBG_LOG_FILE"
	envTrace        = "NESTDBG_TRACE"
)

const (
	defaultPollInterval = 100 * time.Millisecond
	maxPollInterval     = time.Second
	defaultLogFile      = "nestdbg.log"
)

// Binding ties the global flags to a flag set so a command tree can register
// them once and read the parsed values later.
type Binding struct {
	registryPath *string
	port         *uint16
	dialTimeout  *time.Duration
	writeTimeout *time.Duration
	pollInterval *time.Duration
	logFile      *string
	trace        *bool
}

// RegisterFlags adds the global flags to fs. Environment variables supply the
// defaults so an explicit flag always wins.
func RegisterFlags(fs *pflag.FlagSet, environ []string) *Binding {
	env := parseEnv(environ)
	return &Binding{
		registryPath: fs.String("config", envOrDefault(env, envConfig, defaultRegistryPath()), "path to the saved connections file"),
		port:         fs.Uint16("port", envOrUint16(env, envPort, registry.DefaultPort), "TCP port of the target's debug server"),
		dialTimeout:  fs.Duration("dial-timeout", envOrDuration(env, envDialTimeout, session.DefaultDialTimeout), "give up on a connection attempt after this long"),
		writeTimeout: fs.Duration("write-timeout", envOrDuration(env, envWriteTimeout, session.DefaultWriteTimeout), "how long a stalled target may hold queued input before the link fails"),
		pollInterval: fs.Duration("poll-interval", envOrDuration(env, envPollInterval, defaultPollInterval), "how often the UI polls the connection and redraws"),
		logFile:      fs.String("log-file", envOrDefault(env, envLogFile, defaultLogFile), "path to the log file"),
		trace:        fs.BoolP("trace", "t", envOrBool(env, envTrace, false), "enable verbose JSON trace logging"),
	}
}

// Config assembles the parsed flag values. args is recorded for tracing only.
func (b *Binding) Config(args []string) Config {
	return Config{
		App: app.Config{
			RegistryPath: *b.registryPath,
			Port:         *b.port,
			DialTimeout:  *b.dialTimeout,
			WriteTimeout: *b.writeTimeout,
			PollInterval: *b.pollInterval,
		},
		Logging: Logging{
			FilePath: *b.logFile,
			Trace:    *b.trace,
		},
		Args: append([]string(nil), args...),
	}
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("nestdbg", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	binding := RegisterFlags(fs, environ)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return binding.Config(args), nil
}

func defaultRegistryPath() string {
	path, err := registry.DefaultPath()
	if err != nil {
		return ""
	}
	return path
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func envOrUint16(env map[string]string, key string, fallback uint16) uint16 {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 16)
	if err != nil {
		return fallback
	}
	return uint16(parsed)
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err == nil {
		err = Validate(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects values the session engine cannot run with.
func Validate(cfg Config) error {
	var errs []error
	if strings.TrimSpace(cfg.App.RegistryPath) == "" {
		errs = append(errs, fmt.Errorf("no config path: set --config or %s", envConfig))
	}
	if cfg.App.Port == 0 {
		errs = append(errs, errors.New("port must be between 1 and 65535"))
	}
	if cfg.App.DialTimeout <= 0 {
		errs = append(errs, fmt.Errorf("dial-timeout must be positive (got %s)", cfg.App.DialTimeout))
	}
	if cfg.App.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("write-timeout must be positive (got %s)", cfg.App.WriteTimeout))
	}
	if cfg.App.PollInterval <= 0 || cfg.App.PollInterval > maxPollInterval {
		errs = append(errs, fmt.Errorf("poll-interval must be in (0, %s] (got %s)", maxPollInterval, cfg.App.PollInterval))
	}
	return errors.Join(errs...)
}
