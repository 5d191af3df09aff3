// Package config resolves process settings from defaults, an optional .env
// file, the environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/decred/slog"
	"github.com/joho/godotenv"
)

// Defaults
const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"
	DefaultMsgRate  = 120.0
	DefaultMsgBurst = 240
	DefaultEnvFile  = ".env"
)

// Config is the resolved process configuration.
type Config struct {
	Port           string
	LogLevel       slog.Level
	FogOfWar       bool
	MsgRate        float64 // Inbound messages per second per connection, 0 = unlimited
	MsgBurst       int
	AllowedOrigins []string
	EnvFile        string
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Load builds a Config. args are the command-line arguments without the
// program name. A missing .env file is not an error.
func Load(args []string) (Config, error) {
	envFile := envFileFromArgs(args)
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Config{EnvFile: envFile}
	var (
		logLevel string
		origins  string
		err      error
	)

	cfg.Port = envString("PORT", DefaultPort)
	logLevel = envString("LOG_LEVEL", DefaultLogLevel)
	origins = envString("ALLOWED_ORIGINS", "")
	if cfg.FogOfWar, err = envBool("FOG_OF_WAR", false); err != nil {
		return Config{}, err
	}
	if cfg.MsgRate, err = envFloat("MAX_MSG_RATE", DefaultMsgRate); err != nil {
		return Config{}, err
	}
	if cfg.MsgBurst, err = envInt("MAX_MSG_BURST", DefaultMsgBurst); err != nil {
		return Config{}, err
	}

	fset := flag.NewFlagSet("outland", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	fset.StringVar(&cfg.Port, "port", cfg.Port, "Server port")
	fset.StringVar(&logLevel, "loglevel", logLevel, "Log level: trace, debug, info, warn, error, critical, off")
	fset.BoolVar(&cfg.FogOfWar, "fog", cfg.FogOfWar, "Only send each client the entities in its own world")
	fset.Float64Var(&cfg.MsgRate, "msgrate", cfg.MsgRate, "Inbound messages per second per connection (0 = unlimited)")
	fset.IntVar(&cfg.MsgBurst, "msgburst", cfg.MsgBurst, "Inbound message burst per connection")
	fset.StringVar(&origins, "origins", origins, "Comma-separated extra allowed WebSocket origins")
	fset.String("envfile", envFile, "Path to an optional .env file")
	if err := fset.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	level, ok := slog.LevelFromString(logLevel)
	if !ok {
		return Config{}, fmt.Errorf("invalid log level %q", logLevel)
	}
	cfg.LogLevel = level
	cfg.AllowedOrigins = splitList(origins)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 0 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.MsgRate < 0 {
		return fmt.Errorf("message rate must not be negative, got %v", c.MsgRate)
	}
	if c.MsgBurst < 1 {
		return fmt.Errorf("message burst must be at least 1, got %d", c.MsgBurst)
	}
	return nil
}

// envFileFromArgs finds -envfile before the flag set is parsed, since the
// file has to be loaded before the environment defaults are read.
func envFileFromArgs(args []string) string {
	for i, a := range args {
		name := strings.TrimLeft(a, "-")
		if name == a {
			continue
		}
		if v, ok := strings.CutPrefix(name, "envfile="); ok {
			return v
		}
		if name == "envfile" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("ENV_FILE"); v != "" {
		return v
	}
	return DefaultEnvFile
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func envFloat(key string, def float64) (float64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

func envInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
