// Package config loads ontoforge settings.
//
// Settings come from three layers, lowest priority first: built-in
// defaults, a TOML file, and ONTOFORGE_* environment variables. The file
// lives at $XDG_CONFIG_HOME/ontoforge/config.toml unless a path is given;
// a missing default file is not an error.
//
//	data_dir = "~/.local/share/ontoforge"
//	author = "Ada"
//	log_level = "info"
//
//	[storage]
//	backend = "sqlite"
//
//	[editor]
//	text_format = "yaml"
//	debounce = "300ms"
//
//	[server]
//	listen = ":8080"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/ontoforge/pkg/debounce"
	"github.com/matzehuels/ontoforge/pkg/dualview"
	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/storage"
)

const (
	appName  = "ontoforge"
	fileName = "config.toml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "ONTOFORGE_"
)

// Config is the complete set of settings.
type Config struct {
	DataDir  string `toml:"data_dir" validate:"required"`
	Author   string `toml:"author"`
	LogLevel string `toml:"log_level" validate:"oneof=debug info warn error"`

	Storage Storage `toml:"storage"`
	Editor  Editor  `toml:"editor"`
	Server  Server  `toml:"server"`
}

// Storage selects the workspace backend.
type Storage struct {
	Backend       string `toml:"backend" validate:"oneof=file sqlite redis mongo"`
	RedisURL      string `toml:"redis_url" validate:"required_if=Backend redis"`
	RedisPrefix   string `toml:"redis_prefix"`
	MongoURI      string `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	MongoDatabase string `toml:"mongo_database"`
}

// Editor holds interactive editing settings.
type Editor struct {
	TextFormat string   `toml:"text_format" validate:"oneof=json yaml toml"`
	Debounce   Duration `toml:"debounce"`
}

// Server holds HTTP adapter settings.
type Server struct {
	Listen string `toml:"listen" validate:"required"`
}

// Duration is a time.Duration that reads from TOML strings like "300ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DataDir:  defaultDataDir(),
		LogLevel: "info",
		Storage: Storage{
			Backend:       storage.BackendFile,
			RedisPrefix:   "ontoforge:",
			MongoDatabase: appName,
		},
		Editor: Editor{
			TextFormat: dualview.FormatJSON,
			Debounce:   Duration{debounce.DefaultDelay},
		},
		Server: Server{Listen: "127.0.0.1:8080"},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, fileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fileName
	}
	return filepath.Join(home, ".config", appName, fileName)
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, ".local", "share", appName)
}

// Load reads settings from path (or [DefaultPath] when empty), applies
// environment overrides and validates the result. A missing file is an
// error only when path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read config %s", path)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	cfg.DataDir = expandHome(cfg.DataDir)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"DATA_DIR":       &c.DataDir,
		"AUTHOR":         &c.Author,
		"LOG_LEVEL":      &c.LogLevel,
		"STORAGE":        &c.Storage.Backend,
		"REDIS_URL":      &c.Storage.RedisURL,
		"REDIS_PREFIX":   &c.Storage.RedisPrefix,
		"MONGO_URI":      &c.Storage.MongoURI,
		"MONGO_DATABASE": &c.Storage.MongoDatabase,
		"TEXT_FORMAT":    &c.Editor.TextFormat,
		"LISTEN":         &c.Server.Listen,
	}
	for key, dst := range str {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	if v, ok := lookup(EnvPrefix + "DEBOUNCE"); ok {
		if err := c.Editor.Debounce.UnmarshalText([]byte(v)); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "%sDEBOUNCE", EnvPrefix)
		}
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every setting.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s: failed %q (got %q)", fe.Namespace(), fe.Tag(), fmt.Sprint(fe.Value()))
			}
			return errs.New(errs.ErrCodeInvalidInput, "invalid config: %s", strings.Join(msgs, "; "))
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid config")
	}
	if c.Editor.Debounce.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "invalid config: debounce must not be negative")
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// StorageOptions maps the settings onto [storage.Open] options.
func (c Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:       c.Storage.Backend,
		Dir:           c.DataDir,
		RedisURL:      c.Storage.RedisURL,
		RedisPrefix:   c.Storage.RedisPrefix,
		MongoURI:      c.Storage.MongoURI,
		MongoDatabase: c.Storage.MongoDatabase,
	}
}

// Write saves c as TOML to path, creating parent directories.
func (c Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}
