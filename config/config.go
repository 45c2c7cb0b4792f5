// Package config loads kaoyan settings from a TOML file, a .env file and the
// process environment.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/kaoyan"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverJSON   = "json"
)

// Environment variables that override the file.
const (
	EnvGeminiAPIKey = "KAOYAN_GEMINI_API_KEY"
	EnvZhipuAPIKey  = "KAOYAN_ZHIPU_API_KEY"
	EnvProvider     = "KAOYAN_PROVIDER"
	EnvDataDir      = "KAOYAN_DATA_DIR"
)

// Config is the full set of user settings.
type Config struct {
	// Provider overrides the stored provider preference when set.
	Provider string   `toml:"provider"`
	Timeout  Duration `toml:"timeout"`

	Gemini  ProviderSettings `toml:"gemini"`
	Zhipu   ProviderSettings `toml:"zhipu"`
	Storage Storage          `toml:"storage"`
	Log     Log              `toml:"log"`
}

// ProviderSettings configures one LLM backend.
type ProviderSettings struct {
	APIKey  Credential `toml:"api_key"`
	Model   string     `toml:"model"`
	BaseURL string     `toml:"base_url"`
}

// Storage selects the Store implementation.
type Storage struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
}

// Log configures the logger.
type Log struct {
	Debug bool `toml:"debug"`
	JSON  bool `toml:"json"`
	// File, when set, also receives every record as JSON.
	File string `toml:"file"`
}

// Credential is a base64-encoded API key.
type Credential string

// EncodeCredential obfuscates a plain key.
func EncodeCredential(key string) Credential {
	return Credential(base64.StdEncoding.EncodeToString([]byte(key)))
}

// Key decodes the credential. A missing or undecodable credential is an
// ErrConfig.
func (c Credential) Key() (string, error) {
	if strings.TrimSpace(string(c)) == "" {
		return "", fmt.Errorf("api key is not set: %w", kaoyan.ErrConfig)
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(c)))
	if err != nil {
		return "", fmt.Errorf("api key is not valid base64: %w", kaoyan.ErrConfig)
	}
	key := strings.TrimSpace(string(b))
	if key == "" {
		return "", fmt.Errorf("api key is empty: %w", kaoyan.ErrConfig)
	}
	return key, nil
}

// Duration is a time.Duration written as a string such as "30s".
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
	return []byte(d.Duration.String()), nil
}

// DefaultPath returns ~/.config/kaoyan/config.toml for home.
func DefaultPath(home string) string {
	return filepath.Join(home, ".config", "kaoyan", "config.toml")
}

// DefaultDataDir returns ~/.local/share/kaoyan for home.
func DefaultDataDir(home string) string {
	return filepath.Join(home, ".local", "share", "kaoyan")
}

// Default returns the settings used when no file is present.
func Default(dataDir string) Config {
	return Config{
		Timeout: Duration{kaoyan.DefaultTimeout},
		Storage: Storage{Driver: DriverSQLite, Path: filepath.Join(dataDir, "kaoyan.db")},
	}
}

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// Load reads path over the defaults, then applies environment overrides from
// lookup. A missing file is not an error.
func Load(path, dataDir string, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	if dir, ok := lookup(EnvDataDir); ok && dir != "" {
		dataDir = dir
	}
	cfg := Default(dataDir)

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config %s: %w: %w", path, kaoyan.ErrConfig, err)
		}
	}

	if v, ok := lookup(EnvGeminiAPIKey); ok && v != "" {
		cfg.Gemini.APIKey = EncodeCredential(v)
	}
	if v, ok := lookup(EnvZhipuAPIKey); ok && v != "" {
		cfg.Zhipu.APIKey = EncodeCredential(v)
	}
	if v, ok := lookup(EnvProvider); ok && v != "" {
		cfg.Provider = v
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = Default(dataDir).Storage.Path
	}
	if cfg.Storage.Driver == DriverJSON && filepath.Ext(cfg.Storage.Path) == ".db" {
		cfg.Storage.Path = strings.TrimSuffix(cfg.Storage.Path, ".db") + ".json"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values that the file format cannot.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverJSON:
	default:
		return fmt.Errorf("storage driver %q must be %q or %q: %w", c.Storage.Driver, DriverSQLite, DriverJSON, kaoyan.ErrConfig)
	}
	if c.Timeout.Duration < 0 {
		return fmt.Errorf("timeout must be non-negative: %w", kaoyan.ErrConfig)
	}
	if c.Provider != "" {
		if _, err := kaoyan.ParseProviderName(c.Provider); err != nil {
			return fmt.Errorf("provider: %w: %w", kaoyan.ErrConfig, err)
		}
	}
	return nil
}

// Settings returns the section for name.
func (c Config) Settings(name kaoyan.ProviderName) ProviderSettings {
	if name == kaoyan.ProviderGemini {
		return c.Gemini
	}
	return c.Zhipu
}

// ReadDotEnv reads the first of paths that exists. Missing files are skipped.
func ReadDotEnv(paths ...string) (map[string]string, error) {
	for _, p := range paths {
		env, err := godotenv.Read(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		return env, nil
	}
	return map[string]string{}, nil
}

// MapLookup adapts a map to a LookupFunc.
func MapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// Chain returns a LookupFunc that consults lookups in order.
func Chain(lookups ...LookupFunc) LookupFunc {
	return func(key string) (string, bool) {
		for _, l := range lookups {
			if v, ok := l(key); ok {
				return v, true
			}
		}
		return "", false
	}
}
