package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-faster/errors"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds shelf's runtime settings.
type Config struct {
	APIURL         string
	DataDir        string
	LogLevel       string
	PerPage        int
	RequestTimeout time.Duration
}

const (
	defaultConfigPath     = "~/.config/shelf/config.toml"
	defaultDataDir        = "~/.local/share/shelf"
	defaultAPIURL         = "https://dummyjson.com"
	defaultLogLevel       = "info"
	defaultPerPage        = 12
	defaultRequestTimeout = 10 * time.Second
)

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		DataDir:        mustExpand(defaultDataDir),
		LogLevel:       defaultLogLevel,
		PerPage:        defaultPerPage,
		RequestTimeout: defaultRequestTimeout,
	}
}

// fileConfig mirrors config.toml.
type fileConfig struct {
	APIURL         string `toml:"api_url"`
	DataDir        string `toml:"data_dir"`
	LogLevel       string `toml:"log_level"`
	PerPage        int    `toml:"per_page"`
	RequestTimeout string `toml:"request_timeout"`
}

// envConfig lists the environment overrides. Unset variables leave the
// file values alone.
type envConfig struct {
	APIURL         string        `env:"SHELF_API_URL"`
	DataDir        string        `env:"SHELF_DATA_DIR"`
	LogLevel       string        `env:"SHELF_LOG_LEVEL"`
	PerPage        int           `env:"SHELF_PER_PAGE"`
	RequestTimeout time.Duration `env:"SHELF_REQUEST_TIMEOUT"`
}

// Load reads the config file at path (the default location when empty),
// applies environment overrides and fills in defaults. A missing file is
// not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyFile(raw); err != nil {
		return Config{}, err
	}

	var overrides envConfig
	if err := env.Parse(&overrides); err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}
	cfg.applyEnv(overrides)

	cfg.DataDir = mustExpand(cfg.DataDir)
	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var raw fileConfig
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return raw, nil
		}
		return raw, errors.Wrap(err, "open config")
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return raw, errors.Wrap(err, "read config")
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return raw, errors.Wrap(err, "parse config")
	}
	return raw, nil
}

func (c *Config) applyFile(raw fileConfig) error {
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		c.DataDir = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if raw.PerPage > 0 {
		c.PerPage = raw.PerPage
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "parse request_timeout %q", v)
		}
		if d > 0 {
			c.RequestTimeout = d
		}
	}
	return nil
}

func (c *Config) applyEnv(o envConfig) {
	if v := strings.TrimSpace(o.APIURL); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(o.DataDir); v != "" {
		c.DataDir = v
	}
	if v := strings.TrimSpace(o.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if o.PerPage > 0 {
		c.PerPage = o.PerPage
	}
	if o.RequestTimeout > 0 {
		c.RequestTimeout = o.RequestTimeout
	}
}

// LogPath returns the path of shelf's own log file.
func (c Config) LogPath() string {
	return filepath.Join(c.dataDir(), "shelf.log")
}

// DBPath returns the path of the local state database.
func (c Config) DBPath() string {
	return filepath.Join(c.dataDir(), "shelf.db")
}

func (c Config) dataDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir)
	}
	return c.DataDir
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home dir")
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
