package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"

	"github.com/mmr-tortoise/wpsite/internal/model"
)

// Environment variables that override the config file.
const (
	EnvConfig      = "WPSITE_CONFIG"
	EnvSitesDir    = "WPSITE_SITES_DIR"
	EnvTemplateDir = "WPSITE_TEMPLATE_DIR"
	EnvLogLevel    = "WPSITE_LOG_LEVEL"
	EnvDockerHost  = "WPSITE_DOCKER_HOST"
)

// Config is the wpsite configuration: built-in defaults, then the config
// file, then WPSITE_* environment variables.
type Config struct {
	Paths  PathsConfig  `toml:"paths" json:"paths"`
	Log    LogConfig    `toml:"log" json:"log"`
	Docker DockerConfig `toml:"docker" json:"docker"`

	// Source is the config file that was read, empty if none was.
	Source string `toml:"-" json:"-"`
}

// PathsConfig locates the sites root and the site template.
type PathsConfig struct {
	// SitesDir holds one directory per site.
	SitesDir string `toml:"sites_dir" json:"sites_dir"`

	// TemplateDir is copied into every new site. Empty selects the
	// template built into the binary.
	TemplateDir string `toml:"template_dir" json:"template_dir"`
}

// LogConfig controls the logrus logger set up by the CLI.
type LogConfig struct {
	// Level is a logrus level name (debug, info, warn, error).
	Level string `toml:"level" json:"level"`
}

// DockerConfig controls the read-only container status probe used by list
// and info. Nothing in wpsite starts or stops containers.
type DockerConfig struct {
	// Host overrides Docker socket detection, e.g. "unix:///run/docker.sock".
	Host string `toml:"host" json:"host"`

	// DisableStatus skips the container status probe in list and info.
	DisableStatus bool `toml:"disable_status" json:"disable_status"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Paths: PathsConfig{
			SitesDir: filepath.Join(home, ".wpsite", "sites"),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the config file read when none is given:
// <user config dir>/wpsite/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wpsite", "config.toml")
}

// Load builds the configuration in layers: built-in defaults, then the
// config file, then WPSITE_* environment variables. Command-line flags are
// applied on top by the caller.
//
// path selects the config file. When empty, WPSITE_CONFIG is used, then
// DefaultPath; a missing default file is not an error, but a missing file
// that was asked for is. Files ending in .json or .jsonc are read as JSON
// with comments, anything else as TOML.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if v, ok := lookup(EnvConfig); ok && v != "" {
			path, explicit = v, true
		} else {
			path = DefaultPath()
		}
	}

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	cfg.ApplyEnv(lookup)
	cfg.Paths.SitesDir = ExpandHome(cfg.Paths.SitesDir)
	cfg.Paths.TemplateDir = ExpandHome(cfg.Paths.TemplateDir)
	return cfg, nil
}

// readFile decodes the file at path over c.
func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, model.ClassifyFSError(err))
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), c); err != nil {
			return fmt.Errorf("%w: config: parse %s: %v", model.ErrInvalidArgument, path, err)
		}
	default:
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("%w: config: parse %s: %v", model.ErrInvalidArgument, path, err)
		}
	}

	c.Source = path
	return nil
}

// ApplyEnv overrides c with the WPSITE_* variables that are set and
// non-empty.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(EnvSitesDir, &c.Paths.SitesDir)
	set(EnvTemplateDir, &c.Paths.TemplateDir)
	set(EnvLogLevel, &c.Log.Level)
	set(EnvDockerHost, &c.Docker.Host)
}

// ExpandHome replaces a leading "~/" in path with the user's home
// directory. Shells expand "~" only when it is unquoted, and a config file
// never does, so paths from either source go through here.
func ExpandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
