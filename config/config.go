// Package config resolves runtime settings from file, environment and defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/clipdeck/input"
	"github.com/lixenwraith/clipdeck/store"
)

// EnvPrefix for overrides, e.g. CLIPDECK_BACKEND=sqlite
const EnvPrefix = "CLIPDECK"

// Limits enforced by Validate
const (
	MinSimInterval = 100 * time.Millisecond
	MaxSimInterval = time.Hour
)

// Config is the resolved runtime configuration
type Config struct {
	DataDir     string            `mapstructure:"data_dir"`
	Backend     string            `mapstructure:"backend"`
	Volume      float64           `mapstructure:"volume"`
	SimInterval time.Duration     `mapstructure:"sim_interval"`
	Debug       bool              `mapstructure:"debug"`
	LogDir      string            `mapstructure:"log_dir"`
	Headless    bool              `mapstructure:"headless"`
	Keys        map[string]string `mapstructure:"-"`

	// File is the config file that was read, empty when running on defaults
	File string `mapstructure:"-"`
}

// fileView is the on-disk YAML shape; durations are written as strings
type fileView struct {
	DataDir     string            `yaml:"data_dir"`
	Backend     string            `yaml:"backend"`
	Volume      float64           `yaml:"volume"`
	SimInterval string            `yaml:"sim_interval"`
	Debug       bool              `yaml:"debug"`
	LogDir      string            `yaml:"log_dir,omitempty"`
	Headless    bool              `yaml:"headless,omitempty"`
	Keys        map[string]string `yaml:"keys,omitempty"`
}

// DefaultDir is the per-user configuration directory
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".clipdeck"
	}
	return filepath.Join(dir, "clipdeck")
}

// DefaultPath is where Load looks when no path is given
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DataDir:     DefaultDir(),
		Backend:     store.BackendFile,
		Volume:      1.0,
		SimInterval: 1500 * time.Millisecond,
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("volume", d.Volume)
	v.SetDefault("sim_interval", d.SimInterval)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_dir", "")
	v.SetDefault("headless", false)
}

// Load reads path, or DefaultPath when path is empty
// A missing default file is not an error; a missing explicit file is
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.Is(err, os.ErrNotExist) || errors.As(err, &notFound)
		if explicit || !missing {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if used := v.ConfigFileUsed(); used != "" {
		if _, err := os.Stat(used); err == nil {
			cfg.File = used
			// Viper lowercases map keys, which would fold 'D' into 'd'
			keys, err := readKeys(used)
			if err != nil {
				return nil, err
			}
			cfg.Keys = keys
		}
	}

	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.LogDir = expandHome(cfg.LogDir)
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.DataDir, "logs")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readKeys(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var raw struct {
		Keys map[string]string `yaml:"keys"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse keys in %s: %w", path, err)
	}
	return raw.Keys, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// Validate reports every invalid field at once
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, errors.New("data_dir: must not be empty"))
	}
	switch c.Backend {
	case store.BackendFile, store.BackendSQLite, store.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("backend: %q is not one of file, sqlite, memory", c.Backend))
	}
	if c.Volume < 0 || c.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume: %v is outside [0, 1]", c.Volume))
	}
	if c.SimInterval < MinSimInterval || c.SimInterval > MaxSimInterval {
		errs = append(errs, fmt.Errorf("sim_interval: %v is outside [%v, %v]", c.SimInterval, MinSimInterval, MaxSimInterval))
	}
	if _, err := input.LoadKeyConfig(c.Keys); err != nil {
		errs = append(errs, fmt.Errorf("keys: %w", err))
	}
	return errors.Join(errs...)
}

// KeyTable merges the key overrides onto the default bindings
func (c *Config) KeyTable() (*input.KeyTable, error) {
	override, err := input.LoadKeyConfig(c.Keys)
	if err != nil {
		return nil, err
	}
	return input.MergeKeyTable(input.DefaultKeyTable(), override), nil
}

// MediaDir holds imported clips
func (c *Config) MediaDir() string {
	return filepath.Join(c.DataDir, "media")
}

// Marshal renders c as YAML in the on-disk shape
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(fileView{
		DataDir:     c.DataDir,
		Backend:     c.Backend,
		Volume:      c.Volume,
		SimInterval: c.SimInterval.String(),
		Debug:       c.Debug,
		LogDir:      c.LogDir,
		Headless:    c.Headless,
		Keys:        c.Keys,
	})
}

// WriteDefault writes the built-in configuration to path
// An existing file is kept unless force is set
func WriteDefault(path string, force bool) error {
	data, err := Default().Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
		}
		return fmt.Errorf("write config: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	return f.Close()
}
