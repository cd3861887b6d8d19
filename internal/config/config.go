package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultConfigRelPath  = ".yulelog/config.yaml"
	defaultArchiveRelPath = ".yulelog/archive.db"

	// SinceLayout is the format of the display.since cutoff.
	SinceLayout = "2006-01-02"
)

type TailConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	IdleRefresh  *bool         `yaml:"idle_refresh"`
}

type DisplayConfig struct {
	Color string `yaml:"color"`
	Since string `yaml:"since"`
}

type SanitizeConfig struct {
	QueryParams []string `yaml:"query_params"`
	Client      bool     `yaml:"client"`
	Replacement string   `yaml:"replacement"`
}

type ArchiveConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Tail     TailConfig     `yaml:"tail"`
	Display  DisplayConfig  `yaml:"display"`
	Sanitize SanitizeConfig `yaml:"sanitize"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Log      LogConfig      `yaml:"log"`
}

// Load loads YAML config, then applies env overrides.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		configPath = filepath.Join(home, defaultConfigRelPath)
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.SetDefaults()
	return cfg, nil
}

func (c *Config) SetDefaults() {
	if c.Tail.PollInterval == 0 {
		c.Tail.PollInterval = 5 * time.Second
	}
	if c.Tail.IdleRefresh == nil {
		on := true
		c.Tail.IdleRefresh = &on
	}
	if c.Display.Color == "" {
		c.Display.Color = "auto"
	}
	if len(c.Sanitize.QueryParams) == 0 {
		c.Sanitize.QueryParams = []string{"token", "api_key", "access_token", "ssn"}
	}
	if c.Sanitize.Replacement == "" {
		c.Sanitize.Replacement = "***REDACTED***"
	}
	if c.Archive.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Archive.Path = filepath.Join(home, defaultArchiveRelPath)
		} else {
			c.Archive.Path = "yulelog.db"
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// IdleRefreshEnabled reports whether empty poll passes still trigger a redraw.
func (c *Config) IdleRefreshEnabled() bool {
	return c.Tail.IdleRefresh == nil || *c.Tail.IdleRefresh
}

func (c *Config) Validate() error {
	if c.Tail.PollInterval <= 0 {
		return errors.New("tail.poll_interval must be positive")
	}
	switch c.Display.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("display.color must be auto, always or never, got %q", c.Display.Color)
	}
	if _, err := c.SinceTime(); err != nil {
		return err
	}
	return nil
}

// SinceTime parses display.since. An empty value yields the zero time.
func (c *Config) SinceTime() (time.Time, error) {
	s := strings.TrimSpace(c.Display.Since)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(SinceLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("display.since must be YYYY-MM-DD: %w", err)
	}
	return t, nil
}

// ValidateArchive enforces archive-specific requirements.
func (c *Config) ValidateArchive() error {
	if strings.TrimSpace(c.Archive.Path) == "" {
		return errors.New("archive.path cannot be empty")
	}
	return os.MkdirAll(filepath.Dir(c.Archive.Path), 0o755)
}

func applyEnvOverrides(c *Config) {
	setDuration(&c.Tail.PollInterval, "YULELOG_POLL_INTERVAL")
	setBool(&c.Tail.IdleRefresh, "YULELOG_IDLE_REFRESH")
	setString(&c.Display.Color, "YULELOG_COLOR")
	setString(&c.Display.Since, "YULELOG_SINCE")
	setString(&c.Archive.Path, "YULELOG_ARCHIVE_PATH")
	setString(&c.Log.Level, "YULELOG_LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func setBool(dst **bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = &b
		}
	}
}
