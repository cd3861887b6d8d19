package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSetDefaults(t *testing.T) {
	c := &Config{}
	c.SetDefaults()
	if c.Tail.PollInterval != 5*time.Second {
		t.Fatalf("expected 5s poll interval, got %s", c.Tail.PollInterval)
	}
	if !c.IdleRefreshEnabled() {
		t.Fatalf("expected idle refresh on by default")
	}
	if c.Display.Color != "auto" {
		t.Fatalf("expected auto color")
	}
	if c.Log.Level != "info" {
		t.Fatalf("expected info level")
	}
	if c.Archive.Path == "" {
		t.Fatalf("expected archive path")
	}
}

func TestLoadFromYAML(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := filepath.Join(tmp, "config.yaml")
	body := "tail:\n  poll_interval: 250ms\n  idle_refresh: false\ndisplay:\n  color: never\n  since: \"2015-12-01\"\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tail.PollInterval != 250*time.Millisecond {
		t.Fatalf("unexpected poll interval %s", cfg.Tail.PollInterval)
	}
	if cfg.IdleRefreshEnabled() {
		t.Fatalf("expected idle refresh disabled")
	}
	if cfg.Display.Color != "never" {
		t.Fatalf("unexpected color %s", cfg.Display.Color)
	}
	since, err := cfg.SinceTime()
	if err != nil {
		t.Fatal(err)
	}
	if since.Year() != 2015 || since.Month() != time.December || since.Day() != 1 {
		t.Fatalf("unexpected since %s", since)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tail.PollInterval != 5*time.Second {
		t.Fatalf("expected defaults, got %s", cfg.Tail.PollInterval)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("YULELOG_POLL_INTERVAL", "2s")
	t.Setenv("YULELOG_COLOR", "always")
	t.Setenv("YULELOG_IDLE_REFRESH", "false")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Tail.PollInterval != 2*time.Second {
		t.Fatalf("env poll interval not applied: %s", cfg.Tail.PollInterval)
	}
	if cfg.Display.Color != "always" {
		t.Fatalf("env color not applied: %s", cfg.Display.Color)
	}
	if cfg.IdleRefreshEnabled() {
		t.Fatalf("env idle refresh not applied")
	}
}

func TestValidate(t *testing.T) {
	c := &Config{}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	c.Display.Since = "12/01/2015"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected since validation error")
	}
	c.Display.Since = ""
	c.Display.Color = "rainbow"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected color validation error")
	}
}
