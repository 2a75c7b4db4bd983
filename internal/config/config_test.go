package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.RuntimeName != "vox-runtime" {
		t.Fatalf("unexpected runtime name %q", cfg.RuntimeName)
	}
	if cfg.HTTP.Port != 8080 {
		t.Fatalf("unexpected http port %d", cfg.HTTP.Port)
	}
	if !cfg.Bus.Embedded || cfg.Bus.Port != 4222 {
		t.Fatalf("unexpected bus defaults: %+v", cfg.Bus)
	}
	if cfg.Speech.DefaultPreset != "neutral_npc" || cfg.Speech.ChunkDurationMS != 400 {
		t.Fatalf("unexpected speech defaults: %+v", cfg.Speech)
	}
	if cfg.LineCache.RetentionMode != "persistent" {
		t.Fatalf("unexpected retention mode %q", cfg.LineCache.RetentionMode)
	}
	if err := validate(cfg); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/vox.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vox.yaml")
	data := `
runtime_name: test-runtime
http:
  port: 9191
speech:
  default_preset: hostile_entity
  chunk_duration_ms: 250
line_cache:
  retention_mode: ephemeral
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RuntimeName != "test-runtime" {
		t.Fatalf("runtime name not overridden: %q", cfg.RuntimeName)
	}
	if cfg.HTTP.Port != 9191 {
		t.Fatalf("port not overridden: %d", cfg.HTTP.Port)
	}
	if cfg.Speech.DefaultPreset != "hostile_entity" || cfg.Speech.ChunkDurationMS != 250 {
		t.Fatalf("speech not overridden: %+v", cfg.Speech)
	}
	if cfg.LineCache.RetentionMode != "ephemeral" {
		t.Fatalf("retention not overridden: %q", cfg.LineCache.RetentionMode)
	}
	// untouched sections keep defaults
	if cfg.HTTP.Bind != "0.0.0.0" {
		t.Fatalf("bind lost its default: %q", cfg.HTTP.Bind)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("VOX_RUNTIME_NAME", "env-runtime")
	t.Setenv("VOX_HTTP_PORT", "7070")
	t.Setenv("VOX_BUS_EMBEDDED", "false")
	t.Setenv("VOX_BUS_SERVERS", "nats://a:4222, nats://b:4222")
	t.Setenv("VOX_SPEECH_DEFAULT_PRESET", "lost_child")
	t.Setenv("VOX_LINE_CACHE_MAX_LINES", "12")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RuntimeName != "env-runtime" {
		t.Fatalf("runtime name env override missed: %q", cfg.RuntimeName)
	}
	if cfg.HTTP.Port != 7070 {
		t.Fatalf("port env override missed: %d", cfg.HTTP.Port)
	}
	if cfg.Bus.Embedded {
		t.Fatal("embedded env override missed")
	}
	if len(cfg.Bus.Servers) != 2 || cfg.Bus.Servers[1] != "nats://b:4222" {
		t.Fatalf("servers env override missed: %v", cfg.Bus.Servers)
	}
	if cfg.Speech.DefaultPreset != "lost_child" {
		t.Fatalf("preset env override missed: %q", cfg.Speech.DefaultPreset)
	}
	if cfg.LineCache.MaxLines != 12 {
		t.Fatalf("max lines env override missed: %d", cfg.LineCache.MaxLines)
	}
}

func TestEnvOverrideIgnoresBadValues(t *testing.T) {
	t.Setenv("VOX_HTTP_PORT", "not-a-number")
	t.Setenv("VOX_SPEECH_ENABLED", "maybe")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Fatalf("bad int should keep default, got %d", cfg.HTTP.Port)
	}
	if !cfg.Speech.Enabled {
		t.Fatal("bad bool should keep default")
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.HTTP.Port = 0 },
		func(c *Config) { c.HTTP.Port = 70000 },
		func(c *Config) { c.Bus.Servers = nil },
		func(c *Config) { c.Speech.ChunkDurationMS = 0 },
		func(c *Config) { c.LineCache.RetentionMode = "forever" },
	}
	for i, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := validate(cfg); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
}
