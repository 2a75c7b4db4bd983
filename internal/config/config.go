package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type TelemetryConfig struct {
	LogLevel     string `yaml:"log_level"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	OTLPInsecure bool   `yaml:"otlp_insecure"`
}

type HTTPConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type BusConfig struct {
	Embedded       bool     `yaml:"embedded"`
	Port           int      `yaml:"port"`
	StoreDir       string   `yaml:"store_dir"`
	Servers        []string `yaml:"servers"`
	Username       string   `yaml:"username"`
	Password       string   `yaml:"password"`
	Token          string   `yaml:"token"`
	TLSInsecure    bool     `yaml:"tls_insecure"`
	ConnectTimeout int      `yaml:"connect_timeout_ms"`
}

type SpeechConfig struct {
	Enabled         bool   `yaml:"enabled"`
	DefaultPreset   string `yaml:"default_preset"`
	ChunkDurationMS int    `yaml:"chunk_duration_ms"`
	MaxTextLen      int    `yaml:"max_text_len"`
}

type LineCacheConfig struct {
	Path          string `yaml:"path"`
	RetentionMode string `yaml:"retention_mode"` // ephemeral or persistent
	MaxLines      int    `yaml:"max_lines"`
	MaxAgeDays    int    `yaml:"max_age_days"`
	VacuumOnStart bool   `yaml:"vacuum_on_start"`
}

type PlaybackConfig struct {
	Command string `yaml:"command"`
}

type Config struct {
	RuntimeName string          `yaml:"runtime_name"`
	Environment string          `yaml:"environment"`
	HTTP        HTTPConfig      `yaml:"http"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
	Bus         BusConfig       `yaml:"bus"`
	Speech      SpeechConfig    `yaml:"speech"`
	LineCache   LineCacheConfig `yaml:"line_cache"`
	Playback    PlaybackConfig  `yaml:"playback"`
}

func Default() Config {
	return Config{
		RuntimeName: "vox-runtime",
		Environment: "development",
		HTTP: HTTPConfig{
			Bind: "0.0.0.0",
			Port: 8080,
		},
		Telemetry: TelemetryConfig{
			LogLevel:     "info",
			OTLPEndpoint: "",
			OTLPInsecure: true,
		},
		Bus: BusConfig{
			Embedded:       true,
			Port:           4222,
			StoreDir:       "./data/nats",
			Servers:        []string{"nats://localhost:4222"},
			ConnectTimeout: 2000,
		},
		Speech: SpeechConfig{
			Enabled:         true,
			DefaultPreset:   "neutral_npc",
			ChunkDurationMS: 400,
			MaxTextLen:      2000,
		},
		LineCache: LineCacheConfig{
			Path:          "./data/vox-lines.db",
			RetentionMode: "persistent",
			MaxLines:      5000,
			MaxAgeDays:    30,
		},
		Playback: PlaybackConfig{
			Command: "",
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.RuntimeName, "VOX_RUNTIME_NAME")
	overrideString(&cfg.Environment, "VOX_RUNTIME_ENVIRONMENT")
	overrideString(&cfg.HTTP.Bind, "VOX_HTTP_BIND")
	overrideInt(&cfg.HTTP.Port, "VOX_HTTP_PORT")
	overrideString(&cfg.Telemetry.LogLevel, "VOX_TELEMETRY_LOG_LEVEL")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "VOX_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "VOX_TELEMETRY_OTLP_INSECURE")
	overrideBool(&cfg.Bus.Embedded, "VOX_BUS_EMBEDDED")
	overrideInt(&cfg.Bus.Port, "VOX_BUS_PORT")
	overrideString(&cfg.Bus.StoreDir, "VOX_BUS_STORE_DIR")
	overrideStringSlice(&cfg.Bus.Servers, "VOX_BUS_SERVERS")
	overrideString(&cfg.Bus.Username, "VOX_BUS_USERNAME")
	overrideString(&cfg.Bus.Password, "VOX_BUS_PASSWORD")
	overrideString(&cfg.Bus.Token, "VOX_BUS_TOKEN")
	overrideBool(&cfg.Bus.TLSInsecure, "VOX_BUS_TLS_INSECURE")
	overrideInt(&cfg.Bus.ConnectTimeout, "VOX_BUS_CONNECT_TIMEOUT_MS")
	overrideBool(&cfg.Speech.Enabled, "VOX_SPEECH_ENABLED")
	overrideString(&cfg.Speech.DefaultPreset, "VOX_SPEECH_DEFAULT_PRESET")
	overrideInt(&cfg.Speech.ChunkDurationMS, "VOX_SPEECH_CHUNK_DURATION_MS")
	overrideInt(&cfg.Speech.MaxTextLen, "VOX_SPEECH_MAX_TEXT_LEN")
	overrideString(&cfg.LineCache.Path, "VOX_LINE_CACHE_PATH")
	overrideString(&cfg.LineCache.RetentionMode, "VOX_LINE_CACHE_RETENTION_MODE")
	overrideInt(&cfg.LineCache.MaxLines, "VOX_LINE_CACHE_MAX_LINES")
	overrideInt(&cfg.LineCache.MaxAgeDays, "VOX_LINE_CACHE_MAX_AGE_DAYS")
	overrideBool(&cfg.LineCache.VacuumOnStart, "VOX_LINE_CACHE_VACUUM_ON_START")
	overrideString(&cfg.Playback.Command, "VOX_PLAYBACK_COMMAND")
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func overrideStringSlice(dst *[]string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			*dst = out
		}
	}
}

func overrideInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

func overrideBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*dst = b
		}
	}
}

func validate(cfg Config) error {
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return errors.New("http port out of range")
	}
	if len(cfg.Bus.Servers) == 0 {
		return errors.New("at least one bus server is required")
	}
	if cfg.Speech.ChunkDurationMS <= 0 {
		return errors.New("speech chunk duration must be positive")
	}
	switch cfg.LineCache.RetentionMode {
	case "ephemeral", "persistent":
	default:
		return fmt.Errorf("unknown line cache retention mode %q", cfg.LineCache.RetentionMode)
	}
	return nil
}
