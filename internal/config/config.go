package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Probe ProbeConfig
	UI    UIConfig
	Sound SoundConfig
	Log   LogConfig
}

// ProbeConfig holds measurement settings.
type ProbeConfig struct {
	Server          string // name of the server to probe
	Servers         []Server
	Count           int // probes per measurement
	IntervalSeconds int `mapstructure:"interval_seconds"`
	TimeoutSeconds  int `mapstructure:"timeout_seconds"`
	Aggregate       string
}

// Server is one byte-count endpoint the prober can hit.
type Server struct {
	Name string
	URL  string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	HistorySize int `mapstructure:"history_size"`
}

// SoundConfig holds tier sound settings.
type SoundConfig struct {
	Enabled bool
	Dir     string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
	Path  string
}

// Load reads configuration from file and env. Env var overrides use prefix NETBUDDY_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("probe.server", "cloudflare")
	v.SetDefault("probe.servers", []map[string]any{
		{"name": "cloudflare", "url": "https://speed.cloudflare.com/__down?bytes=10000000"},
		{"name": "hetzner", "url": "https://speed.hetzner.de/10MB.bin"},
	})
	v.SetDefault("probe.count", 3)
	v.SetDefault("probe.interval_seconds", 30)
	v.SetDefault("probe.timeout_seconds", 15)
	v.SetDefault("probe.aggregate", "median")
	v.SetDefault("ui.history_size", 10)
	v.SetDefault("sound.enabled", true)
	v.SetDefault("sound.dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "netbuddy", "sounds"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "state", "netbuddy", "netbuddy.log"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("NETBUDDY_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "netbuddy"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("NETBUDDY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.Probe.Count < 1 {
		return fmt.Errorf("probe.count must be at least 1, got %d", c.Probe.Count)
	}
	if c.Probe.IntervalSeconds < 1 {
		return fmt.Errorf("probe.interval_seconds must be at least 1, got %d", c.Probe.IntervalSeconds)
	}
	if c.UI.HistorySize < 1 {
		return fmt.Errorf("ui.history_size must be at least 1, got %d", c.UI.HistorySize)
	}
	return nil
}

// ResolveServer returns the configured server matching name
// (case-insensitive). On a miss the error suggests the closest
// configured name when one is plausibly a typo.
func (c Config) ResolveServer(name string) (Server, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return Server{}, fmt.Errorf("no probe server configured")
	}
	for _, s := range c.Probe.Servers {
		if strings.ToLower(s.Name) == want {
			return s, nil
		}
	}

	best, bestDist := "", -1
	for _, s := range c.Probe.Servers {
		d := levenshtein.ComputeDistance(want, strings.ToLower(s.Name))
		if bestDist == -1 || d < bestDist {
			best, bestDist = s.Name, d
		}
	}
	if best != "" && bestDist <= len(want)/2 {
		return Server{}, fmt.Errorf("unknown probe server %q (did you mean %q?)", name, best)
	}
	return Server{}, fmt.Errorf("unknown probe server %q", name)
}

// Save writes the provided config to disk, creating the config directory
// if needed. Used by the TUI for the mute toggle and similar preferences.
func Save(cfg Config) error {
	path := os.Getenv("NETBUDDY_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "netbuddy", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("probe.server", cfg.Probe.Server)
	servers := make([]map[string]any, len(cfg.Probe.Servers))
	for i, s := range cfg.Probe.Servers {
		servers[i] = map[string]any{"name": s.Name, "url": s.URL}
	}
	v.Set("probe.servers", servers)
	v.Set("probe.count", cfg.Probe.Count)
	v.Set("probe.interval_seconds", cfg.Probe.IntervalSeconds)
	v.Set("probe.timeout_seconds", cfg.Probe.TimeoutSeconds)
	v.Set("probe.aggregate", cfg.Probe.Aggregate)
	v.Set("ui.history_size", cfg.UI.HistorySize)
	v.Set("sound.enabled", cfg.Sound.Enabled)
	v.Set("sound.dir", cfg.Sound.Dir)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
