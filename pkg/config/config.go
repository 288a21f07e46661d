// Package config provides YAML-based configuration loading for lanemu.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"lanemu/pkg/link"
)

// Config is the root application configuration.
type Config struct {
	// AppName optional logical name of the emulator instance
	AppName string `mapstructure:"app_name"`

	// Log holds logging configuration
	Log LogConfig `mapstructure:"log"`

	// Nodes lists the endpoints to bring up on the shared medium
	Nodes []NodeConfig `mapstructure:"nodes"`

	// Capture controls the sqlite frame capture attached to the medium
	Capture CaptureConfig `mapstructure:"capture"`

	// Demo holds parameters of the demonstration exchange
	Demo DemoConfig `mapstructure:"demo"`
}

// NodeConfig describes one endpoint: its medium id and link-layer address.
type NodeConfig struct {
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
}

// CaptureConfig controls frame capture persistence.
type CaptureConfig struct {
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"`
}

// DemoConfig holds the scripted two-node exchange parameters. TravelTimeMS
// is an artificial pause simulating propagation; it carries no contract.
type DemoConfig struct {
	Message      string `mapstructure:"message"`
	Reply        string `mapstructure:"reply"`
	TravelTimeMS int    `mapstructure:"travel_time_ms"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: list of outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`

	// Rotation controls file rotation when writing to files
	Rotation RotationConfig `mapstructure:"rotation"`
	// Development toggles development-friendly logging options
	Development bool `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Default returns a Config populated with sensible defaults: two endpoints
// on the same medium and a short greeting exchange.
func Default() *Config {
	return &Config{
		AppName: "lanemu",
		Log: LogConfig{
			Level:       "info",
			Format:      "console",
			Outputs:     []string{"stdout"},
			Development: true,
			Rotation: RotationConfig{
				Enable:     false,
				Filename:   "logs/lanemu.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
		Nodes: []NodeConfig{
			{Name: "node-1", Address: "AA:BB:CC:DD:EE:01"},
			{Name: "node-2", Address: "AA:BB:CC:DD:EE:02"},
		},
		Capture: CaptureConfig{Enable: false, Path: "lanemu-capture.db"},
		Demo: DemoConfig{
			Message:      "Hello Node 2 from Node 1!",
			Reply:        "Hi Node 1! Got your message. Greetings from Node 2!",
			TravelTimeMS: 50,
		},
	}
}

// Load reads configuration from the provided path (if non-empty), otherwise
// it searches common locations and supports environment overrides.
// Environment variables use the prefix LANEMU and `.`/`-` are replaced
// with `_`. Example: LANEMU_LOG_LEVEL=debug
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LANEMU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults for viper so env-only configs work
	v.SetDefault("app_name", cfg.AppName)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)
	v.SetDefault("nodes", cfg.Nodes)
	v.SetDefault("capture.enable", cfg.Capture.Enable)
	v.SetDefault("capture.path", cfg.Capture.Path)
	v.SetDefault("demo.message", cfg.Demo.Message)
	v.SetDefault("demo.reply", cfg.Demo.Reply)
	v.SetDefault("demo.travel_time_ms", cfg.Demo.TravelTimeMS)

	// Choose config file
	if path == "" {
		if envPath := os.Getenv("LANEMU_CONFIG"); envPath != "" {
			path = envPath
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Search common locations with base name `lanemu`
		v.SetConfigName("lanemu")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".lanemu"))
		}
	}

	// Read config file if present; if not found, continue with defaults/env
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	lvl := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch lvl {
	case "debug", "info", "warn", "warning", "error":
		// ok
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}

	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stdout"}
	}

	if len(c.Nodes) < 2 {
		return fmt.Errorf("at least two nodes required, got %d", len(c.Nodes))
	}
	seen := make(map[string]bool, len(c.Nodes))
	for i, n := range c.Nodes {
		name := strings.TrimSpace(n.Name)
		if name == "" {
			return fmt.Errorf("nodes[%d]: empty name", i)
		}
		if seen[name] {
			return fmt.Errorf("nodes[%d]: duplicate name %q", i, name)
		}
		seen[name] = true
		if _, err := link.ParseAddress(n.Address); err != nil {
			return fmt.Errorf("nodes[%d] (%s): %w", i, name, err)
		}
	}

	if c.Capture.Enable && strings.TrimSpace(c.Capture.Path) == "" {
		return fmt.Errorf("capture.enable set but capture.path empty")
	}
	if c.Demo.TravelTimeMS < 0 {
		return fmt.Errorf("demo.travel_time_ms must be >= 0")
	}
	return nil
}

// MustLoad is a convenience that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}
