// Package config loads the server and CLI configuration from an optional YAML
// file and ROUTESCOPE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultConfigName = "routescope"
	EnvPrefix         = "ROUTESCOPE"
)

// Config is the complete routescope configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Cors     CorsConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
	Events   EventsConfig   `mapstructure:"events"`
	Topology TopologyConfig `mapstructure:"topology"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Address returns the host:port the server listens on.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type CorsConfig struct {
	AllowedOrigin string `mapstructure:"allowedOrigin"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EventsConfig configures the parse-failure notification channel. An empty
// NatsURL disables publishing.
type EventsConfig struct {
	NatsURL string `mapstructure:"natsUrl"`
	Topic   string `mapstructure:"topic"`
}

type TopologyConfig struct {
	InternalComponents []string `mapstructure:"internalComponents"`
	FileSuffixes       []string `mapstructure:"fileSuffixes"`
	ShowGroups         bool     `mapstructure:"showGroups"`
}

var camelCaseEnv = map[string]string{
	"cors.allowedOrigin":          EnvPrefix + "_CORS_ALLOWED_ORIGIN",
	"events.natsUrl":              EnvPrefix + "_EVENTS_NATS_URL",
	"topology.internalComponents": EnvPrefix + "_TOPOLOGY_INTERNAL_COMPONENTS",
	"topology.fileSuffixes":       EnvPrefix + "_TOPOLOGY_FILE_SUFFIXES",
	"topology.showGroups":         EnvPrefix + "_TOPOLOGY_SHOW_GROUPS",
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "",
			Port: 8080,
		},
		Cors: CorsConfig{
			AllowedOrigin: "*",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Events: EventsConfig{
			Topic: "routescope.topology.parse_failed",
		},
		Topology: TopologyConfig{
			InternalComponents: []string{"direct", "seda", "vm", "disruptor"},
			FileSuffixes:       []string{".camel.yaml", ".camel.yml"},
			ShowGroups:         false,
		},
	}
}

// Load reads configuration. With an empty path it looks for routescope.yaml in
// the working directory and falls back to defaults when there is none; an
// explicit path must exist. Environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// camelCase keys would otherwise map to ROUTESCOPE_CORS_ALLOWEDORIGIN
	for key, env := range camelCaseEnv {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("cors.allowedOrigin", cfg.Cors.AllowedOrigin)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("events.natsUrl", cfg.Events.NatsURL)
	v.SetDefault("events.topic", cfg.Events.Topic)
	v.SetDefault("topology.internalComponents", cfg.Topology.InternalComponents)
	v.SetDefault("topology.fileSuffixes", cfg.Topology.FileSuffixes)
	v.SetDefault("topology.showGroups", cfg.Topology.ShowGroups)
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "must be between 1 and 65535"}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return &ConfigError{Field: "log.format", Message: "must be console or json"}
	}
	if c.Events.NatsURL != "" && c.Events.Topic == "" {
		return &ConfigError{Field: "events.topic", Message: "required when events.natsUrl is set"}
	}
	if len(c.Topology.FileSuffixes) == 0 {
		return &ConfigError{Field: "topology.fileSuffixes", Message: "at least one suffix is required"}
	}
	for _, s := range c.Topology.FileSuffixes {
		if s == "" {
			return &ConfigError{Field: "topology.fileSuffixes", Message: "suffixes must not be empty"}
		}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
