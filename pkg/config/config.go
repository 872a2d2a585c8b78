// Package config loads the optional YAML settings file shared by the
// binaries. Command line flags and environment variables take precedence
// over values read from the file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDatabaseURL = "file://./data"
	DefaultPort        = 9091
	DefaultEventBus    = "gochannel"
	DefaultLogLevel    = "info"
)

var ErrInvalidPort = errors.New("port must be between 1 and 65535")

type Config struct {
	DatabaseURL  string   `yaml:"database_url"`
	Port         int      `yaml:"port"`
	EventBus     string   `yaml:"event_bus"`
	KafkaBrokers []string `yaml:"kafka_brokers"`
	OtelEnabled  bool     `yaml:"otel_enabled"`
	LogLevel     string   `yaml:"log_level"`
}

func Default() Config {
	return Config{
		DatabaseURL: DefaultDatabaseURL,
		Port:        DefaultPort,
		EventBus:    DefaultEventBus,
		LogLevel:    DefaultLogLevel,
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}

	return nil
}
