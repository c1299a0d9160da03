package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"server"`

	Kafka struct {
		Enabled    bool   `yaml:"enabled"`
		BrokerAddr string `yaml:"broker_addr"`
		Topic      string `yaml:"topic"`
	} `yaml:"kafka"`

	Otel struct {
		Enabled  bool   `yaml:"enabled"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"otel"`

	Feed struct {
		File string `yaml:"file"`
	} `yaml:"feed"`
}

// Default configuration values
var (
	configFile = flag.String("config", "", "Path to config file (YAML)")
	logLevel   = flag.String("log_level", "info", "Log level: debug, info, warn, error")
	logFormat  = flag.String("log_format", "pretty", "Log format: json, pretty")
	feedFile   = flag.String("feed", "", "Path to order feed file (YAML); empty runs the built-in sequence")
)

// LoadConfig loads the configuration from command line flags and optionally
// from a config file
func LoadConfig() (*Config, error) {
	flag.Parse()

	config := &Config{}
	config.Server.LogLevel = *logLevel
	config.Server.LogFormat = *logFormat
	config.Kafka.BrokerAddr = "localhost:9092"
	config.Kafka.Topic = "limitbook-events"
	config.Otel.Endpoint = "localhost:4317"
	config.Feed.File = *feedFile

	if *configFile != "" {
		if err := mergeFile(config, *configFile); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// mergeFile overlays values from a YAML file onto the config
func mergeFile(config *Config, path string) error {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}
