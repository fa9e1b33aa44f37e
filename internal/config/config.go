// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"firestige.xyz/strix/internal/log"
)

// StrixConfig is the top-level static configuration. The YAML file uses
// `strix:` as root key; env vars use the STRIX_ prefix (e.g. STRIX_LOGGER_LEVEL).
type StrixConfig struct {
	Logger  *log.LoggerConfig `yaml:"logger" mapstructure:"logger"`
	Inspect InspectConfig     `yaml:"inspect" mapstructure:"inspect"`
}

// InspectConfig controls the pcap replay front-end of the classifier.
type InspectConfig struct {
	// InPort is the ingress port number attributed to replayed frames; pcap
	// captures carry no switch port, so one is assigned.
	InPort uint32 `yaml:"in_port" mapstructure:"in_port"`
	// MaxPackets bounds a replay run; 0 means the whole file.
	MaxPackets int `yaml:"max_packets" mapstructure:"max_packets"`
}

type configRoot struct {
	Strix StrixConfig `yaml:"strix" mapstructure:"strix"`
}

// Load loads configuration from file with env-var overrides and defaults.
func Load(path string) (*StrixConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// The `strix.` key prefix maps to STRIX_ env vars through the replacer
	// (key "strix.logger.level" → env "STRIX_LOGGER_LEVEL").
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Strix

	if cfg.Logger == nil {
		cfg.Logger = log.DefaultConfig()
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *StrixConfig {
	return &StrixConfig{
		Logger:  log.DefaultConfig(),
		Inspect: InspectConfig{InPort: 1},
	}
}

// Dump renders the effective configuration as YAML.
func (c *StrixConfig) Dump() ([]byte, error) {
	return yaml.Marshal(configRoot{Strix: *c})
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("strix.inspect.in_port", 1)
	v.SetDefault("strix.inspect.max_packets", 0)
	v.SetDefault("strix.logger.level", "info")
	v.SetDefault("strix.logger.pattern", "%time [%level] %caller: %msg%n")
	v.SetDefault("strix.logger.time", "2006-01-02 15:04:05")
}
