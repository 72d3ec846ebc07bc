package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string        `yaml:"port"`         // "/dev/ttyUSB0", "COM3"
	Baud        int           `yaml:"baud"`         // 115200
	ReadTimeout time.Duration `yaml:"read_timeout"` // 0 blocks
	LogLevel    string        `yaml:"log_level"`    // logrus level name
	Wait        time.Duration `yaml:"wait"`         // how long to log acks after sending
}

func Defaults() *Config {
	return &Config{
		Port:        "/dev/ttyUSB0",
		Baud:        115200,
		ReadTimeout: 0,
		LogLevel:    "info",
		Wait:        2 * time.Second,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse yaml %s: %w", path, err)
	}

	if cfg.Baud <= 0 {
		return nil, fmt.Errorf("config %s: invalid baud %d", path, cfg.Baud)
	}
	return cfg, nil
}
