package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the YAML application configuration. Database settings come from
// DB_* environment variables instead (see internal/dbconfig).
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Storage struct {
		// Driver selects the snapshot store: "postgres" or "memory".
		Driver string `yaml:"driver"`
	} `yaml:"storage"`

	Catalog struct {
		SeedFile string `yaml:"seed_file"`
	} `yaml:"catalog"`

	Events struct {
		NATSURL       string `yaml:"nats_url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"events"`

	Outbox struct {
		PollIntervalSec int   `yaml:"poll_interval_sec"`
		BatchSize       int32 `yaml:"batch_size"`
	} `yaml:"outbox"`
}

func loadConfig(path string) (*Config, error) {
	config := &Config{}
	config.Server.Port = getEnv("PORT", "8080")
	config.Storage.Driver = "memory"
	config.Events.SubjectPrefix = "warroom"
	config.Outbox.PollIntervalSec = 5
	config.Outbox.BatchSize = 100

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
