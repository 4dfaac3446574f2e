package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	espnclient "github.com/mcdev12/playoffpool/go/clients/espn_client"
	sleeperclient "github.com/mcdev12/playoffpool/go/clients/sleeper_client"
	"github.com/mcdev12/playoffpool/go/internal/draft"
	"github.com/mcdev12/playoffpool/go/internal/scoring"
)

// Config is the optional YAML file. Missing keys keep their defaults.
type Config struct {
	Draft   draft.Config         `yaml:"draft"`
	Scoring scoring.Rules        `yaml:"scoring"`
	ESPN    espnclient.Config    `yaml:"espn"`
	Sleeper sleeperclient.Config `yaml:"sleeper"`
}

func defaultConfig() Config {
	return Config{
		Draft:   draft.DefaultConfig(),
		Scoring: scoring.DefaultRules(),
		ESPN:    espnclient.DefaultConfig(),
		Sleeper: sleeperclient.DefaultConfig(),
	}
}

// loadConfig overlays the file at path on the defaults. A missing file is
// not an error.
func loadConfig(path string) (Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
