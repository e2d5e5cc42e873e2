// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
)

// Config represents the application configuration
type Config struct {
	// Input files
	MainCSV       string
	ValidationCSV string

	// Destination
	Sink  *SinkConfig
	Table string

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables, falling
// back to the fixed literal defaults of the batch job.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		MainCSV:       getEnv("MAIN_CSV", "friskvard_data.csv"),
		ValidationCSV: getEnv("VALIDATION_CSV", "friskvard_validation.csv"),
		Table:         getEnv("TABLE_NAME", "friskvard_data"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
	}

	sinkConfig, err := LoadSinkConfig()
	if err != nil {
		return nil, errors.New("failed to load sink configuration: " + err.Error())
	}
	cfg.Sink = sinkConfig

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.MainCSV == "" {
		return errors.New("main input file path is required")
	}

	if c.ValidationCSV == "" {
		return errors.New("validation input file path is required")
	}

	if c.Table == "" {
		return errors.New("destination table name is required")
	}

	if c.Sink == nil {
		return errors.New("sink configuration is required")
	}

	return c.Sink.Validate()
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
