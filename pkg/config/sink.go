// pkg/config/sink.go
package config

import (
	"errors"
	"fmt"
	"time"
)

// Sink driver names
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SinkConfig selects and configures the relational store the cleaned
// datasets are written to. The default is a local SQLite file.
type SinkConfig struct {
	Driver string

	// SQLite
	SQLitePath string

	// PostgreSQL, only read when Driver is "postgres"
	Postgres *PostgresConfig
}

// PostgresConfig holds PostgreSQL connection parameters
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// Statement timeout
	StatementTimeout time.Duration
}

// LoadSinkConfig loads sink configuration from environment variables
func LoadSinkConfig() (*SinkConfig, error) {
	cfg := &SinkConfig{
		Driver:     getEnv("SINK_DRIVER", DriverSQLite),
		SQLitePath: getEnv("SQLITE_PATH", "friskvard_data_cleaned.db"),
	}

	if cfg.Driver == DriverPostgres {
		pgConfig, err := loadPostgresConfig()
		if err != nil {
			return nil, err
		}
		cfg.Postgres = pgConfig
	}

	return cfg, nil
}

// Validate ensures the sink configuration is usable
func (c *SinkConfig) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite database path is required")
		}
	case DriverPostgres:
		if c.Postgres == nil {
			return errors.New("postgres configuration is required")
		}
	default:
		return fmt.Errorf("unknown sink driver: %s", c.Driver)
	}
	return nil
}

// loadPostgresConfig loads PostgreSQL configuration from environment variables
func loadPostgresConfig() (*PostgresConfig, error) {
	user := getEnv("POSTGRES_USER", "")
	if user == "" {
		return nil, errors.New("POSTGRES_USER environment variable is required")
	}

	password := getEnv("POSTGRES_PASSWORD", "")
	if password == "" {
		return nil, errors.New("POSTGRES_PASSWORD environment variable is required")
	}

	database := getEnv("POSTGRES_DB", "")
	if database == "" {
		return nil, errors.New("POSTGRES_DB environment variable is required")
	}

	cfg := &PostgresConfig{
		Host:     getEnv("POSTGRES_HOST", "localhost"),
		Port:     getEnvAsInt("POSTGRES_PORT", 5432),
		User:     user,
		Password: password,
		Database: database,
		SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxOpenConns:     getEnvAsInt("POSTGRES_MAX_OPEN_CONNS", 25),
		MaxIdleConns:     getEnvAsInt("POSTGRES_MAX_IDLE_CONNS", 10),
		ConnMaxLifetime:  time.Duration(getEnvAsInt("POSTGRES_CONN_MAX_LIFETIME_SECONDS", 1800)) * time.Second,
		ConnMaxIdleTime:  time.Duration(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_TIME_SECONDS", 600)) * time.Second,
		StatementTimeout: time.Duration(getEnvAsInt("POSTGRES_STATEMENT_TIMEOUT_SECONDS", 300)) * time.Second,
	}

	return cfg, nil
}

// ConnectionString returns a formatted PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Database,
		c.SSLMode,
	)
}
