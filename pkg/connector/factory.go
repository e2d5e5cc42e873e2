// pkg/connector/factory.go
package connector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/friskvard/wellness-etl/pkg/config"
)

// NewConnector creates the sink connector selected by the configuration
func NewConnector(ctx context.Context, cfg *config.SinkConfig, logger *zap.Logger) (DatabaseConnector, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		logger.Info("Creating SQLite connector")
		conn, err := NewSQLiteConnector(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite connector: %w", err)
		}
		return conn, nil

	case config.DriverPostgres:
		logger.Info("Creating PostgreSQL connector")
		conn, err := NewPostgresConnector(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connector: %w", err)
		}
		return conn, nil

	default:
		return nil, fmt.Errorf("unknown sink driver: %s", cfg.Driver)
	}
}
