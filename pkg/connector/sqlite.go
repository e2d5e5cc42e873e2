// pkg/connector/sqlite.go
package connector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/friskvard/wellness-etl/pkg/config"
)

// SQLiteConnector implements the DatabaseConnector interface for a local
// SQLite database file, the default destination of the batch job.
type SQLiteConnector struct {
	db     *sqlx.DB
	logger *zap.Logger
	path   string
}

// NewSQLiteConnector creates and initializes a new SQLite connector
func NewSQLiteConnector(ctx context.Context, cfg *config.SinkConfig) (*SQLiteConnector, error) {
	logger := zap.L().Named("sqlite-connector")

	logger.Info("Opening SQLite database", zap.String("path", cfg.SQLitePath))

	db, err := sqlx.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite connection: %w", err)
	}

	// SQLite serializes writers; a single connection avoids lock errors
	db.SetMaxOpenConns(1)

	if err := PingWithTimeout(ctx, db, 5*time.Second); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	return &SQLiteConnector{
		db:     db,
		logger: logger,
		path:   cfg.SQLitePath,
	}, nil
}

// DB returns the underlying database handle
func (c *SQLiteConnector) DB() *sqlx.DB {
	return c.db
}

// Driver returns the sqlx driver name
func (c *SQLiteConnector) Driver() string {
	return "sqlite"
}

// Path returns the database file path
func (c *SQLiteConnector) Path() string {
	return c.path
}

// Validate verifies the SQLite connection is writable
func (c *SQLiteConnector) Validate() error {
	var version string
	if err := c.db.QueryRow("SELECT sqlite_version()").Scan(&version); err != nil {
		return fmt.Errorf("failed to query SQLite version: %w", err)
	}
	c.logger.Info("Connected to SQLite", zap.String("version", version))

	if _, err := c.db.Exec("CREATE TABLE IF NOT EXISTS _permission_check (id INTEGER); DROP TABLE _permission_check"); err != nil {
		return fmt.Errorf("permission validation failed: %w", err)
	}

	return nil
}

// Close closes the database connection
func (c *SQLiteConnector) Close() error {
	c.logger.Info("Closing SQLite database", zap.String("path", c.path))
	return c.db.Close()
}

// ExecWithTimeout executes a statement with a timeout
func (c *SQLiteConnector) ExecWithTimeout(
	ctx context.Context,
	query string,
	timeout time.Duration,
	args ...any,
) (sql.Result, error) {
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.ExecContext(execCtx, query, args...)
}

// QueryWithTimeout executes a query with a timeout
func (c *SQLiteConnector) QueryWithTimeout(
	ctx context.Context,
	query string,
	timeout time.Duration,
	args ...any,
) (*sqlx.Rows, error) {
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.db.QueryxContext(queryCtx, query, args...)
}

// TableColumns lists the column names of a table in definition order
func (c *SQLiteConnector) TableColumns(ctx context.Context, table string) ([]string, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := c.db.QueryxContext(queryCtx,
		"SELECT name FROM pragma_table_info(?) ORDER BY cid", table)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}
