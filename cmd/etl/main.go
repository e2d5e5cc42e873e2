// cmd/etl/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/friskvard/wellness-etl/pkg/cleaner"
	"github.com/friskvard/wellness-etl/pkg/config"
	"github.com/friskvard/wellness-etl/pkg/connector"
	"github.com/friskvard/wellness-etl/pkg/ingest"
	"github.com/friskvard/wellness-etl/pkg/loader"
	"github.com/friskvard/wellness-etl/pkg/model"
)

func main() {
	mainCSV := flag.String("main", "", "Main input CSV path (overrides MAIN_CSV)")
	validationCSV := flag.String("validation", "", "Validation input CSV path (overrides VALIDATION_CSV)")
	dbPath := flag.String("db", "", "SQLite database path (overrides SQLITE_PATH)")
	table := flag.String("table", "", "Destination table name (overrides TABLE_NAME)")
	flag.Parse()

	// A .env file is optional; environment variables win either way
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	if *mainCSV != "" {
		cfg.MainCSV = *mainCSV
	}
	if *validationCSV != "" {
		cfg.ValidationCSV = *validationCSV
	}
	if *dbPath != "" {
		cfg.Sink.SQLitePath = *dbPath
	}
	if *table != "" {
		cfg.Table = *table
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Pipeline failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	mainRaw, err := ingest.ReadCSV(cfg.MainCSV, logger)
	if err != nil {
		return err
	}
	validationRaw, err := ingest.ReadCSV(cfg.ValidationCSV, logger)
	if err != nil {
		return err
	}

	pipeline, err := cleaner.NewPipeline(logger)
	if err != nil {
		return err
	}

	mainClean, err := pipeline.Transform(mainRaw)
	if err != nil {
		return fmt.Errorf("failed to clean main dataset: %w", err)
	}
	reportTransform("main", mainRaw, mainClean)

	validationClean, err := pipeline.Transform(validationRaw)
	if err != nil {
		return fmt.Errorf("failed to clean validation dataset: %w", err)
	}
	reportTransform("validation", validationRaw, validationClean)

	conn, err := connector.NewConnector(ctx, cfg.Sink, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Warn("Failed to close sink connection", zap.Error(closeErr))
		}
	}()

	if err := conn.Validate(); err != nil {
		return err
	}

	ld, err := loader.NewLoader(conn, logger)
	if err != nil {
		return err
	}

	// Main first in replace mode, validation second in append mode.
	// Reversing this order would lose the main dataset.
	if err := ld.Load(ctx, mainClean, cfg.Table, loader.ModeReplace, model.OriginMain); err != nil {
		return fmt.Errorf("failed to load main dataset: %w", err)
	}
	if err := ld.Load(ctx, validationClean, cfg.Table, loader.ModeAppend, model.OriginValidation); err != nil {
		return fmt.Errorf("failed to load validation dataset: %w", err)
	}

	columns, err := ld.TableColumns(ctx, cfg.Table)
	if err != nil {
		return err
	}

	if cfg.Sink.Driver == config.DriverSQLite {
		fmt.Println("destination:", cfg.Sink.SQLitePath)
	} else {
		fmt.Println("destination:", cfg.Sink.Driver)
	}
	fmt.Println("table:", cfg.Table)
	fmt.Printf("columns (%d): %s\n", len(columns), strings.Join(columns, ", "))
	return nil
}

func reportTransform(name string, raw, clean *model.Dataset) {
	fmt.Printf("%s: %d rows x %d columns -> %d rows x %d columns\n",
		name, raw.NumRows(), raw.NumColumns(), clean.NumRows(), clean.NumColumns())
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.LogFormat == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
