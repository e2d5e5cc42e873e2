// pkg/loader/loader.go
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/friskvard/wellness-etl/pkg/connector"
	"github.com/friskvard/wellness-etl/pkg/converter"
	"github.com/friskvard/wellness-etl/pkg/model"
)

// Mode selects how the destination table is written
type Mode string

const (
	// ModeReplace drops and recreates the table before writing
	ModeReplace Mode = "replace"

	// ModeAppend adds rows to the existing table; the schema must match
	ModeAppend Mode = "append"
)

// insertBatchSize keeps each statement under SQLite's parameter limit
const insertBatchSize = 50

// Loader persists cleaned datasets into the shared destination table,
// tagging every record with its origin label. Main and validation
// datasets share one table; the label column keeps them apart.
type Loader struct {
	conn   connector.DatabaseConnector
	conv   *converter.TypeConverter
	logger *zap.Logger
}

// NewLoader creates a Loader writing through the given connector
func NewLoader(conn connector.DatabaseConnector, logger *zap.Logger) (*Loader, error) {
	if conn == nil {
		return nil, errors.New("connector cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Loader{
		conn:   conn,
		conv:   converter.NewTypeConverter(conn.Driver(), logger),
		logger: logger,
	}, nil
}

// Load writes a cleaned dataset to the named table. The dataset is
// copied and tagged with the origin label; the input is not mutated.
// The main dataset must be loaded first in replace mode, validation
// second in append mode; reversing the order loses the main dataset.
func (l *Loader) Load(
	ctx context.Context,
	ds *model.Dataset,
	table string,
	mode Mode,
	originLabel string,
) error {
	if ds == nil {
		return errors.New("dataset cannot be nil")
	}
	if originLabel == "" {
		return errors.New("origin label cannot be empty")
	}

	tagged := ds.Clone()
	if err := tagged.AppendConstant(model.ColOrigin, originLabel); err != nil {
		return fmt.Errorf("failed to tag dataset origin: %w", err)
	}

	batchID := uuid.New().String()
	l.logger.Info("Loading dataset",
		zap.String("table", table),
		zap.String("mode", string(mode)),
		zap.String("origin", originLabel),
		zap.String("batch_id", batchID),
		zap.Int("rows", tagged.NumRows()))

	switch mode {
	case ModeReplace:
		if err := l.replaceTable(ctx, tagged, table); err != nil {
			return err
		}
	case ModeAppend:
		if err := l.verifyTableSchema(ctx, tagged, table); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown write mode: %s", mode)
	}

	if err := l.insertRows(ctx, tagged, table); err != nil {
		return err
	}

	if err := l.verifyRowCount(ctx, table, originLabel, tagged.NumRows()); err != nil {
		return err
	}

	l.logger.Info("Loaded dataset",
		zap.String("table", table),
		zap.String("origin", originLabel),
		zap.String("batch_id", batchID))
	return nil
}

// TableColumns lists the destination table's column names, for
// verification after loading.
func (l *Loader) TableColumns(ctx context.Context, table string) ([]string, error) {
	return l.conn.TableColumns(ctx, table)
}

// replaceTable drops and recreates the destination table from the
// dataset schema
func (l *Loader) replaceTable(ctx context.Context, ds *model.Dataset, table string) error {
	quoted := converter.QuoteIdentifier(table)

	if _, err := l.conn.ExecWithTimeout(ctx,
		fmt.Sprintf("DROP TABLE IF EXISTS %s", quoted), 30*time.Second); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}

	definitions, err := l.conv.ColumnDefinitions(ds)
	if err != nil {
		return err
	}

	createSQL := fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)",
		quoted, strings.Join(definitions, ",\n\t"))
	if _, err := l.conn.ExecWithTimeout(ctx, createSQL, 30*time.Second); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	l.logger.Info("Created table", zap.String("table", table))
	return nil
}

// verifyTableSchema ensures the existing table matches the dataset
// schema before appending
func (l *Loader) verifyTableSchema(ctx context.Context, ds *model.Dataset, table string) error {
	existing, err := l.conn.TableColumns(ctx, table)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return fmt.Errorf("cannot append to table %s: table does not exist", table)
	}

	want := ds.Columns()
	if len(existing) != len(want) {
		return fmt.Errorf("cannot append to table %s: has %d columns, dataset has %d",
			table, len(existing), len(want))
	}
	for i := range want {
		if existing[i] != want[i] {
			return fmt.Errorf("cannot append to table %s: column %d is %q, dataset has %q",
				table, i, existing[i], want[i])
		}
	}
	return nil
}

// insertRows writes all records in one transaction with batched
// multi-row inserts
func (l *Loader) insertRows(ctx context.Context, ds *model.Dataset, table string) (err error) {
	n := ds.NumRows()
	if n == 0 {
		return nil
	}

	names := ds.Columns()
	kinds := make([]model.Kind, len(names))
	for i, name := range names {
		col, colErr := ds.Column(name)
		if colErr != nil {
			return colErr
		}
		kinds[i] = col.Kind
	}

	quotedNames := make([]string, len(names))
	for i, name := range names {
		quotedNames[i] = converter.QuoteIdentifier(name)
	}
	columnStr := strings.Join(quotedNames, ", ")

	tx, err := l.conn.DB().BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				l.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.Error(err))
			}
		}
	}()

	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ") + ")"

	for start := 0; start < n; start += insertBatchSize {
		end := start + insertBatchSize
		if end > n {
			end = n
		}

		placeholders := make([]string, 0, end-start)
		args := make([]any, 0, (end-start)*len(names))
		for i := start; i < end; i++ {
			placeholders = append(placeholders, rowPlaceholder)
			row := ds.Row(i)
			for j, v := range row {
				dv, convErr := l.conv.DriverValue(kinds[j], v)
				if convErr != nil {
					err = fmt.Errorf("row %d, column %s: %w", i, names[j], convErr)
					return err
				}
				args = append(args, dv)
			}
		}

		query := l.conn.DB().Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			converter.QuoteIdentifier(table), columnStr, strings.Join(placeholders, ", ")))

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			err = fmt.Errorf("batch insert failed: %w", err)
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// verifyRowCount checks that the table holds exactly the loaded number
// of records for the origin label
func (l *Loader) verifyRowCount(ctx context.Context, table, originLabel string, want int) error {
	query := l.conn.DB().Rebind(fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s = ?",
		converter.QuoteIdentifier(table), converter.QuoteIdentifier(model.ColOrigin)))

	queryCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var got int
	if err := l.conn.DB().QueryRowContext(queryCtx, query, originLabel).Scan(&got); err != nil {
		return fmt.Errorf("failed to verify row count: %w", err)
	}

	if got != want {
		return fmt.Errorf("row count mismatch for origin %q: loaded %d, table has %d",
			originLabel, want, got)
	}
	return nil
}
