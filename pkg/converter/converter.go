// pkg/converter/converter.go
package converter

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/friskvard/wellness-etl/pkg/model"
)

// TypeConverter maps dataset column kinds to SQL column types and
// converts cell values into what the configured driver accepts.
type TypeConverter struct {
	driver string
	logger *zap.Logger
}

// NewTypeConverter creates a converter for the given sink driver
func NewTypeConverter(driver string, logger *zap.Logger) *TypeConverter {
	return &TypeConverter{
		driver: driver,
		logger: logger,
	}
}

// ColumnType returns the SQL type for a column kind
func (c *TypeConverter) ColumnType(kind model.Kind) string {
	if c.driver == "postgres" {
		switch kind {
		case model.KindFloat:
			return "DOUBLE PRECISION"
		case model.KindInt:
			return "BIGINT"
		case model.KindBool:
			return "BOOLEAN"
		case model.KindDate:
			return "DATE"
		default:
			return "TEXT"
		}
	}

	// SQLite has no dedicated date or boolean storage classes; dates go
	// in as ISO-8601 text and booleans as 0/1 integers.
	switch kind {
	case model.KindFloat:
		return "REAL"
	case model.KindInt, model.KindBool:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// ColumnDefinitions builds the CREATE TABLE column clauses for a dataset
func (c *TypeConverter) ColumnDefinitions(ds *model.Dataset) ([]string, error) {
	definitions := make([]string, 0, ds.NumColumns())
	for _, name := range ds.Columns() {
		col, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, fmt.Sprintf("%s %s",
			QuoteIdentifier(name), c.ColumnType(col.Kind)))
	}
	return definitions, nil
}

// DriverValue converts a cell value for the driver. Missing values map
// to SQL NULL.
func (c *TypeConverter) DriverValue(kind model.Kind, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch kind {
	case model.KindDate:
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("expected time.Time for date column, got %T", v)
		}
		if c.driver == "postgres" {
			return t, nil
		}
		return t.Format("2006-01-02"), nil

	case model.KindTimeOfDay:
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("expected time.Time for time column, got %T", v)
		}
		return t.Format("15:04"), nil

	case model.KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
		if c.driver == "postgres" {
			return b, nil
		}
		if b {
			return int64(1), nil
		}
		return int64(0), nil

	default:
		return v, nil
	}
}

// QuoteIdentifier quotes a table or column name. The source schema uses
// Swedish letters in column names, so quoting is not optional.
func QuoteIdentifier(name string) string {
	return fmt.Sprintf("\"%s\"", strings.ReplaceAll(name, "\"", "\"\""))
}
