// pkg/cleaner/transformers.go
package cleaner

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/friskvard/wellness-etl/pkg/model"
	"github.com/friskvard/wellness-etl/pkg/vocab"
)

// splitCostSign parses the monthly cost to a float and derives a negative
// flag and an absolute-value column. A negative cost represents a credit
// or refund; the sign is preserved as a flag, never discarded. Missing or
// unparseable cost leaves all three values missing.
func (p *Pipeline) splitCostSign(ds *model.Dataset) error {
	col, err := ds.Column(model.ColMonthlyCost)
	if err != nil {
		return err
	}

	n := col.Len()
	cost := make([]any, n)
	negative := make([]any, n)
	abs := make([]any, n)

	for i := 0; i < n; i++ {
		f, err := toFloat(col.Value(i))
		if err != nil {
			continue // leave the record, mark all three missing
		}
		cost[i] = f
		negative[i] = f < 0
		abs[i] = math.Abs(f)
	}

	if err := ds.SetColumn(model.NewColumn(model.ColMonthlyCost, model.KindFloat, cost)); err != nil {
		return err
	}
	if err := setOrAddColumn(ds, model.NewColumn(model.ColNegativeAmount, model.KindBool, negative)); err != nil {
		return err
	}
	return setOrAddColumn(ds, model.NewColumn(model.ColMonthlyCostAbs, model.KindFloat, abs))
}

// coerceBirthYear parses the birth year as an integer. Absent or
// non-numeric values stay missing rather than becoming zero or a
// sentinel.
func (p *Pipeline) coerceBirthYear(ds *model.Dataset) error {
	col, err := ds.Column(model.ColBirthYear)
	if err != nil {
		return err
	}

	n := col.Len()
	years := make([]any, n)
	for i := 0; i < n; i++ {
		y, err := toInt(col.Value(i))
		if err != nil {
			continue
		}
		years[i] = y
	}

	return ds.SetColumn(model.NewColumn(model.ColBirthYear, model.KindInt, years))
}

// canonicalizer builds the cleaning step for one categorical column:
// title case, then vocabulary lookup. Unmapped variants keep their
// title-cased form. Missing values are left for the defaulting step.
func (p *Pipeline) canonicalizer(name string, m vocab.Map) func(*model.Dataset) error {
	return func(ds *model.Dataset) error {
		col, err := ds.Column(name)
		if err != nil {
			return err
		}

		n := col.Len()
		values := make([]any, n)
		for i := 0; i < n; i++ {
			v := col.Value(i)
			if v == nil {
				continue
			}
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("column %s: expected string, got %T", name, v)
			}
			values[i] = m.Canonical(s)
		}

		return ds.SetColumn(model.NewColumn(name, model.KindString, values))
	}
}

// fillMissingText replaces missing facility and instructor values with
// the "Okänd" marker, and missing feedback text with the empty string.
// Runs after canonicalization so only true-missing values are filled.
func (p *Pipeline) fillMissingText(ds *model.Dataset) error {
	for _, name := range []string{model.ColFacility, model.ColInstructor} {
		if err := fillColumn(ds, name, "Okänd"); err != nil {
			return err
		}
	}
	return fillColumn(ds, model.ColFeedbackText, "")
}

func fillColumn(ds *model.Dataset, name, marker string) error {
	col, err := ds.Column(name)
	if err != nil {
		return err
	}

	n := col.Len()
	values := make([]any, n)
	for i := 0; i < n; i++ {
		v := col.Value(i)
		if v == nil {
			values[i] = marker
		} else {
			values[i] = v
		}
	}

	return ds.SetColumn(model.NewColumn(name, model.KindString, values))
}

// encodeCategories dictionary-encodes the low-cardinality columns. This
// must run last so the dictionaries hold the final canonical strings. An
// absent column is skipped, not an error.
func (p *Pipeline) encodeCategories(ds *model.Dataset) error {
	for _, name := range model.CategoricalColumns {
		col, err := ds.Column(name)
		if err != nil {
			p.logger.Debug("Skipping encoding for absent column", zap.String("column", name))
			continue
		}
		col.Encode()
	}
	return nil
}

// setOrAddColumn replaces the column when it already exists, so
// reapplying the pipeline to already-cleaned data does not fail on the
// derived columns.
func setOrAddColumn(ds *model.Dataset, col *model.Column) error {
	if ds.HasColumn(col.Name) {
		return ds.SetColumn(col)
	}
	return ds.AddColumn(col)
}

// Value coercion helpers. Input cells arrive as strings from the CSV
// reader, but reapplied cleaning sees already-typed values.

func toFloat(v any) (float64, error) {
	switch val := v.(type) {
	case nil:
		return 0, errors.New("missing value")
	case float64:
		return val, nil
	case int64:
		return float64(val), nil
	case string:
		cleaned := strings.TrimSpace(val)
		if cleaned == "" {
			return 0, errors.New("empty string")
		}
		return strconv.ParseFloat(cleaned, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to float", v)
	}
}

func toInt(v any) (int64, error) {
	switch val := v.(type) {
	case nil:
		return 0, errors.New("missing value")
	case int64:
		return val, nil
	case float64:
		if val != math.Trunc(val) {
			return 0, fmt.Errorf("%v is not an integer", val)
		}
		return int64(val), nil
	case string:
		cleaned := strings.TrimSpace(val)
		if cleaned == "" {
			return 0, errors.New("empty string")
		}
		if i, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
			return i, nil
		}
		// tolerate a float representation of a whole number
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("%q is not an integer", cleaned)
		}
		return int64(f), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int", v)
	}
}
