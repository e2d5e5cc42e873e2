// pkg/cleaner/dates.go
package cleaner

import (
	"fmt"
	"strings"
	"time"

	"github.com/friskvard/wellness-etl/pkg/model"
	"github.com/friskvard/wellness-etl/pkg/vocab"
)

// dateLayouts are tried in order. Ambiguous day/month ordering defaults
// to day-first, so the numeric slash and dash forms list the day before
// the month.
var dateLayouts = []string{
	"2006-01-02",
	"2 January 2006",
	"2 Jan 2006",
	"January 2 2006",
	"2/1/2006",
	"02/01/2006",
	"2-1-2006",
	"02-01-2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
}

// missingTokens are literal cell contents treated as absent, so they are
// not misread as dates.
var missingTokens = map[string]bool{
	"":    true,
	"nan": true,
	"NaN": true,
}

// parseDates cleans the five date columns independently: trim, map the
// missing tokens to nil, strip commas, lowercase, translate Swedish
// month names, then try the tolerant layout list. Unparseable values
// become missing, never an error.
func (p *Pipeline) parseDates(ds *model.Dataset) error {
	for _, name := range model.DateColumns {
		col, err := ds.Column(name)
		if err != nil {
			return err
		}

		n := col.Len()
		values := make([]any, n)
		for i := 0; i < n; i++ {
			switch v := col.Value(i).(type) {
			case nil:
				// already missing
			case time.Time:
				values[i] = v
			case string:
				if t, ok := parseDate(v); ok {
					values[i] = t
				}
			default:
				return fmt.Errorf("column %s: expected string, got %T", name, v)
			}
		}

		if err := ds.SetColumn(model.NewColumn(name, model.KindDate, values)); err != nil {
			return err
		}
	}
	return nil
}

// parseDate normalizes one raw date string and parses it. The boolean
// result is false when the value is missing or unparseable.
func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if missingTokens[s] {
		return time.Time{}, false
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ToLower(s)
	s = vocab.TranslateMonths(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseSessionTime converts the HH:MM session time to a time-of-day
// value. Unparseable values become missing.
func (p *Pipeline) parseSessionTime(ds *model.Dataset) error {
	col, err := ds.Column(model.ColSessionTime)
	if err != nil {
		return err
	}

	n := col.Len()
	values := make([]any, n)
	for i := 0; i < n; i++ {
		switch v := col.Value(i).(type) {
		case nil:
		case time.Time:
			values[i] = v
		case string:
			if t, err := time.Parse("15:04", strings.TrimSpace(v)); err == nil {
				values[i] = t
			}
		default:
			return fmt.Errorf("column %s: expected string, got %T", model.ColSessionTime, v)
		}
	}

	return ds.SetColumn(model.NewColumn(model.ColSessionTime, model.KindTimeOfDay, values))
}
