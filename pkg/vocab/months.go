// pkg/vocab/months.go
package vocab

import "strings"

// swedishMonths maps lowercase Swedish month names to their English
// equivalents so the date parser can recognize them.
var swedishMonths = map[string]string{
	"januari":   "january",
	"februari":  "february",
	"mars":      "march",
	"april":     "april",
	"maj":       "may",
	"juni":      "june",
	"juli":      "july",
	"augusti":   "august",
	"september": "september",
	"oktober":   "october",
	"november":  "november",
	"december":  "december",
}

// TranslateMonths substitutes every Swedish month name in s with its
// English equivalent. Matching is case-insensitive and word-level; the
// input is expected to be lowercased already by the date cleaning step.
func TranslateMonths(s string) string {
	for sv, en := range swedishMonths {
		if sv == en {
			continue
		}
		s = strings.ReplaceAll(s, sv, en)
	}
	return s
}
