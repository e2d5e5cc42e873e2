// pkg/vocab/vocab.go
package vocab

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Map is an immutable synonym table: title-cased raw variant -> canonical
// form. Canonical forms are never themselves keys, so applying a map twice
// yields the same result as once.
type Map map[string]string

// Canonical title-cases the raw value and resolves it against the map.
// Unmapped variants keep their title-cased form; unknown input is
// preserved, not rejected.
func (m Map) Canonical(raw string) string {
	t := TitleCase(raw)
	if canonical, ok := m[t]; ok {
		return canonical
	}
	return t
}

// TitleCase capitalizes every letter that follows a non-letter and
// lowercases the rest, using Swedish casing rules so å/ä/ö survive the
// round trip. Punctuation starts a new word, so "h.i.i.t" becomes
// "H.I.I.T" rather than "H.i.i.t". A Caser is stateful and not safe to
// share, so one is created per call.
func TitleCase(s string) string {
	lowered := cases.Lower(language.Swedish).String(s)

	var b strings.Builder
	b.Grow(len(lowered))
	prevLetter := false
	for _, r := range lowered {
		isLetter := unicode.IsLetter(r)
		if isLetter && !prevLetter {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
		prevLetter = isLetter
	}
	return b.String()
}

// MembershipTiers maps tier variants to the canonical tier names
var MembershipTiers = Map{
	"Grund":      "Bas",
	"Basic":      "Bas",
	"Studerande": "Student",
	"Gold":       "Premium",
	"Plus":       "Premium",
}

// Facilities maps facility abbreviations and short forms to full names
var Facilities = Map{
	"Linköping C":       "Linköping",
	"Lund C":            "Lund",
	"Sthlm City":        "Stockholm City",
	"City":              "Stockholm City",
	"Sthlm Södermalm":   "Stockholm Södermalm",
	"Södermalm":         "Stockholm Södermalm",
	"Uppsala C":         "Uppsala",
	"Göteborg C":        "Göteborg Centrum",
	"Gbg Centrum":       "Göteborg Centrum",
	"Gbg Hisingen":      "Göteborg Hisingen",
	"Hisingen":          "Göteborg Hisingen",
	"Sthlm Kungsholmen": "Stockholm Kungsholmen",
	"Kungsholmen":       "Stockholm Kungsholmen",
	"Örebro C":          "Örebro",
	"Malmö Vh":          "Malmö Västra Hamnen",
	"Västra Hamnen":     "Malmö Västra Hamnen",
	"Malmö C":           "Malmö Centrum",
	"Malmö City":        "Malmö Centrum",
	"Västerås C":        "Västerås",
}

// SessionStatuses maps attendance outcomes to the canonical status set
var SessionStatuses = Map{
	"Deltog":        "Genomförd",
	"Klar":          "Genomförd",
	"Struken":       "Avbokad",
	"Cancelled":     "Avbokad",
	"Ej Närvarande": "No-Show",
	"Missad":        "No-Show",
	"No Show":       "No-Show",
}

// SessionNames maps class-name variants to the canonical class names
var SessionNames = Map{
	"H.I.I.T":        "Hiit",
	"Högintensiv":    "Hiit",
	"Intervall":      "Hiit",
	"Core":           "Styrketräning",
	"Styrka":         "Styrketräning",
	"Styrkepass":     "Styrketräning",
	"Gympass":        "Styrketräning",
	"Strength":       "Styrketräning",
	"Cykel":          "Spinning",
	"Spin":           "Spinning",
	"Indoor Cycling": "Spinning",
	"Zumba":          "Dans",
	"Dance":          "Dans",
	"Vinyasa":        "Yoga",
	"Hatha Yoga":     "Yoga",
	"Boxing":         "Boxning",
	"Fightpass":      "Boxning",
}
