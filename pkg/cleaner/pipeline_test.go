// pkg/cleaner/pipeline_test.go
package cleaner

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/friskvard/wellness-etl/pkg/model"
	"github.com/friskvard/wellness-etl/pkg/vocab"
)

// rowDefaults is a fully-populated raw record; tests override the cells
// they care about. A nil override marks the value as missing.
var rowDefaults = map[string]any{
	model.ColMembershipTier: "Bas",
	model.ColFacility:       "Lund",
	model.ColStatus:         "Genomförd",
	model.ColSessionName:    "Yoga",
	model.ColInstructor:     "Anna Berg",
	model.ColMonthlyCost:    "399",
	model.ColBirthYear:      "1990",
	model.ColMemberStart:    "2023-01-01",
	model.ColMemberEnd:      "2024-01-01",
	model.ColBookingDate:    "2024-01-10",
	model.ColSessionDate:    "2024-01-15",
	model.ColFeedbackDate:   "2024-01-16",
	model.ColSessionTime:    "07:30",
	model.ColFeedbackText:   "Bra pass",
}

func rawDataset(t *testing.T, rows ...map[string]any) *model.Dataset {
	t.Helper()
	ds := model.New()
	for _, name := range model.RequiredColumns {
		values := make([]any, len(rows))
		for i, row := range rows {
			if v, ok := row[name]; ok {
				values[i] = v
			} else {
				values[i] = rowDefaults[name]
			}
		}
		if err := ds.AddColumn(model.NewColumn(name, model.KindString, values)); err != nil {
			t.Fatal(err)
		}
	}
	return ds
}

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := NewPipeline(zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func cell(t *testing.T, ds *model.Dataset, name string, i int) any {
	t.Helper()
	col, err := ds.Column(name)
	if err != nil {
		t.Fatal(err)
	}
	return col.Value(i)
}

func TestTransformEndToEnd(t *testing.T) {
	p := newTestPipeline(t)
	ds := rawDataset(t, map[string]any{
		model.ColMembershipTier: "Gold",
		model.ColFacility:       "Sthlm City",
		model.ColStatus:         "Deltog",
		model.ColMonthlyCost:    "-50",
		model.ColBirthYear:      "abc",
		model.ColSessionDate:    "15 januari 2024",
	})

	clean, err := p.Transform(ds)
	if err != nil {
		t.Fatal(err)
	}

	if got := cell(t, clean, model.ColMembershipTier, 0); got != "Premium" {
		t.Errorf("tier = %v, want Premium", got)
	}
	if got := cell(t, clean, model.ColFacility, 0); got != "Stockholm City" {
		t.Errorf("facility = %v, want Stockholm City", got)
	}
	if got := cell(t, clean, model.ColStatus, 0); got != "Genomförd" {
		t.Errorf("status = %v, want Genomförd", got)
	}
	if got := cell(t, clean, model.ColMonthlyCost, 0); got != -50.0 {
		t.Errorf("cost = %v, want -50", got)
	}
	if got := cell(t, clean, model.ColNegativeAmount, 0); got != true {
		t.Errorf("negative flag = %v, want true", got)
	}
	if got := cell(t, clean, model.ColMonthlyCostAbs, 0); got != 50.0 {
		t.Errorf("abs cost = %v, want 50", got)
	}
	if got := cell(t, clean, model.ColBirthYear, 0); got != nil {
		t.Errorf("birth year = %v, want missing", got)
	}
	want := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	if got, ok := cell(t, clean, model.ColSessionDate, 0).(time.Time); !ok || !got.Equal(want) {
		t.Errorf("session date = %v, want %v", got, want)
	}
}

func TestTransformRejectsIncompleteSchema(t *testing.T) {
	p := newTestPipeline(t)
	ds := model.New()
	if err := ds.AddColumn(model.NewColumn(model.ColStatus, model.KindString, []any{"Deltog"})); err != nil {
		t.Fatal(err)
	}

	_, err := p.Transform(ds)
	if !errors.Is(err, model.ErrColumnNotFound) {
		t.Fatalf("got %v, want ErrColumnNotFound", err)
	}
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	p := newTestPipeline(t)
	ds := rawDataset(t, map[string]any{model.ColMembershipTier: "Gold"})

	if _, err := p.Transform(ds); err != nil {
		t.Fatal(err)
	}

	if got := cell(t, ds, model.ColMembershipTier, 0); got != "Gold" {
		t.Fatalf("input dataset mutated: tier = %v", got)
	}
	if ds.HasColumn(model.ColNegativeAmount) {
		t.Fatal("input dataset mutated: derived column added")
	}
}

func TestDeduplicationPrecedesCanonicalization(t *testing.T) {
	p := newTestPipeline(t)
	// Two records that differ only in the facility variant. Both map to
	// "Stockholm City", but dedup is defined on raw values, so neither
	// may be dropped. The third record is byte-identical to the first
	// and must collapse.
	ds := rawDataset(t,
		map[string]any{model.ColFacility: "Sthlm City"},
		map[string]any{model.ColFacility: "City"},
		map[string]any{model.ColFacility: "Sthlm City"},
	)

	clean, err := p.Transform(ds)
	if err != nil {
		t.Fatal(err)
	}

	if clean.NumRows() != 2 {
		t.Fatalf("got %d rows, want 2", clean.NumRows())
	}
	for i := 0; i < 2; i++ {
		if got := cell(t, clean, model.ColFacility, i); got != "Stockholm City" {
			t.Errorf("row %d facility = %v, want Stockholm City", i, got)
		}
	}
}

func TestSplitCostSign(t *testing.T) {
	tests := []struct {
		name     string
		cost     any
		wantCost any
		wantNeg  any
		wantAbs  any
	}{
		{"negative", "-50", -50.0, true, 50.0},
		{"zero", "0", 0.0, false, 0.0},
		{"positive decimal", "120.5", 120.5, false, 120.5},
		{"missing", nil, nil, nil, nil},
		{"unparseable", "femhundra", nil, nil, nil},
	}

	p := newTestPipeline(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean, err := p.Transform(rawDataset(t, map[string]any{model.ColMonthlyCost: tt.cost}))
			if err != nil {
				t.Fatal(err)
			}
			if got := cell(t, clean, model.ColMonthlyCost, 0); got != tt.wantCost {
				t.Errorf("cost = %v, want %v", got, tt.wantCost)
			}
			if got := cell(t, clean, model.ColNegativeAmount, 0); got != tt.wantNeg {
				t.Errorf("negative flag = %v, want %v", got, tt.wantNeg)
			}
			if got := cell(t, clean, model.ColMonthlyCostAbs, 0); got != tt.wantAbs {
				t.Errorf("abs = %v, want %v", got, tt.wantAbs)
			}
		})
	}
}

func TestCoerceBirthYear(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"plain", "1985", int64(1985)},
		{"padded", " 1985 ", int64(1985)},
		{"float form", "1985.0", int64(1985)},
		{"missing", nil, nil},
		{"non-numeric", "abc", nil},
	}

	p := newTestPipeline(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean, err := p.Transform(rawDataset(t, map[string]any{model.ColBirthYear: tt.in}))
			if err != nil {
				t.Fatal(err)
			}
			if got := cell(t, clean, model.ColBirthYear, 0); got != tt.want {
				t.Errorf("birth year = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateRoundTrip(t *testing.T) {
	want := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	same := []string{
		"15 Januari 2024",
		"2024-01-15",
		"15/01/2024",
		"15 januari, 2024",
		"  15 January 2024  ",
	}

	p := newTestPipeline(t)
	for _, in := range same {
		t.Run(in, func(t *testing.T) {
			clean, err := p.Transform(rawDataset(t, map[string]any{model.ColSessionDate: in}))
			if err != nil {
				t.Fatal(err)
			}
			if got, ok := cell(t, clean, model.ColSessionDate, 0).(time.Time); !ok || !got.Equal(want) {
				t.Errorf("parsed %v, want %v", got, want)
			}
		})
	}

	missing := []any{"", "nan", "NaN", nil, "inte ett datum"}
	for _, in := range missing {
		clean, err := p.Transform(rawDataset(t, map[string]any{model.ColSessionDate: in}))
		if err != nil {
			t.Fatal(err)
		}
		if got := cell(t, clean, model.ColSessionDate, 0); got != nil {
			t.Errorf("input %v: parsed %v, want missing", in, got)
		}
	}
}

func TestDayFirstOrdering(t *testing.T) {
	p := newTestPipeline(t)
	clean, err := p.Transform(rawDataset(t, map[string]any{model.ColBookingDate: "03/02/2024"}))
	if err != nil {
		t.Fatal(err)
	}

	want := time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC)
	if got, ok := cell(t, clean, model.ColBookingDate, 0).(time.Time); !ok || !got.Equal(want) {
		t.Errorf("got %v, want %v (day-first)", got, want)
	}
}

func TestSessionTimeParsing(t *testing.T) {
	p := newTestPipeline(t)
	clean, err := p.Transform(rawDataset(t,
		map[string]any{model.ColSessionTime: "18:45"},
		map[string]any{model.ColSessionTime: "not a time"},
		map[string]any{model.ColSessionTime: nil},
	))
	if err != nil {
		t.Fatal(err)
	}

	got, ok := cell(t, clean, model.ColSessionTime, 0).(time.Time)
	if !ok || got.Hour() != 18 || got.Minute() != 45 {
		t.Errorf("parsed %v, want 18:45", got)
	}
	if v := cell(t, clean, model.ColSessionTime, 1); v != nil {
		t.Errorf("unparseable time = %v, want missing", v)
	}
	if v := cell(t, clean, model.ColSessionTime, 2); v != nil {
		t.Errorf("missing time = %v, want missing", v)
	}
}

func TestMissingTextDefaulting(t *testing.T) {
	p := newTestPipeline(t)
	clean, err := p.Transform(rawDataset(t, map[string]any{
		model.ColFacility:     nil,
		model.ColInstructor:   nil,
		model.ColFeedbackText: nil,
	}))
	if err != nil {
		t.Fatal(err)
	}

	if got := cell(t, clean, model.ColFacility, 0); got != "Okänd" {
		t.Errorf("facility = %v, want Okänd", got)
	}
	if got := cell(t, clean, model.ColInstructor, 0); got != "Okänd" {
		t.Errorf("instructor = %v, want Okänd", got)
	}
	if got := cell(t, clean, model.ColFeedbackText, 0); got != "" {
		t.Errorf("feedback = %v, want empty string", got)
	}
}

func TestEncodingSeesCanonicalValues(t *testing.T) {
	p := newTestPipeline(t)
	clean, err := p.Transform(rawDataset(t,
		map[string]any{model.ColFacility: "Sthlm City"},
		map[string]any{model.ColFacility: "City"},
		map[string]any{model.ColFacility: "Lund C"},
	))
	if err != nil {
		t.Fatal(err)
	}

	col, err := clean.Column(model.ColFacility)
	if err != nil {
		t.Fatal(err)
	}
	if !col.IsEncoded() {
		t.Fatal("facility column not encoded")
	}

	// the dictionary must hold canonical names only, never raw variants
	want := map[string]bool{"Stockholm City": true, "Lund": true}
	levels := col.Levels()
	if len(levels) != len(want) {
		t.Fatalf("levels = %v, want %v", levels, want)
	}
	for _, level := range levels {
		if !want[level] {
			t.Errorf("unexpected level %q", level)
		}
	}
}

func TestEncodeCategoriesSkipsAbsentColumn(t *testing.T) {
	p := newTestPipeline(t)
	ds := model.New()
	if err := ds.AddColumn(model.NewColumn(model.ColStatus, model.KindString, []any{"Genomförd"})); err != nil {
		t.Fatal(err)
	}

	// only the status column exists; the other categorical columns must
	// be skipped without error
	if err := p.encodeCategories(ds); err != nil {
		t.Fatalf("encodeCategories: %v", err)
	}

	col, err := ds.Column(model.ColStatus)
	if err != nil {
		t.Fatal(err)
	}
	if !col.IsEncoded() {
		t.Fatal("present column not encoded")
	}
}

func TestTransformIdempotent(t *testing.T) {
	p := newTestPipeline(t)
	ds := rawDataset(t,
		map[string]any{
			model.ColMembershipTier: "gold",
			model.ColFacility:       nil,
			model.ColSessionDate:    "15 januari 2024",
		},
		map[string]any{
			model.ColStatus:       "no show",
			model.ColFeedbackText: nil,
		},
	)

	once, err := p.Transform(ds)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := p.Transform(once)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(once.Columns(), twice.Columns()) {
		t.Fatalf("schemas differ: %v vs %v", once.Columns(), twice.Columns())
	}
	for _, name := range once.Columns() {
		a, _ := once.Column(name)
		b, _ := twice.Column(name)
		if !reflect.DeepEqual(a.Values(), b.Values()) {
			t.Errorf("column %s changed on reapplication: %v vs %v", name, a.Values(), b.Values())
		}
	}
}

func TestCustomVocabularies(t *testing.T) {
	tiers := vocab.Map{"Provmedlem": "Test"}
	p, err := NewPipelineWithVocabularies(zap.NewNop(), tiers, vocab.Map{}, vocab.Map{}, vocab.Map{})
	if err != nil {
		t.Fatal(err)
	}

	clean, err := p.Transform(rawDataset(t, map[string]any{
		model.ColMembershipTier: "provmedlem",
		model.ColStatus:         "Deltog",
	}))
	if err != nil {
		t.Fatal(err)
	}

	if got := cell(t, clean, model.ColMembershipTier, 0); got != "Test" {
		t.Errorf("tier = %v, want Test", got)
	}
	// empty status map: value keeps its title-cased form
	if got := cell(t, clean, model.ColStatus, 0); got != "Deltog" {
		t.Errorf("status = %v, want Deltog", got)
	}
}
