// pkg/model/dataset_test.go
package model

import (
	"errors"
	"testing"
)

func stringColumn(name string, values ...any) *Column {
	return NewColumn(name, KindString, values)
}

func TestDatasetAddAndLookup(t *testing.T) {
	ds := New()
	if err := ds.AddColumn(stringColumn("a", "1", "2")); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}
	if err := ds.AddColumn(stringColumn("b", "x", nil)); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}

	if ds.NumRows() != 2 || ds.NumColumns() != 2 {
		t.Fatalf("got %dx%d, want 2x2", ds.NumRows(), ds.NumColumns())
	}

	if err := ds.AddColumn(stringColumn("a", "dup", "dup")); err == nil {
		t.Fatal("expected error adding duplicate column")
	}
	if err := ds.AddColumn(stringColumn("c", "only one")); err == nil {
		t.Fatal("expected error adding column with mismatched length")
	}

	_, err := ds.Column("missing")
	if !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("got %v, want ErrColumnNotFound", err)
	}
}

func TestFromRecords(t *testing.T) {
	ds, err := FromRecords(
		[]string{"facility", "status"},
		[][]any{
			{"Sthlm City", "Deltog"},
			{nil, "Klar"},
		},
	)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}

	if ds.NumRows() != 2 || ds.NumColumns() != 2 {
		t.Fatalf("got %dx%d, want 2x2", ds.NumRows(), ds.NumColumns())
	}
	col, err := ds.Column("facility")
	if err != nil {
		t.Fatal(err)
	}
	if col.Kind != KindString {
		t.Fatalf("got kind %s, want string", col.Kind)
	}
	if col.Value(0) != "Sthlm City" || col.Value(1) != nil {
		t.Fatalf("got %v, %v", col.Value(0), col.Value(1))
	}

	if _, err := FromRecords([]string{"a", "b"}, [][]any{{"lone"}}); err == nil {
		t.Fatal("expected error for record narrower than header")
	}
}

func TestRequireColumns(t *testing.T) {
	ds := New()
	if err := ds.AddColumn(stringColumn("a", "1")); err != nil {
		t.Fatal(err)
	}

	if err := ds.RequireColumns("a"); err != nil {
		t.Fatalf("RequireColumns: %v", err)
	}
	err := ds.RequireColumns("a", "b")
	if !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("got %v, want ErrColumnNotFound", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	ds := New()
	if err := ds.AddColumn(stringColumn("a", "original")); err != nil {
		t.Fatal(err)
	}

	clone := ds.Clone()
	if err := clone.SetColumn(stringColumn("a", "changed")); err != nil {
		t.Fatal(err)
	}

	col, err := ds.Column("a")
	if err != nil {
		t.Fatal(err)
	}
	if col.Value(0) != "original" {
		t.Fatalf("clone mutation leaked into source: %v", col.Value(0))
	}
}

func TestDropDuplicateRows(t *testing.T) {
	ds := New()
	if err := ds.AddColumn(stringColumn("facility", "Sthlm City", "City", "Sthlm City")); err != nil {
		t.Fatal(err)
	}
	if err := ds.AddColumn(stringColumn("status", "Deltog", "Deltog", "Deltog")); err != nil {
		t.Fatal(err)
	}

	out := ds.DropDuplicateRows()

	// "Sthlm City" and "City" canonicalize to the same facility later,
	// but on raw values they are distinct records: only the third,
	// byte-identical row collapses.
	if out.NumRows() != 2 {
		t.Fatalf("got %d rows, want 2", out.NumRows())
	}
}

func TestDropDuplicateRowsDistinguishesMissingFromEmpty(t *testing.T) {
	ds := New()
	if err := ds.AddColumn(stringColumn("a", nil, "")); err != nil {
		t.Fatal(err)
	}

	out := ds.DropDuplicateRows()
	if out.NumRows() != 2 {
		t.Fatalf("missing and empty collapsed: got %d rows, want 2", out.NumRows())
	}
}

func TestDropDuplicateRowsDistinguishesTypes(t *testing.T) {
	ds := New()
	if err := ds.AddColumn(NewColumn("flag", KindBool, []any{false, "false"})); err != nil {
		t.Fatal(err)
	}

	out := ds.DropDuplicateRows()
	if out.NumRows() != 2 {
		t.Fatalf("bool and string collapsed: got %d rows, want 2", out.NumRows())
	}
}

func TestAppendConstant(t *testing.T) {
	ds := New()
	if err := ds.AddColumn(stringColumn("a", "1", "2")); err != nil {
		t.Fatal(err)
	}
	if err := ds.AppendConstant(ColOrigin, OriginMain); err != nil {
		t.Fatal(err)
	}

	col, err := ds.Column(ColOrigin)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < col.Len(); i++ {
		if col.Value(i) != OriginMain {
			t.Fatalf("row %d: got %v, want %q", i, col.Value(i), OriginMain)
		}
	}
}

func TestColumnEncode(t *testing.T) {
	col := stringColumn("status", "Genomförd", "Avbokad", "Genomförd", nil)
	col.Encode()

	if !col.IsEncoded() {
		t.Fatal("column not encoded")
	}
	if got := len(col.Levels()); got != 2 {
		t.Fatalf("got %d levels, want 2", got)
	}

	want := []any{"Genomförd", "Avbokad", "Genomförd", nil}
	for i, w := range want {
		if col.Value(i) != w {
			t.Fatalf("row %d: got %v, want %v", i, col.Value(i), w)
		}
	}

	// encoding twice is a no-op
	col.Encode()
	if col.Value(0) != "Genomförd" {
		t.Fatal("re-encoding changed values")
	}
}

func TestColumnEncodeSkipsNonString(t *testing.T) {
	col := NewColumn("cost", KindFloat, []any{1.5, nil})
	col.Encode()
	if col.IsEncoded() {
		t.Fatal("float column should not encode")
	}
}
