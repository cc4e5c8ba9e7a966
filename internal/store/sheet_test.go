package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestGetOrCreateSheet_SeedsFromRoster(t *testing.T) {
	st := newTestStore(t)

	mustUpsert(t, st, "Ann", "1")
	mustUpsert(t, st, "Bob", "2")

	sh, err := st.GetOrCreateSheet("Math")
	if err != nil {
		t.Fatalf("GetOrCreateSheet failed: %v", err)
	}

	rows := sh.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected a row per roster entry, got %d", len(rows))
	}
	if rows[0].Name != "Ann" || rows[0].Roll != "1" {
		t.Errorf("unexpected first row %+v", rows[0])
	}
	if len(sh.Dates()) != 0 {
		t.Errorf("new sheet must have no date columns, got %v", sh.Dates())
	}
}

func TestGetOrCreateSheet_Idempotent(t *testing.T) {
	st := newTestStore(t)
	mustUpsert(t, st, "Ann", "1")

	if _, err := st.GetOrCreateSheet("Math"); err != nil {
		t.Fatalf("first GetOrCreateSheet failed: %v", err)
	}
	if err := st.MarkPresent("Math", "1", "2024-01-10"); err != nil {
		t.Fatalf("marking present: %v", err)
	}

	// A second call must load, not recreate: the mark survives.
	sh, err := st.GetOrCreateSheet("Math")
	if err != nil {
		t.Fatalf("second GetOrCreateSheet failed: %v", err)
	}
	if !sh.Present("1", "2024-01-10") {
		t.Error("existing sheet was clobbered by GetOrCreateSheet")
	}
}

func TestMarkPresent_Idempotent(t *testing.T) {
	st := newTestStore(t)
	mustUpsert(t, st, "Ann", "1")

	if err := st.MarkPresent("Math", "1", "2024-01-10"); err != nil {
		t.Fatalf("first mark failed: %v", err)
	}
	first := readSheetBytes(t, st, "Math")

	if err := st.MarkPresent("Math", "1", "2024-01-10"); err != nil {
		t.Fatalf("second mark failed: %v", err)
	}
	second := readSheetBytes(t, st, "Math")

	if !bytes.Equal(first, second) {
		t.Errorf("re-marking must rewrite identical bytes\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestMarkPresent_UnknownRoll(t *testing.T) {
	st := newTestStore(t)
	mustUpsert(t, st, "Ann", "1")

	err := st.MarkPresent("Math", "99", "2024-01-10")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected NotFound for unknown roll, got %v", err)
	}
	if err.Error() != "student 99 not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestMarkPresent_AppendsRowFromRoster(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.GetOrCreateSheet("Math"); err != nil {
		t.Fatalf("creating sheet: %v", err)
	}
	// Student registered after the sheet existed; the sheet has no row yet.
	// Write the roster directly so no fan-out runs.
	rows := [][]string{{"name", "roll", "descriptors"}, {"Ann", "1", "[1]"}}
	if err := writeRows(st.RosterPath(), rows); err != nil {
		t.Fatalf("writing roster: %v", err)
	}

	if err := st.MarkPresent("Math", "1", "2024-01-10"); err != nil {
		t.Fatalf("marking present: %v", err)
	}

	sh, err := st.LoadSheet("Math")
	if err != nil {
		t.Fatalf("loading sheet: %v", err)
	}
	if !sh.Present("1", "2024-01-10") {
		t.Error("expected appended row to be marked present")
	}
	if sh.Rows()[0].Name != "Ann" {
		t.Errorf("appended row should carry the roster name, got %+v", sh.Rows()[0])
	}
}

func TestMarkPresent_InvalidDate(t *testing.T) {
	st := newTestStore(t)
	mustUpsert(t, st, "Ann", "1")

	for _, date := range []string{"", "10-01-2024", "2024-13-01", "today"} {
		err := st.MarkPresent("Math", "1", date)
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected validation error for date %q, got %v", date, err)
		}
	}
}

func TestQueryByDate_OnlyExactPresentMarker(t *testing.T) {
	st := newTestStore(t)

	// Hand-written sheet with values the store itself would never produce.
	raw := [][]string{
		{"name", "roll", "2024-01-10"},
		{"Ann", "1", "Present"},
		{"Bob", "2", "present"},
		{"Cid", "3", "yes"},
		{"Dee", "4", ""},
	}
	if err := writeRows(st.SheetPath("Math"), raw); err != nil {
		t.Fatalf("writing sheet: %v", err)
	}

	entries, err := st.QueryByDate("Math", "2024-01-10")
	if err != nil {
		t.Fatalf("querying: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the exact marker to count, got %v", entries)
	}
	want := AttendanceEntry{Name: "Ann", Roll: "1", Date: "2024-01-10", Subject: "Math"}
	if entries[0] != want {
		t.Errorf("expected %+v, got %+v", want, entries[0])
	}
}

func TestQueryByDate_MissingSheetIsEmpty(t *testing.T) {
	st := newTestStore(t)

	entries, err := st.QueryByDate("Ghost", "2024-01-10")
	if err != nil {
		t.Fatalf("expected no error for missing sheet, got %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", entries)
	}
}

func TestDeleteDateColumn_RemovesHeaderAndCells(t *testing.T) {
	st := newTestStore(t)
	mustUpsert(t, st, "Ann", "1")

	if err := st.MarkPresent("Math", "1", "2024-01-10"); err != nil {
		t.Fatalf("marking: %v", err)
	}
	if err := st.MarkPresent("Math", "1", "2024-01-11"); err != nil {
		t.Fatalf("marking: %v", err)
	}

	if err := st.DeleteDateColumn("Math", "2024-01-10"); err != nil {
		t.Fatalf("deleting column: %v", err)
	}

	sh, err := st.LoadSheet("Math")
	if err != nil {
		t.Fatalf("loading sheet: %v", err)
	}
	dates := sh.Dates()
	if len(dates) != 1 || dates[0] != "2024-01-11" {
		t.Errorf("expected only 2024-01-11 to remain, got %v", dates)
	}
	if sh.Present("1", "2024-01-10") {
		t.Error("deleted column's marks must be gone")
	}
	if !sh.Present("1", "2024-01-11") {
		t.Error("other columns must survive")
	}
}

func TestDeleteDateColumn_MissingSheetOrColumn(t *testing.T) {
	st := newTestStore(t)
	mustUpsert(t, st, "Ann", "1")

	if err := st.DeleteDateColumn("Ghost", "2024-01-10"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected NotFound for missing sheet, got %v", err)
	}

	if _, err := st.GetOrCreateSheet("Math"); err != nil {
		t.Fatalf("creating sheet: %v", err)
	}
	if err := st.DeleteDateColumn("Math", "2024-01-10"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected NotFound for missing column, got %v", err)
	}
}

func TestDeleteAllSheets(t *testing.T) {
	st := newTestStore(t)
	mustUpsert(t, st, "Ann", "1")

	if _, err := st.GetOrCreateSheet("Math"); err != nil {
		t.Fatalf("creating sheet: %v", err)
	}
	if _, err := st.GetOrCreateSheet("Physics"); err != nil {
		t.Fatalf("creating sheet: %v", err)
	}

	if err := st.DeleteAllSheets(); err != nil {
		t.Fatalf("deleting all sheets: %v", err)
	}

	files, err := st.SheetFiles()
	if err != nil {
		t.Fatalf("listing sheets: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("expected no sheet files, got %v", files)
	}
}

func TestParseSheet_DeduplicatesRolls(t *testing.T) {
	raw := [][]string{
		{"name", "roll", "2024-01-10"},
		{"Ann", "1", "Present"},
		{"Ann again", "1", ""},
	}
	sh := parseSheet("math", raw)

	if len(sh.Rows()) != 1 {
		t.Fatalf("expected duplicate rolls collapsed, got %d rows", len(sh.Rows()))
	}
	if !sh.Present("1", "2024-01-10") {
		t.Error("first occurrence must win")
	}
}

func TestParseSheet_RaggedRows(t *testing.T) {
	raw := [][]string{
		{"name", "roll", "2024-01-10", "2024-01-11"},
		{"Ann", "1", "Present"}, // short row: missing trailing cells read absent
		{"Bob", "2", "", "Present"},
	}
	sh := parseSheet("math", raw)

	if !sh.Present("1", "2024-01-10") {
		t.Error("short row's present cell lost")
	}
	if sh.Present("1", "2024-01-11") {
		t.Error("missing trailing cell must read absent")
	}
	if !sh.Present("2", "2024-01-11") {
		t.Error("full row's mark lost")
	}
}

// Full scenario from empty roster to a queried mark.
func TestScenario_EmptyRosterToQuery(t *testing.T) {
	st := newTestStore(t)

	if err := st.CreateSubject("Math"); err != nil {
		t.Fatalf("creating subject: %v", err)
	}
	sh, err := st.LoadSheet("Math")
	if err != nil {
		t.Fatalf("loading sheet: %v", err)
	}
	if len(sh.Rows()) != 0 {
		t.Fatalf("empty roster must yield empty sheet, got %d rows", len(sh.Rows()))
	}

	mustUpsert(t, st, "Ann", "1")
	sh, err = st.LoadSheet("Math")
	if err != nil {
		t.Fatalf("reloading sheet: %v", err)
	}
	rows := sh.Rows()
	if len(rows) != 1 || rows[0].Name != "Ann" || rows[0].Roll != "1" {
		t.Fatalf("expected sheet to gain Ann's row, got %v", rows)
	}

	if err := st.MarkPresent("Math", "1", "2024-01-10"); err != nil {
		t.Fatalf("marking: %v", err)
	}

	entries, err := st.QueryByDate("Math", "2024-01-10")
	if err != nil {
		t.Fatalf("querying: %v", err)
	}
	want := AttendanceEntry{Name: "Ann", Roll: "1", Date: "2024-01-10", Subject: "Math"}
	if len(entries) != 1 || entries[0] != want {
		t.Errorf("expected [%+v], got %v", want, entries)
	}

	entries, err = st.QueryByDate("Math", "2024-01-11")
	if err != nil {
		t.Fatalf("querying other date: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries on unmarked date, got %v", entries)
	}
}

func TestWriteRows_LeavesNoTempFiles(t *testing.T) {
	st := newTestStore(t)
	mustUpsert(t, st, "Ann", "1")

	dir := filepath.Dir(st.RosterPath())
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("stray temp file %s", e.Name())
		}
	}
}
