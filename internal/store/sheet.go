package store

import (
	"errors"
	"os"
)

// Sheet is the in-memory form of one subject's attendance table: one row
// per roll number, one column per date attendance was ever marked. The wide
// CSV layout exists only at the storage boundary; in memory presence is a
// roll -> date -> bool mapping.
type Sheet struct {
	subject string
	rows    []*sheetRow
	byRoll  map[string]*sheetRow
	dates   []string
}

// Row is the fixed identity part of one sheet row.
type Row struct {
	Name string
	Roll string
}

type sheetRow struct {
	name  string
	roll  string
	marks map[string]bool
}

func newSheet(subject string) *Sheet {
	return &Sheet{
		subject: subject,
		byRoll:  make(map[string]*sheetRow),
	}
}

// parseSheet builds a Sheet from raw CSV rows. Columns beyond name and roll
// are date columns. Ragged rows are padded, duplicate rolls keep the first
// occurrence, and any cell value other than the exact present marker reads
// as absent.
func parseSheet(subject string, raw [][]string) *Sheet {
	sh := newSheet(subject)
	if len(raw) == 0 {
		return sh
	}

	header := raw[0]
	if len(header) > len(sheetHeader) {
		sh.dates = append(sh.dates, header[len(sheetHeader):]...)
	}

	for _, rec := range raw[1:] {
		if len(rec) == 0 {
			continue
		}
		name := rec[0]
		roll := ""
		if len(rec) > 1 {
			roll = rec[1]
		}
		if roll == "" {
			continue
		}
		row := sh.ensureRow(name, roll)
		for i, date := range sh.dates {
			col := len(sheetHeader) + i
			if col < len(rec) && rec[col] == presentMarker {
				row.marks[date] = true
			}
		}
	}
	return sh
}

// render produces the CSV grid, header first. Every row is written at full
// width so identical sheets render byte-for-byte identically.
func (sh *Sheet) render() [][]string {
	out := make([][]string, 0, len(sh.rows)+1)

	header := make([]string, 0, len(sheetHeader)+len(sh.dates))
	header = append(header, sheetHeader...)
	header = append(header, sh.dates...)
	out = append(out, header)

	for _, row := range sh.rows {
		rec := make([]string, 0, len(header))
		rec = append(rec, row.name, row.roll)
		for _, date := range sh.dates {
			if row.marks[date] {
				rec = append(rec, presentMarker)
			} else {
				rec = append(rec, "")
			}
		}
		out = append(out, rec)
	}
	return out
}

// Grid returns the rendered table including the header row. Exports render
// from this grid so downloads match the stored file.
func (sh *Sheet) Grid() [][]string {
	return sh.render()
}

// Subject returns the subject this sheet belongs to.
func (sh *Sheet) Subject() string {
	return sh.subject
}

// Dates returns the date columns in the order they were first marked.
func (sh *Sheet) Dates() []string {
	return append([]string(nil), sh.dates...)
}

// Rows returns the identity part of every row in sheet order.
func (sh *Sheet) Rows() []Row {
	out := make([]Row, 0, len(sh.rows))
	for _, row := range sh.rows {
		out = append(out, Row{Name: row.name, Roll: row.roll})
	}
	return out
}

// Present reports whether roll was marked present on date.
func (sh *Sheet) Present(roll, date string) bool {
	row, ok := sh.byRoll[roll]
	return ok && row.marks[date]
}

func (sh *Sheet) hasRoll(roll string) bool {
	_, ok := sh.byRoll[roll]
	return ok
}

func (sh *Sheet) hasDate(date string) bool {
	for _, d := range sh.dates {
		if d == date {
			return true
		}
	}
	return false
}

// ensureRow returns the row for roll, appending a bare one if missing.
func (sh *Sheet) ensureRow(name, roll string) *sheetRow {
	if row, ok := sh.byRoll[roll]; ok {
		return row
	}
	row := &sheetRow{name: name, roll: roll, marks: make(map[string]bool)}
	sh.rows = append(sh.rows, row)
	sh.byRoll[roll] = row
	return row
}

// mark sets roll present on date, appending the date column if new.
func (sh *Sheet) mark(roll, date string) {
	if !sh.hasDate(date) {
		sh.dates = append(sh.dates, date)
	}
	sh.byRoll[roll].marks[date] = true
}

// removeRoll drops the row for roll. Reports whether a row was removed.
func (sh *Sheet) removeRoll(roll string) bool {
	if _, ok := sh.byRoll[roll]; !ok {
		return false
	}
	delete(sh.byRoll, roll)
	for i, row := range sh.rows {
		if row.roll == roll {
			sh.rows = append(sh.rows[:i], sh.rows[i+1:]...)
			break
		}
	}
	return true
}

// removeDate drops the date column everywhere, header included.
func (sh *Sheet) removeDate(date string) {
	for i, d := range sh.dates {
		if d == date {
			sh.dates = append(sh.dates[:i], sh.dates[i+1:]...)
			break
		}
	}
	for _, row := range sh.rows {
		delete(row.marks, date)
	}
}

// loadSheetLocked reads the sheet file for subject. Caller holds s.mu.
// Returns os.ErrNotExist when no sheet file exists.
func (s *Store) loadSheetLocked(subject string) (*Sheet, error) {
	raw, err := readRows(s.SheetPath(subject))
	if err != nil {
		return nil, err
	}
	return parseSheet(subject, raw), nil
}

// saveSheetLocked rewrites the sheet file for subject. Caller holds s.mu.
func (s *Store) saveSheetLocked(sh *Sheet) error {
	return writeRows(s.SheetPath(sh.subject), sh.render())
}

// getOrCreateSheetLocked loads the subject's sheet, materializing one seeded
// with the current roster (no date columns) when the file is missing.
// Caller holds s.mu.
func (s *Store) getOrCreateSheetLocked(subject string) (*Sheet, error) {
	sh, err := s.loadSheetLocked(subject)
	if err == nil {
		return sh, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	students, err := s.loadStudentsLocked()
	if err != nil {
		return nil, err
	}
	sh = newSheet(subject)
	for _, st := range students {
		sh.ensureRow(st.Name, st.Roll)
	}
	if err := s.saveSheetLocked(sh); err != nil {
		return nil, err
	}
	return sh, nil
}

// GetOrCreateSheet returns the subject's sheet, creating it from the current
// roster if no sheet file exists yet. Idempotent.
func (s *Store) GetOrCreateSheet(subject string) (*Sheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateSheetLocked(subject)
}

// LoadSheet returns the subject's sheet, or NotFoundError when no sheet file
// exists.
func (s *Store) LoadSheet(subject string) (*Sheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.loadSheetLocked(subject)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, notFoundf("no attendance sheet for subject %q", subject)
		}
		return nil, err
	}
	return sh, nil
}

// MarkPresent records roll as present in subject's sheet on date. The sheet
// is created from the roster when missing. A roll that is not yet on the
// sheet is appended from the roster; an unknown roll is a NotFoundError.
// Re-marking an identical (subject, roll, date) rewrites the same file with
// the same bytes.
func (s *Store) MarkPresent(subject, roll, date string) error {
	if !validDate(date) {
		return validationf("date %q is not in YYYY-MM-DD format", date)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.getOrCreateSheetLocked(subject)
	if err != nil {
		return err
	}

	if !sh.hasRoll(roll) {
		student, err := s.findStudentLocked(roll)
		if err != nil {
			return err
		}
		if student == nil {
			return notFoundf("student %s not found", roll)
		}
		sh.ensureRow(student.Name, student.Roll)
	}

	sh.mark(roll, date)
	return s.saveSheetLocked(sh)
}

// QueryByDate returns the entries marked present in subject's sheet on date.
// A missing sheet yields an empty result, not an error.
func (s *Store) QueryByDate(subject, date string) ([]AttendanceEntry, error) {
	if !validDate(date) {
		return nil, validationf("date %q is not in YYYY-MM-DD format", date)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.loadSheetLocked(subject)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []AttendanceEntry{}, nil
		}
		return nil, err
	}

	entries := []AttendanceEntry{}
	for _, row := range sh.rows {
		if row.marks[date] {
			entries = append(entries, AttendanceEntry{
				Name:    row.name,
				Roll:    row.roll,
				Date:    date,
				Subject: subject,
			})
		}
	}
	return entries, nil
}

// DeleteDateColumn removes the date column from subject's sheet, header
// included, and rewrites the file. NotFoundError when the sheet or the
// column is absent.
func (s *Store) DeleteDateColumn(subject, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, err := s.loadSheetLocked(subject)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return notFoundf("no attendance sheet for subject %q", subject)
		}
		return err
	}
	if !sh.hasDate(date) {
		return notFoundf("no %s column in attendance sheet for subject %q", date, subject)
	}

	sh.removeDate(date)
	return s.saveSheetLocked(sh)
}

// DeleteAllSheets removes every attendance sheet file.
func (s *Store) DeleteAllSheets() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.SheetFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return err
		}
	}
	return nil
}

// ReadSheetFile returns the raw bytes of subject's sheet file for download.
func (s *Store) ReadSheetFile(subject string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.SheetPath(subject))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, notFoundf("no attendance sheet for subject %q", subject)
		}
		return nil, err
	}
	return data, nil
}
