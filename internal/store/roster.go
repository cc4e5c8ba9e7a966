package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// loadStudentsLocked reads the roster file. A missing file is an empty
// roster. Caller holds s.mu.
func (s *Store) loadStudentsLocked() ([]Student, error) {
	raw, err := readRows(s.RosterPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var students []Student
	for i, rec := range raw {
		if i == 0 {
			continue // header
		}
		if len(rec) < 2 || rec[1] == "" {
			continue
		}
		st := Student{Name: rec[0], Roll: rec[1]}
		if len(rec) > 2 {
			st.Descriptors = rec[2]
		}
		students = append(students, st)
	}
	return students, nil
}

// saveStudentsLocked rewrites the roster file. Caller holds s.mu.
func (s *Store) saveStudentsLocked(students []Student) error {
	rows := make([][]string, 0, len(students)+1)
	rows = append(rows, rosterHeader)
	for _, st := range students {
		rows = append(rows, []string{st.Name, st.Roll, st.Descriptors})
	}
	return writeRows(s.RosterPath(), rows)
}

// findStudentLocked returns the roster record for roll, or nil when absent.
// Caller holds s.mu.
func (s *Store) findStudentLocked(roll string) (*Student, error) {
	students, err := s.loadStudentsLocked()
	if err != nil {
		return nil, err
	}
	for i := range students {
		if students[i].Roll == roll {
			return &students[i], nil
		}
	}
	return nil, nil
}

// ListStudents returns every roster record in file order.
func (s *Store) ListStudents() ([]Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.loadStudentsLocked()
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []Student{}
	}
	return students, nil
}

// UpsertStudent registers or updates a student keyed by roll number. An
// existing record is replaced in place; a new one is appended and fanned out
// as a bare name/roll row into every sheet that does not already carry the
// roll. The fan-out is a sequence of independent sheet rewrites; a failure
// partway leaves earlier sheets updated.
func (s *Store) UpsertStudent(st Student) error {
	if strings.TrimSpace(st.Name) == "" || strings.TrimSpace(st.Roll) == "" || st.Descriptors == "" {
		return validationf("name, roll and descriptors are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.loadStudentsLocked()
	if err != nil {
		return err
	}

	replaced := false
	for i := range students {
		if students[i].Roll == st.Roll {
			students[i] = st
			replaced = true
			break
		}
	}
	if !replaced {
		students = append(students, st)
	}

	if err := s.saveStudentsLocked(students); err != nil {
		return err
	}
	return s.addRowToSheetsLocked(st)
}

// DeleteStudent removes the roster record for roll, silently succeeding when
// it does not exist, then purges any row with that roll from every sheet.
func (s *Store) DeleteStudent(roll string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.loadStudentsLocked()
	if err != nil {
		return err
	}

	kept := students[:0]
	for _, st := range students {
		if st.Roll != roll {
			kept = append(kept, st)
		}
	}
	if err := s.saveStudentsLocked(kept); err != nil {
		return err
	}
	return s.removeRollFromSheetsLocked(roll)
}

// ClearStudents truncates the roster and every sheet to empty in one wipe.
// Sheets keep their fixed header but lose all rows and date columns.
func (s *Store) ClearStudents() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveStudentsLocked(nil); err != nil {
		return err
	}

	files, err := s.SheetFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		sh := newSheet(subjectFromSheetFile(f))
		if err := writeRows(f, sh.render()); err != nil {
			return err
		}
	}
	return nil
}

// addRowToSheetsLocked inserts a bare name/roll row into every sheet missing
// the roll. Sheets that already carry it are skipped, which makes repeated
// upserts idempotent. Caller holds s.mu.
func (s *Store) addRowToSheetsLocked(st Student) error {
	files, err := s.SheetFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		subject := subjectFromSheetFile(f)
		sh, err := s.loadSheetLocked(subject)
		if err != nil {
			return err
		}
		if sh.hasRoll(st.Roll) {
			continue
		}
		sh.ensureRow(st.Name, st.Roll)
		if err := s.saveSheetLocked(sh); err != nil {
			return err
		}
	}
	return nil
}

// removeRollFromSheetsLocked drops the roll's row from every sheet carrying
// it. Caller holds s.mu.
func (s *Store) removeRollFromSheetsLocked(roll string) error {
	files, err := s.SheetFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		subject := subjectFromSheetFile(f)
		sh, err := s.loadSheetLocked(subject)
		if err != nil {
			return err
		}
		if !sh.removeRoll(roll) {
			continue
		}
		if err := s.saveSheetLocked(sh); err != nil {
			return err
		}
	}
	return nil
}

// subjectFromSheetFile recovers the subject slug from a sheet filename.
func subjectFromSheetFile(path string) string {
	return strings.TrimSuffix(filepath.Base(path), sheetSuffix)
}
