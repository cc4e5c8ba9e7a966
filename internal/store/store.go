// Package store persists students, subjects and per-subject attendance
// sheets as flat CSV files under a single data directory.
//
// Layout:
//
//	<dataDir>/students.csv                      name,roll,descriptors
//	<dataDir>/subjects.csv                      subject
//	<dataDir>/attendance/<slug>_attendance.csv  name,roll,<YYYY-MM-DD>...
//
// A mutex serializes every read-modify-write cycle within the process.
// Cascades that touch several files (student deletion, clear) are sequences
// of independent writes with no rollback; across processes the files are
// last-writer-wins.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kozaktomas/face-attendance/internal/names"
)

const (
	rosterFile    = "students.csv"
	subjectsFile  = "subjects.csv"
	attendanceDir = "attendance"
	sheetSuffix   = "_attendance.csv"

	// presentMarker is the only value a date cell may hold besides empty.
	presentMarker = "Present"
)

var (
	rosterHeader   = []string{"name", "roll", "descriptors"}
	subjectsHeader = []string{"subject"}
	sheetHeader    = []string{"name", "roll"}
)

// Student is one roster record. Descriptors is the serialized face
// descriptor blob produced by the client-side model; the store never
// interprets it.
type Student struct {
	Name        string `json:"name"`
	Roll        string `json:"roll"`
	Descriptors string `json:"descriptors"`
}

// AttendanceEntry is one row of a by-date attendance query.
type AttendanceEntry struct {
	Name    string `json:"name"`
	Roll    string `json:"roll"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
}

// Store owns the CSV files of one data directory.
type Store struct {
	mu      sync.Mutex
	dataDir string
}

// Open prepares a store rooted at dataDir, creating the directory tree if
// needed.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dataDir, attendanceDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{dataDir: dataDir}, nil
}

// RosterPath returns the path of the student roster file.
func (s *Store) RosterPath() string {
	return filepath.Join(s.dataDir, rosterFile)
}

// SubjectsPath returns the path of the subject registry file.
func (s *Store) SubjectsPath() string {
	return filepath.Join(s.dataDir, subjectsFile)
}

// SheetPath returns the path of the attendance sheet file for a subject.
func (s *Store) SheetPath(subject string) string {
	return filepath.Join(s.dataDir, attendanceDir, names.Slug(subject)+sheetSuffix)
}

// SheetFiles returns the paths of all attendance sheet files, sorted by name.
func (s *Store) SheetFiles() ([]string, error) {
	dir := filepath.Join(s.dataDir, attendanceDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading attendance directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), sheetSuffix) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Today returns the server-local date in the sheet column format.
func Today() string {
	return time.Now().Format(time.DateOnly)
}

// validDate reports whether date is a well-formed YYYY-MM-DD value. Dates
// become sheet columns, so malformed ones are rejected before they can leak
// into a header.
func validDate(date string) bool {
	_, err := time.Parse(time.DateOnly, date)
	return err == nil
}
