package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/names"
)

// loadSubjectsLocked reads the registry file. A missing file is an empty
// registry. Caller holds s.mu.
func (s *Store) loadSubjectsLocked() ([]string, error) {
	raw, err := readRows(s.SubjectsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var subjects []string
	for i, rec := range raw {
		if i == 0 {
			continue // header
		}
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		subjects = append(subjects, rec[0])
	}
	return subjects, nil
}

// saveSubjectsLocked rewrites the registry file. Caller holds s.mu.
func (s *Store) saveSubjectsLocked(subjects []string) error {
	rows := make([][]string, 0, len(subjects)+1)
	rows = append(rows, subjectsHeader)
	for _, subj := range subjects {
		rows = append(rows, []string{subj})
	}
	return writeRows(s.SubjectsPath(), rows)
}

// ListSubjects returns the registered subjects in file order. Pure read; run
// Reconcile first to fold in sheets created outside the registry.
func (s *Store) ListSubjects() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subjects, err := s.loadSubjectsLocked()
	if err != nil {
		return nil, err
	}
	if subjects == nil {
		subjects = []string{}
	}
	return subjects, nil
}

// Reconcile scans the attendance directory for sheet files whose subject is
// not in the registry and merges them in, persisting the registry when
// anything was found. Keeps the registry self-healing after sheets appear
// out of band (restored backups, hand-copied files).
func (s *Store) Reconcile() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subjects, err := s.loadSubjectsLocked()
	if err != nil {
		return err
	}

	known := make(map[string]struct{}, len(subjects))
	for _, subj := range subjects {
		known[names.Slug(subj)] = struct{}{}
	}

	files, err := s.SheetFiles()
	if err != nil {
		return err
	}

	merged := false
	for _, f := range files {
		slug := subjectFromSheetFile(f)
		if _, ok := known[slug]; ok {
			continue
		}
		subjects = append(subjects, slug)
		known[slug] = struct{}{}
		merged = true
	}

	if !merged {
		return nil
	}
	return s.saveSubjectsLocked(subjects)
}

// CreateSubject registers a new subject and eagerly materializes its sheet
// from the current roster. ConflictError when a subject with the same name
// (or a name mapping to the same sheet file) already exists.
func (s *Store) CreateSubject(name string) error {
	if strings.TrimSpace(name) == "" {
		return validationf("subject is required")
	}
	slug := names.Slug(name)
	if slug == "" {
		return validationf("subject %q has no usable characters", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subjects, err := s.loadSubjectsLocked()
	if err != nil {
		return err
	}
	for _, subj := range subjects {
		if subj == name || names.Slug(subj) == slug {
			return &ConflictError{Msg: fmt.Sprintf("subject %q already exists", name)}
		}
	}

	subjects = append(subjects, name)
	if err := s.saveSubjectsLocked(subjects); err != nil {
		return err
	}

	_, err = s.getOrCreateSheetLocked(name)
	return err
}
