package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// readRows reads a delimited file into raw rows, header included. Rows may
// be ragged; callers normalize widths. Returns os.ErrNotExist (wrapped) when
// the file is missing so callers can distinguish absence from corruption.
func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// writeRows rewrites the whole file. The write goes to a uuid-suffixed temp
// file in the same directory and is renamed into place, so readers never see
// a half-written table. Concurrent writers still race: last rename wins.
func writeRows(path string, rows [][]string) error {
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.New().String())

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(tmp), err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", filepath.Base(tmp), err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
