// Package export renders attendance data for download: raw CSV bundles as
// ZIP archives and single sheets as XLSX workbooks.
package export

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/kozaktomas/face-attendance/internal/store"
)

// File is one entry of the export bundle: a path on disk and its name
// inside the archive.
type File struct {
	Path string
	Name string
}

// Files lists the bundle entries that currently exist on disk: the roster,
// the subject registry and every attendance sheet. Missing files are
// omitted, never an error.
func Files(st *store.Store) ([]File, error) {
	var out []File

	fixed := []File{
		{Path: st.RosterPath(), Name: "students.csv"},
		{Path: st.SubjectsPath(), Name: "subjects.csv"},
	}
	for _, f := range fixed {
		if _, err := os.Stat(f.Path); err == nil {
			out = append(out, f)
		}
	}

	sheets, err := st.SheetFiles()
	if err != nil {
		return nil, err
	}
	for _, p := range sheets {
		out = append(out, File{Path: p, Name: path.Join("attendance", filepath.Base(p))})
	}
	return out, nil
}

// Add copies one file into the archive.
func Add(zw *zip.Writer, f File) error {
	src, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", f.Path, err)
	}
	defer src.Close()

	dst, err := zw.Create(f.Name)
	if err != nil {
		return fmt.Errorf("adding %s to archive: %w", f.Name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copying %s into archive: %w", f.Name, err)
	}
	return nil
}

// Bundle streams a ZIP archive of the whole dataset to w.
func Bundle(w io.Writer, st *store.Store) error {
	files, err := Files(st)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, f := range files {
		if err := Add(zw, f); err != nil {
			zw.Close()
			return err
		}
	}
	return zw.Close()
}
