package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-attendance/internal/export"
	"github.com/kozaktomas/face-attendance/internal/names"
	"github.com/kozaktomas/face-attendance/internal/store"
)

// ExportHandler serves the download endpoints.
type ExportHandler struct {
	store *store.Store
}

// NewExportHandler creates an export handler backed by the given store.
func NewExportHandler(st *store.Store) *ExportHandler {
	return &ExportHandler{store: st}
}

// Sheet streams a subject's raw attendance sheet as a CSV download.
func (h *ExportHandler) Sheet(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")

	data, err := h.store.ReadSheetFile(subject)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	filename := names.Slug(subject) + "_attendance.csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// SheetXLSX renders a subject's attendance sheet as an Excel workbook.
func (h *ExportHandler) SheetXLSX(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")

	sh, err := h.store.LoadSheet(subject)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	wb, err := export.SheetWorkbook(sh)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := names.Slug(subject) + "_attendance.xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := wb.Write(w); err != nil {
		log.Printf("streaming xlsx for %s: %v", sanitizeForLog(subject), err)
	}
}

// Bundle streams the whole dataset (roster, registry, every sheet) as a ZIP
// archive. Files missing on disk are left out.
func (h *ExportHandler) Bundle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance_export.zip"`)
	w.WriteHeader(http.StatusOK)

	if err := export.Bundle(w, h.store); err != nil {
		// Headers are gone; the best we can do is log the failure.
		log.Printf("streaming export bundle: %v", err)
	}
}
