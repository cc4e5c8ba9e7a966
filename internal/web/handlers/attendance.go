package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-attendance/internal/store"
)

// AttendanceHandler serves the attendance marking and query endpoints.
type AttendanceHandler struct {
	store *store.Store
}

// NewAttendanceHandler creates an attendance handler backed by the given store.
func NewAttendanceHandler(st *store.Store) *AttendanceHandler {
	return &AttendanceHandler{store: st}
}

// attendanceMarkRequest is a face-match result submitted by the frontend.
type attendanceMarkRequest struct {
	Name    string `json:"name"`
	Roll    string `json:"roll"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
}

// Mark records a student as present for a subject on a date. The subject's
// sheet is created on first use; re-marking the same (subject, roll, date)
// is idempotent. An unregistered roll is reported as a server error with the
// store message passed through, matching the original frontend contract.
func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	var req attendanceMarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Roll) == "" ||
		strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Date) == "" {
		respondError(w, http.StatusBadRequest, "name, roll, subject and date are required")
		return
	}

	if err := h.store.MarkPresent(req.Subject, req.Roll, req.Date); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondStoreError(w, err)
		return
	}

	log.Printf("marked %s present in %s on %s",
		sanitizeForLog(req.Roll), sanitizeForLog(req.Subject), sanitizeForLog(req.Date))
	respondMessage(w, http.StatusCreated, "attendance marked")
}

// Query returns everyone marked present for a subject on a date. A subject
// without a sheet yields an empty list.
func (h *AttendanceHandler) Query(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	date := chi.URLParam(r, "date")

	entries, err := h.store.QueryByDate(subject, date)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// DeleteAll removes every attendance sheet file.
func (h *AttendanceHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAllSheets(); err != nil {
		respondStoreError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "all attendance deleted")
}

// deleteTodayRequest names the subject whose column for today should go.
type deleteTodayRequest struct {
	Subject string `json:"subject"`
}

// DeleteToday removes today's date column from a subject's sheet, header
// cell included. Missing sheet or column is a 404.
func (h *AttendanceHandler) DeleteToday(w http.ResponseWriter, r *http.Request) {
	var req deleteTodayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if strings.TrimSpace(req.Subject) == "" {
		respondError(w, http.StatusBadRequest, "subject is required")
		return
	}

	today := store.Today()
	if err := h.store.DeleteDateColumn(req.Subject, today); err != nil {
		respondStoreError(w, err)
		return
	}

	log.Printf("deleted %s column for subject %s", today, sanitizeForLog(req.Subject))
	respondMessage(w, http.StatusOK, "today's attendance deleted")
}
