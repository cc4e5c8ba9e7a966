package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/face-attendance/internal/store"
)

// StudentsHandler serves the roster CRUD endpoints.
type StudentsHandler struct {
	store *store.Store
}

// NewStudentsHandler creates a students handler backed by the given store.
func NewStudentsHandler(st *store.Store) *StudentsHandler {
	return &StudentsHandler{store: st}
}

// List returns every registered student, face descriptors included, so the
// frontend can load them into the matcher.
func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.ListStudents()
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, students)
}

// studentUpsertRequest is the registration payload. Descriptors arrive as
// whatever JSON the client-side model produced; the backend stores the raw
// text without interpreting it.
type studentUpsertRequest struct {
	Name        string          `json:"name"`
	Roll        string          `json:"roll"`
	Descriptors json.RawMessage `json:"descriptors"`
}

// Upsert registers a student or replaces the record with the same roll.
func (h *StudentsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req studentUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	descriptors := strings.TrimSpace(string(req.Descriptors))
	if descriptors == "null" {
		descriptors = ""
	}

	err := h.store.UpsertStudent(store.Student{
		Name:        req.Name,
		Roll:        req.Roll,
		Descriptors: descriptors,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}

	log.Printf("registered student %s (roll %s)", sanitizeForLog(req.Name), sanitizeForLog(req.Roll))
	respondJSON(w, http.StatusCreated, map[string]string{
		"name": req.Name,
		"roll": req.Roll,
	})
}

// Delete removes a student by roll number and purges their rows from every
// attendance sheet. Deleting an unknown roll succeeds silently.
func (h *StudentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	roll := chi.URLParam(r, "roll")
	if err := h.store.DeleteStudent(roll); err != nil {
		respondStoreError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "student "+roll+" deleted")
}

// Clear wipes the roster and truncates every attendance sheet.
func (h *StudentsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearStudents(); err != nil {
		respondStoreError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "all students deleted")
}
