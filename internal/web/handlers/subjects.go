package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/kozaktomas/face-attendance/internal/store"
)

// SubjectsHandler serves the subject registry endpoints.
type SubjectsHandler struct {
	store *store.Store
}

// NewSubjectsHandler creates a subjects handler backed by the given store.
func NewSubjectsHandler(st *store.Store) *SubjectsHandler {
	return &SubjectsHandler{store: st}
}

// SubjectResponse represents one subject in API responses.
type SubjectResponse struct {
	Subject string `json:"subject"`
}

// List returns every registered subject. Sheet files that appeared on disk
// without a registry entry are reconciled into the registry first, so the
// response reflects everything the attendance directory holds.
func (h *SubjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reconcile(); err != nil {
		respondStoreError(w, err)
		return
	}

	subjects, err := h.store.ListSubjects()
	if err != nil {
		respondStoreError(w, err)
		return
	}

	response := make([]SubjectResponse, len(subjects))
	for i, subj := range subjects {
		response[i] = SubjectResponse{Subject: subj}
	}
	respondJSON(w, http.StatusOK, response)
}

// subjectCreateRequest is the body of a subject creation call.
type subjectCreateRequest struct {
	Subject string `json:"subject"`
}

// Create registers a new subject and materializes its attendance sheet from
// the current roster.
func (h *SubjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req subjectCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if err := h.store.CreateSubject(req.Subject); err != nil {
		respondStoreError(w, err)
		return
	}

	log.Printf("created subject %s", sanitizeForLog(req.Subject))
	respondJSON(w, http.StatusCreated, SubjectResponse{Subject: req.Subject})
}
