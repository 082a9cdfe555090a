package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/KausarTukezhan/personal-notes-manager-4/middleware"
	"github.com/KausarTukezhan/personal-notes-manager-4/models"
	"github.com/KausarTukezhan/personal-notes-manager-4/store"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type noteRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Priority string `json:"priority"`
	Category string `json:"category"`
}

type NotesHandler struct {
	store  store.Store
	logger *zap.Logger
}

func NewNotesHandler(st store.Store, logger *zap.Logger) *NotesHandler {
	return &NotesHandler{store: st, logger: logger}
}

// scope returns the ownership constraint for a caller: admins see every
// note, everyone else only their own.
func scope(caller models.Caller) *primitive.ObjectID {
	if caller.IsAdmin() {
		return nil
	}
	id := caller.ID
	return &id
}

// noteID parses the id route param, rejecting malformed ids before they
// reach the store.
func noteID(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}

func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = 1
	}

	list, err := h.store.ListNotes(r.Context(), store.NoteQuery{
		Search: r.URL.Query().Get("search"),
		Page:   page,
		Owner:  scope(caller),
	})
	if err != nil {
		h.logger.Error("note listing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())

	var req noteRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if len(strings.TrimSpace(req.Title)) < 3 {
		writeError(w, http.StatusBadRequest, "Title must be at least 3 characters long")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "Content cannot be empty")
		return
	}
	if req.Priority == "" {
		req.Priority = "Normal"
	}
	if req.Category == "" {
		req.Category = "General"
	}

	now := time.Now().UTC()
	note := models.Note{
		Title:     strings.TrimSpace(req.Title),
		Content:   strings.TrimSpace(req.Content),
		Priority:  req.Priority,
		Category:  req.Category,
		UserID:    caller.ID,
		Author:    caller.AuthorName(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.store.CreateNote(r.Context(), &note); err != nil {
		h.logger.Error("note insert failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())

	id, ok := noteID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id format")
		return
	}

	note, err := h.store.GetNote(r.Context(), id, scope(caller))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// "not yours" and "does not exist" are deliberately the same
			// answer, so ids cannot be probed.
			writeError(w, http.StatusNotFound, "Note not found")
			return
		}
		h.logger.Error("note fetch failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())

	id, ok := noteID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id format")
		return
	}

	var req noteRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if len(strings.TrimSpace(req.Title)) < 3 {
		writeError(w, http.StatusBadRequest, "Title must be at least 3 characters long")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "Content cannot be empty")
		return
	}

	note, err := h.store.UpdateNote(r.Context(), id, scope(caller),
		strings.TrimSpace(req.Title), strings.TrimSpace(req.Content))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Note not found")
			return
		}
		h.logger.Error("note update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Delete always reports success for well-formed ids, whether or not
// anything matched the scoped filter.
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())

	id, ok := noteID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid id format")
		return
	}

	if err := h.store.DeleteNote(r.Context(), id, scope(caller)); err != nil {
		h.logger.Error("note delete failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
