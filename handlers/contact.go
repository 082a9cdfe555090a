package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/KausarTukezhan/personal-notes-manager-4/contactlog"
	"go.uber.org/zap"
)

type contactRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

type ContactHandler struct {
	log    *contactlog.Log
	logger *zap.Logger
}

func NewContactHandler(log *contactlog.Log, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{log: log, logger: logger}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.Email == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "Email and message are required")
		return
	}

	if err := h.log.Append(req.Email, req.Message); err != nil {
		h.logger.Error("contact append failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// List returns every recorded contact submission. Admin only; the router
// enforces the role check.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.log.All()
	if err != nil {
		h.logger.Error("contact read failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}
