package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/KausarTukezhan/personal-notes-manager-4/contactlog"
	"github.com/KausarTukezhan/personal-notes-manager-4/models"
	"go.uber.org/zap"
)

func newContactHandler(t *testing.T) *ContactHandler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "contacts.json")
	return NewContactHandler(contactlog.New(path), zap.NewNop())
}

func TestContactSubmit(t *testing.T) {
	h := newContactHandler(t)

	t.Run("Missing fields", func(t *testing.T) {
		for _, body := range []map[string]string{
			{"email": "a@x.com"},
			{"message": "hello"},
			{},
		} {
			rr := postJSON(h.Submit, "/api/contact", body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("Body %v: expected 400, got %d", body, rr.Code)
			}
		}
	})

	t.Run("Submission is appended and readable", func(t *testing.T) {
		rr := postJSON(h.Submit, "/api/contact", map[string]string{
			"email":   "a@x.com",
			"message": "love the app",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var body map[string]bool
		json.Unmarshal(rr.Body.Bytes(), &body)
		if !body["success"] {
			t.Errorf("Expected success body, got %v", body)
		}

		listRR := httptest.NewRecorder()
		h.List(listRR, httptest.NewRequest("GET", "/api/notes/admin/contacts", nil))
		var messages []models.ContactMessage
		json.Unmarshal(listRR.Body.Bytes(), &messages)
		if len(messages) != 1 || messages[0].Email != "a@x.com" {
			t.Errorf("Expected the submission back, got %v", messages)
		}
		if messages[0].SubmittedAt.IsZero() {
			t.Error("Expected a submission timestamp")
		}
	})
}

func TestContactListEmpty(t *testing.T) {
	h := newContactHandler(t)

	// No file on disk yet; the admin view must still return a list.
	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest("GET", "/api/notes/admin/contacts", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != "[]\n" {
		t.Errorf("Expected empty JSON array, got %q", rr.Body.String())
	}
}
