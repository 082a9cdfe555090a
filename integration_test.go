package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/KausarTukezhan/personal-notes-manager-4/contactlog"
	"github.com/KausarTukezhan/personal-notes-manager-4/models"
	"github.com/KausarTukezhan/personal-notes-manager-4/store"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	router *chi.Mux
	store  *store.Memory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := store.NewMemory()
	clog := contactlog.New(filepath.Join(t.TempDir(), "data", "contacts.json"))
	return &testServer{
		router: newRouter(st, clog, 24*time.Hour, zap.NewNop()),
		store:  st,
	}
}

func (ts *testServer) do(t *testing.T, method, target, cookie string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: cookie})
	}
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	rr := ts.do(t, "POST", "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Login failed with %d: %s", rr.Code, rr.Body.String())
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == "session" {
			return c.Value
		}
	}
	t.Fatal("Login response carried no session cookie")
	return ""
}

func (ts *testServer) seedAdmin(t *testing.T, email, password string) {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	err := ts.store.CreateUser(context.Background(), &models.User{
		Email:     email,
		Password:  string(hash),
		Role:      models.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Failed to seed admin: %v", err)
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, "POST", "/api/auth/register", "", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Register returned %d: %s", rr.Code, rr.Body.String())
	}

	rr = ts.do(t, "POST", "/api/auth/register", "", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Duplicate register: expected 400, got %d", rr.Code)
	}

	cookie := ts.login(t, "a@x.com", "secret1")

	rr = ts.do(t, "POST", "/api/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "wrong",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Wrong password: expected 401, got %d", rr.Code)
	}

	rr = ts.do(t, "GET", "/api/notes/me", cookie, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Me returned %d", rr.Code)
	}
	var me map[string]string
	json.Unmarshal(rr.Body.Bytes(), &me)
	if me["email"] != "a@x.com" || me["role"] != models.RoleUser {
		t.Errorf("Unexpected identity: %v", me)
	}

	rr = ts.do(t, "GET", "/api/auth/logout", cookie, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Logout returned %d", rr.Code)
	}
	rr = ts.do(t, "GET", "/api/notes/me", cookie, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 after logout, got %d", rr.Code)
	}
}

func TestNotesLifecycle(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, "POST", "/api/auth/register", "", map[string]string{"email": "alice@x.com", "password": "secret1"})
	ts.do(t, "POST", "/api/auth/register", "", map[string]string{"email": "bob@x.com", "password": "secret1"})
	alice := ts.login(t, "alice@x.com", "secret1")
	bob := ts.login(t, "bob@x.com", "secret1")

	// Unauthenticated access is rejected outright.
	rr := ts.do(t, "GET", "/api/notes", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without a session, got %d", rr.Code)
	}

	rr = ts.do(t, "POST", "/api/notes", alice, map[string]string{
		"title":   "Quarterly Report",
		"content": "draft",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Create returned %d: %s", rr.Code, rr.Body.String())
	}
	var note models.Note
	json.Unmarshal(rr.Body.Bytes(), &note)
	if note.Author != "alice" {
		t.Errorf("Expected author alice, got %q", note.Author)
	}

	// Bob cannot see, fetch, edit or (effectively) delete Alice's note.
	rr = ts.do(t, "GET", "/api/notes", bob, nil)
	var list store.NoteList
	json.Unmarshal(rr.Body.Bytes(), &list)
	if len(list.Notes) != 0 {
		t.Errorf("Bob sees %d notes that are not his", len(list.Notes))
	}
	rr = ts.do(t, "GET", "/api/notes/"+note.ID.Hex(), bob, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for Bob's fetch, got %d", rr.Code)
	}
	rr = ts.do(t, "PUT", "/api/notes/"+note.ID.Hex(), bob, map[string]string{
		"title":   "Hijacked",
		"content": "nope",
	})
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for Bob's update, got %d", rr.Code)
	}
	rr = ts.do(t, "DELETE", "/api/notes/"+note.ID.Hex(), bob, nil)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected delete to report success, got %d", rr.Code)
	}

	// The note is untouched for Alice.
	rr = ts.do(t, "GET", "/api/notes/"+note.ID.Hex(), alice, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Alice's note disappeared: %d", rr.Code)
	}

	rr = ts.do(t, "PUT", "/api/notes/"+note.ID.Hex(), alice, map[string]string{
		"title":   "Quarterly Report v2",
		"content": "final",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Update returned %d: %s", rr.Code, rr.Body.String())
	}
	var updated models.Note
	json.Unmarshal(rr.Body.Bytes(), &updated)
	if updated.Title != "Quarterly Report v2" || updated.Content != "final" {
		t.Errorf("Update not applied: %+v", updated)
	}

	rr = ts.do(t, "DELETE", "/api/notes/"+note.ID.Hex(), alice, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Delete returned %d", rr.Code)
	}
	rr = ts.do(t, "GET", "/api/notes/"+note.ID.Hex(), alice, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", rr.Code)
	}
}

func TestAdminAccess(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, "POST", "/api/auth/register", "", map[string]string{"email": "alice@x.com", "password": "secret1"})
	ts.seedAdmin(t, "admin@gold.com", "admin123")
	alice := ts.login(t, "alice@x.com", "secret1")
	admin := ts.login(t, "admin@gold.com", "admin123")

	ts.do(t, "POST", "/api/notes", alice, map[string]string{"title": "Private thoughts", "content": "secret"})

	t.Run("Admin listing spans all owners", func(t *testing.T) {
		rr := ts.do(t, "GET", "/api/notes?search=thoughts", admin, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("Admin list returned %d", rr.Code)
		}
		var list store.NoteList
		json.Unmarshal(rr.Body.Bytes(), &list)
		if len(list.Notes) != 1 {
			t.Errorf("Expected the admin to see Alice's note, got %d notes", len(list.Notes))
		}
	})

	t.Run("Contact admin endpoint is role-gated", func(t *testing.T) {
		rr := ts.do(t, "POST", "/api/contact", "", map[string]string{
			"email":   "visitor@x.com",
			"message": "hello there",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("Contact submit returned %d", rr.Code)
		}

		rr = ts.do(t, "GET", "/api/notes/admin/contacts", alice, nil)
		if rr.Code != http.StatusForbidden {
			t.Errorf("Expected 403 for a regular user, got %d", rr.Code)
		}

		rr = ts.do(t, "GET", "/api/notes/admin/contacts", admin, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("Admin contacts returned %d", rr.Code)
		}
		var messages []models.ContactMessage
		json.Unmarshal(rr.Body.Bytes(), &messages)
		if len(messages) != 1 || messages[0].Email != "visitor@x.com" {
			t.Errorf("Expected the submitted message, got %v", messages)
		}
	})
}
