package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/KausarTukezhan/personal-notes-manager-4/middleware"
	"github.com/KausarTukezhan/personal-notes-manager-4/models"
	"github.com/KausarTukezhan/personal-notes-manager-4/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthHandler struct {
	store      store.Store
	sessionTTL time.Duration
	logger     *zap.Logger
}

func NewAuthHandler(st store.Store, sessionTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{store: st, sessionTTL: sessionTTL, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if !emailPattern.MatchString(req.Email) {
		writeError(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	}
	if len(strings.TrimSpace(req.Password)) < 6 {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("password hashing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	user := models.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  string(hash),
		Role:      models.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.CreateUser(r.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeError(w, http.StatusBadRequest, "User with this email already exists")
			return
		}
		h.logger.Error("user insert failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Success"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	user, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Error("user lookup failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Server error during login")
			return
		}
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		Email:     user.Email,
		ExpiresAt: time.Now().Add(h.sessionTTL),
	}
	if err := h.store.CreateSession(r.Context(), &session); err != nil {
		h.logger.Error("session insert failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome"})
}

// Logout destroys the session record if one exists; logging out without a
// session is not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		if err := h.store.DeleteSession(r.Context(), cookie.Value); err != nil {
			h.logger.Error("session delete failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Logout failed")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Me reports the identity behind the current session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "No session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": caller.Email, "role": caller.Role})
}
