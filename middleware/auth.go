package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/KausarTukezhan/personal-notes-manager-4/models"
	"github.com/KausarTukezhan/personal-notes-manager-4/store"
	"go.uber.org/zap"
)

// SessionCookie is the name of the cookie carrying the opaque session token.
const SessionCookie = "session"

type ctxKey int

const callerKey ctxKey = iota

// SessionAuth resolves session cookies into a typed Caller attached to the
// request context.
type SessionAuth struct {
	store  store.Store
	logger *zap.Logger
}

func NewSessionAuth(st store.Store, logger *zap.Logger) *SessionAuth {
	return &SessionAuth{store: st, logger: logger}
}

// RequireSession rejects requests without a live session. Expired sessions
// are deleted on sight rather than waiting for the store to reap them.
func (a *SessionAuth) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil {
			unauthorized(w)
			return
		}

		session, err := a.store.GetSession(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				a.logger.Error("session lookup failed", zap.Error(err))
				http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
				return
			}
			unauthorized(w)
			return
		}
		if time.Now().After(session.ExpiresAt) {
			if err := a.store.DeleteSession(r.Context(), session.Token); err != nil {
				a.logger.Warn("failed to delete expired session", zap.Error(err))
			}
			unauthorized(w)
			return
		}

		caller := models.Caller{ID: session.UserID, Role: session.Role, Email: session.Email}
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

// RequireAdmin must run after RequireSession.
func (a *SessionAuth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFrom(r.Context())
		if !ok {
			unauthorized(w)
			return
		}
		if !caller.IsAdmin() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"Forbidden"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}

// WithCaller returns a context carrying the resolved caller identity.
func WithCaller(ctx context.Context, caller models.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFrom extracts the caller resolved by RequireSession.
func CallerFrom(ctx context.Context) (models.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(models.Caller)
	return caller, ok
}
