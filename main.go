package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/KausarTukezhan/personal-notes-manager-4/config"
	"github.com/KausarTukezhan/personal-notes-manager-4/contactlog"
	"github.com/KausarTukezhan/personal-notes-manager-4/handlers"
	appmw "github.com/KausarTukezhan/personal-notes-manager-4/middleware"
	"github.com/KausarTukezhan/personal-notes-manager-4/store"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := store.NewMongo(ctx, cfg.MongoURI, cfg.Database, logger)
	cancel()
	if err != nil {
		logger.Fatal("failed to connect to store", zap.Error(err))
	}
	defer st.Close(context.Background())

	r := newRouter(st, contactlog.New(cfg.ContactsFile), cfg.SessionTTL, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newRouter(st store.Store, clog *contactlog.Log, sessionTTL time.Duration, logger *zap.Logger) *chi.Mux {
	auth := handlers.NewAuthHandler(st, sessionTTL, logger)
	notes := handlers.NewNotesHandler(st, logger)
	contact := handlers.NewContactHandler(clog, logger)
	sessions := appmw.NewSessionAuth(st, logger)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(logger))

	r.Post("/api/auth/register", auth.Register)
	r.Post("/api/auth/login", auth.Login)
	r.Get("/api/auth/logout", auth.Logout)
	r.Post("/api/contact", contact.Submit)

	r.Route("/api/notes", func(r chi.Router) {
		r.Use(sessions.RequireSession)
		r.Get("/", notes.List)
		r.Post("/", notes.Create)
		r.Get("/me", auth.Me)
		r.With(sessions.RequireAdmin).Get("/admin/contacts", contact.List)
		r.Get("/{id}", notes.Get)
		r.Put("/{id}", notes.Update)
		r.Delete("/{id}", notes.Delete)
	})

	r.Handle("/*", http.FileServer(http.Dir("public")))

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)))
		})
	}
}
