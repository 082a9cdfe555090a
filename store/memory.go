package store

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/KausarTukezhan/personal-notes-manager-4/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-memory Store used by tests. It mirrors the Mongo
// implementation's semantics, including ownership scoping, duplicate email
// rejection and listing order.
type Memory struct {
	mu       sync.RWMutex
	users    map[primitive.ObjectID]*models.User
	notes    map[primitive.ObjectID]*models.Note
	sessions map[string]*models.Session
}

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[primitive.ObjectID]*models.User),
		notes:    make(map[primitive.ObjectID]*models.Note),
		sessions: make(map[string]*models.Session),
	}
}

func (s *Memory) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *Memory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) CreateSession(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *session
	s.sessions[session.Token] = &copied
	return nil
}

func (s *Memory) GetSession(ctx context.Context, token string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if session, ok := s.sessions[token]; ok {
		copied := *session
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (s *Memory) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

func (s *Memory) CreateNote(ctx context.Context, note *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if note.ID.IsZero() {
		note.ID = primitive.NewObjectID()
	}
	copied := *note
	s.notes[note.ID] = &copied
	return nil
}

func matches(n *models.Note, search string, owner *primitive.ObjectID) bool {
	if owner != nil && n.UserID != *owner {
		return false
	}
	return strings.Contains(strings.ToLower(n.Title), strings.ToLower(search))
}

func (s *Memory) ListNotes(ctx context.Context, q NoteQuery) (*NoteList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []models.Note{}
	for _, n := range s.notes {
		if matches(n, q.Search, q.Owner) {
			matched = append(matched, *n)
		}
	}

	// Newest first, id as the tie-break (ObjectIDs are monotonic within a
	// process, so this falls back to insertion order).
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return bytes.Compare(matched[i].ID[:], matched[j].ID[:]) > 0
	})

	totalPages := (len(matched) + NotesPerPage - 1) / NotesPerPage

	page := q.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * NotesPerPage
	if start > len(matched) {
		start = len(matched)
	}
	end := start + NotesPerPage
	if end > len(matched) {
		end = len(matched)
	}

	return &NoteList{Notes: matched[start:end], TotalPages: totalPages}, nil
}

func (s *Memory) GetNote(ctx context.Context, id primitive.ObjectID, owner *primitive.ObjectID) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notes[id]
	if !ok || (owner != nil && n.UserID != *owner) {
		return nil, ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (s *Memory) UpdateNote(ctx context.Context, id primitive.ObjectID, owner *primitive.ObjectID, title, content string) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok || (owner != nil && n.UserID != *owner) {
		return nil, ErrNotFound
	}
	n.Title = title
	n.Content = content
	n.UpdatedAt = time.Now().UTC()
	copied := *n
	return &copied, nil
}

func (s *Memory) DeleteNote(ctx context.Context, id primitive.ObjectID, owner *primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.notes[id]; ok {
		if owner == nil || n.UserID == *owner {
			delete(s.notes, id)
		}
	}
	return nil
}

func (s *Memory) Close(ctx context.Context) error {
	return nil
}
