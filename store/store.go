package store

import (
	"context"
	"errors"

	"github.com/KausarTukezhan/personal-notes-manager-4/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotesPerPage is the fixed page size for note listings.
const NotesPerPage = 6

var (
	ErrDuplicateEmail = errors.New("store: email already registered")
	ErrNotFound       = errors.New("store: not found")
)

// NoteQuery describes a scoped, paginated listing over the notes collection.
// Owner == nil means the query is unscoped (admin); otherwise only notes
// belonging to Owner are matched. Search is a case-insensitive substring
// match on the title; empty matches everything. Page values below 1 are
// treated as page 1.
type NoteQuery struct {
	Search string
	Page   int
	Owner  *primitive.ObjectID
}

type NoteList struct {
	Notes      []models.Note `json:"notes"`
	TotalPages int           `json:"totalPages"`
}

// Store is the document store behind the service. Mongo backs it in
// production; Memory mirrors the same semantics for tests.
//
// Note operations that take an owner follow the scoping rule of NoteQuery:
// nil matches any owner, non-nil conjoins an ownership constraint so a
// non-matching id and a non-owned note are indistinguishable to the caller.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error

	CreateNote(ctx context.Context, note *models.Note) error
	ListNotes(ctx context.Context, q NoteQuery) (*NoteList, error)
	GetNote(ctx context.Context, id primitive.ObjectID, owner *primitive.ObjectID) (*models.Note, error)
	UpdateNote(ctx context.Context, id primitive.ObjectID, owner *primitive.ObjectID, title, content string) (*models.Note, error)
	DeleteNote(ctx context.Context, id primitive.ObjectID, owner *primitive.ObjectID) error

	Close(ctx context.Context) error
}
