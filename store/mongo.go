package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/KausarTukezhan/personal-notes-manager-4/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Mongo implements Store over a single shared client connection.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongo connects to the given URI, pings the server and ensures the
// indexes the service relies on. The client is shared by all requests for
// the lifetime of the process.
func NewMongo(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	m := &Mongo{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}
	if err := m.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}
	logger.Info("connected to mongodb", zap.String("database", dbName))
	return m, nil
}

// ensureIndexes enforces email uniqueness at the storage layer and lets the
// server reap expired sessions. Both are idempotent across restarts.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = m.sessions().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

func (m *Mongo) users() *mongo.Collection    { return m.db.Collection("users") }
func (m *Mongo) notes() *mongo.Collection    { return m.db.Collection("notes") }
func (m *Mongo) sessions() *mongo.Collection { return m.db.Collection("sessions") }

func (m *Mongo) CreateUser(ctx context.Context, user *models.User) error {
	res, err := m.users().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (m *Mongo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := m.users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (m *Mongo) CreateSession(ctx context.Context, session *models.Session) error {
	_, err := m.sessions().InsertOne(ctx, session)
	return err
}

func (m *Mongo) GetSession(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	err := m.sessions().FindOne(ctx, bson.M{"_id": token}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (m *Mongo) DeleteSession(ctx context.Context, token string) error {
	_, err := m.sessions().DeleteOne(ctx, bson.M{"_id": token})
	return err
}

func (m *Mongo) CreateNote(ctx context.Context, note *models.Note) error {
	res, err := m.notes().InsertOne(ctx, note)
	if err != nil {
		return err
	}
	note.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// noteFilter builds the scoped filter shared by the single-note operations.
func noteFilter(id primitive.ObjectID, owner *primitive.ObjectID) bson.M {
	filter := bson.M{"_id": id}
	if owner != nil {
		filter["userId"] = *owner
	}
	return filter
}

func (m *Mongo) ListNotes(ctx context.Context, q NoteQuery) (*NoteList, error) {
	filter := bson.M{"title": primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}}
	if q.Owner != nil {
		filter["userId"] = *q.Owner
	}

	total, err := m.notes().CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	// Tie-break on _id so pages stay stable when createdAt collides.
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * NotesPerPage)).
		SetLimit(NotesPerPage)

	cur, err := m.notes().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	notes := []models.Note{}
	if err := cur.All(ctx, &notes); err != nil {
		return nil, err
	}

	return &NoteList{
		Notes:      notes,
		TotalPages: int((total + NotesPerPage - 1) / NotesPerPage),
	}, nil
}

func (m *Mongo) GetNote(ctx context.Context, id primitive.ObjectID, owner *primitive.ObjectID) (*models.Note, error) {
	var note models.Note
	err := m.notes().FindOne(ctx, noteFilter(id, owner)).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (m *Mongo) UpdateNote(ctx context.Context, id primitive.ObjectID, owner *primitive.ObjectID, title, content string) (*models.Note, error) {
	update := bson.M{"$set": bson.M{
		"title":     title,
		"content":   content,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note models.Note
	err := m.notes().FindOneAndUpdate(ctx, noteFilter(id, owner), update, opts).Decode(&note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// DeleteNote is idempotent: deleting an id that matches nothing is not an
// error, so callers cannot probe for the existence of other users' notes.
func (m *Mongo) DeleteNote(ctx context.Context, id primitive.ObjectID, owner *primitive.ObjectID) error {
	_, err := m.notes().DeleteOne(ctx, noteFilter(id, owner))
	return err
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
