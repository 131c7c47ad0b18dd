package database

import (
	"context"
	"errors"
	"fmt"

	"astrodesk/config"

	firebase "firebase.google.com/go/v4"
)

var (
	// ErrNotFound is returned when no document has the requested id.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write would break a uniqueness guarantee.
	ErrDuplicate = errors.New("document already exists")
)

// Backend is a connected document store. Collections are opened with NewCollection.
type Backend interface {
	Name() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Collection is a named set of documents of one shape, addressed by string ids.
type Collection[T any] interface {
	Insert(ctx context.Context, id string, doc T) error
	// CreateIfAbsent inserts doc unless a document with field == value already exists,
	// in which case it returns ErrDuplicate.
	CreateIfAbsent(ctx context.Context, id string, doc T, field string, value any) error
	Get(ctx context.Context, id string) (T, error)
	// FindEqual returns documents whose field equals value; limit <= 0 means no limit.
	FindEqual(ctx context.Context, field string, value any, limit int) ([]T, error)
	List(ctx context.Context) ([]T, error)
	Replace(ctx context.Context, id string, doc T) error
	Delete(ctx context.Context, id string) error
	// EnsureUnique asks the backend to enforce uniqueness of field where it can.
	EnsureUnique(ctx context.Context, field string) error
}

// identifiable documents get their id restored by backends that keep it outside the body.
type identifiable interface {
	SetID(id string)
}

func setID[T any](doc *T, id string) {
	if d, ok := any(doc).(identifiable); ok {
		d.SetID(id)
	}
}

// NewCollection opens collection name on b.
func NewCollection[T any](b Backend, name string) Collection[T] {
	switch b := b.(type) {
	case *MongoBackend:
		return &mongoCollection[T]{coll: b.db.Collection(name)}
	case *FirestoreBackend:
		return &firestoreCollection[T]{client: b.client, name: name}
	case *MemoryBackend:
		return &memoryCollection[T]{store: b.store(name)}
	default:
		panic(fmt.Sprintf("database: unsupported backend %T", b))
	}
}

// Open connects the backend selected by DOCUMENT_STORE. app is only required for firestore.
func Open(ctx context.Context, cfg *config.Config, app *firebase.App) (Backend, error) {
	switch cfg.DocumentStore {
	case config.DocumentStoreMongo:
		return NewMongoBackend(ctx, cfg.DatabaseURL, cfg.DatabaseName)
	case config.DocumentStoreFirestore:
		if app == nil {
			return nil, errors.New("database: firestore requires a firebase app")
		}
		return NewFirestoreBackend(ctx, app)
	case config.DocumentStoreMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("database: unknown document store %q", cfg.DocumentStore)
	}
}
