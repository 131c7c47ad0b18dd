package database

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreBackend is a Cloud Firestore client obtained from the Firebase app.
type FirestoreBackend struct {
	client *firestore.Client
}

func NewFirestoreBackend(ctx context.Context, app *firebase.App) (*FirestoreBackend, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Firestore client: %w", err)
	}
	return &FirestoreBackend{client: client}, nil
}

func (b *FirestoreBackend) Name() string { return "firestore" }

// Ping lists one collection id; an empty database still answers with iterator.Done.
func (b *FirestoreBackend) Ping(ctx context.Context) error {
	_, err := b.client.Collections(ctx).Next()
	if errors.Is(err, iterator.Done) {
		return nil
	}
	return err
}

func (b *FirestoreBackend) Close(context.Context) error {
	return b.client.Close()
}

type firestoreCollection[T any] struct {
	client *firestore.Client
	name   string
}

func (c *firestoreCollection[T]) ref() *firestore.CollectionRef {
	return c.client.Collection(c.name)
}

func (c *firestoreCollection[T]) Insert(ctx context.Context, id string, doc T) error {
	_, err := c.ref().Doc(id).Create(ctx, doc)
	if status.Code(err) == codes.AlreadyExists {
		return ErrDuplicate
	}
	return err
}

// CreateIfAbsent runs the existence query and the create in one transaction.
func (c *firestoreCollection[T]) CreateIfAbsent(ctx context.Context, id string, doc T, field string, value any) error {
	return c.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(c.ref().Where(field, "==", value).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrDuplicate
		}
		return tx.Create(c.ref().Doc(id), doc)
	})
}

func (c *firestoreCollection[T]) Get(ctx context.Context, id string) (T, error) {
	var doc T
	snap, err := c.ref().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return doc, ErrNotFound
	}
	if err != nil {
		return doc, err
	}
	if err := snap.DataTo(&doc); err != nil {
		return doc, err
	}
	setID(&doc, snap.Ref.ID)
	return doc, nil
}

func (c *firestoreCollection[T]) FindEqual(ctx context.Context, field string, value any, limit int) ([]T, error) {
	q := c.ref().Where(field, "==", value)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return c.decodeAll(q.Documents(ctx))
}

func (c *firestoreCollection[T]) List(ctx context.Context) ([]T, error) {
	return c.decodeAll(c.ref().Documents(ctx))
}

func (c *firestoreCollection[T]) decodeAll(it *firestore.DocumentIterator) ([]T, error) {
	snaps, err := it.GetAll()
	if err != nil {
		return nil, err
	}
	docs := make([]T, 0, len(snaps))
	for _, snap := range snaps {
		var doc T
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", c.name, snap.Ref.ID, err)
		}
		setID(&doc, snap.Ref.ID)
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *firestoreCollection[T]) Replace(ctx context.Context, id string, doc T) error {
	ref := c.ref().Doc(id)
	return c.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		return tx.Set(ref, doc)
	})
}

func (c *firestoreCollection[T]) Delete(ctx context.Context, id string) error {
	_, err := c.ref().Doc(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

// EnsureUnique is a no-op: firestore has no unique indexes, CreateIfAbsent covers it.
func (c *firestoreCollection[T]) EnsureUnique(context.Context, string) error {
	return nil
}
