package database

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// MemoryBackend keeps documents in process, bson-encoded so reads never alias stored values.
// It is meant for local development and tests.
type MemoryBackend struct {
	mu          sync.Mutex
	collections map[string]*memoryStore
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{collections: make(map[string]*memoryStore)}
}

func (b *MemoryBackend) Name() string { return "memory" }

func (b *MemoryBackend) Ping(context.Context) error { return nil }

func (b *MemoryBackend) Close(context.Context) error { return nil }

func (b *MemoryBackend) store(name string) *memoryStore {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.collections[name]
	if !ok {
		s = &memoryStore{docs: make(map[string]bson.Raw)}
		b.collections[name] = s
	}
	return s
}

type memoryStore struct {
	mu    sync.RWMutex
	docs  map[string]bson.Raw
	order []string
}

type memoryCollection[T any] struct {
	store *memoryStore
}

func encode[T any](doc T, id string) (bson.Raw, error) {
	setID(&doc, id)
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("memory: encode: %w", err)
	}
	return raw, nil
}

func decode[T any](raw bson.Raw, id string) (T, error) {
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("memory: decode: %w", err)
	}
	setID(&doc, id)
	return doc, nil
}

func fieldEquals(raw bson.Raw, field string, value any) (bool, error) {
	rv, err := raw.LookupErr(field)
	if err != nil {
		return false, nil
	}
	t, data, err := bson.MarshalValue(value)
	if err != nil {
		return false, fmt.Errorf("memory: encode filter value: %w", err)
	}
	return rv.Type == t && bytes.Equal(rv.Value, data), nil
}

func (c *memoryCollection[T]) insertLocked(id string, raw bson.Raw) error {
	if _, exists := c.store.docs[id]; exists {
		return ErrDuplicate
	}
	c.store.docs[id] = raw
	c.store.order = append(c.store.order, id)
	return nil
}

func (c *memoryCollection[T]) Insert(_ context.Context, id string, doc T) error {
	raw, err := encode(doc, id)
	if err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.insertLocked(id, raw)
}

func (c *memoryCollection[T]) CreateIfAbsent(_ context.Context, id string, doc T, field string, value any) error {
	raw, err := encode(doc, id)
	if err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	for _, existing := range c.store.docs {
		match, err := fieldEquals(existing, field, value)
		if err != nil {
			return err
		}
		if match {
			return ErrDuplicate
		}
	}
	return c.insertLocked(id, raw)
}

func (c *memoryCollection[T]) Get(_ context.Context, id string) (T, error) {
	c.store.mu.RLock()
	raw, ok := c.store.docs[id]
	c.store.mu.RUnlock()
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return decode[T](raw, id)
}

func (c *memoryCollection[T]) FindEqual(_ context.Context, field string, value any, limit int) ([]T, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	docs := []T{}
	for _, id := range c.store.order {
		raw := c.store.docs[id]
		match, err := fieldEquals(raw, field, value)
		if err != nil {
			return nil, err
		}
		if !match {
			continue
		}
		doc, err := decode[T](raw, id)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		if limit > 0 && len(docs) == limit {
			break
		}
	}
	return docs, nil
}

func (c *memoryCollection[T]) List(_ context.Context) ([]T, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	docs := make([]T, 0, len(c.store.order))
	for _, id := range c.store.order {
		doc, err := decode[T](c.store.docs[id], id)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (c *memoryCollection[T]) Replace(_ context.Context, id string, doc T) error {
	raw, err := encode(doc, id)
	if err != nil {
		return err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if _, ok := c.store.docs[id]; !ok {
		return ErrNotFound
	}
	c.store.docs[id] = raw
	return nil
}

func (c *memoryCollection[T]) Delete(_ context.Context, id string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	if _, ok := c.store.docs[id]; !ok {
		return ErrNotFound
	}
	delete(c.store.docs, id)
	for i, existing := range c.store.order {
		if existing == id {
			c.store.order = append(c.store.order[:i], c.store.order[i+1:]...)
			break
		}
	}
	return nil
}

// EnsureUnique is a no-op; CreateIfAbsent holds the store lock across check and insert.
func (c *memoryCollection[T]) EnsureUnique(context.Context, string) error {
	return nil
}
