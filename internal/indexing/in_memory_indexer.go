package indexing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// InMemoryIndexer is a thread-safe fake for tests:
// store[collectionName][documentID] = document.
type InMemoryIndexer struct {
	mu    sync.RWMutex
	store map[string]map[string]any
}

func NewInMemoryIndexer() Indexer {
	return &InMemoryIndexer{
		store: make(map[string]map[string]any),
	}
}

func (i *InMemoryIndexer) EnsureCollection(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.store[CollectionListings] == nil {
		i.store[CollectionListings] = make(map[string]any)
	}
	return nil
}

func (i *InMemoryIndexer) HealthCheck(ctx context.Context) error {
	return nil
}

// Upsert mimics the update-or-insert behavior of real search engines, keyed
// by the document's "id" field.
func (i *InMemoryIndexer) Upsert(ctx context.Context, collectionName string, document any) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.store[collectionName] == nil {
		i.store[collectionName] = make(map[string]any)
	}

	id, err := i.extractID(document)
	if err != nil {
		return fmt.Errorf("in-memory upsert failed: %w", err)
	}

	i.store[collectionName][id] = document
	return nil
}

func (i *InMemoryIndexer) Delete(ctx context.Context, collectionName string, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if bucket, exists := i.store[collectionName]; exists {
		delete(bucket, id)
	}
	return nil
}

func (i *InMemoryIndexer) Count(ctx context.Context, collectionName string) (int64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if bucket, exists := i.store[collectionName]; exists {
		return int64(len(bucket)), nil
	}
	return 0, nil
}

// Get lets tests inspect the state of the index.
func (i *InMemoryIndexer) Get(ctx context.Context, collectionName string, id string) (any, bool, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if bucket, exists := i.store[collectionName]; exists {
		doc, found := bucket[id]
		return doc, found, nil
	}
	return nil, false, nil
}

// Clear resets the storage between test cases.
func (i *InMemoryIndexer) Clear() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.store = make(map[string]map[string]any)
}

func (i *InMemoryIndexer) extractID(doc any) (string, error) {
	if m, ok := doc.(map[string]any); ok {
		if idVal, ok := m["id"]; ok {
			return fmt.Sprintf("%v", idVal), nil
		}
	}

	// Struct documents take a JSON round-trip. Slow, fine for tests.
	b, err := json.Marshal(doc)
	if err != nil {
		return "", errors.New("cannot marshal document")
	}

	var tempMap map[string]any
	if err := json.Unmarshal(b, &tempMap); err != nil {
		return "", errors.New("cannot unmarshal document to map")
	}

	if idVal, ok := tempMap["id"]; ok {
		return fmt.Sprintf("%v", idVal), nil
	}

	return "", errors.New("document missing 'id' field")
}

func (i *InMemoryIndexer) Close() error {
	return nil
}
