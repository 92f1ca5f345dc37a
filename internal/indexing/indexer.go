package indexing

import "context"

// CollectionListings is the search collection the worker maintains.
const CollectionListings = "listings"

// Indexer is the search-engine contract. Typesense today; the interface keeps
// the worker testable and leaves room to swap engines.
type Indexer interface {
	// EnsureCollection creates the listings collection schema if it does not
	// exist yet. Called once on worker boot.
	EnsureCollection(ctx context.Context) error

	// Upsert adds or replaces a document.
	Upsert(ctx context.Context, collectionName string, document any) error

	// Delete removes a document by ID.
	Delete(ctx context.Context, collectionName string, id string) error

	// Get retrieves a document by ID.
	Get(ctx context.Context, collectionName string, id string) (any, bool, error)

	// Count returns the number of documents in a collection.
	Count(ctx context.Context, collectionName string) (int64, error)

	HealthCheck(ctx context.Context) error

	Close() error
}
