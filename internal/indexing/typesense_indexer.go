package indexing

import (
	"context"
	"fmt"
	"time"

	"github.com/typesense/typesense-go/typesense"
	"github.com/typesense/typesense-go/typesense/api"
	"github.com/typesense/typesense-go/typesense/api/pointer"
)

type TypesenseClient struct {
	client *typesense.Client
}

func NewClient(apiKey, url string) Indexer {
	client := typesense.NewClient(
		typesense.WithServer(url),
		typesense.WithAPIKey(apiKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)
	return &TypesenseClient{client: client}
}

// listingsSchema mirrors the document built in service.go. Facet fields drive
// the browse sidebar; Sort fields back the price/date/size orderings.
func listingsSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: CollectionListings,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "title", Type: "string"},
			{Name: "description", Type: "string"},
			{Name: "location", Type: "string"},
			{Name: "district", Type: "string", Facet: pointer.True()},
			{Name: "type", Type: "string", Facet: pointer.True()},
			{Name: "status", Type: "string", Facet: pointer.True()},
			{Name: "price", Type: "int64", Sort: pointer.True()},
			{Name: "is_negotiable", Type: "bool", Facet: pointer.True()},
			{Name: "image_url", Type: "string"},
			{Name: "view_count", Type: "int32", Sort: pointer.True()},

			// Land facets
			{Name: "sale_type", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "size_acres", Type: "float", Sort: pointer.True(), Optional: pointer.True()},

			// Produce facets
			{Name: "category", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "quality", Type: "string", Facet: pointer.True(), Optional: pointer.True()},

			// Service facets
			{Name: "service_category", Type: "string", Facet: pointer.True(), Optional: pointer.True()},

			{Name: "created_at", Type: "int64", Sort: pointer.True()},
		},
		DefaultSortingField: pointer.String("created_at"),
	}
}

func (t *TypesenseClient) EnsureCollection(ctx context.Context) error {
	_, err := t.client.Collection(CollectionListings).Retrieve(ctx)
	if err == nil {
		return nil
	}

	if _, err := t.client.Collections().Create(ctx, listingsSchema()); err != nil {
		return fmt.Errorf("typesense create collection failed: %w", err)
	}
	return nil
}

func (t *TypesenseClient) Upsert(ctx context.Context, collectionName string, document any) error {
	_, err := t.client.Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("typesense upsert failed: %w", err)
	}
	return nil
}

func (t *TypesenseClient) Delete(ctx context.Context, collectionName string, id string) error {
	_, err := t.client.Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("typesense delete failed: %w", err)
	}
	return nil
}

func (t *TypesenseClient) Get(ctx context.Context, collectionName string, id string) (any, bool, error) {
	document, err := t.client.Collection(collectionName).Document(id).Retrieve(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("typesense get failed: %w", err)
	}
	return document, true, nil
}

func (t *TypesenseClient) Count(ctx context.Context, collectionName string) (int64, error) {
	resp, err := t.client.Collection(collectionName).Retrieve(ctx)
	if err != nil {
		return 0, fmt.Errorf("typesense count failed: %w", err)
	}
	return *resp.NumDocuments, nil
}

func (t *TypesenseClient) HealthCheck(ctx context.Context) error {
	isHealthy, err := t.client.Health(ctx, time.Second*5)
	if err != nil {
		return fmt.Errorf("typesense health check failed: %w", err)
	}
	if !isHealthy {
		return fmt.Errorf("typesense is unhealthy")
	}
	return nil
}

func (t *TypesenseClient) Close() error {
	// The HTTP-based client holds nothing to release.
	return nil
}
