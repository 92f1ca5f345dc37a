package indexing

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"farmgate/internal/database/postgresql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Repository is the slice of the querier the worker needs. *postgresql.Queries
// satisfies it.
type Repository interface {
	GetListingByID(ctx context.Context, id pgtype.UUID) (postgresql.Listing, error)
	GetLandDetails(ctx context.Context, listingID pgtype.UUID) (postgresql.LandDetails, error)
	GetProduceDetails(ctx context.Context, listingID pgtype.UUID) (postgresql.ProduceDetails, error)
	GetServiceDetails(ctx context.Context, listingID pgtype.UUID) (postgresql.ServiceDetails, error)
}

type svc struct {
	indexer        Indexer
	repo           Repository
	logger         *slog.Logger
	publicFilesURL string
}

func NewService(indexer Indexer, repo Repository, logger *slog.Logger, publicFilesURL string) *svc {
	return &svc{
		indexer:        indexer,
		repo:           repo,
		logger:         logger,
		publicFilesURL: strings.TrimSuffix(publicFilesURL, "/"),
	}
}

// IndexListing rebuilds the search document for one listing from the database.
// The error contract drives ack/nack at the bus: nil means done (including
// poison inputs that can never succeed), non-nil means retry later.
func (s *svc) IndexListing(ctx context.Context, listingID string) error {
	s.logger.Info("Indexing listing", "listing_id", listingID)

	var listingUUID pgtype.UUID
	if err := listingUUID.Scan(listingID); err != nil {
		// This ID will never parse; retrying is pointless.
		s.logger.Error("Invalid UUID format, discarding", "id", listingID)
		return nil
	}

	listing, err := s.repo.GetListingByID(ctx, listingUUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("Listing not found in DB (might be deleted), skipping index", "id", listingID)
			return nil
		}

		s.logger.Error("Failed to fetch listing from DB", "error", err, "listing_id", listingID)
		return err
	}

	document := s.buildDocument(ctx, listingID, listing)

	if err := s.indexer.Upsert(ctx, CollectionListings, document); err != nil {
		// Search engine down: retry.
		s.logger.Error("Failed to upsert listing", "error", err)
		return err
	}

	return nil
}

// DeleteListing removes the search document. A document that is already gone
// counts as done.
func (s *svc) DeleteListing(ctx context.Context, listingID string) error {
	s.logger.Info("Removing listing from index", "listing_id", listingID)

	if err := s.indexer.Delete(ctx, CollectionListings, listingID); err != nil {
		if _, found, getErr := s.indexer.Get(ctx, CollectionListings, listingID); getErr == nil && !found {
			return nil
		}
		s.logger.Error("Failed to delete listing from index", "error", err)
		return err
	}
	return nil
}

func (s *svc) buildDocument(ctx context.Context, listingID string, listing postgresql.Listing) map[string]any {
	var price int64
	if listing.Price.Valid {
		price = listing.Price.Int64
	}

	imageURL := ""
	if len(listing.Images) > 0 {
		imageURL = listing.Images[0]
		if !strings.HasPrefix(imageURL, "http") {
			imageURL = s.publicFilesURL + "/" + imageURL
		}
	}

	document := map[string]any{
		"id":            listingID,
		"title":         listing.Title,
		"description":   listing.Description.String,
		"location":      listing.Location,
		"district":      listing.District.String,
		"type":          string(listing.Type),
		"status":        string(listing.Status),
		"price":         price,
		"is_negotiable": listing.IsNegotiable,
		"image_url":     imageURL,
		"view_count":    listing.ViewCount,
		"created_at":    listing.CreatedAt.Time.Unix(),
	}

	// Facet fields come from the detail row. A missing row just means fewer
	// facets; the base document still indexes.
	switch listing.Type {
	case postgresql.ListingTypeLand:
		d, err := s.repo.GetLandDetails(ctx, listing.ID)
		if err != nil {
			s.logger.Warn("Land details unavailable, indexing base fields only", "id", listingID, "error", err)
			break
		}
		document["sale_type"] = string(d.SaleType)
		if d.SizeAcres.Valid {
			document["size_acres"] = d.SizeAcres.Float64
		}
	case postgresql.ListingTypeProduce:
		d, err := s.repo.GetProduceDetails(ctx, listing.ID)
		if err != nil {
			s.logger.Warn("Produce details unavailable, indexing base fields only", "id", listingID, "error", err)
			break
		}
		if d.Category.Valid {
			document["category"] = d.Category.String
		}
		if d.Quality.Valid {
			document["quality"] = d.Quality.String
		}
	case postgresql.ListingTypeService:
		d, err := s.repo.GetServiceDetails(ctx, listing.ID)
		if err != nil {
			s.logger.Warn("Service details unavailable, indexing base fields only", "id", listingID, "error", err)
			break
		}
		if d.ServiceCategory.Valid {
			document["service_category"] = d.ServiceCategory.String
		}
	}

	return document
}
