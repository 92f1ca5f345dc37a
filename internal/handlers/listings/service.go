package listings

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"farmgate/internal/auth"
	"farmgate/internal/cache"
	"farmgate/internal/database/postgresql"
	"farmgate/internal/errors"
	"farmgate/internal/events"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel/trace"
)

type ListingsService interface {
	GetListings(ctx context.Context, opts GetListingsOptions) ([]ListingResponse, error)
	GetListingByID(ctx context.Context, listingID, typeHint string) (*ListingResponse, error)
	CreateListing(ctx context.Context, userInfo auth.UserInfo, req *CreateListingRequest) (*ListingResponse, error)
	UpdateListing(ctx context.Context, userInfo auth.UserInfo, listingID string, req *UpdateListingRequest) (*ListingResponse, error)
	DeleteListing(ctx context.Context, userInfo auth.UserInfo, listingID string) error
	ChangeListingStatus(ctx context.Context, userInfo auth.UserInfo, listingID, status string) error
	IncrementListingView(ctx context.Context, listingID string) (int32, error)
	SaveListing(ctx context.Context, userInfo auth.UserInfo, listingID string) error
	UnsaveListing(ctx context.Context, userInfo auth.UserInfo, listingID string) error
	GetSavedListings(ctx context.Context, userInfo auth.UserInfo, opts SavedListingsOptions) ([]ListingResponse, error)
	SearchListings(ctx context.Context, keyword string, opts GetListingsOptions) ([]ListingResponse, error)
}

type svc struct {
	repo         *postgresql.Queries
	db           postgresql.DBPool
	logger       *slog.Logger
	cache        *cache.RedisClient
	eventHandler *events.EventHandler
}

func NewListingsService(repo *postgresql.Queries, db postgresql.DBPool, logger *slog.Logger, c *cache.RedisClient, eventHandler *events.EventHandler) ListingsService {
	return &svc{
		repo:         repo,
		db:           db,
		logger:       logger,
		cache:        c,
		eventHandler: eventHandler,
	}
}

const listingCacheTTL = 5 * time.Minute

func listingCacheKey(id string) string {
	return "listing:" + id
}

func parseUUID(s, what string) (pgtype.UUID, *errors.AppError) {
	var id pgtype.UUID
	if err := id.Scan(s); err != nil {
		return id, errors.New(errors.ErrInvalidInput, "Invalid "+what, fmt.Errorf("invalid %s uuid: %w", what, err))
	}
	return id, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == "23505"
}

func traceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

func normalizeOptions(opts GetListingsOptions) postgresql.GetListingsParams {
	status := postgresql.ListingStatus(opts.Status)
	if opts.Status == "" {
		status = postgresql.ListingStatusActive
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return postgresql.GetListingsParams{
		Type:      postgresql.ListingType(opts.Type),
		Status:    status,
		District:  opts.District,
		Location:  opts.Location,
		Search:    opts.Search,
		SortBy:    opts.SortBy,
		Ascending: opts.Ascending,
		Limit:     limit,
		Offset:    opts.Offset,
	}
}

// GetListings returns a filtered, sorted page of listings with owner profiles
// joined on. If the joined query fails the read is retried without the join
// and every listing gets the placeholder owner; a broken profiles table must
// not take browsing down with it.
func (s *svc) GetListings(ctx context.Context, opts GetListingsOptions) ([]ListingResponse, error) {
	if opts.Type != "" && !postgresql.ListingType(opts.Type).Valid() {
		return nil, errors.New(errors.ErrInvalidInput, "Type must be 'land', 'produce' or 'service'", nil)
	}
	if opts.Status != "" && !postgresql.ListingStatus(opts.Status).Valid() {
		return nil, errors.New(errors.ErrInvalidInput, "Unknown listing status", nil)
	}

	arg := normalizeOptions(opts)

	rows, err := s.repo.GetListings(ctx, arg)
	if err != nil {
		s.logger.WarnContext(ctx, "Joined listings query failed, retrying without profiles", "error", err)

		bare, bareErr := s.repo.GetListingsBare(ctx, arg)
		if bareErr != nil {
			return nil, errors.New(errors.ErrInternal, "Unable to load listings. Please try again later.", fmt.Errorf("listings query failed: %w", bareErr))
		}

		out := make([]ListingResponse, len(bare))
		for i, l := range bare {
			out[i] = toResponse(l)
		}
		return s.sortPage(out, opts), nil
	}

	out := make([]ListingResponse, len(rows))
	for i, r := range rows {
		resp := toResponse(r.Listing)
		resp.Owner = ownerFromRow(r)
		out[i] = resp
	}
	return s.sortPage(out, opts), nil
}

// sortPage applies the size orderings, which SQL can't resolve because
// acreage may only appear in the listing text. Other sort options were
// already ordered by the query.
func (s *svc) sortPage(out []ListingResponse, opts GetListingsOptions) []ListingResponse {
	if opts.SortBy != sortBySize {
		return out
	}
	return SortListings(out, sortOptionFor(sortBySize, opts.Ascending))
}

// SearchListings is GetListings plus a case-insensitive keyword match across
// title, description and location. A blank keyword degrades to a plain browse.
func (s *svc) SearchListings(ctx context.Context, keyword string, opts GetListingsOptions) ([]ListingResponse, error) {
	opts.Search = keyword
	return s.GetListings(ctx, opts)
}

// GetListingByID merges the base row, the type-specific detail row and the
// owner profile. Both the detail and profile fetches degrade on failure:
// details become an empty object, the owner becomes the placeholder.
func (s *svc) GetListingByID(ctx context.Context, listingID, typeHint string) (*ListingResponse, error) {
	id, appErr := parseUUID(listingID, "listing ID")
	if appErr != nil {
		return nil, appErr
	}

	if s.cache != nil {
		if cached, found, err := cache.Get[ListingResponse](s.cache, ctx, listingCacheKey(listingID)); err == nil && found {
			return cached, nil
		}
	}

	listing, err := s.repo.GetListingByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New(errors.ErrNotFound, "Listing not found", err)
		}
		return nil, errors.New(errors.ErrInternal, "Unable to load listing. Please try again later.", err)
	}

	resp := toResponse(listing)

	// The caller may know the type already (typed browse pages); otherwise
	// trust the row.
	detailType := postgresql.ListingType(typeHint)
	if !detailType.Valid() {
		detailType = listing.Type
	}

	resp.Details = s.fetchDetails(ctx, id, detailType)
	resp.Owner = s.fetchOwner(ctx, listing.UserID)
	resp.Features = ListingFeatures(resp)

	if s.cache != nil {
		if err := cache.Set(s.cache, ctx, listingCacheKey(listingID), resp, listingCacheTTL); err != nil {
			s.logger.WarnContext(ctx, "Failed to cache listing", "listing_id", listingID, "error", err)
		}
	}

	return &resp, nil
}

func (s *svc) fetchDetails(ctx context.Context, id pgtype.UUID, t postgresql.ListingType) ListingDetails {
	var (
		details ListingDetails
		err     error
	)
	switch t {
	case postgresql.ListingTypeLand:
		var d postgresql.LandDetails
		if d, err = s.repo.GetLandDetails(ctx, id); err == nil {
			details = detailsFromLand(d)
		}
	case postgresql.ListingTypeProduce:
		var d postgresql.ProduceDetails
		if d, err = s.repo.GetProduceDetails(ctx, id); err == nil {
			details = detailsFromProduce(d)
		}
	case postgresql.ListingTypeService:
		var d postgresql.ServiceDetails
		if d, err = s.repo.GetServiceDetails(ctx, id); err == nil {
			details = detailsFromService(d)
		}
	}
	if err != nil {
		// Missing or unreadable detail row is not fatal; the listing still renders.
		s.logger.WarnContext(ctx, "Detail row unavailable, continuing with empty details",
			"listing_id", uuidString(id), "type", t, "error", err)
	}
	return details
}

func (s *svc) fetchOwner(ctx context.Context, userID pgtype.UUID) OwnerInfo {
	profile, err := s.repo.GetProfileByID(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "Profile lookup failed, using placeholder owner",
			"user_id", uuidString(userID), "error", err)
		return PlaceholderOwner()
	}
	return ownerFromProfile(profile)
}

// CreateListing inserts the base row and its type-matched detail row in one
// transaction, then asks the worker to index the new listing.
func (s *svc) CreateListing(ctx context.Context, userInfo auth.UserInfo, req *CreateListingRequest) (*ListingResponse, error) {
	s.logger.InfoContext(ctx, "Creating listing", "user", userInfo.ID, "type", req.Type, "title", req.Title)

	if err := req.Validate(); err != nil {
		s.logger.WarnContext(ctx, "Validation failed", "error", err)
		return nil, err
	}

	userUUID, appErr := parseUUID(userInfo.ID, "user ID")
	if appErr != nil {
		return nil, appErr
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, errors.New(errors.ErrInternal, "Failed to start transaction. Please try again later.", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	qtx := s.repo.WithTx(tx)

	listing, err := qtx.CreateListing(ctx, postgresql.CreateListingParams{
		UserID:       userUUID,
		Title:        req.Title,
		Description:  pgtype.Text{String: req.Description, Valid: true},
		Price:        int8Param(req.Price),
		IsNegotiable: req.IsNegotiable,
		Type:         postgresql.ListingType(req.Type),
		Status:       postgresql.ListingStatusActive,
		Location:     req.Location,
		District:     textParam(req.District),
		Latitude:     float8Param(req.Latitude),
		Longitude:    float8Param(req.Longitude),
		Images:       req.Images,
		ExpiryDate:   timeParam(req.ExpiryDate),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create listing", "error", err)
		return nil, errors.New(errors.ErrInternal, "Failed to create listing. Please try again later.", fmt.Errorf("failed to create listing: %w", err))
	}

	resp := toResponse(listing)

	switch listing.Type {
	case postgresql.ListingTypeLand:
		d, err := qtx.CreateLandDetails(ctx, postgresql.LandDetails{
			ListingID:      listing.ID,
			SizeAcres:      float8Param(req.Details.SizeAcres),
			SaleType:       postgresql.SaleType(*req.Details.SaleType),
			LandType:       textParam(req.Details.LandType),
			OwnershipType:  textParam(req.Details.OwnershipType),
			HasRoadAccess:  req.Details.HasRoadAccess != nil && *req.Details.HasRoadAccess,
			HasElectricity: req.Details.HasElectricity != nil && *req.Details.HasElectricity,
			WaterSource:    textParam(req.Details.WaterSource),
			SoilType:       textParam(req.Details.SoilType),
			Terrain:        textParam(req.Details.Terrain),
			PreviousCrops:  textParam(req.Details.PreviousCrops),
			LeaseTerms:     textParam(req.Details.LeaseTerms),
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to create land details", "error", err)
			return nil, errors.New(errors.ErrInternal, "Failed to create listing details. Please try again later.", err)
		}
		resp.Details = detailsFromLand(d)

	case postgresql.ListingTypeProduce:
		d, err := qtx.CreateProduceDetails(ctx, postgresql.ProduceDetails{
			ListingID:        listing.ID,
			Quantity:         float8Param(req.Details.Quantity),
			Unit:             textParam(req.Details.Unit),
			Quality:          textParam(req.Details.Quality),
			Category:         textParam(req.Details.Category),
			Variety:          textParam(req.Details.Variety),
			HarvestDate:      dateParam(req.Details.HarvestDate),
			ProcessingMethod: textParam(req.Details.ProcessingMethod),
			Grade:            textParam(req.Details.Grade),
			Certification:    textParam(req.Details.Certification),
			Packaging:        textParam(req.Details.Packaging),
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to create produce details", "error", err)
			return nil, errors.New(errors.ErrInternal, "Failed to create listing details. Please try again later.", err)
		}
		resp.Details = detailsFromProduce(d)

	case postgresql.ListingTypeService:
		d, err := qtx.CreateServiceDetails(ctx, postgresql.ServiceDetails{
			ListingID:       listing.ID,
			ServiceCategory: textParam(req.Details.ServiceCategory),
			Availability:    textParam(req.Details.Availability),
			ExperienceYears: int4Param(req.Details.ExperienceYears),
			EquipmentType:   textParam(req.Details.EquipmentType),
			ServicesOffered: req.Details.ServicesOffered,
			CoverageArea:    textParam(req.Details.CoverageArea),
			PriceDetails:    textParam(req.Details.PriceDetails),
			BookingProcess:  textParam(req.Details.BookingProcess),
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to create service details", "error", err)
			return nil, errors.New(errors.ErrInternal, "Failed to create listing details. Please try again later.", err)
		}
		resp.Details = detailsFromService(d)
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return nil, errors.New(errors.ErrInternal, "Failed to finalise listing", err)
	}

	s.publishIndex(ctx, resp.ID)

	resp.Features = ListingFeatures(resp)
	return &resp, nil
}

// UpdateListing writes the base row and the detail row in one transaction.
// The system this replaces issued them as two independent calls and could
// strand a half-updated listing; there is no reason to keep that behavior.
func (s *svc) UpdateListing(ctx context.Context, userInfo auth.UserInfo, listingID string, req *UpdateListingRequest) (*ListingResponse, error) {
	id, appErr := parseUUID(listingID, "listing ID")
	if appErr != nil {
		return nil, appErr
	}
	userUUID, appErr := parseUUID(userInfo.ID, "user ID")
	if appErr != nil {
		return nil, appErr
	}

	if req.Price != nil && *req.Price < 0 {
		return nil, errors.New(errors.ErrInvalidInput, "Price cannot be negative", nil)
	}
	if req.Details.SaleType != nil && !postgresql.SaleType(*req.Details.SaleType).Valid() {
		return nil, errors.New(errors.ErrInvalidInput, "sale_type must be 'lease', 'sale' or 'partnership'", nil)
	}
	if appErr := validateHarvestDate(req.Details.HarvestDate); appErr != nil {
		return nil, appErr
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, errors.New(errors.ErrInternal, "Failed to start transaction. Please try again later.", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.repo.WithTx(tx)

	listing, err := qtx.UpdateListing(ctx, postgresql.UpdateListingParams{
		ID:           id,
		UserID:       userUUID,
		Title:        textParam(req.Title),
		Description:  textParam(req.Description),
		Price:        int8Param(req.Price),
		IsNegotiable: boolParam(req.IsNegotiable),
		Location:     textParam(req.Location),
		District:     textParam(req.District),
		Latitude:     float8Param(req.Latitude),
		Longitude:    float8Param(req.Longitude),
		Images:       req.Images,
		ExpiryDate:   timeParam(req.ExpiryDate),
	})
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			// Either the listing doesn't exist or it belongs to someone else;
			// the same answer either way.
			return nil, errors.New(errors.ErrNotFound, "Listing not found", err)
		}
		s.logger.ErrorContext(ctx, "Failed to update listing", "error", err)
		return nil, errors.New(errors.ErrInternal, "Failed to update listing. Please try again later.", err)
	}

	// The detail updates hand back the merged row, so the response is built
	// entirely from RETURNING clauses; no reads after commit.
	var details ListingDetails
	switch listing.Type {
	case postgresql.ListingTypeLand:
		var d postgresql.LandDetails
		d, err = qtx.UpdateLandDetails(ctx, postgresql.UpdateLandDetailsParams{
			ListingID:      id,
			SizeAcres:      float8Param(req.Details.SizeAcres),
			SaleType:       textParam(req.Details.SaleType),
			LandType:       textParam(req.Details.LandType),
			OwnershipType:  textParam(req.Details.OwnershipType),
			HasRoadAccess:  boolParam(req.Details.HasRoadAccess),
			HasElectricity: boolParam(req.Details.HasElectricity),
			WaterSource:    textParam(req.Details.WaterSource),
			SoilType:       textParam(req.Details.SoilType),
			Terrain:        textParam(req.Details.Terrain),
			PreviousCrops:  textParam(req.Details.PreviousCrops),
			LeaseTerms:     textParam(req.Details.LeaseTerms),
		})
		if err == nil {
			details = detailsFromLand(d)
		}
	case postgresql.ListingTypeProduce:
		var d postgresql.ProduceDetails
		d, err = qtx.UpdateProduceDetails(ctx, postgresql.UpdateProduceDetailsParams{
			ListingID:        id,
			Quantity:         float8Param(req.Details.Quantity),
			Unit:             textParam(req.Details.Unit),
			Quality:          textParam(req.Details.Quality),
			Category:         textParam(req.Details.Category),
			Variety:          textParam(req.Details.Variety),
			HarvestDate:      dateParam(req.Details.HarvestDate),
			ProcessingMethod: textParam(req.Details.ProcessingMethod),
			Grade:            textParam(req.Details.Grade),
			Certification:    textParam(req.Details.Certification),
			Packaging:        textParam(req.Details.Packaging),
		})
		if err == nil {
			details = detailsFromProduce(d)
		}
	case postgresql.ListingTypeService:
		var d postgresql.ServiceDetails
		d, err = qtx.UpdateServiceDetails(ctx, postgresql.UpdateServiceDetailsParams{
			ListingID:       id,
			ServiceCategory: textParam(req.Details.ServiceCategory),
			Availability:    textParam(req.Details.Availability),
			ExperienceYears: int4Param(req.Details.ExperienceYears),
			EquipmentType:   textParam(req.Details.EquipmentType),
			ServicesOffered: req.Details.ServicesOffered,
			CoverageArea:    textParam(req.Details.CoverageArea),
			PriceDetails:    textParam(req.Details.PriceDetails),
			BookingProcess:  textParam(req.Details.BookingProcess),
		})
		if err == nil {
			details = detailsFromService(d)
		}
	}
	if err != nil && !stderrors.Is(err, pgx.ErrNoRows) {
		s.logger.ErrorContext(ctx, "Failed to update listing details", "error", err)
		return nil, errors.New(errors.ErrInternal, "Failed to update listing details. Please try again later.", err)
	}
	// No rows means the listing has no detail row; the response carries empty
	// details, same as reads.

	if err := tx.Commit(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return nil, errors.New(errors.ErrInternal, "Failed to finalise update", err)
	}

	s.invalidate(ctx, listingID)
	s.publishIndex(ctx, listingID)

	resp := toResponse(listing)
	resp.Details = details
	resp.Features = ListingFeatures(resp)
	return &resp, nil
}

// DeleteListing removes the base row; the detail row goes with it via the
// cascade rule on the detail tables.
func (s *svc) DeleteListing(ctx context.Context, userInfo auth.UserInfo, listingID string) error {
	id, appErr := parseUUID(listingID, "listing ID")
	if appErr != nil {
		return appErr
	}
	userUUID, appErr := parseUUID(userInfo.ID, "user ID")
	if appErr != nil {
		return appErr
	}

	rows, err := s.repo.DeleteListing(ctx, id, userUUID)
	if err != nil {
		return errors.New(errors.ErrInternal, "Failed to delete listing. Please try again later.", err)
	}
	if rows == 0 {
		return errors.New(errors.ErrNotFound, "Listing not found", nil)
	}

	s.invalidate(ctx, listingID)

	if s.eventHandler != nil {
		if err := s.eventHandler.RaiseDeleteListingEvent(events.DeleteListingEvent{
			ListingID: listingID,
			TraceID:   traceID(ctx),
		}); err != nil {
			s.logger.ErrorContext(ctx, "Failed to publish delete event", "listing_id", listingID, "error", err)
		}
	}

	return nil
}

// ChangeListingStatus is an unconditional overwrite; any status may replace
// any other. Only the owner can write it.
func (s *svc) ChangeListingStatus(ctx context.Context, userInfo auth.UserInfo, listingID, status string) error {
	if !postgresql.ListingStatus(status).Valid() {
		return errors.New(errors.ErrInvalidInput, "Status must be 'active', 'sold', 'expired' or 'unavailable'", nil)
	}

	id, appErr := parseUUID(listingID, "listing ID")
	if appErr != nil {
		return appErr
	}
	userUUID, appErr := parseUUID(userInfo.ID, "user ID")
	if appErr != nil {
		return appErr
	}

	rows, err := s.repo.ChangeListingStatus(ctx, id, userUUID, postgresql.ListingStatus(status))
	if err != nil {
		return errors.New(errors.ErrInternal, "Failed to update status. Please try again later.", err)
	}
	if rows == 0 {
		return errors.New(errors.ErrNotFound, "Listing not found", nil)
	}

	s.invalidate(ctx, listingID)
	s.publishIndex(ctx, listingID)
	return nil
}

// IncrementListingView bumps the counter in a single statement so concurrent
// detail views can't lose updates.
func (s *svc) IncrementListingView(ctx context.Context, listingID string) (int32, error) {
	id, appErr := parseUUID(listingID, "listing ID")
	if appErr != nil {
		return 0, appErr
	}

	count, err := s.repo.IncrementListingView(ctx, id)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return 0, errors.New(errors.ErrNotFound, "Listing not found", err)
		}
		return 0, errors.New(errors.ErrInternal, "Failed to record view", err)
	}
	return count, nil
}

// SaveListing does not deduplicate: saving twice surfaces a conflict for the
// client to ignore or report.
func (s *svc) SaveListing(ctx context.Context, userInfo auth.UserInfo, listingID string) error {
	id, appErr := parseUUID(listingID, "listing ID")
	if appErr != nil {
		return appErr
	}
	userUUID, appErr := parseUUID(userInfo.ID, "user ID")
	if appErr != nil {
		return appErr
	}

	if err := s.repo.SaveListing(ctx, userUUID, id); err != nil {
		if isUniqueViolation(err) {
			return errors.New(errors.ErrConflict, "Listing already saved", err)
		}
		return errors.New(errors.ErrInternal, "Failed to save listing. Please try again later.", err)
	}
	return nil
}

func (s *svc) UnsaveListing(ctx context.Context, userInfo auth.UserInfo, listingID string) error {
	id, appErr := parseUUID(listingID, "listing ID")
	if appErr != nil {
		return appErr
	}
	userUUID, appErr := parseUUID(userInfo.ID, "user ID")
	if appErr != nil {
		return appErr
	}

	rows, err := s.repo.UnsaveListing(ctx, userUUID, id)
	if err != nil {
		return errors.New(errors.ErrInternal, "Failed to unsave listing. Please try again later.", err)
	}
	if rows == 0 {
		return errors.New(errors.ErrNotFound, "Saved listing not found", nil)
	}
	return nil
}

// GetSavedListings returns the user's saved set, refined in process: the
// query is one small read, so keyword, sale-type and sort run on the slice.
func (s *svc) GetSavedListings(ctx context.Context, userInfo auth.UserInfo, opts SavedListingsOptions) ([]ListingResponse, error) {
	userUUID, appErr := parseUUID(userInfo.ID, "user ID")
	if appErr != nil {
		return nil, appErr
	}

	rows, err := s.repo.GetSavedListings(ctx, userUUID)
	if err != nil {
		return nil, errors.New(errors.ErrInternal, "Unable to load saved listings", err)
	}

	out := make([]ListingResponse, len(rows))
	for i, r := range rows {
		out[i] = savedToResponse(r)
	}

	out = FilterBySearch(out, opts.Search)
	out = FilterLandBySaleType(out, opts.SaleType)
	if opts.SortBy != "" || opts.Ascending {
		out = SortListings(out, sortOptionFor(opts.SortBy, opts.Ascending))
	}
	return out, nil
}

func (s *svc) invalidate(ctx context.Context, listingID string) {
	if s.cache == nil {
		return
	}
	if err := cache.Del(s.cache, ctx, listingCacheKey(listingID)); err != nil {
		s.logger.WarnContext(ctx, "Failed to invalidate listing cache", "listing_id", listingID, "error", err)
	}
}

// publishIndex is fire-and-forget: the listing is committed regardless, and a
// missed event only delays search freshness until the next write.
func (s *svc) publishIndex(ctx context.Context, listingID string) {
	if s.eventHandler == nil {
		return
	}
	if err := s.eventHandler.RaiseIndexListingEvent(events.IndexListingEvent{
		ListingID: listingID,
		TraceID:   traceID(ctx),
	}); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish index event", "listing_id", listingID, "error", err)
	}
}
