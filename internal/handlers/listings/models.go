package listings

import (
	"fmt"
	"strings"
	"time"

	"farmgate/internal/database/postgresql"
	"farmgate/internal/errors"

	"github.com/jackc/pgx/v5/pgtype"
)

// OwnerInfo is the profile data joined onto a listing. When the profiles
// lookup fails the service substitutes PlaceholderOwner instead of failing
// the read.
type OwnerInfo struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Avatar   *string `json:"avatar,omitempty"`
	Verified bool    `json:"verified"`
	Phone    *string `json:"phone,omitempty"`
	Rating   float64 `json:"rating"`
}

func PlaceholderOwner() OwnerInfo {
	return OwnerInfo{Name: "Owner", Rating: 4.5, Verified: false}
}

// ListingDetails is the union of the three type-specific detail shapes; only
// the fields for the listing's type are ever set. A listing whose detail row
// is missing serializes as an empty object, not null.
type ListingDetails struct {
	// Land
	SizeAcres      *float64 `json:"size_acres,omitempty"`
	SaleType       *string  `json:"sale_type,omitempty"`
	LandType       *string  `json:"land_type,omitempty"`
	OwnershipType  *string  `json:"ownership_type,omitempty"`
	HasRoadAccess  *bool    `json:"has_road_access,omitempty"`
	HasElectricity *bool    `json:"has_electricity,omitempty"`
	WaterSource    *string  `json:"water_source,omitempty"`
	SoilType       *string  `json:"soil_type,omitempty"`
	Terrain        *string  `json:"terrain,omitempty"`
	PreviousCrops  *string  `json:"previous_crops,omitempty"`
	LeaseTerms     *string  `json:"lease_terms,omitempty"`

	// Produce
	Quantity         *float64 `json:"quantity,omitempty"`
	Unit             *string  `json:"unit,omitempty"`
	Quality          *string  `json:"quality,omitempty"`
	Category         *string  `json:"category,omitempty"`
	Variety          *string  `json:"variety,omitempty"`
	HarvestDate      *string  `json:"harvest_date,omitempty"`
	ProcessingMethod *string  `json:"processing_method,omitempty"`
	Grade            *string  `json:"grade,omitempty"`
	Certification    *string  `json:"certification,omitempty"`
	Packaging        *string  `json:"packaging,omitempty"`

	// Service
	ServiceCategory *string  `json:"service_category,omitempty"`
	Availability    *string  `json:"availability,omitempty"`
	ExperienceYears *int32   `json:"experience_years,omitempty"`
	EquipmentType   *string  `json:"equipment_type,omitempty"`
	ServicesOffered []string `json:"services_offered,omitempty"`
	CoverageArea    *string  `json:"coverage_area,omitempty"`
	PriceDetails    *string  `json:"price_details,omitempty"`
	BookingProcess  *string  `json:"booking_process,omitempty"`
}

type ListingResponse struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Price        *int64         `json:"price"`
	IsNegotiable bool           `json:"is_negotiable"`
	Type         string         `json:"type"`
	Status       string         `json:"status"`
	Location     string         `json:"location"`
	District     *string        `json:"district,omitempty"`
	Latitude     *float64       `json:"latitude,omitempty"`
	Longitude    *float64       `json:"longitude,omitempty"`
	Images       []string       `json:"images"`
	ExpiryDate   *time.Time     `json:"expiry_date,omitempty"`
	ViewCount    int32          `json:"view_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Owner        OwnerInfo      `json:"owner"`
	Details      ListingDetails `json:"details"`
	PriceLabel   string         `json:"price_label"`
	Features     []string       `json:"features,omitempty"`
}

type CreateListingRequest struct {
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Price        *int64         `json:"price"`
	IsNegotiable bool           `json:"is_negotiable"`
	Type         string         `json:"type"`
	Location     string         `json:"location"`
	District     *string        `json:"district"`
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	Images       []string       `json:"images"`
	ExpiryDate   *time.Time     `json:"expiry_date"`
	Details      ListingDetails `json:"details"`
}

// UpdateListingRequest uses pointers throughout so "" and absent are
// distinguishable. Type is deliberately absent: listing type is immutable.
type UpdateListingRequest struct {
	Title        *string        `json:"title"`
	Description  *string        `json:"description"`
	Price        *int64         `json:"price"`
	IsNegotiable *bool          `json:"is_negotiable"`
	Location     *string        `json:"location"`
	District     *string        `json:"district"`
	Latitude     *float64       `json:"latitude"`
	Longitude    *float64       `json:"longitude"`
	Images       []string       `json:"images"`
	ExpiryDate   *time.Time     `json:"expiry_date"`
	Details      ListingDetails `json:"details"`
}

// GetListingsOptions mirrors the browse/search query parameters.
type GetListingsOptions struct {
	Type      string
	Status    string // defaults to "active"
	District  string
	Location  string
	Search    string
	SortBy    string // "created_at" | "price" | "size"
	Ascending bool
	Limit     int32
	Offset    int32
}

// SavedListingsOptions refines the saved page in process; the backing query
// always returns the user's full saved set.
type SavedListingsOptions struct {
	Search    string
	SaleType  string
	SortBy    string
	Ascending bool
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxImages       = 10
)

func (req *CreateListingRequest) Validate() *errors.AppError {
	titleLen := len(strings.TrimSpace(req.Title))
	if titleLen < 5 || titleLen > 150 {
		return errors.New(errors.ErrInvalidInput, "Title must be between 5 and 150 characters", nil)
	}

	t := postgresql.ListingType(req.Type)
	if !t.Valid() {
		return errors.New(errors.ErrInvalidInput, "Type must be 'land', 'produce' or 'service'", nil)
	}

	if strings.TrimSpace(req.Location) == "" {
		return errors.New(errors.ErrInvalidInput, "Location is required", nil)
	}

	if req.Price != nil && *req.Price < 0 {
		return errors.New(errors.ErrInvalidInput, "Price cannot be negative", nil)
	}

	if len(req.Images) > maxImages {
		return errors.New(errors.ErrInvalidInput, fmt.Sprintf("At most %d images are allowed", maxImages), nil)
	}

	if err := validateHarvestDate(req.Details.HarvestDate); err != nil {
		return err
	}

	if t == postgresql.ListingTypeLand {
		if req.Details.SaleType == nil || !postgresql.SaleType(*req.Details.SaleType).Valid() {
			return errors.New(errors.ErrInvalidInput, "Land listings require sale_type: 'lease', 'sale' or 'partnership'", nil)
		}
		if req.Details.SizeAcres != nil && *req.Details.SizeAcres <= 0 {
			return errors.New(errors.ErrInvalidInput, "size_acres must be positive", nil)
		}
	}

	return nil
}

// validateHarvestDate rejects malformed dates up front; dateParam would
// otherwise write NULL and the typo would vanish without feedback.
func validateHarvestDate(s *string) *errors.AppError {
	if s == nil {
		return nil
	}
	if _, err := time.Parse("2006-01-02", *s); err != nil {
		return errors.New(errors.ErrInvalidInput, "harvest_date must be a YYYY-MM-DD date", err)
	}
	return nil
}

// --- pgtype conversion helpers ---

func textOrNil(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func textParam(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func float8OrNil(f pgtype.Float8) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func float8Param(f *float64) pgtype.Float8 {
	if f == nil {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: *f, Valid: true}
}

func int8OrNil(i pgtype.Int8) *int64 {
	if !i.Valid {
		return nil
	}
	v := i.Int64
	return &v
}

func int8Param(i *int64) pgtype.Int8 {
	if i == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *i, Valid: true}
}

func int4OrNil(i pgtype.Int4) *int32 {
	if !i.Valid {
		return nil
	}
	v := i.Int32
	return &v
}

func int4Param(i *int32) pgtype.Int4 {
	if i == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: *i, Valid: true}
}

func boolParam(b *bool) pgtype.Bool {
	if b == nil {
		return pgtype.Bool{}
	}
	return pgtype.Bool{Bool: *b, Valid: true}
}

func timeOrNil(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func timeParam(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func dateOrNil(d pgtype.Date) *string {
	if !d.Valid {
		return nil
	}
	s := d.Time.Format("2006-01-02")
	return &s
}

func dateParam(s *string) pgtype.Date {
	if s == nil {
		return pgtype.Date{}
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: t, Valid: true}
}

func boolPtr(b bool) *bool { return &b }

func uuidString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	b := u.Bytes
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}

// --- row -> response mapping ---

func toResponse(l postgresql.Listing) ListingResponse {
	images := l.Images
	if images == nil {
		images = []string{}
	}
	price := int8OrNil(l.Price)
	return ListingResponse{
		ID:           uuidString(l.ID),
		Title:        l.Title,
		Description:  l.Description.String,
		Price:        price,
		IsNegotiable: l.IsNegotiable,
		Type:         string(l.Type),
		Status:       string(l.Status),
		Location:     l.Location,
		District:     textOrNil(l.District),
		Latitude:     float8OrNil(l.Latitude),
		Longitude:    float8OrNil(l.Longitude),
		Images:       images,
		ExpiryDate:   timeOrNil(l.ExpiryDate),
		ViewCount:    l.ViewCount,
		CreatedAt:    l.CreatedAt.Time,
		UpdatedAt:    l.UpdatedAt.Time,
		Owner:        PlaceholderOwner(),
		PriceLabel:   FormatPrice(price, l.IsNegotiable),
	}
}

// savedToResponse carries the joined land columns into the details so the
// saved page's sale-type filter and size sort see structured values.
func savedToResponse(r postgresql.SavedListingRow) ListingResponse {
	resp := toResponse(r.Listing)
	if r.Type == postgresql.ListingTypeLand {
		resp.Details.SaleType = textOrNil(r.SaleType)
		resp.Details.SizeAcres = float8OrNil(r.SizeAcres)
	}
	return resp
}

func ownerFromProfile(p postgresql.Profile) OwnerInfo {
	name := strings.TrimSpace(p.FirstName.String + " " + p.LastName.String)
	if name == "" {
		name = "Owner"
	}
	rating := 4.5
	if p.Rating.Valid {
		rating = p.Rating.Float64
	}
	return OwnerInfo{
		ID:       uuidString(p.ID),
		Name:     name,
		Avatar:   textOrNil(p.AvatarURL),
		Verified: p.Verified,
		Phone:    textOrNil(p.Phone),
		Rating:   rating,
	}
}

func ownerFromRow(r postgresql.ListingWithOwnerRow) OwnerInfo {
	name := strings.TrimSpace(r.OwnerFirstName.String + " " + r.OwnerLastName.String)
	if name == "" {
		// Join matched nothing; fall back to the placeholder.
		return PlaceholderOwner()
	}
	rating := 4.5
	if r.OwnerRating.Valid {
		rating = r.OwnerRating.Float64
	}
	return OwnerInfo{
		ID:       uuidString(r.UserID),
		Name:     name,
		Avatar:   textOrNil(r.OwnerAvatarURL),
		Verified: r.OwnerVerified.Bool,
		Phone:    textOrNil(r.OwnerPhone),
		Rating:   rating,
	}
}

func detailsFromLand(d postgresql.LandDetails) ListingDetails {
	st := string(d.SaleType)
	return ListingDetails{
		SizeAcres:      float8OrNil(d.SizeAcres),
		SaleType:       &st,
		LandType:       textOrNil(d.LandType),
		OwnershipType:  textOrNil(d.OwnershipType),
		HasRoadAccess:  boolPtr(d.HasRoadAccess),
		HasElectricity: boolPtr(d.HasElectricity),
		WaterSource:    textOrNil(d.WaterSource),
		SoilType:       textOrNil(d.SoilType),
		Terrain:        textOrNil(d.Terrain),
		PreviousCrops:  textOrNil(d.PreviousCrops),
		LeaseTerms:     textOrNil(d.LeaseTerms),
	}
}

func detailsFromProduce(d postgresql.ProduceDetails) ListingDetails {
	return ListingDetails{
		Quantity:         float8OrNil(d.Quantity),
		Unit:             textOrNil(d.Unit),
		Quality:          textOrNil(d.Quality),
		Category:         textOrNil(d.Category),
		Variety:          textOrNil(d.Variety),
		HarvestDate:      dateOrNil(d.HarvestDate),
		ProcessingMethod: textOrNil(d.ProcessingMethod),
		Grade:            textOrNil(d.Grade),
		Certification:    textOrNil(d.Certification),
		Packaging:        textOrNil(d.Packaging),
	}
}

func detailsFromService(d postgresql.ServiceDetails) ListingDetails {
	return ListingDetails{
		ServiceCategory: textOrNil(d.ServiceCategory),
		Availability:    textOrNil(d.Availability),
		ExperienceYears: int4OrNil(d.ExperienceYears),
		EquipmentType:   textOrNil(d.EquipmentType),
		ServicesOffered: d.ServicesOffered,
		CoverageArea:    textOrNil(d.CoverageArea),
		PriceDetails:    textOrNil(d.PriceDetails),
		BookingProcess:  textOrNil(d.BookingProcess),
	}
}
