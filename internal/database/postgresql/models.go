package postgresql

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type ListingType string

const (
	ListingTypeLand    ListingType = "land"
	ListingTypeProduce ListingType = "produce"
	ListingTypeService ListingType = "service"
)

func (t ListingType) Valid() bool {
	switch t {
	case ListingTypeLand, ListingTypeProduce, ListingTypeService:
		return true
	}
	return false
}

type ListingStatus string

const (
	ListingStatusActive      ListingStatus = "active"
	ListingStatusSold        ListingStatus = "sold"
	ListingStatusExpired     ListingStatus = "expired"
	ListingStatusUnavailable ListingStatus = "unavailable"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusActive, ListingStatusSold, ListingStatusExpired, ListingStatusUnavailable:
		return true
	}
	return false
}

// SaleType is a required column on land listings. The system this replaces
// inferred it from a boolean flag plus a title substring match; here it is
// first-class so the facet filter can trust it.
type SaleType string

const (
	SaleTypeLease       SaleType = "lease"
	SaleTypeSale        SaleType = "sale"
	SaleTypePartnership SaleType = "partnership"
)

func (s SaleType) Valid() bool {
	switch s {
	case SaleTypeLease, SaleTypeSale, SaleTypePartnership:
		return true
	}
	return false
}

// Listing is a row of marketplace_listings. Type is immutable after insert;
// no UPDATE statement in this package touches it.
type Listing struct {
	ID           pgtype.UUID
	UserID       pgtype.UUID
	Title        string
	Description  pgtype.Text
	Price        pgtype.Int8
	IsNegotiable bool
	Type         ListingType
	Status       ListingStatus
	Location     string
	District     pgtype.Text
	Latitude     pgtype.Float8
	Longitude    pgtype.Float8
	Images       []string
	ExpiryDate   pgtype.Timestamptz
	ViewCount    int32
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type LandDetails struct {
	ListingID      pgtype.UUID
	SizeAcres      pgtype.Float8
	SaleType       SaleType
	LandType       pgtype.Text
	OwnershipType  pgtype.Text
	HasRoadAccess  bool
	HasElectricity bool
	WaterSource    pgtype.Text
	SoilType       pgtype.Text
	Terrain        pgtype.Text
	PreviousCrops  pgtype.Text
	LeaseTerms     pgtype.Text
}

type ProduceDetails struct {
	ListingID        pgtype.UUID
	Quantity         pgtype.Float8
	Unit             pgtype.Text
	Quality          pgtype.Text
	Category         pgtype.Text
	Variety          pgtype.Text
	HarvestDate      pgtype.Date
	ProcessingMethod pgtype.Text
	Grade            pgtype.Text
	Certification    pgtype.Text
	Packaging        pgtype.Text
}

type ServiceDetails struct {
	ListingID       pgtype.UUID
	ServiceCategory pgtype.Text
	Availability    pgtype.Text
	ExperienceYears pgtype.Int4
	EquipmentType   pgtype.Text
	ServicesOffered []string
	CoverageArea    pgtype.Text
	PriceDetails    pgtype.Text
	BookingProcess  pgtype.Text
}

// Profile rows are owned by another service; this layer only reads them.
type Profile struct {
	ID        pgtype.UUID
	FirstName pgtype.Text
	LastName  pgtype.Text
	AvatarURL pgtype.Text
	Verified  bool
	Phone     pgtype.Text
	Rating    pgtype.Float8
}
