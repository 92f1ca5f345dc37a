package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const landColumns = `listing_id, size_acres, sale_type, land_type, ownership_type, has_road_access, has_electricity, water_source, soil_type, terrain, previous_crops, lease_terms`

const getLandDetails = `SELECT ` + landColumns + ` FROM land_listings WHERE listing_id = $1`

func (q *Queries) GetLandDetails(ctx context.Context, listingID pgtype.UUID) (LandDetails, error) {
	var d LandDetails
	err := q.db.QueryRow(ctx, getLandDetails, listingID).Scan(
		&d.ListingID, &d.SizeAcres, &d.SaleType, &d.LandType, &d.OwnershipType,
		&d.HasRoadAccess, &d.HasElectricity, &d.WaterSource, &d.SoilType,
		&d.Terrain, &d.PreviousCrops, &d.LeaseTerms,
	)
	return d, err
}

const createLandDetails = `INSERT INTO land_listings (` + landColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + landColumns

func (q *Queries) CreateLandDetails(ctx context.Context, d LandDetails) (LandDetails, error) {
	var out LandDetails
	err := q.db.QueryRow(ctx, createLandDetails,
		d.ListingID, d.SizeAcres, d.SaleType, d.LandType, d.OwnershipType,
		d.HasRoadAccess, d.HasElectricity, d.WaterSource, d.SoilType,
		d.Terrain, d.PreviousCrops, d.LeaseTerms,
	).Scan(
		&out.ListingID, &out.SizeAcres, &out.SaleType, &out.LandType, &out.OwnershipType,
		&out.HasRoadAccess, &out.HasElectricity, &out.WaterSource, &out.SoilType,
		&out.Terrain, &out.PreviousCrops, &out.LeaseTerms,
	)
	return out, err
}

const updateLandDetails = `UPDATE land_listings SET
	size_acres = COALESCE($2, size_acres),
	sale_type = COALESCE($3, sale_type),
	land_type = COALESCE($4, land_type),
	ownership_type = COALESCE($5, ownership_type),
	has_road_access = COALESCE($6, has_road_access),
	has_electricity = COALESCE($7, has_electricity),
	water_source = COALESCE($8, water_source),
	soil_type = COALESCE($9, soil_type),
	terrain = COALESCE($10, terrain),
	previous_crops = COALESCE($11, previous_crops),
	lease_terms = COALESCE($12, lease_terms)
WHERE listing_id = $1
RETURNING ` + landColumns

type UpdateLandDetailsParams struct {
	ListingID      pgtype.UUID
	SizeAcres      pgtype.Float8
	SaleType       pgtype.Text
	LandType       pgtype.Text
	OwnershipType  pgtype.Text
	HasRoadAccess  pgtype.Bool
	HasElectricity pgtype.Bool
	WaterSource    pgtype.Text
	SoilType       pgtype.Text
	Terrain        pgtype.Text
	PreviousCrops  pgtype.Text
	LeaseTerms     pgtype.Text
}

// UpdateLandDetails returns the merged row so callers can answer without a
// follow-up read; pgx.ErrNoRows means the listing has no detail row.
func (q *Queries) UpdateLandDetails(ctx context.Context, arg UpdateLandDetailsParams) (LandDetails, error) {
	var out LandDetails
	err := q.db.QueryRow(ctx, updateLandDetails,
		arg.ListingID, arg.SizeAcres, arg.SaleType, arg.LandType, arg.OwnershipType,
		arg.HasRoadAccess, arg.HasElectricity, arg.WaterSource, arg.SoilType,
		arg.Terrain, arg.PreviousCrops, arg.LeaseTerms,
	).Scan(
		&out.ListingID, &out.SizeAcres, &out.SaleType, &out.LandType, &out.OwnershipType,
		&out.HasRoadAccess, &out.HasElectricity, &out.WaterSource, &out.SoilType,
		&out.Terrain, &out.PreviousCrops, &out.LeaseTerms,
	)
	return out, err
}

const produceColumns = `listing_id, quantity, unit, quality, category, variety, harvest_date, processing_method, grade, certification, packaging`

const getProduceDetails = `SELECT ` + produceColumns + ` FROM produce_listings WHERE listing_id = $1`

func (q *Queries) GetProduceDetails(ctx context.Context, listingID pgtype.UUID) (ProduceDetails, error) {
	var d ProduceDetails
	err := q.db.QueryRow(ctx, getProduceDetails, listingID).Scan(
		&d.ListingID, &d.Quantity, &d.Unit, &d.Quality, &d.Category, &d.Variety,
		&d.HarvestDate, &d.ProcessingMethod, &d.Grade, &d.Certification, &d.Packaging,
	)
	return d, err
}

const createProduceDetails = `INSERT INTO produce_listings (` + produceColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + produceColumns

func (q *Queries) CreateProduceDetails(ctx context.Context, d ProduceDetails) (ProduceDetails, error) {
	var out ProduceDetails
	err := q.db.QueryRow(ctx, createProduceDetails,
		d.ListingID, d.Quantity, d.Unit, d.Quality, d.Category, d.Variety,
		d.HarvestDate, d.ProcessingMethod, d.Grade, d.Certification, d.Packaging,
	).Scan(
		&out.ListingID, &out.Quantity, &out.Unit, &out.Quality, &out.Category, &out.Variety,
		&out.HarvestDate, &out.ProcessingMethod, &out.Grade, &out.Certification, &out.Packaging,
	)
	return out, err
}

const updateProduceDetails = `UPDATE produce_listings SET
	quantity = COALESCE($2, quantity),
	unit = COALESCE($3, unit),
	quality = COALESCE($4, quality),
	category = COALESCE($5, category),
	variety = COALESCE($6, variety),
	harvest_date = COALESCE($7, harvest_date),
	processing_method = COALESCE($8, processing_method),
	grade = COALESCE($9, grade),
	certification = COALESCE($10, certification),
	packaging = COALESCE($11, packaging)
WHERE listing_id = $1
RETURNING ` + produceColumns

type UpdateProduceDetailsParams struct {
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

func (q *Queries) UpdateProduceDetails(ctx context.Context, arg UpdateProduceDetailsParams) (ProduceDetails, error) {
	var out ProduceDetails
	err := q.db.QueryRow(ctx, updateProduceDetails,
		arg.ListingID, arg.Quantity, arg.Unit, arg.Quality, arg.Category, arg.Variety,
		arg.HarvestDate, arg.ProcessingMethod, arg.Grade, arg.Certification, arg.Packaging,
	).Scan(
		&out.ListingID, &out.Quantity, &out.Unit, &out.Quality, &out.Category, &out.Variety,
		&out.HarvestDate, &out.ProcessingMethod, &out.Grade, &out.Certification, &out.Packaging,
	)
	return out, err
}

const serviceColumns = `listing_id, service_category, availability, experience_years, equipment_type, services_offered, coverage_area, price_details, booking_process`

const getServiceDetails = `SELECT ` + serviceColumns + ` FROM service_listings WHERE listing_id = $1`

func (q *Queries) GetServiceDetails(ctx context.Context, listingID pgtype.UUID) (ServiceDetails, error) {
	var d ServiceDetails
	err := q.db.QueryRow(ctx, getServiceDetails, listingID).Scan(
		&d.ListingID, &d.ServiceCategory, &d.Availability, &d.ExperienceYears,
		&d.EquipmentType, &d.ServicesOffered, &d.CoverageArea, &d.PriceDetails, &d.BookingProcess,
	)
	return d, err
}

const createServiceDetails = `INSERT INTO service_listings (` + serviceColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + serviceColumns

func (q *Queries) CreateServiceDetails(ctx context.Context, d ServiceDetails) (ServiceDetails, error) {
	var out ServiceDetails
	err := q.db.QueryRow(ctx, createServiceDetails,
		d.ListingID, d.ServiceCategory, d.Availability, d.ExperienceYears,
		d.EquipmentType, d.ServicesOffered, d.CoverageArea, d.PriceDetails, d.BookingProcess,
	).Scan(
		&out.ListingID, &out.ServiceCategory, &out.Availability, &out.ExperienceYears,
		&out.EquipmentType, &out.ServicesOffered, &out.CoverageArea, &out.PriceDetails, &out.BookingProcess,
	)
	return out, err
}

const updateServiceDetails = `UPDATE service_listings SET
	service_category = COALESCE($2, service_category),
	availability = COALESCE($3, availability),
	experience_years = COALESCE($4, experience_years),
	equipment_type = COALESCE($5, equipment_type),
	services_offered = COALESCE($6::text[], services_offered),
	coverage_area = COALESCE($7, coverage_area),
	price_details = COALESCE($8, price_details),
	booking_process = COALESCE($9, booking_process)
WHERE listing_id = $1
RETURNING ` + serviceColumns

type UpdateServiceDetailsParams struct {
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

func (q *Queries) UpdateServiceDetails(ctx context.Context, arg UpdateServiceDetailsParams) (ServiceDetails, error) {
	var out ServiceDetails
	err := q.db.QueryRow(ctx, updateServiceDetails,
		arg.ListingID, arg.ServiceCategory, arg.Availability, arg.ExperienceYears,
		arg.EquipmentType, arg.ServicesOffered, arg.CoverageArea, arg.PriceDetails, arg.BookingProcess,
	).Scan(
		&out.ListingID, &out.ServiceCategory, &out.Availability, &out.ExperienceYears,
		&out.EquipmentType, &out.ServicesOffered, &out.CoverageArea, &out.PriceDetails, &out.BookingProcess,
	)
	return out, err
}
