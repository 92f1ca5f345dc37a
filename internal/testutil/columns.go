package testutil

// ListingsCols must match the RETURNING clause order for marketplace_listings.
var ListingsCols = []string{
	"id", "user_id", "title", "description", "price", "is_negotiable",
	"type", "status", "location", "district", "latitude", "longitude",
	"images", "expiry_date", "view_count", "created_at", "updated_at",
}

// LandCols must match the RETURNING clause order for land_listings.
var LandCols = []string{
	"listing_id", "size_acres", "sale_type", "land_type", "ownership_type",
	"has_road_access", "has_electricity", "water_source", "soil_type",
	"terrain", "previous_crops", "lease_terms",
}

// ProduceCols must match the RETURNING clause order for produce_listings.
var ProduceCols = []string{
	"listing_id", "quantity", "unit", "quality", "category", "variety",
	"harvest_date", "processing_method", "grade", "certification", "packaging",
}

// ServiceCols must match the RETURNING clause order for service_listings.
var ServiceCols = []string{
	"listing_id", "service_category", "availability", "experience_years",
	"equipment_type", "services_offered", "coverage_area", "price_details",
	"booking_process",
}
