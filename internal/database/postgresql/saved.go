package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// Duplicate saves are NOT deduplicated here; the unique constraint on
// (user_id, listing_id) surfaces as a pg error the service maps to a conflict.
const saveListing = `INSERT INTO user_saved_listings (user_id, listing_id) VALUES ($1, $2)`

func (q *Queries) SaveListing(ctx context.Context, userID, listingID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, saveListing, userID, listingID)
	return err
}

const unsaveListing = `DELETE FROM user_saved_listings WHERE user_id = $1 AND listing_id = $2`

func (q *Queries) UnsaveListing(ctx context.Context, userID, listingID pgtype.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, unsaveListing, userID, listingID)
	return tag.RowsAffected(), err
}

// The land join feeds the in-process sale-type filter and size sort on the
// saved page; it is NULL for produce and service rows.
const getSavedListings = `SELECT l.id, l.user_id, l.title, l.description, l.price, l.is_negotiable, l.type, l.status, l.location, l.district, l.latitude, l.longitude, l.images, l.expiry_date, l.view_count, l.created_at, l.updated_at, ld.sale_type, ld.size_acres
FROM user_saved_listings s
JOIN marketplace_listings l ON l.id = s.listing_id
LEFT JOIN land_listings ld ON ld.listing_id = l.id
WHERE s.user_id = $1
ORDER BY s.created_at DESC`

type SavedListingRow struct {
	Listing
	SaleType  pgtype.Text
	SizeAcres pgtype.Float8
}

func (q *Queries) GetSavedListings(ctx context.Context, userID pgtype.UUID) ([]SavedListingRow, error) {
	rows, err := q.db.Query(ctx, getSavedListings, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavedListingRow
	for rows.Next() {
		var r SavedListingRow
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.Title, &r.Description, &r.Price, &r.IsNegotiable,
			&r.Type, &r.Status, &r.Location, &r.District, &r.Latitude, &r.Longitude,
			&r.Images, &r.ExpiryDate, &r.ViewCount, &r.CreatedAt, &r.UpdatedAt,
			&r.SaleType, &r.SizeAcres,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
