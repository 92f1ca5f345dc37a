package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const listingColumns = `id, user_id, title, description, price, is_negotiable, type, status, location, district, latitude, longitude, images, expiry_date, view_count, created_at, updated_at`

const ownerColumns = `p.first_name, p.last_name, p.avatar_url, p.verified, p.phone, p.rating`

// GetListingsParams drives the dynamic WHERE clause for browse and search.
// Status must always be set; the service applies the "active" default.
type GetListingsParams struct {
	Type      ListingType // empty = all types
	Status    ListingStatus
	District  string // empty = all districts
	Location  string // substring match
	Search    string // keyword across title/description/location
	SortBy    string // "created_at" or "price" order in SQL; "size" keeps created_at here and is resolved in process by the caller
	Ascending bool
	Limit     int32
	Offset    int32
}

type ListingWithOwnerRow struct {
	Listing
	OwnerFirstName pgtype.Text
	OwnerLastName  pgtype.Text
	OwnerAvatarURL pgtype.Text
	OwnerVerified  pgtype.Bool
	OwnerPhone     pgtype.Text
	OwnerRating    pgtype.Float8
}

func scanListing(row pgx.Row, l *Listing) error {
	return row.Scan(
		&l.ID, &l.UserID, &l.Title, &l.Description, &l.Price, &l.IsNegotiable,
		&l.Type, &l.Status, &l.Location, &l.District, &l.Latitude, &l.Longitude,
		&l.Images, &l.ExpiryDate, &l.ViewCount, &l.CreatedAt, &l.UpdatedAt,
	)
}

func buildListingFilter(arg GetListingsParams, prefix string) (string, []any) {
	conds := []string{fmt.Sprintf("%sstatus = $1", prefix)}
	args := []any{arg.Status}

	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, prefix, len(args)))
	}

	if arg.Type != "" {
		add("%stype = $%d", arg.Type)
	}
	if arg.District != "" {
		add("%sdistrict ILIKE $%d", arg.District)
	}
	if arg.Location != "" {
		add("%slocation ILIKE $%d", "%"+arg.Location+"%")
	}
	if arg.Search != "" {
		kw := "%" + arg.Search + "%"
		args = append(args, kw)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(%[1]stitle ILIKE $%[2]d OR %[1]sdescription ILIKE $%[2]d OR %[1]slocation ILIKE $%[2]d)",
			prefix, n,
		))
	}

	clause := " WHERE " + strings.Join(conds, " AND ")

	// Size ordering can't happen here: acreage may live in free text rather
	// than the land_listings column, so the service sorts the fetched page.
	sortCol := "created_at"
	if arg.SortBy == "price" {
		sortCol = "price"
	}
	dir := "DESC"
	if arg.Ascending {
		dir = "ASC"
	}
	clause += fmt.Sprintf(" ORDER BY %s%s %s", prefix, sortCol, dir)

	args = append(args, arg.Limit)
	clause += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, arg.Offset)
	clause += fmt.Sprintf(" OFFSET $%d", len(args))

	return clause, args
}

// GetListings returns filtered listings with the owner profile left-joined.
func (q *Queries) GetListings(ctx context.Context, arg GetListingsParams) ([]ListingWithOwnerRow, error) {
	cols := strings.ReplaceAll(listingColumns, ", ", ", l.")
	query := "SELECT l." + cols + ", " + ownerColumns +
		" FROM marketplace_listings l LEFT JOIN profiles p ON p.id = l.user_id"
	clause, args := buildListingFilter(arg, "l.")
	rows, err := q.db.Query(ctx, query+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListingWithOwnerRow
	for rows.Next() {
		var r ListingWithOwnerRow
		if err := rows.Scan(
			&r.ID, &r.UserID, &r.Title, &r.Description, &r.Price, &r.IsNegotiable,
			&r.Type, &r.Status, &r.Location, &r.District, &r.Latitude, &r.Longitude,
			&r.Images, &r.ExpiryDate, &r.ViewCount, &r.CreatedAt, &r.UpdatedAt,
			&r.OwnerFirstName, &r.OwnerLastName, &r.OwnerAvatarURL,
			&r.OwnerVerified, &r.OwnerPhone, &r.OwnerRating,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetListingsBare is the join-free fallback used when the profiles join fails;
// the caller substitutes a placeholder owner.
func (q *Queries) GetListingsBare(ctx context.Context, arg GetListingsParams) ([]Listing, error) {
	query := "SELECT " + listingColumns + " FROM marketplace_listings"
	clause, args := buildListingFilter(arg, "")
	rows, err := q.db.Query(ctx, query+clause, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		var l Listing
		if err := scanListing(rows, &l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

const getListingByID = `SELECT ` + listingColumns + ` FROM marketplace_listings WHERE id = $1`

func (q *Queries) GetListingByID(ctx context.Context, id pgtype.UUID) (Listing, error) {
	var l Listing
	err := scanListing(q.db.QueryRow(ctx, getListingByID, id), &l)
	return l, err
}

const createListing = `INSERT INTO marketplace_listings (user_id, title, description, price, is_negotiable, type, status, location, district, latitude, longitude, images, expiry_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING ` + listingColumns

type CreateListingParams struct {
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
}

func (q *Queries) CreateListing(ctx context.Context, arg CreateListingParams) (Listing, error) {
	var l Listing
	err := scanListing(q.db.QueryRow(ctx, createListing,
		arg.UserID, arg.Title, arg.Description, arg.Price, arg.IsNegotiable,
		arg.Type, arg.Status, arg.Location, arg.District, arg.Latitude,
		arg.Longitude, arg.Images, arg.ExpiryDate,
	), &l)
	return l, err
}

// updateListing leaves type untouched on purpose: listing type is immutable.
const updateListing = `UPDATE marketplace_listings SET
	title = COALESCE($3, title),
	description = COALESCE($4, description),
	price = COALESCE($5, price),
	is_negotiable = COALESCE($6, is_negotiable),
	location = COALESCE($7, location),
	district = COALESCE($8, district),
	latitude = COALESCE($9, latitude),
	longitude = COALESCE($10, longitude),
	images = COALESCE($11::text[], images),
	expiry_date = COALESCE($12, expiry_date),
	updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + listingColumns

type UpdateListingParams struct {
	ID           pgtype.UUID
	UserID       pgtype.UUID
	Title        pgtype.Text
	Description  pgtype.Text
	Price        pgtype.Int8
	IsNegotiable pgtype.Bool
	Location     pgtype.Text
	District     pgtype.Text
	Latitude     pgtype.Float8
	Longitude    pgtype.Float8
	Images       []string
	ExpiryDate   pgtype.Timestamptz
}

func (q *Queries) UpdateListing(ctx context.Context, arg UpdateListingParams) (Listing, error) {
	var l Listing
	err := scanListing(q.db.QueryRow(ctx, updateListing,
		arg.ID, arg.UserID, arg.Title, arg.Description, arg.Price, arg.IsNegotiable,
		arg.Location, arg.District, arg.Latitude, arg.Longitude, arg.Images, arg.ExpiryDate,
	), &l)
	return l, err
}

// Detail rows carry ON DELETE CASCADE, so this removes the whole listing.
const deleteListing = `DELETE FROM marketplace_listings WHERE id = $1 AND user_id = $2`

func (q *Queries) DeleteListing(ctx context.Context, id, userID pgtype.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteListing, id, userID)
	return tag.RowsAffected(), err
}

const incrementListingView = `UPDATE marketplace_listings SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count`

func (q *Queries) IncrementListingView(ctx context.Context, id pgtype.UUID) (int32, error) {
	var count int32
	err := q.db.QueryRow(ctx, incrementListingView, id).Scan(&count)
	return count, err
}

// Status writes are unconditional overwrites; there is no transition machine.
const changeListingStatus = `UPDATE marketplace_listings SET status = $3, updated_at = now() WHERE id = $1 AND user_id = $2`

func (q *Queries) ChangeListingStatus(ctx context.Context, id, userID pgtype.UUID, status ListingStatus) (int64, error) {
	tag, err := q.db.Exec(ctx, changeListingStatus, id, userID, status)
	return tag.RowsAffected(), err
}

const getProfileByID = `SELECT id, first_name, last_name, avatar_url, verified, phone, rating FROM profiles WHERE id = $1`

func (q *Queries) GetProfileByID(ctx context.Context, id pgtype.UUID) (Profile, error) {
	var p Profile
	err := q.db.QueryRow(ctx, getProfileByID, id).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.AvatarURL, &p.Verified, &p.Phone, &p.Rating,
	)
	return p, err
}
