package listings

import (
	"context"
	stderrors "errors"
	"regexp"
	"testing"
	"time"

	"farmgate/internal/auth"
	"farmgate/internal/database/postgresql"
	apperrors "farmgate/internal/errors"
	"farmgate/internal/testutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validUserUUID      = "a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11"
	generatedListingID = "11111111-1111-1111-1111-111111111111"
)

func newTestService(t *testing.T) (*svc, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool := testutil.NewMockDB(t)
	service := &svc{
		repo:   postgresql.New(mockPool),
		db:     mockPool,
		logger: testutil.NewTestLogger(),
	}
	return service, mockPool
}

func testUser() auth.UserInfo {
	return auth.UserInfo{
		ID:       validUserUUID,
		Email:    "farmer@example.com",
		Username: "farmer",
	}
}

func baseListingRow(listingType, status string) []any {
	now := time.Now()
	return []any{
		generatedListingID, validUserUUID, "Fertile land in Mbale", "Five acres near the river",
		int64(5000000), false, listingType, status, "Mbale", nil, nil, nil,
		[]string{}, nil, int32(0), now, now,
	}
}

func TestCreateListing_Land_Success(t *testing.T) {
	service, mockPool := newTestService(t)

	saleType := "lease"
	size := 5.0
	req := &CreateListingRequest{
		Title:       "Fertile land in Mbale",
		Description: "Five acres near the river",
		Price:       i64Ptr(5000000),
		Type:        "land",
		Location:    "Mbale",
		Details: ListingDetails{
			SaleType:  &saleType,
			SizeAcres: &size,
		},
	}

	mockPool.ExpectBegin()

	mockPool.ExpectQuery(regexp.QuoteMeta(`INSERT INTO marketplace_listings`)).
		WithArgs(
			pgxmock.AnyArg(), "Fertile land in Mbale", pgxmock.AnyArg(), pgxmock.AnyArg(),
			false, postgresql.ListingTypeLand, postgresql.ListingStatusActive, "Mbale",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnRows(pgxmock.NewRows(testutil.ListingsCols).AddRow(baseListingRow("land", "active")...))

	mockPool.ExpectQuery(regexp.QuoteMeta(`INSERT INTO land_listings`)).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), postgresql.SaleTypeLease, pgxmock.AnyArg(),
			pgxmock.AnyArg(), false, false, pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnRows(pgxmock.NewRows(testutil.LandCols).AddRow(
			generatedListingID, 5.0, "lease", nil, nil, false, false, nil, nil, nil, nil, nil,
		))

	mockPool.ExpectCommit()

	result, err := service.CreateListing(context.Background(), testUser(), req)

	require.NoError(t, err)
	assert.Equal(t, "Fertile land in Mbale", result.Title)
	assert.Equal(t, "land", result.Type)
	require.NotNil(t, result.Details.SaleType)
	assert.Equal(t, "lease", *result.Details.SaleType)
	require.NotNil(t, result.Details.SizeAcres)
	assert.Equal(t, 5.0, *result.Details.SizeAcres)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestCreateListing_RejectsBadInput(t *testing.T) {
	service, mockPool := newTestService(t)

	cases := []struct {
		name string
		req  *CreateListingRequest
	}{
		{"short title", &CreateListingRequest{Title: "Hi", Type: "produce", Location: "Gulu"}},
		{"bad type", &CreateListingRequest{Title: "Valid enough title", Type: "cattle", Location: "Gulu"}},
		{"missing location", &CreateListingRequest{Title: "Valid enough title", Type: "produce"}},
		{"land without sale_type", &CreateListingRequest{Title: "Valid enough title", Type: "land", Location: "Gulu"}},
		{"malformed harvest_date", &CreateListingRequest{
			Title: "Valid enough title", Type: "produce", Location: "Gulu",
			Details: ListingDetails{HarvestDate: strPtr("31/12/2025")},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateListing(context.Background(), testUser(), tc.req)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
		})
	}

	// Nothing ever reached the database.
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetListingByID_MissingDetailsDegrades(t *testing.T) {
	service, mockPool := newTestService(t)

	mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, title`)).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(testutil.ListingsCols).AddRow(baseListingRow("produce", "active")...))

	// Detail row gone and profile unreadable: the listing still comes back.
	mockPool.ExpectQuery(regexp.QuoteMeta(`FROM produce_listings`)).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	mockPool.ExpectQuery(regexp.QuoteMeta(`FROM profiles`)).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	result, err := service.GetListingByID(context.Background(), generatedListingID, "")

	require.NoError(t, err)
	assert.Equal(t, ListingDetails{}, result.Details)
	assert.Equal(t, PlaceholderOwner(), result.Owner)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetListingByID_NotFound(t *testing.T) {
	service, mockPool := newTestService(t)

	mockPool.ExpectQuery(regexp.QuoteMeta(`FROM marketplace_listings`)).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err := service.GetListingByID(context.Background(), generatedListingID, "")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetListings_JoinFailureFallsBackToPlaceholder(t *testing.T) {
	service, mockPool := newTestService(t)

	mockPool.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN profiles`)).
		WithArgs(postgresql.ListingStatusActive, int32(20), int32(0)).
		WillReturnError(stderrors.New("relation profiles is unavailable"))

	mockPool.ExpectQuery(regexp.QuoteMeta(`FROM marketplace_listings`)).
		WithArgs(postgresql.ListingStatusActive, int32(20), int32(0)).
		WillReturnRows(pgxmock.NewRows(testutil.ListingsCols).AddRow(baseListingRow("land", "active")...))

	result, err := service.GetListings(context.Background(), GetListingsOptions{})

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, PlaceholderOwner(), result[0].Owner)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetListings_RejectsUnknownType(t *testing.T) {
	service, mockPool := newTestService(t)

	_, err := service.GetListings(context.Background(), GetListingsOptions{Type: "cattle"})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestDeleteListing(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		service, mockPool := newTestService(t)

		mockPool.ExpectExec(regexp.QuoteMeta(`DELETE FROM marketplace_listings`)).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		err := service.DeleteListing(context.Background(), testUser(), generatedListingID)

		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("someone else's listing reads as not found", func(t *testing.T) {
		service, mockPool := newTestService(t)

		mockPool.ExpectExec(regexp.QuoteMeta(`DELETE FROM marketplace_listings`)).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := service.DeleteListing(context.Background(), testUser(), generatedListingID)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestSaveListing_DuplicateIsConflict(t *testing.T) {
	service, mockPool := newTestService(t)

	mockPool.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_saved_listings`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "user_saved_listings_pkey"})

	err := service.SaveListing(context.Background(), testUser(), generatedListingID)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestChangeListingStatus_RejectsUnknownStatus(t *testing.T) {
	service, mockPool := newTestService(t)

	err := service.ChangeListingStatus(context.Background(), testUser(), generatedListingID, "archived")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestIncrementListingView(t *testing.T) {
	service, mockPool := newTestService(t)

	mockPool.ExpectQuery(regexp.QuoteMeta(`SET view_count = view_count + 1`)).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"view_count"}).AddRow(int32(8)))

	count, err := service.IncrementListingView(context.Background(), generatedListingID)

	require.NoError(t, err)
	assert.Equal(t, int32(8), count)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func joinedListingRow(title, description string) []any {
	now := time.Now()
	return []any{
		generatedListingID, validUserUUID, title, description,
		int64(1000000), false, "land", "active", "Mbale", nil, nil, nil,
		[]string{}, nil, int32(0), now, now,
		nil, nil, nil, nil, nil, nil,
	}
}

func joinedListingCols() []string {
	cols := append([]string{}, testutil.ListingsCols...)
	return append(cols, "first_name", "last_name", "avatar_url", "verified", "phone", "rating")
}

func TestGetListings_SortBySizeOrdersPage(t *testing.T) {
	// Acreage lives in the listing text here, so the ordering has to happen
	// after the page comes back from the database.
	service, mockPool := newTestService(t)

	mockPool.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN profiles`)).
		WithArgs(postgresql.ListingStatusActive, int32(20), int32(0)).
		WillReturnRows(pgxmock.NewRows(joinedListingCols()).
			AddRow(joinedListingRow("3 acres of farmland", "Near the trading centre")...).
			AddRow(joinedListingRow("Prime plot", "12 acres with road access")...).
			AddRow(joinedListingRow("Garden plot", "0.5 acres behind the school")...))

	result, err := service.GetListings(context.Background(), GetListingsOptions{SortBy: "size"})

	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, "Prime plot", result[0].Title)
	assert.Equal(t, "3 acres of farmland", result[1].Title)
	assert.Equal(t, "Garden plot", result[2].Title)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func savedListingCols() []string {
	cols := append([]string{}, testutil.ListingsCols...)
	return append(cols, "sale_type", "size_acres")
}

func savedListingRow(title, listingType string, saleType any) []any {
	now := time.Now()
	return []any{
		generatedListingID, validUserUUID, title, "",
		int64(1000000), false, listingType, "active", "Mbale", nil, nil, nil,
		[]string{}, nil, int32(0), now, now,
		saleType, nil,
	}
}

func TestGetSavedListings_RefinesInProcess(t *testing.T) {
	t.Run("sale type narrows to matching land", func(t *testing.T) {
		service, mockPool := newTestService(t)

		mockPool.ExpectQuery(regexp.QuoteMeta(`FROM user_saved_listings`)).
			WithArgs(pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows(savedListingCols()).
				AddRow(savedListingRow("Fertile land in Mbale", "land", "lease")...).
				AddRow(savedListingRow("Plot in Wakiso", "land", "sale")...).
				AddRow(savedListingRow("Fresh maize", "produce", nil)...))

		result, err := service.GetSavedListings(context.Background(), testUser(), SavedListingsOptions{SaleType: "lease"})

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "Fertile land in Mbale", result[0].Title)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("keyword narrows across titles", func(t *testing.T) {
		service, mockPool := newTestService(t)

		mockPool.ExpectQuery(regexp.QuoteMeta(`FROM user_saved_listings`)).
			WithArgs(pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows(savedListingCols()).
				AddRow(savedListingRow("Fertile land in Mbale", "land", "lease")...).
				AddRow(savedListingRow("Fresh maize", "produce", nil)...))

		result, err := service.GetSavedListings(context.Background(), testUser(), SavedListingsOptions{Search: "maize"})

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "Fresh maize", result[0].Title)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestUpdateListing_RejectsMalformedHarvestDate(t *testing.T) {
	service, mockPool := newTestService(t)

	req := &UpdateListingRequest{Details: ListingDetails{HarvestDate: strPtr("next Tuesday")}}

	_, err := service.UpdateListing(context.Background(), testUser(), generatedListingID, req)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrInvalidInput, appErr.Code)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpdateListing_BuildsResponseFromReturnedRows(t *testing.T) {
	// Both UPDATEs carry RETURNING clauses; the absence of any further query
	// expectations proves the response needs no reads after commit.
	service, mockPool := newTestService(t)

	size := 8.0
	req := &UpdateListingRequest{Details: ListingDetails{SizeAcres: &size}}

	mockPool.ExpectBegin()

	mockPool.ExpectQuery(regexp.QuoteMeta(`UPDATE marketplace_listings`)).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnRows(pgxmock.NewRows(testutil.ListingsCols).AddRow(baseListingRow("land", "active")...))

	mockPool.ExpectQuery(regexp.QuoteMeta(`UPDATE land_listings`)).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnRows(pgxmock.NewRows(testutil.LandCols).AddRow(
			generatedListingID, 8.0, "sale", nil, nil, true, false, nil, nil, nil, nil, nil,
		))

	mockPool.ExpectCommit()

	result, err := service.UpdateListing(context.Background(), testUser(), generatedListingID, req)

	require.NoError(t, err)
	assert.Equal(t, "Fertile land in Mbale", result.Title)
	require.NotNil(t, result.Details.SizeAcres)
	assert.Equal(t, 8.0, *result.Details.SizeAcres)
	require.NotNil(t, result.Details.SaleType)
	assert.Equal(t, "sale", *result.Details.SaleType)
	assert.Contains(t, result.Features, "8.0 acres")
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
