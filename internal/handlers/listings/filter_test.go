package listings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func i64Ptr(i int64) *int64     { return &i }

func TestFormatPrice(t *testing.T) {
	t.Run("negotiable wins over amount", func(t *testing.T) {
		assert.Equal(t, "Negotiable", FormatPrice(i64Ptr(500000), true))
	})

	t.Run("nil price", func(t *testing.T) {
		assert.Equal(t, "Contact for price", FormatPrice(nil, false))
	})

	t.Run("zero price", func(t *testing.T) {
		assert.Equal(t, "Contact for price", FormatPrice(i64Ptr(0), false))
	})

	t.Run("thousands separators", func(t *testing.T) {
		assert.Equal(t, "UGX 1,500,000", FormatPrice(i64Ptr(1500000), false))
		assert.Equal(t, "UGX 850", FormatPrice(i64Ptr(850), false))
		assert.Equal(t, "UGX 12,000", FormatPrice(i64Ptr(12000), false))
	})
}

func TestFilterBySearch(t *testing.T) {
	in := []ListingResponse{
		{Title: "Fertile land in Mbale", Location: "Mbale", Description: "Near the river"},
		{Title: "Fresh Maize", Location: "Gulu", Description: "50 bags available"},
		{Title: "Tractor hire", Location: "Lira", Description: "Ploughing services"},
	}

	t.Run("blank term is identity", func(t *testing.T) {
		assert.Equal(t, in, FilterBySearch(in, ""))
		assert.Equal(t, in, FilterBySearch(in, "   "))
	})

	t.Run("case-insensitive title match", func(t *testing.T) {
		out := FilterBySearch(in, "MAIZE")
		assert.Len(t, out, 1)
		assert.Equal(t, "Fresh Maize", out[0].Title)
	})

	t.Run("matches location and description too", func(t *testing.T) {
		assert.Len(t, FilterBySearch(in, "gulu"), 1)
		assert.Len(t, FilterBySearch(in, "river"), 1)
	})

	t.Run("no match yields empty, not nil panic", func(t *testing.T) {
		assert.Empty(t, FilterBySearch(in, "coffee"))
	})
}

func TestFilterLandBySaleType(t *testing.T) {
	in := []ListingResponse{
		{Title: "Lease plot", Details: ListingDetails{SaleType: strPtr("lease")}},
		{Title: "Title sale", Details: ListingDetails{SaleType: strPtr("sale")}},
		{Title: "No details"},
	}

	t.Run("all keeps everything", func(t *testing.T) {
		assert.Equal(t, in, FilterLandBySaleType(in, "all"))
		assert.Equal(t, in, FilterLandBySaleType(in, ""))
	})

	t.Run("matches enum value", func(t *testing.T) {
		out := FilterLandBySaleType(in, "lease")
		assert.Len(t, out, 1)
		assert.Equal(t, "Lease plot", out[0].Title)
	})

	t.Run("missing sale_type never matches", func(t *testing.T) {
		out := FilterLandBySaleType(in, "partnership")
		assert.Empty(t, out)
	})
}

func TestSortListings(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := []ListingResponse{
		{Title: "a", CreatedAt: base, Price: i64Ptr(300)},
		{Title: "b", CreatedAt: base.Add(2 * time.Hour), Price: nil},
		{Title: "c", CreatedAt: base.Add(time.Hour), Price: i64Ptr(100)},
	}

	titles := func(l []ListingResponse) []string {
		out := make([]string, len(l))
		for i, x := range l {
			out[i] = x.Title
		}
		return out
	}

	t.Run("newest then oldest are exact reversals", func(t *testing.T) {
		newest := SortListings(in, SortNewest)
		oldest := SortListings(in, SortOldest)
		assert.Equal(t, []string{"b", "c", "a"}, titles(newest))
		assert.Equal(t, []string{"a", "c", "b"}, titles(oldest))
	})

	t.Run("nil price sorts as zero", func(t *testing.T) {
		low := SortListings(in, SortPriceLow)
		assert.Equal(t, []string{"b", "c", "a"}, titles(low))

		high := SortListings(in, SortPriceHigh)
		assert.Equal(t, []string{"a", "c", "b"}, titles(high))
	})

	t.Run("input slice is not reordered", func(t *testing.T) {
		_ = SortListings(in, SortPriceHigh)
		assert.Equal(t, []string{"a", "b", "c"}, titles(in))
	})

	t.Run("unknown option falls back to newest", func(t *testing.T) {
		assert.Equal(t, []string{"b", "c", "a"}, titles(SortListings(in, "bogus")))
	})
}

func TestSortListingsBySize(t *testing.T) {
	in := []ListingResponse{
		{Title: "structured", Details: ListingDetails{SizeAcres: f64Ptr(12)}},
		{Title: "from text", Description: "Prime 3.5 acres near the trading centre"},
		{Title: "hectares in title: 7 hectares of farmland"},
		{Title: "no size at all"},
	}

	small := SortListings(in, SortSizeSmall)
	assert.Equal(t, "no size at all", small[0].Title)
	assert.Equal(t, "from text", small[1].Title)
	assert.Equal(t, "hectares in title: 7 hectares of farmland", small[2].Title)
	assert.Equal(t, "structured", small[3].Title)

	large := SortListings(in, SortSizeLarge)
	assert.Equal(t, "structured", large[0].Title)
	assert.Equal(t, "no size at all", large[3].Title)
}

func TestListingFeatures(t *testing.T) {
	t.Run("land facets", func(t *testing.T) {
		yes := true
		l := ListingResponse{
			Type: "land",
			Details: ListingDetails{
				SizeAcres:     f64Ptr(5),
				SaleType:      strPtr("lease"),
				HasRoadAccess: &yes,
				WaterSource:   strPtr("Borehole"),
			},
		}
		assert.Equal(t, []string{"5.0 acres", "For lease", "Road access", "Water: Borehole"}, ListingFeatures(l))
	})

	t.Run("produce facets", func(t *testing.T) {
		l := ListingResponse{
			Type: "produce",
			Details: ListingDetails{
				Quantity:      f64Ptr(50),
				Unit:          strPtr("bags"),
				Quality:       strPtr("Organic"),
				Certification: strPtr("UNBS certified"),
			},
		}
		assert.Equal(t, []string{"50 bags", "Organic", "UNBS certified"}, ListingFeatures(l))
	})

	t.Run("service facets", func(t *testing.T) {
		years := int32(8)
		l := ListingResponse{
			Type: "service",
			Details: ListingDetails{
				ServiceCategory: strPtr("Tractor hire"),
				ExperienceYears: &years,
				ServicesOffered: []string{"Ploughing", "Harrowing"},
			},
		}
		assert.Equal(t, []string{"Tractor hire", "8 years experience", "Ploughing", "Harrowing"}, ListingFeatures(l))
	})

	t.Run("empty details yield no features", func(t *testing.T) {
		assert.Empty(t, ListingFeatures(ListingResponse{Type: "land"}))
	})

	t.Run("pure: same input twice gives same output", func(t *testing.T) {
		l := ListingResponse{Type: "produce", Details: ListingDetails{Quality: strPtr("Grade A")}}
		assert.Equal(t, ListingFeatures(l), ListingFeatures(l))
	})
}
