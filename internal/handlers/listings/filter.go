package listings

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// In-process filter and sort helpers for listing slices. Browse reads order
// by created_at or price in SQL; the size orderings run here because acreage
// often lives in free text rather than the land_listings column. Saved
// listings come back from one small query, so their keyword, sale-type and
// sort refinements run here too.

const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortSizeSmall = "size-small"
	SortSizeLarge = "size-large"
)

const sortBySize = "size"

// sortOptionFor maps the sort_by/order query pair onto a SortListings option.
func sortOptionFor(sortBy string, ascending bool) string {
	switch sortBy {
	case "price":
		if ascending {
			return SortPriceLow
		}
		return SortPriceHigh
	case sortBySize:
		if ascending {
			return SortSizeSmall
		}
		return SortSizeLarge
	default:
		if ascending {
			return SortOldest
		}
		return SortNewest
	}
}

// FormatPrice renders a price for display. Negotiable wins over any amount;
// an absent or zero price means the seller wants to be contacted.
func FormatPrice(price *int64, isNegotiable bool) string {
	if isNegotiable {
		return "Negotiable"
	}
	if price == nil || *price == 0 {
		return "Contact for price"
	}
	return "UGX " + formatThousands(*price)
}

func formatThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FilterBySearch keeps listings whose title, location or description contains
// the term, case-insensitively. A blank term keeps everything.
func FilterBySearch(in []ListingResponse, term string) []ListingResponse {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return in
	}

	out := make([]ListingResponse, 0, len(in))
	for _, l := range in {
		if strings.Contains(strings.ToLower(l.Title), term) ||
			strings.Contains(strings.ToLower(l.Location), term) ||
			strings.Contains(strings.ToLower(l.Description), term) {
			out = append(out, l)
		}
	}
	return out
}

// FilterLandBySaleType keeps land listings whose sale_type matches. "all"
// or blank keeps everything.
func FilterLandBySaleType(in []ListingResponse, saleType string) []ListingResponse {
	saleType = strings.ToLower(strings.TrimSpace(saleType))
	if saleType == "" || saleType == "all" {
		return in
	}

	out := make([]ListingResponse, 0, len(in))
	for _, l := range in {
		if l.Details.SaleType != nil && strings.EqualFold(*l.Details.SaleType, saleType) {
			out = append(out, l)
		}
	}
	return out
}

var acreagePattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(acres?|ha|hectares?)`)

// listingSize reads the structured acreage when present, otherwise scrapes
// "<number> acres" (or hectares) out of the title and description. Listings
// mentioning no size at all sort as zero.
func listingSize(l ListingResponse) float64 {
	if l.Details.SizeAcres != nil {
		return *l.Details.SizeAcres
	}

	m := acreagePattern.FindStringSubmatch(l.Title + " " + l.Description)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

func listingPrice(l ListingResponse) int64 {
	if l.Price == nil {
		return 0
	}
	return *l.Price
}

// SortListings returns a sorted copy; the input slice is never reordered.
// Unknown options sort by newest.
func SortListings(in []ListingResponse, option string) []ListingResponse {
	out := make([]ListingResponse, len(in))
	copy(out, in)

	switch option {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool {
			return listingPrice(out[i]) < listingPrice(out[j])
		})
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool {
			return listingPrice(out[i]) > listingPrice(out[j])
		})
	case SortSizeSmall:
		sort.SliceStable(out, func(i, j int) bool {
			return listingSize(out[i]) < listingSize(out[j])
		})
	case SortSizeLarge:
		sort.SliceStable(out, func(i, j int) bool {
			return listingSize(out[i]) > listingSize(out[j])
		})
	default: // SortNewest
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

// ListingFeatures derives the short facet chips shown on listing cards from
// whichever detail fields are populated.
func ListingFeatures(l ListingResponse) []string {
	features := []string{}
	d := l.Details

	switch l.Type {
	case "land":
		if d.SizeAcres != nil {
			features = append(features, fmt.Sprintf("%.1f acres", *d.SizeAcres))
		}
		if d.SaleType != nil {
			features = append(features, "For "+*d.SaleType)
		}
		if d.HasRoadAccess != nil && *d.HasRoadAccess {
			features = append(features, "Road access")
		}
		if d.HasElectricity != nil && *d.HasElectricity {
			features = append(features, "Electricity")
		}
		if d.WaterSource != nil && *d.WaterSource != "" {
			features = append(features, "Water: "+*d.WaterSource)
		}
		if d.SoilType != nil && *d.SoilType != "" {
			features = append(features, *d.SoilType+" soil")
		}
	case "produce":
		if d.Quantity != nil && d.Unit != nil {
			features = append(features, fmt.Sprintf("%.0f %s", *d.Quantity, *d.Unit))
		}
		if d.Quality != nil && *d.Quality != "" {
			features = append(features, *d.Quality)
		}
		if d.Grade != nil && *d.Grade != "" {
			features = append(features, "Grade "+*d.Grade)
		}
		if d.Certification != nil && *d.Certification != "" {
			features = append(features, *d.Certification)
		}
	case "service":
		if d.ServiceCategory != nil && *d.ServiceCategory != "" {
			features = append(features, *d.ServiceCategory)
		}
		if d.ExperienceYears != nil && *d.ExperienceYears > 0 {
			features = append(features, fmt.Sprintf("%d years experience", *d.ExperienceYears))
		}
		if d.CoverageArea != nil && *d.CoverageArea != "" {
			features = append(features, "Covers "+*d.CoverageArea)
		}
		if len(d.ServicesOffered) > 0 {
			features = append(features, d.ServicesOffered...)
		}
	}

	return features
}
