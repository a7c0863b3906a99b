// Package query defines the typed listing parameters and the filter
// expression the repository compiles into SQL. Keeping the predicates as a
// small tagged set (range, ID membership, keyword conjunction) keeps the
// pipeline logic independent of the storage backend.
package query

import "strings"

const (
	DefaultPage     = 1
	DefaultPageSize = 32
)

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// SortField is an allow-listed sortable field. SortDistance is computed in
// memory and never reaches the database.
type SortField string

const (
	SortAvgScore      SortField = "avgScore"
	SortAmbienceScore SortField = "ambienceScore"
	SortLocationScore SortField = "locationScore"
	SortQualityScore  SortField = "qualityScore"
	SortServiceScore  SortField = "serviceScore"
	SortPriceScore    SortField = "priceScore"
	SortDistance      SortField = "distance"
)

var sortColumns = map[SortField]string{
	SortAvgScore:      "avg_score",
	SortAmbienceScore: "ambience_score",
	SortLocationScore: "location_score",
	SortQualityScore:  "quality_score",
	SortServiceScore:  "service_score",
	SortPriceScore:    "price_score",
}

// ScoreSortField resolves a caller-supplied sortBy token to a sortable score
// field. Unrecognized tokens, and "distance" itself, fall back to the
// average score: distance ordering is a pipeline concern, while rating
// filters and the database sort always operate on a real score column.
func ScoreSortField(sortBy string) SortField {
	f := SortField(sortBy)
	if _, ok := sortColumns[f]; ok {
		return f
	}
	return SortAvgScore
}

// Column returns the SQL column backing a score field.
func (f SortField) Column() string {
	if col, ok := sortColumns[f]; ok {
		return col
	}
	return sortColumns[SortAvgScore]
}

// ListParams carries one listing request through the pipeline.
type ListParams struct {
	Page     int
	PageSize int
	SortBy   string
	Order    Order
	Rating   string
	OpenNow  bool
	UserLat  string
	UserLon  string
	Search   string
}

// Normalize returns a copy with paging and order defaults applied.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.Order != OrderAsc {
		p.Order = OrderDesc
	}
	return p
}

// Keywords splits the free-text search on commas into trimmed, non-empty
// keywords. Every keyword must match a candidate's name or tags.
func (p ListParams) Keywords() []string {
	if strings.TrimSpace(p.Search) == "" {
		return nil
	}
	var kws []string
	for _, kw := range strings.Split(p.Search, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			kws = append(kws, kw)
		}
	}
	return kws
}

// Skip returns the pagination offset.
func (p ListParams) Skip() int {
	return (p.Page - 1) * p.PageSize
}
