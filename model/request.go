package model

// SortingField orders results by a field. A non-nil Location makes it a
// geo-distance sort around that point.
type SortingField struct {
	FieldName    string    `json:"fieldName"`
	IsDescending bool      `json:"isDescending,omitempty"`
	Location     *GeoPoint `json:"location,omitempty"`
}

// IsGeoDistance reports whether the sort is by distance from a point.
func (s SortingField) IsGeoDistance() bool { return s.Location != nil }

// AggregationKind distinguishes aggregation request variants.
type AggregationKind string

// Aggregation kinds.
const (
	AggregationTerm  AggregationKind = "term"
	AggregationRange AggregationKind = "range"
)

// AggregationRequest asks for value counts over a field.
// For term aggregations, a non-empty Values restricts the returned buckets.
type AggregationRequest struct {
	ID        string          `json:"id,omitempty"`
	FieldName string          `json:"fieldName,omitempty"`
	Kind      AggregationKind `json:"kind,omitempty"`
	Values    []string        `json:"values,omitempty"`
	Filter    Filter          `json:"-"`
}

// SearchRequest is a platform search query.
type SearchRequest struct {
	SearchKeywords string
	SearchFields   []string
	Filter         Filter
	Sorting        []SortingField
	Skip           int
	Take           int
	Aggregations   []AggregationRequest
}

// AggregationResponseValue is one bucket of an aggregation.
type AggregationResponseValue struct {
	ID    string `json:"id"`
	Count int64  `json:"count"`
}

// AggregationResponse holds the buckets computed for one requested aggregation.
type AggregationResponse struct {
	ID     string                     `json:"id"`
	Values []AggregationResponseValue `json:"values"`
}

// SearchResponse is the platform result of a search.
type SearchResponse struct {
	TotalCount   int64                 `json:"totalCount"`
	Documents    []SearchDocument      `json:"documents"`
	Aggregations []AggregationResponse `json:"aggregations"`
}
