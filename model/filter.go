package model

// Filter is a node of a filter tree. The set of implementations is closed:
// IdsFilter, TermFilter, RangeFilter, GeoDistanceFilter, NotFilter, AndFilter, OrFilter.
type Filter interface {
	filterNode()
}

// IdsFilter matches documents by identifier.
type IdsFilter struct {
	Values []string
}

// TermFilter matches documents whose field equals any of the values.
type TermFilter struct {
	FieldName string
	Values    []string
}

// RangeFilterValue is a single [Lower, Upper] interval. Empty bound means unbounded.
type RangeFilterValue struct {
	Lower        string
	Upper        string
	IncludeLower bool
	IncludeUpper bool
}

// RangeFilter matches documents whose field falls into any of the intervals.
type RangeFilter struct {
	FieldName string
	Values    []RangeFilterValue
}

// GeoDistanceFilter matches documents within Distance kilometers of Location.
type GeoDistanceFilter struct {
	FieldName string
	Location  GeoPoint
	Distance  float64
}

// NotFilter negates its child.
type NotFilter struct {
	Child Filter
}

// AndFilter matches when all children match.
type AndFilter struct {
	Children []Filter
}

// OrFilter matches when any child matches.
type OrFilter struct {
	Children []Filter
}

func (*IdsFilter) filterNode()         {}
func (*TermFilter) filterNode()        {}
func (*RangeFilter) filterNode()       {}
func (*GeoDistanceFilter) filterNode() {}
func (*NotFilter) filterNode()         {}
func (*AndFilter) filterNode()         {}
func (*OrFilter) filterNode()          {}
