// Package query builds engine multi-query batches from platform search requests.
package query

import (
	"slices"

	"github.com/kailas-cloud/searchprovider/internal/engine"
	"github.com/kailas-cloud/searchprovider/internal/filter"
	"github.com/kailas-cloud/searchprovider/internal/naming"
	"github.com/kailas-cloud/searchprovider/model"
)

// Hits builds the primary query returning documents and facet counts.
func Hits(index string, req *model.SearchRequest) engine.Query {
	return engine.Query{
		IndexName:                    index,
		Query:                        req.SearchKeywords,
		Offset:                       req.Skip,
		Length:                       req.Take,
		RestrictSearchableAttributes: searchableAttributes(req.SearchFields),
		Filters:                      filter.Compile(req.Filter, ""),
		Facets:                       facets(req.Aggregations),
		AroundLatLng:                 filter.AroundLatLng(req.Sorting),
	}
}

// Facets builds a count-only query for one aggregation. The aggregation's own
// field is left out of the filter so every value of it gets counted.
func Facets(index string, req *model.SearchRequest, agg model.AggregationRequest) engine.Query {
	return engine.Query{
		IndexName:                    index,
		Query:                        req.SearchKeywords,
		Offset:                       0,
		Length:                       0,
		RestrictSearchableAttributes: searchableAttributes(req.SearchFields),
		Filters:                      filter.Compile(req.Filter, agg.FieldName),
		Facets:                       []string{naming.FieldName(agg.FieldName)},
		AroundLatLng:                 filter.AroundLatLng(req.Sorting),
	}
}

// Build returns the hits query followed by one facet query for every
// aggregation whose field the request filters on.
func Build(index string, req *model.SearchRequest) []engine.Query {
	queries := []engine.Query{Hits(index, req)}
	filtered := filter.FieldNames(req.Filter)
	if len(filtered) == 0 {
		return queries
	}
	for _, agg := range req.Aggregations {
		if agg.FieldName == "" {
			continue
		}
		if slices.Contains(filtered, naming.FieldName(agg.FieldName)) {
			queries = append(queries, Facets(index, req, agg))
		}
	}
	return queries
}

func searchableAttributes(fields []string) []string {
	var out []string
	for _, f := range fields {
		name := naming.FieldName(f)
		if name == "" || name == naming.ContentFieldName {
			continue
		}
		out = append(out, name)
	}
	return out
}

func facets(aggs []model.AggregationRequest) []string {
	var out []string
	for _, a := range aggs {
		name := a.FieldName
		if name == "" {
			name = a.ID
		}
		if name = naming.FieldName(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
