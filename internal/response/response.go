// Package response assembles engine multi-query results into a platform search response.
package response

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/searchprovider/internal/codec"
	"github.com/kailas-cloud/searchprovider/internal/engine"
	"github.com/kailas-cloud/searchprovider/internal/naming"
	"github.com/kailas-cloud/searchprovider/model"
)

// Empty returns a response with no hits, documents or aggregations.
func Empty() *model.SearchResponse {
	return &model.SearchResponse{
		Documents:    []model.SearchDocument{},
		Aggregations: []model.AggregationResponse{},
	}
}

// Assemble builds the platform response. results[0] is the hits query; any
// further results are facet queries whose counts take precedence over the
// hits query's counts for the same field.
func Assemble(results []engine.QueryResult, req *model.SearchRequest) *model.SearchResponse {
	resp := Empty()
	if len(results) == 0 {
		return resp
	}

	primary := results[0]
	resp.TotalCount = primary.NbHits
	for _, hit := range primary.Hits {
		resp.Documents = append(resp.Documents, codec.ToSearchDocument(hit))
	}

	if req == nil || len(req.Aggregations) == 0 {
		return resp
	}
	resp.Aggregations = aggregations(mergeFacets(results), req.Aggregations)
	return resp
}

func mergeFacets(results []engine.QueryResult) map[string]map[string]int64 {
	merged := make(map[string]map[string]int64)
	for _, r := range results[1:] {
		for field, counts := range r.Facets {
			if _, ok := merged[field]; !ok {
				merged[field] = counts
			}
		}
	}
	for field, counts := range results[0].Facets {
		if _, ok := merged[field]; !ok {
			merged[field] = counts
		}
	}
	return merged
}

// facetKey is the facet attribute an aggregation was requested under.
func facetKey(a model.AggregationRequest) string {
	if a.FieldName != "" {
		return naming.FieldName(a.FieldName)
	}
	return naming.FieldName(a.ID)
}

func aggregations(facets map[string]map[string]int64, requested []model.AggregationRequest) []model.AggregationResponse {
	out := make([]model.AggregationResponse, 0, len(requested))
	seen := make(map[string]struct{}, len(requested))
	for _, a := range requested {
		key := facetKey(a)
		if _, dup := seen[key]; dup {
			continue
		}
		counts, ok := facets[key]
		if !ok {
			continue
		}
		seen[key] = struct{}{}

		id := a.FieldName
		if id == "" {
			id = a.ID
		}
		out = append(out, model.AggregationResponse{ID: id, Values: buckets(counts, a)})
	}
	return out
}

func buckets(counts map[string]int64, a model.AggregationRequest) []model.AggregationResponseValue {
	if a.Kind == model.AggregationTerm && len(a.Values) > 0 {
		values := make([]model.AggregationResponseValue, 0, len(a.Values))
		taken := make(map[string]struct{}, len(a.Values))
		for _, want := range a.Values {
			key, ok := matchBucket(counts, want)
			if !ok {
				continue
			}
			if _, dup := taken[key]; dup {
				continue
			}
			taken[key] = struct{}{}
			values = append(values, model.AggregationResponseValue{ID: key, Count: counts[key]})
		}
		return values
	}

	values := make([]model.AggregationResponseValue, 0, len(counts))
	for key, n := range counts {
		values = append(values, model.AggregationResponseValue{ID: key, Count: n})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return values[i].ID < values[j].ID
	})
	return values
}

// matchBucket finds the bucket for a requested value: an exact key wins,
// otherwise the smallest key equal to it ignoring case.
func matchBucket(counts map[string]int64, want string) (string, bool) {
	if _, ok := counts[want]; ok {
		return want, true
	}
	var (
		best  string
		found bool
	)
	for key := range counts {
		if strings.EqualFold(key, want) && (!found || key < best) {
			best, found = key, true
		}
	}
	return best, found
}
