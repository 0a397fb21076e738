package algolia

import (
	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"

	"github.com/kailas-cloud/searchprovider/internal/engine"
)

// fromSDKSettings keeps an absent remote customRanking nil. The SDK reports
// it as an empty list, which a later push would send as a reset.
func fromSDKSettings(s search.Settings) engine.Settings {
	out := engine.Settings{
		SearchableAttributes:  s.SearchableAttributes.Get(),
		AttributesForFaceting: s.AttributesForFaceting.Get(),
		AttributesToRetrieve:  s.AttributesToRetrieve.Get(),
		Replicas:              s.Replicas.Get(),
	}
	if s.CustomRanking != nil {
		out.CustomRanking = s.CustomRanking.Get()
	}
	return out
}

// toSDKSettings leaves nil attribute lists unset so a partial update keeps
// the remote values.
func toSDKSettings(s engine.Settings) search.Settings {
	var out search.Settings
	if s.SearchableAttributes != nil {
		out.SearchableAttributes = opt.SearchableAttributes(s.SearchableAttributes...)
	}
	if s.AttributesForFaceting != nil {
		out.AttributesForFaceting = opt.AttributesForFaceting(s.AttributesForFaceting...)
	}
	if s.AttributesToRetrieve != nil {
		out.AttributesToRetrieve = opt.AttributesToRetrieve(s.AttributesToRetrieve...)
	}
	if s.Replicas != nil {
		out.Replicas = opt.Replicas(s.Replicas...)
	}
	if s.CustomRanking != nil {
		out.CustomRanking = opt.CustomRanking(s.CustomRanking...)
	}
	return out
}

func fromGroupBatch(res search.GroupBatchRes) engine.BatchResult {
	out := engine.BatchResult{Responses: make([]engine.BatchResponse, 0, len(res.Responses))}
	for _, r := range res.Responses {
		out.Responses = append(out.Responses, engine.BatchResponse{ObjectIDs: r.ObjectIDs})
	}
	return out
}

func fromBatch(res search.BatchRes) engine.BatchResult {
	return engine.BatchResult{Responses: []engine.BatchResponse{{ObjectIDs: res.ObjectIDs}}}
}

func toIndexedQuery(q engine.Query) search.IndexedQuery {
	opts := []interface{}{
		opt.Query(q.Query),
		opt.Offset(q.Offset),
		opt.Length(q.Length),
	}
	if len(q.RestrictSearchableAttributes) > 0 {
		opts = append(opts, opt.RestrictSearchableAttributes(q.RestrictSearchableAttributes...))
	}
	if q.Filters != "" {
		opts = append(opts, opt.Filters(q.Filters))
	}
	if len(q.Facets) > 0 {
		opts = append(opts, opt.Facets(q.Facets...))
	}
	if q.AroundLatLng != "" {
		opts = append(opts, opt.AroundLatLng(q.AroundLatLng))
	}
	return search.NewIndexedQuery(q.IndexName, opts...)
}

func fromQueryRes(r search.QueryRes) engine.QueryResult {
	out := engine.QueryResult{
		Hits:   r.Hits,
		NbHits: int64(r.NbHits),
	}
	if len(r.Facets) > 0 {
		out.Facets = make(map[string]map[string]int64, len(r.Facets))
		for field, counts := range r.Facets {
			m := make(map[string]int64, len(counts))
			for value, n := range counts {
				m[value] = int64(n)
			}
			out.Facets[field] = m
		}
	}
	return out
}
