package engine

// Settings mirrors the index configuration attributes the provider manages.
type Settings struct {
	SearchableAttributes  []string
	AttributesForFaceting []string
	AttributesToRetrieve  []string
	Replicas              []string
	CustomRanking         []string
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	return Settings{
		SearchableAttributes:  cloneStrings(s.SearchableAttributes),
		AttributesForFaceting: cloneStrings(s.AttributesForFaceting),
		AttributesToRetrieve:  cloneStrings(s.AttributesToRetrieve),
		Replicas:              cloneStrings(s.Replicas),
		CustomRanking:         cloneStrings(s.CustomRanking),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Object is a flat engine record keyed by attribute name.
type Object map[string]any

// IndexInfo describes an existing index.
type IndexInfo struct {
	Name    string
	Entries int64
}

// BatchResult is the engine acknowledgement of a write batch.
type BatchResult struct {
	Responses []BatchResponse
}

// BatchResponse lists the object ids accepted by one engine batch.
type BatchResponse struct {
	ObjectIDs []string
}

// ObjectIDs flattens the ids of all responses.
func (r BatchResult) ObjectIDs() []string {
	var ids []string
	for _, resp := range r.Responses {
		ids = append(ids, resp.ObjectIDs...)
	}
	return ids
}

// Query is one entry of a multi-query request.
type Query struct {
	IndexName                    string
	Query                        string
	Offset                       int
	Length                       int
	RestrictSearchableAttributes []string
	Filters                      string
	Facets                       []string
	AroundLatLng                 string
}

// QueryResult is the engine answer to one Query.
type QueryResult struct {
	Hits   []map[string]any
	NbHits int64
	// Facets maps attribute name to value counts.
	Facets map[string]map[string]int64
}
