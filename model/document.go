// Package model holds the platform-neutral document, filter and request types
// the provider translates to and from the hosted search service.
package model

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Field is a named, possibly multi-valued document attribute.
// Values hold scalars: string, numeric types, bool, time.Time or GeoPoint.
type Field struct {
	Name          string `json:"name"`
	Values        []any  `json:"values"`
	IsCollection  bool   `json:"isCollection,omitempty"`
	IsSearchable  bool   `json:"isSearchable,omitempty"`
	IsFilterable  bool   `json:"isFilterable,omitempty"`
	IsRetrievable bool   `json:"isRetrievable,omitempty"`
}

// Value returns the first value or nil.
func (f Field) Value() any {
	if len(f.Values) == 0 {
		return nil
	}
	return f.Values[0]
}

// IsMultiValued reports whether the field must be stored as an array.
func (f Field) IsMultiValued() bool {
	return f.IsCollection || len(f.Values) > 1
}

// IndexDocument is a document submitted for indexing.
type IndexDocument struct {
	ID     string  `json:"id"`
	Fields []Field `json:"fields"`
}

// SearchDocument is a document returned by a search.
type SearchDocument struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// IndexingResultItem is the outcome for a single submitted document.
type IndexingResultItem struct {
	ID           string `json:"id"`
	Succeeded    bool   `json:"succeeded"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// IndexingResult aggregates per-document outcomes of an index or remove call.
type IndexingResult struct {
	Items []IndexingResultItem `json:"items"`
}

// Failed returns the items that did not succeed.
func (r *IndexingResult) Failed() []IndexingResultItem {
	if r == nil {
		return nil
	}
	var out []IndexingResultItem
	for _, it := range r.Items {
		if !it.Succeeded {
			out = append(out, it)
		}
	}
	return out
}
