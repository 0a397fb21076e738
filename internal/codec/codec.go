// Package codec converts documents between the platform model and engine records.
package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/searchprovider/internal/engine"
	"github.com/kailas-cloud/searchprovider/internal/naming"
	"github.com/kailas-cloud/searchprovider/model"
)

const (
	// IndexationDateFieldName is the platform's last-indexed timestamp field.
	IndexationDateFieldName = "indexationdate"
	// IndexationTimestampFieldName holds IndexationDateFieldName as sortable epoch seconds.
	IndexationTimestampFieldName = "indexationdate_timestamp"
)

// Fields read back as dates from epoch seconds.
var dateFields = map[string]struct{}{
	"indexationdate": {},
	"createddate":    {},
	"modifieddate":   {},
}

// Engine metadata attributes that are not part of the stored document.
var metadataFields = map[string]struct{}{
	"_highlightResult": {},
	"_snippetResult":   {},
	"_rankingInfo":     {},
	"_distinctSeqID":   {},
}

// ToProviderDocument flattens a document into an engine record.
// Fields are processed in ascending name order; fields whose normalized names
// collide are merged into one array. Only the first geo point is stored.
func ToProviderDocument(doc model.IndexDocument) engine.Object {
	obj := engine.Object{naming.RawKeyFieldName: doc.ID}

	fields := make([]model.Field, len(doc.Fields))
	copy(fields, doc.Fields)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	hasGeo := false
	for _, f := range fields {
		if p, ok := geoPoint(f.Value()); ok {
			if !hasGeo {
				obj[naming.GeoFieldName] = map[string]any{"lat": p.Latitude, "lng": p.Longitude}
				hasGeo = true
			}
			continue
		}

		name := naming.FieldName(f.Name)
		if existing, ok := obj[name]; ok {
			merged := toSlice(existing)
			for _, v := range f.Values {
				merged = append(merged, providerValue(v))
			}
			obj[name] = merged
		} else if f.IsMultiValued() {
			values := make([]any, 0, len(f.Values))
			for _, v := range f.Values {
				values = append(values, providerValue(v))
			}
			obj[name] = values
		} else {
			obj[name] = providerValue(f.Value())
		}

		if strings.EqualFold(f.Name, IndexationDateFieldName) {
			if t, ok := timeValue(f.Value()); ok {
				obj[IndexationTimestampFieldName] = t.UTC().Unix()
			}
		}
	}
	return obj
}

func toSlice(v any) []any {
	if s, ok := v.([]any); ok {
		out := make([]any, len(s), len(s)+1)
		copy(out, s)
		return out
	}
	return []any{v}
}

func providerValue(v any) any {
	if t, ok := timeValue(v); ok {
		return t.UTC().Unix()
	}
	return v
}

func timeValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}

func geoPoint(v any) (model.GeoPoint, bool) {
	switch p := v.(type) {
	case model.GeoPoint:
		return p, true
	case *model.GeoPoint:
		if p != nil {
			return *p, true
		}
	}
	return model.GeoPoint{}, false
}

// ToSearchDocument converts an engine hit back into a platform document.
// Known date fields are read from epoch seconds; nested objects are returned as JSON text.
func ToSearchDocument(hit map[string]any) model.SearchDocument {
	doc := model.SearchDocument{Fields: make(map[string]any, len(hit))}
	if id, ok := hit[naming.RawKeyFieldName]; ok && id != nil {
		doc.ID = fmt.Sprint(id)
	}
	for name, v := range hit {
		if _, ok := metadataFields[name]; ok {
			continue
		}
		_, isDate := dateFields[strings.ToLower(name)]
		doc.Fields[name] = platformValue(v, isDate)
	}
	return doc
}

func platformValue(v any, isDate bool) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = platformValue(e, isDate)
		}
		return out
	case map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	case json.Number:
		n := numberValue(val)
		if isDate {
			if secs, ok := epochSeconds(n); ok {
				return time.Unix(secs, 0).UTC()
			}
		}
		return n
	}
	if isDate {
		if secs, ok := epochSeconds(v); ok {
			return time.Unix(secs, 0).UTC()
		}
	}
	return v
}

func numberValue(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func epochSeconds(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float32:
		return int64(math.Trunc(float64(n))), true
	case float64:
		return int64(math.Trunc(n)), true
	}
	return 0, false
}
