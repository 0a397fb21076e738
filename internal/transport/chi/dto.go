package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/searchprovider/internal/filter"
	"github.com/kailas-cloud/searchprovider/model"
)

// Field value types accepted in indexing requests.
const (
	valueTypeAuto     = ""
	valueTypeString   = "string"
	valueTypeNumber   = "number"
	valueTypeBoolean  = "boolean"
	valueTypeDateTime = "datetime"
	valueTypeGeoPoint = "geopoint"
)

// Filter node discriminators.
const (
	filterTypeIDs         = "ids"
	filterTypeTerm        = "term"
	filterTypeRange       = "range"
	filterTypeGeoDistance = "geo_distance"
	filterTypeNot         = "not"
	filterTypeAnd         = "and"
	filterTypeOr          = "or"
)

type indexRequest struct {
	Documents []documentDTO `json:"documents"`
}

type removeRequest struct {
	IDs []string `json:"ids"`
}

type documentDTO struct {
	ID     string     `json:"id"`
	Fields []fieldDTO `json:"fields"`
}

type fieldDTO struct {
	Name          string            `json:"name"`
	Type          string            `json:"type,omitempty"`
	Values        []json.RawMessage `json:"values"`
	IsCollection  bool              `json:"isCollection,omitempty"`
	IsSearchable  bool              `json:"isSearchable,omitempty"`
	IsFilterable  bool              `json:"isFilterable,omitempty"`
	IsRetrievable bool              `json:"isRetrievable,omitempty"`
}

type filterDTO struct {
	Type      string          `json:"type"`
	FieldName string          `json:"fieldName,omitempty"`
	Values    json.RawMessage `json:"values,omitempty"`
	Location  *model.GeoPoint `json:"location,omitempty"`
	Distance  float64         `json:"distance,omitempty"`
	Child     *filterDTO      `json:"child,omitempty"`
	Children  []filterDTO     `json:"children,omitempty"`
}

type rangeValueDTO struct {
	Lower        string `json:"lower,omitempty"`
	Upper        string `json:"upper,omitempty"`
	IncludeLower bool   `json:"includeLower,omitempty"`
	IncludeUpper bool   `json:"includeUpper,omitempty"`
}

type aggregationDTO struct {
	ID        string     `json:"id,omitempty"`
	FieldName string     `json:"fieldName,omitempty"`
	Kind      string     `json:"kind,omitempty"`
	Values    []string   `json:"values,omitempty"`
	Filter    *filterDTO `json:"filter,omitempty"`
}

type searchRequestDTO struct {
	SearchKeywords string               `json:"searchKeywords,omitempty"`
	SearchFields   []string             `json:"searchFields,omitempty"`
	Filter         *filterDTO           `json:"filter,omitempty"`
	Sorting        []model.SortingField `json:"sorting,omitempty"`
	Skip           int                  `json:"skip,omitempty"`
	Take           int                  `json:"take,omitempty"`
	Aggregations   []aggregationDTO     `json:"aggregations,omitempty"`
}

func documentsFromDTO(in []documentDTO) ([]model.IndexDocument, error) {
	docs := make([]model.IndexDocument, 0, len(in))
	for i, d := range in {
		if d.ID == "" {
			return nil, fmt.Errorf("documents[%d]: id is required", i)
		}
		fields := make([]model.Field, 0, len(d.Fields))
		for _, f := range d.Fields {
			field, err := fieldFromDTO(f)
			if err != nil {
				return nil, fmt.Errorf("document %q: %w", d.ID, err)
			}
			fields = append(fields, field)
		}
		docs = append(docs, model.IndexDocument{ID: d.ID, Fields: fields})
	}
	return docs, nil
}

func fieldFromDTO(f fieldDTO) (model.Field, error) {
	if f.Name == "" {
		return model.Field{}, errors.New("field name is required")
	}
	values := make([]any, 0, len(f.Values))
	for _, raw := range f.Values {
		v, err := decodeValue(f.Type, raw)
		if err != nil {
			return model.Field{}, fmt.Errorf("field %q: %w", f.Name, err)
		}
		values = append(values, v)
	}
	return model.Field{
		Name:          f.Name,
		Values:        values,
		IsCollection:  f.IsCollection,
		IsSearchable:  f.IsSearchable,
		IsFilterable:  f.IsFilterable,
		IsRetrievable: f.IsRetrievable,
	}, nil
}

func decodeValue(typ string, raw json.RawMessage) (any, error) {
	switch typ {
	case valueTypeAuto, valueTypeNumber:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("invalid value: %w", err)
		}
		n, isNumber := v.(json.Number)
		if typ == valueTypeNumber && !isNumber {
			return nil, fmt.Errorf("value %s is not a number", raw)
		}
		switch v.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("value %s is not a scalar", raw)
		}
		if isNumber {
			return numberValue(n)
		}
		return v, nil
	case valueTypeString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("value %s is not a string", raw)
		}
		return s, nil
	case valueTypeBoolean:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("value %s is not a boolean", raw)
		}
		return b, nil
	case valueTypeDateTime:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("value %s is not a date string", raw)
		}
		t, ok := filter.ParseDate(s)
		if !ok {
			return nil, fmt.Errorf("value %q is not a valid date", s)
		}
		return t.UTC(), nil
	case valueTypeGeoPoint:
		var p model.GeoPoint
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("value %s is not a geo point", raw)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown value type %q", typ)
	}
}

func numberValue(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid number %s: %w", n, err)
	}
	return f, nil
}

func searchRequestFromDTO(in searchRequestDTO) (*model.SearchRequest, error) {
	if in.Skip < 0 || in.Take < 0 {
		return nil, errors.New("skip and take must be non-negative")
	}
	f, err := filterFromDTO(in.Filter)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}

	aggs := make([]model.AggregationRequest, 0, len(in.Aggregations))
	for i, a := range in.Aggregations {
		kind := model.AggregationKind(a.Kind)
		switch kind {
		case "":
			kind = model.AggregationTerm
		case model.AggregationTerm, model.AggregationRange:
		default:
			return nil, fmt.Errorf("aggregations[%d]: unknown kind %q", i, a.Kind)
		}
		if a.ID == "" && a.FieldName == "" {
			return nil, fmt.Errorf("aggregations[%d]: id or fieldName is required", i)
		}
		af, err := filterFromDTO(a.Filter)
		if err != nil {
			return nil, fmt.Errorf("aggregations[%d].filter: %w", i, err)
		}
		aggs = append(aggs, model.AggregationRequest{
			ID:        a.ID,
			FieldName: a.FieldName,
			Kind:      kind,
			Values:    a.Values,
			Filter:    af,
		})
	}

	return &model.SearchRequest{
		SearchKeywords: in.SearchKeywords,
		SearchFields:   in.SearchFields,
		Filter:         f,
		Sorting:        in.Sorting,
		Skip:           in.Skip,
		Take:           in.Take,
		Aggregations:   aggs,
	}, nil
}

// filterFromDTO converts a discriminated filter node. A nil node is no filter.
func filterFromDTO(d *filterDTO) (model.Filter, error) {
	if d == nil {
		return nil, nil
	}
	switch d.Type {
	case filterTypeIDs:
		var ids []string
		if err := unmarshalValues(d.Values, &ids); err != nil {
			return nil, fmt.Errorf("ids: %w", err)
		}
		return &model.IdsFilter{Values: ids}, nil
	case filterTypeTerm:
		if d.FieldName == "" {
			return nil, errors.New("term: fieldName is required")
		}
		var values []string
		if err := unmarshalValues(d.Values, &values); err != nil {
			return nil, fmt.Errorf("term: %w", err)
		}
		return &model.TermFilter{FieldName: d.FieldName, Values: values}, nil
	case filterTypeRange:
		if d.FieldName == "" {
			return nil, errors.New("range: fieldName is required")
		}
		var raw []rangeValueDTO
		if err := unmarshalValues(d.Values, &raw); err != nil {
			return nil, fmt.Errorf("range: %w", err)
		}
		values := make([]model.RangeFilterValue, 0, len(raw))
		for _, v := range raw {
			values = append(values, model.RangeFilterValue(v))
		}
		return &model.RangeFilter{FieldName: d.FieldName, Values: values}, nil
	case filterTypeGeoDistance:
		if d.Location == nil {
			return nil, errors.New("geo_distance: location is required")
		}
		return &model.GeoDistanceFilter{FieldName: d.FieldName, Location: *d.Location, Distance: d.Distance}, nil
	case filterTypeNot:
		if d.Child == nil {
			return nil, errors.New("not: child is required")
		}
		child, err := filterFromDTO(d.Child)
		if err != nil {
			return nil, fmt.Errorf("not: %w", err)
		}
		return &model.NotFilter{Child: child}, nil
	case filterTypeAnd, filterTypeOr:
		children, err := childrenFromDTO(d.Children)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Type, err)
		}
		if d.Type == filterTypeAnd {
			return &model.AndFilter{Children: children}, nil
		}
		return &model.OrFilter{Children: children}, nil
	case "":
		return nil, errors.New("filter type is required")
	default:
		return nil, fmt.Errorf("unknown filter type %q", d.Type)
	}
}

func childrenFromDTO(in []filterDTO) ([]model.Filter, error) {
	children := make([]model.Filter, 0, len(in))
	for i := range in {
		child, err := filterFromDTO(&in[i])
		if err != nil {
			return nil, fmt.Errorf("children[%d]: %w", i, err)
		}
		children = append(children, child)
	}
	return children, nil
}

func unmarshalValues(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid values: %w", err)
	}
	return nil
}
