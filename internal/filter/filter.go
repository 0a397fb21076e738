// Package filter compiles platform filter trees into the vendor filter expression language.
package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/searchprovider/internal/naming"
	"github.com/kailas-cloud/searchprovider/model"
)

// Layouts accepted for date range bounds, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Compile renders f as a filter expression. Term and range nodes on the field
// named excluded are dropped, which lets a facet query count values of a field
// without being narrowed by that field's own filter. Unsupported nodes compile to "".
func Compile(f model.Filter, excluded string) string {
	c := compiler{excluded: naming.FieldName(excluded)}
	return c.compile(f)
}

type compiler struct {
	excluded string
}

func (c compiler) compile(f model.Filter) string {
	switch n := f.(type) {
	case *model.IdsFilter:
		return c.ids(n)
	case *model.TermFilter:
		return c.term(n)
	case *model.RangeFilter:
		return c.rng(n)
	case *model.NotFilter:
		return c.not(n)
	case *model.AndFilter:
		return c.join(n.Children, " AND ")
	case *model.OrFilter:
		return c.join(n.Children, " OR ")
	default:
		return ""
	}
}

func (c compiler) ids(n *model.IdsFilter) string {
	if n == nil {
		return ""
	}
	parts := make([]string, 0, len(n.Values))
	for _, v := range n.Values {
		parts = append(parts, naming.RawKeyFieldName+":"+quote(v))
	}
	return strings.Join(parts, " OR ")
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quote wraps a facet value in double quotes, escaping backslashes and quotes.
func quote(v string) string {
	return `"` + quoteEscaper.Replace(v) + `"`
}

func (c compiler) isExcluded(field string) bool {
	return c.excluded != "" && naming.FieldName(field) == c.excluded
}

func (c compiler) term(n *model.TermFilter) string {
	if n == nil || c.isExcluded(n.FieldName) {
		return ""
	}
	field := naming.FieldName(n.FieldName)
	parts := make([]string, 0, len(n.Values))
	for _, v := range n.Values {
		parts = append(parts, field+":"+quote(strings.ToLower(v)))
	}
	return strings.Join(parts, " OR ")
}

func (c compiler) rng(n *model.RangeFilter) string {
	if n == nil || c.isExcluded(n.FieldName) {
		return ""
	}
	field := naming.FieldName(n.FieldName)
	var parts []string
	for _, v := range n.Values {
		if expr := rangeExpr(field, v); expr != "" {
			parts = append(parts, expr)
		}
	}
	return strings.Join(parts, " OR ")
}

func rangeExpr(field string, v model.RangeFilterValue) string {
	var lower, upper string
	if v.Lower != "" {
		val, ok := rangeBound(v.Lower)
		if !ok {
			return ""
		}
		if v.IncludeLower {
			lower = field + ">=" + val
		} else {
			lower = field + ">" + val
		}
	}
	if v.Upper != "" {
		val, ok := rangeBound(v.Upper)
		if !ok {
			return ""
		}
		if v.IncludeUpper {
			upper = field + "<=" + val
		} else {
			upper = field + "<" + val
		}
	}
	if lower != "" && upper != "" {
		return lower + " AND " + upper
	}
	return lower + upper
}

// rangeBound converts a bound to a numeric literal: dates become UTC epoch
// seconds, numbers pass through verbatim.
func rangeBound(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return s, true
	}
	if t, ok := ParseDate(s); ok {
		return strconv.FormatInt(t.UTC().Unix(), 10), true
	}
	return "", false
}

// ParseDate parses s using the accepted date layouts. Layouts without a zone are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (c compiler) not(n *model.NotFilter) string {
	if n == nil || n.Child == nil {
		return ""
	}
	child := c.compile(n.Child)
	if child == "" {
		return ""
	}
	return "NOT (" + child + ")"
}

func (c compiler) join(children []model.Filter, sep string) string {
	var parts []string
	for _, ch := range children {
		if expr := c.compile(ch); expr != "" {
			parts = append(parts, "("+expr+")")
		}
	}
	return strings.Join(parts, sep)
}

// FieldNames returns the normalized names of all term and range fields referenced by f,
// in first-seen order without duplicates.
func FieldNames(f model.Filter) []string {
	var (
		out  []string
		seen = make(map[string]struct{})
	)
	add := func(name string) {
		name = naming.FieldName(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	var walk func(model.Filter)
	walk = func(f model.Filter) {
		switch n := f.(type) {
		case *model.TermFilter:
			if n != nil {
				add(n.FieldName)
			}
		case *model.RangeFilter:
			if n != nil {
				add(n.FieldName)
			}
		case *model.NotFilter:
			if n != nil {
				walk(n.Child)
			}
		case *model.AndFilter:
			if n != nil {
				for _, ch := range n.Children {
					walk(ch)
				}
			}
		case *model.OrFilter:
			if n != nil {
				for _, ch := range n.Children {
					walk(ch)
				}
			}
		}
	}
	walk(f)
	return out
}

// AroundLatLng returns the "lat, lng" proximity clause when the first sort
// is by geo distance, otherwise "".
func AroundLatLng(sorting []model.SortingField) string {
	if len(sorting) == 0 || !sorting[0].IsGeoDistance() {
		return ""
	}
	loc := sorting[0].Location
	return strconv.FormatFloat(loc.Latitude, 'f', -1, 64) + ", " +
		strconv.FormatFloat(loc.Longitude, 'f', -1, 64)
}
