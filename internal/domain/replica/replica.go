// Package replica models sort replicas: auxiliary indexes presorted by one field.
package replica

import (
	"fmt"
	"strings"
)

// Sort directions as they appear in replica rules and index names.
const (
	DirectionAsc  = "asc"
	DirectionDesc = "desc"
)

// SortReplica describes one presorted replica of a master index.
type SortReplica struct {
	FieldName    string
	IsDescending bool
	// IsVirtual is a premium-tier replica that shares data with its master.
	IsVirtual bool
}

// Direction returns "asc" or "desc".
func (r SortReplica) Direction() string {
	if r.IsDescending {
		return DirectionDesc
	}
	return DirectionAsc
}

// Rule is a parsed replica rule "[documentType:]fieldName-(asc|desc)".
// An empty DocumentType applies to every document type.
type Rule struct {
	DocumentType string
	Replica      SortReplica
}

// Parse parses a replica rule. Field names are returned as written;
// callers normalize them.
func Parse(entry string) (Rule, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return Rule{}, fmt.Errorf("empty replica rule")
	}

	var rule Rule
	body := entry
	if docType, rest, ok := strings.Cut(entry, ":"); ok {
		rule.DocumentType = strings.TrimSpace(docType)
		body = rest
	}

	idx := strings.LastIndex(body, "-")
	if idx <= 0 {
		return Rule{}, fmt.Errorf("replica rule %q: expected field-asc or field-desc", entry)
	}
	field, dir := body[:idx], strings.ToLower(body[idx+1:])
	switch dir {
	case DirectionAsc:
		rule.Replica.IsDescending = false
	case DirectionDesc:
		rule.Replica.IsDescending = true
	default:
		return Rule{}, fmt.Errorf("replica rule %q: unknown direction %q", entry, dir)
	}
	if strings.TrimSpace(field) == "" {
		return Rule{}, fmt.Errorf("replica rule %q: field name is required", entry)
	}
	rule.Replica.FieldName = field
	return rule, nil
}

// AppliesTo reports whether the rule targets the given document type.
func (r Rule) AppliesTo(documentType string) bool {
	return r.DocumentType == "" || strings.EqualFold(r.DocumentType, documentType)
}

// ForDocumentType parses entries and returns the replicas that apply to documentType,
// with field names passed through normalize. Malformed entries are skipped and
// reported in the returned error slice; they never abort the whole set.
func ForDocumentType(
	entries []string, documentType string, virtual bool, normalize func(string) string,
) ([]SortReplica, []error) {
	var (
		out  []SortReplica
		errs []error
	)
	for _, e := range entries {
		rule, err := Parse(e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !rule.AppliesTo(documentType) {
			continue
		}
		r := rule.Replica
		if normalize != nil {
			r.FieldName = normalize(r.FieldName)
		}
		r.IsVirtual = virtual
		out = append(out, r)
	}
	return out, errs
}
