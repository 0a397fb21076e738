// Package naming maps platform field, index and replica names to vendor names.
package naming

import (
	"strings"

	"github.com/kailas-cloud/searchprovider/internal/domain/replica"
	"github.com/kailas-cloud/searchprovider/model"
)

const (
	// RawKeyFieldName stores the document id in the vendor's native identity field.
	RawKeyFieldName = "objectID"
	// GeoFieldName is the conventional attribute the vendor reads geo points from.
	GeoFieldName = "_geoloc"
	// ContentFieldName is the platform's catch-all full-text field.
	ContentFieldName = "_content"
)

// Sort fields that are served by the master index ranking.
var unsortedFields = map[string]struct{}{
	"score":    {},
	"priority": {},
}

// FieldName normalizes a platform field name: lower-case, trim, spaces to underscores.
func FieldName(name string) string {
	if name == "" {
		return ""
	}
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(name)), " ", "_")
}

// IndexName returns the master index name for a document type.
func IndexName(scope, documentType string) string {
	return strings.ToLower(scope + "-" + documentType)
}

// SortedIndexName resolves the index a sorted search runs against.
// Only the first sort field is honored.
func SortedIndexName(master string, sorting []model.SortingField) string {
	if len(sorting) == 0 {
		return master
	}
	first := sorting[0]
	field := FieldName(first.FieldName)
	if _, ok := unsortedFields[field]; ok {
		return master
	}
	return master + "_" + suffix(field, first.IsDescending)
}

// ReplicaName returns the entry registered in the master's replica list.
func ReplicaName(master string, r replica.SortReplica) string {
	s := suffix(FieldName(r.FieldName), r.IsDescending)
	if r.IsVirtual {
		return master + "_virtual(" + s + ")"
	}
	return master + "_" + s
}

// ReplicaIndexName returns the physical index name of a replica.
func ReplicaIndexName(master string, r replica.SortReplica) string {
	return master + "_" + suffix(FieldName(r.FieldName), r.IsDescending)
}

func suffix(field string, desc bool) string {
	if desc {
		return field + "_" + replica.DirectionDesc
	}
	return field + "_" + replica.DirectionAsc
}
