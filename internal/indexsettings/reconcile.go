// Package indexsettings computes the engine index configuration a batch of
// documents requires.
package indexsettings

import (
	"slices"
	"sort"

	"github.com/kailas-cloud/searchprovider/internal/domain/replica"
	"github.com/kailas-cloud/searchprovider/internal/engine"
	"github.com/kailas-cloud/searchprovider/internal/naming"
	"github.com/kailas-cloud/searchprovider/model"
)

// Input is the state Reconcile works from. Current is never modified.
type Input struct {
	IndexName string
	Current   engine.Settings
	Documents []model.IndexDocument
	Replicas  []replica.SortReplica
}

// ReplicaUpdate is a ranking update for one replica index.
type ReplicaUpdate struct {
	IndexName string
	Settings  engine.Settings
}

// Plan is the reconciliation outcome.
type Plan struct {
	// Settings is the desired master configuration.
	Settings engine.Settings
	// Changed is set when Settings differs from Input.Current and must be pushed.
	Changed bool
	// ReplicasChanged is set when the configured replica list differs from the stored one.
	ReplicasChanged bool
	// ReplicaUpdates are pushed before the master settings when ReplicasChanged is set.
	ReplicaUpdates []ReplicaUpdate
}

// Reconcile merges the attributes used by the documents and the configured
// sort replicas into the current settings. Attributes and replicas are only
// ever added.
func Reconcile(in Input) Plan {
	desired := in.Current.Clone()
	var changed bool

	for _, doc := range in.Documents {
		for _, f := range sortedFields(doc.Fields) {
			name := naming.FieldName(f.Name)
			if f.IsSearchable {
				changed = appendUnique(&desired.SearchableAttributes, name) || changed
			}
			if f.IsFilterable {
				changed = appendUnique(&desired.AttributesForFaceting, name) || changed
			}
			if f.IsRetrievable {
				changed = appendUnique(&desired.AttributesToRetrieve, name) || changed
			}
		}
	}

	plan := Plan{}
	if len(in.Replicas) > 0 {
		names := make([]string, 0, len(in.Replicas))
		for _, r := range in.Replicas {
			names = append(names, naming.ReplicaName(in.IndexName, r))
		}

		if !slices.Equal(in.Current.Replicas, names) {
			changed = true
			plan.ReplicasChanged = true
			for _, n := range names {
				appendUnique(&desired.Replicas, n)
			}
			for _, r := range in.Replicas {
				plan.ReplicaUpdates = append(plan.ReplicaUpdates, ReplicaUpdate{
					IndexName: naming.ReplicaIndexName(in.IndexName, r),
					Settings:  engine.Settings{CustomRanking: []string{CustomRanking(r)}},
				})
			}
		}
	}

	// The master push forwards to replicas, so it never carries a ranking.
	desired.CustomRanking = nil
	plan.Settings = desired
	plan.Changed = changed
	return plan
}

// CustomRanking returns the ranking rule that orders a replica by its field.
func CustomRanking(r replica.SortReplica) string {
	return r.Direction() + "(" + naming.FieldName(r.FieldName) + ")"
}

func sortedFields(fields []model.Field) []model.Field {
	out := make([]model.Field, len(fields))
	copy(out, fields)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func appendUnique(set *[]string, name string) bool {
	if name == "" || slices.Contains(*set, name) {
		return false
	}
	*set = append(*set, name)
	return true
}
