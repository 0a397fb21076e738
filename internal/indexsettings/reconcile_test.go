package indexsettings

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/searchprovider/internal/domain/replica"
	"github.com/kailas-cloud/searchprovider/internal/engine"
	"github.com/kailas-cloud/searchprovider/model"
)

const master = "default-product"

func doc(id string, fields ...model.Field) model.IndexDocument {
	return model.IndexDocument{ID: id, Fields: fields}
}

func TestReconcile_AddsAttributesInFieldOrder(t *testing.T) {
	plan := Reconcile(Input{
		IndexName: master,
		Documents: []model.IndexDocument{
			doc("1",
				model.Field{Name: "Price", Values: []any{10}, IsFilterable: true, IsRetrievable: true},
				model.Field{Name: "Name", Values: []any{"shirt"}, IsSearchable: true, IsRetrievable: true},
			),
			doc("2",
				model.Field{Name: "Brand Name", Values: []any{"acme"}, IsSearchable: true, IsFilterable: true},
			),
		},
	})

	if !plan.Changed {
		t.Fatal("expected changed")
	}
	if want := []string{"name", "brand_name"}; !reflect.DeepEqual(plan.Settings.SearchableAttributes, want) {
		t.Errorf("searchable = %v, want %v", plan.Settings.SearchableAttributes, want)
	}
	if want := []string{"price", "brand_name"}; !reflect.DeepEqual(plan.Settings.AttributesForFaceting, want) {
		t.Errorf("faceting = %v, want %v", plan.Settings.AttributesForFaceting, want)
	}
	if want := []string{"name", "price"}; !reflect.DeepEqual(plan.Settings.AttributesToRetrieve, want) {
		t.Errorf("retrieve = %v, want %v", plan.Settings.AttributesToRetrieve, want)
	}
	if plan.ReplicasChanged || len(plan.ReplicaUpdates) != 0 {
		t.Error("no replicas configured, expected no replica updates")
	}
}

func TestReconcile_ExistingAttributeIsNoOp(t *testing.T) {
	current := engine.Settings{SearchableAttributes: []string{"name"}}
	plan := Reconcile(Input{
		IndexName: master,
		Current:   current,
		Documents: []model.IndexDocument{
			doc("1", model.Field{Name: "Name", Values: []any{"x"}, IsSearchable: true}),
			doc("2", model.Field{Name: " name ", Values: []any{"y"}, IsSearchable: true}),
		},
	})
	if plan.Changed {
		t.Error("expected unchanged")
	}
	if !reflect.DeepEqual(plan.Settings.SearchableAttributes, []string{"name"}) {
		t.Errorf("searchable = %v", plan.Settings.SearchableAttributes)
	}
}

func TestReconcile_DoesNotMutateCurrent(t *testing.T) {
	current := engine.Settings{
		SearchableAttributes: make([]string, 1, 8),
		Replicas:             []string{master + "_old_asc"},
	}
	current.SearchableAttributes[0] = "name"

	plan := Reconcile(Input{
		IndexName: master,
		Current:   current,
		Documents: []model.IndexDocument{doc("1", model.Field{Name: "sku", IsSearchable: true})},
		Replicas:  []replica.SortReplica{{FieldName: "price", IsDescending: true}},
	})

	if len(current.SearchableAttributes) != 1 || current.SearchableAttributes[:2][1] != "" {
		t.Errorf("current searchable attributes mutated: %v", current.SearchableAttributes[:2])
	}
	if !reflect.DeepEqual(current.Replicas, []string{master + "_old_asc"}) {
		t.Errorf("current replicas mutated: %v", current.Replicas)
	}
	if !reflect.DeepEqual(plan.Settings.SearchableAttributes, []string{"name", "sku"}) {
		t.Errorf("searchable = %v", plan.Settings.SearchableAttributes)
	}
}

func TestReconcile_Replicas(t *testing.T) {
	replicas := []replica.SortReplica{
		{FieldName: "name", IsDescending: false},
		{FieldName: "price", IsDescending: true},
	}
	plan := Reconcile(Input{
		IndexName: master,
		Current:   engine.Settings{Replicas: []string{master + "_color_asc"}},
		Replicas:  replicas,
	})

	if !plan.Changed || !plan.ReplicasChanged {
		t.Fatalf("expected replica change, got %+v", plan)
	}
	want := []string{master + "_color_asc", master + "_name_asc", master + "_price_desc"}
	if !reflect.DeepEqual(plan.Settings.Replicas, want) {
		t.Errorf("replicas = %v, want %v", plan.Settings.Replicas, want)
	}
	wantUpdates := []ReplicaUpdate{
		{IndexName: master + "_name_asc", Settings: engine.Settings{CustomRanking: []string{"asc(name)"}}},
		{IndexName: master + "_price_desc", Settings: engine.Settings{CustomRanking: []string{"desc(price)"}}},
	}
	if !reflect.DeepEqual(plan.ReplicaUpdates, wantUpdates) {
		t.Errorf("updates = %+v, want %+v", plan.ReplicaUpdates, wantUpdates)
	}
}

func TestReconcile_ReplicasUpToDate(t *testing.T) {
	plan := Reconcile(Input{
		IndexName: master,
		Current:   engine.Settings{Replicas: []string{master + "_price_desc"}},
		Replicas:  []replica.SortReplica{{FieldName: "price", IsDescending: true}},
	})
	if plan.Changed || plan.ReplicasChanged || len(plan.ReplicaUpdates) != 0 {
		t.Errorf("expected no changes, got %+v", plan)
	}
}

func TestReconcile_ReplicaOrderMatters(t *testing.T) {
	plan := Reconcile(Input{
		IndexName: master,
		Current:   engine.Settings{Replicas: []string{master + "_price_desc", master + "_name_asc"}},
		Replicas: []replica.SortReplica{
			{FieldName: "name"},
			{FieldName: "price", IsDescending: true},
		},
	})
	if !plan.ReplicasChanged {
		t.Fatal("expected order difference to count as a change")
	}
	if len(plan.Settings.Replicas) != 2 {
		t.Errorf("union must not duplicate: %v", plan.Settings.Replicas)
	}
}

func TestReconcile_VirtualReplicas(t *testing.T) {
	plan := Reconcile(Input{
		IndexName: master,
		Replicas:  []replica.SortReplica{{FieldName: "price", IsDescending: true, IsVirtual: true}},
	})
	if want := []string{master + "_virtual(price_desc)"}; !reflect.DeepEqual(plan.Settings.Replicas, want) {
		t.Errorf("replicas = %v, want %v", plan.Settings.Replicas, want)
	}
	if plan.ReplicaUpdates[0].IndexName != master+"_price_desc" {
		t.Errorf("ranking must target the physical replica, got %q", plan.ReplicaUpdates[0].IndexName)
	}
}

func TestReconcile_ProductScenario(t *testing.T) {
	plan := Reconcile(Input{
		IndexName: master,
		Documents: []model.IndexDocument{
			doc("1",
				model.Field{Name: "name", Values: []any{"Shirt"}, IsSearchable: true},
				model.Field{Name: "price", Values: []any{19.99}, IsFilterable: true},
			),
			doc("2",
				model.Field{Name: "name", Values: []any{"Hat"}, IsSearchable: true},
				model.Field{Name: "price", Values: []any{5}, IsFilterable: true},
			),
		},
	})
	if !plan.Changed {
		t.Fatal("expected changed")
	}
	if !reflect.DeepEqual(plan.Settings.SearchableAttributes, []string{"name"}) {
		t.Errorf("searchable = %v", plan.Settings.SearchableAttributes)
	}
	if !reflect.DeepEqual(plan.Settings.AttributesForFaceting, []string{"price"}) {
		t.Errorf("faceting = %v", plan.Settings.AttributesForFaceting)
	}
}

func TestCustomRanking(t *testing.T) {
	if got := CustomRanking(replica.SortReplica{FieldName: "Sale Price", IsDescending: true}); got != "desc(sale_price)" {
		t.Errorf("got %q", got)
	}
	if got := CustomRanking(replica.SortReplica{FieldName: "name"}); got != "asc(name)" {
		t.Errorf("got %q", got)
	}
}

func TestReconcile_MasterPlanNeverCarriesRanking(t *testing.T) {
	current := engine.Settings{
		Replicas:      []string{master + "_price_desc"},
		CustomRanking: []string{},
	}
	plan := Reconcile(Input{
		IndexName: master,
		Current:   current,
		Documents: []model.IndexDocument{
			doc("1", model.Field{Name: "color", Values: []any{"red"}, IsFilterable: true}),
		},
		Replicas: []replica.SortReplica{{FieldName: "price", IsDescending: true}},
	})
	if !plan.Changed || plan.ReplicasChanged {
		t.Fatalf("changed=%v replicasChanged=%v", plan.Changed, plan.ReplicasChanged)
	}
	if plan.Settings.CustomRanking != nil {
		t.Errorf("master ranking = %#v, want nil", plan.Settings.CustomRanking)
	}
	if current.CustomRanking == nil {
		t.Error("input settings were modified")
	}
}
