package naming

import (
	"testing"

	"github.com/kailas-cloud/searchprovider/internal/domain/replica"
	"github.com/kailas-cloud/searchprovider/model"
)

func TestFieldName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"Name", "name"},
		{"  Display Name  ", "display_name"},
		{"Sale Price Usd", "sale_price_usd"},
		{"already_normal", "already_normal"},
		{"ÄÖÜ Field", "äöü_field"},
		{"a-b", "a-b"},
	}
	for _, tc := range tests {
		if got := FieldName(tc.in); got != tc.want {
			t.Errorf("FieldName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFieldName_Idempotent(t *testing.T) {
	inputs := []string{"", " ", "Name", "  Mixed Case  Field ", "tab\tfield", "x  y", "ALL CAPS"}
	for _, in := range inputs {
		once := FieldName(in)
		if twice := FieldName(once); twice != once {
			t.Errorf("FieldName not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestIndexName(t *testing.T) {
	if got := IndexName("Default", "Product"); got != "default-product" {
		t.Errorf("got %q", got)
	}
	if got := IndexName("", "member"); got != "-member" {
		t.Errorf("got %q", got)
	}
}

func TestSortedIndexName(t *testing.T) {
	const master = "default-product"
	tests := []struct {
		name    string
		sorting []model.SortingField
		want    string
	}{
		{"empty", nil, master},
		{"score", []model.SortingField{{FieldName: "score"}}, master},
		{"priority mixed case", []model.SortingField{{FieldName: " Priority", IsDescending: true}}, master},
		{"price desc", []model.SortingField{{FieldName: "price", IsDescending: true}}, master + "_price_desc"},
		{"name asc", []model.SortingField{{FieldName: "Name"}}, master + "_name_asc"},
		{"first only", []model.SortingField{
			{FieldName: "Sale Price"},
			{FieldName: "name", IsDescending: true},
		}, master + "_sale_price_asc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SortedIndexName(master, tc.sorting); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestReplicaName(t *testing.T) {
	const master = "default-product"

	r := replica.SortReplica{FieldName: "price", IsDescending: true, IsVirtual: true}
	if got := ReplicaName(master, r); got != master+"_virtual(price_desc)" {
		t.Errorf("virtual: got %q", got)
	}
	if got := ReplicaIndexName(master, r); got != master+"_price_desc" {
		t.Errorf("virtual index: got %q", got)
	}

	r = replica.SortReplica{FieldName: "Name"}
	if got := ReplicaName(master, r); got != master+"_name_asc" {
		t.Errorf("standard: got %q", got)
	}
}

func TestSortedIndexName_MatchesReplicaIndex(t *testing.T) {
	const master = "default-product"
	r := replica.SortReplica{FieldName: "price", IsDescending: true, IsVirtual: true}
	sorted := SortedIndexName(master, []model.SortingField{{FieldName: "Price", IsDescending: true}})
	if sorted != ReplicaIndexName(master, r) {
		t.Errorf("sorted %q != replica index %q", sorted, ReplicaIndexName(master, r))
	}
}
