// Package settings reads platform settings the provider depends on.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Setting keys.
const (
	KeySortReplicas = "Search.AlgoliaSearch.SortReplicas"
	KeyVersion      = "Search.AlgoliaSearch.Version"
)

// Service tiers for KeyVersion.
const (
	VersionStandard = "Standard"
	VersionPremium  = "Premium"
)

// DefaultSortReplicas is used when KeySortReplicas is not set.
var DefaultSortReplicas = []string{
	"product:name-asc",
	"product:name-desc",
	"product:price-asc",
	"product:price-desc",
	"indexationdate_timestamp-desc",
}

// Source looks up raw JSON setting values.
type Source interface {
	Lookup(ctx context.Context, key string) (value []byte, found bool, err error)
}

// GetValue returns the setting stored under key decoded as T, or def when the key is unset.
func GetValue[T any](ctx context.Context, src Source, key string, def T) (T, error) {
	raw, found, err := src.Lookup(ctx, key)
	if err != nil {
		return def, fmt.Errorf("lookup %s: %w", key, err)
	}
	if !found {
		return def, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

// SortReplicas returns the configured replica rules.
func SortReplicas(ctx context.Context, src Source) ([]string, error) {
	return GetValue(ctx, src, KeySortReplicas, DefaultSortReplicas)
}

// IsPremium reports whether the configured tier supports virtual replicas.
func IsPremium(ctx context.Context, src Source) (bool, error) {
	v, err := GetValue(ctx, src, KeyVersion, VersionStandard)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(v, VersionPremium), nil
}
