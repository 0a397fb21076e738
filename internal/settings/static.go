package settings

import (
	"context"
	"encoding/json"
	"fmt"
)

// Compile-time check: Static implements Source.
var _ Source = Static(nil)

// Static serves settings from an in-memory map, typically loaded from the config file.
type Static map[string]any

// Lookup implements Source.
func (s Static) Lookup(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s[key]
	if !ok || v == nil {
		return nil, false, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, false, fmt.Errorf("encode %s: %w", key, err)
	}
	return raw, true, nil
}
