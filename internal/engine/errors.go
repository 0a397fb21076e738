package engine

import "errors"

// Sentinel errors for engine operations.
var (
	ErrIndexNotFound = errors.New("engine: index not found")
)

// Op names used for error context and metrics labels.
const (
	OpIndexExists   = "index_exists"
	OpListIndices   = "list_indices"
	OpGetSettings   = "get_settings"
	OpSetSettings   = "set_settings"
	OpDeleteIndex   = "delete_index"
	OpSaveObjects   = "save_objects"
	OpDeleteObjects = "delete_objects"
	OpSearch        = "search"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
