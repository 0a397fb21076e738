package searchprovider

import "github.com/kailas-cloud/searchprovider/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrConfiguration   = domain.ErrConfiguration
	ErrInvalidArgument = domain.ErrInvalidArgument
	ErrSearch          = domain.ErrSearch
)

// SearchError is returned for failures of the hosted search service.
// Use errors.As() to read the service context.
type SearchError = domain.SearchError
