// Package algolia implements engine.Client on top of the Algolia Go API client.
package algolia

import (
	"context"
	"fmt"
	"net/http"

	"github.com/algolia/algoliasearch-client-go/v3/algolia/errs"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/opt"
	"github.com/algolia/algoliasearch-client-go/v3/algolia/search"

	"github.com/kailas-cloud/searchprovider/internal/engine"
)

// Compile-time check: Client implements engine.Client.
var _ engine.Client = (*Client)(nil)

// Config holds the application credentials.
type Config struct {
	AppID  string
	APIKey string
}

// multiQueryStrategy runs every query of a batch regardless of earlier results.
const multiQueryStrategy = "none"

// indexAPI is the subset of *search.Index the client uses.
type indexAPI interface {
	GetSettings(opts ...interface{}) (search.Settings, error)
	SetSettings(settings search.Settings, opts ...interface{}) (search.UpdateTaskRes, error)
	SaveObjects(objects interface{}, opts ...interface{}) (search.GroupBatchRes, error)
	DeleteObjects(objectIDs []string, opts ...interface{}) (search.BatchRes, error)
	Delete(opts ...interface{}) (search.DeleteTaskRes, error)
}

// serviceAPI is the subset of *search.Client the client uses.
type serviceAPI interface {
	index(name string) indexAPI
	ListIndices(opts ...interface{}) (search.ListIndicesRes, error)
	MultipleQueries(queries []search.IndexedQuery, strategy string, opts ...interface{}) (search.MultipleQueriesRes, error)
}

var (
	_ indexAPI   = (*search.Index)(nil)
	_ serviceAPI = sdkService{}
)

type sdkService struct {
	*search.Client
}

func (s sdkService) index(name string) indexAPI { return s.InitIndex(name) }

// Client implements engine.Client for Algolia.
type Client struct {
	api serviceAPI
}

// NewClient creates an Algolia client. It does not contact the service.
func NewClient(cfg Config) (*Client, error) {
	if cfg.AppID == "" {
		return nil, fmt.Errorf("app id is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	return &Client{api: sdkService{search.NewClient(cfg.AppID, cfg.APIKey)}}, nil
}

func isNotFound(err error) bool {
	_, ok := errs.IsAlgoliaErrWithCode(err, http.StatusNotFound)
	return ok
}

func wrap(op string, err error) error {
	if isNotFound(err) {
		return &engine.Error{Op: op, Err: fmt.Errorf("%w: %w", engine.ErrIndexNotFound, err)}
	}
	return &engine.Error{Op: op, Err: err}
}

// IndexExists reports whether the index has been created.
func (c *Client) IndexExists(ctx context.Context, name string) (bool, error) {
	_, err := c.api.index(name).GetSettings(ctx)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, &engine.Error{Op: engine.OpIndexExists, Err: err}
}

// ListIndices returns every index of the application.
func (c *Client) ListIndices(ctx context.Context) ([]engine.IndexInfo, error) {
	res, err := c.api.ListIndices(ctx)
	if err != nil {
		return nil, wrap(engine.OpListIndices, err)
	}
	out := make([]engine.IndexInfo, 0, len(res.Items))
	for _, it := range res.Items {
		out = append(out, engine.IndexInfo{Name: it.Name, Entries: int64(it.Entries)})
	}
	return out, nil
}

// GetSettings fetches the index configuration.
func (c *Client) GetSettings(ctx context.Context, name string) (engine.Settings, error) {
	s, err := c.api.index(name).GetSettings(ctx)
	if err != nil {
		return engine.Settings{}, wrap(engine.OpGetSettings, err)
	}
	return fromSDKSettings(s), nil
}

// SetSettings pushes attribute, replica and ranking settings.
func (c *Client) SetSettings(ctx context.Context, name string, s engine.Settings, forwardToReplicas bool) error {
	_, err := c.api.index(name).SetSettings(toSDKSettings(s), opt.ForwardToReplicas(forwardToReplicas), ctx)
	if err != nil {
		return wrap(engine.OpSetSettings, err)
	}
	return nil
}

// DeleteIndex removes the index.
func (c *Client) DeleteIndex(ctx context.Context, name string) error {
	if _, err := c.api.index(name).Delete(ctx); err != nil {
		return wrap(engine.OpDeleteIndex, err)
	}
	return nil
}

// SaveObjects upserts records by objectID.
func (c *Client) SaveObjects(ctx context.Context, name string, objects []engine.Object) (engine.BatchResult, error) {
	records := make([]map[string]any, len(objects))
	for i, o := range objects {
		records[i] = o
	}
	res, err := c.api.index(name).SaveObjects(records, ctx)
	if err != nil {
		return engine.BatchResult{}, wrap(engine.OpSaveObjects, err)
	}
	return fromGroupBatch(res), nil
}

// DeleteObjects removes records by objectID.
func (c *Client) DeleteObjects(ctx context.Context, name string, ids []string) (engine.BatchResult, error) {
	res, err := c.api.index(name).DeleteObjects(ids, ctx)
	if err != nil {
		return engine.BatchResult{}, wrap(engine.OpDeleteObjects, err)
	}
	return fromBatch(res), nil
}

// Search runs all queries in one multi-query call. Results keep query order.
func (c *Client) Search(ctx context.Context, queries []engine.Query) ([]engine.QueryResult, error) {
	if len(queries) == 0 {
		return nil, nil
	}
	indexed := make([]search.IndexedQuery, 0, len(queries))
	for _, q := range queries {
		indexed = append(indexed, toIndexedQuery(q))
	}
	res, err := c.api.MultipleQueries(indexed, multiQueryStrategy, ctx)
	if err != nil {
		return nil, wrap(engine.OpSearch, err)
	}
	out := make([]engine.QueryResult, 0, len(res.Results))
	for i := range res.Results {
		out = append(out, fromQueryRes(res.Results[i].QueryRes))
	}
	return out, nil
}
