package searchprovider

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchprovider/internal/codec"
	"github.com/kailas-cloud/searchprovider/internal/domain"
	"github.com/kailas-cloud/searchprovider/internal/domain/replica"
	"github.com/kailas-cloud/searchprovider/internal/engine"
	"github.com/kailas-cloud/searchprovider/internal/engine/algolia"
	"github.com/kailas-cloud/searchprovider/internal/indexsettings"
	logpkg "github.com/kailas-cloud/searchprovider/internal/logger"
	"github.com/kailas-cloud/searchprovider/internal/metrics"
	"github.com/kailas-cloud/searchprovider/internal/naming"
	"github.com/kailas-cloud/searchprovider/internal/query"
	"github.com/kailas-cloud/searchprovider/internal/response"
	"github.com/kailas-cloud/searchprovider/internal/settings"
	"github.com/kailas-cloud/searchprovider/model"
)

// Provider implements index, remove, search and delete-index for document types.
// It is safe for concurrent use. Concurrent Index calls for the same document
// type may race on the read-modify-write of index settings; serialize them if
// settings consistency matters.
type Provider struct {
	appID    string
	scope    string
	settings settings.Source
	factory  engine.Factory
	logger   *zap.Logger

	mu     sync.Mutex
	client engine.Client
}

// New creates a Provider. The engine client is created on first use.
func New(opts ...Option) (*Provider, error) {
	cfg := &providerConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.appID == "" {
		return nil, fmt.Errorf("%w: app id is required", domain.ErrConfiguration)
	}
	if cfg.settings == nil {
		return nil, fmt.Errorf("%w: settings source is required", domain.ErrConfiguration)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.factory == nil {
		if cfg.apiKey == "" {
			return nil, fmt.Errorf("%w: api key is required", domain.ErrConfiguration)
		}
		algoliaCfg := algolia.Config{AppID: cfg.appID, APIKey: cfg.apiKey}
		logger := cfg.logger
		cfg.factory = func() (engine.Client, error) {
			c, err := algolia.NewClient(algoliaCfg)
			if err != nil {
				return nil, err
			}
			return engine.NewInstrumentedClient(c, logger), nil
		}
	}

	return &Provider{
		appID:    cfg.appID,
		scope:    cfg.scope,
		settings: cfg.settings,
		factory:  cfg.factory,
		logger:   cfg.logger,
	}, nil
}

func (p *Provider) engineClient() (engine.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	// A failed construction is not cached; the next call retries.
	c, err := p.factory()
	if err != nil {
		return nil, err
	}
	p.client = c
	return c, nil
}

// log returns the request-scoped logger carried by ctx, or the provider logger.
func (p *Provider) log(ctx context.Context) *zap.Logger {
	return logpkg.FromContextOr(ctx, p.logger)
}

func (p *Provider) fail(ctx context.Context, message string, err error, fields ...zap.Field) error {
	fields = append(fields,
		zap.String("app_id", p.appID),
		zap.String("scope", p.scope),
		zap.Error(err),
	)
	p.log(ctx).Error(message, fields...)
	return domain.NewSearchError(message, p.appID, p.scope, err)
}

func (p *Provider) indexName(documentType string) string {
	return naming.IndexName(p.scope, documentType)
}

// DeleteIndex removes the master index of documentType. A missing index is not an error.
func (p *Provider) DeleteIndex(ctx context.Context, documentType string) error {
	if documentType == "" {
		return fmt.Errorf("%w: document type is required", domain.ErrInvalidArgument)
	}
	const msg = "Failed to delete index"
	name := p.indexName(documentType)
	fields := []zap.Field{zap.String("document_type", documentType), zap.String("index", name)}

	client, err := p.engineClient()
	if err != nil {
		return p.fail(ctx, msg, err, fields...)
	}

	exists, err := client.IndexExists(ctx, name)
	if err != nil {
		return p.fail(ctx, msg, err, fields...)
	}
	if !exists {
		return nil
	}
	if err := client.DeleteIndex(ctx, name); err != nil {
		if errors.Is(err, engine.ErrIndexNotFound) {
			return nil
		}
		return p.fail(ctx, msg, err, fields...)
	}
	p.log(ctx).Info("Index deleted", fields...)
	return nil
}

// Index reconciles index settings with the documents and upserts them.
// Settings failures are returned as errors. A failed upsert is reported in the
// result with every document marked failed and a nil error.
func (p *Provider) Index(
	ctx context.Context, documentType string, documents []model.IndexDocument,
) (*model.IndexingResult, error) {
	if documentType == "" {
		return nil, fmt.Errorf("%w: document type is required", domain.ErrInvalidArgument)
	}
	name := p.indexName(documentType)
	fields := []zap.Field{zap.String("document_type", documentType), zap.String("index", name)}

	client, err := p.engineClient()
	if err != nil {
		return nil, p.fail(ctx, "Failed to index documents", err, fields...)
	}

	if err := p.reconcileSettings(ctx, client, documentType, name, documents); err != nil {
		return nil, err
	}

	if len(documents) == 0 {
		return &model.IndexingResult{}, nil
	}

	objects := make([]engine.Object, 0, len(documents))
	for _, doc := range documents {
		objects = append(objects, codec.ToProviderDocument(doc))
	}

	res, err := client.SaveObjects(ctx, name, objects)
	if err != nil {
		p.log(ctx).Error("Failed to save documents",
			append(fields, zap.Int("batch_size", len(documents)), zap.Error(err))...)
		metrics.IndexedDocumentsTotal.WithLabelValues(documentType, "failed").Add(float64(len(documents)))
		return failedResult(documents, err), nil
	}

	ids := res.ObjectIDs()
	metrics.IndexedDocumentsTotal.WithLabelValues(documentType, "succeeded").Add(float64(len(ids)))
	return succeededResult(ids), nil
}

func (p *Provider) reconcileSettings(
	ctx context.Context, client engine.Client, documentType, name string, documents []model.IndexDocument,
) error {
	fields := []zap.Field{zap.String("document_type", documentType), zap.String("index", name)}

	current, err := p.currentSettings(ctx, client, name)
	if err != nil {
		return p.fail(ctx, "Failed to read index settings", err, fields...)
	}

	replicas, err := p.sortReplicas(ctx, documentType)
	if err != nil {
		return p.fail(ctx, "Failed to read sort replica settings", err, fields...)
	}

	plan := indexsettings.Reconcile(indexsettings.Input{
		IndexName: name,
		Current:   current,
		Documents: documents,
		Replicas:  replicas,
	})

	if plan.ReplicasChanged {
		for _, u := range plan.ReplicaUpdates {
			if err := client.SetSettings(ctx, u.IndexName, u.Settings, false); err != nil {
				return p.fail(ctx, "Failed to update replica settings", err,
					append(fields, zap.String("replica", u.IndexName))...)
			}
		}
	}
	if plan.Changed {
		if err := client.SetSettings(ctx, name, plan.Settings, true); err != nil {
			return p.fail(ctx, "Failed to update index settings", err, fields...)
		}
		p.log(ctx).Info("Index settings updated",
			append(fields, zap.Bool("replicas_changed", plan.ReplicasChanged))...)
	}
	return nil
}

func (p *Provider) currentSettings(ctx context.Context, client engine.Client, name string) (engine.Settings, error) {
	exists, err := client.IndexExists(ctx, name)
	if err != nil {
		return engine.Settings{}, err
	}
	if !exists {
		return engine.Settings{}, nil
	}
	s, err := client.GetSettings(ctx, name)
	if err != nil {
		if errors.Is(err, engine.ErrIndexNotFound) {
			return engine.Settings{}, nil
		}
		return engine.Settings{}, err
	}
	return s, nil
}

func (p *Provider) sortReplicas(ctx context.Context, documentType string) ([]replica.SortReplica, error) {
	entries, err := settings.SortReplicas(ctx, p.settings)
	if err != nil {
		return nil, err
	}
	premium, err := settings.IsPremium(ctx, p.settings)
	if err != nil {
		return nil, err
	}
	replicas, errs := replica.ForDocumentType(entries, documentType, premium, naming.FieldName)
	for _, e := range errs {
		p.log(ctx).Warn("Skipping malformed sort replica rule",
			zap.String("document_type", documentType), zap.Error(e))
	}
	return replicas, nil
}

func failedResult(documents []model.IndexDocument, err error) *model.IndexingResult {
	items := make([]model.IndexingResultItem, 0, len(documents))
	for _, d := range documents {
		items = append(items, model.IndexingResultItem{ID: d.ID, Succeeded: false, ErrorMessage: err.Error()})
	}
	return &model.IndexingResult{Items: items}
}

func succeededResult(ids []string) *model.IndexingResult {
	items := make([]model.IndexingResultItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, model.IndexingResultItem{ID: id, Succeeded: true})
	}
	return &model.IndexingResult{Items: items}
}

// Remove deletes documents by id from the master index of documentType.
func (p *Provider) Remove(
	ctx context.Context, documentType string, documents []model.IndexDocument,
) (*model.IndexingResult, error) {
	if documentType == "" {
		return nil, fmt.Errorf("%w: document type is required", domain.ErrInvalidArgument)
	}
	const msg = "Failed to remove documents"
	name := p.indexName(documentType)
	fields := []zap.Field{zap.String("document_type", documentType), zap.String("index", name)}

	if len(documents) == 0 {
		return &model.IndexingResult{}, nil
	}

	client, err := p.engineClient()
	if err != nil {
		return nil, p.fail(ctx, msg, err, fields...)
	}

	ids := make([]string, 0, len(documents))
	for _, d := range documents {
		ids = append(ids, d.ID)
	}

	res, err := client.DeleteObjects(ctx, name, ids)
	if err != nil {
		return nil, p.fail(ctx, msg, err, append(fields, zap.Int("batch_size", len(ids)))...)
	}
	if removed := res.ObjectIDs(); len(removed) > 0 {
		return succeededResult(removed), nil
	}
	return succeededResult(ids), nil
}

// Search runs req against the index matching its first sort field, falling
// back to the master index. A missing master index yields an empty response.
func (p *Provider) Search(
	ctx context.Context, documentType string, req *model.SearchRequest,
) (*model.SearchResponse, error) {
	if documentType == "" {
		return nil, fmt.Errorf("%w: document type is required", domain.ErrInvalidArgument)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: search request is required", domain.ErrInvalidArgument)
	}
	const msg = "Failed to search documents"
	master := p.indexName(documentType)
	fields := []zap.Field{zap.String("document_type", documentType), zap.String("index", master)}

	client, err := p.engineClient()
	if err != nil {
		return nil, p.fail(ctx, msg, err, fields...)
	}

	target, err := p.resolveSearchIndex(ctx, client, documentType, master, req.Sorting)
	if err != nil {
		return nil, p.fail(ctx, msg, err, fields...)
	}
	if target == "" {
		return response.Empty(), nil
	}

	results, err := client.Search(ctx, query.Build(target, req))
	if err != nil {
		if errors.Is(err, engine.ErrIndexNotFound) {
			return response.Empty(), nil
		}
		return nil, p.fail(ctx, msg, err, append(fields, zap.String("target", target))...)
	}
	return response.Assemble(results, req), nil
}

// backsVirtualReplica reports whether name is the physical index that only
// holds the ranking of a configured virtual replica. Such an index has no records.
func (p *Provider) backsVirtualReplica(ctx context.Context, documentType, master, name string) bool {
	replicas, err := p.sortReplicas(ctx, documentType)
	if err != nil {
		p.log(ctx).Warn("Failed to read sort replica settings", zap.String("document_type", documentType), zap.Error(err))
		return false
	}
	for _, r := range replicas {
		if r.IsVirtual && naming.ReplicaIndexName(master, r) == name {
			return true
		}
	}
	return false
}

// resolveSearchIndex returns the sorted replica when it exists, else the master
// index, else "".
func (p *Provider) resolveSearchIndex(
	ctx context.Context, client engine.Client, documentType, master string, sorting []model.SortingField,
) (string, error) {
	sorted := naming.SortedIndexName(master, sorting)
	if sorted != master {
		exists := false
		if !p.backsVirtualReplica(ctx, documentType, master, sorted) {
			var err error
			exists, err = client.IndexExists(ctx, sorted)
			if err != nil {
				return "", err
			}
		}
		if exists {
			return sorted, nil
		}
		p.log(ctx).Info("Sorted index not found, using master index",
			zap.String("document_type", documentType),
			zap.String("sorted_index", sorted),
			zap.String("index", master),
		)
		metrics.SortFallbackTotal.WithLabelValues(documentType).Inc()
	}

	exists, err := client.IndexExists(ctx, master)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", nil
	}
	return master, nil
}
