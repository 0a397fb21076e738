package engine

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchprovider/internal/metrics"
)

// Compile-time check: InstrumentedClient implements Client.
var _ Client = (*InstrumentedClient)(nil)

// InstrumentedClient wraps a Client with request metrics and debug logging.
type InstrumentedClient struct {
	inner  Client
	logger *zap.Logger
}

// NewInstrumentedClient wraps a client with observability.
func NewInstrumentedClient(inner Client, logger *zap.Logger) *InstrumentedClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedClient{inner: inner, logger: logger}
}

func (c *InstrumentedClient) observe(op string, start time.Time, err error, fields ...zap.Field) {
	duration := time.Since(start)
	status := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrIndexNotFound):
		status = "not_found"
	default:
		status = "error"
	}
	metrics.EngineRequestsTotal.WithLabelValues(op, status).Inc()
	metrics.EngineRequestDuration.WithLabelValues(op).Observe(duration.Seconds())

	fields = append(fields, zap.String("op", op), zap.Duration("duration", duration))
	if status == "error" {
		c.logger.Debug("Engine request failed", append(fields, zap.Error(err))...)
		return
	}
	c.logger.Debug("Engine request completed", fields...)
}

// IndexExists implements IndexReader.
func (c *InstrumentedClient) IndexExists(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	ok, err := c.inner.IndexExists(ctx, name)
	c.observe(OpIndexExists, start, err, zap.String("index", name), zap.Bool("exists", ok))
	return ok, err
}

// ListIndices implements IndexReader.
func (c *InstrumentedClient) ListIndices(ctx context.Context) ([]IndexInfo, error) {
	start := time.Now()
	out, err := c.inner.ListIndices(ctx)
	c.observe(OpListIndices, start, err, zap.Int("count", len(out)))
	return out, err
}

// GetSettings implements IndexReader.
func (c *InstrumentedClient) GetSettings(ctx context.Context, name string) (Settings, error) {
	start := time.Now()
	s, err := c.inner.GetSettings(ctx, name)
	c.observe(OpGetSettings, start, err, zap.String("index", name))
	return s, err
}

// SetSettings implements IndexWriter.
func (c *InstrumentedClient) SetSettings(ctx context.Context, name string, s Settings, forward bool) error {
	start := time.Now()
	err := c.inner.SetSettings(ctx, name, s, forward)
	c.observe(OpSetSettings, start, err, zap.String("index", name), zap.Bool("forward_to_replicas", forward))
	return err
}

// DeleteIndex implements IndexWriter.
func (c *InstrumentedClient) DeleteIndex(ctx context.Context, name string) error {
	start := time.Now()
	err := c.inner.DeleteIndex(ctx, name)
	c.observe(OpDeleteIndex, start, err, zap.String("index", name))
	return err
}

// SaveObjects implements ObjectWriter.
func (c *InstrumentedClient) SaveObjects(ctx context.Context, name string, objects []Object) (BatchResult, error) {
	start := time.Now()
	res, err := c.inner.SaveObjects(ctx, name, objects)
	c.observe(OpSaveObjects, start, err, zap.String("index", name), zap.Int("batch_size", len(objects)))
	return res, err
}

// DeleteObjects implements ObjectWriter.
func (c *InstrumentedClient) DeleteObjects(ctx context.Context, name string, ids []string) (BatchResult, error) {
	start := time.Now()
	res, err := c.inner.DeleteObjects(ctx, name, ids)
	c.observe(OpDeleteObjects, start, err, zap.String("index", name), zap.Int("batch_size", len(ids)))
	return res, err
}

// Search implements Searcher.
func (c *InstrumentedClient) Search(ctx context.Context, queries []Query) ([]QueryResult, error) {
	start := time.Now()
	res, err := c.inner.Search(ctx, queries)
	c.observe(OpSearch, start, err, zap.Int("queries", len(queries)))
	return res, err
}
