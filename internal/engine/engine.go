// Package engine defines the hosted search engine client the provider drives.
package engine

import "context"

// IndexReader inspects indexes.
type IndexReader interface {
	IndexExists(ctx context.Context, name string) (bool, error)
	ListIndices(ctx context.Context) ([]IndexInfo, error)
	GetSettings(ctx context.Context, name string) (Settings, error)
}

// IndexWriter changes index configuration and lifecycle.
type IndexWriter interface {
	SetSettings(ctx context.Context, name string, settings Settings, forwardToReplicas bool) error
	DeleteIndex(ctx context.Context, name string) error
}

// ObjectWriter stores and removes records.
type ObjectWriter interface {
	SaveObjects(ctx context.Context, name string, objects []Object) (BatchResult, error)
	DeleteObjects(ctx context.Context, name string, ids []string) (BatchResult, error)
}

// Searcher executes batched queries.
type Searcher interface {
	Search(ctx context.Context, queries []Query) ([]QueryResult, error)
}

// Client is the full engine client.
type Client interface {
	IndexReader
	IndexWriter
	ObjectWriter
	Searcher
}

// Factory creates a Client. Called once per provider.
type Factory func() (Client, error)
