package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchprovider/internal/metrics"
)

type stubClient struct {
	exists    bool
	err       error
	saved     []Object
	forwarded bool
}

func (s *stubClient) IndexExists(_ context.Context, _ string) (bool, error) { return s.exists, s.err }
func (s *stubClient) ListIndices(_ context.Context) ([]IndexInfo, error) {
	return []IndexInfo{{Name: "a"}}, s.err
}
func (s *stubClient) GetSettings(_ context.Context, _ string) (Settings, error) {
	return Settings{Replicas: []string{"r"}}, s.err
}
func (s *stubClient) SetSettings(_ context.Context, _ string, _ Settings, fwd bool) error {
	s.forwarded = fwd
	return s.err
}
func (s *stubClient) DeleteIndex(_ context.Context, _ string) error { return s.err }
func (s *stubClient) SaveObjects(_ context.Context, _ string, objs []Object) (BatchResult, error) {
	s.saved = objs
	return BatchResult{Responses: []BatchResponse{{ObjectIDs: []string{"1"}}}}, s.err
}
func (s *stubClient) DeleteObjects(_ context.Context, _ string, ids []string) (BatchResult, error) {
	return BatchResult{Responses: []BatchResponse{{ObjectIDs: ids}}}, s.err
}
func (s *stubClient) Search(_ context.Context, q []Query) ([]QueryResult, error) {
	return make([]QueryResult, len(q)), s.err
}

func TestInstrumentedClient_DelegatesAndCounts(t *testing.T) {
	inner := &stubClient{exists: true}
	c := NewInstrumentedClient(inner, zap.NewNop())
	ctx := context.Background()

	before := testutil.ToFloat64(metrics.EngineRequestsTotal.WithLabelValues(OpSaveObjects, "success"))

	ok, err := c.IndexExists(ctx, "idx")
	if err != nil || !ok {
		t.Fatalf("IndexExists = %v, %v", ok, err)
	}
	res, err := c.SaveObjects(ctx, "idx", []Object{{"objectID": "1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inner.saved) != 1 || len(res.ObjectIDs()) != 1 {
		t.Errorf("save not delegated: saved=%v res=%v", inner.saved, res)
	}
	if err := c.SetSettings(ctx, "idx", Settings{}, true); err != nil || !inner.forwarded {
		t.Errorf("SetSettings not delegated: err=%v forwarded=%v", err, inner.forwarded)
	}
	results, err := c.Search(ctx, []Query{{IndexName: "idx"}, {IndexName: "idx"}})
	if err != nil || len(results) != 2 {
		t.Errorf("Search = %d results, %v", len(results), err)
	}

	after := testutil.ToFloat64(metrics.EngineRequestsTotal.WithLabelValues(OpSaveObjects, "success"))
	if after-before != 1 {
		t.Errorf("expected save_objects success counter +1, got %f", after-before)
	}
}

func TestInstrumentedClient_ErrorStatus(t *testing.T) {
	ctx := context.Background()

	boom := errors.New("boom")
	c := NewInstrumentedClient(&stubClient{err: boom}, nil)
	before := testutil.ToFloat64(metrics.EngineRequestsTotal.WithLabelValues(OpDeleteIndex, "error"))
	if err := c.DeleteIndex(ctx, "idx"); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.EngineRequestsTotal.WithLabelValues(OpDeleteIndex, "error")) - before; got != 1 {
		t.Errorf("expected delete_index error counter +1, got %f", got)
	}

	nf := &Error{Op: OpGetSettings, Err: ErrIndexNotFound}
	c = NewInstrumentedClient(&stubClient{err: nf}, nil)
	before = testutil.ToFloat64(metrics.EngineRequestsTotal.WithLabelValues(OpGetSettings, "not_found"))
	if _, err := c.GetSettings(ctx, "idx"); !errors.Is(err, ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.EngineRequestsTotal.WithLabelValues(OpGetSettings, "not_found")) - before; got != 1 {
		t.Errorf("expected get_settings not_found counter +1, got %f", got)
	}
}

func TestSettingsClone(t *testing.T) {
	s := Settings{SearchableAttributes: []string{"name"}, Replicas: []string{"r1"}}
	c := s.Clone()
	c.SearchableAttributes[0] = "changed"
	c.Replicas = append(c.Replicas, "r2")
	if s.SearchableAttributes[0] != "name" || len(s.Replicas) != 1 {
		t.Errorf("clone shares state with original: %+v", s)
	}
	if (Settings{}).Clone().SearchableAttributes != nil {
		t.Error("nil slices should stay nil")
	}
}

func TestError(t *testing.T) {
	err := &Error{Op: OpSearch, Err: ErrIndexNotFound}
	if err.Error() != "search: engine: index not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrIndexNotFound) {
		t.Error("expected errors.Is to match ErrIndexNotFound")
	}
}
