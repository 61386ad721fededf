package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeIndex records batches and serves scripted errors per call.
type fakeIndex struct {
	mu      sync.Mutex
	batches [][]Document
	errs    []error
	calls   int
}

func (f *fakeIndex) PartialUpdateBatch(_ context.Context, docs []Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.batches = append(f.batches, docs)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return err
	}
	return nil
}

func (f *fakeIndex) ObjectCount(context.Context) (int, error) {
	return 0, nil
}

func testDispatcher(idx IndexClient, mutate func(*Config)) *Dispatcher {
	cfg := Config{BatchSize: 2, Workers: 1, MaxRetries: 3, BackoffBaseMs: 1}
	if mutate != nil {
		mutate(&cfg)
	}
	d := NewDispatcher(cfg, idx, zap.NewNop())
	d.sleep = func(context.Context, time.Duration) error { return nil }
	return d
}

func docsNamed(ids ...string) []Document {
	docs := make([]Document, len(ids))
	for i, id := range ids {
		docs[i] = Document{ObjectID: id, Name: id}
	}
	return docs
}

func TestDispatch_BatchesAndCounts(t *testing.T) {
	idx := &fakeIndex{}
	report, err := testDispatcher(idx, nil).Dispatch(context.Background(), docsNamed("A", "B", "C"))

	require.NoError(t, err)
	assert.Equal(t, 3, report.Documents)
	assert.Equal(t, 2, report.Batches)
	assert.Equal(t, 3, report.Upserted)
	assert.Equal(t, 0, report.Failed)
	assert.Greater(t, report.Elapsed, time.Duration(0))
	assert.Equal(t, 2, idx.calls)
}

func TestDispatch_DedupeKeepsLastOccurrence(t *testing.T) {
	idx := &fakeIndex{}
	docs := docsNamed("A", "B", "A")
	docs[2].Name = "A-final"

	report, err := testDispatcher(idx, nil).Dispatch(context.Background(), docs)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Deduped)
	assert.Equal(t, 2, report.Upserted)
	require.Len(t, idx.batches, 1)
	assert.Equal(t, "A-final", idx.batches[0][0].Name)
	assert.Equal(t, "B", idx.batches[0][1].Name)
}

func TestDispatch_RetriesTransientFailures(t *testing.T) {
	idx := &fakeIndex{errs: []error{
		&APIError{Status: 503, Message: "unavailable"},
		&APIError{Status: 429, Message: "slow down"},
	}}

	report, err := testDispatcher(idx, nil).Dispatch(context.Background(), docsNamed("A"))

	require.NoError(t, err)
	assert.Equal(t, 1, report.Upserted)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 2, report.Retries)
	assert.Equal(t, 3, idx.calls)
}

func TestDispatch_PermanentFailureIsNotRetried(t *testing.T) {
	idx := &fakeIndex{errs: []error{
		&APIError{Status: 400, Message: "bad request"},
	}}

	report, err := testDispatcher(idx, nil).Dispatch(context.Background(), docsNamed("A", "B", "C"))

	require.NoError(t, err)
	// First batch of two fails once and is never retried; the second
	// batch still goes out.
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, 1, report.Upserted)
	assert.Equal(t, 0, report.Retries)
	assert.Equal(t, 2, idx.calls)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "status 400")
}

func TestDispatch_ExhaustedRetriesFailTheBatch(t *testing.T) {
	idx := &fakeIndex{errs: []error{
		&APIError{Status: 500, Message: "boom"},
		&APIError{Status: 500, Message: "boom"},
		&APIError{Status: 500, Message: "boom"},
	}}

	report, err := testDispatcher(idx, func(c *Config) { c.MaxRetries = 2 }).
		Dispatch(context.Background(), docsNamed("A"))

	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 2, report.Retries)
	assert.Equal(t, 3, idx.calls)
}

func TestDispatch_CancellationStopsEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	idx := &fakeIndex{}
	_, err := testDispatcher(idx, nil).Dispatch(ctx, docsNamed("A", "B", "C"))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDispatch_EmptyInput(t *testing.T) {
	idx := &fakeIndex{}
	report, err := testDispatcher(idx, nil).Dispatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 0, report.Batches)
	assert.Equal(t, 0, idx.calls)
}
